package components

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/vrtypes/internal/testutil"
	"github.com/banshee-data/vrtypes/internal/types"
	"github.com/banshee-data/vrtypes/internal/types/datatypes"
)

func TestRename_SharesDatatype(t *testing.T) {
	tests := []struct {
		name  string
		got   arrow.DataType
		want  arrow.DataType
		named string
	}{
		{"position", Position3DLoggable.ArrowDatatype(), datatypes.Vec3DLoggable.ArrowDatatype(), Position3DLoggable.Name()},
		{"color", ColorLoggable.ArrowDatatype(), arrow.PrimitiveTypes.Uint32, ColorLoggable.Name()},
		{"transform", Transform3DLoggable.ArrowDatatype(), datatypes.Transform3DLoggable.ArrowDatatype(), Transform3DLoggable.Name()},
		{"scalar", ScalarLoggable.ArrowDatatype(), arrow.PrimitiveTypes.Float64, ScalarLoggable.Name()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, arrow.TypeEqual(tt.want, tt.got), "%s vs %s", tt.want, tt.got)
			assert.Regexp(t, `^vr\.components\.`, tt.named)
		})
	}
}

func TestPosition3D_RoundTrip(t *testing.T) {
	mem := testutil.NewCheckedAllocator(t)
	in := []Position3D{{1, 2, 3}, {-4, 5.5, 0}}

	arr, err := types.ToArrow(mem, Position3DLoggable, in)
	require.NoError(t, err)
	defer arr.Release()

	out, err := Position3DLoggable.FromArrow(arr)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, datatypes.Vec3D{1, 2, 3}, out[0].Vec3D())
}

func TestLineStrip3D_RoundTrip(t *testing.T) {
	mem := testutil.NewCheckedAllocator(t)
	in := []LineStrip3D{{{0, 0, 0}, {1, 1, 1}}, {}, {{2, 2, 2}}}

	arr, err := types.ToArrow(mem, LineStrip3DLoggable, in)
	require.NoError(t, err)
	defer arr.Release()
	assert.Equal(t, 3, arr.Len())

	out, err := LineStrip3DLoggable.FromArrow(arr)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, in[0], out[0])
	assert.Empty(t, out[1])
	assert.Equal(t, in[2], out[2])
}

func TestBlob_RoundTrip(t *testing.T) {
	mem := testutil.NewCheckedAllocator(t)
	in := []Blob{[]byte("glTF"), []byte{0, 1, 2}}

	arr, err := types.ToArrow(mem, BlobLoggable, in)
	require.NoError(t, err)
	defer arr.Release()

	out, err := BlobLoggable.FromArrow(arr)
	require.NoError(t, err)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("blob mismatch (-want +got):\n%s", diff)
	}
}

func TestText_Optional(t *testing.T) {
	mem := testutil.NewCheckedAllocator(t)
	warn := LevelWarn
	in := []*TextLogLevel{&warn, nil}

	arr, err := types.ToArrowOpt(mem, TextLogLevelLoggable, in)
	require.NoError(t, err)
	defer arr.Release()
	assert.Equal(t, 1, arr.NullN())

	out, err := TextLogLevelLoggable.FromArrowOpt(arr)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, LevelWarn, *out[0])
	assert.Nil(t, out[1])
}

func TestEnums_Rejected(t *testing.T) {
	mem := testutil.NewCheckedAllocator(t)

	_, err := types.ToArrow(mem, FillModeLoggable, []FillMode{FillModeSolid, 0})
	assert.ErrorIs(t, err, types.ErrInvalidEnum)

	_, err = types.ToArrow(mem, MarkerShapeLoggable, []MarkerShape{MarkerAsterisk + 1})
	assert.ErrorIs(t, err, types.ErrInvalidEnum)

	arr, err := types.ToArrow(mem, MarkerShapeLoggable, []MarkerShape{MarkerCircle, MarkerRight})
	require.NoError(t, err)
	defer arr.Release()
	assert.True(t, arrow.TypeEqual(arrow.PrimitiveTypes.Uint8, arr.DataType()))
}

func TestViewCoordinates(t *testing.T) {
	tests := []struct {
		v     ViewCoordinates
		valid bool
		str   string
	}{
		{ViewCoordinatesRDF, true, "RDF"},
		{ViewCoordinatesRUB, true, "RUB"},
		{ViewCoordinatesFLU, true, "FLU"},
		{ViewCoordinates{ViewRight, ViewLeft, ViewUp}, false, "RLU"},
		{ViewCoordinates{ViewUp, 0, ViewBack}, false, "U?B"},
		{ViewCoordinates{9, ViewDown, ViewBack}, false, "?DB"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.v.Valid())
			assert.Equal(t, tt.str, tt.v.String())
		})
	}
}

func TestViewCoordinates_Loggable(t *testing.T) {
	mem := testutil.NewCheckedAllocator(t)

	arr, err := types.ToArrow(mem, ViewCoordinatesLoggable, []ViewCoordinates{ViewCoordinatesRDF, ViewCoordinatesFLU})
	require.NoError(t, err)
	defer arr.Release()
	got, err := ViewCoordinatesLoggable.FromArrow(arr)
	require.NoError(t, err)
	assert.Equal(t, []ViewCoordinates{ViewCoordinatesRDF, ViewCoordinatesFLU}, got)

	for _, bad := range []ViewCoordinates{{}, {ViewUp, ViewUp, ViewUp}} {
		_, err := types.ToArrow(mem, ViewCoordinatesLoggable, []ViewCoordinates{ViewCoordinatesRUB, bad})
		assert.ErrorIs(t, err, types.ErrInvalidEnum, "encode %s", bad)

		raw := types.NewUint8FixedSizeLoggable[ViewCoordinates]("raw", 3)
		arr, err := types.ToArrow(mem, raw, []ViewCoordinates{bad})
		require.NoError(t, err)
		_, err = ViewCoordinatesLoggable.FromArrow(arr)
		assert.ErrorIs(t, err, types.ErrInvalidEnum, "decode %s", bad)
		_, err = ViewCoordinatesLoggable.FromArrowOpt(arr)
		assert.ErrorIs(t, err, types.ErrInvalidEnum, "decode opt %s", bad)
		arr.Release()
	}
}

func TestColor(t *testing.T) {
	c := ColorRGB(0x12, 0x34, 0x56)
	assert.Equal(t, "#123456ff", c.String())
	assert.Equal(t, Color(0x123456ff), c)
}

func TestTransform3D_Mat4x4(t *testing.T) {
	tr := Transform3D(datatypes.TransformFromTranslation(datatypes.Vec3D{1, 2, 3}))
	m := tr.Mat4x4()
	assert.Equal(t, float32(1), m.At(0, 3))
	assert.Equal(t, float32(2), m.At(1, 3))
	assert.Equal(t, float32(3), m.At(2, 3))
	assert.Equal(t, float32(1), m.At(0, 0))
}

func TestMediaWrappers(t *testing.T) {
	u8 := datatypes.ChannelU8
	rgb := datatypes.ColorModelRGB
	f := ImageFormat{Width: 2, Height: 2, ColorModel: &rgb, ChannelDatatype: &u8}
	assert.Equal(t, 12, f.NumBytes())

	td := TensorData{
		Shape:  []datatypes.TensorDimension{{Size: 5}},
		Buffer: datatypes.TensorBuffer{Kind: datatypes.TensorBufferU8, U8: []uint8{1, 2}},
	}
	assert.ErrorIs(t, td.Validate(), datatypes.ErrShapeMismatch)
}
