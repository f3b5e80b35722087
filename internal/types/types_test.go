package types

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/vrtypes/internal/testutil"
)

type testScalar float32
type testLabel string
type testVec [3]float32
type testStrip []testVec
type testKind uint8
type testAlias testVec

type testPoint struct {
	X     float32
	Label *string
}

var (
	scalarL = NewFloat32Loggable[testScalar]("test.Scalar")
	labelL  = NewStringLoggable[testLabel]("test.Label")
	vecL    = NewFloat32FixedSizeLoggable[testVec]("test.Vec", 3)
	stripL  = NewListLoggable[testStrip]("test.Strip", vecL)
	kindL   = NewEnumLoggable("test.Kind", func(k testKind) bool { return k >= 1 && k <= 3 })
	aliasL  = Rename[testAlias]("test.Alias", vecL)

	xL    = NewFloat32Loggable[float32]("test.x")
	textL = NewStringLoggable[string]("test.text")

	pointType = arrow.StructOf(Required("x", arrow.PrimitiveTypes.Float32), Optional("label", arrow.BinaryTypes.String))
	pointL    = NewCompositeLoggable("test.Point", pointType, fillPoint, decodePoint)
)

func fillPoint(b array.Builder, elems []*testPoint) error {
	sb, err := BuilderAs[*array.StructBuilder](b)
	if err != nil {
		return err
	}
	for _, e := range elems {
		if e == nil {
			sb.AppendNull()
			continue
		}
		sb.Append(true)
		if err := AppendOne(xL, sb.FieldBuilder(0), e.X); err != nil {
			return err
		}
		if err := AppendMaybe(textL, sb.FieldBuilder(1), e.Label); err != nil {
			return err
		}
	}
	return nil
}

func decodePoint(arr arrow.Array) ([]*testPoint, error) {
	st, err := ArrayAs[*array.Struct](arr)
	if err != nil {
		return nil, err
	}
	xs, err := DecodeField(st, "x", xL)
	if err != nil {
		return nil, err
	}
	labels, err := DecodeField(st, "label", textL)
	if err != nil {
		return nil, err
	}
	out := make([]*testPoint, st.Len())
	for i := range out {
		if st.IsNull(i) {
			continue
		}
		x, err := Require(xs, "x", i)
		if err != nil {
			return nil, err
		}
		out[i] = &testPoint{X: x, Label: labels[i]}
	}
	return out, nil
}

func ptr[T any](v T) *T { return &v }

func TestPrimitive_RoundTrip(t *testing.T) {
	mem := testutil.NewCheckedAllocator(t)
	in := []testScalar{1.5, -2, 0}

	arr, err := ToArrow(mem, scalarL, in)
	require.NoError(t, err)
	defer arr.Release()
	assert.True(t, arrow.TypeEqual(arrow.PrimitiveTypes.Float32, arr.DataType()))
	assert.Equal(t, 0, arr.NullN())

	out, err := scalarL.FromArrow(arr)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestPrimitive_Optional(t *testing.T) {
	mem := testutil.NewCheckedAllocator(t)
	in := []*testLabel{ptr(testLabel("a")), nil, ptr(testLabel(""))}

	arr, err := ToArrowOpt(mem, labelL, in)
	require.NoError(t, err)
	defer arr.Release()
	assert.Equal(t, 1, arr.NullN())

	out, err := labelL.FromArrowOpt(arr)
	require.NoError(t, err)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("optional round trip mismatch (-want +got):\n%s", diff)
	}

	_, err = labelL.FromArrow(arr)
	assert.ErrorIs(t, err, ErrMissingRequired)
	var ce *CodecError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, OpDeserialize, ce.Op)
	assert.Equal(t, "test.Label", ce.Name)
	assert.Contains(t, err.Error(), "index 1")
}

func TestFixedSize_RoundTrip(t *testing.T) {
	mem := testutil.NewCheckedAllocator(t)
	in := []testVec{{1, 2, 3}, {4, 5, 6}}

	arr, err := ToArrow(mem, vecL, in)
	require.NoError(t, err)
	defer arr.Release()
	assert.True(t, arrow.TypeEqual(FixedSizeListOf(3, arrow.PrimitiveTypes.Float32), arr.DataType()))

	out, err := vecL.FromArrow(arr)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	opt, err := ToArrowOpt(mem, vecL, []*testVec{nil, &in[1]})
	require.NoError(t, err)
	defer opt.Release()
	got, err := vecL.FromArrowOpt(opt)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Nil(t, got[0])
	assert.Equal(t, in[1], *got[1])
}

func TestFixedSize_Slice(t *testing.T) {
	mem := testutil.NewCheckedAllocator(t)
	arr, err := ToArrow(mem, vecL, []testVec{{1, 1, 1}, {2, 2, 2}, {3, 3, 3}})
	require.NoError(t, err)
	defer arr.Release()

	sl := array.NewSlice(arr, 1, 3)
	defer sl.Release()
	out, err := vecL.FromArrow(sl)
	require.NoError(t, err)
	assert.Equal(t, []testVec{{2, 2, 2}, {3, 3, 3}}, out)
}

func TestList_RoundTrip(t *testing.T) {
	mem := testutil.NewCheckedAllocator(t)
	in := []testStrip{{{0, 0, 0}, {1, 1, 1}}, {}, {{9, 8, 7}}}

	arr, err := ToArrow(mem, stripL, in)
	require.NoError(t, err)
	defer arr.Release()

	out, err := stripL.FromArrow(arr)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	opt, err := ToArrowOpt(mem, stripL, []*testStrip{nil, &in[0]})
	require.NoError(t, err)
	defer opt.Release()
	got, err := stripL.FromArrowOpt(opt)
	require.NoError(t, err)
	assert.Nil(t, got[0])
	assert.Equal(t, in[0], *got[1])
}

func TestComposite_RoundTrip(t *testing.T) {
	mem := testutil.NewCheckedAllocator(t)
	in := []*testPoint{{X: 1, Label: ptr("one")}, nil, {X: 3}}

	arr, err := ToArrowOpt(mem, pointL, in)
	require.NoError(t, err)
	defer arr.Release()

	out, err := pointL.FromArrowOpt(arr)
	require.NoError(t, err)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("composite round trip mismatch (-want +got):\n%s", diff)
	}

	_, err = pointL.FromArrow(arr)
	assert.ErrorIs(t, err, ErrMissingRequired)
}

func TestEnum_RejectsUnknown(t *testing.T) {
	mem := testutil.NewCheckedAllocator(t)

	_, err := ToArrow(mem, kindL, []testKind{1, 7})
	assert.ErrorIs(t, err, ErrInvalidEnum)
	_, err = ToArrowOpt(mem, kindL, []*testKind{nil, ptr(testKind(0))})
	assert.ErrorIs(t, err, ErrInvalidEnum)

	b := array.NewUint8Builder(mem)
	defer b.Release()
	b.AppendValues([]uint8{2, 9}, nil)
	raw := b.NewArray()
	defer raw.Release()

	_, err = kindL.FromArrow(raw)
	assert.ErrorIs(t, err, ErrInvalidEnum)
	_, err = kindL.FromArrowOpt(raw)
	assert.ErrorIs(t, err, ErrInvalidEnum)
}

func TestRename(t *testing.T) {
	mem := testutil.NewCheckedAllocator(t)
	assert.Equal(t, "test.Alias", aliasL.Name())
	assert.True(t, arrow.TypeEqual(vecL.ArrowDatatype(), aliasL.ArrowDatatype()))

	in := []testAlias{{1, 2, 3}}
	arr, err := ToArrow(mem, aliasL, in)
	require.NoError(t, err)
	defer arr.Release()

	out, err := aliasL.FromArrow(arr)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	opt, err := aliasL.FromArrowOpt(arr)
	require.NoError(t, err)
	assert.Equal(t, in[0], *opt[0])
}

func TestZeroCount(t *testing.T) {
	mem := testutil.NewCheckedAllocator(t)
	tests := []struct {
		name string
		fn   func() (arrow.Array, error)
		want arrow.DataType
	}{
		{"primitive", func() (arrow.Array, error) { return ToArrow(mem, scalarL, nil) }, scalarL.ArrowDatatype()},
		{"fixed", func() (arrow.Array, error) { return ToArrow(mem, vecL, nil) }, vecL.ArrowDatatype()},
		{"list", func() (arrow.Array, error) { return ToArrow(mem, stripL, nil) }, stripL.ArrowDatatype()},
		{"composite", func() (arrow.Array, error) { return ToArrow(mem, pointL, nil) }, pointType},
		{"enum", func() (arrow.Array, error) { return ToArrow(mem, kindL, []testKind{}) }, arrow.PrimitiveTypes.Uint8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arr, err := tt.fn()
			require.NoError(t, err)
			defer arr.Release()
			assert.Equal(t, 0, arr.Len())
			assert.True(t, arrow.TypeEqual(tt.want, arr.DataType()), "got %s", arr.DataType())
		})
	}
}

func TestNilGuards(t *testing.T) {
	fills := map[string]func() error{
		"primitive": func() error { return scalarL.FillArrowBuilder(nil, []testScalar{1}) },
		"fixed":     func() error { return vecL.FillArrowBuilder(nil, []testVec{{}}) },
		"list":      func() error { return stripL.FillArrowBuilderOpt(nil, nil) },
		"composite": func() error { return pointL.FillArrowBuilder(nil, []testPoint{{}}) },
		"rename":    func() error { return aliasL.FillArrowBuilder(nil, nil) },
	}
	for name, fill := range fills {
		assert.ErrorIs(t, fill(), ErrNilBuilder, name)
	}

	decodes := map[string]func() error{
		"primitive": func() error { _, err := scalarL.FromArrow(nil); return err },
		"fixed":     func() error { _, err := vecL.FromArrowOpt(nil); return err },
		"list":      func() error { _, err := stripL.FromArrow(nil); return err },
		"composite": func() error { _, err := pointL.FromArrow(nil); return err },
		"enum":      func() error { _, err := kindL.FromArrow(nil); return err },
	}
	for name, decode := range decodes {
		assert.ErrorIs(t, decode(), ErrNilArray, name)
	}
}

func TestWrongBuilderAndArray(t *testing.T) {
	mem := testutil.NewCheckedAllocator(t)

	ib := array.NewInt64Builder(mem)
	defer ib.Release()
	assert.ErrorIs(t, scalarL.FillArrowBuilder(ib, []testScalar{1}), ErrUnexpectedBuilder)
	assert.Equal(t, 0, ib.Len())

	narrow := array.NewFixedSizeListBuilder(mem, 2, arrow.PrimitiveTypes.Float32)
	defer narrow.Release()
	assert.ErrorIs(t, vecL.FillArrowBuilder(narrow, []testVec{{}}), ErrUnexpectedBuilder)

	other := array.NewStructBuilder(mem, arrow.StructOf(Required("y", arrow.PrimitiveTypes.Int64)))
	defer other.Release()
	assert.ErrorIs(t, pointL.FillArrowBuilder(other, []testPoint{{}}), ErrUnexpectedBuilder)

	ib.AppendValues([]int64{1, 2}, nil)
	ints := ib.NewArray()
	defer ints.Release()
	_, err := scalarL.FromArrow(ints)
	assert.ErrorIs(t, err, ErrUnexpectedArrowType)
	_, err = pointL.FromArrowOpt(ints)
	assert.ErrorIs(t, err, ErrUnexpectedArrowType)
	_, err = stripL.FromArrow(ints)
	assert.ErrorIs(t, err, ErrUnexpectedArrowType)
}

func TestBatchList(t *testing.T) {
	vecs := NewBatch(vecL, []testVec{{}, {}, {}})

	t.Run("ok", func(t *testing.T) {
		batches, err := NewBatchList("vr.archetypes.Test").
			Required(vecs).
			Optional(NewBatch(scalarL, []testScalar{1})).
			Optional(NewBatch(labelL, []testLabel{"a", "b", "c"})).
			Optional(Maybe[testKind](kindL, nil)).
			Unchecked(NewBatch(stripL, []testStrip{{}})).
			Build()
		require.NoError(t, err)
		var names []ComponentName
		for _, b := range batches {
			names = append(names, b.ComponentName())
		}
		assert.Equal(t, []ComponentName{"test.Vec", "test.Scalar", "test.Label", "test.Strip", "vr.components.TestIndicator"}, names)
	})

	t.Run("missing required", func(t *testing.T) {
		_, err := NewBatchList("vr.archetypes.Test").Required(NewBatch(vecL, nil)).Build()
		assert.ErrorIs(t, err, ErrMissingRequired)
		_, err = NewBatchList("vr.archetypes.Test").Required(nil).Build()
		assert.ErrorIs(t, err, ErrMissingRequired)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := NewBatchList("vr.archetypes.Test").
			Required(vecs).
			Optional(NewBatch(scalarL, []testScalar{1, 2})).
			Build()
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})
}

func TestMaybeMany(t *testing.T) {
	assert.Nil(t, Maybe[testScalar](scalarL, nil))
	assert.Nil(t, Many[testScalar](scalarL, nil))

	b := Maybe(scalarL, ptr(testScalar(2)))
	require.NotNil(t, b)
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, 2, Many(scalarL, []testScalar{1, 2}).Len())
}

func TestIndicatorName(t *testing.T) {
	tests := map[string]ComponentName{
		"vr.archetypes.Points3D":             "vr.components.Points3DIndicator",
		"vr.blueprint.archetypes.Background": "vr.blueprint.components.BackgroundIndicator",
		"Custom":                             "vr.components.CustomIndicator",
	}
	for in, want := range tests {
		assert.Equal(t, want, IndicatorName(in), in)
	}
}

func TestIndicatorBatch_ToArrow(t *testing.T) {
	mem := testutil.NewCheckedAllocator(t)
	ind := Indicator("vr.archetypes.Points3D")

	arr, err := ind.ToArrow(mem)
	require.NoError(t, err)
	defer arr.Release()
	assert.Equal(t, arrow.NULL, arr.DataType().ID())
	assert.Equal(t, 1, arr.Len())

	ib := array.NewInt64Builder(memory.NewGoAllocator())
	defer ib.Release()
	assert.ErrorIs(t, ind.FillArrowBuilder(ib), ErrUnexpectedBuilder)
}

func TestDenseUnionOf(t *testing.T) {
	u := DenseUnionOf(Required("a", arrow.PrimitiveTypes.Float32), Required("b", arrow.BinaryTypes.String))
	require.Len(t, u.Fields(), 3)
	assert.Equal(t, NullMarkersField, u.Fields()[0].Name)
	assert.Equal(t, []arrow.UnionTypeCode{0, 1, 2}, u.TypeCodes())
}

func TestLayout(t *testing.T) {
	assert.Equal(t, uintptr(12), unsafe.Sizeof(testVec{}))
	assert.Equal(t, unsafe.Sizeof(testVec{}), unsafe.Sizeof(testAlias{}))
}
