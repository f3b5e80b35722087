package datatypes

import (
	"math"
	"testing"
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/vrtypes/internal/testutil"
	"github.com/banshee-data/vrtypes/internal/types"
)

func ptr[T any](v T) *T { return &v }

// roundTrip serializes in with nulls and checks the decoded values.
func roundTrip[T any](t *testing.T, l types.Loggable[T], in []*T) {
	t.Helper()
	mem := testutil.NewCheckedAllocator(t)

	arr, err := types.ToArrowOpt(mem, l, in)
	require.NoError(t, err)
	defer arr.Release()
	assert.Equal(t, len(in), arr.Len())
	assert.True(t, arrow.TypeEqual(l.ArrowDatatype(), arr.DataType()))

	out, err := l.FromArrowOpt(arr)
	require.NoError(t, err)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("%s round trip mismatch (-want +got):\n%s", l.Name(), diff)
	}
}

func TestRoundTrip_Unions(t *testing.T) {
	t.Run("angle", func(t *testing.T) {
		roundTrip(t, AngleLoggable, []*Angle{ptr(Radians(1.5)), nil, ptr(Degrees(90))})
	})
	t.Run("rotation", func(t *testing.T) {
		roundTrip(t, Rotation3DLoggable, []*Rotation3D{
			ptr(RotationFromQuaternion(QuaternionIdentity)),
			nil,
			ptr(RotationFromAxisAngle(Vec3D{0, 0, 1}, Degrees(45))),
		})
	})
	t.Run("scale", func(t *testing.T) {
		roundTrip(t, Scale3DLoggable, []*Scale3D{ptr(ScaleUniform(2)), ptr(ScaleThreeD(Vec3D{1, 2, 3})), nil})
	})
	t.Run("transform", func(t *testing.T) {
		rot := RotationFromQuaternion(QuaternionIdentity)
		roundTrip(t, Transform3DLoggable, []*Transform3D{
			ptr(TransformFromTranslation(Vec3D{1, 2, 3})),
			nil,
			ptr(TransformFromTRS(TranslationRotationScale3D{Rotation: &rot, Scale: ptr(ScaleUniform(3)), FromParent: true})),
			ptr(TransformFromMat3x3(TranslationAndMat3x3{Mat3x3: ptr(Mat3x3Identity)})),
		})
	})
	t.Run("time range boundary", func(t *testing.T) {
		roundTrip(t, TimeRangeBoundaryLoggable, []*TimeRangeBoundary{
			ptr(CursorRelative(-5)), ptr(Infinite()), nil, ptr(Absolute(100)),
		})
	})
	t.Run("tensor buffer", func(t *testing.T) {
		roundTrip(t, TensorBufferLoggable, []*TensorBuffer{
			{Kind: TensorBufferU8, U8: []uint8{1, 2, 3}},
			nil,
			{Kind: TensorBufferF64, F64: []float64{0.5}},
			{Kind: TensorBufferI16, I16: []int16{-1, 1}},
		})
	})
}

func TestRoundTrip_Structs(t *testing.T) {
	t.Run("image format", func(t *testing.T) {
		roundTrip(t, ImageFormatLoggable, []*ImageFormat{
			{Width: 640, Height: 480, ColorModel: ptr(ColorModelRGB), ChannelDatatype: ptr(ChannelU8)},
			nil,
			{Width: 2, Height: 2, PixelFormat: ptr(PixelFormatNV12)},
		})
	})
	t.Run("material", func(t *testing.T) {
		roundTrip(t, MaterialLoggable, []*Material{{AlbedoFactor: ptr(RGB(255, 0, 0))}, {}, nil})
	})
	t.Run("keypoint pair", func(t *testing.T) {
		roundTrip(t, KeypointPairLoggable, []*KeypointPair{{Keypoint0: 1, Keypoint1: 2}, nil})
	})
	t.Run("tensor dimension", func(t *testing.T) {
		roundTrip(t, TensorDimensionLoggable, []*TensorDimension{{Size: 3, Name: ptr("rows")}, {Size: 4}})
	})
	t.Run("tensor data", func(t *testing.T) {
		roundTrip(t, TensorDataLoggable, []*TensorData{{
			Shape:  []TensorDimension{{Size: 2}, {Size: 3, Name: ptr("cols")}},
			Buffer: TensorBuffer{Kind: TensorBufferF32, F32: []float32{1, 2, 3, 4, 5, 6}},
		}})
	})
	t.Run("visible time range", func(t *testing.T) {
		roundTrip(t, VisibleTimeRangeLoggable, []*VisibleTimeRange{
			{Timeline: "frame", Range: TimeRange{Start: CursorRelative(-10), End: Infinite()}},
			nil,
			{Timeline: "log_time", Range: TimeRange{Start: Absolute(0), End: Absolute(1e9)}},
		})
	})
	t.Run("uuid", func(t *testing.T) {
		id := UUIDFrom(uuid.MustParse("0190f1c2-7a1b-7c3d-8e4f-a1b2c3d4e5f6"))
		roundTrip(t, UUIDLoggable, []*UUID{&id, nil})
	})
}

func TestUnion_UnknownKind(t *testing.T) {
	mem := testutil.NewCheckedAllocator(t)

	_, err := types.ToArrow(mem, AngleLoggable, []Angle{{Kind: 9}})
	assert.ErrorIs(t, err, types.ErrUnknownVariant)
	_, err = types.ToArrow(mem, Scale3DLoggable, []Scale3D{{}})
	assert.ErrorIs(t, err, types.ErrUnknownVariant)
	_, err = types.ToArrow(mem, TimeRangeBoundaryLoggable, []TimeRangeBoundary{{Kind: 0}})
	assert.ErrorIs(t, err, types.ErrUnknownVariant)
}

func TestUnion_NullIsMissing(t *testing.T) {
	mem := testutil.NewCheckedAllocator(t)
	arr, err := types.ToArrowOpt(mem, AngleLoggable, []*Angle{nil})
	require.NoError(t, err)
	defer arr.Release()

	_, err = AngleLoggable.FromArrow(arr)
	assert.ErrorIs(t, err, types.ErrMissingRequired)
}

func TestQuaternion_Rotate(t *testing.T) {
	q := QuaternionFromAxisAngle(Vec3D{0, 0, 1}, math.Pi/2)
	got := q.Rotate(Vec3D{1, 0, 0})
	assert.InDelta(t, 0, got[0], 1e-6)
	assert.InDelta(t, 1, got[1], 1e-6)
	assert.InDelta(t, 0, got[2], 1e-6)

	axis := RotationAxisAngle{Axis: Vec3D{0, 0, 2}, Angle: Degrees(90)}
	alt := axis.Quaternion()
	for i := range q {
		assert.InDelta(t, q[i], alt[i], 1e-6)
	}

	m := QuaternionIdentity.Mat3x3()
	for i := range m {
		assert.InDelta(t, Mat3x3Identity[i], m[i], 1e-6)
	}
	assert.Equal(t, Quaternion{}, Quaternion{}.Normalized())
}

func TestMat3x3_Dense(t *testing.T) {
	m := Mat3x3{1, 2, 3, 4, 5, 6, 7, 8, 9}
	// column-major: column 0 is {1, 2, 3}
	assert.Equal(t, float32(2), m.At(1, 0))
	assert.Equal(t, float32(4), m.At(0, 1))

	back, err := Mat3x3FromMatrix(m.Dense())
	require.NoError(t, err)
	assert.Equal(t, m, back)

	_, err = Mat3x3FromMatrix(mat.NewDense(2, 2, nil))
	assert.Error(t, err)
}

func TestTransform_Mat4x4(t *testing.T) {
	rot := RotationFromAxisAngle(Vec3D{0, 0, 1}, Degrees(90))
	trs := TranslationRotationScale3D{
		Translation: &Vec3D{10, 0, 0},
		Rotation:    &rot,
		Scale:       ptr(ScaleUniform(2)),
	}
	m := TransformFromTRS(trs).Mat4x4()

	// x axis -> 2 * y, then translated.
	got, err := Mat4x4FromMatrix(m.Dense())
	require.NoError(t, err)
	assert.Equal(t, m, got)
	assert.InDelta(t, 0, m.At(0, 0), 1e-6)
	assert.InDelta(t, 2, m.At(1, 0), 1e-6)
	assert.InDelta(t, -2, m.At(0, 1), 1e-6)
	assert.Equal(t, float32(10), m.At(0, 3))
	assert.Equal(t, float32(1), m.At(3, 3))

	assert.Equal(t, Mat4x4Identity, TransformFromMat3x3(TranslationAndMat3x3{}).Mat4x4())
	assert.Equal(t, Mat4x4Identity, TranslationRotationScale3D{}.Mat4x4())
}

func TestRgba32(t *testing.T) {
	c, err := ParseRgba32("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, RGBA(255, 128, 0, 255), c)
	assert.Equal(t, "#ff8000ff", c.String())

	r, g, b, a := RGBA(1, 2, 3, 4).Channels()
	assert.Equal(t, [4]uint8{1, 2, 3, 4}, [4]uint8{r, g, b, a})

	for _, bad := range []string{"", "#fff", "#zzzzzz", "#1234567"} {
		_, err := ParseRgba32(bad)
		assert.Error(t, err, bad)
	}
}

func TestImageFormat_NumBytes(t *testing.T) {
	tests := []struct {
		name string
		f    ImageFormat
		want int
	}{
		{"rgb8", ImageFormat{Width: 4, Height: 2, ColorModel: ptr(ColorModelRGB), ChannelDatatype: ptr(ChannelU8)}, 24},
		{"rgba f32", ImageFormat{Width: 2, Height: 2, ColorModel: ptr(ColorModelRGBA), ChannelDatatype: ptr(ChannelF32)}, 64},
		{"l16", ImageFormat{Width: 3, Height: 3, ColorModel: ptr(ColorModelL), ChannelDatatype: ptr(ChannelU16)}, 18},
		{"nv12", ImageFormat{Width: 4, Height: 4, PixelFormat: ptr(PixelFormatNV12)}, 24},
		{"yuy2", ImageFormat{Width: 4, Height: 4, PixelFormat: ptr(PixelFormatYUY2)}, 32},
		{"underspecified", ImageFormat{Width: 4, Height: 4, ColorModel: ptr(ColorModelRGB)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.NumBytes())
		})
	}
}

func TestImageEnums_Rejected(t *testing.T) {
	mem := testutil.NewCheckedAllocator(t)
	_, err := types.ToArrow(mem, ImageFormatLoggable, []ImageFormat{{ColorModel: ptr(ColorModel(42))}})
	assert.ErrorIs(t, err, types.ErrInvalidEnum)
}

func TestTensorData_Validate(t *testing.T) {
	ok := TensorData{
		Shape:  []TensorDimension{{Size: 2}, {Size: 2}},
		Buffer: TensorBuffer{Kind: TensorBufferU16, U16: []uint16{1, 2, 3, 4}},
	}
	assert.NoError(t, ok.Validate())
	assert.Equal(t, uint64(4), ok.NumElements())

	bad := ok
	bad.Shape = []TensorDimension{{Size: 3}}
	assert.ErrorIs(t, bad.Validate(), ErrShapeMismatch)

	assert.Equal(t, uint64(0), TensorData{}.NumElements())
	assert.NoError(t, TensorData{}.Validate())
	assert.Equal(t, "F32", TensorBufferF32.String())
}

func TestTimeRange_Resolve(t *testing.T) {
	r := TimeRange{Start: CursorRelative(-10), End: Infinite()}
	lo, hi := r.Resolve(100)
	assert.Equal(t, TimeInt(90), lo)
	assert.Equal(t, TimeInt(math.MaxInt64), hi)

	r = TimeRange{Start: Infinite(), End: Absolute(5)}
	lo, hi = r.Resolve(100)
	assert.Equal(t, TimeInt(math.MinInt64), lo)
	assert.Equal(t, TimeInt(5), hi)
}

func TestRange1D(t *testing.T) {
	r := Range1D{0, 10}
	assert.True(t, r.Valid())
	assert.True(t, r.Contains(10))
	assert.False(t, r.Contains(10.5))
	assert.False(t, Range1D{1, 0}.Valid())
	assert.False(t, Range1D{math.NaN(), 1}.Valid())
}

func TestLayout(t *testing.T) {
	tests := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"Vec2D", unsafe.Sizeof(Vec2D{}), 8},
		{"Vec3D", unsafe.Sizeof(Vec3D{}), 12},
		{"Vec4D", unsafe.Sizeof(Vec4D{}), 16},
		{"UVec3D", unsafe.Sizeof(UVec3D{}), 12},
		{"Quaternion", unsafe.Sizeof(Quaternion{}), 16},
		{"Mat3x3", unsafe.Sizeof(Mat3x3{}), 36},
		{"Mat4x4", unsafe.Sizeof(Mat4x4{}), 64},
		{"Range1D", unsafe.Sizeof(Range1D{}), 16},
		{"UUID", unsafe.Sizeof(UUID{}), 16},
		{"Rgba32", unsafe.Sizeof(Rgba32(0)), 4},
		{"KeypointPair", unsafe.Sizeof(KeypointPair{}), 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.got, tt.name)
	}
}
