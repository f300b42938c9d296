package tensor

import (
	"math"
	"testing"
)

// Test helpers

func assertEqualFloat32(t *testing.T, expected, actual float32, msg string) {
	t.Helper()
	if math.Abs(float64(expected-actual)) > 1e-6 {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}

func assertEqualShape(t *testing.T, expected, actual Shape, msg string) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Errorf("%s: expected shape %v, got %v", msg, expected, actual)
	}
}

// DType Tests

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float32, 4},
		{Float64, 8},
	}

	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}

func TestDataTypeString(t *testing.T) {
	tests := []struct {
		dtype DataType
		str   string
	}{
		{Float32, "float32"},
		{Float64, "float64"},
	}

	for _, tt := range tests {
		if got := tt.dtype.String(); got != tt.str {
			t.Errorf("%s.String() = %q, want %q", tt.dtype, got, tt.str)
		}
	}
}

func TestInferDataType(t *testing.T) {
	if dt := inferDataType(float32(0)); dt != Float32 {
		t.Errorf("inferDataType(float32) = %v, want Float32", dt)
	}
	if dt := inferDataType(float64(0)); dt != Float64 {
		t.Errorf("inferDataType(float64) = %v, want Float64", dt)
	}
}

// Shape Tests

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape Shape
		n     int
	}{
		{Shape{}, 1},
		{Shape{5}, 5},
		{Shape{2, 3}, 6},
		{Shape{1, 4, 64, 64}, 16384},
	}

	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.n {
			t.Errorf("%v.NumElements() = %d, want %d", tt.shape, got, tt.n)
		}
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (Shape{2, 3}).Validate(); err != nil {
		t.Errorf("Validate() on valid shape returned %v", err)
	}
	if err := (Shape{2, 0}).Validate(); err == nil {
		t.Error("Validate() on zero dimension should fail")
	}
	if err := (Shape{-1, 3}).Validate(); err == nil {
		t.Error("Validate() on negative dimension should fail")
	}
}

func TestShapeComputeStrides(t *testing.T) {
	strides := Shape{2, 3, 4}.ComputeStrides()
	want := []int{12, 4, 1}
	for i := range want {
		if strides[i] != want[i] {
			t.Errorf("ComputeStrides() = %v, want %v", strides, want)
			break
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b    Shape
		want    Shape
		needs   bool
		wantErr bool
	}{
		{Shape{2, 3}, Shape{2, 3}, Shape{2, 3}, false, false},
		{Shape{3, 1}, Shape{3, 4}, Shape{3, 4}, true, false},
		{Shape{64, 64}, Shape{2, 4, 64, 64}, Shape{2, 4, 64, 64}, true, false},
		{Shape{1, 1, 64, 64}, Shape{2, 4, 64, 64}, Shape{2, 4, 64, 64}, true, false},
		{Shape{3, 4}, Shape{3, 5}, nil, false, true},
	}

	for _, tt := range tests {
		got, needs, err := BroadcastShapes(tt.a, tt.b)
		if tt.wantErr {
			if err == nil {
				t.Errorf("BroadcastShapes(%v, %v) should fail", tt.a, tt.b)
			}
			continue
		}
		if err != nil {
			t.Errorf("BroadcastShapes(%v, %v) failed: %v", tt.a, tt.b, err)
			continue
		}
		assertEqualShape(t, tt.want, got, "broadcast shape")
		if needs != tt.needs {
			t.Errorf("BroadcastShapes(%v, %v) needsBroadcast = %v, want %v", tt.a, tt.b, needs, tt.needs)
		}
	}
}

// RawTensor Tests

func TestNewRaw(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	assertEqualShape(t, Shape{2, 3}, raw.Shape(), "shape")
	if raw.DType() != Float32 {
		t.Errorf("DType() = %v, want Float32", raw.DType())
	}
	if raw.Device() != CPU {
		t.Errorf("Device() = %v, want CPU", raw.Device())
	}
	if raw.NumElements() != 6 {
		t.Errorf("NumElements() = %d, want 6", raw.NumElements())
	}
	if raw.ByteSize() != 24 {
		t.Errorf("ByteSize() = %d, want 24", raw.ByteSize())
	}

	// Zero-initialized memory.
	for i, v := range raw.AsFloat32() {
		if v != 0 {
			t.Errorf("element %d = %v, want 0", i, v)
		}
	}
}

func TestNewRawInvalidShape(t *testing.T) {
	if _, err := NewRaw(Shape{2, 0}, Float32, CPU); err == nil {
		t.Error("NewRaw with zero dimension should fail")
	}
}

func TestRawTensorCloneRefCount(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	if !raw.IsUnique() {
		t.Error("fresh tensor should be unique")
	}

	clone := raw.Clone()
	if raw.IsUnique() {
		t.Error("IsUnique() = true after Clone(), want false")
	}

	clone.Release()
	if !raw.IsUnique() {
		t.Error("IsUnique() = false after clone.Release(), want true")
	}
}

func TestRawTensorDeepClone(t *testing.T) {
	raw, err := NewRaw(Shape{4}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	raw.AsFloat32()[0] = 7

	deep := raw.DeepClone()
	deep.AsFloat32()[0] = 3

	assertEqualFloat32(t, 7, raw.AsFloat32()[0], "original untouched by deep clone write")
	assertEqualFloat32(t, 3, deep.AsFloat32()[0], "deep clone write")
}

func TestRawTensorWithShape(t *testing.T) {
	raw, err := NewRaw(Shape{4, 8}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	raw.AsFloat32()[5] = 2.5

	view := raw.WithShape(Shape{1, 1, 4, 8})
	assertEqualShape(t, Shape{1, 1, 4, 8}, view.Shape(), "view shape")
	assertEqualFloat32(t, 2.5, view.AsFloat32()[5], "view shares buffer")

	defer func() {
		if recover() == nil {
			t.Error("WithShape with mismatched element count should panic")
		}
	}()
	raw.WithShape(Shape{3, 3})
}

// Tensor Tests

type stubBackend struct{}

func (stubBackend) Add(a, _ *RawTensor) *RawTensor                { return a }
func (stubBackend) Sub(a, _ *RawTensor) *RawTensor                { return a }
func (stubBackend) Mul(a, _ *RawTensor) *RawTensor                { return a }
func (stubBackend) Div(a, _ *RawTensor) *RawTensor                { return a }
func (stubBackend) MulScalar(x *RawTensor, _ any) *RawTensor      { return x }
func (stubBackend) AddScalar(x *RawTensor, _ any) *RawTensor      { return x }
func (stubBackend) DivScalar(x *RawTensor, _ any) *RawTensor      { return x }
func (stubBackend) Exp(x *RawTensor) *RawTensor                   { return x }
func (stubBackend) Sqrt(x *RawTensor) *RawTensor                  { return x }
func (stubBackend) Reciprocal(x *RawTensor) *RawTensor            { return x }
func (stubBackend) Cat(ts []*RawTensor, _ int) *RawTensor         { return ts[0] }
func (stubBackend) Chunk(x *RawTensor, _, _ int) []*RawTensor     { return []*RawTensor{x} }
func (stubBackend) SliceRegion(x *RawTensor, _ Region) *RawTensor { return x }
func (stubBackend) AccumulateRegion(_, _ *RawTensor, _ Region)    {}
func (stubBackend) Name() string                                  { return "stub" }
func (stubBackend) Device() Device                                { return CPU }

func TestFromSlice(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5, 6}
	x, err := FromSlice(data, Shape{2, 3}, stubBackend{})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	assertEqualShape(t, Shape{2, 3}, x.Shape(), "shape")
	assertEqualFloat32(t, 1, x.At(0, 0), "At(0,0)")
	assertEqualFloat32(t, 6, x.At(1, 2), "At(1,2)")
}

func TestFromSliceLengthMismatch(t *testing.T) {
	if _, err := FromSlice([]float32{1, 2, 3}, Shape{2, 3}, stubBackend{}); err == nil {
		t.Error("FromSlice with mismatched length should fail")
	}
}

func TestTensorSet(t *testing.T) {
	x := Zeros[float32](Shape{2, 3}, stubBackend{})
	x.Set(9.5, 1, 1)
	assertEqualFloat32(t, 9.5, x.At(1, 1), "Set then At")
}

func TestTensorAtOutOfBounds(t *testing.T) {
	x := Zeros[float32](Shape{2, 3}, stubBackend{})
	defer func() {
		if recover() == nil {
			t.Error("At with out-of-bounds index should panic")
		}
	}()
	x.At(2, 0)
}

func TestCreationFunctions(t *testing.T) {
	ones := Ones[float64](Shape{2, 2}, stubBackend{})
	for _, v := range ones.Data() {
		if v != 1 {
			t.Errorf("Ones element = %v, want 1", v)
		}
	}

	full := Full[float32](Shape{3}, 2.5, stubBackend{})
	for _, v := range full.Data() {
		assertEqualFloat32(t, 2.5, v, "Full element")
	}
}

func TestZerosLike(t *testing.T) {
	ref, err := NewRaw(Shape{1, 2, 4, 4}, Float64, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	ref.AsFloat64()[0] = 5

	z := ZerosLike(ref)
	assertEqualShape(t, ref.Shape(), z.Shape(), "shape")
	if z.DType() != Float64 {
		t.Errorf("DType() = %v, want Float64", z.DType())
	}
	if z.AsFloat64()[0] != 0 {
		t.Error("ZerosLike should not share data with the reference")
	}
}
