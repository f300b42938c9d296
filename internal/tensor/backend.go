package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - CPU: pure Go with chunked parallel loops
//   - WebGPU: GPU compute via go-webgpu (windows builds)
//
// The fusion hot path is element-wise multiply-accumulate over canvas
// regions, so the interface is built around element-wise math, scalar
// scaling, batch concatenation and the two region primitives.
type Backend interface {
	// Element-wise binary operations (with broadcasting)
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Scalar operations (element-wise with scalar)
	MulScalar(x *RawTensor, scalar any) *RawTensor
	AddScalar(x *RawTensor, scalar any) *RawTensor
	DivScalar(x *RawTensor, scalar any) *RawTensor

	// Math operations (element-wise)
	Exp(x *RawTensor) *RawTensor        // exponential
	Sqrt(x *RawTensor) *RawTensor       // square root
	Reciprocal(x *RawTensor) *RawTensor // 1/x, used for the rescale factor

	// Manipulation operations
	Cat(tensors []*RawTensor, dim int) *RawTensor // concatenate along dimension
	Chunk(x *RawTensor, n, dim int) []*RawTensor  // split into n equal parts

	// Region operations on 4D [batch, channels, height, width] canvases.
	// SliceRegion copies out x[:, :, r.Y0:r.Y1, r.X0:r.X1].
	// AccumulateRegion performs dst[:, :, r.Y0:r.Y1, r.X0:r.X1] += src,
	// mutating dst in place.
	SliceRegion(x *RawTensor, r Region) *RawTensor
	AccumulateRegion(dst, src *RawTensor, r Region)

	// Metadata
	Name() string
	Device() Device
}
