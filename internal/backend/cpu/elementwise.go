package cpu

import (
	"fmt"

	"github.com/mixtile-ml/mixtile/internal/parallel"
	"github.com/mixtile-ml/mixtile/internal/tensor"
)

// binaryOp executes an element-wise binary operation with broadcasting.
// Same-shape inputs take the vectorized fast path, chunked across workers;
// mismatched shapes fall back to stride-mapped broadcasting.
func (cpu *CPUBackend) binaryOp(
	name string,
	a, b *tensor.RawTensor,
	f32 func(x, y float32) float32,
	f64 func(x, y float64) float64,
) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch: %s vs %s", name, a.DType(), b.DType()))
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	if !needsBroadcast && a.Shape().Equal(b.Shape()) {
		cpu.binarySameShape(result, a, b, f32, f64)
	} else {
		cpu.binaryBroadcast(result, a, b, outShape, f32, f64)
	}

	return result
}

// binarySameShape applies the operation element by element over equal-shape
// operands.
func (cpu *CPUBackend) binarySameShape(
	result, a, b *tensor.RawTensor,
	f32 func(x, y float32) float32,
	f64 func(x, y float64) float64,
) {
	n := a.NumElements()
	switch a.DType() {
	case tensor.Float32:
		src1, src2, dst := a.AsFloat32(), b.AsFloat32(), result.AsFloat32()
		parallel.ForChunks(n, func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = f32(src1[i], src2[i])
			}
		}, cpu.parallel)
	case tensor.Float64:
		src1, src2, dst := a.AsFloat64(), b.AsFloat64(), result.AsFloat64()
		parallel.ForChunks(n, func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = f64(src1[i], src2[i])
			}
		}, cpu.parallel)
	default:
		panic(fmt.Sprintf("unsupported dtype %s", a.DType()))
	}
}

// binaryBroadcast applies the operation with stride-mapped source indices.
func (cpu *CPUBackend) binaryBroadcast(
	result, a, b *tensor.RawTensor,
	outShape tensor.Shape,
	f32 func(x, y float32) float32,
	f64 func(x, y float64) float64,
) {
	aIndex := newBroadcastIndexer(a.Shape(), outShape)
	bIndex := newBroadcastIndexer(b.Shape(), outShape)
	n := outShape.NumElements()

	switch a.DType() {
	case tensor.Float32:
		src1, src2, dst := a.AsFloat32(), b.AsFloat32(), result.AsFloat32()
		for i := 0; i < n; i++ {
			dst[i] = f32(src1[aIndex.source(i)], src2[bIndex.source(i)])
		}
	case tensor.Float64:
		src1, src2, dst := a.AsFloat64(), b.AsFloat64(), result.AsFloat64()
		for i := 0; i < n; i++ {
			dst[i] = f64(src1[aIndex.source(i)], src2[bIndex.source(i)])
		}
	default:
		panic(fmt.Sprintf("unsupported dtype %s", a.DType()))
	}
}

// broadcastIndexer maps flat output indices back to flat source indices for
// a source shape broadcast up to an output shape.
type broadcastIndexer struct {
	outStrides []int // row-major strides of the output shape
	srcStrides []int // source strides, 0 where the source dim is broadcast
}

func newBroadcastIndexer(src, out tensor.Shape) *broadcastIndexer {
	outStrides := out.ComputeStrides()
	srcRow := src.ComputeStrides()

	// Align source dims to the right of the output dims.
	srcStrides := make([]int, len(out))
	offset := len(out) - len(src)
	for i := range out {
		j := i - offset
		if j < 0 || src[j] == 1 {
			srcStrides[i] = 0 // broadcast dimension, index pinned at 0
		} else {
			srcStrides[i] = srcRow[j]
		}
	}

	return &broadcastIndexer{outStrides: outStrides, srcStrides: srcStrides}
}

// source converts a flat output index into the corresponding flat source index.
func (bi *broadcastIndexer) source(flat int) int {
	src := 0
	for d := 0; d < len(bi.outStrides); d++ {
		coord := flat / bi.outStrides[d]
		flat %= bi.outStrides[d]
		src += coord * bi.srcStrides[d]
	}
	return src
}

// unaryOp executes an element-wise unary operation.
func (cpu *CPUBackend) unaryOp(
	name string,
	x *tensor.RawTensor,
	f32 func(v float32) float32,
	f64 func(v float64) float64,
) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	n := x.NumElements()
	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		parallel.ForChunks(n, func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = f32(src[i])
			}
		}, cpu.parallel)
	case tensor.Float64:
		src, dst := x.AsFloat64(), result.AsFloat64()
		parallel.ForChunks(n, func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = f64(src[i])
			}
		}, cpu.parallel)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}

	return result
}
