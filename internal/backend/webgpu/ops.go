//go:build windows

package webgpu

import (
	"fmt"

	"github.com/mixtile-ml/mixtile/internal/tensor"
)

// canUseGPU reports whether a binary op can run as a compute shader.
// Broadcasting and non-float32 inputs take the host path.
func canUseGPU(a, b *tensor.RawTensor) bool {
	return a.DType() == tensor.Float32 &&
		b.DType() == tensor.Float32 &&
		a.Shape().Equal(b.Shape())
}

func (b *Backend) binary(a, other *tensor.RawTensor, shaderName string, hostOp func(a, b *tensor.RawTensor) *tensor.RawTensor) *tensor.RawTensor {
	if !canUseGPU(a, other) {
		return hostOp(a, other)
	}
	result, err := b.runBinaryOp(a, other, shaderName)
	if err != nil {
		panic(fmt.Sprintf("webgpu %s: %v", shaderName, err))
	}
	return result
}

func (b *Backend) unary(x *tensor.RawTensor, shaderName string, scalar float32, hostOp func(x *tensor.RawTensor) *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		return hostOp(x)
	}
	result, err := b.runUnaryOp(x, shaderName, scalar)
	if err != nil {
		panic(fmt.Sprintf("webgpu %s: %v", shaderName, err))
	}
	return result
}

// Add performs element-wise addition.
func (b *Backend) Add(a, other *tensor.RawTensor) *tensor.RawTensor {
	return b.binary(a, other, "add", b.host.Add)
}

// Sub performs element-wise subtraction.
func (b *Backend) Sub(a, other *tensor.RawTensor) *tensor.RawTensor {
	return b.binary(a, other, "sub", b.host.Sub)
}

// Mul performs element-wise multiplication.
func (b *Backend) Mul(a, other *tensor.RawTensor) *tensor.RawTensor {
	return b.binary(a, other, "mul", b.host.Mul)
}

// Div performs element-wise division.
func (b *Backend) Div(a, other *tensor.RawTensor) *tensor.RawTensor {
	return b.binary(a, other, "div", b.host.Div)
}

// MulScalar multiplies every element by a scalar.
func (b *Backend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return b.unary(x, "mul_scalar", toFloat32("mul scalar", scalar), func(x *tensor.RawTensor) *tensor.RawTensor {
		return b.host.MulScalar(x, scalar)
	})
}

// AddScalar adds a scalar to every element.
func (b *Backend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return b.unary(x, "add_scalar", toFloat32("add scalar", scalar), func(x *tensor.RawTensor) *tensor.RawTensor {
		return b.host.AddScalar(x, scalar)
	})
}

// DivScalar divides every element by a scalar.
func (b *Backend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return b.unary(x, "div_scalar", toFloat32("div scalar", scalar), func(x *tensor.RawTensor) *tensor.RawTensor {
		return b.host.DivScalar(x, scalar)
	})
}

// Exp computes the element-wise exponential.
func (b *Backend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(x, "exp", 0, b.host.Exp)
}

// Sqrt computes the element-wise square root.
func (b *Backend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(x, "sqrt", 0, b.host.Sqrt)
}

// Reciprocal computes element-wise 1/x.
func (b *Backend) Reciprocal(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(x, "reciprocal", 0, b.host.Reciprocal)
}

// Cat concatenates tensors along a dimension. Memory movement stays on the
// host; tensor data is host-visible in this backend's readback design.
func (b *Backend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.host.Cat(tensors, dim)
}

// Chunk splits a tensor into n equal parts along a dimension, on the host.
func (b *Backend) Chunk(x *tensor.RawTensor, n, dim int) []*tensor.RawTensor {
	return b.host.Chunk(x, n, dim)
}

// SliceRegion copies out a spatial region of a 4D canvas, on the host.
func (b *Backend) SliceRegion(x *tensor.RawTensor, r tensor.Region) *tensor.RawTensor {
	return b.host.SliceRegion(x, r)
}

// AccumulateRegion adds src into a spatial region of dst in place, on the host.
func (b *Backend) AccumulateRegion(dst, src *tensor.RawTensor, r tensor.Region) {
	b.host.AccumulateRegion(dst, src, r)
}

// toFloat32 converts a scalar argument to float32 for the params uniform.
func toFloat32(name string, scalar any) float32 {
	switch v := scalar.(type) {
	case float32:
		return v
	case float64:
		return float32(v)
	case int:
		return float32(v)
	default:
		panic(fmt.Sprintf("%s: unsupported scalar type %T", name, scalar))
	}
}
