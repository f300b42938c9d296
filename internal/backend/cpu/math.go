package cpu

import (
	"math"

	"github.com/mixtile-ml/mixtile/internal/tensor"
)

// Exp computes element-wise exponential: exp(x).
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryOp("exp", x,
		func(v float32) float32 { return float32(math.Exp(float64(v))) },
		math.Exp)
}

// Sqrt computes element-wise square root: sqrt(x).
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryOp("sqrt", x,
		func(v float32) float32 { return float32(math.Sqrt(float64(v))) },
		math.Sqrt)
}

// Reciprocal computes element-wise reciprocal: 1/x.
// Zero inputs produce +Inf. A canvas location with zero accumulated weight
// means the caller violated the full-coverage precondition; the resulting
// Inf/NaN propagation is deliberate, not defended against.
func (cpu *CPUBackend) Reciprocal(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryOp("reciprocal", x,
		func(v float32) float32 { return 1 / v },
		func(v float64) float64 { return 1 / v })
}
