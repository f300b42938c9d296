package cpu

import (
	"fmt"

	"github.com/mixtile-ml/mixtile/internal/tensor"
)

// toFloat64 converts a scalar of any supported numeric type to float64.
func toFloat64(name string, scalar any) float64 {
	switch v := scalar.(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case int:
		return float64(v)
	default:
		panic(fmt.Sprintf("%s: unsupported scalar type %T", name, scalar))
	}
}

// MulScalar multiplies every element by a scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat64("mul_scalar", scalar)
	return cpu.unaryOp("mul_scalar", x,
		func(v float32) float32 { return v * float32(s) },
		func(v float64) float64 { return v * s })
}

// AddScalar adds a scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat64("add_scalar", scalar)
	return cpu.unaryOp("add_scalar", x,
		func(v float32) float32 { return v + float32(s) },
		func(v float64) float64 { return v + s })
}

// DivScalar divides every element by a scalar.
func (cpu *CPUBackend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat64("div_scalar", scalar)
	return cpu.unaryOp("div_scalar", x,
		func(v float32) float32 { return v / float32(s) },
		func(v float64) float64 { return v / s })
}
