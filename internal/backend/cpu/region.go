package cpu

import (
	"fmt"

	"github.com/mixtile-ml/mixtile/internal/parallel"
	"github.com/mixtile-ml/mixtile/internal/tensor"
)

// validateRegion checks that x is a 4D canvas and r lies inside it.
func validateRegion(name string, x *tensor.RawTensor, r tensor.Region) {
	shape := x.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("%s: expected 4D canvas [batch, channels, height, width], got %v", name, shape))
	}
	if err := r.Validate(shape[3], shape[2]); err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}
}

// SliceRegion copies out x[:, :, r.Y0:r.Y1, r.X0:r.X1] as a new tensor.
func (cpu *CPUBackend) SliceRegion(x *tensor.RawTensor, r tensor.Region) *tensor.RawTensor {
	validateRegion("slice_region", x, r)

	shape := x.Shape()
	batch, channels, width := shape[0], shape[1], shape[3]
	rh, rw := r.Height(), r.Width()

	result, err := tensor.NewRaw(tensor.Shape{batch, channels, rh, rw}, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("slice_region: %v", err))
	}

	elemSize := x.DType().Size()
	rowBytes := rw * elemSize
	src := x.Data()
	dst := result.Data()

	parallel.ForRows(batch, channels, rh, func(b, c, y int) {
		srcOff := (((b*channels+c)*shape[2]+r.Y0+y)*width + r.X0) * elemSize
		dstOff := ((b*channels+c)*rh + y) * rowBytes
		copy(dst[dstOff:dstOff+rowBytes], src[srcOff:srcOff+rowBytes])
	}, cpu.parallel)

	return result
}

// AccumulateRegion performs dst[:, :, r.Y0:r.Y1, r.X0:r.X1] += src in place.
// src must have the region's spatial shape and dst's batch/channel dims.
func (cpu *CPUBackend) AccumulateRegion(dst, src *tensor.RawTensor, r tensor.Region) {
	validateRegion("accumulate_region", dst, r)

	shape := dst.Shape()
	batch, channels, width := shape[0], shape[1], shape[3]
	rh, rw := r.Height(), r.Width()

	want := tensor.Shape{batch, channels, rh, rw}
	if !src.Shape().Equal(want) {
		panic(fmt.Sprintf("accumulate_region: src shape %v does not match region shape %v", src.Shape(), want))
	}
	if dst.DType() != src.DType() {
		panic(fmt.Sprintf("accumulate_region: dtype mismatch: %s vs %s", dst.DType(), src.DType()))
	}

	switch dst.DType() {
	case tensor.Float32:
		d, s := dst.AsFloat32(), src.AsFloat32()
		parallel.ForRows(batch, channels, rh, func(b, c, y int) {
			dstOff := ((b*channels+c)*shape[2]+r.Y0+y)*width + r.X0
			srcOff := ((b*channels+c)*rh + y) * rw
			for i := 0; i < rw; i++ {
				d[dstOff+i] += s[srcOff+i]
			}
		}, cpu.parallel)
	case tensor.Float64:
		d, s := dst.AsFloat64(), src.AsFloat64()
		parallel.ForRows(batch, channels, rh, func(b, c, y int) {
			dstOff := ((b*channels+c)*shape[2]+r.Y0+y)*width + r.X0
			srcOff := ((b*channels+c)*rh + y) * rw
			for i := 0; i < rw; i++ {
				d[dstOff+i] += s[srcOff+i]
			}
		}, cpu.parallel)
	default:
		panic(fmt.Sprintf("accumulate_region: unsupported dtype %s", dst.DType()))
	}
}
