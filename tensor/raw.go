// Copyright 2025 The Mixtile Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/mixtile-ml/mixtile/internal/tensor"

// RawTensor is the low-level tensor representation with reference-counted
// shared buffers. The fusion engine works with RawTensor directly: canvases,
// weight-sum buffers and cached kernels all flow through this type.
type RawTensor = tensor.RawTensor

// NewRaw creates a new raw tensor with the given shape, dtype, and device.
//
// This is a low-level function. Most users should use high-level creation
// functions like Zeros, Ones, or FromSlice instead.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// ZerosLike creates a zero-filled RawTensor with the same shape, dtype and
// device as the reference tensor.
func ZerosLike(ref *RawTensor) *RawTensor {
	return tensor.ZerosLike(ref)
}

// Region is a half-open bounding box [X0, X1) x [Y0, Y1) over the spatial
// dimensions of a 4D [batch, channels, height, width] canvas.
type Region = tensor.Region

// NewRegion constructs a Region from its corner coordinates.
func NewRegion(x0, y0, x1, y1 int) Region {
	return tensor.NewRegion(x0, y0, x1, y1)
}
