// Copyright 2025 The Mixtile Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensor operations for the Mixtile
// diffusion tiling engine.
//
// # Overview
//
// Tensors are the fundamental data structure in Mixtile. This package
// provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - NumPy-style broadcasting
//   - Half-open spatial regions over 4D canvases (Region)
//   - Device abstraction (CPU, WebGPU)
//
// # Basic Usage
//
//	import (
//	    "github.com/mixtile-ml/mixtile/tensor"
//	    "github.com/mixtile-ml/mixtile/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    // Create tensors
//	    x := tensor.Zeros[float32](tensor.Shape{1, 4, 64, 64}, backend)
//	    y := tensor.Ones[float32](tensor.Shape{1, 4, 64, 64}, backend)
//
//	    // Tensor operations
//	    z := x.Add(y)
//	}
//
// # Supported Data Types
//
// The tensor package supports floating-point data via the DType constraint:
//   - float32, float64
//
// Latent canvases, weight kernels and noise predictions are all real-valued,
// so the constraint stays narrow on purpose.
//
// # Regions
//
// A Region is a half-open bounding box [X0, X1) x [Y0, Y1) over the spatial
// dimensions of a 4D [batch, channels, height, width] canvas:
//
//	r := tensor.NewRegion(0, 0, 64, 48)
//	patch := canvas.SliceRegion(r)       // [batch, channels, 48, 64]
//
// # Broadcasting
//
// Tensor operations follow NumPy broadcasting rules:
//
//	a := tensor.Zeros[float32](tensor.Shape{3, 1}, backend)  // (3, 1)
//	b := tensor.Ones[float32](tensor.Shape{3, 4}, backend)   // (3, 4)
//	c := a.Add(b)                                            // (3, 4)
//
// # Memory Management
//
// Tensors use zero-copy operations where possible. The underlying data is
// reference-counted and shared between clones until modified.
package tensor
