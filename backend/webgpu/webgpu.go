//go:build windows

// Copyright 2025 The Mixtile Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend for GPU-accelerated tensor
// operations, via the zero-CGO go-webgpu bindings.
//
// Example:
//
//	import (
//	    "github.com/mixtile-ml/mixtile/backend/webgpu"
//	    "github.com/mixtile-ml/mixtile/tensor"
//	)
//
//	gpu, err := webgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gpu.Release()
//
//	x := tensor.Zeros[float32](tensor.Shape{1, 4, 64, 64}, gpu)
package webgpu

import (
	internalwebgpu "github.com/mixtile-ml/mixtile/internal/backend/webgpu"
)

// Backend is the WebGPU implementation of the tensor.Backend interface.
type Backend = internalwebgpu.Backend

// New creates a new WebGPU backend.
// Returns an error if WebGPU is not available or initialization fails.
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on this system.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
