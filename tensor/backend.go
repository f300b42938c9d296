// Copyright 2025 The Mixtile Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/mixtile-ml/mixtile/internal/tensor"

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: Pure Go with chunked parallel loops
//   - backend/webgpu: GPU compute via WebGPU (windows builds)
//
// Example:
//
//	import (
//	    "github.com/mixtile-ml/mixtile/tensor"
//	    "github.com/mixtile-ml/mixtile/backend/cpu"
//	)
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{1, 4, 64, 64}, backend)
//	y := tensor.Ones[float32](tensor.Shape{1, 4, 64, 64}, backend)
//	z := x.Add(y)  // Uses backend.Add under the hood
type Backend = tensor.Backend
