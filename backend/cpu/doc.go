// Copyright 2025 The Mixtile Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend for tensor operations.
//
// The backend parallelizes element-wise loops over chunks of the flat
// buffer and region loops over canvas rows. It has no cgo or assembly
// dependencies and works on every platform.
//
// Example:
//
//	import (
//	    "github.com/mixtile-ml/mixtile/backend/cpu"
//	    "github.com/mixtile-ml/mixtile/tensor"
//	)
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{1, 4, 64, 64}, backend)
package cpu
