// Copyright 2025 The Mixtile Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	"github.com/mixtile-ml/mixtile/internal/backend/cpu"
)

// Backend is the CPU implementation of the tensor.Backend interface.
type Backend = cpu.CPUBackend

// New creates a new CPU backend.
func New() *Backend {
	return cpu.New()
}
