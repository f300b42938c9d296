// Copyright 2025 The Mixtile Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tiling provides the public API for enumerating the uniform tile
// grid over a latent canvas.
//
// Tiles are never padded past the canvas border: the grid places the two
// exterior tiles flush with the canvas edges and distributes the interior
// tiles evenly between them, so every tile has the full tile size and the
// whole canvas is covered with bounded overlap.
//
// Example:
//
//	layout, err := tiling.NewLayout(128, 96, 64, 64, 16)
//	if err != nil {
//	    return err
//	}
//	batches := layout.Batches(4) // groups of at most 4 tiles per model call
package tiling

import (
	"github.com/mixtile-ml/mixtile/internal/tiling"
)

// Layout defines how a canvas is split into overlapping uniform tiles.
type Layout = tiling.Layout

// NewLayout creates a tile layout for the given canvas and tile size with
// at least minOverlap pixels of overlap between adjacent tiles.
func NewLayout(canvasW, canvasH, tileW, tileH, minOverlap int) (*Layout, error) {
	return tiling.NewLayout(canvasW, canvasH, tileW, tileH, minOverlap)
}
