// Package tiling enumerates the uniform tile grid over a latent canvas.
//
// Tiles are never padded past the canvas border: the grid places the two
// exterior tiles flush with the canvas edges and distributes the interior
// tiles evenly between them, so every tile has the full tile size and the
// whole canvas is covered with bounded overlap. The fusion engine consumes
// the enumeration read-only.
package tiling

import (
	"fmt"

	"github.com/mixtile-ml/mixtile/internal/tensor"
)

// Layout defines how a canvas is split into overlapping uniform tiles.
type Layout struct {
	CanvasW int // Canvas width in latent pixels
	CanvasH int // Canvas height in latent pixels
	TileW   int // Tile width (clamped to canvas width)
	TileH   int // Tile height (clamped to canvas height)

	spaceX float64 // Horizontal pixels between tile origins
	spaceY float64 // Vertical pixels between tile origins
	numX   int     // Number of tiles horizontally
	numY   int     // Number of tiles vertically
}

// NewLayout creates a tile layout for the given canvas and tile size with
// at least minOverlap pixels of overlap between adjacent tiles.
// Invalid geometry fails fast; dimensions are never silently clamped except
// for tiles larger than the canvas, which shrink to the canvas size (a
// single tile then covers the whole axis).
func NewLayout(canvasW, canvasH, tileW, tileH, minOverlap int) (*Layout, error) {
	if canvasW <= 0 || canvasH <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d (must be positive)", canvasW, canvasH)
	}
	if tileW <= 0 || tileH <= 0 {
		return nil, fmt.Errorf("invalid tile size %dx%d (must be positive)", tileW, tileH)
	}
	if minOverlap < 0 {
		return nil, fmt.Errorf("invalid overlap %d (must be >= 0)", minOverlap)
	}

	tileW = min(tileW, canvasW)
	tileH = min(tileH, canvasH)

	if minOverlap >= tileW/2 && canvasW > tileW {
		return nil, fmt.Errorf("overlap %d too large for tile width %d", minOverlap, tileW)
	}
	if minOverlap >= tileH/2 && canvasH > tileH {
		return nil, fmt.Errorf("overlap %d too large for tile height %d", minOverlap, tileH)
	}

	sx, nx := spacingAndCount(canvasW, tileW, minOverlap)
	sy, ny := spacingAndCount(canvasH, tileH, minOverlap)

	return &Layout{
		CanvasW: canvasW,
		CanvasH: canvasH,
		TileW:   tileW,
		TileH:   tileH,
		spaceX:  sx,
		spaceY:  sy,
		numX:    nx,
		numY:    ny,
	}, nil
}

// NumTiles returns the total number of uniform tiles.
func (l *Layout) NumTiles() int {
	return l.numX * l.numY
}

// IsSingle returns true if the layout consists of just one tile.
func (l *Layout) IsSingle() bool {
	return l.numX == 1 && l.numY == 1
}

// TileRegion returns the region of the tile at grid position (tx, ty).
func (l *Layout) TileRegion(tx, ty int) tensor.Region {
	x0 := originAt(tx, l.spaceX)
	y0 := originAt(ty, l.spaceY)
	return tensor.NewRegion(x0, y0, x0+l.TileW, y0+l.TileH)
}

// Regions enumerates every tile region in row-major grid order.
func (l *Layout) Regions() []tensor.Region {
	regions := make([]tensor.Region, 0, l.NumTiles())
	for ty := 0; ty < l.numY; ty++ {
		for tx := 0; tx < l.numX; tx++ {
			regions = append(regions, l.TileRegion(tx, ty))
		}
	}
	return regions
}

// Batches groups the tile regions into ordered batches of at most
// maxBatchSize same-size tiles, each batch processed as one model call.
func (l *Layout) Batches(maxBatchSize int) [][]tensor.Region {
	if maxBatchSize <= 0 {
		maxBatchSize = 1
	}
	regions := l.Regions()
	batches := make([][]tensor.Region, 0, (len(regions)+maxBatchSize-1)/maxBatchSize)
	for start := 0; start < len(regions); start += maxBatchSize {
		end := min(start+maxBatchSize, len(regions))
		batches = append(batches, regions[start:end])
	}
	return batches
}

// originAt returns the X or Y position of the origin of a tile.
func originAt(i int, spaceBetween float64) int {
	return int(float64(i)*spaceBetween + 0.5)
}

// spacingAndCount splits one axis into evenly spaced tile origins.
// With a canvas no larger than the tile, a single tile covers the axis.
// Otherwise the two exterior tiles sit flush with the borders and the
// interior tile count is the minimum that keeps every overlap at least
// minOverlap; distributing the origins evenly means the realized overlap is
// usually larger than the minimum.
func spacingAndCount(srcSize, tileSize, minOverlap int) (float64, int) {
	if srcSize <= tileSize {
		return 0, 1
	}
	innerValid := srcSize - 2*(tileSize-minOverlap)
	interiorValid := tileSize - minOverlap*2
	numInner := 0
	if innerValid > 0 {
		numInner = (innerValid + interiorValid - 1) / interiorValid // round up
	}
	numTotal := 2 + numInner
	return float64(srcSize-tileSize) / float64(numTotal-1), numTotal
}
