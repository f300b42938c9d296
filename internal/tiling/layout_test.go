package tiling

import (
	"testing"

	"github.com/mixtile-ml/mixtile/internal/tensor"
)

func TestSingleTileWhenCanvasFits(t *testing.T) {
	layout, err := NewLayout(64, 48, 64, 64, 16)
	if err != nil {
		t.Fatalf("NewLayout failed: %v", err)
	}

	if !layout.IsSingle() {
		t.Error("layout should be a single tile")
	}
	if layout.NumTiles() != 1 {
		t.Errorf("NumTiles() = %d, want 1", layout.NumTiles())
	}
	// Oversized tile shrinks to the canvas.
	if layout.TileW != 64 || layout.TileH != 48 {
		t.Errorf("tile size %dx%d, want 64x48", layout.TileW, layout.TileH)
	}

	r := layout.TileRegion(0, 0)
	want := tensor.NewRegion(0, 0, 64, 48)
	if r != want {
		t.Errorf("TileRegion(0,0) = %v, want %v", r, want)
	}
}

func TestExteriorTilesFlushWithBorders(t *testing.T) {
	layout, err := NewLayout(128, 64, 64, 64, 16)
	if err != nil {
		t.Fatalf("NewLayout failed: %v", err)
	}

	regions := layout.Regions()
	if len(regions) != layout.NumTiles() {
		t.Fatalf("Regions() returned %d, NumTiles() = %d", len(regions), layout.NumTiles())
	}

	first := regions[0]
	last := regions[len(regions)-1]
	if first.X0 != 0 || first.Y0 != 0 {
		t.Errorf("first tile %v not flush with origin", first)
	}
	if last.X1 != 128 || last.Y1 != 64 {
		t.Errorf("last tile %v not flush with far corner", last)
	}
}

func TestAllTilesFullSizeAndInBounds(t *testing.T) {
	layout, err := NewLayout(200, 136, 64, 64, 16)
	if err != nil {
		t.Fatalf("NewLayout failed: %v", err)
	}

	for _, r := range layout.Regions() {
		if r.Width() != 64 || r.Height() != 64 {
			t.Errorf("tile %v is not full size", r)
		}
		if err := r.Validate(200, 136); err != nil {
			t.Errorf("tile %v out of bounds: %v", r, err)
		}
	}
}

func TestMinimumOverlapHonored(t *testing.T) {
	layout, err := NewLayout(200, 64, 64, 64, 16)
	if err != nil {
		t.Fatalf("NewLayout failed: %v", err)
	}

	regions := layout.Regions()
	for i := 1; i < len(regions); i++ {
		overlap := regions[i-1].X1 - regions[i].X0
		if overlap < 16 {
			t.Errorf("overlap between tile %d and %d is %d, want >= 16", i-1, i, overlap)
		}
	}
}

func TestKnownGrid(t *testing.T) {
	// 128 wide, 64-wide tiles, overlap 16: one interior tile, spacing 32.
	layout, err := NewLayout(128, 64, 64, 64, 16)
	if err != nil {
		t.Fatalf("NewLayout failed: %v", err)
	}

	if layout.NumTiles() != 3 {
		t.Fatalf("NumTiles() = %d, want 3", layout.NumTiles())
	}
	wantOrigins := []int{0, 32, 64}
	for i, r := range layout.Regions() {
		if r.X0 != wantOrigins[i] {
			t.Errorf("tile %d origin %d, want %d", i, r.X0, wantOrigins[i])
		}
	}
}

func TestCanvasFullyCovered(t *testing.T) {
	layout, err := NewLayout(150, 90, 64, 48, 8)
	if err != nil {
		t.Fatalf("NewLayout failed: %v", err)
	}

	covered := make([][]bool, 90)
	for y := range covered {
		covered[y] = make([]bool, 150)
	}
	for _, r := range layout.Regions() {
		for y := r.Y0; y < r.Y1; y++ {
			for x := r.X0; x < r.X1; x++ {
				covered[y][x] = true
			}
		}
	}
	for y := range covered {
		for x := range covered[y] {
			if !covered[y][x] {
				t.Fatalf("pixel (%d, %d) not covered by any tile", x, y)
			}
		}
	}
}

func TestBatches(t *testing.T) {
	layout, err := NewLayout(200, 136, 64, 64, 16)
	if err != nil {
		t.Fatalf("NewLayout failed: %v", err)
	}

	batches := layout.Batches(4)
	total := 0
	for _, batch := range batches {
		if len(batch) > 4 {
			t.Errorf("batch has %d tiles, want <= 4", len(batch))
		}
		total += len(batch)
	}
	if total != layout.NumTiles() {
		t.Errorf("batches hold %d tiles, want %d", total, layout.NumTiles())
	}

	// Non-positive batch size degrades to one tile per call.
	for _, batch := range layout.Batches(0) {
		if len(batch) != 1 {
			t.Errorf("batch size 0 should yield singleton batches, got %d", len(batch))
		}
	}
}

func TestNewLayoutErrors(t *testing.T) {
	tests := []struct {
		name                                    string
		canvasW, canvasH, tileW, tileH, overlap int
	}{
		{"zero canvas width", 0, 64, 64, 64, 8},
		{"negative canvas height", 64, -1, 64, 64, 8},
		{"zero tile width", 64, 64, 0, 64, 8},
		{"negative overlap", 128, 64, 64, 64, -1},
		{"overlap too wide", 128, 64, 64, 64, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLayout(tt.canvasW, tt.canvasH, tt.tileW, tt.tileH, tt.overlap); err == nil {
				t.Error("NewLayout should fail")
			}
		})
	}
}
