// Package main provides the Mixtile CLI.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mixtile-ml/mixtile/tiling"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Mixtile %s\n", version)
			return
		case "plan":
			if err := runPlan(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "mixtile plan: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	fmt.Println("Mixtile - Tiled Diffusion Fusion for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  plan       Print the uniform tile grid for a canvas")
}

// runPlan prints the tile regions a canvas would be split into.
func runPlan(args []string) error {
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	canvasW := fs.Int("width", 128, "canvas width in latent pixels")
	canvasH := fs.Int("height", 64, "canvas height in latent pixels")
	tileW := fs.Int("tile-width", 64, "tile width in latent pixels")
	tileH := fs.Int("tile-height", 64, "tile height in latent pixels")
	overlap := fs.Int("overlap", 16, "minimum overlap between adjacent tiles")
	batch := fs.Int("batch", 4, "maximum tiles per model call")
	if err := fs.Parse(args); err != nil {
		return err
	}

	layout, err := tiling.NewLayout(*canvasW, *canvasH, *tileW, *tileH, *overlap)
	if err != nil {
		return err
	}

	fmt.Printf("canvas %dx%d, tile %dx%d, %d tiles\n",
		layout.CanvasW, layout.CanvasH, layout.TileW, layout.TileH, layout.NumTiles())
	for bi, regions := range layout.Batches(*batch) {
		fmt.Printf("batch %d:\n", bi)
		for _, r := range regions {
			fmt.Printf("  %s\n", r)
		}
	}
	return nil
}
