package fusion

import (
	"fmt"
	"math"

	"github.com/mixtile-ml/mixtile/internal/tensor"
)

// globalEpsilon is the tolerance below which the global multiplier is
// treated as exactly 1.0 and the output rebalance is skipped.
const globalEpsilon = 1e-6

// PredictFunc is the external denoising model: it maps a noisy tensor, a
// timestep tensor and a conditioning structure to a predicted-noise tensor
// of the same shape as x. The engine calls it once per uniform-tile batch.
type PredictFunc func(x, t *tensor.RawTensor, cond *Conditioning) (*tensor.RawTensor, error)

// RegionForward produces a custom region's prediction from the region's own
// conditioning/unconditioning pair. The run's sampler family decides which
// adapter to inject: classifier-guidance style or plain.
type RegionForward func(x, t *tensor.RawTensor, cond, uncond *Conditioning) (*tensor.RawTensor, error)

// GuidedRegionForward adapts a PredictFunc into the classifier-guidance
// layout: the region input and timestep are duplicated along the batch
// dimension, the conditioning pair is concatenated as [uncond; cond], and
// the conditioned half of the prediction is returned.
func GuidedRegionForward(predict PredictFunc, b tensor.Backend) RegionForward {
	return func(x, t *tensor.RawTensor, cond, uncond *Conditioning) (*tensor.RawTensor, error) {
		xIn := b.Cat([]*tensor.RawTensor{x, x}, 0)
		var tIn *tensor.RawTensor
		if t != nil {
			tIn = b.Cat([]*tensor.RawTensor{t, t}, 0)
		}

		joint := &Conditioning{}
		if cond != nil && uncond != nil {
			if !cond.Concat.IsZero() {
				joint.Concat = cond.Concat.ConcatWith(uncond.Concat, b)
			}
			if !cond.CrossAttn.IsZero() {
				joint.CrossAttn = cond.CrossAttn.ConcatWith(uncond.CrossAttn, b)
			}
		}

		out, err := predict(xIn, tIn, joint)
		if err != nil {
			return nil, err
		}
		halves := b.Chunk(out, 2, 0)
		return halves[1], nil // [uncond; cond] layout: conditioned half
	}
}

// PlainRegionForward adapts a PredictFunc for sampler families without
// classifier guidance: the unconditioning is ignored.
func PlainRegionForward(predict PredictFunc) RegionForward {
	return func(x, t *tensor.RawTensor, cond, _ *Conditioning) (*tensor.RawTensor, error) {
		return predict(x, t, cond)
	}
}

// CustomRegion is a user-declared canvas rectangle with its own
// conditioning and blend strength. Custom regions may overlap each other
// and the uniform tiling; contributions are additive.
type CustomRegion struct {
	Region     tensor.Region
	Cond       *Conditioning
	Uncond     *Conditioning
	Multiplier float64 // non-negative blend strength
}

// Config describes one generation run's tiling and blending.
type Config struct {
	// TileW and TileH are the uniform tile size. All uniform tiles share it.
	TileW int
	TileH int

	// Batches is the ordered uniform-tile enumeration: each batch is a group
	// of same-size regions predicted in a single model call. Consumed
	// read-only.
	Batches [][]tensor.Region

	// Regions are the custom regions, processed in declaration order after
	// the uniform pass.
	Regions []CustomRegion

	// GlobalMultiplier rebalances the uniform pass against the custom
	// regions. The uniform phase is skipped entirely when <= 0.
	GlobalMultiplier float64

	// RegionForward is the adapter for custom-region prediction. Defaults
	// to GuidedRegionForward over the engine's predict function.
	RegionForward RegionForward

	// Progress is invoked once per processed batch/region. Failures in it
	// never abort fusion.
	Progress func()

	// Interrupt is polled before each uniform-tile batch. Nil means no
	// interrupt source.
	Interrupt *Interrupt
}

// State is the engine lifecycle state.
type State int

// Engine lifecycle states. Setup transitions Uninitialized -> Ready;
// Reset transitions back.
const (
	StateUninitialized State = iota
	StateReady
)

// Engine fuses per-tile denoising predictions into one canvas-shaped
// output per step.
//
// Weight buffers are computed once by Setup and are read-only afterwards;
// the per-step output buffer is owned by each Step call and discarded at
// step end, so no locking is needed beyond calling Setup exactly once.
type Engine struct {
	backend tensor.Backend
	predict PredictFunc
	forward RegionForward
	cfg     Config

	state       State
	canvasShape tensor.Shape

	// perTileWeights is the uniform kernel, shared by every uniform tile.
	perTileWeights *tensor.RawTensor
	// rescale is the canvas-shaped reciprocal of the accumulated weights.
	// The raw Gaussian weights can be extremely small, so contributions are
	// rescaled for numerical stability.
	rescale *tensor.RawTensor
	// customWeights holds each region's finalized cached weight, pre-sized
	// and indexed by region id.
	customWeights []*tensor.RawTensor
}

// NewEngine creates a fusion engine around an injected prediction function.
// The caller decides whether predict is the real model or a wrapped one; no
// runtime entry-point rewriting is involved.
func NewEngine(b tensor.Backend, predict PredictFunc, cfg Config, opts ...Option) *Engine {
	for _, opt := range opts {
		opt(&cfg)
	}
	forward := cfg.RegionForward
	if forward == nil {
		forward = GuidedRegionForward(predict, b)
	}
	return &Engine{
		backend: b,
		predict: predict,
		forward: forward,
		cfg:     cfg,
		state:   StateUninitialized,
	}
}

// State returns the engine's lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Setup validates the run geometry and builds the weight buffers for a
// canvas of the given shape and dtype: the shared per-tile kernel, the
// canvas-shaped weight sum over every uniform tile and custom region, its
// reciprocal rescale factor, and each region's finalized cached weight
// (kernel x multiplier x rescale slice).
//
// Setup runs exactly once per run; re-running it would double-apply the
// rescale to the cached region weights, so a Ready engine returns an error.
// Call Reset to deliberately reuse the engine for a new run.
func (e *Engine) Setup(canvasShape tensor.Shape, dtype tensor.DataType) error {
	if e.state == StateReady {
		return fmt.Errorf("engine already set up; call Reset before reusing it")
	}
	if len(canvasShape) != 4 {
		return fmt.Errorf("expected 4D canvas shape [batch, channels, height, width], got %v", canvasShape)
	}
	if err := canvasShape.Validate(); err != nil {
		return fmt.Errorf("invalid canvas shape: %w", err)
	}

	canvasH, canvasW := canvasShape[2], canvasShape[3]
	device := e.backend.Device()

	if err := e.validateGeometry(canvasW, canvasH); err != nil {
		return err
	}

	// Shared kernel for the standard tile size.
	if len(e.cfg.Batches) > 0 {
		kernel, err := GaussianKernel(e.cfg.TileW, e.cfg.TileH, dtype, device)
		if err != nil {
			return fmt.Errorf("per-tile weights: %w", err)
		}
		e.perTileWeights = kernel
	}

	// Canvas-shaped weight sum: every placed uniform-tile kernel plus every
	// custom-region kernel at its offset.
	weights, err := tensor.NewRaw(tensor.Shape{1, 1, canvasH, canvasW}, dtype, device)
	if err != nil {
		return err
	}
	for _, batch := range e.cfg.Batches {
		for _, r := range batch {
			patch := e.perTileWeights.WithShape(tensor.Shape{1, 1, e.cfg.TileH, e.cfg.TileW})
			e.backend.AccumulateRegion(weights, patch, r)
		}
	}

	regionKernels := make([]*tensor.RawTensor, len(e.cfg.Regions))
	for i, reg := range e.cfg.Regions {
		kernel, err := GaussianKernel(reg.Region.Width(), reg.Region.Height(), dtype, device)
		if err != nil {
			return fmt.Errorf("region %d weights: %w", i, err)
		}
		patch := e.backend.MulScalar(kernel, reg.Multiplier).
			WithShape(tensor.Shape{1, 1, reg.Region.Height(), reg.Region.Width()})
		e.backend.AccumulateRegion(weights, patch, reg.Region)
		regionKernels[i] = patch
	}

	// Reciprocal rescale factor. A zero weight sum means some canvas
	// location is covered by no tile or region; the resulting Inf is a
	// caller precondition violation and propagates undefended.
	e.rescale = e.backend.Reciprocal(weights)

	// Finalize the cached region weights exactly once.
	e.customWeights = make([]*tensor.RawTensor, len(e.cfg.Regions))
	for i, reg := range e.cfg.Regions {
		e.customWeights[i] = e.backend.Mul(regionKernels[i], e.backend.SliceRegion(e.rescale, reg.Region))
	}

	e.canvasShape = canvasShape.Clone()
	e.state = StateReady
	return nil
}

// validateGeometry fails fast on non-positive tile dimensions, off-size
// uniform tiles or out-of-canvas regions. Nothing is clamped.
func (e *Engine) validateGeometry(canvasW, canvasH int) error {
	if len(e.cfg.Batches) > 0 && (e.cfg.TileW <= 0 || e.cfg.TileH <= 0) {
		return fmt.Errorf("invalid tile size %dx%d (must be positive)", e.cfg.TileW, e.cfg.TileH)
	}
	for bi, batch := range e.cfg.Batches {
		for ti, r := range batch {
			if err := r.Validate(canvasW, canvasH); err != nil {
				return fmt.Errorf("batch %d tile %d: %w", bi, ti, err)
			}
			if r.Width() != e.cfg.TileW || r.Height() != e.cfg.TileH {
				return fmt.Errorf("batch %d tile %d: size %dx%d does not match tile size %dx%d",
					bi, ti, r.Width(), r.Height(), e.cfg.TileW, e.cfg.TileH)
			}
		}
	}
	for i, reg := range e.cfg.Regions {
		if err := reg.Region.Validate(canvasW, canvasH); err != nil {
			return fmt.Errorf("custom region %d: %w", i, err)
		}
		if reg.Multiplier < 0 {
			return fmt.Errorf("custom region %d: negative multiplier %g", i, reg.Multiplier)
		}
	}
	return nil
}

// Reset returns the engine to Uninitialized so it can be set up for a new
// run. Reuse across runs is deliberate, never implicit.
func (e *Engine) Reset() {
	e.state = StateUninitialized
	e.canvasShape = nil
	e.perTileWeights = nil
	e.rescale = nil
	e.customWeights = nil
}

// Step runs one denoising step: it slices the canvas into tiles, obtains
// per-tile predictions, tapers them by the precomputed weights and
// accumulates everything into a fresh canvas-shaped output buffer.
//
// If the interrupt flag is observed before a uniform batch, the input
// canvas is returned unmodified: no partial contribution escapes.
func (e *Engine) Step(x, t *tensor.RawTensor, cond *Conditioning) (*tensor.RawTensor, error) {
	if e.state != StateReady {
		return nil, fmt.Errorf("engine not set up; call Setup first")
	}
	if !x.Shape().Equal(e.canvasShape) {
		return nil, fmt.Errorf("canvas shape %v does not match setup shape %v", x.Shape(), e.canvasShape)
	}

	canvasH, canvasW := e.canvasShape[2], e.canvasShape[3]
	xBuffer := tensor.ZerosLike(x)

	// Uniform-tile sampling, skipped entirely in pure custom-region mode.
	if e.cfg.GlobalMultiplier > 0 {
		for _, batch := range e.cfg.Batches {
			if e.cfg.Interrupt.Interrupted() {
				return x, nil
			}

			tiles := make([]*tensor.RawTensor, len(batch))
			for i, r := range batch {
				tiles[i] = e.backend.SliceRegion(x, r)
			}
			xTile := e.backend.Cat(tiles, 0)

			var tTile *tensor.RawTensor
			if t != nil {
				reps := make([]*tensor.RawTensor, len(batch))
				for i := range reps {
					reps[i] = t
				}
				tTile = e.backend.Cat(reps, 0)
			}

			condTile := tileConditioning(cond, batch, canvasH, canvasW, e.backend)

			out, err := e.predict(xTile, tTile, condTile)
			if err != nil {
				return nil, fmt.Errorf("tile batch prediction: %w", err)
			}

			parts := e.backend.Chunk(out, len(batch), 0)
			for i, r := range batch {
				// Caching these per-tile weights for every tile of a large
				// canvas costs too much memory, so they are recomputed each
				// step from the shared kernel and the rescale slice.
				w := e.backend.Mul(e.perTileWeights, e.backend.SliceRegion(e.rescale, r))
				e.backend.AccumulateRegion(xBuffer, e.backend.Mul(parts[i], w), r)
			}

			e.reportProgress()
		}
	}

	// Custom region sampling. This phase does not poll the interrupt flag,
	// matching the reference behavior (regions are few and fast).
	if len(e.cfg.Regions) > 0 {
		if e.cfg.GlobalMultiplier > 0 && math.Abs(e.cfg.GlobalMultiplier-1.0) > globalEpsilon {
			xBuffer = e.backend.MulScalar(xBuffer, e.cfg.GlobalMultiplier)
		}

		for i, reg := range e.cfg.Regions {
			xTile := e.backend.SliceRegion(x, reg.Region)
			out, err := e.forward(xTile, t, reg.Cond, reg.Uncond)
			if err != nil {
				return nil, fmt.Errorf("custom region %d prediction: %w", i, err)
			}
			out = e.backend.Mul(out, e.customWeights[i])
			e.backend.AccumulateRegion(xBuffer, out, reg.Region)

			e.reportProgress()
		}
	}

	return xBuffer, nil
}

// reportProgress invokes the progress callback, swallowing any panic so a
// faulty reporter cannot abort fusion.
func (e *Engine) reportProgress() {
	if e.cfg.Progress == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	e.cfg.Progress()
}
