package fusion

import (
	"fmt"

	"github.com/mixtile-ml/mixtile/internal/tensor"
)

// condKind discriminates the CondTensor variants.
type condKind int

const (
	condSimple condKind = iota
	condPerStep
)

// CondTensor is a tagged conditioning value: either one tensor shared by
// every denoising step, or a per-step list of tensors. Concatenation is
// defined per variant, so callers never branch on a dynamic shape.
type CondTensor struct {
	kind   condKind
	single *tensor.RawTensor
	list   []*tensor.RawTensor
}

// SimpleCond wraps a single conditioning tensor.
func SimpleCond(raw *tensor.RawTensor) CondTensor {
	return CondTensor{kind: condSimple, single: raw}
}

// PerStepCond wraps a per-timestep list of conditioning tensors.
func PerStepCond(list []*tensor.RawTensor) CondTensor {
	return CondTensor{kind: condPerStep, list: list}
}

// IsZero reports whether the CondTensor carries no tensor.
func (c CondTensor) IsZero() bool {
	return c.single == nil && len(c.list) == 0
}

// Primary returns the tensor governing the current step: the single tensor
// for the Simple variant, the first entry for the PerStep variant.
func (c CondTensor) Primary() *tensor.RawTensor {
	switch c.kind {
	case condSimple:
		return c.single
	case condPerStep:
		if len(c.list) == 0 {
			return nil
		}
		return c.list[0]
	default:
		panic(fmt.Sprintf("unknown cond variant %d", c.kind))
	}
}

// ConcatWith concatenates u and c pairwise along the batch dimension,
// the classifier-guidance layout [uncond; cond]. Both values must carry
// the same variant.
func (c CondTensor) ConcatWith(u CondTensor, b tensor.Backend) CondTensor {
	if c.kind != u.kind {
		panic("cond tensor variant mismatch")
	}
	switch c.kind {
	case condSimple:
		return SimpleCond(b.Cat([]*tensor.RawTensor{u.single, c.single}, 0))
	case condPerStep:
		if len(c.list) != len(u.list) {
			panic(fmt.Sprintf("per-step cond length mismatch: %d vs %d", len(c.list), len(u.list)))
		}
		out := make([]*tensor.RawTensor, len(c.list))
		for i := range c.list {
			out[i] = b.Cat([]*tensor.RawTensor{u.list[i], c.list[i]}, 0)
		}
		return PerStepCond(out)
	default:
		panic(fmt.Sprintf("unknown cond variant %d", c.kind))
	}
}

// Conditioning is the structured conditioning a prediction call consumes:
// a spatial Concat entry, sliced per tile when its spatial shape matches
// the canvas, and a non-spatial CrossAttn entry, replicated per tile.
type Conditioning struct {
	Concat    CondTensor
	CrossAttn CondTensor
}

// tileConditioning assembles the batched conditioning for one tile batch:
// the Concat entry is sliced at each tile region if it spans the canvas
// (otherwise used whole), the CrossAttn entry is replicated once per tile,
// and both are concatenated along the batch dimension.
//
// Shape mismatches between canvas and conditioning surface from the
// backend's Cat, not from special handling here.
func tileConditioning(cond *Conditioning, regions []tensor.Region, canvasH, canvasW int, b tensor.Backend) *Conditioning {
	if cond == nil {
		return nil
	}

	var imageConds, attnConds []*tensor.RawTensor
	for _, r := range regions {
		imageCond := cond.Concat.Primary()
		if imageCond != nil {
			shape := imageCond.Shape()
			if len(shape) == 4 && shape[2] == canvasH && shape[3] == canvasW {
				imageCond = b.SliceRegion(imageCond, r)
			}
			imageConds = append(imageConds, imageCond)
		}
		if attn := cond.CrossAttn.Primary(); attn != nil {
			attnConds = append(attnConds, attn)
		}
	}

	out := &Conditioning{}
	if len(imageConds) > 0 {
		out.Concat = SimpleCond(b.Cat(imageConds, 0))
	}
	if len(attnConds) > 0 {
		out.CrossAttn = SimpleCond(b.Cat(attnConds, 0))
	}
	return out
}
