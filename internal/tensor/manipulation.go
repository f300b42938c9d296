package tensor

// Cat concatenates tensors along the specified dimension.
//
// All tensors must have the same shape except along the concatenation
// dimension. Supports negative dim indexing (-1 = last dimension).
// Same-size tiles are concatenated along dim 0 to form one batched model
// call.
//
// Example:
//
//	a := tensor.Zeros[float32](Shape{1, 4, 32, 64}, backend)
//	b := tensor.Zeros[float32](Shape{1, 4, 32, 64}, backend)
//	c := tensor.Cat([]*Tensor[float32, B]{a, b}, 0) // Shape: [2, 4, 32, 64]
func Cat[T DType, B Backend](tensors []*Tensor[T, B], dim int) *Tensor[T, B] {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}

	if len(tensors) == 1 {
		// Single tensor - return clone
		return tensors[0].Clone()
	}

	// Extract raw tensors and backend
	rawTensors := make([]*RawTensor, len(tensors))
	backend := tensors[0].backend
	for i, t := range tensors {
		rawTensors[i] = t.raw
	}

	result := backend.Cat(rawTensors, dim)
	return New[T, B](result, backend)
}
