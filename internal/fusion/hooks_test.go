package fusion

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixtile-ml/mixtile/internal/tensor"
)

// mockModel is a minimal Hookable with a swappable prediction entry point.
type mockModel struct {
	fn PredictFunc
}

func (m *mockModel) PredictFunc() PredictFunc      { return m.fn }
func (m *mockModel) SetPredictFunc(fn PredictFunc) { m.fn = fn }

func fnPointer(fn PredictFunc) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

func namedPredict(marker *string, name string) PredictFunc {
	return func(x, _ *tensor.RawTensor, _ *Conditioning) (*tensor.RawTensor, error) {
		*marker = name
		return x, nil
	}
}

func TestHookAttachDetach(t *testing.T) {
	var marker string
	original := namedPredict(&marker, "original")
	replacement := namedPredict(&marker, "replacement")

	m := &mockModel{fn: original}
	h := &Hook{}

	assert.False(t, h.Attached())

	h.Attach(m, replacement)
	assert.True(t, h.Attached())

	_, err := m.fn(nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "replacement", marker)

	h.Detach(m)
	assert.False(t, h.Attached())
	assert.Equal(t, fnPointer(original), fnPointer(m.fn), "detach must restore the exact original")
}

func TestHookAttachIdempotent(t *testing.T) {
	var marker string
	original := namedPredict(&marker, "original")
	first := namedPredict(&marker, "first")
	second := namedPredict(&marker, "second")

	m := &mockModel{fn: original}
	h := &Hook{}

	h.Attach(m, first)
	// A second attach is a no-op: it must not capture "first" as the new
	// original or install "second".
	h.Attach(m, second)

	assert.Equal(t, fnPointer(first), fnPointer(m.fn))

	h.Detach(m)
	assert.Equal(t, fnPointer(original), fnPointer(m.fn))
}

func TestHookDetachUnattachedNoOp(t *testing.T) {
	var marker string
	original := namedPredict(&marker, "original")
	m := &mockModel{fn: original}
	h := &Hook{}

	assert.NotPanics(t, func() { h.Detach(m) })
	assert.Equal(t, fnPointer(original), fnPointer(m.fn))
}

func TestHookNotifyRunCompleteDetachesOnce(t *testing.T) {
	var marker string
	original := namedPredict(&marker, "original")
	replacement := namedPredict(&marker, "replacement")

	m := &mockModel{fn: original}
	h := &Hook{}
	h.Attach(m, replacement)

	h.NotifyRunComplete(m)
	assert.False(t, h.Attached())
	assert.Equal(t, fnPointer(original), fnPointer(m.fn))

	// Later notifications are no-ops even after external rewiring.
	other := namedPredict(&marker, "other")
	m.fn = other
	h.NotifyRunComplete(m)
	assert.Equal(t, fnPointer(other), fnPointer(m.fn))
}

func TestHookReattachAfterNotify(t *testing.T) {
	var marker string
	original := namedPredict(&marker, "original")
	replacement := namedPredict(&marker, "replacement")

	m := &mockModel{fn: original}
	h := &Hook{}

	h.Attach(m, replacement)
	h.NotifyRunComplete(m)

	// A fresh attach re-arms the notification.
	h.Attach(m, replacement)
	assert.True(t, h.Attached())
	h.NotifyRunComplete(m)
	assert.False(t, h.Attached())
	assert.Equal(t, fnPointer(original), fnPointer(m.fn))
}
