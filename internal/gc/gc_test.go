package gc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orus-lang/orus/internal/value"
)

// fakeRoots is a minimal RootProvider for tests: whatever is set as
// Live is reachable, nothing else is.
type fakeRoots struct {
	Live []value.Value
}

func (f *fakeRoots) Roots() []value.Value { return f.Live }

func newLinkedString(h *Heap, s string) value.Value {
	obj := value.NewStringObject(s)
	h.Link(obj)
	return value.FromObject(obj)
}

func TestCollectFreesUnreachableObjects(t *testing.T) {
	h := NewHeap(1, nil)
	roots := &fakeRoots{}

	kept := newLinkedString(h, "kept")
	_ = newLinkedString(h, "garbage")
	roots.Live = []value.Value{kept}

	require.Equal(t, 2, h.Count())
	h.Collect(roots)
	assert.Equal(t, 1, h.Count())
	assert.Equal(t, 1, h.Stats.FreedObjects)
}

func TestCollectKeepsTransitivelyReachableArrayElements(t *testing.T) {
	h := NewHeap(1, nil)
	roots := &fakeRoots{}

	elem := newLinkedString(h, "inside")
	arrObj := value.NewArrayObject([]value.Value{elem})
	h.Link(arrObj)
	arr := value.FromObject(arrObj)
	roots.Live = []value.Value{arr}

	h.Collect(roots)
	assert.Equal(t, 2, h.Count(), "array and its element must both survive")
}

func TestCollectIsIdempotentWhenNothingIsGarbage(t *testing.T) {
	h := NewHeap(1, nil)
	roots := &fakeRoots{}
	kept := newLinkedString(h, "kept")
	roots.Live = []value.Value{kept}

	h.Collect(roots)
	h.Collect(roots)
	assert.Equal(t, 1, h.Count())
}

func TestPauseDefersCollection(t *testing.T) {
	h := NewHeap(1, nil)
	roots := &fakeRoots{}
	_ = newLinkedString(h, "garbage")

	h.Pause()
	h.Collect(roots)
	assert.Equal(t, 1, h.Count(), "paused collector must not sweep")

	h.Resume()
}

func TestTempRootSurvivesCollectionDuringHandler(t *testing.T) {
	h := NewHeap(1, nil)
	roots := &fakeRoots{}

	operand := value.NewStringObject("a")
	h.Link(operand)
	h.PushTempRoot(value.FromObject(operand))
	defer h.PopTempRoot()

	h.Collect(roots)
	assert.Equal(t, 1, h.Count(), "temp-rooted operand must survive a collection with no other roots")
}

func TestReentrantCollectPanics(t *testing.T) {
	h := NewHeap(1, nil)
	h.reentrant = true
	assert.PanicsWithValue(t, ReentrantGCError{}, func() {
		h.Collect(&fakeRoots{})
	})
}

func TestThresholdGrowsMultiplicativelyWhenStillOverAfterCollect(t *testing.T) {
	h := NewHeap(1, nil)
	roots := &fakeRoots{}
	kept := newLinkedString(h, "kept")
	roots.Live = []value.Value{kept}

	before := h.threshold
	h.Collect(roots)
	assert.Greater(t, h.threshold, before)
}
