package compiler

import (
	"testing"

	"github.com/orus-lang/orus/internal/regfile"
	"github.com/stretchr/testify/assert"
)

func TestResolveFindsInnermostShadowingBinding(t *testing.T) {
	alloc := regfile.NewAllocator()
	s := newScopeStack(alloc)
	s.pushFunction()
	outer := alloc.AllocFrame()
	s.bind("x", outer)

	s.pushBlock()
	inner := alloc.AllocFrame()
	s.bind("x", inner)

	id, ok := s.resolve("x")
	assert.True(t, ok)
	assert.Equal(t, inner, id)

	s.pop()
	id, ok = s.resolve("x")
	assert.True(t, ok)
	assert.Equal(t, outer, id)
}

func TestResolveUnknownNameFails(t *testing.T) {
	alloc := regfile.NewAllocator()
	s := newScopeStack(alloc)
	s.pushFunction()
	_, ok := s.resolve("missing")
	assert.False(t, ok)
}

func TestNearestLoopMatchesLabel(t *testing.T) {
	alloc := regfile.NewAllocator()
	s := newScopeStack(alloc)
	s.pushFunction()
	outer := s.pushLoop("outer", 0)
	s.pushBlock()
	s.pushLoop("inner", 10)

	assert.Same(t, outer, s.nearestLoop("outer"))
	assert.NotNil(t, s.nearestLoop(""))
	assert.Nil(t, s.nearestLoop("nosuch"))
}

func TestPopReleasesBindingsFromAllocator(t *testing.T) {
	alloc := regfile.NewAllocator()
	s := newScopeStack(alloc)
	s.pushFunction()
	s.pushBlock()
	id := alloc.AllocFrame()
	s.bind("tmp", id)
	assert.True(t, alloc.InUse(id))

	s.pop()
	assert.False(t, alloc.InUse(id))
}
