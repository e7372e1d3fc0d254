package xhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type countAction struct{ n int }

func (a *countAction) Run() { a.n++ }

func TestIsNilAction(t *testing.T) {
	var nilFunc ActionFunc
	assert.True(t, IsNilAction(nil))
	assert.True(t, IsNilAction(nilFunc))
	assert.False(t, IsNilAction(ActionFunc(func() {})))
	assert.False(t, IsNilAction(&countAction{}))
}

func TestIsNilPredicate(t *testing.T) {
	var nilFunc PredicateFunc
	assert.True(t, IsNilPredicate(nil))
	assert.True(t, IsNilPredicate(nilFunc))
	assert.False(t, IsNilPredicate(PredicateFunc(func() bool { return false })))
}
