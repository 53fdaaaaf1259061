package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherOnAndRemove(t *testing.T) {
	var d Dispatcher
	calls := 0
	remove := d.On(EventClick, func() { calls++ })

	d.Emit(EventClick)
	d.Emit(EventKey)
	assert.Equal(t, 1, calls)

	remove()
	remove()
	d.Emit(EventClick)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, d.Count(EventClick))
}

func TestDispatcherOnceRemovesAllTriggers(t *testing.T) {
	var d Dispatcher
	calls := 0
	d.Once(func() { calls++ }, EventClick, EventKey)
	assert.Equal(t, 1, d.Count(EventClick))
	assert.Equal(t, 1, d.Count(EventKey))

	d.Emit(EventKey)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, d.Count(EventClick))
	assert.Equal(t, 0, d.Count(EventKey))

	d.Emit(EventClick)
	d.Emit(EventKey)
	assert.Equal(t, 1, calls)
}

func TestDispatcherOrderKeptAcrossRemoval(t *testing.T) {
	var d Dispatcher
	var got []string
	d.Once(func() { got = append(got, "resume") }, EventClick)
	d.On(EventClick, func() { got = append(got, "select") })

	d.Emit(EventClick)
	d.Emit(EventClick)
	assert.Equal(t, []string{"resume", "select", "select"}, got)
}
