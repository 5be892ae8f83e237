package main

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlug struct {
	on    bool
	calls []string
}

func (f *fakePlug) TurnOn() {
	f.calls = append(f.calls, "on")
	f.on = true
}

func (f *fakePlug) TurnOff() {
	f.calls = append(f.calls, "off")
	f.on = false
}

func (f *fakePlug) QueryState() bool {
	f.calls = append(f.calls, "query")
	return f.on
}

func TestPSUControlWithoutPlugins(t *testing.T) {
	logger, _ := test.NewNullLogger()
	c := newPSUControl(logger)

	assert.EqualError(t, c.TurnOn(), "no PSU plugin registered")
	assert.EqualError(t, c.TurnOff(), "no PSU plugin registered")
	_, err := c.QueryState()
	assert.EqualError(t, err, "no PSU plugin registered")
}

func TestPSUControlDispatch(t *testing.T) {
	logger, _ := test.NewNullLogger()
	c := newPSUControl(logger)
	first := &fakePlug{}
	second := &fakePlug{}

	c.RegisterPlugin(first)
	c.RegisterPlugin(second)
	assert.Equal(t, 2, c.Registered())

	require.NoError(t, c.TurnOn())
	on, err := c.QueryState()
	require.NoError(t, err)
	assert.True(t, on)

	require.NoError(t, c.TurnOff())
	on, err = c.QueryState()
	require.NoError(t, err)
	assert.False(t, on)

	assert.Equal(t, []string{"on", "query", "off", "query"}, first.calls)
	assert.Empty(t, second.calls)
}
