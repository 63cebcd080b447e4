package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeter interface{ Greet() string }

type english struct{}

func (english) Greet() string { return "hello" }

func TestTypedLookup(t *testing.T) {
	r := NewRegistry()
	r.Register("greeter", english{})

	g, err := GetServiceFrom[greeter](r, "greeter")
	require.NoError(t, err)
	assert.Equal(t, "hello", g.Greet())

	_, err = GetServiceFrom[greeter](r, "missing")
	assert.Error(t, err)

	r.Register("number", 42)
	_, err = GetServiceFrom[greeter](r, "number")
	assert.ErrorContains(t, err, "wrong type")

	assert.Equal(t, []string{"greeter", "number"}, r.List())
}
