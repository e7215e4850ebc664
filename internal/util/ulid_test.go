package util

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDMonotonic(t *testing.T) {
	prev := NewID()
	for i := 0; i < 1000; i++ {
		next := NewID()
		assert.Less(t, prev, next)
		prev = next
	}
}

func TestNewIDParses(t *testing.T) {
	_, err := ulid.ParseStrict(NewID())
	require.NoError(t, err)
}
