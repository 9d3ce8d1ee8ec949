package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasEnoughData(t *testing.T) {
	assert.False(t, HasEnoughData(0))
	assert.False(t, HasEnoughData(1))
	assert.False(t, HasEnoughData(2))
	assert.True(t, HasEnoughData(3))
	assert.True(t, HasEnoughData(100))
}

func TestNeededMore(t *testing.T) {
	assert.Equal(t, 3, NeededMore(0))
	assert.Equal(t, 2, NeededMore(1))
	assert.Equal(t, 1, NeededMore(2))
	assert.Equal(t, 0, NeededMore(3))
	assert.Equal(t, 0, NeededMore(50))
}
