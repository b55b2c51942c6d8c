package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitsToCents(t *testing.T) {
	assert.Equal(t, int64(12050), UnitsToCents(120.50))
	assert.Equal(t, int64(10), UnitsToCents(0.1))
	assert.Equal(t, int64(0), UnitsToCents(0))
}

func TestCentsToUnits(t *testing.T) {
	assert.Equal(t, 250.50, CentsToUnits(25050))
	assert.Equal(t, 0.01, CentsToUnits(1))
}
