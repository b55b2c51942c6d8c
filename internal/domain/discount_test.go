package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindTierByPercent(t *testing.T) {
	tier, ok := FindTierByPercent(15)
	require.True(t, ok)
	assert.Equal(t, 40, tier.Points)

	_, ok = FindTierByPercent(13)
	assert.False(t, ok)
}

func TestDebitPointsExactBalance(t *testing.T) {
	updated, ok := DebitPoints(20, 20)
	require.True(t, ok)
	assert.Equal(t, 0, updated)
}

func TestDebitPointsInsufficientLeavesBalance(t *testing.T) {
	updated, ok := DebitPoints(19, 20)
	require.False(t, ok)
	assert.Equal(t, 19, updated, "a failed redemption must not change the balance")
}

func TestDebitPointsPartial(t *testing.T) {
	updated, ok := DebitPoints(100, 60)
	require.True(t, ok)
	assert.Equal(t, 40, updated)
}
