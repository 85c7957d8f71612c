package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCard(t *testing.T) {
	assert.Equal(t, StampCard{TotalStamps: 3, CompletedCycles: 0, Required: 10}, Card(3, 10))
	assert.Equal(t, StampCard{TotalStamps: 2, CompletedCycles: 2, Required: 10}, Card(22, 10))
	assert.Equal(t, StampCard{TotalStamps: 0, CompletedCycles: 1, Required: 10}, Card(10, 0))
	assert.Equal(t, StampCard{TotalStamps: 1, CompletedCycles: 2, Required: 5}, Card(11, 5))
}

func TestCanRedeem(t *testing.T) {
	assert.False(t, CanRedeem(9, 10, 0))
	assert.True(t, CanRedeem(10, 10, 0))
	assert.False(t, CanRedeem(15, 10, 1))
	assert.True(t, CanRedeem(20, 10, 1))
}

func TestPlatformFee(t *testing.T) {
	assert.Equal(t, int64(100), PlatformFee(1000, 10))
	assert.Equal(t, int64(0), PlatformFee(1000, 0))
	assert.Equal(t, int64(33), PlatformFee(333, 10))
	assert.Equal(t, int64(0), PlatformFee(-5, 10))
}
