package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollPeriod(t *testing.T) {
	period, err := pollPeriod(5)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, period)

	for _, seconds := range []int{0, -3} {
		_, err := pollPeriod(seconds)
		require.ErrorContains(t, err, "interval must be at least 1 second")
	}
}
