package batchnum

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromTimestamp(t *testing.T) {
	testCases := []struct {
		name     string
		ts       time.Time
		expected uint32
	}{
		{
			name:     "epoch",
			ts:       time.Unix(0, 0),
			expected: 0,
		},
		{
			name:     "one second before second batch",
			ts:       time.Unix(299, 0),
			expected: 0,
		},
		{
			name:     "start of second batch",
			ts:       time.Unix(300, 0),
			expected: 1,
		},
		{
			name:     "mid batch",
			ts:       time.Unix(300*1000+150, 0),
			expected: 1000,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FromTimestamp(tc.ts))
		})
	}
}

func TestStartOf(t *testing.T) {
	start := StartOf(1000)
	assert.Equal(t, int64(300000), start.Unix())

	// round trip
	assert.Equal(t, uint32(1000), FromTimestamp(start))
	assert.Equal(t, uint32(1000), FromTimestamp(start.Add(BatchDuration-time.Second)))
}

func TestSettlingTime(t *testing.T) {
	assert.Equal(t, StartOf(1001), SettlingTime(1000))
	assert.True(t, SettlingTime(1000).After(StartOf(1000)))
}
