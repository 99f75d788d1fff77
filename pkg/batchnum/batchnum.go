// Package batchnum holds the batch id arithmetic shared by the trade and
// order pipelines. A batch is a fixed-duration auction round; every order
// and trade is scoped to one or more batch ids.
package batchnum

import "time"

// BatchDuration is the length of one auction round.
const BatchDuration = 5 * time.Minute

// FromTimestamp returns the batch id containing the given time.
func FromTimestamp(t time.Time) uint32 {
	return uint32(t.Unix() / int64(BatchDuration/time.Second))
}

// Current returns the batch id containing now.
func Current(now time.Time) uint32 {
	return FromTimestamp(now)
}

// StartOf returns the wall-clock start of the given batch.
func StartOf(batchID uint32) time.Time {
	return time.Unix(int64(batchID)*int64(BatchDuration/time.Second), 0).UTC()
}

// SettlingTime returns the time at which trades of the given batch become
// final: solutions for batch N are submitted while batch N+1 runs, so the
// settling point is the start of the following batch.
func SettlingTime(batchID uint32) time.Time {
	return StartOf(batchID + 1)
}
