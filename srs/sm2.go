// Package srs implements the SM-2 spaced repetition schedule used for
// flashcard reviews.
//
// Two deviations from textbook SM-2: the grading UI only emits the grades
// Again, Hard, Good and Easy, and a failed card is requeued a few minutes
// later in the same session instead of being pushed to tomorrow.
package srs

import (
	"math"
	"time"
)

// Quality is the recall grade a learner gives a card, 0 (blackout) to 5 (perfect).
type Quality int

// Grades produced by the study UI. 0 and 2 are accepted but never emitted.
const (
	Again Quality = 1
	Hard  Quality = 3
	Good  Quality = 4
	Easy  Quality = 5
)

const (
	MinQuality Quality = 0
	MaxQuality Quality = 5

	// PassThreshold is the lowest grade counted as a successful recall.
	PassThreshold Quality = 3
)

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3

	// RequeueDelay is how long a failed card waits before it is due again.
	RequeueDelay = 10 * time.Minute
)

// Valid reports whether q lies in the SM-2 grade range.
func (q Quality) Valid() bool {
	return q >= MinQuality && q <= MaxQuality
}

// Passed reports whether q counts as a successful recall.
func (q Quality) Passed() bool {
	return q >= PassThreshold
}

// Result is the schedule produced by a single review.
type Result struct {
	Interval     int       // days; 0 means requeued within the session
	EaseFactor   float64   // rounded to two decimals
	NextReviewAt time.Time // absolute due instant
}

// Calculate computes the next schedule for a card from its previous interval
// and ease factor. New cards pass interval 0 and DefaultEaseFactor.
//
// The caller validates quality; Calculate never fails.
func Calculate(quality Quality, prevInterval int, prevEase float64, now time.Time) Result {
	if !quality.Passed() {
		return Result{
			Interval:     0,
			EaseFactor:   prevEase,
			NextReviewAt: now.Add(RequeueDelay),
		}
	}

	ease := NextEaseFactor(prevEase, quality)

	var interval int
	switch prevInterval {
	case 0:
		interval = 1
	case 1:
		interval = 6
	default:
		interval = int(math.Round(float64(prevInterval) * ease))
	}

	return Result{
		Interval:     interval,
		EaseFactor:   roundEase(ease),
		NextReviewAt: now.AddDate(0, 0, interval),
	}
}

// NextEaseFactor applies the SM-2 ease adjustment for a passing grade and
// clamps the result at MinEaseFactor. The value is not rounded.
func NextEaseFactor(prevEase float64, quality Quality) float64 {
	d := float64(MaxQuality - quality)
	ease := prevEase + (0.1 - d*(0.08+d*0.02))
	if ease < MinEaseFactor {
		ease = MinEaseFactor
	}
	return ease
}

func roundEase(ease float64) float64 {
	r := math.Round(ease*100) / 100
	if r < MinEaseFactor {
		return MinEaseFactor
	}
	return r
}
