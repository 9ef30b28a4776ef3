package review

import (
	"sort"
	"time"

	"github.com/andrewpaige1/lernkarten-api/models"
	"github.com/andrewpaige1/lernkarten-api/srs"
	"github.com/andrewpaige1/lernkarten-api/store"
)

// Placeholders shown when a card's course or set can no longer be resolved.
const (
	UnknownCourseName = "Unbekannter Kurs"
	UnknownSetTitle   = "Unbekanntes Set"
)

// UnassignedCourseKey groups due cards without a course in DueSet.ByCourse.
const UnassignedCourseKey = "unassigned"

// DueCard is a card the learner should study now.
type DueCard struct {
	CardID      string `json:"cardId"`
	Front       string `json:"front"`
	Back        string `json:"back"`
	SetID       string `json:"setId"`
	SetTitle    string `json:"setTitle"`
	CourseID    string `json:"courseId"`
	CourseName  string `json:"courseName"`
	CourseColor string `json:"courseColor"`

	IsNew          bool       `json:"isNew"`
	LastInterval   int        `json:"lastInterval"`
	LastEaseFactor float64    `json:"lastEaseFactor"`
	NextReviewAt   *time.Time `json:"nextReviewAt,omitempty"`
}

// DueSet is the ordered study queue plus workload counts.
type DueSet struct {
	DueCards []DueCard      `json:"dueCards"`
	TotalDue int            `json:"totalDue"`
	ByCourse map[string]int `json:"byCourse"`
}

// EffectiveState is a card's current schedule: the latest review or the
// defaults for a card never reviewed.
type EffectiveState struct {
	IsNew        bool
	Interval     int
	EaseFactor   float64
	NextReviewAt time.Time
}

// StateOf derives the effective state from the latest review, which may be nil.
func StateOf(latest *models.Review) EffectiveState {
	if latest == nil {
		return EffectiveState{IsNew: true, Interval: 0, EaseFactor: srs.DefaultEaseFactor}
	}
	return EffectiveState{
		Interval:     latest.Interval,
		EaseFactor:   latest.EaseFactor,
		NextReviewAt: latest.NextReviewAt,
	}
}

// IsDue reports whether the card should be studied at now.
func (s EffectiveState) IsDue(now time.Time) bool {
	return s.IsNew || !s.NextReviewAt.After(now)
}

// SelectDue filters cards down to the due ones, attaches display metadata
// and orders new cards before review cards. Within each group the input
// order is kept. Counts cover the full due set; limit > 0 truncates only
// the returned cards.
func SelectDue(cards []store.CardRow, latest map[uint]models.Review, now time.Time, limit int) DueSet {
	set := DueSet{
		DueCards: []DueCard{},
		ByCourse: map[string]int{},
	}

	for _, c := range cards {
		var state EffectiveState
		if r, ok := latest[c.CardID]; ok {
			state = StateOf(&r)
		} else {
			state = StateOf(nil)
		}
		if !state.IsDue(now) {
			continue
		}

		dc := DueCard{
			CardID:         c.CardPublicID,
			Front:          c.Front,
			Back:           c.Back,
			SetID:          c.SetPublicID,
			SetTitle:       c.SetTitle,
			CourseID:       c.CoursePublicID,
			CourseName:     c.CourseName,
			CourseColor:    c.CourseColor,
			IsNew:          state.IsNew,
			LastInterval:   state.Interval,
			LastEaseFactor: state.EaseFactor,
		}
		if !state.IsNew {
			next := state.NextReviewAt
			dc.NextReviewAt = &next
		}
		if dc.SetTitle == "" {
			dc.SetTitle = UnknownSetTitle
		}
		if c.CourseID == nil {
			dc.CourseName = UnknownCourseName
			dc.CourseColor = models.DefaultCourseColor
		}

		set.DueCards = append(set.DueCards, dc)
		key := dc.CourseID
		if key == "" {
			key = UnassignedCourseKey
		}
		set.ByCourse[key]++
	}

	sort.SliceStable(set.DueCards, func(i, j int) bool {
		return set.DueCards[i].IsNew && !set.DueCards[j].IsNew
	})

	set.TotalDue = len(set.DueCards)
	if limit > 0 && len(set.DueCards) > limit {
		set.DueCards = set.DueCards[:limit]
	}
	return set
}
