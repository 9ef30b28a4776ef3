// Package review schedules flashcard reviews: it grades cards into the
// append-only review ledger and computes what a learner should study next.
package review

import (
	"context"
	"errors"
	"time"

	"github.com/andrewpaige1/lernkarten-api/models"
	"github.com/andrewpaige1/lernkarten-api/srs"
	"github.com/andrewpaige1/lernkarten-api/store"
)

// DefaultSessionSize caps a live study batch.
const DefaultSessionSize = 20

// Service grades cards and selects due cards.
type Service struct {
	reviews     store.ReviewStore
	cards       store.CardStore
	now         func() time.Time
	sessionSize int
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSessionSize sets the largest batch DueSet hands out.
func WithSessionSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sessionSize = n
		}
	}
}

// New creates a Service on top of the ledger and card catalog.
func New(reviews store.ReviewStore, cards store.CardStore, opts ...Option) *Service {
	s := &Service{
		reviews:     reviews,
		cards:       cards,
		now:         time.Now,
		sessionSize: DefaultSessionSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SessionSize returns the configured study batch cap.
func (s *Service) SessionSize() int {
	return s.sessionSize
}

// Grade is a learner's answer to one card.
type Grade struct {
	CardID  string
	Quality srs.Quality
}

// GradeResult is the schedule recorded for a graded card.
type GradeResult struct {
	NextReviewAt time.Time `json:"nextReviewAt"`
	Interval     int       `json:"interval"`
	EaseFactor   float64   `json:"easeFactor"`
	CourseID     string    `json:"courseId"`
}

// SubmitGrade schedules the card from its latest review and appends the
// new review to the ledger. Nothing is written when validation fails.
func (s *Service) SubmitGrade(ctx context.Context, userID uint, g Grade) (*GradeResult, error) {
	if userID == 0 {
		return nil, invalidArgument("user is required")
	}
	if g.CardID == "" {
		return nil, invalidArgument("cardId is required")
	}
	if !g.Quality.Valid() {
		return nil, invalidArgument("quality must be between %d and %d, got %d", srs.MinQuality, srs.MaxQuality, g.Quality)
	}

	card, err := s.cards.CardForUser(ctx, userID, g.CardID)
	if err != nil {
		return nil, catalogError("card not found", err)
	}

	latest, err := s.reviews.LatestReview(ctx, card.CardID, userID)
	if err != nil {
		return nil, storageFailure("load latest review", err)
	}
	state := StateOf(latest)

	now := s.now().UTC()
	next := srs.Calculate(g.Quality, state.Interval, state.EaseFactor, now)

	entry := &models.Review{
		FlashcardID:  card.CardID,
		UserID:       userID,
		Quality:      int(g.Quality),
		Interval:     next.Interval,
		EaseFactor:   next.EaseFactor,
		NextReviewAt: next.NextReviewAt,
		ReviewedAt:   now,
	}
	if err := s.reviews.AppendReview(ctx, entry); err != nil {
		return nil, storageFailure("append review", err)
	}

	return &GradeResult{
		NextReviewAt: next.NextReviewAt,
		Interval:     next.Interval,
		EaseFactor:   next.EaseFactor,
		CourseID:     card.CoursePublicID,
	}, nil
}

// DueQuery scopes a due set. An empty CourseID means all courses; Limit 0
// means no cap and larger limits are clamped to the session size.
type DueQuery struct {
	CourseID string
	Limit    int
}

// DueSet computes the cards userID should study now. Any storage failure
// fails the whole call; no partial due set is returned.
func (s *Service) DueSet(ctx context.Context, userID uint, q DueQuery) (*DueSet, error) {
	if userID == 0 {
		return nil, invalidArgument("user is required")
	}
	if q.Limit < 0 {
		return nil, invalidArgument("limit must not be negative")
	}

	var courseID *uint
	if q.CourseID != "" {
		course, err := s.cards.CourseForUser(ctx, userID, q.CourseID)
		if err != nil {
			return nil, catalogError("course not found", err)
		}
		courseID = &course.ID
	}

	cards, err := s.cards.CardsForUser(ctx, userID, courseID)
	if err != nil {
		return nil, storageFailure("load cards", err)
	}

	latest := map[uint]models.Review{}
	if len(cards) > 0 {
		ids := make([]uint, len(cards))
		for i, c := range cards {
			ids[i] = c.CardID
		}
		latest, err = s.reviews.LatestReviewsForCards(ctx, ids, userID)
		if err != nil {
			return nil, storageFailure("load latest reviews", err)
		}
	}

	limit := min(q.Limit, s.sessionSize)
	set := SelectDue(cards, latest, s.now(), limit)
	return &set, nil
}

// History returns the review ledger of one of the user's cards, newest first.
func (s *Service) History(ctx context.Context, userID uint, cardID string, limit int) ([]models.Review, error) {
	if userID == 0 {
		return nil, invalidArgument("user is required")
	}
	if cardID == "" {
		return nil, invalidArgument("cardId is required")
	}

	card, err := s.cards.CardForUser(ctx, userID, cardID)
	if err != nil {
		return nil, catalogError("card not found", err)
	}

	history, err := s.reviews.ReviewHistory(ctx, card.CardID, userID, limit)
	if err != nil {
		return nil, storageFailure("load review history", err)
	}
	return history, nil
}

func catalogError(msg string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound(msg, err)
	}
	return storageFailure(msg, err)
}
