// Package store provides the review ledger and card catalog queries on top
// of gorm.
package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/andrewpaige1/lernkarten-api/models"
)

// ErrNotFound is returned when a card or course does not exist or is not
// owned by the requesting user.
var ErrNotFound = errors.New("not found")

// ReviewStore is the append-only ledger of grading events.
type ReviewStore interface {
	// AppendReview inserts a new ledger row. Existing rows are never touched.
	AppendReview(ctx context.Context, r *models.Review) error

	// LatestReview returns the newest review of a card by a user, or nil if
	// the user never reviewed it.
	LatestReview(ctx context.Context, cardID, userID uint) (*models.Review, error)

	// LatestReviewsForCards returns at most one review per card: the newest.
	// Cards without reviews are absent from the map.
	LatestReviewsForCards(ctx context.Context, cardIDs []uint, userID uint) (map[uint]models.Review, error)

	// ReviewHistory returns a card's reviews newest first. limit <= 0 means all.
	ReviewHistory(ctx context.Context, cardID, userID uint, limit int) ([]models.Review, error)
}

// CardStore resolves the cards a user owns through set and course.
type CardStore interface {
	// CardsForUser lists all cards owned by userID. A non-nil courseID limits
	// the result to sets of that course.
	CardsForUser(ctx context.Context, userID uint, courseID *uint) ([]CardRow, error)

	// CardForUser resolves a card by public ID, or ErrNotFound.
	CardForUser(ctx context.Context, userID uint, cardPublicID string) (*CardRow, error)

	// CourseForUser resolves a course by public ID, or ErrNotFound.
	CourseForUser(ctx context.Context, userID uint, coursePublicID string) (*models.Course, error)
}

// Store implements ReviewStore and CardStore.
type Store struct {
	db *gorm.DB
}

var (
	_ ReviewStore = (*Store)(nil)
	_ CardStore   = (*Store)(nil)
)

// New wraps a gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying gorm handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}
