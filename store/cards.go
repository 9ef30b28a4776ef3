package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/andrewpaige1/lernkarten-api/models"
)

// CardRow is a card joined with its set and, if still present, its course.
type CardRow struct {
	CardID       uint
	CardPublicID string
	Front        string
	Back         string
	OrderIndex   int

	SetID       uint
	SetPublicID string
	SetTitle    string

	// CourseID is nil when the set has no course or the course is gone.
	CourseID       *uint
	CoursePublicID string
	CourseName     string
	CourseColor    string
}

const cardColumns = `flashcards.id AS card_id,
	flashcards.public_id AS card_public_id,
	flashcards.front AS front,
	flashcards.back AS back,
	flashcards.order_index AS order_index,
	flashcard_sets.id AS set_id,
	flashcard_sets.public_id AS set_public_id,
	flashcard_sets.title AS set_title,
	courses.id AS course_id,
	COALESCE(courses.public_id, '') AS course_public_id,
	COALESCE(courses.name, '') AS course_name,
	COALESCE(courses.color, '') AS course_color`

// ownedCards selects the non-deleted cards in sets owned by userID.
func (s *Store) ownedCards(ctx context.Context, userID uint) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("flashcards").
		Select(cardColumns).
		Joins("JOIN flashcard_sets ON flashcard_sets.id = flashcards.set_id AND flashcard_sets.deleted_at IS NULL").
		Joins("LEFT JOIN courses ON courses.id = flashcard_sets.course_id AND courses.deleted_at IS NULL").
		Where("flashcards.deleted_at IS NULL AND flashcard_sets.user_id = ?", userID)
}

func (s *Store) CardsForUser(ctx context.Context, userID uint, courseID *uint) ([]CardRow, error) {
	q := s.ownedCards(ctx, userID)
	if courseID != nil {
		q = q.Where("flashcard_sets.course_id = ?", *courseID)
	}

	var rows []CardRow
	err := q.Order("flashcard_sets.id, flashcards.order_index, flashcards.id").Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "cards for user")
	}
	return rows, nil
}

func (s *Store) CardForUser(ctx context.Context, userID uint, cardPublicID string) (*CardRow, error) {
	var rows []CardRow
	err := s.ownedCards(ctx, userID).
		Where("flashcards.public_id = ?", cardPublicID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "card %s", cardPublicID)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (s *Store) CourseForUser(ctx context.Context, userID uint, coursePublicID string) (*models.Course, error) {
	var course models.Course
	err := s.db.WithContext(ctx).
		Where("public_id = ? AND user_id = ?", coursePublicID, userID).
		Take(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "course %s", coursePublicID)
	}
	return &course, nil
}
