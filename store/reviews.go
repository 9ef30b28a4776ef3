package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrewpaige1/lernkarten-api/models"
)

// batchSize bounds the number of IN parameters per query; SQLite caps
// bound parameters per statement.
const batchSize = 500

// latestFirst orders ledger rows newest first, the insertion sequence
// breaking ties on equal timestamps.
const latestFirst = "reviewed_at DESC, id DESC"

func (s *Store) AppendReview(ctx context.Context, r *models.Review) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(r).Error; err != nil {
		return errors.Wrapf(err, "append review for card %d", r.FlashcardID)
	}
	return nil
}

func (s *Store) LatestReview(ctx context.Context, cardID, userID uint) (*models.Review, error) {
	var r models.Review
	err := s.db.WithContext(ctx).
		Where("flashcard_id = ? AND user_id = ?", cardID, userID).
		Order(latestFirst).
		Take(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "latest review for card %d", cardID)
	}
	return &r, nil
}

func (s *Store) LatestReviewsForCards(ctx context.Context, cardIDs []uint, userID uint) (map[uint]models.Review, error) {
	latest := make(map[uint]models.Review, len(cardIDs))
	for start := 0; start < len(cardIDs); start += batchSize {
		end := min(start+batchSize, len(cardIDs))

		var rows []models.Review
		err := s.db.WithContext(ctx).
			Where("user_id = ? AND flashcard_id IN ?", userID, cardIDs[start:end]).
			Order(latestFirst).
			Find(&rows).Error
		if err != nil {
			return nil, errors.Wrap(err, "latest reviews for cards")
		}

		// rows are newest first, so the first row seen per card wins
		for _, r := range rows {
			if _, seen := latest[r.FlashcardID]; !seen {
				latest[r.FlashcardID] = r
			}
		}
	}
	return latest, nil
}

func (s *Store) ReviewHistory(ctx context.Context, cardID, userID uint, limit int) ([]models.Review, error) {
	q := s.db.WithContext(ctx).
		Where("flashcard_id = ? AND user_id = ?", cardID, userID).
		Order(latestFirst)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []models.Review
	if err := q.Find(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "review history for card %d", cardID)
	}
	return rows, nil
}
