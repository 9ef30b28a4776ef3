package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/lernkarten-api/models"
	"github.com/andrewpaige1/lernkarten-api/srs"
	"github.com/andrewpaige1/lernkarten-api/store"
)

// MockReviewStore is a mock for store.ReviewStore
type MockReviewStore struct {
	mock.Mock
}

func (m *MockReviewStore) AppendReview(ctx context.Context, r *models.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReviewStore) LatestReview(ctx context.Context, cardID, userID uint) (*models.Review, error) {
	args := m.Called(ctx, cardID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewStore) LatestReviewsForCards(ctx context.Context, cardIDs []uint, userID uint) (map[uint]models.Review, error) {
	args := m.Called(ctx, cardIDs, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]models.Review), args.Error(1)
}

func (m *MockReviewStore) ReviewHistory(ctx context.Context, cardID, userID uint, limit int) ([]models.Review, error) {
	args := m.Called(ctx, cardID, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

// MockCardStore is a mock for store.CardStore
type MockCardStore struct {
	mock.Mock
}

func (m *MockCardStore) CardsForUser(ctx context.Context, userID uint, courseID *uint) ([]store.CardRow, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.CardRow), args.Error(1)
}

func (m *MockCardStore) CardForUser(ctx context.Context, userID uint, cardPublicID string) (*store.CardRow, error) {
	args := m.Called(ctx, userID, cardPublicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.CardRow), args.Error(1)
}

func (m *MockCardStore) CourseForUser(ctx context.Context, userID uint, coursePublicID string) (*models.Course, error) {
	args := m.Called(ctx, userID, coursePublicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func newMockService() (*Service, *MockReviewStore, *MockCardStore) {
	reviews := &MockReviewStore{}
	cards := &MockCardStore{}
	svc := New(reviews, cards, WithClock(func() time.Time { return now }))
	return svc, reviews, cards
}

func TestSubmitGrade_Validation(t *testing.T) {
	tests := []struct {
		name   string
		userID uint
		grade  Grade
	}{
		{"missing user", 0, Grade{CardID: "c1", Quality: srs.Good}},
		{"missing card", 1, Grade{Quality: srs.Good}},
		{"quality too high", 1, Grade{CardID: "c1", Quality: 6}},
		{"quality negative", 1, Grade{CardID: "c1", Quality: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, reviews, cards := newMockService()

			_, err := svc.SubmitGrade(context.Background(), tt.userID, tt.grade)
			require.Error(t, err)
			assert.True(t, IsCode(err, CodeInvalidArgument), "got %v", err)

			reviews.AssertNotCalled(t, "AppendReview", mock.Anything, mock.Anything)
			cards.AssertNotCalled(t, "CardForUser", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitGrade_AcceptsUnusedGrades(t *testing.T) {
	for _, q := range []srs.Quality{0, 2} {
		svc, reviews, cards := newMockService()
		cards.On("CardForUser", mock.Anything, uint(1), "c1").Return(&store.CardRow{CardID: 9}, nil)
		reviews.On("LatestReview", mock.Anything, uint(9), uint(1)).Return(nil, nil)
		reviews.On("AppendReview", mock.Anything, mock.Anything).Return(nil)

		res, err := svc.SubmitGrade(context.Background(), 1, Grade{CardID: "c1", Quality: q})
		require.NoError(t, err)
		assert.Equal(t, 0, res.Interval, "quality %d counts as a fail", q)
	}
}

func TestSubmitGrade_CardNotFound(t *testing.T) {
	svc, reviews, cards := newMockService()
	cards.On("CardForUser", mock.Anything, uint(1), "foreign").Return(nil, store.ErrNotFound)

	_, err := svc.SubmitGrade(context.Background(), 1, Grade{CardID: "foreign", Quality: srs.Good})
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeNotFound))
	reviews.AssertNotCalled(t, "AppendReview", mock.Anything, mock.Anything)
}

func TestSubmitGrade_UsesLatestReview(t *testing.T) {
	svc, reviews, cards := newMockService()
	cards.On("CardForUser", mock.Anything, uint(1), "c1").
		Return(&store.CardRow{CardID: 9, CoursePublicID: "kurs-1"}, nil)
	reviews.On("LatestReview", mock.Anything, uint(9), uint(1)).
		Return(&models.Review{Interval: 10, EaseFactor: 2.0}, nil)
	reviews.On("AppendReview", mock.Anything, mock.MatchedBy(func(r *models.Review) bool {
		return r.FlashcardID == 9 &&
			r.UserID == 1 &&
			r.Quality == 3 &&
			r.Interval == 19 &&
			r.EaseFactor == 1.86 &&
			r.ReviewedAt.Equal(now) &&
			r.NextReviewAt.Equal(now.AddDate(0, 0, 19))
	})).Return(nil)

	res, err := svc.SubmitGrade(context.Background(), 1, Grade{CardID: "c1", Quality: srs.Hard})
	require.NoError(t, err)
	assert.Equal(t, 19, res.Interval)
	assert.Equal(t, 1.86, res.EaseFactor)
	assert.Equal(t, "kurs-1", res.CourseID)
	assert.True(t, res.NextReviewAt.Equal(now.AddDate(0, 0, 19)))
	reviews.AssertExpectations(t)
}

func TestSubmitGrade_StorageErrors(t *testing.T) {
	boom := errors.New("connection reset")

	t.Run("latest review", func(t *testing.T) {
		svc, reviews, cards := newMockService()
		cards.On("CardForUser", mock.Anything, uint(1), "c1").Return(&store.CardRow{CardID: 9}, nil)
		reviews.On("LatestReview", mock.Anything, uint(9), uint(1)).Return(nil, boom)

		_, err := svc.SubmitGrade(context.Background(), 1, Grade{CardID: "c1", Quality: srs.Good})
		assert.True(t, IsCode(err, CodeStorage))
		assert.ErrorIs(t, err, boom)
		reviews.AssertNotCalled(t, "AppendReview", mock.Anything, mock.Anything)
	})

	t.Run("append is not retried", func(t *testing.T) {
		svc, reviews, cards := newMockService()
		cards.On("CardForUser", mock.Anything, uint(1), "c1").Return(&store.CardRow{CardID: 9}, nil)
		reviews.On("LatestReview", mock.Anything, uint(9), uint(1)).Return(nil, nil)
		reviews.On("AppendReview", mock.Anything, mock.Anything).Return(boom).Once()

		_, err := svc.SubmitGrade(context.Background(), 1, Grade{CardID: "c1", Quality: srs.Good})
		assert.True(t, IsCode(err, CodeStorage))
		assert.ErrorIs(t, err, boom)
		reviews.AssertNumberOfCalls(t, "AppendReview", 1)
	})

	t.Run("card lookup", func(t *testing.T) {
		svc, _, cards := newMockService()
		cards.On("CardForUser", mock.Anything, uint(1), "c1").Return(nil, boom)

		_, err := svc.SubmitGrade(context.Background(), 1, Grade{CardID: "c1", Quality: srs.Good})
		assert.True(t, IsCode(err, CodeStorage))
	})
}

func TestDueSet_FailsWhole(t *testing.T) {
	boom := errors.New("timeout")

	t.Run("cards", func(t *testing.T) {
		svc, _, cards := newMockService()
		cards.On("CardsForUser", mock.Anything, uint(1), (*uint)(nil)).Return(nil, boom)

		set, err := svc.DueSet(context.Background(), 1, DueQuery{})
		assert.Nil(t, set)
		assert.True(t, IsCode(err, CodeStorage))
	})

	t.Run("latest reviews", func(t *testing.T) {
		svc, reviews, cards := newMockService()
		cards.On("CardsForUser", mock.Anything, uint(1), (*uint)(nil)).Return([]store.CardRow{{CardID: 3}}, nil)
		reviews.On("LatestReviewsForCards", mock.Anything, []uint{3}, uint(1)).Return(nil, boom)

		set, err := svc.DueSet(context.Background(), 1, DueQuery{})
		assert.Nil(t, set)
		assert.True(t, IsCode(err, CodeStorage))
		assert.ErrorIs(t, err, boom)
	})
}

func TestDueSet_UnknownCourse(t *testing.T) {
	svc, _, cards := newMockService()
	cards.On("CourseForUser", mock.Anything, uint(1), "nope").Return(nil, store.ErrNotFound)

	_, err := svc.DueSet(context.Background(), 1, DueQuery{CourseID: "nope"})
	assert.True(t, IsCode(err, CodeNotFound))
	cards.AssertNotCalled(t, "CardsForUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestDueSet_NoCardsSkipsLedger(t *testing.T) {
	svc, reviews, cards := newMockService()
	cards.On("CardsForUser", mock.Anything, uint(1), (*uint)(nil)).Return([]store.CardRow{}, nil)

	set, err := svc.DueSet(context.Background(), 1, DueQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, set.TotalDue)
	reviews.AssertNotCalled(t, "LatestReviewsForCards", mock.Anything, mock.Anything, mock.Anything)
}

func TestDueSet_Validation(t *testing.T) {
	svc, _, _ := newMockService()

	_, err := svc.DueSet(context.Background(), 0, DueQuery{})
	assert.True(t, IsCode(err, CodeInvalidArgument))

	_, err = svc.DueSet(context.Background(), 1, DueQuery{Limit: -1})
	assert.True(t, IsCode(err, CodeInvalidArgument))
}

func TestErrorCodes(t *testing.T) {
	cause := errors.New("disk full")
	err := storageFailure("append review", cause)

	assert.Equal(t, "[STORAGE] append review: disk full", err.Error())
	assert.Equal(t, CodeStorage, CodeOf(err, CodeInvalidArgument))
	assert.Equal(t, CodeNotFound, CodeOf(cause, CodeNotFound))
	assert.False(t, IsCode(cause, CodeStorage))

	assert.Equal(t, "append review", MessageOf(err))
	assert.Equal(t, "disk full", MessageOf(cause))
}
