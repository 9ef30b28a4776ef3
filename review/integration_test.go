package review

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/lernkarten-api/models"
	"github.com/andrewpaige1/lernkarten-api/srs"
	"github.com/andrewpaige1/lernkarten-api/store"
	"github.com/andrewpaige1/lernkarten-api/store/storetest"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newDBService(t *testing.T, opts ...Option) (*Service, *store.Store, *clock) {
	t.Helper()
	st := store.New(storetest.Open(t))
	clk := &clock{t: now}
	svc := New(st, st, append([]Option{WithClock(clk.Now)}, opts...)...)
	return svc, st, clk
}

func TestDueSet_AllNewCards(t *testing.T) {
	svc, st, _ := newDBService(t)
	user := storetest.User(t, st.DB(), "auth0|anna")
	course := storetest.Course(t, st.DB(), user.ID, "Biochemie")
	storetest.Set(t, st.DB(), user.ID, &course.ID, "Enzyme", "a", "b", "c", "d", "e")

	set, err := svc.DueSet(context.Background(), user.ID, DueQuery{})
	require.NoError(t, err)
	require.Len(t, set.DueCards, 5)
	for _, dc := range set.DueCards {
		assert.True(t, dc.IsNew)
		assert.Equal(t, "Biochemie", dc.CourseName)
		assert.Equal(t, "Enzyme", dc.SetTitle)
	}
	assert.Equal(t, 5, set.TotalDue)
	assert.Equal(t, map[string]int{course.PublicID: 5}, set.ByCourse)
}

func TestDueSet_Deterministic(t *testing.T) {
	svc, st, _ := newDBService(t)
	user := storetest.User(t, st.DB(), "auth0|ben")
	course := storetest.Course(t, st.DB(), user.ID, "Anatomie")
	_, cards := storetest.Set(t, st.DB(), user.ID, &course.ID, "Knochen", "a", "b", "c", "d")
	storetest.Set(t, st.DB(), user.ID, nil, "Lose", "x", "y")

	ctx := context.Background()
	_, err := svc.SubmitGrade(ctx, user.ID, Grade{CardID: cards[1].PublicID, Quality: srs.Again})
	require.NoError(t, err)

	first, err := svc.DueSet(ctx, user.ID, DueQuery{})
	require.NoError(t, err)
	second, err := svc.DueSet(ctx, user.ID, DueQuery{})
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestSubmitGrade_AppendsEveryReview(t *testing.T) {
	svc, st, clk := newDBService(t)
	user := storetest.User(t, st.DB(), "auth0|carla")
	_, cards := storetest.Set(t, st.DB(), user.ID, nil, "Set", "Frage")
	ctx := context.Background()

	grades := []srs.Quality{srs.Good, srs.Good, srs.Again, srs.Hard, srs.Easy}
	for _, q := range grades {
		_, err := svc.SubmitGrade(ctx, user.ID, Grade{CardID: cards[0].PublicID, Quality: q})
		require.NoError(t, err)
		clk.Advance(time.Hour)
	}

	var count int64
	require.NoError(t, st.DB().Model(&models.Review{}).Where("flashcard_id = ?", cards[0].ID).Count(&count).Error)
	assert.Equal(t, int64(len(grades)), count)

	history, err := svc.History(ctx, user.ID, cards[0].PublicID, 0)
	require.NoError(t, err)
	require.Len(t, history, len(grades))
	for i, r := range history {
		assert.Equal(t, int(grades[len(grades)-1-i]), r.Quality)
	}

	// Good, Good: 1, 6. Again: 0 at 2.5. Hard: 1 at 2.36. Easy: 6 at 2.46.
	latest := history[0]
	assert.Equal(t, 6, latest.Interval)
	assert.Equal(t, 2.46, latest.EaseFactor)
}

func TestSubmitGrade_FailedCardReturnsAfterDelay(t *testing.T) {
	svc, st, clk := newDBService(t)
	user := storetest.User(t, st.DB(), "auth0|dora")
	_, cards := storetest.Set(t, st.DB(), user.ID, nil, "Set", "Frage")
	ctx := context.Background()

	res, err := svc.SubmitGrade(ctx, user.ID, Grade{CardID: cards[0].PublicID, Quality: srs.Again})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Interval)
	assert.Equal(t, srs.DefaultEaseFactor, res.EaseFactor)
	assert.True(t, res.NextReviewAt.Equal(now.Add(srs.RequeueDelay)))

	set, err := svc.DueSet(ctx, user.ID, DueQuery{})
	require.NoError(t, err)
	assert.Empty(t, set.DueCards)

	clk.Advance(srs.RequeueDelay)
	set, err = svc.DueSet(ctx, user.ID, DueQuery{})
	require.NoError(t, err)
	require.Len(t, set.DueCards, 1)
	assert.False(t, set.DueCards[0].IsNew)
	assert.Equal(t, 0, set.DueCards[0].LastInterval)
}

func TestDueSet_NewCardsFirst(t *testing.T) {
	svc, st, clk := newDBService(t)
	user := storetest.User(t, st.DB(), "auth0|emil")
	_, cards := storetest.Set(t, st.DB(), user.ID, nil, "Set", "a", "b", "c", "d")
	ctx := context.Background()

	for _, c := range cards[:2] {
		_, err := svc.SubmitGrade(ctx, user.ID, Grade{CardID: c.PublicID, Quality: srs.Good})
		require.NoError(t, err)
	}
	clk.Advance(48 * time.Hour)

	set, err := svc.DueSet(ctx, user.ID, DueQuery{})
	require.NoError(t, err)
	require.Len(t, set.DueCards, 4)

	got := make([]string, 0, 4)
	for _, dc := range set.DueCards {
		got = append(got, dc.CardID)
	}
	assert.Equal(t, []string{cards[2].PublicID, cards[3].PublicID, cards[0].PublicID, cards[1].PublicID}, got)
	assert.True(t, set.DueCards[1].IsNew)
	assert.False(t, set.DueCards[2].IsNew)
}

func TestDueSet_LimitAndCourseFilter(t *testing.T) {
	svc, st, _ := newDBService(t, WithSessionSize(3))
	user := storetest.User(t, st.DB(), "auth0|fynn")
	bio := storetest.Course(t, st.DB(), user.ID, "Bio")
	chem := storetest.Course(t, st.DB(), user.ID, "Chemie")
	storetest.Set(t, st.DB(), user.ID, &bio.ID, "B", "1", "2", "3", "4")
	storetest.Set(t, st.DB(), user.ID, &chem.ID, "C", "1", "2")
	ctx := context.Background()

	set, err := svc.DueSet(ctx, user.ID, DueQuery{Limit: 50})
	require.NoError(t, err)
	assert.Len(t, set.DueCards, 3, "clamped to the session size")
	assert.Equal(t, 6, set.TotalDue)

	set, err = svc.DueSet(ctx, user.ID, DueQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, set.DueCards, 2)

	set, err = svc.DueSet(ctx, user.ID, DueQuery{CourseID: chem.PublicID})
	require.NoError(t, err)
	assert.Len(t, set.DueCards, 2)
	assert.Equal(t, map[string]int{chem.PublicID: 2}, set.ByCourse)
}

func TestService_OtherUsersCards(t *testing.T) {
	svc, st, _ := newDBService(t)
	owner := storetest.User(t, st.DB(), "auth0|owner")
	other := storetest.User(t, st.DB(), "auth0|other")
	course := storetest.Course(t, st.DB(), owner.ID, "Privat")
	_, cards := storetest.Set(t, st.DB(), owner.ID, &course.ID, "Set", "a")
	ctx := context.Background()

	_, err := svc.SubmitGrade(ctx, other.ID, Grade{CardID: cards[0].PublicID, Quality: srs.Good})
	assert.True(t, IsCode(err, CodeNotFound))

	_, err = svc.DueSet(ctx, other.ID, DueQuery{CourseID: course.PublicID})
	assert.True(t, IsCode(err, CodeNotFound))

	set, err := svc.DueSet(ctx, other.ID, DueQuery{})
	require.NoError(t, err)
	assert.Empty(t, set.DueCards)
}
