package handlers

import (
	"net/http"
	"strconv"

	"github.com/andrewpaige1/lernkarten-api/models"
	"github.com/andrewpaige1/lernkarten-api/review"
	"github.com/andrewpaige1/lernkarten-api/srs"
)

type gradeRequest struct {
	CardID  string `json:"cardId" validate:"required"`
	Quality *int   `json:"quality" validate:"required"`
}

// POST /api/reviews
func (db *DBHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req gradeRequest
	if !db.decode(w, r, &req) {
		return
	}

	res, err := db.Reviews.SubmitGrade(r.Context(), user.ID, review.Grade{
		CardID:  req.CardID,
		Quality: srs.Quality(*req.Quality),
	})
	if err != nil {
		db.reviewError(w, r, err)
		return
	}

	db.Log.DebugContext(r.Context(), "graded card",
		"card_id", req.CardID, "quality", *req.Quality, "interval", res.Interval, "user_id", user.ID)
	writeJSON(w, http.StatusOK, res)
}

// GET /api/reviews/due?courseId=&limit=
func (db *DBHandler) GetDueCards(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	q := review.DueQuery{CourseID: r.URL.Query().Get("courseId")}
	limit, ok := intParam(w, r, "limit", db.Reviews.SessionSize())
	if !ok {
		return
	}
	q.Limit = limit

	set, err := db.Reviews.DueSet(r.Context(), user.ID, q)
	if err != nil {
		db.reviewError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// GET /api/flashcards/{flashcardID}/reviews?limit=
func (db *DBHandler) GetReviewHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	limit, ok := intParam(w, r, "limit", 0)
	if !ok {
		return
	}

	history, err := db.Reviews.History(r.Context(), user.ID, r.PathValue("flashcardID"), limit)
	if err != nil {
		db.reviewError(w, r, err)
		return
	}
	if history == nil {
		history = []models.Review{}
	}
	writeJSON(w, http.StatusOK, history)
}

// intParam reads a non-negative integer query parameter.
func intParam(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		badRequest(w, name+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}
