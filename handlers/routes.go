package handlers

import "net/http"

// Wrap decorates a handler, e.g. with user sync or rate limiting.
type Wrap func(http.HandlerFunc) http.HandlerFunc

// Routes registers the authenticated API. syncUser must put the caller's
// user into the request context; limitGrades throttles grade submissions.
func (db *DBHandler) Routes(syncUser, limitGrades Wrap) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/me", syncUser(db.GetCurrentUser))

	// Course
	mux.HandleFunc("GET /api/courses", syncUser(db.GetCourses))
	mux.HandleFunc("POST /api/courses", syncUser(db.CreateCourse))
	mux.HandleFunc("DELETE /api/courses/{courseID}", syncUser(db.DeleteCourse))
	mux.HandleFunc("GET /api/courses/{courseID}/sets", syncUser(db.GetSetsForCourse))

	// Set
	mux.HandleFunc("GET /api/sets", syncUser(db.GetSets))
	mux.HandleFunc("POST /api/sets", syncUser(db.CreateFlashCardSet))
	mux.HandleFunc("GET /api/sets/{setID}", syncUser(db.GetSetByID))
	mux.HandleFunc("PUT /api/sets/{setID}", syncUser(db.UpdateSetByID))
	mux.HandleFunc("DELETE /api/sets/{setID}", syncUser(db.DeleteSetByID))

	// Flashcard
	mux.HandleFunc("POST /api/sets/{setID}/flashcards", syncUser(db.CreateFlashCard))
	mux.HandleFunc("PUT /api/sets/{setID}/flashcards/{flashcardID}", syncUser(db.UpdateFlashCardByID))
	mux.HandleFunc("DELETE /api/sets/{setID}/flashcards/{flashcardID}", syncUser(db.DeleteFlashCardByID))

	// Review
	mux.HandleFunc("POST /api/reviews", syncUser(limitGrades(db.SubmitReview)))
	mux.HandleFunc("GET /api/reviews/due", syncUser(db.GetDueCards))
	mux.HandleFunc("GET /api/flashcards/{flashcardID}/reviews", syncUser(db.GetReviewHistory))

	return mux
}
