package handlers

import (
	"log/slog"
	"net/http"

	"github.com/andrewpaige1/lernkarten-api/review"
	"github.com/andrewpaige1/lernkarten-api/utils"
)

// Error codes sent to clients besides the review.ErrorCode values.
const (
	codeUnauthenticated = "UNAUTHENTICATED"
	codeInternal        = "INTERNAL"
)

var reviewStatus = map[review.ErrorCode]int{
	review.CodeInvalidArgument: http.StatusBadRequest,
	review.CodeNotFound:        http.StatusNotFound,
	review.CodeStorage:         http.StatusInternalServerError,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	utils.WriteJSON(w, status, v)
}

func badRequest(w http.ResponseWriter, msg string) {
	utils.WriteError(w, http.StatusBadRequest, string(review.CodeInvalidArgument), msg)
}

func notFound(w http.ResponseWriter, msg string) {
	utils.WriteError(w, http.StatusNotFound, string(review.CodeNotFound), msg)
}

// storageError logs err and answers with a generic 500.
func (db *DBHandler) storageError(w http.ResponseWriter, r *http.Request, op string, err error) {
	db.Log.ErrorContext(r.Context(), op, "path", r.URL.Path, "err", err)
	utils.WriteError(w, http.StatusInternalServerError, string(review.CodeStorage), "Storage failure, please retry")
}

// reviewError maps a review.Error onto its HTTP status. Storage failures
// are logged here and their cause is not sent to the client.
func (db *DBHandler) reviewError(w http.ResponseWriter, r *http.Request, err error) {
	code := review.CodeOf(err, "")
	if code == "" {
		db.Log.ErrorContext(r.Context(), "unclassified review error", "err", err)
		utils.WriteError(w, http.StatusInternalServerError, codeInternal, "Internal server error")
		return
	}

	status, ok := reviewStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		db.Log.ErrorContext(r.Context(), "review request failed", "code", code, "err", err)
		utils.WriteError(w, status, string(code), "Storage failure, please retry")
		return
	}

	msg := review.MessageOf(err)
	if status == http.StatusBadRequest {
		db.Log.DebugContext(r.Context(), "rejected review request", slog.String("reason", msg))
	}
	utils.WriteError(w, status, string(code), msg)
}
