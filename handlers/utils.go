package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/andrewpaige1/lernkarten-api/middleware"
	"github.com/andrewpaige1/lernkarten-api/models"
	"github.com/andrewpaige1/lernkarten-api/review"
	"github.com/andrewpaige1/lernkarten-api/utils"
)

// maxBodyBytes caps request bodies; a set with many cards stays far below.
const maxBodyBytes = 1 << 20

type DBHandler struct {
	*gorm.DB
	Reviews  *review.Service
	Validate *validator.Validate
	Log      *slog.Logger
}

// NewDBHandler wires the handlers to a database and review service.
func NewDBHandler(db *gorm.DB, reviews *review.Service, log *slog.Logger) *DBHandler {
	return &DBHandler{
		DB:       db,
		Reviews:  reviews,
		Validate: validator.New(validator.WithRequiredStructEnabled()),
		Log:      log,
	}
}

// decode reads a JSON body into v and validates it. It writes the 400
// response itself and reports whether the handler may continue.
func (db *DBHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		badRequest(w, "Invalid request body: "+err.Error())
		return false
	}
	if err := db.Validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			badRequest(w, "Invalid field "+verrs[0].Field()+": failed "+verrs[0].Tag())
			return false
		}
		badRequest(w, err.Error())
		return false
	}
	return true
}

// currentUser returns the user put in the context by UserSync.
func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, codeUnauthenticated, "Unauthorized")
		return nil, false
	}
	return user, true
}

func newPublicID() (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", errors.Wrap(err, "generate public id")
	}
	return id, nil
}
