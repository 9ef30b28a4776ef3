package middleware

import (
	"context"
	"log/slog"
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/andrewpaige1/lernkarten-api/auth"
	"github.com/andrewpaige1/lernkarten-api/models"
	"github.com/andrewpaige1/lernkarten-api/utils"
)

type contextKey string

const userKey contextKey = "user"

// UserSync makes sure the token subject has a local user record.
type UserSync struct {
	DB  *gorm.DB
	Log *slog.Logger
}

// SyncUser ensures the token's user exists in the DB and attaches it to
// the request context.
func (s *UserSync) SyncUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, ok := utils.GetAuth0ID(r)
		if !ok {
			utils.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "No token subject found")
			return
		}

		user, err := s.upsert(r.Context(), subject, tokenNickname(r))
		if err != nil {
			s.Log.Error("sync user", "subject", subject, "err", err)
			utils.WriteError(w, http.StatusInternalServerError, "STORAGE", "Failed to load user")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func (s *UserSync) upsert(ctx context.Context, subject, nickname string) (*models.User, error) {
	db := s.DB.WithContext(ctx)

	var user models.User
	err := db.Where("auth0_id = ?", subject).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{Auth0ID: subject, Nickname: nickname}
		if err := db.Create(&user).Error; err != nil {
			// a concurrent request may have created the user first
			if err := db.Where("auth0_id = ?", subject).Take(&user).Error; err != nil {
				return nil, errors.Wrap(err, "create user")
			}
			return &user, nil
		}
		s.Log.Info("created user", "user_id", user.ID, "nickname", user.Nickname)
		return &user, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user")
	}

	if nickname != "" && user.Nickname != nickname {
		if err := db.Model(&user).Update("nickname", nickname).Error; err != nil {
			return nil, errors.Wrap(err, "update nickname")
		}
		user.Nickname = nickname
		s.Log.Info("updated user nickname", "user_id", user.ID, "nickname", nickname)
	}
	return &user, nil
}

// tokenNickname returns the optional nickname claim.
func tokenNickname(r *http.Request) string {
	claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	if !ok {
		return ""
	}
	if custom, ok := claims.CustomClaims.(*auth.CustomClaims); ok && custom != nil {
		return custom.Nickname
	}
	return ""
}

// UserFromContext returns the user attached by SyncUser.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

// WithUser attaches user to ctx.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}
