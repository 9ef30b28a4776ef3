package handlers

import (
	"net/http"
	"time"
)

type userResponse struct {
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"createdAt"`
}

// GET /api/me
func (db *DBHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, userResponse{Nickname: user.Nickname, CreatedAt: user.CreatedAt})
}

// GET /api/healthz
func (db *DBHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := db.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		db.storageError(w, r, "health check", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
