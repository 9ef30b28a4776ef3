package handlers

import (
	"net/http"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/andrewpaige1/lernkarten-api/models"
)

type setSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CourseID  string    `json:"courseId,omitempty"`
	CardCount int       `json:"cardCount"`
	CreatedAt time.Time `json:"createdAt"`
}

type setResponse struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	CourseID   string         `json:"courseId,omitempty"`
	Flashcards []cardResponse `json:"flashcards"`
}

type cardResponse struct {
	ID         string `json:"id"`
	Front      string `json:"front"`
	Back       string `json:"back"`
	OrderIndex int    `json:"orderIndex"`
}

func toCard(c models.Flashcard) cardResponse {
	return cardResponse{ID: c.PublicID, Front: c.Front, Back: c.Back, OrderIndex: c.OrderIndex}
}

func toCards(cards []models.Flashcard) []cardResponse {
	resp := make([]cardResponse, 0, len(cards))
	for _, c := range cards {
		resp = append(resp, toCard(c))
	}
	return resp
}

func summarize(s models.FlashcardSet, coursePublicID string) setSummary {
	return setSummary{
		ID:        s.PublicID,
		Title:     s.Title,
		CourseID:  coursePublicID,
		CardCount: len(s.Flashcards),
		CreatedAt: s.CreatedAt,
	}
}

func byOrderIndex(tx *gorm.DB) *gorm.DB {
	return tx.Order("order_index, id")
}

// GET /api/sets
func (db *DBHandler) GetSets(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var sets []models.FlashcardSet
	if err := db.WithContext(r.Context()).
		Preload("Flashcards").
		Preload("Course").
		Where("user_id = ?", user.ID).
		Order("id").
		Find(&sets).Error; err != nil {
		db.storageError(w, r, "list sets", err)
		return
	}

	resp := make([]setSummary, 0, len(sets))
	for _, s := range sets {
		resp = append(resp, summarize(s, coursePublicID(s)))
	}
	writeJSON(w, http.StatusOK, resp)
}

type cardRequest struct {
	Front string `json:"front" validate:"required,max=1000"`
	Back  string `json:"back" validate:"required,max=4000"`
}

type createSetRequest struct {
	Title    string        `json:"title" validate:"required,max=100"`
	CourseID string        `json:"courseId"`
	Cards    []cardRequest `json:"cards" validate:"max=500,dive"`
}

// POST /api/sets
func (db *DBHandler) CreateFlashCardSet(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req createSetRequest
	if !db.decode(w, r, &req) {
		return
	}

	set := models.FlashcardSet{Title: req.Title, UserID: user.ID}
	var course *models.Course
	if req.CourseID != "" {
		c, err := db.ownedCourse(r, user.ID, req.CourseID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(w, "Course not found")
			return
		}
		if err != nil {
			db.storageError(w, r, "load course", err)
			return
		}
		course = c
		set.CourseID = &c.ID
	}

	err := db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		publicID, err := newPublicID()
		if err != nil {
			return err
		}
		set.PublicID = publicID
		if err := tx.Omit("User", "Course", "Flashcards").Create(&set).Error; err != nil {
			return errors.Wrap(err, "create set")
		}

		for i, c := range req.Cards {
			cardID, err := newPublicID()
			if err != nil {
				return err
			}
			card := models.Flashcard{
				PublicID:   cardID,
				Front:      c.Front,
				Back:       c.Back,
				OrderIndex: i,
				SetID:      set.ID,
			}
			if err := tx.Omit("FlashcardSet").Create(&card).Error; err != nil {
				return errors.Wrapf(err, "create card %d", i)
			}
			set.Flashcards = append(set.Flashcards, card)
		}
		return nil
	})
	if err != nil {
		db.storageError(w, r, "create set", err)
		return
	}

	resp := setResponse{ID: set.PublicID, Title: set.Title, Flashcards: toCards(set.Flashcards)}
	if course != nil {
		resp.CourseID = course.PublicID
	}

	db.Log.InfoContext(r.Context(), "created set", "set_id", set.PublicID, "cards", len(set.Flashcards), "user_id", user.ID)
	writeJSON(w, http.StatusCreated, resp)
}

// GET /api/sets/{setID}
func (db *DBHandler) GetSetByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var set models.FlashcardSet
	err := db.WithContext(r.Context()).
		Preload("Flashcards", byOrderIndex).
		Preload("Course").
		Where("public_id = ? AND user_id = ?", r.PathValue("setID"), user.ID).
		Take(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(w, "Set not found")
		return
	}
	if err != nil {
		db.storageError(w, r, "load set", err)
		return
	}

	resp := setResponse{
		ID:         set.PublicID,
		Title:      set.Title,
		CourseID:   coursePublicID(set),
		Flashcards: toCards(set.Flashcards),
	}
	writeJSON(w, http.StatusOK, resp)
}

type updateSetRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,min=1,max=100"`
	CourseID *string `json:"courseId,omitempty"`
}

// PUT /api/sets/{setID}
//
// An empty courseId detaches the set from its course.
func (db *DBHandler) UpdateSetByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	set, err := db.ownedSet(r, user.ID, r.PathValue("setID"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(w, "Set not found")
		return
	}
	if err != nil {
		db.storageError(w, r, "load set", err)
		return
	}

	var req updateSetRequest
	if !db.decode(w, r, &req) {
		return
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.CourseID != nil {
		if *req.CourseID == "" {
			updates["course_id"] = nil
		} else {
			course, err := db.ownedCourse(r, user.ID, *req.CourseID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				notFound(w, "Course not found")
				return
			}
			if err != nil {
				db.storageError(w, r, "load course", err)
				return
			}
			updates["course_id"] = course.ID
		}
	}

	if len(updates) > 0 {
		if err := db.WithContext(r.Context()).Model(set).Updates(updates).Error; err != nil {
			db.storageError(w, r, "update set", err)
			return
		}
	}

	// reload so the response carries the course's public id
	db.GetSetByID(w, r)
}

// DELETE /api/sets/{setID}
func (db *DBHandler) DeleteSetByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	set, err := db.ownedSet(r, user.ID, r.PathValue("setID"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(w, "Set not found")
		return
	}
	if err != nil {
		db.storageError(w, r, "load set", err)
		return
	}

	err = db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("set_id = ?", set.ID).Delete(&models.Flashcard{}).Error; err != nil {
			return errors.Wrap(err, "delete cards")
		}
		return errors.Wrap(tx.Delete(set).Error, "delete set")
	})
	if err != nil {
		db.storageError(w, r, "delete set", err)
		return
	}

	db.Log.InfoContext(r.Context(), "deleted set", "set_id", set.PublicID, "user_id", user.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (db *DBHandler) ownedSet(r *http.Request, userID uint, publicID string) (*models.FlashcardSet, error) {
	var set models.FlashcardSet
	err := db.WithContext(r.Context()).
		Where("public_id = ? AND user_id = ?", publicID, userID).
		Take(&set).Error
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func coursePublicID(s models.FlashcardSet) string {
	if s.Course == nil {
		return ""
	}
	return s.Course.PublicID
}
