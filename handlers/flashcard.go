package handlers

import (
	"net/http"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/andrewpaige1/lernkarten-api/models"
)

// POST /api/sets/{setID}/flashcards
func (db *DBHandler) CreateFlashCard(w http.ResponseWriter, r *http.Request) {
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

	var req cardRequest
	if !db.decode(w, r, &req) {
		return
	}

	publicID, err := newPublicID()
	if err != nil {
		db.storageError(w, r, "create flashcard", err)
		return
	}

	card := models.Flashcard{
		PublicID: publicID,
		Front:    req.Front,
		Back:     req.Back,
		SetID:    set.ID,
	}

	err = db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&models.Flashcard{}).
			Where("set_id = ?", set.ID).
			Select("COALESCE(MAX(order_index) + 1, 0)").
			Scan(&next).Error; err != nil {
			return errors.Wrap(err, "next order index")
		}
		card.OrderIndex = next
		return errors.Wrap(tx.Omit("FlashcardSet").Create(&card).Error, "create flashcard")
	})
	if err != nil {
		db.storageError(w, r, "create flashcard", err)
		return
	}

	writeJSON(w, http.StatusCreated, toCard(card))
}

type updateCardRequest struct {
	Front *string `json:"front,omitempty" validate:"omitempty,min=1,max=1000"`
	Back  *string `json:"back,omitempty" validate:"omitempty,min=1,max=4000"`
}

// PUT /api/sets/{setID}/flashcards/{flashcardID}
//
// Editing a card keeps its review history.
func (db *DBHandler) UpdateFlashCardByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	card, err := db.ownedCard(r, user.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(w, "Flashcard not found")
		return
	}
	if err != nil {
		db.storageError(w, r, "load flashcard", err)
		return
	}

	var req updateCardRequest
	if !db.decode(w, r, &req) {
		return
	}

	updates := map[string]any{}
	if req.Front != nil {
		updates["front"] = *req.Front
		card.Front = *req.Front
	}
	if req.Back != nil {
		updates["back"] = *req.Back
		card.Back = *req.Back
	}
	if len(updates) > 0 {
		if err := db.WithContext(r.Context()).Model(card).Updates(updates).Error; err != nil {
			db.storageError(w, r, "update flashcard", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, toCard(*card))
}

// DELETE /api/sets/{setID}/flashcards/{flashcardID}
func (db *DBHandler) DeleteFlashCardByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	card, err := db.ownedCard(r, user.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(w, "Flashcard not found")
		return
	}
	if err != nil {
		db.storageError(w, r, "load flashcard", err)
		return
	}

	if err := db.WithContext(r.Context()).Delete(card).Error; err != nil {
		db.storageError(w, r, "delete flashcard", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ownedCard loads the card named by the setID and flashcardID path values.
func (db *DBHandler) ownedCard(r *http.Request, userID uint) (*models.Flashcard, error) {
	var card models.Flashcard
	err := db.WithContext(r.Context()).
		Select("flashcards.*").
		Joins("JOIN flashcard_sets ON flashcard_sets.id = flashcards.set_id AND flashcard_sets.deleted_at IS NULL").
		Where("flashcards.public_id = ? AND flashcard_sets.public_id = ? AND flashcard_sets.user_id = ?",
			r.PathValue("flashcardID"), r.PathValue("setID"), userID).
		Take(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}
