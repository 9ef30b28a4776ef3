package handlers

import (
	"net/http"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/andrewpaige1/lernkarten-api/models"
	"github.com/andrewpaige1/lernkarten-api/review"
)

type courseResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	SetCount int    `json:"setCount"`
	DueCount int    `json:"dueCount"`
}

// GET /api/courses
func (db *DBHandler) GetCourses(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var courses []models.Course
	if err := db.WithContext(r.Context()).
		Preload("Sets").
		Where("user_id = ?", user.ID).
		Order("name, id").
		Find(&courses).Error; err != nil {
		db.storageError(w, r, "list courses", err)
		return
	}

	due, err := db.Reviews.DueSet(r.Context(), user.ID, review.DueQuery{})
	if err != nil {
		db.reviewError(w, r, err)
		return
	}

	resp := make([]courseResponse, 0, len(courses))
	for _, c := range courses {
		resp = append(resp, courseResponse{
			ID:       c.PublicID,
			Name:     c.Name,
			Color:    c.Color,
			SetCount: len(c.Sets),
			DueCount: due.ByCourse[c.PublicID],
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type createCourseRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"omitempty,hexcolor,len=7"`
}

// POST /api/courses
func (db *DBHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req createCourseRequest
	if !db.decode(w, r, &req) {
		return
	}

	publicID, err := newPublicID()
	if err != nil {
		db.storageError(w, r, "create course", err)
		return
	}

	course := models.Course{
		PublicID: publicID,
		UserID:   user.ID,
		Name:     req.Name,
		Color:    req.Color,
	}
	if course.Color == "" {
		course.Color = models.DefaultCourseColor
	}

	if err := db.WithContext(r.Context()).Omit("User").Create(&course).Error; err != nil {
		db.storageError(w, r, "create course", err)
		return
	}

	db.Log.InfoContext(r.Context(), "created course", "course_id", course.PublicID, "user_id", user.ID)
	writeJSON(w, http.StatusCreated, courseResponse{ID: course.PublicID, Name: course.Name, Color: course.Color})
}

// DELETE /api/courses/{courseID}
//
// Deletes the course together with its sets and their cards. Review rows
// stay in the ledger.
func (db *DBHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	course, err := db.ownedCourse(r, user.ID, r.PathValue("courseID"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(w, "Course not found")
		return
	}
	if err != nil {
		db.storageError(w, r, "load course", err)
		return
	}

	err = db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		sets := tx.Model(&models.FlashcardSet{}).Select("id").Where("course_id = ?", course.ID)
		if err := tx.Where("set_id IN (?)", sets).Delete(&models.Flashcard{}).Error; err != nil {
			return errors.Wrap(err, "delete cards")
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.FlashcardSet{}).Error; err != nil {
			return errors.Wrap(err, "delete sets")
		}
		return errors.Wrap(tx.Delete(course).Error, "delete course")
	})
	if err != nil {
		db.storageError(w, r, "delete course", err)
		return
	}

	db.Log.InfoContext(r.Context(), "deleted course", "course_id", course.PublicID, "user_id", user.ID)
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/courses/{courseID}/sets
func (db *DBHandler) GetSetsForCourse(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	course, err := db.ownedCourse(r, user.ID, r.PathValue("courseID"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(w, "Course not found")
		return
	}
	if err != nil {
		db.storageError(w, r, "load course", err)
		return
	}

	var sets []models.FlashcardSet
	if err := db.WithContext(r.Context()).
		Preload("Flashcards").
		Where("course_id = ? AND user_id = ?", course.ID, user.ID).
		Order("id").
		Find(&sets).Error; err != nil {
		db.storageError(w, r, "list sets", err)
		return
	}

	resp := make([]setSummary, 0, len(sets))
	for _, s := range sets {
		resp = append(resp, summarize(s, course.PublicID))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (db *DBHandler) ownedCourse(r *http.Request, userID uint, publicID string) (*models.Course, error) {
	var course models.Course
	err := db.WithContext(r.Context()).
		Where("public_id = ? AND user_id = ?", publicID, userID).
		Take(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}
