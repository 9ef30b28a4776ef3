// Package storetest opens throwaway SQLite databases and seeds them for
// tests.
package storetest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andrewpaige1/lernkarten-api/models"
)

var seq atomic.Int64

// Open returns a migrated in-memory database private to the test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// every pooled connection would get its own empty :memory: database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func nextID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, seq.Add(1))
}

// User creates a user for the given token subject.
func User(t testing.TB, db *gorm.DB, subject string) models.User {
	t.Helper()
	u := models.User{Auth0ID: subject, Nickname: subject}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// Course creates a course owned by userID.
func Course(t testing.TB, db *gorm.DB, userID uint, name string) models.Course {
	t.Helper()
	c := models.Course{
		PublicID: nextID("course"),
		UserID:   userID,
		Name:     name,
		Color:    models.DefaultCourseColor,
	}
	require.NoError(t, db.Create(&c).Error)
	return c
}

// Set creates a set with one card per front text. courseID may be nil.
func Set(t testing.TB, db *gorm.DB, userID uint, courseID *uint, title string, fronts ...string) (models.FlashcardSet, []models.Flashcard) {
	t.Helper()
	set := models.FlashcardSet{
		PublicID: nextID("set"),
		Title:    title,
		UserID:   userID,
		CourseID: courseID,
	}
	require.NoError(t, db.Create(&set).Error)

	cards := make([]models.Flashcard, 0, len(fronts))
	for i, front := range fronts {
		card := models.Flashcard{
			PublicID:   nextID("card"),
			Front:      front,
			Back:       "Antwort: " + front,
			OrderIndex: i,
			SetID:      set.ID,
		}
		require.NoError(t, db.Omit("FlashcardSet").Create(&card).Error)
		cards = append(cards, card)
	}
	return set, cards
}
