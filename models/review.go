package models

import "time"

// Review is one grading action on a flashcard. Rows are only ever
// inserted; the newest row per (flashcard, user) is the card's schedule.
//
// ID doubles as the insertion sequence and breaks ties between rows with
// the same ReviewedAt.
type Review struct {
	ID           uint      `gorm:"primaryKey;index:idx_review_latest,priority:4,sort:desc" json:"-"`
	FlashcardID  uint      `gorm:"not null;index:idx_review_latest,priority:1" json:"-"`
	UserID       uint      `gorm:"not null;index:idx_review_latest,priority:2" json:"-"`
	Quality      int       `gorm:"not null" json:"quality"`
	Interval     int       `gorm:"not null" json:"interval"`
	EaseFactor   float64   `gorm:"not null" json:"easeFactor"`
	NextReviewAt time.Time `gorm:"not null" json:"nextReviewAt"`
	ReviewedAt   time.Time `gorm:"not null;index:idx_review_latest,priority:3,sort:desc" json:"reviewedAt"`

	Flashcard Flashcard `gorm:"foreignKey:FlashcardID;constraint:OnDelete:CASCADE" json:"-"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// All returns every model managed by AutoMigrate, in dependency order.
func All() []any {
	return []any{&User{}, &Course{}, &FlashcardSet{}, &Flashcard{}, &Review{}}
}
