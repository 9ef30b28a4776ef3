package models

import (
	"gorm.io/gorm"
)

// FlashcardSet represents a collection of flashcards
type FlashcardSet struct {
	gorm.Model
	PublicID string  `gorm:"size:100;uniqueIndex" json:"id"`
	Title    string  `gorm:"not null;size:100" json:"title"`
	UserID   uint    `gorm:"not null;index" json:"-"`
	User     User    `gorm:"foreignKey:UserID" json:"-"`
	CourseID *uint   `gorm:"index" json:"-"`
	Course   *Course `gorm:"foreignKey:CourseID" json:"-"`

	Flashcards []Flashcard `gorm:"foreignKey:SetID" json:"flashcards,omitempty"`
}
