package models

import (
	"gorm.io/gorm"
)

// Flashcard represents an individual flashcard
type Flashcard struct {
	gorm.Model
	PublicID   string `gorm:"size:100;uniqueIndex" json:"id"`
	Front      string `gorm:"not null;size:1000" json:"front"`
	Back       string `gorm:"not null;size:4000" json:"back"`
	OrderIndex int    `gorm:"not null;default:0" json:"orderIndex"`

	SetID        uint         `gorm:"not null;index" json:"-"`
	FlashcardSet FlashcardSet `gorm:"foreignKey:SetID" json:"-"`
}
