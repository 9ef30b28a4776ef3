package models

import "gorm.io/gorm"

// User is the local record for an authenticated learner
type User struct {
	gorm.Model
	Auth0ID  string `gorm:"uniqueIndex;not null;size:200" json:"-"`
	Nickname string `gorm:"size:100"`

	Courses       []Course       `gorm:"foreignKey:UserID" json:"-"`
	FlashcardSets []FlashcardSet `gorm:"foreignKey:UserID" json:"-"`
}
