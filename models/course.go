package models

import "gorm.io/gorm"

// DefaultCourseColor is used when a course is created without a color.
const DefaultCourseColor = "#6366f1"

// Course groups the flashcard sets generated from one lecture or subject
type Course struct {
	gorm.Model
	PublicID string `gorm:"size:100;uniqueIndex" json:"id"`
	UserID   uint   `gorm:"not null;index" json:"-"`
	User     User   `gorm:"foreignKey:UserID" json:"-"`
	Name     string `gorm:"not null;size:100" json:"name"`
	Color    string `gorm:"size:7" json:"color"`

	Sets []FlashcardSet `gorm:"foreignKey:CourseID" json:"-"`
}
