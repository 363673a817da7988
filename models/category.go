package models

import "time"

// Category groups products. Names are unique; a category cannot be deleted
// while any product still references it.
type Category struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description string    `gorm:"not null;default:''"`
	CreatedAt   time.Time
}

func (c *Category) TableName() string {
	return "categories"
}
