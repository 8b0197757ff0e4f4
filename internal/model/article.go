package model

import (
	"time"

	"gorm.io/datatypes"
)

type Article struct {
	ID        uint64                      `gorm:"primaryKey;index:idx_author_time,priority:2" json:"id"`
	UserID    uint64                      `gorm:"not null;index:idx_author_time,priority:1" json:"user_id"`
	Title     string                      `gorm:"size:200;not null" json:"title"`
	Content   string                      `gorm:"type:text" json:"content"`
	Tags      datatypes.JSONSlice[string] `json:"tags"`
	Views     int64                       `gorm:"not null;default:0" json:"views"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"-"`
}

func (Article) TableName() string {
	return "articles"
}
