package model

import "time"

// Like is a pure associative row: its existence is the truth value of
// "user likes article". The unique pair index backs the atomic toggle.
type Like struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_user_article" json:"user_id"`
	ArticleID uint64 `gorm:"not null;index;uniqueIndex:uk_user_article" json:"article_id"`
	CreatedAt time.Time `json:"-"`
}

func (Like) TableName() string {
	return "likes"
}
