package model

import "time"

// UIDSeed is the base for forum-assigned display IDs; the first registered
// account gets "10000001".
const UIDSeed = 10000000

type User struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UID       string    `gorm:"uniqueIndex;size:16;not null" json:"uid"`
	Username  string    `gorm:"uniqueIndex;size:32;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:64;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      Role      `gorm:"size:16;not null;default:'user'" json:"role"`
	Bio       string    `gorm:"type:text" json:"bio,omitempty"`
	AvatarURL string    `gorm:"size:255" json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
