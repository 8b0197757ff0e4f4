package model

import "time"

type Follow struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	FollowerID  uint64    `gorm:"not null;index:idx_follower_id;uniqueIndex:uk_follower_following" json:"follower_id"`
	FollowingID uint64    `gorm:"not null;index:idx_following_id;uniqueIndex:uk_follower_following" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName sets table name for Follow
func (Follow) TableName() string {
	return "follows"
}

// EngagementOutbox records like/follow state changes for asynchronous
// delivery to the event bus.
type EngagementOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:16;not null"` // like / unlike / follow / unfollow
	ActorID   uint64 `gorm:"not null"`
	SubjectID uint64 `gorm:"not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0"` // 0=pending,1=sent,2=failed
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (EngagementOutbox) TableName() string { return "engagement_outbox" }
