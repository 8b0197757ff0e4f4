package mysql

import (
	"context"
	"encoding/json"
	"time"

	"campusforum/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository struct {
	DB *gorm.DB
}

// Toggle flips the follow edge for the ordered (follower, following) pair
// and returns the resulting presence state. Same shape as the like toggle:
// delete-if-present, else insert-if-absent on the unique pair index.
func (r *FollowRepository) Toggle(ctx context.Context, followerID, followingID uint64) (bool, error) {
	var followed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Delete(&model.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			followed = false
			return insertOutbox(tx, "unfollow", followerID, followingID)
		}
		ins := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
			DoNothing: true,
		}).Create(&model.Follow{FollowerID: followerID, FollowingID: followingID})
		if ins.Error != nil {
			return ins.Error
		}
		followed = true
		if ins.RowsAffected > 0 {
			return insertOutbox(tx, "follow", followerID, followingID)
		}
		return nil
	})
	return followed, err
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// FollowingIDs returns the accounts userID follows; the feed is derived
// from this set on every read.
func (r *FollowRepository) FollowingIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ?", userID).
		Order("id ASC").
		Pluck("following_id", &ids).Error
	return ids, err
}

func (r *FollowRepository) FollowerIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("following_id = ?", userID).
		Order("id ASC").
		Pluck("follower_id", &ids).Error
	return ids, err
}

func (r *FollowRepository) CountFollowing(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *FollowRepository) CountFollowers(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("following_id = ?", userID).Count(&n).Error
	return n, err
}

// insertOutbox records an engagement state change in the same transaction
// that produced it.
func insertOutbox(tx *gorm.DB, event string, actorID, subjectID uint64) error {
	payload, _ := json.Marshal(map[string]any{
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"event":      event,
		"actor_id":   actorID,
		"subject_id": subjectID,
	})
	return tx.Create(&model.EngagementOutbox{
		EventType: event,
		ActorID:   actorID,
		SubjectID: subjectID,
		Payload:   string(payload),
		Status:    0,
	}).Error
}
