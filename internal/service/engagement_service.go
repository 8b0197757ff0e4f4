package service

import (
	"context"
	"time"

	"campusforum/internal/model"
	"campusforum/internal/pkg"
	"campusforum/internal/repository/mysql"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EngagementService owns the like and follow edge sets. Both mutations
// are toggles: flip the edge, report the resulting state.
type EngagementService struct {
	likes   *mysql.LikeRepository
	follows *mysql.FollowRepository
	users   *mysql.UserRepository
}

func NewEngagementService(db *gorm.DB) *EngagementService {
	return &EngagementService{
		likes:   &mysql.LikeRepository{DB: db},
		follows: &mysql.FollowRepository{DB: db},
		users:   &mysql.UserRepository{DB: db},
	}
}

func (s *EngagementService) ToggleLike(ctx context.Context, userID, articleID uint64) (bool, error) {
	if userID == 0 || articleID == 0 {
		return false, pkg.InvalidArgumentf("invalid id")
	}
	return s.likes.Toggle(ctx, userID, articleID)
}

func (s *EngagementService) ToggleFollow(ctx context.Context, followerID, followingID uint64) (bool, error) {
	if followerID == 0 || followingID == 0 {
		return false, pkg.InvalidArgumentf("invalid user id")
	}
	if followerID == followingID {
		return false, pkg.InvalidArgumentf("cannot follow yourself")
	}
	return s.follows.Toggle(ctx, followerID, followingID)
}

func (s *EngagementService) IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error) {
	return s.follows.IsFollowing(ctx, followerID, followingID)
}

// ListFollowers resolves the follower edge set to user records. Edges
// whose account was deleted are silently dropped.
func (s *EngagementService) ListFollowers(ctx context.Context, userID uint64) ([]model.User, error) {
	ids, err := s.follows.FollowerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolveUsers(ctx, ids)
}

func (s *EngagementService) ListFollowing(ctx context.Context, userID uint64) ([]model.User, error) {
	ids, err := s.follows.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolveUsers(ctx, ids)
}

func (s *EngagementService) resolveUsers(ctx context.Context, ids []uint64) ([]model.User, error) {
	byID, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

// Sender delivers one outbox event.
type Sender func(ctx context.Context, ob *model.EngagementOutbox) error

// OutboxRelayer drains pending engagement events to a Sender on a ticker.
// Failed sends are marked with a retry count for offline requeueing.
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
	log       *zap.Logger
}

func NewOutboxRelayer(db *gorm.DB, sender Sender, log *zap.Logger) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
		log:       log,
	}
}

func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		r.log.Warn("outbox query failed", zap.Error(err))
		return
	}
	for i := range rows {
		ob := rows[i]
		if err := r.sender(ctx, &ob); err != nil {
			r.log.Warn("outbox send failed",
				zap.Uint64("id", ob.ID), zap.String("event", ob.EventType), zap.Error(err))
			_ = r.repo.MarkFailed(ctx, ob.ID)
			continue
		}
		_ = r.repo.MarkSent(ctx, ob.ID)
	}
}

// KafkaSender publishes events through the configured producer.
func KafkaSender(producer *pkg.EventProducer) Sender {
	return func(ctx context.Context, ob *model.EngagementOutbox) error {
		return producer.Publish(ctx, ob.ActorID, []byte(ob.Payload))
	}
}

// LogSender is the fallback when no brokers are configured.
func LogSender(log *zap.Logger) Sender {
	return func(ctx context.Context, ob *model.EngagementOutbox) error {
		log.Info("engagement event",
			zap.String("event", ob.EventType),
			zap.Uint64("actor_id", ob.ActorID),
			zap.Uint64("subject_id", ob.SubjectID))
		return nil
	}
}
