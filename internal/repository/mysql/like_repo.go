package mysql

import (
	"context"

	"campusforum/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository struct {
	DB *gorm.DB
}

// Toggle flips the like edge for (userID, articleID) and returns the
// resulting presence state. Delete-if-present first; otherwise an
// insert-if-absent against the unique pair index, so two concurrent
// toggles serialize instead of racing into duplicate rows.
func (r *LikeRepository) Toggle(ctx context.Context, userID, articleID uint64) (bool, error) {
	var liked bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND article_id = ?", userID, articleID).
			Delete(&model.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return insertOutbox(tx, "unlike", userID, articleID)
		}
		ins := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "article_id"}},
			DoNothing: true,
		}).Create(&model.Like{UserID: userID, ArticleID: articleID})
		if ins.Error != nil {
			return ins.Error
		}
		// RowsAffected==0 means a concurrent insert won; the row exists
		// either way.
		liked = true
		if ins.RowsAffected > 0 {
			return insertOutbox(tx, "like", userID, articleID)
		}
		return nil
	})
	return liked, err
}

func (r *LikeRepository) IsLiked(ctx context.Context, userID, articleID uint64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&count).Error
	return count > 0, err
}

func (r *LikeRepository) CountByArticle(ctx context.Context, articleID uint64) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Like{}).
		Where("article_id = ?", articleID).Count(&count).Error
	return count, err
}

func (r *LikeRepository) CountsByArticleIDs(ctx context.Context, articleIDs []uint64) (map[uint64]int64, error) {
	return countsByArticleIDs(ctx, r.DB, &model.Like{}, articleIDs)
}

// CountReceivedByAuthor sums the likes on every article the author owns.
func (r *LikeRepository) CountReceivedByAuthor(ctx context.Context, authorID uint64) (int64, error) {
	var count int64
	sub := r.DB.Model(&model.Article{}).Select("id").Where("user_id = ?", authorID)
	err := r.DB.WithContext(ctx).Model(&model.Like{}).
		Where("article_id IN (?)", sub).
		Count(&count).Error
	return count, err
}

type articleCount struct {
	ArticleID uint64
	N         int64
}

func countsByArticleIDs(ctx context.Context, db *gorm.DB, m any, articleIDs []uint64) (map[uint64]int64, error) {
	out := make(map[uint64]int64, len(articleIDs))
	if len(articleIDs) == 0 {
		return out, nil
	}
	var rows []articleCount
	err := db.WithContext(ctx).Model(m).
		Select("article_id, COUNT(*) AS n").
		Where("article_id IN ?", articleIDs).
		Group("article_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ArticleID] = row.N
	}
	return out, nil
}
