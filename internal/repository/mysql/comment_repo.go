package mysql

import (
	"context"

	"campusforum/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.DB.WithContext(ctx).Create(comment).Error
}

func (r *CommentRepository) FindByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var comment model.Comment
	err := r.DB.WithContext(ctx).First(&comment, id).Error
	return &comment, err
}

// ListByArticle returns an article's comments oldest first, the order they
// are rendered in.
func (r *CommentRepository) ListByArticle(ctx context.Context, articleID uint64) ([]model.Comment, error) {
	var list []model.Comment
	err := r.DB.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *CommentRepository) ListByUser(ctx context.Context, userID uint64) ([]model.Comment, error) {
	var list []model.Comment
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

func (r *CommentRepository) UpdateContent(ctx context.Context, id uint64, content string) error {
	return r.DB.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", id).Update("content", content).Error
}

func (r *CommentRepository) Delete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Delete(&model.Comment{}, id).Error
}

func (r *CommentRepository) CountByArticle(ctx context.Context, articleID uint64) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Comment{}).
		Where("article_id = ?", articleID).Count(&count).Error
	return count, err
}

// CountsByArticleIDs recomputes per-article comment counts in one grouped
// query.
func (r *CommentRepository) CountsByArticleIDs(ctx context.Context, articleIDs []uint64) (map[uint64]int64, error) {
	return countsByArticleIDs(ctx, r.DB, &model.Comment{}, articleIDs)
}
