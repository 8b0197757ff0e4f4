package mysql

import (
	"context"

	"campusforum/internal/model"

	"gorm.io/gorm"
)

type ArticleRepository struct {
	DB *gorm.DB
}

func (r *ArticleRepository) Create(ctx context.Context, article *model.Article) error {
	return r.DB.WithContext(ctx).Create(article).Error
}

func (r *ArticleRepository) FindByID(ctx context.Context, id uint64) (*model.Article, error) {
	var article model.Article
	err := r.DB.WithContext(ctx).First(&article, id).Error
	return &article, err
}

// List returns every article newest first. Filtering happens in the query
// service; counts are never stored, so there is nothing else to select.
func (r *ArticleRepository) List(ctx context.Context) ([]model.Article, error) {
	var list []model.Article
	err := r.DB.WithContext(ctx).Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *ArticleRepository) ListByAuthors(ctx context.Context, authorIDs []uint64) ([]model.Article, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var list []model.Article
	err := r.DB.WithContext(ctx).
		Where("user_id IN ?", authorIDs).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

func (r *ArticleRepository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]*model.Article, error) {
	out := make(map[uint64]*model.Article, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var list []model.Article
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	for i := range list {
		out[list[i].ID] = &list[i]
	}
	return out, nil
}

func (r *ArticleRepository) CountByAuthor(ctx context.Context, authorID uint64) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Article{}).
		Where("user_id = ?", authorID).Count(&count).Error
	return count, err
}

// Update touches title/content/tags only; owner, timestamps, and views
// stay immutable.
func (r *ArticleRepository) Update(ctx context.Context, id uint64, fields map[string]any) error {
	return r.DB.WithContext(ctx).Model(&model.Article{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ArticleRepository) Delete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Delete(&model.Article{}, id).Error
}

// IncrementViews bumps the read counter. Best-effort: callers ignore the
// error, a lost increment under a race is acceptable.
func (r *ArticleRepository) IncrementViews(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.Article{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}
