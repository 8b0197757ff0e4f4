package service

import (
	"context"
	"strings"

	"campusforum/internal/model"
	"campusforum/internal/pkg"
	"campusforum/internal/repository/mysql"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ArticleService struct {
	repo  *mysql.ArticleRepository
	users *mysql.UserRepository
}

func NewArticleService(db *gorm.DB) *ArticleService {
	return &ArticleService{
		repo:  &mysql.ArticleRepository{DB: db},
		users: &mysql.UserRepository{DB: db},
	}
}

// NormalizeTags trims, lower-cases, de-duplicates, and drops empties,
// keeping first-seen order for display.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func (s *ArticleService) Create(ctx context.Context, authorID uint64, title, content string, tags []string) (*model.Article, error) {
	if title == "" {
		return nil, pkg.InvalidArgumentf("title required")
	}
	article := &model.Article{
		UserID:  authorID,
		Title:   title,
		Content: content,
		Tags:    datatypes.NewJSONSlice(NormalizeTags(tags)),
		Views:   0,
	}
	if err := s.repo.Create(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// ArticleUpdate carries the mutable fields; nil means leave unchanged.
type ArticleUpdate struct {
	Title   *string
	Content *string
	Tags    *[]string
}

// Update edits an article. The caller must be the author or hold a
// moderating role; id, owner, views, and created_at never change.
func (s *ArticleService) Update(ctx context.Context, callerID, id uint64, upd ArticleUpdate) (*model.Article, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "article %d", id)
	}
	if err := s.authorize(ctx, callerID, article.UserID); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if upd.Title != nil {
		if *upd.Title == "" {
			return nil, pkg.InvalidArgumentf("title required")
		}
		fields["title"] = *upd.Title
	}
	if upd.Content != nil {
		fields["content"] = *upd.Content
	}
	if upd.Tags != nil {
		fields["tags"] = datatypes.NewJSONSlice(NormalizeTags(*upd.Tags))
	}
	if len(fields) > 0 {
		if err := s.repo.Update(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.repo.FindByID(ctx, id)
}

// Delete removes an article under the same authorization rule as Update.
// Comments and likes pointing at it are left in place; downstream reads
// resolve them as orphans.
func (s *ArticleService) Delete(ctx context.Context, callerID, id uint64) error {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "article %d", id)
	}
	if err := s.authorize(ctx, callerID, article.UserID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *ArticleService) authorize(ctx context.Context, callerID, authorID uint64) error {
	if callerID == authorID {
		return nil
	}
	caller, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		return notFoundOr(err, "user %d", callerID)
	}
	if !caller.Role.CanModerate() {
		return pkg.Forbiddenf("not the author")
	}
	return nil
}
