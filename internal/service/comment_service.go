package service

import (
	"context"

	"campusforum/internal/model"
	"campusforum/internal/pkg"
	"campusforum/internal/repository/mysql"

	"gorm.io/gorm"
)

type CommentService struct {
	repo     *mysql.CommentRepository
	articles *mysql.ArticleRepository
	users    *mysql.UserRepository
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		repo:     &mysql.CommentRepository{DB: db},
		articles: &mysql.ArticleRepository{DB: db},
		users:    &mysql.UserRepository{DB: db},
	}
}

func (s *CommentService) Create(ctx context.Context, authorID, articleID uint64, content string, parentID *uint64) (*model.Comment, error) {
	if content == "" {
		return nil, pkg.InvalidArgumentf("content required")
	}
	if _, err := s.articles.FindByID(ctx, articleID); err != nil {
		return nil, notFoundOr(err, "article %d", articleID)
	}
	comment := &model.Comment{
		ArticleID: articleID,
		UserID:    authorID,
		Content:   content,
		ParentID:  parentID,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Update edits the text. Author only; moderators delete, they do not
// rewrite other people's words.
func (s *CommentService) Update(ctx context.Context, callerID, id uint64, content string) (*model.Comment, error) {
	if content == "" {
		return nil, pkg.InvalidArgumentf("content required")
	}
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "comment %d", id)
	}
	if comment.UserID != callerID {
		return nil, pkg.Forbiddenf("not the author")
	}
	if err := s.repo.UpdateContent(ctx, id, content); err != nil {
		return nil, err
	}
	comment.Content = content
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, callerID, id uint64) error {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "comment %d", id)
	}
	if comment.UserID != callerID {
		caller, err := s.users.FindByID(ctx, callerID)
		if err != nil {
			return notFoundOr(err, "user %d", callerID)
		}
		if !caller.Role.CanModerate() {
			return pkg.Forbiddenf("not the author")
		}
	}
	return s.repo.Delete(ctx, id)
}
