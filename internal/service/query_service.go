package service

import (
	"context"
	"slices"
	"strings"

	"campusforum/internal/model"
	"campusforum/internal/repository/mysql"

	"gorm.io/gorm"
)

// UnknownArticleTitle stands in for the title of a deleted article when a
// comment still points at it.
const UnknownArticleTitle = "unknown article"

// ArticleView is an article joined with its author and the live-computed
// engagement counts. Counts are never persisted; they are recomputed from
// the like and comment sets on every read so they cannot drift.
type ArticleView struct {
	model.Article
	Author        *model.User `json:"author,omitempty"`
	LikesCount    int64       `json:"likes_count"`
	CommentsCount int64       `json:"comments_count"`
	IsLiked       bool        `json:"is_liked,omitempty"`
}

// CommentView is a comment with display context resolved.
type CommentView struct {
	model.Comment
	Author       *model.User `json:"author,omitempty"`
	ArticleTitle string      `json:"article_title,omitempty"`
}

type UserStats struct {
	ArticleCount   int64 `json:"article_count"`
	TotalLikes     int64 `json:"total_likes"`
	FollowingCount int64 `json:"following_count"`
	FollowersCount int64 `json:"followers_count"`
}

// Filter narrows ListArticles. Search is a case-insensitive substring
// match over title, content, and tags; Tag is exact membership.
type Filter struct {
	Search string
	Tag    string
}

// QueryService joins the identity, content, and engagement stores. It is
// read-only except for the view-count side effect on GetArticleDetail.
type QueryService struct {
	articles *mysql.ArticleRepository
	comments *mysql.CommentRepository
	likes    *mysql.LikeRepository
	follows  *mysql.FollowRepository
	users    *mysql.UserRepository
}

func NewQueryService(db *gorm.DB) *QueryService {
	return &QueryService{
		articles: &mysql.ArticleRepository{DB: db},
		comments: &mysql.CommentRepository{DB: db},
		likes:    &mysql.LikeRepository{DB: db},
		follows:  &mysql.FollowRepository{DB: db},
		users:    &mysql.UserRepository{DB: db},
	}
}

// ListArticles returns every matching article newest first.
func (s *QueryService) ListArticles(ctx context.Context, filter Filter) ([]ArticleView, error) {
	articles, err := s.articles.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := articles[:0]
	for _, a := range articles {
		if matchesFilter(&a, filter) {
			matched = append(matched, a)
		}
	}
	return s.assemble(ctx, matched)
}

// GetFeed derives the personalized feed from the follow graph: the
// articles of every followed author, newest first. Nothing is
// materialized, so a new follow shows up on the next read.
func (s *QueryService) GetFeed(ctx context.Context, userID uint64) ([]ArticleView, error) {
	followingIDs, err := s.follows.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(followingIDs) == 0 {
		return []ArticleView{}, nil
	}
	articles, err := s.articles.ListByAuthors(ctx, followingIDs)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, articles)
}

// ListByAuthor returns one user's articles with counts, newest first.
func (s *QueryService) ListByAuthor(ctx context.Context, authorID uint64) ([]ArticleView, error) {
	articles, err := s.articles.ListByAuthors(ctx, []uint64{authorID})
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, articles)
}

// GetArticleDetail returns one article with author, counts, and the
// viewer's like state (viewerID 0 means anonymous). Every call bumps the
// view counter; the increment is best-effort and a lost one is fine.
func (s *QueryService) GetArticleDetail(ctx context.Context, id, viewerID uint64) (*ArticleView, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "article %d", id)
	}
	_ = s.articles.IncrementViews(ctx, id)
	article.Views++

	view := &ArticleView{Article: *article}
	if author, err := s.users.FindByID(ctx, article.UserID); err == nil {
		view.Author = author
	}
	if view.LikesCount, err = s.likes.CountByArticle(ctx, id); err != nil {
		return nil, err
	}
	if view.CommentsCount, err = s.comments.CountByArticle(ctx, id); err != nil {
		return nil, err
	}
	if viewerID != 0 {
		if view.IsLiked, err = s.likes.IsLiked(ctx, viewerID, id); err != nil {
			return nil, err
		}
	}
	return view, nil
}

func (s *QueryService) GetUserStats(ctx context.Context, userID uint64) (*UserStats, error) {
	stats := &UserStats{}
	var err error
	if stats.ArticleCount, err = s.articles.CountByAuthor(ctx, userID); err != nil {
		return nil, err
	}
	if stats.TotalLikes, err = s.likes.CountReceivedByAuthor(ctx, userID); err != nil {
		return nil, err
	}
	if stats.FollowingCount, err = s.follows.CountFollowing(ctx, userID); err != nil {
		return nil, err
	}
	if stats.FollowersCount, err = s.follows.CountFollowers(ctx, userID); err != nil {
		return nil, err
	}
	return stats, nil
}

// GetUserComments lists a user's comments newest first, each with the
// title of its article for display context. Deleted articles resolve to
// the placeholder title instead of failing.
func (s *QueryService) GetUserComments(ctx context.Context, userID uint64) ([]CommentView, error) {
	comments, err := s.comments.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	articleIDs := make([]uint64, 0, len(comments))
	for _, c := range comments {
		articleIDs = append(articleIDs, c.ArticleID)
	}
	byID, err := s.articles.FindByIDs(ctx, articleIDs)
	if err != nil {
		return nil, err
	}
	out := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		view := CommentView{Comment: c, ArticleTitle: UnknownArticleTitle}
		if a, ok := byID[c.ArticleID]; ok {
			view.ArticleTitle = a.Title
		}
		out = append(out, view)
	}
	return out, nil
}

// ListArticleComments lists an article's comments oldest first with their
// authors resolved; comments from deleted accounts keep a nil author.
func (s *QueryService) ListArticleComments(ctx context.Context, articleID uint64) ([]CommentView, error) {
	comments, err := s.comments.ListByArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	userIDs := make([]uint64, 0, len(comments))
	for _, c := range comments {
		userIDs = append(userIDs, c.UserID)
	}
	authors, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	out := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentView{Comment: c, Author: authors[c.UserID]})
	}
	return out, nil
}

// assemble joins articles with authors and recomputed counts. The input
// order is preserved.
func (s *QueryService) assemble(ctx context.Context, articles []model.Article) ([]ArticleView, error) {
	ids := make([]uint64, 0, len(articles))
	authorIDs := make([]uint64, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
		authorIDs = append(authorIDs, a.UserID)
	}

	likeCounts, err := s.likes.CountsByArticleIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	commentCounts, err := s.comments.CountsByArticleIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	authors, err := s.users.FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]ArticleView, 0, len(articles))
	for _, a := range articles {
		out = append(out, ArticleView{
			Article:       a,
			Author:        authors[a.UserID],
			LikesCount:    likeCounts[a.ID],
			CommentsCount: commentCounts[a.ID],
		})
	}
	return out, nil
}

func matchesFilter(a *model.Article, f Filter) bool {
	if f.Tag != "" && !slices.Contains([]string(a.Tags), f.Tag) {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(a.Title), needle) ||
		strings.Contains(strings.ToLower(a.Content), needle) {
		return true
	}
	for _, t := range a.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}
