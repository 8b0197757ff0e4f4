package service

import (
	"context"
	"testing"

	"campusforum/internal/model"
	"campusforum/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type contentFixture struct {
	db       *gorm.DB
	users    *UserService
	articles *ArticleService
	comments *CommentService
}

func newContentFixture(t *testing.T) *contentFixture {
	db := newTestDB(t)
	return &contentFixture{
		db:       db,
		users:    NewUserService(db, zap.NewNop()),
		articles: NewArticleService(db),
		comments: NewCommentService(db),
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Math ", "MATH", "", "study group", "math", "  "})
	assert.Equal(t, []string{"math", "study group"}, got)

	assert.Empty(t, NormalizeTags(nil))
	assert.Empty(t, NormalizeTags([]string{"", "   "}))
}

func TestCreateArticle(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	alice := registerAs(t, f.users, f.db, "alice", model.RoleUser)

	article, err := f.articles.Create(ctx, alice.ID, "Calculus help", "anyone free tuesday?", []string{" Math ", "Study Group", "math"})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, article.UserID)
	assert.EqualValues(t, 0, article.Views)
	assert.Equal(t, []string{"math", "study group"}, []string(article.Tags))

	_, err = f.articles.Create(ctx, alice.ID, "", "no title", nil)
	assert.ErrorIs(t, err, pkg.ErrInvalidArgument)
}

func TestUpdateArticleAuthorization(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	alice := registerAs(t, f.users, f.db, "alice", model.RoleUser)
	bob := registerAs(t, f.users, f.db, "bob", model.RoleUser)
	mod := registerAs(t, f.users, f.db, "mod", model.RoleManager)

	article, err := f.articles.Create(ctx, alice.ID, "T", "c", []string{"math"})
	require.NoError(t, err)

	title := "edited"
	_, err = f.articles.Update(ctx, bob.ID, article.ID, ArticleUpdate{Title: &title})
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	// author edits; owner and views stay put
	updated, err := f.articles.Update(ctx, alice.ID, article.ID, ArticleUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Title)
	assert.Equal(t, alice.ID, updated.UserID)
	assert.EqualValues(t, 0, updated.Views)

	// moderation override
	modTitle := "moderated"
	updated, err = f.articles.Update(ctx, mod.ID, article.ID, ArticleUpdate{Title: &modTitle})
	require.NoError(t, err)
	assert.Equal(t, "moderated", updated.Title)

	_, err = f.articles.Update(ctx, alice.ID, 99999, ArticleUpdate{Title: &title})
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestDeleteArticleDoesNotCascade(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	alice := registerAs(t, f.users, f.db, "alice", model.RoleUser)
	bob := registerAs(t, f.users, f.db, "bob", model.RoleUser)

	article, err := f.articles.Create(ctx, alice.ID, "T", "c", nil)
	require.NoError(t, err)
	comment, err := f.comments.Create(ctx, bob.ID, article.ID, "nice", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, f.articles.Delete(ctx, bob.ID, article.ID), pkg.ErrForbidden)
	require.NoError(t, f.articles.Delete(ctx, alice.ID, article.ID))

	// the comment stays behind as an orphan
	var n int64
	require.NoError(t, f.db.Model(&model.Comment{}).Where("id = ?", comment.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestCommentRules(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	alice := registerAs(t, f.users, f.db, "alice", model.RoleUser)
	bob := registerAs(t, f.users, f.db, "bob", model.RoleUser)
	mod := registerAs(t, f.users, f.db, "mod", model.RoleManager)

	_, err := f.comments.Create(ctx, bob.ID, 99999, "hello", nil)
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	article, err := f.articles.Create(ctx, alice.ID, "T", "c", nil)
	require.NoError(t, err)
	comment, err := f.comments.Create(ctx, bob.ID, article.ID, "first", nil)
	require.NoError(t, err)

	// only the author rewrites the text, moderators included
	_, err = f.comments.Update(ctx, mod.ID, comment.ID, "edited")
	assert.ErrorIs(t, err, pkg.ErrForbidden)
	updated, err := f.comments.Update(ctx, bob.ID, comment.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	// deletion allows the moderation override
	assert.ErrorIs(t, f.comments.Delete(ctx, alice.ID, comment.ID), pkg.ErrForbidden)
	require.NoError(t, f.comments.Delete(ctx, mod.ID, comment.ID))
}
