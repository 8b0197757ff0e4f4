package service

import (
	"context"
	"testing"
	"time"

	"campusforum/internal/model"
	"campusforum/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type queryFixture struct {
	db         *gorm.DB
	users      *UserService
	articles   *ArticleService
	comments   *CommentService
	engagement *EngagementService
	query      *QueryService
}

func newQueryFixture(t *testing.T) *queryFixture {
	db := newTestDB(t)
	return &queryFixture{
		db:         db,
		users:      NewUserService(db, zap.NewNop()),
		articles:   NewArticleService(db),
		comments:   NewCommentService(db),
		engagement: NewEngagementService(db),
		query:      NewQueryService(db),
	}
}

// seedArticle inserts with an explicit timestamp so ordering is
// deterministic.
func (f *queryFixture) seedArticle(t *testing.T, authorID uint64, title string, tags []string, at time.Time) *model.Article {
	t.Helper()
	article := &model.Article{
		UserID:    authorID,
		Title:     title,
		Content:   "content of " + title,
		Tags:      datatypes.NewJSONSlice(NormalizeTags(tags)),
		CreatedAt: at,
	}
	require.NoError(t, f.db.Create(article).Error)
	return article
}

func TestCountConsistency(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()
	alice := registerAs(t, f.users, f.db, "alice", model.RoleUser)

	article, err := f.articles.Create(ctx, alice.ID, "X", "c", nil)
	require.NoError(t, err)

	for _, userID := range []uint64{101, 102, 103} {
		liked, err := f.engagement.ToggleLike(ctx, userID, article.ID)
		require.NoError(t, err)
		require.True(t, liked)
	}
	for i := 0; i < 2; i++ {
		_, err := f.comments.Create(ctx, alice.ID, article.ID, "hi", nil)
		require.NoError(t, err)
	}

	list, err := f.query.ListArticles(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 3, list[0].LikesCount)
	assert.EqualValues(t, 2, list[0].CommentsCount)

	detail, err := f.query.GetArticleDetail(ctx, article.ID, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, detail.LikesCount)
	assert.EqualValues(t, 2, detail.CommentsCount)
}

func TestListArticlesFilterAndOrder(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()
	alice := registerAs(t, f.users, f.db, "alice", model.RoleUser)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.seedArticle(t, alice.ID, "Calculus Help", []string{"Math", "Study Group"}, base)
	f.seedArticle(t, alice.ID, "Dorm selling textbooks", []string{"market"}, base.Add(time.Hour))
	f.seedArticle(t, alice.ID, "Campus news", []string{"announcement"}, base.Add(2*time.Hour))

	// newest first
	all, err := f.query.ListArticles(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Campus news", all[0].Title)
	assert.Equal(t, "Calculus Help", all[2].Title)
	require.NotNil(t, all[0].Author)
	assert.Equal(t, "alice", all[0].Author.Username)

	// case-insensitive substring over title
	got, err := f.query.ListArticles(ctx, Filter{Search: "calculus"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Calculus Help", got[0].Title)

	// substring over content
	got, err = f.query.ListArticles(ctx, Filter{Search: "CONTENT OF DORM"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	// substring over a tag
	got, err = f.query.ListArticles(ctx, Filter{Search: "study"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	// tag filter is exact membership on the normalized tag
	got, err = f.query.ListArticles(ctx, Filter{Tag: "math"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	got, err = f.query.ListArticles(ctx, Filter{Tag: "mat"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFeedCorrectness(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()
	u := registerAs(t, f.users, f.db, "reader", model.RoleUser)
	a := registerAs(t, f.users, f.db, "authorA", model.RoleUser)
	b := registerAs(t, f.users, f.db, "authorB", model.RoleUser)
	c := registerAs(t, f.users, f.db, "authorC", model.RoleUser)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.seedArticle(t, a.ID, "from A old", nil, base)
	f.seedArticle(t, b.ID, "from B", nil, base.Add(time.Hour))
	f.seedArticle(t, c.ID, "from C", nil, base.Add(2*time.Hour))
	f.seedArticle(t, a.ID, "from A new", nil, base.Add(3*time.Hour))

	// empty before any follow
	feed, err := f.query.GetFeed(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)

	_, err = f.engagement.ToggleFollow(ctx, u.ID, a.ID)
	require.NoError(t, err)
	_, err = f.engagement.ToggleFollow(ctx, u.ID, b.ID)
	require.NoError(t, err)

	// derived view: the new follows show up immediately, newest first,
	// nothing from unfollowed authors
	feed, err = f.query.GetFeed(ctx, u.ID)
	require.NoError(t, err)
	titles := []string{}
	for _, v := range feed {
		titles = append(titles, v.Title)
	}
	assert.Equal(t, []string{"from A new", "from B", "from A old"}, titles)
}

func TestGetArticleDetail(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()
	alice := registerAs(t, f.users, f.db, "alice", model.RoleUser)
	bob := registerAs(t, f.users, f.db, "bob", model.RoleUser)

	article, err := f.articles.Create(ctx, alice.ID, "T", "c", []string{"math"})
	require.NoError(t, err)
	_, err = f.engagement.ToggleLike(ctx, bob.ID, article.ID)
	require.NoError(t, err)

	// every single-article read counts a view, the author's own included
	detail, err := f.query.GetArticleDetail(ctx, article.ID, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, detail.Views)
	assert.False(t, detail.IsLiked)

	detail, err = f.query.GetArticleDetail(ctx, article.ID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, detail.Views)
	assert.True(t, detail.IsLiked)

	// anonymous viewer: no like state
	detail, err = f.query.GetArticleDetail(ctx, article.ID, 0)
	require.NoError(t, err)
	assert.False(t, detail.IsLiked)
	require.NotNil(t, detail.Author)
	assert.Equal(t, "alice", detail.Author.Username)

	_, err = f.query.GetArticleDetail(ctx, 99999, 0)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestUserStatsEndToEnd(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()

	alice, err := f.users.Register(ctx, "alice", "a@x.com", "pw123456")
	require.NoError(t, err)
	bob, err := f.users.Register(ctx, "bob", "b@x.com", "pw123456")
	require.NoError(t, err)

	article, err := f.articles.Create(ctx, alice.ID, "T", "c", []string{"math"})
	require.NoError(t, err)

	liked, err := f.engagement.ToggleLike(ctx, bob.ID, article.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	liked, err = f.engagement.ToggleLike(ctx, bob.ID, article.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	stats, err := f.query.GetUserStats(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.ArticleCount)
	assert.EqualValues(t, 0, stats.TotalLikes)
	assert.EqualValues(t, 0, stats.FollowingCount)
	assert.EqualValues(t, 0, stats.FollowersCount)
}

func TestUserStatsCountsLikesReceived(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()
	alice := registerAs(t, f.users, f.db, "alice", model.RoleUser)
	bob := registerAs(t, f.users, f.db, "bob", model.RoleUser)

	a1, err := f.articles.Create(ctx, alice.ID, "one", "c", nil)
	require.NoError(t, err)
	a2, err := f.articles.Create(ctx, alice.ID, "two", "c", nil)
	require.NoError(t, err)

	// likes received on alice's articles, plus one alice gives away
	for _, userID := range []uint64{201, 202} {
		_, err = f.engagement.ToggleLike(ctx, userID, a1.ID)
		require.NoError(t, err)
	}
	_, err = f.engagement.ToggleLike(ctx, 201, a2.ID)
	require.NoError(t, err)
	other, err := f.articles.Create(ctx, bob.ID, "bobs", "c", nil)
	require.NoError(t, err)
	_, err = f.engagement.ToggleLike(ctx, alice.ID, other.ID)
	require.NoError(t, err)

	_, err = f.engagement.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = f.engagement.ToggleFollow(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	stats, err := f.query.GetUserStats(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.ArticleCount)
	assert.EqualValues(t, 3, stats.TotalLikes) // received, not given
	assert.EqualValues(t, 1, stats.FollowingCount)
	assert.EqualValues(t, 1, stats.FollowersCount)
}

func TestUserCommentsResolveDeletedArticles(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()
	alice := registerAs(t, f.users, f.db, "alice", model.RoleUser)
	bob := registerAs(t, f.users, f.db, "bob", model.RoleUser)

	keep, err := f.articles.Create(ctx, alice.ID, "kept", "c", nil)
	require.NoError(t, err)
	gone, err := f.articles.Create(ctx, alice.ID, "doomed", "c", nil)
	require.NoError(t, err)

	c1, err := f.comments.Create(ctx, bob.ID, keep.ID, "on kept", nil)
	require.NoError(t, err)
	_, err = f.comments.Create(ctx, bob.ID, gone.ID, "on doomed", nil)
	require.NoError(t, err)
	// force distinct ordering
	require.NoError(t, f.db.Model(&model.Comment{}).Where("id = ?", c1.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	require.NoError(t, f.articles.Delete(ctx, alice.ID, gone.ID))

	views, err := f.query.GetUserComments(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	// newest first
	assert.Equal(t, "on doomed", views[0].Content)
	assert.Equal(t, UnknownArticleTitle, views[0].ArticleTitle)
	assert.Equal(t, "kept", views[1].ArticleTitle)
}

func TestListArticleCommentsOldestFirst(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()
	alice := registerAs(t, f.users, f.db, "alice", model.RoleUser)
	bob := registerAs(t, f.users, f.db, "bob", model.RoleUser)

	article, err := f.articles.Create(ctx, alice.ID, "T", "c", nil)
	require.NoError(t, err)

	first, err := f.comments.Create(ctx, alice.ID, article.ID, "first", nil)
	require.NoError(t, err)
	_, err = f.comments.Create(ctx, bob.ID, article.ID, "second", nil)
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&model.Comment{}).Where("id = ?", first.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	views, err := f.query.ListArticleComments(ctx, article.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "first", views[0].Content)
	require.NotNil(t, views[1].Author)
	assert.Equal(t, "bob", views[1].Author.Username)

	// a deleted account leaves a comment without an author
	require.NoError(t, f.db.Delete(&model.User{}, bob.ID).Error)
	views, err = f.query.ListArticleComments(ctx, article.ID)
	require.NoError(t, err)
	assert.Nil(t, views[1].Author)
}

func TestListByAuthor(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()
	alice := registerAs(t, f.users, f.db, "alice", model.RoleUser)
	bob := registerAs(t, f.users, f.db, "bob", model.RoleUser)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.seedArticle(t, alice.ID, "old", nil, base)
	f.seedArticle(t, alice.ID, "new", nil, base.Add(time.Hour))
	f.seedArticle(t, bob.ID, "other", nil, base.Add(2*time.Hour))

	views, err := f.query.ListByAuthor(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "new", views[0].Title)
	assert.Equal(t, "old", views[1].Title)
}
