package handler

import (
	"net/http"

	"campusforum/internal/pkg"
	"campusforum/internal/service"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	svc        *service.ArticleService
	engagement *service.EngagementService
	query      *service.QueryService
}

type CreateArticleReq struct {
	Title   string   `json:"title" binding:"required"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type UpdateArticleReq struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
}

func NewArticleHandler(svc *service.ArticleService, engagement *service.EngagementService, query *service.QueryService) *ArticleHandler {
	return &ArticleHandler{svc: svc, engagement: engagement, query: query}
}

// List is the public article index; ?search= and ?tag= narrow it.
func (h *ArticleHandler) List(c *gin.Context) {
	filter := service.Filter{
		Search: c.Query("search"),
		Tag:    c.Query("tag"),
	}
	views, err := h.query.ListArticles(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": views})
}

// Detail returns one article and counts a view. is_liked reflects the
// optional viewer from the bearer token.
func (h *ArticleHandler) Detail(c *gin.Context) {
	view, err := h.query.GetArticleDetail(c.Request.Context(), idParam(c), userIDFromCtx(c))
	if err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": view})
}

func (h *ArticleHandler) Feed(c *gin.Context) {
	views, err := h.query.GetFeed(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": views})
}

func (h *ArticleHandler) Create(c *gin.Context) {
	var req CreateArticleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	article, err := h.svc.Create(c.Request.Context(), userIDFromCtx(c), req.Title, req.Content, req.Tags)
	if err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": article})
}

func (h *ArticleHandler) Update(c *gin.Context) {
	var req UpdateArticleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	article, err := h.svc.Update(c.Request.Context(), userIDFromCtx(c), idParam(c), service.ArticleUpdate{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": article})
}

func (h *ArticleHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), userIDFromCtx(c), idParam(c)); err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// ToggleLike flips the caller's like on the article and reports the
// resulting state.
func (h *ArticleHandler) ToggleLike(c *gin.Context) {
	liked, err := h.engagement.ToggleLike(c.Request.Context(), userIDFromCtx(c), idParam(c))
	if err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

func (h *ArticleHandler) Comments(c *gin.Context) {
	views, err := h.query.ListArticleComments(c.Request.Context(), idParam(c))
	if err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": views})
}
