package handler

import (
	"net/http"

	"campusforum/internal/pkg"
	"campusforum/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	svc *service.CommentService
}

type CreateCommentReq struct {
	ArticleID uint64  `json:"article_id" binding:"required"`
	Content   string  `json:"content" binding:"required"`
	ParentID  *uint64 `json:"parent_id"`
}

type UpdateCommentReq struct {
	Content string `json:"content" binding:"required"`
}

func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req CreateCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	comment, err := h.svc.Create(c.Request.Context(), userIDFromCtx(c), req.ArticleID, req.Content, req.ParentID)
	if err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

func (h *CommentHandler) Update(c *gin.Context) {
	var req UpdateCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	comment, err := h.svc.Update(c.Request.Context(), userIDFromCtx(c), idParam(c), req.Content)
	if err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), userIDFromCtx(c), idParam(c)); err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
