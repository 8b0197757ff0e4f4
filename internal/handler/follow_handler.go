package handler

import (
	"net/http"
	"strconv"

	"campusforum/internal/pkg"
	"campusforum/internal/service"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	svc *service.EngagementService
}

func NewFollowHandler(svc *service.EngagementService) *FollowHandler {
	return &FollowHandler{svc: svc}
}

type toggleFollowReq struct {
	FollowingID uint64 `json:"following_id" binding:"required"`
}

// Toggle flips the follow edge from the caller to following_id.
func (h *FollowHandler) Toggle(c *gin.Context) {
	var req toggleFollowReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	followed, err := h.svc.ToggleFollow(c.Request.Context(), userIDFromCtx(c), req.FollowingID)
	if err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"followed": followed})
}

// Relation reports whether `from` follows `to`.
func (h *FollowHandler) Relation(c *gin.Context) {
	from, _ := strconv.ParseUint(c.Query("from"), 10, 64)
	to, _ := strconv.ParseUint(c.Query("to"), 10, 64)
	following, err := h.svc.IsFollowing(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": following})
}

func (h *FollowHandler) Followers(c *gin.Context) {
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	users, err := h.svc.ListFollowers(c.Request.Context(), userID)
	if err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *FollowHandler) Followings(c *gin.Context) {
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	users, err := h.svc.ListFollowing(c.Request.Context(), userID)
	if err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
