package handler

import (
	"net/http"
	"strconv"

	"campusforum/internal/middleware"
	"campusforum/internal/model"
	"campusforum/internal/pkg"
	"campusforum/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc   *service.UserService
	query *service.QueryService
}

// RegisterReq mirrors the registration body.
type RegisterReq struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginReq struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type UpdateProfileReq struct {
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

type ChangeRoleReq struct {
	Role string `json:"role" binding:"required"`
}

func NewUserHandler(svc *service.UserService, query *service.QueryService) *UserHandler {
	return &UserHandler{svc: svc, query: query}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	user, err := h.svc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	user, pair, err := h.svc.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

func (h *UserHandler) Logout(c *gin.Context) {
	uid := userIDFromCtx(c)
	if uid == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
		return
	}
	if err := h.svc.Logout(c.Request.Context(), uid); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *UserHandler) TokenRefresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	pair, err := h.svc.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	user, err := h.svc.UpdateProfile(c.Request.Context(), userIDFromCtx(c), req.Bio, req.AvatarURL)
	if err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) ChangeRole(c *gin.Context) {
	var req ChangeRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	targetID := idParam(c)
	user, err := h.svc.ChangeRole(c.Request.Context(), userIDFromCtx(c), targetID, model.Role(req.Role))
	if err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteUser(c.Request.Context(), userIDFromCtx(c), idParam(c)); err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *UserHandler) GetByID(c *gin.Context) {
	user, err := h.svc.GetByID(c.Request.Context(), idParam(c))
	if err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.query.GetUserStats(c.Request.Context(), idParam(c))
	if err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h *UserHandler) Articles(c *gin.Context) {
	views, err := h.query.ListByAuthor(c.Request.Context(), idParam(c))
	if err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": views})
}

func (h *UserHandler) Comments(c *gin.Context) {
	views, err := h.query.GetUserComments(c.Request.Context(), idParam(c))
	if err != nil {
		c.JSON(pkg.StatusOf(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": views})
}

func userIDFromCtx(c *gin.Context) uint64 {
	if v, ok := c.Get(middleware.ContextUserIDKey); ok {
		if id, ok2 := v.(uint64); ok2 {
			return id
		}
	}
	return 0
}

func idParam(c *gin.Context) uint64 {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	return id
}
