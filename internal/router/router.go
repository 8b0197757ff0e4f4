package router

import (
	"campusforum/internal/handler"
	"campusforum/internal/middleware"
	"campusforum/internal/service"

	"github.com/gin-gonic/gin"
)

// Services bundles the wired service layer for route registration.
type Services struct {
	User       *service.UserService
	Article    *service.ArticleService
	Comment    *service.CommentService
	Engagement *service.EngagementService
	Query      *service.QueryService
}

func InitRouter(svcs Services) *gin.Engine {
	r := gin.Default()

	user := handler.NewUserHandler(svcs.User, svcs.Query)
	article := handler.NewArticleHandler(svcs.Article, svcs.Engagement, svcs.Query)
	comment := handler.NewCommentHandler(svcs.Comment)
	follow := handler.NewFollowHandler(svcs.Engagement)

	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.GET("/list", user.List)
		userGroup.GET("/:id", user.GetByID)
		userGroup.GET("/:id/stats", user.Stats)
		userGroup.GET("/:id/articles", user.Articles)
		userGroup.GET("/:id/comments", user.Comments)
	}

	userAuthGroup := r.Group("/api/user")
	userAuthGroup.Use(middleware.AuthMiddleware())
	{
		userAuthGroup.POST("/logout", user.Logout)
		userAuthGroup.PUT("/profile", user.UpdateProfile)
		userAuthGroup.PUT("/:id/role", user.ChangeRole)
		userAuthGroup.DELETE("/:id", user.Delete)
	}

	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	articleGroup := r.Group("/api/article")
	{
		articleGroup.GET("/list", article.List)
		articleGroup.GET("/:id", middleware.OptionalAuthMiddleware(), article.Detail)
		articleGroup.GET("/:id/comments", article.Comments)
	}

	articleAuthGroup := r.Group("/api/article")
	articleAuthGroup.Use(middleware.AuthMiddleware())
	{
		articleAuthGroup.POST("", article.Create)
		articleAuthGroup.PUT("/:id", article.Update)
		articleAuthGroup.DELETE("/:id", article.Delete)
		articleAuthGroup.POST("/:id/like", article.ToggleLike)
	}

	feedGroup := r.Group("/api/feed")
	feedGroup.Use(middleware.AuthMiddleware())
	{
		feedGroup.GET("", article.Feed)
	}

	commentGroup := r.Group("/api/comment")
	commentGroup.Use(middleware.AuthMiddleware())
	{
		commentGroup.POST("", comment.Create)
		commentGroup.PUT("/:id", comment.Update)
		commentGroup.DELETE("/:id", comment.Delete)
	}

	followGroup := r.Group("/api/follow")
	{
		followGroup.GET("/relation", follow.Relation)
		followGroup.GET("/followers", follow.Followers)
		followGroup.GET("/followings", follow.Followings)
	}

	followAuthGroup := r.Group("/api/follow")
	followAuthGroup.Use(middleware.AuthMiddleware())
	{
		followAuthGroup.POST("", follow.Toggle)
	}

	return r
}
