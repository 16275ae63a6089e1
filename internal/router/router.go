package router

import (
	"net/http"

	"arenalink/internal/handlers"
	"arenalink/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	arenaHandler := handlers.NewArenaHandler()
	campaignHandler := handlers.NewCampaignHandler()
	scoringHandler := handlers.NewScoringHandler()
	leaderboardHandler := handlers.NewLeaderboardHandler()
	postHandler := handlers.NewPostHandler()
	userHandler := handlers.NewUserHandler()

	// health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// 公共路由 (Public Routes)
	r.POST("/auth/signup", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)
	r.GET("/auth/logout", authHandler.Logout)
	r.GET("/auth/me", authHandler.Me)

	r.POST("/arena/match", arenaHandler.CreateMatch) // 创建对战（允许匿名）
	r.POST("/arena/vote", arenaHandler.Vote)         // 投票（允许匿名）
	r.GET("/arena/match/:mid", arenaHandler.GetMatch)

	r.GET("/campaign", campaignHandler.List)        // 活动列表
	r.GET("/campaign/:id", campaignHandler.Detail)  // 活动详情（含奖励台账）

	r.GET("/leaderboard/models", leaderboardHandler.Models) // 模型 Elo 排行
	r.GET("/leaderboard/users", leaderboardHandler.Users)   // 用户奖金排行

	r.GET("/posts", postHandler.List)        // 展示板列表
	r.GET("/posts/:pid", postHandler.Detail) // 展示板详情

	r.GET("/users/:id", userHandler.Profile) // 用户主页

	r.GET("/scoring/consistency/:id", scoringHandler.Consistency)                  // 一致性分
	r.GET("/scoring/consistency/:id/advanced", scoringHandler.AdvancedConsistency) // 高级一致性评估

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/posts", postHandler.Create)          // 分享回答到展示板
		authorized.POST("/posts/:pid/like", postHandler.Like)  // 点赞
		authorized.DELETE("/posts/:pid", postHandler.Delete)   // 删除自己的帖子
	}

	// 管理员路由 (Admin Routes)
	admin := r.Group("/campaign")
	admin.Use(middleware.AdminRequired())
	{
		admin.POST("", campaignHandler.Create)          // 创建赞助活动
		admin.POST("/:id/close", campaignHandler.Close) // 结算活动并分配奖金
	}
}
