package handlers

import (
	"math"
	"net/http"
	"time"

	"arenalink/internal/db"
	"arenalink/internal/models"
	"arenalink/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type LeaderboardHandler struct{}

func NewLeaderboardHandler() *LeaderboardHandler {
	return &LeaderboardHandler{}
}

const leaderboardCacheTTL = 60 * time.Second

type modelRank struct {
	Rank          int     `json:"rank"`
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Provider      string  `json:"provider"`
	Rating        int     `json:"rating"`
	TotalMatches  int64   `json:"total_matches"`
	PostedMatches int64   `json:"posted_matches"`
	AdoptionRate  float64 `json:"adoption_rate"` // 被分享到展示板的比例（百分比）
}

// Models 模型排行：Elo 等级分 + 采纳率
func (h *LeaderboardHandler) Models(c *gin.Context) {
	cache := utils.GetCache()
	if cached := cache.Get("leaderboard:models"); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	var aiModels []models.AIModel
	if err := db.DB.Order("rating DESC").Find(&aiModels).Error; err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load models")
		return
	}

	ranks := make([]modelRank, 0, len(aiModels))
	for i, m := range aiModels {
		var totalMatches int64
		db.DB.Model(&models.Match{}).
			Where("model_a_id = ? OR model_b_id = ?", m.ID, m.ID).
			Count(&totalMatches)

		// 模型的回答被分享到展示板的次数
		var postedMatches int64
		db.DB.Model(&models.Post{}).
			Joins("JOIN matches ON matches.id = posts.match_id").
			Where("(posts.position = ? AND matches.model_a_id = ?) OR (posts.position = ? AND matches.model_b_id = ?)",
				models.ChoiceA, m.ID, models.ChoiceB, m.ID).
			Count(&postedMatches)

		adoptionRate := 0.0
		if totalMatches > 0 {
			adoptionRate = math.Round(float64(postedMatches)/float64(totalMatches)*100*100) / 100
		}

		ranks = append(ranks, modelRank{
			Rank:          i + 1,
			ID:            m.ID,
			Name:          m.Name,
			Provider:      m.Provider,
			Rating:        int(math.Round(m.Rating)),
			TotalMatches:  totalMatches,
			PostedMatches: postedMatches,
			AdoptionRate:  adoptionRate,
		})
	}

	result := gin.H{"models": ranks}
	cache.Set("leaderboard:models", result, leaderboardCacheTTL)
	c.JSON(http.StatusOK, result)
}

type userRank struct {
	Rank        int             `json:"rank"`
	UserID      uint            `json:"user_id"`
	Username    string          `json:"username"`
	Avatar      string          `json:"avatar"`
	TotalReward decimal.Decimal `json:"total_reward"`
	Campaigns   int64           `json:"campaigns"` // 获得过奖励的活动数
}

// Users 用户排行：按累计获得的奖金排序，取前 50
func (h *LeaderboardHandler) Users(c *gin.Context) {
	cache := utils.GetCache()
	if cached := cache.Get("leaderboard:users"); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	type rewardTotal struct {
		UserID      uint
		TotalReward decimal.Decimal
		Campaigns   int64
	}

	var totals []rewardTotal
	if err := db.DB.Model(&models.CampaignReward{}).
		Select("user_id, SUM(reward_amount) AS total_reward, COUNT(*) AS campaigns").
		Group("user_id").
		Order("total_reward DESC").
		Limit(50).
		Scan(&totals).Error; err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}

	ranks := make([]userRank, 0, len(totals))
	for i, t := range totals {
		var user models.User
		if err := db.DB.First(&user, t.UserID).Error; err != nil {
			continue
		}
		ranks = append(ranks, userRank{
			Rank:        i + 1,
			UserID:      user.ID,
			Username:    user.Username,
			Avatar:      user.Avatar,
			TotalReward: t.TotalReward,
			Campaigns:   t.Campaigns,
		})
	}

	result := gin.H{"users": ranks}
	cache.Set("leaderboard:users", result, leaderboardCacheTTL)
	c.JSON(http.StatusOK, result)
}
