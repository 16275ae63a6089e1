package handlers

import (
	"net/http"

	"arenalink/internal/db"
	"arenalink/internal/models"
	"arenalink/internal/services"
	"arenalink/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Profile 用户主页：投票统计、奖励记录和一致性分
func (h *UserHandler) Profile(c *gin.Context) {
	userID := utils.StringToUint(c.Param("id"))

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		RespondError(c, http.StatusNotFound, "user not found")
		return
	}

	var voteCount, postCount int64
	db.DB.Model(&models.Vote{}).Where("user_id = ?", user.ID).Count(&voteCount)
	db.DB.Model(&models.Post{}).Where("user_id = ?", user.ID).Count(&postCount)

	// 奖励台账（按时间倒序）
	var rewards []models.CampaignReward
	db.DB.Preload("Campaign").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(50).
		Find(&rewards)

	// 一致性分失败不影响主页展示
	consistencyScore, _ := services.GetConsistencyService().CalculateConsistencyScore(user.ID, nil)

	c.JSON(http.StatusOK, gin.H{
		"user":              user,
		"vote_count":        voteCount,
		"post_count":        postCount,
		"rewards":           rewards,
		"consistency_score": consistencyScore,
	})
}
