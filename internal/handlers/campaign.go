package handlers

import (
	"errors"
	"net/http"
	"time"

	"arenalink/internal/db"
	"arenalink/internal/models"
	"arenalink/internal/services"
	"arenalink/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CampaignHandler struct{}

func NewCampaignHandler() *CampaignHandler {
	return &CampaignHandler{}
}

type createCampaignRequest struct {
	Title         string          `json:"title" binding:"required"`
	Description   string          `json:"description"`
	SponsorName   string          `json:"sponsor_name" binding:"required"`
	SponsorType   string          `json:"sponsor_type" binding:"required,oneof=company foundation individual"`
	PrizeAmount   decimal.Decimal `json:"prize_amount" binding:"required"`
	PrizeCurrency string          `json:"prize_currency"`
	ModelAID      uint            `json:"model_a_id" binding:"required"`
	ModelBID      uint            `json:"model_b_id" binding:"required"`
	EndDate       time.Time       `json:"end_date" binding:"required"`
}

// Create 创建赞助活动（仅管理员）
func (h *CampaignHandler) Create(c *gin.Context) {
	var req createCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid body")
		return
	}
	if !req.PrizeAmount.IsPositive() {
		RespondError(c, http.StatusBadRequest, "prize_amount must be positive")
		return
	}
	if req.ModelAID == req.ModelBID {
		RespondError(c, http.StatusBadRequest, "campaign needs two different models")
		return
	}

	// 校验两个模型都已注册
	var count int64
	db.DB.Model(&models.AIModel{}).Where("id IN ?", []uint{req.ModelAID, req.ModelBID}).Count(&count)
	if count != 2 {
		RespondError(c, http.StatusBadRequest, "model not registered")
		return
	}

	currency := req.PrizeCurrency
	if currency == "" {
		currency = "USD"
	}

	campaign := models.Campaign{
		Title:         utils.SanitizeText(req.Title),
		Description:   utils.SanitizeText(req.Description),
		SponsorName:   req.SponsorName,
		SponsorType:   req.SponsorType,
		PrizeAmount:   req.PrizeAmount,
		PrizeCurrency: currency,
		ModelAID:      req.ModelAID,
		ModelBID:      req.ModelBID,
		EndDate:       req.EndDate,
		Status:        models.CampaignStatusActive,
	}

	if err := db.DB.Create(&campaign).Error; err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to create campaign")
		return
	}

	db.DB.Preload("ModelA").Preload("ModelB").First(&campaign, campaign.ID)
	c.JSON(http.StatusOK, gin.H{"campaign": campaign})
}

// List 活动列表，支持 status 过滤
func (h *CampaignHandler) List(c *gin.Context) {
	query := db.DB.Preload("ModelA").Preload("ModelB").Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var campaigns []models.Campaign
	if err := query.Find(&campaigns).Error; err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list campaigns")
		return
	}

	type campaignWithCounts struct {
		models.Campaign
		MatchCount  int64 `json:"match_count"`
		RewardCount int64 `json:"reward_count"`
	}

	result := make([]campaignWithCounts, 0, len(campaigns))
	for _, campaign := range campaigns {
		var matchCount, rewardCount int64
		db.DB.Model(&models.Match{}).Where("campaign_id = ?", campaign.ID).Count(&matchCount)
		db.DB.Model(&models.CampaignReward{}).Where("campaign_id = ?", campaign.ID).Count(&rewardCount)
		result = append(result, campaignWithCounts{
			Campaign:    campaign,
			MatchCount:  matchCount,
			RewardCount: rewardCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"campaigns": result, "total": len(result)})
}

// Detail 活动详情：对战列表、票数和奖励台账
func (h *CampaignHandler) Detail(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	var campaign models.Campaign
	if err := db.DB.Preload("ModelA").Preload("ModelB").
		Preload("Matches.Prompt").
		Preload("Rewards", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("reward_amount DESC")
		}).
		Preload("Rewards.User").
		First(&campaign, id).Error; err != nil {
		RespondError(c, http.StatusNotFound, "campaign not found")
		return
	}

	// 每个对战的票数
	voteCounts := make(map[uint]int64, len(campaign.Matches))
	for _, m := range campaign.Matches {
		var count int64
		db.DB.Model(&models.Vote{}).Where("match_id = ?", m.ID).Count(&count)
		voteCounts[m.ID] = count
	}

	c.JSON(http.StatusOK, gin.H{
		"campaign":    campaign,
		"vote_counts": voteCounts,
	})
}

// Close 结算活动并分配奖金（仅管理员）
func (h *CampaignHandler) Close(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	result, err := services.CloseCampaign(id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCampaignNotFound):
			RespondError(c, http.StatusNotFound, "campaign not found")
		case errors.Is(err, services.ErrCampaignNotActive):
			// 重复结算对调用方不是灾难，带上原因让它自行判断
			RespondError(c, http.StatusConflict, err.Error())
		default:
			RespondError(c, http.StatusInternalServerError, "failed to close campaign")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}
