package handlers

import (
	"log"
	"net/http"
	"sync"

	"arenalink/internal/db"
	"arenalink/internal/middleware"
	"arenalink/internal/models"
	"arenalink/internal/services"
	"arenalink/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ArenaHandler struct {
	gateway *services.GatewayService
}

func NewArenaHandler() *ArenaHandler {
	return &ArenaHandler{
		gateway: services.GetGatewayService(),
	}
}

type createMatchRequest struct {
	Prompt     string `json:"prompt" binding:"required"`
	CampaignID *uint  `json:"campaign_id"`
}

// CreateMatch 创建一次对战：保存 prompt，抽两个模型生成回答，
// 再让裁判模型出一个参考判定
func (h *ArenaHandler) CreateMatch(c *gin.Context) {
	var req createMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid body")
		return
	}
	promptText := utils.SanitizeText(req.Prompt)
	if promptText == "" {
		RespondError(c, http.StatusBadRequest, "prompt is empty")
		return
	}

	// 指定了活动时，对战只能在活动的两个模型之间进行
	var modelA, modelB models.AIModel
	if req.CampaignID != nil {
		var campaign models.Campaign
		if err := db.DB.Preload("ModelA").Preload("ModelB").First(&campaign, *req.CampaignID).Error; err != nil {
			RespondError(c, http.StatusNotFound, "campaign not found")
			return
		}
		if campaign.Status != models.CampaignStatusActive {
			RespondError(c, http.StatusConflict, "campaign is not active")
			return
		}
		modelA, modelB = campaign.ModelA, campaign.ModelB
	} else {
		// 随机抽两个参赛模型
		var candidates []models.AIModel
		if err := db.DB.Order("RANDOM()").Limit(2).Find(&candidates).Error; err != nil || len(candidates) < 2 {
			RespondError(c, http.StatusInternalServerError, "not enough models registered")
			return
		}
		modelA, modelB = candidates[0], candidates[1]
	}

	// 保存 prompt（可能是匿名用户）
	prompt := models.Prompt{Text: promptText}
	if user := middleware.CurrentUser(c); user != nil {
		prompt.UserID = &user.ID
	}
	if err := db.DB.Create(&prompt).Error; err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to save prompt")
		return
	}

	// 并行请求两个模型
	var contentA, contentB string
	var errA, errB error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		contentA, errA = h.gateway.GenerateResponse(modelA.APIModelID, promptText)
	}()
	go func() {
		defer wg.Done()
		contentB, errB = h.gateway.GenerateResponse(modelB.APIModelID, promptText)
	}()
	wg.Wait()

	if errA != nil || errB != nil {
		log.Printf("模型生成失败: A=%v B=%v", errA, errB)
		RespondError(c, http.StatusBadGateway, "model generation failed")
		return
	}

	// 裁判判定，作为后续投票 ReferenceScore 的参考
	refereeChoice := h.gateway.JudgeMatch(promptText, contentA, contentB)

	match := models.Match{
		Mid:           uuid.NewString(),
		CampaignID:    req.CampaignID,
		PromptID:      prompt.ID,
		ModelAID:      modelA.ID,
		ModelBID:      modelB.ID,
		RefereeChoice: refereeChoice,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&match).Error; err != nil {
			return err
		}
		responses := []models.Response{
			{MatchID: match.ID, ModelID: modelA.ID, Position: models.ChoiceA, Content: contentA},
			{MatchID: match.ID, ModelID: modelB.ID, Position: models.ChoiceB, Content: contentB},
		}
		return tx.Create(&responses).Error
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to create match")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"match_id": match.Mid,
		"prompt":   promptText,
		// 模型身份在投票前保持匿名
		"response_a": gin.H{"content": contentA},
		"response_b": gin.H{"content": contentB},
	})
}

type voteRequest struct {
	MatchID string `json:"match_id" binding:"required"`
	Chosen  string `json:"chosen" binding:"required"`
}

// Vote 给对战投票。允许匿名，但只有实名票参与共识分和奖励
func (h *ArenaHandler) Vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid body")
		return
	}
	if !models.ValidChoice(req.Chosen) {
		RespondError(c, http.StatusBadRequest, "chosen must be A, B or TIE")
		return
	}

	var match models.Match
	if err := db.DB.Where("mid = ?", req.MatchID).First(&match).Error; err != nil {
		RespondError(c, http.StatusNotFound, "match not found")
		return
	}

	vote := models.Vote{
		MatchID:        match.ID,
		ChosenPosition: req.Chosen,
	}
	if user := middleware.CurrentUser(c); user != nil {
		vote.UserID = &user.ID
	}
	// 与裁判判定一致记 1 分参考分，否则为 0（无信号）
	if match.RefereeChoice != "" && req.Chosen == match.RefereeChoice {
		vote.ReferenceScore = 1
	}

	if err := db.DB.Create(&vote).Error; err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to record vote")
		return
	}

	// 异步更新两个模型的 Elo 等级分
	services.GetRatingService().ScheduleUpdate(match.ID, req.Chosen)

	resp := gin.H{"ok": true}

	// 实名投票时顺带返回投票者的一致性分（排除本票）
	if vote.UserID != nil {
		score, err := services.GetConsistencyService().CalculateConsistencyScore(*vote.UserID, &vote.ID)
		if err == nil {
			resp["consistency_score"] = score
		}
	}

	c.JSON(http.StatusOK, resp)
}

// GetMatch 查询对战详情（投票后可见模型身份）
func (h *ArenaHandler) GetMatch(c *gin.Context) {
	mid := c.Param("mid")

	var match models.Match
	if err := db.DB.Preload("Prompt").Preload("Responses").
		Preload("ModelA").Preload("ModelB").
		Where("mid = ?", mid).First(&match).Error; err != nil {
		RespondError(c, http.StatusNotFound, "match not found")
		return
	}

	var voteCount int64
	db.DB.Model(&models.Vote{}).Where("match_id = ?", match.ID).Count(&voteCount)

	c.JSON(http.StatusOK, gin.H{
		"match":      match,
		"vote_count": voteCount,
	})
}
