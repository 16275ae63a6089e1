package handlers

import (
	"net/http"

	"arenalink/internal/services"
	"arenalink/internal/utils"

	"github.com/gin-gonic/gin"
)

type ScoringHandler struct {
	consistency *services.ConsistencyService
}

func NewScoringHandler() *ScoringHandler {
	return &ScoringHandler{
		consistency: services.GetConsistencyService(),
	}
}

// Consistency 基础一致性分。票数不足返回 0，不报错
func (h *ScoringHandler) Consistency(c *gin.Context) {
	userID := utils.StringToUint(c.Param("id"))

	var excludeVoteID *uint
	if v := c.Query("exclude_vote_id"); v != "" {
		id := utils.StringToUint(v)
		excludeVoteID = &id
	}

	score, err := h.consistency.CalculateConsistencyScore(userID, excludeVoteID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to calculate consistency score")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":           userID,
		"consistency_score": score,
	})
}

// AdvancedConsistency 高级一致性评估，带偏向/速度异常标记
func (h *ScoringHandler) AdvancedConsistency(c *gin.Context) {
	userID := utils.StringToUint(c.Param("id"))

	result, err := h.consistency.CalculateAdvancedConsistencyScore(userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to calculate consistency score")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"result":  result,
	})
}
