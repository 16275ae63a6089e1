package services

import (
	"fmt"
	"os"
	"strconv"

	"arenalink/internal/db"
	"arenalink/internal/models"
)

// 一致性评分窗口
const (
	ConsistencyWindow   = 10 // 基础评分取最近 N 票
	AdvancedWindow      = 20 // 高级评分取最近 N 票
	minVotesForBasic    = 3
	minVotesForAdvanced = 5
)

// 一致性分档
const (
	ConsistencyHighScore   = 2
	ConsistencyMediumScore = 1
	ConsistencyLowScore    = 0
)

// 异常标记
const (
	FlagInsufficientData = "insufficient_data"
	FlagHighBias         = "high_bias"
	FlagTooFast          = "too_fast"
)

// ConsistencyConfig 阈值配置，都是启发式常量，允许用环境变量覆盖
type ConsistencyConfig struct {
	HighThreshold    float64 // 一致率达到该值记高分
	MediumThreshold  float64 // 一致率达到该值记中分
	BiasThreshold    float64 // 单一选项占比超过该值视为刷票
	MinAvgGapSeconds float64 // 平均投票间隔低于该值视为机器人
}

// AdvancedConsistency 高级一致性评估结果
type AdvancedConsistency struct {
	ConsistencyScore int      `json:"consistency_score"`
	Bias             float64  `json:"bias"`
	AvgResponseTime  float64  `json:"avg_response_time"` // 秒
	Flags            []string `json:"flags"`
}

type ConsistencyService struct {
	cfg ConsistencyConfig
}

var consistencyService *ConsistencyService

// GetConsistencyService 获取单例一致性评分服务
func GetConsistencyService() *ConsistencyService {
	if consistencyService == nil {
		consistencyService = &ConsistencyService{cfg: loadConsistencyConfig()}
	}
	return consistencyService
}

func loadConsistencyConfig() ConsistencyConfig {
	return ConsistencyConfig{
		HighThreshold:    envFloat("CONSISTENCY_HIGH_THRESHOLD", 0.7),
		MediumThreshold:  envFloat("CONSISTENCY_MEDIUM_THRESHOLD", 0.5),
		BiasThreshold:    envFloat("CONSISTENCY_BIAS_THRESHOLD", 0.9),
		MinAvgGapSeconds: envFloat("CONSISTENCY_MIN_GAP_SECONDS", 5),
	}
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// CalculateConsistencyScore 基础一致性评分。
// 读取用户最近 ConsistencyWindow 票（可排除当前这票），
// 统计与裁判模型一致（ReferenceScore > 0）的比例并分档。
// 票数不足不是错误，返回中性分 0。
func (s *ConsistencyService) CalculateConsistencyScore(userID uint, currentVoteID *uint) (int, error) {
	query := db.DB.Where("user_id = ?", userID)
	if currentVoteID != nil {
		query = query.Where("id != ?", *currentVoteID)
	}

	var recentVotes []models.Vote
	if err := query.Order("created_at DESC").Limit(ConsistencyWindow).Find(&recentVotes).Error; err != nil {
		return 0, fmt.Errorf("load recent votes for user %d: %w", userID, err)
	}

	return s.ScoreWindow(recentVotes), nil
}

// ScoreWindow 对一个投票窗口打基础一致性分（纯函数，方便单测）
func (s *ConsistencyService) ScoreWindow(recentVotes []models.Vote) int {
	if len(recentVotes) < minVotesForBasic {
		return ConsistencyLowScore
	}

	qualifying := 0
	for _, v := range recentVotes {
		if v.ReferenceScore > 0 {
			qualifying++
		}
	}
	if qualifying == 0 {
		return ConsistencyLowScore
	}

	matchRate := float64(qualifying) / float64(len(recentVotes))
	switch {
	case matchRate >= s.cfg.HighThreshold:
		return ConsistencyHighScore
	case matchRate >= s.cfg.MediumThreshold:
		return ConsistencyMediumScore
	default:
		return ConsistencyLowScore
	}
}

// CalculateAdvancedConsistencyScore 高级一致性评估：
// 基础分之外再做选项偏向检查和投票速度检查，给出异常标记。
// 数据不足同样不报错，返回带 insufficient_data 标记的中性结果。
func (s *ConsistencyService) CalculateAdvancedConsistencyScore(userID uint) (*AdvancedConsistency, error) {
	var recentVotes []models.Vote
	if err := db.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(AdvancedWindow).
		Find(&recentVotes).Error; err != nil {
		return nil, fmt.Errorf("load recent votes for user %d: %w", userID, err)
	}

	result := s.AdvancedScoreWindow(recentVotes)
	return &result, nil
}

// AdvancedScoreWindow 对一个投票窗口做高级评估（纯函数）。
// 窗口须按时间倒序（最新在前）。
func (s *ConsistencyService) AdvancedScoreWindow(recentVotes []models.Vote) AdvancedConsistency {
	if len(recentVotes) < minVotesForAdvanced {
		return AdvancedConsistency{Flags: []string{FlagInsufficientData}}
	}

	flags := []string{}
	score := 0

	// 1. 裁判一致率
	qualifying := 0
	for _, v := range recentVotes {
		if v.ReferenceScore > 0 {
			qualifying++
		}
	}
	matchRate := float64(qualifying) / float64(len(recentVotes))
	if matchRate >= s.cfg.HighThreshold {
		score += ConsistencyHighScore
	} else if matchRate >= s.cfg.MediumThreshold {
		score += ConsistencyMediumScore
	}

	// 2. 选项偏向：几乎只投一个选项的大概率是机器人
	var countA, countB, countTie int
	for _, v := range recentVotes {
		switch v.ChosenPosition {
		case models.ChoiceA:
			countA++
		case models.ChoiceB:
			countB++
		case models.ChoiceTie:
			countTie++
		}
	}
	maxChoice := countA
	if countB > maxChoice {
		maxChoice = countB
	}
	if countTie > maxChoice {
		maxChoice = countTie
	}
	bias := float64(maxChoice) / float64(len(recentVotes))
	if bias > s.cfg.BiasThreshold {
		score -= 2
		flags = append(flags, FlagHighBias)
	}

	// 3. 投票间隔：平均间隔过短同样可疑
	var totalGap float64
	for i := 1; i < len(recentVotes); i++ {
		gap := recentVotes[i-1].CreatedAt.Sub(recentVotes[i].CreatedAt).Seconds()
		totalGap += gap
	}
	avgResponseTime := totalGap / float64(len(recentVotes)-1)
	if avgResponseTime < s.cfg.MinAvgGapSeconds {
		score--
		flags = append(flags, FlagTooFast)
	}

	// 分数不为负
	if score < 0 {
		score = 0
	}

	return AdvancedConsistency{
		ConsistencyScore: score,
		Bias:             bias,
		AvgResponseTime:  avgResponseTime,
		Flags:            flags,
	}
}
