package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"arenalink/internal/db"
	"arenalink/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrCampaignNotFound  = errors.New("campaign not found")
	ErrCampaignNotActive = errors.New("campaign is not active")
)

// RewardBreakdown 单个用户的分配明细
type RewardBreakdown struct {
	UserID         uint            `json:"user_id"`
	ConsensusScore decimal.Decimal `json:"consensus_score"`
	TotalVotes     int             `json:"total_votes"`
	RewardAmount   decimal.Decimal `json:"reward_amount"`
	RewardRatio    string          `json:"reward_ratio"` // 百分比，如 "33.33%"
}

// CloseResult 活动结算结果
type CloseResult struct {
	CampaignID          uint              `json:"campaign_id"`
	Status              string            `json:"status"`
	PrizeAmount         decimal.Decimal   `json:"prize_amount"`
	PrizeCurrency       string            `json:"prize_currency"`
	Participants        int               `json:"participants"`
	TotalConsensusScore decimal.Decimal   `json:"total_consensus_score"`
	Rewards             []RewardBreakdown `json:"rewards"`
}

// DistributeRewards 按共识分比例把奖金池拆分给各用户。
// 金额按货币最小单位（两位小数）四舍五入，舍入产生的余差
// 记到共识分最高的用户头上（同分取 UserID 较小者），
// 保证明细之和恰好等于奖金池。
func DistributeRewards(prize decimal.Decimal, userScores map[uint]*UserCampaignScore) []RewardBreakdown {
	if len(userScores) == 0 {
		return nil
	}

	total := TotalConsensusScore(userScores)
	if total.IsZero() {
		return nil
	}

	// 固定顺序：分数降序，同分按 UserID 升序，保证结果可复现
	ordered := make([]*UserCampaignScore, 0, len(userScores))
	for _, s := range userScores {
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].ConsensusScore.Equal(ordered[j].ConsensusScore) {
			return ordered[i].ConsensusScore.GreaterThan(ordered[j].ConsensusScore)
		}
		return ordered[i].UserID < ordered[j].UserID
	})

	rewards := make([]RewardBreakdown, 0, len(ordered))
	distributed := decimal.Zero
	hundred := decimal.NewFromInt(100)

	for _, s := range ordered {
		ratio := s.ConsensusScore.Div(total)
		amount := prize.Mul(ratio).Round(2)
		distributed = distributed.Add(amount)

		rewards = append(rewards, RewardBreakdown{
			UserID:         s.UserID,
			ConsensusScore: s.ConsensusScore,
			TotalVotes:     s.TotalVotes,
			RewardAmount:   amount,
			RewardRatio:    ratio.Mul(hundred).StringFixed(2) + "%",
		})
	}

	// 余差（可能为正或负）给排第一的用户
	residual := prize.Sub(distributed)
	if !residual.IsZero() {
		rewards[0].RewardAmount = rewards[0].RewardAmount.Add(residual)
	}

	return rewards
}

// CloseCampaign 结算活动并分配奖金。
//
// 1. 读取活动及其全部对战和投票（一次快照）
// 2. 逐对战计票、打共识分，按用户聚合
// 3. 总分为 0 时只把状态置为 closed，不产生奖励记录
// 4. 否则在单个事务里写入全部 CampaignReward 并把状态置为 rewarded
//
// 状态前置条件（active）在事务内用条件 UPDATE 再次校验，
// 并发的两次结算只有一次能成功，另一次得到 ErrCampaignNotActive。
func CloseCampaign(campaignID uint) (*CloseResult, error) {
	var campaign models.Campaign
	if err := db.DB.Preload("Matches.Votes").First(&campaign, campaignID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("campaign %d: %w", campaignID, ErrCampaignNotFound)
		}
		return nil, fmt.Errorf("close campaign %d: load: %w", campaignID, err)
	}

	if campaign.Status != models.CampaignStatusActive {
		return nil, fmt.Errorf("campaign %d is not active (status: %s): %w",
			campaignID, campaign.Status, ErrCampaignNotActive)
	}

	log.Printf("开始结算活动 %d: %s (奖金池 %s %s)",
		campaign.ID, campaign.Title, campaign.PrizeAmount.String(), campaign.PrizeCurrency)

	userScores := AggregateCampaign(campaign.Matches)
	totalScore := TotalConsensusScore(userScores)
	now := time.Now()

	// 没有任何共识分：正常关闭，不发奖
	if totalScore.IsZero() {
		err := db.DB.Transaction(func(tx *gorm.DB) error {
			return casCampaignStatus(tx, campaignID, map[string]interface{}{
				"status":    models.CampaignStatusClosed,
				"closed_at": now,
			})
		})
		if err != nil {
			return nil, fmt.Errorf("close campaign %d: %w", campaignID, err)
		}

		log.Printf("活动 %d 无共识分，直接关闭", campaignID)
		return &CloseResult{
			CampaignID:          campaignID,
			Status:              models.CampaignStatusClosed,
			PrizeAmount:         campaign.PrizeAmount,
			PrizeCurrency:       campaign.PrizeCurrency,
			Participants:        0,
			TotalConsensusScore: decimal.Zero,
			Rewards:             nil,
		}, nil
	}

	rewards := DistributeRewards(campaign.PrizeAmount, userScores)

	// 冗余记录总票数，含未计分的票
	totalVotes := 0
	for _, m := range campaign.Matches {
		totalVotes += len(m.Votes)
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := casCampaignStatus(tx, campaignID, map[string]interface{}{
			"status":      models.CampaignStatusRewarded,
			"closed_at":   now,
			"total_votes": totalVotes,
		}); err != nil {
			return err
		}

		for _, r := range rewards {
			row := models.CampaignReward{
				CampaignID:     campaignID,
				UserID:         r.UserID,
				ConsensusScore: r.ConsensusScore,
				TotalVotes:     r.TotalVotes,
				RewardAmount:   r.RewardAmount,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("create reward for user %d: %w", r.UserID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("close campaign %d: %w", campaignID, err)
	}

	log.Printf("活动 %d 结算完成: %d 人分享奖金池", campaignID, len(rewards))
	return &CloseResult{
		CampaignID:          campaignID,
		Status:              models.CampaignStatusRewarded,
		PrizeAmount:         campaign.PrizeAmount,
		PrizeCurrency:       campaign.PrizeCurrency,
		Participants:        len(rewards),
		TotalConsensusScore: totalScore,
		Rewards:             rewards,
	}, nil
}

// casCampaignStatus 以 status=active 为条件更新活动，
// 没有命中行说明别的结算已经抢先，返回 ErrCampaignNotActive。
func casCampaignStatus(tx *gorm.DB, campaignID uint, updates map[string]interface{}) error {
	res := tx.Model(&models.Campaign{}).
		Where("id = ? AND status = ?", campaignID, models.CampaignStatusActive).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var current models.Campaign
		status := "unknown"
		if err := tx.Select("status").First(&current, campaignID).Error; err == nil {
			status = current.Status
		}
		return fmt.Errorf("campaign %d is not active (status: %s): %w",
			campaignID, status, ErrCampaignNotActive)
	}
	return nil
}
