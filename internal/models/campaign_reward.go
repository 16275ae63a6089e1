package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CampaignReward 奖励台账，每个 (campaign, user) 只在结算事务里写入一次，之后不可变
type CampaignReward struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	CampaignID uint     `gorm:"not null;index;uniqueIndex:idx_campaign_user" json:"campaign_id"`
	Campaign   Campaign `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID     uint     `gorm:"not null;index;uniqueIndex:idx_campaign_user" json:"user_id"`
	User       User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	ConsensusScore decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"consensus_score"`
	TotalVotes     int             `gorm:"not null" json:"total_votes"` // 该用户在本活动中的得分票数
	RewardAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"reward_amount"`

	CreatedAt time.Time `json:"created_at"`
}
