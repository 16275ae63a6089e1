package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// 活动状态
const (
	CampaignStatusActive   = "active"
	CampaignStatusClosed   = "closed"   // 结算完成但无人得分
	CampaignStatusRewarded = "rewarded" // 奖金已分配
)

// Campaign 赞助商出资的对战活动，奖金池在结算时按共识分一次性分配
type Campaign struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	SponsorName string `gorm:"size:100;not null" json:"sponsor_name"`
	SponsorType string `gorm:"size:20;not null" json:"sponsor_type"` // company, foundation, individual

	PrizeAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"prize_amount"`
	PrizeCurrency string          `gorm:"size:10;default:'USD';not null" json:"prize_currency"`

	ModelAID uint    `gorm:"not null" json:"model_a_id"`
	ModelA   AIModel `gorm:"foreignKey:ModelAID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"model_a"`
	ModelBID uint    `gorm:"not null" json:"model_b_id"`
	ModelB   AIModel `gorm:"foreignKey:ModelBID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"model_b"`

	Status     string     `gorm:"size:20;default:'active';not null;index" json:"status"`
	EndDate    time.Time  `gorm:"not null" json:"end_date"`
	ClosedAt   *time.Time `json:"closed_at"`
	TotalVotes int        `gorm:"default:0" json:"total_votes"` // 结算时冗余记录的总票数

	Matches []Match          `json:"matches"`
	Rewards []CampaignReward `json:"rewards"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
