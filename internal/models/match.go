package models

import (
	"time"
)

// Match 一次对战：一个 Prompt 分发给 A/B 两个模型
type Match struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Mid        string    `gorm:"uniqueIndex;size:36;not null" json:"mid"` // 对外暴露的 UUID
	CampaignID *uint     `gorm:"index" json:"campaign_id"`                // 所属赞助活动（可选）
	PromptID   uint      `gorm:"not null;index" json:"prompt_id"`
	Prompt     Prompt    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"prompt"`
	ModelAID   uint      `gorm:"not null" json:"model_a_id"`
	ModelA     AIModel   `gorm:"foreignKey:ModelAID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"model_a"`
	ModelBID   uint      `gorm:"not null" json:"model_b_id"`
	ModelB     AIModel   `gorm:"foreignKey:ModelBID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"model_b"`
	// 裁判模型的选择（A/B/TIE），投票时用来打 ReferenceScore
	RefereeChoice string     `gorm:"size:3" json:"-"`
	Responses     []Response `json:"responses"`
	Votes         []Vote     `json:"votes"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Response 模型在某个 Match 中的回答
type Response struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MatchID   uint      `gorm:"not null;index" json:"match_id"`
	ModelID   uint      `gorm:"not null" json:"model_id"`
	Position  string    `gorm:"size:1;not null" json:"position"` // A or B
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
