package models

import (
	"time"
)

// 投票选项
const (
	ChoiceA   = "A"
	ChoiceB   = "B"
	ChoiceTie = "TIE"
)

type Vote struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	MatchID uint  `gorm:"not null;index" json:"match_id"`
	UserID  *uint `gorm:"index" json:"user_id"` // 匿名投票为空，不参与奖励
	// A / B / TIE
	ChosenPosition string `gorm:"size:3;not null" json:"chosen_position"`
	// 与裁判模型的一致度，0 表示无信号或不一致
	ReferenceScore float64   `gorm:"default:0" json:"reference_score"`
	CreatedAt      time.Time `json:"created_at"`
}

// ValidChoice 校验投票选项
func ValidChoice(c string) bool {
	return c == ChoiceA || c == ChoiceB || c == ChoiceTie
}
