package models

import (
	"time"
)

// AIModel 参赛的大模型，Rating 为 Elo 等级分
type AIModel struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Provider   string    `gorm:"size:50;not null" json:"provider"`
	APIModelID string    `gorm:"size:100;not null" json:"api_model_id"` // 网关调用用的模型标识
	Rating     float64   `gorm:"default:1500" json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
}
