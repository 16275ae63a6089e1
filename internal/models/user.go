package models

import (
	"time"
)

type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Username      string    `gorm:"not null" json:"username"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	Password      string    `gorm:"not null" json:"-"` // Hash
	WalletAddress string    `gorm:"index" json:"wallet_address"`                 // 链上领奖地址（可选）
	Avatar        string    `gorm:"default:🤖" json:"avatar"`                     // emoji 头像
	Role          string    `gorm:"size:20;default:'user';not null" json:"role"` // user, admin
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	// No DeletedAt for hard delete
}
