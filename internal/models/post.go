package models

import (
	"time"
)

// Post 用户把满意的对战回答分享到社区展示板
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Pid       string    `gorm:"uniqueIndex;size:8;not null" json:"pid"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	MatchID   uint      `gorm:"not null;index" json:"match_id"`
	Match     Match     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"match"`
	Title     string    `gorm:"not null" json:"title"`
	Position  string    `gorm:"size:1;default:'A'" json:"position"` // 分享的是哪个位置的回答
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 非数据库字段，用于查询时填充
	LikeCount int `gorm:"-" json:"like_count"`
}

type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index;uniqueIndex:idx_post_user_like" json:"post_id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_post_user_like" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
