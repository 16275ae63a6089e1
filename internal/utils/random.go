package utils

import (
	"math/rand"
)

const shortIDChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateShortID 生成帖子对外使用的短 ID
func GenerateShortID(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = shortIDChars[rand.Intn(len(shortIDChars))]
	}
	return string(b)
}

// GetRandomEmoji 返回一个随机 emoji 用于默认头像
func GetRandomEmoji() string {
	emojis := []string{"🤖", "🦾", "🧠", "⚡", "🛰️", "🔮", "🦊", "🐼", "🐸", "🦉", "🚀", "🎯"}
	return emojis[rand.Intn(len(emojis))]
}
