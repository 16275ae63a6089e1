package handlers

import (
	"github.com/gin-gonic/gin"
)

// RespondError 统一的 JSON 错误返回
func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}
