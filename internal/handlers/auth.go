package handlers

import (
	"net/http"
	"strings"

	"arenalink/internal/db"
	"arenalink/internal/middleware"
	"arenalink/internal/models"
	"arenalink/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type registerRequest struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6"`
	WalletAddress string `json:"wallet_address"`
}

// Register 注册并自动登录
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid body")
		return
	}

	// Extract username from email
	parts := strings.Split(req.Email, "@")
	if len(parts) != 2 {
		RespondError(c, http.StatusBadRequest, "invalid email")
		return
	}
	username := parts[0]

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	user := models.User{
		Username:      username,
		Email:         req.Email,
		Password:      hash,
		WalletAddress: req.WalletAddress,
		Avatar:        utils.GetRandomEmoji(), // 随机 emoji 头像
	}
	if err := db.DB.Create(&user).Error; err != nil {
		RespondError(c, http.StatusConflict, "email already registered")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"user": user})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid body")
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		RespondError(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		RespondError(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me 返回当前登录用户
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		RespondError(c, http.StatusUnauthorized, "login required")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
