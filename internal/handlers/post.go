package handlers

import (
	"net/http"

	"arenalink/internal/db"
	"arenalink/internal/middleware"
	"arenalink/internal/models"
	"arenalink/internal/utils"

	"github.com/gin-gonic/gin"
)

type PostHandler struct{}

func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

type createPostRequest struct {
	MatchID  string `json:"match_id" binding:"required"` // 对战的 Mid
	Title    string `json:"title" binding:"required"`
	Position string `json:"position"` // 分享哪个位置的回答，默认 A
}

// Create 把对战里满意的回答分享到展示板
func (h *PostHandler) Create(c *gin.Context) {
	currentUser := middleware.CurrentUser(c)

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid body")
		return
	}
	position := req.Position
	if position == "" {
		position = models.ChoiceA
	}
	if position != models.ChoiceA && position != models.ChoiceB {
		RespondError(c, http.StatusBadRequest, "position must be A or B")
		return
	}

	var match models.Match
	if err := db.DB.Where("mid = ?", req.MatchID).First(&match).Error; err != nil {
		RespondError(c, http.StatusNotFound, "match not found")
		return
	}

	post := models.Post{
		Pid:      utils.GenerateShortID(8),
		UserID:   currentUser.ID,
		MatchID:  match.ID,
		Title:    utils.SanitizeText(req.Title),
		Position: position,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to create post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// List 展示板列表
func (h *PostHandler) List(c *gin.Context) {
	limit := utils.StringToInt(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := utils.StringToInt(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	var posts []models.Post
	if err := db.DB.Preload("User").
		Preload("Match.Prompt").
		Preload("Match.ModelA").
		Preload("Match.ModelB").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error; err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list posts")
		return
	}

	fillLikeCounts(posts)
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// Detail 展示板详情，回答渲染为净化过的 HTML
func (h *PostHandler) Detail(c *gin.Context) {
	pid := c.Param("pid")

	var post models.Post
	if err := db.DB.Preload("User").
		Preload("Match.Prompt").
		Preload("Match.Responses").
		Preload("Match.ModelA").
		Preload("Match.ModelB").
		Where("pid = ?", pid).First(&post).Error; err != nil {
		RespondError(c, http.StatusNotFound, "post not found")
		return
	}

	// 找到被分享位置的回答并渲染 Markdown
	var renderedHTML string
	for _, r := range post.Match.Responses {
		if r.Position == post.Position {
			renderedHTML = utils.RenderMarkdown(r.Content)
			break
		}
	}

	var likeCount int64
	db.DB.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&likeCount)
	post.LikeCount = int(likeCount)

	c.JSON(http.StatusOK, gin.H{
		"post":          post,
		"rendered_html": renderedHTML,
	})
}

// Like 点赞（同一用户只记一次）
func (h *PostHandler) Like(c *gin.Context) {
	currentUser := middleware.CurrentUser(c)
	pid := c.Param("pid")

	var post models.Post
	if err := db.DB.Where("pid = ?", pid).First(&post).Error; err != nil {
		RespondError(c, http.StatusNotFound, "post not found")
		return
	}

	like := models.PostLike{PostID: post.ID, UserID: currentUser.ID}
	// 唯一索引保证重复点赞不会重复计数
	db.DB.Create(&like)

	var likeCount int64
	db.DB.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&likeCount)
	c.JSON(http.StatusOK, gin.H{"likes": likeCount})
}

// Delete 删除自己的帖子
func (h *PostHandler) Delete(c *gin.Context) {
	currentUser := middleware.CurrentUser(c)
	pid := c.Param("pid")

	var post models.Post
	if err := db.DB.Where("pid = ?", pid).First(&post).Error; err != nil {
		RespondError(c, http.StatusNotFound, "post not found")
		return
	}
	if post.UserID != currentUser.ID && currentUser.Role != "admin" {
		RespondError(c, http.StatusForbidden, "not your post")
		return
	}

	db.DB.Where("post_id = ?", post.ID).Delete(&models.PostLike{})
	db.DB.Delete(&post)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// fillLikeCounts 批量填充点赞数
func fillLikeCounts(posts []models.Post) {
	if len(posts) == 0 {
		return
	}
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	type likeCount struct {
		PostID uint
		Count  int
	}
	var counts []likeCount
	db.DB.Model(&models.PostLike{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&counts)

	countMap := make(map[uint]int, len(counts))
	for _, lc := range counts {
		countMap[lc.PostID] = lc.Count
	}
	for i := range posts {
		posts[i].LikeCount = countMap[posts[i].ID]
	}
}
