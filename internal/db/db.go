package db

import (
	"log"
	"os"

	"arenalink/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=arenalink port=5432 sslmode=disable TimeZone=Asia/Seoul"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	// Auto Migrate
	err = DB.AutoMigrate(
		&models.User{},
		&models.AIModel{},
		&models.Prompt{},
		&models.Match{},
		&models.Response{},
		&models.Vote{},
		&models.Campaign{},
		&models.CampaignReward{},
		&models.Post{},
		&models.PostLike{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	// Seed competing models
	seedModels()
}

func seedModels() {
	// 检查是否已有模型数据
	var count int64
	DB.Model(&models.AIModel{}).Count(&count)
	if count > 0 {
		log.Println("Models already seeded, skipping")
		return
	}

	// 创建预设参赛模型
	seeds := []models.AIModel{
		{Name: "GPT-4o", Provider: "openai", APIModelID: "gpt-4o"},
		{Name: "Claude Sonnet", Provider: "anthropic", APIModelID: "claude-sonnet"},
		{Name: "Gemini Pro", Provider: "google", APIModelID: "gemini-pro"},
		{Name: "Llama 3", Provider: "meta", APIModelID: "llama-3-70b"},
	}

	for _, m := range seeds {
		if err := DB.Create(&m).Error; err != nil {
			log.Printf("Failed to create model %s: %v", m.Name, err)
		}
	}
	log.Println("Initial models created successfully")
}
