package services

import (
	"log"
	"math"
	"sync"

	"arenalink/internal/db"
	"arenalink/internal/models"

	"gorm.io/gorm"
)

const eloK = 32 // 标准 K 因子

// RatingService 异步更新模型 Elo 等级分的服务
type RatingService struct {
	queue chan ratingUpdate
}

type ratingUpdate struct {
	matchID uint
	choice  string
}

var (
	ratingService *RatingService
	ratingOnce    sync.Once
)

// GetRatingService 获取单例评分服务
func GetRatingService() *RatingService {
	ratingOnce.Do(func() {
		ratingService = &RatingService{
			queue: make(chan ratingUpdate, 1000), // 缓冲队列，防止阻塞投票请求
		}
		// 启动后台 worker
		go ratingService.worker()
	})
	return ratingService
}

// ScheduleUpdate 把一次投票结果加入 Elo 更新队列（异步）
func (s *RatingService) ScheduleUpdate(matchID uint, choice string) {
	select {
	case s.queue <- ratingUpdate{matchID: matchID, choice: choice}:
	default:
		log.Printf("Elo 更新队列已满，跳过对战 %d", matchID)
	}
}

func (s *RatingService) worker() {
	for u := range s.queue {
		s.applyUpdate(u)
	}
}

func (s *RatingService) applyUpdate(u ratingUpdate) {
	var match models.Match
	if err := db.DB.First(&match, u.matchID).Error; err != nil {
		log.Printf("Elo 更新失败：对战 %d 不存在", u.matchID)
		return
	}

	// 投票结果换算成 A 方战绩
	var outcomeA float64
	switch u.choice {
	case models.ChoiceA:
		outcomeA = 1
	case models.ChoiceB:
		outcomeA = 0
	case models.ChoiceTie:
		outcomeA = 0.5
	default:
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var modelA, modelB models.AIModel
		if err := tx.First(&modelA, match.ModelAID).Error; err != nil {
			return err
		}
		if err := tx.First(&modelB, match.ModelBID).Error; err != nil {
			return err
		}

		newA, newB := UpdateElo(modelA.Rating, modelB.Rating, outcomeA)

		if err := tx.Model(&modelA).UpdateColumn("rating", newA).Error; err != nil {
			return err
		}
		return tx.Model(&modelB).UpdateColumn("rating", newB).Error
	})
	if err != nil {
		log.Printf("Elo 更新失败（对战 %d）: %v", u.matchID, err)
	}
}

// ExpectedScore A 方对 B 方的期望胜率
func ExpectedScore(ratingA, ratingB float64) float64 {
	return 1 / (1 + math.Pow(10, (ratingB-ratingA)/400))
}

// UpdateElo 根据 A 方战绩（1 胜 / 0.5 平 / 0 负）计算双方新等级分
func UpdateElo(ratingA, ratingB, outcomeA float64) (newA, newB float64) {
	expectedA := ExpectedScore(ratingA, ratingB)
	newA = ratingA + eloK*(outcomeA-expectedA)
	newB = ratingB + eloK*((1-outcomeA)-(1-expectedA))
	return newA, newB
}
