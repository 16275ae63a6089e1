package services

import (
	"arenalink/internal/models"

	"github.com/shopspring/decimal"
)

// UserCampaignScore 用户在整个活动中的累计共识分
type UserCampaignScore struct {
	UserID         uint
	ConsensusScore decimal.Decimal
	TotalVotes     int // 参与计分的票数
}

// AggregateCampaign 把活动下所有对战的共识分按用户累加。
// 空的对战列表返回空 map；没有多数派或票数不足的对战不贡献任何分数。
func AggregateCampaign(matches []models.Match) map[uint]*UserCampaignScore {
	userScores := make(map[uint]*UserCampaignScore)

	for _, match := range matches {
		tally := TallyVotes(match.Votes)
		if !tally.HasMajority() {
			continue
		}

		for _, score := range ScoreVotes(tally, match.Votes) {
			existing, ok := userScores[score.UserID]
			if !ok {
				existing = &UserCampaignScore{
					UserID:         score.UserID,
					ConsensusScore: decimal.Zero,
				}
				userScores[score.UserID] = existing
			}
			existing.ConsensusScore = existing.ConsensusScore.Add(score.Delta)
			existing.TotalVotes++
		}
	}

	return userScores
}

// TotalConsensusScore 全体用户共识分之和
func TotalConsensusScore(userScores map[uint]*UserCampaignScore) decimal.Decimal {
	total := decimal.Zero
	for _, s := range userScores {
		total = total.Add(s.ConsensusScore)
	}
	return total
}
