package services

import (
	"sort"

	"arenalink/internal/models"

	"github.com/shopspring/decimal"
)

// 共识打分常量
const (
	ConsensusMax         = 5 // 单票最高共识分
	MinVotesForConsensus = 3 // 低于该票数的对战不参与共识
)

// TallyResult 单个对战的计票结果
type TallyResult struct {
	CountA     int
	CountB     int
	CountTie   int
	TotalVotes int
	// 多数派选择，无严格多数时为空字符串
	MajorityChoice string
	// 多数派票数占比，无多数时为 0
	MajorityFraction decimal.Decimal
}

// HasMajority 是否存在严格多数
func (t TallyResult) HasMajority() bool {
	return t.MajorityChoice != ""
}

// TallyVotes 统计一个对战的所有投票并判定多数派。
// 规则：票数不足 MinVotesForConsensus 直接视为无多数；
// 最高票必须严格大于次高票，否则（平票）同样无多数。
func TallyVotes(votes []models.Vote) TallyResult {
	result := TallyResult{
		TotalVotes:       len(votes),
		MajorityFraction: decimal.Zero,
	}

	for _, v := range votes {
		switch v.ChosenPosition {
		case models.ChoiceA:
			result.CountA++
		case models.ChoiceB:
			result.CountB++
		case models.ChoiceTie:
			result.CountTie++
		}
	}

	if result.TotalVotes < MinVotesForConsensus {
		return result
	}

	entries := []struct {
		choice string
		count  int
	}{
		{models.ChoiceA, result.CountA},
		{models.ChoiceB, result.CountB},
		{models.ChoiceTie, result.CountTie},
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})

	top, second := entries[0], entries[1]
	if top.count > 0 && top.count > second.count {
		result.MajorityChoice = top.choice
		result.MajorityFraction = decimal.NewFromInt(int64(top.count)).
			Div(decimal.NewFromInt(int64(result.TotalVotes)))
	}

	return result
}

// VoteScore 单票的共识得分
type VoteScore struct {
	UserID uint
	Delta  decimal.Decimal
}

// ScoreVotes 根据计票结果给每张实名票打共识分。
// 与多数派一致的票得 ConsensusMax * MajorityFraction，否则得 0；
// 匿名票直接跳过（不产生任何记录）。无多数时返回空。
// 相同输入必须产生逐位相同的输出，不允许任何随机性。
func ScoreVotes(tally TallyResult, votes []models.Vote) []VoteScore {
	if !tally.HasMajority() {
		return nil
	}

	maxScore := decimal.NewFromInt(ConsensusMax)
	scores := make([]VoteScore, 0, len(votes))

	for _, v := range votes {
		if v.UserID == nil {
			continue
		}

		delta := decimal.Zero
		if v.ChosenPosition == tally.MajorityChoice {
			delta = maxScore.Mul(tally.MajorityFraction)
		}

		scores = append(scores, VoteScore{UserID: *v.UserID, Delta: delta})
	}

	return scores
}
