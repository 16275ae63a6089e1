package services

import (
	"testing"

	"arenalink/internal/models"

	"github.com/shopspring/decimal"
)

func TestDistributeRewardsSumInvariant(t *testing.T) {
	// 规格场景：一场对战 [A,A,A,B]，四个实名用户，奖金池 100
	matches := []models.Match{
		{ID: 1, Votes: makeVotes(
			[]string{"A", "A", "A", "B"},
			[]*uint{uintPtr(1), uintPtr(2), uintPtr(3), uintPtr(4)},
		)},
	}
	userScores := AggregateCampaign(matches)

	total := TotalConsensusScore(userScores)
	if !total.Equal(decimal.NewFromFloat(11.25)) {
		t.Fatalf("expected total consensus 11.25, got %s", total)
	}

	prize := decimal.NewFromInt(100)
	rewards := DistributeRewards(prize, userScores)
	if len(rewards) != 4 {
		t.Fatalf("expected 4 reward rows, got %d", len(rewards))
	}

	// 明细之和必须恰好等于奖金池
	sum := decimal.Zero
	for _, r := range rewards {
		sum = sum.Add(r.RewardAmount)
	}
	if !sum.Equal(prize) {
		t.Errorf("rewards sum %s != prize %s", sum, prize)
	}

	// 三个 A 投票者各拿约 33.33，余差 0.01 给排第一的（UserID 最小）
	if !rewards[0].RewardAmount.Equal(decimal.NewFromFloat(33.34)) {
		t.Errorf("top scorer should absorb the residual cent, got %s", rewards[0].RewardAmount)
	}
	if rewards[0].UserID != 1 {
		t.Errorf("residual must go to lowest user id among equal scores, got user %d", rewards[0].UserID)
	}
	for _, r := range rewards[1:3] {
		if !r.RewardAmount.Equal(decimal.NewFromFloat(33.33)) {
			t.Errorf("user %d: expected 33.33, got %s", r.UserID, r.RewardAmount)
		}
	}

	// 少数派得 0
	last := rewards[3]
	if last.UserID != 4 || !last.RewardAmount.IsZero() {
		t.Errorf("minority voter should receive 0, got user %d amount %s", last.UserID, last.RewardAmount)
	}
	if last.RewardRatio != "0.00%" {
		t.Errorf("expected ratio 0.00%%, got %s", last.RewardRatio)
	}
}

func TestDistributeRewardsRatioFormat(t *testing.T) {
	userScores := map[uint]*UserCampaignScore{
		1: {UserID: 1, ConsensusScore: decimal.NewFromInt(5), TotalVotes: 1},
		2: {UserID: 2, ConsensusScore: decimal.NewFromInt(5), TotalVotes: 1},
	}

	rewards := DistributeRewards(decimal.NewFromInt(10), userScores)
	if len(rewards) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rewards))
	}
	for _, r := range rewards {
		if r.RewardRatio != "50.00%" {
			t.Errorf("expected 50.00%%, got %s", r.RewardRatio)
		}
		if !r.RewardAmount.Equal(decimal.NewFromInt(5)) {
			t.Errorf("expected 5, got %s", r.RewardAmount)
		}
	}
}

func TestDistributeRewardsEmpty(t *testing.T) {
	if rewards := DistributeRewards(decimal.NewFromInt(100), nil); rewards != nil {
		t.Errorf("expected nil for empty score map")
	}

	// 全员 0 分（多数派由匿名票构成时可能发生）
	zeroScores := map[uint]*UserCampaignScore{
		1: {UserID: 1, ConsensusScore: decimal.Zero, TotalVotes: 1},
	}
	if rewards := DistributeRewards(decimal.NewFromInt(100), zeroScores); rewards != nil {
		t.Errorf("expected nil when total consensus is zero")
	}
}

func TestDistributeRewardsDeterministicOrder(t *testing.T) {
	userScores := map[uint]*UserCampaignScore{
		7: {UserID: 7, ConsensusScore: decimal.NewFromFloat(2.5), TotalVotes: 1},
		3: {UserID: 3, ConsensusScore: decimal.NewFromFloat(5), TotalVotes: 1},
		5: {UserID: 5, ConsensusScore: decimal.NewFromFloat(2.5), TotalVotes: 1},
	}

	rewards := DistributeRewards(decimal.NewFromInt(100), userScores)
	wantOrder := []uint{3, 5, 7} // 分数降序，同分按 UserID 升序
	for i, want := range wantOrder {
		if rewards[i].UserID != want {
			t.Errorf("position %d: expected user %d, got %d", i, want, rewards[i].UserID)
		}
	}

	sum := decimal.Zero
	for _, r := range rewards {
		sum = sum.Add(r.RewardAmount)
	}
	if !sum.Equal(decimal.NewFromInt(100)) {
		t.Errorf("rewards sum %s != 100", sum)
	}
}
