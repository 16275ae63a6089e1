package services

import (
	"testing"

	"arenalink/internal/models"

	"github.com/shopspring/decimal"
)

func TestAggregateCampaignEmpty(t *testing.T) {
	if scores := AggregateCampaign(nil); len(scores) != 0 {
		t.Errorf("empty match list should aggregate to empty map, got %d entries", len(scores))
	}
}

func TestAggregateCampaignSkipsEmptyMatches(t *testing.T) {
	matches := []models.Match{
		{ID: 1}, // 没有任何投票
		{ID: 2, Votes: makeVotes(
			[]string{"A", "A", "A"},
			[]*uint{uintPtr(1), uintPtr(2), uintPtr(3)},
		)},
	}

	scores := AggregateCampaign(matches)
	if len(scores) != 3 {
		t.Fatalf("expected 3 users, got %d", len(scores))
	}
}

func TestAggregateCampaignAccumulatesAcrossMatches(t *testing.T) {
	// 用户 1 在两个对战里都投了多数派
	matches := []models.Match{
		{ID: 1, Votes: makeVotes(
			[]string{"A", "A", "A", "B"},
			[]*uint{uintPtr(1), uintPtr(2), uintPtr(3), uintPtr(4)},
		)},
		{ID: 2, Votes: makeVotes(
			[]string{"B", "B", "B"},
			[]*uint{uintPtr(1), uintPtr(2), uintPtr(5)},
		)},
	}

	scores := AggregateCampaign(matches)

	// 第一场 5*0.75=3.75，第二场 5*1=5
	expected := decimal.NewFromFloat(8.75)
	user1 := scores[1]
	if user1 == nil {
		t.Fatal("user 1 missing from aggregate")
	}
	if !user1.ConsensusScore.Equal(expected) {
		t.Errorf("user 1: expected score 8.75, got %s", user1.ConsensusScore)
	}
	if user1.TotalVotes != 2 {
		t.Errorf("user 1: expected 2 scoring votes, got %d", user1.TotalVotes)
	}

	// 用户 4 投了少数派：计票但得 0 分
	user4 := scores[4]
	if user4 == nil {
		t.Fatal("user 4 missing from aggregate")
	}
	if !user4.ConsensusScore.IsZero() || user4.TotalVotes != 1 {
		t.Errorf("user 4: expected zero score with 1 vote, got %s / %d",
			user4.ConsensusScore, user4.TotalVotes)
	}
}

func TestAggregateCampaignNoMajorityContributesNothing(t *testing.T) {
	matches := []models.Match{
		{ID: 1, Votes: makeVotes(
			[]string{"A", "A", "B", "B"},
			[]*uint{uintPtr(1), uintPtr(2), uintPtr(3), uintPtr(4)},
		)},
	}

	if scores := AggregateCampaign(matches); len(scores) != 0 {
		t.Errorf("match without majority must contribute nothing, got %d users", len(scores))
	}
}

func TestAggregateCampaignExcludesAnonymous(t *testing.T) {
	matches := []models.Match{
		{ID: 1, Votes: makeVotes(
			[]string{"A", "A", "A", "A"},
			[]*uint{uintPtr(1), nil, nil, uintPtr(2)},
		)},
	}

	scores := AggregateCampaign(matches)
	if len(scores) != 2 {
		t.Fatalf("anonymous votes must never appear in the aggregate, got %d users", len(scores))
	}
	if _, ok := scores[0]; ok {
		t.Error("zero user id leaked into aggregate")
	}
}

func TestTotalConsensusScore(t *testing.T) {
	scores := map[uint]*UserCampaignScore{
		1: {UserID: 1, ConsensusScore: decimal.NewFromFloat(3.75)},
		2: {UserID: 2, ConsensusScore: decimal.NewFromFloat(5)},
		3: {UserID: 3, ConsensusScore: decimal.Zero},
	}

	total := TotalConsensusScore(scores)
	if !total.Equal(decimal.NewFromFloat(8.75)) {
		t.Errorf("expected total 8.75, got %s", total)
	}
}
