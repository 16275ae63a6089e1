package services

import (
	"testing"

	"arenalink/internal/models"

	"github.com/shopspring/decimal"
)

func uintPtr(v uint) *uint {
	return &v
}

func makeVotes(choices []string, userIDs []*uint) []models.Vote {
	votes := make([]models.Vote, len(choices))
	for i, choice := range choices {
		votes[i] = models.Vote{
			ID:             uint(i + 1),
			MatchID:        1,
			UserID:         userIDs[i],
			ChosenPosition: choice,
		}
	}
	return votes
}

func TestTallyVotesMajority(t *testing.T) {
	votes := makeVotes(
		[]string{"A", "A", "A", "B"},
		[]*uint{uintPtr(1), uintPtr(2), uintPtr(3), uintPtr(4)},
	)

	tally := TallyVotes(votes)

	if tally.CountA != 3 || tally.CountB != 1 || tally.CountTie != 0 {
		t.Errorf("unexpected counts: A=%d B=%d TIE=%d", tally.CountA, tally.CountB, tally.CountTie)
	}
	if tally.MajorityChoice != models.ChoiceA {
		t.Errorf("expected majority A, got %q", tally.MajorityChoice)
	}
	expected := decimal.NewFromFloat(0.75)
	if !tally.MajorityFraction.Equal(expected) {
		t.Errorf("expected majority fraction 0.75, got %s", tally.MajorityFraction)
	}
}

func TestTallyVotesTieIsNoMajority(t *testing.T) {
	// A=2 B=2 平票，即便票数达标也没有多数派
	votes := makeVotes(
		[]string{"A", "A", "B", "B"},
		[]*uint{uintPtr(1), uintPtr(2), uintPtr(3), uintPtr(4)},
	)

	tally := TallyVotes(votes)

	if tally.HasMajority() {
		t.Errorf("expected no majority for 2-2 tie, got %q", tally.MajorityChoice)
	}
	if !tally.MajorityFraction.IsZero() {
		t.Errorf("expected zero fraction, got %s", tally.MajorityFraction)
	}
}

func TestTallyVotesBelowMinimum(t *testing.T) {
	// 两票全投 A 也不够 MinVotesForConsensus
	votes := makeVotes(
		[]string{"A", "A"},
		[]*uint{uintPtr(1), uintPtr(2)},
	)

	tally := TallyVotes(votes)

	if tally.HasMajority() {
		t.Errorf("expected no majority below minimum votes, got %q", tally.MajorityChoice)
	}
	if tally.CountA != 2 {
		t.Errorf("counts should still be recorded, got A=%d", tally.CountA)
	}
}

func TestTallyVotesEmpty(t *testing.T) {
	tally := TallyVotes(nil)
	if tally.HasMajority() || tally.TotalVotes != 0 {
		t.Errorf("empty vote set should tally as no majority")
	}
}

func TestScoreVotesMajorityAgreement(t *testing.T) {
	votes := makeVotes(
		[]string{"A", "A", "A", "B"},
		[]*uint{uintPtr(1), uintPtr(2), uintPtr(3), uintPtr(4)},
	)
	tally := TallyVotes(votes)

	scores := ScoreVotes(tally, votes)
	if len(scores) != 4 {
		t.Fatalf("expected 4 scored votes, got %d", len(scores))
	}

	// 与多数派一致：5 * 0.75 = 3.75
	expected := decimal.NewFromFloat(3.75)
	for _, s := range scores[:3] {
		if !s.Delta.Equal(expected) {
			t.Errorf("user %d: expected delta 3.75, got %s", s.UserID, s.Delta)
		}
	}
	// 少数派得 0
	if !scores[3].Delta.IsZero() {
		t.Errorf("minority voter should score 0, got %s", scores[3].Delta)
	}
}

func TestScoreVotesSkipsAnonymous(t *testing.T) {
	votes := makeVotes(
		[]string{"A", "A", "A"},
		[]*uint{uintPtr(1), nil, uintPtr(3)},
	)
	tally := TallyVotes(votes)

	scores := ScoreVotes(tally, votes)
	if len(scores) != 2 {
		t.Fatalf("anonymous vote must not produce a score record, got %d records", len(scores))
	}
	for _, s := range scores {
		if s.UserID == 0 {
			t.Errorf("unexpected zero user id in scores")
		}
	}
}

func TestScoreVotesNoMajorityReturnsNothing(t *testing.T) {
	votes := makeVotes(
		[]string{"A", "A", "B", "B"},
		[]*uint{uintPtr(1), uintPtr(2), uintPtr(3), uintPtr(4)},
	)
	tally := TallyVotes(votes)

	if scores := ScoreVotes(tally, votes); scores != nil {
		t.Errorf("expected no scores without majority, got %d", len(scores))
	}
}

func TestScoreVotesDeterministic(t *testing.T) {
	votes := makeVotes(
		[]string{"B", "A", "B", "TIE", "B"},
		[]*uint{uintPtr(5), uintPtr(6), uintPtr(7), uintPtr(8), uintPtr(9)},
	)
	tally := TallyVotes(votes)

	first := ScoreVotes(tally, votes)
	second := ScoreVotes(tally, votes)

	if len(first) != len(second) {
		t.Fatalf("score lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].UserID != second[i].UserID || !first[i].Delta.Equal(second[i].Delta) {
			t.Errorf("scoring is not deterministic at index %d", i)
		}
	}
}
