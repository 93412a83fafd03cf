package engine

import "testing"

func TestComputeDepositPenaltyDuringGrace(t *testing.T) {
	params := AuctionParameters{DurationSlots: 2, GracePeriodSlots: 5, PenaltyPeriodSlots: 10, InitialPenaltyBps: 100_000, UserPenaltyRewardBps: 200_000}
	penalty, err := ComputeDepositPenalty(params, 0, 7, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if penalty.Penalty != 0 || penalty.UserReward != 0 {
		t.Fatalf("expected no penalty during grace period, got %+v", penalty)
	}
}

func TestComputeDepositPenaltyAtPenaltyStart(t *testing.T) {
	params := AuctionParameters{DurationSlots: 2, GracePeriodSlots: 5, PenaltyPeriodSlots: 10, InitialPenaltyBps: 100_000, UserPenaltyRewardBps: 200_000}
	penalty, err := ComputeDepositPenalty(params, 0, 8, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One slot past the grace end: 10% initial (100) plus 1/10 of the
	// remaining 900.
	if penalty.Penalty != 190 {
		t.Fatalf("penalty = %d, want 190 (10%% initial plus one slot of ramp)", penalty.Penalty)
	}
	if penalty.UserReward != 38 {
		t.Fatalf("reward = %d, want 38 (20%% of penalty)", penalty.UserReward)
	}
}

func TestComputeDepositPenaltyFullyForfeitAfterPeriod(t *testing.T) {
	params := AuctionParameters{DurationSlots: 2, GracePeriodSlots: 5, PenaltyPeriodSlots: 10, InitialPenaltyBps: 100_000, UserPenaltyRewardBps: 200_000}
	penalty, err := ComputeDepositPenalty(params, 0, 100, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if penalty.Penalty != 1000 {
		t.Fatalf("penalty = %d, want full deposit of 1000", penalty.Penalty)
	}
	if penalty.UserReward != 200 {
		t.Fatalf("reward = %d, want 200 (20%% of the forfeited deposit)", penalty.UserReward)
	}
}

func TestComputeDepositPenaltyRampsLinearly(t *testing.T) {
	params := AuctionParameters{DurationSlots: 0, GracePeriodSlots: 0, PenaltyPeriodSlots: 10, InitialPenaltyBps: 0, UserPenaltyRewardBps: 0}
	// Halfway through the penalty period, penalty should be roughly half the deposit.
	penalty, err := ComputeDepositPenalty(params, 0, 5, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if penalty.Penalty != 500 {
		t.Fatalf("penalty = %d, want 500 at the midpoint", penalty.Penalty)
	}
}
