package engine

// DepositPenalty is the result of ComputeDepositPenalty: how much of a best
// offer's security deposit is forfeit to a late execution, and how much of
// that forfeiture is credited back to the redeemer as UserReward — the
// executor who stepped in for a silent winner is instead made whole by the
// algebraic residual of ExecuteOrder's custody distribution, per spec.md §4.5.
type DepositPenalty struct {
	Penalty    uint64
	UserReward uint64
}

// ComputeDepositPenalty implements the linear penalty/reward curve of
// spec.md §4.5: no penalty through the grace period following the auction's
// bidding window; then a penalty that starts at InitialPenaltyBps of the
// security deposit and climbs linearly to the full deposit over
// PenaltyPeriodSlots. A UserPenaltyRewardBps share of the forfeited penalty
// is earmarked for the redeemer, topping up their fast fill whenever
// execution lands after the grace period, whoever the executor is.
func ComputeDepositPenalty(params AuctionParameters, startSlot, currentSlot, securityDeposit uint64) (DepositPenalty, error) {
	graceEnd, ok := addU64(startSlot, params.DurationSlots)
	if !ok {
		return DepositPenalty{}, ErrU64Overflow
	}
	graceEnd, ok = addU64(graceEnd, params.GracePeriodSlots)
	if !ok {
		return DepositPenalty{}, ErrU64Overflow
	}
	if currentSlot <= graceEnd {
		return DepositPenalty{}, nil
	}

	elapsed := currentSlot - graceEnd
	if elapsed > params.PenaltyPeriodSlots || params.PenaltyPeriodSlots == 0 {
		reward, err := mulDivU64(securityDeposit, uint64(params.UserPenaltyRewardBps), BpsScale)
		if err != nil {
			return DepositPenalty{}, err
		}
		return DepositPenalty{Penalty: securityDeposit, UserReward: reward}, nil
	}

	initialPenalty, err := mulDivU64(securityDeposit, uint64(params.InitialPenaltyBps), BpsScale)
	if err != nil {
		return DepositPenalty{}, err
	}
	remaining := securityDeposit - initialPenalty
	ramp, err := mulDivU64(remaining, elapsed, params.PenaltyPeriodSlots)
	if err != nil {
		return DepositPenalty{}, err
	}
	penalty, ok := addU64(initialPenalty, ramp)
	if !ok {
		return DepositPenalty{}, ErrU64Overflow
	}
	if penalty > securityDeposit {
		penalty = securityDeposit
	}

	reward, err := mulDivU64(penalty, uint64(params.UserPenaltyRewardBps), BpsScale)
	if err != nil {
		return DepositPenalty{}, err
	}
	if reward > penalty {
		reward = penalty
	}
	return DepositPenalty{Penalty: penalty, UserReward: reward}, nil
}
