package game

import "math"

// Scoring constants. The two time bonus rates are intentionally distinct.
const (
	FinalTimeBonusRate        = 1.5
	DistributionTimeBonusRate = 2
	PlacementBonus            = 10
	BalancedBonus             = 500
	UnbalancedPenaltyRate     = 0.1
	varianceWeight            = 20
	maxBalanceScore           = 100
	balanceEpsilon            = 1e-9
)

// BalanceScore rates how evenly total tokens are spread over the sectors, from 0 to 100.
func BalanceScore(counts SectorCounts, total int) int {
	if total <= 0 {
		return 0
	}
	ideal := float64(total) / SectorCount
	var sum float64
	for _, c := range counts {
		d := float64(c) - ideal
		sum += d * d
	}
	variance := sum / SectorCount
	score := roundHalfUp(maxBalanceScore - variance*varianceWeight)
	if score < 0 {
		return 0
	}
	return int(score)
}

// IsBalanced reports whether every sector is within ideal*tolerance of the ideal split.
func IsBalanced(counts SectorCounts, total int, tolerance float64) bool {
	if total <= 0 {
		return false
	}
	ideal := float64(total) / SectorCount
	limit := ideal*tolerance + balanceEpsilon
	for _, c := range counts {
		if math.Abs(float64(c)-ideal) > limit {
			return false
		}
	}
	return true
}

// FinalScore computes the end-of-session tally. With nothing placed the base score is returned as is.
func FinalScore(base int, counts SectorCounts, total, remaining int) int {
	if total <= 0 {
		return base
	}
	balance := BalanceScore(counts, total)
	timeBonus := math.Max(0, float64(remaining)*FinalTimeBonusRate)
	placement := total * PlacementBonus
	return int(roundHalfUp(float64(base+balance+placement) + timeBonus))
}

// DistributionBonus is awarded by a successful mid-session distribution check.
func DistributionBonus(balance, remaining int) int {
	timeBonus := remaining * DistributionTimeBonusRate
	if timeBonus < 0 {
		timeBonus = 0
	}
	return BalancedBonus + timeBonus + balance
}

// UnbalancedPenalty is subtracted from the running score by a failed distribution check.
func UnbalancedPenalty(balance int) int {
	return int(math.Floor(float64(balance) * UnbalancedPenaltyRate))
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	return score
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
