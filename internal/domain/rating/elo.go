package rating

import "math"

// Expected returns the home side's expected score given both ratings and the
// home advantage in rating points.
func Expected(home, away, homeAdvantage float64) float64 {
	return 1 / (1 + math.Pow(10, (away-home-homeAdvantage)/400))
}

// Actual returns the observed scores: win 1, draw 0.5, loss 0.
func Actual(homeGoals, awayGoals int) (home, away float64) {
	switch {
	case homeGoals > awayGoals:
		return 1, 0
	case homeGoals < awayGoals:
		return 0, 1
	default:
		return 0.5, 0.5
	}
}

// MarginMultiplier amplifies swings for lopsided results: 1 + ln(|diff| + 1).
func MarginMultiplier(goalDiff int) float64 {
	if goalDiff < 0 {
		goalDiff = -goalDiff
	}
	return 1 + math.Log(float64(goalDiff)+1)
}

// Regress moves old toward target by fraction f.
func Regress(old, target, f float64) float64 {
	return old + f*(target-old)
}
