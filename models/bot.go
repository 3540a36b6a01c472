package models

import "math/rand"

// botThrow is one simulated turn, shaped like the input a human would send.
type botThrow struct {
	points      int
	finishDarts int
	misses      int // reported as doublesMissed on non-finishing turns
}

// generateBotThrow picks the bot's next turn. Skill centres the scoring
// distribution, checkoutChance decides whether a finish attempt lands.
func generateBotThrow(rng *rand.Rand, skill, current, checkoutChance int) botThrow {
	if current <= 40 {
		// Finish attempt probability grows with skill.
		if rng.Float64() < float64(skill)/150 {
			return resolveFinish(rng, current, checkoutChance)
		}
		// Setup throw: land somewhere in [0, current-2], never leaving 1.
		return botThrow{points: safeLowScore(rng, current), finishDarts: 3}
	}

	variance := 25 - skill/5
	if variance < 1 {
		variance = 1
	}
	points := skill + rng.Intn(2*variance+1) - variance
	if points > MaxTurnScore {
		points = MaxTurnScore
	}
	if points < 0 {
		points = 0
	}

	switch current - points {
	case 0:
		return resolveFinish(rng, current, checkoutChance)
	case 1:
		// Never leave a dead score; retreat to a safe remainder.
		points = current - 40
		if points < 0 {
			points = 0
		}
	}
	return botThrow{points: points, finishDarts: 3}
}

// resolveFinish rolls the checkout chance for a throw that would reach zero.
// On success the finish uses between the minimum and three darts; on failure
// the turn is revised into a bust or a safe leave with all three darts spent.
func resolveFinish(rng *rand.Rand, current, checkoutChance int) botThrow {
	if rng.Intn(100) < checkoutChance {
		minD := minDartsToFinish(current)
		return botThrow{points: current, finishDarts: minD + rng.Intn(3-minD+1)}
	}
	if rng.Intn(2) == 0 {
		// Overshot the double: leaves 1, scored as a bust.
		return botThrow{points: current - 1, finishDarts: 3}
	}
	return botThrow{points: safeLowScore(rng, current), finishDarts: 3, misses: 3}
}

// safeLowScore returns a value in [0, current-2].
func safeLowScore(rng *rand.Rand, current int) int {
	if current <= 2 {
		return 0
	}
	return rng.Intn(current - 1)
}
