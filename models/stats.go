package models

// recordScore accrues one committed turn into a player's running counters.
// Checkouts and turns with missed doubles are excluded from the pure-scoring
// pool so ScoringAvg reflects throws aimed at the big numbers.
func recordScore(p *Player, points, darts int, isCheckout bool, missed int) {
	p.TotalScore += points
	p.DartsThrown += darts

	if !isCheckout && missed == 0 {
		p.Stats.ScoringSum += points
		p.Stats.ScoringDarts += darts
	}

	switch {
	case points == 180:
		p.Stats.Score180++
	case points >= 140:
		p.Stats.Score140++
	case points >= 120:
		p.Stats.Score120++
	case points >= 100:
		p.Stats.Score100++
	case points >= 80:
		p.Stats.Score80++
	case points >= 60:
		p.Stats.Score60++
	case points >= 40:
		p.Stats.Score40++
	case points >= 20:
		p.Stats.Score20++
	default:
		p.Stats.Score0++
	}
}

// recalcAverages recomputes every derived figure from the raw sums. Nothing
// is patched incrementally, so undo and bust paths cannot introduce drift.
func recalcAverages(p *Player) {
	p.Avg = 0
	if p.DartsThrown > 0 {
		p.Avg = float64(p.TotalScore) / float64(p.DartsThrown) * 3
	}

	p.First9Avg = 0
	if p.Stats.First9Darts > 0 {
		p.First9Avg = float64(p.Stats.First9Sum) / float64(p.Stats.First9Darts) * 3
	}

	if p.Stats.ScoringDarts > 0 {
		p.ScoringAvg = float64(p.Stats.ScoringSum) / float64(p.Stats.ScoringDarts) * 3
	} else {
		p.ScoringAvg = p.Avg
	}

	p.CheckoutPercent = 0
	if p.Stats.DoublesThrown > 0 {
		p.CheckoutPercent = float64(p.Stats.DoublesHit) / float64(p.Stats.DoublesThrown) * 100
	}
}

// minDartsToFinish returns the fewest darts a finish from score can take.
func minDartsToFinish(score int) int {
	if score > 170 {
		return 3
	}
	if score > 110 || threeDartFinishes[score] {
		return 3
	}
	if score == 50 || (score <= 40 && score%2 == 0) {
		return 1
	}
	return 2
}

// isBogey reports whether score has no three-dart finish.
func isBogey(score int) bool {
	return bogeyNumbers[score]
}

// isDoubleSegment reports whether a dart-segment label counts as a valid
// checkout dart (any double, or the bullseye).
func isDoubleSegment(label string) bool {
	if label == "BULL" {
		return true
	}
	return len(label) > 1 && label[0] == 'D'
}
