package models

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func twoPlayerRecord(id string, date time.Time, userID string, userSeat, winnerSeat int) MatchRecord {
	players := make([]RecordedPlayer, 2)
	for seat := 0; seat < 2; seat++ {
		players[seat] = RecordedPlayer{Seat: seat, Name: fmt.Sprintf("p%d", seat), Stats: MatchStats{Heatmap: map[string]int{}}}
	}
	players[userSeat].UserID = userID
	rec := MatchRecord{
		ID:         id,
		Date:       date,
		WinnerSeat: winnerSeat,
		ScoreStr:   "2:0",
		Players:    players,
	}
	if players[winnerSeat].UserID != "" {
		rec.WinnerUserID = userID
	}
	return rec
}

func TestQueryUserWeekWindowInclusiveBoundary(t *testing.T) {
	now := time.Date(2026, 8, 31, 15, 30, 0, 0, time.UTC)
	boundary := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC) // start of day, 7 days back

	records := []MatchRecord{
		twoPlayerRecord("on-boundary", boundary, "u1", 0, 0),
		twoPlayerRecord("just-before", boundary.Add(-time.Second), "u1", 0, 0),
		twoPlayerRecord("recent", now.Add(-time.Hour), "u1", 0, 0),
	}

	res, err := QueryUser(records, "u1", FilterWeek, now)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if res.Aggregate.Matches != 2 {
		t.Errorf("expected 2 matches inside the week window, got %d", res.Aggregate.Matches)
	}
}

func TestQueryUserTodayWindow(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	records := []MatchRecord{
		twoPlayerRecord("midnight", time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), "u1", 0, 0),
		twoPlayerRecord("yesterday", time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC), "u1", 0, 0),
	}

	res, err := QueryUser(records, "u1", FilterToday, now)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if res.Aggregate.Matches != 1 {
		t.Errorf("expected 1 match today, got %d", res.Aggregate.Matches)
	}
}

func TestQueryUserWeightedAverage(t *testing.T) {
	now := time.Now()

	a := twoPlayerRecord("a", now.Add(-time.Hour), "u1", 0, 0)
	a.Players[0].TotalScore = 2000
	a.Players[0].DartsThrown = 100
	a.Players[0].Avg = 60

	b := twoPlayerRecord("b", now, "u1", 0, 0)
	b.Players[0].TotalScore = 600
	b.Players[0].DartsThrown = 20
	b.Players[0].Avg = 90

	res, err := QueryUser([]MatchRecord{a, b}, "u1", FilterAll, now)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	// (2000+600)/(100+20)*3 = 65, not the naive (60+90)/2 = 75
	if res.Aggregate.OverallAvg != 65 {
		t.Errorf("expected darts-weighted average 65, got %v", res.Aggregate.OverallAvg)
	}
}

func TestQueryUserAggregateMaximaAndWinRate(t *testing.T) {
	now := time.Now()

	a := twoPlayerRecord("a", now.Add(-2*time.Hour), "u1", 0, 0) // win
	a.Players[0].Stats.BestLeg = 18
	a.Players[0].Stats.HighestCheckout = 120
	a.Players[0].Stats.HighTurn = 140
	a.Players[0].Stats.DoublesHit = 2
	a.Players[0].Stats.DoublesThrown = 5
	a.Players[0].Stats.Heatmap = map[string]int{"T20": 4}

	b := twoPlayerRecord("b", now.Add(-time.Hour), "u1", 1, 0) // loss, seat 1
	b.Players[1].Stats.BestLeg = 15
	b.Players[1].Stats.HighestCheckout = 80
	b.Players[1].Stats.HighTurn = 180
	b.Players[1].Stats.DoublesHit = 1
	b.Players[1].Stats.DoublesThrown = 5
	b.Players[1].Stats.Heatmap = map[string]int{"T20": 2, "D16": 1}

	res, err := QueryUser([]MatchRecord{a, b}, "u1", FilterAll, now)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	agg := res.Aggregate

	if agg.Matches != 2 || agg.Wins != 1 || agg.WinRate != 50 {
		t.Errorf("win rate wrong: matches=%d wins=%d rate=%v", agg.Matches, agg.Wins, agg.WinRate)
	}
	if agg.BestLeg != 15 {
		t.Errorf("best leg must be the minimum, got %d", agg.BestLeg)
	}
	if agg.HighestCheckout != 120 || agg.HighTurn != 180 {
		t.Errorf("maxima wrong: checkout=%d highTurn=%d", agg.HighestCheckout, agg.HighTurn)
	}
	if agg.Checkout.Hit != 3 || agg.Checkout.Thrown != 10 || agg.Checkout.Percent != 30 {
		t.Errorf("checkout detail wrong: %+v", agg.Checkout)
	}
	if agg.Heatmap["T20"] != 6 || agg.Heatmap["D16"] != 1 {
		t.Errorf("heatmap not merged: %v", agg.Heatmap)
	}
}

func TestQueryUserTrendCappedAndChronological(t *testing.T) {
	now := time.Now()

	var records []MatchRecord
	for i := 0; i < 35; i++ {
		rec := twoPlayerRecord(fmt.Sprintf("m%d", i), now.Add(time.Duration(i-40)*time.Hour), "u1", 0, 0)
		rec.Players[0].Avg = float64(i)
		records = append(records, rec)
	}

	res, err := QueryUser(records, "u1", FilterAll, now)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	trend := res.Aggregate.Trend

	if len(trend) != 30 {
		t.Fatalf("expected 30 trend points, got %d", len(trend))
	}
	if trend[0].Avg != 5 || trend[29].Avg != 34 {
		t.Errorf("trend must keep the most recent 30 in order, got first=%v last=%v", trend[0].Avg, trend[29].Avg)
	}
	for i := 1; i < len(trend); i++ {
		if trend[i].Date.Before(trend[i-1].Date) {
			t.Fatalf("trend not chronological at %d", i)
		}
	}
}

func TestQueryUserSingleMatchDetail(t *testing.T) {
	now := time.Now()

	rec := twoPlayerRecord("match-1", now, "u1", 1, 1)
	rec.ScoreStr = "1:2"
	rec.Timeline = []TimelineEntry{
		{Num: 1, PlayerID: 0, Avg: 50},
		{Num: 2, PlayerID: 1, Avg: 70},
		{Num: 3, PlayerID: 0, Avg: 52},
		{Num: 4, PlayerID: 1, Avg: 71},
	}
	rec.Players[1].Stats.DoublesHit = 2
	rec.Players[1].Stats.DoublesThrown = 4

	res, err := QueryUser([]MatchRecord{rec}, "u1", "match-1", now)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	detail := res.Match
	if detail == nil {
		t.Fatalf("expected a match detail view")
	}

	if !detail.Won {
		t.Errorf("user on the winning seat must be reported as winner")
	}
	if detail.Result != "2:1" {
		t.Errorf("result must be oriented to the user, got %s", detail.Result)
	}
	if len(detail.PlayerTurns) != 2 || len(detail.OpponentTurns) != 2 {
		t.Errorf("timeline split wrong: %d/%d", len(detail.PlayerTurns), len(detail.OpponentTurns))
	}
	if detail.PlayerTurns[0].PlayerID != 1 {
		t.Errorf("player turns must belong to the user's seat")
	}
	if detail.Checkout.Percent != 50 {
		t.Errorf("checkout percent wrong: %v", detail.Checkout.Percent)
	}
}

func TestQueryUserUnknownMatchID(t *testing.T) {
	_, err := QueryUser(nil, "u1", "no-such-match", time.Now())
	if !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestQueryUserIgnoresOtherUsersMatches(t *testing.T) {
	now := time.Now()
	records := []MatchRecord{
		twoPlayerRecord("mine", now, "u1", 0, 0),
		twoPlayerRecord("theirs", now, "u2", 0, 0),
	}

	res, err := QueryUser(records, "u1", FilterAll, now)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if res.Aggregate.Matches != 1 {
		t.Errorf("expected only the user's own matches, got %d", res.Aggregate.Matches)
	}
}
