package models

import (
	"fmt"
	"sort"
	"time"
)

// Time-window filters accepted by QueryUser. Anything else is treated as a
// match record id.
const (
	FilterAll   = "all"
	FilterToday = "today"
	FilterWeek  = "week"
	FilterMonth = "month"
)

// TrendPoint is one match on the recent-form series.
type TrendPoint struct {
	MatchID string    `json:"matchId"`
	Date    time.Time `json:"date"`
	Avg     float64   `json:"avg"`
}

// CheckoutDetail summarises finishing over a set of matches.
type CheckoutDetail struct {
	Hit     int     `json:"hit"`
	Thrown  int     `json:"thrown"`
	Percent float64 `json:"percent"`
}

// UserStatsReport aggregates a user's persisted matches over a time window.
type UserStatsReport struct {
	UserID          string         `json:"userId"`
	Matches         int            `json:"matches"`
	Wins            int            `json:"wins"`
	WinRate         float64        `json:"winRate"`
	OverallAvg      float64        `json:"overallAvg"` // darts-weighted, not avg-of-avgs
	Checkout        CheckoutDetail `json:"checkout"`
	BestLeg         int            `json:"bestLeg"`
	HighestCheckout int            `json:"highestCheckout"`
	HighTurn        int            `json:"highTurn"`
	Heatmap         map[string]int `json:"heatmap"`
	Trend           []TrendPoint   `json:"trend"`
}

// MatchDetail is the single-match view of one persisted record, oriented to
// the queried user.
type MatchDetail struct {
	MatchID       string          `json:"matchId"`
	Date          time.Time       `json:"date"`
	Won           bool            `json:"won"`
	Result        string          `json:"result"` // user's legs first
	Player        RecordedPlayer  `json:"player"`
	Opponent      RecordedPlayer  `json:"opponent"`
	PlayerTurns   []TimelineEntry `json:"playerTurns"`
	OpponentTurns []TimelineEntry `json:"opponentTurns"`
	Checkout      CheckoutDetail  `json:"checkout"`
}

// QueryResult carries either an aggregate report or a single-match detail.
type QueryResult struct {
	Filter    string           `json:"filter"`
	Aggregate *UserStatsReport `json:"aggregate,omitempty"`
	Match     *MatchDetail     `json:"match,omitempty"`
}

// QueryUser aggregates a user's persisted match records. Time-window filters
// are inclusive of the window's start of day; any other filter value is
// looked up as a match id and answered with a single-match detail view.
func QueryUser(records []MatchRecord, userID, filter string, now time.Time) (*QueryResult, error) {
	mine := make([]MatchRecord, 0, len(records))
	for _, rec := range records {
		if _, ok := findSeat(rec, userID); ok {
			mine = append(mine, rec)
		}
	}

	switch filter {
	case FilterAll, FilterToday, FilterWeek, FilterMonth, "":
		if filter == "" {
			filter = FilterAll
		}
		windowed := filterByDate(mine, filter, now)
		return &QueryResult{Filter: filter, Aggregate: aggregate(userID, windowed)}, nil
	default:
		for _, rec := range mine {
			if rec.ID == filter {
				detail := buildDetail(rec, userID)
				return &QueryResult{Filter: filter, Match: detail}, nil
			}
		}
		return nil, ErrRecordNotFound
	}
}

func findSeat(rec MatchRecord, userID string) (int, bool) {
	if userID == "" {
		return 0, false
	}
	for i, p := range rec.Players {
		if p.UserID == userID {
			return i, true
		}
	}
	return 0, false
}

func filterByDate(records []MatchRecord, filter string, now time.Time) []MatchRecord {
	var cutoff time.Time
	switch filter {
	case FilterToday:
		cutoff = startOfDay(now)
	case FilterWeek:
		cutoff = startOfDay(now.AddDate(0, 0, -7))
	case FilterMonth:
		cutoff = startOfDay(now.AddDate(0, -1, 0))
	default:
		return records
	}
	out := make([]MatchRecord, 0, len(records))
	for _, rec := range records {
		if !rec.Date.Before(cutoff) {
			out = append(out, rec)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func aggregate(userID string, records []MatchRecord) *UserStatsReport {
	report := &UserStatsReport{
		UserID:  userID,
		Matches: len(records),
		Heatmap: map[string]int{},
		Trend:   []TrendPoint{},
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })

	totalPoints, totalDarts := 0, 0
	for _, rec := range records {
		seat, _ := findSeat(rec, userID)
		p := rec.Players[seat]

		if rec.WinnerSeat == seat {
			report.Wins++
		}
		totalPoints += p.TotalScore
		totalDarts += p.DartsThrown
		report.Checkout.Hit += p.Stats.DoublesHit
		report.Checkout.Thrown += p.Stats.DoublesThrown

		if p.Stats.BestLeg > 0 && (report.BestLeg == 0 || p.Stats.BestLeg < report.BestLeg) {
			report.BestLeg = p.Stats.BestLeg
		}
		if p.Stats.HighestCheckout > report.HighestCheckout {
			report.HighestCheckout = p.Stats.HighestCheckout
		}
		if p.Stats.HighTurn > report.HighTurn {
			report.HighTurn = p.Stats.HighTurn
		}
		for seg, n := range p.Stats.Heatmap {
			report.Heatmap[seg] += n
		}
	}

	if report.Matches > 0 {
		report.WinRate = float64(report.Wins) / float64(report.Matches) * 100
	}
	if totalDarts > 0 {
		report.OverallAvg = float64(totalPoints) / float64(totalDarts) * 3
	}
	if report.Checkout.Thrown > 0 {
		report.Checkout.Percent = float64(report.Checkout.Hit) / float64(report.Checkout.Thrown) * 100
	}

	trendStart := 0
	if len(records) > 30 {
		trendStart = len(records) - 30
	}
	for _, rec := range records[trendStart:] {
		seat, _ := findSeat(rec, userID)
		report.Trend = append(report.Trend, TrendPoint{
			MatchID: rec.ID,
			Date:    rec.Date,
			Avg:     rec.Players[seat].Avg,
		})
	}

	return report
}

func buildDetail(rec MatchRecord, userID string) *MatchDetail {
	seat, _ := findSeat(rec, userID)
	player := rec.Players[seat]
	opponent := rec.Players[1-seat]

	detail := &MatchDetail{
		MatchID:  rec.ID,
		Date:     rec.Date,
		Won:      rec.WinnerSeat == seat,
		Result:   rec.ScoreStr,
		Player:   player,
		Opponent: opponent,
	}
	if seat == 1 {
		detail.Result = flipScoreStr(rec.ScoreStr)
	}

	for _, entry := range rec.Timeline {
		if entry.PlayerID == player.Seat {
			detail.PlayerTurns = append(detail.PlayerTurns, entry)
		} else {
			detail.OpponentTurns = append(detail.OpponentTurns, entry)
		}
	}

	detail.Checkout = CheckoutDetail{
		Hit:    player.Stats.DoublesHit,
		Thrown: player.Stats.DoublesThrown,
	}
	if detail.Checkout.Thrown > 0 {
		detail.Checkout.Percent = float64(detail.Checkout.Hit) / float64(detail.Checkout.Thrown) * 100
	}
	return detail
}

func flipScoreStr(s string) string {
	var a, b int
	if _, err := fmt.Sscanf(s, "%d:%d", &a, &b); err != nil {
		return s
	}
	return fmt.Sprintf("%d:%d", b, a)
}
