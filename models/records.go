package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// User is a stored player identity matches can be linked to.
type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecordedPlayer is one side's frozen identity and statistics inside a
// persisted match record.
type RecordedPlayer struct {
	Seat        int        `json:"seat"`
	UserID      string     `json:"userId,omitempty"`
	Name        string     `json:"name"`
	IsBot       bool       `json:"isBot"`
	Stats       MatchStats `json:"stats"`
	TotalScore  int        `json:"totalScore"`
	DartsThrown int        `json:"dartsThrown"`
	Avg         float64    `json:"avg"`
	ScoringAvg  float64    `json:"scoringAvg"`
	First9Avg   float64    `json:"first9Avg"`
}

// MatchRecord is the append-only persisted form of a finished match. It is
// never mutated after being written.
type MatchRecord struct {
	ID           string           `gorm:"primaryKey" json:"id"`
	Date         time.Time        `json:"date"`
	WinnerSeat   int              `json:"winnerSeat"`
	WinnerUserID string           `json:"winnerUserId,omitempty"`
	ScoreStr     string           `json:"scoreStr"` // "<legsA>:<legsB>"
	Timeline     []TimelineEntry  `gorm:"serializer:json" json:"timeline"`
	Players      []RecordedPlayer `gorm:"serializer:json" json:"players"`
}

// BuildMatchRecord freezes a finished match into its persisted form.
func BuildMatchRecord(st *MatchState) *MatchRecord {
	rec := &MatchRecord{
		ID:       uuid.New().String(),
		Date:     time.Now(),
		ScoreStr: fmt.Sprintf("%d:%d", st.Legs[0], st.Legs[1]),
		Timeline: append([]TimelineEntry{}, st.Timeline...),
	}
	for _, p := range st.Players {
		stats := p.Stats
		stats.Heatmap = make(map[string]int, len(p.Stats.Heatmap))
		for k, v := range p.Stats.Heatmap {
			stats.Heatmap[k] = v
		}
		rec.Players = append(rec.Players, RecordedPlayer{
			Seat:        p.ID,
			UserID:      p.UserID,
			Name:        p.Name,
			IsBot:       p.IsBot,
			Stats:       stats,
			TotalScore:  p.TotalScore,
			DartsThrown: p.DartsThrown,
			Avg:         p.Avg,
			ScoringAvg:  p.ScoringAvg,
			First9Avg:   p.First9Avg,
		})
		if st.Legs[p.ID] >= st.Config.LegsToWin {
			rec.WinnerSeat = p.ID
			rec.WinnerUserID = p.UserID
		}
	}
	return rec
}
