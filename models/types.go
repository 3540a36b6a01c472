package models

import "strconv"

// MatchConfig holds the settings a match is started with. Values are
// clamped once by ParseConfig; nothing downstream re-validates them.
type MatchConfig struct {
	StartScore  int    `json:"startScore"`
	Legs        int    `json:"legs"`        // requested total legs
	LegsToWin   int    `json:"legsToWin"`   // ceil(Legs/2)
	BotLevel    int    `json:"botLevel"`    // 0 = no bot, else skill 1..100
	BotCheckout int    `json:"botCheckout"` // chance (0..100) the bot lands a finish
	P1Name      string `json:"p1Name"`
	P2Name      string `json:"p2Name"`
	P1UserID    string `json:"p1UserId,omitempty"` // optional link to a stored user
	P2UserID    string `json:"p2UserId,omitempty"`
}

// ConfigRequest is the loosely typed payload a client sends to start a
// match. Fields arrive as strings or numbers depending on the UI control,
// so everything is kept as raw strings and parsed in one place.
type ConfigRequest struct {
	StartScore  string `json:"startScore"`
	Legs        string `json:"legs"`
	BotLevel    string `json:"botLevel"`
	BotCheckout string `json:"botCheckout"`
	P1Name      string `json:"p1Name"`
	P2Name      string `json:"p2Name"`
	P1UserID    string `json:"p1UserId"`
	P2UserID    string `json:"p2UserId"`
}

// ParseConfig turns a raw request into a valid MatchConfig, defaulting and
// clamping out-of-range values at the boundary.
func ParseConfig(req ConfigRequest) MatchConfig {
	cfg := MatchConfig{
		StartScore:  atoiDefault(req.StartScore, DefaultStartScore),
		Legs:        atoiDefault(req.Legs, DefaultLegs),
		BotLevel:    atoiDefault(req.BotLevel, 0),
		BotCheckout: atoiDefault(req.BotCheckout, DefaultBotCheckout),
		P1Name:      req.P1Name,
		P2Name:      req.P2Name,
		P1UserID:    req.P1UserID,
		P2UserID:    req.P2UserID,
	}

	if cfg.StartScore < MinStartScore {
		cfg.StartScore = DefaultStartScore
	}
	if cfg.Legs < 1 {
		cfg.Legs = DefaultLegs
	}
	if cfg.BotLevel < 0 {
		cfg.BotLevel = 0
	}
	if cfg.BotLevel > MaxBotLevel {
		cfg.BotLevel = MaxBotLevel
	}
	if cfg.BotCheckout < 0 || cfg.BotCheckout > 100 {
		cfg.BotCheckout = DefaultBotCheckout
	}
	cfg.LegsToWin = (cfg.Legs + 1) / 2

	if cfg.P1Name == "" {
		cfg.P1Name = "Player 1"
	}
	if cfg.P2Name == "" {
		if cfg.BotLevel > 0 {
			cfg.P2Name = "BOT (" + strconv.Itoa(cfg.BotLevel) + ")"
		} else {
			cfg.P2Name = "Player 2"
		}
	}

	return cfg
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// MatchStats are the per-player counters accrued over one match.
type MatchStats struct {
	// Score bands, mutually exclusive; the highest qualifying band wins.
	Score0   int `json:"score0"`
	Score20  int `json:"score20"`
	Score40  int `json:"score40"`
	Score60  int `json:"score60"`
	Score80  int `json:"score80"`
	Score100 int `json:"score100"`
	Score120 int `json:"score120"`
	Score140 int `json:"score140"`
	Score180 int `json:"score180"`

	DoublesThrown int `json:"doublesThrown"`
	DoublesHit    int `json:"doublesHit"`

	First9Sum   int `json:"first9Sum"`
	First9Darts int `json:"first9Darts"`

	// Pure scoring throws: turns with no checkout and no missed doubles.
	ScoringSum   int `json:"scoringSum"`
	ScoringDarts int `json:"scoringDarts"`

	BestLeg         int `json:"bestLeg"`         // fewest darts to win a leg, 0 = none yet
	HighestCheckout int `json:"highestCheckout"` // 0 = none yet
	HighTurn        int `json:"highTurn"`

	Heatmap map[string]int `json:"heatmap"`
}

// Player is one side of the match.
type Player struct {
	ID          int        `json:"id"` // seat: 0 or 1
	Name        string     `json:"name"`
	UserID      string     `json:"userId,omitempty"` // stored-user link, never owned here
	Score       int        `json:"score"`            // remaining
	IsBot       bool       `json:"isBot"`
	DartsThrown int        `json:"dartsThrown"`
	TotalScore  int        `json:"totalScore"`
	LastScore   string     `json:"lastScore"`
	Status      string     `json:"status"` // transient: "", BUST, GAME_SHOT
	Stats       MatchStats `json:"stats"`

	// Derived, recomputed after every turn so the broadcast state is
	// self-contained.
	Avg             float64 `json:"avg"`
	First9Avg       float64 `json:"first9Avg"`
	ScoringAvg      float64 `json:"scoringAvg"`
	CheckoutPercent float64 `json:"checkoutPercent"`
}

// TimelineEntry is one committed turn in the match timeline.
type TimelineEntry struct {
	Num        int     `json:"num"` // turn sequence number, 1-based
	PlayerID   int     `json:"playerId"`
	IsBot      bool    `json:"isBot"`
	Avg        float64 `json:"avg"`
	ScoringAvg float64 `json:"scoringAvg"`
}

// MatchState is the authoritative state of the single active match. It is
// broadcast whole after every committed mutation.
type MatchState struct {
	Status   string          `json:"status"`
	Config   MatchConfig     `json:"config"`
	Players  []*Player       `json:"players"`
	Legs     [2]int          `json:"legs"`
	Turn     int             `json:"turn"`    // seat whose throw is acceptable
	Starter  int             `json:"starter"` // alternates each leg
	LegDarts [2]int          `json:"legDarts"`
	Timeline []TimelineEntry `json:"timeline"`
	Winner   string          `json:"winner,omitempty"`
}

// NewMatchState returns an empty SETUP state.
func NewMatchState() *MatchState {
	return &MatchState{
		Status:   StatusSetup,
		Players:  []*Player{},
		Timeline: []TimelineEntry{},
	}
}

// Clone returns a deep value copy sharing no mutable substructure with the
// receiver. Undo correctness depends on this.
func (s *MatchState) Clone() *MatchState {
	cp := *s
	cp.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		pc := *p
		if p.Stats.Heatmap != nil {
			pc.Stats.Heatmap = make(map[string]int, len(p.Stats.Heatmap))
			for k, v := range p.Stats.Heatmap {
				pc.Stats.Heatmap[k] = v
			}
		}
		cp.Players[i] = &pc
	}
	cp.Timeline = make([]TimelineEntry, len(s.Timeline))
	copy(cp.Timeline, s.Timeline)
	return &cp
}

// Event is a message to be pushed to subscribed clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// VoicePayload classifies a turn outcome for presentation.
type VoicePayload struct {
	Type string `json:"type"`          // score, bust, gameshot
	Val  int    `json:"val,omitempty"` // points scored
}
