package models

import (
	"log"
	"math/rand"
	"strconv"
	"sync"
	"time"
)

// Recorder persists a finished match. The store implements it; the session
// never imports the storage layer.
type Recorder interface {
	AppendMatchRecord(rec *MatchRecord) error
}

// Session owns the single active match: its state, undo history, scheduled
// bot and leg-break actions, and the set of subscribed clients. All mutating
// operations run to completion under the mutex, so at most one logical turn
// is ever in flight.
type Session struct {
	Mutex    sync.RWMutex
	State    *MatchState
	history  *History
	clients  map[chan Event]bool
	recorder Recorder
	rng      *rand.Rand

	// gen invalidates pending timers: every out-of-band mutation bumps it,
	// and timer callbacks re-check it under the lock before acting.
	gen      int
	botTimer *time.Timer
	legTimer *time.Timer

	botDelayBase   time.Duration
	botDelayJitter time.Duration
	legBreakDelay  time.Duration
}

// NewSession creates a session in SETUP state.
func NewSession(recorder Recorder) *Session {
	return &Session{
		State:          NewMatchState(),
		history:        NewHistory(),
		clients:        make(map[chan Event]bool),
		recorder:       recorder,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		botDelayBase:   1500 * time.Millisecond,
		botDelayJitter: 500 * time.Millisecond,
		legBreakDelay:  4 * time.Second,
	}
}

// Subscribe registers a new client to receive events
func (s *Session) Subscribe() chan Event {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()

	eventChan := make(chan Event, 10)
	s.clients[eventChan] = true

	return eventChan
}

// Unsubscribe removes a client from receiving events
func (s *Session) Unsubscribe(eventChan chan Event) {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()

	if _, exists := s.clients[eventChan]; exists {
		delete(s.clients, eventChan)
		close(eventChan)
	}
}

// Snapshot returns a copy of the current state safe to hand to a client.
func (s *Session) Snapshot() *MatchState {
	s.Mutex.RLock()
	defer s.Mutex.RUnlock()
	return s.State.Clone()
}

// broadcastEvent sends an event to all subscribed clients
func (s *Session) broadcastEvent(event Event) {
	for client := range s.clients {
		select {
		case client <- event:
			// Event sent successfully
		default:
			// Client might be blocked, but we don't want to block here
		}
	}
}

// broadcastState pushes the full authoritative state to every client. The
// payload is a clone so client writers never race the live state.
func (s *Session) broadcastState() {
	s.broadcastEvent(Event{Type: EventTypeUpdate, Payload: s.State.Clone()})
}

// StartMatch begins a new match from a parsed config, discarding any match
// in progress. Player 1 always opens the first leg.
func (s *Session) StartMatch(cfg MatchConfig) {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()

	s.cancelPending()
	s.history.Clear()

	p1 := newPlayer(0, cfg.P1Name, cfg.P1UserID, cfg.StartScore, false)
	p2 := newPlayer(1, cfg.P2Name, cfg.P2UserID, cfg.StartScore, cfg.BotLevel > 0)

	s.State = &MatchState{
		Status:   StatusPlaying,
		Config:   cfg,
		Players:  []*Player{p1, p2},
		Timeline: []TimelineEntry{},
	}

	s.broadcastState()
	s.checkBot()
}

func newPlayer(seat int, name, userID string, score int, isBot bool) *Player {
	return &Player{
		ID:        seat,
		Name:      name,
		UserID:    userID,
		Score:     score,
		IsBot:     isBot,
		LastScore: "-",
		Stats:     MatchStats{Heatmap: map[string]int{}},
	}
}

// Throw is the transport-facing entry for a thrown turn. Throws outside
// PLAYING, during the bot's turn, or during the between-legs pause are
// silently ignored.
func (s *Session) Throw(points, doublesMissed, finishDarts int, segments []string) {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()

	if s.State.Status != StatusPlaying || s.legTimer != nil {
		return
	}
	if s.State.Players[s.State.Turn].IsBot {
		return
	}
	s.processThrow(points, doublesMissed, finishDarts, segments)
}

// processThrow applies one turn end to end: snapshot, validation, bust and
// checkout resolution, stat accrual, turn handoff and bot scheduling.
// Callers hold the mutex.
func (s *Session) processThrow(points, doublesMissed, finishDarts int, segments []string) {
	st := s.State
	if st.Status != StatusPlaying {
		return
	}
	if points < 0 || points > MaxTurnScore {
		return
	}
	if doublesMissed < 0 {
		doublesMissed = 0
	}

	// Snapshot before any mutation so undo always lands pre-throw.
	s.history.Push(st)

	cur := st.Turn
	p := st.Players[cur]
	for _, pl := range st.Players {
		pl.Status = PlayerStatusNone
	}

	scoreBefore := p.Score
	newScore := scoreBefore - points

	// A leg-ending or busting throw may use fewer than three darts.
	dartsUsed := 3
	if newScore <= 1 && finishDarts >= 1 && finishDarts <= 3 {
		dartsUsed = finishDarts
	}

	if points > p.Stats.HighTurn {
		p.Stats.HighTurn = points
	}
	for _, seg := range segments {
		p.Stats.Heatmap[seg]++
	}

	// Whole turns accrue to the first-9 figures: a turn that starts inside
	// the first nine darts counts fully, even when it straddles dart nine.
	if st.LegDarts[cur] < 9 {
		p.Stats.First9Sum += points
		p.Stats.First9Darts += dartsUsed
	}
	st.LegDarts[cur] += dartsUsed

	switch {
	case newScore == 0 && checkoutValid(segments):
		s.applyCheckout(p, points, scoreBefore, dartsUsed)
	case newScore <= 1:
		s.applyBust(p, scoreBefore, dartsUsed)
	default:
		s.applyScore(p, points, newScore, doublesMissed)
	}
}

// applyCheckout finishes the leg and, when the target is reached, the match.
func (s *Session) applyCheckout(p *Player, points, scoreBefore, dartsUsed int) {
	st := s.State
	p.Score = 0
	p.Status = PlayerStatusGameShot
	p.LastScore = strconv.Itoa(points)

	minD := minDartsToFinish(scoreBefore)
	misses := dartsUsed - minD
	if misses < 0 {
		misses = 0
	}
	p.Stats.DoublesHit++
	p.Stats.DoublesThrown += misses + 1

	if points > p.Stats.HighestCheckout {
		p.Stats.HighestCheckout = points
	}
	if p.Stats.BestLeg == 0 || st.LegDarts[p.ID] < p.Stats.BestLeg {
		p.Stats.BestLeg = st.LegDarts[p.ID]
	}

	recordScore(p, points, dartsUsed, true, 0)
	recalcAverages(p)
	s.appendTimeline(p)

	st.Legs[p.ID]++
	s.broadcastEvent(Event{Type: EventTypeVoice, Payload: VoicePayload{Type: VoiceGameShot, Val: points}})

	if st.Legs[p.ID] >= st.Config.LegsToWin {
		st.Status = StatusFinished
		st.Winner = p.Name
		s.persistRecord()
		s.broadcastState()
		return
	}

	// Next leg starts after a pause so the UI can present the game shot.
	st.Starter = 1 - st.Starter
	s.broadcastState()
	s.scheduleLegAdvance()
}

// applyBust voids the turn's score and hands the turn over.
func (s *Session) applyBust(p *Player, scoreBefore, dartsUsed int) {
	st := s.State
	p.Status = PlayerStatusBust
	p.LastScore = PlayerStatusBust

	// Within finishing range the player was presumably aiming at a double.
	if scoreBefore <= 170 && !isBogey(scoreBefore) {
		p.Stats.DoublesThrown += dartsUsed
	}

	p.DartsThrown += dartsUsed
	recalcAverages(p)
	s.appendTimeline(p)

	st.Turn = 1 - st.Turn
	s.broadcastEvent(Event{Type: EventTypeVoice, Payload: VoicePayload{Type: VoiceBust}})
	s.broadcastState()
	s.checkBot()
}

// applyScore commits a normal scoring turn and hands the turn over.
func (s *Session) applyScore(p *Player, points, newScore, doublesMissed int) {
	st := s.State
	p.Score = newScore
	p.LastScore = strconv.Itoa(points)

	if doublesMissed > 0 {
		p.Stats.DoublesThrown += doublesMissed
	}
	recordScore(p, points, 3, false, doublesMissed)
	recalcAverages(p)
	s.appendTimeline(p)

	st.Turn = 1 - st.Turn
	s.broadcastEvent(Event{Type: EventTypeVoice, Payload: VoicePayload{Type: VoiceScore, Val: points}})
	s.broadcastState()
	s.checkBot()
}

// checkoutValid reports whether a throw reaching zero counts as a finish.
// Without segment data the finish is taken on trust.
func checkoutValid(segments []string) bool {
	if len(segments) == 0 {
		return true
	}
	return isDoubleSegment(segments[len(segments)-1])
}

func (s *Session) appendTimeline(p *Player) {
	st := s.State
	st.Timeline = append(st.Timeline, TimelineEntry{
		Num:        len(st.Timeline) + 1,
		PlayerID:   p.ID,
		IsBot:      p.IsBot,
		Avg:        p.Avg,
		ScoringAvg: p.ScoringAvg,
	})
}

// startNextLeg resets both players for a fresh leg. Cumulative match
// statistics are untouched.
func (s *Session) startNextLeg() {
	st := s.State
	for _, p := range st.Players {
		p.Score = st.Config.StartScore
		p.Status = PlayerStatusNone
		p.LastScore = "-"
	}
	st.LegDarts = [2]int{}
	st.Turn = st.Starter
}

// scheduleLegAdvance arms the between-legs pause.
func (s *Session) scheduleLegAdvance() {
	gen := s.gen
	s.legTimer = time.AfterFunc(s.legBreakDelay, func() {
		s.Mutex.Lock()
		defer s.Mutex.Unlock()
		if s.gen != gen || s.State.Status != StatusPlaying {
			return
		}
		s.legTimer = nil
		s.startNextLeg()
		s.broadcastState()
		s.checkBot()
	})
}

// checkBot arms a deferred throw when it is the bot's turn. The callback
// re-validates the generation and the turn under the lock, so a stale timer
// can never act on superseded state.
func (s *Session) checkBot() {
	st := s.State
	if st.Status != StatusPlaying || !st.Players[st.Turn].IsBot {
		return
	}
	gen := s.gen
	delay := s.botDelayBase
	if s.botDelayJitter > 0 {
		delay += time.Duration(s.rng.Int63n(int64(s.botDelayJitter)))
	}
	s.botTimer = time.AfterFunc(delay, func() {
		s.Mutex.Lock()
		defer s.Mutex.Unlock()
		if s.gen != gen || s.State.Status != StatusPlaying {
			return
		}
		s.botTimer = nil
		p := s.State.Players[s.State.Turn]
		if !p.IsBot {
			return
		}
		bt := generateBotThrow(s.rng, s.State.Config.BotLevel, p.Score, s.State.Config.BotCheckout)
		s.processThrow(bt.points, bt.misses, bt.finishDarts, nil)
	})
}

// Undo restores the most recent snapshot. Against a bot, a restored state
// on the bot's turn means only the bot's reply was unwound, so one more
// snapshot is popped to hand control back to the human.
func (s *Session) Undo() {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()

	s.cancelPending()

	snap := s.history.Pop()
	if snap == nil {
		return
	}
	if len(snap.Players) == 2 && snap.Players[snap.Turn].IsBot {
		if prev := s.history.Pop(); prev != nil {
			snap = prev
		}
	}
	s.State = snap
	s.broadcastState()
	s.checkBot()
}

// Reset returns to the setup screen without recording anything.
func (s *Session) Reset() {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()

	s.cancelPending()
	s.State.Status = StatusSetup
	s.broadcastState()
}

// Abort discards the match and the undo history entirely.
func (s *Session) Abort() {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()

	s.cancelPending()
	s.history.Clear()
	s.State = NewMatchState()
	s.broadcastState()
}

// cancelPending invalidates every outstanding scheduled action.
func (s *Session) cancelPending() {
	s.gen++
	if s.botTimer != nil {
		s.botTimer.Stop()
		s.botTimer = nil
	}
	if s.legTimer != nil {
		s.legTimer.Stop()
		s.legTimer = nil
	}
}

func (s *Session) persistRecord() {
	if s.recorder == nil {
		return
	}
	rec := BuildMatchRecord(s.State)
	if err := s.recorder.AppendMatchRecord(rec); err != nil {
		log.Printf("Failed to persist match record: %v", err)
	}
}
