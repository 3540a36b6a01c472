package models

// Match lifecycle statuses
const (
	StatusSetup    = "SETUP"
	StatusPlaying  = "PLAYING"
	StatusFinished = "MATCH_FINISHED"
)

// Transient player statuses, cleared at the start of every turn
const (
	PlayerStatusNone     = ""
	PlayerStatusBust     = "BUST"
	PlayerStatusGameShot = "GAME_SHOT"
)

// Event types pushed to subscribed clients
const (
	EventTypeUpdate = "update"
	EventTypeVoice  = "voice"
)

// Voice event outcomes
const (
	VoiceScore    = "score"
	VoiceBust     = "bust"
	VoiceGameShot = "gameshot"
)

// Config defaults and bounds
const (
	DefaultStartScore  = 501
	MinStartScore      = 101
	DefaultLegs        = 3
	MaxBotLevel        = 100
	DefaultBotCheckout = 50

	// MaxHistory bounds the undo stack; the oldest snapshot is evicted first.
	MaxHistory = 50

	// MaxTurnScore is the highest score achievable with three darts.
	MaxTurnScore = 180
)

// Bogey numbers: remaining scores with no possible three-dart finish.
var bogeyNumbers = map[int]bool{
	169: true, 168: true, 166: true, 165: true, 163: true, 162: true, 159: true,
}

// Two-dart-range scores that still need three darts to finish.
var threeDartFinishes = map[int]bool{
	99: true, 102: true, 103: true, 105: true, 106: true, 108: true, 109: true,
}
