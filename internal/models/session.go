package models

import "time"

// Session is the full game document stored under its join code. The whole
// struct is serialized as one value so every mutation can be applied as a
// single transactional read-modify-write against the store.
type Session struct {
	Code            string            `json:"code"`
	Status          string            `json:"status"`
	CurrentQuestion int               `json:"current_question"`
	Quiz            []Question        `json:"quiz,omitempty"`
	Players         map[string]Player `json:"players"`
	Scores          map[string]int    `json:"scores"`
	Streaks         map[string]int    `json:"streaks"`
	Answered        map[string]int    `json:"answered"`
	CreatedAt       time.Time         `json:"created_at"`
}

const (
	SessionStatusWaiting = "waiting"
	SessionStatusStarted = "started"
	SessionStatusEnded   = "ended"
)

// NewSession returns an empty waiting session for the given code.
func NewSession(code string, now time.Time) *Session {
	return &Session{
		Code:      code,
		Status:    SessionStatusWaiting,
		Players:   make(map[string]Player),
		Scores:    make(map[string]int),
		Streaks:   make(map[string]int),
		Answered:  make(map[string]int),
		CreatedAt: now,
	}
}

// Clone deep-copies the session so a transaction closure can mutate its copy
// without the caller's snapshot leaking out on abort.
func (s *Session) Clone() *Session {
	out := *s
	out.Quiz = make([]Question, len(s.Quiz))
	copy(out.Quiz, s.Quiz)
	out.Players = make(map[string]Player, len(s.Players))
	for k, v := range s.Players {
		out.Players[k] = v
	}
	out.Scores = make(map[string]int, len(s.Scores))
	for k, v := range s.Scores {
		out.Scores[k] = v
	}
	out.Streaks = make(map[string]int, len(s.Streaks))
	for k, v := range s.Streaks {
		out.Streaks[k] = v
	}
	out.Answered = make(map[string]int, len(s.Answered))
	for k, v := range s.Answered {
		out.Answered[k] = v
	}
	return &out
}
