package types

import "time"

// TopicScoreUpdated is published when a game's projection changed.
const TopicScoreUpdated = "score-updated"

// ChangeEvent is the notification bus wire shape. Events are transient
// and best-effort; they carry the originating window's identity so
// subscribers can suppress self-echo.
type ChangeEvent struct {
	Topic        string    `json:"topic"`
	GameID       string    `json:"gameId"`
	SourceOrigin string    `json:"sourceOrigin"`
	Payload      any       `json:"payload,omitempty"`
	EmittedAt    time.Time `json:"emittedAt"`
}
