package websocket

import "github.com/lumenlms/lumen-backend/internal/quiz"

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventTick   Event = "tick"
	EventEnded  Event = "ended"
	EventError  Event = "error"
)

// TickResponse carries the attempt countdown state, once per second.
type TickResponse struct {
	Event Event      `json:"event"`
	State quiz.State `json:"state"`
}

// EndedResponse is sent once when the attempt leaves InProgress, then the
// stream closes.
type EndedResponse struct {
	Event Event      `json:"event"`
	Phase quiz.Phase `json:"phase"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}
