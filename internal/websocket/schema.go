package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventStateChanged Event = "state_changed"
	EventError        Event = "error"
	EventPong         Event = "pong"
)

// StateChangedEvent announces a mutation. Clients refetch the views they
// display; the event carries counts, not the state itself.
type StateChangedEvent struct {
	Event      Event `json:"event"`
	Students   int   `json:"students"`
	Attendance int   `json:"attendance"`
	Fees       int   `json:"fees"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
