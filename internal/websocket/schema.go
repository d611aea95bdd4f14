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
	EventError Event = "error"
	EventPong  Event = "pong"

	// EventSessionUpdated fires on every server-side session mutation so
	// a second tab stays in sync.
	EventSessionUpdated Event = "session_updated"

	// EventSessionCompleted fires when the session finalizes into history.
	EventSessionCompleted Event = "session_completed"

	// EventRemediationAppended fires when background remediation extends
	// the active session with follow-up questions.
	EventRemediationAppended Event = "remediation_appended"
)

// EventMessage is the generic server push envelope.
type EventMessage struct {
	Event   Event `json:"event"`
	Payload any   `json:"payload,omitempty"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
