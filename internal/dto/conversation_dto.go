package dto

// EventKind distinguishes button presses from free text.
type EventKind string

const (
	KindButtonPress EventKind = "BUTTON_PRESS"
	KindTextMessage EventKind = "TEXT_MESSAGE"
)

// InboundEvent is what the transport adapter delivers to the engine.
// ButtonPress payloads are "step|value" tokens; TextMessage payloads are the
// raw user text interpreted against the current session step.
type InboundEvent struct {
	UserID  string
	Kind    EventKind
	Payload string
}

// Option is one selectable choice: the label the user sees and the token the
// transport echoes back on selection.
type Option struct {
	Label string
	Token string
}

// Prompt is the engine's logical reply. Rendering (inline keyboard layout,
// formatting) belongs to the transport adapter.
type Prompt struct {
	Text    string
	Options []Option
}
