package flow

// Session represents the active per-user report conversation in memory.
// Idle has no constant: an idle user simply has no session stored.
type Session struct {
	UserID string `json:"user_id"`
	Step   string `json:"step"`

	// Selections accumulated so far
	Client  string `json:"client"`
	Project string `json:"project"`
	Item    string `json:"item"`
	Process string `json:"process"`
}

const (
	StepSelectClient    = "SELECT_CLIENT"
	StepSelectProject   = "SELECT_PROJECT"
	StepSelectItem      = "SELECT_ITEM"
	StepSelectProcess   = "SELECT_PROCESS"
	StepAwaitQuantity   = "AWAIT_QUANTITY"
	StepAwaitCorrection = "AWAIT_CORRECTION"
)

// KeyComplete reports whether the row identity is fully selected.
func (s *Session) KeyComplete() bool {
	switch s.Step {
	case StepSelectProcess, StepAwaitQuantity, StepAwaitCorrection:
		return true
	}
	return false
}
