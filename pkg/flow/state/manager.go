package state

import (
	"log"

	"prodreport-be/pkg/flow"
)

// Manager handles session state transitions. It only mutates the session
// struct; fetching option lists and persisting the session stay with the
// caller so a failed fetch never leaves a half-applied transition.
type Manager struct {
	logger *log.Logger
}

// NewManager creates a new state manager
func NewManager(logger *log.Logger) *Manager {
	return &Manager{logger: logger}
}

// Start resets a session to the first selection step.
func (m *Manager) Start(session *flow.Session) {
	session.Step = flow.StepSelectClient
	session.Client = ""
	session.Project = ""
	session.Item = ""
	session.Process = ""
	m.logger.Printf("[STATE] %s -> SELECT_CLIENT", session.UserID)
}

// ChooseClient records the client and advances to project selection.
func (m *Manager) ChooseClient(session *flow.Session, client string) {
	session.Client = client
	session.Step = flow.StepSelectProject
	m.logger.Printf("[STATE] %s -> SELECT_PROJECT (client=%s)", session.UserID, client)
}

// ChooseProject records the project. Item selection is skipped when the
// worksheet has no Item Description column.
func (m *Manager) ChooseProject(session *flow.Session, project string, hasItemColumn bool) {
	session.Project = project
	if hasItemColumn {
		session.Step = flow.StepSelectItem
	} else {
		session.Step = flow.StepSelectProcess
	}
	m.logger.Printf("[STATE] %s -> %s (project=%s)", session.UserID, session.Step, project)
}

// ChooseItem records the item and advances to process selection.
func (m *Manager) ChooseItem(session *flow.Session, item string) {
	session.Item = item
	session.Step = flow.StepSelectProcess
	m.logger.Printf("[STATE] %s -> SELECT_PROCESS (item=%s)", session.UserID, item)
}

// ChooseProcess records the process and awaits the numeric input.
func (m *Manager) ChooseProcess(session *flow.Session, process string) {
	session.Process = process
	session.Step = flow.StepAwaitQuantity
	m.logger.Printf("[STATE] %s -> AWAIT_QUANTITY (process=%s)", session.UserID, process)
}

// EnterCorrection switches the pending commit to an absolute overwrite.
func (m *Manager) EnterCorrection(session *flow.Session) {
	session.Step = flow.StepAwaitCorrection
	m.logger.Printf("[STATE] %s -> AWAIT_CORRECTION", session.UserID)
}

// Back moves one step backwards, clearing the selection that step made.
// From the first step it stays put (the option list is simply re-rendered).
func (m *Manager) Back(session *flow.Session, hasItemColumn bool) {
	switch session.Step {
	case flow.StepSelectProject:
		session.Client = ""
		session.Step = flow.StepSelectClient
	case flow.StepSelectItem:
		session.Project = ""
		session.Step = flow.StepSelectProject
	case flow.StepSelectProcess:
		if hasItemColumn {
			session.Item = ""
			session.Step = flow.StepSelectItem
		} else {
			session.Project = ""
			session.Step = flow.StepSelectProject
		}
	case flow.StepAwaitQuantity:
		session.Process = ""
		session.Step = flow.StepSelectProcess
	case flow.StepAwaitCorrection:
		session.Step = flow.StepAwaitQuantity
	}
	m.logger.Printf("[STATE] %s <- back to %s", session.UserID, session.Step)
}
