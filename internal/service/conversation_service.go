package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"prodreport-be/internal/constant"
	"prodreport-be/internal/dto"
	"prodreport-be/internal/pkg/logger"
	"prodreport-be/internal/repository/memory"
	"prodreport-be/pkg/flow"
	"prodreport-be/pkg/flow/state"
	"prodreport-be/pkg/sheets"
)

// IConversationService is the engine behind the chat surface: it walks a user
// from client selection down to a quantity commit and renders the logical
// prompt for each step. Message delivery belongs to the transport adapter.
type IConversationService interface {
	Handle(ctx context.Context, event *dto.InboundEvent) (*dto.Prompt, error)
}

type conversationService struct {
	sessionRepo  *memory.SessionRepository
	store        *sheets.Store
	ledger       ILedgerService
	stateManager *state.Manager
	sysLogger    logger.ILogger
	storeTimeout time.Duration
}

func NewConversationService(
	sessionRepo *memory.SessionRepository,
	store *sheets.Store,
	ledger ILedgerService,
	stateManager *state.Manager,
	sysLogger logger.ILogger,
	storeTimeout time.Duration,
) IConversationService {
	return &conversationService{
		sessionRepo:  sessionRepo,
		store:        store,
		ledger:       ledger,
		stateManager: stateManager,
		sysLogger:    sysLogger,
		storeTimeout: storeTimeout,
	}
}

// Handle converts one inbound event into the next prompt. Store and ledger
// errors surface as user-visible text; nothing here may take the process down.
func (c *conversationService) Handle(ctx context.Context, event *dto.InboundEvent) (*dto.Prompt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.storeTimeout)
	defer cancel()

	switch event.Kind {
	case dto.KindButtonPress:
		return c.handleButton(ctx, event.UserID, event.Payload), nil
	case dto.KindTextMessage:
		return c.handleText(ctx, event.UserID, event.Payload), nil
	default:
		return textPrompt(constant.MsgUseStart), nil
	}
}

func (c *conversationService) handleText(ctx context.Context, userID, text string) *dto.Prompt {
	trimmed := strings.TrimSpace(text)

	switch strings.ToLower(trimmed) {
	case constant.CommandStart, constant.CommandReport:
		return c.startSession(ctx, userID)
	case constant.CommandCancel, constant.KeywordCancel:
		return c.cancelSession(userID)
	case constant.KeywordBack:
		return c.stepBack(ctx, userID)
	case constant.CommandUndo:
		return c.undo(ctx, userID)
	case constant.CommandStatus:
		return c.status(ctx, userID)
	}

	session, found := c.sessionRepo.Get(userID)
	if !found {
		return textPrompt(constant.MsgUseStart)
	}

	switch session.Step {
	case flow.StepAwaitQuantity:
		if strings.EqualFold(trimmed, constant.KeywordEdit) {
			next := *session
			c.stateManager.EnterCorrection(&next)
			c.sessionRepo.Save(&next)
			return c.renderStep(ctx, &next).Prompt
		}
		return c.commit(ctx, session, trimmed, false)
	case flow.StepAwaitCorrection:
		return c.commit(ctx, session, trimmed, true)
	default:
		// Free text during a selection step: re-render the live options.
		return c.renderStep(ctx, session).Prompt
	}
}

func (c *conversationService) handleButton(ctx context.Context, userID, payload string) *dto.Prompt {
	prefix, value := splitToken(payload)

	switch prefix {
	case constant.TokenCancel:
		return c.cancelSession(userID)
	case constant.TokenBack:
		return c.stepBack(ctx, userID)
	case constant.TokenUndo:
		return c.undo(ctx, userID)
	case constant.TokenStatus:
		return c.status(ctx, userID)
	}

	session, found := c.sessionRepo.Get(userID)
	if !found {
		// Stale buttons from before a restart or an expired session.
		return textPrompt(constant.MsgUseStart)
	}

	// Apply the transition to a copy; the stored session only advances once
	// the next step's option list has been fetched successfully.
	next := *session
	switch {
	case prefix == constant.TokenClient && session.Step == flow.StepSelectClient:
		c.stateManager.ChooseClient(&next, value)
	case prefix == constant.TokenProject && session.Step == flow.StepSelectProject:
		c.stateManager.ChooseProject(&next, value, c.hasItemColumn())
	case prefix == constant.TokenItem && session.Step == flow.StepSelectItem:
		c.stateManager.ChooseItem(&next, value)
	case prefix == constant.TokenProcess && session.Step == flow.StepSelectProcess:
		if !c.store.HasColumn(value) {
			return textPrompt(constant.MsgUnknownColumn)
		}
		c.stateManager.ChooseProcess(&next, value)
	default:
		// Button from an earlier step; re-render where the session actually is.
		return c.renderStep(ctx, session).Prompt
	}

	prompt := c.renderStep(ctx, &next)
	if prompt.failed {
		return prompt.Prompt
	}
	c.sessionRepo.Save(&next)
	return prompt.Prompt
}

func (c *conversationService) startSession(ctx context.Context, userID string) *dto.Prompt {
	session := &flow.Session{UserID: userID}
	c.stateManager.Start(session)

	prompt := c.renderStep(ctx, session)
	if prompt.failed {
		return prompt.Prompt
	}
	c.sessionRepo.Save(session)
	return prompt.Prompt
}

func (c *conversationService) cancelSession(userID string) *dto.Prompt {
	c.sessionRepo.Delete(userID)
	return textPrompt(constant.MsgCancelled)
}

func (c *conversationService) stepBack(ctx context.Context, userID string) *dto.Prompt {
	session, found := c.sessionRepo.Get(userID)
	if !found {
		return textPrompt(constant.MsgUseStart)
	}

	next := *session
	c.stateManager.Back(&next, c.hasItemColumn())

	prompt := c.renderStep(ctx, &next)
	if prompt.failed {
		return prompt.Prompt
	}
	c.sessionRepo.Save(&next)
	return prompt.Prompt
}

func (c *conversationService) undo(ctx context.Context, userID string) *dto.Prompt {
	session, found := c.sessionRepo.Get(userID)
	if !found || !session.KeyComplete() {
		return textPrompt("Select a client, project and item first, then undo.")
	}

	key := sessionKey(session)
	column, err := c.ledger.UndoLastProcess(ctx, userID, key)
	switch {
	case errors.Is(err, ErrNothingToUndo), errors.Is(err, sheets.ErrRowNotFound):
		return textPrompt(constant.MsgNothingToUndo)
	case err != nil:
		c.sysLogger.Error("conversation", "Undo failed", map[string]interface{}{
			"user": userID, "key": key.String(), "error": err.Error(),
		})
		return textPrompt(constant.MsgPleaseRetry)
	}

	return textPrompt(fmt.Sprintf("Undone: %q reset to 0 for %s / %s.", column, session.Client, session.Project))
}

func (c *conversationService) status(ctx context.Context, userID string) *dto.Prompt {
	session, found := c.sessionRepo.Get(userID)
	if !found || !session.KeyComplete() {
		return textPrompt("Select a client, project and item first, then ask for status.")
	}

	report, err := c.ledger.ComputeStatus(ctx, sessionKey(session))
	if err != nil {
		return textPrompt(constant.MsgPleaseRetry)
	}
	if !report.Configured {
		return textPrompt(constant.MsgStatusNotReady)
	}
	return textPrompt(renderStatus(session, report))
}

// commit parses the quantity text and writes through the ledger. Invalid
// input re-prompts in place; a write failure discards the session so the
// user is never stuck behind a half-committed report.
func (c *conversationService) commit(ctx context.Context, session *flow.Session, text string, absolute bool) *dto.Prompt {
	qty, ok := parseQuantity(text)
	if !ok {
		return textPrompt(constant.MsgInvalidNumber)
	}

	key := sessionKey(session)
	var (
		value float64
		err   error
	)
	if absolute {
		value, err = c.ledger.SetQuantity(ctx, session.UserID, key, session.Process, qty)
	} else {
		value, err = c.ledger.AddQuantity(ctx, session.UserID, key, session.Process, qty)
	}

	if err != nil {
		c.sessionRepo.Delete(session.UserID)
		c.sysLogger.Error("conversation", "Commit failed", map[string]interface{}{
			"user": session.UserID, "key": key.String(), "column": session.Process, "error": err.Error(),
		})
		if errors.Is(err, sheets.ErrColumnNotFound) {
			return textPrompt(constant.MsgUnknownColumn)
		}
		return textPrompt(constant.MsgCommitFailed)
	}

	c.sessionRepo.Delete(session.UserID)

	target := session.Client + " / " + session.Project
	if session.Item != "" {
		target += " / " + session.Item
	}
	if absolute {
		return textPrompt(fmt.Sprintf("✅ Corrected: %s — %s set to %s.", target, session.Process, formatNumber(value)))
	}
	return textPrompt(fmt.Sprintf("✅ Recorded: %s — %s is now %s (%+g).", target, session.Process, formatNumber(value), qty))
}

// stepPrompt wraps a prompt with whether option fetching failed, so callers
// know not to advance the stored session.
type stepPrompt struct {
	*dto.Prompt
	failed bool
}

// renderStep builds the prompt for the session's current step from live
// store data. A read failure yields a retry prompt and failed=true.
func (c *conversationService) renderStep(ctx context.Context, session *flow.Session) *stepPrompt {
	switch session.Step {
	case flow.StepSelectClient:
		return c.optionPrompt(ctx, constant.MsgChooseClient, constant.ColumnClient, constant.TokenClient, nil, false)

	case flow.StepSelectProject:
		filters := map[string]string{constant.ColumnClient: session.Client}
		return c.optionPrompt(ctx, constant.MsgChooseProject, constant.ColumnProject, constant.TokenProject, filters, true)

	case flow.StepSelectItem:
		filters := map[string]string{
			constant.ColumnClient:  session.Client,
			constant.ColumnProject: session.Project,
		}
		return c.optionPrompt(ctx, constant.MsgChooseItem, constant.ColumnItem, constant.TokenItem, filters, true)

	case flow.StepSelectProcess:
		return c.processPrompt()

	case flow.StepAwaitQuantity:
		return okPrompt(withControls(&dto.Prompt{Text: constant.MsgAskQuantity}, true))

	case flow.StepAwaitCorrection:
		return okPrompt(withControls(&dto.Prompt{Text: constant.MsgAskCorrection}, true))
	}

	return okPrompt(textPrompt(constant.MsgUseStart))
}

func (c *conversationService) optionPrompt(ctx context.Context, text, column, tokenPrefix string, filters map[string]string, withBack bool) *stepPrompt {
	values, err := c.store.DistinctValues(ctx, column, filters)
	if err != nil {
		c.sysLogger.Warn("conversation", "Option fetch failed", map[string]interface{}{
			"column": column, "error": err.Error(),
		})
		return &stepPrompt{Prompt: textPrompt(constant.MsgPleaseRetry), failed: true}
	}

	prompt := &dto.Prompt{Text: text}
	for _, v := range values {
		prompt.Options = append(prompt.Options, dto.Option{
			Label: v,
			Token: tokenPrefix + constant.TokenSeparator + v,
		})
	}
	return okPrompt(withControls(prompt, withBack))
}

// processPrompt lists the worksheet's process columns. These come from the
// header snapshot, no remote read needed.
func (c *conversationService) processPrompt() *stepPrompt {
	columns := sheets.ProcessColumns(c.store.Headers())
	sort.Slice(columns, func(i, j int) bool {
		return sheets.Normalize(columns[i]) < sheets.Normalize(columns[j])
	})

	prompt := &dto.Prompt{Text: constant.MsgChooseProcess}
	for _, col := range columns {
		prompt.Options = append(prompt.Options, dto.Option{
			Label: col,
			Token: constant.TokenProcess + constant.TokenSeparator + col,
		})
	}
	prompt.Options = append(prompt.Options,
		dto.Option{Label: "↩ Undo last", Token: constant.TokenUndo},
		dto.Option{Label: "📊 Status", Token: constant.TokenStatus},
	)
	return okPrompt(withControls(prompt, true))
}

func (c *conversationService) hasItemColumn() bool {
	return c.store.HasColumn(constant.ColumnItem)
}

func withControls(prompt *dto.Prompt, withBack bool) *dto.Prompt {
	if withBack {
		prompt.Options = append(prompt.Options, dto.Option{Label: "⬅ Back", Token: constant.TokenBack})
	}
	prompt.Options = append(prompt.Options, dto.Option{Label: "✖ Cancel", Token: constant.TokenCancel})
	return prompt
}

func okPrompt(p *dto.Prompt) *stepPrompt {
	return &stepPrompt{Prompt: p}
}

func textPrompt(text string) *dto.Prompt {
	return &dto.Prompt{Text: text}
}

func sessionKey(session *flow.Session) sheets.RowKey {
	return sheets.RowKey{
		Client:  session.Client,
		Project: session.Project,
		Item:    session.Item,
	}
}

func splitToken(payload string) (prefix, value string) {
	parts := strings.SplitN(payload, constant.TokenSeparator, 2)
	prefix = parts[0]
	if len(parts) == 2 {
		value = parts[1]
	}
	return prefix, value
}

// parseQuantity accepts an optionally signed integer or decimal string.
func parseQuantity(text string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func renderStatus(session *flow.Session, report *dto.StatusReport) string {
	target := session.Client + " / " + session.Project
	if session.Item != "" {
		target += " / " + session.Item
	}
	if report.TotalTasks > 0 {
		return fmt.Sprintf("📊 %s: %d of %d tasks completed (%.1f%%).",
			target, report.Completed, report.TotalTasks, report.Percentage)
	}
	return fmt.Sprintf("📊 %s: %s of %s planned units done (%.1f%%).",
		target, formatNumber(report.ActualSum), formatNumber(report.PlanSum), report.Percentage)
}
