package constant

// Well-known worksheet column names. Lookups are case-insensitive and
// whitespace-trimmed; these spellings are only the canonical ones used
// when the service itself creates rows or renders messages.
const (
	ColumnClient  = "Client"
	ColumnProject = "Project"
	ColumnItem    = "Item Description"
	ColumnTasks   = "Tasks"
)

// Callback token prefixes. A button press echoes back "<prefix>|<value>".
const (
	TokenClient  = "client"
	TokenProject = "proj"
	TokenItem    = "item"
	TokenProcess = "proc"

	TokenBack   = "back"
	TokenCancel = "cancel"
	TokenUndo   = "undo"
	TokenStatus = "status"

	TokenSeparator = "|"
)

// Text commands understood outside of the numeric-input steps.
const (
	CommandStart  = "/start"
	CommandReport = "/report"
	CommandCancel = "/cancel"
	CommandUndo   = "/undo"
	CommandStatus = "/status"

	KeywordEdit   = "edit"
	KeywordCancel = "cancel"
	KeywordBack   = "back"
)

// Report log entry kinds.
const (
	ReportKindAdd  = "add"
	ReportKindSet  = "set"
	ReportKindUndo = "undo"
)

// User-facing messages.
const (
	MsgChooseClient   = "Choose a client:"
	MsgChooseProject  = "Choose a project:"
	MsgChooseItem     = "Choose an item:"
	MsgChooseProcess  = "Choose a process:"
	MsgAskQuantity    = "Enter the quantity to add (e.g. 12 or +4.5). Send \"edit\" to overwrite the current value instead."
	MsgAskCorrection  = "Enter the corrected absolute value:"
	MsgInvalidNumber  = "That doesn't look like a number. Please send a quantity like 12 or +4.5."
	MsgCancelled      = "Cancelled. Nothing was written. Send /start to begin a new report."
	MsgPleaseRetry    = "The report sheet is not responding right now. Please try again in a moment."
	MsgCommitFailed   = "Saving the report failed, so this report was discarded. Please send /start and try again."
	MsgUseStart       = "Send /start to begin a production report."
	MsgNothingToUndo  = "No process column has a value to undo for that row."
	MsgUnknownColumn  = "That task/process is not recognized on the report sheet."
	MsgStatusNotReady = "No plan is configured for that row yet, so there is no status to report."
)
