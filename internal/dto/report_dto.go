package dto

// StatusReport is the derived completion summary for one row.
// Configured is false when the row is missing or no denominator exists; the
// caller renders a friendly message instead of an error.
type StatusReport struct {
	Configured bool    `json:"configured"`
	Completed  int     `json:"completed"`
	TotalTasks int     `json:"total_tasks"`
	ActualSum  float64 `json:"actual_sum"`
	PlanSum    float64 `json:"plan_sum"`
	Percentage float64 `json:"percentage"`
}

// StatusQueryRequest is the REST query surface for ComputeStatus.
type StatusQueryRequest struct {
	Client  string `query:"client" validate:"required"`
	Project string `query:"project" validate:"required"`
	Item    string `query:"item"`
}

// PublishReportLogMessage is the watermill payload queued on every successful
// ledger write; the consumer appends it to the log worksheet.
type PublishReportLogMessage struct {
	Id         string  `json:"id"`
	OccurredAt string  `json:"occurred_at"`
	UserID     string  `json:"user_id"`
	Client     string  `json:"client"`
	Project    string  `json:"project"`
	Item       string  `json:"item"`
	Process    string  `json:"process"`
	Delta      float64 `json:"delta"`
	Kind       string  `json:"kind"`
	RawText    string  `json:"raw_text"`
}
