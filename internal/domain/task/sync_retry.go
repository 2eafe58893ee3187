package task

// SyncRetryTask is a failed cart sync queued for another attempt.
type SyncRetryTask struct {
	ItemID     string `json:"item_id"`
	Size       string `json:"size"`
	RetryCount int    `json:"retry_count"`
	Error      string `json:"error"`
}

func (t *SyncRetryTask) TaskType() string {
	return "SyncRetryTask"
}

func (t *SyncRetryTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
