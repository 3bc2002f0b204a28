package types

// BatchSummary aggregates the terminal outcomes of one batch run.
type BatchSummary struct {
	Files     int64 `json:"files"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
	BytesSent int64 `json:"bytes_sent"`
}
