package metrics

import "time"

// Summary is the immutable result of a finished run.
//
// For a run that was not interrupted, Sent == Received == Total and
// Succeeded+Failed == Received. Percentages are relative to Received and all
// durations are zero when nothing was received.
type Summary struct {
	Total     int64 `json:"total"`
	Sent      int64 `json:"sent"`
	Received  int64 `json:"received"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`

	// StatusFailures and TransportFailures split Failed for diagnostics only.
	StatusFailures    int64 `json:"statusFailures"`
	TransportFailures int64 `json:"transportFailures"`

	SuccessPercent float64 `json:"successPercent"`
	FailurePercent float64 `json:"failurePercent"`

	Average time.Duration `json:"average"`
	Min     time.Duration `json:"min"`
	Max     time.Duration `json:"max"`
}

// Complete reports whether every planned request produced an outcome.
func (s Summary) Complete() bool {
	return s.Received == s.Total && s.Succeeded+s.Failed == s.Received
}
