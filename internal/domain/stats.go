package domain

import "time"

// FetchOutcome is the result of one fetch cycle against a source.
type FetchOutcome struct {
	SourceID string
	Records  int
	Duration time.Duration
	At       time.Time
	Err      error
}

// SourceStats is the operational record kept per upstream source. It never
// holds fetched content.
type SourceStats struct {
	SourceID            string    `json:"sourceId"`
	Fetches             int64     `json:"fetches"`
	Failures            int64     `json:"failures"`
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	LastRecords         int       `json:"lastRecords"`
	LastDurationMs      int64     `json:"lastDurationMs"`
	LastFetchAt         time.Time `json:"lastFetchAt"`
	LastSuccessAt       time.Time `json:"lastSuccessAt,omitzero"`
	LastError           string    `json:"lastError,omitempty"`
}

// Apply folds o into the stats.
func (s *SourceStats) Apply(o FetchOutcome) {
	s.SourceID = o.SourceID
	s.Fetches++
	s.LastDurationMs = o.Duration.Milliseconds()
	s.LastFetchAt = o.At

	if o.Err != nil {
		s.Failures++
		s.ConsecutiveFailures++
		s.LastError = o.Err.Error()
		return
	}

	s.ConsecutiveFailures = 0
	s.LastError = ""
	s.LastRecords = o.Records
	s.LastSuccessAt = o.At
}

// Healthy reports whether the last fetch succeeded.
func (s SourceStats) Healthy() bool {
	return s.ConsecutiveFailures == 0
}
