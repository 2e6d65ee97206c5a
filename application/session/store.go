package session

import (
	"sync"

	"product-media-pipeline/domain/catalog"
	"product-media-pipeline/domain/distribution"
	"product-media-pipeline/domain/pipeline"
)

// Mode is the UI mode the session is currently in.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeBatch  Mode = "batch"
)

// Store holds process-scoped state that survives across mode switches:
// the current batch's input set and report (mode-specific, cleared on
// switch) and the credentials and remote folder id (cross-mode,
// preserved). Created empty at session start; no persistence beyond the
// running session.
type Store struct {
	mu sync.Mutex

	mode    Mode
	records []catalog.ProductRecord
	csvRef  string
	report  *pipeline.BatchRunReport

	credentials     *distribution.Credentials
	outputsFolderID string
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{mode: ModeSingle}
}

// SetCredentials stores the resolved credentials for the session.
// Cross-mode: survives Reset.
func (s *Store) SetCredentials(c *distribution.Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials = c
}

// Credentials returns the stored credentials, or nil.
func (s *Store) Credentials() *distribution.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credentials
}

// SetOutputsFolderID stores the remote outputs folder reference.
// Cross-mode: survives Reset.
func (s *Store) SetOutputsFolderID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputsFolderID = id
}

// OutputsFolderID returns the stored remote folder reference.
func (s *Store) OutputsFolderID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outputsFolderID
}

// SetCSVRef records which uploaded CSV the current batch came from.
// Mode-specific: cleared on Reset.
func (s *Store) SetCSVRef(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.csvRef = ref
}

// CSVRef returns the current batch's CSV reference.
func (s *Store) CSVRef() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.csvRef
}

// SetBatch installs a new input set and replaces the report wholesale.
// The store holds exactly one current batch at a time.
func (s *Store) SetBatch(records []catalog.ProductRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.report = pipeline.NewBatchRunReport()
}

// Records returns the current batch's input set.
func (s *Store) Records() []catalog.ProductRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records
}

// AppendOutcome records one completed row outcome. Called by the
// orchestrator as each record finishes.
func (s *Store) AppendOutcome(o pipeline.RowOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		s.report = pipeline.NewBatchRunReport()
	}
	s.report.Append(o)
}

// Report returns the current batch's report. Mid-run it contains a
// prefix of the final outcomes; nil when no batch has been set.
func (s *Store) Report() *pipeline.BatchRunReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// Mode returns the session's current mode.
func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Reset switches the session mode, clearing mode-specific fields (batch
// input, report, CSV reference) while preserving cross-mode fields
// (credentials, outputs folder id).
func (s *Store) Reset(switchedTo Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = switchedTo
	s.records = nil
	s.csvRef = ""
	s.report = nil
}
