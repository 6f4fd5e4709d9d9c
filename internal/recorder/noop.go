package recorder

import "TickerSentry/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *RunRecord) error { return nil }
func (n *NoopRecorder) RecordTrigger(_ string, _ *model.TriggerResult, _ string) error {
	return nil
}
func (n *NoopRecorder) Close() error { return nil }
