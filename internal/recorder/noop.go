package recorder

import "context"

// NoopRecorder is a no-op implementation used when no history database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ context.Context, run *RunRecord) (string, error) {
	return run.ID, nil
}
func (n *NoopRecorder) ListRuns(_ context.Context, _ int) ([]RunSummary, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                            { return nil }
