package recorder

import (
	"context"
	"time"

	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/google/uuid"
)

// RunRecord is one CLI invocation's results as written to history.
type RunRecord struct {
	ID         string
	CreatedAt  time.Time
	Command    string
	ConfigPath string
	Comparison *domain.ScenarioComparison
}

// RunSummary is a stored run read back from history.
type RunSummary struct {
	ID                string
	CreatedAt         time.Time
	Command           string
	ConfigPath        string
	InitialAssets     string
	Scenarios         []ScenarioRow
	RecommendedTarget string
	SuccessRate       string
}

// ScenarioRow is the stored outcome of one deterministic scenario.
type ScenarioRow struct {
	Scenario     string
	FireAchieved bool
	FireMonth    int
	FireAge      float64
	Ruined       bool
	RuinMonth    int
	FinalAssets  string
}

// Recorder persists run history.
type Recorder interface {
	RecordRun(ctx context.Context, run *RunRecord) (string, error)
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
	Close() error
}

var (
	nowFunc = time.Now
	newID   = func() string { return uuid.NewString() }
)

// NewRunRecord stamps a comparison with a fresh run id and timestamp.
func NewRunRecord(command, configPath string, cmp *domain.ScenarioComparison) *RunRecord {
	return &RunRecord{
		ID:         newID(),
		CreatedAt:  nowFunc().UTC(),
		Command:    command,
		ConfigPath: configPath,
		Comparison: cmp,
	}
}
