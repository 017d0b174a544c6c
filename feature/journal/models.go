package journal

import "time"

// Run statuses.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// RunRecord represents the 'sync_runs' table.
type RunRecord struct {
	ID         string     `gorm:"column:id;primaryKey;size:36"`
	StartedAt  time.Time  `gorm:"column:started_at;index"`
	FinishedAt *time.Time `gorm:"column:finished_at"`
	DryRun     bool       `gorm:"column:dry_run"`
	Status     string     `gorm:"column:status;size:16"`
	Total      int        `gorm:"column:total"`
	New        int        `gorm:"column:new"`
	Updated    int        `gorm:"column:updated"`
	Deleted    int        `gorm:"column:deleted"`
	Skipped    int        `gorm:"column:skipped"`
	Failed     int        `gorm:"column:failed"`
	Error      string     `gorm:"column:error;type:text"`
}

// TableName overrides the table name used by RunRecord.
func (RunRecord) TableName() string {
	return "sync_runs"
}

// EventOutcomeRecord represents the 'sync_event_outcomes' table.
type EventOutcomeRecord struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	RunID     string    `gorm:"column:run_id;size:36;index"`
	EventID   int       `gorm:"column:event_id"`
	Title     string    `gorm:"column:title;size:255"`
	Result    string    `gorm:"column:result;size:16"`
	Actions   string    `gorm:"column:actions;type:text"`
	Error     string    `gorm:"column:error;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName overrides the table name used by EventOutcomeRecord.
func (EventOutcomeRecord) TableName() string {
	return "sync_event_outcomes"
}
