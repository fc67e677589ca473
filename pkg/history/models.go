package history

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RunStatus represents the state of a recorded launch.
type RunStatus string

const (
	RunPending       RunStatus = "PENDING"
	RunRunning       RunStatus = "RUNNING"
	RunSucceeded     RunStatus = "SUCCEEDED"
	RunFailed        RunStatus = "FAILED"
	RunDispatchError RunStatus = "DISPATCH_ERROR"
)

// RunValues stores the resolved configuration as JSONB.
type RunValues map[string]any

func (v *RunValues) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, v)
}

func (v RunValues) Value() (driver.Value, error) {
	return json.Marshal(v)
}

// Run is one recorded launch of the external trainer. The ledger is an
// audit trail only; launcher semantics never depend on it.
type Run struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string     `json:"name" gorm:"index"`
	OutputDir  string     `json:"output_dir" gorm:"not null"`
	EntryPoint string     `json:"entry_point" gorm:"not null"`
	Config     RunValues  `json:"config" gorm:"type:jsonb"`
	Status     RunStatus  `json:"status" gorm:"type:varchar(20);default:'PENDING'"`
	ExitCode   int        `json:"exit_code"`
	StartedAt  *time.Time `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// BeforeCreate hook to generate UUID if not present
func (r *Run) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
