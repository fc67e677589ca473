package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store records launches in Postgres. Optional: when no DSN is
// configured the launcher runs without a ledger.
type Store struct {
	db *gorm.DB
}

// NewStore initializes the GORM connection and migrates the run table.
func NewStore(dsn string) (*Store, error) {
	config := &gorm.Config{
		Logger:      gormlogger.Default.LogMode(gormlogger.Warn),
		PrepareStmt: true,
	}

	db, err := gorm.Open(postgres.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// A launcher holds at most one run; a small pool is plenty.
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Run{}); err != nil {
		return nil, fmt.Errorf("schema migration failed: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateRun persists a new run record in PENDING state.
func (s *Store) CreateRun(ctx context.Context, run *Run) error {
	result := s.db.WithContext(ctx).Create(run)
	if result.Error != nil {
		return fmt.Errorf("failed to create run: %w", result.Error)
	}
	return nil
}

// MarkRunning records that the trainer process has started.
func (s *Store) MarkRunning(ctx context.Context, id uuid.UUID, startedAt time.Time) error {
	result := s.db.WithContext(ctx).Model(&Run{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     RunRunning,
			"started_at": startedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark run running: %w", result.Error)
	}
	return nil
}

// MarkFinished records the trainer's outcome.
func (s *Store) MarkFinished(ctx context.Context, id uuid.UUID, status RunStatus, exitCode int, startedAt, finishedAt time.Time) error {
	result := s.db.WithContext(ctx).Model(&Run{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      status,
			"exit_code":   exitCode,
			"started_at":  startedAt,
			"finished_at": finishedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark run finished: %w", result.Error)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	var run Run
	result := s.db.WithContext(ctx).First(&run, "id = ?", id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &run, nil
}

// ListRecent returns the most recent runs.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Run, error) {
	var runs []Run
	result := s.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&runs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list runs: %w", result.Error)
	}
	return runs, nil
}
