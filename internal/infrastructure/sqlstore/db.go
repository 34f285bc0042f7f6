// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package sqlstore

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/logging"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// Supported SQL drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects and configures the SQL backend.
type Config struct {
	Driver string
	// DSN is a sqlite file path or DSN, or a postgres connection string.
	DSN string
}

// migrateModels lists the tables created on startup.
var migrateModels = []any{
	&participantRow{},
	&meetingRow{},
	&topicRow{},
	&meetingParticipantRow{},
	&votingRow{},
	&voterRow{},
}

// Open connects to the configured database, installs tracing and migrates the schema.
func Open(cfg Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("postgres DSN is required")
		}
		gormConfig.PrepareStmt = true
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported SQL driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	if cfg.Driver == DriverSQLite {
		// sqlite allows a single writer
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, fmt.Errorf("install gorm tracing: %w", err)
	}

	for _, model := range migrateModels {
		slog.Debug("migrating table", "model", fmt.Sprintf("%T", model))
		if err := db.AutoMigrate(model); err != nil {
			return nil, fmt.Errorf("migrate %T: %w", model, err)
		}
	}

	return db, nil
}

// NewRepositories wires every SQL repository to db.
func NewRepositories(db *gorm.DB) domain.Repositories {
	return domain.Repositories{
		Participant:        &ParticipantRepository{db: db},
		Meeting:            &MeetingRepository{db: db},
		Topic:              &TopicRepository{db: db},
		MeetingParticipant: &MeetingParticipantRepository{db: db},
		Voting:             &VotingRepository{db: db},
		Voter:              &VoterRepository{db: db},
	}
}

// Ping reports whether the database answers.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// isDuplicate recognises unique violations from drivers that do not
// translate them into gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

// translate maps a gorm error into a domain error for entity.
func translate(err error, entity string, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NewNotFoundError(fmt.Sprintf("%s not found", entity), notFound)
	case isDuplicate(err):
		return domain.NewConflictError(fmt.Sprintf("%s already exists", entity), domain.ErrAlreadyExists, err)
	default:
		slog.Error(fmt.Sprintf("error accessing %s in SQL store", entity), logging.ErrKey, err)
		return domain.NewInternalError(fmt.Sprintf("failed to access %s in store", entity), err)
	}
}

// updateVersioned applies values to the row with uid when its version still
// equals revision and bumps the version.
func updateVersioned(tx *gorm.DB, model any, uid string, revision uint64, values map[string]any, entity string, notFound error) error {
	values["version"] = gorm.Expr("version + 1")
	result := tx.Model(model).Where("uid = ? AND version = ?", uid, revision).Updates(values)
	if result.Error != nil {
		return translate(result.Error, entity, notFound)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.Model(model).Where("uid = ?", uid).Count(&count).Error; err != nil {
		return translate(err, entity, notFound)
	}
	if count == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("%s '%s' not found", entity, uid), notFound)
	}
	return domain.NewConflictError(fmt.Sprintf("%s has been modified", entity), domain.ErrRevisionMismatch)
}
