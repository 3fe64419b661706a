package sqlite

import (
	"time"

	"log/slog"

	"github.com/garnizeh/benchwise/internal/db"
	"github.com/garnizeh/benchwise/pkg/repository"
)

// SQLiteRepo implements the repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.ConsultantRepo = (*SQLiteRepo)(nil)
var _ repository.SkillRepo = (*SQLiteRepo)(nil)
var _ repository.AttendanceRepo = (*SQLiteRepo)(nil)
var _ repository.OpportunityRepo = (*SQLiteRepo)(nil)
var _ repository.SnapshotRepo = (*SQLiteRepo)(nil)
var _ repository.ChatRepo = (*SQLiteRepo)(nil)
var _ repository.SchemaRepo = (*SQLiteRepo)(nil)
var _ repository.TemplateRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

// Repo bundles one SQLiteRepo behind every repository contract.
func (r *SQLiteRepo) Repo() *repository.Repository {
	return &repository.Repository{
		Consultant:  r,
		Skill:       r,
		Attendance:  r,
		Opportunity: r,
		Snapshot:    r,
		Chat:        r,
		Schema:      r,
		Template:    r,
	}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}
