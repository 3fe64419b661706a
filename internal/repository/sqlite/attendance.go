package sqlite

import (
	"context"
	"fmt"

	"github.com/garnizeh/benchwise/pkg/models"
)

// UpsertAttendance keeps one row per (consultant, day): marking the same
// day again overwrites the status instead of adding a second record.
func (r *SQLiteRepo) UpsertAttendance(ctx context.Context, rec *models.AttendanceRecord) (int64, error) {
	if rec == nil {
		return 0, fmt.Errorf("attendance record is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO attendance (consultant_id, day, status, updated)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (consultant_id, day) DO UPDATE SET status = excluded.status, updated = excluded.updated`,
		rec.ConsultantID, rec.Day, rec.Status, now())
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.conn.QueryRow(ctx, `SELECT id FROM attendance WHERE consultant_id = ? AND day = ?`,
		rec.ConsultantID, rec.Day).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *SQLiteRepo) ListAttendanceByConsultant(ctx context.Context, consultantID int64) ([]models.AttendanceRecord, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT id, consultant_id, day, status, updated FROM attendance WHERE consultant_id = ? ORDER BY day`,
		consultantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AttendanceRecord
	for rows.Next() {
		var rec models.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.ConsultantID, &rec.Day, &rec.Status, &rec.Updated); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) CountAttendanceByConsultant(ctx context.Context, consultantID int64) (int64, error) {
	var n int64
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM attendance WHERE consultant_id = ?`, consultantID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
