package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/garnizeh/benchwise/pkg/models"
)

const consultantColumns = `id, name, email, password_hash, role, department, status,
	resume_status, opportunities, training, selected_opps,
	wf_resume_updated, wf_attendance_reported, wf_opportunities_documented, wf_training_completed,
	updated`

func (r *SQLiteRepo) CreateConsultant(ctx context.Context, c *models.Consultant) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("consultant is nil")
	}

	opps, err := json.Marshal(selectedOrEmpty(c.SelectedOpps))
	if err != nil {
		return 0, err
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO consultants
		(name, email, password_hash, role, department, status, resume_status, opportunities, training, selected_opps,
		 wf_resume_updated, wf_attendance_reported, wf_opportunities_documented, wf_training_completed, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Name, strings.ToLower(c.Email), c.PasswordHash, c.Role, c.Department, c.Status,
		c.ResumeStatus, c.Opportunities, c.Training, string(opps),
		boolToInt(c.Workflow.ResumeUpdated), boolToInt(c.Workflow.AttendanceReported),
		boolToInt(c.Workflow.OpportunitiesDocumented), boolToInt(c.Workflow.TrainingCompleted),
		now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetByID(ctx context.Context, id int64) (*models.Consultant, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+consultantColumns+` FROM consultants WHERE id = ?`, id)
	return scanConsultant(row)
}

func (r *SQLiteRepo) GetByEmail(ctx context.Context, email string) (*models.Consultant, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+consultantColumns+` FROM consultants WHERE email = ?`, strings.ToLower(email))
	return scanConsultant(row)
}

func (r *SQLiteRepo) ListConsultants(ctx context.Context, limit, offset int) ([]models.Consultant, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.conn.QueryRows(ctx, `SELECT `+consultantColumns+` FROM consultants ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Consultant
	for rows.Next() {
		c, err := scanConsultant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) CountConsultants(ctx context.Context) (int64, error) {
	var n int64
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM consultants`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *SQLiteRepo) UpdateConsultant(ctx context.Context, c *models.Consultant) error {
	if c == nil {
		return fmt.Errorf("consultant is nil")
	}

	opps, err := json.Marshal(selectedOrEmpty(c.SelectedOpps))
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(ctx, `UPDATE consultants SET
		name = ?, email = ?, password_hash = ?, role = ?, department = ?, status = ?,
		resume_status = ?, opportunities = ?, training = ?, selected_opps = ?,
		wf_resume_updated = ?, wf_attendance_reported = ?, wf_opportunities_documented = ?, wf_training_completed = ?,
		updated = ?
		WHERE id = ?`,
		c.Name, strings.ToLower(c.Email), c.PasswordHash, c.Role, c.Department, c.Status,
		c.ResumeStatus, c.Opportunities, c.Training, string(opps),
		boolToInt(c.Workflow.ResumeUpdated), boolToInt(c.Workflow.AttendanceReported),
		boolToInt(c.Workflow.OpportunitiesDocumented), boolToInt(c.Workflow.TrainingCompleted),
		now(), c.ID)
	return err
}

func (r *SQLiteRepo) DeleteConsultant(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM consultants WHERE id = ?`, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConsultant(row scanner) (*models.Consultant, error) {
	var c models.Consultant
	var opps string
	var wfResume, wfAttendance, wfOpps, wfTraining int
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.Role, &c.Department, &c.Status,
		&c.ResumeStatus, &c.Opportunities, &c.Training, &opps,
		&wfResume, &wfAttendance, &wfOpps, &wfTraining, &c.Updated)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if err := json.Unmarshal([]byte(opps), &c.SelectedOpps); err != nil {
		return nil, fmt.Errorf("decode selected opportunities: %w", err)
	}
	c.Workflow = models.WorkflowFlags{
		ResumeUpdated:           wfResume != 0,
		AttendanceReported:      wfAttendance != 0,
		OpportunitiesDocumented: wfOpps != 0,
		TrainingCompleted:       wfTraining != 0,
	}
	return &c, nil
}

func selectedOrEmpty(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
