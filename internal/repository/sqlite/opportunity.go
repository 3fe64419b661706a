package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/garnizeh/benchwise/pkg/models"
)

func (r *SQLiteRepo) ListOpportunities(ctx context.Context) ([]models.JobOpportunity, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT id, title, required_skills, min_years, responsibilities FROM job_opportunities ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.JobOpportunity
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) GetOpportunity(ctx context.Context, id int64) (*models.JobOpportunity, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, title, required_skills, min_years, responsibilities FROM job_opportunities WHERE id = ?`, id)
	o, err := scanOpportunity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return o, err
}

func (r *SQLiteRepo) CreateOpportunityAction(ctx context.Context, a *models.OpportunityActionRecord) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("action is nil")
	}
	created := a.Created
	if created == 0 {
		created = now()
	}
	res, err := r.conn.Exec(ctx,
		`INSERT INTO opportunity_actions (consultant_id, opportunity_id, action, created) VALUES (?, ?, ?, ?)`,
		a.ConsultantID, a.OpportunityID, a.Action, created)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRepo) ListActionsByConsultant(ctx context.Context, consultantID int64) ([]models.OpportunityActionRecord, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT id, consultant_id, opportunity_id, action, created FROM opportunity_actions WHERE consultant_id = ? ORDER BY created, id`,
		consultantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.OpportunityActionRecord
	for rows.Next() {
		var a models.OpportunityActionRecord
		if err := rows.Scan(&a.ID, &a.ConsultantID, &a.OpportunityID, &a.Action, &a.Created); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanOpportunity(row scanner) (*models.JobOpportunity, error) {
	var o models.JobOpportunity
	var skills string
	if err := row.Scan(&o.ID, &o.Title, &skills, &o.MinYears, &o.Responsibilities); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(skills), &o.RequiredSkills); err != nil {
		return nil, fmt.Errorf("decode required skills: %w", err)
	}
	return &o, nil
}
