package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/benchwise/pkg/models"
)

func (r *SQLiteRepo) CreateSnapshot(ctx context.Context, s *models.SkillSnapshot) (int64, error) {
	if s == nil {
		return 0, fmt.Errorf("snapshot is nil")
	}
	created := s.Created
	if created == 0 {
		created = now()
	}
	res, err := r.conn.Exec(ctx,
		`INSERT INTO skill_snapshots (consultant_id, skills_json, average_score, created) VALUES (?, ?, ?, ?)`,
		s.ConsultantID, s.SkillsJSON, s.AverageScore, created)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRepo) LatestSnapshot(ctx context.Context, consultantID int64) (*models.SkillSnapshot, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, consultant_id, skills_json, average_score, created FROM skill_snapshots
		 WHERE consultant_id = ? ORDER BY created DESC, id DESC LIMIT 1`, consultantID)
	var s models.SkillSnapshot
	if err := row.Scan(&s.ID, &s.ConsultantID, &s.SkillsJSON, &s.AverageScore, &s.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
