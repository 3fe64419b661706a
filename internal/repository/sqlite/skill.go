package sqlite

import (
	"context"
	"fmt"

	"github.com/garnizeh/benchwise/pkg/models"
)

// ReplaceSkills swaps the consultant's skill list for the merged one in
// a single transaction, so readers never observe a half-written list.
func (r *SQLiteRepo) ReplaceSkills(ctx context.Context, consultantID int64, skills []models.Skill) error {
	tx, err := r.conn.GetConn().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM skills WHERE consultant_id = ?`, consultantID); err != nil {
		return fmt.Errorf("clear skills: %w", err)
	}

	ts := now()
	for _, s := range skills {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO skills (consultant_id, name, rating, reasoning, source, updated) VALUES (?, ?, ?, ?, ?, ?)`,
			consultantID, s.Name, s.Rating, s.Reasoning, s.Source, ts); err != nil {
			return fmt.Errorf("insert skill %q: %w", s.Name, err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRepo) ListSkillsByConsultant(ctx context.Context, consultantID int64) ([]models.Skill, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT id, consultant_id, name, rating, reasoning, source, updated FROM skills WHERE consultant_id = ? ORDER BY id`,
		consultantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Skill
	for rows.Next() {
		var s models.Skill
		if err := rows.Scan(&s.ID, &s.ConsultantID, &s.Name, &s.Rating, &s.Reasoning, &s.Source, &s.Updated); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
