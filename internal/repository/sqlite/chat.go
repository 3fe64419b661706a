package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/benchwise/pkg/models"
)

func (r *SQLiteRepo) CreateChatMessage(ctx context.Context, m *models.ChatMessage) (int64, error) {
	if m == nil {
		return 0, fmt.Errorf("message is nil")
	}
	created := m.Created
	if created == 0 {
		created = now()
	}
	res, err := r.conn.Exec(ctx,
		`INSERT INTO chat_messages (session_id, consultant_id, role, content, created) VALUES (?, ?, ?, ?, ?)`,
		m.SessionID, m.ConsultantID, m.Role, m.Content, created)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListChatMessages returns the most recent messages of a session in
// chronological order.
func (r *SQLiteRepo) ListChatMessages(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.conn.QueryRows(ctx,
		`SELECT id, session_id, consultant_id, role, content, created FROM (
			SELECT id, session_id, consultant_id, role, content, created FROM chat_messages
			WHERE session_id = ? ORDER BY created DESC, id DESC LIMIT ?
		 ) ORDER BY created, id`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		var consultantID sql.NullInt64
		if err := rows.Scan(&m.ID, &m.SessionID, &consultantID, &m.Role, &m.Content, &m.Created); err != nil {
			return nil, err
		}
		if consultantID.Valid {
			id := consultantID.Int64
			m.ConsultantID = &id
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
