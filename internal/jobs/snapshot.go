package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/garnizeh/benchwise/internal/consultant"
	"github.com/garnizeh/benchwise/pkg/models"
	"github.com/garnizeh/benchwise/pkg/repository"
)

// SnapshotHandler returns the handler for TypeSkillSnapshot jobs: it
// copies the consultant's current skill list and average score into
// skill_snapshots. Missing consultants are not an error; the row may
// have been deleted between enqueue and execution.
func SnapshotHandler(skills repository.SkillRepo, snapshots repository.SnapshotRepo) Handler {
	return func(ctx context.Context, j *Job) error {
		var p SnapshotPayload
		if err := json.Unmarshal(j.Payload, &p); err != nil {
			return fmt.Errorf("decode snapshot payload: %w", err)
		}
		if p.ConsultantID <= 0 {
			return fmt.Errorf("invalid consultant id %d", p.ConsultantID)
		}

		list, err := skills.ListSkillsByConsultant(ctx, p.ConsultantID)
		if err != nil {
			return fmt.Errorf("list skills: %w", err)
		}

		b, err := json.Marshal(list)
		if err != nil {
			return fmt.Errorf("marshal skills: %w", err)
		}

		snap := &models.SkillSnapshot{
			ConsultantID: p.ConsultantID,
			SkillsJSON:   string(b),
			AverageScore: consultant.AverageScore(list),
			Created:      time.Now().UTC().UnixMilli(),
		}
		if _, err := snapshots.CreateSnapshot(ctx, snap); err != nil {
			return fmt.Errorf("create snapshot: %w", err)
		}
		return nil
	}
}
