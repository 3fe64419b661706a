package consultant

import "github.com/garnizeh/benchwise/pkg/models"

// DeriveWorkflow recomputes the four-flag checklist from underlying
// state. The flags are never set directly: every mutating operation
// calls this and persists the result, so the stored copy is only ever a
// cache of this function's output.
func DeriveWorkflow(c *models.Consultant, skills []models.Skill, attendanceCount int64) models.WorkflowFlags {
	flags := models.WorkflowFlags{
		ResumeUpdated:           c.ResumeStatus == models.ResumeUpdated,
		AttendanceReported:      attendanceCount > 0,
		OpportunitiesDocumented: c.Opportunities > 0,
	}
	for _, s := range skills {
		if s.Source == models.SourceCertificate {
			flags.TrainingCompleted = true
			break
		}
	}
	return flags
}
