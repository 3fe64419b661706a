package consultant

import (
	"testing"

	"github.com/garnizeh/benchwise/pkg/models"
)

func TestDeriveWorkflow_AllFalseBaseline(t *testing.T) {
	c := &models.Consultant{ResumeStatus: models.ResumePending}
	flags := DeriveWorkflow(c, nil, 0)
	if flags != (models.WorkflowFlags{}) {
		t.Errorf("fresh consultant should have all flags false, got %+v", flags)
	}
}

func TestDeriveWorkflow(t *testing.T) {
	tests := []struct {
		name       string
		consultant models.Consultant
		skills     []models.Skill
		attendance int64
		want       models.WorkflowFlags
	}{
		{
			name:       "resume updated",
			consultant: models.Consultant{ResumeStatus: models.ResumeUpdated},
			want:       models.WorkflowFlags{ResumeUpdated: true},
		},
		{
			name:       "attendance only",
			consultant: models.Consultant{ResumeStatus: models.ResumePending},
			attendance: 1,
			want:       models.WorkflowFlags{AttendanceReported: true},
		},
		{
			name:       "opportunities documented",
			consultant: models.Consultant{Opportunities: 3},
			want:       models.WorkflowFlags{OpportunitiesDocumented: true},
		},
		{
			name:   "certificate skill completes training",
			skills: []models.Skill{{Name: "Go", Rating: 7, Source: models.SourceCertificate}},
			want:   models.WorkflowFlags{TrainingCompleted: true},
		},
		{
			name:   "resume skills do not complete training",
			skills: []models.Skill{{Name: "Go", Rating: 7, Source: models.SourceResume}},
			want:   models.WorkflowFlags{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveWorkflow(&tt.consultant, tt.skills, tt.attendance)
			if got != tt.want {
				t.Errorf("DeriveWorkflow() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSummarizeAttendance(t *testing.T) {
	tests := []struct {
		name    string
		records []models.AttendanceRecord
		want    AttendanceSummary
	}{
		{"no days", nil, AttendanceSummary{}},
		{
			"all present",
			[]models.AttendanceRecord{{Status: models.Present}, {Status: models.Present}},
			AttendanceSummary{PresentDays: 2, TotalDays: 2, Percentage: 100},
		},
		{
			"two of three",
			[]models.AttendanceRecord{{Status: models.Present}, {Status: models.Present}, {Status: models.Absent}},
			AttendanceSummary{PresentDays: 2, TotalDays: 3, Percentage: 67},
		},
		{
			"all absent",
			[]models.AttendanceRecord{{Status: models.Absent}},
			AttendanceSummary{TotalDays: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SummarizeAttendance(tt.records)
			if got != tt.want {
				t.Errorf("SummarizeAttendance() = %+v, want %+v", got, tt.want)
			}
			if got.Percentage < 0 || got.Percentage > 100 {
				t.Errorf("percentage out of range: %d", got.Percentage)
			}
		})
	}
}

func TestSummarizeOpportunities(t *testing.T) {
	actions := []models.OpportunityActionRecord{
		{Action: models.ActionAccepted},
		{Action: models.ActionAccepted},
		{Action: models.ActionRejected},
		{Action: models.ActionNoResponse},
	}
	got := SummarizeOpportunities(actions)
	want := OpportunitySummary{Accepted: 2, Rejected: 1, NoResponse: 1}
	if got != want {
		t.Errorf("SummarizeOpportunities() = %+v, want %+v", got, want)
	}
}
