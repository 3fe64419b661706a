package consultant

import (
	"math"

	"github.com/garnizeh/benchwise/pkg/models"
)

// AttendanceSummary is the input shape for the attendance feedback agent.
type AttendanceSummary struct {
	PresentDays int `json:"present_days"`
	TotalDays   int `json:"total_days"`
	Percentage  int `json:"percentage"`
}

// SummarizeAttendance computes present/total counts and the rounded
// percentage. With no tracked days the percentage is 0, not undefined.
func SummarizeAttendance(records []models.AttendanceRecord) AttendanceSummary {
	sum := AttendanceSummary{TotalDays: len(records)}
	for _, r := range records {
		if r.Status == models.Present {
			sum.PresentDays++
		}
	}
	if sum.TotalDays > 0 {
		sum.Percentage = int(math.Round(100 * float64(sum.PresentDays) / float64(sum.TotalDays)))
	}
	return sum
}

// OpportunitySummary is the input shape for the opportunity feedback agent.
type OpportunitySummary struct {
	Accepted   int `json:"accepted"`
	Rejected   int `json:"rejected"`
	NoResponse int `json:"no_response"`
}

// SummarizeOpportunities tallies persisted engagement actions.
func SummarizeOpportunities(actions []models.OpportunityActionRecord) OpportunitySummary {
	var sum OpportunitySummary
	for _, a := range actions {
		switch a.Action {
		case models.ActionAccepted:
			sum.Accepted++
		case models.ActionRejected:
			sum.Rejected++
		case models.ActionNoResponse:
			sum.NoResponse++
		}
	}
	return sum
}
