package intent

import "strings"

// Intent is the help category a query is routed to.
type Intent string

const (
	JobOpportunities   Intent = "Job Opportunities"
	MentorshipPrograms Intent = "Mentorship Programs"
	CommunityEvents    Intent = "Community Events"
	Unknown            Intent = "Unknown"
)

// Route maps a raw classifier label to an Intent by case-insensitive
// substring match. Checks run in a fixed order and the first hit wins:
// "job", then "community" or "event", then "mentorship".
func Route(label string) Intent {
	normalized := strings.ToLower(label)
	switch {
	case strings.Contains(normalized, "job"):
		return JobOpportunities
	case strings.Contains(normalized, "community"), strings.Contains(normalized, "event"):
		return CommunityEvents
	case strings.Contains(normalized, "mentorship"):
		return MentorshipPrograms
	default:
		return Unknown
	}
}

// Label is the metric label for the intent.
func (i Intent) Label() string {
	switch i {
	case JobOpportunities:
		return "job"
	case CommunityEvents:
		return "community"
	case MentorshipPrograms:
		return "mentorship"
	default:
		return "unknown"
	}
}
