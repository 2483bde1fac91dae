package report

import "time"

const (
	StatusPending   = "pending"
	StatusReviewed  = "reviewed"
	StatusDismissed = "dismissed"

	resolvedNote = "Reported content deleted"
	unknownUser  = "unknown"
)

var Statuses = []string{StatusPending, StatusReviewed, StatusDismissed}

// Row mirrors reports.
type Row struct {
	ID             string     `json:"id"`
	ReporterID     string     `json:"reporter_id"`
	ReportedUserID string     `json:"reported_user_id"`
	ContentType    string     `json:"content_type"`
	ContentID      *string    `json:"content_id"`
	Reason         string     `json:"reason"`
	Details        *string    `json:"details"`
	Status         string     `json:"status"`
	AdminNotes     *string    `json:"admin_notes"`
	ResolvedAt     *time.Time `json:"resolved_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ListRow is a report joined with the usernames on both sides.
type ListRow struct {
	Row
	ReporterUsername *string
	ReportedUsername *string
}

type Report struct {
	ID               string     `json:"id"`
	ReporterUsername string     `json:"reporterUsername"`
	ReportedUsername string     `json:"reportedUsername"`
	ReportedUserID   string     `json:"reportedUserId"`
	ContentType      string     `json:"contentType"`
	ContentID        *string    `json:"contentId,omitempty"`
	Reason           string     `json:"reason"`
	Details          *string    `json:"details,omitempty"`
	Status           string     `json:"status"`
	AdminNotes       *string    `json:"adminNotes,omitempty"`
	ResolvedAt       *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// FromRow maps a joined row. Users that no longer exist show as "unknown".
func FromRow(r ListRow) Report {
	return Report{
		ID:               r.ID,
		ReporterUsername: orUnknown(r.ReporterUsername),
		ReportedUsername: orUnknown(r.ReportedUsername),
		ReportedUserID:   r.ReportedUserID,
		ContentType:      r.ContentType,
		ContentID:        r.ContentID,
		Reason:           r.Reason,
		Details:          r.Details,
		Status:           r.Status,
		AdminNotes:       r.AdminNotes,
		ResolvedAt:       r.ResolvedAt,
		CreatedAt:        r.CreatedAt,
	}
}

func orUnknown(s *string) string {
	if s == nil || *s == "" {
		return unknownUser
	}
	return *s
}

// Resolves reports whether moving to status closes the report.
func Resolves(status string) bool {
	return status == StatusReviewed || status == StatusDismissed
}

// StatusInput is a validated status change.
type StatusInput struct {
	Status     string  `form:"status" validate:"required,oneof=pending reviewed dismissed"`
	AdminNotes *string `form:"admin_notes"`
}
