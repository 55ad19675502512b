package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ReportType string

const (
	ReportSpam          ReportType = "spam"
	ReportHarassment    ReportType = "harassment"
	ReportInappropriate ReportType = "inappropriate"
	ReportFakeProfile   ReportType = "fake_profile"
	ReportOther         ReportType = "other"
)

func ParseReportType(s string) (ReportType, error) {
	switch t := ReportType(strings.ToLower(strings.TrimSpace(s))); t {
	case ReportSpam, ReportHarassment, ReportInappropriate, ReportFakeProfile, ReportOther:
		return t, nil
	}
	return "", ErrInvalidArgument
}

// Report flags the counterparty of a chat for moderation.
type Report struct {
	ID             string     `json:"id"`
	ChatID         string     `json:"chat_id"`
	ReportedUserID string     `json:"reported_user_id"`
	ReportedBy     string     `json:"reported_by"`
	Type           ReportType `json:"type"`
	Description    string     `json:"description"`
	CreatedAt      time.Time  `json:"created_at"`
}

func NewReport(chatID, reportedUserID, reportedBy string, t ReportType, description string) Report {
	return Report{
		ID:             uuid.NewString(),
		ChatID:         chatID,
		ReportedUserID: reportedUserID,
		ReportedBy:     reportedBy,
		Type:           t,
		Description:    strings.TrimSpace(description),
		CreatedAt:      time.Now().UTC(),
	}
}
