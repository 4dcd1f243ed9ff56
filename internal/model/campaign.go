// internal/model/campaign.go
package model

import (
	"time"

	"github.com/unclebandit/pulsecrm-backend/internal/segment"
)

// Campaign statuses form a one-way state machine. The status field is never
// re-derived from communication logs; the per-log counts on CampaignWithStats
// are the only source of delivery truth and may disagree with Status.
const (
	CampaignStatusDraft                = "draft"
	CampaignStatusScheduled            = "scheduled"
	CampaignStatusSending              = "sending"
	CampaignStatusCompleted            = "completed"
	CampaignStatusCompletedWithPending = "completed_with_pending"
	CampaignStatusFailed               = "failed"
)

type Campaign struct {
	ID           int           `db:"id" json:"id"`
	Name         string        `db:"name" json:"name"`
	Description  *string       `db:"description" json:"description,omitempty"`
	Rules        segment.Rules `db:"rules" json:"rules"`
	Message      string        `db:"message" json:"message"`
	AudienceSize int           `db:"audience_size" json:"audience_size"`
	Status       string        `db:"status" json:"status"`
	ScheduledAt  *time.Time    `db:"scheduled_at" json:"scheduled_at,omitempty"`
	CreatedBy    int           `db:"created_by" json:"created_by"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
}

// CampaignWithStats carries grouped communication-log counts joined at read
// time. sent+failed+pending always equals the number of logs created.
type CampaignWithStats struct {
	Campaign
	SentCount    int `json:"sent_count"`
	FailedCount  int `json:"failed_count"`
	PendingCount int `json:"pending_count"`
}
