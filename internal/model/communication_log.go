// internal/model/communication_log.go
package model

import "time"

const (
	LogStatusPending = "pending"
	LogStatusSent    = "sent"
	LogStatusFailed  = "failed"
)

// CommunicationLog records the lifecycle of one personalized message sent to
// one customer within one campaign. Rows are created in bulk at dispatch time
// and mutated once by a delivery receipt (last write wins, no sequence check).
type CommunicationLog struct {
	ID            int        `db:"id" json:"id"`
	CampaignID    int        `db:"campaign_id" json:"campaign_id"`
	CustomerID    int        `db:"customer_id" json:"customer_id"`
	Message       string     `db:"message" json:"message"`
	Status        string     `db:"status" json:"status"`
	SentAt        *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	FailureReason *string    `db:"failure_reason" json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}
