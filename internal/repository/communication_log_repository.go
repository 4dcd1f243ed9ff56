package repository

import (
	"database/sql"
	"time"

	"github.com/unclebandit/pulsecrm-backend/internal/model"
)

type CommunicationLogRepositoryInterface interface {
	Create(l *model.CommunicationLog) error
	GetByID(id int) (*model.CommunicationLog, error)
	UpdateStatus(id int, status, failureReason string) error
	ListByCampaign(campaignID int) ([]model.CommunicationLog, error)
	CountResolved(campaignID int) (int, error)
}

type CommunicationLogRepository struct {
	DB *sql.DB
}

func (r *CommunicationLogRepository) Create(l *model.CommunicationLog) error {
	l.CreatedAt = time.Now()
	if l.Status == "" {
		l.Status = model.LogStatusPending
	}
	query := `
        INSERT INTO communication_logs (campaign_id, customer_id, message, status, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	return r.DB.QueryRow(query, l.CampaignID, l.CustomerID, l.Message, l.Status, l.CreatedAt).Scan(&l.ID)
}

func (r *CommunicationLogRepository) GetByID(id int) (*model.CommunicationLog, error) {
	query := `
        SELECT id, campaign_id, customer_id, message, status, sent_at, failure_reason, created_at
        FROM communication_logs
        WHERE id = $1
    `
	var l model.CommunicationLog
	err := r.DB.QueryRow(query, id).Scan(&l.ID, &l.CampaignID, &l.CustomerID, &l.Message, &l.Status, &l.SentAt, &l.FailureReason, &l.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &l, nil
}

// UpdateStatus overwrites the row for a delivery receipt. No idempotency
// guard: duplicate or out-of-order receipts simply overwrite again. sent_at
// is stamped only on "sent"; a failure reason is stored whenever supplied.
func (r *CommunicationLogRepository) UpdateStatus(id int, status, failureReason string) error {
	var reason *string
	if failureReason != "" {
		reason = &failureReason
	}
	if status == model.LogStatusSent {
		query := `UPDATE communication_logs SET status=$1, sent_at=NOW(), failure_reason=COALESCE($2, failure_reason) WHERE id=$3`
		_, err := r.DB.Exec(query, status, reason, id)
		return err
	}
	query := `UPDATE communication_logs SET status=$1, failure_reason=COALESCE($2, failure_reason) WHERE id=$3`
	_, err := r.DB.Exec(query, status, reason, id)
	return err
}

func (r *CommunicationLogRepository) ListByCampaign(campaignID int) ([]model.CommunicationLog, error) {
	query := `
        SELECT id, campaign_id, customer_id, message, status, sent_at, failure_reason, created_at
        FROM communication_logs
        WHERE campaign_id = $1
        ORDER BY id
    `
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []model.CommunicationLog{}
	for rows.Next() {
		var l model.CommunicationLog
		if err := rows.Scan(&l.ID, &l.CampaignID, &l.CustomerID, &l.Message, &l.Status, &l.SentAt, &l.FailureReason, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// CountResolved counts a campaign's logs that are no longer pending. The
// dispatcher compares this against the audience size to decide completion.
func (r *CommunicationLogRepository) CountResolved(campaignID int) (int, error) {
	var count int
	err := r.DB.QueryRow(
		`SELECT COUNT(*) FROM communication_logs WHERE campaign_id=$1 AND status <> 'pending'`,
		campaignID,
	).Scan(&count)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}

var _ CommunicationLogRepositoryInterface = (*CommunicationLogRepository)(nil)
