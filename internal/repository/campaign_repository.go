package repository

import (
	"database/sql"
	"time"

	appErrors "github.com/unclebandit/pulsecrm-backend/internal/errors"
	"github.com/unclebandit/pulsecrm-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(c *model.Campaign) error
	GetByID(id int) (*model.Campaign, error)
	UpdateStatus(campaignID int, status string) error
	ListWithStats(userID int) ([]model.CampaignWithStats, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

func (r *CampaignRepository) Create(c *model.Campaign) error {
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = model.CampaignStatusDraft
	}
	query := `
        INSERT INTO campaigns (name, description, rules, message, audience_size, status, scheduled_at, created_by, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `
	return r.DB.QueryRow(
		query,
		c.Name, c.Description, c.Rules, c.Message, c.AudienceSize,
		c.Status, c.ScheduledAt, c.CreatedBy, c.CreatedAt,
	).Scan(&c.ID)
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	query := `
        SELECT id, name, description, rules, message, audience_size, status, scheduled_at, created_by, created_at
        FROM campaigns WHERE id=$1
    `
	var c model.Campaign
	err := r.DB.QueryRow(query, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.Rules, &c.Message,
		&c.AudienceSize, &c.Status, &c.ScheduledAt, &c.CreatedBy, &c.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) UpdateStatus(campaignID int, status string) error {
	query := `UPDATE campaigns SET status=$1 WHERE id=$2`
	_, err := r.DB.Exec(query, status, campaignID)
	return err
}

// ListWithStats returns a user's campaigns with per-status log counts joined
// at read time. The counts can disagree with the campaign's own status field
// (completed with pending logs); callers must not reconcile the two.
func (r *CampaignRepository) ListWithStats(userID int) ([]model.CampaignWithStats, error) {
	query := `
        SELECT c.id, c.name, c.description, c.rules, c.message, c.audience_size,
               c.status, c.scheduled_at, c.created_by, c.created_at,
               COUNT(CASE WHEN l.status = 'sent' THEN 1 END)    AS sent_count,
               COUNT(CASE WHEN l.status = 'failed' THEN 1 END)  AS failed_count,
               COUNT(CASE WHEN l.status = 'pending' THEN 1 END) AS pending_count
        FROM campaigns c
        LEFT JOIN communication_logs l ON l.campaign_id = c.id
        WHERE c.created_by = $1
        GROUP BY c.id
        ORDER BY c.created_at DESC
    `
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []model.CampaignWithStats{}
	for rows.Next() {
		var c model.CampaignWithStats
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.Rules, &c.Message, &c.AudienceSize,
			&c.Status, &c.ScheduledAt, &c.CreatedBy, &c.CreatedAt,
			&c.SentCount, &c.FailedCount, &c.PendingCount,
		); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
