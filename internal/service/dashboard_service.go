// internal/service/dashboard_service.go
package service

import (
	"fmt"

	"github.com/unclebandit/pulsecrm-backend/internal/model"
	"github.com/unclebandit/pulsecrm-backend/internal/repository"
)

type DashboardService struct {
	CustomerRepo repository.CustomerRepositoryInterface
	CampaignRepo repository.CampaignRepositoryInterface
}

type DashboardStats struct {
	TotalCustomers  int    `json:"total_customers"`
	ActiveCampaigns int    `json:"active_campaigns"`
	DeliveryRate    string `json:"delivery_rate"`
	RevenueImpact   int    `json:"revenue_impact"`
}

// Assumed average revenue per successful message, used for the mock
// revenue-impact figure on the dashboard.
const revenuePerSentMessage = 150

func (s *DashboardService) Stats(userID int) (*DashboardStats, error) {
	totalCustomers, err := s.CustomerRepo.Count()
	if err != nil {
		return nil, err
	}

	campaigns, err := s.CampaignRepo.ListWithStats(userID)
	if err != nil {
		return nil, err
	}

	active := 0
	totalSent := 0
	totalFailed := 0
	for _, c := range campaigns {
		if c.Status == model.CampaignStatusSending || c.Status == model.CampaignStatusScheduled {
			active++
		}
		totalSent += c.SentCount
		totalFailed += c.FailedCount
	}

	rate := 0.0
	if totalSent+totalFailed > 0 {
		rate = float64(totalSent) / float64(totalSent+totalFailed) * 100
	}

	return &DashboardStats{
		TotalCustomers:  totalCustomers,
		ActiveCampaigns: active,
		DeliveryRate:    fmt.Sprintf("%.1f", rate),
		RevenueImpact:   totalSent * revenuePerSentMessage,
	}, nil
}
