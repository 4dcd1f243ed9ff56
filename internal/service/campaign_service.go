// internal/service/campaign_service.go
package service

import (
	appErrors "github.com/unclebandit/pulsecrm-backend/internal/errors"
	"github.com/unclebandit/pulsecrm-backend/internal/model"
	"github.com/unclebandit/pulsecrm-backend/internal/repository"
	"github.com/unclebandit/pulsecrm-backend/internal/segment"
)

// DispatchStarter kicks off delivery for a freshly created campaign.
type DispatchStarter interface {
	Dispatch(campaignID int)
}

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	CustomerRepo repository.CustomerRepositoryInterface
	Dispatcher   DispatchStarter
}

type CreateCampaignInput struct {
	Name        string              `json:"name"`
	Description *string             `json:"description,omitempty"`
	Rules       []segment.RuleInput `json:"rules"`
	Message     string              `json:"message"`
}

// CreateCampaign validates the rule set, snapshots the audience size once and
// fires delivery. The snapshot is never re-validated afterwards; it can drift
// as customer data changes.
func (s *CampaignService) CreateCampaign(createdBy int, in CreateCampaignInput) (*model.Campaign, error) {
	var fields []appErrors.FieldError
	if in.Name == "" {
		fields = append(fields, appErrors.FieldError{Field: "name", Reason: "name is required"})
	}
	if in.Message == "" {
		fields = append(fields, appErrors.FieldError{Field: "message", Reason: "message is required"})
	}
	if len(fields) > 0 {
		return nil, appErrors.NewValidation(fields...)
	}

	rules, err := segment.ParseRules(in.Rules)
	if err != nil {
		if ruleErr, ok := err.(*segment.RuleError); ok {
			return nil, appErrors.NewValidation(appErrors.FieldError{Field: "rules", Reason: ruleErr.Error()})
		}
		return nil, err
	}

	audienceSize, err := s.CustomerRepo.CountBySegment(rules)
	if err != nil {
		return nil, err
	}

	c := &model.Campaign{
		Name:         in.Name,
		Description:  in.Description,
		Rules:        rules,
		Message:      in.Message,
		AudienceSize: audienceSize,
		Status:       model.CampaignStatusDraft,
		CreatedBy:    createdBy,
	}
	if err := s.CampaignRepo.Create(c); err != nil {
		return nil, err
	}

	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(c.ID)
	}

	return c, nil
}

// ListCampaigns returns the creator's campaigns with delivery counts joined
// at read time.
func (s *CampaignService) ListCampaigns(userID int) ([]model.CampaignWithStats, error) {
	return s.CampaignRepo.ListWithStats(userID)
}

// AudienceSize counts matching customers for a draft rule set.
func (s *CampaignService) AudienceSize(inputs []segment.RuleInput) (int, error) {
	rules, err := segment.ParseRules(inputs)
	if err != nil {
		if ruleErr, ok := err.(*segment.RuleError); ok {
			return 0, appErrors.NewValidation(appErrors.FieldError{Field: "rules", Reason: ruleErr.Error()})
		}
		return 0, err
	}
	return s.CustomerRepo.CountBySegment(rules)
}
