package controller_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/unclebandit/pulsecrm-backend/internal/auth"
	"github.com/unclebandit/pulsecrm-backend/internal/controller"
	appErrors "github.com/unclebandit/pulsecrm-backend/internal/errors"
	"github.com/unclebandit/pulsecrm-backend/internal/model"
	"github.com/unclebandit/pulsecrm-backend/internal/segment"
	"github.com/unclebandit/pulsecrm-backend/internal/service"
)

type stubCampaignRepo struct {
	created   []*model.Campaign
	withStats []model.CampaignWithStats
}

func (s *stubCampaignRepo) Create(c *model.Campaign) error {
	c.ID = len(s.created) + 1
	s.created = append(s.created, c)
	return nil
}

func (s *stubCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	for _, c := range s.created {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, appErrors.NewCampaignNotFound(id)
}

func (s *stubCampaignRepo) UpdateStatus(campaignID int, status string) error { return nil }

func (s *stubCampaignRepo) ListWithStats(userID int) ([]model.CampaignWithStats, error) {
	return s.withStats, nil
}

type stubCustomerRepo struct {
	segmentCount int
}

func (s *stubCustomerRepo) GetByID(id int) (*model.Customer, error)       { return nil, nil }
func (s *stubCustomerRepo) List(limit, offset int) ([]model.Customer, error) {
	return nil, nil
}
func (s *stubCustomerRepo) Count() (int, error)            { return 0, nil }
func (s *stubCustomerRepo) Create(c *model.Customer) error { return nil }
func (s *stubCustomerRepo) ListBySegment(rules segment.Rules) ([]model.Customer, error) {
	return nil, nil
}
func (s *stubCustomerRepo) CountBySegment(rules segment.Rules) (int, error) {
	if len(rules) == 0 {
		return 0, nil
	}
	return s.segmentCount, nil
}
func (s *stubCustomerRepo) ApplyOrder(customerID int, amount string) error { return nil }

type noopDispatcher struct{ dispatched []int }

func (n *noopDispatcher) Dispatch(campaignID int) { n.dispatched = append(n.dispatched, campaignID) }

func newCampaignController(segmentCount int) (*controller.CampaignController, *stubCampaignRepo, *noopDispatcher) {
	repo := &stubCampaignRepo{}
	dispatcher := &noopDispatcher{}
	svc := &service.CampaignService{
		CampaignRepo: repo,
		CustomerRepo: &stubCustomerRepo{segmentCount: segmentCount},
		Dispatcher:   dispatcher,
	}
	return &controller.CampaignController{CampaignService: svc}, repo, dispatcher
}

func authedRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := auth.WithIdentity(req.Context(), auth.Identity{UserID: 1, Email: "demo@example.com", Name: "Demo"})
	return req.WithContext(ctx)
}

func TestCreateCampaignReturns201(t *testing.T) {
	c, repo, dispatcher := newCampaignController(5)

	body, _ := json.Marshal(map[string]interface{}{
		"name":    "High spenders",
		"message": "Hi {{name}}!",
		"rules":   []map[string]string{{"field": "totalSpent", "operator": "gt", "value": "10000"}},
	})
	w := httptest.NewRecorder()
	c.CreateCampaign(w, authedRequest(http.MethodPost, "/api/campaigns", body))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created model.Campaign
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if created.AudienceSize != 5 {
		t.Errorf("expected audience size 5, got %d", created.AudienceSize)
	}
	if len(repo.created) != 1 {
		t.Errorf("expected campaign persisted, got %d", len(repo.created))
	}
	if len(dispatcher.dispatched) != 1 {
		t.Errorf("expected delivery triggered, got %v", dispatcher.dispatched)
	}
}

func TestCreateCampaignWithoutIdentity(t *testing.T) {
	c, _, _ := newCampaignController(0)

	body, _ := json.Marshal(map[string]interface{}{"name": "x", "message": "y", "rules": []interface{}{}})
	req := httptest.NewRequest(http.MethodPost, "/api/campaigns", bytes.NewReader(body))
	w := httptest.NewRecorder()
	c.CreateCampaign(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without identity, got %d", w.Code)
	}
}

func TestCreateCampaignValidationErrors(t *testing.T) {
	c, repo, _ := newCampaignController(0)

	body, _ := json.Marshal(map[string]interface{}{"rules": []interface{}{}})
	w := httptest.NewRecorder()
	c.CreateCampaign(w, authedRequest(http.MethodPost, "/api/campaigns", body))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp struct {
		Message string `json:"message"`
		Errors  []struct {
			Field  string `json:"field"`
			Reason string `json:"reason"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if resp.Message != "Invalid request data" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if len(resp.Errors) != 2 {
		t.Errorf("expected field errors for name and message, got %+v", resp.Errors)
	}
	if len(repo.created) != 0 {
		t.Error("invalid campaign must not be persisted")
	}
}

func TestCreateCampaignRejectsUnknownRuleField(t *testing.T) {
	c, _, dispatcher := newCampaignController(0)

	body, _ := json.Marshal(map[string]interface{}{
		"name":    "Bad",
		"message": "Hi!",
		"rules":   []map[string]string{{"field": "totalSpend", "operator": "gt", "value": "1"}},
	})
	w := httptest.NewRecorder()
	c.CreateCampaign(w, authedRequest(http.MethodPost, "/api/campaigns", body))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown rule field, got %d", w.Code)
	}
	if len(dispatcher.dispatched) != 0 {
		t.Error("rejected campaign must not dispatch")
	}
}

func TestListCampaignsReturnsStats(t *testing.T) {
	c, repo, _ := newCampaignController(0)
	repo.withStats = []model.CampaignWithStats{
		{Campaign: model.Campaign{ID: 1, Name: "Win-back"}, SentCount: 4, FailedCount: 1, PendingCount: 0},
	}

	w := httptest.NewRecorder()
	c.ListCampaigns(w, authedRequest(http.MethodGet, "/api/campaigns", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var campaigns []map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&campaigns); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(campaigns) != 1 || campaigns[0]["sent_count"] != float64(4) {
		t.Errorf("unexpected response: %+v", campaigns)
	}
}

func TestAudienceSizeEndpoint(t *testing.T) {
	c, _, _ := newCampaignController(3)

	body, _ := json.Marshal(map[string]interface{}{
		"rules": []map[string]string{{"field": "status", "operator": "eq", "value": "vip"}},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/campaigns/audience-size", bytes.NewReader(body))
	w := httptest.NewRecorder()
	c.AudienceSize(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]int
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["size"] != 3 {
		t.Errorf("expected size 3, got %d", resp["size"])
	}
}

func TestAudienceSizeRequiresRulesArray(t *testing.T) {
	c, _, _ := newCampaignController(0)

	body, _ := json.Marshal(map[string]interface{}{})
	req := httptest.NewRequest(http.MethodPost, "/api/campaigns/audience-size", bytes.NewReader(body))
	w := httptest.NewRecorder()
	c.AudienceSize(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp map[string]string
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["message"] != "Rules must be an array" {
		t.Errorf("unexpected message %q", resp["message"])
	}
}
