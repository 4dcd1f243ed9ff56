package service_test

import (
	"context"
	"strconv"
	"sync"
	"time"

	appErrors "github.com/unclebandit/pulsecrm-backend/internal/errors"
	"github.com/unclebandit/pulsecrm-backend/internal/model"
	"github.com/unclebandit/pulsecrm-backend/internal/segment"
)

// --- Fake campaign repository ---

type fakeCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[int]*model.Campaign
	nextID    int
	withStats []model.CampaignWithStats
	getErr    error
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{campaigns: map[int]*model.Campaign{}}
}

func (f *fakeCampaignRepo) Create(c *model.Campaign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c.ID = f.nextID
	c.CreatedAt = time.Now()
	copied := *c
	f.campaigns[c.ID] = &copied
	return nil
}

func (f *fakeCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCampaignRepo) UpdateStatus(campaignID int, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.campaigns[campaignID]; ok {
		c.Status = status
	}
	return nil
}

func (f *fakeCampaignRepo) ListWithStats(userID int) ([]model.CampaignWithStats, error) {
	return f.withStats, nil
}

func (f *fakeCampaignRepo) status(campaignID int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.campaigns[campaignID]; ok {
		return c.Status
	}
	return ""
}

// --- Fake customer repository with in-memory rule matching ---

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers []model.Customer
}

func (f *fakeCustomerRepo) GetByID(id int) (*model.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.customers {
		if f.customers[i].ID == id {
			copied := f.customers[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerRepo) List(limit, offset int) ([]model.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Customer{}, f.customers...), nil
}

func (f *fakeCustomerRepo) Count() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.customers), nil
}

func (f *fakeCustomerRepo) Create(c *model.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = len(f.customers) + 1
	f.customers = append(f.customers, *c)
	return nil
}

func (f *fakeCustomerRepo) ListBySegment(rules segment.Rules) ([]model.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(rules) == 0 {
		return []model.Customer{}, nil
	}
	matched := []model.Customer{}
	for _, c := range f.customers {
		ok := true
		for _, r := range rules {
			if !matches(c, r) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (f *fakeCustomerRepo) CountBySegment(rules segment.Rules) (int, error) {
	matched, err := f.ListBySegment(rules)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

func (f *fakeCustomerRepo) ApplyOrder(customerID int, amount string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.customers {
		if f.customers[i].ID == customerID {
			prior, _ := strconv.ParseFloat(f.customers[i].TotalSpent, 64)
			add, _ := strconv.ParseFloat(amount, 64)
			f.customers[i].TotalSpent = strconv.FormatFloat(prior+add, 'f', 2, 64)
			f.customers[i].VisitCount++
			now := time.Now()
			f.customers[i].LastVisit = &now
			return nil
		}
	}
	return appErrors.NewCustomerNotFound(customerID)
}

func matches(c model.Customer, r segment.Rule) bool {
	switch r.Field {
	case segment.FieldTotalSpent:
		have, _ := strconv.ParseFloat(c.TotalSpent, 64)
		want, _ := strconv.ParseFloat(r.Value, 64)
		return compareFloat(have, want, r.Operator)
	case segment.FieldVisitCount:
		want, _ := strconv.Atoi(r.Value)
		return compareFloat(float64(c.VisitCount), float64(want), r.Operator)
	case segment.FieldStatus:
		return c.Status == r.Value
	case segment.FieldLocation:
		return c.Location == r.Value
	case segment.FieldEmailVerified:
		return strconv.FormatBool(c.EmailVerified) == r.Value
	}
	return false
}

func compareFloat(have, want float64, op segment.Operator) bool {
	switch op {
	case segment.OpGT:
		return have > want
	case segment.OpLT:
		return have < want
	case segment.OpGTE:
		return have >= want
	case segment.OpLTE:
		return have <= want
	default:
		return have == want
	}
}

// --- Fake communication log repository ---

type fakeLogRepo struct {
	mu     sync.Mutex
	logs   map[int]*model.CommunicationLog
	nextID int
}

func newFakeLogRepo() *fakeLogRepo {
	return &fakeLogRepo{logs: map[int]*model.CommunicationLog{}}
}

func (f *fakeLogRepo) Create(l *model.CommunicationLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	l.ID = f.nextID
	l.CreatedAt = time.Now()
	copied := *l
	f.logs[l.ID] = &copied
	return nil
}

func (f *fakeLogRepo) GetByID(id int) (*model.CommunicationLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.logs[id]
	if !ok {
		return nil, nil
	}
	copied := *l
	return &copied, nil
}

func (f *fakeLogRepo) UpdateStatus(id int, status, failureReason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.logs[id]
	if !ok {
		return nil
	}
	l.Status = status
	if status == model.LogStatusSent {
		now := time.Now()
		l.SentAt = &now
	}
	if failureReason != "" {
		l.FailureReason = &failureReason
	}
	return nil
}

func (f *fakeLogRepo) ListByCampaign(campaignID int) ([]model.CommunicationLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	logs := []model.CommunicationLog{}
	for _, l := range f.logs {
		if l.CampaignID == campaignID {
			logs = append(logs, *l)
		}
	}
	return logs, nil
}

func (f *fakeLogRepo) CountResolved(campaignID int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, l := range f.logs {
		if l.CampaignID == campaignID && l.Status != model.LogStatusPending {
			count++
		}
	}
	return count, nil
}

// --- Fake vendor sender ---

type sendCall struct {
	MessageID  int
	CustomerID int
	Message    string
}

type fakeVendor struct {
	mu    sync.Mutex
	calls []sendCall
	err   error
}

func (f *fakeVendor) Send(_ context.Context, messageID, customerID int, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sendCall{MessageID: messageID, CustomerID: customerID, Message: message})
	return f.err
}

func (f *fakeVendor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// --- Fixtures ---

func seedCustomers() []model.Customer {
	return []model.Customer{
		{ID: 1, Email: "alice@example.com", Name: "Alice Johnson", TotalSpent: "15500", VisitCount: 8, Status: "vip", Location: "Mumbai", EmailVerified: true},
		{ID: 2, Email: "bob@example.com", Name: "Bob Smith", TotalSpent: "8200", VisitCount: 3, Status: "active", Location: "Delhi", EmailVerified: true},
		{ID: 3, Email: "carol@example.com", Name: "Carol Davis", TotalSpent: "22100", VisitCount: 12, Status: "vip", Location: "Bangalore", EmailVerified: true},
	}
}

func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
