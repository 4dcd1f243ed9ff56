// internal/service/dispatch_service.go
package service

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	appErrors "github.com/unclebandit/pulsecrm-backend/internal/errors"
	"github.com/unclebandit/pulsecrm-backend/internal/model"
	"github.com/unclebandit/pulsecrm-backend/internal/queue"
	"github.com/unclebandit/pulsecrm-backend/internal/repository"
	"github.com/unclebandit/pulsecrm-backend/internal/vendor"
)

// TopicVendorSends carries SendJob payloads when delivery runs out of process.
const TopicVendorSends = "vendor_sends"

// ReasonVendorUnreachable marks the synchronous failure path: the vendor call
// itself could not complete, so no receipt will ever arrive for the log.
const ReasonVendorUnreachable = "Vendor API unreachable"

// ReasonVendorRejected marks a vendor response outside the 2xx range: the
// vendor was reachable but refused the send.
const ReasonVendorRejected = "Vendor rejected message"

// Dispatcher resolves a campaign's audience and scatters per-customer sends.
// Each send is a goroutine tied to a per-campaign cancellable context, so an
// explicit stop withdraws outstanding sends instead of leaving dangling
// timers. Completion is explicit: the campaign turns "completed" only when
// every log has resolved; the deadline produces the distinct
// "completed_with_pending" terminal state instead.
type Dispatcher struct {
	CampaignRepo repository.CampaignRepositoryInterface
	CustomerRepo repository.CustomerRepositoryInterface
	LogRepo      repository.CommunicationLogRepositoryInterface
	Vendor       vendor.Sender

	// Sends carries SendJobs to the vendor_sends topic. The memory driver
	// subscribes HandleSendJob in-process (cancellable); the rabbit driver
	// hands jobs to cmd/worker, where they cannot be recalled.
	Sends queue.Queue

	MaxSendDelay time.Duration // per-send uniform delay upper bound; default 10s
	Deadline     time.Duration // default 15s

	mu     sync.Mutex
	active map[int]sendTask
}

// sendTask is one campaign's delivery run: the context its sends select on
// and the cancel that withdraws them.
type sendTask struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func (d *Dispatcher) maxSendDelay() time.Duration {
	if d.MaxSendDelay > 0 {
		return d.MaxSendDelay
	}
	return 10 * time.Second
}

func (d *Dispatcher) deadline() time.Duration {
	if d.Deadline > 0 {
		return d.Deadline
	}
	return 15 * time.Second
}

// Dispatch is fire-and-forget: it creates the pending logs and schedules the
// sends, then returns without awaiting any individual delivery. An absent
// campaign is a no-op; any other dispatch-level failure marks the whole
// campaign "failed".
func (d *Dispatcher) Dispatch(campaignID int) {
	campaign, err := d.CampaignRepo.GetByID(campaignID)
	if err != nil {
		var notFound *appErrors.ErrCampaignNotFound
		if errors.As(err, &notFound) {
			return
		}
		log.Println("⚠️ dispatch: campaign lookup failed:", err)
		d.fail(campaignID)
		return
	}

	if err := d.CampaignRepo.UpdateStatus(campaignID, model.CampaignStatusSending); err != nil {
		log.Println("⚠️ dispatch: failed to mark campaign sending:", err)
		d.fail(campaignID)
		return
	}

	audience, err := d.CustomerRepo.ListBySegment(campaign.Rules)
	if err != nil {
		log.Println("⚠️ dispatch: audience resolution failed:", err)
		d.fail(campaignID)
		return
	}

	if len(audience) == 0 {
		if err := d.CampaignRepo.UpdateStatus(campaignID, model.CampaignStatusCompleted); err != nil {
			log.Println("⚠️ dispatch: failed to complete empty campaign:", err)
		}
		return
	}

	ctx := d.track(campaignID)

	for _, customer := range audience {
		rendered := RenderMessage(campaign.Message, customer.Name)
		row := &model.CommunicationLog{
			CampaignID: campaignID,
			CustomerID: customer.ID,
			Message:    rendered,
			Status:     model.LogStatusPending,
		}
		if err := d.LogRepo.Create(row); err != nil {
			log.Println("⚠️ dispatch: failed to create log for customer", customer.ID, ":", err)
			continue
		}

		if d.Sends != nil {
			job := queue.SendJob{LogID: row.ID, CampaignID: campaignID, CustomerID: customer.ID, Message: rendered}
			if err := d.Sends.Publish(TopicVendorSends, job.Marshal()); err != nil {
				log.Println("⚠️ dispatch: failed to enqueue send for log", row.ID, ":", err)
			}
			continue
		}

		go d.sendAfterDelay(ctx, campaignID, row.ID, customer.ID, rendered)
	}

	go d.watchDeadline(ctx, campaignID)
}

// Cancel withdraws every outstanding send and timer for the campaign.
func (d *Dispatcher) Cancel(campaignID int) {
	d.mu.Lock()
	t, ok := d.active[campaignID]
	if ok {
		delete(d.active, campaignID)
	}
	d.mu.Unlock()
	if ok {
		t.cancel()
	}
}

// HandleSendJob performs one queued send in-process, honoring the campaign's
// cancellation context. The memory queue driver subscribes this handler;
// rabbit deployments run the equivalent loop in cmd/worker.
func (d *Dispatcher) HandleSendJob(body []byte) error {
	job, err := queue.UnmarshalSendJob(body)
	if err != nil {
		log.Println("⚠️ dispatch: dropping invalid send job:", err)
		return nil
	}
	ctx, ok := d.taskContext(job.CampaignID)
	if !ok {
		// Campaign already cancelled or finalized; its queued sends drop.
		return nil
	}
	d.sendAfterDelay(ctx, job.CampaignID, job.LogID, job.CustomerID, job.Message)
	return nil
}

// NoteResolved re-evaluates the completion condition after a log resolves
// (receipt or synchronous failure).
func (d *Dispatcher) NoteResolved(campaignID int) {
	campaign, err := d.CampaignRepo.GetByID(campaignID)
	if err != nil || campaign == nil {
		return
	}
	if campaign.Status != model.CampaignStatusSending {
		return
	}
	resolved, err := d.LogRepo.CountResolved(campaignID)
	if err != nil {
		log.Println("⚠️ dispatch: completion check failed:", err)
		return
	}
	if resolved >= campaign.AudienceSize {
		if err := d.CampaignRepo.UpdateStatus(campaignID, model.CampaignStatusCompleted); err != nil {
			log.Println("⚠️ dispatch: failed to complete campaign:", err)
			return
		}
		d.Cancel(campaignID)
	}
}

func (d *Dispatcher) sendAfterDelay(ctx context.Context, campaignID, logID, customerID int, message string) {
	delay := time.Duration(rand.Float64() * float64(d.maxSendDelay()))
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	if err := d.Vendor.Send(ctx, logID, customerID, message); err != nil {
		log.Println("⚠️ vendor call failed for log", logID, ":", err)
		reason := ReasonVendorUnreachable
		var statusErr *vendor.StatusError
		if errors.As(err, &statusErr) {
			reason = ReasonVendorRejected
		}
		if err := d.LogRepo.UpdateStatus(logID, model.LogStatusFailed, reason); err != nil {
			log.Println("⚠️ failed to mark log failed:", err)
			return
		}
		d.NoteResolved(campaignID)
	}
}

func (d *Dispatcher) watchDeadline(ctx context.Context, campaignID int) {
	timer := time.NewTimer(d.deadline())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}
	d.Cancel(campaignID)

	campaign, err := d.CampaignRepo.GetByID(campaignID)
	if err != nil || campaign == nil || campaign.Status != model.CampaignStatusSending {
		return
	}

	resolved, err := d.LogRepo.CountResolved(campaignID)
	if err != nil {
		log.Println("⚠️ dispatch: deadline completion check failed:", err)
		return
	}

	status := model.CampaignStatusCompleted
	if resolved < campaign.AudienceSize {
		// Sends are still pending past the deadline; never conflate this
		// with a clean completion.
		status = model.CampaignStatusCompletedWithPending
	}
	if err := d.CampaignRepo.UpdateStatus(campaignID, status); err != nil {
		log.Println("⚠️ dispatch: failed to finalize campaign:", err)
	}
}

func (d *Dispatcher) track(campaignID int) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	d.mu.Lock()
	if d.active == nil {
		d.active = make(map[int]sendTask)
	}
	if old, ok := d.active[campaignID]; ok {
		old.cancel()
	}
	d.active[campaignID] = sendTask{ctx: ctx, cancel: cancel}
	d.mu.Unlock()
	return ctx
}

func (d *Dispatcher) taskContext(campaignID int) (context.Context, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.active[campaignID]
	if !ok {
		return nil, false
	}
	return t.ctx, true
}

func (d *Dispatcher) fail(campaignID int) {
	if err := d.CampaignRepo.UpdateStatus(campaignID, model.CampaignStatusFailed); err != nil {
		log.Println("⚠️ dispatch: failed to mark campaign failed:", err)
	}
}
