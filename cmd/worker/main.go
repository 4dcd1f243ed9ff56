// cmd/worker/main.go
package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"github.com/unclebandit/pulsecrm-backend/internal/config"
	"github.com/unclebandit/pulsecrm-backend/internal/db"
	"github.com/unclebandit/pulsecrm-backend/internal/model"
	"github.com/unclebandit/pulsecrm-backend/internal/queue"
	"github.com/unclebandit/pulsecrm-backend/internal/repository"
	"github.com/unclebandit/pulsecrm-backend/internal/service"
	"github.com/unclebandit/pulsecrm-backend/internal/vendor"
)

// The worker is the out-of-process delivery path: it consumes vendor_sends
// jobs published by the API server and performs the vendor call after the
// same random processing delay the in-process dispatcher would apply.
// Out-of-process sends cannot be cancelled once queued.
func main() {
	cfg := config.Load()

	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatal("failed to connect to DB:", err)
	}

	logRepo := &repository.CommunicationLogRepository{DB: conn}
	sender := &vendor.Client{URL: cfg.VendorURL}

	rq, err := queue.NewRabbitQueue(cfg.AMQPURL)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ:", err)
	}
	defer rq.Close()

	err = rq.Subscribe(service.TopicVendorSends, func(body []byte) error {
		job, err := queue.UnmarshalSendJob(body)
		if err != nil {
			log.Println("Invalid job:", err)
			return nil // drop, don't requeue garbage
		}

		time.Sleep(time.Duration(rand.Float64() * float64(10*time.Second)))

		if err := sender.Send(context.Background(), job.LogID, job.CustomerID, job.Message); err != nil {
			log.Println("⚠️ vendor call failed for log", job.LogID, ":", err)
			reason := service.ReasonVendorUnreachable
			var statusErr *vendor.StatusError
			if errors.As(err, &statusErr) {
				reason = service.ReasonVendorRejected
			}
			if err := logRepo.UpdateStatus(job.LogID, model.LogStatusFailed, reason); err != nil {
				log.Println("⚠️ failed to mark log failed:", err)
			}
		}
		return nil // failures are recorded on the log row, never retried
	})
	if err != nil {
		log.Fatal("Failed to register consumer:", err)
	}

	log.Println("Worker running, waiting for messages...")
	select {}
}
