package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"
)

// Queue interface
type Queue interface {
	Publish(topic string, body []byte) error
	Subscribe(topic string, handler func(body []byte) error) error
}

// SendJob is the payload carried on the vendor_sends topic: one personalized
// message headed for the vendor API.
type SendJob struct {
	LogID      int    `json:"log_id"`
	CampaignID int    `json:"campaign_id"`
	CustomerID int    `json:"customer_id"`
	Message    string `json:"message"`
}

func (j SendJob) Marshal() []byte {
	b, _ := json.Marshal(j)
	return b
}

func UnmarshalSendJob(body []byte) (SendJob, error) {
	var j SendJob
	if err := json.Unmarshal(body, &j); err != nil {
		return SendJob{}, fmt.Errorf("invalid send job: %w", err)
	}
	return j, nil
}

// InMemoryQueue delivers jobs to subscribers in-process, one goroutine per
// job. Handlers that mark their own failures should return nil; a returned
// error triggers the retry loop below.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(body []byte) error
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(body []byte) error),
	}
}

type job struct {
	body       []byte
	retryCount int
	maxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, body []byte) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	j := job{body: body, maxRetries: 3}
	for _, handler := range handlers {
		go q.processJob(handler, j)
	}
	return nil
}

func (q *InMemoryQueue) processJob(handler func(body []byte) error, j job) {
	for j.retryCount <= j.maxRetries {
		err := handler(j.body)
		if err == nil {
			return // ACK
		}

		j.retryCount++
		log.Printf("Job failed (attempt %d/%d): %v\n", j.retryCount, j.maxRetries, err)

		if j.retryCount > j.maxRetries {
			log.Printf("Job permanently failed after %d attempts\n", j.maxRetries)
			return // no requeue
		}

		time.Sleep(time.Duration(j.retryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(body []byte) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

var _ Queue = (*InMemoryQueue)(nil)
