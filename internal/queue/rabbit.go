package queue

import (
	"log"

	"github.com/streadway/amqp"
)

// RabbitQueue is the out-of-process Queue implementation. Topics map to
// durable queues; bodies are JSON; consumers ack manually.
type RabbitQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewRabbitQueue(url string) (*RabbitQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &RabbitQueue{conn: conn, ch: ch}, nil
}

func (q *RabbitQueue) declare(topic string) (amqp.Queue, error) {
	return q.ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
}

func (q *RabbitQueue) Publish(topic string, body []byte) error {
	declared, err := q.declare(topic)
	if err != nil {
		return err
	}
	return q.ch.Publish(
		"",
		declared.Name,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (q *RabbitQueue) Subscribe(topic string, handler func(body []byte) error) error {
	declared, err := q.declare(topic)
	if err != nil {
		return err
	}
	msgs, err := q.ch.Consume(
		declared.Name,
		"",
		false, // autoAck off for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	go func() {
		for d := range msgs {
			if err := handler(d.Body); err != nil {
				log.Println("⚠️ handler failed, requeueing:", err)
				d.Nack(false, true)
				continue
			}
			d.Ack(false)
		}
	}()
	return nil
}

func (q *RabbitQueue) Close() error {
	if err := q.ch.Close(); err != nil {
		q.conn.Close()
		return err
	}
	return q.conn.Close()
}

var _ Queue = (*RabbitQueue)(nil)
