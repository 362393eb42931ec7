package queue

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationSender delivers the new-lead alert to the operator inbox.
type NotificationSender interface {
	SendLeadNotification(to, name, email, phone, address string) error
}

// Worker consumes lead-created events and emails the operator so new
// submissions get a same-day response even when nobody is watching the
// dashboard.
type Worker struct {
	Channel  *amqp.Channel
	Mailer   NotificationSender
	NotifyTo string
}

func NewWorker(ch *amqp.Channel, mailer NotificationSender, notifyTo string) *Worker {
	return &Worker{
		Channel:  ch,
		Mailer:   mailer,
		NotifyTo: notifyTo,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual is safer)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("[worker] failed to register RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload LeadCreatedPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("[worker] invalid JSON: %s", err)
				// Malformed message; reject without requeue so it goes to the DLQ.
				d.Nack(false, false)
				continue
			}

			log.Printf("[worker] new lead %s (%s)", payload.Name, payload.LeadID)

			if err := w.Mailer.SendLeadNotification(
				w.NotifyTo, payload.Name, payload.Email, payload.Phone, payload.Address,
			); err != nil {
				log.Printf("[worker] notification email failed: %s", err)
				d.Nack(false, false)
				continue
			}

			d.Ack(false)
		}
	}()

	log.Printf("[worker] waiting for lead events on '%s'", queueName)
	<-forever
}
