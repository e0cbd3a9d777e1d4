package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/leadcall-ai/leadcall-api/internal/usecase"
)

const sendTimeout = 30 * time.Second

// Worker drains the notification queue and performs the SMTP sends the
// webhook path deferred.
type Worker struct {
	Channel *amqp.Channel
	Sender  usecase.NotificationSink
}

func NewWorker(ch *amqp.Channel, sender usecase.NotificationSink) *Worker {
	return &Worker{
		Channel: ch,
		Sender:  sender,
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
		log.Fatalf("[worker] could not register consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var n usecase.Notification
			if err := json.Unmarshal(d.Body, &n); err != nil {
				log.Printf("[worker] malformed notification, dropping: %s", err)
				// Poison message. Reject without requeue so it lands in the DLQ.
				d.Nack(false, false)
				continue
			}

			log.Printf("[worker] sending call summary for %s to %s", n.CallID, n.Recipient)

			ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			err := w.Sender.Deliver(ctx, n)
			cancel()

			if err != nil {
				log.Printf("[worker] send failed for call %s: %s", n.CallID, err)
				// Provider redelivery is the retry path for the webhook; here
				// the DLQ keeps the failed send for inspection.
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Notification worker waiting on queue '%s'", queueName)
	<-forever
}
