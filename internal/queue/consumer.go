package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartConsumers connects to RabbitMQ and consumes both application
// queues: booking.created lines go to logs/booking.log and ticket.email
// lines to logs/email.log.  The function runs a reconnect loop with
// exponential backoff and keeps running across broker outages; failed
// messages are rejected without requeue to avoid tight loops.
func StartConsumers() {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("queue-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("queue-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("queue-consumer: set QoS failed: %v", err)
	}

	handlers := map[string]func([]byte) error{
		bookingCreatedQueue: handleBookingCreated,
		ticketEmailQueue:    handleTicketEmail,
	}

	done := make(chan error, len(handlers))
	for name, handle := range handlers {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
		msgs, err := ch.Consume(name, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", name, err)
		}
		go func(name string, handle func([]byte) error, msgs <-chan amqp.Delivery) {
			for d := range msgs {
				if err := handle(d.Body); err != nil {
					log.Printf("queue-consumer: handle %s message failed: %v", name, err)
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
			done <- fmt.Errorf("%s deliveries channel closed", name)
		}(name, handle, msgs)
	}
	return <-done
}

func handleBookingCreated(body []byte) error {
	var ev BookingCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Booking created | booking_id=%d | user_id=%d | event_id=%d | event=%q | tickets=%d | total=%d cents\n",
		ev.CreatedAt, ev.BookingID, ev.UserID, ev.EventID, ev.EventTitle, ev.TicketsCount, ev.TotalPriceCents)
	return appendLog("booking.log", line)
}

// handleTicketEmail records the ticket email that would have been sent.
// Real delivery is intentionally absent; the log line is the delivery.
func handleTicketEmail(body []byte) error {
	var ev TicketEmailEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Ticket email | booking_id=%d | to=%s | event=%q | date=%s | tickets=%d\n",
		ev.RequestedAt, ev.BookingID, ev.Email, ev.EventTitle, ev.EventDate, ev.TicketsCount)
	return appendLog("email.log", line)
}

func appendLog(name, line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
