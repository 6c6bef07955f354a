// mailworker consumes mail events from Kafka and delivers them via Mailgun.
// Set KAFKA_BROKERS, MAIL_KAFKA_TOPIC, MAIL_KAFKA_GROUP_ID, MAILGUN_DOMAIN,
// MAILGUN_API_KEY, and MAIL_FROM.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"event-platform/identity/internal/config"
	"event-platform/identity/internal/mail"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	brokers := cfg.MailKafkaBrokersList()
	if len(brokers) == 0 {
		log.Fatal("mailworker: KAFKA_BROKERS is required")
	}

	sender, err := mail.NewMailgunSender(mail.MailgunConfig{
		Domain: cfg.MailgunDomain,
		APIKey: cfg.MailgunAPIKey,
		From:   cfg.MailFrom,
	})
	if err != nil {
		log.Fatalf("mailworker: %v", err)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          cfg.MailKafkaTopic,
		GroupID:        cfg.MailKafkaGroupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("mailworker: shutting down...")
		cancel()
	}()

	log.Printf("mailworker: consuming from %s (group %s)", cfg.MailKafkaTopic, cfg.MailKafkaGroupID)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("mailworker: stopped")
				return
			}
			log.Printf("mailworker: kafka read error: %v", err)
			continue
		}

		var event mail.Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Printf("mailworker: malformed event at offset %d: %v", msg.Offset, err)
			continue
		}

		sendCtx, sendCancel := context.WithTimeout(ctx, 30*time.Second)
		if err := sender.Send(sendCtx, &event); err != nil {
			log.Printf("mailworker: send to %s failed: %v", event.Email, err)
		}
		sendCancel()
	}
}
