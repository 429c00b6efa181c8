package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/oksasatya/go-user-directory/config"
	"github.com/oksasatya/go-user-directory/internal/worker"
	"github.com/oksasatya/go-user-directory/pkg/helpers"
	"github.com/oksasatya/go-user-directory/pkg/mailer"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-worker", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQUserEventsQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	h := &worker.UserEventHandler{
		Logger:      logger,
		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		h.Indexer = helpers.NewESIndexer(es, cfg.ESUsersIndex)
	} else {
		logger.Warn("ELASTICSEARCH_ADDRS empty; search indexing disabled")
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	switch {
	case !cfg.MailSendEnabled:
		logger.Info("MAIL_SEND_ENABLED=false; account emails disabled")
	case !mg.Configured():
		log.Fatal("Mailgun not configured")
	default:
		h.Mail = mg
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// Prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	if err := helpers.DeclareQueue(ch, cfg.RabbitMQUserEventsQueue); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQUserEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			switch h.Handle(ctx, msg.Body) {
			case worker.Ack:
				_ = msg.Ack(false)
			case worker.Requeue:
				_ = msg.Nack(false, true)
			default:
				_ = msg.Nack(false, false)
			}
		}
	}()

	logger.Infof("user event worker listening on queue=%s", cfg.RabbitMQUserEventsQueue)
	select {
	case <-stop:
	case <-done:
		logger.Warn("delivery channel closed")
	}
	logger.Info("shutting down...")
	cancel()
	_ = ch.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
