package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-directory/internal/domain/event"
	"github.com/oksasatya/go-user-directory/pkg/mailer"
	mailtpl "github.com/oksasatya/go-user-directory/pkg/mailer/templates"
)

// Outcome tells the consumer loop what to do with a delivery.
type Outcome int

const (
	Ack Outcome = iota
	// Requeue puts the message back for another attempt.
	Requeue
	// Drop discards a message that can never succeed.
	Drop
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case Requeue:
		return "requeue"
	default:
		return "drop"
	}
}

// Indexer keeps the search index in sync. helpers.ESIndexer satisfies it.
type Indexer interface {
	IndexDoc(ctx context.Context, id int64, doc any) error
	DeleteDoc(ctx context.Context, id int64) error
}

// Sender delivers rendered email. mailer.Mailgun satisfies it.
type Sender interface {
	Send(ctx context.Context, job mailer.EmailJob) error
}

// UserDoc is the search document for one user.
type UserDoc struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Age       int       `json:"age"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserEventHandler applies user lifecycle events to the search index and
// sends account notifications. A nil Indexer or Mail skips that step.
type UserEventHandler struct {
	Indexer Indexer
	Mail    Sender
	Logger  *logrus.Logger

	CompanyName string
	AppName     string
}

// Handle processes one message body.
func (h *UserEventHandler) Handle(ctx context.Context, body []byte) Outcome {
	var ev event.UserEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		h.Logger.WithError(err).Warn("bad user event message")
		return Drop
	}
	log := h.Logger.WithFields(logrus.Fields{"event_id": ev.ID, "event": ev.Type, "user_id": ev.UserID})

	if err := h.index(ctx, ev); err != nil {
		if errors.Is(err, errUnknownType) {
			log.Warn("unknown user event type")
			return Drop
		}
		log.WithError(err).Error("index user failed")
		return Requeue
	}

	if err := h.notify(ctx, ev); err != nil {
		if errors.Is(err, errRender) {
			log.WithError(err).Error("render email failed")
			return Drop
		}
		log.WithError(err).Error("send email failed")
		return Requeue
	}

	log.Debug("user event processed")
	return Ack
}

var (
	errUnknownType = errors.New("unknown event type")
	errRender      = errors.New("render email")
)

func (h *UserEventHandler) index(ctx context.Context, ev event.UserEvent) error {
	switch ev.Type {
	case event.UserCreated, event.UserUpdated:
		if h.Indexer == nil {
			return nil
		}
		return h.Indexer.IndexDoc(ctx, ev.UserID, UserDoc{
			ID:        ev.UserID,
			Name:      ev.Name,
			Email:     ev.Email,
			Age:       ev.Age,
			UpdatedAt: ev.OccurredAt,
		})
	case event.UserDeleted:
		if h.Indexer == nil {
			return nil
		}
		return h.Indexer.DeleteDoc(ctx, ev.UserID)
	default:
		return errUnknownType
	}
}

func (h *UserEventHandler) notify(ctx context.Context, ev event.UserEvent) error {
	if h.Mail == nil || ev.Email == "" {
		return nil
	}
	var name string
	switch ev.Type {
	case event.UserCreated:
		name = mailtpl.AccountCreated
	case event.UserDeleted:
		name = mailtpl.AccountDeleted
	default:
		return nil
	}

	data := mailtpl.NewAccountEmailData(name, ev.UserID, ev.Name, ev.Email,
		mailtpl.WithTime(ev.OccurredAt),
		mailtpl.WithCompany(h.CompanyName, h.AppName),
	)
	subject, text, html, err := mailtpl.Render(name, data)
	if err != nil {
		return errors.Wrap(errRender, err.Error())
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return h.Mail.Send(c, mailer.EmailJob{To: ev.Email, Subject: subject, Text: text, HTML: html})
}
