// Package contact accepts messages from the public contact form and lets
// the admin read them back.
package contact

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/surafelx/portfolio26/apperr"
	"github.com/surafelx/portfolio26/logx"
	"github.com/surafelx/portfolio26/metrics"
	"github.com/surafelx/portfolio26/models"
	"github.com/surafelx/portfolio26/mq"
	"github.com/surafelx/portfolio26/store"
)

const MaxMessageLength = 5000

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Submission is the public form payload.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Validate trims s and reports the first problem with it.
func (s *Submission) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Message = strings.TrimSpace(s.Message)

	switch {
	case s.Name == "":
		return apperr.Missing("name")
	case s.Email == "":
		return apperr.Missing("email")
	case s.Message == "":
		return apperr.Missing("message")
	case !emailPattern.MatchString(s.Email):
		return apperr.Invalid("Invalid email format")
	case utf8.RuneCountInString(s.Message) > MaxMessageLength:
		return apperr.Invalid(fmt.Sprintf("Message must be at most %d characters", MaxMessageLength))
	}
	return nil
}

type Service struct {
	store   store.Collection[models.ContactMessage]
	bus     *mq.Bus
	metrics *metrics.Metrics
	log     *logx.Logger
	now     func() time.Time
}

func NewService(s store.Collection[models.ContactMessage], bus *mq.Bus, m *metrics.Metrics, log *logx.Logger) *Service {
	return &Service{store: s, bus: bus, metrics: m, log: logx.OrNop(log), now: time.Now}
}

// Submit validates and stores a message.
func (s *Service) Submit(ctx context.Context, sub Submission) (models.ContactMessage, error) {
	if err := sub.Validate(); err != nil {
		return models.ContactMessage{}, err
	}
	msg := models.ContactMessage{
		ID:        "contact-" + uuid.NewString(),
		Name:      sub.Name,
		Email:     sub.Email,
		Message:   sub.Message,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Insert(ctx, msg); err != nil {
		return msg, err
	}
	s.metrics.ContactReceived()
	s.bus.Emit(ctx, mq.Event{Type: "contact", Action: "created", ID: msg.ID})
	s.log.Info("contact message received",
		"id", msg.ID,
		"name", msg.Name,
		"email", msg.Email,
		"messageLength", len(msg.Message),
	)
	return msg, nil
}

// List returns every message, unread first, then newest first.
func (s *Service) List(ctx context.Context) ([]models.ContactMessage, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Read != all[j].Read {
			return !all[i].Read
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

func (s *Service) MarkRead(ctx context.Context, id string) (models.ContactMessage, error) {
	msg, err := s.store.Get(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return msg, apperr.NotFound("Message not found")
	}
	if err != nil {
		return msg, err
	}
	if msg.Read {
		return msg, nil
	}
	msg.Read = true
	if err := s.store.Replace(ctx, id, msg); err != nil {
		return msg, err
	}
	return msg, nil
}
