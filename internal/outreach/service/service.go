package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"zoopito/internal/outreach/models"
	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
	"zoopito/pkg/platform/sentinel"
	"zoopito/pkg/requestcontext"
)

type ContactStore interface {
	Create(ctx context.Context, m *models.ContactMessage) error
	List(ctx context.Context, unseenOnly bool, offset, limit int) ([]*models.ContactMessage, int, error)
	MarkSeen(ctx context.Context, contactID id.ContactID) (*models.ContactMessage, error)
}

type SubscriberStore interface {
	Create(ctx context.Context, sub *models.Subscriber) error
}

// Service handles the public contact form and newsletter sign-ups.
type Service struct {
	contacts    ContactStore
	subscribers SubscriberStore
	logger      *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(contacts ContactStore, subscribers SubscriberStore, opts ...Option) (*Service, error) {
	if contacts == nil {
		return nil, fmt.Errorf("contact store is required")
	}
	if subscribers == nil {
		return nil, fmt.Errorf("subscriber store is required")
	}
	s := &Service{contacts: contacts, subscribers: subscribers}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Contact stores a contact-form message. Signed-in senders are linked to their user.
func (s *Service) Contact(ctx context.Context, req models.ContactRequest) (*models.ContactMessage, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m := req.Build(requestcontext.UserID(ctx), requestcontext.Now(ctx))
	if err := s.contacts.Create(ctx, m); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "Something went wrong!")
	}
	s.logger.InfoContext(ctx, "contact message received",
		"contact_id", m.ID.String(),
		"subject", string(m.Subject),
		"request_id", requestcontext.RequestID(ctx),
	)
	return m, nil
}

func (s *Service) Messages(ctx context.Context, unseenOnly bool, offset, limit int) ([]*models.ContactMessage, int, error) {
	out, total, err := s.contacts.List(ctx, unseenOnly, offset, limit)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list contact messages")
	}
	return out, total, nil
}

func (s *Service) MarkSeen(ctx context.Context, contactID id.ContactID) (*models.ContactMessage, error) {
	m, err := s.contacts.MarkSeen(ctx, contactID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "Message not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update contact message")
	}
	return m, nil
}

// Subscribe adds email to the newsletter list.
func (s *Service) Subscribe(ctx context.Context, req models.SubscribeRequest) (*models.Subscriber, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	sub := &models.Subscriber{
		ID:           id.NewSubscriberID(),
		Email:        req.Email,
		IsActive:     true,
		SubscribedAt: requestcontext.Now(ctx),
	}
	if err := s.subscribers.Create(ctx, sub); err != nil {
		if _, dup := sentinel.DuplicateField(err); dup {
			return nil, dErrors.New(dErrors.CodeConflict, "This email is already subscribed")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "Something went wrong. Please try again later.")
	}
	return sub, nil
}
