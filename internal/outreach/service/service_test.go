package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"zoopito/internal/outreach/models"
	"zoopito/internal/outreach/store/contact"
	"zoopito/internal/outreach/store/subscriber"
	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
	"zoopito/pkg/requestcontext"
)

type OutreachServiceSuite struct {
	suite.Suite
	ctx         context.Context
	now         time.Time
	subscribers *subscriber.InMemorySubscriberStore
	svc         *Service
}

func TestOutreachServiceSuite(t *testing.T) {
	suite.Run(t, new(OutreachServiceSuite))
}

func (s *OutreachServiceSuite) SetupTest() {
	s.now = time.Date(2025, 1, 20, 8, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.subscribers = subscriber.New()
	svc, err := New(contact.New(), s.subscribers)
	s.Require().NoError(err)
	s.svc = svc
}

func (s *OutreachServiceSuite) TestNewRequiresStores() {
	_, err := New(nil, s.subscribers)
	s.Error(err)
	_, err = New(contact.New(), nil)
	s.Error(err)
}

func (s *OutreachServiceSuite) TestContact() {
	s.Run("anonymous visitor", func() {
		m, err := s.svc.Contact(s.ctx, models.ContactRequest{
			Name: "Ravi", Email: "Ravi@Mail.com", Subject: models.SubjectPartnership, Message: "Let's talk",
		})
		s.Require().NoError(err)
		s.True(m.UserID.IsNil())
		s.Equal("ravi@mail.com", m.Email)
		s.Equal(s.now, m.MsgDate)
	})

	s.Run("signed-in user is linked", func() {
		userID := id.NewUserID()
		ctx := requestcontext.WithPrincipal(s.ctx, userID, id.RoleFarmer)
		m, err := s.svc.Contact(ctx, models.ContactRequest{Name: "Meena", Email: "m@farm.in", Subject: models.SubjectService})
		s.Require().NoError(err)
		s.Equal(userID, m.UserID)
	})

	s.Run("subject outside the list", func() {
		_, err := s.svc.Contact(s.ctx, models.ContactRequest{Name: "X", Email: "x@y.io", Subject: "Spam"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *OutreachServiceSuite) TestMessagesAndMarkSeen() {
	for i, name := range []string{"first", "second"} {
		ctx := requestcontext.WithTime(s.ctx, s.now.Add(time.Duration(i)*time.Minute))
		_, err := s.svc.Contact(ctx, models.ContactRequest{Name: name, Email: "a@b.co", Subject: models.SubjectOther})
		s.Require().NoError(err)
	}

	all, total, err := s.svc.Messages(s.ctx, false, 0, 10)
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Equal("second", all[0].Name)

	seen, err := s.svc.MarkSeen(s.ctx, all[0].ID)
	s.Require().NoError(err)
	s.True(seen.IsSeen)

	unseen, total, err := s.svc.Messages(s.ctx, true, 0, 10)
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Equal("first", unseen[0].Name)

	_, err = s.svc.MarkSeen(s.ctx, id.NewContactID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *OutreachServiceSuite) TestSubscribe() {
	sub, err := s.svc.Subscribe(s.ctx, models.SubscribeRequest{Email: "Owner@Dairy.in"})
	s.Require().NoError(err)
	s.Equal("owner@dairy.in", sub.Email)
	s.True(sub.IsActive)

	_, err = s.svc.Subscribe(s.ctx, models.SubscribeRequest{Email: " owner@dairy.in"})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	_, err = s.svc.Subscribe(s.ctx, models.SubscribeRequest{})
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))

	n, err := s.subscribers.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)
}
