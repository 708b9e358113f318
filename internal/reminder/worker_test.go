package reminder_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"zoopito/internal/reminder"
	"zoopito/internal/reminder/mocks"
	"zoopito/internal/vaccination/metrics"
	vaccinationmodels "zoopito/internal/vaccination/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/requestcontext"
)

//go:generate mockgen -source=worker.go -destination=mocks/reminder-mocks.go -package=mocks Source Publisher
type WorkerSuite struct {
	suite.Suite
	source    *mocks.MockSource
	publisher *mocks.MockPublisher
	metrics   *metrics.Metrics
	now       time.Time
	worker    *reminder.Worker
}

func TestWorkerSuite(t *testing.T) {
	suite.Run(t, new(WorkerSuite))
}

func (s *WorkerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.source = mocks.NewMockSource(ctrl)
	s.publisher = mocks.NewMockPublisher(ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.now = time.Date(2025, 7, 1, 6, 0, 0, 0, time.UTC)

	w, err := reminder.NewWorker(s.source, s.publisher, time.Hour, 3*24*time.Hour,
		reminder.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		reminder.WithMetrics(s.metrics),
		reminder.WithClock(func() time.Time { return s.now }),
	)
	s.Require().NoError(err)
	s.worker = w
}

func record(name string, due time.Time) *vaccinationmodels.Vaccination {
	return &vaccinationmodels.Vaccination{
		ID:          id.NewVaccinationID(),
		AnimalID:    id.NewAnimalID(),
		FarmerID:    id.NewFarmerID(),
		VaccineName: name,
		DoseNumber:  1,
		NextDueDate: &due,
		Status:      vaccinationmodels.StatusAdministered,
	}
}

func (s *WorkerSuite) TestNewWorkerValidates() {
	_, err := reminder.NewWorker(nil, s.publisher, time.Hour, 0)
	s.Error(err)
	_, err = reminder.NewWorker(s.source, nil, time.Hour, 0)
	s.Error(err)
	_, err = reminder.NewWorker(s.source, s.publisher, 0, 0)
	s.Error(err)
}

func (s *WorkerSuite) TestSweepPublishesOncePerDueDate() {
	soon := record("FMD", s.now.AddDate(0, 0, 2))
	late := record("HS", s.now.AddDate(0, 0, -4))

	s.source.EXPECT().Upcoming(gomock.Any(), 3).DoAndReturn(
		func(ctx context.Context, _ int) ([]*vaccinationmodels.Vaccination, error) {
			s.Equal(s.now, requestcontext.Now(ctx))
			return []*vaccinationmodels.Vaccination{soon}, nil
		}).Times(2)
	s.source.EXPECT().Overdue(gomock.Any()).Return([]*vaccinationmodels.Vaccination{late}, nil).Times(2)

	var published []reminder.Notification
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, n reminder.Notification) error {
			published = append(published, n)
			return nil
		}).Times(2)

	sent, err := s.worker.Sweep(context.Background())
	s.Require().NoError(err)
	s.Equal(2, sent)

	sent, err = s.worker.Sweep(context.Background())
	s.Require().NoError(err)
	s.Equal(0, sent)

	s.Require().Len(published, 2)
	s.Equal(reminder.NotificationType, published[0].Type)
	s.Equal(reminder.KindDue, published[0].Kind)
	s.Equal(soon.ID, published[0].VaccinationID)
	s.Equal("FMD dose is due on 2025-07-03", published[0].Message)
	s.Equal(reminder.KindOverdue, published[1].Kind)
	s.Equal(late.FarmerID, published[1].FarmerID)
	s.Equal(float64(1), promtestutil.ToFloat64(s.metrics.RemindersPublished.WithLabelValues("due")))
	s.Equal(float64(1), promtestutil.ToFloat64(s.metrics.RemindersPublished.WithLabelValues("overdue")))
}

func (s *WorkerSuite) TestRescheduledRecordIsRemindedAgain() {
	v := record("FMD", s.now.AddDate(0, 0, 1))
	s.source.EXPECT().Overdue(gomock.Any()).Return(nil, nil).AnyTimes()
	first := s.source.EXPECT().Upcoming(gomock.Any(), gomock.Any()).Return([]*vaccinationmodels.Vaccination{v}, nil)
	moved := *v
	due := s.now.AddDate(0, 0, 2)
	moved.NextDueDate = &due
	s.source.EXPECT().Upcoming(gomock.Any(), gomock.Any()).Return([]*vaccinationmodels.Vaccination{&moved}, nil).After(first)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	sent, err := s.worker.Sweep(context.Background())
	s.Require().NoError(err)
	s.Equal(1, sent)
	sent, err = s.worker.Sweep(context.Background())
	s.Require().NoError(err)
	s.Equal(1, sent)
}

func (s *WorkerSuite) TestFailedPublishIsRetried() {
	v := record("FMD", s.now.AddDate(0, 0, 1))
	s.source.EXPECT().Upcoming(gomock.Any(), gomock.Any()).Return([]*vaccinationmodels.Vaccination{v}, nil).Times(2)
	s.source.EXPECT().Overdue(gomock.Any()).Return(nil, nil).Times(2)
	failed := s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).After(failed)

	sent, err := s.worker.Sweep(context.Background())
	s.Error(err)
	s.Equal(0, sent)

	sent, err = s.worker.Sweep(context.Background())
	s.Require().NoError(err)
	s.Equal(1, sent)
}

func (s *WorkerSuite) TestSourceErrorStopsSweep() {
	s.source.EXPECT().Upcoming(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	_, err := s.worker.Sweep(context.Background())
	s.ErrorContains(err, "load upcoming vaccinations")
}

func (s *WorkerSuite) TestRunStopsOnCancel() {
	ctx, cancel := context.WithCancel(context.Background())
	s.source.EXPECT().Upcoming(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, int) ([]*vaccinationmodels.Vaccination, error) {
			cancel()
			return nil, nil
		})
	s.source.EXPECT().Overdue(gomock.Any()).Return(nil, nil)

	done := make(chan error, 1)
	go func() { done <- s.worker.Run(ctx) }()

	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(5 * time.Second):
		s.Fail("worker did not stop")
	}
}
