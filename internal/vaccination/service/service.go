package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	animalmodels "zoopito/internal/animal/models"
	"zoopito/internal/vaccination/metrics"
	"zoopito/internal/vaccination/models"
	"zoopito/internal/vaccination/schedule"
	vaccinemodels "zoopito/internal/vaccine/models"
	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
	audit "zoopito/pkg/platform/audit"
	"zoopito/pkg/platform/sentinel"
	"zoopito/pkg/requestcontext"
)

var tracer = otel.Tracer("zoopito/vaccination")

type Store interface {
	Create(ctx context.Context, v *models.Vaccination) error
	Update(ctx context.Context, v *models.Vaccination) error
	FindByID(ctx context.Context, vaccinationID id.VaccinationID) (*models.Vaccination, error)
	Delete(ctx context.Context, vaccinationID id.VaccinationID) error
	ListByAnimal(ctx context.Context, animalID id.AnimalID) ([]*models.Vaccination, error)
	Query(ctx context.Context, q models.Query, offset, limit int) ([]*models.Vaccination, int, error)
	Count(ctx context.Context, q models.Query) (int, error)
	DueBetween(ctx context.Context, from, to time.Time) ([]*models.Vaccination, error)
	OverdueBefore(ctx context.Context, at time.Time) ([]*models.Vaccination, error)
	FarmerStats(ctx context.Context, farmerID id.FarmerID, now, until time.Time) (models.FarmerStats, error)
	FindByBatch(ctx context.Context, batchID string) ([]*models.Vaccination, error)
}

// Animals is the slice of the animal service vaccination records need.
type Animals interface {
	Get(ctx context.Context, animalID id.AnimalID) (*animalmodels.Animal, error)
	Counts(ctx context.Context) (animalmodels.Counts, error)
	RefreshVaccinationSummary(ctx context.Context, animalID id.AnimalID, doses []animalmodels.Dose) error
}

// Vaccines looks up catalogue entries.
type Vaccines interface {
	Get(ctx context.Context, vaccineID id.VaccineID) (*vaccinemodels.Vaccine, error)
}

// StatsCache holds the dashboard stats between computations. Get returns
// sentinel.ErrNotFound on a miss.
type StatsCache interface {
	Get(ctx context.Context) (*models.Stats, error)
	Set(ctx context.Context, stats models.Stats) error
	Invalidate(ctx context.Context) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages vaccination records and the dashboard built on them.
type Service struct {
	vaccinations   Store
	animals        Animals
	vaccines       Vaccines
	cache          StatsCache
	metrics        *metrics.Metrics
	logger         *slog.Logger
	auditPublisher AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithStatsCache(cache StatsCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(vaccinations Store, animals Animals, vaccines Vaccines, opts ...Option) (*Service, error) {
	if vaccinations == nil {
		return nil, errors.New("vaccination store is required")
	}
	if animals == nil {
		return nil, errors.New("animal service is required")
	}
	if vaccines == nil {
		return nil, errors.New("vaccine service is required")
	}
	s := &Service{vaccinations: vaccinations, animals: animals, vaccines: vaccines}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Record stores a vaccination for an existing animal and refreshes its summary.
func (s *Service) Record(ctx context.Context, req models.RecordRequest) (*models.Vaccination, error) {
	ctx, span := tracer.Start(ctx, "vaccination.Record")
	defer span.End()

	if req.AnimalID.IsNil() {
		return nil, fail(span, dErrors.New(dErrors.CodeValidation, "animal is required"))
	}
	a, err := s.animals.Get(ctx, req.AnimalID)
	if err != nil {
		return nil, fail(span, err)
	}
	v, err := s.Prepare(ctx, req, a, models.SourceManualEntry)
	if err != nil {
		return nil, fail(span, err)
	}
	if err := s.Insert(ctx, v); err != nil {
		return nil, fail(span, err)
	}
	if err := s.RefreshSummary(ctx, v.AnimalID); err != nil {
		return nil, fail(span, err)
	}
	span.SetAttributes(attribute.String("vaccination.id", v.ID.String()))
	s.emit(ctx, audit.EventVaccinationRecorded, v.ID, v.VaccineName)
	v.Derive(requestcontext.Now(ctx))
	return v, nil
}

// Prepare validates req against the catalogue and builds the record for animal a
// without storing it. The next due date is estimated unless req supplies one.
func (s *Service) Prepare(ctx context.Context, req models.RecordRequest, a *animalmodels.Animal, source models.Source) (*models.Vaccination, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	vaccine, err := s.vaccines.Get(ctx, req.VaccineID)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	given := now
	if req.DateAdministered != nil {
		given = *req.DateAdministered
	}
	due := schedule.Resolve(given, req.NextDueDate, vaccine.Interval())
	actor := requestcontext.UserID(ctx)
	v := &models.Vaccination{
		ID:                   id.NewVaccinationID(),
		FarmerID:             a.FarmerID,
		AnimalID:             a.ID,
		VaccineID:            vaccine.ID,
		VaccineName:          vaccine.Name,
		VaccineType:          string(vaccine.VaccineType),
		BatchNumber:          req.BatchNumber,
		DoseNumber:           req.DoseNumber,
		TotalDosesRequired:   req.TotalDosesRequired,
		AdministrationMethod: req.AdministrationMethod,
		DosageAmount:         req.DosageAmount,
		DosageUnit:           req.DosageUnit,
		DateAdministered:     given,
		NextDueDate:          &due,
		AdministeredBy:       req.AdministeredBy,
		Status:               req.Status,
		VerificationStatus:   models.VerificationPending,
		Notes:                req.Notes,
		Source:               source,
		CreatedBy:            actor,
		UpdatedBy:            actor,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	v.CompleteSeries(now)
	return v, nil
}

// Insert stores a prepared record.
func (s *Service) Insert(ctx context.Context, v *models.Vaccination) error {
	if err := s.vaccinations.Create(ctx, v); err != nil {
		return translateWriteError(err, "Failed to record vaccination")
	}
	if s.metrics != nil {
		s.metrics.IncrementRecorded(string(v.Source))
	}
	return nil
}

// RefreshSummary recomputes the vaccination summary of an animal from its given doses.
func (s *Service) RefreshSummary(ctx context.Context, animalID id.AnimalID) error {
	records, err := s.vaccinations.ListByAnimal(ctx, animalID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load animal vaccinations")
	}
	doses := make([]animalmodels.Dose, 0, len(records))
	for _, v := range records {
		if !v.Status.Given() {
			continue
		}
		doses = append(doses, animalmodels.Dose{
			VaccineID:        v.VaccineID,
			VaccineName:      v.VaccineName,
			VaccineType:      v.VaccineType,
			DateAdministered: v.DateAdministered,
			NextDueDate:      v.NextDueDate,
		})
	}
	if err := s.animals.RefreshVaccinationSummary(ctx, animalID, doses); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *Service) Get(ctx context.Context, vaccinationID id.VaccinationID) (*models.Vaccination, error) {
	v, err := s.find(ctx, vaccinationID)
	if err != nil {
		return nil, err
	}
	v.Derive(requestcontext.Now(ctx))
	return v, nil
}

// Update changes a record. Moving the administration date without an explicit
// next due date re-estimates it from the vaccine.
func (s *Service) Update(ctx context.Context, vaccinationID id.VaccinationID, req models.UpdateRequest) (*models.Vaccination, error) {
	v, err := s.find(ctx, vaccinationID)
	if err != nil {
		return nil, err
	}
	previous := v.DateAdministered
	req.Apply(v)
	if v.DoseNumber > v.TotalDosesRequired {
		return nil, dErrors.New(dErrors.CodeValidation, "dose number exceeds total doses required")
	}
	if req.NextDueDate == nil && !v.DateAdministered.Equal(previous) {
		due := schedule.NextDueDate(v.DateAdministered, s.interval(ctx, v.VaccineID))
		v.NextDueDate = &due
	}
	return s.save(ctx, v, audit.EventVaccinationUpdated, "")
}

func (s *Service) Delete(ctx context.Context, vaccinationID id.VaccinationID) error {
	v, err := s.find(ctx, vaccinationID)
	if err != nil {
		return err
	}
	if err := s.vaccinations.Delete(ctx, vaccinationID); err != nil {
		return translateWriteError(err, "Failed to delete vaccination")
	}
	if err := s.RefreshSummary(ctx, v.AnimalID); err != nil {
		return err
	}
	s.emit(ctx, audit.EventVaccinationDeleted, vaccinationID, v.VaccineName)
	return nil
}

// Verify sets the verification status, attributed to the caller.
func (s *Service) Verify(ctx context.Context, vaccinationID id.VaccinationID, req models.VerifyRequest) (*models.Vaccination, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	v, err := s.find(ctx, vaccinationID)
	if err != nil {
		return nil, err
	}
	v.VerificationStatus = req.Status
	v.VerificationNotes = strings.TrimSpace(req.Notes)
	v.VerifiedBy = requestcontext.UserID(ctx)
	return s.save(ctx, v, audit.EventVaccinationVerified, string(req.Status))
}

// MarkMissed sets the status to Missed and appends the reason to the notes.
func (s *Service) MarkMissed(ctx context.Context, vaccinationID id.VaccinationID, req models.MissedRequest) (*models.Vaccination, error) {
	v, err := s.find(ctx, vaccinationID)
	if err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	v.Status = models.StatusMissed
	v.AppendNote("Missed: " + reason)
	return s.save(ctx, v, audit.EventVaccinationMissed, reason)
}

// Reschedule moves the next due date, sets the status to Scheduled and appends the reason.
func (s *Service) Reschedule(ctx context.Context, vaccinationID id.VaccinationID, req models.RescheduleRequest) (*models.Vaccination, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	v, err := s.find(ctx, vaccinationID)
	if err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	due := req.NextDueDate
	v.NextDueDate = &due
	v.Status = models.StatusScheduled
	v.AppendNote("Rescheduled: " + reason)
	return s.save(ctx, v, audit.EventVaccinationRescheduled, reason)
}

// MarkAdministered records that a scheduled dose was given.
func (s *Service) MarkAdministered(ctx context.Context, vaccinationID id.VaccinationID, req models.AdministerRequest) (*models.Vaccination, error) {
	v, err := s.find(ctx, vaccinationID)
	if err != nil {
		return nil, err
	}
	req.Apply(v, requestcontext.Now(ctx))
	return s.save(ctx, v, audit.EventVaccinationUpdated, "administered")
}

// CalculateNextDue estimates the next due date of a vaccine given on a date. An
// unknown vaccine falls back to the default interval.
func (s *Service) CalculateNextDue(ctx context.Context, req models.NextDueRequest) (models.NextDueResult, error) {
	if req.VaccineID.IsNil() {
		return models.NextDueResult{}, dErrors.New(dErrors.CodeValidation, "vaccine is required")
	}
	given := requestcontext.Now(ctx)
	if req.DateAdministered != nil {
		given = *req.DateAdministered
	}
	interval := s.interval(ctx, req.VaccineID)
	basis := models.BasisDefault
	switch {
	case interval.Months > 0:
		basis = models.BasisMonths
	case interval.Weeks > 0:
		basis = models.BasisWeeks
	}
	return models.NextDueResult{NextDueDate: schedule.NextDueDate(given, interval), Basis: basis}, nil
}

// Dashboard lists vaccinations for the selected task window, oldest administration first.
func (s *Service) Dashboard(ctx context.Context, filter models.DashboardFilter, offset, limit int) ([]*models.Vaccination, int, error) {
	now := requestcontext.Now(ctx)
	out, total, err := s.vaccinations.Query(ctx, filter.Resolve(now), offset, limit)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vaccinations")
	}
	derive(out, now)
	return out, total, nil
}

// Stats returns the dashboard counters, served from the cache when fresh.
func (s *Service) Stats(ctx context.Context) (models.Stats, error) {
	ctx, span := tracer.Start(ctx, "vaccination.Stats")
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		switch {
		case err == nil:
			s.observeCache(true)
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return *cached, nil
		case !errors.Is(err, sentinel.ErrNotFound):
			s.logger.WarnContext(ctx, "stats cache read failed", "error", err)
		}
		s.observeCache(false)
	}

	start := time.Now()
	stats, err := s.computeStats(ctx)
	if err != nil {
		return models.Stats{}, fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute vaccination stats"))
	}
	if s.metrics != nil {
		s.metrics.ObserveStats(start)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, stats); err != nil {
			s.logger.WarnContext(ctx, "stats cache write failed", "error", err)
		}
	}
	return stats, nil
}

func (s *Service) computeStats(ctx context.Context) (models.Stats, error) {
	now := requestcontext.Now(ctx)
	today := models.StartOfDay(now)
	stats := models.Stats{AnnualVaccinationsPerAnimal: models.AnnualVaccinationsPerAnimal}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := s.animals.Counts(gctx)
		stats.TotalAnimals, stats.PregnantAnimals = counts.Active, counts.Pregnant
		return err
	})
	count := func(dst *int, q models.Query) {
		g.Go(func() error {
			n, err := s.vaccinations.Count(gctx, q)
			*dst = n
			return err
		})
	}
	count(&stats.TodayTasks, models.TaskQuery(today, today.AddDate(0, 0, 1)))
	count(&stats.WeekTasks, models.TaskQuery(today, today.AddDate(0, 0, 7)))
	count(&stats.UpcomingTasks, models.TaskQuery(today.AddDate(0, 0, 7), today.AddDate(0, 0, 14)))
	count(&stats.Overdue, models.DashboardFilter{Window: models.WindowOverdue}.Resolve(now))
	if err := g.Wait(); err != nil {
		return models.Stats{}, err
	}
	return stats, nil
}

// Upcoming returns administered doses due within the next days days, 7 when days < 1.
func (s *Service) Upcoming(ctx context.Context, days int) ([]*models.Vaccination, error) {
	if days < 1 {
		days = models.UpcomingDefaultDays
	}
	now := requestcontext.Now(ctx)
	out, err := s.vaccinations.DueBetween(ctx, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load upcoming vaccinations")
	}
	derive(out, now)
	return out, nil
}

// Overdue returns administered doses whose series is incomplete and whose due date has passed.
func (s *Service) Overdue(ctx context.Context) ([]*models.Vaccination, error) {
	now := requestcontext.Now(ctx)
	out, err := s.vaccinations.OverdueBefore(ctx, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load overdue vaccinations")
	}
	derive(out, now)
	return out, nil
}

func (s *Service) FarmerStats(ctx context.Context, farmerID id.FarmerID) (models.FarmerStats, error) {
	now := requestcontext.Now(ctx)
	stats, err := s.vaccinations.FarmerStats(ctx, farmerID, now, now.AddDate(0, 0, models.UpcomingDefaultDays))
	if err != nil {
		return models.FarmerStats{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load farmer stats")
	}
	return stats, nil
}

func (s *Service) FindByBatch(ctx context.Context, batchID string) ([]*models.Vaccination, error) {
	out, err := s.vaccinations.FindByBatch(ctx, batchID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load batch vaccinations")
	}
	derive(out, requestcontext.Now(ctx))
	return out, nil
}

func (s *Service) find(ctx context.Context, vaccinationID id.VaccinationID) (*models.Vaccination, error) {
	v, err := s.vaccinations.FindByID(ctx, vaccinationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Vaccination record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "Unable to fetch vaccination")
	}
	return v, nil
}

func (s *Service) save(ctx context.Context, v *models.Vaccination, event audit.AuditEvent, note string) (*models.Vaccination, error) {
	now := requestcontext.Now(ctx)
	v.CompleteSeries(now)
	v.UpdatedBy = requestcontext.UserID(ctx)
	v.UpdatedAt = now
	if err := s.vaccinations.Update(ctx, v); err != nil {
		return nil, translateWriteError(err, "Failed to update vaccination")
	}
	if err := s.RefreshSummary(ctx, v.AnimalID); err != nil {
		return nil, err
	}
	s.emit(ctx, event, v.ID, note)
	v.Derive(now)
	return v, nil
}

// interval returns the booster interval of a vaccine, or the zero interval when
// the lookup fails so estimation falls back to the default.
func (s *Service) interval(ctx context.Context, vaccineID id.VaccineID) vaccinemodels.Interval {
	vaccine, err := s.vaccines.Get(ctx, vaccineID)
	if err != nil {
		s.logger.DebugContext(ctx, "vaccine lookup failed, using default interval",
			"vaccine_id", vaccineID.String(), "error", err)
		return vaccinemodels.Interval{}
	}
	return vaccine.Interval()
}

func (s *Service) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "stats cache invalidation failed", "error", err)
	}
}

func (s *Service) observeCache(hit bool) {
	if s.metrics != nil {
		s.metrics.ObserveStatsCache(hit)
	}
}

func (s *Service) emit(ctx context.Context, event audit.AuditEvent, vaccinationID id.VaccinationID, note string) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:    string(event),
		Subject:   "vaccination",
		SubjectID: vaccinationID.String(),
		Detail:    note,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", string(event),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

func derive(out []*models.Vaccination, now time.Time) {
	for _, v := range out {
		v.Derive(now)
	}
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func translateWriteError(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "Vaccination record not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "Vaccination references a missing animal or vaccine")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
