package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	animalmodels "zoopito/internal/animal/models"
	"zoopito/internal/registration/models"
	"zoopito/internal/vaccination/metrics"
	vaccinationmodels "zoopito/internal/vaccination/models"
	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
	audit "zoopito/pkg/platform/audit"
	"zoopito/pkg/platform/tx"
	"zoopito/pkg/requestcontext"
)

var tracer = otel.Tracer("zoopito/registration")

// Animals builds and stores animals.
type Animals interface {
	Prepare(ctx context.Context, req animalmodels.CreateAnimalRequest) (*animalmodels.Animal, error)
	Insert(ctx context.Context, a *animalmodels.Animal) error
}

// Vaccinations builds and stores vaccination records.
type Vaccinations interface {
	Prepare(ctx context.Context, req vaccinationmodels.RecordRequest, a *animalmodels.Animal, source vaccinationmodels.Source) (*vaccinationmodels.Vaccination, error)
	Insert(ctx context.Context, v *vaccinationmodels.Vaccination) error
	RefreshSummary(ctx context.Context, animalID id.AnimalID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service registers batches of animals with their vaccinations.
type Service struct {
	animals        Animals
	vaccinations   Vaccinations
	tx             tx.Runner
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

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(animals Animals, vaccinations Vaccinations, runner tx.Runner, opts ...Option) (*Service, error) {
	if animals == nil {
		return nil, fmt.Errorf("animals is required")
	}
	if vaccinations == nil {
		return nil, fmt.Errorf("vaccinations is required")
	}
	if runner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	s := &Service{animals: animals, vaccinations: vaccinations, tx: runner}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// prepared is an entry that passed validation and is ready to be written.
type prepared struct {
	index        int
	animal       *animalmodels.Animal
	vaccinations []*vaccinationmodels.Vaccination
}

// Register validates every entry of req and writes the valid ones.
//
// In best-effort mode each entry is written in its own transaction, so a
// store failure on one entry leaves the others in place. In atomic mode any
// invalid entry rejects the batch and all entries share one transaction.
func (s *Service) Register(ctx context.Context, req models.Request) (*models.Result, error) {
	ctx, span := tracer.Start(ctx, "registration.Register")
	defer span.End()
	start := time.Now()

	if err := req.Validate(); err != nil {
		return nil, fail(span, err)
	}
	batchID, err := models.NewBatchID(requestcontext.Now(ctx))
	if err != nil {
		return nil, fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate batch id"))
	}
	span.SetAttributes(
		attribute.String("registration.batch_id", batchID),
		attribute.Int("registration.entries", len(req.Animals)),
		attribute.Bool("registration.atomic", req.Atomic),
	)

	result := &models.Result{
		BatchID: batchID,
		Atomic:  req.Atomic,
		Created: []models.Created{},
		Errors:  []models.EntryError{},
	}
	ready, failures := s.prepare(ctx, req, batchID)
	result.Errors = append(result.Errors, failures...)

	if req.Atomic {
		s.writeAtomic(ctx, ready, result)
	} else {
		s.writeEach(ctx, ready, result)
	}
	result.Tally()

	span.SetAttributes(
		attribute.Int("registration.created", result.CreatedCount),
		attribute.Int("registration.failed", result.FailedCount),
	)
	if s.metrics != nil {
		s.metrics.ObserveBulk(start, result.CreatedCount, result.FailedCount)
	}
	s.emit(ctx, batchID, fmt.Sprintf("%d created, %d failed", result.CreatedCount, result.FailedCount))
	s.logger.InfoContext(ctx, "bulk registration finished",
		"batch_id", batchID,
		"atomic", req.Atomic,
		"created", result.CreatedCount,
		"failed", result.FailedCount,
		"request_id", requestcontext.RequestID(ctx),
	)
	return result, nil
}

func (s *Service) prepare(ctx context.Context, req models.Request, batchID string) ([]prepared, []models.EntryError) {
	var (
		ready    []prepared
		failures []models.EntryError
	)
	for i, entry := range req.Animals {
		p, fe := s.prepareEntry(ctx, i, entry, req.FarmerID, batchID)
		if fe != nil {
			failures = append(failures, *fe)
			continue
		}
		ready = append(ready, p)
	}
	return ready, failures
}

func (s *Service) prepareEntry(ctx context.Context, index int, entry models.Entry, farmerID id.FarmerID, batchID string) (prepared, *models.EntryError) {
	animalReq := entry.CreateAnimalRequest
	if animalReq.FarmerID.IsNil() {
		animalReq.FarmerID = farmerID
	}
	animalReq.Normalize()
	if fe := animalReq.Check(); fe != nil {
		return prepared{}, &models.EntryError{Index: index, Field: fe.Field, Message: fe.Message}
	}
	for j := range entry.Vaccinations {
		entry.Vaccinations[j].Normalize()
		if fe := entry.Vaccinations[j].Check(); fe != nil {
			return prepared{}, &models.EntryError{Index: index, Field: models.VaccinationField(j, fe.Field), Message: fe.Message}
		}
	}

	a, err := s.animals.Prepare(ctx, animalReq)
	if err != nil {
		return prepared{}, &models.EntryError{Index: index, Field: "farmer_id", Message: message(err)}
	}
	idx := index
	a.RegistrationBatchID = batchID
	a.RegistrationBatchIndex = &idx

	p := prepared{index: index, animal: a}
	for j, vr := range entry.Vaccinations {
		v, err := s.vaccinations.Prepare(ctx, vr, a, vaccinationmodels.SourceBulkRegistration)
		if err != nil {
			return prepared{}, &models.EntryError{Index: index, Field: models.VaccinationField(j, "vaccine_id"), Message: message(err)}
		}
		v.RegistrationBatchID = batchID
		v.RegistrationBatchIndex = &idx
		p.vaccinations = append(p.vaccinations, v)
	}
	return p, nil
}

func (s *Service) writeEach(ctx context.Context, ready []prepared, result *models.Result) {
	for _, p := range ready {
		err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
			return s.write(ctx, p)
		})
		if err != nil {
			s.logger.WarnContext(ctx, "bulk registration entry failed",
				"index", p.index,
				"error", err,
			)
			result.Errors = append(result.Errors, models.EntryError{Index: p.index, Message: message(err)})
			continue
		}
		result.Created = append(result.Created, created(p))
	}
}

func (s *Service) writeAtomic(ctx context.Context, ready []prepared, result *models.Result) {
	if len(result.Errors) > 0 {
		for _, p := range ready {
			result.Errors = append(result.Errors, models.EntryError{
				Index:   p.index,
				Message: "Batch rejected because other entries are invalid",
			})
		}
		return
	}
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, p := range ready {
			if err := s.write(ctx, p); err != nil {
				return &entryFailure{index: p.index, err: err}
			}
		}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "atomic bulk registration rolled back", "error", err)
		msg := message(err)
		var ef *entryFailure
		if errors.As(err, &ef) {
			msg = fmt.Sprintf("Batch rolled back: entry %d failed: %s", ef.index, message(ef.err))
		}
		for _, p := range ready {
			result.Errors = append(result.Errors, models.EntryError{Index: p.index, Message: msg})
		}
		return
	}
	for _, p := range ready {
		result.Created = append(result.Created, created(p))
	}
}

// write stores one entry and recomputes the animal's vaccination summary.
func (s *Service) write(ctx context.Context, p prepared) error {
	if err := s.animals.Insert(ctx, p.animal); err != nil {
		return err
	}
	for _, v := range p.vaccinations {
		if err := s.vaccinations.Insert(ctx, v); err != nil {
			return err
		}
	}
	return s.vaccinations.RefreshSummary(ctx, p.animal.ID)
}

type entryFailure struct {
	index int
	err   error
}

func (e *entryFailure) Error() string { return fmt.Sprintf("entry %d: %v", e.index, e.err) }

func (e *entryFailure) Unwrap() error { return e.err }

func created(p prepared) models.Created {
	vaccinations := p.vaccinations
	if vaccinations == nil {
		vaccinations = []*vaccinationmodels.Vaccination{}
	}
	return models.Created{Index: p.index, Animal: p.animal, Vaccinations: vaccinations}
}

// message returns the client-safe text of err.
func message(err error) string {
	if de, ok := dErrors.As(err); ok {
		return de.Message
	}
	return "Failed to register entry"
}

func (s *Service) emit(ctx context.Context, batchID, note string) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:    string(audit.EventBulkRegistered),
		Subject:   "registration_batch",
		SubjectID: batchID,
		Detail:    note,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", string(audit.EventBulkRegistered),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
