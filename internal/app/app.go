// Package app assembles stores, services and handlers into one graph shared by
// the server, the operator CLI and the router tests.
package app

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	accounthandler "zoopito/internal/account/handler"
	accountservice "zoopito/internal/account/service"
	userstore "zoopito/internal/account/store/user"
	animalhandler "zoopito/internal/animal/handler"
	animalservice "zoopito/internal/animal/service"
	animalstore "zoopito/internal/animal/store/animal"
	audithandler "zoopito/internal/audit"
	farmerhandler "zoopito/internal/farmer/handler"
	farmerservice "zoopito/internal/farmer/service"
	farmerstore "zoopito/internal/farmer/store/farmer"
	outreachhandler "zoopito/internal/outreach/handler"
	outreachservice "zoopito/internal/outreach/service"
	"zoopito/internal/outreach/store/contact"
	"zoopito/internal/outreach/store/subscriber"
	paravethandler "zoopito/internal/paravet/handler"
	paravetservice "zoopito/internal/paravet/service"
	paravetstore "zoopito/internal/paravet/store/paravet"
	registrationhandler "zoopito/internal/registration/handler"
	registrationservice "zoopito/internal/registration/service"
	saleshandler "zoopito/internal/salesteam/handler"
	salesservice "zoopito/internal/salesteam/service"
	memberstore "zoopito/internal/salesteam/store/member"
	httptransport "zoopito/internal/transport/http"
	vaccinationhandler "zoopito/internal/vaccination/handler"
	vaccinationmetrics "zoopito/internal/vaccination/metrics"
	vaccinationservice "zoopito/internal/vaccination/service"
	"zoopito/internal/vaccination/store/statscache"
	vaccinationstore "zoopito/internal/vaccination/store/vaccination"
	vaccinehandler "zoopito/internal/vaccine/handler"
	vaccineservice "zoopito/internal/vaccine/service"
	vaccinestore "zoopito/internal/vaccine/store/vaccine"
	id "zoopito/pkg/domain"
	audit "zoopito/pkg/platform/audit"
	"zoopito/pkg/platform/audit/publisher"
	auditmemory "zoopito/pkg/platform/audit/store/memory"
	auditpostgres "zoopito/pkg/platform/audit/store/postgres"
	"zoopito/pkg/platform/tx"
)

// VaccinationStore is the vaccination store plus the hooks other modules call.
type VaccinationStore interface {
	vaccinationservice.Store
	DeleteByAnimal(ctx context.Context, animalID id.AnimalID) error
	CountByVaccine(ctx context.Context, vaccineID id.VaccineID) (int, error)
}

// Stores is one persistence backend for every module.
type Stores struct {
	Users        accountservice.Store
	Farmers      farmerservice.Store
	Paravets     paravetservice.Store
	SalesMembers salesservice.Store
	Vaccines     vaccineservice.Store
	Animals      animalservice.Store
	Vaccinations VaccinationStore
	Contacts     outreachservice.ContactStore
	Subscribers  outreachservice.SubscriberStore
	Audit        audit.Store
	StatsCache   vaccinationservice.StatsCache
	Tx           tx.Runner
}

// MemoryStores builds in-memory stores. Bulk transactions snapshot every store
// a registration touches.
func MemoryStores(statsTTL time.Duration) Stores {
	users := userstore.New()
	farmers := farmerstore.New()
	paravets := paravetstore.New()
	members := memberstore.New()
	vaccines := vaccinestore.New()
	animals := animalstore.New()
	vaccinations := vaccinationstore.New()
	return Stores{
		Users:        users,
		Farmers:      farmers,
		Paravets:     paravets,
		SalesMembers: members,
		Vaccines:     vaccines,
		Animals:      animals,
		Vaccinations: vaccinations,
		Contacts:     contact.New(),
		Subscribers:  subscriber.New(),
		Audit:        auditmemory.NewInMemoryStore(),
		StatsCache:   statscache.NewInMemory(statsTTL),
		Tx:           tx.NewMemoryRunner(),
	}
}

// PostgresStores builds stores over db. The stats cache is left to the caller.
func PostgresStores(db *sql.DB) Stores {
	return Stores{
		Users:        userstore.NewPostgres(db),
		Farmers:      farmerstore.NewPostgres(db),
		Paravets:     paravetstore.NewPostgres(db),
		SalesMembers: memberstore.NewPostgres(db),
		Vaccines:     vaccinestore.NewPostgres(db),
		Animals:      animalstore.NewPostgres(db),
		Vaccinations: vaccinationstore.NewPostgres(db),
		Contacts:     contact.NewPostgres(db),
		Subscribers:  subscriber.NewPostgres(db),
		Audit:        auditpostgres.New(db),
		Tx:           tx.NewPostgresRunner(db),
	}
}

// Options tune NewServices.
type Options struct {
	Logger      *slog.Logger
	Registerer  prometheus.Registerer
	AuditBuffer int
}

// Services holds every module service.
type Services struct {
	Accounts     *accountservice.Service
	Farmers      *farmerservice.Service
	Paravets     *paravetservice.Service
	SalesTeam    *salesservice.Service
	Vaccines     *vaccineservice.Service
	Animals      *animalservice.Service
	Vaccinations *vaccinationservice.Service
	Registration *registrationservice.Service
	Outreach     *outreachservice.Service
	Audit        *publisher.Publisher
	Metrics      *vaccinationmetrics.Metrics
}

// NewServices wires the module services over st.
func NewServices(st Stores, opts Options) (*Services, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	pubOpts := []publisher.Option{publisher.WithLogger(logger)}
	if opts.AuditBuffer > 0 {
		pubOpts = append(pubOpts, publisher.WithAsyncBuffer(opts.AuditBuffer))
	}
	auditPub := publisher.NewPublisher(st.Audit, pubOpts...)
	m := vaccinationmetrics.New(reg)

	accounts, err := accountservice.New(st.Users,
		accountservice.WithLogger(logger),
		accountservice.WithAuditPublisher(auditPub),
	)
	if err != nil {
		return nil, err
	}
	farmers, err := farmerservice.New(st.Farmers, accounts,
		farmerservice.WithLogger(logger),
		farmerservice.WithAuditPublisher(auditPub),
	)
	if err != nil {
		return nil, err
	}
	paravets, err := paravetservice.New(st.Paravets, accounts,
		paravetservice.WithLogger(logger),
		paravetservice.WithAuditPublisher(auditPub),
	)
	if err != nil {
		return nil, err
	}
	sales, err := salesservice.New(st.SalesMembers, accounts,
		salesservice.WithLogger(logger),
		salesservice.WithAuditPublisher(auditPub),
	)
	if err != nil {
		return nil, err
	}
	vaccines, err := vaccineservice.New(st.Vaccines,
		vaccineservice.WithLogger(logger),
		vaccineservice.WithAuditPublisher(auditPub),
		vaccineservice.WithUsageCounter(st.Vaccinations),
	)
	if err != nil {
		return nil, err
	}
	animals, err := animalservice.New(st.Animals, farmers,
		animalservice.WithLogger(logger),
		animalservice.WithAuditPublisher(auditPub),
		animalservice.WithRecordCleaner(st.Vaccinations),
	)
	if err != nil {
		return nil, err
	}
	vaccOpts := []vaccinationservice.Option{
		vaccinationservice.WithLogger(logger),
		vaccinationservice.WithAuditPublisher(auditPub),
		vaccinationservice.WithMetrics(m),
	}
	if st.StatsCache != nil {
		vaccOpts = append(vaccOpts, vaccinationservice.WithStatsCache(st.StatsCache))
	}
	vaccinations, err := vaccinationservice.New(st.Vaccinations, animals, vaccines, vaccOpts...)
	if err != nil {
		return nil, err
	}
	registration, err := registrationservice.New(animals, vaccinations, st.Tx,
		registrationservice.WithLogger(logger),
		registrationservice.WithAuditPublisher(auditPub),
		registrationservice.WithMetrics(m),
	)
	if err != nil {
		return nil, err
	}
	outreach, err := outreachservice.New(st.Contacts, st.Subscribers, outreachservice.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return &Services{
		Accounts:     accounts,
		Farmers:      farmers,
		Paravets:     paravets,
		SalesTeam:    sales,
		Vaccines:     vaccines,
		Animals:      animals,
		Vaccinations: vaccinations,
		Registration: registration,
		Outreach:     outreach,
		Audit:        auditPub,
		Metrics:      m,
	}, nil
}

// Handlers builds the HTTP handlers over the services.
func (s *Services) Handlers(logger *slog.Logger) httptransport.Handlers {
	return httptransport.Handlers{
		Accounts:      accounthandler.New(s.Accounts, logger),
		Farmers:       farmerhandler.New(s.Farmers, logger),
		Paravets:      paravethandler.New(s.Paravets, logger),
		SalesTeam:     saleshandler.New(s.SalesTeam, logger),
		Vaccines:      vaccinehandler.New(s.Vaccines, logger),
		Animals:       animalhandler.New(s.Animals, logger),
		Vaccinations:  vaccinationhandler.New(s.Vaccinations, logger),
		Registrations: registrationhandler.New(s.Registration, logger),
		Outreach:      outreachhandler.New(s.Outreach, logger),
		Audit:         audithandler.NewHandler(s.Audit, logger),
	}
}

// Close flushes buffered audit events.
func (s *Services) Close() {
	s.Audit.Close()
}
