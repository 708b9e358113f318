package animal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"zoopito/internal/animal/models"
	"zoopito/internal/platform/postgres"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
)

var constraints = postgres.Constraints{
	"animals_tag_number_key":       "tag_number",
	"animals_unique_animal_id_key": "unique_animal_id",
}

const animalColumns = `id, farmer_id, registered_by, animal_type, breed, tag_number, unique_animal_id,
	registration_batch_id, registration_batch_index, name, gender, age_value, age_unit, date_of_birth,
	is_pregnant, pregnancy_month, health_status, next_vaccination_date, status, status_change_date,
	status_change_reason, is_active, current_owner, profile, created_at, updated_at`

// profile holds the nested animal details that are read whole and never filtered on.
type profile struct {
	Pregnancy       models.Pregnancy          `json:"pregnancy"`
	Health          models.Health             `json:"health"`
	Summary         models.VaccinationSummary `json:"vaccination_summary"`
	MedicalHistory  []models.MedicalRecord    `json:"medical_history"`
	AdditionalNotes string                    `json:"additional_notes,omitempty"`
}

// PostgresStore persists animals.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, a *models.Animal) error {
	raw, err := marshalProfile(a)
	if err != nil {
		return err
	}
	_, err = postgres.Querier(ctx, s.db).ExecContext(ctx,
		`INSERT INTO animals (`+animalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26)`,
		uuid.UUID(a.ID),
		uuid.UUID(a.FarmerID),
		postgres.NullUUID(uuid.UUID(a.RegisteredBy)),
		string(a.AnimalType),
		a.Breed,
		postgres.NullString(a.TagNumber),
		a.UniqueAnimalID,
		postgres.NullString(a.RegistrationBatchID),
		nullInt(a.RegistrationBatchIndex),
		a.Name,
		string(a.Gender),
		a.Age.Value,
		string(a.Age.Unit),
		postgres.NullTime(a.DateOfBirth),
		a.Pregnancy.IsPregnant,
		a.Pregnancy.Month,
		string(a.Health.Status),
		postgres.NullTime(a.VaccinationSummary.NextVaccinationDate),
		string(a.Status),
		postgres.NullTime(a.StatusChangeDate),
		a.StatusChangeReason,
		a.IsActive,
		postgres.NullUUID(uuid.UUID(a.CurrentOwner)),
		raw,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert animal: %w", postgres.Translate(err, constraints))
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, a *models.Animal) error {
	raw, err := marshalProfile(a)
	if err != nil {
		return err
	}
	res, err := postgres.Querier(ctx, s.db).ExecContext(ctx,
		`UPDATE animals SET farmer_id = $2, animal_type = $3, breed = $4, tag_number = $5, name = $6,
			gender = $7, age_value = $8, age_unit = $9, date_of_birth = $10, is_pregnant = $11,
			pregnancy_month = $12, health_status = $13, next_vaccination_date = $14, status = $15,
			status_change_date = $16, status_change_reason = $17, is_active = $18, current_owner = $19,
			profile = $20, updated_at = $21
		WHERE id = $1`,
		uuid.UUID(a.ID),
		uuid.UUID(a.FarmerID),
		string(a.AnimalType),
		a.Breed,
		postgres.NullString(a.TagNumber),
		a.Name,
		string(a.Gender),
		a.Age.Value,
		string(a.Age.Unit),
		postgres.NullTime(a.DateOfBirth),
		a.Pregnancy.IsPregnant,
		a.Pregnancy.Month,
		string(a.Health.Status),
		postgres.NullTime(a.VaccinationSummary.NextVaccinationDate),
		string(a.Status),
		postgres.NullTime(a.StatusChangeDate),
		a.StatusChangeReason,
		a.IsActive,
		postgres.NullUUID(uuid.UUID(a.CurrentOwner)),
		raw,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update animal: %w", postgres.Translate(err, constraints))
	}
	return expectOne(res, a.ID)
}

func (s *PostgresStore) FindByID(ctx context.Context, animalID id.AnimalID) (*models.Animal, error) {
	row := postgres.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+animalColumns+` FROM animals WHERE id = $1`, uuid.UUID(animalID))
	a, err := scanAnimal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("animal %s: %w", animalID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find animal: %w", err)
	}
	return a, nil
}

// FirstFreeSequence returns the lowest sequence not yet used under prefix.
// With n codes under the prefix, one of 1..n+1 is always free.
func (s *PostgresStore) FirstFreeSequence(ctx context.Context, prefix string) (int, error) {
	var seq int
	err := postgres.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT seq FROM generate_series(1,
			(SELECT count(*) + 1 FROM animals WHERE unique_animal_id LIKE $1::text || '%')::int) AS seq
		WHERE NOT EXISTS (
			SELECT 1 FROM animals
			WHERE unique_animal_id = $1::text || CASE WHEN seq < 10000 THEN lpad(seq::text, 4, '0') ELSE seq::text END)
		ORDER BY seq LIMIT 1`, prefix).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next animal sequence: %w", err)
	}
	return seq, nil
}

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Animal, int, error) {
	where, args := listConditions(filter)

	q := postgres.Querier(ctx, s.db)
	var total int
	if err := q.QueryRowContext(ctx, `SELECT count(*) FROM animals`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count animals: %w", err)
	}

	args = append(args, limit, offset)
	animals, err := s.query(ctx, fmt.Sprintf(
		`SELECT %s FROM animals%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		animalColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	return animals, total, nil
}

func (s *PostgresStore) ListByFarmer(ctx context.Context, farmerID id.FarmerID, activeOnly bool) ([]*models.Animal, error) {
	where, args := listConditions(models.ListFilter{FarmerID: farmerID, ActiveOnly: activeOnly})
	return s.query(ctx, `SELECT `+animalColumns+` FROM animals`+where+` ORDER BY created_at DESC`, args...)
}

func (s *PostgresStore) FindByBatch(ctx context.Context, batchID string) ([]*models.Animal, error) {
	return s.query(ctx, `SELECT `+animalColumns+` FROM animals
		WHERE registration_batch_id = $1 ORDER BY registration_batch_index`, batchID)
}

func (s *PostgresStore) Counts(ctx context.Context) (models.Counts, error) {
	var c models.Counts
	err := postgres.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT count(*) FILTER (WHERE is_active), count(*) FILTER (WHERE is_pregnant) FROM animals`).
		Scan(&c.Active, &c.Pregnant)
	if err != nil {
		return models.Counts{}, fmt.Errorf("count animals: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) Delete(ctx context.Context, animalID id.AnimalID) error {
	res, err := postgres.Querier(ctx, s.db).ExecContext(ctx, `DELETE FROM animals WHERE id = $1`, uuid.UUID(animalID))
	if err != nil {
		return fmt.Errorf("delete animal: %w", postgres.Translate(err, constraints))
	}
	return expectOne(res, animalID)
}

func listConditions(filter models.ListFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if !filter.FarmerID.IsNil() {
		args = append(args, uuid.UUID(filter.FarmerID))
		conds = append(conds, fmt.Sprintf("farmer_id = $%d", len(args)))
	}
	if filter.ActiveOnly {
		conds = append(conds, "is_active")
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.AnimalType != "" {
		args = append(args, string(filter.AnimalType))
		conds = append(conds, fmt.Sprintf("animal_type = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(lower(name) LIKE $%d OR lower(coalesce(tag_number, '')) LIKE $%d OR lower(unique_animal_id) LIKE $%d)", n, n, n))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*models.Animal, error) {
	rows, err := postgres.Querier(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query animals: %w", err)
	}
	defer rows.Close()

	animals := make([]*models.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan animal: %w", err)
		}
		animals = append(animals, a)
	}
	return animals, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnimal(row scanner) (*models.Animal, error) {
	var (
		a            models.Animal
		rawID        uuid.UUID
		farmerID     uuid.UUID
		registeredBy uuid.NullUUID
		animalType   string
		tag          sql.NullString
		batchID      sql.NullString
		batchIndex   sql.NullInt64
		gender       string
		ageUnit      string
		dob          sql.NullTime
		health       string
		nextDue      sql.NullTime
		status       string
		statusDate   sql.NullTime
		owner        uuid.NullUUID
		raw          []byte
	)
	err := row.Scan(&rawID, &farmerID, &registeredBy, &animalType, &a.Breed, &tag, &a.UniqueAnimalID,
		&batchID, &batchIndex, &a.Name, &gender, &a.Age.Value, &ageUnit, &dob,
		&a.Pregnancy.IsPregnant, &a.Pregnancy.Month, &health, &nextDue, &status, &statusDate,
		&a.StatusChangeReason, &a.IsActive, &owner, &raw, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	var p profile
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode animal profile: %w", err)
		}
	}
	isPregnant, month := a.Pregnancy.IsPregnant, a.Pregnancy.Month
	a.Pregnancy = p.Pregnancy
	a.Pregnancy.IsPregnant, a.Pregnancy.Month = isPregnant, month
	a.Health = p.Health
	a.Health.Status = models.HealthStatus(health)
	a.VaccinationSummary = p.Summary
	a.VaccinationSummary.NextVaccinationDate = postgres.TimePtr(nextDue)
	if a.VaccinationSummary.VaccinesGiven == nil {
		a.VaccinationSummary.VaccinesGiven = []models.VaccineStatus{}
	}
	a.MedicalHistory = p.MedicalHistory
	if a.MedicalHistory == nil {
		a.MedicalHistory = []models.MedicalRecord{}
	}
	a.AdditionalNotes = p.AdditionalNotes

	a.ID = id.AnimalID(rawID)
	a.FarmerID = id.FarmerID(farmerID)
	a.RegisteredBy = id.UserID(registeredBy.UUID)
	a.AnimalType = models.AnimalType(animalType)
	a.TagNumber = tag.String
	a.RegistrationBatchID = batchID.String
	if batchIndex.Valid {
		idx := int(batchIndex.Int64)
		a.RegistrationBatchIndex = &idx
	}
	a.Gender = models.Gender(gender)
	a.Age.Unit = models.AgeUnit(ageUnit)
	a.DateOfBirth = postgres.TimePtr(dob)
	a.Status = models.Status(status)
	a.StatusChangeDate = postgres.TimePtr(statusDate)
	a.CurrentOwner = id.FarmerID(owner.UUID)
	return &a, nil
}

func marshalProfile(a *models.Animal) (string, error) {
	raw, err := json.Marshal(profile{
		Pregnancy:       a.Pregnancy,
		Health:          a.Health,
		Summary:         a.VaccinationSummary,
		MedicalHistory:  a.MedicalHistory,
		AdditionalNotes: a.AdditionalNotes,
	})
	if err != nil {
		return "", fmt.Errorf("encode animal profile: %w", err)
	}
	return string(raw), nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func expectOne(res sql.Result, animalID id.AnimalID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("animal %s: %w", animalID, sentinel.ErrNotFound)
	}
	return nil
}
