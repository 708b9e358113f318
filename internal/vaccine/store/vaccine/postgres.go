package vaccine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"zoopito/internal/platform/postgres"
	"zoopito/internal/vaccine/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
)

var constraints = postgres.Constraints{
	"vaccines_name_key": "name",
}

const vaccineColumns = `id, name, brand, manufacturer, vaccine_type, disease_target, category, target_species,
	administration_route, dosage_unit, standard_dosage, booster_interval_weeks, default_next_due_months,
	immunity_duration_months, minimum_age_weeks, withdrawal_period_days, requires_refrigeration, notes,
	is_active, created_by, updated_by, created_at, updated_at`

// PostgresStore persists the vaccine catalogue.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, v *models.Vaccine) error {
	_, err := postgres.Querier(ctx, s.db).ExecContext(ctx,
		`INSERT INTO vaccines (`+vaccineColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`,
		uuid.UUID(v.ID), v.Name, v.Brand, v.Manufacturer, string(v.VaccineType), v.DiseaseTarget,
		string(v.Category), pq.Array(species(v.TargetSpecies)), string(v.AdministrationRoute), string(v.DosageUnit),
		v.StandardDosage, v.BoosterIntervalWeeks, v.DefaultNextDueMonths, v.ImmunityDurationMonths,
		v.MinimumAgeWeeks, v.WithdrawalPeriodDays, v.RequiresRefrigeration, v.Notes, v.IsActive,
		postgres.NullUUID(uuid.UUID(v.CreatedBy)), postgres.NullUUID(uuid.UUID(v.UpdatedBy)),
		v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert vaccine: %w", postgres.Translate(err, constraints))
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, v *models.Vaccine) error {
	res, err := postgres.Querier(ctx, s.db).ExecContext(ctx,
		`UPDATE vaccines SET name = $2, brand = $3, manufacturer = $4, vaccine_type = $5, disease_target = $6,
			category = $7, target_species = $8, administration_route = $9, dosage_unit = $10,
			standard_dosage = $11, booster_interval_weeks = $12, default_next_due_months = $13,
			immunity_duration_months = $14, minimum_age_weeks = $15, withdrawal_period_days = $16,
			requires_refrigeration = $17, notes = $18, is_active = $19, updated_by = $20, updated_at = $21
		WHERE id = $1`,
		uuid.UUID(v.ID), v.Name, v.Brand, v.Manufacturer, string(v.VaccineType), v.DiseaseTarget,
		string(v.Category), pq.Array(species(v.TargetSpecies)), string(v.AdministrationRoute), string(v.DosageUnit),
		v.StandardDosage, v.BoosterIntervalWeeks, v.DefaultNextDueMonths, v.ImmunityDurationMonths,
		v.MinimumAgeWeeks, v.WithdrawalPeriodDays, v.RequiresRefrigeration, v.Notes, v.IsActive,
		postgres.NullUUID(uuid.UUID(v.UpdatedBy)), v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update vaccine: %w", postgres.Translate(err, constraints))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("vaccine %s: %w", v.ID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, vaccineID id.VaccineID) (*models.Vaccine, error) {
	row := postgres.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+vaccineColumns+` FROM vaccines WHERE id = $1`, uuid.UUID(vaccineID))
	v, err := scanVaccine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("vaccine %s: %w", vaccineID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find vaccine: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Vaccine, int, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(lower(name) LIKE $%d OR lower(disease_target) LIKE $%d OR lower(brand) LIKE $%d)", n, n, n))
	}
	if filter.Species != "" && filter.Species != models.SpeciesAll {
		args = append(args, filter.Species)
		conds = append(conds, fmt.Sprintf("$%d = ANY(target_species)", len(args)))
	}
	if filter.Category != "" && filter.Category != models.SpeciesAll {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conds = append(conds, fmt.Sprintf("is_active = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	q := postgres.Querier(ctx, s.db)
	var total int
	if err := q.QueryRowContext(ctx, `SELECT count(*) FROM vaccines`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count vaccines: %w", err)
	}

	args = append(args, limit, offset)
	vaccines, err := s.query(ctx, fmt.Sprintf(
		`SELECT %s FROM vaccines%s ORDER BY name LIMIT $%d OFFSET $%d`,
		vaccineColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	return vaccines, total, nil
}

func (s *PostgresStore) Dropdown(ctx context.Context, speciesName string) ([]*models.Vaccine, error) {
	if speciesName == "" {
		return s.query(ctx, `SELECT `+vaccineColumns+` FROM vaccines WHERE is_active ORDER BY name`)
	}
	return s.query(ctx, `SELECT `+vaccineColumns+` FROM vaccines
		WHERE is_active AND ($1 = ANY(target_species) OR 'All' = ANY(target_species))
		ORDER BY name`, speciesName)
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*models.Vaccine, error) {
	rows, err := postgres.Querier(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query vaccines: %w", err)
	}
	defer rows.Close()

	var vaccines []*models.Vaccine
	for rows.Next() {
		v, err := scanVaccine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vaccine: %w", err)
		}
		vaccines = append(vaccines, v)
	}
	return vaccines, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, vaccineID id.VaccineID) error {
	res, err := postgres.Querier(ctx, s.db).ExecContext(ctx, `DELETE FROM vaccines WHERE id = $1`, uuid.UUID(vaccineID))
	if err != nil {
		return fmt.Errorf("delete vaccine: %w", postgres.Translate(err, constraints))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("vaccine %s: %w", vaccineID, sentinel.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVaccine(row scanner) (*models.Vaccine, error) {
	var (
		v          models.Vaccine
		rawID      uuid.UUID
		vtype      string
		category   string
		route      string
		unit       string
		speciesSet pq.StringArray
		createdBy  uuid.NullUUID
		updatedBy  uuid.NullUUID
	)
	err := row.Scan(&rawID, &v.Name, &v.Brand, &v.Manufacturer, &vtype, &v.DiseaseTarget, &category,
		&speciesSet, &route, &unit, &v.StandardDosage, &v.BoosterIntervalWeeks, &v.DefaultNextDueMonths,
		&v.ImmunityDurationMonths, &v.MinimumAgeWeeks, &v.WithdrawalPeriodDays, &v.RequiresRefrigeration,
		&v.Notes, &v.IsActive, &createdBy, &updatedBy, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	v.ID = id.VaccineID(rawID)
	v.VaccineType = models.VaccineType(vtype)
	v.Category = models.Category(category)
	v.AdministrationRoute = models.Route(route)
	v.DosageUnit = models.DosageUnit(unit)
	v.TargetSpecies = []string(speciesSet)
	v.CreatedBy = id.UserID(createdBy.UUID)
	v.UpdatedBy = id.UserID(updatedBy.UUID)
	return &v, nil
}

func species(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
