package vaccination

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"zoopito/internal/platform/postgres"
	"zoopito/internal/vaccination/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
)

const vaccinationColumns = `id, farmer_id, animal_id, vaccine_id, vaccine_name, vaccine_type, batch_number,
	dose_number, total_doses_required, administration_method, dosage_amount, dosage_unit,
	date_administered, next_due_date, administered_by, status, verification_status, verification_notes,
	verified_by, had_adverse_reaction, adverse_reaction_details, notes, source, registration_batch_id,
	registration_batch_index, is_series_complete, series_completion_date, created_by, updated_by,
	created_at, updated_at`

// pendingCondition selects administered doses whose series still expects a booster.
const pendingCondition = `status = 'Administered' AND NOT is_series_complete AND next_due_date IS NOT NULL`

// PostgresStore persists vaccinations.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, v *models.Vaccination) error {
	_, err := postgres.Querier(ctx, s.db).ExecContext(ctx,
		`INSERT INTO vaccinations (`+vaccinationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)`,
		uuid.UUID(v.ID),
		uuid.UUID(v.FarmerID),
		uuid.UUID(v.AnimalID),
		uuid.UUID(v.VaccineID),
		v.VaccineName,
		v.VaccineType,
		v.BatchNumber,
		v.DoseNumber,
		v.TotalDosesRequired,
		string(v.AdministrationMethod),
		v.DosageAmount,
		string(v.DosageUnit),
		v.DateAdministered,
		postgres.NullTime(v.NextDueDate),
		v.AdministeredBy,
		string(v.Status),
		string(v.VerificationStatus),
		v.VerificationNotes,
		postgres.NullUUID(uuid.UUID(v.VerifiedBy)),
		v.HadAdverseReaction,
		v.AdverseReactionDetails,
		v.Notes,
		string(v.Source),
		postgres.NullString(v.RegistrationBatchID),
		nullInt(v.RegistrationBatchIndex),
		v.IsSeriesComplete,
		postgres.NullTime(v.SeriesCompletionDate),
		postgres.NullUUID(uuid.UUID(v.CreatedBy)),
		postgres.NullUUID(uuid.UUID(v.UpdatedBy)),
		v.CreatedAt,
		v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert vaccination: %w", postgres.Translate(err, nil))
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, v *models.Vaccination) error {
	res, err := postgres.Querier(ctx, s.db).ExecContext(ctx,
		`UPDATE vaccinations SET batch_number = $2, dose_number = $3, total_doses_required = $4,
			administration_method = $5, dosage_amount = $6, dosage_unit = $7, date_administered = $8,
			next_due_date = $9, administered_by = $10, status = $11, verification_status = $12,
			verification_notes = $13, verified_by = $14, had_adverse_reaction = $15,
			adverse_reaction_details = $16, notes = $17, is_series_complete = $18,
			series_completion_date = $19, updated_by = $20, updated_at = $21
		WHERE id = $1`,
		uuid.UUID(v.ID),
		v.BatchNumber,
		v.DoseNumber,
		v.TotalDosesRequired,
		string(v.AdministrationMethod),
		v.DosageAmount,
		string(v.DosageUnit),
		v.DateAdministered,
		postgres.NullTime(v.NextDueDate),
		v.AdministeredBy,
		string(v.Status),
		string(v.VerificationStatus),
		v.VerificationNotes,
		postgres.NullUUID(uuid.UUID(v.VerifiedBy)),
		v.HadAdverseReaction,
		v.AdverseReactionDetails,
		v.Notes,
		v.IsSeriesComplete,
		postgres.NullTime(v.SeriesCompletionDate),
		postgres.NullUUID(uuid.UUID(v.UpdatedBy)),
		v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update vaccination: %w", postgres.Translate(err, nil))
	}
	return expectOne(res, v.ID)
}

func (s *PostgresStore) FindByID(ctx context.Context, vaccinationID id.VaccinationID) (*models.Vaccination, error) {
	row := postgres.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+vaccinationColumns+` FROM vaccinations WHERE id = $1`, uuid.UUID(vaccinationID))
	v, err := scanVaccination(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("vaccination %s: %w", vaccinationID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find vaccination: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) Delete(ctx context.Context, vaccinationID id.VaccinationID) error {
	res, err := postgres.Querier(ctx, s.db).ExecContext(ctx,
		`DELETE FROM vaccinations WHERE id = $1`, uuid.UUID(vaccinationID))
	if err != nil {
		return fmt.Errorf("delete vaccination: %w", err)
	}
	return expectOne(res, vaccinationID)
}

func (s *PostgresStore) DeleteByAnimal(ctx context.Context, animalID id.AnimalID) error {
	if _, err := postgres.Querier(ctx, s.db).ExecContext(ctx,
		`DELETE FROM vaccinations WHERE animal_id = $1`, uuid.UUID(animalID)); err != nil {
		return fmt.Errorf("delete animal vaccinations: %w", err)
	}
	return nil
}

func (s *PostgresStore) CountByVaccine(ctx context.Context, vaccineID id.VaccineID) (int, error) {
	var n int
	if err := postgres.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT count(*) FROM vaccinations WHERE vaccine_id = $1`, uuid.UUID(vaccineID)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count vaccine usage: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) ListByAnimal(ctx context.Context, animalID id.AnimalID) ([]*models.Vaccination, error) {
	return s.query(ctx, `SELECT `+vaccinationColumns+` FROM vaccinations
		WHERE animal_id = $1 ORDER BY date_administered DESC`, uuid.UUID(animalID))
}

func (s *PostgresStore) Query(ctx context.Context, q models.Query, offset, limit int) ([]*models.Vaccination, int, error) {
	where, args := queryConditions(q)
	total, err := s.count(ctx, where, args)
	if err != nil {
		return nil, 0, err
	}
	args = append(args, limit, offset)
	out, err := s.query(ctx, fmt.Sprintf(
		`SELECT %s FROM vaccinations%s ORDER BY date_administered LIMIT $%d OFFSET $%d`,
		vaccinationColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *PostgresStore) Count(ctx context.Context, q models.Query) (int, error) {
	where, args := queryConditions(q)
	return s.count(ctx, where, args)
}

func (s *PostgresStore) DueBetween(ctx context.Context, from, to time.Time) ([]*models.Vaccination, error) {
	return s.query(ctx, `SELECT `+vaccinationColumns+` FROM vaccinations
		WHERE `+pendingCondition+` AND next_due_date >= $1 AND next_due_date <= $2
		ORDER BY next_due_date`, from, to)
}

func (s *PostgresStore) OverdueBefore(ctx context.Context, at time.Time) ([]*models.Vaccination, error) {
	return s.query(ctx, `SELECT `+vaccinationColumns+` FROM vaccinations
		WHERE `+pendingCondition+` AND next_due_date < $1
		ORDER BY next_due_date`, at)
}

func (s *PostgresStore) FarmerStats(ctx context.Context, farmerID id.FarmerID, now, until time.Time) (models.FarmerStats, error) {
	var stats models.FarmerStats
	err := postgres.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT count(*),
			count(DISTINCT animal_id),
			count(*) FILTER (WHERE next_due_date < $2 AND status = 'Administered'),
			count(*) FILTER (WHERE next_due_date >= $2 AND next_due_date <= $3)
		FROM vaccinations WHERE farmer_id = $1`,
		uuid.UUID(farmerID), now, until,
	).Scan(&stats.TotalVaccinations, &stats.UniqueAnimalCount, &stats.OverdueCount, &stats.UpcomingCount)
	if err != nil {
		return models.FarmerStats{}, fmt.Errorf("farmer vaccination stats: %w", err)
	}
	return stats, nil
}

func (s *PostgresStore) FindByBatch(ctx context.Context, batchID string) ([]*models.Vaccination, error) {
	return s.query(ctx, `SELECT `+vaccinationColumns+` FROM vaccinations
		WHERE registration_batch_id = $1 ORDER BY registration_batch_index, created_at`, batchID)
}

func (s *PostgresStore) count(ctx context.Context, where string, args []any) (int, error) {
	var n int
	if err := postgres.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT count(*) FROM vaccinations`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count vaccinations: %w", err)
	}
	return n, nil
}

func queryConditions(q models.Query) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if q.AdministeredFrom != nil {
		add("date_administered >= $%d", *q.AdministeredFrom)
	}
	if q.AdministeredTo != nil {
		add("date_administered < $%d", *q.AdministeredTo)
	}
	if q.DueBefore != nil {
		add("next_due_date < $%d", *q.DueBefore)
	}
	if q.ExcludeStatus != "" {
		add("status <> $%d", string(q.ExcludeStatus))
	}
	if !q.VaccineID.IsNil() {
		add("vaccine_id = $%d", uuid.UUID(q.VaccineID))
	}
	if q.Search != "" {
		args = append(args, "%"+strings.ToLower(q.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(lower(notes) LIKE $%d OR lower(vaccine_name) LIKE $%d OR lower(batch_number) LIKE $%d)", n, n, n))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*models.Vaccination, error) {
	rows, err := postgres.Querier(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query vaccinations: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Vaccination, 0)
	for rows.Next() {
		v, err := scanVaccination(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vaccination: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVaccination(row scanner) (*models.Vaccination, error) {
	var (
		v            models.Vaccination
		rawID        uuid.UUID
		farmerID     uuid.UUID
		animalID     uuid.UUID
		vaccineID    uuid.UUID
		method       string
		unit         string
		nextDue      sql.NullTime
		status       string
		verification string
		verifiedBy   uuid.NullUUID
		source       string
		batchID      sql.NullString
		batchIndex   sql.NullInt64
		completedAt  sql.NullTime
		createdBy    uuid.NullUUID
		updatedBy    uuid.NullUUID
	)
	err := row.Scan(&rawID, &farmerID, &animalID, &vaccineID, &v.VaccineName, &v.VaccineType, &v.BatchNumber,
		&v.DoseNumber, &v.TotalDosesRequired, &method, &v.DosageAmount, &unit,
		&v.DateAdministered, &nextDue, &v.AdministeredBy, &status, &verification, &v.VerificationNotes,
		&verifiedBy, &v.HadAdverseReaction, &v.AdverseReactionDetails, &v.Notes, &source, &batchID,
		&batchIndex, &v.IsSeriesComplete, &completedAt, &createdBy, &updatedBy,
		&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	v.ID = id.VaccinationID(rawID)
	v.FarmerID = id.FarmerID(farmerID)
	v.AnimalID = id.AnimalID(animalID)
	v.VaccineID = id.VaccineID(vaccineID)
	v.AdministrationMethod = models.Method(method)
	v.DosageUnit = models.DosageUnit(unit)
	v.NextDueDate = postgres.TimePtr(nextDue)
	v.Status = models.Status(status)
	v.VerificationStatus = models.Verification(verification)
	v.VerifiedBy = id.UserID(verifiedBy.UUID)
	v.Source = models.Source(source)
	v.RegistrationBatchID = batchID.String
	if batchIndex.Valid {
		idx := int(batchIndex.Int64)
		v.RegistrationBatchIndex = &idx
	}
	v.SeriesCompletionDate = postgres.TimePtr(completedAt)
	v.CreatedBy = id.UserID(createdBy.UUID)
	v.UpdatedBy = id.UserID(updatedBy.UUID)
	return &v, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func expectOne(res sql.Result, vaccinationID id.VaccinationID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("vaccination %s: %w", vaccinationID, sentinel.ErrNotFound)
	}
	return nil
}
