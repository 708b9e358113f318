package farmer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"zoopito/internal/farmer/models"
	"zoopito/internal/platform/postgres"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
)

var constraints = postgres.Constraints{
	"farmers_mobile_number_key":    "mobile_number",
	"farmers_unique_farmer_id_key": "unique_farmer_id",
}

const farmerColumns = `id, user_id, name, mobile_number, village, taluka, district, state, pincode,
	location_lng, location_lat, assigned_paravet, total_animals, is_active, unique_farmer_id,
	registered_by, created_at, updated_at`

// PostgresStore persists farmers.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, f *models.Farmer) error {
	query := `INSERT INTO farmers (` + farmerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := postgres.Querier(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(f.ID),
		postgres.NullUUID(uuid.UUID(f.UserID)),
		f.Name,
		f.MobileNumber,
		f.Address.Village,
		f.Address.Taluka,
		f.Address.District,
		f.Address.State,
		f.Address.Pincode,
		f.Location.Lng(),
		f.Location.Lat(),
		paravetParam(f.AssignedParavet),
		f.TotalAnimals,
		f.IsActive,
		f.UniqueFarmerID,
		postgres.NullUUID(uuid.UUID(f.RegisteredBy)),
		f.CreatedAt,
		f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert farmer: %w", postgres.Translate(err, constraints))
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, f *models.Farmer) error {
	query := `UPDATE farmers SET
			name = $2, mobile_number = $3, village = $4, taluka = $5, district = $6, state = $7,
			pincode = $8, location_lng = $9, location_lat = $10, assigned_paravet = $11,
			total_animals = $12, is_active = $13, updated_at = $14
		WHERE id = $1`
	res, err := postgres.Querier(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(f.ID),
		f.Name,
		f.MobileNumber,
		f.Address.Village,
		f.Address.Taluka,
		f.Address.District,
		f.Address.State,
		f.Address.Pincode,
		f.Location.Lng(),
		f.Location.Lat(),
		paravetParam(f.AssignedParavet),
		f.TotalAnimals,
		f.IsActive,
		f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update farmer: %w", postgres.Translate(err, constraints))
	}
	return expectOne(res, f.ID)
}

func (s *PostgresStore) FindByID(ctx context.Context, farmerID id.FarmerID) (*models.Farmer, error) {
	row := postgres.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+farmerColumns+` FROM farmers WHERE id = $1`, uuid.UUID(farmerID))
	f, err := scanFarmer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("farmer %s: %w", farmerID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find farmer: %w", err)
	}
	return f, nil
}

func (s *PostgresStore) UniqueIDExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := postgres.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM farmers WHERE unique_farmer_id = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check farmer code: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Farmer, int, error) {
	var (
		conds []string
		args  []any
	)
	if filter.ActiveOnly {
		conds = append(conds, "is_active")
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(lower(name) LIKE $%d OR mobile_number LIKE $%d OR lower(village) LIKE $%d)", n, n, n))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	q := postgres.Querier(ctx, s.db)
	var total int
	if err := q.QueryRowContext(ctx, `SELECT count(*) FROM farmers`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count farmers: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := q.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM farmers%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		farmerColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list farmers: %w", err)
	}
	defer rows.Close()

	var farmers []*models.Farmer
	for rows.Next() {
		f, err := scanFarmer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan farmer: %w", err)
		}
		farmers = append(farmers, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list farmers: %w", err)
	}
	return farmers, total, nil
}

func (s *PostgresStore) SearchIDs(ctx context.Context, term string) ([]id.FarmerID, error) {
	rows, err := postgres.Querier(ctx, s.db).QueryContext(ctx,
		`SELECT id FROM farmers WHERE lower(name) LIKE $1 OR mobile_number LIKE $1`,
		"%"+strings.ToLower(term)+"%")
	if err != nil {
		return nil, fmt.Errorf("search farmers: %w", err)
	}
	defer rows.Close()

	var ids []id.FarmerID
	for rows.Next() {
		var raw uuid.UUID
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan farmer id: %w", err)
		}
		ids = append(ids, id.FarmerID(raw))
	}
	return ids, rows.Err()
}

func (s *PostgresStore) AdjustAnimalCount(ctx context.Context, farmerID id.FarmerID, delta int) error {
	res, err := postgres.Querier(ctx, s.db).ExecContext(ctx,
		`UPDATE farmers SET total_animals = GREATEST(total_animals + $2, 0) WHERE id = $1`,
		uuid.UUID(farmerID), delta)
	if err != nil {
		return fmt.Errorf("adjust animal count: %w", err)
	}
	return expectOne(res, farmerID)
}

func (s *PostgresStore) Delete(ctx context.Context, farmerID id.FarmerID) error {
	res, err := postgres.Querier(ctx, s.db).ExecContext(ctx, `DELETE FROM farmers WHERE id = $1`, uuid.UUID(farmerID))
	if err != nil {
		return fmt.Errorf("delete farmer: %w", err)
	}
	return expectOne(res, farmerID)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFarmer(row scanner) (*models.Farmer, error) {
	var (
		f            models.Farmer
		rawID        uuid.UUID
		userID       uuid.NullUUID
		paravet      uuid.NullUUID
		registeredBy uuid.NullUUID
		lng, lat     float64
	)
	err := row.Scan(&rawID, &userID, &f.Name, &f.MobileNumber, &f.Address.Village, &f.Address.Taluka,
		&f.Address.District, &f.Address.State, &f.Address.Pincode, &lng, &lat, &paravet,
		&f.TotalAnimals, &f.IsActive, &f.UniqueFarmerID, &registeredBy, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	f.ID = id.FarmerID(rawID)
	f.UserID = id.UserID(userID.UUID)
	f.RegisteredBy = id.UserID(registeredBy.UUID)
	f.Location = models.Location{Type: "Point", Coordinates: []float64{lng, lat}}
	if paravet.Valid {
		p := id.ParavetID(paravet.UUID)
		f.AssignedParavet = &p
	}
	return &f, nil
}

func paravetParam(p *id.ParavetID) uuid.NullUUID {
	if p == nil {
		return uuid.NullUUID{}
	}
	return postgres.NullUUID(uuid.UUID(*p))
}

func expectOne(res sql.Result, farmerID id.FarmerID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("farmer %s: %w", farmerID, sentinel.ErrNotFound)
	}
	return nil
}
