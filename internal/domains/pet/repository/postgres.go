package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"furrymatch-backend/internal/domains/pet/model"
	"furrymatch-backend/internal/infrastructure/database"
	"furrymatch-backend/internal/shared/apperror"
	"furrymatch-backend/internal/shared/crud"
	"furrymatch-backend/internal/shared/pagination"
)

// Repository adds the owner scoped listing to the generic contract.
type Repository interface {
	crud.Repository[*model.Pet]
	FindAllByOwner(ctx context.Context, ownerID int64, p pagination.Pageable) ([]*model.Pet, int64, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const petColumns = `id, name, pet_type, breed, sex, birth_date, weight, description, owner_id`

var sortColumns = map[string]string{
	"id":        "id",
	"name":      "name",
	"petType":   "pet_type",
	"breed":     "breed",
	"birthDate": "birth_date",
	"weight":    "weight",
	"ownerId":   "owner_id",
}

func scanPet(row pgx.Row) (*model.Pet, error) {
	var (
		p     model.Pet
		birth *time.Time
	)
	err := row.Scan(&p.ID, &p.Name, &p.PetType, &p.Breed, &p.Sex, &birth, &p.Weight, &p.Description, &p.OwnerID)
	if err != nil {
		return nil, err
	}
	if birth != nil {
		p.BirthDate = &model.Date{Time: *birth}
	}
	return &p, nil
}

func birthDateArg(p *model.Pet) *time.Time {
	if p.BirthDate == nil {
		return nil
	}
	return &p.BirthDate.Time
}

// ownerError turns the owner foreign key violation into a client error.
func ownerError(err error) error {
	if database.IsForeignKeyViolation(err) {
		return apperror.BadRequest(model.EntityName, "ownernotfound", "owner does not exist")
	}
	return err
}

func (r *postgresRepository) Create(ctx context.Context, p *model.Pet) (*model.Pet, error) {
	query := `
		INSERT INTO pets (name, pet_type, breed, sex, birth_date, weight, description, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + petColumns

	created, err := scanPet(r.pool.QueryRow(ctx, query,
		p.Name, p.PetType, p.Breed, p.Sex, birthDateArg(p), p.Weight, p.Description, p.OwnerID,
	))
	if err != nil {
		return nil, fmt.Errorf("insert pet: %w", ownerError(err))
	}
	return created, nil
}

func (r *postgresRepository) Update(ctx context.Context, p *model.Pet) (*model.Pet, error) {
	if p.ID == nil {
		return nil, crud.ErrNotFound
	}

	query := `
		UPDATE pets
		SET name = $2, pet_type = $3, breed = $4, sex = $5, birth_date = $6,
		    weight = $7, description = $8, owner_id = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + petColumns

	updated, err := scanPet(r.pool.QueryRow(ctx, query,
		*p.ID, p.Name, p.PetType, p.Breed, p.Sex, birthDateArg(p), p.Weight, p.Description, p.OwnerID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, crud.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update pet: %w", ownerError(err))
	}
	return updated, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*model.Pet, error) {
	p, err := scanPet(r.pool.QueryRow(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, crud.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find pet: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) FindAll(ctx context.Context, p pagination.Pageable) ([]*model.Pet, int64, error) {
	return r.list(ctx, "", nil, p)
}

func (r *postgresRepository) FindAllByOwner(ctx context.Context, ownerID int64, p pagination.Pageable) ([]*model.Pet, int64, error) {
	return r.list(ctx, "WHERE owner_id = $1", []interface{}{ownerID}, p)
}

func (r *postgresRepository) list(ctx context.Context, where string, args []interface{}, p pagination.Pageable) ([]*model.Pet, int64, error) {
	orderBy, err := database.OrderBy(p.Sort, sortColumns, "id")
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM pets `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pets: %w", err)
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM pets %s %s LIMIT $%d OFFSET $%d`, petColumns, where, orderBy, n+1, n+2)
	rows, err := r.pool.Query(ctx, query, append(args, p.Size, p.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list pets: %w", err)
	}
	defer rows.Close()

	pets := make([]*model.Pet, 0, p.Size)
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan pet: %w", err)
		}
		pets = append(pets, pet)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate pets: %w", err)
	}

	return pets, total, nil
}

func (r *postgresRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM pets WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete pet: %w", err)
	}
	return nil
}

func (r *postgresRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var ok bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM pets WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("check pet exists: %w", err)
	}
	return ok, nil
}
