package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"furrymatch-backend/internal/domains/owner/model"
	"furrymatch-backend/internal/infrastructure/database"
	"furrymatch-backend/internal/shared/apperror"
	"furrymatch-backend/internal/shared/crud"
	"furrymatch-backend/internal/shared/pagination"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) crud.Repository[*model.Owner] {
	return &postgresRepository{pool: pool}
}

const ownerColumns = `id, first_name, last_name, email, telephone, city, description, user_id`

// sortColumns whitelists the properties clients may sort on.
var sortColumns = map[string]string{
	"id":        "id",
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"city":      "city",
}

func scanOwner(row pgx.Row) (*model.Owner, error) {
	var o model.Owner
	err := row.Scan(&o.ID, &o.FirstName, &o.LastName, &o.Email, &o.Telephone, &o.City, &o.Description, &o.UserID)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// userError turns the user_id foreign key violation into a client error.
// It also covers a token that outlived its deleted account.
func userError(err error) error {
	if database.IsForeignKeyViolation(err) {
		return apperror.BadRequest(model.EntityName, "usernotfound", "user does not exist")
	}
	return err
}

func (r *postgresRepository) Create(ctx context.Context, o *model.Owner) (*model.Owner, error) {
	query := `
		INSERT INTO owners (first_name, last_name, email, telephone, city, description, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + ownerColumns

	created, err := scanOwner(r.pool.QueryRow(ctx, query,
		o.FirstName, o.LastName, o.Email, o.Telephone, o.City, o.Description, o.UserID,
	))
	if err != nil {
		return nil, fmt.Errorf("insert owner: %w", userError(err))
	}
	return created, nil
}

func (r *postgresRepository) Update(ctx context.Context, o *model.Owner) (*model.Owner, error) {
	if o.ID == nil {
		return nil, crud.ErrNotFound
	}

	query := `
		UPDATE owners
		SET first_name = $2, last_name = $3, email = $4, telephone = $5,
		    city = $6, description = $7, user_id = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + ownerColumns

	updated, err := scanOwner(r.pool.QueryRow(ctx, query,
		*o.ID, o.FirstName, o.LastName, o.Email, o.Telephone, o.City, o.Description, o.UserID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, crud.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update owner: %w", userError(err))
	}
	return updated, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*model.Owner, error) {
	o, err := scanOwner(r.pool.QueryRow(ctx, `SELECT `+ownerColumns+` FROM owners WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, crud.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find owner: %w", err)
	}
	return o, nil
}

func (r *postgresRepository) FindAll(ctx context.Context, p pagination.Pageable) ([]*model.Owner, int64, error) {
	orderBy, err := database.OrderBy(p.Sort, sortColumns, "id")
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM owners`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count owners: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+ownerColumns+` FROM owners `+orderBy+` LIMIT $1 OFFSET $2`,
		p.Size, p.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()

	owners := make([]*model.Owner, 0, p.Size)
	for rows.Next() {
		o, err := scanOwner(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan owner: %w", err)
		}
		owners = append(owners, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate owners: %w", err)
	}

	return owners, total, nil
}

func (r *postgresRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM owners WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete owner: %w", err)
	}
	return nil
}

func (r *postgresRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var ok bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM owners WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("check owner exists: %w", err)
	}
	return ok, nil
}
