package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"furrymatch-backend/internal/domains/photo/model"
	"furrymatch-backend/internal/infrastructure/database"
	"furrymatch-backend/internal/shared/apperror"
	"furrymatch-backend/internal/shared/crud"
	"furrymatch-backend/internal/shared/pagination"
	pkgdb "furrymatch-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const photoColumns = `id, pet_id, caption, content_type, object_key, thumbnail_key, size_bytes, uploaded_at`

var sortColumns = map[string]string{
	"id":         "id",
	"petId":      "pet_id",
	"caption":    "caption",
	"sizeBytes":  "size_bytes",
	"uploadedAt": "uploaded_at",
}

func scanPhoto(row pgx.Row) (*model.Photo, error) {
	var p model.Photo
	err := row.Scan(&p.ID, &p.PetID, &p.Caption, &p.ContentType, &p.ObjectKey, &p.ThumbnailKey, &p.SizeBytes, &p.UploadedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func petError(err error) error {
	if database.IsForeignKeyViolation(err) {
		return apperror.BadRequest(model.EntityName, "petnotfound", "pet does not exist")
	}
	return err
}

func (r *postgresRepository) Create(ctx context.Context, p *model.Photo) (*model.Photo, error) {
	query := `
		INSERT INTO photos (pet_id, caption)
		VALUES ($1, $2)
		RETURNING ` + photoColumns

	created, err := scanPhoto(r.pool.QueryRow(ctx, query, p.PetID, p.Caption))
	if err != nil {
		return nil, fmt.Errorf("insert photo: %w", petError(err))
	}
	return created, nil
}

// Update replaces the client editable columns; content columns are kept.
func (r *postgresRepository) Update(ctx context.Context, p *model.Photo) (*model.Photo, error) {
	if p.ID == nil {
		return nil, crud.ErrNotFound
	}

	query := `
		UPDATE photos
		SET pet_id = $2, caption = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + photoColumns

	updated, err := scanPhoto(r.pool.QueryRow(ctx, query, *p.ID, p.PetID, p.Caption))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, crud.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update photo: %w", petError(err))
	}
	return updated, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*model.Photo, error) {
	p, err := scanPhoto(r.pool.QueryRow(ctx, `SELECT `+photoColumns+` FROM photos WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, crud.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find photo: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) FindAll(ctx context.Context, p pagination.Pageable) ([]*model.Photo, int64, error) {
	orderBy, err := database.OrderBy(p.Sort, sortColumns, "id")
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM photos`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count photos: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+photoColumns+` FROM photos `+orderBy+` LIMIT $1 OFFSET $2`,
		p.Size, p.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	photos := make([]*model.Photo, 0, p.Size)
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan photo: %w", err)
		}
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate photos: %w", err)
	}

	return photos, total, nil
}

func (r *postgresRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	return nil
}

func (r *postgresRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var ok bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM photos WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("check photo exists: %w", err)
	}
	return ok, nil
}

func (r *postgresRepository) ReplaceContent(ctx context.Context, id int64, c model.Content) (*model.Photo, []string, error) {
	type result struct {
		photo    *model.Photo
		previous []string
	}

	res, err := pkgdb.InTx(ctx, r.pool, func(tx pgx.Tx) (result, error) {
		var objectKey, thumbnailKey *string
		err := tx.QueryRow(ctx,
			`SELECT object_key, thumbnail_key FROM photos WHERE id = $1 FOR UPDATE`, id,
		).Scan(&objectKey, &thumbnailKey)
		if errors.Is(err, pgx.ErrNoRows) {
			return result{}, crud.ErrNotFound
		}
		if err != nil {
			return result{}, fmt.Errorf("lock photo: %w", err)
		}

		updated, err := scanPhoto(tx.QueryRow(ctx, `
			UPDATE photos
			SET content_type = $2, object_key = $3, thumbnail_key = $4, size_bytes = $5,
			    uploaded_at = NOW(), updated_at = NOW()
			WHERE id = $1
			RETURNING `+photoColumns,
			id, c.ContentType, c.ObjectKey, c.ThumbnailKey, c.SizeBytes,
		))
		if err != nil {
			return result{}, fmt.Errorf("store photo content: %w", err)
		}

		previous := (&model.Photo{ObjectKey: objectKey, ThumbnailKey: thumbnailKey}).Keys()
		return result{photo: updated, previous: previous}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return res.photo, res.previous, nil
}

func (r *postgresRepository) ObjectKeys(ctx context.Context, id int64) ([]string, error) {
	return r.collectKeys(ctx, `SELECT object_key, thumbnail_key FROM photos WHERE id = $1`, id)
}

func (r *postgresRepository) PetObjectKeys(ctx context.Context, petID int64) ([]string, error) {
	return r.collectKeys(ctx, `SELECT object_key, thumbnail_key FROM photos WHERE pet_id = $1`, petID)
}

func (r *postgresRepository) OwnerObjectKeys(ctx context.Context, ownerID int64) ([]string, error) {
	return r.collectKeys(ctx, `
		SELECT ph.object_key, ph.thumbnail_key
		FROM photos ph
		JOIN pets p ON p.id = ph.pet_id
		WHERE p.owner_id = $1`, ownerID)
}

func (r *postgresRepository) collectKeys(ctx context.Context, query string, arg int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query photo objects: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var objectKey, thumbnailKey *string
		if err := rows.Scan(&objectKey, &thumbnailKey); err != nil {
			return nil, fmt.Errorf("scan photo objects: %w", err)
		}
		keys = append(keys, (&model.Photo{ObjectKey: objectKey, ThumbnailKey: thumbnailKey}).Keys()...)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate photo objects: %w", err)
	}
	return keys, nil
}

func (r *postgresRepository) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	existing := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT id FROM photos WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("query photo ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan photo id: %w", err)
		}
		existing[id] = true
	}
	return existing, rows.Err()
}
