package images

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/prodshot/prodshot/internal/common"
	"github.com/prodshot/prodshot/internal/dbx"
	"github.com/prodshot/prodshot/internal/server/models"
)

// PostgresRepository implements the image index over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, userID int64, filename string) (*models.ImageRecord, error) {

	query :=
		`INSERT INTO user_images (user_id, filename)
		 VALUES ($1, $2)
		 RETURNING id, created_at
		 `

	rec := &models.ImageRecord{UserID: userID, Filename: filename}
	err := r.db.QueryRowContext(ctx, query, userID, filename).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

// ListByUser returns the owner's records newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.ImageRecord, error) {
	query :=
		`SELECT id, user_id, filename, created_at FROM user_images
		 WHERE user_id = $1
		 ORDER BY id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.ImageRecord
	for rows.Next() {
		var item models.ImageRecord
		if err := rows.Scan(&item.ID, &item.UserID, &item.Filename, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByFilename authorizes access: the row must match both filename and owner.
func (r *PostgresRepository) GetByFilename(ctx context.Context, userID int64, filename string) (*models.ImageRecord, error) {
	query :=
		`SELECT id, user_id, filename, created_at FROM user_images
		 WHERE filename = $1 AND user_id = $2
		 `

	rec := &models.ImageRecord{}
	err := r.db.QueryRowContext(ctx, query, filename, userID).Scan(&rec.ID, &rec.UserID, &rec.Filename, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID int64, id int64) (*models.ImageRecord, error) {
	query :=
		`SELECT id, user_id, filename, created_at FROM user_images
		 WHERE id = $1 AND user_id = $2
		 `

	rec := &models.ImageRecord{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&rec.ID, &rec.UserID, &rec.Filename, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

// Delete removes the row if it belongs to userID. Deleting a row that does
// not exist (or is owned by someone else) yields common.ErrorNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, userID int64, id int64) error {
	query := `DELETE FROM user_images WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
