package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prodshot/prodshot/internal/common"
	"github.com/prodshot/prodshot/internal/dbx"
	"github.com/prodshot/prodshot/internal/logging"
	"github.com/prodshot/prodshot/internal/server/models"
	"github.com/prodshot/prodshot/internal/server/repositories/repomanager"
	"github.com/prodshot/prodshot/internal/server/storage"
)

// minPayloadLength guards against corrupt or empty base64 entries; anything
// shorter is skipped with a warning instead of aborting the batch.
const minPayloadLength = 100

// fileURLPrefix is the authenticated retrieval path prepended to filenames
// returned by List.
const fileURLPrefix = "/api/images/file/"

// ImageService owns the per-user image gallery: batch save, list, fetch,
// and delete, with a mandatory ownership check on every read and delete.
type ImageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       storage.BlobStore
	logger      logging.Logger
}

func NewImageService(db *sql.DB, m repomanager.RepositoryManager, blobs storage.BlobStore, logger logging.Logger) *ImageService {
	return &ImageService{db: db, repomanager: m, blobs: blobs, logger: logger}
}

// newFilename builds a collision-resistant name: millisecond timestamp plus
// a uuid fragment, never derived from user input.
func newFilename() string {
	return fmt.Sprintf("%d-%s.png", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// Save decodes and persists a batch of base64 payloads for ownerID and
// returns the number of stored images. Entries below the sanity threshold
// or with invalid base64 are skipped with a warning. All index inserts run
// in one transaction, in input order; if any insert fails the rows roll
// back, but blobs already written stay behind (accepted limitation, kept
// for parity with the original system).
func (s *ImageService) Save(ctx context.Context, ownerID int64, payloads []string) (int, error) {
	if len(payloads) == 0 {
		return 0, common.ErrorValidation
	}

	type pending struct {
		filename string
		data     []byte
	}

	var batch []pending
	for _, b64 := range payloads {
		if len(b64) < minPayloadLength {
			s.logger.Warn(ctx, "skipping suspicious image payload", "length", len(b64))
			continue
		}
		data, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			s.logger.Warn(ctx, "skipping undecodable image payload", "error", err.Error())
			continue
		}
		batch = append(batch, pending{filename: newFilename(), data: data})
	}

	for _, p := range batch {
		if err := s.blobs.Save(ctx, p.filename, p.data); err != nil {
			return 0, fmt.Errorf("%w: %v", common.ErrorStorage, err)
		}
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Images(tx)
		for _, p := range batch {
			if _, err := repo.Insert(ctx, ownerID, p.filename); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}

	return len(batch), nil
}

// List returns ownerID's records newest first, each annotated with its
// retrieval URL.
func (s *ImageService) List(ctx context.Context, ownerID int64) ([]*models.ImageRecord, error) {
	repo := s.repomanager.Images(s.db)

	records, err := repo.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}

	for _, r := range records {
		r.URL = fileURLPrefix + r.Filename
	}
	return records, nil
}

// Fetch streams back the bytes of the named image. The index row must match
// both filename and owner, and the blob must still exist; otherwise
// common.ErrorNotFound.
func (s *ImageService) Fetch(ctx context.Context, ownerID int64, filename string) ([]byte, error) {
	repo := s.repomanager.Images(s.db)

	rec, err := repo.GetByFilename(ctx, ownerID, filename)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}

	data, err := s.blobs.Load(ctx, rec.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}
	return data, nil
}

// Delete removes the record with the given id if ownerID owns it, then
// removes the blob best-effort (a missing file is not an error).
func (s *ImageService) Delete(ctx context.Context, ownerID int64, id int64) error {
	repo := s.repomanager.Images(s.db)

	rec, err := repo.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}

	if err := repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}

	if err := s.blobs.Delete(ctx, rec.Filename); err != nil {
		s.logger.Warn(ctx, "could not remove blob", "filename", rec.Filename, "error", err.Error())
	}
	return nil
}
