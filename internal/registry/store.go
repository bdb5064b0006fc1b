package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DB is the subset of *sql.DB the store uses.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const insertDatasetQuery = `INSERT INTO datasets (
	dataset_id,
	name,
	description,
	metadata,
	created_at,
	created_by,
	integrity_sha256
) VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (name) DO NOTHING`

const selectDatasetByNameQuery = `SELECT dataset_id, name, description, metadata, created_at, created_by, integrity_sha256
FROM datasets
WHERE name = $1`

const insertVersionQuery = `INSERT INTO dataset_versions (
	version_id,
	dataset_id,
	split,
	ordinal,
	object_key,
	content_sha256,
	size_bytes,
	row_count,
	metadata,
	created_at,
	created_by,
	integrity_sha256
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`

const selectNextOrdinalQuery = `SELECT COALESCE(MAX(ordinal), 0) + 1
FROM dataset_versions
WHERE dataset_id = $1 AND split = $2`

const selectLatestVersionQuery = `SELECT version_id, dataset_id, split, ordinal, object_key, content_sha256, size_bytes, row_count, metadata, created_at, created_by, integrity_sha256
FROM dataset_versions
WHERE dataset_id = $1 AND split = $2
ORDER BY ordinal DESC
LIMIT 1`

// DatasetStore persists datasets and versions.
type DatasetStore struct {
	db DB
}

func NewDatasetStore(db DB) *DatasetStore {
	if db == nil {
		return nil
	}
	return &DatasetStore{db: db}
}

// EnsureDataset creates the named dataset if it does not exist and returns
// the stored row either way.
func (s *DatasetStore) EnsureDataset(ctx context.Context, dataset Dataset) (Dataset, error) {
	if s == nil || s.db == nil {
		return Dataset{}, fmt.Errorf("dataset store not initialized")
	}
	if err := dataset.Validate(); err != nil {
		return Dataset{}, err
	}
	if strings.TrimSpace(dataset.IntegritySHA256) == "" {
		return Dataset{}, errors.New("integrity sha256 is required")
	}
	metadataJSON, err := encodeMetadata(dataset.Metadata)
	if err != nil {
		return Dataset{}, fmt.Errorf("encode metadata: %w", err)
	}
	_, err = s.db.ExecContext(
		ctx,
		insertDatasetQuery,
		strings.TrimSpace(dataset.ID),
		strings.TrimSpace(dataset.Name),
		strings.TrimSpace(dataset.Description),
		metadataJSON,
		normalizeTime(dataset.CreatedAt),
		strings.TrimSpace(dataset.CreatedBy),
		strings.TrimSpace(dataset.IntegritySHA256),
	)
	if err != nil {
		return Dataset{}, fmt.Errorf("insert dataset: %w", err)
	}
	return s.GetDatasetByName(ctx, dataset.Name)
}

func (s *DatasetStore) GetDatasetByName(ctx context.Context, name string) (Dataset, error) {
	if s == nil || s.db == nil {
		return Dataset{}, fmt.Errorf("dataset store not initialized")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Dataset{}, fmt.Errorf("dataset name is required")
	}
	var dataset Dataset
	var metadataJSON []byte
	row := s.db.QueryRowContext(ctx, selectDatasetByNameQuery, name)
	if err := row.Scan(&dataset.ID, &dataset.Name, &dataset.Description, &metadataJSON, &dataset.CreatedAt, &dataset.CreatedBy, &dataset.IntegritySHA256); err != nil {
		return Dataset{}, handleNotFound(err)
	}
	meta, err := decodeMetadata(metadataJSON)
	if err != nil {
		return Dataset{}, fmt.Errorf("decode metadata: %w", err)
	}
	dataset.Metadata = meta
	return dataset, nil
}

// NextOrdinal returns the ordinal the next version of a split should take.
func (s *DatasetStore) NextOrdinal(ctx context.Context, datasetID, split string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("dataset store not initialized")
	}
	var ordinal int64
	row := s.db.QueryRowContext(ctx, selectNextOrdinalQuery, strings.TrimSpace(datasetID), strings.TrimSpace(split))
	if err := row.Scan(&ordinal); err != nil {
		return 0, fmt.Errorf("next ordinal: %w", err)
	}
	return ordinal, nil
}

func (s *DatasetStore) CreateVersion(ctx context.Context, version DatasetVersion) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("dataset store not initialized")
	}
	if err := version.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(version.IntegritySHA256) == "" {
		return errors.New("integrity sha256 is required")
	}
	metadataJSON, err := encodeMetadata(version.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	_, err = s.db.ExecContext(
		ctx,
		insertVersionQuery,
		strings.TrimSpace(version.ID),
		strings.TrimSpace(version.DatasetID),
		strings.TrimSpace(version.Split),
		version.Ordinal,
		strings.TrimSpace(version.ObjectKey),
		strings.TrimSpace(version.ContentSHA256),
		version.SizeBytes,
		version.RowCount,
		metadataJSON,
		normalizeTime(version.CreatedAt),
		strings.TrimSpace(version.CreatedBy),
		strings.TrimSpace(version.IntegritySHA256),
	)
	if err != nil {
		return fmt.Errorf("insert dataset version: %w", err)
	}
	return nil
}

func (s *DatasetStore) LatestVersion(ctx context.Context, datasetID, split string) (DatasetVersion, error) {
	if s == nil || s.db == nil {
		return DatasetVersion{}, fmt.Errorf("dataset store not initialized")
	}
	var version DatasetVersion
	var metadataJSON []byte
	row := s.db.QueryRowContext(ctx, selectLatestVersionQuery, strings.TrimSpace(datasetID), strings.TrimSpace(split))
	if err := row.Scan(&version.ID, &version.DatasetID, &version.Split, &version.Ordinal, &version.ObjectKey, &version.ContentSHA256, &version.SizeBytes, &version.RowCount, &metadataJSON, &version.CreatedAt, &version.CreatedBy, &version.IntegritySHA256); err != nil {
		return DatasetVersion{}, handleNotFound(err)
	}
	meta, err := decodeMetadata(metadataJSON)
	if err != nil {
		return DatasetVersion{}, fmt.Errorf("decode metadata: %w", err)
	}
	version.Metadata = meta
	return version, nil
}

func normalizeTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

func handleNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
