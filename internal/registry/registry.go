// Package registry records prepared datasets and their immutable versions
// in Postgres.
package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Metadata is free-form JSON attached to datasets and versions.
type Metadata map[string]any

// Dataset is a named dataset within the registry.
type Dataset struct {
	ID              string
	Name            string
	Description     string
	Metadata        Metadata
	CreatedAt       time.Time
	CreatedBy       string
	IntegritySHA256 string
}

// DatasetVersion is one immutable published snapshot of a dataset split.
type DatasetVersion struct {
	ID              string
	DatasetID       string
	Split           string
	Ordinal         int64
	ObjectKey       string
	ContentSHA256   string
	SizeBytes       int64
	RowCount        int64
	Metadata        Metadata
	CreatedAt       time.Time
	CreatedBy       string
	IntegritySHA256 string
}

func (d Dataset) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return errors.New("dataset id is required")
	}
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("dataset name is required")
	}
	return nil
}

func (v DatasetVersion) Validate() error {
	if strings.TrimSpace(v.ID) == "" {
		return errors.New("version id is required")
	}
	if strings.TrimSpace(v.DatasetID) == "" {
		return errors.New("dataset id is required")
	}
	if strings.TrimSpace(v.Split) == "" {
		return errors.New("split is required")
	}
	if strings.TrimSpace(v.ObjectKey) == "" {
		return errors.New("object key is required")
	}
	if strings.TrimSpace(v.ContentSHA256) == "" {
		return errors.New("content sha256 is required")
	}
	if v.RowCount < 0 {
		return errors.New("row count must be >= 0")
	}
	return nil
}

// ComputeIntegritySHA256 fingerprints the dataset's registered fields so
// tampering with a registry row is detectable.
func (d Dataset) ComputeIntegritySHA256() (string, error) {
	metadataJSON, err := encodeMetadata(d.Metadata)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	type integrityInput struct {
		DatasetID   string          `json:"dataset_id"`
		Name        string          `json:"name"`
		Description string          `json:"description,omitempty"`
		Metadata    json.RawMessage `json:"metadata"`
		CreatedAt   time.Time       `json:"created_at"`
		CreatedBy   string          `json:"created_by"`
	}
	payload, err := json.Marshal(integrityInput{
		DatasetID:   strings.TrimSpace(d.ID),
		Name:        strings.TrimSpace(d.Name),
		Description: strings.TrimSpace(d.Description),
		Metadata:    metadataJSON,
		CreatedAt:   d.CreatedAt.UTC(),
		CreatedBy:   strings.TrimSpace(d.CreatedBy),
	})
	if err != nil {
		return "", fmt.Errorf("marshal integrity input: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// ComputeIntegritySHA256 fingerprints the version's registered fields so tampering
// with a registry row is detectable.
func (v DatasetVersion) ComputeIntegritySHA256() (string, error) {
	metadataJSON, err := encodeMetadata(v.Metadata)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	type integrityInput struct {
		VersionID     string          `json:"version_id"`
		DatasetID     string          `json:"dataset_id"`
		Split         string          `json:"split"`
		Ordinal       int64           `json:"ordinal"`
		ObjectKey     string          `json:"object_key"`
		ContentSHA256 string          `json:"content_sha256"`
		SizeBytes     int64           `json:"size_bytes"`
		RowCount      int64           `json:"row_count"`
		Metadata      json.RawMessage `json:"metadata"`
		CreatedAt     time.Time       `json:"created_at"`
		CreatedBy     string          `json:"created_by"`
	}
	payload, err := json.Marshal(integrityInput{
		VersionID:     strings.TrimSpace(v.ID),
		DatasetID:     strings.TrimSpace(v.DatasetID),
		Split:         strings.TrimSpace(v.Split),
		Ordinal:       v.Ordinal,
		ObjectKey:     strings.TrimSpace(v.ObjectKey),
		ContentSHA256: strings.TrimSpace(v.ContentSHA256),
		SizeBytes:     v.SizeBytes,
		RowCount:      v.RowCount,
		Metadata:      metadataJSON,
		CreatedAt:     v.CreatedAt.UTC(),
		CreatedBy:     strings.TrimSpace(v.CreatedBy),
	})
	if err != nil {
		return "", fmt.Errorf("marshal integrity input: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func encodeMetadata(meta Metadata) ([]byte, error) {
	if meta == nil {
		meta = Metadata{}
	}
	return json.Marshal(meta)
}

func decodeMetadata(raw []byte) (Metadata, error) {
	if len(raw) == 0 {
		return Metadata{}, nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return Metadata(out), nil
}
