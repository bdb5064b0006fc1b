package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/aman628/predictive-maintainance/internal/cmapss"
	"github.com/aman628/predictive-maintainance/internal/lineage"
	"github.com/aman628/predictive-maintainance/internal/parquetout"
	"github.com/aman628/predictive-maintainance/internal/quality"
	"github.com/aman628/predictive-maintainance/internal/registry"
)

// publisher is the infrastructure side of the pipeline. Nil when
// publication is disabled; the transform then runs against local disk only.
type publisher struct {
	store   versionRegistry
	objects objectUploader
	lineage lineageAppender
	actor   string
}

type versionRegistry interface {
	EnsureDataset(ctx context.Context, dataset registry.Dataset) (registry.Dataset, error)
	NextOrdinal(ctx context.Context, datasetID, split string) (int64, error)
	CreateVersion(ctx context.Context, version registry.DatasetVersion) error
}

type objectUploader interface {
	UploadFile(ctx context.Context, key, path, contentType, contentSHA256 string) (int64, error)
}

type lineageAppender interface {
	Append(ctx context.Context, event lineage.Event) (int64, error)
}

type pipeline struct {
	logger   *slog.Logger
	manifest Manifest
	pub      *publisher
	now      func() time.Time
}

type splitResult struct {
	Split         string
	Rows          int
	Units         int
	Output        string
	ContentSHA256 string
	VersionID     string
}

func newPipeline(logger *slog.Logger, manifest Manifest, pub *publisher) *pipeline {
	return &pipeline{
		logger:   logger,
		manifest: manifest,
		pub:      pub,
		now:      time.Now,
	}
}

// run processes every split in the manifest: read, enrich, gate, persist,
// and (when publishing) upload and register. The batch is all-or-nothing;
// the first failing split aborts the job.
func (p *pipeline) run(ctx context.Context) ([]splitResult, error) {
	if err := os.MkdirAll(p.manifest.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var (
		results   []splitResult
		datasetID string
	)
	if p.pub != nil {
		dataset, err := p.ensureDataset(ctx)
		if err != nil {
			return nil, err
		}
		datasetID = dataset.ID
	}

	for _, name := range p.manifest.splitNames() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := p.prepareSplit(ctx, name, datasetID)
		if err != nil {
			return nil, fmt.Errorf("split %s: %w", name, err)
		}
		results = append(results, result)
		p.logger.Info("split prepared",
			"split", result.Split,
			"rows", result.Rows,
			"units", result.Units,
			"output", result.Output,
			"content_sha256", result.ContentSHA256,
		)
	}
	return results, nil
}

func (p *pipeline) prepareSplit(ctx context.Context, name, datasetID string) (splitResult, error) {
	split := p.manifest.Splits[name]

	runs, err := cmapss.ReadRunsFile(split.Runs)
	if err != nil {
		return splitResult{}, fmt.Errorf("read runs: %w", err)
	}

	var labels map[int64]int64
	if split.Labels != "" {
		labels, err = cmapss.ReadLabelsFile(split.Labels)
		if err != nil {
			return splitResult{}, fmt.Errorf("read labels: %w", err)
		}
	}

	enriched, err := cmapss.Enrich(runs, labels)
	if err != nil {
		return splitResult{}, fmt.Errorf("enrich: %w", err)
	}

	report := quality.Evaluate(p.now(), quality.Inputs{
		Split:     name,
		InputRows: len(runs),
		Labels:    labels,
		Rows:      enriched,
	})
	if report.Status != "pass" {
		return splitResult{}, fmt.Errorf("quality gate failed: checks %v", report.Summary.Failing)
	}

	outputPath := filepath.Join(p.manifest.OutputDir, split.Output)
	written, err := parquetout.WriteFile(outputPath, enriched)
	if err != nil {
		return splitResult{}, fmt.Errorf("write parquet: %w", err)
	}

	units := make(map[int64]struct{})
	for _, run := range runs {
		units[run.UnitNumber] = struct{}{}
	}

	result := splitResult{
		Split:         name,
		Rows:          written.Rows,
		Units:         len(units),
		Output:        outputPath,
		ContentSHA256: written.ContentSHA256,
	}

	if p.pub == nil {
		return result, nil
	}

	versionID, err := p.publish(ctx, name, datasetID, split, written, report)
	if err != nil {
		return splitResult{}, err
	}
	result.VersionID = versionID
	return result, nil
}

func (p *pipeline) ensureDataset(ctx context.Context) (registry.Dataset, error) {
	dataset := registry.Dataset{
		ID:          uuid.NewString(),
		Name:        p.manifest.Dataset,
		Description: p.manifest.Description,
		Metadata:    registry.Metadata{"sensor_channels": sensorNames()},
		CreatedAt:   p.now().UTC(),
		CreatedBy:   p.pub.actor,
	}
	integrity, err := dataset.ComputeIntegritySHA256()
	if err != nil {
		return registry.Dataset{}, fmt.Errorf("dataset integrity: %w", err)
	}
	dataset.IntegritySHA256 = integrity

	stored, err := p.pub.store.EnsureDataset(ctx, dataset)
	if err != nil {
		return registry.Dataset{}, fmt.Errorf("ensure dataset: %w", err)
	}
	return stored, nil
}

func (p *pipeline) publish(ctx context.Context, name, datasetID string, split *Split, written parquetout.Result, report quality.Report) (string, error) {
	size, err := p.pub.objects.UploadFile(ctx, split.ObjectKey, written.Path, parquetout.ContentType, written.ContentSHA256)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}

	ordinal, err := p.pub.store.NextOrdinal(ctx, datasetID, name)
	if err != nil {
		return "", fmt.Errorf("next ordinal: %w", err)
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshal quality report: %w", err)
	}
	version := registry.DatasetVersion{
		ID:            uuid.NewString(),
		DatasetID:     datasetID,
		Split:         name,
		Ordinal:       ordinal,
		ObjectKey:     split.ObjectKey,
		ContentSHA256: written.ContentSHA256,
		SizeBytes:     size,
		RowCount:      int64(written.Rows),
		Metadata: registry.Metadata{
			"source_runs":    split.Runs,
			"source_labels":  split.Labels,
			"quality_report": json.RawMessage(reportJSON),
		},
		CreatedAt: p.now().UTC(),
		CreatedBy: p.pub.actor,
	}
	integrity, err := version.ComputeIntegritySHA256()
	if err != nil {
		return "", fmt.Errorf("integrity: %w", err)
	}
	version.IntegritySHA256 = integrity
	if err := p.pub.store.CreateVersion(ctx, version); err != nil {
		return "", fmt.Errorf("register version: %w", err)
	}

	events := []lineage.Event{{
		OccurredAt:  p.now().UTC(),
		Actor:       p.pub.actor,
		SubjectType: lineage.TypeDatasetVersion,
		SubjectID:   version.ID,
		Predicate:   lineage.PredicateDerivedFrom,
		ObjectType:  lineage.TypeRawFile,
		ObjectID:    split.Runs,
		Metadata:    map[string]any{"split": name},
	}}
	if split.Labels != "" {
		events = append(events, lineage.Event{
			OccurredAt:  p.now().UTC(),
			Actor:       p.pub.actor,
			SubjectType: lineage.TypeDatasetVersion,
			SubjectID:   version.ID,
			Predicate:   lineage.PredicateLabeledWith,
			ObjectType:  lineage.TypeRawFile,
			ObjectID:    split.Labels,
			Metadata:    map[string]any{"split": name},
		})
	}
	for _, event := range events {
		if _, err := p.pub.lineage.Append(ctx, event); err != nil {
			return "", fmt.Errorf("lineage: %w", err)
		}
	}
	return version.ID, nil
}

func sensorNames() []string {
	sensors := cmapss.Sensors()
	names := make([]string, len(sensors))
	for i, sensor := range sensors {
		names[i] = sensor.Name
	}
	return names
}
