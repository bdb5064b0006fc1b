package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preparer.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifest_DefaultsApplied(t *testing.T) {
	path := writeManifest(t, `
dataset: cmapss-fd001
splits:
  train:
    runs: data/train_FD001.txt
  test:
    runs: data/test_FD001.txt
    labels: data/RUL_FD001.txt
`)
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest() err=%v", err)
	}
	if manifest.OutputDir != "out" {
		t.Fatalf("output dir=%q, want out", manifest.OutputDir)
	}
	train := manifest.Splits["train"]
	if train.Output != "train.parquet" {
		t.Fatalf("train output=%q", train.Output)
	}
	if train.ObjectKey != "cmapss-fd001/train/train.parquet" {
		t.Fatalf("train object key=%q", train.ObjectKey)
	}
	test := manifest.Splits["test"]
	if test.Labels != "data/RUL_FD001.txt" {
		t.Fatalf("test labels=%q", test.Labels)
	}
}

func TestLoadManifest_RequiresRuns(t *testing.T) {
	path := writeManifest(t, `
dataset: cmapss-fd001
splits:
  train:
    labels: data/RUL_FD001.txt
`)
	if _, err := LoadManifest(path); err == nil {
		t.Fatalf("expected runs error")
	}
}

func TestLoadManifest_RequiresDataset(t *testing.T) {
	path := writeManifest(t, `
splits:
  train:
    runs: data/train_FD001.txt
`)
	if _, err := LoadManifest(path); err == nil {
		t.Fatalf("expected dataset error")
	}
}

func TestSplitNames_TrainFirst(t *testing.T) {
	manifest := Manifest{Splits: map[string]*Split{
		"test":  {Runs: "t"},
		"train": {Runs: "t"},
		"dev":   {Runs: "t"},
	}}
	names := manifest.splitNames()
	if len(names) != 3 || names[0] != "train" || names[1] != "dev" || names[2] != "test" {
		t.Fatalf("names=%v, want [train dev test]", names)
	}
}
