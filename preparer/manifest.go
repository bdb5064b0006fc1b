package main

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest describes one preparation job: which raw files make up each
// split and where the enriched outputs go.
type Manifest struct {
	Dataset     string            `yaml:"dataset"`
	Description string            `yaml:"description,omitempty"`
	OutputDir   string            `yaml:"output_dir"`
	Splits      map[string]*Split `yaml:"splits"`
}

// Split is one raw source within the job. Labels is set only for test-style
// splits whose units outlive the recorded log.
type Split struct {
	Runs      string `yaml:"runs"`
	Labels    string `yaml:"labels,omitempty"`
	Output    string `yaml:"output,omitempty"`
	ObjectKey string `yaml:"object_key,omitempty"`
}

// LoadManifest reads and validates a YAML job manifest. Missing output
// names and object keys default per split.
func LoadManifest(path string) (Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var manifest Manifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	manifest.applyDefaults()
	if err := manifest.Validate(); err != nil {
		return Manifest{}, fmt.Errorf("manifest %s: %w", path, err)
	}
	return manifest, nil
}

func (m *Manifest) applyDefaults() {
	if strings.TrimSpace(m.OutputDir) == "" {
		m.OutputDir = "out"
	}
	for name, split := range m.Splits {
		if split == nil {
			continue
		}
		if strings.TrimSpace(split.Output) == "" {
			split.Output = name + ".parquet"
		}
		if strings.TrimSpace(split.ObjectKey) == "" {
			split.ObjectKey = path.Join(strings.TrimSpace(m.Dataset), name, split.Output)
		}
	}
}

func (m Manifest) Validate() error {
	if strings.TrimSpace(m.Dataset) == "" {
		return errors.New("dataset is required")
	}
	if len(m.Splits) == 0 {
		return errors.New("at least one split is required")
	}
	for name, split := range m.Splits {
		if split == nil {
			return fmt.Errorf("split %q is empty", name)
		}
		if strings.TrimSpace(name) == "" {
			return errors.New("split name is required")
		}
		if strings.TrimSpace(split.Runs) == "" {
			return fmt.Errorf("split %q: runs file is required", name)
		}
	}
	return nil
}

// splitNames returns split names in deterministic order: train first, then
// the rest alphabetically.
func (m Manifest) splitNames() []string {
	names := make([]string, 0, len(m.Splits))
	for name := range m.Splits {
		if name != "train" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := m.Splits["train"]; ok {
		names = append([]string{"train"}, names...)
	}
	return names
}
