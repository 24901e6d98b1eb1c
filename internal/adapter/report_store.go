package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "github.com/oxmut/oxmut/internal/model"
)

const reportsFileName = "mutants.yaml"

// ReportStore persists and retrieves mutation reports.
type ReportStore interface {
	SaveReports(path m.Path, reports []m.Report) error
	LoadReports(path m.Path) ([]m.Report, error)
}

// reportsFile is the on-disk YAML document wrapping a run's reports.
type reportsFile struct {
	Version int        `yaml:"version"`
	Reports []m.Report `yaml:"mutants"`
}

type yamlReportStore struct{}

// NewReportStore constructs a YAML-backed ReportStore.
func NewReportStore() ReportStore {
	return &yamlReportStore{}
}

func (rs *yamlReportStore) SaveReports(path m.Path, reports []m.Report) error {
	if err := os.MkdirAll(string(path), 0o750); err != nil {
		return fmt.Errorf("failed to create reports directory %s: %w", path, err)
	}

	data, err := yaml.Marshal(reportsFile{Version: 1, Reports: reports})
	if err != nil {
		return fmt.Errorf("failed to marshal reports: %w", err)
	}

	target := filepath.Join(string(path), reportsFileName)
	if err := os.WriteFile(target, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}

	return nil
}

func (rs *yamlReportStore) LoadReports(path m.Path) ([]m.Report, error) {
	target := filepath.Join(string(path), reportsFileName)

	data, err := os.ReadFile(target) // #nosec G304 - reports dir is user-chosen
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", target, err)
	}

	var file reportsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", target, err)
	}

	return file.Reports, nil
}
