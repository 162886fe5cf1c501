package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "cnext.dev/pkg/sema/internal/model"
)

// ReportFileName is the report written into the output directory.
const ReportFileName = "report.yaml"

// ReportStore persists analysis reports between runs so `view` and `diff`
// can work without re-analyzing.
type ReportStore interface {
	Save(dir m.Path, report m.Report) (m.Path, error)
	Load(path m.Path) (m.Report, error)
}

// YAMLReportStore stores reports as YAML files on the local filesystem.
type YAMLReportStore struct{}

// NewYAMLReportStore constructs a YAMLReportStore.
func NewYAMLReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// Save writes the report into dir, creating it when needed, and returns the
// path of the written file.
func (s *YAMLReportStore) Save(dir m.Path, report m.Report) (m.Path, error) {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return "", fmt.Errorf("create report dir %s: %w", dir, err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	path := filepath.Join(string(dir), ReportFileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}

	return m.Path(path), nil
}

// Load reads a report previously written by Save. The path may name either
// the report file itself or the directory containing it.
func (s *YAMLReportStore) Load(path m.Path) (m.Report, error) {
	target := string(path)

	if info, err := os.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, ReportFileName)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return m.Report{}, fmt.Errorf("read report %s: %w", target, err)
	}

	var report m.Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return m.Report{}, fmt.Errorf("unmarshal report %s: %w", target, err)
	}

	return report, nil
}
