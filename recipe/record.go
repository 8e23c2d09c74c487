package recipe

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Package directory layout after a successful package step:
//
//	packageDir/
//	  package_info.json   # PackageRecord
//	  include/
//	  lib/
//	  licenses/
const recordFile = "package_info.json"

// PackageRecord is the metadata stored next to the installed artifacts.
type PackageRecord struct {
	Reference string      `json:"reference" yaml:"reference"`
	Settings  Platform    `json:"settings" yaml:"settings"`
	Options   []string    `json:"options" yaml:"options"`
	Info      PackageInfo `json:"package_info" yaml:"package_info"`
	Metadata  string      `json:"metadata" yaml:"metadata"`
	BuildTime time.Time   `json:"build_time" yaml:"build_time"`
}

func saveRecord(dir string, rec *PackageRecord) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, recordFile), data, 0o644)
}

// LoadRecord reads the metadata written by Recipe.Package into dir.
func LoadRecord(dir string) (*PackageRecord, error) {
	data, err := os.ReadFile(filepath.Join(dir, recordFile))
	if err != nil {
		return nil, err
	}
	var rec PackageRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
