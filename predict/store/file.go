package store

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coldstart/prewarm/predict"
)

// recordFile is the on-disk YAML shape for a record set.
type recordFile struct {
	Records []predict.ExecutionRecord `yaml:"records"`
}

// LoadFile reads execution records from a YAML file. Uses strict parsing:
// unrecognized keys (typos) are rejected. Record-level consistency is not
// checked here; the engine skips malformed records itself.
func LoadFile(path string) ([]predict.ExecutionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading record file: %w", err)
	}
	var rf recordFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&rf); err != nil {
		return nil, fmt.Errorf("parsing record file: %w", err)
	}
	return rf.Records, nil
}

// SaveFile writes execution records to a YAML file, replacing any existing
// content.
func SaveFile(path string, records []predict.ExecutionRecord) error {
	data, err := yaml.Marshal(recordFile{Records: records})
	if err != nil {
		return fmt.Errorf("encoding record file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing record file: %w", err)
	}
	return nil
}
