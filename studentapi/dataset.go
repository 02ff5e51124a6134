package studentapi

import (
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/studentstats/validation"
)

// Dataset is the YAML document read by LoadDataset.
type Dataset struct {
	Students []Record `yaml:"students"`
}

// LoadDataset decodes and validates a YAML student dataset.
// Identifiers must be numeric and unique, marks within 0..100.
func LoadDataset(r io.Reader) ([]Record, error) {
	var ds Dataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}

	v := validation.New()
	seen := make(map[string]int, len(ds.Students))
	for i, s := range ds.Students {
		field := fmt.Sprintf("students[%d]", i)
		v.Required(field+".id", s.StudentID).Pattern(field+".id", s.StudentID, `^[0-9]+$`)
		if prev, dup := seen[s.StudentID]; dup && s.StudentID != "" {
			v.AddError(field+".id", fmt.Sprintf("duplicates students[%d]", prev))
		}
		seen[s.StudentID] = i
		for _, unit := range s.Units() {
			v.Required(field+".marks", unit)
			v.Range(field+".marks."+unit, s.Marks[unit], 0, 100)
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return ds.Students, nil
}

// LoadDatasetFile reads a dataset from path.
func LoadDatasetFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()
	return LoadDataset(f)
}
