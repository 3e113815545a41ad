package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/domain"
)

// FileVersion is written into every exported catalog document.
const FileVersion = "1.0"

// Document is the externalised catalog format shared by the YAML and JSON
// exports.
type Document struct {
	Version   string            `json:"version" yaml:"version"`
	Title     string            `json:"title,omitempty" yaml:"title,omitempty"`
	Disorders []domain.Disorder `json:"disorders" yaml:"disorders"`
}

// ReadYAML decodes a catalog document, fills in missing identifiers and
// validates the result.
func ReadYAML(r io.Reader) ([]domain.Disorder, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	records := AssignIDs(doc.Disorders)
	if err := Validate(records); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return records, nil
}

// WriteYAML encodes records as a catalog document.
func WriteYAML(w io.Writer, title string, records []domain.Disorder) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(title, records)); err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	return enc.Close()
}

// WriteJSON encodes records as an indented JSON catalog document.
func WriteJSON(w io.Writer, title string, records []domain.Disorder) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newDocument(title, records))
}

// LoadFile reads a YAML catalog file from disk.
func LoadFile(path string) ([]domain.Disorder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog file: %w", err)
	}
	defer f.Close()

	records, err := ReadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Load returns the records selected by cfg: the file when one is configured,
// the compiled-in catalog otherwise.
func Load(cfg domain.CatalogConfig) ([]domain.Disorder, error) {
	if cfg.File == "" {
		return Records(), nil
	}
	return LoadFile(cfg.File)
}

func newDocument(title string, records []domain.Disorder) Document {
	if records == nil {
		records = []domain.Disorder{}
	}
	return Document{
		Version:   FileVersion,
		Title:     title,
		Disorders: records,
	}
}
