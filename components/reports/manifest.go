package reports

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// ManifestDocument models a YAML file declaring report configurations.
type ManifestDocument struct {
	Version string           `json:"version" yaml:"version"`
	Name    string           `json:"name,omitempty" yaml:"name,omitempty"`
	Reports []ManifestReport `json:"reports" yaml:"reports"`
	Source  string           `json:"-" yaml:"-"`
}

// ManifestReport is a named configuration entry.
type ManifestReport struct {
	ID     string `json:"id" yaml:"id"`
	Config Config `json:"config" yaml:"config"`
}

// ReadManifest loads a manifest file from disk.
func ReadManifest(path string) (*ManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("reports: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("reports: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader. Unknown fields are rejected.
func DecodeManifest(r io.Reader) (*ManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc ManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("reports: manifest is empty")
		}
		return nil, fmt.Errorf("reports: parse manifest: %w", err)
	}
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest has a supported version and unique ids.
func (doc *ManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("reports: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Reports))
	for idx, report := range doc.Reports {
		if report.ID == "" {
			return fmt.Errorf("reports: manifest report at index %d is missing id", idx)
		}
		if _, exists := seen[report.ID]; exists {
			return fmt.Errorf("reports: manifest duplicates report id %s", report.ID)
		}
		seen[report.ID] = struct{}{}
	}
	return nil
}

// Find returns the report with the given id.
func (doc *ManifestDocument) Find(id string) (ManifestReport, bool) {
	for _, report := range doc.Reports {
		if report.ID == id {
			return report, true
		}
	}
	return ManifestReport{}, false
}

// WriteManifest encodes the document as YAML with two-space indentation.
func WriteManifest(w io.Writer, doc *ManifestDocument) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("reports: write manifest: %w", err)
	}
	return encoder.Close()
}
