package seed

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of a samples file.
type Loader struct {
	filePath string
}

// NewLoader creates a new samples loader.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the samples file.
func (l *Loader) Load() ([]Sample, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read samples file: %w", err)
	}

	data = expandTemplateVariables(data)

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse samples yaml: %w", err)
	}
	if len(file.Samples) == 0 {
		return nil, fmt.Errorf("samples file %s has no samples", l.filePath)
	}

	return file.Samples, nil
}

var templateVar = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// expandTemplateVariables replaces {{NAME}} with the NAME environment
// variable (empty when unset).
// Example: {{INBOX_SAMPLE_URL}} -> https://example.com
func expandTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAllFunc(data, func(m []byte) []byte {
		name := templateVar.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})
}
