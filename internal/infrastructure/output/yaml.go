package output

import (
	"io"

	"github.com/goccy/go-yaml"
)

// YAMLFormatter formats verdicts as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the verdicts as a YAML sequence.
func (f *YAMLFormatter) Format(rows []VerdictRow) error {
	return yaml.NewEncoder(f.writer, yaml.Indent(2)).Encode(rows)
}
