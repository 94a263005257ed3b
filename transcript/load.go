package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies an input encoding.
type Format int

const (
	// FormatAuto sniffs the content: a leading '[' or '{' means JSON.
	FormatAuto Format = iota
	// FormatJSON is a JSON array of {word, start_time, duration}.
	FormatJSON
	// FormatYAML is a YAML sequence of the same records.
	FormatYAML
)

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

// LoadFile reads and validates a transcript file.
func LoadFile(path string) (Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open transcript: %w", err)
	}
	defer f.Close() //nolint:errcheck

	return Load(f, FormatFromPath(path))
}

// Load decodes a transcript from r and validates it.
func Load(r io.Reader, format Format) (Transcript, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read transcript: %w", err)
	}

	if format == FormatAuto {
		format = sniff(b)
	}

	var words Transcript
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(b, &words); err != nil {
			return nil, fmt.Errorf("unable to decode JSON transcript: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &words); err != nil {
			return nil, fmt.Errorf("unable to decode YAML transcript: %w", err)
		}
	}

	if err := Validate(words); err != nil {
		return nil, err
	}
	return words, nil
}

// Validate checks an input transcript: every word is a single token with
// non-negative timing, and start times never decrease.
func Validate(words Transcript) error {
	for i, w := range words {
		if _, err := CheckToken(i, w.Text); err != nil {
			return err
		}
		if w.StartTime < 0 || w.Duration < 0 {
			return &ValidationError{Err: ErrNegativeTiming, Index: i, Text: w.Text}
		}
		if i > 0 && w.StartTime < words[i-1].StartTime {
			return &ValidationError{Err: ErrUnordered, Index: i, Text: w.Text}
		}
	}
	return nil
}

func sniff(b []byte) Format {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}
	return FormatYAML
}
