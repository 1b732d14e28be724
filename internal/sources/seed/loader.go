package seed

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Loader reads and parses a seed file.
type Loader struct {
	filePath string
	lookup   func(string) (string, bool)
}

// NewLoader creates a loader resolving placeholders from the process environment.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
		lookup:   os.LookupEnv,
	}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string { return l.filePath }

// Load reads and parses the seed file
func (l *Loader) Load() (File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	data = expandPlaceholders(data, l.lookup)

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed yaml: %w", err)
	}

	return file, nil
}

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// expandPlaceholders replaces {{NAME}} with the value of NAME.
// Unknown names expand to an empty string.
// Example: url: https://{{WIKI_HOST}}/ -> url: https://wiki.lan/
func expandPlaceholders(data []byte, lookup func(string) (string, bool)) []byte {
	return placeholderRe.ReplaceAllFunc(data, func(m []byte) []byte {
		name := placeholderRe.FindSubmatch(m)[1]
		v, _ := lookup(string(name))
		return []byte(v)
	})
}
