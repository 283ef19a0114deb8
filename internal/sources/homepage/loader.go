// Package homepage imports Homepage dashboard configs (services.yaml and
// bookmarks.yaml) as collections of bookmarks.
package homepage

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
)

// Kind selects which Homepage file a document is.
type Kind string

const (
	KindServices  Kind = "services"
	KindBookmarks Kind = "bookmarks"
)

// ParseKind validates a user-supplied kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindServices, KindBookmarks:
		return k, nil
	default:
		return "", errs.Invalidf("kind", "must be %q or %q", KindServices, KindBookmarks)
	}
}

var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// stripTemplateVariables removes Homepage template variables from YAML.
// Example: {{HOMEPAGE_VAR_ADGUARD_USER}} -> ""
func stripTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAll(data, []byte(`""`))
}

// ParseServices decodes a services.yaml document.
func ParseServices(data []byte) (ServicesConfig, error) {
	var config ServicesConfig
	if err := yaml.Unmarshal(stripTemplateVariables(data), &config); err != nil {
		return nil, errs.Invalidf("homepage", "malformed services yaml: %v", err)
	}
	return config, nil
}

// ParseBookmarks decodes a bookmarks.yaml document.
func ParseBookmarks(data []byte) (BookmarksConfig, error) {
	var config BookmarksConfig
	if err := yaml.Unmarshal(stripTemplateVariables(data), &config); err != nil {
		return nil, errs.Invalidf("homepage", "malformed bookmarks yaml: %v", err)
	}
	return config, nil
}

// Decode parses data as kind and maps it to groups.
func Decode(kind Kind, data []byte) ([]Group, error) {
	switch kind {
	case KindServices:
		cfg, err := ParseServices(data)
		if err != nil {
			return nil, err
		}
		return MapServices(cfg)
	case KindBookmarks:
		cfg, err := ParseBookmarks(data)
		if err != nil {
			return nil, err
		}
		return MapBookmarks(cfg)
	default:
		_, err := ParseKind(string(kind))
		return nil, err
	}
}

// LoadFile reads and decodes a Homepage file from disk.
func LoadFile(kind Kind, path string) ([]Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file: %w", kind, err)
	}
	return Decode(kind, data)
}
