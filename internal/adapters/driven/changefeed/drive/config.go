package drive

import (
	"strconv"
	"strings"

	"github.com/archivist-labs/archivist/internal/core/domain"
)

// Config holds Google Drive feed configuration.
type Config struct {
	// FolderIDs limits enumeration to specific folders (optional).
	FolderIDs []string
	// MimeTypeFilter limits enumeration to specific MIME types (optional).
	MimeTypeFilter []string
	// PageSize is the page size for API requests.
	PageSize int64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PageSize: 100,
	}
}

// ParseConfig extracts configuration from a Source.
func ParseConfig(source domain.Source) *Config {
	cfg := DefaultConfig()

	if val := source.Config["folder_ids"]; val != "" {
		cfg.FolderIDs = splitTrim(val)
	}
	if val := source.Config["mime_types"]; val != "" {
		cfg.MimeTypeFilter = splitTrim(val)
	}
	if val := source.Config["page_size"]; val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil && n > 0 {
			cfg.PageSize = n
		}
	}

	return cfg
}

// WantsMIMEType checks the MIME filter; an empty filter accepts all.
func (c *Config) WantsMIMEType(mimeType string) bool {
	if len(c.MimeTypeFilter) == 0 {
		return true
	}
	for _, m := range c.MimeTypeFilter {
		if m == mimeType {
			return true
		}
	}
	return false
}

func splitTrim(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
