package drive

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/archivist-labs/archivist/internal/core/domain"
)

// CursorVersion is the current cursor format version.
const CursorVersion = 1

// Cursor tracks Google Drive sync state using the Changes API.
type Cursor struct {
	// Version is the cursor format version for future compatibility.
	Version int `json:"v"`
	// PageToken is the token from changes.getStartPageToken(), used as
	// the starting point for changes.list() in incremental sync.
	PageToken string `json:"page_token"`
}

// NewCursor creates a new empty cursor.
func NewCursor() *Cursor {
	return &Cursor{
		Version: CursorVersion,
	}
}

// Encode serialises the cursor to a base64 string for storage.
func (c *Cursor) Encode() string {
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeCursor deserializes a cursor from a base64 string. Undecodable
// input reports domain.ErrInvalidCursor so the sync engine can fall
// back to a full crawl.
func DecodeCursor(s string) (*Cursor, error) {
	if s == "" {
		return NewCursor(), nil
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: not base64", domain.ErrInvalidCursor)
	}

	var cursor Cursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, fmt.Errorf("%w: not valid JSON", domain.ErrInvalidCursor)
	}

	// Version check for future migrations
	if cursor.Version > CursorVersion {
		return nil, fmt.Errorf("%w: unknown version %d", domain.ErrInvalidCursor, cursor.Version)
	}

	return &cursor, nil
}

// IsEmpty returns true if the cursor has no sync state.
func (c *Cursor) IsEmpty() bool {
	return c.PageToken == ""
}
