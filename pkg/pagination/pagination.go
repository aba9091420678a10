package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size used when the caller sends none.
	DefaultLimit = 25
	// MaxLimit caps the page size regardless of what the caller asks for.
	MaxLimit = 100
)

// Params carries the raw pagination inputs taken from a request.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor is a keyset position over (created_at, id). Lists order newest
// first, so the cursor points at the first row of the next page.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit clamps a requested limit into [1, MaxLimit], substituting
// DefaultLimit for zero or negative values.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// LimitWithBuffer is the query limit to use when one extra row signals that
// another page exists.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor serializes a cursor into an opaque base64 token.
func EncodeCursor(cursor Cursor) string {
	payload := cursor.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + cursor.ID.String()
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

// ParseCursor decodes a token produced by EncodeCursor. An empty token means
// the first page and yields a nil cursor.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	timestamp, id, ok := strings.Cut(string(decoded), "|")
	if !ok {
		return nil, fmt.Errorf("invalid cursor format")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	rowID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor id: %w", err)
	}
	return &Cursor{CreatedAt: createdAt, ID: rowID}, nil
}
