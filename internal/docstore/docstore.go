package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection names used by the services.
const (
	CollectionFolders   = "folders"
	CollectionDocuments = "documents"
	CollectionSummaries = "document_summaries"
	CollectionInsights  = "document_insights"
	CollectionProgress  = "generation_progress"
)

var (
	// ErrNotFound reports that a document id does not exist in the
	// collection. It is a distinct outcome from backend failure.
	ErrNotFound = errors.New("docstore: not found")

	// ErrUnavailable reports that the backing database could not serve the
	// request. Wrapped around the underlying driver error.
	ErrUnavailable = errors.New("docstore: backend unavailable")
)

// Filter restricts a Scan to documents whose top-level field equals the
// given value. The zero Filter matches everything.
type Filter struct {
	Field  string
	Equals interface{}
}

// ActiveOnly is the filter used by every hierarchy and listing scan.
var ActiveOnly = Filter{Field: "is_active", Equals: true}

// Record is one scanned document: its id plus the raw stored fields.
type Record struct {
	ID     string
	Fields json.RawMessage
}

// Decode unmarshals the record fields into dest.
func (r Record) Decode(dest interface{}) error {
	if err := json.Unmarshal(r.Fields, dest); err != nil {
		return fmt.Errorf("decode record %s: %w", r.ID, err)
	}
	return nil
}

// Store is a database of JSON documents organized in named collections,
// keyed by id. Create replaces any existing document under the same id
// (last write wins). Every call goes through to the backing database; no
// in-process caching.
type Store interface {
	Create(ctx context.Context, collection, id string, fields interface{}) error
	Get(ctx context.Context, collection, id string, dest interface{}) error
	Update(ctx context.Context, collection, id string, fields interface{}) error
	Delete(ctx context.Context, collection, id string) error
	Scan(ctx context.Context, collection string, filter Filter) ([]Record, error)
}
