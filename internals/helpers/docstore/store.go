// file: internals/helpers/docstore/store.go

// Package docstore is a small keyed document store: every collection maps a
// string key to one JSON document. Writes overwrite the whole document.
package docstore

import (
	"context"
	"errors"
	"time"
)

var (
	ErrAlreadyExists = errors.New("docstore: document already exists")
)

type Store interface {
	// Get decodes the document into out. found=false when the key is absent.
	Get(ctx context.Context, collection, key string, out any) (found bool, err error)
	// Set writes doc, replacing any previous version.
	Set(ctx context.Context, collection, key string, doc any) error
	// Create writes doc only when the key is free, else ErrAlreadyExists.
	Create(ctx context.Context, collection, key string, doc any) error
	Delete(ctx context.Context, collection, key string) error
}

// Purger is implemented by stores that can drop stale documents in bulk.
type Purger interface {
	// PurgeBefore deletes documents of collection last written before cutoff.
	PurgeBefore(ctx context.Context, collection string, cutoff time.Time) (int64, error)
}
