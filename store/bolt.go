package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"

	"github.com/gofhir/resources/resource"
)

// BoltStore keeps resources in a bolt file with one bucket per resource
// type.
type BoltStore struct {
	base
	db *bolt.DB
}

// OpenBolt opens or creates the bolt file at path, creating parent
// directories as needed.
func OpenBolt(path string, opts ...Option) (*BoltStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}

	s := &BoltStore{base: newBase(opts), db: db}
	s.log.Debug("store: opened bolt file %s", path)
	return s, nil
}

// Put implements Store.
func (s *BoltStore) Put(ctx context.Context, id string, res resource.Resource) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := s.encode(id, res)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(res.ResourceType()))
		if err != nil {
			return err
		}
		return b.Put([]byte(id), data)
	})
}

// Get implements Store.
func (s *BoltStore) Get(ctx context.Context, resourceType, id string) (resource.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(resourceType))
		if b == nil {
			return nil
		}
		// Values are only valid inside the transaction.
		if v := b.Get([]byte(id)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrNotFound
	}
	return s.decode(resourceType, id, data)
}

// Delete implements Store.
func (s *BoltStore) Delete(ctx context.Context, resourceType, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(resourceType))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(id))
	})
}

// List implements Store. Bolt iterates keys in byte order, which is the
// id order.
func (s *BoltStore) List(ctx context.Context, resourceType string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type doc struct {
		id   string
		data []byte
	}
	var docs []doc
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(resourceType))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			docs = append(docs, doc{id: string(k), data: append([]byte(nil), v...)})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(docs))
	for _, d := range docs {
		res, err := s.decode(resourceType, d.id, d.data)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{ID: d.id, Resource: res})
	}
	return out, nil
}

// Close implements Store.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
