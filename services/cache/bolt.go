package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketEntries = []byte("entries")
	bucketTags    = []byte("tags")
)

type boltEnvelope struct {
	Value     []byte    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
	Tags      []string  `json:"tags"`
}

// Bolt is a Store persisted in a local BoltDB file, so a restart keeps the
// warm cache. Single-process deployments that want persistence without a
// Redis dependency use this backend.
type Bolt struct {
	db *bolt.DB
}

// NewBolt opens (or creates) the cache database at path.
func NewBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketEntries, bucketTags} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache buckets: %w", err)
	}
	return &Bolt{db: db}, nil
}

func (b *Bolt) Get(_ context.Context, key string) ([]byte, bool) {
	var env boltEnvelope
	found := false
	b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketEntries).Get([]byte(key))
		if raw == nil {
			return nil
		}
		if json.Unmarshal(raw, &env) == nil {
			found = true
		}
		return nil
	})
	if !found {
		return nil, false
	}
	if time.Now().After(env.ExpiresAt) {
		b.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketEntries).Delete([]byte(key))
		})
		return nil, false
	}
	return env.Value, true
}

func (b *Bolt) Set(_ context.Context, key string, value []byte, ttl time.Duration, tags []string) error {
	raw, err := json.Marshal(boltEnvelope{
		Value:     value,
		ExpiresAt: time.Now().Add(ttl),
		Tags:      tags,
	})
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketEntries).Put([]byte(key), raw); err != nil {
			return err
		}
		tagBucket := tx.Bucket(bucketTags)
		for _, tag := range tags {
			keys := decodeKeySet(tagBucket.Get([]byte(tag)))
			keys[key] = struct{}{}
			encoded, err := encodeKeySet(keys)
			if err != nil {
				return err
			}
			if err := tagBucket.Put([]byte(tag), encoded); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *Bolt) InvalidateTag(_ context.Context, tag string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		tagBucket := tx.Bucket(bucketTags)
		entries := tx.Bucket(bucketEntries)
		for key := range decodeKeySet(tagBucket.Get([]byte(tag))) {
			if err := entries.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return tagBucket.Delete([]byte(tag))
	})
}

// Close flushes and closes the underlying database.
func (b *Bolt) Close() error {
	return b.db.Close()
}

func decodeKeySet(raw []byte) map[string]struct{} {
	keys := make(map[string]struct{})
	if len(raw) == 0 {
		return keys
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		for _, k := range list {
			keys[k] = struct{}{}
		}
	}
	return keys
}

func encodeKeySet(keys map[string]struct{}) ([]byte, error) {
	list := make([]string, 0, len(keys))
	for k := range keys {
		list = append(list, k)
	}
	return json.Marshal(list)
}
