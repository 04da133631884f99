package vectorindex

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"

	"go.etcd.io/bbolt"
)

var (
	bucketEntries = []byte("entries")
	bucketMeta    = []byte("meta")
	keyDimension  = []byte("dimension")
)

// storedEntry is the on-disk representation of one index position.
type storedEntry struct {
	Vector   []float32         `json:"v"`
	Text     string            `json:"t"`
	Metadata map[string]string `json:"m,omitempty"`
}

// Persist writes a full snapshot of the index to a BoltDB file at path,
// replacing any previous snapshot. A restored snapshot searches bit-for-bit
// identically to the persisted index.
func (ix *Index) Persist(path string) error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer db.Close()

	return db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketEntries, bucketMeta} {
			if tx.Bucket(name) != nil {
				if err := tx.DeleteBucket(name); err != nil {
					return err
				}
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}

		meta := tx.Bucket(bucketMeta)
		dim := make([]byte, 8)
		binary.BigEndian.PutUint64(dim, uint64(ix.dimension))
		if err := meta.Put(keyDimension, dim); err != nil {
			return err
		}

		entries := tx.Bucket(bucketEntries)
		for i := range ix.vectors {
			data, err := json.Marshal(storedEntry{
				Vector:   ix.vectors[i],
				Text:     ix.texts[i],
				Metadata: ix.metadata[i],
			})
			if err != nil {
				return err
			}
			key := make([]byte, 8)
			binary.BigEndian.PutUint64(key, uint64(i))
			if err := entries.Put(key, data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Restore loads a snapshot from path. A missing file reports os.ErrNotExist
// so callers can distinguish "no snapshot yet" from corruption.
func Restore(path string) (*Index, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer db.Close()

	var ix *Index
	err = db.View(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		if meta == nil {
			return fmt.Errorf("snapshot missing meta bucket")
		}
		dimBytes := meta.Get(keyDimension)
		if len(dimBytes) != 8 {
			return fmt.Errorf("snapshot missing dimension")
		}
		ix = New(int(binary.BigEndian.Uint64(dimBytes)))

		entries := tx.Bucket(bucketEntries)
		if entries == nil {
			return fmt.Errorf("snapshot missing entries bucket")
		}
		// Keys are big-endian positions, so cursor order restores insertion order.
		return entries.ForEach(func(k, v []byte) error {
			var entry storedEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("corrupt entry %x: %w", k, err)
			}
			if len(entry.Vector) != ix.dimension {
				return fmt.Errorf("entry %x has dimension %d, want %d", k, len(entry.Vector), ix.dimension)
			}
			ix.vectors = append(ix.vectors, entry.Vector)
			ix.texts = append(ix.texts, entry.Text)
			ix.metadata = append(ix.metadata, entry.Metadata)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return ix, nil
}
