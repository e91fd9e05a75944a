package database

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kathrine0/sitefeed/app/content"
)

var _ ContentRepository = (*EntryRepository)(nil)

type dated interface {
	PublishedAt() time.Time
}

type draftable interface {
	IsDraft() bool
}

// EntryRepository stores validated collection entries as JSON and decodes
// them back through the collection schemas.
type EntryRepository struct {
	db       *DB
	registry *content.Registry
}

func NewEntryRepository(db *DB, registry *content.Registry) *EntryRepository {
	return &EntryRepository{db: db, registry: registry}
}

// SyncCollection makes the stored collection match entries: changed entries
// are upserted, missing ones removed, identical ones left untouched.
func (r *EntryRepository) SyncCollection(ctx context.Context, name string, entries []content.Entry) (SyncResult, error) {
	var result SyncResult

	if _, err := r.registry.Lookup(name); err != nil {
		return result, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO collections (name, synced_at) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET synced_at = excluded.synced_at
	`, name, now)
	if err != nil {
		return result, fmt.Errorf("failed to record collection %q: %w", name, err)
	}

	existing, err := r.existingHashes(ctx, tx, name)
	if err != nil {
		return result, err
	}

	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if seen[entry.Slug] {
			return result, fmt.Errorf("duplicate slug %q in collection %q", entry.Slug, name)
		}
		seen[entry.Slug] = true

		data, err := json.Marshal(entry.Data)
		if err != nil {
			return result, fmt.Errorf("failed to encode %s/%s: %w", name, entry.Slug, err)
		}
		hash := contentHash(data, entry.Body)

		previous, exists := existing[entry.Slug]
		if exists && previous == hash {
			result.Unchanged++
			continue
		}

		var publishedAt sql.NullString
		if d, ok := entry.Data.(dated); ok && !d.PublishedAt().IsZero() {
			publishedAt = sql.NullString{String: d.PublishedAt().UTC().Format(time.RFC3339Nano), Valid: true}
		}
		draft := false
		if d, ok := entry.Data.(draftable); ok {
			draft = d.IsDraft()
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO entries (collection, slug, data, body, content_hash, published_at, draft, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (collection, slug) DO UPDATE SET
				data = excluded.data,
				body = excluded.body,
				content_hash = excluded.content_hash,
				published_at = excluded.published_at,
				draft = excluded.draft,
				updated_at = excluded.updated_at
		`, name, entry.Slug, string(data), entry.Body, hash, publishedAt, draft, now)
		if err != nil {
			return result, fmt.Errorf("failed to store %s/%s: %w", name, entry.Slug, err)
		}

		if exists {
			result.Updated++
		} else {
			result.Added++
		}
	}

	for slug := range existing {
		if seen[slug] {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE collection = ? AND slug = ?`, name, slug); err != nil {
			return result, fmt.Errorf("failed to remove %s/%s: %w", name, slug, err)
		}
		result.Removed++
	}

	if err := tx.Commit(); err != nil {
		return SyncResult{}, fmt.Errorf("failed to commit collection %q: %w", name, err)
	}

	return result, nil
}

func (r *EntryRepository) existingHashes(ctx context.Context, tx *sql.Tx, name string) (map[string]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT slug, content_hash FROM entries WHERE collection = ?`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored entries: %w", err)
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var slug, hash string
		if err := rows.Scan(&slug, &hash); err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		hashes[slug] = hash
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	return hashes, nil
}

// GetCollection returns every stored entry of a synced collection ordered by
// slug. A collection that was never synced is not found.
func (r *EntryRepository) GetCollection(ctx context.Context, name string) ([]content.Entry, error) {
	schema, err := r.registry.Lookup(name)
	if err != nil {
		return nil, err
	}

	var exists bool
	err = r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM collections WHERE name = ?)`, name).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check collection %q: %w", name, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %q has not been synced", content.ErrCollectionNotFound, name)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT slug, data, body
		FROM entries
		WHERE collection = ?
		ORDER BY slug
	`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection %q: %w", name, err)
	}
	defer rows.Close()

	entries := []content.Entry{}
	for rows.Next() {
		var slug, data, body string
		if err := rows.Scan(&slug, &data, &body); err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}

		value, err := schema.Decode([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s/%s: %w", name, slug, err)
		}

		entries = append(entries, content.Entry{
			Collection: name,
			Slug:       slug,
			Data:       value,
			Body:       body,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	return entries, nil
}

func (r *EntryRepository) ListCollections(ctx context.Context) ([]Collection, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.name, c.synced_at, COUNT(e.slug), COALESCE(SUM(e.draft), 0)
		FROM collections c
		LEFT JOIN entries e ON e.collection = c.name
		GROUP BY c.name, c.synced_at
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var collections []Collection
	for rows.Next() {
		var c Collection
		var syncedAt string
		if err := rows.Scan(&c.Name, &syncedAt, &c.Entries, &c.Drafts); err != nil {
			return nil, fmt.Errorf("failed to scan collection row: %w", err)
		}
		if c.SyncedAt, err = time.Parse(time.RFC3339Nano, syncedAt); err != nil {
			return nil, fmt.Errorf("invalid sync time for collection %q: %w", c.Name, err)
		}
		collections = append(collections, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collection rows: %w", err)
	}

	return collections, nil
}

func (r *EntryRepository) CountEntries(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

func contentHash(data []byte, body string) string {
	h := sha256.New()
	h.Write(data)
	h.Write([]byte{0})
	h.Write([]byte(body))
	return hex.EncodeToString(h.Sum(nil))
}
