package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const blobsTable = "blobs"

// SQLiteBlobs stores every Put as a new revision and prunes each key down to
// the newest keep revisions.
type SQLiteBlobs struct {
	drv    *entsql.Driver
	seq    *sequenceCounter
	keep   int
	closer func() error
}

var _ BlobStore = (*SQLiteBlobs)(nil)

// OpenSQLiteBlobs opens the database at dsn and returns a BlobStore that
// owns it.
func OpenSQLiteBlobs(dsn string, keep int) (*SQLiteBlobs, error) {
	st, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	b := st.Blobs(keep)
	b.closer = st.Close
	return b, nil
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (b *SQLiteBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	query, args := builder().
		Select("value").
		From(entsql.Table(blobsTable)).
		Where(entsql.EQ("blob_key", key)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := b.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query blob %q: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query blob %q: %w", key, err)
		}
		return nil, ErrNotFound
	}
	var value []byte
	if err := rows.Scan(&value); err != nil {
		return nil, fmt.Errorf("scan blob %q: %w", key, err)
	}
	return value, nil
}

func (b *SQLiteBlobs) Put(ctx context.Context, key string, value []byte) error {
	seq, err := b.seq.Next(ctx)
	if err != nil {
		return err
	}

	tx, err := b.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	query, args := builder().
		Insert(blobsTable).
		Columns("blob_key", "sequence", "updated_at", "value").
		Values(key, seq, time.Now().UTC().Format(time.RFC3339Nano), value).
		Query()
	if err := tx.Exec(ctx, query, args, nil); err != nil {
		tx.Rollback()
		return fmt.Errorf("insert blob %q: %w", key, err)
	}

	if err := b.prune(ctx, tx, key); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit blob %q: %w", key, err)
	}
	return nil
}

// prune deletes all but the newest keep revisions of key.
func (b *SQLiteBlobs) prune(ctx context.Context, tx dialect.Tx, key string) error {
	// Find the sequence of the first revision past the ones we keep.
	query, args := builder().
		Select("sequence").
		From(entsql.Table(blobsTable)).
		Where(entsql.EQ("blob_key", key)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Offset(b.keep).
		Query()

	var rows entsql.Rows
	if err := tx.Query(ctx, query, args, &rows); err != nil {
		return fmt.Errorf("query revisions for prune: %w", err)
	}
	var threshold int64
	found := rows.Next()
	if found {
		if err := rows.Scan(&threshold); err != nil {
			rows.Close()
			return fmt.Errorf("scan prune threshold: %w", err)
		}
	}
	rows.Close()
	if !found {
		return nil // fewer than keep revisions exist
	}

	query, args = builder().
		Delete(blobsTable).
		Where(entsql.And(
			entsql.EQ("blob_key", key),
			entsql.LTE("sequence", threshold),
		)).
		Query()
	if err := tx.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("prune revisions: %w", err)
	}
	return nil
}

func (b *SQLiteBlobs) Delete(ctx context.Context, key string) error {
	query, args := builder().
		Delete(blobsTable).
		Where(entsql.EQ("blob_key", key)).
		Query()
	if err := b.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete blob %q: %w", key, err)
	}
	return nil
}

// Revisions returns how many revisions of key are stored.
func (b *SQLiteBlobs) Revisions(ctx context.Context, key string) (int, error) {
	query, args := builder().
		Select(entsql.Count("*")).
		From(entsql.Table(blobsTable)).
		Where(entsql.EQ("blob_key", key)).
		Query()

	var rows entsql.Rows
	if err := b.drv.Query(ctx, query, args, &rows); err != nil {
		return 0, fmt.Errorf("count revisions: %w", err)
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("scan revision count: %w", err)
		}
	}
	return n, rows.Err()
}

// Close closes the database when this BlobStore opened it.
func (b *SQLiteBlobs) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer()
}
