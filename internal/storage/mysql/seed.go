package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"hotel_search/internal/domain"
)

// WithinTx gives fn a writer bound to one transaction, committed only when
// fn succeeds.
func (r *Repo) WithinTx(ctx context.Context, fn func(w domain.SeedWriter) error) error {
	return r.inTx(ctx, func(tx *sql.Tx) error { return fn(txWriter{tx: tx}) })
}

type txWriter struct{ tx *sql.Tx }

// InsertHotel creates the wp_users row of a hotel and its attributes.
func (w txWriter) InsertHotel(ctx context.Context, name string, meta map[string]string) (int64, error) {
	res, err := sq.Insert("wp_users").
		Columns("user_login", "display_name").
		Values(userLogin(name), name).
		RunWith(w.tx).ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("insert wp_users: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, insertMeta(ctx, w.tx, "wp_usermeta", "user_id", id, meta)
}

// InsertPost creates a post (room or review) authored by hotelID with its
// attributes.
func (w txWriter) InsertPost(ctx context.Context, hotelID int64, postType, title string, meta map[string]string) (int64, error) {
	res, err := sq.Insert("wp_posts").
		Columns("post_author", "post_title", "post_type").
		Values(hotelID, title, postType).
		RunWith(w.tx).ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("insert wp_posts: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, insertMeta(ctx, w.tx, "wp_postmeta", "post_id", id, meta)
}

func (r *Repo) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func insertMeta(ctx context.Context, tx *sql.Tx, table, ownerCol string, ownerID int64, meta map[string]string) error {
	if len(meta) == 0 {
		return nil
	}
	b := metaInsert(table, ownerCol, ownerID, meta)
	if _, err := b.RunWith(tx).ExecContext(ctx); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// metaInsert builds one multi-row insert, keys sorted for stable SQL.
func metaInsert(table, ownerCol string, ownerID int64, meta map[string]string) sq.InsertBuilder {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b := sq.Insert(table).Columns(ownerCol, "meta_key", "meta_value")
	for _, k := range keys {
		b = b.Values(ownerID, k, meta[k])
	}
	return b
}

func userLogin(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}
