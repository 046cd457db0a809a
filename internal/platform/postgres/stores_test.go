package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluentdeck/fluentdeck-api/internal/store"
)

// nopDBTX satisfies store.DBTX without a live connection, enough for
// constructor behavior.
type nopDBTX struct{}

func (nopDBTX) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return nil, sql.ErrConnDone
}

func (nopDBTX) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return nil, sql.ErrConnDone
}

func (nopDBTX) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, sql.ErrConnDone
}

func (nopDBTX) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return nil
}

func TestStoreConstructors(t *testing.T) {
	db := nopDBTX{}

	t.Run("ReturnInitializedStores", func(t *testing.T) {
		var cardStore store.CardStore = NewPostgresCardStore(db, nil)
		require.NotNil(t, cardStore)

		var deckStore store.DeckStore = NewPostgresDeckStore(db, nil)
		require.NotNil(t, deckStore)

		var userCardStore store.UserCardStore = NewPostgresUserCardStore(db, nil)
		require.NotNil(t, userCardStore)

		var userStore store.UserStore = NewPostgresUserStore(db, nil)
		require.NotNil(t, userStore)
	})

	t.Run("PanicOnNilDB", func(t *testing.T) {
		assert.Panics(t, func() { NewPostgresCardStore(nil, nil) })
		assert.Panics(t, func() { NewPostgresDeckStore(nil, nil) })
		assert.Panics(t, func() { NewPostgresUserCardStore(nil, nil) })
		assert.Panics(t, func() { NewPostgresUserStore(nil, nil) })
	})
}
