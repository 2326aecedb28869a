package wire

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panchr/wire/sqlstring"
)

func usersCursor(t *testing.T, db *DB) *Cursor {
	t.Helper()
	cursor, err := db.Select("users", nil, sqlstring.Clauses{})
	require.NoError(t, err)
	return cursor
}

func TestFetch(t *testing.T) {
	t.Run("MappingShape", func(t *testing.T) {
		db := newTestDB(t)
		seedUsers(t, db)

		rows, err := usersCursor(t, db).Fetch(FetchAll)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.EqualValues(t, 1, rows[0]["id"])
		assert.Equal(t, "panchr", rows[0]["username"])
	})

	t.Run("TupleShape", func(t *testing.T) {
		db := newTestDB(t)
		seedUsers(t, db)

		rows, err := usersCursor(t, db).FetchValues(FetchAll)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.Len(t, rows[0], 2)
		assert.EqualValues(t, 1, rows[0][0])
		assert.Equal(t, "panchr", rows[0][1])
	})

	t.Run("One", func(t *testing.T) {
		db := newTestDB(t)
		seedUsers(t, db)

		rows, err := usersCursor(t, db).FetchValues(FetchOne)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("Memoized", func(t *testing.T) {
		db := newTestDB(t)
		seedUsers(t, db)
		cursor := usersCursor(t, db)

		first, err := cursor.FetchValues(FetchAll)
		require.NoError(t, err)
		require.Len(t, first, 2)

		second, err := cursor.FetchValues(FetchAll)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		// Each call answers for its own mode; the cache holds the full
		// result set regardless of fetch order.
		one, err := cursor.FetchValues(FetchOne)
		require.NoError(t, err)
		require.Len(t, one, 1)
		assert.Equal(t, first[0], one[0])

		again, err := cursor.FetchValues(FetchAll)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	})

	t.Run("UnknownMode", func(t *testing.T) {
		db := newTestDB(t)
		seedUsers(t, db)

		_, err := usersCursor(t, db).FetchValues(FetchMode{Value: "some"})
		assert.ErrorContains(t, err, "unknown fetch mode")
	})

	t.Run("ShapeDerivedFromCache", func(t *testing.T) {
		db := newTestDB(t)
		seedUsers(t, db)
		cursor := usersCursor(t, db)

		tuples, err := cursor.FetchValues(FetchAll)
		require.NoError(t, err)

		mapped, err := cursor.Fetch(FetchAll)
		require.NoError(t, err)
		require.Len(t, mapped, len(tuples))
		assert.Equal(t, tuples[0][1], mapped[0]["username"])
	})

	t.Run("EmptyResult", func(t *testing.T) {
		db := newTestDB(t)
		seedUsers(t, db)

		cursor, err := db.Select("users", nil, sqlstring.Clauses{
			Equal: sqlstring.Bindings{sqlstring.Bind("id", 99)},
		})
		require.NoError(t, err)

		rows, err := cursor.Fetch(FetchAll)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestColumns(t *testing.T) {
	db := newTestDB(t)
	seedUsers(t, db)

	cursor := usersCursor(t, db)
	columns, err := cursor.Columns()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "username"}, columns)
	require.NoError(t, cursor.Close())
}

func TestExport(t *testing.T) {
	t.Run("WritesHeaderAndRows", func(t *testing.T) {
		db := newTestDB(t)
		seedUsers(t, db)

		path := filepath.Join(t.TempDir(), "users.csv")
		require.NoError(t, usersCursor(t, db).Export(path))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "id,username\n1,panchr\n2,other\n", string(content))
	})

	t.Run("AfterFetchWritesFullResult", func(t *testing.T) {
		db := newTestDB(t)
		seedUsers(t, db)
		cursor := usersCursor(t, db)

		_, err := cursor.Fetch(FetchAll)
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "fetched.csv")
		require.NoError(t, cursor.Export(path))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "id,username\n1,panchr\n2,other\n", string(content))
	})

	t.Run("QuotesDelimiters", func(t *testing.T) {
		db := newTestDB(t)
		seedUsers(t, db)
		_, err := db.Insert("users", sqlstring.Bindings{
			sqlstring.Bind("id", 3),
			sqlstring.Bind("username", `comma, and "quote"`),
		})
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "quoted.csv")
		cursor, err := db.Select("users", nil, sqlstring.Clauses{
			Equal: sqlstring.Bindings{sqlstring.Bind("id", 3)},
		})
		require.NoError(t, err)
		require.NoError(t, cursor.Export(path))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "id,username\n3,\"comma, and \"\"quote\"\"\"\n", string(content))
	})
}

func TestCursorClose(t *testing.T) {
	db := newTestDB(t)
	seedUsers(t, db)
	cursor := usersCursor(t, db)

	require.NoError(t, cursor.Close())
	require.NoError(t, cursor.Close())
	assert.Equal(t, 0, db.OpenCursors())

	_, err := cursor.Fetch(FetchAll)
	var misuse *MisuseError
	assert.True(t, errors.As(err, &misuse))
}
