package sqlstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateTable(t *testing.T) {
	t.Run("ColumnsInGivenOrder", func(t *testing.T) {
		query := CreateTable("t", false, []ColumnDef{
			Col("id", "INT"),
			ColDefault("name", "VARCHAR(50)", "'x'"),
		})
		assert.Equal(t, "CREATE TABLE t (id INT NOT NULL,name VARCHAR(50) DEFAULT 'x')", query)
	})

	t.Run("Temporary", func(t *testing.T) {
		query := CreateTable("t", true, []ColumnDef{Col("id", "INT")})
		assert.Equal(t, "CREATE TEMPORARY TABLE t (id INT NOT NULL)", query)
	})

	t.Run("NullTypeSkipsNotNull", func(t *testing.T) {
		query := CreateTable("t", false, []ColumnDef{Col("a", "null"), Col("b", "NULL")})
		assert.Equal(t, "CREATE TABLE t (a null,b NULL)", query)
	})

	t.Run("DefaultSuppressesNotNull", func(t *testing.T) {
		query := CreateTable("t", false, []ColumnDef{ColDefault("tier", "INT", "0")})
		assert.Equal(t, "CREATE TABLE t (tier INT DEFAULT 0)", query)
	})
}

func TestDropTable(t *testing.T) {
	assert.Equal(t, "DROP TABLE t", DropTable("t"))
}

func TestRename(t *testing.T) {
	assert.Equal(t, "ALTER TABLE t RENAME TO t2", Rename("t", "t2"))
}

func TestAddColumn(t *testing.T) {
	t.Run("PlainType", func(t *testing.T) {
		query := AddColumn("users", Col("age", "INT"))
		assert.Equal(t, "ALTER TABLE users ADD COLUMN age INT NOT NULL", query)
	})

	t.Run("WithDefault", func(t *testing.T) {
		query := AddColumn("users", ColDefault("tier", "INT", "1"))
		assert.Equal(t, "ALTER TABLE users ADD COLUMN tier INT DEFAULT 1", query)
	})
}

func TestInsert(t *testing.T) {
	query, values := Insert("users", Bindings{
		Bind("id", 1),
		Bind("username", "panchr"),
	})
	assert.Equal(t, "INSERT INTO users (`id`, `username`) VALUES (?, ?)", query)
	assert.Equal(t, []any{1, "panchr"}, values)
}

func TestUpdate(t *testing.T) {
	t.Run("SetOnly", func(t *testing.T) {
		query, values := Update("users", Clauses{}, Bindings{Bind("username", "new")})
		assert.Equal(t, "UPDATE users SET `username` = ? WHERE 1 = 1", query)
		assert.Equal(t, []any{"new"}, values)
	})

	t.Run("ValuesOrderedSetLikeEqual", func(t *testing.T) {
		query, values := Update("users",
			Clauses{
				Equal: Bindings{Bind("id", 5)},
				Like:  Bindings{Bind("email", "%@example.com")},
			},
			Bindings{Bind("username", "new"), Bind("tier", 2)},
		)
		assert.Equal(t,
			"UPDATE users SET `username` = ? , `tier` = ? WHERE `email` LIKE ? AND `id` = ?",
			query)
		assert.Equal(t, []any{"new", 2, "%@example.com", 5}, values)
	})

	t.Run("CustomWhere", func(t *testing.T) {
		query, values := Update("users",
			Clauses{Where: "id > 10"},
			Bindings{Bind("tier", 0)},
		)
		assert.Equal(t, "UPDATE users SET `tier` = ? WHERE id > 10", query)
		assert.Equal(t, []any{0}, values)
	})
}

func TestSelect(t *testing.T) {
	t.Run("NoPredicatesDefaultsToAllRows", func(t *testing.T) {
		query, values := Select("users", nil, Clauses{})
		assert.Equal(t, "SELECT * FROM users WHERE 1 = 1", query)
		assert.Empty(t, values)
	})

	t.Run("EscapedColumns", func(t *testing.T) {
		query, _ := Select("users", []string{"id", "username"}, Clauses{})
		assert.Equal(t, "SELECT `id`,`username` FROM users WHERE 1 = 1", query)
	})

	t.Run("LikeThenEqualValues", func(t *testing.T) {
		query, values := Select("users", nil, Clauses{
			Equal: Bindings{Bind("id", 1)},
			Like:  Bindings{Bind("username", "pan%")},
		})
		assert.Equal(t, "SELECT * FROM users WHERE `username` LIKE ? AND `id` = ?", query)
		assert.Equal(t, []any{"pan%", 1}, values)
	})

	t.Run("EmptyMappingsRenderNoClause", func(t *testing.T) {
		query, values := Select("users", nil, Clauses{Equal: Bindings{}, Like: Bindings{}})
		assert.Equal(t, "SELECT * FROM users WHERE 1 = 1", query)
		assert.Empty(t, values)
	})

	t.Run("FreeFormWhere", func(t *testing.T) {
		query, values := Select("users", nil, Clauses{Where: "`id` = 1 OR `username` LIKE 'pan%'"})
		assert.Equal(t, "SELECT * FROM users WHERE `id` = 1 OR `username` LIKE 'pan%'", query)
		assert.Empty(t, values)
	})
}

func TestDelete(t *testing.T) {
	t.Run("NoPredicatesDefaultsToNoRows", func(t *testing.T) {
		query, values := Delete("users", Clauses{})
		assert.Equal(t, "DELETE FROM users WHERE 1 = 0", query)
		assert.Empty(t, values)
	})

	t.Run("EqualPredicate", func(t *testing.T) {
		query, values := Delete("users", Clauses{Equal: Bindings{Bind("id", 5)}})
		assert.Equal(t, "DELETE FROM users WHERE `id` = ?", query)
		assert.Equal(t, []any{5}, values)
	})

	t.Run("FreeFormWhereOverridesDefault", func(t *testing.T) {
		query, values := Delete("users", Clauses{Where: "tier < 0"})
		assert.Equal(t, "DELETE FROM users WHERE tier < 0", query)
		assert.Empty(t, values)
	})
}

func TestPragma(t *testing.T) {
	assert.Equal(t, "PRAGMA table_info(users)", Pragma("table_info(users)"))
}

func TestCheckIntegrity(t *testing.T) {
	assert.Equal(t, "PRAGMA INTEGRITY_CHECK(100)", CheckIntegrity(100))
}

func TestPlaceholderCountMatchesValues(t *testing.T) {
	countPlaceholders := func(query string) int {
		count := 0
		for _, r := range query {
			if r == '?' {
				count++
			}
		}
		return count
	}

	clauses := Clauses{
		Equal: Bindings{Bind("a", 1), Bind("b", 2)},
		Like:  Bindings{Bind("c", "%x%")},
	}
	set := Bindings{Bind("d", 4), Bind("e", 5)}

	insertQuery, insertValues := Insert("t", set)
	assert.Equal(t, len(insertValues), countPlaceholders(insertQuery))

	updateQuery, updateValues := Update("t", clauses, set)
	assert.Equal(t, len(updateValues), countPlaceholders(updateQuery))

	selectQuery, selectValues := Select("t", nil, clauses)
	assert.Equal(t, len(selectValues), countPlaceholders(selectQuery))

	deleteQuery, deleteValues := Delete("t", clauses)
	assert.Equal(t, len(deleteValues), countPlaceholders(deleteQuery))
}
