package dsl

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/psyker-go/schema"
)

const orchard = `
# an orchard
table trees {
  name str(64) unique not null
  max_height int default 0
  planted date default now()
  kind str default "o'clock"
}

table fruits serial {
  name str
  tree -> trees
}

// flies reference fruits by id
table flies nokey {
  code int primary
  fruit -> fruits.id not null
}
`

func TestParse(t *testing.T) {
	r, err := ParseString("orchard.psyker", orchard)
	require.NoError(t, err)
	require.Len(t, r.Tables(), 3)

	trees, ok := r.Table("trees")
	require.True(t, ok)
	assert.Equal(t, "t0", trees.Alias)
	assert.Equal(t, schema.KeyUUID, trees.KeyStrategy())
	assert.Equal(t, []string{"name", "max_height", "planted", "kind", "id"}, trees.ColumnNames())

	name, _ := trees.Column("name")
	assert.Equal(t, schema.String, name.Type)
	assert.Equal(t, 64, name.Length)
	assert.True(t, name.Unique)
	assert.False(t, name.Nullable)

	height, _ := trees.Column("max_height")
	assert.Equal(t, "0", height.Default)
	planted, _ := trees.Column("planted")
	assert.Equal(t, "now()", planted.Default)
	kind, _ := trees.Column("kind")
	assert.Equal(t, "'o''clock'", kind.Default)

	fruits, _ := r.Table("fruits")
	assert.Equal(t, schema.KeySerial, fruits.KeyStrategy())
	assert.Equal(t, []string{"trees"}, fruits.Relationships())
	assert.Equal(t, []string{"fruits"}, trees.ReverseRelationships())

	flies, _ := r.Table("flies")
	assert.Equal(t, schema.KeyNone, flies.KeyStrategy())
	assert.Equal(t, "code", flies.PrimaryKey().Name)
	fruit, _ := flies.Column("fruit")
	assert.Equal(t, schema.Ref{Table: "fruits", Column: "id"}, fruit.Ref)
	assert.False(t, fruit.Nullable)
}

func TestParseForwardReference(t *testing.T) {
	r, err := ParseString("fwd.psyker", `
table todos { user -> users }
table users { name str }
`)
	require.NoError(t, err)
	users, _ := r.Table("users")
	assert.Equal(t, []string{"todos"}, users.ReverseRelationships())
	assert.Equal(t, "users", r.CreationOrder()[0].Name)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		is   error
	}{
		{"unsupported type", "table t {\n  x blob\n}", schema.ErrUnsupportedType},
		{"unknown table", "table t { x -> nowhere }", schema.ErrUnknownTable},
		{"duplicate table", "table t { x int }\ntable t { y int }", schema.ErrDuplicateTable},
		{"syntax", "table t { x int", nil},
		{"bad key", "table t auto { x int }", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString("bad.psyker", tt.src)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestUnsupportedTypePosition(t *testing.T) {
	_, err := ParseString("bad.psyker", "table t {\n  x blob\n}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.psyker:2:3")
}

func TestParseFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/app/schema.psyker", []byte(orchard), 0o644))

	r, err := ParseFile(fs, "/app/schema.psyker")
	require.NoError(t, err)
	ddl, err := r.RenderCreate()
	require.NoError(t, err)
	assert.Len(t, ddl, 3)
	assert.True(t, r.NeedsUUID())

	_, err = ParseFile(fs, "/app/missing.psyker")
	assert.Error(t, err)
}
