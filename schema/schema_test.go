package schema_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/psyker-go/schema"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		tag  string
		want schema.Type
	}{
		{"int", schema.Int},
		{"float", schema.Float},
		{"bool", schema.Bool},
		{"serial", schema.Serial},
		{"str", schema.String},
		{"string", schema.String},
		{"text", schema.Text},
		{"date", schema.Date},
		{"datetime", schema.DateTime},
		{"uuid", schema.UUID},
		{"foreign", schema.Reference},
		{"reference", schema.Reference},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := schema.ParseType(tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := schema.ParseType("blob")
	var typeErr *schema.UnsupportedTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "blob", typeErr.Tag)
	assert.ErrorIs(t, err, schema.ErrUnsupportedType)
}

func TestColumnRenderType(t *testing.T) {
	tests := []struct {
		name   string
		column *schema.Column
		want   string
	}{
		{"int", schema.NewColumn("a", schema.Int), "integer"},
		{"float", schema.NewColumn("a", schema.Float), "numeric"},
		{"bool", schema.NewColumn("a", schema.Bool), "boolean"},
		{"serial", schema.NewColumn("a", schema.Serial), "serial"},
		{"string", schema.NewColumn("a", schema.String), "varchar"},
		{"string with length", schema.NewColumn("a", schema.String, schema.Length(64)), "varchar(64)"},
		{"text", schema.NewColumn("a", schema.Text), "text"},
		{"date", schema.NewColumn("a", schema.Date), "date"},
		{"datetime", schema.NewColumn("a", schema.DateTime), "timestamp"},
		{"uuid", schema.NewColumn("a", schema.UUID), "uuid"},
		{"foreign", schema.NewForeign("tree", "trees"), `uuid references "trees" ("id")`},
		{"foreign column", schema.NewForeign("tree", "trees", schema.References("code")), `uuid references "trees" ("code")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.column.RenderType()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := schema.NewColumn("a", schema.Type(99)).RenderType()
	assert.ErrorIs(t, err, schema.ErrUnsupportedType)
}

func TestColumnRenderDefinition(t *testing.T) {
	c := schema.NewColumn("name", schema.String, schema.NotNull(), schema.Unique(), schema.Default("'x'"))
	def, err := c.RenderDefinition()
	require.NoError(t, err)
	assert.Equal(t, `"name" varchar not null unique default 'x'`, def)

	def, err = schema.NewColumn("age", schema.Int).RenderDefinition()
	require.NoError(t, err)
	assert.Equal(t, `"age" integer`, def)
}

func TestColumnIsRelationship(t *testing.T) {
	target, ok := schema.NewForeign("user", "users").IsRelationship()
	assert.True(t, ok)
	assert.Equal(t, "users", target)

	_, ok = schema.NewColumn("title", schema.String).IsRelationship()
	assert.False(t, ok)
}

func TestColumnCast(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	ids := schema.NewColumn("id", schema.UUID)
	assert.Equal(t, id.String(), ids.Cast(id))
	assert.Equal(t, id.String(), ids.Cast(&id))
	assert.Equal(t, id.String(), ids.Cast([16]byte(id)))
	assert.Equal(t, "raw", ids.Cast("raw"))
	assert.Nil(t, ids.Cast((*uuid.UUID)(nil)))

	assert.Equal(t, id.String(), schema.NewForeign("user", "users").Cast(id))
	assert.Equal(t, 5, schema.NewColumn("n", schema.Int).Cast(5))
	assert.Equal(t, id, schema.NewColumn("n", schema.Text).Cast(id))
}

func TestDefineSynthesizesKey(t *testing.T) {
	r := schema.NewRegistry()
	trees := r.MustDefine("Trees", schema.Fields{
		schema.Field("name", "str"),
		schema.Field("max_height", "int"),
	})

	assert.Equal(t, "trees", trees.Name)
	assert.Equal(t, "t0", trees.Alias)
	assert.Equal(t, []string{"name", "max_height", "id"}, trees.ColumnNames())

	ddl, err := trees.RenderCreate()
	require.NoError(t, err)
	assert.Equal(t, `create table if not exists "trees" ("name" varchar, "max_height" integer, "id" uuid not null default uuid_generate_v1() primary key)`, ddl)

	serial := r.MustDefine("counters", schema.Fields{schema.Field("n", "int")}, schema.WithKey(schema.KeySerial))
	pk := serial.PrimaryKey()
	require.NotNil(t, pk)
	assert.Equal(t, schema.Serial, pk.Type)

	bare := r.MustDefine("logs", schema.Fields{schema.Field("line", "text")}, schema.WithKey(schema.KeyNone))
	assert.Nil(t, bare.PrimaryKey())
	assert.Equal(t, 1, bare.Len())

	own := r.MustDefine("codes", schema.Fields{
		schema.Use(schema.NewColumn("code", schema.String, schema.PrimaryKey())),
	})
	assert.Equal(t, []string{"code"}, own.ColumnNames())
}

func TestDefineErrors(t *testing.T) {
	r := schema.NewRegistry()

	_, err := r.Define("bad", schema.Fields{schema.Field("x", "blob")})
	assert.ErrorIs(t, err, schema.ErrUnsupportedType)

	_, err = r.Define("bare", schema.Fields{schema.Field("x", "foreign")})
	assert.ErrorIs(t, err, schema.ErrUnknownTable)

	r.MustDefine("users", schema.Fields{schema.Field("username", "str")})
	_, err = r.Define("Users", nil)
	assert.ErrorIs(t, err, schema.ErrDuplicateTable)

	_, ok := r.Table("bad")
	assert.False(t, ok)
}

func TestRelationships(t *testing.T) {
	r := schema.NewRegistry()
	trees := r.MustDefine("trees", schema.Fields{schema.Field("name", "str")})
	fruits := r.MustDefine("fruits", schema.Fields{
		schema.Field("name", "str"),
		schema.Foreign("tree", "trees"),
		schema.Foreign("other_tree", "trees"),
	})
	flies := r.MustDefine("flies", schema.Fields{
		schema.Field("name", "str"),
		schema.Foreign("fruit", "fruits"),
	})

	assert.Equal(t, []string{"t0", "t1", "t2"}, []string{trees.Alias, fruits.Alias, flies.Alias})
	assert.Equal(t, []string{"trees"}, fruits.Relationships())
	assert.Equal(t, []string{"fruits"}, trees.ReverseRelationships())
	assert.Equal(t, []string{"flies"}, fruits.ReverseRelationships())
	assert.Empty(t, flies.ReverseRelationships())

	assert.Equal(t, []*schema.Table{trees}, r.Forward(fruits))
	assert.Equal(t, []*schema.Table{flies}, r.Reverse(fruits))
	require.NoError(t, r.Validate())
}

func TestForeignTag(t *testing.T) {
	r := schema.NewRegistry()
	users := r.MustDefine("users", schema.Fields{schema.Field("username", "str")})
	todos := r.MustDefine("todos", schema.Fields{
		schema.Field("owner", "foreign", schema.To("Users"), schema.NotNull()),
		schema.Field("reviewer", "foreign", schema.References("username"), schema.To("users")),
	})

	owner, _ := todos.Column("owner")
	assert.Equal(t, schema.Ref{Table: "users", Column: "id"}, owner.Ref)
	assert.False(t, owner.Nullable)
	reviewer, _ := todos.Column("reviewer")
	assert.Equal(t, schema.Ref{Table: "users", Column: "username"}, reviewer.Ref)

	assert.Equal(t, []string{"users"}, todos.Relationships())
	assert.Equal(t, []string{"todos"}, users.ReverseRelationships())
	require.NoError(t, r.Validate())
}

func TestConcurrentDefine(t *testing.T) {
	r := schema.NewRegistry()
	users := r.MustDefine("users", schema.Fields{schema.Field("username", "str")})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			r.MustDefine(fmt.Sprintf("todos%d", i), schema.Fields{schema.Foreign("user", "users")})
		}(i)
		go func() {
			defer wg.Done()
			_ = users.ReverseRelationships()
			_ = r.Reverse(users)
		}()
	}
	wg.Wait()

	assert.Len(t, users.ReverseRelationships(), 8)
	assert.Len(t, r.Reverse(users), 8)
}

func TestRelationshipsAnyOrder(t *testing.T) {
	r := schema.NewRegistry()
	todos := r.MustDefine("todos", schema.Fields{
		schema.Field("title", "str"),
		schema.Foreign("user", "users"),
	})
	assert.ErrorIs(t, r.Validate(), schema.ErrUnknownTable)

	users := r.MustDefine("users", schema.Fields{schema.Field("username", "str")})
	assert.Equal(t, []string{"todos"}, users.ReverseRelationships())
	require.NoError(t, r.Validate())

	assert.Equal(t, []*schema.Table{users, todos}, r.CreationOrder())

	ddl, err := r.RenderCreate()
	require.NoError(t, err)
	require.Len(t, ddl, 2)
	assert.Contains(t, ddl[0], `"users"`)
	assert.True(t, r.NeedsUUID())
}

func TestCastValuesAndOrder(t *testing.T) {
	r := schema.NewRegistry()
	todos := r.MustDefine("todos", schema.Fields{
		schema.Field("title", "str"),
		schema.Field("done", "bool"),
		schema.Foreign("user", "users"),
	})
	id := uuid.New()

	values := map[string]any{"user": id, "title": "write", "extra": 1, "done": false}
	cast := todos.CastValues(values)

	assert.Equal(t, id.String(), cast["user"])
	assert.Equal(t, "write", cast["title"])
	assert.Equal(t, 1, cast["extra"])
	assert.Equal(t, []string{"title", "done", "user", "extra"}, todos.Order(values))
}

func TestUnsupportedTypeMessage(t *testing.T) {
	err := error(&schema.UnsupportedTypeError{Tag: "blob"})
	assert.Equal(t, "field type error: blob is invalid or not supported", err.Error())
	assert.True(t, errors.Is(err, schema.ErrUnsupportedType))
}
