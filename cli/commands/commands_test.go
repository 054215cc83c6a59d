package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/psyker-go/query/builder"
	"github.com/satishbabariya/psyker-go/schema"
	"github.com/satishbabariya/psyker-go/schema/dsl"
)

const orchard = `
table trees serial {
  name str
  max_height int
}
table fruits serial {
  name str
  tree -> trees
}
table flies serial {
  name str
  fruit -> fruits
}
`

// run executes the CLI against an in-memory filesystem holding the
// orchard schema.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	t.Setenv("PSYKER_DATABASE_URL", "")
	t.Setenv("DATABASE_URL", "")

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "schema.psyker", []byte(orchard), 0o644))

	cmd := NewRootCommand(fs)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDDL(t *testing.T) {
	out, err := run(t, "ddl")
	require.NoError(t, err)
	stmts := strings.Split(strings.TrimSpace(out), ";\n\n")
	require.Len(t, stmts, 3)
	assert.True(t, strings.HasPrefix(stmts[0], `create table if not exists "trees"`))
	assert.True(t, strings.HasPrefix(stmts[2], `create table if not exists "flies"`))
	assert.NotContains(t, out, "uuid-ossp")
}

func TestDDLMissingSchema(t *testing.T) {
	_, err := run(t, "ddl", "--schema", "nope.psyker")
	assert.Error(t, err)
}

func TestSQL(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			"select",
			[]string{"sql", "select", "trees", "-w", "max_height=>40", "-o", "name:desc", "-n", "5"},
			`select "name", "max_height", "id" from "trees" where "max_height" > $1 order by "name" desc limit $2` + "\n  $1 = 40\n  $2 = 5\n",
		},
		{
			"join",
			[]string{"sql", "select", "flies", "-j", "fruits:fruit", "-j", "trees:fruits.tree"},
			`select "t2"."name", "t2"."fruit", "t2"."id", "t1"."name", "t1"."tree", "t1"."id", "t0"."name", "t0"."max_height", "t0"."id" from "flies" as "t2" join "fruits" as "t1" on "t2"."fruit" = "t1"."id" join "trees" as "t0" on "t1"."tree" = "t0"."id"` + "\n",
		},
		{
			"count",
			[]string{"sql", "count", "trees", "-w", "name=pine"},
			`select count(*) from "trees" where "name" = $1` + "\n  $1 = pine\n",
		},
		{
			"drop",
			[]string{"sql", "drop", "fruits", "--cascade"},
			`drop table "fruits" cascade` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestSQLErrors(t *testing.T) {
	_, err := run(t, "sql", "select", "nowhere")
	assert.ErrorIs(t, err, schema.ErrUnknownTable)

	_, err = run(t, "sql", "merge", "trees")
	assert.ErrorContains(t, err, "unknown kind")

	_, err = run(t, "sql", "select", "trees", "-w", "=x")
	assert.Error(t, err)

	_, err = run(t, "sql", "select", "trees", "--offset", "3")
	assert.Error(t, err)

	_, err = run(t, "sql", "insert", "trees")
	assert.Error(t, err)
}

func TestCommandsNeedDatabase(t *testing.T) {
	for _, args := range [][]string{
		{"query", "trees"},
		{"count", "trees"},
		{"create-tables"},
		{"drop", "trees", "--yes"},
	} {
		_, err := run(t, args...)
		assert.ErrorIs(t, err, errNoDatabase, args)
	}

	_, err := run(t, "drop", "--yes")
	assert.ErrorContains(t, err, "needs either a table or --all")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "psyker "))
}

func TestQueryFlags(t *testing.T) {
	r, err := dsl.ParseString("orchard.psyker", orchard)
	require.NoError(t, err)
	trees, _ := r.Table("trees")

	f := queryFlags{where: []string{"max_height=<=30"}, random: true, order: []string{"name"}, limit: 10, page: 2}
	q, err := f.apply(r, builder.Select(trees))
	require.NoError(t, err)
	assert.Equal(t, `select "name", "max_height", "id" from "trees" where "max_height" <= $1 order by random() limit $2 offset $3`, q.SQL())
	assert.Equal(t, []any{"30", 10, 20}, q.Params())

	_, err = parseOrder("name:sideways")
	assert.Error(t, err)

	_, _, err = parseJoin(r, "trees")
	assert.Error(t, err)
	_, _, err = parseJoin(r, "trees:nowhere.id")
	assert.ErrorIs(t, err, schema.ErrUnknownTable)

	rows := []map[string]any{{"id": int64(1), "name": "pine", "max_height": nil}}
	headers, cells := rowsTable(trees, rows)
	assert.Equal(t, []string{"name", "max_height", "id"}, headers)
	assert.Equal(t, [][]string{{"pine", "null", "1"}}, cells)
}
