package sqlgen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satishbabariya/psyker-go/query/sqlgen"
)

func TestQuote(t *testing.T) {
	assert.Equal(t, `"users"`, sqlgen.Quote("users"))
	assert.Equal(t, `"we""ird"`, sqlgen.Quote(`we"ird`))
	assert.Equal(t, `"t0"."name"`, sqlgen.Qualified("t0", "name"))
	assert.Equal(t, `"t1"."id"`, sqlgen.Reference("t1.id"))
	assert.Equal(t, `"title"`, sqlgen.Reference("title"))
}

func TestConcat(t *testing.T) {
	assert.Equal(t, "a b", sqlgen.Concat(" ", "a", "", "b"))
	assert.Equal(t, "", sqlgen.Concat(" "))
}

func TestStatementHeads(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"select", sqlgen.Select("trees", []string{"name", "id"}), `select "name", "id" from "trees"`},
		{"count", sqlgen.Count("trees"), `select count(*) from "trees"`},
		{"delete", sqlgen.Delete("trees"), `delete from "trees"`},
		{"drop", sqlgen.DropTable("trees", false), `drop table "trees"`},
		{"drop cascade", sqlgen.DropTable("trees", true), `drop table "trees" cascade`},
		{"truncate", sqlgen.Truncate("trees", false), `truncate "trees"`},
		{"truncate cascade", sqlgen.Truncate("trees", true), `truncate "trees" cascade`},
		{"random", sqlgen.Random(), "order by random()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestUpdate(t *testing.T) {
	var p sqlgen.Params
	sql := sqlgen.Update("trees", []sqlgen.Assignment{{Column: "name", Value: "oak"}, {Column: "max_height", Value: 30}}, &p)

	assert.Equal(t, `update "trees" set "name" = $1, "max_height" = $2`, sql)
	assert.Equal(t, []any{"oak", 30}, p.Args())
}

func TestInsert(t *testing.T) {
	var p sqlgen.Params
	values := []sqlgen.Assignment{{Column: "name", Value: "oak"}}

	assert.Equal(t, `insert into "trees" ("name") values ($1) returning "id"`,
		sqlgen.Insert("trees", values, "id", &p))
	assert.Equal(t, []any{"oak"}, p.Args())

	var q sqlgen.Params
	assert.Equal(t, `insert into "trees" ("name") values ($1)`, sqlgen.Insert("trees", values, "", &q))
}

func TestWhere(t *testing.T) {
	var p sqlgen.Params
	assert.Empty(t, sqlgen.Where(nil, &p))

	sql := sqlgen.Where([]sqlgen.Condition{
		{Column: "name", Operator: "=", Value: "oak"},
		{Column: "max_height", Operator: ">", Value: "5"},
	}, &p)
	assert.Equal(t, `where "name" = $1, "max_height" > $2`, sql)
	assert.Equal(t, []any{"oak", "5"}, p.Args())
}

func TestOrderBy(t *testing.T) {
	assert.Empty(t, sqlgen.OrderBy(nil))
	assert.Equal(t, `order by "name" asc, "t1"."max_height" desc`, sqlgen.OrderBy([]sqlgen.Order{
		{Column: "name"},
		{Column: "t1.max_height", Direction: sqlgen.Desc},
	}))
}

func TestLimit(t *testing.T) {
	var p sqlgen.Params
	p.Bind("already bound")

	assert.Equal(t, "limit $2", sqlgen.Limit(10, nil, &p))

	offset := 20
	assert.Equal(t, "limit $3 offset $4", sqlgen.Limit(10, &offset, &p))
	assert.Equal(t, []any{"already bound", 10, 10, 20}, p.Args())
}

func TestSelectJoined(t *testing.T) {
	flies := sqlgen.Target{Name: "flies", Alias: "t2", Columns: []string{"name", "fruit", "id"}}
	fruits := sqlgen.Target{Name: "fruits", Alias: "t1", Columns: []string{"name", "tree", "id"}}
	trees := sqlgen.Target{Name: "trees", Alias: "t0", Columns: []string{"name", "id"}}

	sql := sqlgen.SelectJoined(
		[]sqlgen.Target{flies, fruits, trees},
		[]sqlgen.Join{
			{Table: fruits, Anchor: flies, Left: "fruit", Right: "id"},
			{Type: "left join", Table: trees, Anchor: fruits, Left: "tree"},
		},
	)

	want := strings.Join([]string{
		`select "t2"."name", "t2"."fruit", "t2"."id", "t1"."name", "t1"."tree", "t1"."id", "t0"."name", "t0"."id"`,
		`from "flies" as "t2"`,
		`join "fruits" as "t1" on "t2"."fruit" = "t1"."id"`,
		`left join "trees" as "t0" on "t1"."tree" = "t0"."id"`,
	}, " ")
	assert.Equal(t, want, sql)
}

func TestDDL(t *testing.T) {
	assert.Equal(t, `"id" uuid not null default uuid_generate_v1() primary key`, sqlgen.ColumnDefinition(sqlgen.ColumnDef{
		Name: "id", Type: "uuid", Default: "uuid_generate_v1()", PrimaryKey: true,
	}))
	assert.Equal(t, `"name" varchar(64) unique`, sqlgen.ColumnDefinition(sqlgen.ColumnDef{
		Name: "name", Type: "varchar(64)", Nullable: true, Unique: true,
	}))
	assert.Equal(t, `uuid references "trees" ("id")`, sqlgen.ForeignKey("trees", "id"))
	assert.Equal(t, `create table if not exists "trees" ("a" text, "b" text)`,
		sqlgen.CreateTable("trees", []string{`"a" text`, `"b" text`}))
	assert.Equal(t, `create extension if not exists "uuid-ossp"`, sqlgen.CreateExtension("uuid-ossp"))
}
