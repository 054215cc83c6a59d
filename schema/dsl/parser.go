// Package dsl reads table declarations from .psyker schema files.
//
//	table trees {
//	  name str(64) unique not null
//	  max_height int default 0
//	}
//	table fruits serial {
//	  name str
//	  tree -> trees
//	}
package dsl

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/spf13/afero"

	"github.com/satishbabariya/psyker-go/schema"
)

// File is the parse tree of a schema file.
type File struct {
	Pos    lexer.Position
	Tables []*TableDecl `@@*`
}

// TableDecl is a table block.
type TableDecl struct {
	Pos     lexer.Position
	Name    string        `"table" @Ident`
	Key     string        `@("uuid" | "serial" | "nokey")?`
	Columns []*ColumnDecl `"{" @@* "}"`
}

// ColumnDecl is one column line: a typed field or a reference.
type ColumnDecl struct {
	Pos       lexer.Position
	Name      string      `@Ident`
	Ref       *RefDecl    `( Arrow @@`
	Type      *TypeDecl   `| @@ )`
	Modifiers []*Modifier `@@*`
}

// RefDecl is the target of a reference column.
type RefDecl struct {
	Table  string `@Ident`
	Column string `( "." @Ident )?`
}

// TypeDecl is a type tag with an optional length.
type TypeDecl struct {
	Tag    string `@Ident`
	Length int    `( "(" @Number ")" )?`
}

// Modifier is a column constraint.
type Modifier struct {
	NotNull bool     `  @( "not" "null" )`
	Unique  bool     `| @"unique"`
	Primary bool     `| @"primary"`
	Default *Literal `| "default" @@`
}

// Literal is a default expression.
type Literal struct {
	String *string `  @String`
	Number *string `| @Number`
	Func   *string `| @Ident`
	Call   bool    `  @( "(" ")" )?`
}

// SQL renders the literal as a PostgreSQL expression.
func (l *Literal) SQL() string {
	switch {
	case l.String != nil:
		return "'" + strings.ReplaceAll(*l.String, "'", "''") + "'"
	case l.Number != nil:
		return *l.Number
	case l.Call:
		return *l.Func + "()"
	default:
		return *l.Func
	}
}

var parser = participle.MustBuild[File](
	participle.Lexer(Lexer),
	participle.Elide("Whitespace", "Newline", "Comment"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

var keys = map[string]schema.KeyStrategy{
	"":       schema.KeyUUID,
	"uuid":   schema.KeyUUID,
	"serial": schema.KeySerial,
	"nokey":  schema.KeyNone,
}

// ParseAST parses a schema file without building tables.
func ParseAST(filename string, r io.Reader) (*File, error) {
	return parser.Parse(filename, r)
}

// Parse parses a schema file into a new registry. Tables may reference
// tables declared later in the file.
func Parse(filename string, r io.Reader) (*schema.Registry, error) {
	file, err := ParseAST(filename, r)
	if err != nil {
		return nil, err
	}
	return file.Registry()
}

// ParseString parses schema source held in memory.
func ParseString(filename, src string) (*schema.Registry, error) {
	return Parse(filename, strings.NewReader(src))
}

// ParseFile reads and parses path from fs.
func ParseFile(fs afero.Fs, path string) (*schema.Registry, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(path, f)
}

// Registry defines every table of the file in declaration order.
func (f *File) Registry() (*schema.Registry, error) {
	r := schema.NewRegistry()
	for _, t := range f.Tables {
		fields := make(schema.Fields, 0, len(t.Columns))
		for _, c := range t.Columns {
			if c.Type != nil {
				if _, err := schema.ParseType(c.Type.Tag); err != nil {
					return nil, fmt.Errorf("%s: %w", c.Pos, err)
				}
			}
			fields = append(fields, c.declaration())
		}
		if _, err := r.Define(t.Name, fields, schema.WithKey(keys[t.Key])); err != nil {
			return nil, fmt.Errorf("%s: %w", t.Pos, err)
		}
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (c *ColumnDecl) declaration() schema.Declaration {
	var opts []schema.ColumnOption
	for _, m := range c.Modifiers {
		switch {
		case m.NotNull:
			opts = append(opts, schema.NotNull())
		case m.Unique:
			opts = append(opts, schema.Unique())
		case m.Primary:
			opts = append(opts, schema.PrimaryKey())
		case m.Default != nil:
			opts = append(opts, schema.Default(m.Default.SQL()))
		}
	}
	if c.Ref != nil {
		if c.Ref.Column != "" {
			opts = append(opts, schema.References(c.Ref.Column))
		}
		return schema.Foreign(c.Name, c.Ref.Table, opts...)
	}
	if c.Type.Length > 0 {
		opts = append(opts, schema.Length(c.Type.Length))
	}
	return schema.Field(c.Name, c.Type.Tag, opts...)
}
