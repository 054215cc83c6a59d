package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/psyker-go/query/builder"
	"github.com/satishbabariya/psyker-go/query/sqlgen"
	"github.com/satishbabariya/psyker-go/schema"
)

// queryFlags are the query shaping flags shared by sql, query and count.
type queryFlags struct {
	joins  []string
	where  []string
	set    []string
	order  []string
	random bool
	limit  int
	offset int
	page   int
}

func (f *queryFlags) bindWhere(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.where, "where", "w", nil, "filter column=value; the value may start with >, <, >=, <= or !")
}

func (f *queryFlags) bindSelect(cmd *cobra.Command) {
	f.bindWhere(cmd)
	cmd.Flags().StringArrayVarP(&f.joins, "join", "j", nil, "join table:column or table:anchor.column")
	cmd.Flags().StringArrayVarP(&f.order, "order", "o", nil, "order by column[:asc|desc]")
	cmd.Flags().BoolVar(&f.random, "random", false, "order randomly")
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "maximum number of rows")
	cmd.Flags().IntVar(&f.offset, "offset", 0, "rows to skip")
	cmd.Flags().IntVar(&f.page, "page", -1, "zero based page of --limit rows")
}

func (f *queryFlags) bindSet(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.set, "set", nil, "assign column=value")
}

// filters parses the --where flags.
func (f *queryFlags) filters() ([]builder.Filter, error) {
	out := make([]builder.Filter, 0, len(f.where))
	for _, w := range f.where {
		column, value, err := pair(w)
		if err != nil {
			return nil, err
		}
		out = append(out, builder.F(column, value))
	}
	return out, nil
}

// values parses the --set flags.
func (f *queryFlags) values() (map[string]any, error) {
	out := make(map[string]any, len(f.set))
	for _, s := range f.set {
		column, value, err := pair(s)
		if err != nil {
			return nil, err
		}
		out[column] = value
	}
	return out, nil
}

func pair(s string) (string, string, error) {
	column, value, ok := strings.Cut(s, "=")
	column = strings.TrimSpace(column)
	if !ok || column == "" {
		return "", "", fmt.Errorf("invalid %q, want column=value", s)
	}
	return column, value, nil
}

func parseOrder(s string) (sqlgen.Order, error) {
	column, dir, _ := strings.Cut(s, ":")
	switch strings.ToLower(dir) {
	case "", "asc":
		return builder.Asc(column), nil
	case "desc":
		return builder.Desc(column), nil
	default:
		return sqlgen.Order{}, fmt.Errorf("invalid order direction %q", dir)
	}
}

// parseJoin reads table:column (heuristic) or table:anchor.column (explicit).
func parseJoin(r *schema.Registry, s string) (*schema.Table, builder.On, error) {
	name, key, ok := strings.Cut(s, ":")
	if !ok || key == "" {
		return nil, builder.On{}, fmt.Errorf("invalid join %q, want table:column", s)
	}
	t, found := r.Table(name)
	if !found {
		return nil, builder.On{}, fmt.Errorf("%s: %w", name, schema.ErrUnknownTable)
	}
	anchor, column, explicit := strings.Cut(key, ".")
	if !explicit {
		return t, builder.Key(key), nil
	}
	at, found := r.Table(anchor)
	if !found {
		return nil, builder.On{}, fmt.Errorf("%s: %w", anchor, schema.ErrUnknownTable)
	}
	return t, builder.Explicit(at, column), nil
}

// apply shapes q with the parsed flags.
func (f *queryFlags) apply(r *schema.Registry, q builder.Query) (builder.Query, error) {
	for _, j := range f.joins {
		t, on, err := parseJoin(r, j)
		if err != nil {
			return q, err
		}
		q = q.Join(t, on)
	}

	filters, err := f.filters()
	if err != nil {
		return q, err
	}
	if len(filters) > 0 {
		q = q.Where(filters...)
	}

	if f.random {
		q = q.Random()
	} else if len(f.order) > 0 {
		orders := make([]sqlgen.Order, 0, len(f.order))
		for _, o := range f.order {
			order, err := parseOrder(o)
			if err != nil {
				return q, err
			}
			orders = append(orders, order)
		}
		q = q.OrderBy(orders...)
	}

	if f.limit <= 0 && (f.offset > 0 || f.page >= 0) {
		return q, fmt.Errorf("--offset and --page need --limit")
	}
	switch {
	case f.page >= 0:
		q = q.Paginate(f.page, f.limit)
	case f.limit > 0 && f.offset > 0:
		q = q.Limit(f.limit, f.offset)
	case f.limit > 0:
		q = q.Limit(f.limit)
	}
	return q, nil
}
