package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/psyker-go/cli/internal/ui"
	"github.com/satishbabariya/psyker-go/query/builder"
	"github.com/satishbabariya/psyker-go/schema"
)

var sqlKinds = []string{"select", "count", "delete", "update", "insert", "drop", "truncate"}

// buildQuery turns a kind name and the flags into a query on t.
func buildQuery(r *schema.Registry, t *schema.Table, kind string, f *queryFlags, returning string, cascade bool) (builder.Query, error) {
	switch kind {
	case "select":
		return f.apply(r, builder.Select(t))
	case "count", "delete", "update":
		filters, err := f.filters()
		if err != nil {
			return builder.Query{}, err
		}
		switch kind {
		case "count":
			return builder.Count(t, filters...), nil
		case "delete":
			return builder.Delete(t, filters...), nil
		}
		values, err := f.values()
		if err != nil {
			return builder.Query{}, err
		}
		return builder.Update(t, values).Where(filters...), nil
	case "insert":
		values, err := f.values()
		if err != nil {
			return builder.Query{}, err
		}
		return builder.Insert(t, values, returning), nil
	case "drop":
		return builder.Drop(t, cascade), nil
	case "truncate":
		return builder.Truncate(t, cascade), nil
	default:
		return builder.Query{}, fmt.Errorf("unknown kind %q, want one of %v", kind, sqlKinds)
	}
}

func newSQLCommand(a *app) *cobra.Command {
	var (
		f         queryFlags
		returning string
		cascade   bool
	)
	cmd := &cobra.Command{
		Use:       "sql <kind> <table>",
		Short:     "Render a statement without running it",
		Long:      "Render a statement and its parameters. kind is one of select, count, delete, update, insert, drop or truncate.",
		Args:      cobra.ExactArgs(2),
		ValidArgs: sqlKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, t, err := a.table(args[1])
			if err != nil {
				return err
			}
			q, err := buildQuery(r, t, args[0], &f, returning, cascade)
			if err != nil {
				return err
			}
			st, err := q.Build()
			if err != nil {
				return err
			}
			ui.PrintStatement(cmd.OutOrStdout(), st.SQL, st.Args)
			return nil
		},
	}
	f.bindSelect(cmd)
	f.bindSet(cmd)
	cmd.Flags().StringVar(&returning, "returning", "", "column returned by insert")
	cmd.Flags().BoolVar(&cascade, "cascade", false, "cascade drop and truncate")
	return cmd
}
