package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/psyker-go/cli/internal/ui"
	"github.com/satishbabariya/psyker-go/query/builder"
	"github.com/satishbabariya/psyker-go/query/executor"
	"github.com/satishbabariya/psyker-go/runtime/client"
	"github.com/satishbabariya/psyker-go/schema"
)

func newCreateTablesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create-tables",
		Short: "Create every table of the schema in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.registry()
			if err != nil {
				return err
			}
			c, err := a.connect(cmd.Context(), r)
			if err != nil {
				return err
			}
			defer c.Close()

			spinner := ui.Spinner("Creating tables")
			if err := c.CreateTables(cmd.Context()); err != nil {
				spinner.Fail(err.Error())
				return err
			}
			spinner.Success()
			ui.PrintSuccess("created %d tables", len(r.Tables()))
			return nil
		},
	}
}

// rowsTable lays out dictionaries under the columns of t. Joined tables
// appear as trailing columns.
func rowsTable(t *schema.Table, rows []map[string]any) ([]string, [][]string) {
	if len(rows) == 0 {
		return t.ColumnNames(), nil
	}
	headers := t.Order(rows[0])
	out := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(headers))
		for j, h := range headers {
			cells[j] = ui.Cell(row[h])
		}
		out[i] = cells
	}
	return headers, out
}

func newQueryCommand(a *app) *cobra.Command {
	var f queryFlags
	cmd := &cobra.Command{
		Use:   "query <table>",
		Short: "Select rows and print them as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, t, err := a.table(args[0])
			if err != nil {
				return err
			}
			q, err := f.apply(r, builder.Select(t))
			if err != nil {
				return err
			}
			c, err := a.connect(cmd.Context(), r)
			if err != nil {
				return err
			}
			defer c.Close()

			rows, err := c.Executor().Dictionaries(cmd.Context(), q)
			if err != nil {
				return err
			}
			headers, cells := rowsTable(t, rows)
			if err := ui.PrintTable(cmd.OutOrStdout(), headers, cells); err != nil {
				return err
			}
			ui.PrintInfo("%d rows", len(rows))
			return nil
		},
	}
	f.bindSelect(cmd)
	return cmd
}

func newCountCommand(a *app) *cobra.Command {
	var f queryFlags
	cmd := &cobra.Command{
		Use:   "count <table>",
		Short: "Count rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, t, err := a.table(args[0])
			if err != nil {
				return err
			}
			filters, err := f.filters()
			if err != nil {
				return err
			}
			c, err := a.connect(cmd.Context(), r)
			if err != nil {
				return err
			}
			defer c.Close()

			n, err := c.Executor().Count(cmd.Context(), builder.Count(t, filters...))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
	f.bindWhere(cmd)
	return cmd
}

// destructive runs drop or truncate after confirmation.
type destructive struct {
	verb    string
	build   func(*schema.Table, bool) builder.Query
	cascade bool
	yes     bool
	all     bool
}

func (d *destructive) run(a *app, cmd *cobra.Command, args []string) error {
	if d.all == (len(args) == 1) {
		return fmt.Errorf("%s needs either a table or --all", d.verb)
	}
	r, err := a.registry()
	if err != nil {
		return err
	}
	var tables []*schema.Table
	if d.all {
		tables = r.CreationOrder()
		slices.Reverse(tables)
	} else {
		t, ok := r.Table(args[0])
		if !ok {
			return fmt.Errorf("%s: %w", args[0], schema.ErrUnknownTable)
		}
		tables = []*schema.Table{t}
	}

	if !d.yes {
		ok, err := ui.Confirm(fmt.Sprintf("%s %d table(s)?", d.verb, len(tables)))
		if err != nil {
			return err
		}
		if !ok {
			ui.PrintWarning("aborted")
			return nil
		}
	}

	c, err := a.connect(cmd.Context(), r)
	if err != nil {
		return err
	}
	defer c.Close()

	if d.all && d.verb == "drop" {
		err = c.DropTables(cmd.Context(), d.cascade)
	} else {
		err = c.Transaction(cmd.Context(), func(exec *executor.Executor) error {
			for _, t := range tables {
				if _, err := exec.Exec(cmd.Context(), d.build(t, d.cascade)); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if client.IsDependencyError(err) {
		return fmt.Errorf("%w (retry with --cascade)", err)
	}
	if err != nil {
		return err
	}
	ui.PrintSuccess("%s: %d table(s)", d.verb, len(tables))
	return nil
}

func newDestructiveCommand(a *app, d *destructive, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   d.verb + " [table]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return d.run(a, cmd, args)
		},
	}
	cmd.Flags().BoolVar(&d.cascade, "cascade", false, "also remove dependent objects")
	cmd.Flags().BoolVarP(&d.yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().BoolVar(&d.all, "all", false, "every table of the schema")
	return cmd
}

func newDropCommand(a *app) *cobra.Command {
	return newDestructiveCommand(a, &destructive{verb: "drop", build: builder.Drop}, "Drop tables")
}

func newTruncateCommand(a *app) *cobra.Command {
	return newDestructiveCommand(a, &destructive{verb: "truncate", build: builder.Truncate}, "Remove every row of tables")
}
