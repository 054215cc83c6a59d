package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/psyker-go/cli/internal/ui"
	"github.com/satishbabariya/psyker-go/cli/internal/watch"
	"github.com/satishbabariya/psyker-go/query/sqlgen"
	"github.com/satishbabariya/psyker-go/schema"
)

// ddl renders the statements that create every table of r.
func ddl(r *schema.Registry) (string, error) {
	var stmts []string
	if r.NeedsUUID() {
		stmts = append(stmts, sqlgen.CreateExtension("uuid-ossp"))
	}
	tables, err := r.RenderCreate()
	if err != nil {
		return "", err
	}
	stmts = append(stmts, tables...)
	return strings.Join(stmts, ";\n\n") + ";\n", nil
}

func writeDDL(w io.Writer, r *schema.Registry, pretty bool) error {
	out, err := ddl(r)
	if err != nil {
		return err
	}
	if pretty {
		if out, err = ui.RenderMarkdown("```sql\n" + out + "```\n"); err != nil {
			return err
		}
	}
	_, err = fmt.Fprint(w, out)
	return err
}

func newDDLCommand(a *app) *cobra.Command {
	var pretty bool
	cmd := &cobra.Command{
		Use:   "ddl",
		Short: "Print the create table statements of the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.registry()
			if err != nil {
				return err
			}
			return writeDDL(cmd.OutOrStdout(), r, pretty)
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "render with syntax highlighting")
	return cmd
}

func newWatchCommand(a *app) *cobra.Command {
	var pretty bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the DDL again whenever the schema file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ui.PrintHeader("psyker watch", a.cfg.SchemaPath)
			w, err := watch.New(a.cfg.SchemaPath, func() error {
				r, err := a.registry()
				if err != nil {
					ui.PrintError("%v", err)
					return nil
				}
				ui.PrintInfo("%s: %d tables", a.cfg.SchemaPath, len(r.Tables()))
				return writeDDL(cmd.OutOrStdout(), r, pretty)
			})
			if err != nil {
				return err
			}
			return w.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "render with syntax highlighting")
	return cmd
}
