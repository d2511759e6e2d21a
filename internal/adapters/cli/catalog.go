package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alesfranek-maf/uwapi/internal/adapters/catalogsource"
	catalogCommands "github.com/alesfranek-maf/uwapi/internal/application/catalog/commands"
	catalogQueries "github.com/alesfranek-maf/uwapi/internal/application/catalog/queries"
	"github.com/alesfranek-maf/uwapi/internal/application/setup"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
)

// NewCatalogCommand creates the catalog command with subcommands
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and import the prototype catalog",
		Long: `Inspect the prototype catalog: translate names and ids, list entries
with filter expressions, and import a prototypes file into the database.

Examples:
  uwplan catalog names --category unit
  uwplan catalog lookup factory
  uwplan catalog lookup 1234
  uwplan catalog list --category recipe --where 'len(Outputs) > 1'
  uwplan catalog import prototypes.json`,
	}

	cmd.AddCommand(newCatalogNamesCommand())
	cmd.AddCommand(newCatalogLookupCommand())
	cmd.AddCommand(newCatalogListCommand())
	cmd.AddCommand(newCatalogImportCommand())

	return cmd
}

func newCatalogNamesCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "names",
		Short: "List the name index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := categoryFlag(category)
			if err != nil {
				return err
			}

			rt, err := newRuntime(context.Background())
			if err != nil {
				return err
			}
			defer rt.Close()

			names := rt.catalog.Names()
			keys := make([]string, 0, len(names))
			for name, id := range names {
				if filter != "" {
					if entry, ok := rt.catalog.Entry(id); !ok || entry.Category != filter {
						continue
					}
				}
				keys = append(keys, name)
			}
			sort.Strings(keys)

			if outputFormat == "json" {
				out := make(map[string]catalog.ID, len(keys))
				for _, k := range keys {
					out[k] = names[k]
				}
				return printJSON(out)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tID")
			for _, k := range keys {
				fmt.Fprintf(w, "%s\t%d\n", k, names[k])
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only names of one category (unit, recipe, ...)")

	return cmd
}

func newCatalogLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <name|id>",
		Short: "Translate a name to its id or an id to its name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			rt, err := newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			id, name := unitArg(args[0])
			resp, err := rt.mediator.Send(rt.Context(ctx), &catalogQueries.LookupQuery{ID: id, Name: name})
			if err != nil {
				return err
			}
			result := resp.(*catalogQueries.LookupResponse)

			if outputFormat == "json" {
				return printJSON(result)
			}
			if !result.Found {
				return fmt.Errorf("no prototype matches %q", args[0])
			}
			fmt.Printf("%s\t%d\t%s", result.Name, result.ID, result.Category)
			if result.Ignored {
				fmt.Print("\t(ignored)")
			}
			fmt.Println()
			return nil
		},
	}
}

func newCatalogListCommand() *cobra.Command {
	var (
		category string
		where    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries matching a filter",
		Long: `List catalog entries, optionally of one category and matching a
boolean expression. The expression sees ID, Name, Category, Ignored,
Recipes, Inputs, Outputs and Attrs, and may call Has("attribute").

Examples:
  uwplan catalog list --category unit --where 'len(Recipes) > 0'
  uwplan catalog list --where 'Has("buildingRadius") && Attrs.buildingRadius > 2'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := categoryFlag(category)
			if err != nil {
				return err
			}

			ctx := context.Background()
			rt, err := newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			resp, err := rt.mediator.Send(rt.Context(ctx), &catalogQueries.ListEntriesQuery{
				Category: filter,
				Where:    where,
			})
			if err != nil {
				return err
			}
			entries := resp.(*catalogQueries.ListEntriesResponse).Entries

			if outputFormat == "json" {
				return printJSON(entries)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tNAME")
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%s\n", e.ID, e.Category, e.Name)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Printf("\n%d entries\n", len(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only entries of one category")
	cmd.Flags().StringVar(&where, "where", "", "Filter expression")

	return cmd
}

func newCatalogImportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Import a prototypes file into the database",
		Long: `Parse a prototypes file and replace the contents of the prototypes table.
Set catalog.source to "database" to plan from the imported catalog.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			rt, err := newBaseRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()
			ctx = rt.Context(ctx)

			store, err := rt.openStore()
			if err != nil {
				return err
			}
			src, err := catalogsource.NewFileSource(args[0], format)
			if err != nil {
				return err
			}

			registry := setup.NewHandlerRegistry(nil, nil, nil, nil).WithStore(store, store)
			m, err := registry.CreateConfiguredMediator()
			if err != nil {
				return err
			}

			resp, err := m.Send(ctx, &catalogCommands.ImportCatalogCommand{Source: src})
			if err != nil {
				return err
			}
			result := resp.(*catalogCommands.ImportCatalogResponse)

			if outputFormat == "json" {
				return printJSON(result)
			}
			fmt.Printf("Imported %d prototypes from %s (import %s)\n", result.Entries, src.Describe(), result.ImportID)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", catalogsource.FormatAuto, "File format: auto, json or yaml")

	return cmd
}

// categoryFlag parses an optional --category value
func categoryFlag(raw string) (catalog.Category, error) {
	if raw == "" {
		return "", nil
	}
	c, ok := catalog.ParseCategory(raw)
	if !ok {
		return "", fmt.Errorf("unknown category %q", raw)
	}
	return c, nil
}
