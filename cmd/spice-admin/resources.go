package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/spice-console/internal/admin"
	"github.com/Veraticus/spice-console/internal/common"
	"github.com/spf13/cobra"
)

// fieldValue is one form field set from a flag or argument.
type fieldValue struct {
	name  string
	value string
}

var kindPlurals = map[admin.EntityKind]string{
	admin.KindGroup:    "groups",
	admin.KindCategory: "categories",
	admin.KindCurrency: "currencies",
}

func groupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage category groups",
		Long:  `List, add and delete the groups that categories are filed under.`,
	}

	cmd.AddCommand(listCmd(admin.KindGroup))
	cmd.AddCommand(addGroupCmd())
	cmd.AddCommand(deleteCmd(admin.KindGroup))

	return cmd
}

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage payment categories",
		Long:  `List, add and delete payment categories. A category belongs to at most one group.`,
	}

	cmd.AddCommand(listCmd(admin.KindCategory))
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(deleteCmd(admin.KindCategory))

	return cmd
}

func currenciesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "currencies",
		Short: "Manage the currency registry",
		Long:  `List, add and delete currencies. Codes are three letters and cannot change.`,
	}

	cmd.AddCommand(listCmd(admin.KindCurrency))
	cmd.AddCommand(addCurrencyCmd())
	cmd.AddCommand(deleteCmd(admin.KindCurrency))

	return cmd
}

// withCoordinator connects to the configured backend, loads every
// collection and runs fn.
func withCoordinator(cmd *cobra.Command, fn func(ctx context.Context, coord *admin.Coordinator) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	backend, err := initBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close() }()

	coord := admin.NewCoordinator(backend, nil)
	if err := coord.LoadAll(ctx); err != nil {
		return err
	}
	return fn(ctx, coord)
}

func listCmd(kind admin.EntityKind) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all " + kindPlurals[kind],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCoordinator(cmd, func(_ context.Context, coord *admin.Coordinator) error {
				return printList(cmd.OutOrStdout(), coord, kind)
			})
		},
	}
}

// printList writes the committed records of kind as a table.
func printList(out io.Writer, coord *admin.Coordinator, kind admin.EntityKind) error {
	snap := coord.Snapshot()

	var rows [][]string
	var header []string
	switch kind {
	case admin.KindGroup:
		header = []string{"ID", "Emoji", "Name", "Color", "Active"}
		for _, g := range snap.Groups {
			rows = append(rows, []string{g.ID, g.Emoji, g.Name, g.Color, strconv.FormatBool(g.IsActive)})
		}
	case admin.KindCategory:
		header = []string{"ID", "Name", "Group", "Description"}
		for _, c := range snap.Categories {
			rows = append(rows, []string{c.ID, c.Name, coord.GroupLabel(c), c.Description})
		}
	case admin.KindCurrency:
		header = []string{"ID", "Code", "Name", "Symbol", "Active", "Default"}
		for _, c := range snap.Currencies {
			rows = append(rows, []string{c.ID, c.Code, c.Name, c.Symbol, strconv.FormatBool(c.IsActive), strconv.FormatBool(c.IsDefault)})
		}
	default:
		return admin.ErrUnknownKind
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, InfoStyle.Render(fmt.Sprintf("No %s found. Use 'spice-admin %s add' to create one.", kindPlurals[kind], kindPlurals[kind])))
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	styled := make([]string, len(header))
	for i, h := range header {
		styled[i] = HeaderStyle.Render(h)
	}
	fmt.Fprintln(w, strings.Join(styled, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func addGroupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := []fieldValue{{admin.FieldName, args[0]}}
			for _, flag := range []struct{ flag, field string }{
				{"color", admin.FieldColor},
				{"emoji", admin.FieldEmoji},
			} {
				if cmd.Flags().Changed(flag.flag) {
					v, _ := cmd.Flags().GetString(flag.flag)
					values = append(values, fieldValue{flag.field, v})
				}
			}
			if inactive, _ := cmd.Flags().GetBool("inactive"); inactive {
				values = append(values, fieldValue{admin.FieldActive, "false"})
			}

			return withCoordinator(cmd, func(ctx context.Context, coord *admin.Coordinator) error {
				return addRecord(ctx, cmd.OutOrStdout(), coord, admin.KindGroup, values)
			})
		},
	}

	cmd.Flags().String("color", "", "color token (default: first preset)")
	cmd.Flags().String("emoji", "", "emoji glyph (default: first preset)")
	cmd.Flags().Bool("inactive", false, "create the group inactive")

	return cmd
}

func addCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, _ := cmd.Flags().GetString("group")
			description, _ := cmd.Flags().GetString("description")

			return withCoordinator(cmd, func(ctx context.Context, coord *admin.Coordinator) error {
				values := []fieldValue{
					{admin.FieldName, args[0]},
					{admin.FieldDescription, description},
				}
				if group != "" {
					id, err := resolveID(coord, admin.KindGroup, group)
					if err != nil {
						return err
					}
					values = append(values, fieldValue{admin.FieldGroup, id})
				}
				return addRecord(ctx, cmd.OutOrStdout(), coord, admin.KindCategory, values)
			})
		},
	}

	cmd.Flags().String("group", "", "group name or id (default: ungrouped)")
	cmd.Flags().String("description", "", "category description")

	return cmd
}

func addCurrencyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <code>",
		Short: "Add a currency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			symbol, _ := cmd.Flags().GetString("symbol")
			inactive, _ := cmd.Flags().GetBool("inactive")
			isDefault, _ := cmd.Flags().GetBool("default")

			values := []fieldValue{
				{admin.FieldCode, args[0]},
				{admin.FieldName, name},
				{admin.FieldSymbol, symbol},
				{admin.FieldActive, strconv.FormatBool(!inactive)},
				{admin.FieldDefault, strconv.FormatBool(isDefault)},
			}
			return withCoordinator(cmd, func(ctx context.Context, coord *admin.Coordinator) error {
				return addRecord(ctx, cmd.OutOrStdout(), coord, admin.KindCurrency, values)
			})
		},
	}

	cmd.Flags().String("name", "", "currency name")
	cmd.Flags().String("symbol", "", "display symbol, 1-10 characters")
	cmd.Flags().Bool("inactive", false, "create the currency inactive")
	cmd.Flags().Bool("default", false, "make this the default currency")

	return cmd
}

// addRecord creates a record of kind through the same form controller the
// console uses, so validation and normalization match.
func addRecord(ctx context.Context, out io.Writer, coord *admin.Coordinator, kind admin.EntityKind, values []fieldValue) error {
	var err error
	switch kind {
	case admin.KindGroup:
		err = submitNew(ctx, admin.GroupKind(coord), values)
	case admin.KindCategory:
		err = submitNew(ctx, admin.CategoryKind(coord), values)
	case admin.KindCurrency:
		err = submitNew(ctx, admin.CurrencyKind(coord), values)
	default:
		err = admin.ErrUnknownKind
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, SuccessStyle.Render(fmt.Sprintf("✓ Created %s %q", kind, values[0].value)))
	return err
}

func submitNew[T any](ctx context.Context, kind admin.Kind[T], values []fieldValue) error {
	form := admin.NewFormController(kind)
	form.OpenForCreate()
	for _, v := range values {
		if err := form.SetField(v.name, v.value); err != nil {
			return err
		}
	}
	return form.Submit(ctx)
}

func deleteCmd(kind admin.EntityKind) *cobra.Command {
	ref := "id-or-name"
	if kind == admin.KindCurrency {
		ref = "id-or-code"
	}

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("delete <%s>", ref),
		Short: fmt.Sprintf("Delete a %s", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			return withCoordinator(cmd, func(ctx context.Context, coord *admin.Coordinator) error {
				return deleteRecord(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), coord, kind, args[0], yes)
			})
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	return cmd
}

// deleteRecord asks for confirmation on in unless yes is set, then deletes.
func deleteRecord(ctx context.Context, in io.Reader, out io.Writer, coord *admin.Coordinator, kind admin.EntityKind, ref string, yes bool) error {
	id, err := resolveID(coord, kind, ref)
	if err != nil {
		return err
	}

	workflow := admin.NewDeleteWorkflow(coord)
	workflow.Request(kind, id, recordLabel(coord, kind, id))
	pending, _ := workflow.Pending()

	if !yes {
		fmt.Fprintf(out, "Delete %s %q? This cannot be undone. [y/N] ", pending.Kind, pending.Label)
		answer, _ := bufio.NewReader(in).ReadString('\n')
		if answer = strings.ToLower(strings.TrimSpace(answer)); answer != "y" && answer != "yes" {
			workflow.Cancel()
			_, err := fmt.Fprintln(out, SubtleStyle.Render("Kept."))
			return err
		}
	}

	target, err := workflow.Confirm(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, SuccessStyle.Render(fmt.Sprintf("✓ Deleted %s %q", target.Kind, target.Label)))
	return err
}

// resolveID finds the record of kind that ref names. Ids match exactly;
// group and category names and currency codes match case-insensitively.
func resolveID(coord *admin.Coordinator, kind admin.EntityKind, ref string) (string, error) {
	snap := coord.Snapshot()
	var matches []string
	switch kind {
	case admin.KindGroup:
		for _, g := range snap.Groups {
			if g.ID == ref {
				return g.ID, nil
			}
			if strings.EqualFold(g.Name, ref) {
				matches = append(matches, g.ID)
			}
		}
	case admin.KindCategory:
		for _, c := range snap.Categories {
			if c.ID == ref {
				return c.ID, nil
			}
			if strings.EqualFold(c.Name, ref) {
				matches = append(matches, c.ID)
			}
		}
	case admin.KindCurrency:
		for _, c := range snap.Currencies {
			if c.ID == ref {
				return c.ID, nil
			}
			if strings.EqualFold(c.Code, ref) {
				matches = append(matches, c.ID)
			}
		}
	default:
		return "", admin.ErrUnknownKind
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s %q: %w", kind, ref, common.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %d %s are named %q, use the id", common.ErrInvalidInput, len(matches), kindPlurals[kind], ref)
	}
}

func recordLabel(coord *admin.Coordinator, kind admin.EntityKind, id string) string {
	snap := coord.Snapshot()
	switch kind {
	case admin.KindGroup:
		for _, g := range snap.Groups {
			if g.ID == id {
				return g.Label()
			}
		}
	case admin.KindCategory:
		for _, c := range snap.Categories {
			if c.ID == id {
				return c.Name
			}
		}
	case admin.KindCurrency:
		for _, c := range snap.Currencies {
			if c.ID == id {
				return c.Code + " " + c.Name
			}
		}
	}
	return id
}
