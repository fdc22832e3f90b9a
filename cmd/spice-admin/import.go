package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/Veraticus/spice-console/internal/admin"
	"github.com/Veraticus/spice-console/internal/common"
	"github.com/Veraticus/spice-console/internal/service"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// taxonomyFile is the layout of an import file.
type taxonomyFile struct {
	Groups     []importGroup    `yaml:"groups"`
	Categories []importCategory `yaml:"categories"`
	Currencies []importCurrency `yaml:"currencies"`
}

type importGroup struct {
	Active     *bool            `yaml:"active"`
	Name       string           `yaml:"name"`
	Color      string           `yaml:"color"`
	Emoji      string           `yaml:"emoji"`
	Categories []importCategory `yaml:"categories"`
}

type importCategory struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type importCurrency struct {
	Active  *bool  `yaml:"active"`
	Code    string `yaml:"code"`
	Name    string `yaml:"name"`
	Symbol  string `yaml:"symbol"`
	Default bool   `yaml:"default"`
}

// records counts every record the file describes.
func (f taxonomyFile) records() int {
	n := len(f.Groups) + len(f.Categories) + len(f.Currencies)
	for _, g := range f.Groups {
		n += len(g.Categories)
	}
	return n
}

// importFailure is one record the collaborator or validation rejected.
type importFailure struct {
	Err    error
	Kind   admin.EntityKind
	Record string
}

// importResult summarizes an import run.
type importResult struct {
	Failures []importFailure
	Created  int
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import groups, categories and currencies from YAML",
		Long: `Create the taxonomy described by a YAML file:

  groups:
    - name: Food
      emoji: 🍔
      categories:
        - name: Groceries
  categories:
    - name: Uncategorised
  currencies:
    - code: usd
      name: US Dollar
      symbol: $

Groups are created first, then their categories, then currencies. A record
that fails is reported and the import carries on.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() { _ = f.Close() }()

	file, err := parseTaxonomy(f)
	if err != nil {
		return err
	}

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

	progress := io.Discard
	if !noProgress {
		progress = cmd.ErrOrStderr()
	}
	result := importTaxonomy(ctx, backend, file, progress)
	return reportImport(cmd.OutOrStdout(), result)
}

// parseTaxonomy decodes an import file.
func parseTaxonomy(r io.Reader) (taxonomyFile, error) {
	var file taxonomyFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return file, nil
		}
		return file, fmt.Errorf("%w: import file: %v", common.ErrInvalidInput, err)
	}
	return file, nil
}

// importTaxonomy creates every record in file through backend. It never
// stops early; rejected records are collected in the result.
func importTaxonomy(ctx context.Context, backend service.Backend, file taxonomyFile, progress io.Writer) importResult {
	coord := admin.NewCoordinator(backend, nil)
	groupKind := admin.GroupKind(coord)
	categoryKind := admin.CategoryKind(coord)
	currencyKind := admin.CurrencyKind(coord)

	bar := progressbar.NewOptions(file.records(),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing taxonomy...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(progress)
		}),
	)

	var result importResult
	record := func(kind admin.EntityKind, name string, err error) bool {
		if barErr := bar.Add(1); barErr != nil {
			slog.Warn("Failed to update progress bar", "error", barErr)
		}
		if err != nil {
			common.LogError(err, "import record failed", common.Fields{"kind": string(kind), "record": name})
			result.Failures = append(result.Failures, importFailure{Kind: kind, Record: name, Err: err})
			return false
		}
		result.Created++
		return true
	}

	createCategory := func(c importCategory, groupID string) {
		cat, err := buildRecord(categoryKind, []fieldValue{
			{admin.FieldName, c.Name},
			{admin.FieldDescription, c.Description},
			{admin.FieldGroup, groupID},
		})
		if err == nil {
			_, err = backend.Categories().Create(ctx, cat)
		}
		record(admin.KindCategory, c.Name, err)
	}

	for _, g := range file.Groups {
		values := []fieldValue{{admin.FieldName, g.Name}}
		if g.Color != "" {
			values = append(values, fieldValue{admin.FieldColor, g.Color})
		}
		if g.Emoji != "" {
			values = append(values, fieldValue{admin.FieldEmoji, g.Emoji})
		}
		if g.Active != nil {
			values = append(values, fieldValue{admin.FieldActive, strconv.FormatBool(*g.Active)})
		}

		group, err := buildRecord(groupKind, values)
		if err == nil {
			group, err = backend.Groups().Create(ctx, group)
		}
		if !record(admin.KindGroup, g.Name, err) {
			// Without the group its categories would land ungrouped.
			for _, c := range g.Categories {
				record(admin.KindCategory, c.Name, fmt.Errorf("group %q was not created", g.Name))
			}
			continue
		}
		for _, c := range g.Categories {
			createCategory(c, group.ID)
		}
	}

	for _, c := range file.Categories {
		createCategory(c, "")
	}

	for _, c := range file.Currencies {
		values := []fieldValue{
			{admin.FieldCode, c.Code},
			{admin.FieldName, c.Name},
			{admin.FieldSymbol, c.Symbol},
			{admin.FieldDefault, strconv.FormatBool(c.Default)},
		}
		if c.Active != nil {
			values = append(values, fieldValue{admin.FieldActive, strconv.FormatBool(*c.Active)})
		}
		cur, err := buildRecord(currencyKind, values)
		if err == nil {
			_, err = backend.Currencies().Create(ctx, cur)
		}
		record(admin.KindCurrency, cur.Code, err)
	}

	return result
}

// buildRecord applies values to the kind's defaults with the same
// normalization and validation as the console's create form.
func buildRecord[T any](kind admin.Kind[T], values []fieldValue) (T, error) {
	record := kind.Defaults()
	for _, v := range values {
		value := v.value
		for _, field := range kind.Fields {
			if field.Name == v.name {
				value = field.Normalize(value)
			}
		}
		if err := kind.Set(&record, v.name, value); err != nil {
			return record, err
		}
	}
	return record, kind.Validate(record, admin.ModeCreate)
}

// reportImport prints the summary and returns an error when any record
// failed.
func reportImport(out io.Writer, result importResult) error {
	fmt.Fprintln(out, SuccessStyle.Render(fmt.Sprintf("✓ Created %d records", result.Created)))
	if len(result.Failures) == 0 {
		return nil
	}

	for _, failure := range result.Failures {
		fmt.Fprintln(out, ErrorStyle.Render(fmt.Sprintf("✗ %s %q: %v", failure.Kind, failure.Record, failure.Err)))
	}
	return common.NewUserError(
		fmt.Sprintf("%d of %d records failed to import", len(result.Failures), len(result.Failures)+result.Created),
		errors.Join(failureErrors(result.Failures)...),
	)
}

func failureErrors(failures []importFailure) []error {
	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = f.Err
	}
	return errs
}
