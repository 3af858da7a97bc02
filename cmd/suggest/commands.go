package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/knowledge-engine/suggester/internal/config"
	"github.com/knowledge-engine/suggester/internal/engine"
	"github.com/knowledge-engine/suggester/internal/search"
	"github.com/knowledge-engine/suggester/internal/storage"
)

func newRootCommand(logger *logrus.Entry) *cobra.Command {
	root := &cobra.Command{
		Use:           "suggest",
		Short:         "Rank catalog entries against a free-text query",
		SilenceUsage:  true,
	}

	root.AddCommand(newQueryCommand(logger))
	root.AddCommand(newImportCommand(logger))
	return root
}

func newQueryCommand(logger *logrus.Entry) *cobra.Command {
	cfg := config.Load()
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "query <text...>",
		Short: "Print the best matching catalog entries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := engine.OpenSource(cfg, logger)
			if err != nil {
				return err
			}
			eng := engine.NewEngine(cfg, logger, source, nil)
			defer eng.Close()

			if err := eng.Load(cmd.Context()); err != nil {
				return err
			}

			query := strings.Join(args, " ")
			results, err := eng.Suggest(query, cfg.Ranker.DefaultLimit)
			if err != nil {
				return err
			}
			return printSuggestions(cmd.OutOrStdout(), query, results, asJSON)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Catalog.Source, "source", cfg.Catalog.Source, "catalog source: file, badger or http")
	flags.StringVar(&cfg.Catalog.Path, "catalog", cfg.Catalog.Path, "catalog file (.json, .yaml)")
	flags.StringVar(&cfg.Catalog.BadgerDir, "badger-dir", cfg.Catalog.BadgerDir, "badger catalog directory")
	flags.StringVar(&cfg.Catalog.URL, "url", cfg.Catalog.URL, "remote catalog URL")
	flags.IntVarP(&cfg.Ranker.DefaultLimit, "limit", "n", cfg.Ranker.DefaultLimit, "maximum number of suggestions")
	flags.BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

func newImportCommand(logger *logrus.Entry) *cobra.Command {
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Seed the badger catalog store from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return importCatalog(cmd.Context(), args[0], cfg.Catalog.BadgerDir, cmd.OutOrStdout(), logger)
		},
	}

	cmd.Flags().StringVar(&cfg.Catalog.BadgerDir, "badger-dir", cfg.Catalog.BadgerDir, "badger catalog directory")
	return cmd
}

func importCatalog(ctx context.Context, path, dir string, out io.Writer, logger *logrus.Entry) error {
	records, err := storage.NewFileSource(path).Load(ctx)
	if err != nil {
		return err
	}

	store, err := storage.OpenBadgerStore(dir, false, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(ctx, records); err != nil {
		return err
	}

	fmt.Fprintf(out, "Imported %d entries into %s\n", len(records), dir)
	return nil
}

func printSuggestions(out io.Writer, query string, results []search.Suggestion, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintf(out, "No suggestions for %q\n", query)
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tNAME\tDESCRIPTION")
	for _, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Score, r.Name, r.Description)
	}
	return tw.Flush()
}
