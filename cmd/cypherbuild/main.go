// Package main provides the cypherbuild CLI entry point.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/orneryd/cypherbuild/pkg/cache"
	"github.com/orneryd/cypherbuild/pkg/config"
	"github.com/orneryd/cypherbuild/pkg/cypher"
	"github.com/orneryd/cypherbuild/pkg/queryspec"
	"github.com/orneryd/cypherbuild/pkg/statements"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	rootCmd := &cobra.Command{
		Use:   "cypherbuild",
		Short: "cypherbuild - Cypher query generation from declarative descriptions",
		Long: `cypherbuild compiles YAML query descriptions into parameterized
Cypher statements.

Features:
  • Deterministic name and parameter generation
  • Compile result caching
  • Persistent named statement store`,
	}

	// Version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cypherbuild v%s (%s)\n", version, commit)
		},
	})

	// Compile command
	compileCmd := &cobra.Command{
		Use:   "compile <file>...",
		Short: "Compile query description files to Cypher",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cfg, args)
		},
	}
	rootCmd.AddCommand(compileCmd)

	// Save command
	saveCmd := &cobra.Command{
		Use:   "save <name> <file>",
		Short: "Compile a query description and save the statement",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(cfg, args[0], args[1])
		},
	}
	rootCmd.AddCommand(saveCmd)

	// List command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved statements",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cfg)
		},
	})

	// Show command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Print a saved statement and its parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cfg, args[0])
		},
	})

	// Delete command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cfg, args[0])
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type compiled struct {
	file  string
	query string
}

// runCompile compiles each file concurrently and prints the results in
// argument order.
func runCompile(cfg *config.Config, files []string) error {
	workers := cfg.Build.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var resultCache *cache.ResultCache
	if cfg.Cache.Enabled {
		resultCache = cache.New(cfg.Cache.Size, cfg.Cache.TTL)
	}

	results := make([]compiled, len(files))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			text, err := compileFile(cfg, resultCache, file)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			results[i] = compiled{file: file, query: text}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range results {
		if len(results) > 1 {
			fmt.Printf("-- %s\n", filepath.Base(r.file))
		}
		fmt.Println(r.query)
	}
	return nil
}

func compileFile(cfg *config.Config, resultCache *cache.ResultCache, file string) (string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}

	var key uint64
	if resultCache != nil {
		key = cache.Key(data)
		if result, ok := resultCache.Get(key); ok {
			return formatResult(result)
		}
	}

	doc, err := queryspec.Parse(data)
	if err != nil {
		return "", err
	}
	if doc.Prefix == "" {
		doc.Prefix = cfg.Build.ParamPrefix
	}
	result, err := queryspec.Compile(doc)
	if err != nil {
		return "", err
	}
	if resultCache != nil {
		resultCache.Put(key, result)
	}
	return formatResult(result)
}

// formatResult renders the statement followed by its parameter table as
// trailing comment lines.
func formatResult(result *cypher.Result) (string, error) {
	var b strings.Builder
	b.WriteString(result.Query)
	if len(result.Params) > 0 {
		keys := make([]string, 0, len(result.Params))
		for k := range result.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\n-- parameters:")
		for _, k := range keys {
			val, err := json.Marshal(result.Params[k])
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "\n--   %s = %s", k, val)
		}
	}
	return b.String(), nil
}

func runSave(cfg *config.Config, name, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	doc, err := queryspec.Parse(data)
	if err != nil {
		return err
	}
	if doc.Prefix == "" {
		doc.Prefix = cfg.Build.ParamPrefix
	}
	result, err := queryspec.Compile(doc)
	if err != nil {
		return err
	}

	store, err := statements.Open(cfg.Store.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(name, result); err != nil {
		return err
	}
	fmt.Printf("Saved %q (%d parameters)\n", name, len(result.Params))
	return nil
}

func runList(cfg *config.Config) error {
	store, err := statements.Open(cfg.Store.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	names, err := store.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runShow(cfg *config.Config, name string) error {
	store, err := statements.Open(cfg.Store.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(name)
	if err != nil {
		return err
	}

	fmt.Println(rec.Query)
	if len(rec.Params) > 0 {
		keys := make([]string, 0, len(rec.Params))
		for k := range rec.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Println("-- parameters:")
		for _, k := range keys {
			val, err := json.Marshal(rec.Params[k])
			if err != nil {
				return err
			}
			fmt.Printf("--   %s = %s\n", k, val)
		}
	}
	fmt.Printf("-- saved %s\n", time.Unix(0, rec.SavedAt).Format(time.RFC3339))
	return nil
}

func runDelete(cfg *config.Config, name string) error {
	store, err := statements.Open(cfg.Store.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(name); err != nil {
		return err
	}
	fmt.Printf("Deleted %q\n", name)
	return nil
}
