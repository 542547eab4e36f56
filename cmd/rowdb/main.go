package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/andreyvit/rowdb"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state shared by the subcommands of one invocation.
type app struct {
	configFile string
	config     *Config
	db         *rowdb.DB
}

// skipDB marks commands that work without opening the database.
const skipDB = "skip-db"

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "rowdb",
		Short: "Fixed-width record tables on Bolt, Pebble or Badger",
		Long: `A command-line tool to define row layouts, store entries in property
form and inspect the tables of a rowdb database.

Examples:
  rowdb layout "<pivot-12>,'=',<Cardinal UDate-3 {b64e}>,<short LCount-2>"
  rowdb create urls "<byte[] pivot-12>,'=',<Cardinal UDate-3 {b64e}>"
  rowdb put urls "{pivot=abcdefghijkl,UDate=--e}"
  rowdb scan urls --from abc --limit 10`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(a.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			a.config = cfg
			if cmd.Annotations[skipDB] != "" {
				return nil
			}
			return a.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.db != nil {
				err := a.db.Close()
				a.db = nil
				return err
			}
			return nil
		},
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.configFile, "config", "c", "", "path to a YAML config file")
	pf.StringP("backend", "b", string(rowdb.BackendBolt), "storage backend (bolt, pebble, badger or mem)")
	pf.StringP("data-dir", "d", "rowdb-data", "directory holding the database")
	pf.BoolP("verbose", "v", false, "log every write")

	rootCmd.AddCommand(
		newLayoutCmd(),
		newCreateCmd(a),
		newTablesCmd(a),
		newPutCmd(a),
		newGetCmd(a),
		newDeleteCmd(a),
		newScanCmd(a),
		newDumpCmd(a),
	)
	return rootCmd
}

func (a *app) open() error {
	backend, err := rowdb.ParseBackend(a.config.Backend)
	if err != nil {
		return err
	}
	path := a.config.StoragePath(backend)
	if path != "" {
		if err := os.MkdirAll(a.config.DataDir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	level := slog.LevelInfo
	if a.config.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	a.db, err = rowdb.Open(path, rowdb.Options{
		Backend:  backend,
		Logger:   logger,
		Verbose:  a.config.Verbose,
		MmapSize: a.config.Bolt.MmapSize,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	return nil
}
