package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/andreyvit/rowdb"
	"github.com/andreyvit/rowdb/row"
	"github.com/spf13/cobra"
)

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout <structure>",
		Short: "Show the cell layout of a row structure",
		Long: `Parse a row structure and print each column's nickname, kind, encoder,
offset and width.

Examples:
  rowdb layout "<pivot-12>,'=',<Cardinal UDate-3 {b64e}>,<byte Flags-1>"
  rowdb layout --format yaml "<String name-40 'display name'>"`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{skipDB: "1"},
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := row.ParseRow(args[0])
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			switch format {
			case "text", "":
				return outputLayoutText(cmd.OutOrStdout(), r)
			case "yaml":
				return outputLayoutYAML(cmd.OutOrStdout(), r)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringP("format", "f", "text", "output format (text or yaml)")
	return cmd
}

func newCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <table> <structure>",
		Short: "Define a table",
		Long: `Create a table with the given row structure. Running it again with the
same structure is a no-op; a different structure is an error.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := row.ParseRow(args[1])
			if err != nil {
				return err
			}
			tbl, err := a.db.DefineTable(args[0], r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Table '%s' (%s): %d-byte entries keyed by %s\n", tbl.Name(), tbl.ID(), r.ObjectSize(), r.Column(0).Nickname)
			return nil
		},
	}
}

func newTablesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := a.db.Tables()
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tables found")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "NAME\tROWS\tSTRUCTURE")
			return a.db.Read(func(tx *rowdb.Tx) error {
				for _, name := range names {
					tbl := a.db.Table(name)
					fmt.Fprintf(w, "%s\t%d\t%s\n", name, tx.Count(tbl), tbl.Row().Structure())
				}
				return nil
			})
		},
	}
}

func newPutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "put <table> <property-form>",
		Short: "Store an entry",
		Long: `Store an entry given in property form, replacing any entry with the same
pivot.

Examples:
  rowdb put urls "{pivot=abcdefghijkl,UDate=--e}"
  rowdb put urls "pivot=abcdefghijkl, UDate=Ezz"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := a.db.OpenTable(args[0])
			if err != nil {
				return err
			}
			e := tbl.Row().ParseEntry(args[1])
			return a.db.Write(func(tx *rowdb.Tx) error {
				return tx.Put(tbl, e)
			})
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <table> <key>",
		Short: "Print the entry stored under a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := a.db.OpenTable(args[0])
			if err != nil {
				return err
			}
			return a.db.Read(func(tx *rowdb.Tx) error {
				e, err := tx.Get(tbl, []byte(args[1]))
				if err != nil {
					return err
				}
				if e == nil {
					return fmt.Errorf("%s: no entry for %q", tbl.Name(), args[1])
				}
				return outputEntry(cmd.OutOrStdout(), e)
			})
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <table> <key>",
		Short: "Delete the entry stored under a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := a.db.OpenTable(args[0])
			if err != nil {
				return err
			}
			return a.db.Write(func(tx *rowdb.Tx) error {
				found, err := tx.Delete(tbl, []byte(args[1]))
				if err != nil {
					return err
				}
				if !found {
					fmt.Fprintf(cmd.OutOrStdout(), "No entry for %q\n", args[1])
				}
				return nil
			})
		},
	}
}

func newScanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <table>",
		Short: "Print entries in key order",
		Long: `Print the entries of a table in pivot order, optionally bounded by
inclusive --from and --to keys.

Examples:
  rowdb scan urls --from abc --to abd
  rowdb scan urls --reverse --limit 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := a.db.OpenTable(args[0])
			if err != nil {
				return err
			}
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			prefix, _ := cmd.Flags().GetString("prefix")
			limit, _ := cmd.Flags().GetInt("limit")
			reverse, _ := cmd.Flags().GetBool("reverse")

			var rang rowdb.RawRange
			if from != "" {
				rang.Lower, rang.LowerInc = []byte(from), true
			}
			if to != "" {
				rang.Upper, rang.UpperInc = []byte(to), true
			}
			if prefix != "" {
				rang.Prefix = []byte(prefix)
			}
			rang.Reverse = reverse

			out := cmd.OutOrStdout()
			return a.db.Read(func(tx *rowdb.Tx) error {
				var n int
				var outErr error
				err := tx.Scan(tbl, rang, func(e *row.Entry) bool {
					if outErr = outputEntry(out, e); outErr != nil {
						return false
					}
					n++
					return limit <= 0 || n < limit
				})
				return errors.Join(err, outErr)
			})
		},
	}
	cmd.Flags().String("from", "", "first key (inclusive)")
	cmd.Flags().String("to", "", "last key (inclusive)")
	cmd.Flags().String("prefix", "", "only keys starting with this prefix")
	cmd.Flags().IntP("limit", "n", 0, "stop after this many entries")
	cmd.Flags().BoolP("reverse", "r", false, "scan in descending key order")
	return cmd
}

func newDumpCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump all tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := rowdb.DumpTableHeaders | rowdb.DumpRows
			if stats, _ := cmd.Flags().GetBool("stats"); stats {
				flags |= rowdb.DumpStats
			}
			return a.db.Read(func(tx *rowdb.Tx) error {
				_, err := io.WriteString(cmd.OutOrStdout(), tx.Dump(flags))
				return err
			})
		},
	}
	cmd.Flags().Bool("stats", false, "include table statistics")
	return cmd
}
