package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/coltab/column"
	"github.com/arloliu/coltab/format"
	"github.com/arloliu/coltab/internal/logging"
	"github.com/arloliu/coltab/storage"
	"github.com/arloliu/coltab/table"
)

var errVerifyFailed = errors.New("verification failed")

type globalFlags struct {
	logLevel    string
	development bool
	concurrency int
}

func (g *globalFlags) logger() (*zap.Logger, error) {
	return logging.New(logging.Config{Level: g.logLevel, Development: g.development})
}

func (g *globalFlags) reader() (*storage.Reader, *zap.Logger, error) {
	logger, err := g.logger()
	if err != nil {
		return nil, nil, err
	}
	r, err := storage.NewReader(storage.WithConcurrency(g.concurrency), storage.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}

	return r, logger, nil
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "coltab",
		Short:         "Inspect and maintain stored coltab tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&flags.development, "dev", false, "development logging with colored levels")
	root.PersistentFlags().IntVar(&flags.concurrency, "concurrency", storage.DefaultConcurrency, "column files processed in parallel")

	root.AddCommand(
		newDescribeCmd(flags),
		newHeadCmd(flags),
		newVerifyCmd(flags),
		newRecompressCmd(flags),
	)

	return root
}

func newDescribeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <dir>",
		Short: "Print the stored schema of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, logger, err := flags.reader()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			meta, err := r.ReadMetadata(args[0])
			if err != nil {
				return err
			}

			schema, err := describeTable(meta)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "table: %s\nrows: %d\ncompression: %s\n\n",
				meta.Name, meta.RowCount, meta.Compression)
			fmt.Fprint(cmd.OutOrStdout(), schema.Format(-1))

			return nil
		},
	}
}

// describeTable lays the column metadata out as a table so it renders like any other.
func describeTable(meta *storage.TableMetadata) (*table.Table, error) {
	index := column.NewInt("Index")
	names := column.NewText("Column Name")
	types := column.NewString("Column Type")
	sizes := column.NewLong("Rows")
	stored := column.NewLong("Stored Bytes")
	ids := column.NewText("Id")
	for i, c := range meta.Columns {
		index.Append(int32(i)) //nolint:gosec
		names.Append(c.Name)
		types.Append(c.Type.String())
		sizes.Append(int64(c.Size))
		stored.Append(c.StoredSize)
		ids.Append(c.ID)
	}

	return table.New("columns", index, names, types, sizes, stored, ids)
}

func newHeadCmd(flags *globalFlags) *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "head <dir>",
		Short: "Print the first rows of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, logger, err := flags.reader()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			t, err := r.Read(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), t.Format(rows))

			return nil
		},
	}
	cmd.Flags().IntVarP(&rows, "rows", "n", 10, "number of rows to print, negative for all")

	return cmd
}

func newVerifyCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <dir>",
		Short: "Decode every column file and check its checksum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, logger, err := flags.reader()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			report, err := r.Verify(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, c := range report.Columns {
				status := "ok"
				if c.Err != nil {
					status = "FAILED: " + c.Err.Error()
				}
				fmt.Fprintf(out, "%-36s %-20s %-8s %s\n", c.ID, strconv.Quote(c.Name), c.Type, status)
			}
			if failed := report.Failed(); len(failed) > 0 {
				return fmt.Errorf("%w: %d of %d columns", errVerifyFailed, len(failed), len(report.Columns))
			}
			fmt.Fprintf(out, "%d columns verified\n", len(report.Columns))

			return nil
		},
	}
}

func newRecompressCmd(flags *globalFlags) *cobra.Command {
	var (
		compression string
		output      string
		bigEndian   bool
	)

	cmd := &cobra.Command{
		Use:   "recompress <dir>",
		Short: "Rewrite a table with a different compression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := format.ParseCompressionType(compression)
			if err != nil {
				return err
			}

			r, logger, err := flags.reader()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			t, err := r.Read(args[0])
			if err != nil {
				return err
			}

			byteOrder := storage.WithLittleEndian()
			if bigEndian {
				byteOrder = storage.WithBigEndian()
			}
			w, err := storage.NewWriter(
				storage.WithCompression(ct),
				storage.WithConcurrency(flags.concurrency),
				storage.WithLogger(logger),
				byteOrder,
			)
			if err != nil {
				return err
			}

			dst := output
			if dst == "" {
				dst = args[0]
			}
			meta, err := w.Write(dst, t)
			if err != nil {
				return err
			}
			stats := meta.TotalStats()
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d columns, %d rows to %s (%s)\n",
				len(meta.Columns), meta.RowCount, dst, meta.Compression)
			fmt.Fprintf(cmd.OutOrStdout(), "%d bytes encoded, %d bytes stored, ratio %.3f, %.1f%% saved\n",
				stats.OriginalSize, stats.CompressedSize, stats.CompressionRatio(), stats.SpaceSavings())

			return nil
		},
	}
	cmd.Flags().StringVarP(&compression, "compression", "c", "zstd", "compression: none, s2, zstd or lz4")
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination directory (default: rewrite in place)")
	cmd.Flags().BoolVar(&bigEndian, "big-endian", false, "write fixed-width values big-endian")

	return cmd
}
