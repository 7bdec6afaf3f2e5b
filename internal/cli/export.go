package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/climate-projection-service/internal/domain"
	"github.com/couchcryptid/climate-projection-service/internal/golden"
	"github.com/couchcryptid/climate-projection-service/internal/report"
)

func exportCmd() *cobra.Command {
	var (
		year   int
		region string
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a projection report as PDF, CSV, or Excel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := parseSelection(year, region)
			if err != nil {
				return err
			}
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			renderer := report.Renderers()[f]

			now := domain.Now()
			path := out
			if path == "" || isDir(path) {
				path = filepath.Join(path, report.Filename(now, renderer))
			}

			file, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			if err := renderer.Render(file, report.Build(year, r, now)); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("close %s: %w", path, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", domain.TargetYear, "target year (2023-2050)")
	cmd.Flags().StringVar(&region, "region", string(domain.RegionGlobal), "region name")
	cmd.Flags().StringVar(&format, "format", string(report.FormatPDF), "pdf, csv, or excel")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file or directory (default: current directory)")
	return cmd
}

func goldenCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "golden",
		Short: "Write the full year-by-region projection table as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			domain.SetClock(clockwork.NewFakeClockAt(golden.FixedTime))
			defer domain.SetClock(nil)

			table := golden.Build()
			if out == "" || out == "-" {
				return golden.Write(cmd.OutOrStdout(), table)
			}

			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := golden.Write(file, table); err != nil {
				file.Close()
				return err
			}
			return file.Close()
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default: stdout)")
	return cmd
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
