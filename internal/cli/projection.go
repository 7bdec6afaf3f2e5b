package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/climate-projection-service/internal/domain"
)

func regionsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List regions and their scaling factors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			regions := domain.Regions()
			if asJSON {
				out := make(map[domain.Region]domain.RegionalFactors, len(regions))
				for _, r := range regions {
					out[r] = domain.Factors(r)
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "REGION\tTEMPERATURE\tPRECIPITATION\tSEA LEVEL\tEXTREME EVENTS")
			for _, r := range regions {
				f := domain.Factors(r)
				fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%.1f\t%.1f\n", r, f.Temperature, f.Precipitation, f.SeaLevel, f.ExtremeEvents)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func projectCmd() *cobra.Command {
	var (
		year   int
		region string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project the four climate metrics for a year and region",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := parseSelection(year, region)
			if err != nil {
				return err
			}

			p := domain.Project(year, r)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), struct {
					Year       int                     `json:"year"`
					Region     domain.Region           `json:"region"`
					Projection domain.ProjectionResult `json:"projection"`
				}{year, r, p})
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, d := range domain.Display(year, r, p) {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Title, d.Value, d.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&year, "year", domain.TargetYear, "target year (2023-2050)")
	cmd.Flags().StringVar(&region, "region", string(domain.RegionGlobal), "region name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func seriesCmd() *cobra.Command {
	var (
		region string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "series",
		Short: "Print the milestone series for a region",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := domain.ParseRegion(region)
			if err != nil {
				return err
			}

			series := domain.HistoricalSeries(r)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), series)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "YEAR\tTEMPERATURE\tPRECIPITATION\tSEA LEVEL")
			for _, pt := range series {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", pt.Year,
					domain.FormatOneDecimal(pt.Temperature),
					domain.FormatOneDecimal(pt.Precipitation),
					domain.FormatOneDecimal(pt.SeaLevel))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&region, "region", string(domain.RegionGlobal), "region name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func parseSelection(year int, region string) (domain.Region, error) {
	if err := domain.ValidateYear(year); err != nil {
		return "", err
	}
	return domain.ParseRegion(region)
}
