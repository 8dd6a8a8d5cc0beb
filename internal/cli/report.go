package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"jobdemand-go/internal/actionable"
	"jobdemand-go/internal/config"
	"jobdemand-go/internal/dataset"
	"jobdemand-go/internal/exploder"
	"jobdemand-go/internal/pipeline"
	"jobdemand-go/internal/report"
)

type reportOptions struct {
	data       string
	categories string
	top        int
	titleTop   int
	policy     string
	xlsx       string
	output     string
}

func newReportCmd(root *rootOptions) *cobra.Command {
	cfg, err := config.Load()
	if err != nil {
		// flags still get sane defaults; the bad variable is reported on run
		cfg = config.Defaults()
	}
	o := &reportOptions{
		data:       cfg.DatasetPath,
		categories: cfg.CategoryMapPath,
		top:        cfg.TopK,
		titleTop:   cfg.TitleTopK,
		policy:     cfg.Policy.String(),
	}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the demand pipeline over a dataset and print the top combinations",
		Example: `  demand report --data SGJobData.csv --top 10
  demand report --data jobs.xlsx --categories categories.yaml --xlsx demand.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err != nil {
				return err
			}
			return runReport(cmd, root, o, cfg)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.data, "data", o.data, "dataset path (.csv/.xlsx) or http(s) URL")
	f.StringVar(&o.categories, "categories", o.categories, "YAML category map (default: built-in table)")
	f.IntVar(&o.top, "top", o.top, "number of top combinations")
	f.IntVar(&o.titleTop, "title-top", o.titleTop, "number of top titles")
	f.StringVar(&o.policy, "policy", o.policy, "uncategorized postings: drop or bucket")
	f.StringVar(&o.xlsx, "xlsx", "", "also write the derived tables to this workbook")
	f.StringVarP(&o.output, "output", "o", "text", "output format (text, json)")
	return cmd
}

func runReport(cmd *cobra.Command, root *rootOptions, o *reportOptions, cfg config.Config) error {
	log := root.logger(cmd)
	policy, err := exploder.ParsePolicy(o.policy)
	if err != nil {
		return err
	}
	cfg.CategoryMapPath = o.categories
	resolver, err := cfg.Resolver()
	if err != nil {
		return err
	}

	path := o.data
	if dataset.IsRemote(path) {
		dir, err := os.MkdirTemp("", "jobdemand-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.DownloadTimeout)
		defer cancel()
		if path, err = dataset.Fetch(ctx, path, dir, cfg.DownloadTimeout, log.Entry); err != nil {
			return err
		}
	}
	records, err := dataset.Load(path, log.Entry)
	if err != nil {
		return err
	}

	res, err := pipeline.Run(records, pipeline.Options{
		Resolver:  resolver,
		Policy:    policy,
		TopK:      o.top,
		TitleTopK: o.titleTop,
		Log:       log.Entry,
	})
	if err != nil {
		return err
	}
	card := actionable.Generate(res)

	if o.xlsx != "" {
		if err := report.WriteWorkbook(o.xlsx, res); err != nil {
			return err
		}
		log.Component("cli.report").WithField("path", o.xlsx).Info("workbook written")
	}

	out := cmd.OutOrStdout()
	switch o.output {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"dataset":     dataset.Summarize(records),
			"result":      res,
			"action_card": card,
		})
	case "text", "":
		return printText(out, res, card)
	}
	return fmt.Errorf("unknown output format %q", o.output)
}

func printText(w io.Writer, res pipeline.Result, card actionable.ActionCard) error {
	fmt.Fprintf(w, "Records: %d  Exploded rows: %d  Uncategorized: %d\n\n", res.Records, res.Exploded, res.Uncategorized)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tCATEGORY\tPOSITION LEVEL\tTITLE\tAPPLICATIONS")
	for i, r := range res.Top {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.0f\n", i+1,
			r.Key[0].Label("-"), r.Key[1].Label("-"), r.Key[2].Label("-"), r.Measure)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	q := res.Quality
	if q.Total() > 0 {
		fmt.Fprintf(w, "\nData quality: %d malformed, %d unresolved, %d non-numeric\n",
			q.MalformedCategoryData, q.UnresolvedCategoryID, q.NonNumericMeasure)
	}
	_, err := fmt.Fprintf(w, "\nInsight: %s\nAction:  %s\nImpact:  %s\n", card.Insight, card.Action, card.Impact)
	return err
}
