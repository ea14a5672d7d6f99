// Package cmd - quote command
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"quote-engine/adapters/configfile"
	"quote-engine/core/engine"
	"quote-engine/core/milestone"
	"quote-engine/core/output"
	"quote-engine/internal/config"
	"quote-engine/internal/logging"
)

var (
	catalogPath    string
	paramsPath     string
	requestPath    string
	outputFormat   string
	showDetails    bool
	projectionYrs  int
	escalationCode string
	levelLoad      bool
	milestoneStyle string
	durationMonths int
	travelZone     string
	initialPct     float64
)

// quoteCmd represents the quote command
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Compute a quote from a catalog and prospect parameters",
	Long: `Evaluate a versioned catalog against a prospect parameter document
and produce a full quote: recurring and one-time totals, multi-year
projection, discounts, travel, payment schedule, and commission.

Examples:
  quote-engine quote --catalog catalog.hcl --params prospect.json
  quote-engine quote --catalog catalog.hcl --params prospect.json --years 7 --level-load
  quote-engine quote --catalog catalog.hcl --params prospect.json --request deal.json --format json`,
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "catalog file (HCL)")
	quoteCmd.Flags().StringVarP(&paramsPath, "params", "p", "", "prospect parameter file (JSON)")
	quoteCmd.Flags().StringVar(&requestPath, "request", "", "quote request file overriding defaults (JSON)")
	quoteCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json)")
	quoteCmd.Flags().BoolVarP(&showDetails, "details", "d", true, "show detailed breakdown")
	quoteCmd.Flags().IntVar(&projectionYrs, "years", 0, "projection years")
	quoteCmd.Flags().StringVar(&escalationCode, "escalation", "", "escalation policy code")
	quoteCmd.Flags().BoolVar(&levelLoad, "level-load", false, "level-load the projection")
	quoteCmd.Flags().StringVar(&milestoneStyle, "milestone-style", "", "payment schedule style (FIXED_MONTHLY, DELIVERABLE_BASED)")
	quoteCmd.Flags().IntVar(&durationMonths, "duration", 0, "implementation duration in months")
	quoteCmd.Flags().StringVar(&travelZone, "zone", "", "travel zone code")
	quoteCmd.Flags().Float64Var(&initialPct, "initial-pct", 0, "initial payment percentage override")
}

func runQuote(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	cfg := config.Get()

	path := catalogPath
	if path == "" {
		path = cfg.Catalog.Path
	}
	if path == "" {
		return fmt.Errorf("no catalog file: pass --catalog or set catalog.path in config")
	}
	if paramsPath == "" {
		return fmt.Errorf("no parameter file: pass --params")
	}

	loader := configfile.NewLoader()
	if cfg.Catalog.CacheEnabled {
		loader = loader.WithCache(catalogCache(cfg))
	}
	cat, err := loader.LoadCatalog(path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	ctx, err := configfile.LoadParams(paramsPath)
	if err != nil {
		return fmt.Errorf("failed to load parameters: %w", err)
	}

	req, err := buildRequest(cfg)
	if err != nil {
		return err
	}

	result, calcErr := engine.Calculate(cat, ctx, *req)

	logging.Sugar.Debugw("quote computed",
		"catalog_version", cat.Version,
		"duration", time.Since(startTime).String(),
		"facet_errors", len(result.Errors))

	format := output.Format(outputFormat)
	if outputFormat == "" {
		format = output.Format(cfg.Output.DefaultFormat)
	}
	if err := output.Render(os.Stdout, result, format, showDetails); err != nil {
		return err
	}

	if calcErr != nil {
		return fmt.Errorf("quote completed with errors: %w", calcErr)
	}
	return nil
}

// buildRequest assembles the quote request: config defaults, then the
// optional request file, then explicit flags, later layers winning
// sharedCatalogCache lives for the process so repeated loads within one
// invocation reuse the parsed catalog
var sharedCatalogCache *engine.CatalogCache

func catalogCache(cfg *config.Config) *engine.CatalogCache {
	if sharedCatalogCache == nil {
		ttl := time.Duration(cfg.Catalog.CacheTTLSeconds) * time.Second
		sharedCatalogCache = engine.NewCatalogCache(ttl)
	}
	return sharedCatalogCache
}

func buildRequest(cfg *config.Config) (*engine.Request, error) {
	req := &engine.Request{
		ProjectionYears: cfg.Quote.ProjectionYears,
		EscalationCode:  cfg.Quote.EscalationCode,
		MilestoneStyle:  milestone.Style(cfg.Quote.MilestoneStyle),
		DurationMonths:  cfg.Quote.DurationMonths,
	}

	if requestPath != "" {
		fileReq, err := configfile.LoadRequest(requestPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load request: %w", err)
		}
		if fileReq.ProjectionYears != 0 {
			req.ProjectionYears = fileReq.ProjectionYears
		}
		if fileReq.EscalationCode != "" {
			req.EscalationCode = fileReq.EscalationCode
		}
		if fileReq.MilestoneStyle != "" {
			req.MilestoneStyle = fileReq.MilestoneStyle
		}
		if fileReq.DurationMonths != 0 {
			req.DurationMonths = fileReq.DurationMonths
		}
		req.LevelLoad = fileReq.LevelLoad
		req.InitialPaymentPct = fileReq.InitialPaymentPct
		req.TravelZoneCode = fileReq.TravelZoneCode
		req.Trips = fileReq.Trips
		req.Discounts = fileReq.Discounts
		req.CommissionRatePct = fileReq.CommissionRatePct
	}

	if projectionYrs != 0 {
		req.ProjectionYears = projectionYrs
	}
	if escalationCode != "" {
		req.EscalationCode = escalationCode
	}
	if levelLoad {
		req.LevelLoad = true
	}
	if milestoneStyle != "" {
		req.MilestoneStyle = milestone.Style(milestoneStyle)
	}
	if durationMonths != 0 {
		req.DurationMonths = durationMonths
	}
	if travelZone != "" {
		req.TravelZoneCode = travelZone
	}
	if initialPct != 0 {
		pct := decimal.NewFromFloat(initialPct)
		req.InitialPaymentPct = &pct
	}

	return req, nil
}
