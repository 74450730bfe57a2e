package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"caseledger/internal/ingest"
	"caseledger/internal/ledger"
	"caseledger/internal/report"
)

var (
	inputPath   string
	outputFile  string
	sheetName   string
	supplier    string
	refDateFlag string
	openAfter   bool
	verify      bool

	filterWarehouse   string
	filterSite        string
	filterSupplier    string
	filterCategory    string
	filterStorageType string
	filterStatus      string
)

// filterPredicate collects the filter flags into one conjunction.
func filterPredicate() ledger.Predicate {
	return ledger.Predicate{
		Warehouse:   filterWarehouse,
		Site:        filterSite,
		Supplier:    filterSupplier,
		Category:    filterCategory,
		StorageType: filterStorageType,
		Status:      filterStatus,
	}
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the monthly ledger workbook from a case-list file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cases, excluded, err := loadCases()
		if err != nil {
			return err
		}

		pred := filterPredicate()
		if !pred.IsZero() {
			before := len(cases)
			cases = ledger.Filter(cases, pred)
			log.Info().Int("before", before).Int("after", len(cases)).Msg("Applied case filter")
		}

		registry := ledger.DefaultRegistry()
		rep, err := ledger.NewAggregator(registry).Aggregate(context.Background(), cases)
		if err != nil {
			return err
		}
		if verify {
			if err := ledger.VerifyBalances(cases, rep); err != nil {
				return err
			}
			log.Info().Msg("Running-balance and snapshot stock figures agree")
		}

		detector := ledger.NewDetector(cfg.Thresholds...)
		detector.Urgent = cfg.UrgentThreshold
		dead := detector.Detect(cases, referenceDate())

		out := outputFile
		if out == "" {
			out = filepath.Join(cfg.OutputPath, fmt.Sprintf("case_ledger_%s.xlsx", time.Now().Format("20060102_150405")))
		}
		if err := report.Write(out, rep, dead, excluded, registry); err != nil {
			return err
		}
		fmt.Println(out)

		if openAfter {
			if err := report.OpenInViewer(out); err != nil {
				log.Warn().Err(err).Msg("Could not open workbook automatically")
			}
		}
		return nil
	},
}

// loadCases runs the ingestion collaborator and the timeline builder.
func loadCases() ([]ledger.Case, []ledger.Exclusion, error) {
	input := inputPath
	if input == "" {
		input = cfg.Workbook
	}
	if input == "" {
		return nil, nil, fmt.Errorf("no input workbook: pass --input or set CASE_WORKBOOK")
	}

	layout := ingest.DefaultLayout(firstNonEmpty(supplier, cfg.Supplier))
	if sheetName != "" {
		layout.Sheet = sheetName
	} else if cfg.Sheet != "" {
		layout.Sheet = cfg.Sheet
	}

	records, err := ingest.ReadWorkbook(input, layout)
	if err != nil {
		return nil, nil, err
	}
	cases, excluded := ledger.BuildTimelines(records)
	return cases, excluded, nil
}

// referenceDate resolves the dead-stock anchor: flag beats config beats today.
func referenceDate() time.Time {
	if refDateFlag != "" {
		if t, err := time.Parse("2006-01-02", refDateFlag); err == nil {
			return t
		}
		log.Warn().Str("value", refDateFlag).Msg("Ignoring invalid --ref date, want YYYY-MM-DD")
	}
	if !cfg.ReferenceDate.IsZero() {
		return cfg.ReferenceDate
	}
	return time.Now()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	reportCmd.Flags().StringVarP(&inputPath, "input", "i", "", "case-list workbook path")
	reportCmd.Flags().StringVarP(&outputFile, "out", "o", "", "output workbook path")
	reportCmd.Flags().StringVar(&sheetName, "sheet", "", "worksheet name (default from config)")
	reportCmd.Flags().StringVar(&supplier, "supplier", "", "supplier tag for the ingested file")
	reportCmd.Flags().StringVar(&refDateFlag, "ref", "", "reference date for dead-stock ages (YYYY-MM-DD)")
	reportCmd.Flags().BoolVar(&openAfter, "open", false, "open the workbook when done")
	reportCmd.Flags().BoolVar(&verify, "verify", false, "cross-check stock balances against end-of-month snapshots")

	reportCmd.Flags().StringVar(&filterWarehouse, "warehouse", "", "only cases that passed through this warehouse")
	reportCmd.Flags().StringVar(&filterSite, "site", "", "only cases delivered to this site")
	reportCmd.Flags().StringVar(&filterSupplier, "filter-supplier", "", "only cases ingested under this supplier tag")
	reportCmd.Flags().StringVar(&filterCategory, "category", "", "only cases with this material category")
	reportCmd.Flags().StringVar(&filterStorageType, "storage-type", "", "only cases with this storage type")
	reportCmd.Flags().StringVar(&filterStatus, "status", "", "only cases with this status")

	rootCmd.AddCommand(reportCmd)
}
