package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"caseledger/internal/ledger"
)

var (
	deadLimit   int
	urgentsOnly bool
)

var deadstockCmd = &cobra.Command{
	Use:   "deadstock",
	Short: "List long-stay warehouse residents as of the reference date",
	RunE: func(cmd *cobra.Command, args []string) error {
		cases, _, err := loadCases()
		if err != nil {
			return err
		}

		detector := ledger.NewDetector(cfg.Thresholds...)
		detector.Urgent = cfg.UrgentThreshold
		ref := referenceDate()

		records := ledger.FlaggedOnly(detector.Detect(cases, ref))
		if urgentsOnly {
			records = detector.UrgentOnly(records)
		}
		if deadLimit > 0 && len(records) > deadLimit {
			records = records[:deadLimit]
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CASE\tWAREHOUSE\tLAST ARRIVAL\tDAYS\tTHRESHOLD")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d+\n",
				r.CaseID, r.Warehouse, r.LastEvent.Format("2006-01-02"), r.AgeDays, r.Threshold)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\n%d flagged as of %s\n", len(records), ref.Format("2006-01-02"))
		for _, s := range ledger.StatsByWarehouse(records) {
			fmt.Printf("  %s: %d cases, mean %.1f days, max %d days\n", s.Warehouse, s.Count, s.MeanAge, s.MaxAge)
		}
		return nil
	},
}

func init() {
	deadstockCmd.Flags().StringVarP(&inputPath, "input", "i", "", "case-list workbook path")
	deadstockCmd.Flags().StringVar(&sheetName, "sheet", "", "worksheet name (default from config)")
	deadstockCmd.Flags().StringVar(&supplier, "supplier", "", "supplier tag for the ingested file")
	deadstockCmd.Flags().StringVar(&refDateFlag, "ref", "", "reference date (YYYY-MM-DD), default today")
	deadstockCmd.Flags().IntVar(&deadLimit, "limit", 0, "show at most N records")
	deadstockCmd.Flags().BoolVar(&urgentsOnly, "urgent", false, "only records at or beyond the urgent threshold")

	rootCmd.AddCommand(deadstockCmd)
}
