package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/rm-hull/fuel-landed-cost/cmd"
	"github.com/rm-hull/fuel-landed-cost/internal/engine"
)

func main() {
	var dbPath string
	var settingsPath string
	var port int
	var debug bool
	var importDir string
	var pullFeed bool
	var opts cmd.CompareOptions
	var topN string

	rootCmd := &cobra.Command{
		Use:   "fuel-landed-cost",
		Short: "Rank fuel suppliers and loading bases by landed cost",
		Long: `fuel-landed-cost compares supplier prices at each loading base, adds the
freight to the destination postos and ranks the bases by landed cost.`,
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "data/landed_cost.db", "Path to SQLite database file")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Fuel and vehicle settings JSON (default: built-in, or $SETTINGS_FILE)")

	apiServerCmd := &cobra.Command{
		Use:   "api-server",
		Short: "Start HTTP API server",
		Run: func(_ *cobra.Command, _ []string) {
			if err := cmd.ApiServer(dbPath, settingsPath, port, debug); err != nil {
				log.Fatalf("API server failed: %v", err)
			}
		},
	}
	apiServerCmd.Flags().IntVar(&port, "port", 8080, "Port to run HTTP server on")
	apiServerCmd.Flags().BoolVar(&debug, "debug", false, "Enable debugging (pprof) - WARNING: do not enable in production")

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import reference data, price lists and freight routes",
		Run: func(_ *cobra.Command, _ []string) {
			if err := cmd.Import(dbPath, settingsPath, importDir, pullFeed); err != nil {
				log.Fatalf("Import failed: %v", err)
			}
		},
	}
	importCmd.Flags().StringVar(&importDir, "dir", "", "Directory holding bases/suppliers/postos/routes/prices CSV files and prices-YYYY-MM-DD.html sheets")
	importCmd.Flags().BoolVar(&pullFeed, "feed", false, "Pull price records from $PRICE_FEED_URL")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "Print the landed-cost ranking for a group and fuel",
		Run: func(_ *cobra.Command, _ []string) {
			opts.Query.TopN = engine.ParseTopN(topN)
			if err := cmd.Compare(dbPath, settingsPath, opts); err != nil {
				log.Fatalf("Compare failed: %v", err)
			}
		},
	}
	compareCmd.Flags().StringVar(&opts.Query.GroupId, "group", "", "Group of postos to analyse")
	compareCmd.Flags().StringVar(&opts.Query.FuelKey, "fuel", "", "Fuel key (ignored with --matrix)")
	compareCmd.Flags().StringVar(&opts.Query.DestinationPostoId, "posto", "", "Single destination posto (default: every posto in the group)")
	compareCmd.Flags().StringVar(&opts.Query.VehicleKey, "vehicle", "", "Vehicle type (default: cheapest available per route)")
	compareCmd.Flags().StringVar(&topN, "top", "3", "Suppliers listed per base: 1, 2, 3, 5 or 999 for all")
	compareCmd.Flags().StringVar(&opts.Date, "date", "", "Price date YYYY-MM-DD (default: latest)")
	compareCmd.Flags().BoolVar(&opts.Matrix, "matrix", false, "Show the base by fuel matrix")

	rootCmd.AddCommand(apiServerCmd, importCmd, compareCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
