package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simdex/simdex/label"
	"github.com/simdex/simdex/search"
	"github.com/simdex/simdex/store"
)

var (
	searchEngine    string
	searchLimit     int
	searchScanLimit int
	searchThreshold float64
	searchFilters   []string
	searchShowFC    bool
)

func runSearch(queryID string) {
	ctx := context.Background()
	fcs, err := store.NewFromSettings()
	if err != nil {
		fmt.Println("Error creating feature collection store:", err)
		os.Exit(1)
	}
	labels, err := label.NewFromSettings()
	if err != nil {
		fmt.Println("Error creating label store:", err)
		os.Exit(1)
	}

	searcher := &search.Searcher{Store: fcs, Labels: labels}
	req := search.Request{
		QueryID:   queryID,
		Engine:    searchEngine,
		Limit:     searchLimit,
		ScanLimit: searchScanLimit,
		Threshold: searchThreshold,
	}
	if cmdFlagChanged(searchCmd, "filter") {
		req.Filters = searchFilters
	}

	results, err := searcher.Search(ctx, req)
	if err != nil {
		fmt.Println("Search failed:", err)
		os.Exit(1)
	}
	for _, candidate := range results {
		if !searchShowFC {
			fmt.Println(candidate.ID)
			continue
		}
		raw, err := store.MarshalFC(candidate.FC)
		if err != nil {
			fmt.Printf("*Unable to marshal: %s (%v)\n", candidate.ID, err)
			continue
		}
		fmt.Printf("%s\t%s\n", candidate.ID, raw)
	}
}

// cmdFlagChanged reports whether the user set the flag, an unset filter list
// means the default filter set rather than no filters.
func cmdFlagChanged(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)
	return flag != nil && flag.Changed
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <content-id>",
	Short: "Run a one-off search against the configured backends",
	Long: `Searches the corpus for collections similar to a stored query
collection and prints the matching content ids.`,
	Args: cobra.ExactArgs(1),
}

func init() {
	searchCmd.Run = func(cmd *cobra.Command, args []string) {
		runSearch(args[0])
	}
	searchCmd.Flags().StringVar(&searchEngine, "engine", search.EngineIndexScan, "search engine to run")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "max results, 0 means the configured default")
	searchCmd.Flags().IntVar(&searchScanLimit, "scan-limit", 0, "max candidates considered, 0 means the engine's default")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", 0, "near duplicate threshold override in [0,1]")
	searchCmd.Flags().StringSliceVar(&searchFilters, "filter", nil, "filter stages to run, may repeat; unset means the default set")
	searchCmd.Flags().BoolVar(&searchShowFC, "fc", false, "print each result's feature collection")
	rootCmd.AddCommand(searchCmd)
}
