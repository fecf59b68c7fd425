package cmd

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	prometheusmetrics "github.com/deathowl/go-metrics-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"

	"github.com/simdex/simdex/hooks"
	"github.com/simdex/simdex/label"
	"github.com/simdex/simdex/restapi"
	st "github.com/simdex/simdex/settings"
	"github.com/simdex/simdex/store"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Launch the simdex server",
	Long:  `Starts the main HTTP server against the configured backends.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// Disable or enable extendedKafkaMetrics
		if st.Settings.Hooks.Kafka.EnableExtendedKafkaMetrics {
			prometheusClient := prometheusmetrics.NewPrometheusProvider(
				metrics.DefaultRegistry, "simdex", "sarama", prometheus.DefaultRegisterer, 1*time.Second)
			go prometheusClient.UpdatePrometheusMetrics()
		} else {
			metrics.UseNilMetrics = true
		}

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
		kafkaHook, err := hooks.NewFromSettings()
		if err != nil {
			fmt.Println("Error creating label hook:", err)
			os.Exit(1)
		}
		// keep the interface nil when the hook is disabled, a typed nil
		// would pass the != nil checks downstream
		var hook hooks.LabelHook
		if kafkaHook != nil {
			hook = kafkaHook
		}

		srv := restapi.NewServer(fcs, labels, hook)
		defer srv.Stop()
		log.Fatal(http.ListenAndServe(st.Settings.ListenAddr, srv.Router))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
