package main

// Improve a résumé from the terminal against a running API:
//   go run ./cmd/resumectl improve cv.pdf --job jd.txt
//   go run ./cmd/resumectl check-limit

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	language  string
)

var rootCmd = &cobra.Command{
	Use:          "resumectl",
	Short:        "Résumé improver client",
	SilenceUsage: true,
}

func init() {
	def := os.Getenv("RESUME_API_URL")
	if def == "" {
		def = "http://localhost:8080/api"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", def, "API base URL")
	rootCmd.PersistentFlags().StringVar(&language, "lang", os.Getenv("LANG_PREF"), "Accept-Language sent with requests")
	rootCmd.AddCommand(improveCmd, checkLimitCmd, counterCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
