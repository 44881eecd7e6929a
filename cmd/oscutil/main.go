package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Optional .env so OSC_ADDR and friends can be set per project.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "oscutil",
		Short: "Send and receive Open Sound Control messages over UDP",
		Long: `oscutil is a command line companion for the microosc library.

It speaks the OSC 1.0 wire format restricted to float32 ('f'), int32 ('i')
and string ('s') arguments:

  • listen    receive messages and print them, optionally exposing metrics
  • send      build and transmit a single message
  • version   print version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		listenCmd(),
		sendCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// envOr returns the environment value for key, or def when unset.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
