package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "course-payments",
	Short: "Course payments service",
	Long:  "Payment verification service for the e-learning platform: order payment status, verification log, simulated gateway, and admin completion.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
