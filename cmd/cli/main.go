package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	userID  string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tripledger-cli",
		Short: "TripLedger CLI tool",
		Long:  `A command line interface for interacting with the TripLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the TripLedger API")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "User ID to act as")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	var optimized bool
	balanceCmd := &cobra.Command{
		Use:   "balance <trip-id>",
		Short: "Show the balance report for a trip",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := fmt.Sprintf("/api/v1/trips/%s/balance", args[0])
			if optimized {
				path += "/optimized"
			}
			getAndPrint(path)
		},
	}
	balanceCmd.Flags().BoolVar(&optimized, "optimized", false, "Fold completed settlements into the report")
	rootCmd.AddCommand(balanceCmd)

	expensesCmd := &cobra.Command{
		Use:   "expenses <trip-id>",
		Short: "List all expenses of a trip",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getAndPrint(fmt.Sprintf("/api/v1/trips/%s/expenses", args[0]))
		},
	}
	rootCmd.AddCommand(expensesCmd)

	var status string
	var mine bool
	settlementsCmd := &cobra.Command{
		Use:   "settlements <trip-id>",
		Short: "List settlements of a trip",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := fmt.Sprintf("/api/v1/trips/%s/settlements", args[0])
			switch {
			case mine:
				path += "?mine=true"
			case status != "":
				path += "?status=" + status
			}
			getAndPrint(path)
		},
	}
	settlementsCmd.Flags().StringVar(&status, "status", "", "Filter by status (pending, completed, cancelled)")
	settlementsCmd.Flags().BoolVar(&mine, "mine", false, "Only settlements you are a party to")
	rootCmd.AddCommand(settlementsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func getAndPrint(path string) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	printJSON(result)
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to format response: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
