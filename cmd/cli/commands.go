package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(swapCmd)

	exportCmd.Flags().Bool("text", false, "Print the export as text instead of JSON")
	importCmd.Flags().Bool("json", false, "The file holds a JSON list of players instead of exported text")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the running totals kept by the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/stats")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players <classic|ffa>",
	Short: "List the players of a leaderboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/players/" + url.PathEscape(args[0]))
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <classic|ffa|overall>",
	Short: "Export a leaderboard as chat messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/api/leaderboards/" + url.PathEscape(args[0]) + "/export"
		if text, _ := cmd.Flags().GetBool("text"); text {
			endpoint += "?format=text"
		}
		return performGetRequest(endpoint)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <classic|ffa>",
	Short: "Show the most recent exports of a leaderboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/leaderboards/" + url.PathEscape(args[0]) + "/exports")
	},
}

var importCmd = &cobra.Command{
	Use:   "import <classic|ffa> <file>",
	Short: "Replace a leaderboard with the contents of a file (- for stdin)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(args[1])
		if err != nil {
			return err
		}
		body := map[string]any{"text": string(data)}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			var players []map[string]any
			if err := json.Unmarshal(data, &players); err != nil {
				return fmt.Errorf("failed to parse players: %w", err)
			}
			body = map[string]any{"players": players}
		}
		return performJSONRequest(http.MethodPost, "/api/leaderboards/"+url.PathEscape(args[0])+"/import", body)
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish <classic|ffa>",
	Short: "Post a leaderboard to the chat channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performJSONRequest(http.MethodPost, "/api/leaderboards/"+url.PathEscape(args[0])+"/publish", nil)
	},
}

var swapCmd = &cobra.Command{
	Use:   "swap <classic|ffa> <name1> <name2>",
	Short: "Swap the positions of two players",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"name1": args[1], "name2": args[2]}
		return performJSONRequest(http.MethodPost, "/api/players/"+url.PathEscape(args[0])+"/swap", body)
	},
}

func withDryRun(endpoint string) string {
	if !dryRun {
		return endpoint
	}
	if strings.Contains(endpoint, "?") {
		return endpoint + "&dry_run=true"
	}
	return endpoint + "?dry_run=true"
}

func performGetRequest(endpoint string) error {
	return performJSONRequest(http.MethodGet, endpoint, nil)
}

func performJSONRequest(method, endpoint string, payload any) error {
	url := host + withDryRun(endpoint)
	fmt.Printf("Making request to %s\n", url)

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
