package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mauv0809/tierboard/internal/leaderboard"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(parseCmd)

	renderCmd.Flags().Int("budget", leaderboard.DefaultBudget, "Soft character limit per message")
	renderCmd.Flags().Bool("overall", false, "Render the players as one overall list")
}

var renderCmd = &cobra.Command{
	Use:   "render <classic|ffa> <players.json>",
	Short: "Render a JSON list of players without a server (- for stdin)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := kindArg(args[0])
		if err != nil {
			return err
		}
		data, err := readInput(args[1])
		if err != nil {
			return err
		}
		var players []leaderboard.Player
		if err := json.Unmarshal(data, &players); err != nil {
			return fmt.Errorf("failed to parse players: %w", err)
		}

		budget, _ := cmd.Flags().GetInt("budget")
		if overall, _ := cmd.Flags().GetBool("overall"); overall {
			fmt.Println(leaderboard.Join(leaderboard.ExportOverall(players, budget)))
			return nil
		}
		res := leaderboard.Export(kind, players, budget)
		fmt.Println(res.Text())
		if res.Dropped > 0 {
			fmt.Fprintf(os.Stderr, "%d players had an unknown rank and were left out\n", res.Dropped)
		}
		return nil
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse <classic|ffa> <file>",
	Short: "Parse exported leaderboard text into JSON without a server (- for stdin)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := kindArg(args[0])
		if err != nil {
			return err
		}
		data, err := readInput(args[1])
		if err != nil {
			return err
		}
		players := leaderboard.Parse(string(data), kind)
		out, err := json.MarshalIndent(players, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func kindArg(s string) (leaderboard.Kind, error) {
	kind, ok := leaderboard.ParseKind(s)
	if !ok {
		return "", fmt.Errorf("unknown leaderboard %q, expected classic or ffa", s)
	}
	return kind, nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
