package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/carescreen/internal/llm"
	"github.com/abhisek/carescreen/internal/store"
	"github.com/abhisek/carescreen/internal/suggest"
	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded suggestion requests to the language model",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent suggestion requests and what came back",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		failedOnly, _ := cmd.Flags().GetBool("failed")

		return withEvents(cmd, func(ctx context.Context, repo store.EventRepo) error {
			events, err := repo.QueryLLMEvents(ctx, store.QueryOpts{Limit: limit, Purpose: purpose})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			if failedOnly {
				events = failedEvents(events)
			}
			if len(events) == 0 {
				fmt.Println("No suggestion requests recorded.")
				return nil
			}

			fmt.Printf("%-5s  %-19s  %-22s  %-24s  %-11s  %6s  %s\n",
				"ID", "Time", "Purpose", "Model", "Tokens", "Ms", "Outcome")
			fmt.Println(strings.Repeat("─", 104))
			for _, e := range events {
				fmt.Printf("%-5d  %-19s  %-22s  %-24s  %-11s  %6d  %s\n",
					e.ID,
					e.Timestamp.Local().Format(timeLayout),
					truncate(e.Purpose, 22),
					truncate(e.Model, 24),
					fmt.Sprintf("%d/%d", e.InputTokens, e.OutputTokens),
					e.LatencyMs,
					outcome(e),
				)
			}
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one suggestion request, the suggestions it produced and the raw bodies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid event id %q: %w", args[0], err)
		}
		raw, _ := cmd.Flags().GetBool("raw")

		return withEvents(cmd, func(ctx context.Context, repo store.EventRepo) error {
			e, err := repo.GetLLMEvent(ctx, id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}

			fmt.Printf("Event %d (%s via %s, %s)\n", e.ID, e.Purpose, e.Provider, e.Model)
			fmt.Printf("  at %s, %dms, %d in / %d out tokens\n",
				e.Timestamp.Local().Format(timeLayout), e.LatencyMs, e.InputTokens, e.OutputTokens)
			fmt.Printf("  outcome: %s\n", outcome(*e))

			if items, err := suggest.ParseItems([]byte(e.ResponseBody)); err == nil {
				fmt.Println()
				for i, item := range items {
					fmt.Printf("  %d. %s\n", i+1, item)
				}
			}

			if !raw {
				return nil
			}
			section("Request", e.RequestBody)
			section("Response", e.ResponseBody)
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how often suggestions fell back to the static list, and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEvents(cmd, func(ctx context.Context, repo store.EventRepo) error {
			byPurpose, err := repo.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			if len(byPurpose) == 0 {
				fmt.Println("No suggestion requests recorded.")
				return nil
			}

			fmt.Printf("%-22s  %6s  %9s  %8s  %8s  %8s\n",
				"Purpose", "Calls", "Fallback", "In", "Out", "Avg Ms")
			for _, u := range byPurpose {
				fmt.Printf("%-22s  %6d  %9s  %8d  %8d  %8d\n",
					truncate(u.Key, 22), u.Calls, fallbackRate(u), u.InputTokens, u.OutputTokens, avgLatency(u))
			}

			byModel, err := repo.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}
			fmt.Println()
			printCost(byModel)
			return nil
		})
	},
}

// withEvents opens the event store named by --db for the duration of fn.
func withEvents(cmd *cobra.Command, fn func(context.Context, store.EventRepo) error) error {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()
	return fn(cmd.Context(), s.EventRepo())
}

// outcome summarises what a request gave the Results page: the number of
// usable suggestions, or why the static list was shown instead.
func outcome(e store.LLMEvent) string {
	if !e.Success {
		return "fallback: " + truncate(e.ErrorMessage, 40)
	}
	items, err := suggest.ParseItems([]byte(e.ResponseBody))
	if err != nil {
		return "fallback: unusable response"
	}
	return fmt.Sprintf("%d suggestions", len(items))
}

func failedEvents(events []store.LLMEvent) []store.LLMEvent {
	var out []store.LLMEvent
	for _, e := range events {
		if !e.Success {
			out = append(out, e)
		}
	}
	return out
}

func fallbackRate(u store.LLMUsage) string {
	if u.Calls == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", 100*float64(u.Failures)/float64(u.Calls))
}

func printCost(usage []store.LLMUsage) {
	var (
		total   float64
		unknown []string
	)
	fmt.Printf("%-32s  %6s  %10s\n", "Model", "Calls", "Cost (USD)")
	for _, u := range usage {
		cost, ok := llm.LookupCost(u.Key)
		if !ok {
			unknown = append(unknown, u.Key)
			fmt.Printf("%-32s  %6d  %10s\n", truncate(u.Key, 32), u.Calls, "?")
			continue
		}
		c := cost.Cost(u.InputTokens, u.OutputTokens)
		total += c
		fmt.Printf("%-32s  %6d  %10s\n", truncate(u.Key, 32), u.Calls, formatCost(c))
	}
	if len(unknown) > 0 {
		fmt.Printf("%-32s  %6s  %10s\n", "total (partial)", "", formatCost(total))
		fmt.Printf("No pricing for: %s\n", strings.Join(unknown, ", "))
		return
	}
	fmt.Printf("%-32s  %6s  %10s\n", "total", "", formatCost(total))
}

func section(title, body string) {
	fmt.Printf("\n%s\n%s\n", title, strings.Repeat("─", len(title)))
	if body == "" {
		body = "(not captured)"
	}
	fmt.Println(body)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func avgLatency(u store.LLMUsage) int64 {
	if u.Calls == 0 {
		return 0
	}
	return u.LatencyMs / int64(u.Calls)
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", suggest.Purpose, "Filter by purpose; empty shows all")
	llmListCmd.Flags().Bool("failed", false, "Only show requests that fell back to the static list")
	llmViewCmd.Flags().Bool("raw", false, "Also print the captured request and response bodies")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
