package command

import (
	"fmt"
	"os"
	"text/tabwriter"

	"codelens/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse your saved reviews",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reviews, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(c *client.HTTPClient) error {
			list, err := c.ListReviews()
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(list)
			}
			if list.Total == 0 {
				fmt.Println("No reviews yet.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLANGUAGE\tSCORE\tGRADE\tISSUES\tTIPS\tDATE")
			for _, r := range list.Reviews {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%d\t%s\n",
					r.ID, r.Language, r.Score, r.Grade, r.IssueCount, r.TipCount, r.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one review with its metrics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(c *client.HTTPClient) error {
			r, err := c.GetReview(args[0])
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(r)
			}

			fmt.Printf("%s review from %s, score %d (%s)\n", r.Language, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Score, r.Grade)
			fmt.Printf("syntax health %d | logical soundness %d | optimization %d | best practices %d\n",
				r.Metrics.SyntaxHealth, r.Metrics.LogicalSoundness, r.Metrics.OptimizationLevel, r.Metrics.BestPractices)
			printSection("Syntax errors", r.SyntaxErrors)
			printSection("Logic flaws", r.LogicFlaws)
			printSection("Optimization tips", r.OptimizationTips)
			return nil
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dashboard numbers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(c *client.HTTPClient) error {
			s, err := c.DashboardStats()
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(s)
			}
			fmt.Printf("Reviews:       %d\n", s.TotalReviews)
			fmt.Printf("Average score: %d\n", s.AverageScore)
			fmt.Printf("Issues found:  %d\n", s.TotalIssues)
			fmt.Printf("Tips given:    %d\n", s.TotalTips)
			return nil
		})
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyShowCmd)
}
