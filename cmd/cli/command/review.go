package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codelens/cmd/cli/authentication"
	"codelens/cmd/cli/command/client"
	"codelens/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

// file extension -> language tag accepted by the API
var extensionLanguages = map[string]string{
	".js":   "javascript",
	".mjs":  "javascript",
	".ts":   "typescript",
	".py":   "python",
	".java": "java",
	".cpp":  "cpp",
	".cc":   "cpp",
	".hpp":  "cpp",
	".go":   "go",
	".rs":   "rust",
}

var reviewCmd = &cobra.Command{
	Use:   "review <file>",
	Short: "Review a source file",
	Long: `Send a source file for AI review. The language is guessed from the file
extension unless --lang is given. Reviews made while logged in are saved to
your history; anonymous reviews are not.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		lang, _ := cmd.Flags().GetString("lang")
		if lang == "" {
			lang = detectLanguage(args[0])
		}
		if lang == "" {
			return fmt.Errorf("cannot guess the language of %s, pass --lang", args[0])
		}

		req := &dto.ReviewRequest{Code: string(code), Language: lang}
		var resp *dto.ReviewResponse
		review := func(c *client.HTTPClient) error {
			var err error
			resp, err = c.Review(req)
			return err
		}

		err = withSession(review)
		if errors.Is(err, authentication.ErrNotLoggedIn) {
			fmt.Fprintln(os.Stderr, "not logged in, this review will not be saved")
			err = review(client.NewHTTPClient(apiURL))
		}
		if err != nil {
			return err
		}

		if outputJSON {
			return printJSON(resp)
		}
		printReview(resp)
		return nil
	},
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages",
	RunE: func(cmd *cobra.Command, args []string) error {
		langs, err := client.NewHTTPClient(apiURL).Languages()
		if err != nil {
			return err
		}
		if outputJSON {
			return printJSON(langs)
		}
		for _, l := range langs {
			fmt.Printf("%-12s %s\n", l.Tag, l.DisplayName)
		}
		return nil
	},
}

func init() {
	reviewCmd.Flags().StringP("lang", "l", "", "Language tag (javascript, typescript, python, java, cpp, go, rust)")
}

func detectLanguage(path string) string {
	return extensionLanguages[strings.ToLower(filepath.Ext(path))]
}

func printReview(r *dto.ReviewResponse) {
	fmt.Printf("Score: %d/100\n", r.Score)
	printSection("Syntax errors", r.SyntaxErrors)
	printSection("Logic flaws", r.LogicFlaws)
	printSection("Optimization tips", r.OptimizationTips)
}

func printSection(title string, items []string) {
	fmt.Printf("\n%s (%d)\n", title, len(items))
	if len(items) == 0 {
		fmt.Println("  none")
		return
	}
	for i, item := range items {
		fmt.Printf("  %d. %s\n", i+1, item)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
