// cmd/tools/score-preview/main.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"diagnostic-workers/internal/scoring"

	"github.com/spf13/cobra"
)

type previewOptions struct {
	answers    string
	dictionary string
	asJSON     bool
	questions  bool
}

func newRootCmd() *cobra.Command {
	opts := &previewOptions{}
	cmd := &cobra.Command{
		Use:   "score-preview",
		Short: "Score a set of diagnostic answers",
		Long:  "Runs the maturity scoring engine on six answers (A-D) and prints the total, tier, subscores and narrative.",
		Example: "  score-preview --answers C,D,B,C,A,D\n" +
			"  score-preview --answers D,A,D,D,D,D --json",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPreview(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.answers, "answers", "a", "", "Comma separated answers for Q1..Q6, e.g. A,B,C,D,A,B")
	cmd.Flags().StringVarP(&opts.dictionary, "dictionary", "d", "", "Path to a narrative dictionary JSON file (default: embedded)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&opts.questions, "questions", false, "Print the questionnaire and exit")
	return cmd
}

func runPreview(out io.Writer, opts *previewOptions) error {
	if opts.questions {
		printQuestionnaire(out)
		return nil
	}
	if opts.answers == "" {
		return fmt.Errorf("--answers is required")
	}

	dict := scoring.DefaultDictionary()
	if opts.dictionary != "" {
		loaded, err := scoring.LoadDictionary(opts.dictionary)
		if err != nil {
			return fmt.Errorf("failed to load dictionary %s: %w", opts.dictionary, err)
		}
		dict = loaded
	}

	answers, err := scoring.ParseAnswerList(opts.answers)
	if err != nil {
		return err
	}

	result, err := scoring.NewEngine(dict).Score(answers)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResult(out, answers, result)
	return nil
}

func printResult(out io.Writer, answers scoring.Answers, result *scoring.Result) {
	fmt.Fprintf(out, "Score:  %d/100\n", result.TotalScore)
	fmt.Fprintf(out, "Nível:  %s\n", result.Nivel)
	if scoring.Gated(answers) {
		fmt.Fprintln(out, "Cap:    applied (Q1 or Q2 answered A/B)")
	}
	fmt.Fprintln(out)
	for _, d := range result.Subscores.Dimensions() {
		fmt.Fprintf(out, "  %-18s %3d  %s\n", d.Name, d.Score, d.Color)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, result.Analysis.Significado)
	for _, p := range result.Analysis.Paragraphs {
		fmt.Fprintf(out, "\n[%s]\n%s\n", p.Category, p.Content)
	}
}

func printQuestionnaire(out io.Writer) {
	for _, q := range scoring.Questionnaire() {
		fmt.Fprintf(out, "%s (%s, peso %.0f%%) %s\n", q.ID, q.Category, scoring.Weight(q.ID)*100, q.Title)
		for _, o := range []scoring.Option{scoring.OptionA, scoring.OptionB, scoring.OptionC, scoring.OptionD} {
			fmt.Fprintf(out, "   %s) %s\n", o, q.Options[o])
		}
	}
	fmt.Fprintln(out, strings.Repeat("-", 40))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
