package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"trafficlab/otlane/pkg/rulecfg"
)

var lintFlags struct {
	file   string
	dir    string
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate rule specification files",
	Long: `Validate rule specification files for syntax and semantic errors.

The lint command parses rule files and constructs every rule:
  - YAML syntax validation
  - Rule type and behaviour validation
  - Argument validation (speed ranges, bounding boxes, operators)
  - Recursive validation of subrule trees

Examples:
  # Lint a single file
  otlane lint --file rules.yaml

  # Lint a directory
  otlane lint --dir rules/

  # JSON output for CI/CD
  otlane lint --file rules.yaml --format json`,
	RunE: lintRules,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "rule file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of rule files")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

// LintResult represents the validation result for a single rule file.
type LintResult struct {
	File      string `json:"file"`
	Valid     bool   `json:"valid"`
	RuleCount int    `json:"rule_count"`
	Path      string `json:"path,omitempty"`
	Error     string `json:"error,omitempty"`
}

func lintRules(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string
	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}
	if lintFlags.dir != "" {
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(lintFlags.dir, pattern))
			if err != nil {
				return fmt.Errorf("failed to list rule files: %w", err)
			}
			files = append(files, matches...)
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no rule files found")
	}

	results := make([]LintResult, 0, len(files))
	for _, file := range files {
		results = append(results, lintRuleFile(file))
	}

	if lintFlags.format == "json" {
		return outputJSON(results)
	}
	return outputText(results)
}

func lintRuleFile(path string) LintResult {
	result := LintResult{File: path, Valid: true}

	doc, err := rulecfg.LoadFile(path)
	if err != nil {
		return lintFailure(path, err)
	}
	result.RuleCount = len(doc.Rules)

	// Constructing the rules surfaces semantic errors the YAML layer
	// cannot see, e.g. inverted speed ranges.
	if _, err := rulecfg.Build(doc.Rules); err != nil {
		return lintFailure(path, err)
	}
	return result
}

func lintFailure(path string, err error) LintResult {
	result := LintResult{File: path, Error: err.Error()}

	var cfgErr *rulecfg.ConfigError
	if errors.As(err, &cfgErr) {
		result.Path = cfgErr.Path
	}
	return result
}

func outputText(results []LintResult) error {
	failed := 0
	for _, result := range results {
		fmt.Printf("Validating %s...\n", result.File)
		if result.Valid {
			fmt.Printf("✓ %d rule(s) valid\n", result.RuleCount)
		} else {
			failed++
			fmt.Printf("✗ Error: %s\n", result.Error)
			if result.Path != "" {
				fmt.Printf("  at %s\n", result.Path)
			}
		}
		fmt.Println()
	}

	fmt.Println("Summary:")
	fmt.Printf("  %d file(s) checked, %d failed\n", len(results), failed)

	if failed > 0 {
		return fmt.Errorf("validation failed")
	}
	return nil
}

func outputJSON(results []LintResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}
