// Command rag-processor chunks .rag documents for retrieval pipelines.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"github.com/erickva/rag-processor/config"
	"github.com/erickva/rag-processor/pkg/logger"
	"github.com/erickva/rag-processor/processor"
	"github.com/erickva/rag-processor/validation"
)

var version = "dev"

var (
	flagLogLevel  string
	flagLogFormat string
	flagJSON      bool
	flagOutput    string
	flagClient    string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()

	root := &cobra.Command{
		Use:   "rag-processor",
		Short: "Process documents into retrieval-ready chunks",
		Long: `rag-processor reads .rag documents, detects their structure, and
splits them into chunks using the strategy named in the document's
directive header or chosen by auto-detection.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.Logging.Level = flagLogLevel
			cfg.Logging.Format = flagLogFormat
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return logger.Init(&logger.Config{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Output: cfg.Logging.Output,
			})
		},
	}

	// Flag defaults come from the environment (RAG_LOG_LEVEL,
	// RAG_LOG_FORMAT, RAG_OUTPUT_FORMAT); explicit flags override.
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", cfg.Logging.Level, "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", cfg.Logging.Format, "log format (console, json)")
	root.PersistentFlags().BoolVar(&flagJSON, "json", cfg.Output.Format == "json", "emit machine-readable JSON output")

	root.AddCommand(newProcessCmd())
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newTemplateCmd())
	root.AddCommand(newStrategiesCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newProcessCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "process <file.rag> [more files...]",
		Short: "Chunk one or more .rag documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := processor.New()

			if len(args) > 1 {
				batch := p.ProcessBatch(context.Background(), args, workers)
				if flagJSON || flagOutput != "" {
					return writeJSON(batch)
				}
				for _, item := range batch.Items {
					if item.Err != nil {
						fmt.Printf("%s: FAILED (%s)\n", item.Path, item.Error)
						continue
					}
					fmt.Printf("%s: %d chunks via %s\n", item.Path, len(item.Result.Chunks), item.Result.Strategy)
				}
				fmt.Printf("%d succeeded, %d failed\n", batch.Succeeded, batch.Failed)
				if batch.Failed > 0 {
					os.Exit(1)
				}
				return nil
			}

			result, err := p.ProcessFile(context.Background(), args[0])
			if err != nil {
				return err
			}

			if flagJSON || flagOutput != "" {
				if err := writeJSON(result); err != nil {
					return err
				}
			} else {
				fmt.Printf("Processed %s with %s\n", args[0], result.Strategy)
				fmt.Printf("Document type: %s (confidence %.3f)\n", result.DocumentType, result.Confidence)
				fmt.Printf("Chunks: %d\n", len(result.Chunks))
				for i, chunk := range result.Chunks {
					fmt.Printf("\n--- chunk %d (%d chars, %d-%d) ---\n%s\n",
						i, chunk.CharacterCount(), chunk.StartPos, chunk.EndPos, chunk.Text)
				}
				if !result.Validation.Valid {
					fmt.Fprint(os.Stderr, validation.RenderReport(result.Validation))
				}
			}

			if !result.Validation.Valid {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write JSON result to a file")
	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent workers for multi-file runs")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file>",
		Short: "Detect a document's type and recommended strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readTextFile(args[0])
			if err != nil {
				return err
			}

			p := processor.New()
			analysis, err := p.AnalyzeDocument(content)
			if err != nil {
				return err
			}

			if flagJSON {
				return writeJSON(analysis)
			}

			fmt.Printf("Document type: %s\n", analysis.DocumentType)
			fmt.Printf("Confidence: %.3f\n", analysis.Confidence)
			fmt.Printf("Recommended strategy: %s\n", analysis.RecommendedStrategy)
			if suggestions := p.SuggestImprovements(content); len(suggestions) > 0 {
				fmt.Println("Suggestions:")
				for _, s := range suggestions {
					fmt.Printf("  - %s\n", s)
				}
			}
			return nil
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a document without processing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readTextFile(args[0])
			if err != nil {
				return err
			}

			p := processor.New()
			result := p.ValidateDocument(content)

			if flagJSON {
				if err := writeJSON(result); err != nil {
					return err
				}
			} else {
				fmt.Print(validation.RenderReport(result))
			}

			if !result.Valid {
				os.Exit(1)
			}
			return nil
		},
	}
}

func newTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template <strategy>",
		Short: "Generate an example document for a strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := processor.New()
			template, err := p.CreateTemplate(args[0], flagClient)
			if err != nil {
				return err
			}

			if flagOutput != "" {
				if !strings.HasSuffix(flagOutput, config.RAGFileExtension) {
					flagOutput += config.RAGFileExtension
				}
				return os.WriteFile(flagOutput, []byte(template), 0o644)
			}

			fmt.Print(template)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write the template to a .rag file")
	cmd.Flags().StringVar(&flagClient, "client", "default", "client configuration to apply")
	return cmd
}

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List registered strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := processor.New()
			names := p.AvailableStrategies()

			if flagJSON {
				return writeJSON(names)
			}

			for _, name := range names {
				if s, ok := p.Strategy(name); ok {
					fmt.Printf("%-42s %s\n", name, s.Description())
				}
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("rag-processor %s\n", version)
		},
	}
}

// readTextFile loads a file and rejects binary content up front, so
// PDFs and images never reach the text pipeline.
func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	detected := mimetype.Detect(data)
	if !isText(detected) {
		return "", fmt.Errorf("%s looks like %s, not a text document", path, detected.String())
	}

	return string(data), nil
}

func isText(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

func writeJSON(v interface{}) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	if flagOutput != "" {
		return os.WriteFile(flagOutput, append(encoded, '\n'), 0o644)
	}

	_, err = fmt.Println(string(encoded))
	return err
}
