package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/tailor-go/pkg/config"
	"github.com/XiaoConstantine/tailor-go/pkg/core"
	"github.com/XiaoConstantine/tailor-go/pkg/learning"
	"github.com/XiaoConstantine/tailor-go/pkg/llms"
	"github.com/XiaoConstantine/tailor-go/pkg/logging"
	"github.com/XiaoConstantine/tailor-go/pkg/orchestrator"
	"github.com/XiaoConstantine/tailor-go/pkg/store"
	"github.com/XiaoConstantine/tailor-go/pkg/style"
)

// app bundles the wired components behind one setup call.
type app struct {
	cfg    *config.Config
	orch   *orchestrator.Orchestrator
	engine *learning.Engine
	close  func()
}

func setup() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	outputs := []logging.Output{logging.NewConsoleOutput(true)}
	if cfg.Logging.File != "" {
		fileOut, err := logging.NewFileOutput(cfg.Logging.File)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, fileOut)
	}
	logging.SetLogger(logging.NewLogger(logging.Config{
		Severity: logging.ParseSeverity(cfg.Logging.Level),
		Outputs:  outputs,
	}))

	svc, err := llms.NewCompletionService(cfg.Service.Provider, llms.ClientConfig{
		APIKey:  cfg.Service.APIKey,
		BaseURL: cfg.Service.BaseURL,
		Model:   cfg.Service.Model,
		Timeout: cfg.Service.Timeout,
	})
	if err != nil {
		return nil, err
	}

	var st store.Store
	closeStore := func() {}
	if cfg.Store.Backend == "memory" {
		st = store.NewMemoryStore()
	} else {
		sqliteStore, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		st = sqliteStore
		closeStore = func() { _ = sqliteStore.Close() }
	}

	return &app{
		cfg:    cfg,
		orch:   orchestrator.New(svc, st),
		engine: learning.New(svc, st),
		close:  closeStore,
	}, nil
}

// readParagraphs loads the document from a file (or stdin when path is
// "-") and splits it on blank lines.
func readParagraphs(path string) ([]string, error) {
	var data []byte
	var err error
	if path == "-" || path == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	var paragraphs []string
	for _, block := range strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n\n") {
		if p := strings.TrimSpace(block); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs, nil
}

var editCmd = func() *cobra.Command {
	var (
		documentID  string
		file        string
		index       int
		instruction string
		sectionType string
		streamOut   bool
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit one paragraph of a document",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			paragraphs, err := readParagraphs(file)
			if err != nil {
				return err
			}

			req := &orchestrator.EditRequest{
				DocumentID:  documentID,
				Paragraphs:  paragraphs,
				TargetIndex: index,
				Instruction: instruction,
				SectionType: sectionType,
				Profile:     style.DefaultProfile(),
			}
			if streamOut {
				req.OnChunk = func(chunk core.StreamChunk) {
					fmt.Print(chunk.Content)
				}
			}

			result, err := a.orch.Edit(cmd.Context(), req)
			if err != nil {
				return err
			}

			if streamOut {
				fmt.Println()
			} else {
				fmt.Println(result.EditedText)
			}

			fmt.Fprintf(os.Stderr, "\nconverged: %v, attempts: %d\n", result.Converged(), result.Iterations)
			for _, entry := range result.Convergence {
				fmt.Fprintf(os.Stderr, "  attempt %d: alignment %.2f", entry.Attempt, entry.AlignmentScore)
				if len(entry.AdjustmentsMade) > 0 {
					fmt.Fprintf(os.Stderr, " (%s)", strings.Join(entry.AdjustmentsMade, "; "))
				}
				fmt.Fprintln(os.Stderr)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&documentID, "doc", "d", "", "document id")
	cmd.Flags().StringVarP(&file, "file", "f", "-", "document file, blank-line separated paragraphs (- for stdin)")
	cmd.Flags().IntVarP(&index, "index", "i", 0, "paragraph index to edit (0-based)")
	cmd.Flags().StringVar(&instruction, "instruction", "", "edit instruction")
	cmd.Flags().StringVar(&sectionType, "section", "", "section type hint (introduction, conclusion, ...)")
	cmd.Flags().BoolVar(&streamOut, "stream", false, "stream the candidate as it generates")
	_ = cmd.MarkFlagRequired("doc")
	return cmd
}()

var decideCmd = func() *cobra.Command {
	var in learning.DecisionInput
	var decision string

	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Report a decision on a suggested edit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			in.Decision = style.Decision(decision)
			if in.FinalText == "" {
				in.FinalText = in.SuggestedEdit
			}
			record, err := a.engine.LearnFromDecision(cmd.Context(), in)
			if err != nil {
				return err
			}

			adj := record.Adjustments
			fmt.Printf("sliders: verbosity %+.2f, formality %+.2f, hedging %+.2f\n",
				adj.VerbosityAdjust, adj.FormalityAdjust, adj.HedgingAdjust)
			fmt.Printf("rules: %d, decisions: %d\n", len(adj.LearnedRules), len(record.EditHistory))
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.DocumentID, "doc", "d", "", "document id")
	cmd.Flags().StringVar(&in.OriginalText, "original", "", "original paragraph")
	cmd.Flags().StringVar(&in.SuggestedEdit, "suggested", "", "edit that was suggested")
	cmd.Flags().StringVar(&in.FinalText, "final", "", "text the user kept (defaults to the suggestion)")
	cmd.Flags().StringVar(&decision, "decision", "", "accepted, rejected, or partial")
	cmd.Flags().StringVar(&in.Instruction, "instruction", "", "instruction the edit ran with")
	_ = cmd.MarkFlagRequired("doc")
	_ = cmd.MarkFlagRequired("decision")
	return cmd
}()

var feedbackCmd = func() *cobra.Command {
	var in learning.FeedbackInput
	var tags []string

	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Record explicit feedback tags on an edit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			for _, tag := range tags {
				in.Tags = append(in.Tags, style.FeedbackCategory(tag))
			}
			record, err := a.engine.LearnFromExplicitFeedback(cmd.Context(), in)
			if err != nil {
				return err
			}

			for _, rule := range record.Adjustments.LearnedRules {
				fmt.Printf("[%.2f] %s\n", rule.Confidence, rule.Rule)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.DocumentID, "doc", "d", "", "document id")
	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "feedback categories (too_formal, too_verbose, ...)")
	cmd.Flags().StringVar(&in.Before, "before", "", "text before the edit")
	cmd.Flags().StringVar(&in.After, "after", "", "text after the edit")
	_ = cmd.MarkFlagRequired("doc")
	_ = cmd.MarkFlagRequired("tags")
	return cmd
}()

var patternsCmd = func() *cobra.Command {
	var documentID string

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Summarize what this document's rejected edits have in common",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			summary, err := a.engine.AnalyzeEditPatterns(cmd.Context(), documentID)
			if err != nil {
				return err
			}
			if summary == "" {
				fmt.Println("not enough decision history to analyze yet")
				return nil
			}
			fmt.Println(summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&documentID, "doc", "d", "", "document id")
	_ = cmd.MarkFlagRequired("doc")
	return cmd
}()

var resetCmd = func() *cobra.Command {
	var documentID string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear a document's learned adjustments, keeping its history",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.engine.Reset(cmd.Context(), documentID); err != nil {
				return err
			}
			fmt.Printf("adjustments for %s reset\n", documentID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&documentID, "doc", "d", "", "document id")
	_ = cmd.MarkFlagRequired("doc")
	return cmd
}()
