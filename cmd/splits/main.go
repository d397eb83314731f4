// Command splits drives a cube-and-conquer SAT/MaxSAT search: it loads a
// configuration file, optionally preprocesses the candidate variable set,
// and runs one or more independent tree_gen searches against an external
// solver.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/splits/engine"
	"github.com/aledsdavies/splits/internal/config"
	"github.com/aledsdavies/splits/internal/logging"
	"github.com/aledsdavies/splits/preprocess"
	"github.com/aledsdavies/splits/runner"
	"github.com/aledsdavies/splits/sat"
)

func main() {
	var (
		configFile     string
		noConfirm      bool
		debug          bool
		noColor        bool
		listCandidates bool
	)

	rootCmd := &cobra.Command{
		Use:           "splits",
		Short:         "Cube-and-conquer search driver for an external SAT/MaxSAT solver",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile == "" {
				return fmt.Errorf("--config-file is required")
			}
			return run(runOptions{
				configFile:     configFile,
				noConfirm:      noConfirm,
				debug:          debug,
				noColor:        noColor,
				listCandidates: listCandidates,
			})
		},
	}

	rootCmd.Flags().StringVar(&configFile, "config-file", "", "path to the configuration file (required)")
	rootCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "skip the pre-run confirmation prompt")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug-level logging")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored log output")
	rootCmd.Flags().BoolVar(&listCandidates, "list-candidates", false, "print the preprocessed candidate set and exit, without running the search")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type runOptions struct {
	configFile     string
	noConfirm      bool
	debug          bool
	noColor        bool
	listCandidates bool
}

func run(opts runOptions) error {
	log := logging.New(opts.debug, opts.noColor)

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		log.Fatal("failed to load config file %q: %v", opts.configFile, err)
		return err
	}

	formulaText, err := os.ReadFile(cfg.FormulaPath)
	if err != nil {
		log.Fatal("failed to read formula file %q: %v", cfg.FormulaPath, err)
		return err
	}

	var formula sat.Formula
	if cfg.FormulaIsWCNF {
		formula, err = sat.ParseWCNF(string(formulaText))
	} else {
		formula, err = sat.ParseCNF(string(formulaText))
	}
	if err != nil {
		log.Fatal("failed to parse formula %q: %v", cfg.FormulaPath, err)
		return err
	}

	variables := cfg.Variables
	if cfg.HasPreprocess {
		rnr, err := runner.New(cfg.SolverPath, cfg.TmpDir, cfg.OutputDir, cfg.PreserveCNF, cfg.EvaluationMetric)
		if err != nil {
			log.Fatal("failed to construct solver runner: %v", err)
			return err
		}

		ctx, cancel := newCancellableContext()
		defer cancel()

		pruned, err := preprocess.Run(ctx, cfg, rnr, formula, cfg.Variables, log)
		if err != nil {
			log.Fatal("preprocessing failed: %v", err)
			return err
		}
		variables = pruned
		cfg.Variables = pruned
	}

	if opts.listCandidates {
		printCandidates(variables)
		return nil
	}

	fmt.Fprintln(os.Stderr, cfg.Summary())
	if !opts.noConfirm {
		ok, err := confirm("Proceed with this search?", os.Stdin, os.Stdout)
		if err != nil {
			log.Fatal("failed to read confirmation: %v", err)
			return err
		}
		if !ok {
			log.Info("aborted by user")
			return fmt.Errorf("aborted by user")
		}
	}

	ctx, cancel := newCancellableContext()
	defer cancel()

	if err := engine.RunMultitree(ctx, cfg, formula, log); err != nil {
		log.Fatal("search failed: %v", err)
		return err
	}

	log.Info("search complete")
	return nil
}

func printCandidates(variables []int) {
	parts := make([]string, len(variables))
	for i, v := range variables {
		parts[i] = fmt.Sprintf("%d", v)
	}
	fmt.Println(strings.Join(parts, " "))
}

// confirm prompts the user with message and reads a y/n answer; an empty
// answer is treated as "no".
func confirm(message string, in *os.File, out *os.File) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", message)
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// newCancellableContext creates a context that cancels on SIGINT/SIGTERM, so
// a user's Ctrl+C propagates through the in-flight worker pool instead of
// leaving the process to be killed uncleanly mid-barrier.
func newCancellableContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()
	return ctx, cancel
}
