package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/DNAi-inc/DNUDS/internal/config"
	"github.com/DNAi-inc/DNUDS/internal/engine"
	"github.com/DNAi-inc/DNUDS/internal/format"
	"github.com/DNAi-inc/DNUDS/internal/util"
)

// Version information set by ldflags during build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "dnuds",
	Short: "DNUDS samples a representative subset from a large data file.",
	Long:  `DNUDS reads a tabular, JSON-lines, log, or SQL-dump file and writes a smaller, representative sample alongside a manifest describing the run.`,
	// Version enables cobra's built-in --version flag; SetVersionTemplate
	// below controls what it prints.
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		slog.Info("DNUDS. Use -h or --help for available commands.")
	},
}

var sampleCmd = &cobra.Command{
	Use:   "sample <input> <output>",
	Short: "Produce a sample from an input file.",
	Args:  cobra.ExactArgs(2),
	RunE:  runSample,
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the built-in sampling profiles.",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range config.AllProfiles() {
			fmt.Printf("%s\n  %s\n", name, name.Describe())
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("DNUDS %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", date)
		fmt.Printf("  Go version: %s\n", runtime.Version())
		fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func runSample(cmd *cobra.Command, args []string) error {
	inputPath, outputPath := args[0], args[1]

	formatFlag, _ := cmd.Flags().GetString("format")
	profileFlag, _ := cmd.Flags().GetString("profile")
	rowsFlag, _ := cmd.Flags().GetInt("rows")
	keyColsFlag, _ := cmd.Flags().GetStringArray("key-col")
	seedFlag, _ := cmd.Flags().GetInt64("seed")
	seedSet := cmd.Flags().Changed("seed")
	configFlag, _ := cmd.Flags().GetString("config")
	tableFlag, _ := cmd.Flags().GetString("table")
	modeFlag, _ := cmd.Flags().GetString("sampling-mode")

	var fileDoc *config.FileDoc
	if configFlag != "" {
		doc, err := config.LoadFile(configFlag)
		if err != nil {
			util.LogError(util.Logger, err)
			return err
		}
		fileDoc = doc
	}

	overrides := config.Overrides{
		SamplingMode: modeFlag,
		TargetRows:   rowsFlag,
		KeyColumns:   keyColsFlag,
		Table:        tableFlag,
	}
	if seedSet {
		overrides.Seed = &seedFlag
	}

	samplerCfg, err := config.Resolve(config.ProfileName(profileFlag), fileDoc, overrides)
	if err != nil {
		wrapped := util.WrapError(err, "failed to resolve sampling configuration")
		util.LogError(util.Logger, wrapped)
		return wrapped
	}

	var ft format.Type
	if formatFlag != "" {
		ft = formatTypeFromFlag(formatFlag)
		if ft == format.Unknown {
			err := util.NewError(util.KindInvalidConfig, "unknown --format value: "+formatFlag)
			util.LogError(util.Logger, err)
			return err
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("received interrupt, stopping")
		cancel()
	}()

	result, err := engine.Run(ctx, engine.Request{
		InputPath:    inputPath,
		OutputPath:   outputPath,
		InputFormat:  ft,
		OutputFormat: ft,
		Sampler:      *samplerCfg,
		Now:          time.Now().UTC().Format("2006-01-02T15:04:05Z"),
	})
	if err != nil {
		wrapped := util.WrapError(err, "sampling run failed")
		util.LogError(util.Logger, wrapped)
		if ctx.Err() != nil {
			os.Exit(130)
		}
		return wrapped
	}

	slog.Info("sampling complete",
		"output", result.OutputPath,
		"actual_rows", result.ActualRows,
		"manifest", result.ManifestPath,
	)
	return nil
}

func formatTypeFromFlag(flag string) format.Type {
	switch flag {
	case "csv":
		return format.Tabular
	case "jsonl":
		return format.JSONLines
	case "log":
		return format.Log
	case "sql":
		return format.SQLDump
	default:
		return format.Unknown
	}
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"DNUDS %s\n  Commit:     %s\n  Built:      %s\n  Go version: %s\n  OS/Arch:    %s/%s\n",
		version, commit, date, runtime.Version(), runtime.GOOS, runtime.GOARCH,
	))

	sampleCmd.Flags().String("format", "", "Override format detection (csv, jsonl, log, sql); applies to both input and output")
	sampleCmd.Flags().String("profile", "debug_sample", "Sampling profile (debug_sample, schema_sample, smoke_test_sample, privacy_sample)")
	sampleCmd.Flags().Int("rows", 0, "Override target row count")
	sampleCmd.Flags().StringArray("key-col", nil, "Key column for stratified/time-aware/outlier-aware sampling (repeatable)")
	sampleCmd.Flags().Int64("seed", 0, "Random seed for deterministic sampling")
	sampleCmd.Flags().String("config", "", "Path to a JSON or YAML configuration document")
	sampleCmd.Flags().String("table", "", "Table name filter for SQL-dump input")
	sampleCmd.Flags().String("sampling-mode", "", "Override sampling strategy (random, stratified, time_aware, outlier_aware, composite)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
