package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/TobiSchelling/secfetch/internal/collect"
	"github.com/TobiSchelling/secfetch/internal/config"
	"github.com/TobiSchelling/secfetch/internal/pipeline"
	"github.com/TobiSchelling/secfetch/internal/roster"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "secfetch",
	Short:   "Download 10-Q/10-K filings from SEC EDGAR",
	Long:    "secfetch looks up recent 10-Q and 10-K filings for a roster of companies and stores the raw documents locally.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setLogFlags(verbose)

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		path, err := config.ResolveConfigPath(configPath)
		switch {
		case errors.Is(err, config.ErrNoConfig):
			log.Println("No config file found, using built-in defaults")
			cfg = config.Default()
		case err != nil:
			return err
		default:
			cfg, err = config.Load(path)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
		}

		if verbose {
			cfg.Logging.Level = "DEBUG"
		}
		setLogFlags(cfg.Debug())
		return nil
	},
}

func setLogFlags(debug bool) {
	if debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(statusCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("secfetch", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/secfetch/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to set your EDGAR User-Agent contact and roster path.")
		return nil
	},
}

// --- run command ---

var (
	dryRun    bool
	targetCIK string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Look up filings for every roster company and download them",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := parseTarget(targetCIK)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		pipe := pipeline.New(cfg)

		var result *pipeline.Result
		if dryRun {
			result, err = pipe.DryRun(ctx, target)
		} else {
			result, err = pipe.Run(ctx, target)
		}
		if result == nil {
			return err
		}

		for _, step := range result.Steps {
			fmt.Printf("\n%s\n", step.Name)
			if step.Err != nil {
				fmt.Printf("  Error: %v\n", step.Err)
			} else {
				fmt.Printf("  %s\n", step.Summary)
			}
		}

		fmt.Printf("\nRun %s:\n", result.RunID)
		fmt.Printf("  Companies: %d\n", result.Companies)
		fmt.Printf("  Filings found: %d\n", result.Filings)
		if !dryRun {
			fmt.Printf("  Saved: %d\n", result.Saved)
			fmt.Printf("  Failed: %d\n", result.Failed)
		}
		if result.LookupFailures > 0 {
			fmt.Printf("  Lookup failures: %d\n", result.LookupFailures)
		}
		if result.InvalidEntries > 0 {
			fmt.Printf("  Invalid roster entries: %d\n", result.InvalidEntries)
		}
		return err
	},
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Look up filings without downloading")
	runCmd.Flags().StringVar(&targetCIK, "cik", "", "Only process the company with this CIK")
}

// --- list command ---

var listOut string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Collect the filing list for the roster and write it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		collector := collect.NewCollector(cfg, pipeline.NewEDGARClient(cfg))
		result, err := collector.FromFile(ctx, cfg.Roster.Path, nil)
		if err != nil {
			return err
		}

		if err := collect.WriteSnapshot(listOut, result.Records); err != nil {
			return err
		}
		fmt.Printf("Saved %d filings to %s\n", len(result.Records), listOut)
		if result.LookupFailures > 0 {
			fmt.Printf("Lookup failures: %d\n", result.LookupFailures)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listOut, "out", "o", "accession_list.json", "Output file")
}

// --- download command ---

var downloadIn string

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the documents listed in a filing list written by 'list'",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		result, err := pipeline.New(cfg).DownloadSnapshot(ctx, downloadIn)
		if result != nil {
			fmt.Printf("Saved: %d\n", result.Saved)
			fmt.Printf("Failed: %d\n", result.Failed)
		}
		return err
	},
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadIn, "in", "i", "accession_list.json", "Filing list to download")
}

// --- status command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show roster and output directory status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Roster: %s\n", cfg.Roster.Path)
		rs, err := roster.Load(cfg.Roster.Path)
		if err != nil {
			fmt.Printf("  Error: %v\n", err)
		} else {
			top := 0
			for _, c := range rs.Companies {
				if c.Rank <= cfg.Roster.RankThreshold {
					top++
				}
			}
			fmt.Printf("  Companies: %d\n", len(rs.Companies))
			fmt.Printf("  Ranked <= %d: %d\n", cfg.Roster.RankThreshold, top)
			fmt.Printf("  Invalid entries: %d\n", len(rs.Invalid))
		}

		files, err := filepath.Glob(filepath.Join(cfg.Output.Dir, "*_en.html"))
		if err != nil {
			return fmt.Errorf("listing output directory: %w", err)
		}
		fmt.Printf("\nOutput: %s\n", cfg.Output.Dir)
		fmt.Printf("  Documents: %d\n", len(files))
		fmt.Printf("\nUser-Agent: %s\n", cfg.GetUserAgent())
		return nil
	},
}

func parseTarget(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	cik, err := strconv.ParseInt(s, 10, 64)
	if err != nil || cik <= 0 {
		return nil, fmt.Errorf("invalid CIK: %s", s)
	}
	return &cik, nil
}
