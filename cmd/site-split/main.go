package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"site-split/internal/assembler"
	"site-split/internal/config"
	"site-split/internal/host"
	"site-split/internal/logger"
	"site-split/internal/model"
	"site-split/internal/report"
	"site-split/internal/ui"
)

const (
	appName    = "Site Split"
	appVersion = "1.0.0"
	appDesc    = "Splits a consolidated report sheet into one workbook per site"
)

var (
	configPath  string
	verbose     bool
	showVersion bool
	outputDir   string
	sourcePath  string
	sheetName   string
	quiet       bool
	noWait      bool
)

func init() {
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.StringVar(&configPath, "c", "config.yaml", "Path to configuration file (shorthand)")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging (DEBUG level)")
	flag.BoolVar(&verbose, "v", false, "Enable verbose logging (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.StringVar(&outputDir, "output", "", "Override output directory from config")
	flag.StringVar(&sourcePath, "source", "", "Override source workbook from config")
	flag.StringVar(&sheetName, "sheet", "", "Override source sheet from config")
	flag.BoolVar(&quiet, "quiet", false, "Disable progress bars")
	flag.BoolVar(&noWait, "no-wait", false, "Exit without waiting for Enter")
}

func main() {
	// Keep the console window open even on panic
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("\n❌ PANIC: %v\n", r)
		}
		if !noWait {
			waitForEnter()
		}
	}()

	exitCode := run()
	if !noWait {
		waitForEnter()
	}
	os.Exit(exitCode)
}

func run() int {
	flag.Parse()

	if showVersion {
		fmt.Printf("%s v%s\n%s\n", appName, appVersion, appDesc)
		return 0
	}

	printBanner()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		return 1
	}
	if err := applyOverrides(cfg); err != nil {
		fmt.Printf("❌ %v\n", err)
		return 1
	}
	if err := cfg.EnsureOutputDir(); err != nil {
		fmt.Printf("❌ %v\n", err)
		return 1
	}

	logPath := filepath.Join(cfg.Output.Dir, "site-split.log")
	if err := logger.Init(os.Stdout, logPath, verbose); err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	if verbose {
		cfg.Print()
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration: %v", err)
		return 1
	}
	if err := validateReport(cfg); err != nil {
		logger.Error("Invalid configuration: %v", err)
		return 1
	}

	if err := runSplit(cfg); err != nil {
		logger.Error("Split failed: %v", err)
		logger.Error("%s", describeError(err))
		return 1
	}

	logger.Info("✅ Split Complete. Check [%s] directory.", cfg.Output.Dir)
	return 0
}

// applyOverrides applies command-line flags on top of the loaded config
func applyOverrides(cfg *config.Config) error {
	if sourcePath != "" {
		abs, err := filepath.Abs(sourcePath)
		if err != nil {
			return fmt.Errorf("failed to resolve -source: %w", err)
		}
		cfg.Source.Path = abs
	}
	if sheetName != "" {
		cfg.Source.Sheet = sheetName
	}
	if outputDir != "" {
		abs, err := filepath.Abs(outputDir)
		if err != nil {
			return fmt.Errorf("failed to resolve -output: %w", err)
		}
		cfg.Output.Dir = abs
	}
	return nil
}

// validateReport rejects report settings before any document is written
func validateReport(cfg *config.Config) error {
	if !cfg.Report.Enabled {
		return nil
	}
	if !report.SupportedEncoding(cfg.Report.ManifestEncoding) {
		return fmt.Errorf("report.manifest_encoding must be utf-8 or euc-kr, got %q", cfg.Report.ManifestEncoding)
	}
	if cfg.Report.Template != "" {
		if _, err := os.Stat(cfg.Report.Template); err != nil {
			return fmt.Errorf("report.template: %w", err)
		}
	}
	return nil
}

// waitForEnter pauses execution and waits for user to press Enter
// This prevents the console window from closing immediately when double-clicked
func waitForEnter() {
	fmt.Println("\n==========================================")
	fmt.Println("Execution Finished. Press 'Enter' to exit.")
	fmt.Println("==========================================")
	bufio.NewReader(os.Stdin).ReadBytes('\n')
}

func runSplit(cfg *config.Config) error {
	layout, err := cfg.Layout()
	if err != nil {
		return err
	}

	phases := []ui.Phase{ui.PhaseLoading, ui.PhaseGrouping, ui.PhaseWriting}
	if cfg.Report.Enabled {
		phases = append(phases, ui.PhaseReporting)
	}
	pipeline := ui.NewPipeline(phases)
	if quiet {
		pipeline.Disable()
	}

	h := host.Start()
	defer func() {
		if err := h.Close(); err != nil {
			logger.Warn("Failed to close workbooks: %v", err)
		}
	}()

	// --- Phase 1: Loading ---
	logger.Info("Phase 1: Opening %s...", filepath.Base(cfg.Source.Path))
	loadBar := pipeline.NextPhase(1)
	wb, err := h.Open(cfg.Source.Path)
	if err != nil {
		return err
	}
	src, err := wb.Sheet(cfg.Source.Sheet)
	if err != nil {
		return err
	}
	step(loadBar)

	// --- Phase 2 and 3: Grouping, Writing ---
	logger.Info("Phase 2: Grouping rows of %s by %s/%s...", layout.Content, layout.NameColumn, layout.RefColumn)
	progress := &splitProgress{pipeline: pipeline, grouping: pipeline.NextPhase(1)}
	plan := assembler.Plan{
		Layout:       *layout,
		ColumnWidths: cfg.Paste.ColumnWidths,
		OutputDir:    cfg.Output.Dir,
	}
	result, err := assembler.Assemble(h, src, plan, progress)
	if err != nil {
		if result != nil && result.Count() > 0 {
			logger.Warn("%d documents were written before the failure", result.Count())
		}
		return err
	}

	summary := &report.Summary{
		Date:    time.Now().Format("2006-01-02"),
		Source:  cfg.Source.Path,
		Sheet:   cfg.Source.Sheet,
		Content: layout.Content,
		Outputs: result.Outputs,
	}

	// --- Phase 4: Reporting ---
	if cfg.Report.Enabled {
		logger.Info("Phase 4: Writing run report...")
		reportBar := pipeline.NextPhase(2)

		manifestPath := filepath.Join(cfg.Output.Dir, report.ManifestFileName)
		if err := report.WriteManifest(manifestPath, summary, cfg.Report.ManifestEncoding); err != nil {
			return err
		}
		step(reportBar)

		wordPath := filepath.Join(cfg.Output.Dir, report.WordFileName)
		if err := report.WriteWord(wordPath, summary, cfg.Report.Template); err != nil {
			return err
		}
		step(reportBar)
	}

	pipeline.Finish()
	pipeline.PrintSummary(fmt.Sprintf("\nWrote %d documents to %s", result.Count(), cfg.Output.Dir))
	logger.InfoClean("%s", summary.Text())

	return nil
}

// splitProgress moves the pipeline from Grouping to Writing once the
// assembler reports the groups
type splitProgress struct {
	pipeline *ui.Pipeline
	grouping *ui.ProgressBar
	writing  *ui.ProgressBar
}

func (p *splitProgress) Grouped(groups []model.Group) {
	step(p.grouping)
	logger.Info("Found %d groups", len(groups))
	for _, g := range groups {
		logger.Debug("  %s -> %s", g.Label(), g.Region)
	}

	logger.Info("Phase 3: Writing documents...")
	p.writing = p.pipeline.NextPhase(len(groups))
}

func (p *splitProgress) SetTotal(total int) {
	p.writing.SetTotal(total)
}

func (p *splitProgress) Describe(description string) {
	p.writing.Describe(description)
}

func (p *splitProgress) Increment() error {
	return p.writing.Increment()
}

// step advances a bar; a broken display is not worth failing the run
func step(bar *ui.ProgressBar) {
	if err := bar.Increment(); err != nil {
		logger.Debug("Progress update failed: %v", err)
	}
}

// describeError turns the error kind into a hint for the operator
func describeError(err error) string {
	var (
		addrErr  *model.AddressParseError
		dataErr  *model.DataIntegrityError
		sheetErr *model.SheetNotFoundError
		hostErr  *model.HostIOError
	)
	switch {
	case errors.As(err, &addrErr):
		return "Check the region and anchor settings."
	case errors.As(err, &dataErr):
		return "Check the name and ref columns of the source sheet."
	case errors.As(err, &sheetErr):
		return fmt.Sprintf("Available sheets: %v", sheetErr.Available)
	case errors.As(err, &hostErr):
		return "Check that the files are not open in another program. Details are in " + logger.GetLogFilePath()
	}
	return "See " + logger.GetLogFilePath() + " for details."
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                      SITE SPLIT v1.0.0                    ║
║         One Workbook per Site from a Report Sheet         ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}
