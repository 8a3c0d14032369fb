package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"site-split/internal/model"
	"site-split/internal/paste"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	Regions RegionsConfig `mapstructure:"regions"`
	Columns ColumnsConfig `mapstructure:"columns"`
	Anchors AnchorsConfig `mapstructure:"anchors"`
	Paste   PasteConfig   `mapstructure:"paste"`
	Output  OutputConfig  `mapstructure:"output"`
	Report  ReportConfig  `mapstructure:"report"`
}

// SourceConfig locates the consolidated workbook
type SourceConfig struct {
	Path  string `mapstructure:"path"`  // Source .xlsx file
	Sheet string `mapstructure:"sheet"` // Sheet holding the three regions
}

// RegionsConfig holds the three source ranges (e.g. "R8:CE664")
type RegionsConfig struct {
	Introduction string `mapstructure:"introduction"`
	Header       string `mapstructure:"header"`
	Content      string `mapstructure:"content"`
}

// ColumnsConfig holds the two grouping columns as bare letters
type ColumnsConfig struct {
	Ref  string `mapstructure:"ref"`
	Name string `mapstructure:"name"`
}

// AnchorsConfig holds the destination cells of the three regions
type AnchorsConfig struct {
	Introduction string `mapstructure:"introduction"`
	Header       string `mapstructure:"header"`
	Content      string `mapstructure:"content"`
}

// PasteConfig selects how regions are transferred
type PasteConfig struct {
	Behavior     string `mapstructure:"behavior"`      // Name or code, see internal/paste
	ColumnWidths bool   `mapstructure:"column_widths"` // Also paste source column widths
}

// OutputConfig holds output settings
type OutputConfig struct {
	Dir string `mapstructure:"dir"` // Directory receiving one .xlsx per group
}

// ReportConfig controls the run summary written next to the outputs
type ReportConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	Template         string `mapstructure:"template"`          // Optional .docx template, built-in if empty
	ManifestEncoding string `mapstructure:"manifest_encoding"` // utf-8 or euc-kr
}

// Load reads the configuration from a file or uses defaults
// If configPath is empty, it looks for "config.yaml" in the current directory
// If the file doesn't exist, it uses the defaults of the district heating report
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath == "" {
		configPath = "config.yaml"
	}
	v.SetConfigFile(configPath)

	// Read config file (ignore error if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no such file") ||
			strings.Contains(err.Error(), "cannot find") {
			fmt.Println("==========================================")
			fmt.Println("Config file not found. Using defaults:")
			fmt.Println("  Source: ./report.xlsx [district]")
			fmt.Println("  Output: ./output")
			fmt.Println("==========================================")
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		fmt.Printf("Loaded config from: %s\n", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults configures default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("source.path", "./report.xlsx")
	v.SetDefault("source.sheet", "district")

	v.SetDefault("regions.introduction", "CH8:CZ56")
	v.SetDefault("regions.header", "R6:CE7")
	v.SetDefault("regions.content", "R8:CE664")

	v.SetDefault("columns.ref", "V")
	v.SetDefault("columns.name", "S")

	v.SetDefault("anchors.introduction", "B2")
	v.SetDefault("anchors.header", "B53")
	v.SetDefault("anchors.content", "B55")

	v.SetDefault("paste.behavior", paste.AllUsingSourceTheme.String())
	v.SetDefault("paste.column_widths", false)

	v.SetDefault("output.dir", "./output")

	v.SetDefault("report.enabled", true)
	v.SetDefault("report.template", "")
	v.SetDefault("report.manifest_encoding", "utf-8")
}

// normalizePaths converts relative paths to absolute paths
func (c *Config) normalizePaths() error {
	absSource, err := filepath.Abs(c.Source.Path)
	if err != nil {
		return fmt.Errorf("failed to resolve source.path: %w", err)
	}
	c.Source.Path = absSource

	absOutput, err := filepath.Abs(c.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output.dir: %w", err)
	}
	c.Output.Dir = absOutput

	if c.Report.Template != "" {
		absTemplate, err := filepath.Abs(c.Report.Template)
		if err != nil {
			return fmt.Errorf("failed to resolve report.template: %w", err)
		}
		c.Report.Template = absTemplate
	}

	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Layout is the parsed form of the region, column and anchor settings
type Layout struct {
	Introduction model.Address
	Header       model.Address
	Content      model.Address

	RefColumn  string
	NameColumn string

	IntroductionAnchor string
	HeaderAnchor       string
	ContentAnchor      string

	Behavior paste.Behavior
}

// Layout parses the address strings. Errors name the offending setting.
func (c *Config) Layout() (*Layout, error) {
	var (
		l   Layout
		err error
	)

	if l.Introduction, err = model.ParseAddress(c.Regions.Introduction); err != nil {
		return nil, fmt.Errorf("regions.introduction: %w", err)
	}
	if l.Header, err = model.ParseAddress(c.Regions.Header); err != nil {
		return nil, fmt.Errorf("regions.header: %w", err)
	}
	if l.Content, err = model.ParseAddress(c.Regions.Content); err != nil {
		return nil, fmt.Errorf("regions.content: %w", err)
	}

	if l.RefColumn, err = model.ParseColumn(c.Columns.Ref); err != nil {
		return nil, fmt.Errorf("columns.ref: %w", err)
	}
	if l.NameColumn, err = model.ParseColumn(c.Columns.Name); err != nil {
		return nil, fmt.Errorf("columns.name: %w", err)
	}

	if l.IntroductionAnchor, err = model.ParseCell(c.Anchors.Introduction); err != nil {
		return nil, fmt.Errorf("anchors.introduction: %w", err)
	}
	if l.HeaderAnchor, err = model.ParseCell(c.Anchors.Header); err != nil {
		return nil, fmt.Errorf("anchors.header: %w", err)
	}
	if l.ContentAnchor, err = model.ParseCell(c.Anchors.Content); err != nil {
		return nil, fmt.Errorf("anchors.content: %w", err)
	}

	if l.Behavior, err = paste.Parse(c.Paste.Behavior); err != nil {
		return nil, fmt.Errorf("paste.behavior: %w", err)
	}

	return &l, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := os.Stat(c.Source.Path); os.IsNotExist(err) {
		return fmt.Errorf("source.path does not exist: %s", c.Source.Path)
	}

	if strings.TrimSpace(c.Source.Sheet) == "" {
		return fmt.Errorf("source.sheet cannot be empty")
	}

	if _, err := c.Layout(); err != nil {
		return err
	}

	return nil
}

// Print displays the current configuration
func (c *Config) Print() {
	fmt.Println("=== Site Split Configuration ===")
	fmt.Printf("Source File:      %s\n", c.Source.Path)
	fmt.Printf("Source Sheet:     %s\n", c.Source.Sheet)
	fmt.Printf("Introduction:     %s -> %s\n", c.Regions.Introduction, c.Anchors.Introduction)
	fmt.Printf("Header:           %s -> %s\n", c.Regions.Header, c.Anchors.Header)
	fmt.Printf("Content:          %s -> %s\n", c.Regions.Content, c.Anchors.Content)
	fmt.Printf("Group Columns:    name=%s ref=%s\n", c.Columns.Name, c.Columns.Ref)
	fmt.Printf("Paste Behavior:   %s\n", c.Paste.Behavior)
	fmt.Printf("Output Directory: %s\n", c.Output.Dir)
	fmt.Println("================================")
}
