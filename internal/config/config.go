package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/yildizm/AIDetect/internal/detect"
)

// Config holds the complete application configuration
type Config struct {
	Version string       `yaml:"version" json:"version"`
	Server  ServerConfig `yaml:"server" json:"server"`
	Upload  UploadConfig `yaml:"upload" json:"upload"`
	Output  OutputConfig `yaml:"output" json:"output"`
}

// ServerConfig locates the analysis service
type ServerConfig struct {
	BaseURL         string        `yaml:"base_url" json:"base_url"`
	UploadPath      string        `yaml:"upload_path" json:"upload_path"`
	AnalyzeTextPath string        `yaml:"analyze_text_path" json:"analyze_text_path"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout"` // 0 waits for the service indefinitely
}

// UploadConfig controls file packaging
type UploadConfig struct {
	ImageExtensions []string `yaml:"image_extensions" json:"image_extensions"` // reveal OCR options
	OCRModel        string   `yaml:"ocr_model" json:"ocr_model"`               // printed|handwritten
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown|csv
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Theme         string `yaml:"theme" json:"theme"`                   // default|high-contrast|minimal
	Verbose       bool   `yaml:"verbose" json:"verbose"`
	ShowChart     bool   `yaml:"show_chart" json:"show_chart"`
	ChartWidth    int    `yaml:"chart_width" json:"chart_width"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			BaseURL:         "http://localhost:5001",
			UploadPath:      "/upload",
			AnalyzeTextPath: "/analyze_text",
			Timeout:         0,
		},
		Upload: UploadConfig{
			ImageExtensions: append([]string(nil), detect.DefaultImageExtensions...),
			OCRModel:        detect.OCRModelPrinted,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Theme:         "default",
			Verbose:       false,
			ShowChart:     true,
			ChartWidth:    40,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateServerConfig(); err != nil {
		return err
	}
	if err := c.validateUploadConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServerConfig() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server base_url is required")
	}
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid server base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server base_url must use http or https, got %q", u.Scheme)
	}
	if c.Server.UploadPath != "" && !strings.HasPrefix(c.Server.UploadPath, "/") {
		return fmt.Errorf("upload_path must start with /")
	}
	if c.Server.AnalyzeTextPath != "" && !strings.HasPrefix(c.Server.AnalyzeTextPath, "/") {
		return fmt.Errorf("analyze_text_path must start with /")
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	return nil
}

func (c *Config) validateUploadConfig() error {
	if c.Upload.OCRModel != "" {
		validModels := map[string]bool{
			detect.OCRModelPrinted:     true,
			detect.OCRModelHandwritten: true,
		}
		if !validModels[c.Upload.OCRModel] {
			return fmt.Errorf("invalid OCR model: %s (must be one of: printed, handwritten)", c.Upload.OCRModel)
		}
	}
	for _, ext := range c.Upload.ImageExtensions {
		if strings.TrimSpace(strings.TrimPrefix(ext, ".")) == "" {
			return fmt.Errorf("image_extensions must not contain empty entries")
		}
	}
	return nil
}

func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	if c.Output.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.Output.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.Output.Theme)
		}
	}
	if c.Output.ChartWidth < 0 {
		return fmt.Errorf("chart_width must be non-negative")
	}
	return nil
}

// UploadURL joins the base URL and the upload path
func (c *Config) UploadURL() string {
	return joinURL(c.Server.BaseURL, c.Server.UploadPath, "/upload")
}

// AnalyzeTextURL joins the base URL and the text analysis path
func (c *Config) AnalyzeTextURL() string {
	return joinURL(c.Server.BaseURL, c.Server.AnalyzeTextPath, "/analyze_text")
}

func joinURL(base, path, fallback string) string {
	if path == "" {
		path = fallback
	}
	return strings.TrimRight(base, "/") + path
}
