package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// AppName names the config directories
const AppName = "aidetect"

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.aidetect.yaml",
	filepath.Join(xdg.ConfigHome, AppName, "config.yaml"),
	"/etc/aidetect/config.yaml",
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.aidetect.yaml
// 4. $XDG_CONFIG_HOME/aidetect/config.yaml
// 5. /etc/aidetect/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			path := expandPath(l.configPaths[i])
			if !fileExists(path) {
				continue
			}
			if err := l.loadFromFile(config, path); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", path, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated or comes from the fixed search list
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	// booleans can't be told apart from "unset" after unmarshaling, so look
	// at which keys the document actually carries
	var raw map[string]interface{}
	_ = yaml.Unmarshal(data, &raw)

	mergeConfigs(config, &fileConfig, raw)
	return nil
}

// applyEnvOverrides applies AIDETECT_* environment variables
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		"AIDETECT_SERVER_BASE_URL":          func(v string) error { config.Server.BaseURL = v; return nil },
		"AIDETECT_SERVER_UPLOAD_PATH":       func(v string) error { config.Server.UploadPath = v; return nil },
		"AIDETECT_SERVER_ANALYZE_TEXT_PATH": func(v string) error { config.Server.AnalyzeTextPath = v; return nil },
		"AIDETECT_SERVER_TIMEOUT":           func(v string) error { return parseDuration(v, &config.Server.Timeout) },

		"AIDETECT_UPLOAD_OCR_MODEL": func(v string) error { config.Upload.OCRModel = v; return nil },

		"AIDETECT_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"AIDETECT_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"AIDETECT_OUTPUT_THEME":          func(v string) error { config.Output.Theme = v; return nil },
		"AIDETECT_OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"AIDETECT_OUTPUT_SHOW_CHART":     func(v string) error { return parseBool(v, &config.Output.ShowChart) },
		"AIDETECT_OUTPUT_CHART_WIDTH":    func(v string) error { return parseInt(v, &config.Output.ChartWidth) },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	// comma-separated list
	if exts := os.Getenv("AIDETECT_UPLOAD_IMAGE_EXTENSIONS"); exts != "" {
		config.Upload.ImageExtensions = splitList(exts)
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/etc/passwd") ||
		strings.HasPrefix(absPath, "/etc/shadow") ||
		strings.HasPrefix(absPath, "/proc/") ||
		strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config.
// Only non-zero values from source overwrite destination; booleans are
// taken when their key is present in raw.
func mergeConfigs(dst, src *Config, raw map[string]interface{}) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeServerConfig(&dst.Server, &src.Server)
	mergeUploadConfig(&dst.Upload, &src.Upload)
	outputKeys, _ := raw["output"].(map[string]interface{})
	mergeOutputConfig(&dst.Output, &src.Output, outputKeys)
}

func mergeServerConfig(dst, src *ServerConfig) {
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.UploadPath != "" {
		dst.UploadPath = src.UploadPath
	}
	if src.AnalyzeTextPath != "" {
		dst.AnalyzeTextPath = src.AnalyzeTextPath
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
}

func mergeUploadConfig(dst, src *UploadConfig) {
	if len(src.ImageExtensions) > 0 {
		dst.ImageExtensions = src.ImageExtensions
	}
	if src.OCRModel != "" {
		dst.OCRModel = src.OCRModel
	}
}

func mergeOutputConfig(dst, src *OutputConfig, keys map[string]interface{}) {
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
	if src.ColorMode != "" {
		dst.ColorMode = src.ColorMode
	}
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	if src.ChartWidth != 0 {
		dst.ChartWidth = src.ChartWidth
	}
	mergeIfSet(&dst.Verbose, src.Verbose, keys, "verbose")
	mergeIfSet(&dst.ShowChart, src.ShowChart, keys, "show_chart")
}

func mergeIfSet(dst *bool, src bool, keys map[string]interface{}, key string) {
	if _, ok := keys[key]; ok {
		*dst = src
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
