// Package config loads bookconv settings from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/brainrot-publishing/bookconv/internal/fileutil"
	"github.com/brainrot-publishing/bookconv/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidWorkers  = errors.New("invalid workers value")
)

// Field length limits.
const (
	MaxToolPathLength  = 4096
	MaxEngineLength    = 32
	MaxTitleLength     = 300
	MaxNameLength      = 200
	MaxDateLength      = 40
	MaxLanguageLength  = 35 // BCP 47 upper bound in practice
	MaxPublisherLength = 200
	MaxMetadataEntries = 32
	MaxMetadataKey     = 64
	MaxMetadataValue   = 500
	MaxWorkers         = 32
)

// appDirName is the directory under os.UserConfigDir() searched for named configs.
const appDirName = "bookconv"

// Config holds everything the CLI needs to convert a book.
type Config struct {
	Tools   ToolsConfig  `yaml:"tools"`
	Output  OutputConfig `yaml:"output"`
	Book    BookConfig   `yaml:"book"`
	Workers int          `yaml:"workers"` // 0 = derive from GOMAXPROCS
	TempDir string       `yaml:"tempDir"` // empty = os.TempDir()
}

// ToolsConfig locates the external converters.
type ToolsConfig struct {
	Pandoc       string `yaml:"pandoc"`       // default "pandoc"
	EbookConvert string `yaml:"ebookConvert"` // default "ebook-convert"
	PDFEngine    string `yaml:"pdfEngine"`    // default "xelatex"
}

// OutputConfig defines where and what to produce.
type OutputConfig struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"` // text, epub, pdf, kindle
}

// BookConfig carries bibliographic defaults.
// Values are still sanitized before reaching a converter.
type BookConfig struct {
	Title     string            `yaml:"title"`
	Author    string            `yaml:"author"`
	Date      string            `yaml:"date"` // "auto" or "auto:FORMAT" allowed
	Language  string            `yaml:"language"`
	Publisher string            `yaml:"publisher"`
	Metadata  map[string]string `yaml:"metadata"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Tools: ToolsConfig{
			Pandoc:       "pandoc",
			EbookConvert: "ebook-convert",
			PDFEngine:    "xelatex",
		},
		Output: OutputConfig{
			Dir:     "generated",
			Formats: []string{"text"},
		},
	}
}

// Validate checks field lengths and numeric ranges.
// Called by LoadConfig; also usable on configs built in code.
func (c *Config) Validate() error {
	checks := []struct {
		field string
		value string
		max   int
	}{
		{"tools.pandoc", c.Tools.Pandoc, MaxToolPathLength},
		{"tools.ebookConvert", c.Tools.EbookConvert, MaxToolPathLength},
		{"tools.pdfEngine", c.Tools.PDFEngine, MaxEngineLength},
		{"output.dir", c.Output.Dir, MaxToolPathLength},
		{"tempDir", c.TempDir, MaxToolPathLength},
		{"book.title", c.Book.Title, MaxTitleLength},
		{"book.author", c.Book.Author, MaxNameLength},
		{"book.date", c.Book.Date, MaxDateLength},
		{"book.language", c.Book.Language, MaxLanguageLength},
		{"book.publisher", c.Book.Publisher, MaxPublisherLength},
	}
	for _, chk := range checks {
		if err := validateFieldLength(chk.field, chk.value, chk.max); err != nil {
			return err
		}
	}

	if len(c.Book.Metadata) > MaxMetadataEntries {
		return fmt.Errorf("%w: book.metadata (%d entries, max %d)", ErrFieldTooLong, len(c.Book.Metadata), MaxMetadataEntries)
	}
	keys := make([]string, 0, len(c.Book.Metadata))
	for k := range c.Book.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := validateFieldLength("book.metadata key", k, MaxMetadataKey); err != nil {
			return err
		}
		if err := validateFieldLength("book.metadata."+k, c.Book.Metadata[k], MaxMetadataValue); err != nil {
			return err
		}
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: %d (must be between 0 and %d)", ErrInvalidWorkers, c.Workers, MaxWorkers)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// NotFoundError lists the locations searched for a named config.
type NotFoundError struct {
	Name  string
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s (tried %s)", ErrConfigNotFound, e.Name, strings.Join(e.Tried, ", "))
}

// Is reports ErrConfigNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrConfigNotFound }

// LoadConfig loads configuration from a file path or config name.
// Names are searched as <name>.yaml / <name>.yml in the current directory,
// then in <UserConfigDir>/bookconv/. Fields absent from the file keep
// DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeFile(configPath, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Name: nameOrPath, Tried: []string{configPath}}
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	tried := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		local := name + ext
		if fileutil.FileExists(local) {
			return local, nil
		}
		tried = append(tried, local)
	}

	if userDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			p := filepath.Join(userDir, appDirName, name+ext)
			if fileutil.FileExists(p) {
				return p, nil
			}
			tried = append(tried, p)
		}
	}

	return "", &NotFoundError{Name: name, Tried: tried}
}
