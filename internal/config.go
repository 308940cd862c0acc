package internal

import (
	"fmt"
	"log/slog"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/sowilo/internal/feed"
	"github.com/starford/sowilo/internal/vault"
)

// Log formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Vault  VaultConfig       `yaml:"vault"`
	Output OutputConfig      `yaml:"output"`
	Site   SiteConfig        `yaml:"site"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Vault.Validate(); err != nil {
		return fmt.Errorf("vault: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if err := c.Site.Validate(); err != nil {
		return fmt.Errorf("site: %w", err)
	}
	if err := c.SQLite.Validate(); err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	return nil
}

// Driver returns the batch driver settings.
func (c *Config) Driver() vault.Config {
	return vault.Config{
		VaultPath:    c.Vault.Path,
		BlogFolder:   c.Vault.BlogFolder,
		AssetsFolder: c.Vault.AssetsFolder,
		ContentDir:   c.Output.ContentDir,
		ImagesDir:    c.Output.ImagesDir,
	}
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
	HTTP      HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatJSON, LogFormatText)),
	); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// VaultConfig locates the Obsidian vault and its blog folders. The folders
// are relative to Path.
type VaultConfig struct {
	Path         string `yaml:"path"`
	BlogFolder   string `yaml:"blog_folder"`
	AssetsFolder string `yaml:"assets_folder"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.BlogFolder, validation.Required),
		validation.Field(&c.AssetsFolder, validation.Required),
	)
}

// OutputConfig holds the build output directories.
type OutputConfig struct {
	ContentDir string `yaml:"content_dir"`
	ImagesDir  string `yaml:"images_dir"`
	PublicDir  string `yaml:"public_dir"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ContentDir, validation.Required),
		validation.Field(&c.ImagesDir, validation.Required),
		validation.Field(&c.PublicDir, validation.Required),
	)
}

// SiteConfig holds the metadata feeds and the sitemap are stamped with.
type SiteConfig struct {
	BaseURL     string `yaml:"base_url"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Title, validation.Required),
	)
}

// Feed converts the site config for the feed package.
func (c *SiteConfig) Feed() feed.Site {
	return feed.Site{
		BaseURL:     c.BaseURL,
		Title:       c.Title,
		Description: c.Description,
		Author:      c.Author,
	}
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
// VAULT_PATH, when set, overrides the vault location.
func NewDefaultConfig() *Config {
	vaultPath := os.Getenv("VAULT_PATH")
	if vaultPath == "" {
		vaultPath = "./obsidian-vault"
	}
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatJSON,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Vault: VaultConfig{
			Path:         vaultPath,
			BlogFolder:   "Blog",
			AssetsFolder: "Blog/assets",
		},
		Output: OutputConfig{
			ContentDir: "./content",
			ImagesDir:  "./public/blog-images",
			PublicDir:  "./public",
		},
		Site: SiteConfig{
			BaseURL: "http://localhost:3000/",
			Title:   "Blog",
		},
		SQLite: SQLiteConfig{
			Path: "./sowilo.db",
		},
	}
}
