// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Browser  BrowserConfig  `mapstructure:"browser" yaml:"browser"`
	Platform PlatformConfig `mapstructure:"platform" yaml:"platform"`
	Behavior BehaviorConfig `mapstructure:"behavior" yaml:"behavior"`
	Events   EventsConfig   `mapstructure:"events" yaml:"events"`
	Accounts AccountsConfig `mapstructure:"accounts" yaml:"accounts"`
	Lists    ListsConfig    `mapstructure:"lists" yaml:"lists"`
	Avatar   AvatarConfig   `mapstructure:"avatar" yaml:"avatar"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig holds settings for the controlled browser instance.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	UserAgent         string        `mapstructure:"user_agent" yaml:"user_agent"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	// CloseGraceDelay is how long the session lingers before the browser
	// handle is torn down, so in-flight platform requests can settle.
	CloseGraceDelay time.Duration `mapstructure:"close_grace_delay" yaml:"close_grace_delay"`
}

// PlatformConfig describes the target platform's entry points.
type PlatformConfig struct {
	Name         string `mapstructure:"name" yaml:"name"`
	BaseURL      string `mapstructure:"base_url" yaml:"base_url"`
	ExploreURL   string `mapstructure:"explore_url" yaml:"explore_url"`
	ReelsURL     string `mapstructure:"reels_url" yaml:"reels_url"`
	DMComposeURL string `mapstructure:"dm_compose_url" yaml:"dm_compose_url"`
	CookieDomain string `mapstructure:"cookie_domain" yaml:"cookie_domain"`
}

// BehaviorConfig tunes the probabilistic micro-behavior of browse actions.
// The probabilities are independent per loop iteration.
type BehaviorConfig struct {
	OpenPostChance    float64 `mapstructure:"open_post_chance" yaml:"open_post_chance"`
	LikeChance        float64 `mapstructure:"like_chance" yaml:"like_chance"`
	CommentOpenChance float64 `mapstructure:"comment_open_chance" yaml:"comment_open_chance"`
	AutoCommentChance float64 `mapstructure:"auto_comment_chance" yaml:"auto_comment_chance"`
	SwitchURLChance   float64 `mapstructure:"switch_url_chance" yaml:"switch_url_chance"`

	ScrollMinPx    int `mapstructure:"scroll_min_px" yaml:"scroll_min_px"`
	ScrollMaxPx    int `mapstructure:"scroll_max_px" yaml:"scroll_max_px"`
	ScrollMinSteps int `mapstructure:"scroll_min_steps" yaml:"scroll_min_steps"`
	ScrollMaxSteps int `mapstructure:"scroll_max_steps" yaml:"scroll_max_steps"`

	// Browse duration draw: the upper bound is picked uniformly from
	// [BrowseCapMin, BrowseCapMax], then the actual duration uniformly from
	// [BrowseFloor, bound].
	BrowseFloor  time.Duration `mapstructure:"browse_floor" yaml:"browse_floor"`
	BrowseCapMin time.Duration `mapstructure:"browse_cap_min" yaml:"browse_cap_min"`
	BrowseCapMax time.Duration `mapstructure:"browse_cap_max" yaml:"browse_cap_max"`
}

// EventsConfig points at the external observability sink.
type EventsConfig struct {
	Endpoint string        `mapstructure:"endpoint" yaml:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Source   string        `mapstructure:"source" yaml:"source"`
}

// AccountsConfig locates the external account store.
type AccountsConfig struct {
	Path     string `mapstructure:"path" yaml:"path"`
	Platform string `mapstructure:"platform" yaml:"platform"`
}

// ListsConfig locates the operator-curated text lists.
type ListsConfig struct {
	SafeComments string `mapstructure:"safe_comments" yaml:"safe_comments"`
	DMTargets    string `mapstructure:"dm_targets" yaml:"dm_targets"`
	DMMessages   string `mapstructure:"dm_messages" yaml:"dm_messages"`
}

// AvatarConfig configures the profile-picture scraping utility.
type AvatarConfig struct {
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "instaflow-cli")
	v.SetDefault("logger.log_file", "instaflow.log")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.user_agent", "")
	v.SetDefault("browser.navigation_timeout", "90s")
	v.SetDefault("browser.close_grace_delay", "2s")

	// -- Platform --
	v.SetDefault("platform.name", "Instagram")
	v.SetDefault("platform.base_url", "https://www.instagram.com/")
	v.SetDefault("platform.explore_url", "https://www.instagram.com/explore/")
	v.SetDefault("platform.reels_url", "https://www.instagram.com/reels/")
	v.SetDefault("platform.dm_compose_url", "https://www.instagram.com/direct/new/")
	v.SetDefault("platform.cookie_domain", ".instagram.com")

	// -- Behavior --
	v.SetDefault("behavior.open_post_chance", 0.25)
	v.SetDefault("behavior.like_chance", 0.20)
	v.SetDefault("behavior.comment_open_chance", 0.08)
	v.SetDefault("behavior.auto_comment_chance", 0.03)
	v.SetDefault("behavior.switch_url_chance", 0.25)
	v.SetDefault("behavior.scroll_min_px", 200)
	v.SetDefault("behavior.scroll_max_px", 800)
	v.SetDefault("behavior.scroll_min_steps", 1)
	v.SetDefault("behavior.scroll_max_steps", 3)
	v.SetDefault("behavior.browse_floor", "30s")
	v.SetDefault("behavior.browse_cap_min", "120s")
	v.SetDefault("behavior.browse_cap_max", "300s")

	// -- Events --
	v.SetDefault("events.endpoint", "http://127.0.0.1:3000/api/events")
	v.SetDefault("events.timeout", "5s")
	v.SetDefault("events.source", "automation_worker")

	// -- Accounts --
	v.SetDefault("accounts.path", "accounts.toml")
	v.SetDefault("accounts.platform", "IG")

	// -- Lists --
	v.SetDefault("lists.safe_comments", "data/ig_safe_comments.txt")
	v.SetDefault("lists.dm_targets", "data/ig_dm_targets.txt")
	v.SetDefault("lists.dm_messages", "data/ig_dm_messages.txt")

	// -- Avatar --
	v.SetDefault("avatar.output_dir", "avatars")
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Platform.BaseURL == "" {
		return fmt.Errorf("platform.base_url is a required configuration field")
	}
	if c.Events.Endpoint == "" {
		return fmt.Errorf("events.endpoint is a required configuration field")
	}
	if c.Events.Timeout <= 0 {
		return fmt.Errorf("events.timeout must be a positive duration")
	}
	return c.Behavior.Validate()
}

// Validate checks the behavior tuning parameters.
func (b *BehaviorConfig) Validate() error {
	for name, p := range map[string]float64{
		"open_post_chance":    b.OpenPostChance,
		"like_chance":         b.LikeChance,
		"comment_open_chance": b.CommentOpenChance,
		"auto_comment_chance": b.AutoCommentChance,
		"switch_url_chance":   b.SwitchURLChance,
	} {
		if p < 0.0 || p > 1.0 {
			return fmt.Errorf("behavior.%s must be between 0.0 and 1.0", name)
		}
	}
	if b.ScrollMinPx <= 0 || b.ScrollMaxPx < b.ScrollMinPx {
		return fmt.Errorf("behavior scroll pixel bounds must satisfy 0 < min <= max")
	}
	if b.ScrollMinSteps <= 0 || b.ScrollMaxSteps < b.ScrollMinSteps {
		return fmt.Errorf("behavior scroll step bounds must satisfy 0 < min <= max")
	}
	if b.BrowseFloor <= 0 {
		return fmt.Errorf("behavior.browse_floor must be a positive duration")
	}
	if b.BrowseCapMin < b.BrowseFloor || b.BrowseCapMax < b.BrowseCapMin {
		return fmt.Errorf("behavior browse cap range must satisfy floor <= cap_min <= cap_max")
	}
	return nil
}
