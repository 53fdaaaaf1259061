package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName = "constellations"
	envPrefix  = "CONSTELLATIONS"
)

// WindowConfig sizes the host window.
type WindowConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
	TPS    int `mapstructure:"tps"`
}

type PrefsConfig struct {
	Path string `mapstructure:"path"`
}

type AudioConfig struct {
	SampleRate int `mapstructure:"sampleRate"`
}

// NebulaConfig locates the optional backdrop texture. Source is a file path
// or an http(s) URL; Watch reloads a local file when it changes.
type NebulaConfig struct {
	Source string `mapstructure:"source"`
	Watch  bool   `mapstructure:"watch"`
}

type SceneConfig struct {
	Spread          float32 `mapstructure:"spread"`
	SparkleCount    int     `mapstructure:"sparkleCount"`
	SparkleSpread   float32 `mapstructure:"sparkleSpread"`
	AutoRotateSpeed float32 `mapstructure:"autoRotateSpeed"`
	Seed            int64   `mapstructure:"seed"`
	// RenderMode is "flat" or "wireframe".
	RenderMode string `mapstructure:"renderMode"`
}

// HeadlessConfig is the screen size reported when no monitor exists.
type HeadlessConfig struct {
	ScreenWidth  int `mapstructure:"screenWidth"`
	ScreenHeight int `mapstructure:"screenHeight"`
}

// Settings is the full application configuration.
type Settings struct {
	LogLevel string         `mapstructure:"logLevel"`
	Window   WindowConfig   `mapstructure:"window"`
	Prefs    PrefsConfig    `mapstructure:"prefs"`
	Audio    AudioConfig    `mapstructure:"audio"`
	Nebula   NebulaConfig   `mapstructure:"nebula"`
	Scene    SceneConfig    `mapstructure:"scene"`
	Headless HeadlessConfig `mapstructure:"headless"`
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("window.width", 960)
	viper.SetDefault("window.height", 640)
	viper.SetDefault("window.tps", 60)

	viper.SetDefault("prefs.path", "constellations.db")

	viper.SetDefault("audio.sampleRate", 44100)

	viper.SetDefault("nebula.source", "nebula.png")
	viper.SetDefault("nebula.watch", false)

	viper.SetDefault("scene.spread", 60.0)
	viper.SetDefault("scene.sparkleCount", 1000)
	viper.SetDefault("scene.sparkleSpread", 500.0)
	viper.SetDefault("scene.autoRotateSpeed", 1.0)
	viper.SetDefault("scene.seed", 0)
	viper.SetDefault("scene.renderMode", "flat")

	viper.SetDefault("headless.screenWidth", 1920)
	viper.SetDefault("headless.screenHeight", 1080)
}

// Load sets defaults and reads the optional config file. path is either a
// directory holding constellations.yaml or the path of a config file.
// A missing file in a directory is not an error.
func Load(path string) error {
	SetDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" && filepath.Ext(path) != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
		return nil
	}

	if path == "" {
		path = "."
	}
	viper.SetConfigName(configName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Current unmarshals the loaded configuration.
func Current() (Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return Settings{}, fmt.Errorf("invalid window size %dx%d", s.Window.Width, s.Window.Height)
	}
	if s.Window.TPS <= 0 {
		return Settings{}, fmt.Errorf("invalid tps %d", s.Window.TPS)
	}
	return s, nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// BindFlag lets a command-line flag override key when the flag is set.
func BindFlag(key string, f *pflag.Flag) error {
	if f == nil {
		return fmt.Errorf("no flag for %s", key)
	}
	return viper.BindPFlag(key, f)
}
