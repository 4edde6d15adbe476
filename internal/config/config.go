// Package config loads the speq configuration from defaults, an optional
// YAML or TOML file and SPEQ_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cwbudde/spectrum-eq/dsp/eq"
	"github.com/cwbudde/spectrum-eq/dsp/eq/processor"
	"github.com/cwbudde/spectrum-eq/dsp/spectrum"
	"github.com/cwbudde/spectrum-eq/dsp/window"
	"github.com/cwbudde/spectrum-eq/internal/logging"
)

// EnvPrefix is the prefix of environment overrides, e.g. SPEQ_AUDIO_SAMPLE_RATE.
const EnvPrefix = "SPEQ"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Config is the full command configuration.
type Config struct {
	Audio    AudioConfig    `mapstructure:"audio"`
	Analyzer AnalyzerConfig `mapstructure:"analyzer"`
	EQ       EQConfig       `mapstructure:"eq"`
	Log      logging.Config `mapstructure:"log"`
	Presets  PresetsConfig  `mapstructure:"presets"`
}

type AudioConfig struct {
	SampleRate int `mapstructure:"sample_rate"`
	BlockSize  int `mapstructure:"block_size"`
	// LatencyMS is the playback buffer length.
	LatencyMS int `mapstructure:"latency_ms"`
}

type AnalyzerConfig struct {
	FFTOrder   int     `mapstructure:"fft_order"`
	Window     string  `mapstructure:"window"`
	FloorDB    float64 `mapstructure:"floor_db"`
	MinDB      float64 `mapstructure:"min_db"`
	MaxDB      float64 `mapstructure:"max_db"`
	DecayDB    float64 `mapstructure:"decay_db"`
	Hop        int     `mapstructure:"hop"`
	FIFOBlocks int     `mapstructure:"fifo_blocks"`
	Width      int     `mapstructure:"width"`
	Height     int     `mapstructure:"height"`
	RefreshHz  float64 `mapstructure:"refresh_hz"`
}

type EQConfig struct {
	CutAlignment string `mapstructure:"cut_alignment"`
}

type PresetsConfig struct {
	Path string `mapstructure:"path"`
}

// SetDefaults installs the default tree on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("audio.sample_rate", 48000)
	v.SetDefault("audio.block_size", 512)
	v.SetDefault("audio.latency_ms", 50)

	v.SetDefault("analyzer.fft_order", int(spectrum.Order2048))
	v.SetDefault("analyzer.window", "blackman-harris")
	v.SetDefault("analyzer.floor_db", spectrum.DefaultFloorDB)
	v.SetDefault("analyzer.min_db", -48.0)
	v.SetDefault("analyzer.max_db", 6.0)
	v.SetDefault("analyzer.decay_db", 0.0)
	v.SetDefault("analyzer.hop", 0)
	v.SetDefault("analyzer.fifo_blocks", 32)
	v.SetDefault("analyzer.width", 120)
	v.SetDefault("analyzer.height", 24)
	v.SetDefault("analyzer.refresh_hz", 60.0)

	v.SetDefault("eq.cut_alignment", eq.AlignButterworth.String())

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.caller", false)

	v.SetDefault("presets.path", "speq-presets.db")
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads path (if not empty) into a fresh viper instance and decodes
// the result.
func Load(path string) (Config, error) {
	v := New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	return Decode(v)
}

// Decode unmarshals and validates the settings held by v.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Audio.SampleRate <= 0:
		return fmt.Errorf("%w: audio.sample_rate %d", ErrInvalid, c.Audio.SampleRate)
	case c.Audio.BlockSize <= 0:
		return fmt.Errorf("%w: audio.block_size %d", ErrInvalid, c.Audio.BlockSize)
	case c.Analyzer.MaxDB <= c.Analyzer.MinDB:
		return fmt.Errorf("%w: analyzer.max_db must exceed min_db", ErrInvalid)
	case c.Analyzer.Width <= 0 || c.Analyzer.Height <= 0:
		return fmt.Errorf("%w: analyzer size %dx%d", ErrInvalid, c.Analyzer.Width, c.Analyzer.Height)
	}

	if _, err := window.Parse(c.Analyzer.Window); err != nil {
		return fmt.Errorf("%w: analyzer.window: %w", ErrInvalid, err)
	}

	if _, err := eq.ParseCutAlignment(c.EQ.CutAlignment); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// CutAlignment returns the parsed cut alignment.
func (c Config) CutAlignment() eq.CutAlignment {
	a, _ := eq.ParseCutAlignment(c.EQ.CutAlignment)
	return a
}

// ProcessorAnalyzer converts the analyzer section for the processor package.
func (c Config) ProcessorAnalyzer() processor.AnalyzerConfig {
	w, _ := window.Parse(c.Analyzer.Window)

	return processor.AnalyzerConfig{
		Order:   spectrum.FFTOrder(c.Analyzer.FFTOrder),
		Window:  w,
		FloorDB: c.Analyzer.FloorDB,
		Hop:     c.Analyzer.Hop,
		Path: spectrum.PathConfig{
			MinFreq:         20,
			MaxFreq:         20000,
			MinDB:           c.Analyzer.MinDB,
			MaxDB:           c.Analyzer.MaxDB,
			DecayDBPerFrame: c.Analyzer.DecayDB,
		},
	}
}

// Bounds returns the display rectangle of the text renderer.
func (c Config) Bounds() spectrum.Bounds {
	return spectrum.Bounds{Width: float64(c.Analyzer.Width), Height: float64(c.Analyzer.Height)}
}

// ProcessorOptions returns the options for processor.New.
func (c Config) ProcessorOptions() []processor.Option {
	return []processor.Option{
		processor.WithCutAlignment(c.CutAlignment()),
		processor.WithFIFOBlocks(c.Analyzer.FIFOBlocks),
	}
}
