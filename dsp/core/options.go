package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSampleRate is returned for a non-positive or non-finite rate.
	ErrInvalidSampleRate = errors.New("sample rate must be a positive finite value")
	// ErrInvalidBlockSize is returned for a non-positive block size.
	ErrInvalidBlockSize = errors.New("block size must be > 0")
)

// ProcessorConfig defines the stream settings fixed at prepare time.
type ProcessorConfig struct {
	SampleRate   float64
	MaxBlockSize int
	Channels     int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the stereo 48 kHz defaults used when a host
// does not say otherwise.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:   48000,
		MaxBlockSize: 512,
		Channels:     2,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		cfg.SampleRate = sampleRate
	}
}

// WithBlockSize sets the maximum block size the host will deliver.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		cfg.MaxBlockSize = blockSize
	}
}

// WithChannels sets the channel count.
func WithChannels(channels int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if channels > 0 {
			cfg.Channels = channels
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate checks the config for values the processing path cannot handle.
func (c ProcessorConfig) Validate() error {
	if !(c.SampleRate > 0) || !IsFinite(c.SampleRate) {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, c.SampleRate)
	}

	if c.MaxBlockSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, c.MaxBlockSize)
	}

	return nil
}

// Nyquist returns half the sample rate.
func (c ProcessorConfig) Nyquist() float64 {
	return c.SampleRate / 2
}
