package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/cwbudde/spectrum-eq/dsp/eq"
	"github.com/cwbudde/spectrum-eq/dsp/eq/processor"
	"github.com/cwbudde/spectrum-eq/internal/config"
	"github.com/cwbudde/spectrum-eq/internal/logging"
	"github.com/cwbudde/spectrum-eq/internal/presets"
)

// commonFlags are accepted by every command.
type commonFlags struct {
	configPath string
	preset     string
	sets       []string
}

// env is the state shared by the command implementations.
type env struct {
	cfg    config.Config
	log    zerolog.Logger
	params *eq.Parameters
	stdout io.Writer
}

// flagKeys maps flag names onto configuration keys.
var flagKeys = map[string]string{
	"log-level":   "log.level",
	"block-size":  "audio.block_size",
	"sample-rate": "audio.sample_rate",
	"alignment":   "eq.cut_alignment",
	"presets":     "presets.path",
	"width":       "analyzer.width",
	"height":      "analyzer.height",
}

func newFlagSet(name, args string, stderr io.Writer) (*pflag.FlagSet, *commonFlags) {
	c := &commonFlags{}

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: speq %s [flags] %s\n\nFlags:\n", name, args)
		fs.PrintDefaults()
	}

	fs.StringVarP(&c.configPath, "config", "c", "", "configuration file (yaml or toml)")
	fs.StringVarP(&c.preset, "preset", "p", "", "start from a stored preset")
	fs.StringArrayVarP(&c.sets, "set", "s", nil, `set a parameter, e.g. "Low Peak Gain=3" (repeatable)`)
	fs.String("log-level", "info", "log level")
	fs.Int("block-size", 512, "processing block size in frames")
	fs.Int("sample-rate", 48000, "sample rate when no input file is given")
	fs.String("alignment", eq.AlignButterworth.String(), "cut filter alignment: butterworth or stacked")
	fs.String("presets", "speq-presets.db", "preset database")
	fs.Int("width", 120, "plot width in columns")
	fs.Int("height", 24, "plot height in rows")

	return fs, c
}

// setup loads the configuration with the parsed flags layered on top and
// builds the parameter set.
func (c *commonFlags) setup(fs *pflag.FlagSet, stdout, stderr io.Writer) (*env, error) {
	v := config.New()
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, fmt.Errorf("bind --%s: %w", name, err)
		}
	}

	if c.configPath != "" {
		v.SetConfigFile(c.configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", c.configPath, err)
		}
	}

	cfg, err := config.Decode(v)
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:    cfg,
		log:    logging.NewWithWriter(cfg.Log, stderr),
		params: eq.NewParameters(),
		stdout: stdout,
	}

	if c.preset != "" {
		store, err := e.openStore()
		if err != nil {
			return nil, err
		}
		defer store.Close()

		if err := store.LoadInto(c.preset, e.params); err != nil {
			return nil, err
		}
	}

	if err := applyAssignments(e.params, c.sets); err != nil {
		return nil, err
	}

	return e, nil
}

func (e *env) openStore() (*presets.Store, error) {
	return presets.Open(e.cfg.Presets.Path, presets.WithLogger(logging.Component(e.log, "presets")))
}

func (e *env) newProcessor() (*processor.Processor, error) {
	opts := append(e.cfg.ProcessorOptions(), processor.WithLogger(logging.Component(e.log, "processor")))
	return processor.New(e.params, opts...)
}

func (e *env) newAnalyzer(p *processor.Processor) (*processor.Analyzer, error) {
	return processor.NewAnalyzer(p, e.cfg.ProcessorAnalyzer(),
		processor.WithAnalyzerLogger(logging.Component(e.log, "analyzer")))
}

// applyAssignments sets parameters from "ID=value" strings. Slopes accept
// "24" or "24 dB/Oct", toggles accept anything strconv.ParseBool does plus
// on and off.
func applyAssignments(params *eq.Parameters, sets []string) error {
	for _, s := range sets {
		i := strings.LastIndex(s, "=")
		if i < 0 {
			return fmt.Errorf("%w: --set %q: want ID=value", errUsage, s)
		}

		id, raw := strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])

		p, ok := params.Get(id)
		if !ok {
			return fmt.Errorf("%w: %q", eq.ErrUnknownParameter, id)
		}

		v, err := parseValue(p, raw)
		if err != nil {
			return fmt.Errorf("--set %q: %w", s, err)
		}

		p.Set(v)
	}

	return nil
}

func parseValue(p *eq.Parameter, raw string) (float64, error) {
	switch p.Kind {
	case eq.KindChoice:
		slope, err := eq.ParseSlope(raw)
		if err != nil {
			return 0, err
		}

		return float64(slope), nil
	case eq.KindBool:
		switch strings.ToLower(raw) {
		case "on":
			return 1, nil
		case "off":
			return 0, nil
		}

		b, err := strconv.ParseBool(raw)
		if err != nil {
			return 0, err
		}

		if b {
			return 1, nil
		}

		return 0, nil
	default:
		return strconv.ParseFloat(raw, 64)
	}
}
