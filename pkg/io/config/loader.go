package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/devantler-tech/azdhooks/pkg/apis/lifecycle"
	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by the loader, e.g. AZDHOOKS_LOG_LEVEL.
const EnvPrefix = "AZDHOOKS"

// FileName is the base name of the configuration file (azdhooks.yaml).
const FileName = "azdhooks"

// fileExtensions are tried in order in each search path.
var fileExtensions = []string{"yaml", "yml"}

// Configuration keys.
const (
	KeyConfig          = "config"
	KeyLogLevel        = "log.level"
	KeyLogColor        = "log.color"
	KeyRunnerShell     = "runner.shell"
	KeyRunnerDir       = "runner.dir"
	KeyRunnerTimeout   = "runner.timeout"
	KeyRunnerMaxOutput = "runner.max_output"
)

// Flag names bound to configuration keys by BindFlags.
const (
	FlagConfig   = "config"
	FlagLogLevel = "log-level"
	FlagColor    = "color"
)

// ErrDuplicatePhase is returned when a file configures the same phase twice
// under different spellings, e.g. pre-provision and preprovision.
var ErrDuplicatePhase = errors.New("phase configured more than once")

// Loaded holds the merged configuration and the file it was read from.
type Loaded struct {
	Config *Config
	File   string // empty when no file was found
}

// SearchPaths returns the directories searched for azdhooks.yaml, in order.
func SearchPaths(baseDir string) []string {
	return []string{baseDir, filepath.Join(baseDir, "infra", "hooks")}
}

// NewViper returns a viper instance with defaults and AZDHOOKS_* environment bindings.
func NewViper() *viper.Viper {
	defaults := Default()

	v := viper.New()
	v.SetDefault(KeyConfig, "")
	v.SetDefault(KeyLogLevel, defaults.Log.Level)
	v.SetDefault(KeyLogColor, defaults.Log.Color)
	v.SetDefault(KeyRunnerShell, []string{})
	v.SetDefault(KeyRunnerDir, defaults.Runner.Dir)
	v.SetDefault(KeyRunnerTimeout, defaults.Runner.Timeout)
	v.SetDefault(KeyRunnerMaxOutput, defaults.Runner.MaxOutput)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// BindFlags binds the --config, --log-level and --color flags found in flags.
// Flags that are not defined are skipped.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := []struct {
		flag string
		key  string
	}{
		{flag: FlagConfig, key: KeyConfig},
		{flag: FlagLogLevel, key: KeyLogLevel},
		{flag: FlagColor, key: KeyLogColor},
	}

	for _, binding := range bindings {
		flag := flags.Lookup(binding.flag)
		if flag == nil {
			continue
		}

		err := v.BindPFlag(binding.key, flag)
		if err != nil {
			return fmt.Errorf("bind --%s: %w", binding.flag, err)
		}
	}

	return nil
}

// Load reads configuration for a hook running in baseDir.
// An explicitly configured file must exist; otherwise a missing file means defaults.
func Load(v *viper.Viper, baseDir string) (*Loaded, error) {
	explicit := v.GetString(KeyConfig)

	file := explicit
	if explicit != "" && !filepath.IsAbs(explicit) {
		file = filepath.Join(baseDir, explicit)
	}

	if explicit == "" {
		var err error

		file, err = findConfigFile(SearchPaths(baseDir))
		if err != nil {
			return nil, err
		}
	}

	if file != "" {
		v.SetConfigType("yaml")
		v.SetConfigFile(file)

		err := v.ReadInConfig()
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Default()

	err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if file != "" {
		cfg.Hooks, err = readHooks(file)
		if err != nil {
			return nil, err
		}
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &Loaded{Config: cfg, File: file}, nil
}

// findConfigFile returns the first azdhooks.yaml or azdhooks.yml found in
// dirs, or the empty string. Other files named azdhooks, such as the binary
// itself, are never matched.
func findConfigFile(dirs []string) (string, error) {
	for _, dir := range dirs {
		for _, ext := range fileExtensions {
			candidate := filepath.Join(dir, FileName+"."+ext)

			info, err := os.Stat(candidate)
			switch {
			case err == nil && info.Mode().IsRegular():
				return candidate, nil
			case err == nil, errors.Is(err, fs.ErrNotExist):
				continue
			default:
				return "", fmt.Errorf("stat %s: %w", candidate, err)
			}
		}
	}

	return "", nil
}

// hooksDocument mirrors the file layout so unknown top-level keys are rejected.
type hooksDocument struct {
	Log    yaml.Node             `yaml:"log"`
	Runner yaml.Node             `yaml:"runner"`
	Hooks  map[string]HookConfig `yaml:"hooks"`
}

// readHooks decodes the hooks section of file and normalises phase keys.
func readHooks(file string) (map[lifecycle.Phase]HookConfig, error) {
	data, err := os.ReadFile(file) //nolint:gosec // path comes from the user's own configuration
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var doc hooksDocument

	err = decoder.Decode(&doc)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, filepath.Base(file), err)
	}

	if len(doc.Hooks) == 0 {
		return nil, nil
	}

	hooks := make(map[lifecycle.Phase]HookConfig, len(doc.Hooks))

	for name, hook := range doc.Hooks {
		phase, err := lifecycle.ParsePhase(name)
		if err != nil {
			return nil, fmt.Errorf("%w: hooks: %w", ErrInvalidConfig, err)
		}

		if _, ok := hooks[phase]; ok {
			return nil, fmt.Errorf("%w: hooks: %w: %s", ErrInvalidConfig, ErrDuplicatePhase, phase)
		}

		hooks[phase] = hook
	}

	return hooks, nil
}
