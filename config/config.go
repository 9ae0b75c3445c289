package config

import (
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/habiliai/svccontainer/container"
	"github.com/habiliai/svccontainer/errors"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

const (
	StrategyErased = "erased"
	StrategyClosed = "closed"

	StorageMap  = "map"
	StorageSync = "sync"

	EnvPrefix = "SVC_"
	Key       = "config"
)

type Config struct {
	LogLevel   string `yaml:"logLevel" mapstructure:"LOG_LEVEL"`
	LogHandler string `yaml:"logHandler" mapstructure:"LOG_HANDLER"`
	Strategy   string `yaml:"strategy" mapstructure:"STRATEGY"`
	Storage    string `yaml:"storage" mapstructure:"STORAGE"`
	JournalDSN string `yaml:"journalDsn" mapstructure:"JOURNAL_DSN"`
	Host       string `yaml:"host" mapstructure:"HOST"`
	Port       int    `yaml:"port" mapstructure:"PORT"`
}

func Default() *Config {
	return &Config{
		LogLevel:   "info",
		LogHandler: "default",
		Strategy:   StrategyErased,
		Storage:    StorageMap,
		JournalDSN: "svccontainer.db",
		Host:       "127.0.0.1",
		Port:       10080,
	}
}

func Load(file string) (*Config, error) {
	return LoadWithEnvFile(file, ".env")
}

// LoadWithEnvFile layers the defaults, the YAML file, the dotenv file and the
// process environment, later sources winning. Only SVC_ prefixed variables are
// read. Empty paths are skipped.
func LoadWithEnvFile(file string, envFile string) (*Config, error) {
	conf := Default()

	if file != "" {
		yamlBytes, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", file)
		}
		if err := yaml.Unmarshal(yamlBytes, conf); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal config file %s", file)
		}
	}

	env := map[string]string{}
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			dotenv, err := godotenv.Read(envFile)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to read env file %s", envFile)
			}
			env = dotenv
		}
	}
	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		env[k] = v
	}

	values := lo.MapKeys(
		lo.PickBy(env, func(k string, _ string) bool {
			return strings.HasPrefix(k, EnvPrefix)
		}),
		func(_ string, k string) string {
			return strings.TrimPrefix(k, EnvPrefix)
		},
	)

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           conf,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := decoder.Decode(values); err != nil {
		return nil, errors.Wrapf(err, "failed to decode environment")
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func (c *Config) Validate() error {
	if !lo.Contains([]string{StrategyErased, StrategyClosed}, c.Strategy) {
		return errors.Wrapf(errors.ErrInvalidConfig, "unknown strategy %q", c.Strategy)
	}
	if !lo.Contains([]string{StorageMap, StorageSync}, c.Storage) {
		return errors.Wrapf(errors.ErrInvalidConfig, "unknown storage %q", c.Storage)
	}
	if c.Port < 0 || c.Port > 65535 {
		return errors.Wrapf(errors.ErrInvalidConfig, "invalid port %d", c.Port)
	}
	return nil
}

func (c *Config) ContainerOptions() []container.Option {
	if c.Storage == StorageSync {
		return []container.Option{container.WithConcurrency()}
	}
	return nil
}

// Set makes conf available to builders under Key.
func Set(c *container.Erased, conf *Config) {
	container.Set(c, Key, conf)
}

// Get returns the configuration set on c, or the defaults when none was set.
func Get(c *container.Erased) *Config {
	return container.Build(c, Key, func(*container.Erased) *Config {
		return Default()
	})
}
