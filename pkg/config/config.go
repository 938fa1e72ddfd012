package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const envPrefix = "TECHNET_"

type Config struct {
	Environment string `koanf:"environment"`
	Hostname    string `koanf:"-"`

	ServerHost string `koanf:"server.host"`
	ServerPort int    `koanf:"server.port"`

	MongoURI               string        `koanf:"mongo.uri"`
	MongoDatabase          string        `koanf:"mongo.database"`
	MongoConnectTimeout    time.Duration `koanf:"mongo.connect_timeout"`
	MongoConnectRetryCount int           `koanf:"mongo.connect_retry_count"`
	MongoConnectRetryDelay time.Duration `koanf:"mongo.connect_retry_delay"`
}

// New loads the configuration from defaults, an optional YAML file named by
// TECHNET_CONFIG_FILE, and TECHNET_-prefixed environment variables, in that
// order of increasing precedence.
func New() (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{
		Environment:            "development",
		Hostname:               hostname,
		ServerHost:             "127.0.0.1",
		ServerPort:             5000,
		MongoURI:               "mongodb://localhost:27017",
		MongoDatabase:          "tech-net",
		MongoConnectTimeout:    10 * time.Second,
		MongoConnectRetryCount: 5,
		MongoConnectRetryDelay: 2 * time.Second,
	}

	k := koanf.New(".")

	if path := os.Getenv(envPrefix + "CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrap(err, "config file")
		}
	}

	err = k.Load(env.Provider(envPrefix, ".", func(s string) string {
		// TECHNET_MONGO_CONNECT_TIMEOUT -> mongo.connect_timeout
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		if i := strings.IndexByte(key, '_'); i >= 0 {
			key = key[:i] + "." + key[i+1:]
		}
		return key
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, "config env")
	}

	err = k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag:       "koanf",
		FlatPaths: true,
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			WeaklyTypedInput: true,
			Result:           cfg,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "config unmarshal")
	}

	return cfg, nil
}
