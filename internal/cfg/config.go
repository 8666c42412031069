package cfg

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/vrischmann/envconfig"

	"github.com/Heidric/hmacsign/pkg/log"
)

const DefaultAddress = "localhost:8080"

type Config struct {
	Logger        *log.Config
	ServerAddress string `envconfig:"ADDRESS"`
	// Key signs requests without an explicit key and, when set, every
	// response body. Empty is a valid HMAC key.
	Key string `envconfig:"KEY,optional"`
}

func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Logger: &log.Config{},
	}

	defaults := map[string]string{
		"ADDRESS": DefaultAddress,
	}

	for key, value := range defaults {
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}

	if err := envconfig.Init(config); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}

	config.Logger.SetDefault()

	return config, nil
}
