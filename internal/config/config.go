package config

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env:"HEX_LOG_LEVEL" env-default:"info"`
	Server   Server  `yaml:"server"`
	Match    Match   `yaml:"match"`
	Session  Session `yaml:"session"`
	Redis    Redis   `yaml:"redis"`
}

type Server struct {
	URL              string        `yaml:"url" env:"HEX_SERVER_URL" env-default:"ws://localhost:8080/ws/"`
	HandshakeTimeout time.Duration `yaml:"handshake-timeout" env-default:"10s"`
	WriteTimeout     time.Duration `yaml:"write-timeout" env-default:"10s"`
	DialRetries      uint64        `yaml:"dial-retries" env:"HEX_DIAL_RETRIES" env-default:"5"`
}

// Match is sent to the server as query parameters of the connection URL.
type Match struct {
	Red      string `yaml:"red" env:"HEX_RED" env-default:"human"`
	Blue     string `yaml:"blue" env:"HEX_BLUE" env-default:"ab"`
	Size     int    `yaml:"size" env:"HEX_SIZE" env-default:"7"`
	NumGames int    `yaml:"numgames" env-default:"1"`
	RedTime  int    `yaml:"redtime" env-default:"1"`
	BlueTime int    `yaml:"bluetime" env-default:"1"`
	Watch    string `yaml:"watch"`
}

type Session struct {
	// DoneDelay of zero means the default; a negative value sends DONE at once.
	DoneDelay time.Duration `yaml:"done-delay" env:"HEX_DONE_DELAY" env-default:"2s"`
	AutoPlay  string        `yaml:"auto-play" env:"HEX_AUTO_PLAY" env-default:""`
	// Headless disables the console reader.
	Headless bool `yaml:"headless" env:"HEX_HEADLESS" env-default:"false"`
}

type Redis struct {
	Enabled bool          `yaml:"enabled" env:"HEX_REDIS_ENABLED" env-default:"false"`
	Host    string        `yaml:"host" env:"HEX_REDIS_HOST" env-default:"localhost"`
	Port    int           `yaml:"port" env:"HEX_REDIS_PORT" env-default:"6379"`
	DB      int           `yaml:"db" env-default:"0"`
	TTL     time.Duration `yaml:"ttl" env-default:"168h"`
}

// Load reads the yaml file at path and applies environment overrides. An
// empty path reads the environment only.
func Load(path string) (*Config, error) {
	config := &Config{}

	if path == "" {
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read config from environment: %w", err)
		}
		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Query encodes the match for the server. Empty and non-positive values are
// left out so the server falls back to its defaults.
func (that *Match) Query() url.Values {
	query := url.Values{}

	if that.Red != "" {
		query.Set("red", that.Red)
	}
	if that.Blue != "" {
		query.Set("blue", that.Blue)
	}

	for key, value := range map[string]int{
		"size":     that.Size,
		"numgames": that.NumGames,
		"redtime":  that.RedTime,
		"bluetime": that.BlueTime,
	} {
		if value > 0 {
			query.Set(key, strconv.Itoa(value))
		}
	}

	if that.Watch != "" {
		query.Set("watch", that.Watch)
	}

	return query
}
