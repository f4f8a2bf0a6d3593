package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/treematch/internal/server"
	"github.com/matzehuels/treematch/pkg/cache"
	"github.com/matzehuels/treematch/pkg/errors"
)

// Cache backends selectable in the config file.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendMongo = "mongo"
	backendNone  = "none"
)

// Config is the on-disk CLI configuration. Flags given on the command line
// override the values loaded here.
//
//	strategy   = "iter"
//	token_kind = "auto"
//	affinity   = "eq"
//
//	[cache]
//	backend   = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl       = "24h"
//	prefix    = "team-a:"
//
//	[server]
//	addr = ":9090"
type Config struct {
	Strategy  string       `toml:"strategy"`
	TokenKind string       `toml:"token_kind"`
	Affinity  string       `toml:"affinity"`
	Cache     CacheConfig  `toml:"cache"`
	Server    ServerConfig `toml:"server"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend  string   `toml:"backend"` // file (default), redis, mongo or none
	Dir      string   `toml:"dir"`     // file backend; default is the XDG cache dir
	RedisURL string   `toml:"redis_url"`
	MongoURI string   `toml:"mongo_uri"`
	TTL      duration `toml:"ttl"`
	Prefix   string   `toml:"prefix"` // namespace for keys in a shared backend
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// duration decodes TOML strings such as "36h" via time.ParseDuration.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func defaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			Backend: backendFile,
			TTL:     duration{cache.TTLResult},
		},
		Server: ServerConfig{Addr: server.DefaultAddr},
	}
}

// loadConfig reads the config file at path on top of the defaults. A
// missing file at the default location is not an error; a missing file that
// was named explicitly is.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "load config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}
	switch cfg.Cache.Backend {
	case "":
		cfg.Cache.Backend = backendFile
	case backendFile, backendRedis, backendMongo, backendNone:
	default:
		return cfg, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown cache backend %q", path, cfg.Cache.Backend)
	}
	if cfg.Cache.TTL.Duration <= 0 {
		cfg.Cache.TTL.Duration = cache.TTLResult
	}
	return cfg, nil
}

// configPath returns the default config file location
// ($XDG_CONFIG_HOME/treematch/config.toml).
func configPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
