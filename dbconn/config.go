package dbconn

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mitranim/sqld"
	"gopkg.in/yaml.v3"
)

/*
Connection settings, usually loaded from YAML:

	url: postgres://user@localhost:5432/app
	dialect: postgres
	prefix: app_
	log_level: debug
	cache:
	  ttl: 30s

Values may reference environment variables as `$VAR` or `${VAR}`. An empty
dialect is inferred from the URL scheme.
*/
type Config struct {
	URL      string      `yaml:"url"`
	Dialect  string      `yaml:"dialect"`
	Prefix   string      `yaml:"prefix"`
	LogLevel string      `yaml:"log_level"`
	Cache    CacheConfig `yaml:"cache"`
}

type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// Reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf(`dbconn: read config: %w`, err)
	}
	return ParseConfig(src)
}

// Parses a YAML config, expanding environment variables first.
func ParseConfig(src []byte) (Config, error) {
	var out Config
	err := yaml.Unmarshal([]byte(os.ExpandEnv(string(src))), &out)
	if err != nil {
		return out, fmt.Errorf(`dbconn: parse config: %w`, err)
	}
	return out, out.Validate()
}

// Verifies the dialect name and the log level.
func (self Config) Validate() error {
	if self.URL == `` {
		return fmt.Errorf(`dbconn: invalid config: missing url`)
	}
	if self.Cache.TTL < 0 {
		return fmt.Errorf(`dbconn: invalid config: negative cache ttl %v`, self.Cache.TTL)
	}
	_, err := self.dialect()
	if err != nil {
		return err
	}
	_, err = self.level()
	return err
}

/*
Opens a connection per this config. Statements are logged to stderr at the
configured level; without a level, logging is disabled. Later options
override the config.
*/
func (self Config) Open(ctx context.Context, opts ...Option) (*DB, error) {
	return self.OpenWriter(ctx, os.Stderr, opts...)
}

// Like `Config.Open`, logging to the given writer.
func (self Config) OpenWriter(ctx context.Context, out io.Writer, opts ...Option) (*DB, error) {
	err := self.Validate()
	if err != nil {
		return nil, err
	}

	dialect, err := self.dialect()
	if err != nil {
		return nil, err
	}

	base := []Option{WithPrefix(self.Prefix)}
	logger, err := self.Logger(out)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		base = append(base, WithLogger(logger))
	}

	db, err := Open(ctx, self.URL, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	if dialect != nil {
		db.dialect = dialect
	}
	return db, nil
}

/*
Result cache over the given connection, with entries expiring after the
configured `cache.ttl`. A nil cache defaults to `NewMemoryCache`.
*/
func (self Config) CachedQuery(db *DB, cache Cache) *CachedQuery {
	return NewCachedQuery(db, cache, self.Cache.TTL)
}

// Text logger writing to the given output at the configured level, or nil
// when the level is empty.
func (self Config) Logger(out io.Writer) (*slog.Logger, error) {
	level, err := self.level()
	if err != nil || level == nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: *level})), nil
}

func (self Config) dialect() (sqld.Dialect, error) {
	if self.Dialect == `` {
		return nil, nil
	}
	out, err := sqld.DialectByName(self.Dialect)
	if err != nil {
		return nil, fmt.Errorf(`dbconn: invalid config: %w`, err)
	}
	return out, nil
}

func (self Config) level() (*slog.Level, error) {
	if self.LogLevel == `` {
		return nil, nil
	}

	var out slog.Level
	err := out.UnmarshalText([]byte(strings.TrimSpace(self.LogLevel)))
	if err != nil {
		return nil, fmt.Errorf(`dbconn: invalid config: log level %q: %w`, self.LogLevel, err)
	}
	return &out, nil
}
