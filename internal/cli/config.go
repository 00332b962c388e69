package cli

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pedigraph/pkg/errors"
	"github.com/matzehuels/pedigraph/pkg/pedigree"
	"github.com/matzehuels/pedigraph/pkg/pipeline"
)

// Cache backends.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Config is the contents of the TOML config file.
//
//	missing_tokens = ["", "0", "NA", "-"]
//
//	[inbreeding]
//	method = "meuwissen-luo"
//
//	[lineage]
//	deepest_sample = 200
//	seed = 7
//
//	[descendants]
//	role = "dam"
//	lines = "any"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "72h"
type Config struct {
	MissingTokens []string          `toml:"missing_tokens"`
	Inbreeding    InbreedingConfig  `toml:"inbreeding"`
	Lineage       LineageConfig     `toml:"lineage"`
	Descendants   DescendantsConfig `toml:"descendants"`
	Cache         CacheConfig       `toml:"cache"`
}

// InbreedingConfig configures the inbreeding analysis.
type InbreedingConfig struct {
	Method string `toml:"method"`
}

// LineageConfig configures the depth analyses.
type LineageConfig struct {
	DeepestSample         int    `toml:"deepest_sample"`
	DeepestCap            int    `toml:"deepest_cap"`
	DistributionThreshold int    `toml:"distribution_threshold"`
	DistributionSample    int    `toml:"distribution_sample"`
	MaxDepth              int    `toml:"max_depth"`
	Seed                  uint64 `toml:"seed"`
}

// DescendantsConfig configures the descendant summary.
type DescendantsConfig struct {
	Role     string `toml:"role"`
	MaxDepth int    `toml:"max_depth"`
	Lines    string `toml:"lines"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisDB       int    `toml:"redis_db"`
	RedisPassword string `toml:"redis_password"`
	Scope         string `toml:"scope"` // key prefix for shared backends
	TTL           string `toml:"ttl"`   // e.g. "72h"; empty uses per-result defaults
}

func (c CacheConfig) ttl() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	return d
}

// defaultConfig mirrors pipeline.DefaultOptions.
func defaultConfig() Config {
	def := pipeline.DefaultOptions()
	return Config{
		MissingTokens: append([]string(nil), pedigree.DefaultMissingTokens...),
		Inbreeding:    InbreedingConfig{Method: def.Method},
		Lineage: LineageConfig{
			DeepestSample:         def.DeepestSample,
			DeepestCap:            def.DeepestCap,
			DistributionThreshold: def.DistributionThreshold,
			DistributionSample:    def.DistributionSample,
			MaxDepth:              def.MaxDepth,
			Seed:                  def.Seed,
		},
		Descendants: DescendantsConfig{
			Role:     def.Role,
			MaxDepth: def.DescendantDepth,
			Lines:    def.Lines,
		},
		Cache: CacheConfig{Backend: backendFile},
	}
}

// loadConfig reads the config file at path over the defaults. An empty
// path loads the default location if a file exists there.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = backendFile
	}
	if err := errors.ValidateOneOf("cache.backend", c.Cache.Backend, backendFile, backendRedis, backendNone); err != nil {
		return err
	}
	if c.Cache.Backend == backendRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
	}
	if c.Cache.TTL != "" {
		if d, err := time.ParseDuration(c.Cache.TTL); err != nil || d < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "invalid cache.ttl %q", c.Cache.TTL)
		}
	}
	opts := c.pipelineOptions()
	return opts.ValidateAndSetDefaults()
}

// pipelineOptions converts the config into runner options.
func (c Config) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Method:                c.Inbreeding.Method,
		DeepestSample:         c.Lineage.DeepestSample,
		DeepestCap:            c.Lineage.DeepestCap,
		DistributionThreshold: c.Lineage.DistributionThreshold,
		DistributionSample:    c.Lineage.DistributionSample,
		MaxDepth:              c.Lineage.MaxDepth,
		Seed:                  c.Lineage.Seed,
		Role:                  c.Descendants.Role,
		DescendantDepth:       c.Descendants.MaxDepth,
		Lines:                 c.Descendants.Lines,
	}
}
