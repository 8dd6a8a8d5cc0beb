// Package config reads process settings from the environment and the
// category lookup table from YAML.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"jobdemand-go/internal/category"
	"jobdemand-go/internal/exploder"
	"jobdemand-go/internal/types"
)

type Config struct {
	DatasetPath     string
	CategoryMapPath string
	TopK            int
	TitleTopK       int
	Policy          exploder.Policy
	Port            string
	DownloadTimeout time.Duration
}

// Defaults is the configuration with no environment set.
func Defaults() Config {
	return Config{
		DatasetPath:     "SGJobData.csv",
		TopK:            10,
		TitleTopK:       20,
		Policy:          exploder.DropUncategorized,
		Port:            "8080",
		DownloadTimeout: time.Minute,
	}
}

// Load reads the environment. Call godotenv.Load first to pick up .env.
func Load() (Config, error) {
	d := Defaults()
	cfg := Config{
		DatasetPath:     envOr("DATASET_PATH", d.DatasetPath),
		CategoryMapPath: os.Getenv("CATEGORY_MAP_PATH"),
		Port:            envOr("PORT", d.Port),
	}
	var err error
	if cfg.TopK, err = positiveInt("TOP_K", d.TopK); err != nil {
		return cfg, err
	}
	if cfg.TitleTopK, err = positiveInt("TITLE_TOP_K", d.TitleTopK); err != nil {
		return cfg, err
	}
	secs, err := positiveInt("DOWNLOAD_TIMEOUT_SEC", int(d.DownloadTimeout/time.Second))
	if err != nil {
		return cfg, err
	}
	cfg.DownloadTimeout = time.Duration(secs) * time.Second
	if cfg.Policy, err = exploder.ParsePolicy(os.Getenv("UNCATEGORIZED_POLICY")); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Resolver builds the category resolver from CategoryMapPath, or the
// built-in table when unset.
func (c Config) Resolver() (*category.Resolver, error) {
	if c.CategoryMapPath == "" {
		return category.NewResolver(category.DefaultNames()), nil
	}
	names, err := LoadCategoryMap(c.CategoryMapPath)
	if err != nil {
		return nil, err
	}
	return category.NewResolver(names), nil
}

type categoryFile struct {
	Categories []struct {
		ID   *int   `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"categories"`
}

// LoadCategoryMap reads
//
//	categories:
//	  - id: 7
//	    name: Consulting
func LoadCategoryMap(path string) (map[int]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read category map: %w", err)
	}
	var f categoryFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse category map: %w", err)
	}
	names := make(map[int]string, len(f.Categories))
	for i, c := range f.Categories {
		name := strings.TrimSpace(c.Name)
		if c.ID == nil || name == "" {
			return nil, fmt.Errorf("%w: category map entry %d needs id and name", types.ErrInvalidArgument, i)
		}
		if prev, dup := names[*c.ID]; dup {
			return nil, fmt.Errorf("%w: category id %d mapped to %q and %q", types.ErrInvalidArgument, *c.ID, prev, name)
		}
		names[*c.ID] = name
	}
	return names, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func positiveInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", types.ErrInvalidArgument, k, v)
	}
	return n, nil
}
