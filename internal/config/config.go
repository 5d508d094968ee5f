// Package config defines the configuration model of a conversion run and
// loads it with viper from an optional YAML/JSON file, PHONOTACTICS_*
// environment variables and built-in defaults.
//
// Example (YAML, trimmed):
//
//	job: phonotactics
//	raw:       { dir: raw, data: phonotactics.csv, metadata: metadata.json }
//	etc:       { dir: etc }
//	glottolog: { languoids: /data/glottolog/languoids.csv }
//	storage:   { kind: cldf, dir: cldf }
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. PHONOTACTICS_STORAGE_KIND.
const EnvPrefix = "PHONOTACTICS"

// Pipeline is the top-level configuration object.
type Pipeline struct {
	// Job names the run in logs and metrics.
	Job string `json:"job" yaml:"job" mapstructure:"job"`

	Raw       Raw       `json:"raw" yaml:"raw" mapstructure:"raw"`
	Etc       Etc       `json:"etc" yaml:"etc" mapstructure:"etc"`
	Glottolog Glottolog `json:"glottolog" yaml:"glottolog" mapstructure:"glottolog"`
	Schema    Schema    `json:"schema" yaml:"schema" mapstructure:"schema"`
	Parser    Parser    `json:"parser" yaml:"parser" mapstructure:"parser"`
	Storage   Storage   `json:"storage" yaml:"storage" mapstructure:"storage"`
	Metrics   Metrics   `json:"metrics" yaml:"metrics" mapstructure:"metrics"`
}

// Raw locates the published dataset. File names are relative to Dir unless
// absolute.
type Raw struct {
	Dir      string `json:"dir" yaml:"dir" mapstructure:"dir"`
	Data     string `json:"data" yaml:"data" mapstructure:"data"`
	Metadata string `json:"metadata" yaml:"metadata" mapstructure:"metadata"`
}

// DataPath returns the location of the dataset CSV.
func (r Raw) DataPath() string { return join(r.Dir, r.Data) }

// MetadataPath returns the location of the CSVW metadata document.
func (r Raw) MetadataPath() string { return join(r.Dir, r.Metadata) }

// Etc locates the curated lookup tables.
type Etc struct {
	Dir        string `json:"dir" yaml:"dir" mapstructure:"dir"`
	Languages  string `json:"languages" yaml:"languages" mapstructure:"languages"`
	Countries  string `json:"countries" yaml:"countries" mapstructure:"countries"`
	Parameters string `json:"parameters" yaml:"parameters" mapstructure:"parameters"`
}

func (e Etc) LanguagesPath() string  { return join(e.Dir, e.Languages) }
func (e Etc) CountriesPath() string  { return join(e.Dir, e.Countries) }
func (e Etc) ParametersPath() string { return join(e.Dir, e.Parameters) }

func join(dir, name string) string {
	if dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// Glottolog locates the languoid catalog export used to map ISO codes to
// Glottocodes. Empty column names are auto-detected.
type Glottolog struct {
	Languoids string `json:"languoids" yaml:"languoids" mapstructure:"languoids"`
	IDColumn  string `json:"id_column" yaml:"id_column" mapstructure:"id_column"`
	ISOColumn string `json:"iso_column" yaml:"iso_column" mapstructure:"iso_column"`
}

// Schema optionally replaces the built-in language attribute table.
type Schema struct {
	Attributes string `json:"attributes" yaml:"attributes" mapstructure:"attributes"`
}

// Parser holds CSV reader knobs shared by every input table.
type Parser struct {
	TrimSpace  bool `json:"trim_space" yaml:"trim_space" mapstructure:"trim_space"`
	LazyQuotes bool `json:"lazy_quotes" yaml:"lazy_quotes" mapstructure:"lazy_quotes"`
	// LogEvery logs reader progress every N records; 0 disables it.
	LogEvery int `json:"log_every" yaml:"log_every" mapstructure:"log_every"`
}

// Storage selects the output sink.
type Storage struct {
	// Kind is one of cldf, sqlite, postgres, mssql, s3.
	Kind string `json:"kind" yaml:"kind" mapstructure:"kind"`
	// Dir is the output directory of the cldf sink and the staging
	// directory of the s3 sink.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
	// DSN is the connection string of SQL sinks or the s3:// destination.
	DSN         string `json:"dsn" yaml:"dsn" mapstructure:"dsn"`
	TablePrefix string `json:"table_prefix" yaml:"table_prefix" mapstructure:"table_prefix"`
	BatchSize   int    `json:"batch_size" yaml:"batch_size" mapstructure:"batch_size"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend is one of none, prompush, datadog.
	Backend        string `json:"backend" yaml:"backend" mapstructure:"backend"`
	PushgatewayURL string `json:"pushgateway_url" yaml:"pushgateway_url" mapstructure:"pushgateway_url"`
	StatsdAddr     string `json:"statsd_addr" yaml:"statsd_addr" mapstructure:"statsd_addr"`
	Namespace      string `json:"namespace" yaml:"namespace" mapstructure:"namespace"`
}

// Defaults returns the configuration used when nothing overrides it: the
// conventional raw/ and etc/ layout and a CLDF directory sink.
func Defaults() Pipeline {
	return Pipeline{
		Job: "phonotactics",
		Raw: Raw{Dir: "raw", Data: "phonotactics.csv", Metadata: "metadata.json"},
		Etc: Etc{
			Dir:        "etc",
			Languages:  "languages.csv",
			Countries:  "countries.csv",
			Parameters: "parameters.csv",
		},
		Parser:  Parser{TrimSpace: true},
		Storage: Storage{Kind: "cldf", Dir: "cldf", BatchSize: 5000},
		Metrics: Metrics{Backend: "none"},
	}
}

// defaultKeys flattens Defaults into viper keys. Every key must have a
// default for AutomaticEnv to reach it during Unmarshal.
func defaultKeys() map[string]any {
	d := Defaults()
	return map[string]any{
		"job":                     d.Job,
		"raw.dir":                 d.Raw.Dir,
		"raw.data":                d.Raw.Data,
		"raw.metadata":            d.Raw.Metadata,
		"etc.dir":                 d.Etc.Dir,
		"etc.languages":           d.Etc.Languages,
		"etc.countries":           d.Etc.Countries,
		"etc.parameters":          d.Etc.Parameters,
		"glottolog.languoids":     d.Glottolog.Languoids,
		"glottolog.id_column":     d.Glottolog.IDColumn,
		"glottolog.iso_column":    d.Glottolog.ISOColumn,
		"schema.attributes":       d.Schema.Attributes,
		"parser.trim_space":       d.Parser.TrimSpace,
		"parser.lazy_quotes":      d.Parser.LazyQuotes,
		"parser.log_every":        d.Parser.LogEvery,
		"storage.kind":            d.Storage.Kind,
		"storage.dir":             d.Storage.Dir,
		"storage.dsn":             d.Storage.DSN,
		"storage.table_prefix":    d.Storage.TablePrefix,
		"storage.batch_size":      d.Storage.BatchSize,
		"metrics.backend":         d.Metrics.Backend,
		"metrics.pushgateway_url": d.Metrics.PushgatewayURL,
		"metrics.statsd_addr":     d.Metrics.StatsdAddr,
		"metrics.namespace":       d.Metrics.Namespace,
	}
}

// NewViper returns a viper instance with defaults and environment binding
// installed. When file is non-empty it is read as the config file; its
// format follows the extension.
func NewViper(file string) (*viper.Viper, error) {
	v := viper.New()
	for k, val := range defaultKeys() {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	}
	return v, nil
}

// Load decodes the pipeline from v.
func Load(v *viper.Viper) (Pipeline, error) {
	var p Pipeline
	if err := v.Unmarshal(&p); err != nil {
		return Pipeline{}, fmt.Errorf("config: decode: %w", err)
	}
	return p, nil
}

// LoadFile is NewViper followed by Load.
func LoadFile(file string) (Pipeline, error) {
	v, err := NewViper(file)
	if err != nil {
		return Pipeline{}, err
	}
	return Load(v)
}
