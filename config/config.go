/*
Package config loads the piggycli configuration.

Configuration is read from a YAML file, checked against an embedded JSON
schema and then overwritten by environment variables. Every value that is not
provided falls back to a default, so an empty or missing file is a valid
configuration for read only commands.
*/
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iov-one/piggybank/coin"
	"github.com/iov-one/piggybank/errors"
	"github.com/iov-one/piggybank/sui"
	"github.com/robfig/cron/v3"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Environment variables that take precedence over the file content.
const (
	EnvRPC      = "PIGGYCLI_RPC"
	EnvPackage  = "PIGGYCLI_PACKAGE"
	EnvKeystore = "PIGGYCLI_KEYSTORE"
	EnvJournal  = "PIGGYCLI_JOURNAL"
)

// Networks maps a network name to the full node address used when no
// rpc_url is configured.
var Networks = map[string]string{
	"mainnet":  "https://fullnode.mainnet.sui.io:443",
	"testnet":  "https://fullnode.testnet.sui.io:443",
	"devnet":   "https://fullnode.devnet.sui.io:443",
	"localnet": "http://127.0.0.1:9000",
}

// Config holds all piggycli configuration.
type Config struct {
	// Network selects the full node preset. Ignored when RPCURL is set.
	Network string `yaml:"network"`
	RPCURL  string `yaml:"rpc_url"`
	// PackageID is the address of the published savings Move package.
	PackageID string `yaml:"package_id"`
	Keystore  string `yaml:"keystore"`
	// Address selects the keystore key. Empty means the first key.
	Address string `yaml:"address"`
	// Journal is the path of the action journal database. Empty disables
	// the journal.
	Journal      string        `yaml:"journal"`
	GasBudget    uint64        `yaml:"gas_budget"`
	PollInterval time.Duration `yaml:"poll_interval"`
	WaitTimeout  time.Duration `yaml:"wait_timeout"`
	WatchSpec    string        `yaml:"watch_spec"`
	LogLevel     string        `yaml:"log_level"`
}

// Default returns the configuration used for every value that is not
// provided.
func Default() *Config {
	return &Config{
		Network:      "testnet",
		Keystore:     filepath.Join(os.Getenv("HOME"), ".sui", "sui_config", "sui.keystore"),
		GasBudget:    10000000,
		PollInterval: time.Second,
		WaitTimeout:  time.Minute,
		WatchSpec:    "@every 30s",
		LogLevel:     "info",
	}
}

// DefaultPath returns the location of the configuration file used when none
// is given.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".piggycli.yaml")
}

// Load reads configuration from a YAML file, then applies environment
// variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(errors.ErrInput, "read config: %s", err)
	}
	cfg, err := Parse(raw)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML configuration on top of the defaults. Environment is not
// consulted.
func Parse(raw []byte) (*Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(raw)) == 0 {
		return cfg, nil
	}
	if err := validateSchema(raw); err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "parse config: %s", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvRPC); ok && v != "" {
		c.RPCURL = v
	}
	if v, ok := lookup(EnvPackage); ok && v != "" {
		c.PackageID = v
	}
	if v, ok := lookup(EnvKeystore); ok && v != "" {
		c.Keystore = v
	}
	// An empty value is allowed here, it disables the journal.
	if v, ok := lookup(EnvJournal); ok {
		c.Journal = v
	}
}

// Validate checks the configuration values. Returned error contains a field
// error for every invalid value.
func (c *Config) Validate() error {
	var errs error
	if c.RPCURL == "" {
		if _, ok := Networks[c.Network]; !ok {
			errs = errors.AppendField(errs, "network",
				errors.Wrapf(errors.ErrInput, "unknown network %q", c.Network))
		}
	} else if !strings.HasPrefix(c.RPCURL, "http://") && !strings.HasPrefix(c.RPCURL, "https://") {
		errs = errors.AppendField(errs, "rpc_url",
			errors.Wrap(errors.ErrInput, "must be an http or https address"))
	}
	if c.PackageID != "" {
		if _, err := sui.ParseAddress(c.PackageID); err != nil {
			errs = errors.AppendField(errs, "package_id", err)
		}
	}
	if c.Address != "" {
		if _, err := sui.ParseAddress(c.Address); err != nil {
			errs = errors.AppendField(errs, "address", err)
		}
	}
	if c.GasBudget == 0 {
		errs = errors.AppendField(errs, "gas_budget", errors.ErrAmount)
	}
	if c.PollInterval <= 0 {
		errs = errors.AppendField(errs, "poll_interval",
			errors.Wrap(errors.ErrInput, "must be positive"))
	}
	if c.WaitTimeout <= 0 {
		errs = errors.AppendField(errs, "wait_timeout",
			errors.Wrap(errors.ErrInput, "must be positive"))
	}
	if _, err := ParseWatchSpec(c.WatchSpec); err != nil {
		errs = errors.AppendField(errs, "watch_spec", err)
	}
	switch c.LogLevel {
	case "debug", "info", "error", "none":
	default:
		errs = errors.AppendField(errs, "log_level",
			errors.Wrapf(errors.ErrInput, "unknown level %q", c.LogLevel))
	}
	return errs
}

// RPC returns the full node address.
func (c *Config) RPC() string {
	if c.RPCURL != "" {
		return c.RPCURL
	}
	return Networks[c.Network]
}

// Package returns the savings Move package address. ErrEmpty is returned if
// it was not configured.
func (c *Config) Package() (sui.ObjectID, error) {
	if c.PackageID == "" {
		return sui.ObjectID{}, errors.Field("package_id", errors.ErrEmpty,
			"set it in the configuration file or use %s", EnvPackage)
	}
	return sui.ParseAddress(c.PackageID)
}

// Sender returns the address selecting the keystore key. A zero address
// means the first key.
func (c *Config) Sender() (sui.Address, error) {
	if c.Address == "" {
		return sui.Address{}, nil
	}
	return sui.ParseAddress(c.Address)
}

// Budget returns the gas budget of a single transaction.
func (c *Config) Budget() coin.Mist {
	return coin.Mist(c.GasBudget)
}

// ParseWatchSpec parses a cron spec with an optional seconds field, for
// example "*/30 * * * * *" or "@every 30s".
func ParseWatchSpec(spec string) (cron.Schedule, error) {
	s, err := watchParser.Parse(spec)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return s, nil
}

var watchParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

//go:embed config.schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("config.schema.json", schemaJSON)

// validateSchema checks raw YAML against the configuration schema. The
// document is converted to JSON values first, the way the schema validator
// expects them.
func validateSchema(raw []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "parse config: %s", err)
	}
	if doc == nil {
		return nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "config is not a mapping: %s", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return errors.Wrap(errors.ErrHuman, err.Error())
	}

	err = schema.Validate(value)
	if err == nil {
		return nil
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	var errs error
	for _, leaf := range leaves(verr) {
		errs = errors.AppendField(errs, fieldName(leaf.InstanceLocation),
			errors.Wrap(errors.ErrInput, leaf.Message))
	}
	return errs
}

func leaves(e *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return []*jsonschema.ValidationError{e}
	}
	var res []*jsonschema.ValidationError
	for _, c := range e.Causes {
		res = append(res, leaves(c)...)
	}
	return res
}

// fieldName converts a JSON pointer into the path notation used by field
// errors. The document root is named after the file.
func fieldName(pointer string) string {
	var segments []interface{}
	for _, p := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		segments = append(segments, p)
	}
	if name := errors.Path(segments...); name != "" {
		return name
	}
	return "config"
}
