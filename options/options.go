// Package options declares the externally supplied configuration of an
// extraction: where to connect, which table to read and how to authenticate.
//
// Options can be read from a YAML file, DBEAM_* environment variables and
// command line flags. Flag names and defaults are kept compatible with dbeam.
package options

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	dbeam "github.com/guadalsistema/go-dbeam"
)

// DefaultUsername is the database user used when none is configured.
const DefaultUsername = "dbeam-extractor"

// Options holds the primitive option values of one extraction job.
type Options struct {
	ConnectionURL            string `yaml:"connectionUrl"`
	Table                    string `yaml:"table"`
	Username                 string `yaml:"username"`
	PasswordFile             string `yaml:"passwordFile"`
	PasswordFileKmsEncrypted string `yaml:"passwordFileKmsEncrypted"`
	Password                 string `yaml:"password"`
	VaultURL                 string `yaml:"vaultUrl"`
	VaultCert                string `yaml:"vaultCert"`
	VaultRole                string `yaml:"vaultRole"`
	VaultPath                string `yaml:"vaultPath"`

	Partition       string `yaml:"partition"`
	PartitionColumn string `yaml:"partitionColumn"`
	PartitionPeriod string `yaml:"partitionPeriod"`
	Limit           *int   `yaml:"limit"`
}

// Defaults returns options with every default applied.
func Defaults() *Options {
	o := &Options{}
	for _, b := range bindings {
		if b.Default != "" {
			// Defaults are static and always valid for their option.
			_ = b.value(o).Set(b.Default)
		}
	}
	return o
}

// LoadFile reads options from a YAML file. Options missing from the file keep
// their defaults.
func LoadFile(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read options file: %w", err)
	}
	o := Defaults()
	if err := yaml.Unmarshal(data, o); err != nil {
		return nil, fmt.Errorf("failed to parse options file %s: %w", path, err)
	}
	return o, nil
}

// RegisterFlags binds every option to a flag of fs. Current values of o are
// shown as flag defaults.
func (o *Options) RegisterFlags(fs *pflag.FlagSet) {
	for _, b := range bindings {
		fs.Var(b.value(o), b.Name, b.Description)
	}
}

// ApplyFlags copies the options explicitly set on fs into o.
func (o *Options) ApplyFlags(fs *pflag.FlagSet) error {
	var errs []error
	fs.Visit(func(f *pflag.Flag) {
		b, ok := bindingByName(f.Name)
		if !ok {
			return
		}
		if err := b.value(o).Set(f.Value.String()); err != nil {
			errs = append(errs, fmt.Errorf("invalid --%s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}

// ApplyEnv overrides options from their DBEAM_* environment variables. Empty
// variables are ignored.
func (o *Options) ApplyEnv() error {
	var errs []error
	for _, b := range bindings {
		v := os.Getenv(b.Env)
		if v == "" {
			continue
		}
		if err := b.value(o).Set(v); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", b.Env, err))
		}
	}
	return errors.Join(errs...)
}

// Validate checks that every required option is present.
func (o *Options) Validate() error {
	var errs []error
	for _, b := range bindings {
		if b.Required && b.value(o).String() == "" {
			errs = append(errs, dbeam.NewErrInvalidArgument(b.Name, "is required"))
		}
	}
	return errors.Join(errs...)
}

// QueryBuilderArgs builds the query arguments described by o.
func (o *Options) QueryBuilderArgs() (*dbeam.QueryBuilderArgs, error) {
	period := dbeam.DefaultPartitionPeriod
	if o.PartitionPeriod != "" {
		p, err := dbeam.ParsePeriod(o.PartitionPeriod)
		if err != nil {
			return nil, err
		}
		period = p
	}

	var partition *time.Time
	if o.Partition != "" {
		p, err := ParsePartition(o.Partition)
		if err != nil {
			return nil, err
		}
		partition = &p
	}

	var column *string
	if o.PartitionColumn != "" {
		column = &o.PartitionColumn
	}

	return dbeam.NewQueryBuilderArgs(o.Table,
		dbeam.WithOptionalLimit(o.Limit),
		dbeam.WithOptionalPartitionColumn(column),
		dbeam.WithOptionalPartition(partition),
		dbeam.WithPartitionPeriod(period),
	)
}

// ConnectionArgs describes the database connection configured in o. Only a
// directly supplied password is filled in; the other password sources are
// resolved outside this package.
func (o *Options) ConnectionArgs() (dbeam.ConnectionArgs, error) {
	conn, err := dbeam.ParseConnectionURL(o.ConnectionURL)
	if err != nil {
		return dbeam.ConnectionArgs{}, err
	}
	return conn.WithCredentials(o.Username, o.Password), nil
}

// ParsePartition parses a partition given as a date (2006-01-02), a local
// date-time (2006-01-02T15:04:05) or an RFC 3339 instant. Dates without an
// offset are taken as UTC.
func ParsePartition(s string) (time.Time, error) {
	for _, layout := range []string{time.DateOnly, "2006-01-02T15:04:05", time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, dbeam.NewErrInvalidArgument("partition", fmt.Sprintf("%q is not a date or RFC 3339 timestamp", s))
}

type stringValue struct{ p *string }

func (v stringValue) String() string     { return *v.p }
func (v stringValue) Set(s string) error { *v.p = s; return nil }
func (v stringValue) Type() string       { return "string" }

// optionalIntValue is an int flag that stays unset until given.
type optionalIntValue struct{ p **int }

func (v optionalIntValue) String() string {
	if *v.p == nil {
		return ""
	}
	return strconv.Itoa(**v.p)
}

func (v optionalIntValue) Set(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("%q is not an integer", s)
	}
	*v.p = &n
	return nil
}

func (v optionalIntValue) Type() string { return "int" }
