package options

import "github.com/spf13/pflag"

// Definition describes one option.
type Definition struct {
	Name        string
	Description string
	Default     string
	Required    bool
	Env         string
}

type binding struct {
	Definition
	value func(*Options) pflag.Value
}

func str(field func(*Options) *string) func(*Options) pflag.Value {
	return func(o *Options) pflag.Value { return stringValue{p: field(o)} }
}

var bindings = []binding{
	{
		Definition: Definition{
			Name:        "connectionUrl",
			Description: "The JDBC connection url to perform the extraction on.",
			Required:    true,
			Env:         "DBEAM_CONNECTION_URL",
		},
		value: str(func(o *Options) *string { return &o.ConnectionURL }),
	},
	{
		Definition: Definition{
			Name:        "table",
			Description: "The database table to query and perform the extraction on.",
			Required:    true,
			Env:         "DBEAM_TABLE",
		},
		value: str(func(o *Options) *string { return &o.Table }),
	},
	{
		Definition: Definition{
			Name:        "username",
			Description: "The database user name used by JDBC to authenticate.",
			Default:     DefaultUsername,
			Env:         "DBEAM_USERNAME",
		},
		value: str(func(o *Options) *string { return &o.Username }),
	},
	{
		Definition: Definition{
			Name:        "passwordFile",
			Description: "A path to a file containing the database password.",
			Env:         "DBEAM_PASSWORD_FILE",
		},
		value: str(func(o *Options) *string { return &o.PasswordFile }),
	},
	{
		Definition: Definition{
			Name:        "passwordFileKmsEncrypted",
			Description: "A path to a file containing the database password, KMS encrypted and base64 encoded.",
			Env:         "DBEAM_PASSWORD_FILE_KMS_ENCRYPTED",
		},
		value: str(func(o *Options) *string { return &o.PasswordFileKmsEncrypted }),
	},
	{
		Definition: Definition{
			Name:        "password",
			Description: "Database password",
			Env:         "DBEAM_PASSWORD",
		},
		value: str(func(o *Options) *string { return &o.Password }),
	},
	{
		Definition: Definition{
			Name:        "vaultUrl",
			Description: "URL to access the vault server.",
			Env:         "DBEAM_VAULT_URL",
		},
		value: str(func(o *Options) *string { return &o.VaultURL }),
	},
	{
		Definition: Definition{
			Name:        "vaultCert",
			Description: "Certificate file to use for https when talking to Vault server.",
			Env:         "DBEAM_VAULT_CERT",
		},
		value: str(func(o *Options) *string { return &o.VaultCert }),
	},
	{
		Definition: Definition{
			Name:        "vaultRole",
			Description: "Role to use to authenticate to vault.",
			Env:         "DBEAM_VAULT_ROLE",
		},
		value: str(func(o *Options) *string { return &o.VaultRole }),
	},
	{
		Definition: Definition{
			Name:        "vaultPath",
			Description: "Path in the vault to find username and password values. Example: database/creds/mysql-users-reader",
			Env:         "DBEAM_VAULT_PATH",
		},
		value: str(func(o *Options) *string { return &o.VaultPath }),
	},
	{
		Definition: Definition{
			Name:        "partition",
			Description: "The date of the partition to extract, e.g. 2024-03-15.",
			Env:         "DBEAM_PARTITION",
		},
		value: str(func(o *Options) *string { return &o.Partition }),
	},
	{
		Definition: Definition{
			Name:        "partitionColumn",
			Description: "The column used to filter rows of the partition.",
			Env:         "DBEAM_PARTITION_COLUMN",
		},
		value: str(func(o *Options) *string { return &o.PartitionColumn }),
	},
	{
		Definition: Definition{
			Name:        "partitionPeriod",
			Description: "The ISO-8601 period covered by one partition, e.g. P1D or P1M.",
			Default:     "P1D",
			Env:         "DBEAM_PARTITION_PERIOD",
		},
		value: str(func(o *Options) *string { return &o.PartitionPeriod }),
	},
	{
		Definition: Definition{
			Name:        "limit",
			Description: "Limit the output number of rows, indefinite by default.",
			Env:         "DBEAM_LIMIT",
		},
		value: func(o *Options) pflag.Value { return optionalIntValue{p: &o.Limit} },
	},
}

// Definitions returns the declared options in order.
func Definitions() []Definition {
	out := make([]Definition, len(bindings))
	for i, b := range bindings {
		out[i] = b.Definition
	}
	return out
}

func bindingByName(name string) (binding, bool) {
	for _, b := range bindings {
		if b.Name == name {
			return b, true
		}
	}
	return binding{}, false
}

// PasswordSource names a way of obtaining the database password.
type PasswordSource string

const (
	PasswordSourceKMSFile PasswordSource = "passwordFileKmsEncrypted"
	PasswordSourceFile    PasswordSource = "passwordFile"
	PasswordSourceDirect  PasswordSource = "password"
	PasswordSourceVault   PasswordSource = "vault"
)

// PasswordSources lists the password sources configured in o. Choosing
// between them and fetching the secret is left to the credential resolver.
func (o *Options) PasswordSources() []PasswordSource {
	var out []PasswordSource
	if o.PasswordFileKmsEncrypted != "" {
		out = append(out, PasswordSourceKMSFile)
	}
	if o.PasswordFile != "" {
		out = append(out, PasswordSourceFile)
	}
	if o.Password != "" {
		out = append(out, PasswordSourceDirect)
	}
	if o.VaultURL != "" && o.VaultPath != "" {
		out = append(out, PasswordSourceVault)
	}
	return out
}
