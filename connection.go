package dbeam

import (
	"fmt"
	"net/url"
	"strings"
)

const jdbcPrefix = "jdbc:"

// ConnectionArgs describes how to reach the database an extraction reads
// from. DriverName and DataSourceName are the arguments database/sql.Open
// expects; credentials are kept apart from the data source name.
type ConnectionArgs struct {
	URL            string
	DriverName     string
	DataSourceName string
	Username       string
	Password       string
}

// ParseConnectionURL derives a driver name and data source name from a JDBC
// connection URL. Recognized forms:
//
//	jdbc:postgresql://[user[:password]@]host[:port]/db[?params]  -> postgres
//	jdbc:mysql://[user[:password]@]host[:port]/db[?params]       -> mysql
//	jdbc:sqlite:<path>                                           -> sqlite
//
// Credentials in the URL user info are moved to Username and Password and
// left out of the data source name.
func ParseConnectionURL(raw string) (ConnectionArgs, error) {
	if !strings.HasPrefix(strings.ToLower(raw), jdbcPrefix) {
		return ConnectionArgs{}, NewErrInvalidArgument("connectionUrl", "must start with jdbc:")
	}
	rest := raw[len(jdbcPrefix):]
	subprotocol, remainder, ok := strings.Cut(rest, ":")
	if !ok || subprotocol == "" {
		return ConnectionArgs{}, NewErrInvalidArgument("connectionUrl", "is missing a subprotocol")
	}

	switch strings.ToLower(subprotocol) {
	case "postgresql", "postgres":
		u, err := parseHostURL(rest)
		if err != nil {
			return ConnectionArgs{}, err
		}
		normalized := *u
		normalized.Scheme = "postgres"
		normalized.User = nil
		return withUserInfo(ConnectionArgs{URL: raw, DriverName: "postgres", DataSourceName: normalized.String()}, u), nil
	case "mysql":
		u, err := parseHostURL(rest)
		if err != nil {
			return ConnectionArgs{}, err
		}
		dsn := fmt.Sprintf("tcp(%s)/%s", u.Host, strings.TrimPrefix(u.Path, "/"))
		if u.RawQuery != "" {
			dsn += "?" + u.RawQuery
		}
		return withUserInfo(ConnectionArgs{URL: raw, DriverName: "mysql", DataSourceName: dsn}, u), nil
	case "sqlite":
		path := strings.TrimPrefix(remainder, "//")
		if path == "" {
			path = ":memory:"
		}
		return ConnectionArgs{URL: raw, DriverName: "sqlite", DataSourceName: path}, nil
	default:
		return ConnectionArgs{}, NewErrInvalidArgument("connectionUrl", fmt.Sprintf("uses unsupported subprotocol %q", subprotocol))
	}
}

func parseHostURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, NewErrInvalidArgument("connectionUrl", fmt.Sprintf("is not a valid URL: %v", err))
	}
	if u.Host == "" {
		return nil, NewErrInvalidArgument("connectionUrl", "is missing a host")
	}
	return u, nil
}

func withUserInfo(c ConnectionArgs, u *url.URL) ConnectionArgs {
	if u.User == nil {
		return c
	}
	c.Username = u.User.Username()
	c.Password, _ = u.User.Password()
	return c
}

// WithCredentials returns a copy of c using the given credentials. Empty
// arguments keep the current value.
func (c ConnectionArgs) WithCredentials(username, password string) ConnectionArgs {
	if username != "" {
		c.Username = username
	}
	if password != "" {
		c.Password = password
	}
	return c
}

// String renders c with every password masked, including one embedded in
// the URL.
func (c ConnectionArgs) String() string {
	password := ""
	if c.Password != "" {
		password = maskedPassword
	}
	return fmt.Sprintf("ConnectionArgs{url=%s, driver=%s, username=%s, password=%s}",
		redactURL(c.URL), c.DriverName, c.Username, password)
}

const (
	maskedPassword = "****"
	// maskedURLPassword matches url.URL.Redacted.
	maskedURLPassword = "xxxxx"
)

// passwordParams are query parameters drivers read a password from.
var passwordParams = []string{"password", "pass", "pwd"}

// redactURL masks the user info password and password query parameters of a
// connection URL. URLs that cannot be parsed are masked entirely.
func redactURL(raw string) string {
	prefix, rest := "", raw
	if strings.HasPrefix(strings.ToLower(raw), jdbcPrefix) {
		prefix, rest = raw[:len(jdbcPrefix)], raw[len(jdbcPrefix):]
	}
	if !strings.Contains(rest, "://") {
		return raw
	}
	u, err := url.Parse(rest)
	if err != nil {
		return prefix + maskedPassword
	}
	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			for _, p := range passwordParams {
				if strings.EqualFold(key, p) {
					q.Set(key, maskedURLPassword)
				}
			}
		}
		u.RawQuery = q.Encode()
	}
	return prefix + u.Redacted()
}
