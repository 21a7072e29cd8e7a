// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package datasource

import (
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/exaring/otelpgx"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	mssql "github.com/microsoft/go-mssqldb"
	go_ora "github.com/sijms/go-ora/v2"
	"github.com/snowflakedb/gosnowflake"
)

const jdbcPrefix = "jdbc:"

// stripJDBC drops the `jdbc:` scheme prefix, the remainder is the vendor
// connection string.
func stripJDBC(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= len(jdbcPrefix) && strings.EqualFold(raw[:len(jdbcPrefix)], jdbcPrefix) {
		return raw[len(jdbcPrefix):]
	}
	return raw
}

// openDB opens a database/sql pool for the options, it does not dial.
func openDB(opts Options) (*sql.DB, error) {
	target := stripJDBC(opts.URL)

	switch opts.Dialect {
	case DialectPostgreSQL:
		cfg, err := postgresConfig(target, opts.User, opts.Password)
		if err != nil {
			return nil, err
		}
		return stdlib.OpenDB(*cfg), nil

	case DialectMySQL:
		cfg, err := mysqlConfig(target, opts.User, opts.Password)
		if err != nil {
			return nil, err
		}
		connector, err := mysql.NewConnector(cfg)
		if err != nil {
			return nil, err
		}
		return sql.OpenDB(connector), nil

	case DialectSQLServer, DialectSQLServer2008:
		dsn, err := sqlServerDSN(target, opts.User, opts.Password)
		if err != nil {
			return nil, err
		}
		connector, err := mssql.NewConnector(dsn)
		if err != nil {
			return nil, err
		}
		return sql.OpenDB(connector), nil

	case DialectOracle, DialectOracle11g:
		dsn, err := oracleDSN(target, opts.User, opts.Password)
		if err != nil {
			return nil, err
		}
		return sql.Open(opts.Dialect.DriverName(), dsn)

	case DialectSnowflake:
		cfg, err := snowflakeConfig(target, opts.User, opts.Password)
		if err != nil {
			return nil, err
		}
		return sql.OpenDB(gosnowflake.NewConnector(gosnowflake.SnowflakeDriver{}, *cfg)), nil

	case DialectDB2:
		if !slices.Contains(sql.Drivers(), opts.Dialect.DriverName()) {
			return nil, fmt.Errorf("driver %q is not linked into this build", opts.Dialect.DriverName())
		}
		return sql.Open(opts.Dialect.DriverName(), db2DSN(target, opts.User, opts.Password))

	default:
		return nil, fmt.Errorf("unsupported dialect %s", opts.Dialect)
	}
}

func postgresConfig(target, user, password string) (*pgx.ConnConfig, error) {
	cfg, err := pgx.ParseConfig(target)
	if err != nil {
		return nil, fmt.Errorf("invalid postgresql connection string: %v", err)
	}

	if user != "" {
		cfg.User = user
	}
	if password != "" {
		cfg.Password = password
	}

	cfg.Tracer = otelpgx.NewTracer()

	return cfg, nil
}

// mysqlConfig accepts either a URL (`mysql://host:port/db`) or a native
// driver DSN (`user:pass@tcp(host:port)/db`).
func mysqlConfig(target, user, password string) (*mysql.Config, error) {
	var cfg *mysql.Config

	if strings.HasPrefix(target, "mysql://") {
		u, err := url.Parse(target)
		if err != nil {
			return nil, fmt.Errorf("invalid mysql connection url: %v", err)
		}

		cfg = mysql.NewConfig()
		cfg.Net = "tcp"
		cfg.Addr = withDefaultPort(u.Host, 3306)
		cfg.DBName = strings.TrimPrefix(u.Path, "/")

		if u.User != nil {
			cfg.User = u.User.Username()
			cfg.Passwd, _ = u.User.Password()
		}
	} else {
		var err error
		if cfg, err = mysql.ParseDSN(target); err != nil {
			return nil, fmt.Errorf("invalid mysql connection string: %v", err)
		}
	}

	if user != "" {
		cfg.User = user
	}
	if password != "" {
		cfg.Passwd = password
	}

	return cfg, nil
}

// sqlServerDSN converts the `sqlserver://host:port;databaseName=db;...`
// form into the driver URL form, other forms are passed through.
func sqlServerDSN(target, user, password string) (string, error) {
	if !strings.HasPrefix(strings.ToLower(target), "sqlserver://") {
		return target, nil
	}

	rest := target[len("sqlserver://"):]

	hostPart, props, _ := strings.Cut(rest, ";")

	u, err := url.Parse("sqlserver://" + hostPart)
	if err != nil {
		return "", fmt.Errorf("invalid sqlserver connection url: %v", err)
	}

	q := u.Query()
	for _, p := range strings.Split(props, ";") {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			continue
		}

		k = strings.TrimSpace(k)
		switch strings.ToLower(k) {
		case "databasename", "database":
			k = "database"
		case "user", "username":
			if user == "" {
				user = v
			}
			continue
		case "password":
			if password == "" {
				password = v
			}
			continue
		}
		q.Set(k, strings.TrimSpace(v))
	}

	u.RawQuery = q.Encode()
	if user != "" {
		u.User = url.UserPassword(user, password)
	}

	return u.String(), nil
}

// oracleDSN understands the thin driver forms `oracle:thin:@host:port/service`,
// `oracle:thin:@//host:port/service` and `oracle:thin:@host:port:sid`, as well
// as native `oracle://` URLs.
func oracleDSN(target, user, password string) (string, error) {
	if strings.HasPrefix(target, "oracle://") {
		u, err := url.Parse(target)
		if err != nil {
			return "", fmt.Errorf("invalid oracle connection url: %v", err)
		}
		if user != "" {
			u.User = url.UserPassword(user, password)
		}
		return u.String(), nil
	}

	at := strings.Index(target, "@")
	if !strings.HasPrefix(target, "oracle:") || at < 0 {
		return "", fmt.Errorf("invalid oracle connection string %q", target)
	}

	addr := strings.TrimPrefix(target[at+1:], "//")

	var options map[string]string
	hostPort, service, found := strings.Cut(addr, "/")
	if !found {
		// host:port:sid
		parts := strings.Split(addr, ":")
		if len(parts) != 3 {
			return "", fmt.Errorf("invalid oracle connection string %q", target)
		}
		hostPort = parts[0] + ":" + parts[1]
		options = map[string]string{"SID": parts[2]}
		service = ""
	}

	host, portStr, err := net.SplitHostPort(withDefaultPort(hostPort, 1521))
	if err != nil {
		return "", fmt.Errorf("invalid oracle address %q: %v", hostPort, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", fmt.Errorf("invalid oracle port %q", portStr)
	}

	return go_ora.BuildUrl(host, port, service, user, password, options), nil
}

// snowflakeConfig accepts `snowflake://account.snowflakecomputing.com/?db=..`
// URLs as well as native gosnowflake DSNs.
func snowflakeConfig(target, user, password string) (*gosnowflake.Config, error) {
	var cfg *gosnowflake.Config

	if strings.HasPrefix(target, "snowflake://") {
		u, err := url.Parse(target)
		if err != nil {
			return nil, fmt.Errorf("invalid snowflake connection url: %v", err)
		}

		q := u.Query()
		host := u.Hostname()
		account, _, _ := strings.Cut(host, ".")

		cfg = &gosnowflake.Config{
			Account:   account,
			Host:      host,
			Database:  q.Get("db"),
			Schema:    q.Get("schema"),
			Warehouse: q.Get("warehouse"),
			Role:      q.Get("role"),
		}
		if u.User != nil {
			cfg.User = u.User.Username()
			cfg.Password, _ = u.User.Password()
		}
	} else {
		var err error
		if cfg, err = gosnowflake.ParseDSN(target); err != nil {
			return nil, fmt.Errorf("invalid snowflake connection string: %v", err)
		}
	}

	if user != "" {
		cfg.User = user
	}
	if password != "" {
		cfg.Password = password
	}

	return cfg, nil
}

// db2DSN converts `db2://host:port/database` into the CLI keyword form.
func db2DSN(target, user, password string) string {
	if !strings.HasPrefix(target, "db2://") {
		return target
	}

	u, err := url.Parse(target)
	if err != nil {
		return target
	}

	return fmt.Sprintf(
		"HOSTNAME=%s;PORT=%s;DATABASE=%s;UID=%s;PWD=%s",
		u.Hostname(), u.Port(), strings.TrimPrefix(u.Path, "/"), user, password,
	)
}

func withDefaultPort(hostPort string, port int) string {
	if _, _, err := net.SplitHostPort(hostPort); err == nil {
		return hostPort
	}
	return net.JoinHostPort(hostPort, strconv.Itoa(port))
}
