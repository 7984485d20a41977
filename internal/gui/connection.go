package gui

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
)

const defaultSqliteFile = "local-dex.db"

// Server databases are configured through these fields, in this order.
var serverFields = []string{"Username", "Password", "Host", "Port", "Database"}

// connectionFields splits an existing connection string back into the form
// values of the wizard. Unparsable strings yield empty values.
func connectionFields(database, connectionString string) []string {
	switch database {
	case "sqlite":
		file := strings.TrimPrefix(connectionString, "file:")
		file, _, _ = strings.Cut(file, "?")
		if file == "" || !strings.HasPrefix(connectionString, "file:") {
			file = defaultSqliteFile
		}
		return []string{file}
	case "postgres":
		values := make([]string, len(serverFields))
		if !strings.HasPrefix(connectionString, "postgres") {
			return values
		}
		conConf, err := pgx.ParseConfig(connectionString)
		if err == nil {
			values[0] = conConf.User
			values[1] = conConf.Password
			values[2] = conConf.Host
			values[3] = strconv.FormatUint(uint64(conConf.Port), 10)
			values[4] = conConf.Database
		}
		return values
	case "mysql":
		values := make([]string, len(serverFields))
		if !strings.Contains(connectionString, "@tcp(") {
			return values
		}
		conConf, err := mysql.ParseDSN(connectionString)
		if err == nil {
			values[0] = conConf.User
			values[1] = conConf.Passwd
			values[2], values[3], _ = net.SplitHostPort(conConf.Addr)
			values[4] = conConf.DBName
		}
		return values
	}
	return nil
}

// buildConnectionString is the inverse of connectionFields.
func buildConnectionString(database string, values []string) (string, error) {
	switch database {
	case "sqlite":
		if len(values) != 1 || values[0] == "" {
			return "", fmt.Errorf("file name is required")
		}
		return "file:" + values[0], nil
	case "postgres", "mysql":
		if len(values) != len(serverFields) {
			return "", fmt.Errorf("expected %d values, got %d", len(serverFields), len(values))
		}
		port, err := strconv.Atoi(values[3])
		if err != nil || port < 1 || port > 65535 {
			return "", fmt.Errorf("port must be between 1 and 65535")
		}
		addr := net.JoinHostPort(values[2], values[3])

		if database == "postgres" {
			u := url.URL{
				Scheme: "postgres",
				User:   url.UserPassword(values[0], values[1]),
				Host:   addr,
				Path:   "/" + values[4],
			}
			return u.String(), nil
		}

		conConf := mysql.NewConfig()
		conConf.User = values[0]
		conConf.Passwd = values[1]
		conConf.Net = "tcp"
		conConf.Addr = addr
		conConf.DBName = values[4]
		return conConf.FormatDSN(), nil
	}
	return "", fmt.Errorf("unsupported database type %q", database)
}

// describeConnection renders a connection string for the review page with
// the password masked.
func describeConnection(database, connectionString string) string {
	switch database {
	case "memory":
		return "Type: Memory (nothing is persisted)"
	case "sqlite":
		return fmt.Sprintf("Type: Sqlite\nFile: %s", connectionFields(database, connectionString)[0])
	case "postgres", "mysql":
		values := connectionFields(database, connectionString)
		if values[2] == "" {
			return "Failed to parse database connection string"
		}
		name := "Postgres"
		if database == "mysql" {
			name = "Mysql"
		}
		return fmt.Sprintf("Type: %s\nUser: %s, Password: %s\nHost: %s, Port: %s\nDB Name: %s\n",
			name, values[0], strings.Repeat("*", len(values[1])), values[2], values[3], values[4])
	}
	return "Unknown database type"
}
