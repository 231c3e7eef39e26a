package probe

import (
	"database/sql"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/tracehq/trace-cli/internal/config"
	"github.com/tracehq/trace-cli/internal/env"
)

// DialTimeout bounds the initial connection attempt of every probe.
const DialTimeout = 10 * time.Second

// MySQLSteps are the checks run against the application database.
var MySQLSteps = []Step{
	{Name: "SELECT 1", Query: "SELECT 1", Critical: true},
	{Name: "users table", Query: "SELECT COUNT(*) FROM users"},
	{Name: "teams table", Query: "SELECT COUNT(*) FROM teams"},
	{Name: "tracked_actions (last 24h)", Query: "SELECT COUNT(*) FROM tracked_actions WHERE creation_time >= DATE_SUB(NOW(), INTERVAL 1 DAY)"},
}

// OpenMySQL validates cfg and returns a handle for the MySQL database.
// No connection is made until the handle is used.
func OpenMySQL(cfg config.MySQLConfig) (*sql.DB, error) {
	if err := requireFields(map[string]string{
		"MYSQL_HOST":     cfg.Host,
		"MYSQL_DATABASE": cfg.Database,
		"MYSQL_USER":     cfg.User,
		"MYSQL_PASSWORD": cfg.Password,
	}); err != nil {
		return nil, err
	}
	return sql.Open("mysql", mysqlDSN(cfg))
}

func mysqlDSN(cfg config.MySQLConfig) string {
	c := mysql.NewConfig()
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.DBName = cfg.Database
	c.Timeout = DialTimeout
	c.ParseTime = true
	return c.FormatDSN()
}

// requireFields reports the variable names whose values are empty.
func requireFields(fields map[string]string) error {
	var missing []string
	for _, name := range sortedNames(fields) {
		if fields[name] == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &env.MissingError{Names: missing, Description: "set them in your .env file or environment"}
	}
	return nil
}
