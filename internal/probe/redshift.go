package probe

import (
	"database/sql"
	"net"
	"net/url"
	"sort"
	"strconv"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tracehq/trace-cli/internal/config"
)

// RedshiftSteps returns the checks run against the warehouse. The
// search_path is set first so unqualified names resolve in schema.
func RedshiftSteps(schema string) []Step {
	return []Step{
		{Name: "search_path", Query: "SET search_path TO " + pgx.Identifier{schema}.Sanitize(), Exec: true, Critical: true},
		{Name: "SELECT 1", Query: "SELECT 1", Critical: true},
		{Name: "string concat (||)", Query: "SELECT 'hello' || ' ' || 'world'"},
		{Name: "DATE_TRUNC", Query: "SELECT DATE_TRUNC('day', CURRENT_TIMESTAMP)"},
		{Name: "INTERVAL syntax", Query: "SELECT CURRENT_TIMESTAMP - INTERVAL '7 days'"},
		{
			Name:  schema + ".tracked_actions (last 24h)",
			Query: "SELECT COUNT(*) FROM " + pgx.Identifier{schema, "tracked_actions"}.Sanitize() + " WHERE creation_time >= CURRENT_TIMESTAMP - INTERVAL '1 day'",
		},
		{Name: "dbt_prod.flex_watch_divisions_over_games", Query: "SELECT COUNT(*) FROM dbt_prod.flex_watch_divisions_over_games"},
	}
}

// OpenRedshift validates cfg and returns a handle for the Redshift cluster.
// Redshift speaks the PostgreSQL wire protocol, so the pgx driver is used.
func OpenRedshift(cfg config.RedshiftConfig) (*sql.DB, error) {
	if err := requireFields(map[string]string{
		"REDSHIFT_HOST":     cfg.Host,
		"REDSHIFT_DATABASE": cfg.Database,
		"REDSHIFT_USER":     cfg.User,
		"REDSHIFT_PASSWORD": cfg.Password,
	}); err != nil {
		return nil, err
	}
	return sql.Open("pgx", redshiftDSN(cfg))
}

func redshiftDSN(cfg config.RedshiftConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Database,
	}
	q := url.Values{}
	q.Set("connect_timeout", strconv.Itoa(int(DialTimeout.Seconds())))
	q.Set("sslmode", "prefer")
	u.RawQuery = q.Encode()
	return u.String()
}

func sortedNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
