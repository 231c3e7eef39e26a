package probe

import (
	"context"
	"errors"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// Hint suggests what to check for a probe failure. It returns "" when the
// error carries no recognisable cause.
func Hint(err error) string {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1044, 1045:
			return "Check your MYSQL_USER and MYSQL_PASSWORD."
		case 1049:
			return "Check your MYSQL_DATABASE."
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "28P01", "28000":
			return "Check your REDSHIFT_USER and REDSHIFT_PASSWORD."
		case "3D000":
			return "Check your REDSHIFT_DATABASE."
		case "3F000":
			return "Check your REDSHIFT_SCHEMA."
		}
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) || errors.Is(err, context.DeadlineExceeded) {
		return "Check the host and port, and that the database is reachable from this network."
	}
	return ""
}
