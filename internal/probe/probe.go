// Package probe checks that a database is reachable and that the tables the
// reports depend on can be queried.
package probe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tracehq/trace-cli/internal/ctxlog"
	"github.com/tracehq/trace-cli/internal/output"
)

// Step is one query run by a probe.
type Step struct {
	Name  string
	Query string
	// Exec runs Query for its side effect instead of scanning a value.
	Exec bool
	// Critical steps abort the probe when they fail.
	Critical bool
}

// Result is the outcome of a single step.
type Result struct {
	Step    Step
	Value   string
	Err     error
	Elapsed time.Duration
}

// OK reports whether the step succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Report collects the results of a probe run.
type Report struct {
	Results []Result
	// Failed is set when a critical step failed.
	Failed bool
}

// Err returns the error of the critical step that stopped the run, if any.
func (r Report) Err() error {
	if !r.Failed || len(r.Results) == 0 {
		return nil
	}
	return r.Results[len(r.Results)-1].Err
}

// Degraded reports whether a non-critical step failed.
func (r Report) Degraded() bool {
	for _, res := range r.Results {
		if !res.OK() && !res.Step.Critical {
			return true
		}
	}
	return false
}

// DB is the subset of *sql.DB used by Run. *sql.Conn satisfies it too.
type DB interface {
	PingContext(ctx context.Context) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conner is implemented by *sql.DB.
type conner interface {
	Conn(ctx context.Context) (*sql.Conn, error)
}

// ConnectStep is the name of the implicit first step that pings the server.
const ConnectStep = "connect"

// Run pings db and then executes steps in order on a single connection, so
// session state set by one step (SET search_path, temp tables) is seen by
// the next. A failing critical step stops the run; other failures are
// recorded and the run continues.
func Run(ctx context.Context, db DB, steps []Step) Report {
	logger := ctxlog.FromContext(ctx)
	var rep Report

	record := func(step Step, value string, err error, start time.Time) bool {
		res := Result{Step: step, Value: value, Err: err, Elapsed: time.Since(start)}
		rep.Results = append(rep.Results, res)
		logger.Debug("probe step", "step", step.Name, "elapsed", res.Elapsed, "err", err)
		if err != nil && step.Critical {
			rep.Failed = true
			return false
		}
		return true
	}

	start := time.Now()
	session, release, err := pin(ctx, db)
	if !record(Step{Name: ConnectStep, Critical: true}, "", err, start) {
		return rep
	}
	defer release()

	for _, step := range steps {
		start := time.Now()
		value, err := runStep(ctx, session, step)
		if !record(step, value, err, start) {
			break
		}
	}
	return rep
}

// pin pings db and, when db is a pool, reserves one connection from it.
func pin(ctx context.Context, db DB) (DB, func(), error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, nil, err
	}
	c, ok := db.(conner)
	if !ok {
		return db, func() {}, nil
	}
	conn, err := c.Conn(ctx)
	if err != nil {
		return nil, nil, err
	}
	return conn, func() { conn.Close() }, nil
}

func runStep(ctx context.Context, db DB, step Step) (string, error) {
	if step.Exec {
		_, err := db.ExecContext(ctx, step.Query)
		return "", err
	}

	var v any
	if err := db.QueryRowContext(ctx, step.Query).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: no rows", step.Name)
		}
		return "", err
	}
	return formatValue(v), nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case int64:
		return output.FormatNumber(x)
	case int32:
		return output.FormatNumber(int64(x))
	case time.Time:
		return x.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}
