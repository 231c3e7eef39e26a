package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tracehq/trace-cli/internal/api"
	"github.com/tracehq/trace-cli/internal/config"
	"github.com/tracehq/trace-cli/internal/ctxlog"
	"github.com/tracehq/trace-cli/internal/env"
	"github.com/tracehq/trace-cli/internal/output"
	"github.com/tracehq/trace-cli/internal/probe"
)

// errValidationFailed is returned when a probe's critical step fails.
var errValidationFailed = errors.New("validation failed")

const rule = "=================================================="

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate connections to data sources",
}

var checkMySQLCmd = &cobra.Command{
	Use:   "mysql",
	Short: "Check the MySQL connection and table access",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		db, err := probe.OpenMySQL(cfg.MySQL)
		return runDatabaseCheck(cmd, "MySQL", db, err, probe.MySQLSteps, []output.KV{
			{Label: "Host", Value: cfg.MySQL.Host},
			{Label: "Database", Value: cfg.MySQL.Database},
			{Label: "Port", Value: cfg.MySQL.Port},
		})
	},
}

var checkRedshiftCmd = &cobra.Command{
	Use:   "redshift",
	Short: "Check the Redshift connection, SQL dialect and table access",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		db, err := probe.OpenRedshift(cfg.Redshift)
		return runDatabaseCheck(cmd, "Redshift", db, err, probe.RedshiftSteps(cfg.Redshift.Schema), []output.KV{
			{Label: "Host", Value: cfg.Redshift.Host},
			{Label: "Database", Value: cfg.Redshift.Database},
			{Label: "Port", Value: cfg.Redshift.Port},
			{Label: "Schema", Value: cfg.Redshift.Schema},
		})
	},
}

// runDatabaseCheck runs steps against db behind a progress indicator and
// prints the per-step report.
func runDatabaseCheck(cmd *cobra.Command, name string, db *sql.DB, openErr error, steps []probe.Step, target []output.KV) error {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s Connection Validator\n%s\n", name, rule)

	if openErr != nil {
		if env.IsMissing(openErr) {
			fmt.Fprintf(w, "\nEnvironment variables: MISSING\n")
		}
		return openErr
	}
	defer db.Close()
	fmt.Fprintln(w, "\nEnvironment variables: OK")
	output.Summary(w, "Target", target)
	fmt.Fprintln(w)

	spinner := newSpinner(cmd, "Connecting to "+name)
	spinner.Start()
	rep := probe.Run(cmd.Context(), db, steps)
	spinner.Stop()

	printReport(w, rep)

	if rep.Failed {
		if hint := probe.Hint(rep.Err()); hint != "" {
			fmt.Fprintln(w, "\n"+hint)
		}
		return fmt.Errorf("%w: %s: %v", errValidationFailed, rep.Results[len(rep.Results)-1].Step.Name, rep.Err())
	}
	if rep.Degraded() {
		fmt.Fprintln(w, "\nSome tables may not be accessible.")
	}
	fmt.Fprintln(w, "\nValidation: PASSED")
	return nil
}

func printReport(w io.Writer, rep probe.Report) {
	rows := make([][]any, 0, len(rep.Results))
	for _, res := range rep.Results {
		status, detail := "OK", res.Value
		if !res.OK() {
			status, detail = "ERROR", firstLine(res.Err.Error())
		}
		rows = append(rows, []any{res.Step.Name, status, detail, output.FormatDuration(res.Elapsed)})
	}
	output.Table(w, []string{"STEP", "STATUS", "RESULT", "TIME"}, rows, 6)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

var checkStripeCmd = &cobra.Command{
	Use:   "stripe",
	Short: "Check the Stripe API key without printing it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Stripe API Connection Validator\n%s\n", rule)

		key := cfg.Stripe.APIKey
		if key == "" {
			fmt.Fprintln(w, "\nEnvironment variables: MISSING")
			return &env.MissingError{Names: []string{"STRIPE_API_KEY"}, Description: "set it in your .env file or environment"}
		}

		mode := api.KeyMode(key)
		note := map[string]string{
			api.ModeLive:    "CAUTION: production data",
			api.ModeTest:    "safe for testing",
			api.ModeUnknown: "key format not recognized",
		}[mode]
		fmt.Fprintln(w, "\nEnvironment variables: OK")
		output.Summary(w, "Key", []output.KV{
			{Label: "Key", Value: env.MaskKey(key)},
			{Label: "Mode", Value: fmt.Sprintf("%s (%s)", mode, note)},
		})
		fmt.Fprintln(w)

		client := api.New(cfg.Stripe.BaseURL, key, ctxlog.FromContext(cmd.Context()))
		if err := checkStripe(cmd, client); err != nil {
			return err
		}

		fmt.Fprintln(w, "\nValidation: PASSED")
		fmt.Fprintf(w, "\n%s\nSECURITY REMINDER:\n", rule)
		fmt.Fprintln(w, "  - NEVER log or output the full API key")
		fmt.Fprintln(w, "  - NEVER commit .env files to git")
		fmt.Fprintln(w, "  - Use test mode (sk_test_) for development")
		fmt.Fprintln(w, rule)
		return nil
	},
}

func checkStripe(cmd *cobra.Command, client *api.Client) error {
	ctx, w := cmd.Context(), cmd.OutOrStdout()

	spinner := newSpinner(cmd, "Testing API connection")
	spinner.Start()
	bal, err := client.Balance(ctx)
	spinner.Stop()
	if err != nil {
		switch {
		case api.IsAuthError(err):
			fmt.Fprintf(w, "  ERROR: Authentication failed - %v\n", err)
		default:
			fmt.Fprintf(w, "  ERROR: %v\n", err)
		}
		return fmt.Errorf("%w: %v", errValidationFailed, err)
	}
	fmt.Fprintln(w, "  API call: OK")
	fmt.Fprintf(w, "  Live mode: %t\n", bal.LiveMode)

	spinner = newSpinner(cmd, "Listing customers")
	spinner.Start()
	customers, err := client.ListCustomers(ctx, 3)
	spinner.Stop()
	if err != nil {
		fmt.Fprintf(w, "  ERROR: %v\n", err)
	} else {
		fmt.Fprintf(w, "  Retrieved %d customers (limited to 3)\n", len(customers.Data))
		if len(customers.Data) > 0 && strings.Contains(customers.Data[0].Email, "@") {
			fmt.Fprintf(w, "  Sample customer email: %s\n", api.MaskEmail(customers.Data[0].Email))
		}
	}

	spinner = newSpinner(cmd, "Listing subscriptions")
	spinner.Start()
	subs, err := client.ListSubscriptions(ctx, 3)
	spinner.Stop()
	if err != nil {
		fmt.Fprintf(w, "  ERROR: %v\n", err)
	} else {
		fmt.Fprintf(w, "  Retrieved %d subscriptions (limited to 3)\n", len(subs.Data))
	}
	return nil
}

func init() {
	checkCmd.AddCommand(checkMySQLCmd)
	checkCmd.AddCommand(checkRedshiftCmd)
	checkCmd.AddCommand(checkStripeCmd)
	rootCmd.AddCommand(checkCmd)
}
