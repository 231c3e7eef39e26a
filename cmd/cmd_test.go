package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracehq/trace-cli/internal/dates"
	"github.com/tracehq/trace-cli/internal/env"
)

// execute runs the root command with args in an isolated working directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TRACE_CONFIG_DIR", t.TempDir())
	t.Chdir(t.TempDir())

	viper.Reset()
	t.Cleanup(viper.Reset)
	cfgFile, envFile, outputFormat, debug = "", "", "table", false
	require.NoError(t, dateParseCmd.Flags().Set("end", ""))
	require.NoError(t, spinnerDemoCmd.Flags().Set("style", ""))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "trace dev (dev build)\n", out)
}

func TestDateParse(t *testing.T) {
	out, err := execute(t, "date", "parse", "2025-01-01", "--end", "2025-01-15", "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, "start,end,days\n2025-01-01,2025-01-15,14\n", out)
}

func TestDateParseInvalid(t *testing.T) {
	_, err := execute(t, "date", "parse", "someday")
	assert.ErrorIs(t, err, dates.ErrUnrecognized)

	_, err = execute(t, "date", "parse", "7d", "-o", "xml")
	assert.Error(t, err)
}

func TestSpinnerDemoPiped(t *testing.T) {
	out, err := execute(t, "spinner", "demo", "--style", "classic", "--duration", "10ms")
	require.NoError(t, err)
	assert.Equal(t, "Testing classic style...\n✓ classic complete\n", out)
}

func TestSpinnerDemoUnknownStyle(t *testing.T) {
	_, err := execute(t, "spinner", "demo", "--style", "spiral")
	assert.ErrorContains(t, err, `unknown style "spiral"`)
}

func TestCheckMySQLMissingEnv(t *testing.T) {
	for _, name := range []string{"MYSQL_HOST", "MYSQL_DATABASE", "MYSQL_USER", "MYSQL_PASSWORD"} {
		t.Setenv(name, "")
	}

	out, err := execute(t, "check", "mysql")
	require.Error(t, err)
	assert.True(t, env.IsMissing(err))
	assert.Contains(t, out, "Environment variables: MISSING")
}

func TestCheckStripe(t *testing.T) {
	const key = "sk_test_0123456789abcdef"

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/balance", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+key, r.Header.Get("Authorization"))
		w.Write([]byte(`{"object":"balance","livemode":false}`))
	})
	mux.HandleFunc("/v1/customers", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"cus_1","email":"alice@example.com"}]}`))
	})
	mux.HandleFunc("/v1/subscriptions", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"sub_1"},{"id":"sub_2"}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("stripe:\n  base_url: "+srv.URL+"\n"), 0o600))
	t.Setenv("STRIPE_API_KEY", key)

	out, err := execute(t, "--config", cfgPath, "check", "stripe")
	require.NoError(t, err)

	assert.NotContains(t, out, key)
	assert.Contains(t, out, "sk_test*************cdef")
	assert.Contains(t, out, "TEST (safe for testing)")
	assert.Contains(t, out, "Retrieved 1 customers")
	assert.Contains(t, out, "al***@example.com")
	assert.Contains(t, out, "Retrieved 2 subscriptions")
	assert.Contains(t, out, "Validation: PASSED")
}

func TestCheckStripeRejectedKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid API Key provided"}}`))
	}))
	defer srv.Close()

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("stripe:\n  base_url: "+srv.URL+"\n"), 0o600))
	t.Setenv("STRIPE_API_KEY", "sk_live_0123456789abcdef")

	out, err := execute(t, "--config", cfgPath, "check", "stripe")
	assert.ErrorIs(t, err, errValidationFailed)
	assert.Contains(t, out, "Authentication failed")
	assert.Contains(t, out, "CAUTION")
}

func TestEnvStatusMasksSecrets(t *testing.T) {
	t.Setenv("MYSQL_HOST", "db.internal")
	t.Setenv("MYSQL_PASSWORD", "hunter2hunter2")
	t.Setenv("REDSHIFT_HOST", "")
	t.Setenv("STRIPE_API_KEY", "sk_live_abcdefgh1234")

	out, err := execute(t, "env", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "db.internal")
	assert.NotContains(t, out, "hunter2hunter2")
	assert.Contains(t, out, "**********ter2")
	assert.Contains(t, out, "(LIVE mode)")
	assert.Contains(t, out, "NOT SET")
}
