package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tracehq/trace-cli/internal/api"
	"github.com/tracehq/trace-cli/internal/crypto"
	"github.com/tracehq/trace-cli/internal/env"
	"github.com/tracehq/trace-cli/internal/output"
	"github.com/tracehq/trace-cli/internal/ui"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Inspect and protect connection credentials",
}

// envGroups lists the variables reported by env status, per data source.
var envGroups = []struct {
	title string
	names []string
}{
	{"MySQL", []string{"MYSQL_HOST", "MYSQL_DATABASE", "MYSQL_USER", "MYSQL_PASSWORD"}},
	{"Redshift", []string{"REDSHIFT_HOST", "REDSHIFT_DATABASE", "REDSHIFT_USER", "REDSHIFT_PASSWORD", "REDSHIFT_SCHEMA"}},
	{"Stripe", []string{"STRIPE_API_KEY"}},
}

var envStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which credentials are set, with secrets masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		for _, g := range envGroups {
			items := make([]output.KV, 0, len(g.names))
			for _, name := range g.names {
				items = append(items, output.KV{Label: name, Value: describeVar(name)})
			}
			output.Summary(w, g.title, items)
		}
		return nil
	},
}

func describeVar(name string) string {
	v := env.Optional(name, "")
	switch {
	case v == "":
		return "NOT SET"
	case name == "STRIPE_API_KEY":
		return fmt.Sprintf("%s (%s mode)", env.MaskSecret(v, 4), api.KeyMode(v))
	case strings.HasSuffix(name, "PASSWORD"):
		return env.MaskSecret(v, 4)
	}
	return v
}

var envSealCmd = &cobra.Command{
	Use:         "seal <file>",
	Short:       "Encrypt a dotenv file with a passphrase (writes <file>.age)",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{skipEnvAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		src := args[0]
		remove, _ := cmd.Flags().GetBool("remove")

		plain, err := os.ReadFile(src)
		if err != nil {
			return err
		}
		if crypto.IsSealed(plain) {
			return fmt.Errorf("%s is already sealed", src)
		}
		if _, err := env.Parse(plain); err != nil {
			return fmt.Errorf("%s is not a valid dotenv file: %w", src, err)
		}

		pass, err := ui.ReadSecret("New passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := ui.ReadSecret("Repeat passphrase: ")
		if err != nil {
			return err
		}
		if pass != confirm {
			return errors.New("passphrases do not match")
		}

		sealed, err := crypto.Seal(plain, pass)
		if err != nil {
			return err
		}
		dst := src + env.SealedSuffix
		if err := os.WriteFile(dst, []byte(sealed), 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", dst, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sealed %s to %s\n", src, dst)

		if remove {
			if err := os.Remove(src); err != nil {
				return fmt.Errorf("removing %s: %w", src, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", src)
		}
		return nil
	},
}

func init() {
	envSealCmd.Flags().Bool("remove", false, "delete the plaintext file after sealing")

	envCmd.AddCommand(envStatusCmd)
	envCmd.AddCommand(envSealCmd)
	rootCmd.AddCommand(envCmd)
}
