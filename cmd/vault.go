package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/Farahprojects/repoaudit/internal/vault"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// vaultCmd groups token encryption helpers.
var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Encrypt source tokens for safe storage",
	Long: `Helpers for the token vault.

Source tokens for private repositories should not live in plaintext in
config files or shell history. Encrypt them once with a master secret;
pass the ciphertext via --source-token-enc and the secret via
REPOAUDIT_VAULT_SECRET, and the plaintext only ever exists in process
memory for the duration of a run.`,
}

// vaultEncryptCmd encrypts one token read from stdin.
var vaultEncryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt a token read from stdin",
	Long: `Read one token from stdin and print its vault ciphertext.

The token is read from stdin rather than an argument so it never lands
in shell history. Every invocation produces different ciphertext for the
same token; both decrypt identically.

Examples:
  # Encrypt a token interactively
  REPOAUDIT_VAULT_SECRET=... repoaudit vault encrypt < token.txt`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if err := viper.Unmarshal(input); err != nil {
			return fmt.Errorf("unable to unmarshal config: %w", err)
		}
		if input.VaultSecret == "" {
			return &contract.ValidationError{Field: "vault-secret", Reason: "required; set REPOAUDIT_VAULT_SECRET"}
		}
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		reader := bufio.NewReader(os.Stdin)
		token, err := reader.ReadString('\n')
		if err != nil && token == "" {
			contract.LogFatal("Failed to read token from stdin", err)
		}
		token = strings.TrimSpace(token)
		if token == "" {
			contract.LogFatal("Empty token", nil)
		}

		cipher, err := vault.NewTokenCipher(input.VaultSecret)
		if err != nil {
			contract.LogFatal("Failed to initialize vault", err)
		}
		enc, err := cipher.Encrypt(token)
		if err != nil {
			contract.LogFatal("Encryption failed", err)
		}
		fmt.Println(enc)
	},
}
