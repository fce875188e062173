// bankctl is a thin client for the ledger HTTP API. It performs no banking
// logic itself; every command is a request to a running server.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

// bcryptGenerate is swappable in tests.
var bcryptGenerate = bcrypt.GenerateFromPassword

func main() {
	rootCmd := &cobra.Command{
		Use:   "bankctl",
		Short: "Bank ledger CLI tool",
		Long:  `A command line interface for the bank account ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", envOr("BANKCTL_URL", "http://localhost:8080"), "Base URL of the ledger API")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("BANKCTL_TOKEN"), "Bearer token (defaults to BANKCTL_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		loginCmd(),
		openCmd(),
		depositCmd(),
		withdrawCmd(),
		transferCmd(),
		balanceCmd(),
		historyCmd(),
		updateProfileCmd(),
		closeCmd(),
		adminCmd(),
		hashPasswordCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and print a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := request(http.MethodPost, "/api/v1/auth/login", map[string]any{
				"username": username,
				"password": password,
			})
			if err != nil {
				return err
			}

			printJSON(result)
			fmt.Fprintln(os.Stderr, "export BANKCTL_TOKEN to authenticate subsequent commands")
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Login username")
	cmd.Flags().StringVar(&password, "password", "", "Login password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func openCmd() *cobra.Command {
	var (
		name, email, phone, address, dob string
		kind, deposit                    string
		username, password               string
	)

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := request(http.MethodPost, "/api/v1/accounts", map[string]any{
				"holder_name":     name,
				"email":           email,
				"phone":           phone,
				"address":         address,
				"date_of_birth":   dob,
				"kind":            kind,
				"initial_deposit": deposit,
				"username":        username,
				"password":        password,
			})
			if err != nil {
				return err
			}

			printJSON(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Account holder name")
	cmd.Flags().StringVar(&email, "email", "", "Account holder email")
	cmd.Flags().StringVar(&phone, "phone", "", "Contact phone")
	cmd.Flags().StringVar(&address, "address", "", "Postal address")
	cmd.Flags().StringVar(&dob, "dob", "", "Date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVar(&kind, "kind", "Savings", "Account kind (Savings or Current)")
	cmd.Flags().StringVar(&deposit, "deposit", "", "Initial deposit amount")
	cmd.Flags().StringVar(&username, "username", "", "Login username to bind to the account")
	cmd.Flags().StringVar(&password, "password", "", "Login password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("deposit")

	return cmd
}

func depositCmd() *cobra.Command {
	var (
		account     int64
		amount      string
		description string
	)

	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Deposit money into an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := request(http.MethodPost, "/api/v1/deposits", map[string]any{
				"account_number": account,
				"amount":         amount,
				"description":    description,
			})
			if err != nil {
				return err
			}

			printJSON(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&account, "account", 0, "Account number")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to deposit")
	cmd.Flags().StringVar(&description, "description", "", "Optional entry description")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func withdrawCmd() *cobra.Command {
	var (
		account     int64
		amount      string
		description string
	)

	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Withdraw money from an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := request(http.MethodPost, "/api/v1/withdrawals", map[string]any{
				"account_number": account,
				"amount":         amount,
				"description":    description,
			})
			if err != nil {
				return err
			}

			printJSON(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&account, "account", 0, "Account number")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to withdraw")
	cmd.Flags().StringVar(&description, "description", "", "Optional entry description")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func transferCmd() *cobra.Command {
	var (
		from, to    int64
		amount      string
		description string
	)

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer money between two accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := request(http.MethodPost, "/api/v1/transfers", map[string]any{
				"from":        from,
				"to":          to,
				"amount":      amount,
				"description": description,
			})
			if err != nil {
				return err
			}

			printJSON(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&from, "from", 0, "Source account number")
	cmd.Flags().Int64Var(&to, "to", 0, "Destination account number")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to transfer")
	cmd.Flags().StringVar(&description, "description", "", "Optional entry description")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func balanceCmd() *cobra.Command {
	var account int64

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show an account balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := request(http.MethodGet, "/api/v1/accounts/"+strconv.FormatInt(account, 10)+"/balance", nil)
			if err != nil {
				return err
			}

			printJSON(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&account, "account", 0, "Account number")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func historyCmd() *cobra.Command {
	var (
		account int64
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show an account's ledger entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/accounts/%d/entries?limit=%d", account, limit)
			result, err := request(http.MethodGet, path, nil)
			if err != nil {
				return err
			}

			printJSON(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&account, "account", 0, "Account number")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of entries")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func updateProfileCmd() *cobra.Command {
	var (
		account        int64
		phone, address string
	)

	cmd := &cobra.Command{
		Use:   "update-profile",
		Short: "Update the mutable profile fields of an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := request(http.MethodPut, fmt.Sprintf("/api/v1/accounts/%d/profile", account), map[string]any{
				"phone":   phone,
				"address": address,
			})
			if err != nil {
				return err
			}

			fmt.Println("profile updated")
			return nil
		},
	}

	cmd.Flags().Int64Var(&account, "account", 0, "Account number")
	cmd.Flags().StringVar(&phone, "phone", "", "New contact phone")
	cmd.Flags().StringVar(&address, "address", "", "New postal address")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func closeCmd() *cobra.Command {
	var account int64

	cmd := &cobra.Command{
		Use:   "close",
		Short: "Close an account (balance must be zero)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := request(http.MethodPost, fmt.Sprintf("/api/v1/accounts/%d/close", account), nil)
			if err != nil {
				return err
			}

			fmt.Println("account closed")
			return nil
		},
	}

	cmd.Flags().Int64Var(&account, "account", 0, "Account number")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative reports",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "overview",
			Short: "Show bank-wide totals",
			RunE: func(cmd *cobra.Command, args []string) error {
				result, err := request(http.MethodGet, "/api/v1/admin/overview", nil)
				if err != nil {
					return err
				}

				printJSON(result)
				return nil
			},
		},
		&cobra.Command{
			Use:   "conservation",
			Short: "Check that balances match the ledger",
			RunE: func(cmd *cobra.Command, args []string) error {
				result, err := request(http.MethodGet, "/api/v1/admin/conservation", nil)
				if err != nil {
					return err
				}

				printJSON(result)
				if consistent, ok := result["consistent"].(bool); ok && !consistent {
					return fmt.Errorf("conservation check FAILED")
				}

				fmt.Println("conservation check PASSED")
				return nil
			},
		},
	)

	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for seeding credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}

			fmt.Println(string(hash))
			return nil
		},
	}
}

// request sends one API call and decodes the JSON response. A non-2xx status
// is returned as an error carrying the server's error message.
func request(method, path string, body any) (map[string]any, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, fmt.Errorf("failed to parse response (status %d): %s", resp.StatusCode, truncate(string(raw), 200))
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The server puts the human-readable error in "error"; "message"
		// carries extra detail when present.
		if msg, ok := result["error"].(string); ok && msg != "" {
			return nil, fmt.Errorf("%s (status %d)", msg, resp.StatusCode)
		}
		if msg, ok := result["message"].(string); ok && msg != "" {
			return nil, fmt.Errorf("%s (status %d)", msg, resp.StatusCode)
		}
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	return result, nil
}

func printJSON(v any) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%+v\n", v)
		return
	}
	fmt.Println(string(raw))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
