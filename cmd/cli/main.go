package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	errNotPositive  = errors.New("amount must be positive")
	errInconsistent = errors.New("ledger is inconsistent")
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// apiClient talks to the account HTTP API.
type apiClient struct {
	baseURL        string
	timeout        time.Duration
	idempotencyKey string
	raw            bool
	yaml           bool
}

// structured reports whether responses are printed as is rather than summarized.
func (c *apiClient) structured() bool {
	return c.raw || c.yaml
}

// print writes a response body as indented JSON, or as YAML when requested.
func (c *apiClient) print(w io.Writer, body []byte) error {
	if c.yaml {
		return printYAML(w, body)
	}
	return printJSON(w, body)
}

func newRootCmd(out io.Writer) *cobra.Command {
	client := &apiClient{}

	rootCmd := &cobra.Command{
		Use:           "goaccount-cli",
		Short:         "GoAccount CLI tool",
		Long:          `A command line interface for interacting with the GoAccount API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&client.baseURL, "url", "http://localhost:8080", "Base URL of the GoAccount API")
	rootCmd.PersistentFlags().DurationVar(&client.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&client.raw, "json", false, "Print raw JSON responses")
	rootCmd.PersistentFlags().BoolVar(&client.yaml, "yaml", false, "Print responses as YAML")
	rootCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	rootCmd.AddCommand(
		amountCmd(client, "deposit", "Deposit money into the account", "/api/v1/account/deposits"),
		amountCmd(client, "withdraw", "Withdraw money from the account", "/api/v1/account/withdrawals"),
		balanceCmd(client),
		accountCmd(client),
		statementCmd(client),
		consistencyCmd(client),
	)

	return rootCmd
}

func amountCmd(client *apiClient, use, short, path string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <amount>",
		Short: short,
		Long:  short + ". The amount is in major units, e.g. 10.50.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cents, err := parseAmount(args[0])
			if err != nil {
				return err
			}

			body, err := client.do(http.MethodPost, path, map[string]int64{"amount": cents})
			if err != nil {
				return err
			}
			if client.structured() {
				return client.print(cmd.OutOrStdout(), body)
			}

			var entry entryView
			if err := json.Unmarshal(body, &entry); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s on %s, balance %s (ref %s)\n",
				use, entry.AmountDisplay, entry.Date, entry.BalanceDisplay, entry.Reference)
			return nil
		},
	}
	cmd.Flags().StringVar(&client.idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")
	return cmd
}

func balanceCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the current balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client.do(http.MethodGet, "/api/v1/account/balance", nil)
			if err != nil {
				return err
			}
			if client.structured() {
				return client.print(cmd.OutOrStdout(), body)
			}

			var resp struct {
				BalanceDisplay string `json:"balance_display"`
			}
			if err := json.Unmarshal(body, &resp); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.BalanceDisplay)
			return nil
		},
	}
}

func accountCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show account details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client.do(http.MethodGet, "/api/v1/account", nil)
			if err != nil {
				return err
			}
			return client.print(cmd.OutOrStdout(), body)
		},
	}
}

func consistencyCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Long:  `Replays the account history and verifies that the recorded balance matches it.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := client.send(http.MethodGet, "/api/v1/account/consistency", nil)
			if err != nil {
				return err
			}
			if status != http.StatusOK && status != http.StatusConflict {
				return apiError(status, body)
			}
			if client.structured() {
				if err := client.print(cmd.OutOrStdout(), body); err != nil {
					return err
				}
			} else {
				var resp struct {
					EntryCount int      `json:"entry_count"`
					Difference int64    `json:"difference"`
					Problems   []string `json:"problems"`
				}
				if err := json.Unmarshal(body, &resp); err != nil {
					return fmt.Errorf("failed to parse response: %w", err)
				}
				if status == http.StatusOK {
					fmt.Fprintf(cmd.OutOrStdout(), "Consistency check PASSED (%d entries)\n", resp.EntryCount)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Consistency check FAILED (difference %d)\n", resp.Difference)
					for _, p := range resp.Problems {
						fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", p)
					}
				}
			}
			if status == http.StatusConflict {
				return errInconsistent
			}
			return nil
		},
	}
}

func statementCmd(client *apiClient) *cobra.Command {
	var start, period string

	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Print a statement for a date window, newest entry first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{"start": {start}}
			if period != "" {
				query.Set("period", period)
			}

			body, err := client.do(http.MethodGet, "/api/v1/account/statement?"+query.Encode(), nil)
			if err != nil {
				return err
			}
			if client.structured() {
				return client.print(cmd.OutOrStdout(), body)
			}

			var resp struct {
				Start   string      `json:"start"`
				End     string      `json:"end"`
				Entries []entryView `json:"entries"`
			}
			if err := json.Unmarshal(body, &resp); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			return printStatement(cmd.OutOrStdout(), resp.Start, resp.End, resp.Entries)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "First day of the window (YYYY-MM-DD)")
	cmd.Flags().StringVar(&period, "period", "P1M", "Window length as an ISO-8601 period, e.g. P1M or P10D")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

type entryView struct {
	Reference      string `json:"reference"`
	Date           string `json:"date"`
	AmountDisplay  string `json:"amount_display"`
	BalanceDisplay string `json:"balance_display"`
	OpeningBalance bool   `json:"opening_balance"`
}

// do sends a request and returns the body of a 2xx response.
func (c *apiClient) do(method, path string, payload any) ([]byte, error) {
	status, body, err := c.send(method, path, payload)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, apiError(status, body)
	}
	return body, nil
}

// send performs the request and returns the status code and body as is.
func (c *apiClient) send(method, path string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.idempotencyKey != "" && method == http.MethodPost {
		req.Header.Set("Idempotency-Key", c.idempotencyKey)
	}

	resp, err := (&http.Client{Timeout: c.timeout}).Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func apiError(status int, body []byte) error {
	var apiErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
		if apiErr.Message != "" {
			return fmt.Errorf("%s: %s (status %d)", apiErr.Error, apiErr.Message, status)
		}
		return fmt.Errorf("%s (status %d)", apiErr.Error, status)
	}
	return fmt.Errorf("request failed (status %d): %s", status, truncate(string(body), 200))
}

// parseAmount converts a positive major-unit amount to minor units.
// Fractions of a cent are rejected.
func parseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if !d.IsPositive() {
		return 0, errNotPositive
	}

	cents := d.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than two decimal places", s)
	}
	if cents.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, fmt.Errorf("amount %s is too large", s)
	}

	return cents.IntPart(), nil
}

func printStatement(w io.Writer, start, end string, entries []entryView) error {
	fmt.Fprintf(w, "Statement %s to %s\n", start, end)
	if len(entries) == 0 {
		fmt.Fprintln(w, "no entries: the window ends before the account was opened")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "DATE\tAMOUNT\tBALANCE\t")
	for _, e := range entries {
		amount := e.AmountDisplay
		if e.OpeningBalance {
			amount = "opening"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", e.Date, amount, e.BalanceDisplay)
	}
	return tw.Flush()
}

func printJSON(w io.Writer, body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// printYAML re-encodes a JSON body as block-style YAML, keeping key order.
func printYAML(w io.Writer, body []byte) error {
	var node yaml.Node
	if err := yaml.Unmarshal(body, &node); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
