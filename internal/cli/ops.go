package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const defaultOpsURL = "http://localhost:8080"

// opsURL resolves the ops server base URL from the flag or environment
func opsURL(flagValue string) string {
	if flagValue != "" {
		return strings.TrimSuffix(flagValue, "/")
	}
	if env := os.Getenv("WARBOT_OPS_URL"); env != "" {
		return strings.TrimSuffix(env, "/")
	}
	return defaultOpsURL
}

func opsGet(baseURL, path string) ([]byte, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func newHealthCmd() *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the running bot's health endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opsGet(opsURL(url), "/healthz"); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "ops-url", "", "Ops server URL (env: WARBOT_OPS_URL)")
	return cmd
}

func newStatusCmd() *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the running bot's status document",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := opsGet(opsURL(url), "/status")
			if err != nil {
				return err
			}
			// re-indent for the terminal
			var doc map[string]any
			if err := json.Unmarshal(body, &doc); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			pretty, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(pretty))
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "ops-url", "", "Ops server URL (env: WARBOT_OPS_URL)")
	return cmd
}
