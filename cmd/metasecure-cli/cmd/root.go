package cmd

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

var serverURL string

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "metasecure-cli",
	Short: "CLI for the MetaSecure transfer coordinator",
	Long: `Drives a running metasecure-server: connect or disconnect the
wallet session, submit transfers, and inspect the reconciled history.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "coordinator base URL")
}

// envelope mirrors the server's response shape.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

func callAPI(method, path string, body io.Reader) (*envelope, error) {
	client := &http.Client{Timeout: 120 * time.Second} // submits wait for wallet approval and mining

	req, err := http.NewRequest(method, strings.TrimRight(serverURL, "/")+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("unexpected response: %s", string(raw))
	}
	return &env, nil
}

func printData(env *envelope) {
	if env.Code != 0 {
		fmt.Printf("Error (%d): %s\n", env.Code, env.Message)
		if len(env.Data) > 0 && string(env.Data) != "{}" {
			fmt.Println(string(env.Data))
		}
		os.Exit(1)
	}

	var pretty interface{}
	if err := json.Unmarshal(env.Data, &pretty); err != nil {
		fmt.Println(string(env.Data))
		return
	}
	out, _ := json.MarshalIndent(pretty, "", "  ")
	fmt.Println(string(out))
}
