// Command pluginhostctl is a thin control CLI for a running pluginhostd,
// talking to its HTTP control surface — grounded on tphakala-birdnet-go's
// cobra cmd/<name> layout, generalized from a single-binary CLI to a
// client of a separate long-lived daemon.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	var addr string

	root := &cobra.Command{
		Use:   "pluginhostctl",
		Short: "Controls and inspects a running pluginhostd",
	}
	root.PersistentFlags().StringVar(&addr, "addr", "http://127.0.0.1:9090", "pluginhostd control address")

	root.AddCommand(
		statusCommand(&addr),
		catalogCommand(&addr),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pluginhostctl: %v\n", err)
		os.Exit(1)
	}
}

func statusCommand(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Reports whether the daemon is playing and its transport position",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetchAndPrint(*addr + "/status")
		},
	}
}

func catalogCommand(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Lists the plugins the daemon's last catalog scan discovered",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetchAndPrint(*addr + "/catalog")
		},
	}
}

func fetchAndPrint(url string) error {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("reach daemon: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("daemon returned %s: %s", resp.Status, body)
	}

	var pretty any
	if err := json.Unmarshal(body, &pretty); err != nil {
		fmt.Println(string(body))
		return nil
	}
	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
