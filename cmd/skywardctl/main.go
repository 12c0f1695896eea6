// skywardctl is a small operator CLI for inspecting a running
// skyward-core: company connectivity and flight sessions.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/skyward-io/skyward/internal/core/model"
)

var serverAddr string

func main() {
	root := &cobra.Command{
		Use:          "skywardctl",
		Short:        "Inspect a running Skyward core",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&serverAddr, "server", "http://localhost:8080", "Base URL of the skyward-core HTTP API.")

	root.AddCommand(newConnectionsCommand())
	root.AddCommand(newSessionsCommand())
	root.AddCommand(newSessionCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func getJSON(path string, out any) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(serverAddr + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func newConnectionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "connections",
		Short: "List company connectivity states",
		RunE: func(cmd *cobra.Command, args []string) error {
			var states []model.ConnectionState
			if err := getJSON("/api/v1/connections", &states); err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("COMPANY", "STATUS", "LAST SAMPLE")
			for _, s := range states {
				last := "never"
				if !s.LastSampleAt.IsZero() {
					last = s.LastSampleAt.Format(time.RFC3339)
				}
				table.AddRow(s.CompanyID, string(s.Status), last)
			}
			fmt.Println(table)
			return nil
		},
	}
}

func newSessionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List flight sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var sessions []model.FlightSession
			if err := getJSON("/api/v1/sessions", &sessions); err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("SESSION", "COMPANY", "AIRCRAFT", "STATUS", "PHASE", "SCORE", "EVENTS")
			for _, s := range sessions {
				table.AddRow(s.ID, s.CompanyID, s.AircraftID, string(s.Status), string(s.Phase), s.FlightScore, len(s.Events.Active()))
			}
			fmt.Println(table)
			return nil
		},
	}
}

func newSessionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "session <id>",
		Short: "Show one flight session in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var s model.FlightSession
			if err := getJSON("/api/v1/sessions/"+args[0], &s); err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("ID:", s.ID)
			table.AddRow("Company:", s.CompanyID)
			table.AddRow("Aircraft:", s.AircraftID)
			table.AddRow("Status:", string(s.Status))
			table.AddRow("Phase:", string(s.Phase))
			table.AddRow("Score:", s.FlightScore)
			table.AddRow("Max G:", fmt.Sprintf("%.2f", s.MaxGForce))
			if s.TouchdownCaptured {
				table.AddRow("Touchdown G:", fmt.Sprintf("%.2f", s.TouchdownGForce))
				table.AddRow("Touchdown VS:", fmt.Sprintf("%.0f ft/min", s.TouchdownVS))
				table.AddRow("Landing:", string(s.LandingGrade))
			}
			table.AddRow("Maintenance:", fmt.Sprintf("%.0f", s.MaintenanceCost))
			for _, ev := range s.Events.Active() {
				table.AddRow("Event:", string(ev))
			}
			if s.Settlement != nil {
				table.AddRow("Settled:", s.Settlement.SettledAt.Format(time.RFC3339))
				table.AddRow("Payout:", fmt.Sprintf("%.0f", s.Settlement.TotalPayout))
				table.AddRow("Reputation:", string(s.Settlement.Reputation))
				table.AddRow("Stars:", fmt.Sprintf("T%d F%d L%d O%d",
					s.Settlement.Stars.Takeoff, s.Settlement.Stars.Flight,
					s.Settlement.Stars.Landing, s.Settlement.Stars.Overall))
			}
			fmt.Println(table)
			return nil
		},
	}
}
