package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/container"
	"github.com/pdiddy/litreview/internal/grobid"
	"github.com/pdiddy/litreview/pkg/types"
)

var grobidCmd = &cobra.Command{
	Use:   "grobid",
	Short: "Manage the GROBID extraction service container",
	Long: `Grobid manages the GROBID service the ingest stage extracts through.
The service runs as a container (docker or podman, detected in that
order); start launches it detached and waits until it answers health
probes, stop shuts it down, and status reports both container and
service health.`,
}

// --- start subcommand ---

var grobidStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the GROBID service container and wait for it to answer",
	RunE:  runGrobidStart,
}

func runGrobidStart(cmd *cobra.Command, args []string) error {
	image := stringSetting(cmd, "image", "grobid.image")
	name := stringSetting(cmd, "name", "grobid.container_name")
	publish, _ := cmd.Flags().GetString("publish")
	wait, _ := cmd.Flags().GetDuration("wait")

	rt, err := container.DetectRuntime()
	if err != nil {
		return err
	}

	if running, err := rt.Running(name); err == nil && running {
		fmt.Printf("Container %s is already running\n", name)
		return nil
	}

	if err := rt.ImageExists(image); err != nil {
		return fmt.Errorf("%w (pull it with: %s pull %s)", err, rt.Name(), image)
	}

	id, err := rt.StartService(image, name, publish)
	if err != nil {
		return err
	}
	if len(id) > 12 {
		id = id[:12]
	}
	fmt.Printf("Started %s (%s), waiting for the service to answer...\n", name, id)

	client := probeClient(cmd)
	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		if client.Alive(ctx) {
			fmt.Println("GROBID service is up.")
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("service did not answer within %s (container %s may still be starting)", wait, name)
		case <-ticker.C:
		}
	}
}

// --- stop subcommand ---

var grobidStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the GROBID service container",
	RunE: func(cmd *cobra.Command, args []string) error {
		name := stringSetting(cmd, "name", "grobid.container_name")

		rt, err := container.DetectRuntime()
		if err != nil {
			return err
		}
		if err := rt.Stop(name); err != nil {
			return err
		}
		fmt.Printf("Stopped %s\n", name)
		return nil
	},
}

// --- status subcommand ---

var grobidStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report container and service health",
	RunE: func(cmd *cobra.Command, args []string) error {
		name := stringSetting(cmd, "name", "grobid.container_name")
		url := stringSetting(cmd, "grobid-url", "ingest.grobid_url")

		rt, err := container.DetectRuntime()
		if err != nil {
			return err
		}
		fmt.Printf("Runtime:   %s\n", rt.Name())

		running, err := rt.Running(name)
		switch {
		case err != nil:
			fmt.Printf("Container: %s (unknown: %v)\n", name, err)
		case running:
			fmt.Printf("Container: %s (running)\n", name)
		default:
			fmt.Printf("Container: %s (not running)\n", name)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if probeClient(cmd).Alive(ctx) {
			fmt.Printf("Service:   %s (alive)\n", url)
		} else {
			fmt.Printf("Service:   %s (not responding)\n", url)
		}
		return nil
	},
}

// probeClient builds a client for health probes only.
func probeClient(cmd *cobra.Command) *grobid.Client {
	url := stringSetting(cmd, "grobid-url", "ingest.grobid_url")
	return grobid.NewClient(types.IngestConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second},
		GrobidURL:  url,
	})
}

func init() {
	grobidCmd.PersistentFlags().String("image", "grobid/grobid:0.8.1", "GROBID container image")
	grobidCmd.PersistentFlags().String("name", "litreview-grobid", "container name")
	grobidCmd.PersistentFlags().String("grobid-url", grobid.DefaultBaseURL, "service URL for health probes")

	grobidStartCmd.Flags().String("publish", "8070:8070", "host:container port publication")
	grobidStartCmd.Flags().Duration("wait", 90*time.Second, "how long to wait for the service to answer")

	grobidCmd.AddCommand(grobidStartCmd)
	grobidCmd.AddCommand(grobidStopCmd)
	grobidCmd.AddCommand(grobidStatusCmd)

	rootCmd.AddCommand(grobidCmd)
}
