package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/groblegark/kjql/internal/events"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Stream server events from NATS",
	GroupID: "system",
	// Override PersistentPreRunE so we don't create an HTTP client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		natsURL, _ := cmd.Flags().GetString("nats-url")
		topic, _ := cmd.Flags().GetString("topic")

		sub, err := events.NewNATSSubscriber(natsURL)
		if err != nil {
			return fmt.Errorf("connecting to NATS: %w", err)
		}
		defer sub.Close()

		ch, cancel, err := sub.Subscribe(topic)
		if err != nil {
			return fmt.Errorf("subscribing to %s: %w", topic, err)
		}
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		fmt.Fprintf(os.Stderr, "watching %s (ctrl-c to stop)\n", topic)
		for {
			select {
			case <-sigCh:
				return nil
			case payload, ok := <-ch:
				if !ok {
					return nil
				}
				fmt.Println(string(payload))
			}
		}
	},
}

func defaultNATSURL() string {
	if s := os.Getenv("KJQL_NATS_URL"); s != "" {
		return s
	}
	return "nats://localhost:4222"
}

func init() {
	watchCmd.Flags().String("nats-url", defaultNATSURL(), "NATS server URL")
	watchCmd.Flags().String("topic", "kjql.>", "subject to subscribe to")
}
