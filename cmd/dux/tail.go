package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/go-dux/dux/pkg/devtools"
)

func tailCmd() *cobra.Command {
	var (
		addr  string
		store string
	)

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Stream state-change events from a devtools endpoint",
		Long: `Tail connects to a running application's devtools endpoint and
prints every state-change event as it happens. New connections first
receive the latest snapshot of each watched store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			u := url.URL{Scheme: "ws", Host: addr, Path: "/events"}
			conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
			if err != nil {
				return fmt.Errorf("connect to %s: %w", u.String(), err)
			}
			defer conn.Close()

			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt)
			go func() {
				<-interrupt
				conn.Close()
				os.Exit(0)
			}()

			for {
				var ev devtools.Event
				if err := conn.ReadJSON(&ev); err != nil {
					return fmt.Errorf("stream closed: %w", err)
				}
				if store != "" && ev.Store != store {
					continue
				}
				printEvent(ev)
			}
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "localhost:6342", "devtools host:port")
	cmd.Flags().StringVarP(&store, "store", "s", "", "only show events for this store")

	return cmd
}

func storesCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "stores",
		Short: "List the latest snapshot of every watched store",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := http.Get("http://" + addr + "/stores")
			if err != nil {
				return fmt.Errorf("fetch stores: %w", err)
			}
			defer resp.Body.Close()

			var events []devtools.Event
			if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
				return fmt.Errorf("decode stores: %w", err)
			}

			for _, ev := range events {
				printEvent(ev)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "localhost:6342", "devtools host:port")

	return cmd
}

func printEvent(ev devtools.Event) {
	fmt.Printf("%s  #%-6d %-20s %s\n",
		ev.Time.Format("15:04:05.000"), ev.Seq, ev.Store, ev.State)
}
