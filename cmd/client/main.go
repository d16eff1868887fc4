// Command client is the interactive terminal client for the echo
// server. It connects once, prints everything the server sends, and
// forwards typed lines until the user enters DESCONEXION or the server
// goes away. There is no reconnect logic.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ankpp/echoline/client"
)

func main() {
	cmd := &cli.Command{
		Name:  "echoline-client",
		Usage: "interactive client for the echoline TCP echo server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Value: "127.0.0.1",
				Usage: "server host",
			},
			&cli.IntFlag{
				Name:  "port",
				Value: 5000,
				Usage: "server port",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	host := cmd.String("host")
	port := int(cmd.Int("port"))

	fmt.Printf("Connecting to %s:%d...\n", host, port)
	c, err := client.Dial(host, port)
	if err != nil {
		if errors.Is(err, client.ErrConnectionRefused) {
			return errors.New("connection refused, make sure the server is running")
		}
		return err
	}
	fmt.Println("Connected")

	if err := c.Run(); err != nil {
		c.Close()
		return err
	}

	// Connection loss ends the whole client, not just the receive side:
	// make sure the receiver has unwound before exiting.
	c.Close()
	<-c.Done()

	fmt.Println("Client terminated")
	return nil
}
