package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/microosc/microosc/osc"
)

func sendCmd() *cobra.Command {
	var (
		addr       string
		bufferSize int
		ttl        int
	)

	cmd := &cobra.Command{
		Use:   "send /address [arg...]",
		Short: "Build and transmit a single OSC message",
		Long: `Send encodes one OSC message and transmits it as a UDP datagram.

Each argument may force its type with a prefix: "i:42" (int32), "f:0.5"
(float32), "s:text" (string). Without a prefix the type is inferred: values
that parse as integers become int32, values that parse as numbers become
float32, everything else is a string.

Examples:
  oscutil send -a localhost:9000 /1/faderA 0.5
  oscutil send -a 224.0.0.1:9000 --ttl 4 /mixer/label s:Main i:1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address := args[0]
			if !strings.HasPrefix(address, "/") {
				return fmt.Errorf("OSC address %q must start with '/'", address)
			}

			msg := osc.NewMessage(address)
			for _, raw := range args[1:] {
				arg, err := parseArg(raw)
				if err != nil {
					return err
				}
				if err := msg.Append(arg); err != nil {
					return err
				}
			}

			client, err := osc.Dial(addr,
				osc.WithBufferSize(bufferSize),
				osc.WithMulticastTTL(ttl),
			)
			if err != nil {
				return err
			}
			defer client.Close()

			n, err := client.Send(msg)
			if err != nil {
				return err
			}
			fmt.Printf("sent %s (%d bytes) to %s\n", msg, n, addr)
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", envOr("OSC_ADDR", "localhost:9000"), "host:port to send to (env OSC_ADDR)")
	cmd.Flags().IntVarP(&bufferSize, "buffer-size", "b", osc.DefaultBufferSize, "send buffer size, bounds the max packet size")
	cmd.Flags().IntVar(&ttl, "ttl", osc.DefaultMulticastTTL, "TTL when sending to a multicast group")

	return cmd
}

// parseArg converts a command line token into a typed OSC argument.
func parseArg(raw string) (interface{}, error) {
	if len(raw) >= 2 && raw[1] == ':' {
		switch raw[0] {
		case 'i':
			v, err := strconv.ParseInt(raw[2:], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("argument %q: %w", raw, err)
			}
			return int32(v), nil
		case 'f':
			v, err := strconv.ParseFloat(raw[2:], 32)
			if err != nil {
				return nil, fmt.Errorf("argument %q: %w", raw, err)
			}
			return float32(v), nil
		case 's':
			return raw[2:], nil
		}
	}

	if v, err := strconv.ParseInt(raw, 10, 32); err == nil {
		return int32(v), nil
	}
	if v, err := strconv.ParseFloat(raw, 32); err == nil {
		return float32(v), nil
	}
	return raw, nil
}
