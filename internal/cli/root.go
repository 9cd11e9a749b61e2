package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rl1809/vending-machine/internal/adapter/handler/rpc"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Addr    string
	Sender  string
	Format  string // "json" | "text"
	Timeout time.Duration

	// connect is replaced in tests to reach an in-process server.
	connect func(addr string) (rpc.VendingMachineClient, io.Closer, error)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the vendctl CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{connect: dialGRPC})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendctl",
		Short: "vendctl - vending machine client",
		Long:  "Instantiate, dispense from, refill and inspect a vending machine over gRPC.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Addr, "addr", "localhost:50051", "gRPC server address")
	cmd.PersistentFlags().StringVar(&opts.Sender, "sender", "", "caller identity sent with the request")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 5*time.Second, "request timeout")

	cmd.AddCommand(NewInstantiateCommand(opts))
	cmd.AddCommand(NewGetItemCommand(opts))
	cmd.AddCommand(NewRefillCommand(opts))
	cmd.AddCommand(NewItemsCountCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func dialGRPC(addr string) (rpc.VendingMachineClient, io.Closer, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return rpc.NewVendingMachineClient(conn), conn, nil
}

// call opens a client, runs fn with the sender attached and closes the
// connection afterwards.
func call(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, client rpc.VendingMachineClient) error) error {
	client, closer, err := opts.connect(opts.Addr)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
	defer cancel()

	if opts.Sender != "" {
		ctx = rpc.WithSender(ctx, opts.Sender)
	}
	return fn(ctx, client)
}

func printResult(cmd *cobra.Command, opts *RootOptions, v any, text func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(out)
	return nil
}

func printAttributes(cmd *cobra.Command, opts *RootOptions, resp *rpc.ExecuteResponse) error {
	return printResult(cmd, opts, resp, func(w io.Writer) {
		for _, attr := range resp.Attributes {
			fmt.Fprintf(w, "%s=%s\n", attr.Key, attr.Value)
		}
	})
}
