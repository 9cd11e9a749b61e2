package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rl1809/vending-machine/internal/adapter/handler/rpc"
	"github.com/rl1809/vending-machine/internal/core/domain"
)

// CountsOptions holds the per-item amount flags shared by instantiate and refill.
type CountsOptions struct {
	*RootOptions
	Chocolate uint32
	Water     uint32
	Chips     uint32
}

func addCountFlags(cmd *cobra.Command, opts *CountsOptions) {
	cmd.Flags().Uint32Var(&opts.Chocolate, "chocolate", 0, "chocolate units")
	cmd.Flags().Uint32Var(&opts.Water, "water", 0, "water units")
	cmd.Flags().Uint32Var(&opts.Chips, "chips", 0, "chips units")
}

// NewInstantiateCommand creates the instantiate command.
func NewInstantiateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CountsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "instantiate",
		Short:         "Create the machine with initial stock; --sender becomes the owner",
		Example:       `  vendctl instantiate --sender owner --chocolate 10 --water 20 --chips 30`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, opts.RootOptions, func(ctx context.Context, client rpc.VendingMachineClient) error {
				resp, err := client.Instantiate(ctx, &rpc.InstantiateRequest{
					Chocolate: opts.Chocolate,
					Water:     opts.Water,
					Chips:     opts.Chips,
				})
				if err != nil {
					return err
				}
				return printAttributes(cmd, opts.RootOptions, resp)
			})
		},
	}
	addCountFlags(cmd, opts)

	return cmd
}

// NewGetItemCommand creates the get-item command.
func NewGetItemCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "get-item <chocolate|water|chips>",
		Short:         "Dispense one unit of an item",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := domain.ParseItemType(args[0])
			if err != nil {
				return err
			}

			return call(cmd, opts, func(ctx context.Context, client rpc.VendingMachineClient) error {
				resp, err := client.GetItem(ctx, &rpc.GetItemRequest{ItemType: item.Key()})
				if err != nil {
					return err
				}
				return printAttributes(cmd, opts, resp)
			})
		},
	}
}

// NewRefillCommand creates the refill command.
func NewRefillCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CountsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "refill",
		Short:         "Add stock (owner only)",
		Example:       `  vendctl refill --sender owner --water 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, opts.RootOptions, func(ctx context.Context, client rpc.VendingMachineClient) error {
				resp, err := client.Refill(ctx, &rpc.RefillRequest{
					Chocolate: opts.Chocolate,
					Water:     opts.Water,
					Chips:     opts.Chips,
				})
				if err != nil {
					return err
				}
				return printAttributes(cmd, opts.RootOptions, resp)
			})
		},
	}
	addCountFlags(cmd, opts)

	return cmd
}

// NewItemsCountCommand creates the items-count command.
func NewItemsCountCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "items-count",
		Short:         "Show current stock",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, opts, func(ctx context.Context, client rpc.VendingMachineClient) error {
				resp, err := client.ItemsCount(ctx, &rpc.ItemsCountRequest{})
				if err != nil {
					return err
				}
				return printResult(cmd, opts, resp, func(w io.Writer) {
					fmt.Fprintf(w, "chocolate: %d\nwater: %d\nchips: %d\n", resp.Chocolate, resp.Water, resp.Chips)
				})
			})
		},
	}
}
