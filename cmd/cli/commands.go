package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"kuralhub/internal/grpcserver"
	"kuralhub/pkg/utils"
)

var version = "0.1.0"

type globalOptions struct {
	addr    string
	timeout time.Duration
	asJSON  bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &globalOptions{}
	defaultAddr := "localhost:9090"
	if cfg, err := utils.LoadFromEnv(); err == nil && cfg.GRPCAddr != "" {
		defaultAddr = dialAddr(cfg.GRPCAddr)
	}

	root := &cobra.Command{
		Use:   "kuralhub",
		Short: "Browse the Thirukkural from the terminal",
		Long: `kuralhub talks to a running kuralhub gRPC server.

Example:
  kuralhub search --q அன்பு
  kuralhub search --division அறத்துப்பால் --section பாயிரவியல்
  kuralhub options --level section --division அறத்துப்பால்
  kuralhub stats`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&opts.addr, "addr", defaultAddr, "gRPC server address")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "per-call timeout")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print raw JSON responses")

	root.AddCommand(searchCmd(opts))
	root.AddCommand(optionsCmd(opts))
	root.AddCommand(statsCmd(opts))
	return root
}

// dialAddr turns a listen address like ":9090" into something dialable.
func dialAddr(listen string) string {
	if len(listen) > 0 && listen[0] == ':' {
		return "localhost" + listen
	}
	return listen
}

func withClient(cmd *cobra.Command, opts *globalOptions, fn func(ctx context.Context, c *grpcserver.Client) error) error {
	conn, err := grpcserver.Dial(opts.addr)
	if err != nil {
		return fmt.Errorf("connect %s: %w", opts.addr, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()
	return fn(ctx, grpcserver.NewClient(conn))
}

func searchCmd(opts *globalOptions) *cobra.Command {
	var (
		req  grpcserver.FilterRequest
		full bool
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Filter kurals by text and hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, opts, func(ctx context.Context, c *grpcserver.Client) error {
				resp, err := c.Filter(ctx, &req)
				if err != nil {
					return err
				}
				if opts.asJSON {
					return printJSON(cmd.OutOrStdout(), resp)
				}
				printResults(cmd.OutOrStdout(), resp, full)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Query, "q", "", "search text (matches kural, meaning, translation or number)")
	cmd.Flags().StringVar(&req.Division, "division", "", "division (paal)")
	cmd.Flags().StringVar(&req.Section, "section", "", "section (iyal)")
	cmd.Flags().StringVar(&req.Chapter, "chapter", "", "chapter (adhigaram)")
	cmd.Flags().BoolVar(&full, "full", false, "include explanations")
	return cmd
}

func optionsCmd(opts *globalOptions) *cobra.Command {
	var req grpcserver.OptionsRequest
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List dropdown choices for a level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, opts, func(ctx context.Context, c *grpcserver.Client) error {
				resp, err := c.Options(ctx, &req)
				if err != nil {
					return err
				}
				if opts.asJSON {
					return printJSON(cmd.OutOrStdout(), resp)
				}
				printOptions(cmd.OutOrStdout(), resp)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Level, "level", "", "division, section or chapter (all levels when empty)")
	cmd.Flags().StringVar(&req.Division, "division", "", "selected division")
	cmd.Flags().StringVar(&req.Section, "section", "", "selected section")
	return cmd
}

func statsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dataset totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, opts, func(ctx context.Context, c *grpcserver.Client) error {
				resp, err := c.Stats(ctx)
				if err != nil {
					return err
				}
				if opts.asJSON {
					return printJSON(cmd.OutOrStdout(), resp)
				}
				printStats(cmd.OutOrStdout(), resp)
				return nil
			})
		},
	}
}
