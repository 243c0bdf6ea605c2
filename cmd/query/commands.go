package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cotizaciones/internal/app"
	"cotizaciones/internal/domain"
	"cotizaciones/internal/gatherer"
)

type runOutput struct {
	Code      string                  `json:"code"`
	Responses []*domain.QueryResponse `json:"responses,omitempty"`
	Error     string                  `json:"error,omitempty"`
	Kind      gatherer.Kind           `json:"kind,omitempty"`
}

func runE(opts *options) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
			results, err := runQueries(ctx, a.Gatherers, args)
			if err != nil {
				return err
			}

			out := make([]runOutput, len(results))
			failed := 0
			for i, r := range results {
				out[i] = runOutput{Code: r.Code, Responses: r.Responses}
				if r.Err != nil {
					failed++
					out[i].Error = r.Err.Error()
					out[i].Kind, _ = gatherer.KindOf(r.Err)
				}
			}
			if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d sources failed", failed, len(results))
			}
			return nil
		})
	}
}

// runQueries queries the named gatherers, or all of them concurrently when
// codes is empty.
func runQueries(ctx context.Context, set *gatherer.Set, codes []string) ([]gatherer.Result, error) {
	if len(codes) == 0 {
		return set.QueryAll(ctx), nil
	}
	results := make([]gatherer.Result, 0, len(codes))
	for _, code := range codes {
		g, ok := set.Get(code)
		if !ok {
			return nil, fmt.Errorf("unknown or disabled source %q", code)
		}
		responses, err := g.DoQuery(ctx)
		results = append(results, gatherer.Result{Code: code, Responses: responses, Err: err})
	}
	return results, nil
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List enabled source codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			for _, code := range cfg.EnabledSources() {
				fmt.Fprintln(cmd.OutOrStdout(), code)
			}
			return nil
		},
	}
}

type placeOutput struct {
	Place  *domain.Place           `json:"place"`
	Latest []*domain.QueryResponse `json:"latest,omitempty"`
}

func newPlaceCmd(opts *options) *cobra.Command {
	var register, latest bool

	cmd := &cobra.Command{
		Use:   "place <code>",
		Short: "Print the registered place of a source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				g, ok := a.Gatherers.Get(args[0])
				if !ok {
					return fmt.Errorf("unknown or disabled source %q", args[0])
				}

				var place *domain.Place
				if register {
					p, err := g.EnsureRegistered(ctx)
					if err != nil {
						return err
					}
					place = p
				} else {
					p, found, err := g.CurrentPlace(ctx)
					if err != nil {
						return err
					}
					if !found {
						return errors.New("place not registered, rerun with --register")
					}
					place = p
				}

				out := placeOutput{Place: place}
				if latest {
					responses, err := a.Responses.GetLatestByPlace(ctx, place.ID)
					if err != nil {
						return fmt.Errorf("load latest responses: %w", err)
					}
					out.Latest = responses
				}
				return writeJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	cmd.Flags().BoolVar(&register, "register", false, "fetch once and register the place when absent")
	cmd.Flags().BoolVar(&latest, "latest", false, "include the newest snapshot of every branch")
	return cmd
}
