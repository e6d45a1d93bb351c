// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lorekeep/lorekeep/internal/observability"
	"github.com/lorekeep/lorekeep/internal/script"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return NewServeCmdWithDeps(nil)
}

// NewServeCmdWithDeps creates the serve subcommand with injectable
// dependencies for testing.
func NewServeCmdWithDeps(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the campaign store until interrupted",
		Long: `Load the campaign state, expose health and metrics endpoints, and
run the configured change hook until SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cmd.Flags(), deps)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			var obsErr <-chan error
			var obs *observability.Server
			if a.cfg.ObservabilityAddr != "" {
				ready := func() bool {
					select {
					case <-a.store.Ready():
						return true
					default:
						return false
					}
				}
				obs = observability.NewServer(a.cfg.ObservabilityAddr, ready)
				obsErr, err = obs.Start()
				if err != nil {
					return err
				}
				m := obs.Metrics()
				a.adapter.SetMetrics(m)
				a.store.SetMetrics(m)
				a.repo.SetMetrics(m)
			}

			if a.cfg.HookScript != "" {
				hook, err := script.Load(ctx, a.cfg.HookScript, a.logger)
				if err != nil {
					return err
				}
				unsubscribe := a.store.Subscribe(hook.Subscriber(ctx))
				defer unsubscribe()
			}

			a.logger.Info("lorekeep running",
				"backend", a.cfg.Backend,
				"state_key", a.cfg.StateKey)

			select {
			case <-ctx.Done():
			case err := <-obsErr:
				if err != nil {
					return err
				}
			}

			if obs != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := obs.Stop(shutdownCtx); err != nil {
					return err
				}
			}
			a.logger.Info("lorekeep stopped")
			return nil
		},
	}
}
