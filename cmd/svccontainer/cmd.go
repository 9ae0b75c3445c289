package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/habiliai/svccontainer/config"
	"github.com/habiliai/svccontainer/container"
	"github.com/habiliai/svccontainer/errors"
	"github.com/habiliai/svccontainer/inspect"
	"github.com/habiliai/svccontainer/journal"
	"github.com/habiliai/svccontainer/services"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// reportedError is a failure the command already printed. main exits
// non-zero without printing it again.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

type runReport struct {
	ContainerID string              `yaml:"containerId"`
	Strategy    string              `yaml:"strategy"`
	Services    []services.Identity `yaml:"services"`
}

func newCmd() *cobra.Command {
	params := &rootParams{}

	cmd := &cobra.Command{
		Use:           "svccontainer",
		Short:         "Resolve and inspect the demo service graph",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&params.ConfigFile, "config", "c", "", "YAML config file")
	flags.StringVar(&params.EnvFile, "env-file", ".env", "dotenv file read before the environment")

	cmd.AddCommand(
		newRunCmd(params),
		newCycleCmd(params),
		newJournalCmd(params),
		newServeCmd(params),
	)

	return cmd
}

func newRunCmd(params *rootParams) *cobra.Command {
	var (
		strategy string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build the demo services once and print what each one resolved",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(params)
			if err != nil {
				return err
			}
			defer a.Close()

			if strategy == "" {
				strategy = a.conf.Strategy
			}

			report := runReport{
				ContainerID: a.recorder.ContainerID().String(),
				Strategy:    strategy,
			}
			switch strategy {
			case config.StrategyErased:
				report.Services = services.ResolveErased(a.newErased())
			case config.StrategyClosed:
				report.Services = services.ResolveClosed(a.newClosed())
			default:
				return errors.Wrapf(errors.ErrInvalidConfig, "unknown strategy %q", strategy)
			}

			a.logger.Info("services resolved", "strategy", strategy, "count", len(report.Services))

			if format != "" {
				tmpl, err := template.New("run").Funcs(sprig.TxtFuncMap()).Parse(format)
				if err != nil {
					return errors.Wrapf(err, "failed to parse format")
				}
				return errors.WithStack(tmpl.Execute(cmd.OutOrStdout(), report))
			}

			out, err := yaml.Marshal(report)
			if err != nil {
				return errors.WithStack(err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return errors.WithStack(err)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&strategy, "strategy", "s", "", "erased or closed, overrides the configured strategy")
	f.StringVarP(&format, "format", "f", "", "Go template applied to the report, with sprig functions")

	return cmd
}

func newCycleCmd(params *rootParams) *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "cycle",
		Short: "Build circularA, which depends on itself through circularB",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(params)
			if err != nil {
				return err
			}
			defer a.Close()

			if strategy == "" {
				strategy = a.conf.Strategy
			}

			switch strategy {
			case config.StrategyErased:
				_, err = container.TryBuild(a.newErased(), services.CircularAKey, func(c *container.Erased) *services.CircularA {
					return &services.CircularA{B: services.NewCircularB(c)}
				})
			case config.StrategyClosed:
				_, err = container.TryBuildCase[*services.CircularA](a.newClosed(), services.CircularAKey, func(c *services.Closed) services.Service {
					return &services.CircularA{B: services.ClosedCircularB(c)}
				})
			default:
				return errors.Wrapf(errors.ErrInvalidConfig, "unknown strategy %q", strategy)
			}
			if err == nil {
				return errors.New("cycle was not detected")
			}

			fmt.Fprintln(cmd.OutOrStdout(), err.Error())
			return &reportedError{err: err}
		},
	}

	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "erased or closed, overrides the configured strategy")

	return cmd
}

func newJournalCmd(params *rootParams) *cobra.Command {
	return &cobra.Command{
		Use:   "journal [container-id]",
		Short: "List recorded containers, or the builds of one container",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(params)
			if err != nil {
				return err
			}
			defer a.Close()

			var out any
			if len(args) == 0 {
				ids, err := journal.ListContainers(cmd.Context(), a.db)
				if err != nil {
					return err
				}
				out = lo.Map(ids, func(id uuid.UUID, _ int) string {
					return id.String()
				})
			} else {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return errors.Wrapf(err, "invalid container id %q", args[0])
				}
				entries, err := journal.List(cmd.Context(), a.db, id)
				if err != nil {
					return err
				}
				out = lo.Map(entries, func(e journal.Entry, _ int) map[string]any {
					return map[string]any{
						"name":         e.Name,
						"durationUs":   e.DurationMicros,
						"dependencies": []string(e.Dependencies),
						"builtAt":      e.CreatedAt.Format(time.RFC3339),
					}
				})
			}

			b, err := yaml.Marshal(out)
			if err != nil {
				return errors.WithStack(err)
			}
			_, err = cmd.OutOrStdout().Write(b)
			return errors.WithStack(err)
		},
	}
}

func newServeCmd(params *rootParams) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Resolve the demo graph and serve its slot states over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(params)
			if err != nil {
				return err
			}
			defer a.Close()

			c := a.newErased()
			services.ResolveErased(c)

			addr := net.JoinHostPort(a.conf.Host, strconv.Itoa(a.conf.Port))
			server := &http.Server{
				Addr:              addr,
				Handler:           handlers.CombinedLoggingHandler(os.Stderr, inspect.NewHandler(c, a.logger)),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx := cmd.Context()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					a.logger.Warn("failed to shutdown server", "err", err)
				}
			}()

			a.logger.Info("Starting server", "addr", addr, "containerId", a.recorder.ContainerID())
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrapf(err, "failed to serve on %s", addr)
			}
			return nil
		},
	}
}
