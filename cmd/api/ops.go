package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/persistence"
	"github.com/spec-kit/grievance-service/internal/seed"
)

// operator is the principal CLI commands act as.
var operator = domain.Principal{ID: "cli", Role: domain.RoleAdmin}

// withRuntime loads configuration, wires the services and runs fn.
func withRuntime(ctx context.Context, fn func(*runtime) error) error {
	cfg, logger := loadConfigAndLogger()
	defer logger.Sync() //nolint:errcheck

	rt, err := newRuntime(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.close(context.Background())
	return fn(rt)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := loadConfigAndLogger()
			defer logger.Sync() //nolint:errcheck

			pg, err := persistence.NewPostgres(cmd.Context(), cfg.Postgres, logger)
			if err != nil {
				return err
			}
			defer pg.Close()
			pool := pg.PoolHandle()
			if pool == nil {
				return errors.New("POSTGRES_DSN is required for migrate")
			}
			return persistence.RunMigrations(cmd.Context(), pool, logger)
		},
	}
}

func newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create admin, official and petitioner accounts from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := seed.LoadFile(file)
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				res, err := seed.Apply(cmd.Context(), rt.auth, f, rt.logger)
				if err != nil {
					return err
				}
				rt.logger.Info("seed complete", zap.Int("created", res.Created), zap.Int("skipped", res.Skipped))
				fmt.Fprintf(cmd.OutOrStdout(), "created %d, skipped %d\n", res.Created, res.Skipped)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "seed.yaml", "seed file path")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print dashboard aggregates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				d, err := rt.stats.Dashboard(cmd.Context(), operator)
				if err != nil {
					return err
				}

				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.SetTitle("Departments")
				tw.AppendHeader(table.Row{"Department", "Total", "Pending", "Assigned", "In progress", "Resolved", "Rejected", "Escalated"})
				for _, s := range d.Departments {
					c := s.Counts
					tw.AppendRow(table.Row{s.Department, c.Total, c.Pending, c.Assigned, c.InProgress, c.Resolved, c.Rejected, c.Escalated})
				}
				tw.AppendFooter(table.Row{"All", d.Quick.Total, "", "", "", d.Quick.Resolved, "", d.Quick.Escalated})
				tw.Render()

				mw := table.NewWriter()
				mw.SetOutputMirror(os.Stdout)
				mw.SetTitle("Monthly")
				mw.AppendHeader(table.Row{"Month", "Created", "Resolved"})
				for _, m := range d.Monthly {
					mw.AppendRow(table.Row{m.Month, m.Created, m.Resolved})
				}
				mw.Render()
				return nil
			})
		},
	}
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Mark stale grievances eligible for escalation once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(rt *runtime) error {
				marked, err := rt.eligibility.Sweep(cmd.Context())
				if err != nil {
					return err
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Petition", "Department", "Status", "Last update"})
				for _, g := range marked {
					tw.AppendRow(table.Row{g.PetitionID, g.Department, g.Status, g.UpdatedAt.Format("2006-01-02 15:04")})
				}
				tw.Render()
				return nil
			})
		},
	}
}
