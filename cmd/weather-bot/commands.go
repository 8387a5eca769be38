package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"weather-bot/config"
	v1 "weather-bot/internal/controllers/http/v1"
	"weather-bot/internal/controllers/telegram"
	"weather-bot/internal/models"
	"weather-bot/pkg/httpserver"
)

const shutdownTimeout = 30 * time.Second

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "weather-bot",
		Short:        "Chat bot answering with rendered weather forecast tables",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to the YAML config file")

	root.AddCommand(
		newServeCmd(&configPath),
		newTelegramCmd(&configPath),
		newReportCmd(&configPath),
	)

	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversation API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApplication(*configPath)
			if err != nil {
				return err
			}
			defer app.close()

			server := httpserver.InitFiberServer(app.cnf.AppName, app.cnf.Server.ReadTimeout, app.cnf.Server.WriteTimeout)
			v1.NewRouter(server, app.service, app.l)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			go func() {
				if err := server.Listen(":" + app.cnf.Server.Port); err != nil {
					app.l.Fatal("cannot run the server", map[string]any{"err": err})
				}
			}()

			app.l.Info("application started successfully", map[string]any{"port": app.cnf.Server.Port})

			<-ctx.Done()

			app.l.Warning("stopping application services")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.ShutdownWithContext(shutdownCtx)
		},
	}
}

func newTelegramCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "telegram",
		Short: "Run the Telegram bot with long polling",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApplication(*configPath)
			if err != nil {
				return err
			}
			defer app.close()

			if err := app.cnf.ValidateTelegram(); err != nil {
				return err
			}

			bot, err := telegram.NewBot(
				app.cnf.Telegram.Token,
				app.cnf.Telegram.PollTimeout,
				app.cnf.Telegram.Debug,
				app.service,
				app.l,
			)
			if err != nil {
				app.l.Error(err)
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app.l.Info("application started successfully", map[string]any{"transport": "telegram"})

			return bot.Run(ctx)
		},
	}
}

func newReportCmd(configPath *string) *cobra.Command {
	var (
		location string
		slotName string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Fetch a forecast once and write the rendered table as PNG",
		RunE: func(cmd *cobra.Command, _ []string) error {
			slot, err := models.ParseTimeSlot(slotName)
			if err != nil {
				return err
			}

			app, err := loadApplication(*configPath)
			if err != nil {
				return err
			}
			defer app.close()

			record, err := app.weather.FetchForecast(cmd.Context(), location)
			if err != nil {
				return err
			}

			text, err := app.formatter.Format(&record, slot)
			if err != nil {
				return err
			}

			if out == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
				return err
			}

			image, err := app.renderer.Render(text)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, image, 0o644); err != nil {
				return err
			}

			app.l.Info("report written", map[string]any{
				"location": record.Location,
				"slot":     slot.String(),
				"path":     out,
			})
			return nil
		},
	}

	cmd.Flags().StringVarP(&location, "location", "l", "", "place name to look up")
	cmd.Flags().StringVarP(&slotName, "slot", "s", models.Now.String(), "time slot: now, today, tomorrow or after")
	cmd.Flags().StringVarP(&out, "out", "o", "", "PNG output path; empty prints the table text")
	_ = cmd.MarkFlagRequired("location")

	return cmd
}
