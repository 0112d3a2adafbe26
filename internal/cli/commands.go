package cli

import (
	"ai_tutor_backend/internal/app"
	"ai_tutor_backend/internal/model"
	"ai_tutor_backend/pkg/database"
	"ai_tutor_backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg.ForceMigrate = migrate

			application, err := app.NewApp(cfg, ctx.configDir)
			if err != nil {
				return err
			}
			return application.Run()
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Run database migrations on start even in release mode")
	return cmd
}

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger.InitLogger(cfg)
			defer logger.Sync()

			if _, err := database.InitDB(&cfg.Database, false); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database migration completed")
			return nil
		},
	}
}

// maskSecret 只显示前 4 个字符
func maskSecret(value string) string {
	if value == "" {
		return "Not set"
	}
	if len(value) <= 4 {
		return "****"
	}
	return value[:4] + "..."
}

func newCheckKeysCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check-keys",
		Short: "Report which external service keys are configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			dbTarget := cfg.Database.DSN
			if dbTarget == "" {
				dbTarget = cfg.Database.Host
			}
			checks := []struct {
				name     string
				value    string
				required bool
			}{
				{"DATABASE", dbTarget, false},
				{"JWT_SECRET", cfg.JWT.Secret, false},
				{"AI_API_KEY", cfg.AI.APIKey, true},
				{"YOUTUBE_API_KEY", cfg.YouTube.APIKey, true},
			}

			rows := make([][]string, 0, len(checks))
			var missing []string
			for _, c := range checks {
				status := "configured"
				if c.value == "" {
					status = "missing"
					if c.required {
						missing = append(missing, c.name)
					}
				}
				rows = append(rows, []string{c.name, status, maskSecret(c.value)})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Key", "Status", "Value"}, rows, false))
			if len(missing) > 0 {
				return fmt.Errorf("required keys missing: %v", missing)
			}
			fmt.Fprintln(out, "All API keys configured")
			return nil
		},
	}
}

func newCheckDBCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check-db",
		Short: "Check database connectivity and print table row counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			db, err := database.Open(&cfg.Database, false)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			pingCtx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			if err := sqlDB.PingContext(pingCtx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}

			counted := []struct {
				name  string
				model interface{}
			}{
				{"users", &model.User{}},
				{"courses", &model.Course{}},
				{"chapters", &model.Chapter{}},
				{"homework_problems", &model.HomeworkProblem{}},
				{"homework_submissions", &model.HomeworkSubmission{}},
				{"chapter_doubts", &model.ChapterDoubt{}},
			}
			rows := make([][]string, 0, len(counted))
			for _, t := range counted {
				if !db.Migrator().HasTable(t.model) {
					rows = append(rows, []string{t.name, "missing"})
					continue
				}
				var count int64
				if err := db.Model(t.model).Count(&count).Error; err != nil {
					return fmt.Errorf("count %s: %w", t.name, err)
				}
				rows = append(rows, []string{t.name, strconv.FormatInt(count, 10)})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Table", "Rows"}, rows, true))
			fmt.Fprintln(out, "Database is accessible")
			return nil
		},
	}
}

// newResumeCommand 手动恢复停留在 generating 的课程并等待完成
func newResumeCommand(ctx *commandContext) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Resume stalled course generation and wait for it to finish",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			application, err := app.NewApp(cfg, "")
			if err != nil {
				return err
			}

			resumed, err := application.ResumeStalled(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Resuming %d course(s)\n", resumed)

			waitCtx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			if err := application.WaitGeneration(waitCtx); err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					// 超时后取消，课程保持 generating
					_ = application.Stop(context.Background())
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Done")
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Minute, "Maximum time to wait for generation")
	return cmd
}
