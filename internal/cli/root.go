package cli

import (
	"ai_tutor_backend/internal/config"
	"fmt"

	"github.com/spf13/cobra"
)

type commandContext struct {
	configDir string
	cfg       *config.Config
}

// ensureConfig 首次使用时加载配置
func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.LoadConfig(c.configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg
	return cfg, nil
}

// NewRootCommand 未指定子命令时启动服务
func NewRootCommand() *cobra.Command {
	ctx := &commandContext{}

	serve := newServeCommand(ctx)
	rootCmd := &cobra.Command{
		Use:           "ai-tutor",
		Short:         "AI Tutor backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	rootCmd.PersistentFlags().StringVarP(&ctx.configDir, "config", "c", "configs", "Directory containing config.yaml")
	rootCmd.Flags().AddFlagSet(serve.Flags())

	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newCheckKeysCommand(ctx))
	rootCmd.AddCommand(newCheckDBCommand(ctx))
	rootCmd.AddCommand(newResumeCommand(ctx))
	return rootCmd
}

func Execute() error {
	return NewRootCommand().Execute()
}
