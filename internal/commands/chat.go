package commands

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/chatloop/internal/backend"
	"github.com/diogo/chatloop/internal/chat"
	"github.com/diogo/chatloop/internal/config"
	"github.com/diogo/chatloop/internal/logging"
	"github.com/diogo/chatloop/internal/prompts"
	"github.com/diogo/chatloop/internal/render"
)

// loadConfig reads the config file and applies the flags the user set explicitly
func loadConfig(cmd *cobra.Command, flags *rootFlags) (config.Config, error) {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return cfg, err
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("provider") {
		cfg.Provider = flags.provider
		// a model chosen for another provider rarely makes sense here
		if !changed("model") {
			cfg.Model = ""
		}
	}
	if changed("model") {
		cfg.Model = flags.model
	}
	if changed("base-url") {
		cfg.BaseURL = flags.baseURL
	}
	if changed("template") {
		cfg.Template = flags.template
	}
	if changed("proxy") {
		cfg.Proxy = flags.proxy
	}
	if changed("timeout") {
		cfg.RequestTimeout = flags.timeout
	}
	if changed("verbose") {
		cfg.Verbose = flags.verbose
	}
	if changed("strict-errors") {
		cfg.ErrorsAsContent = !flags.strictErrors
	}
	if changed("no-markdown") {
		cfg.Markdown.Enabled = !flags.noMarkdown
	}
	if changed("copy") {
		cfg.CopyToClipboard = flags.copy
	}

	return cfg, nil
}

func backendConfig(cfg config.Config) backend.Config {
	return backend.Config{
		Provider: cfg.Provider,
		Model:    cfg.ResolvedModel(),
		BaseURL:  cfg.BaseURL,
		APIKey:   cfg.ResolvedAPIKey(),
		Proxy:    cfg.Proxy,
	}
}

func runChat(cmd *cobra.Command, deps *Dependencies, flags *rootFlags) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Verbose, cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	registry, err := prompts.Load(cfg.TemplatesFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	b, err := deps.NewBackend(ctx, backendConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create backend: %w", err)
	}

	var closeOnce sync.Once
	var closeErr error
	closeBackend := func() error {
		closeOnce.Do(func() { closeErr = b.Close() })
		return closeErr
	}
	defer func() { _ = closeBackend() }()

	logger.Info("backend ready",
		zap.String("provider", b.Name()),
		zap.String("model", cfg.ResolvedModel()),
		zap.Int("templates", registry.Len()))

	opts := []chat.Option{
		chat.WithLogger(logger),
		chat.WithTimeout(cfg.RequestTimeout),
		chat.WithStrictErrors(!cfg.ErrorsAsContent),
		chat.WithErrorOutput(deps.Stderr),
		chat.WithExitHook(closeBackend),
		chat.WithInterrupts(deps.Interactive),
	}
	if cfg.Template != "" {
		opts = append(opts, chat.WithTemplate(cfg.Template))
	}
	if deps.Interactive {
		opts = append(opts,
			chat.WithLabel(chat.LabelStyle.Render(chat.AssistantLabel)),
			chat.WithSpinnerStyle(chat.SpinnerStyle))
		if cfg.Markdown.Enabled {
			opts = append(opts, chat.WithFormatter(render.Formatter(render.OptionsFromConfig(cfg.Markdown, deps.TerminalWidth))))
		}
	}
	if cfg.CopyToClipboard && deps.Clipboard != nil {
		opts = append(opts, chat.WithReplyHook(func(text string) {
			if err := deps.Clipboard(text); err != nil {
				logger.Warn("failed to copy reply to clipboard", zap.Error(err))
			}
		}))
	}

	loop := chat.New(b, registry, deps.Stdin, deps.Stdout, opts...)
	return loop.Run(ctx)
}
