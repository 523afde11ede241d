package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/easeaico/kb-chatbot/internal/chatbot"
	"github.com/easeaico/kb-chatbot/internal/config"
	"github.com/easeaico/kb-chatbot/internal/knowledge"
	"github.com/easeaico/kb-chatbot/internal/memory"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app holds the state shared by all commands.
type app struct {
	// Flags
	configPath string
	verbose    bool

	fs     afero.Fs
	stdin  io.Reader
	stdout io.Writer

	cfg    *config.Config
	logger *zap.Logger
}

func newApp(stdin io.Reader, stdout io.Writer) *app {
	return &app{
		fs:     afero.NewOsFs(),
		stdin:  stdin,
		stdout: stdout,
		logger: zap.NewNop(),
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "chatbot",
		Short: "A rule-based chatbot that learns what, where and who answers",
		Long: `chatbot answers "what", "where" and "who" questions from its knowledge base.
When it does not know an answer it asks you, and remembers.

Run without arguments to start chatting. Type "exit" or "bye" to stop.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initLogger(); err != nil {
				return err
			}
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger.Debug("configuration loaded",
				zap.String("store", cfg.Store.Type),
				zap.Uint32("section_buckets", cfg.SectionBuckets),
				zap.Uint32("entity_buckets", cfg.EntityBuckets))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(cmd.Context())
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default: chatbot.yaml in . or ~/.config/chatbot)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(a.pushCmd(), a.pullCmd())
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	return root
}

// initLogger logs warnings and errors to stderr, everything with --verbose.
func (a *app) initLogger() error {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if a.verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

// pushCmd moves knowledge from a file into the store, pullCmd the other way.
func (a *app) pushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push FILE.ini",
		Short: "Copy an .ini knowledge file into the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPush(cmd.Context(), args[0])
		},
	}
}

func (a *app) pullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull FILE.ini",
		Short: "Write the configured store's knowledge to an .ini file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPull(cmd.Context(), args[0])
		},
	}
}

func (a *app) newBase() *knowledge.Base {
	return knowledge.New(
		knowledge.WithSectionBuckets(a.cfg.SectionBuckets),
		knowledge.WithEntityBuckets(a.cfg.EntityBuckets),
	)
}

func (a *app) prompter() chatbot.Prompter {
	in, inOK := a.stdin.(*os.File)
	out, outOK := a.stdout.(*os.File)
	if inOK && outOK {
		return chatbot.NewPrompter(in, out)
	}
	return chatbot.NewLinePrompter(a.stdin, a.stdout)
}

// runChat starts an interactive session, loading the autoload file first.
func (a *app) runChat(ctx context.Context) error {
	kb := a.newBase()

	if a.cfg.Autoload != "" {
		n, err := memory.NewFileStore(a.fs, a.cfg.Autoload).Load(ctx, kb)
		if err != nil {
			a.logger.Warn("autoload failed", zap.String("file", a.cfg.Autoload), zap.Int("pairs", n), zap.Error(err))
		} else {
			a.logger.Info("autoloaded knowledge", zap.String("file", a.cfg.Autoload), zap.Int("pairs", n))
		}
	}

	session := chatbot.NewSession(chatbot.SessionConfig{
		BotName:  a.cfg.BotName,
		UserName: a.cfg.UserName,
	}, kb, a.fs, a.prompter(), a.stdout, a.logger)

	err := session.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runPush reads file and replaces the store's snapshot with it.
func (a *app) runPush(ctx context.Context, file string) error {
	if err := checkINI(file); err != nil {
		return err
	}

	kb := a.newBase()
	n, err := memory.NewFileStore(a.fs, file).Load(ctx, kb)
	if err != nil {
		return err
	}

	store, err := memory.Open(ctx, a.cfg.Store, a.fs)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", a.cfg.Store.Type, err)
	}
	defer store.Close()

	if err := store.Save(ctx, kb); err != nil {
		return err
	}

	a.logger.Info("pushed knowledge", zap.String("file", file), zap.String("store", a.cfg.Store.Type), zap.Int("pairs", n))
	fmt.Fprintf(a.stdout, "Pushed %d responses from %s to the %s store.\n", n, file, a.cfg.Store.Type)
	return nil
}

// runPull writes the store's snapshot to file.
func (a *app) runPull(ctx context.Context, file string) error {
	if err := checkINI(file); err != nil {
		return err
	}

	store, err := memory.Open(ctx, a.cfg.Store, a.fs)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", a.cfg.Store.Type, err)
	}
	defer store.Close()

	kb := a.newBase()
	n, err := store.Load(ctx, kb)
	if err != nil {
		return err
	}

	if err := memory.NewFileStore(a.fs, file).Save(ctx, kb); err != nil {
		return err
	}

	a.logger.Info("pulled knowledge", zap.String("file", file), zap.String("store", a.cfg.Store.Type), zap.Int("pairs", n))
	fmt.Fprintf(a.stdout, "Pulled %d responses from the %s store into %s.\n", n, a.cfg.Store.Type, file)
	return nil
}

func checkINI(file string) error {
	if !knowledge.IsFileName(file) {
		return fmt.Errorf("file %q must end with %s", file, knowledge.FileExt)
	}
	return nil
}
