package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/cache"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/config"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/llm"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/metrics"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/optimize"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/service"
)

// app carries the state shared by every subcommand.
type app struct {
	v       *viper.Viper
	cfgFile string
	in      io.Reader
	out     io.Writer
	logger  *slog.Logger

	svc     *service.PromptService
	closers []io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), in: os.Stdin, out: os.Stdout}

	root := &cobra.Command{
		Use:   "alchemy",
		Short: "Analyze and optimize LLM prompts",
		Long: `alchemy scores a prompt for clarity, specificity and context gaps, then
rewrites it with prompt engineering techniques such as chain-of-thought,
personas and domain templates.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.in, a.out = cmd.InOrStdin(), cmd.OutOrStdout()
			return a.initConfig()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.alchemy.yaml)")
	pf.Bool("debug", false, "enable debug logging on stderr")
	pf.String("domain", "", "force the domain instead of detecting it")
	pf.Bool("enhanced", false, "ask a configured LLM provider for a second opinion")
	pf.String("strategy", "", "provider routing strategy (default, fast, balanced, max_quality, best-for-coding)")
	pf.Duration("timeout", 30*time.Second, "provider call timeout")
	pf.String("redis-addr", "", "cache results in Redis instead of memory")
	pf.String("router-config", config.DefaultPath, "YAML file with platform overrides and router settings")

	for key, flag := range map[string]string{
		"debug":         "debug",
		"domain":        "domain",
		"enhanced":      "enhanced",
		"strategy":      "strategy",
		"timeout":       "timeout",
		"redis_addr":    "redis-addr",
		"router_config": "router-config",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		newAnalyzeCmd(a),
		newOptimizeCmd(a),
		newPatternCmd(a),
		newTechniquesCmd(a),
		newBatchCmd(a),
		newMCPCmd(a),
	)
	return root
}

// initConfig reads in config file and ENV variables if set.
func (a *app) initConfig() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		a.v.AddConfigPath(home)
		a.v.SetConfigType("yaml")
		a.v.SetConfigName(".alchemy")
	}

	a.v.SetEnvPrefix("ALCHEMY")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	level := slog.LevelWarn
	if a.v.GetBool("debug") {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	a.logger.Debug("configuration loaded", "file", a.v.ConfigFileUsed())
	return nil
}

// service builds the prompt service on first use.
func (a *app) service(ctx context.Context) (*service.PromptService, error) {
	if a.svc != nil {
		return a.svc, nil
	}

	file, err := config.Load(a.v.GetString("router_config"))
	if err != nil {
		return nil, err
	}

	var resultCache cache.Cache = cache.NewMemory()
	var usage llm.UsageTracker
	if addr := a.v.GetString("redis_addr"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("could not connect to Redis at %s: %w", addr, err)
		}
		a.closers = append(a.closers, rdb)
		resultCache = cache.NewRedis(rdb, "")
		usage = llm.NewRedisUsageTracker(rdb, a.logger)
	}

	var enhanced service.EnhancedAnalyzer
	timeout := a.v.GetDuration("timeout")
	if a.v.GetBool("enhanced") {
		providers, err := a.providers(ctx, file, timeout)
		if err != nil {
			return nil, err
		}
		if len(providers) > 0 {
			router := llm.NewRouter(providers, usage, file.Router(), a.logger)
			enhanced = llm.NewEnhancedAnalyzer(router, timeout, a.logger)
		}
	}

	opt := optimize.New(optimize.WithPlatforms(file.Platforms), optimize.WithLogger(a.logger))
	a.svc = service.New(opt, resultCache, enhanced, metrics.New(), a.logger, service.Config{})
	return a.svc, nil
}

// providers creates a client for every provider with a key, read from
// api_keys.<provider> in the config or the provider's usual env variable.
func (a *app) providers(ctx context.Context, file *config.File, timeout time.Duration) ([]llm.Provider, error) {
	var out []llm.Provider
	for name, env := range llm.APIKeyEnv {
		key := a.v.GetString("api_keys." + name)
		if key == "" {
			key = os.Getenv(env)
		}
		if key == "" {
			continue
		}
		p, err := llm.NewProvider(ctx, name, llm.ClientConfig{
			APIKey:  key,
			Model:   file.Model(name),
			Timeout: timeout,
			Logger:  a.logger,
		})
		if err != nil {
			return nil, err
		}
		if c, ok := p.(io.Closer); ok {
			a.closers = append(a.closers, c)
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		a.logger.Warn("enhanced analysis requested but no provider API key is set")
	}
	return out, nil
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
	a.closers = nil
}

// readPrompt joins args, or reads stdin when there are none or the only arg
// is "-".
func (a *app) readPrompt(args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(a.in)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt from stdin: %w", err)
	}
	return string(b), nil
}
