// aidekit serves the tool REST API and the agent chat endpoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/aidekit/aidekit/api"
	"github.com/aidekit/aidekit/assistants"
	"github.com/aidekit/aidekit/callbacks"
	"github.com/aidekit/aidekit/pkg/config"
	"github.com/aidekit/aidekit/pkg/llmfactory"
	"github.com/aidekit/aidekit/store"
	"github.com/aidekit/aidekit/tools"
	"github.com/aidekit/aidekit/tools/datatable"
	"github.com/aidekit/aidekit/tools/finance"
	"github.com/aidekit/aidekit/tools/mathtool"
	"github.com/aidekit/aidekit/tools/musicgen"
	"github.com/aidekit/aidekit/tools/newsfeed"
	"github.com/aidekit/aidekit/tools/webpage"
)

var logger = xlog.NewPackageLogger("github.com/aidekit/aidekit", "cmd")

func main() {
	cfgFile := flag.String("cfg", "", "path to the service configuration file")
	listen := flag.String("listen", "", "listen address override, host:port")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	if err := realMain(*cfgFile, *listen, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "aidekit: %s\n", err)
		os.Exit(1)
	}
}

func realMain(cfgFile, listen string, debug bool) error {
	// a .env file is optional
	_ = godotenv.Load()

	if debug {
		xlog.SetFormatter(xlog.NewPrettyFormatter(os.Stderr))
		xlog.SetGlobalLogLevel(xlog.DEBUG)
	} else {
		xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
		xlog.SetGlobalLogLevel(xlog.INFO)
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return errors.WithMessage(err, "failed to load configuration")
	}
	if listen != "" {
		cfg.Listen = listen
	}
	exportKeys(cfg.Keys)

	calc, err := mathtool.New()
	if err != nil {
		return err
	}
	financeKit, err := finance.New()
	if err != nil {
		return err
	}
	newsKit, err := newsfeed.New()
	if err != nil {
		return err
	}
	musicKit, err := musicgen.New()
	if err != nil {
		return err
	}
	dataKit, err := datatable.New()
	if err != nil {
		return err
	}
	webKit, err := webpage.New()
	if err != nil {
		return err
	}

	toolList := []tools.ITool{calc}
	toolList = append(toolList, financeKit.Tools()...)
	toolList = append(toolList, newsKit.Tools()...)
	toolList = append(toolList, musicKit.Tools()...)
	toolList = append(toolList, dataKit.Tools()...)
	toolList = append(toolList, webKit.Tools()...)

	assistant, err := buildAssistant(cfg, toolList, debug)
	if err != nil {
		return err
	}

	srv, err := api.New(api.Config{
		Calculator:     calc,
		Finance:        financeKit,
		News:           newsKit,
		Music:          musicKit,
		Data:           dataKit,
		Web:            webKit,
		Assistant:      assistant,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.KV(xlog.INFO, "status", "listening", "addr", cfg.Listen)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.WithMessage(err, "server failed")
	case <-ctx.Done():
	}

	logger.KV(xlog.INFO, "status", "shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildAssistant wires the agent when a provider is configured. It
// returns nil without one; the agent routes then report that the
// agent is not configured while the tool routes still serve.
func buildAssistant(cfg *config.Config, toolList []tools.ITool, debug bool) (assistants.IAssistant, error) {
	var fcfg *llmfactory.Config
	var err error
	switch {
	case cfg.LLM.ConfigFile != "":
		fcfg, err = llmfactory.LoadConfig(cfg.LLM.ConfigFile)
		if err != nil {
			return nil, errors.WithMessage(err, "failed to load LLM configuration")
		}
	case cfg.LLM.Config != nil:
		fcfg = cfg.LLM.Config
	}
	if fcfg == nil || len(fcfg.Providers) == 0 {
		logger.KV(xlog.INFO, "status", "agent_disabled", "reason", "no LLM providers configured")
		return nil, nil
	}

	model, err := llmfactory.New(fcfg).DefaultModel()
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create LLM model")
	}

	var st store.Provider
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		st = store.NewRedisStore(client, cfg.Redis.KeyPrefix)
	} else {
		st = store.NewMemoryStore()
	}

	opts := []assistants.Option{assistants.WithStore(st)}
	if debug {
		opts = append(opts, assistants.WithCallback(callbacks.NewFanout(
			assistants.NewPackageLoggerCallback(logger),
			callbacks.NewScratchpad(os.Stderr, callbacks.ModeVerbose),
		)))
	}

	assistant := assistants.NewAssistant(model, opts...).
		WithTools(toolList...)
	return assistant, nil
}

// exportKeys places the configured keys in the environment, where the
// tools read them on every call.
func exportKeys(keys config.Keys) {
	for name, value := range map[string]string{
		"TAVILY_API_KEY":    keys.Tavily,
		"OPENAI_API_KEY":    keys.OpenAI,
		"MODELSLAB_API_KEY": keys.ModelsLab,
	} {
		if value != "" {
			_ = os.Setenv(name, value)
		}
	}
}
