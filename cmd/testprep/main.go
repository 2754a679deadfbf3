package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavelanni/testprep/internal/generator"
	"github.com/pavelanni/testprep/internal/handler"
	"github.com/pavelanni/testprep/internal/llm"
	"github.com/pavelanni/testprep/internal/session"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "testprep",
		Short: "AI-powered multiple-choice test practice backend",
	}

	serve := serveCmd()
	root.AddCommand(serve)

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `testprep --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP test practice server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("llm-url", "https://openrouter.ai/api/v1", "OpenAI-compatible API base URL")
	f.String("llm-key", "", "API key for the LLM provider (or set TESTPREP_LLM_KEY)")
	f.String("llm-model", "meta-llama/llama-3.1-8b-instruct:free", "LLM model name")
	f.Int("session-expire-minutes", 30, "Minutes before a test session expires")
	f.StringSlice("cors-origins", []string{"*"}, "Allowed CORS origins")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("TESTPREP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("testprep")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/testprep")
	v.AddConfigPath("/etc/testprep")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	apiKey := v.GetString("llm-key")
	slog.Info("LLM provider configured",
		"url", v.GetString("llm-url"),
		"model", v.GetString("llm-model"),
		"api_key", llm.MaskKey(apiKey))

	llmClient := llm.New(v.GetString("llm-url"), apiKey, v.GetString("llm-model"))
	gen := generator.New(llmClient)

	expiry := time.Duration(v.GetInt("session-expire-minutes")) * time.Minute
	sessions := session.New(expiry)

	h := handler.New(gen, sessions)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   v.GetStringSlice("cors-origins"),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"session_expire_minutes", v.GetInt("session-expire-minutes"),
	)
	return http.ListenAndServe(addr, r)
}
