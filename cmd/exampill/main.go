package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/exampill/studyplanner/internal/fallback"
	"github.com/exampill/studyplanner/internal/handler"
	appI18n "github.com/exampill/studyplanner/internal/i18n"
	"github.com/exampill/studyplanner/internal/llm"
	"github.com/exampill/studyplanner/internal/model"
	"github.com/exampill/studyplanner/internal/planner"
	"github.com/exampill/studyplanner/internal/store"
	"github.com/exampill/studyplanner/internal/videos"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "exampill",
		Short: "AI-powered exam study planner",
	}

	serve := serveCmd()
	root.AddCommand(serve, exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `exampill --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP study planner server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "exampill.db", "SQLite database path")
	f.String("gemini-api-key", "", "Generative-AI API key (or set GEMINI_API_KEY)")
	f.String("youtube-api-key", "", "YouTube Data API key (or set YOUTUBE_API_KEY; empty = static video links)")
	f.String("llm-url", "https://generativelanguage.googleapis.com/v1beta/openai/", "OpenAI-compatible API base URL")
	f.String("llm-model", "gemini-2.5-flash-lite", "Completion model name")
	f.Duration("request-timeout", 60*time.Second, "Timeout per upstream call (single attempt, no retry)")
	f.Int("max-topics", 10, "Maximum topics kept from the analysis (0 = all)")
	f.Int("max-videos", 5, "Maximum ranked videos per topic")
	f.Int("video-topics", 5, "Topics eligible for video lookup (0 = all)")
	f.Int("search-results", 10, "Raw search results fetched per topic")
	f.String("fallback-plan", "", "Fallback plan when analysis yields no topics: 'builtin' or a YAML path (empty = disabled)")
	f.StringP("lang", "l", "en", "UI language")
	f.Bool("secure-cookies", true, "Set Secure flag on cookies")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored study plans as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "exampill.db", "SQLite database path")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
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

// viperForCmd binds a command's flags and environment to a fresh viper
// instance. A .env file in the working directory is loaded first.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("EXAMPILL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Also honor the unprefixed names the hosted deployments already use.
	_ = v.BindEnv("gemini-api-key", "EXAMPILL_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("youtube-api-key", "EXAMPILL_YOUTUBE_API_KEY", "YOUTUBE_API_KEY")

	v.SetConfigName("exampill")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/exampill")
	v.AddConfigPath("/etc/exampill")
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

	// Open database.
	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.CleanupExpiredSessions(); err != nil {
		slog.Warn("session cleanup failed", "error", err)
	}

	// Initialize i18n.
	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	// Create the completion client. The key is required up front so a missing
	// credential fails at startup, not mid-request.
	apiKey := v.GetString("gemini-api-key")
	if apiKey == "" {
		return fmt.Errorf("generative-AI API key is required: set --gemini-api-key or GEMINI_API_KEY")
	}
	llmClient, err := llm.New(v.GetString("llm-url"), apiKey, v.GetString("llm-model"))
	if err != nil {
		return fmt.Errorf("create completion client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := llmClient.Ping(pingCtx); err != nil {
		slog.Warn("completion endpoint not reachable, requests will fail until it is",
			"url", v.GetString("llm-url"), "error", err)
	} else {
		slog.Info("completion endpoint OK",
			"url", v.GetString("llm-url"), "model", v.GetString("llm-model"))
	}
	cancel()

	planClient := planner.New(llmClient, v.GetInt("max-topics"))

	// Pick the video lookup: live YouTube search when a key is configured,
	// derived search links otherwise.
	var lookup videos.Lookup = videos.StaticLookup{}
	if key := v.GetString("youtube-api-key"); key != "" {
		yt, err := videos.NewYouTubeLookup(context.Background(), key, int64(v.GetInt("search-results")))
		if err != nil {
			return fmt.Errorf("create youtube lookup: %w", err)
		}
		lookup = yt
	} else {
		slog.Info("no YouTube API key configured, using static video links")
	}
	videoSvc := videos.NewService(lookup, videos.NewRanker(llmClient, v.GetInt("max-videos")))

	var fallbackTopics []model.TopicWeight
	if fp := v.GetString("fallback-plan"); fp != "" {
		path := fp
		if fp == "builtin" {
			path = ""
		}
		fallbackTopics, err = fallback.Load(path)
		if err != nil {
			return fmt.Errorf("load fallback plan: %w", err)
		}
		slog.Info("fallback plan loaded", "topics", len(fallbackTopics))
	}

	cfg := model.AppConfig{
		RequestTimeout: v.GetDuration("request-timeout"),
		MaxVideoTopics: v.GetInt("video-topics"),
		SecureCookies:  v.GetBool("secure-cookies"),
	}
	h := handler.New(db, planClient, videoSvc, fallbackTopics, cfg)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"model", v.GetString("llm-model"),
		"llm_url", v.GetString("llm-url"),
		"lang", lang,
		"request_timeout", cfg.RequestTimeout,
		"video_topics", cfg.MaxVideoTopics,
	)
	return http.ListenAndServe(addr, r)
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	plans, err := db.ListPlans()
	if err != nil {
		return fmt.Errorf("list plans: %w", err)
	}

	export := model.PlanExport{
		ExportedAt: time.Now(),
		PlanCount:  len(plans),
		Plans:      plans,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}
