package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/p-n-ai/deepblue/internal/agent"
	"github.com/p-n-ai/deepblue/internal/ai"
	"github.com/p-n-ai/deepblue/internal/curriculum"
	"github.com/p-n-ai/deepblue/internal/divelog"
	"github.com/p-n-ai/deepblue/internal/lesson"
	"github.com/p-n-ai/deepblue/internal/platform/cache"
	"github.com/p-n-ai/deepblue/internal/platform/config"
	"github.com/p-n-ai/deepblue/internal/platform/database"
)

// Runtime is everything built from configuration. Both the server and the
// CLI start from one.
type Runtime struct {
	Config    *config.Config
	AI        *ai.Router
	Roadmap   *curriculum.Roadmap
	Lessons   *lesson.Generator
	Assistant *agent.Assistant
	DiveLog   *divelog.Log

	cache *cache.Cache
	db    *database.DB
}

// Build wires the runtime. The cache and database are only dialled when the
// dive log backend needs them.
func Build(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	rt := &Runtime{Config: cfg}

	roadmap, err := loadRoadmap(cfg.CurriculumPath)
	if err != nil {
		return nil, err
	}
	rt.Roadmap = roadmap

	rt.AI = NewAIRouter(cfg.AI)
	lang := cfg.OutputLanguage()

	rt.Lessons = lesson.NewGenerator(lesson.GeneratorConfig{
		AI:          rt.AI,
		Temperature: ai.Float(cfg.AI.LessonTemperature),
		Language:    lang,
		MaxTokens:   cfg.AI.LessonMaxTokens,
	})
	rt.Assistant = agent.NewAssistant(agent.AssistantConfig{
		AI:           rt.AI,
		Language:     lang,
		HistoryLimit: cfg.Chat.HistoryLimit,
		MaxTokens:    cfg.AI.ChatMaxTokens,
	})

	kv, err := rt.openKV(ctx)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.DiveLog, err = divelog.Open(ctx, kv)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("opening dive log: %w", err)
	}

	slog.Info("runtime ready",
		"steps", roadmap.Len(),
		"language", lang.String(),
		"divelog_backend", cfg.DiveLog.Backend,
		"dives", rt.DiveLog.Len(),
	)
	return rt, nil
}

// NewAIRouter registers every configured provider, Gemini first.
func NewAIRouter(cfg config.AIConfig) *ai.Router {
	router := ai.NewRouter()
	client := &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}

	if cfg.Google.APIKey != "" {
		opts := []ai.GoogleOption{ai.WithGoogleHTTPClient(client), ai.WithGoogleModel(cfg.Google.Model)}
		if cfg.Google.BaseURL != "" {
			opts = append(opts, ai.WithGoogleBaseURL(cfg.Google.BaseURL))
		}
		router.Register("google", ai.NewGoogleProvider(cfg.Google.APIKey, opts...))
	}
	if cfg.OpenAI.APIKey != "" {
		opts := []ai.OpenAIOption{ai.WithHTTPClient(client), ai.WithOpenAIModel(cfg.OpenAI.Model)}
		if cfg.OpenAI.BaseURL != "" {
			opts = append(opts, ai.WithBaseURL(cfg.OpenAI.BaseURL))
		}
		router.Register("openai", ai.NewOpenAIProvider(cfg.OpenAI.APIKey, opts...))
	}
	return router
}

// Deps returns controller dependencies over the runtime.
func (rt *Runtime) Deps() Deps {
	return Deps{
		Roadmap:   rt.Roadmap,
		Lessons:   rt.Lessons,
		Assistant: rt.Assistant,
		DiveLog:   rt.DiveLog,
	}
}

// ReadyChecks returns a health check per dialled dependency.
func (rt *Runtime) ReadyChecks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{}
	if rt.cache != nil {
		checks["cache"] = rt.cache.HealthCheck
	}
	if rt.db != nil {
		checks["database"] = rt.db.HealthCheck
	}
	return checks
}

// Close releases any connections Build opened.
func (rt *Runtime) Close() error {
	var errs []error
	if rt.cache != nil {
		errs = append(errs, rt.cache.Close())
		rt.cache = nil
	}
	if rt.db != nil {
		rt.db.Close()
		rt.db = nil
	}
	return errors.Join(errs...)
}

func (rt *Runtime) openKV(ctx context.Context) (divelog.KV, error) {
	cfg := rt.Config
	switch cfg.DiveLog.Backend {
	case config.BackendMemory:
		return divelog.NewMemoryKV(), nil
	case config.BackendFile:
		kv, err := divelog.NewFileKV(cfg.DiveLog.Dir)
		if err != nil {
			return nil, fmt.Errorf("opening dive log dir: %w", err)
		}
		return kv, nil
	case config.BackendRedis:
		c, err := cache.Open(ctx, cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("connecting to cache: %w", err)
		}
		rt.cache = c
		return divelog.NewRedisKV(c.Client), nil
	case config.BackendPostgres:
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		rt.db = db
		kv, err := divelog.NewPostgresKV(ctx, db.Pool)
		if err != nil {
			return nil, fmt.Errorf("preparing dive log table: %w", err)
		}
		return kv, nil
	default:
		return nil, fmt.Errorf("unknown dive log backend %q", cfg.DiveLog.Backend)
	}
}

func loadRoadmap(path string) (*curriculum.Roadmap, error) {
	if path == "" {
		return curriculum.Default()
	}
	roadmap, err := curriculum.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading curriculum: %w", err)
	}
	return roadmap, nil
}
