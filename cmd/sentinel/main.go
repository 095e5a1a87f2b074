package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/analysis"
	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/classifier"
	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/config"
	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/dialogue"
	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/httputil"
	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/keywords"
	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/report"
	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/textnorm"
	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/trigger"
)

const Version = "1.0.0"

// Sentinel bundles the analysis pipeline and dialogue engine. Every
// external collaborator is optional and degrades gracefully when absent.
type Sentinel struct {
	cfg        *config.Config
	registry   *keywords.Registry
	analyzer   *analysis.ChatAnalyzer
	extractor  *classifier.HTTPExtractor // optional
	engine     *dialogue.Engine
	archive    *report.Store // optional
	archiveSem *httputil.Semaphore
	log        *zap.Logger
}

// NewSentinel wires all components from configuration.
func NewSentinel(cfg *config.Config, logger *zap.Logger) (*Sentinel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry := keywords.NewRegistry()
	if cfg.VocabPath != "" {
		if err := registry.LoadFile(cfg.VocabPath); err != nil {
			return nil, fmt.Errorf("loading vocabulary overrides: %w", err)
		}
		logger.Info("vocabulary overrides loaded", zap.String("path", cfg.VocabPath))
	}

	clf := pickClassifier(cfg, logger)
	analyzer := analysis.NewChatAnalyzer(registry, clf, cfg.Weights, cfg.ClassifierWindow)

	extractor := classifier.NewHTTPExtractor(cfg.ExtractorURL, cfg.ClassifierTimeout)
	if extractor != nil {
		logger.Info("entity extractor enabled", zap.String("url", cfg.ExtractorURL))
	} else {
		logger.Info("entity extractor disabled (no URL)")
	}

	var store dialogue.Store
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rs, err := dialogue.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.SessionTTL)
		if err != nil {
			return nil, fmt.Errorf("connecting session store: %w", err)
		}
		store = rs
		logger.Info("session store: redis", zap.String("addr", cfg.RedisAddr))
	} else {
		store = dialogue.NewMemoryStore(dialogue.WithMaxAge(cfg.SessionTTL))
		logger.Info("session store: in-memory")
	}

	responder := dialogue.NewLLMResponder(dialogue.ResponderConfig{
		BaseURL:     cfg.ResponderBaseURL,
		APIKey:      cfg.ResponderAPIKey,
		Model:       cfg.ResponderModel,
		Temperature: cfg.ResponderTemperature,
		Timeout:     cfg.ResponderTimeout,
	})
	engine := dialogue.NewEngine(store, responder, registry)

	var archive *report.Store
	if cfg.PostgresDSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a, err := report.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Warn("engagement archive disabled", zap.Error(err))
		} else {
			archive = a
			logger.Info("engagement archive enabled")
		}
	}

	return &Sentinel{
		cfg:        cfg,
		registry:   registry,
		analyzer:   analyzer,
		extractor:  extractor,
		engine:     engine,
		archive:    archive,
		archiveSem: httputil.NewSemaphore(16),
		log:        logger,
	}, nil
}

// pickClassifier selects the anomaly classifier backend: a local ONNX model
// when the operator opted in, otherwise the HTTP classifier, otherwise
// embedding similarity via Ollama. Nil means lexical-only scoring.
func pickClassifier(cfg *config.Config, logger *zap.Logger) classifier.WindowClassifier {
	if local := classifier.NewAutoDetectedLocalClassifier(); local != nil && local.IsReady() {
		logger.Info("classifier: local ONNX model")
		return local
	}
	if c := classifier.NewHTTPClassifier(cfg.ClassifierURL, cfg.ClassifierTimeout); c != nil {
		logger.Info("classifier: HTTP", zap.String("url", cfg.ClassifierURL))
		return c
	}
	if ollamaURL := config.GetEnv("SENTINEL_OLLAMA_URL", ""); ollamaURL != "" {
		sc, err := classifier.NewSemanticClassifier(ollamaURL)
		if err != nil {
			logger.Warn("semantic classifier init failed", zap.Error(err))
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if err := sc.SeedExemplars(ctx); err != nil {
			logger.Warn("semantic classifier disabled (seeding failed)", zap.Error(err))
			return nil
		}
		logger.Info("classifier: semantic embeddings", zap.String("ollama", ollamaURL))
		return sc
	}
	logger.Info("classifier disabled (lexical and psychological scoring only)")
	return nil
}

// AnalyzeRequest is the full-analysis API payload.
type AnalyzeRequest struct {
	Profile    analysis.Profile `json:"profile"`
	Transcript string           `json:"transcript"`
}

// Analyze runs the complete pipeline for one profile/transcript pair.
func (s *Sentinel) Analyze(ctx context.Context, req *AnalyzeRequest) (*analysis.Report, error) {
	if err := req.Profile.Validate(); err != nil {
		return nil, err
	}

	messages := textnorm.Transcript(req.Transcript)
	chat := s.analyzer.Analyze(ctx, messages)
	profileScore, profileReasons := analysis.CalculateProfileRisk(s.registry, &req.Profile)
	verdict := analysis.CalculateFinalVerdict(profileScore, chat, s.cfg.Weights)

	rep := &analysis.Report{
		ProfileScore:   profileScore,
		ProfileReasons: profileReasons,
		Chat:           chat,
		FinalVerdict:   verdict,
	}

	// Entities are auxiliary reporting only; extraction failure is silent.
	if s.extractor != nil && len(messages) > 0 {
		if entities, err := s.extractor.Extract(ctx, strings.Join(messages, "\n")); err == nil {
			rep.Entities = entities
		} else {
			s.log.Debug("entity extraction failed", zap.Error(err))
		}
	}

	s.archiveVerdict(req.Profile.Username, rep)
	return rep, nil
}

// archiveVerdict writes to the archive in the background, bounded so a slow
// database cannot pile up goroutines behind the API.
func (s *Sentinel) archiveVerdict(username string, rep *analysis.Report) {
	if s.archive == nil || !s.archiveSem.TryAcquire() {
		return
	}
	go func() {
		defer s.archiveSem.Release()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.archive.SaveVerdict(ctx, username, rep); err != nil {
			s.log.Warn("verdict archive failed", zap.Error(err))
		}
	}()
}

func (s *Sentinel) archiveEngagement(sessionID string) {
	if s.archive == nil || !s.archiveSem.TryAcquire() {
		return
	}
	go func() {
		defer s.archiveSem.Release()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		session, err := s.engine.Session(ctx, sessionID)
		if err != nil {
			s.log.Warn("engagement archive load failed", zap.Error(err))
			return
		}
		if err := s.archive.SaveEngagement(ctx, session); err != nil {
			s.log.Warn("engagement archive failed", zap.Error(err))
		}
	}()
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		addr := config.NewDefaultConfig().ListenAddr
		if len(os.Args) > 2 {
			addr = os.Args[2]
		}
		runHTTPServer(addr, logger)
	case "analyze":
		if len(os.Args) < 3 {
			fmt.Println("Usage: sentinel analyze <transcript-file>")
			os.Exit(1)
		}
		runCLIAnalyze(os.Args[2], logger)
	case "scan":
		if len(os.Args) < 3 {
			fmt.Println("Usage: sentinel scan <message>")
			os.Exit(1)
		}
		runCLIScan(strings.Join(os.Args[2:], " "))
	case "version":
		fmt.Printf("Sentinel v%s\n", Version)
		fmt.Println("Honeytrap analyzer - scoring pipeline and decoy dialogue")
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Sentinel v%s - honeytrap analyzer\n\n", Version)
	fmt.Println("Usage:")
	fmt.Println("  sentinel serve [addr]            Start HTTP server (default: :8470)")
	fmt.Println("  sentinel analyze <file>          Analyze a transcript file")
	fmt.Println("  sentinel scan <message>          Scan one message for triggers")
	fmt.Println("  sentinel version                 Show version")
	fmt.Println("")
	fmt.Println("Environment Variables:")
	fmt.Println("  SENTINEL_CLASSIFIER_URL   HTTP anomaly classifier endpoint")
	fmt.Println("  SENTINEL_OLLAMA_URL       Ollama base URL for embedding classifier")
	fmt.Println("  SENTINEL_REDIS_ADDR       Redis address for the session store")
	fmt.Println("  SENTINEL_POSTGRES_DSN     Postgres DSN for the engagement archive")
	fmt.Println("  SENTINEL_VOCAB_PATH       YAML vocabulary override file")
}

// ============================================================================
// HTTP Server Mode
// ============================================================================

func runHTTPServer(addr string, logger *zap.Logger) {
	cfg := config.NewDefaultConfig()
	cfg.ListenAddr = addr

	sentinel, err := NewSentinel(cfg, logger)
	if err != nil {
		logger.Fatal("initialization failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName: "Sentinel",
	})

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "version": Version})
	})

	app.Post("/analyze", func(c fiber.Ctx) error {
		var req AnalyzeRequest
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
		}
		rep, err := sentinel.Analyze(c.Context(), &req)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(rep)
	})

	app.Post("/session", func(c fiber.Ctx) error {
		session, err := sentinel.engine.StartSession(c.Context())
		if err != nil {
			logger.Error("session creation failed", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{"error": "could not create session"})
		}
		return c.Status(201).JSON(fiber.Map{
			"session_id": session.ID,
			"state":      session.State,
		})
	})

	app.Post("/session/:id/turn", func(c fiber.Ctx) error {
		var req struct {
			Message string `json:"message"`
		}
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
		}
		if req.Message == "" {
			return c.Status(400).JSON(fiber.Map{"error": "message field is required"})
		}

		res, err := sentinel.engine.Turn(c.Context(), c.Params("id"), textnorm.Message(req.Message))
		switch {
		case errors.Is(err, dialogue.ErrSessionNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "session not found"})
		case errors.Is(err, dialogue.ErrSessionConcluded):
			return c.Status(409).JSON(fiber.Map{"error": "session is concluded"})
		case errors.Is(err, dialogue.ErrResponderUnavailable):
			return c.Status(503).JSON(fiber.Map{"error": "responder unavailable, retry the turn"})
		case err != nil:
			logger.Error("turn failed", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{"error": "internal error"})
		}

		if res.State == dialogue.StateConcluded {
			logger.Info("session concluded",
				zap.String("session", res.SessionID),
				zap.String("trigger", string(res.Trigger.Type)),
			)
			sentinel.archiveEngagement(res.SessionID)
		}
		return c.JSON(res)
	})

	app.Get("/session/:id", func(c fiber.Ctx) error {
		session, err := sentinel.engine.Session(c.Context(), c.Params("id"))
		if errors.Is(err, dialogue.ErrSessionNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "session not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "internal error"})
		}
		return c.JSON(session)
	})

	logger.Info("listening", zap.String("addr", cfg.ListenAddr))
	if err := app.Listen(cfg.ListenAddr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// ============================================================================
// CLI Modes
// ============================================================================

func runCLIAnalyze(path string, logger *zap.Logger) {
	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading %s: %v\n", path, err)
		os.Exit(1)
	}

	cfg := config.NewDefaultConfig()
	registry := keywords.NewRegistry()
	analyzer := analysis.NewChatAnalyzer(registry, pickClassifier(cfg, logger), cfg.Weights, cfg.ClassifierWindow)

	chat := analyzer.Analyze(context.Background(), textnorm.Transcript(string(raw)))
	out, err := json.MarshalIndent(chat, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encoding result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func runCLIScan(message string) {
	ev := trigger.Scan(textnorm.Message(message))
	if ev == nil {
		fmt.Println("no trigger found")
		return
	}
	out, _ := json.MarshalIndent(ev, "", "  ")
	fmt.Println(string(out))
}
