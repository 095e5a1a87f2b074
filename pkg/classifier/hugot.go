package classifier

// Local ONNX-based intent classification via Hugot. Opt-in: most deployments
// run the HTTP or semantic backend, but an air-gapped honeypot can drop a
// fine-tuned intent model next to the binary and classify fully offline.
//
// Build:
// - Standard: go build (pure Go backend, slower)
// - With ORT: go build -tags ORT (ONNX Runtime, faster)

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/options"
	"github.com/knights-analytics/hugot/pipelines"
)

// LocalEnabled reports whether the local ONNX classifier should be used.
// Disabled by default so installs without a model stay quiet.
func LocalEnabled() bool {
	if isTrue(os.Getenv("SENTINEL_ENABLE_HUGOT")) {
		return true
	}
	if isTrue(os.Getenv("HUGOT_ENABLED")) {
		return true
	}
	return false
}

func isTrue(v string) bool {
	switch v {
	case "1", "true", "TRUE", "yes", "YES", "on", "ON":
		return true
	default:
		return false
	}
}

// LocalConfig configures the local ONNX intent classifier.
type LocalConfig struct {
	// ModelPath is the local path to the ONNX model directory. The model is
	// expected to be a text classifier emitting the conversational intent
	// labels (flirty, casual, technical, probing).
	ModelPath string

	// OnnxLibraryPath is the directory holding libonnxruntime. Empty means
	// fall back to the pure Go backend.
	OnnxLibraryPath string

	// Timeout bounds a single inference call.
	Timeout time.Duration
}

// DefaultLocalConfig returns the standard configuration, honoring
// HUGOT_MODEL_PATH when set.
func DefaultLocalConfig() LocalConfig {
	modelPath := os.Getenv("HUGOT_MODEL_PATH")
	if modelPath == "" {
		modelPath = "./models/intent"
	}
	return LocalConfig{
		ModelPath:       modelPath,
		OnnxLibraryPath: defaultOnnxPath(),
		Timeout:         30 * time.Second,
	}
}

// defaultOnnxPath finds an ONNX Runtime library in common install locations.
func defaultOnnxPath() string {
	paths := []string{
		"/usr/lib/libonnxruntime.so",
		"/usr/local/lib/libonnxruntime.so",
		"/opt/homebrew/lib/libonnxruntime.dylib",
		"/usr/local/lib/libonnxruntime.dylib",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return filepath.Dir(p)
		}
	}
	return ""
}

// LocalClassifier runs intent classification against a local ONNX model.
type LocalClassifier struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	mu       sync.RWMutex
	config   LocalConfig
	ready    bool
}

// NewLocalClassifier creates a classifier from the given configuration.
func NewLocalClassifier(cfg LocalConfig) (*LocalClassifier, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	lc := &LocalClassifier{config: cfg}
	if err := lc.initialize(); err != nil {
		return nil, fmt.Errorf("hugot initialization failed: %w", err)
	}
	return lc, nil
}

// NewAutoDetectedLocalClassifier creates a classifier when the env toggle is
// on and a model directory exists. Returns nil otherwise.
func NewAutoDetectedLocalClassifier() *LocalClassifier {
	if !LocalEnabled() {
		return nil
	}
	cfg := DefaultLocalConfig()
	if _, err := os.Stat(filepath.Join(cfg.ModelPath, "model.onnx")); err != nil {
		log.Printf("[ML] No intent model at %s, local classifier disabled", cfg.ModelPath)
		return nil
	}
	lc, err := NewLocalClassifier(cfg)
	if err != nil {
		log.Printf("WARNING: local intent classifier initialization failed: %v", err)
		return nil
	}
	return lc
}

func (lc *LocalClassifier) initialize() error {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	session, err := lc.createSession()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	lc.session = session

	config := hugot.TextClassificationConfig{
		ModelPath: lc.config.ModelPath,
		Name:      "intent-classifier",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		_ = lc.session.Destroy()
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	lc.pipeline = pipeline
	lc.ready = true
	log.Printf("Local intent classifier initialized (model: %s)", lc.config.ModelPath)
	return nil
}

func (lc *LocalClassifier) createSession() (*hugot.Session, error) {
	if lc.config.OnnxLibraryPath != "" {
		session, err := hugot.NewORTSession(
			options.WithOnnxLibraryPath(lc.config.OnnxLibraryPath),
		)
		if err == nil {
			log.Printf("Local intent classifier using ONNX Runtime backend")
			return session, nil
		}
		log.Printf("ONNX Runtime unavailable, falling back to Go backend: %v", err)
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create Go session: %w", err)
	}
	return session, nil
}

// IsReady reports whether the model is loaded.
func (lc *LocalClassifier) IsReady() bool {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return lc.ready
}

// normalizeLabel maps model label conventions onto our intent names.
// Generic LABEL_N outputs follow the training label order.
func normalizeLabel(label string) string {
	switch strings.ToLower(label) {
	case IntentFlirty, "label_0":
		return IntentFlirty
	case IntentCasual, "label_1":
		return IntentCasual
	case IntentTechnical, "label_2":
		return IntentTechnical
	case IntentProbing, "label_3":
		return IntentProbing
	default:
		return IntentNormal
	}
}

// Classify runs the window through the local model. The window is joined
// into one sequence so the model sees the conversational drift, not
// isolated sentences.
func (lc *LocalClassifier) Classify(ctx context.Context, window []string) (*Result, error) {
	lc.mu.RLock()
	defer lc.mu.RUnlock()

	if !lc.ready || lc.pipeline == nil {
		return nil, fmt.Errorf("local intent classifier not ready")
	}
	if len(window) == 0 {
		return &Result{Intent: IntentNormal}, nil
	}

	text := strings.Join(window, "\n")
	result, err := lc.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}
	if len(result.ClassificationOutputs) == 0 || len(result.ClassificationOutputs[0]) == 0 {
		return &Result{Intent: IntentNormal}, nil
	}

	out := result.ClassificationOutputs[0][0]
	intent := normalizeLabel(out.Label)
	confidence := float64(out.Score)

	return &Result{
		Intent:     intent,
		Confidence: confidence,
		Anomalous:  anomalousIntent(intent, confidence),
	}, nil
}

// Close releases the ONNX session.
func (lc *LocalClassifier) Close() error {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	lc.ready = false
	if lc.session != nil {
		if err := lc.session.Destroy(); err != nil {
			return fmt.Errorf("failed to destroy session: %w", err)
		}
	}
	return nil
}
