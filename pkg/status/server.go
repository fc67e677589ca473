package status

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"trainctl/pkg/logger"
)

// Phase is the launcher's current pipeline stage.
type Phase string

const (
	PhaseFetching    Phase = "FETCHING"
	PhaseValidating  Phase = "VALIDATING"
	PhaseDispatching Phase = "DISPATCHING"
	PhaseRunning     Phase = "RUNNING"
	PhaseDone        Phase = "DONE"
)

// Snapshot is the externally visible state of the in-flight launch.
type Snapshot struct {
	RunID     string     `json:"run_id"`
	RunName   string     `json:"run_name"`
	OutputDir string     `json:"output_dir"`
	Phase     Phase      `json:"phase"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	Elapsed   string     `json:"elapsed,omitempty"`
}

// Tracker holds the snapshot behind a mutex; the dispatch goroutine
// writes, HTTP handlers read.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

func NewTracker(runID, runName, outputDir string) *Tracker {
	return &Tracker{snap: Snapshot{RunID: runID, RunName: runName, OutputDir: outputDir}}
}

// SetPhase updates the pipeline stage.
func (t *Tracker) SetPhase(p Phase) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.Phase = p
	if p == PhaseRunning && t.snap.StartedAt == nil {
		now := time.Now()
		t.snap.StartedAt = &now
	}
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	snap := t.snap
	if snap.StartedAt != nil {
		snap.Elapsed = time.Since(*snap.StartedAt).Round(time.Second).String()
	}
	return snap
}

// Server is a small diagnostic surface served while the launcher blocks
// on a multi-hour training run: liveness, the run snapshot, and the
// Prometheus registry. Off by default; unauthenticated by design, bind
// it to localhost.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	tracker    *Tracker
	log        *zap.Logger
}

func NewServer(port string, tracker *Tracker) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router:  router,
		tracker: tracker,
		log:     logger.Get(),
	}
	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/run", s.handleRun)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleRun(c *gin.Context) {
	c.JSON(http.StatusOK, s.tracker.Snapshot())
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.log.Info("status server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start status server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
