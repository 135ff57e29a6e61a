// Package daemon provides the long-running background statement monitor.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"net/http"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/cashburn/internal/analytics"
	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/model"
	"github.com/theirongolddev/cashburn/internal/pipeline"
	"github.com/theirongolddev/cashburn/internal/store"
)

const (
	reportCacheExpiration = 15 * time.Minute
	reportCacheCleanup    = 30 * time.Minute
)

// Config controls the daemon runtime behavior.
type Config struct {
	DataDir      string
	Rules        config.Rules
	Balance      float64
	UseCache     bool
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Logger       zerolog.Logger

	// Now overrides the reference clock. Defaults to time.Now.
	Now func() time.Time
}

// Snapshot is a compact view of the current month for status/event payloads.
type Snapshot struct {
	At               time.Time        `json:"at"`
	Month            string           `json:"month"`
	Transactions     int              `json:"transactions"`
	Income           float64          `json:"income"`
	Expenses         float64          `json:"expenses"`
	Net              float64          `json:"net"`
	Anomalies        int              `json:"anomalies"`
	Alerts           int              `json:"alerts"`
	ProjectedBalance float64          `json:"projected_balance"`
	Confidence       model.Confidence `json:"confidence"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Transactions     int     `json:"transactions"`
	Income           float64 `json:"income"`
	Expenses         float64 `json:"expenses"`
	Anomalies        int     `json:"anomalies"`
	Alerts           int     `json:"alerts"`
	ProjectedBalance float64 `json:"projected_balance"`
}

func (d Delta) isZero() bool {
	return d.Transactions == 0 &&
		d.Income == 0 &&
		d.Expenses == 0 &&
		d.Anomalies == 0 &&
		d.Alerts == 0 &&
		d.ProjectedBalance == 0
}

// Event is emitted whenever the snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DataDir         string    `json:"data_dir"`
	Balance         float64   `json:"balance"`
	Files           int       `json:"files"`
	ParseErrors     int       `json:"parse_errors"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	log     zerolog.Logger
	engine  *analytics.Engine
	reports *gocache.Cache

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	files       int
	parseErrors int
	txs         []model.Transaction
	fingerprint uint64
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Service{
		cfg:       cfg,
		log:       cfg.Logger.With().Str("component", "daemon").Logger(),
		engine:    analytics.New(cfg.Rules, analytics.WithClock(cfg.Now)),
		reports:   gocache.New(reportCacheExpiration, reportCacheCleanup),
		startedAt: cfg.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/report", s.handleReport)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	return mux
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info().Str("addr", s.cfg.Addr).Dur("interval", s.cfg.Interval).Msg("daemon listening")

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("daemon shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce() {
	start := time.Now()
	res, err := s.loadTransactions()
	now := s.cfg.Now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.log.Error().Err(err).Msg("poll failed")
		return
	}

	month := model.YearMonthOf(now)
	report := s.engine.GenerateReport(res.Transactions, s.cfg.Balance, &month)
	snap := snapshotFromReport(report, now)
	fp := fingerprint(res.Transactions)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot
	changed := fp != s.fingerprint || !prevExists

	s.hasSnapshot = true
	s.snapshot = snap
	s.txs = res.Transactions
	s.fingerprint = fp
	s.files = res.TotalFiles
	s.parseErrors = res.ParseErrors
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "snapshot",
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	} else {
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() {
			s.nextEventID++
			ev = Event{
				ID:        s.nextEventID,
				Type:      "report_delta",
				Timestamp: now,
				Snapshot:  snap,
				Delta:     delta,
			}
			publish = true
		}
	}
	s.mu.Unlock()

	if changed {
		s.reports.Flush()
	}
	if publish {
		s.publishEvent(ev)
	}

	s.log.Debug().
		Int("transactions", len(res.Transactions)).
		Int("files", res.TotalFiles).
		Bool("changed", changed).
		Dur("took", time.Since(start)).
		Msg("poll complete")
}

func (s *Service) loadTransactions() (*pipeline.LoadResult, error) {
	if s.cfg.UseCache {
		cache, err := store.Open(pipeline.CachePath())
		if err == nil {
			defer func() { _ = cache.Close() }()
			cr, loadErr := pipeline.LoadWithCache(s.cfg.DataDir, cache, nil)
			if loadErr == nil {
				return &cr.LoadResult, nil
			}
			s.log.Warn().Err(loadErr).Msg("cached load failed, falling back to full parse")
		} else {
			s.log.Warn().Err(err).Msg("opening cache")
		}
	}

	return pipeline.Load(s.cfg.DataDir, nil)
}

// fingerprint identifies a transaction set so cached reports can be dropped
// when the underlying data changes.
func fingerprint(txs []model.Transaction) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, tx := range txs {
		_, _ = h.Write([]byte(tx.ID))
		bits := math.Float64bits(tx.Amount)
		for i := range buf {
			buf[i] = byte(bits >> (8 * i))
		}
		_, _ = h.Write(buf[:])
		_, _ = h.Write([]byte(tx.Date.Format(time.RFC3339)))
		_, _ = h.Write([]byte(tx.Merchant))
	}
	return h.Sum64()
}

func snapshotFromReport(r model.FinancialReport, at time.Time) Snapshot {
	return Snapshot{
		At:               at,
		Month:            r.Period.Label,
		Transactions:     r.Summary.TransactionCount,
		Income:           r.Summary.TotalIncome,
		Expenses:         r.Summary.TotalExpenses,
		Net:              r.Summary.NetBalance,
		Anomalies:        len(r.Anomalies),
		Alerts:           len(r.CategoryAlerts),
		ProjectedBalance: r.Projection.FinalBalanceProjection,
		Confidence:       r.Projection.Confidence,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Transactions:     curr.Transactions - prev.Transactions,
		Income:           round2(curr.Income - prev.Income),
		Expenses:         round2(curr.Expenses - prev.Expenses),
		Anomalies:        curr.Anomalies - prev.Anomalies,
		Alerts:           curr.Alerts - prev.Alerts,
		ProjectedBalance: round2(curr.ProjectedBalance - prev.ProjectedBalance),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DataDir:         s.cfg.DataDir,
		Balance:         s.cfg.Balance,
		Files:           s.files,
		ParseErrors:     s.parseErrors,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

// report returns the memoized report for month ("" = current month,
// "all" = full history).
func (s *Service) report(month string) (model.FinancialReport, error) {
	now := s.cfg.Now()

	var target *model.YearMonth
	switch month {
	case "all":
	case "":
		ym := model.YearMonthOf(now)
		target = &ym
	default:
		ym, err := model.ParseYearMonth(month)
		if err != nil {
			return model.FinancialReport{}, err
		}
		target = &ym
	}

	label := "all"
	if target != nil {
		label = target.String()
	}

	s.mu.RLock()
	txs := s.txs
	fp := s.fingerprint
	s.mu.RUnlock()

	key := fmt.Sprintf("%x|%s|%s|%.2f", fp, label, now.Format("2006-01-02"), s.cfg.Balance)
	if cached, ok := s.reports.Get(key); ok {
		if r, ok := cached.(model.FinancialReport); ok {
			return r, nil
		}
	}

	r := s.engine.GenerateReport(txs, s.cfg.Balance, target)
	s.reports.SetDefault(key, r)
	return r, nil
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.report(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}

// writeError sends err as a JSON {"error": ...} body.
func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      "snapshot",
		Timestamp: s.cfg.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
