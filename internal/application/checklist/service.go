// Package checklist manages the installed gap analysis checklist: reads,
// validated replacement, file loading and hot reload.
package checklist

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/turtacn/DPR-Intelligence/internal/config"
	domain "github.com/turtacn/DPR-Intelligence/internal/domain/checklist"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/gap_analyzer"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 250 * time.Millisecond

// Sources recorded in update events.
const (
	SourceAPI  = "api"
	SourceFile = "file"
)

// UpdatePublisher announces an installed checklist.
type UpdatePublisher interface {
	PublishChecklistUpdated(ctx context.Context, c *domain.Checklist, source string) error
}

// Loader reads a checklist file.
type Loader func(path string) (*domain.Checklist, error)

// Option configures a Service.
type Option func(*Service)

func WithPublisher(p UpdatePublisher) Option { return func(s *Service) { s.events = p } }

func WithLoader(l Loader) Option { return func(s *Service) { s.load = l } }

func WithDebounce(d time.Duration) Option { return func(s *Service) { s.debounce = d } }

// Service wraps the checklist store the gap analyzer reads.
type Service struct {
	store    *gap_analyzer.ChecklistStore
	events   UpdatePublisher
	load     Loader
	debounce time.Duration
	logger   logging.Logger

	watchMu  sync.Mutex
	watching bool
}

// NewService returns a service over store.
func NewService(store *gap_analyzer.ChecklistStore, logger logging.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		load:     config.LoadChecklistFile,
		debounce: DefaultDebounce,
		logger:   logging.OrNop(logger).Named("checklist"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Get returns a copy of the installed checklist.
func (s *Service) Get() *domain.Checklist { return s.store.Get() }

// Version returns the installed checklist version.
func (s *Service) Version() string { return s.store.Version() }

// Replace installs c when it validates. On failure the previous checklist
// stays installed.
func (s *Service) Replace(ctx context.Context, c *domain.Checklist, source string) error {
	if err := s.store.Replace(c); err != nil {
		s.logger.Warn("checklist rejected", logging.String("source", source), logging.Err(err))
		if apperrors.GetCode(err) == apperrors.CodeUnknown {
			return apperrors.Wrap(err, apperrors.ErrCodeChecklistInvalid, "checklist rejected")
		}
		return err
	}
	s.logger.Info("checklist installed",
		logging.String("version", c.Version),
		logging.String("source", source),
		logging.Int("sections", len(c.Sections)),
		logging.Int("fields", c.FieldCount()))

	if s.events != nil {
		if err := s.events.PublishChecklistUpdated(ctx, c, source); err != nil {
			s.logger.Warn("checklist update event failed", logging.Err(err))
		}
	}
	return nil
}

// LoadFile reads path and installs it.
func (s *Service) LoadFile(ctx context.Context, path string) error {
	c, err := s.load(path)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeChecklistInvalid) {
			return err
		}
		return apperrors.Wrapf(err, apperrors.ErrCodeChecklistLoadFailed, "failed to load checklist %s", path)
	}
	return s.Replace(ctx, c, SourceFile)
}

// Watch reloads path whenever it is written or recreated until ctx ends.
// The parent directory is watched so editors that save by rename are seen.
// Invalid edits are logged and skipped. Only one watch may run at a time.
func (s *Service) Watch(ctx context.Context, path string) error {
	s.watchMu.Lock()
	if s.watching {
		s.watchMu.Unlock()
		return apperrors.New(apperrors.ErrCodeConflict, "checklist watch already running")
	}
	s.watching = true
	s.watchMu.Unlock()

	target, err := filepath.Abs(path)
	if err != nil {
		s.stopWatching()
		return apperrors.Wrap(err, apperrors.ErrCodeChecklistLoadFailed, "invalid checklist path")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		s.stopWatching()
		return apperrors.Wrap(err, apperrors.ErrCodeChecklistLoadFailed, "failed to create file watcher")
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		w.Close()
		s.stopWatching()
		return apperrors.Wrapf(err, apperrors.ErrCodeChecklistLoadFailed, "failed to watch %s", filepath.Dir(target))
	}

	s.logger.Info("watching checklist file", logging.String("path", target))
	go s.watchLoop(ctx, w, target)
	return nil
}

func (s *Service) stopWatching() {
	s.watchMu.Lock()
	s.watching = false
	s.watchMu.Unlock()
}

func (s *Service) watchLoop(ctx context.Context, w *fsnotify.Watcher, target string) {
	defer s.stopWatching()
	defer w.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Stop()
				timer.Reset(s.debounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.Warn("checklist watcher error", logging.Err(err))
		case <-fire:
			fire = nil
			if err := s.LoadFile(ctx, target); err != nil {
				s.logger.Warn("checklist reload skipped", logging.String("path", target), logging.Err(err))
			}
		}
	}
}

//Personal.AI order the ending
