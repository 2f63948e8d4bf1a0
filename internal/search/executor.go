package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prospecta/company-search/internal/logging"
	"github.com/prospecta/company-search/internal/models"
	"github.com/prospecta/company-search/internal/observability"
	"go.uber.org/zap"
)

// sessionCloseTimeout bounds releasing a session after its query context expired
const sessionCloseTimeout = 5 * time.Second

// Registry opens read-only sessions against the company registry
type Registry interface {
	// Open acquires a dedicated read-only session for a single call
	Open(ctx context.Context) (Session, error)
	Name() string
}

// Session is a read-only registry session scoped to one call. Implementations
// must abort in-flight queries server-side when ctx is done.
type Session interface {
	Fetch(ctx context.Context, q Query) ([]models.CompanyRecord, error)
	Count(ctx context.Context, q Query) (int64, error)
	Close(ctx context.Context) error
}

// Executor runs composed queries under a hard budget, one session per call
type Executor struct {
	registry Registry
	logger   *logging.SafeLogger
}

// NewExecutor creates a new executor over registry
func NewExecutor(registry Registry, logger *logging.SafeLogger) *Executor {
	return &Executor{
		registry: registry,
		logger:   logger,
	}
}

// Execute fetches the rows of q. It fails with models.ErrTimeout when the
// budget (or an earlier parent deadline) expires, models.ErrCanceled when the
// caller cancels ctx and models.ErrQuery on any other failure. The session is
// closed on every path.
func (e *Executor) Execute(ctx context.Context, q Query, budget time.Duration) ([]models.CompanyRecord, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	var rows []models.CompanyRecord
	err := e.withSession(ctx, "fetch", func(session Session) error {
		var fetchErr error
		rows, fetchErr = session.Fetch(ctx, q)
		return fetchErr
	})

	outcome := "success"
	if err != nil {
		err = classify(ctx, err)
		outcome = outcomeLabel(err)
		fields := []zap.Field{
			zap.String("registry", e.registry.Name()),
			zap.String("shape", string(q.Shape)),
			zap.Int("predicates", len(q.Predicates)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		}
		if errors.Is(err, models.ErrCanceled) {
			e.logger.Debug("registry fetch canceled by caller", fields...)
		} else {
			e.logger.Warn("registry fetch failed", fields...)
		}
	}
	observability.SearchDuration.WithLabelValues(string(q.Shape), outcome).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	e.logger.Debug("registry fetch completed",
		zap.String("registry", e.registry.Name()),
		zap.String("query", q.Key()),
		zap.Int("rows", len(rows)),
		zap.Duration("elapsed", time.Since(start)))

	if rows == nil {
		rows = []models.CompanyRecord{}
	}
	return rows, nil
}

// Count runs an exact count of q, with the same budget and error
// classification as Execute
func (e *Executor) Count(ctx context.Context, q Query, budget time.Duration) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	var total int64
	err := e.withSession(ctx, "count", func(session Session) error {
		var countErr error
		total, countErr = session.Count(ctx, q)
		return countErr
	})
	if err != nil {
		return 0, classify(ctx, err)
	}
	return total, nil
}

// Pinger is implemented by registries with a cheaper health check than
// opening a session
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks that the registry is reachable
func (e *Executor) Ping(ctx context.Context) error {
	if pinger, ok := e.registry.(Pinger); ok {
		return pinger.Ping(ctx)
	}
	return e.withSession(ctx, "ping", func(Session) error { return nil })
}

func (e *Executor) withSession(ctx context.Context, operation string, fn func(Session) error) error {
	session, err := e.registry.Open(ctx)
	if err != nil {
		observability.RegistryOperations.WithLabelValues("open", "error").Inc()
		return fmt.Errorf("failed to open registry session: %w", err)
	}

	fnErr := fn(session)

	// The query context may already be expired; release with a fresh budget
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sessionCloseTimeout)
	defer cancel()
	if closeErr := session.Close(closeCtx); closeErr != nil {
		e.logger.Warn("failed to close registry session",
			zap.String("registry", e.registry.Name()),
			zap.Error(closeErr))
	}

	status := "success"
	if fnErr != nil {
		status = "error"
	}
	observability.RegistryOperations.WithLabelValues(operation, status).Inc()
	return fnErr
}

// classify maps a registry error to the models error classes
func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return fmt.Errorf("%w: %w", models.ErrCanceled, err)
	case errors.Is(err, models.ErrTimeout), errors.Is(err, models.ErrQuery), errors.Is(err, models.ErrCanceled):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", models.ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %w", models.ErrQuery, err)
	}
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, models.ErrCanceled):
		return "canceled"
	case errors.Is(err, models.ErrTimeout):
		return "timeout"
	default:
		return "error"
	}
}
