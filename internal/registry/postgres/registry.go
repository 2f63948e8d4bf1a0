// Package postgres serves the company registry from PostgreSQL.
//
// Every call opens its own read-only connection and closes it when done, so
// a slow query holds one server slot for its own lifetime only.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgconn/ctxwatch"
	"github.com/prospecta/company-search/internal/logging"
	"github.com/prospecta/company-search/internal/models"
	"github.com/prospecta/company-search/internal/search"
	"github.com/prospecta/company-search/internal/utils"
	"go.uber.org/zap"
)

// queryCanceledCode is the SQLSTATE of statement_timeout and cancel requests
const queryCanceledCode = "57014"

// cancelDeadlineDelay is how long a cancelled query may take to acknowledge
// the cancel request before the socket deadline closes the session
const cancelDeadlineDelay = time.Second

// Registry opens per-call connections to the companies table
type Registry struct {
	config *pgx.ConnConfig
	logger *logging.SafeLogger
}

// New parses dsn and prepares read-only sessions whose statements are
// aborted server-side after statementTimeout
func New(dsn string, statementTimeout time.Duration, logger *logging.SafeLogger) (*Registry, error) {
	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.RuntimeParams["default_transaction_read_only"] = "on"
	config.RuntimeParams["application_name"] = "company-search"
	if statementTimeout > 0 {
		config.RuntimeParams["statement_timeout"] = strconv.FormatInt(statementTimeout.Milliseconds(), 10)
	}
	// A context deadline must stop the backend, not only the client read
	config.BuildContextWatcherHandler = func(conn *pgconn.PgConn) ctxwatch.Handler {
		return &pgconn.CancelRequestContextWatcherHandler{
			Conn:          conn,
			DeadlineDelay: cancelDeadlineDelay,
		}
	}

	return &Registry{
		config: config,
		logger: logger,
	}, nil
}

// Name identifies the registry in logs
func (r *Registry) Name() string {
	return "postgres"
}

// Open connects a dedicated session. Cancelling ctx while a query runs sends
// a cancel request for the backend; a backend that ignores it is cut off
// after cancelDeadlineDelay.
func (r *Registry) Open(ctx context.Context) (search.Session, error) {
	conn, err := pgx.ConnectConfig(ctx, r.config.Copy())
	if err != nil {
		return nil, translateError(err)
	}
	return &session{conn: conn, logger: r.logger}, nil
}

type session struct {
	conn   *pgx.Conn
	logger *logging.SafeLogger
}

// companyRow is one scanned companies row
type companyRow struct {
	CNPJ               string `db:"cnpj"`
	CompanyName        string `db:"razao_social"`
	TradeName          string `db:"nome_fantasia"`
	RegistrationStatus string `db:"situacao_cadastral"`
	State              string `db:"uf"`
	CityCode           string `db:"codigo_municipio"`
	CityName           string `db:"municipio"`
	PrimaryCNAE        string `db:"cnae_fiscal"`
	HeadquartersBranch int    `db:"matriz_filial"`
}

func (s *session) Fetch(ctx context.Context, q search.Query) ([]models.CompanyRecord, error) {
	stmt, err := RenderFetch(q)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrQuery, err)
	}
	s.logger.Debug("running page query", zap.String("sql", stmt.SQL))

	ctx, span, done := utils.TraceDatabaseOperation(ctx, "postgresql", "find", "companies")
	defer done()
	utils.AddSpanAttribute(span, "db.limit", q.Limit)

	rows, err := s.conn.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, translateError(err)
	}
	scanned, err := pgx.CollectRows(rows, pgx.RowToStructByName[companyRow])
	if err != nil {
		return nil, translateError(err)
	}

	records := make([]models.CompanyRecord, 0, len(scanned))
	for _, row := range scanned {
		records = append(records, models.CompanyRecord(row))
	}
	return records, nil
}

func (s *session) Count(ctx context.Context, q search.Query) (int64, error) {
	stmt, err := RenderCount(q)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", models.ErrQuery, err)
	}
	s.logger.Debug("running count query", zap.String("sql", stmt.SQL))

	ctx, _, done := utils.TraceDatabaseOperation(ctx, "postgresql", "count", "companies")
	defer done()

	var total int64
	if err := s.conn.QueryRow(ctx, stmt.SQL, stmt.Args...).Scan(&total); err != nil {
		return 0, translateError(err)
	}
	return total, nil
}

func (s *session) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}

// translateError marks server-side cancellations and client timeouts as
// models.ErrTimeout
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == queryCanceledCode {
		return fmt.Errorf("%w: %w", models.ErrTimeout, err)
	}
	if pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", models.ErrTimeout, err)
	}
	return err
}
