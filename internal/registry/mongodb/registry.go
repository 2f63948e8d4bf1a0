// Package mongodb serves the company registry from a MongoDB collection of
// legal entity documents.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prospecta/company-search/internal/logging"
	"github.com/prospecta/company-search/internal/models"
	"github.com/prospecta/company-search/internal/search"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// companyDocument is the stored legal entity layout
type companyDocument struct {
	CNPJ               string   `bson:"cnpj"`
	CompanyName        string   `bson:"razao_social"`
	TradeName          *string  `bson:"nome_fantasia"`
	PrimaryCNAE        *string  `bson:"cnae_fiscal"`
	HeadquartersBranch idEntry  `bson:"matriz_filial"`
	RegistrationStatus idEntry  `bson:"situacao_cadastral"`
	Address            location `bson:"endereco"`
}

type idEntry struct {
	ID          string `bson:"id"`
	Description string `bson:"descricao,omitempty"`
}

type location struct {
	State    string `bson:"uf"`
	CityID   string `bson:"id_municipio"`
	CityName string `bson:"municipio_nome"`
}

func (d companyDocument) record() models.CompanyRecord {
	record := models.CompanyRecord{
		CNPJ:               d.CNPJ,
		CompanyName:        d.CompanyName,
		RegistrationStatus: d.RegistrationStatus.ID,
		State:              d.Address.State,
		CityCode:           d.Address.CityID,
		CityName:           d.Address.CityName,
		HeadquartersBranch: models.EstablishmentBranch,
	}
	if d.TradeName != nil {
		record.TradeName = *d.TradeName
	}
	if d.PrimaryCNAE != nil {
		record.PrimaryCNAE = *d.PrimaryCNAE
	}
	if d.HeadquartersBranch.ID == "1" {
		record.HeadquartersBranch = models.EstablishmentHeadquarters
	}
	return record
}

// Registry runs each call in its own logical session
type Registry struct {
	collection *mongo.Collection
	logger     *logging.SafeLogger
}

// New creates a registry over collection
func New(collection *mongo.Collection, logger *logging.SafeLogger) *Registry {
	return &Registry{
		collection: collection,
		logger:     logger,
	}
}

// Name identifies the registry in logs
func (r *Registry) Name() string {
	return "mongodb"
}

// Ping checks that the deployment is reachable
func (r *Registry) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, readpref.SecondaryPreferred())
}

// Open starts a logical session scoped to one call
func (r *Registry) Open(ctx context.Context) (search.Session, error) {
	sess, err := r.collection.Database().Client().StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return &session{
		session:    sess,
		collection: r.collection,
		logger:     r.logger,
	}, nil
}

// EnsureIndexes creates the indexes used by the search shapes
func (r *Registry) EnsureIndexes(ctx context.Context) error {
	// Index 1: state fast path, headquarters by state in legal-name order
	stateIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "matriz_filial.id", Value: 1},
			{Key: "endereco.uf", Value: 1},
			{Key: "razao_social", Value: 1},
			{Key: "cnpj", Value: 1},
		},
		Options: options.Index().SetName("idx_hq_state_company_name"),
	}

	// Index 2: general path sort
	companyNameIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "razao_social", Value: 1},
			{Key: "cnpj", Value: 1},
		},
		Options: options.Index().SetName("idx_company_name"),
	}

	// Index 3: industry code and segment filters
	cnaeIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "cnae_fiscal", Value: 1},
			{Key: "matriz_filial.id", Value: 1},
		},
		Options: options.Index().SetName("idx_cnae_hq"),
	}

	cnpjIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "cnpj", Value: 1}},
		Options: options.Index().SetName("idx_cnpj").SetUnique(true),
	}

	indexNames, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		stateIndex,
		companyNameIndex,
		cnaeIndex,
		cnpjIndex,
	})
	if err != nil {
		return fmt.Errorf("failed to create company indexes: %w", err)
	}

	r.logger.Info("created company indexes successfully",
		zap.Strings("index_names", indexNames),
		zap.String("collection", r.collection.Name()))
	return nil
}

type session struct {
	session    mongo.Session
	collection *mongo.Collection
	logger     *logging.SafeLogger
}

func (s *session) Fetch(ctx context.Context, q search.Query) ([]models.CompanyRecord, error) {
	filter, err := RenderFilter(q)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrQuery, err)
	}

	findOptions := options.Find().
		SetSort(sortOrder).
		SetSkip(int64(q.Offset)).
		SetLimit(int64(q.Limit))
	if maxTime, ok := serverBudget(ctx); ok {
		findOptions.SetMaxTime(maxTime)
	}

	sessCtx := mongo.NewSessionContext(ctx, s.session)
	cursor, err := s.collection.Find(sessCtx, filter, findOptions)
	if err != nil {
		return nil, translateError(err)
	}
	defer cursor.Close(sessCtx)

	var docs []companyDocument
	if err := cursor.All(sessCtx, &docs); err != nil {
		return nil, translateError(err)
	}

	records := make([]models.CompanyRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, doc.record())
	}
	return records, nil
}

func (s *session) Count(ctx context.Context, q search.Query) (int64, error) {
	filter, err := RenderFilter(q)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", models.ErrQuery, err)
	}

	countOptions := options.Count()
	if maxTime, ok := serverBudget(ctx); ok {
		countOptions.SetMaxTime(maxTime)
	}

	total, err := s.collection.CountDocuments(mongo.NewSessionContext(ctx, s.session), filter, countOptions)
	if err != nil {
		return 0, translateError(err)
	}
	return total, nil
}

func (s *session) Close(ctx context.Context) error {
	s.session.EndSession(ctx)
	return nil
}

// serverBudget derives maxTimeMS from the context deadline so the server
// aborts the operation itself
func serverBudget(ctx context.Context) (time.Duration, bool) {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0, false
	}
	remaining := time.Until(deadline)
	if remaining < time.Millisecond {
		remaining = time.Millisecond
	}
	return remaining, true
}

func translateError(err error) error {
	if mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", models.ErrTimeout, err)
	}
	return err
}
