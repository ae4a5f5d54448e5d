// Package provision creates the collections, indexes and seed documents the bots expect.
// Every step is idempotent; running it against a provisioned database changes nothing.
package provision

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "zoolbot-admin/internal/common/errors"
	"zoolbot-admin/internal/common/logger"
	"zoolbot-admin/internal/domain/settings"
	"zoolbot-admin/internal/domain/task"
	"zoolbot-admin/internal/platform/mongodb"
)

// Store is the subset of the document store the provisioner needs.
type Store interface {
	Ping(ctx context.Context) error
	CollectionNames(ctx context.Context) ([]string, error)
	CreateCollection(ctx context.Context, name string) error
	IndexNames(ctx context.Context, collection string) ([]string, error)
	// CreateIndex returns an error wrapping mongodb.ErrIndexExists when a conflicting index
	// is already there. Creating an identical index succeeds without changes.
	CreateIndex(ctx context.Context, spec mongodb.IndexSpec) error
	Count(ctx context.Context, collection string) (int64, error)
	InsertOne(ctx context.Context, collection string, doc interface{}) error
	InsertMany(ctx context.Context, collection string, docs []interface{}) error
}

// Indexes is the index set required by the schema.
func Indexes() []mongodb.IndexSpec {
	single := func(coll, field string, unique bool) mongodb.IndexSpec {
		return mongodb.IndexSpec{Collection: coll, Keys: []mongodb.IndexKey{{Field: field}}, Unique: unique}
	}
	return []mongodb.IndexSpec{
		single(mongodb.CollectionUsers, "telegram_id", true),
		single(mongodb.CollectionUsers, "referrer_id", false),
		single(mongodb.CollectionUsers, "created_at", false),
		single(mongodb.CollectionUsers, "last_active", false),
		single(mongodb.CollectionTasks, "is_active", false),
		single(mongodb.CollectionTasks, "created_at", false),
		{
			Collection: mongodb.CollectionUserTasks,
			Keys:       []mongodb.IndexKey{{Field: "user_id"}, {Field: "task_id"}},
			Unique:     true,
		},
		{
			Collection: mongodb.CollectionTransactions,
			Keys:       []mongodb.IndexKey{{Field: "user_id"}, {Field: "created_at", Desc: true}},
		},
		single(mongodb.CollectionTransactions, "type", false),
		single(mongodb.CollectionMissions, "is_active", false),
	}
}

// Report summarises what a run changed.
type Report struct {
	CreatedCollections []string
	CreatedIndexes     []string
	ExistingIndexes    []string
	FailedIndexes      []string
	SettingsSeeded     bool
	TasksSeeded        int
}

type Provisioner struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Provisioner {
	return &Provisioner{store: store, now: time.Now}
}

// WithClock overrides the timestamp source for seeded documents.
func (p *Provisioner) WithClock(now func() time.Time) *Provisioner {
	p.now = now
	return p
}

// Run provisions the database. Connectivity, collection and seed failures abort the run;
// index failures other than "already exists" are logged and skipped.
func (p *Provisioner) Run(ctx context.Context) (*Report, error) {
	if err := p.store.Ping(ctx); err != nil {
		return nil, apperrors.NewConnectionError("mongodb", err)
	}
	logger.Info().Msg("✅ MongoDB connection OK")

	report := &Report{}
	if err := p.ensureCollections(ctx, report); err != nil {
		return report, err
	}
	p.ensureIndexes(ctx, report)
	if err := p.seedSettings(ctx, report); err != nil {
		return report, err
	}
	if err := p.seedTasks(ctx, report); err != nil {
		return report, err
	}

	logger.Info().
		Int("collections_created", len(report.CreatedCollections)).
		Int("indexes_created", len(report.CreatedIndexes)).
		Int("indexes_failed", len(report.FailedIndexes)).
		Bool("settings_seeded", report.SettingsSeeded).
		Int("tasks_seeded", report.TasksSeeded).
		Msg("🎉 Database provisioned")
	return report, nil
}

// EnsureIndexes creates the index set only. The admin bot calls it on startup.
func (p *Provisioner) EnsureIndexes(ctx context.Context) *Report {
	report := &Report{}
	p.ensureIndexes(ctx, report)
	return report
}

func (p *Provisioner) ensureCollections(ctx context.Context, report *Report) error {
	names, err := p.store.CollectionNames(ctx)
	if err != nil {
		return apperrors.NewDatabaseError("list collections", err)
	}
	existing := make(map[string]struct{}, len(names))
	for _, n := range names {
		existing[n] = struct{}{}
	}
	for _, name := range mongodb.Collections() {
		if _, ok := existing[name]; ok {
			continue
		}
		if err := p.store.CreateCollection(ctx, name); err != nil {
			return apperrors.NewDatabaseError("create collection "+name, err)
		}
		report.CreatedCollections = append(report.CreatedCollections, name)
		logger.Info().Str("collection", name).Msg("✅ Collection created")
	}
	return nil
}

// ensureIndexes lists existing names first, since the server accepts an identical
// createIndexes call as a no-op and would not tell it apart from a new index.
func (p *Provisioner) ensureIndexes(ctx context.Context, report *Report) {
	existing := make(map[string]map[string]bool)
	for _, spec := range Indexes() {
		label := fmt.Sprintf("%s.%s", spec.Collection, spec.Name())

		names, ok := existing[spec.Collection]
		if !ok {
			names = make(map[string]bool)
			list, err := p.store.IndexNames(ctx, spec.Collection)
			if err != nil {
				logger.Warn().Err(err).Str("collection", spec.Collection).Msg("Could not list indexes")
			}
			for _, n := range list {
				names[n] = true
			}
			existing[spec.Collection] = names
		}
		if names[spec.Name()] {
			report.ExistingIndexes = append(report.ExistingIndexes, label)
			logger.Info().Str("index", label).Msg("ℹ️ Index already exists")
			continue
		}

		err := p.store.CreateIndex(ctx, spec)
		switch {
		case err == nil:
			report.CreatedIndexes = append(report.CreatedIndexes, label)
			logger.Info().Str("index", label).Msg("✅ Index created")
		case errors.Is(err, mongodb.ErrIndexExists):
			report.ExistingIndexes = append(report.ExistingIndexes, label)
			logger.Info().Str("index", label).Msg("ℹ️ Index already exists")
		default:
			report.FailedIndexes = append(report.FailedIndexes, label)
			logger.Warn().Err(err).Str("index", label).Msg("⚠️ Index creation failed, continuing")
		}
	}
}

func (p *Provisioner) seedSettings(ctx context.Context, report *Report) error {
	n, err := p.store.Count(ctx, mongodb.CollectionSettings)
	if err != nil {
		return apperrors.NewDatabaseError("count settings", err)
	}
	if n > 0 {
		return nil
	}
	if err := p.store.InsertOne(ctx, mongodb.CollectionSettings, settings.Default(p.now())); err != nil {
		return apperrors.NewDatabaseError("insert default settings", err)
	}
	report.SettingsSeeded = true
	logger.Info().Msg("✅ Default settings inserted")
	return nil
}

func (p *Provisioner) seedTasks(ctx context.Context, report *Report) error {
	n, err := p.store.Count(ctx, mongodb.CollectionTasks)
	if err != nil {
		return apperrors.NewDatabaseError("count tasks", err)
	}
	if n > 0 {
		return nil
	}
	samples := task.Samples(p.now())
	docs := make([]interface{}, 0, len(samples))
	for i := range samples {
		docs = append(docs, samples[i])
	}
	if err := p.store.InsertMany(ctx, mongodb.CollectionTasks, docs); err != nil {
		return apperrors.NewDatabaseError("insert sample tasks", err)
	}
	report.TasksSeeded = len(docs)
	logger.Info().Int("count", len(docs)).Msg("✅ Sample tasks inserted")
	return nil
}
