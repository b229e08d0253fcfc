package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"channel-insights/domain/dto"
	"channel-insights/domain/model"
	"channel-insights/domain/repository"
	"channel-insights/infrastructure/logger"

	"github.com/google/uuid"
)

// ICollector produces the raw table for one run
type ICollector interface {
	Collect(ctx context.Context) (*model.RawVideoTable, error)
	LastRun() CollectRun
}

// IETLUsecase runs collect, transform and persist as one job
type IETLUsecase interface {
	Run(ctx context.Context) (*dto.CollectReport, error)
}

type ETLConfig struct {
	// FailOnPartial stops the run before persisting when collection ended early
	FailOnPartial bool
	Now           func() time.Time
	NewRunID      func() string
}

// ETLUsecase persists the dataset and then fans out to optional sinks and publishers.
// Sink and publisher failures are logged and never undo the persisted file.
type ETLUsecase struct {
	cfg        ETLConfig
	collector  ICollector
	store      repository.IDatasetStore
	sinks      []repository.IVideoSink
	publishers []repository.IEventPublisher
}

func NewETLUsecase(cfg ETLConfig, collector ICollector, store repository.IDatasetStore) *ETLUsecase {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewRunID == nil {
		cfg.NewRunID = uuid.NewString
	}
	return &ETLUsecase{cfg: cfg, collector: collector, store: store}
}

// WithSinks adds export targets (fluent)
func (u *ETLUsecase) WithSinks(sinks ...repository.IVideoSink) *ETLUsecase {
	u.sinks = append(u.sinks, sinks...)
	return u
}

// WithPublishers adds completion event targets (fluent)
func (u *ETLUsecase) WithPublishers(publishers ...repository.IEventPublisher) *ETLUsecase {
	u.publishers = append(u.publishers, publishers...)
	return u
}

func (u *ETLUsecase) Run(ctx context.Context) (*dto.CollectReport, error) {
	runID := u.cfg.NewRunID()
	log := logger.GetLogger().WithField("runId", runID)
	report := &dto.CollectReport{RunID: runID, Path: u.store.Path()}

	raw, collectErr := u.collector.Collect(ctx)
	stats := u.collector.LastRun()
	report.Pages = stats.Pages
	report.Skipped = stats.Skipped
	if collectErr != nil {
		report.Partial = true
		log.WithFields(map[string]interface{}{
			"error": collectErr,
			"rows":  raw.Len(),
		}).Warn("Collection ended early")
		if u.cfg.FailOnPartial || errors.Is(collectErr, context.Canceled) {
			return report, fmt.Errorf("collection incomplete: %w", collectErr)
		}
	}
	if raw == nil {
		raw = &model.RawVideoTable{}
	}
	raw.RunID = runID

	table, err := Transform(raw)
	if err != nil {
		log.WithField("error", err).Error("Transform failed, nothing persisted")
		return report, err
	}
	report.Rows = table.Len()

	if err := u.store.Save(ctx, table); err != nil {
		log.WithField("error", err).Error("Failed to persist dataset")
		return report, err
	}

	for _, sink := range u.sinks {
		n, err := sink.Export(ctx, table)
		if err != nil {
			log.WithFields(map[string]interface{}{"sink": sink.Name(), "error": err}).Warn("Export failed")
			continue
		}
		report.Exported += n
		log.WithFields(map[string]interface{}{"sink": sink.Name(), "rows": n}).Info("Dataset exported")
	}

	if len(u.publishers) > 0 {
		event := &dto.DatasetPublishedEvent{
			RunID:       runID,
			ChannelID:   table.ChannelID,
			Path:        u.store.Path(),
			Rows:        table.Len(),
			Partial:     report.Partial,
			CollectedAt: table.CollectedAt,
			PersistedAt: u.cfg.Now().UTC(),
		}
		for _, p := range u.publishers {
			if err := p.Publish(ctx, event); err != nil {
				log.WithFields(map[string]interface{}{"publisher": p.Name(), "error": err}).Warn("Publish failed")
				continue
			}
			report.Published = true
		}
	}

	log.WithFields(map[string]interface{}{
		"rows":    report.Rows,
		"pages":   report.Pages,
		"partial": report.Partial,
		"path":    report.Path,
	}).Info("Dataset written")
	return report, nil
}
