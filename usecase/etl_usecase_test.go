package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"channel-insights/domain/dto"
	"channel-insights/domain/model"
	"channel-insights/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func etlConfig(failOnPartial bool) usecase.ETLConfig {
	return usecase.ETLConfig{
		FailOnPartial: failOnPartial,
		Now:           func() time.Time { return fixedNow },
		NewRunID:      func() string { return "run-42" },
	}
}

func collectorReturning(raw *model.RawVideoTable, err error) *MockCollector {
	c := new(MockCollector)
	c.On("Collect", mock.Anything).Return(raw, err).Once()
	c.On("LastRun").Return(usecase.CollectRun{Pages: 2, Rows: raw.Len(), Skipped: 1})
	return c
}

func savedTable(runID string, rows int) interface{} {
	return mock.MatchedBy(func(t *model.VideoTable) bool {
		return t.RunID == runID && t.Len() == rows
	})
}

func TestETLUsecase_Run(t *testing.T) {
	raw := rawFixture()
	raw.RunID = ""
	collector := collectorReturning(raw, nil)

	store := new(MockDatasetStore)
	store.On("Save", mock.Anything, savedTable("run-42", 2)).Return(nil).Once()

	sink := new(MockVideoSink)
	sink.On("Export", mock.Anything, savedTable("run-42", 2)).Return(2, nil).Once()

	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e *dto.DatasetPublishedEvent) bool {
		return e.RunID == "run-42" && e.Rows == 2 && !e.Partial && e.ChannelID == "UC-test" && e.PersistedAt.Equal(fixedNow)
	})).Return(nil).Once()

	report, err := usecase.NewETLUsecase(etlConfig(false), collector, store).
		WithSinks(sink).
		WithPublishers(publisher).
		Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &dto.CollectReport{
		RunID:     "run-42",
		Pages:     2,
		Rows:      2,
		Skipped:   1,
		Path:      "data/videos_stats.bson",
		Exported:  2,
		Published: true,
	}, report)
	store.AssertExpectations(t)
	sink.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestETLUsecase_PartialTableIsPersisted(t *testing.T) {
	pageErr := &usecase.PageError{Page: 2, Err: &model.RemoteAPIError{Endpoint: "search", StatusCode: 403}}
	collector := collectorReturning(rawFixture(), pageErr)

	store := new(MockDatasetStore)
	store.On("Save", mock.Anything, savedTable("run-42", 2)).Return(nil).Once()

	report, err := usecase.NewETLUsecase(etlConfig(false), collector, store).Run(context.Background())

	require.NoError(t, err)
	assert.True(t, report.Partial)
	assert.Equal(t, 2, report.Rows)
	store.AssertExpectations(t)
}

func TestETLUsecase_FailOnPartial(t *testing.T) {
	pageErr := &usecase.PageError{Page: 2, Err: &model.RemoteAPIError{Endpoint: "search", StatusCode: 403}}
	collector := collectorReturning(rawFixture(), pageErr)
	store := new(MockDatasetStore)

	report, err := usecase.NewETLUsecase(etlConfig(true), collector, store).Run(context.Background())

	var got *usecase.PageError
	require.True(t, errors.As(err, &got))
	assert.True(t, report.Partial)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestETLUsecase_TransformFailureIsFatal(t *testing.T) {
	raw := rawFixture()
	raw.Rows[0].ViewsCount = "lots"
	collector := collectorReturning(raw, nil)
	store := new(MockDatasetStore)
	sink := new(MockVideoSink)

	_, err := usecase.NewETLUsecase(etlConfig(false), collector, store).WithSinks(sink).Run(context.Background())

	var convErr *model.TypeConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, "views_count", convErr.Column)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	sink.AssertNotCalled(t, "Export", mock.Anything, mock.Anything)
}

func TestETLUsecase_PersistenceFailure(t *testing.T) {
	collector := collectorReturning(rawFixture(), nil)
	store := new(MockDatasetStore)
	store.On("Save", mock.Anything, mock.Anything).
		Return(&model.PersistenceError{Path: "data/videos_stats.bson", Op: "commit", Err: assert.AnError}).Once()
	sink := new(MockVideoSink)
	publisher := new(MockEventPublisher)

	_, err := usecase.NewETLUsecase(etlConfig(false), collector, store).
		WithSinks(sink).
		WithPublishers(publisher).
		Run(context.Background())

	var persistErr *model.PersistenceError
	require.True(t, errors.As(err, &persistErr))
	sink.AssertNotCalled(t, "Export", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestETLUsecase_SideOutputFailuresAreWarnings(t *testing.T) {
	collector := collectorReturning(rawFixture(), nil)
	store := new(MockDatasetStore)
	store.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
	sink := new(MockVideoSink)
	sink.On("Export", mock.Anything, mock.Anything).Return(0, assert.AnError).Once()
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	report, err := usecase.NewETLUsecase(etlConfig(false), collector, store).
		WithSinks(sink).
		WithPublishers(publisher).
		Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, report.Exported)
	assert.False(t, report.Published)
	store.AssertExpectations(t)
}

func TestETLUsecase_CancelledCollectionIsNotPersisted(t *testing.T) {
	collector := collectorReturning(&model.RawVideoTable{}, &usecase.PageError{Page: 1, Err: context.Canceled})
	store := new(MockDatasetStore)

	_, err := usecase.NewETLUsecase(etlConfig(false), collector, store).Run(context.Background())

	assert.ErrorIs(t, err, context.Canceled)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
