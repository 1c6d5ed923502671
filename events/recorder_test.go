package events

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makerfolio/makerfolio-go/analytics"
	"github.com/makerfolio/makerfolio-go/cache"
	"github.com/makerfolio/makerfolio-go/models"
	"github.com/makerfolio/makerfolio-go/store"
)

var summaryColumns = []string{"total_counts", "unique_actors", "unique_counts", "daily_series", "last_updated"}

func newTestRecorder(t *testing.T) (*Recorder, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	database := &store.Database{Conn: db}
	aggregator := analytics.NewAggregator(store.NewSummaryRepository(db), cache.NewManager())
	return NewRecorder(database, aggregator), mock
}

// expectAggregateUpdate covers the summary read-modify-write triggered after
// every successful insert
func expectAggregateUpdate(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT total_counts, unique_actors, unique_counts, daily_series, last_updated`)).
		WillReturnRows(sqlmock.NewRows(summaryColumns))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO aggregate_summaries`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestRecordViewDedupReturnsExistingEvent(t *testing.T) {
	recorder, mock := newTestRecorder(t)

	actor := &models.ActorRef{ID: "amy", Info: models.ActorInfo{DisplayName: "Amy"}}

	// A view inside the window resolves to the prior event; nothing is
	// inserted and no counters move.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM events`)).
		WithArgs("amy", "item-1", models.EntityContentItem, models.KindView, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("evt-existing"))

	eventID, err := recorder.RecordView(context.Background(), "item-1", models.EntityContentItem, actor, nil)
	require.NoError(t, err)
	assert.Equal(t, "evt-existing", eventID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordViewOutsideWindowInsertsNewEvent(t *testing.T) {
	recorder, mock := newTestRecorder(t)

	actor := &models.ActorRef{ID: "amy", Info: models.ActorInfo{DisplayName: "Amy"}}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM events`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO events`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE content_items SET view_count = view_count + 1`)).
		WithArgs("item-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectAggregateUpdate(mock)

	eventID, err := recorder.RecordView(context.Background(), "item-1", models.EntityContentItem, actor, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, eventID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordViewAnonymousSkipsDedup(t *testing.T) {
	recorder, mock := newTestRecorder(t)

	// No dedup lookup is issued for anonymous views; each one counts
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO events`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE content_items SET view_count = view_count + 1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectAggregateUpdate(mock)

	eventID, err := recorder.RecordView(context.Background(), "item-1", models.EntityContentItem, nil, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, eventID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordViewProfileSkipsViewCounter(t *testing.T) {
	recorder, mock := newTestRecorder(t)

	// Profiles carry no denormalized view counter; no content_items update
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO events`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectAggregateUpdate(mock)

	_, err := recorder.RecordView(context.Background(), "maker-9", models.EntityProfile, nil, nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordViewRejectsUnknownEntityType(t *testing.T) {
	recorder, _ := newTestRecorder(t)

	_, err := recorder.RecordView(context.Background(), "x", "workspace", nil, nil)
	assert.Error(t, err)
}

func TestRecordInteractionRequiresActor(t *testing.T) {
	recorder, _ := newTestRecorder(t)

	_, err := recorder.RecordInteraction(context.Background(), "item-1", models.EntityContentItem, models.KindLike, nil, nil, nil)
	assert.Error(t, err)
}

func TestRecordInteractionRejectsUnknownKind(t *testing.T) {
	recorder, _ := newTestRecorder(t)

	actor := &models.ActorRef{ID: "amy"}
	_, err := recorder.RecordInteraction(context.Background(), "item-1", models.EntityContentItem, "bookmark", actor, nil, nil)
	assert.Error(t, err)
}

func TestRecordInteractionRoutesViewsThroughDedup(t *testing.T) {
	recorder, mock := newTestRecorder(t)

	actor := &models.ActorRef{ID: "amy"}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM events`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("evt-existing"))

	eventID, err := recorder.RecordInteraction(context.Background(), "item-1", models.EntityContentItem, models.KindView, actor, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "evt-existing", eventID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordInteractionInsertsAndAggregates(t *testing.T) {
	recorder, mock := newTestRecorder(t)

	actor := &models.ActorRef{ID: "amy", Info: models.ActorInfo{DisplayName: "Amy"}}
	comment := "nice build"

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO events`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectAggregateUpdate(mock)

	eventID, err := recorder.RecordInteraction(context.Background(), "item-1", models.EntityContentItem, models.KindComment, actor, &comment, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, eventID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
