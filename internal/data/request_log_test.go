package data

import (
	"context"
	"testing"
	"time"

	"CourtGate/internal/model"
	pkgerrors "CourtGate/pkg/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupRequestLogDB creates a test database connection with sqlmock
func setupRequestLogDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	cleanup := func() {
		sqlDB.Close()
	}

	return gormDB, mock, cleanup
}

func TestRequestAuditorRecordPersistsAsync(t *testing.T) {
	gormDB, mock, cleanup := setupRequestLogDB(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO `court_request_logs`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	auditor := NewRequestAuditor(&Data{db: gormDB}, log.DefaultLogger)
	auditor.Record(model.RequestSummary{
		Timestamp:      time.Now(),
		CourtSystem:    model.CourtSystemFederal,
		Jurisdiction:   "nysd",
		DataSource:     model.DataSourceFederal,
		Success:        true,
		ResponseTimeMS: 120,
		Confidence:     1.0,
	})

	assert.Eventually(t, func() bool {
		return mock.ExpectationsWereMet() == nil
	}, 2*time.Second, 10*time.Millisecond, "insert was not executed")
}

func TestRequestAuditorRecentRequests(t *testing.T) {
	gormDB, mock, cleanup := setupRequestLogDB(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "court_system", "jurisdiction", "success"}).
		AddRow(2, "federal", "nysd", true).
		AddRow(1, "state", "CA", false)
	mock.ExpectQuery("SELECT \\* FROM `court_request_logs`").
		WillReturnRows(rows)

	auditor := &RequestAuditorImpl{db: gormDB, logger: log.NewHelper(log.DefaultLogger)}
	recs, err := auditor.RecentRequests(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "federal", recs[0].CourtSystem)
	assert.False(t, recs[1].Success)
}

func TestRequestAuditorWithoutDatabase(t *testing.T) {
	auditor := NewRequestAuditor(&Data{}, log.DefaultLogger)

	// Record must not block or panic without a database.
	auditor.Record(model.RequestSummary{CourtSystem: model.CourtSystemFederal})

	_, err := auditor.RecentRequests(context.Background(), 10)
	assert.ErrorIs(t, err, pkgerrors.ErrDatabaseUnavailable)
}
