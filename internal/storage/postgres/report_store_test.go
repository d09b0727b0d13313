package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/blogrank/blogrank/internal/blog"
)

func sampleReport() *blog.Report {
	return &blog.Report{
		ID:          "report-1",
		BlogID:      "myblog",
		TotalPosts:  2,
		BlogRank:    "A",
		TrafficRank: "A등급 (높음)",
		AnalyzedAt:  time.Date(2026, 8, 30, 14, 5, 6, 0, time.UTC),
	}
}

func TestStoreReport(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	store, err := NewReportStoreWithPool(mockPool, "reports")
	require.NoError(t, err)

	r := sampleReport()
	mockPool.ExpectExec("INSERT INTO reports").
		WithArgs(r.ID, r.BlogID, r.BlogRank, r.TrafficRank, r.TotalPosts, pgxmock.AnyArg(), r.AnalyzedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.StoreReport(context.Background(), r))
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestStoreReportInsertFailure(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	store, err := NewReportStoreWithPool(mockPool, "reports")
	require.NoError(t, err)

	mockPool.ExpectExec("INSERT INTO reports").
		WillReturnError(context.DeadlineExceeded)

	err = store.StoreReport(context.Background(), sampleReport())
	require.ErrorContains(t, err, "insert report")
}

func TestStoreReportValidation(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	store, err := NewReportStoreWithPool(mockPool, "")
	require.NoError(t, err)
	require.Equal(t, "reports", store.table)

	require.Error(t, store.StoreReport(context.Background(), nil))
	require.Error(t, store.StoreReport(context.Background(), &blog.Report{}))
}

func TestNewReportStoreWithPoolRejectsBadTable(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	_, err = NewReportStoreWithPool(mockPool, "reports; drop table users")
	require.Error(t, err)

	_, err = NewReportStoreWithPool(nil, "reports")
	require.Error(t, err)
}
