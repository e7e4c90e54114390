package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"treecare-system/internal/entities"
)

func newReportService(t *testing.T, snap *entities.Snapshot) ReportServiceInterface {
	t.Helper()
	cache := newMemoryCache()
	putVersionedCache(t, cache, snap, snapshotSchemaVersion)
	o := NewDataOrchestrator(nil, cache, zap.NewNop())
	return NewReportService(o, zap.NewNop())
}

func TestGetReport_StatusAndZoneFilter(t *testing.T) {
	snap := makeSnapshot(1, 2, 3)
	snap.Tickets[0].Status = entities.StatusCompleted
	snap.Tickets[1].Zone = "north"
	svc := newReportService(t, snap)

	items, total, err := svc.GetReport(context.Background(), ReportFilter{Status: entities.StatusCompleted})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, uint64(1), items[0].ID)

	items, _, err = svc.GetReport(context.Background(), ReportFilter{Zone: "park"})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestGetReport_PeriodFilter(t *testing.T) {
	snap := makeSnapshot(1, 2, 3, 4)
	snap.Tickets[0].Date = "2026-02-01 09:00"
	snap.Tickets[1].Date = "2026-03-05 12:00"
	snap.Tickets[2].Date = "2026-04-20 15:30"
	snap.Tickets[3].Date = "вчера" // нечитаемая дата
	svc := newReportService(t, snap)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 23, 59, 0, 0, time.UTC)

	items, total, err := svc.GetReport(context.Background(), ReportFilter{DateFrom: &from, DateTo: &to})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, uint64(2), items[0].ID)
}

func TestGetReport_UnparseableDateExcludedOnlyFromPeriod(t *testing.T) {
	snap := makeSnapshot(1)
	snap.Tickets[0].Date = "не дата"
	svc := newReportService(t, snap)

	// Без фильтра по периоду заявка попадает в выгрузку.
	items, _, err := svc.GetReport(context.Background(), ReportFilter{})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	items, _, err = svc.GetReport(context.Background(), ReportFilter{DateFrom: &from})
	require.NoError(t, err)
	assert.Empty(t, items)
}
