package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Sistem-Absensi-RFID/pkg/apperror"
)

func newScanner(t *testing.T, clock *fixedClock) (ScanService, *mockStore, *recordingQueue) {
	t.Helper()
	store := newMockStore()
	queue := &recordingQueue{}
	logger := zap.NewNop()
	directory := NewDirectoryService(store.repo, logger)
	ledger := NewAttendanceService(store.repo, ist, clock.Now, logger)
	return NewScanService(directory, ledger, queue, clock.Now, logger), store, queue
}

func TestHandleScanUnknownCard(t *testing.T) {
	svc, store, queue := newScanner(t, newFixedClock(time.Now()))
	org := store.seedOrg("Acme", "hr@acme.test")
	store.seedEmployee(org, "E-01", "Asha", "aa11")

	out, err := svc.HandleScan(context.Background(), "ffff")
	require.NoError(t, err)
	require.Equal(t, ScanUnknownCard, out.Result)
	require.Nil(t, out.Record)
	require.Zero(t, store.attendance.count())
	require.Empty(t, queue.Events())
}

func TestHandleScanEmptyTag(t *testing.T) {
	svc, _, _ := newScanner(t, newFixedClock(time.Now()))

	_, err := svc.HandleScan(context.Background(), "  ")
	require.ErrorIs(t, err, apperror.ErrInvalidArgument)
}

func TestHandleScanCheckInThenCheckOut(t *testing.T) {
	clock := newFixedClock(time.Date(2024, 1, 2, 9, 0, 0, 0, ist))
	svc, store, queue := newScanner(t, clock)
	ctx := context.Background()
	org := store.seedOrg("Acme", "hr@acme.test")
	emp := store.seedEmployee(org, "E-01", "Asha Rao", "04a1b2c3")

	out, err := svc.HandleScan(ctx, "04A1B2C3")
	require.NoError(t, err)
	require.Equal(t, ScanCheckedIn, out.Result)
	require.True(t, out.Created)
	require.Equal(t, emp.ID, out.Employee.ID)
	require.Nil(t, out.Record.CheckOut)

	clock.Set(time.Date(2024, 1, 2, 17, 45, 0, 0, ist))
	out, err = svc.HandleScan(ctx, "04a1b2c3")
	require.NoError(t, err)
	require.Equal(t, ScanCheckedOut, out.Result)
	require.False(t, out.Created)
	require.True(t, out.Record.CheckIn.Equal(time.Date(2024, 1, 2, 9, 0, 0, 0, ist)))
	require.True(t, out.Record.CheckOut.Equal(time.Date(2024, 1, 2, 17, 45, 0, 0, ist)))

	events := queue.Events()
	require.Len(t, events, 2)
	require.Equal(t, "Asha Rao", events[0].EmployeeName)
	require.Equal(t, "E-01", events[0].EmployeeID)
	require.Equal(t, "hr@acme.test", events[0].OrganizationEmail)

	// next day starts a new record
	clock.Set(time.Date(2024, 1, 3, 9, 0, 0, 0, ist))
	out, err = svc.HandleScan(ctx, "04a1b2c3")
	require.NoError(t, err)
	require.Equal(t, ScanCheckedIn, out.Result)
	require.Equal(t, 2, store.attendance.count())
}

func TestHandleScanConcurrentScansKeepOneRecord(t *testing.T) {
	clock := newFixedClock(time.Date(2024, 1, 2, 9, 0, 0, 0, ist))
	svc, store, _ := newScanner(t, clock)
	org := store.seedOrg("Acme", "hr@acme.test")
	store.seedEmployee(org, "E-01", "Asha", "aa11")

	const scanners = 32
	var wg sync.WaitGroup
	results := make(chan ScanResult, scanners)
	errs := make(chan error, scanners)

	for i := 0; i < scanners; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := svc.HandleScan(context.Background(), "AA11")
			if err != nil {
				errs <- err
				return
			}
			results <- out.Result
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	checkIns := 0
	for r := range results {
		if r == ScanCheckedIn {
			checkIns++
		}
	}
	require.Equal(t, 1, checkIns)
	require.Equal(t, 1, store.attendance.count())
}
