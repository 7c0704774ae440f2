package bitbaby

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTimers records scheduled calls so that tests decide when they run.
type fakeTimers struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (ft *fakeTimers) AfterFunc(d time.Duration, f func()) Timer {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	ft.timers = append(ft.timers, t)
	return t
}

// fireAll runs every scheduled call, including the cancelled ones, the way a
// timer that already fired would race with Stop.
func (ft *fakeTimers) fireAll() {
	ft.mu.Lock()
	timers := append([]*fakeTimer(nil), ft.timers...)
	ft.mu.Unlock()
	for _, t := range timers {
		t.f()
	}
}

// active returns the scheduled calls that were not cancelled.
func (ft *fakeTimers) active() []*fakeTimer {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	var out []*fakeTimer
	for _, t := range ft.timers {
		if !t.stopped {
			out = append(out, t)
		}
	}
	return out
}

var fixedNow = time.Date(2025, time.August, 1, 10, 0, 0, 0, time.UTC)

func openTestSession(t *testing.T, store Store) (*Session, *fakeTimers) {
	t.Helper()
	ft := &fakeTimers{}
	s, err := Open(context.Background(), store,
		WithAfterFunc(ft.AfterFunc),
		WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, err)
	return s, ft
}

func storedLedger(t *testing.T, store Store) *Ledger {
	t.Helper()
	data, err := store.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	l, err := DecodeLedger(bytes.NewReader(data))
	require.NoError(t, err)
	return l
}

func TestOpen_EmptyStoreStartsOnDemo(t *testing.T) {
	store := &MemStore{}
	s, ft := openTestSession(t, store)

	l := s.Ledger()
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, "2025-08-01", l.Date())
	assert.False(t, s.Recovered())
	assert.Equal(t, Totals{L1: 14000, L2: 7000, L3: 3500}, s.Totals())

	// loading schedules a save of the demo rows.
	assert.True(t, s.Pending())
	ft.fireAll()
	assert.False(t, s.Pending())
	assert.Equal(t, 1, store.Puts())
	assert.Equal(t, 3, storedLedger(t, store).Len())
}

func TestOpen_LoadsSavedLedger(t *testing.T) {
	store := &MemStore{}
	payload := `{"date":"2024-05-06","rows":[{"pair":"BTC/USDT","amount":"100","status":"miss"}]}`
	require.NoError(t, store.Put(context.Background(), DefaultKey, []byte(payload)))

	s, _ := openTestSession(t, store)
	l := s.Ledger()
	assert.Equal(t, "2024-05-06", l.Date())
	_, rows := persisted(l)
	assert.Equal(t, [][4]string{{"BTC/USDT", "100", "", "miss"}}, rows)
	assert.Equal(t, Totals{L1: 200, L2: 100, L3: 50}, s.Totals())
}

func TestOpen_CorruptedStoreRecovers(t *testing.T) {
	store := &MemStore{}
	require.NoError(t, store.Put(context.Background(), DefaultKey, []byte(`{"rows":`)))

	s, _ := openTestSession(t, store)

	assert.True(t, s.Recovered())
	assert.Equal(t, 3, s.Ledger().Len())

	kept, err := store.Get(context.Background(), DefaultKey+".corrupt")
	require.NoError(t, err)
	assert.Equal(t, `{"rows":`, string(kept))
}

type failingStore struct{}

var errDiskFull = errors.New("disk full")

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, errDiskFull }
func (failingStore) Put(context.Context, string, []byte) error   { return errDiskFull }

func TestOpen_StoreErrorFails(t *testing.T) {
	_, err := Open(context.Background(), failingStore{})
	assert.ErrorIs(t, err, errDiskFull)
}

func TestSession_DebounceCollapsesWrites(t *testing.T) {
	store := &MemStore{}
	s, ft := openTestSession(t, store)

	id := s.AddRow()
	require.NoError(t, s.Edit(id, FieldPair, "BTC/USDT"))
	require.NoError(t, s.Edit(id, FieldAmount, "1"))
	require.NoError(t, s.Edit(id, FieldAmount, "10000"))

	// each mutation replaced the pending save.
	active := ft.active()
	require.Len(t, active, 1)
	assert.Equal(t, DefaultDebounce, active[0].d)
	assert.Equal(t, 0, store.Puts())

	ft.fireAll()
	assert.Equal(t, 1, store.Puts(), "superseded saves must not write")

	l := storedLedger(t, store)
	r, err := l.RowAt(3)
	require.NoError(t, err)
	assert.Equal(t, "BTC/USDT", r.Pair)
	assert.Equal(t, "10000", r.Amount(), "last write wins")
}

func TestSession_Totals(t *testing.T) {
	s, _ := openTestSession(t, &MemStore{})

	id := s.AddRow()
	require.NoError(t, s.Edit(id, FieldAmount, "10000"))
	assert.Equal(t, Totals{L1: 34000, L2: 17000, L3: 8500}, s.Totals())

	require.NoError(t, s.Edit(id, FieldProfit, "99"))
	assert.Equal(t, Totals{L1: 34000, L2: 17000, L3: 8500}, s.Totals())

	require.NoError(t, s.DeleteRow(id))
	assert.Equal(t, Totals{L1: 14000, L2: 7000, L3: 3500}, s.Totals())

	assert.ErrorIs(t, s.Edit(id, FieldPair, "x"), ErrRowNotFound)
	assert.ErrorIs(t, s.DeleteRow(id), ErrRowNotFound)
}

func TestSession_DeleteAllRows(t *testing.T) {
	s, _ := openTestSession(t, &MemStore{})
	for s.Ledger().Len() > 0 {
		id, err := s.RowID(1)
		require.NoError(t, err)
		require.NoError(t, s.DeleteRow(id))
	}
	assert.Equal(t, [3]string{"0.00 U", "0.00 U", "0.00 U"}, s.Totals().Labels())

	_, err := s.RowID(1)
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestSession_Reset(t *testing.T) {
	store := &MemStore{}
	s, ft := openTestSession(t, store)
	ft.fireAll()
	id := s.AddRow()
	require.NoError(t, s.Edit(id, FieldAmount, "5"))

	assert.False(t, s.Reset(func() bool { return false }))
	assert.False(t, s.Reset(nil))
	assert.Equal(t, 4, s.Ledger().Len(), "declined reset leaves state untouched")

	assert.True(t, s.Reset(func() bool { return true }))
	assert.Equal(t, 3, s.Ledger().Len())
	assert.Equal(t, Totals{L1: 14000, L2: 7000, L3: 3500}, s.Totals())
}

func TestSession_FlushAndClose(t *testing.T) {
	store := &MemStore{}
	s, ft := openTestSession(t, store)
	s.SetDate("2025-09-09")

	require.NoError(t, s.Flush(context.Background()))
	assert.False(t, s.Pending())
	assert.Empty(t, ft.active())
	assert.Equal(t, "2025-09-09", storedLedger(t, store).Date())

	// a stale timer firing after the flush does not write again.
	ft.fireAll()
	assert.Equal(t, 1, store.Puts())

	// nothing pending: close does not write.
	require.NoError(t, s.Close(context.Background()))
	assert.Equal(t, 1, store.Puts())
}

type putFailStore struct{ MemStore }

func (*putFailStore) Put(context.Context, string, []byte) error { return errDiskFull }

func TestSession_BackgroundSaveErrorSurfacesOnFlush(t *testing.T) {
	s, ft := openTestSession(t, &putFailStore{})
	ft.fireAll()

	err := s.Flush(context.Background())
	assert.ErrorIs(t, err, errDiskFull)
	assert.NoError(t, s.Flush(context.Background()))
}

func TestSession_RealTimer(t *testing.T) {
	store := &MemStore{}
	s, err := Open(context.Background(), store, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)

	s.AddRow()
	assert.Eventually(t, func() bool { return store.Puts() >= 1 && !s.Pending() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 4, storedLedger(t, store).Len())
}

func TestSession_ExportCSV(t *testing.T) {
	s, _ := openTestSession(t, &MemStore{})
	dir := t.TempDir()

	path, err := s.ExportCSV(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `Pair,Amount,L1,L2,L3,Profit,Status
ETH/USDT,5000,100.00,50.00,25.00,,hit
SOL/USDT,1200,24.00,12.00,6.00,,over
DOGE/USDT,800,16.00,8.00,4.00,,miss
`, string(data))
}

type stubRasterizer struct {
	got  *Snapshot
	err  error
	hook func()
}

func (r *stubRasterizer) Rasterize(_ context.Context, s *Snapshot, w io.Writer) error {
	r.got = s
	if r.hook != nil {
		r.hook()
	}
	if r.err != nil {
		return r.err
	}
	_, err := w.Write([]byte("png"))
	return err
}

func TestSession_ExportPNG(t *testing.T) {
	s, _ := openTestSession(t, &MemStore{})
	dir := t.TempDir()

	r := &stubRasterizer{}
	// an edit during rendering is not part of the image.
	r.hook = func() { s.AddRow() }

	path, err := s.ExportPNG(context.Background(), r, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, PNGFilename(fixedNow)), path)
	assert.Len(t, r.got.Rows, 3)
	assert.Equal(t, 4, s.Ledger().Len())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}

func TestSession_ExportPNG_Failures(t *testing.T) {
	s, _ := openTestSession(t, &MemStore{})
	dir := t.TempDir()

	_, err := s.ExportPNG(context.Background(), nil, dir)
	assert.ErrorIs(t, err, ErrNoRasterizer)

	_, err = s.ExportPNG(context.Background(), &stubRasterizer{err: errDiskFull}, dir)
	assert.ErrorIs(t, err, errDiskFull)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no partial file")
}
