package bitbaby

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/etnz/bitbaby/date"
)

// DefaultDebounce is the delay between the last mutation and the save it triggers.
const DefaultDebounce = 500 * time.Millisecond

// Timer is a scheduled call that can be cancelled.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func stdAfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Session owns a ledger for the time it is edited.
//
// Every mutation goes through the session, which keeps the totals current and
// schedules a debounced save: mutations within the debounce window collapse
// into a single write of the latest state.
type Session struct {
	mu        sync.Mutex
	ledger    *Ledger
	totals    Totals
	recovered bool

	store  Store
	key    string
	window time.Duration
	after  AfterFunc
	now    func() time.Time
	log    zerolog.Logger

	// save state
	wmu     sync.Mutex // serializes writes to the store
	timer   Timer
	gen     uint64
	pending bool
	saveErr error
}

// Option configures a Session.
type Option func(*Session)

// WithKey sets the storage key, DefaultKey otherwise.
func WithKey(key string) Option { return func(s *Session) { s.key = key } }

// WithDebounce sets the debounce window, DefaultDebounce otherwise.
func WithDebounce(d time.Duration) Option { return func(s *Session) { s.window = d } }

// WithLogger sets the session logger. Sessions are silent by default.
func WithLogger(l zerolog.Logger) Option { return func(s *Session) { s.log = l } }

// WithClock sets the source of the current time.
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// WithAfterFunc replaces the scheduler used for debounced saves.
func WithAfterFunc(f AfterFunc) Option { return func(s *Session) { s.after = f } }

// Open loads the ledger from store and returns a session editing it.
//
// When the store holds nothing, the session starts on the demo rows. When it
// holds data that cannot be decoded, the data is copied aside under
// "<key>.corrupt", the session starts on the demo rows and Recovered reports
// true. An empty trade date is set to today.
func Open(ctx context.Context, store Store, opts ...Option) (*Session, error) {
	s := &Session{
		store:  store,
		key:    DefaultKey,
		window: DefaultDebounce,
		after:  stdAfterFunc,
		now:    time.Now,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := store.Get(ctx, s.key)
	switch {
	case errors.Is(err, ErrNotFound):
		s.log.Info().Str("key", s.key).Msg("no saved ledger, starting from demo rows")
		s.ledger = NewDemoLedger()
	case err != nil:
		return nil, fmt.Errorf("could not load ledger %q: %w", s.key, err)
	default:
		s.ledger, err = DecodeLedger(bytes.NewReader(data))
		if err != nil {
			s.log.Warn().Err(err).Str("key", s.key).Msg("saved ledger is unreadable, starting from demo rows")
			if perr := store.Put(ctx, s.key+".corrupt", data); perr != nil {
				s.log.Error().Err(perr).Msg("could not keep a copy of the unreadable ledger")
			}
			s.ledger = NewDemoLedger()
			s.recovered = true
		}
	}
	if s.ledger.Date() == "" {
		s.ledger.SetDate(date.Of(s.now()).String())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.totals = Aggregate(s.ledger.Rows())
	s.scheduleLocked()
	return s, nil
}

// Recovered reports whether the saved ledger was unreadable and replaced by the demo rows.
func (s *Session) Recovered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recovered
}

// Ledger returns a detached copy of the current ledger.
func (s *Session) Ledger() *Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clone()
}

// Totals returns the current fee totals.
func (s *Session) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals
}

// Snapshot returns a point in time projection of the ledger.
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TakeSnapshot(s.ledger)
}

// RowID returns the ID of the i-th row, starting at 1 as displayed.
func (s *Session) RowID(i int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.ledger.RowAt(i - 1)
	if err != nil {
		return "", err
	}
	return r.ID, nil
}

// AddRow appends an empty row and returns its ID.
func (s *Session) AddRow() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.ledger.AddRow()
	s.totals = Aggregate(s.ledger.Rows())
	s.scheduleLocked()
	return r.ID
}

// DeleteRow removes the row with this id.
func (s *Session) DeleteRow(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.DeleteRow(id); err != nil {
		return err
	}
	s.totals = Aggregate(s.ledger.Rows())
	s.scheduleLocked()
	return nil
}

// Edit writes value into a field of the row with this id.
func (s *Session) Edit(id string, field Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	effect, err := s.ledger.Edit(id, field, value)
	if err != nil {
		return err
	}
	switch effect {
	case EffectTotals:
		s.totals = Aggregate(s.ledger.Rows())
	case EffectStatus:
		s.log.Debug().Str("row", id).Str("status", value).Msg("status changed")
	}
	s.scheduleLocked()
	return nil
}

// SetDate sets the trade date.
func (s *Session) SetDate(d string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.SetDate(d)
	s.scheduleLocked()
}

// Reset replaces all rows with the demo rows once confirm agrees.
// It reports whether the reset happened; a declined reset changes nothing.
func (s *Session) Reset(confirm func() bool) bool {
	if confirm == nil || !confirm() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.ResetToDemo()
	s.totals = Aggregate(s.ledger.Rows())
	s.scheduleLocked()
	s.log.Info().Msg("ledger reset to demo rows")
	return true
}

// Pending reports whether a save is scheduled but not yet written.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// scheduleLocked re-arms the save timer, replacing any pending one.
func (s *Session) scheduleLocked() {
	s.pending = true
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
	}
	gen := s.gen
	s.timer = s.after(s.window, func() { s.fire(gen) })
}

// fire runs the save scheduled as generation gen, unless it was superseded.
func (s *Session) fire(gen uint64) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	s.mu.Lock()
	if !s.pending || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	data, err := s.encodeLocked()
	s.pending = false
	s.mu.Unlock()

	if err == nil {
		err = s.store.Put(context.Background(), s.key, data)
	}
	if err != nil {
		s.log.Error().Err(err).Str("key", s.key).Msg("auto-save failed")
		s.mu.Lock()
		s.saveErr = err
		s.mu.Unlock()
		return
	}
	s.log.Debug().Str("key", s.key).Int("bytes", len(data)).Msg("auto-saved")
}

// Flush writes any pending save now. It also returns the error of a failed
// background save, if any happened since the last Flush.
func (s *Session) Flush(ctx context.Context) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	saveErr := s.saveErr
	s.saveErr = nil
	if !s.pending {
		s.mu.Unlock()
		return saveErr
	}
	data, err := s.encodeLocked()
	s.pending = false
	s.mu.Unlock()

	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("could not save ledger %q: %w", s.key, err)
	}
	s.log.Debug().Str("key", s.key).Int("bytes", len(data)).Msg("saved")
	return nil
}

// Close flushes any pending save.
func (s *Session) Close(ctx context.Context) error { return s.Flush(ctx) }

func (s *Session) encodeLocked() ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeLedger(&buf, s.ledger); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportCSV writes the ledger as CSV into dir and returns the file path.
func (s *Session) ExportCSV(dir string) (string, error) {
	var buf bytes.Buffer
	s.mu.Lock()
	err := EncodeCSV(&buf, s.ledger)
	s.mu.Unlock()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, CSVFilename)
	if err := WriteFileAtomic(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

// ExportPNG renders a snapshot of the ledger with r into dir and returns the file path.
//
// The snapshot is taken before rendering starts, so edits made while r runs
// are not part of the image. No file is created when rendering fails.
func (s *Session) ExportPNG(ctx context.Context, r Rasterizer, dir string) (string, error) {
	if r == nil {
		return "", ErrNoRasterizer
	}
	snap := s.Snapshot()

	var buf bytes.Buffer
	if err := r.Rasterize(ctx, snap, &buf); err != nil {
		return "", fmt.Errorf("could not render snapshot: %w", err)
	}
	path := filepath.Join(dir, PNGFilename(s.now()))
	if err := WriteFileAtomic(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}
