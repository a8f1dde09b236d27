// Package circulation implements the checkout and check-in state machine on
// top of the book and history stores.
package circulation

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/blackwell-systems/libcat/internal/catalog"
	"github.com/blackwell-systems/libcat/internal/history"
)

// Action names a state transition.
type Action string

const (
	ActionCheckOut Action = "check_out"
	ActionCheckIn  Action = "check_in"
)

// Outcome describes a committed transition. The book record is always
// updated when an Outcome is returned with a nil error; the history side is
// best effort and reported separately.
type Outcome struct {
	BookID string
	Action Action
	At     time.Time
	// RecordID is the checkout record created or closed, if any.
	RecordID string
	// HistoryErr is set when the history store failed after the book was
	// updated.
	HistoryErr error
	// Warning wraps ErrHistoryInconsistency when check-in found no open record.
	Warning error
}

// Consistent reports whether both the book and its history were updated.
func (o Outcome) Consistent() bool {
	return o.HistoryErr == nil && o.Warning == nil
}

// Service orchestrates catalog operations. It is safe for concurrent use
// within one process: transitions on the same book are serialized.
type Service struct {
	books   catalog.Store
	history history.Store
	now     func() time.Time
	log     *zap.Logger
	locks   keyedMutex
}

// Option configures a Service.
type Option func(*Service)

// WithHistory enables checkout history. Without it transitions only touch
// the book store.
func WithHistory(h history.Store) Option {
	return func(s *Service) { s.history = h }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l.Named("circulation")
		}
	}
}

// New creates a Service over the given book store.
func New(books catalog.Store, opts ...Option) *Service {
	s := &Service{
		books: books,
		now:   time.Now,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HistoryEnabled reports whether a history store is configured.
func (s *Service) HistoryEnabled() bool {
	return s.history != nil
}

// CheckoutOption sets optional fields on the checkout record.
type CheckoutOption func(*history.Record)

// WithUser records who borrowed the book.
func WithUser(userID string) CheckoutOption {
	return func(r *history.Record) { r.UserID = strings.TrimSpace(userID) }
}

// WithNotes attaches free-form notes to the checkout record.
func WithNotes(notes string) CheckoutOption {
	return func(r *history.Record) { r.Notes = notes }
}

// transition checks that action is legal for b.
func transition(b catalog.Book, action Action) error {
	switch action {
	case ActionCheckOut:
		if !b.Available {
			return fmt.Errorf("%w: book %s is already checked out", ErrInvalidStateTransition, b.ID)
		}
	case ActionCheckIn:
		if b.Available {
			return fmt.Errorf("%w: book %s is not checked out", ErrInvalidStateTransition, b.ID)
		}
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidInput, action)
	}
	return nil
}

// CheckOut marks an available book as checked out and opens a checkout
// record. A non-nil error means nothing was changed.
func (s *Service) CheckOut(bookID string, opts ...CheckoutOption) (Outcome, error) {
	at, err := s.apply(bookID, ActionCheckOut)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{BookID: bookID, Action: ActionCheckOut, At: at}
	if s.history == nil {
		return out, nil
	}

	rec := history.NewRecord(bookID, at)
	for _, opt := range opts {
		opt(&rec)
	}
	ids, err := s.history.Add(rec)
	if err != nil {
		out.HistoryErr = err
		s.log.Warn("book checked out but history append failed", zap.String("book_id", bookID), zap.Error(err))
		return out, nil
	}
	out.RecordID = ids[0]
	return out, nil
}

// CheckIn marks a checked-out book as available and closes its latest open
// checkout record. A missing open record is reported on Outcome.Warning,
// not as an error.
func (s *Service) CheckIn(bookID string) (Outcome, error) {
	at, err := s.apply(bookID, ActionCheckIn)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{BookID: bookID, Action: ActionCheckIn, At: at}
	if s.history == nil {
		return out, nil
	}

	records, err := s.history.FindByBookID(bookID)
	if err != nil {
		out.HistoryErr = err
		s.log.Warn("book checked in but history lookup failed", zap.String("book_id", bookID), zap.Error(err))
		return out, nil
	}
	open, found := history.LatestOpen(records)
	if !found {
		out.Warning = fmt.Errorf("%w for book %s", ErrHistoryInconsistency, bookID)
		s.log.Warn("book checked in without an open checkout record", zap.String("book_id", bookID))
		return out, nil
	}

	returned := at
	if returned.Before(open.CheckoutAt) {
		returned = open.CheckoutAt
	}
	ok, err := s.history.Update(open.ID, map[string]any{history.FieldReturnedAt: returned})
	switch {
	case errors.Is(err, history.ErrAlreadyReturned):
		out.HistoryErr = fmt.Errorf("%w: %w", ErrInvalidStateTransition, err)
	case err != nil:
		out.HistoryErr = err
	case !ok:
		out.Warning = fmt.Errorf("%w for book %s: record %s vanished", ErrHistoryInconsistency, bookID, open.ID)
	default:
		out.RecordID = open.ID
	}
	if !out.Consistent() {
		s.log.Warn("book checked in but history close failed",
			zap.String("book_id", bookID), zap.String("record_id", open.ID),
			zap.NamedError("history_err", out.HistoryErr), zap.NamedError("warning", out.Warning))
	}
	return out, nil
}

// apply runs the book side of a transition: look up, verify, persist.
func (s *Service) apply(bookID string, action Action) (time.Time, error) {
	if strings.TrimSpace(bookID) == "" {
		return time.Time{}, fmt.Errorf("%w: book id is required", ErrInvalidInput)
	}
	unlock := s.locks.lock(bookID)
	defer unlock()

	book, err := s.Get(bookID)
	if err != nil {
		return time.Time{}, err
	}
	if err := transition(book, action); err != nil {
		return time.Time{}, err
	}

	at := s.now().UTC()
	fields := map[string]any{catalog.FieldAvailable: action == ActionCheckIn}
	if action == ActionCheckOut {
		fields[catalog.FieldLastCheckout] = at
	}
	ok, err := s.books.Update(bookID, fields)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s %s: %w", action, bookID, err)
	}
	if !ok {
		return time.Time{}, fmt.Errorf("%w: book %s", ErrNotFound, bookID)
	}
	s.log.Debug("transition committed", zap.String("book_id", bookID), zap.String("action", string(action)), zap.Time("at", at))
	return at, nil
}

// Get returns one book or ErrNotFound.
func (s *Service) Get(bookID string) (catalog.Book, error) {
	books, err := s.books.GetAll()
	if err != nil {
		return catalog.Book{}, err
	}
	b := catalog.ByID(books, bookID)
	if b == nil {
		return catalog.Book{}, fmt.Errorf("%w: book %s", ErrNotFound, bookID)
	}
	return *b, nil
}

// GetAll returns the current book snapshot.
func (s *Service) GetAll() ([]catalog.Book, error) {
	return s.books.GetAll()
}

// Add stores books and returns their IDs.
func (s *Service) Add(books ...catalog.Book) ([]string, error) {
	return s.books.Add(books...)
}

// AddFromInput builds books from comma-separated titles and authors, applies
// extra fields to each, and stores them. It returns the stored books.
func (s *Service) AddFromInput(titles, authors string, extra map[string]any) ([]catalog.Book, error) {
	books := BuildFromPairedInput(titles, authors)
	if len(books) == 0 {
		return books, nil
	}
	if len(extra) > 0 {
		for i := range books {
			if err := catalog.ApplyFields(&books[i], extra); err != nil {
				return nil, err
			}
		}
	}
	if _, err := s.books.Add(books...); err != nil {
		return nil, err
	}
	return books, nil
}

// FindByTitle returns books whose title contains query, ignoring case.
func (s *Service) FindByTitle(query string) ([]catalog.Book, error) {
	return s.books.FindByTitle(query)
}

// Delete removes a book. History records referencing it are kept.
func (s *Service) Delete(bookID string) (bool, error) {
	unlock := s.locks.lock(bookID)
	defer unlock()
	return s.books.Delete(bookID)
}

// stateFields change only through CheckOut and CheckIn.
var stateFields = []string{catalog.FieldAvailable, catalog.FieldLastCheckout}

// EditableFields lists the fields Update accepts, in sorted order.
func EditableFields() []string {
	var out []string
	for _, name := range catalog.FieldNames() {
		if !slices.Contains(stateFields, name) {
			out = append(out, name)
		}
	}
	return out
}

// Update applies a generic field mapping to a book. available and
// last_checkout are rejected with ErrInvalidInput; they belong to the
// checkout state machine.
func (s *Service) Update(bookID string, fields map[string]any) (bool, error) {
	for _, name := range stateFields {
		if _, ok := fields[name]; ok {
			return false, fmt.Errorf("%w: %s is set by checkout and checkin, not update", ErrInvalidInput, name)
		}
	}
	unlock := s.locks.lock(bookID)
	defer unlock()
	return s.books.Update(bookID, fields)
}

// History returns the checkout records for bookID, or every record when
// bookID is empty. It returns an empty slice when history is disabled.
func (s *Service) History(bookID string) ([]history.Record, error) {
	if s.history == nil {
		return []history.Record{}, nil
	}
	if bookID == "" {
		return s.history.GetAll()
	}
	return s.history.FindByBookID(bookID)
}

// OpenRecord returns the record a check-in of bookID would close.
func (s *Service) OpenRecord(bookID string) (history.Record, bool, error) {
	records, err := s.History(bookID)
	if err != nil {
		return history.Record{}, false, err
	}
	r, ok := history.LatestOpen(records)
	return r, ok, nil
}
