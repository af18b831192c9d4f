package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/data/repository"

	"github.com/google/uuid"
)

// memDB is an in-memory stand-in for postgres. Transactions run one at a
// time and restore a snapshot on rollback.
type memDB struct {
	mu   sync.Mutex
	txMu sync.Mutex

	users        map[uuid.UUID]entity.User
	properties   map[uuid.UUID]entity.Property
	reservations map[uuid.UUID]entity.Reservation
	payments     map[string]entity.Payment
	reviews      map[uuid.UUID]entity.Review // keyed by reservation id

	// commitErr makes the next commit fail after fn succeeded
	commitErr error
}

func newMemDB() *memDB {
	return &memDB{
		users:        map[uuid.UUID]entity.User{},
		properties:   map[uuid.UUID]entity.Property{},
		reservations: map[uuid.UUID]entity.Reservation{},
		payments:     map[string]entity.Payment{},
		reviews:      map[uuid.UUID]entity.Review{},
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (db *memDB) repository() *repository.Repository {
	repo := db.repos()
	repo.Tx = &memTx{db: db}
	return repo
}

func (db *memDB) repos() *repository.Repository {
	return &repository.Repository{
		User:        &memUserRepo{db: db},
		Property:    &memPropertyRepo{db: db},
		Reservation: &memReservationRepo{db: db},
		Payment:     &memPaymentRepo{db: db},
		Review:      &memReviewRepo{db: db},
	}
}

func (db *memDB) reservation(id uuid.UUID) entity.Reservation {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.reservations[id]
}

func (db *memDB) reservationCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.reservations)
}

func (db *memDB) paymentCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.payments)
}

type memTx struct {
	db *memDB
}

func (m *memTx) WithinTx(ctx context.Context, fn func(ctx context.Context, repos *repository.Repository) error) error {
	m.db.txMu.Lock()
	defer m.db.txMu.Unlock()

	m.db.mu.Lock()
	users := copyMap(m.db.users)
	properties := copyMap(m.db.properties)
	reservations := copyMap(m.db.reservations)
	payments := copyMap(m.db.payments)
	reviews := copyMap(m.db.reviews)
	m.db.mu.Unlock()

	repos := m.db.repos()
	repos.Tx = nestedMemTx{repos: repos}

	rollback := func() {
		m.db.mu.Lock()
		m.db.users = users
		m.db.properties = properties
		m.db.reservations = reservations
		m.db.payments = payments
		m.db.reviews = reviews
		m.db.mu.Unlock()
	}

	if err := fn(ctx, repos); err != nil {
		rollback()
		return err
	}
	if err := m.db.commitErr; err != nil {
		m.db.commitErr = nil
		rollback()
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type nestedMemTx struct {
	repos *repository.Repository
}

func (n nestedMemTx) WithinTx(ctx context.Context, fn func(ctx context.Context, repos *repository.Repository) error) error {
	return fn(ctx, n.repos)
}

// ---------------------------------------------------------------------------

type memUserRepo struct{ db *memDB }

func (r *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

type memPropertyRepo struct{ db *memDB }

func (r *memPropertyRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.properties[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memPropertyRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Property, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Property
	for _, id := range ids {
		if p, ok := r.db.properties[id]; ok {
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *memPropertyRepo) LockByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	return r.FindByID(ctx, id)
}

func (r *memPropertyRepo) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p := r.db.properties[id]
	p.Rating = rating
	r.db.properties[id] = p
	return nil
}

type memReservationRepo struct{ db *memDB }

func occupies(r entity.Reservation) bool {
	return r.DeletedAt == nil && r.Status.IsOccupying()
}

// overlapsLocked mirrors the reservations_no_overlap exclusion constraint.
func (r *memReservationRepo) overlapsLocked(res *entity.Reservation) bool {
	for _, other := range r.db.reservations {
		if other.ID == res.ID || other.PropertyID != res.PropertyID || !occupies(other) {
			continue
		}
		if res.Status.IsOccupying() && other.Overlaps(res.CheckIn, res.CheckOut) {
			return true
		}
	}
	return false
}

func (r *memReservationRepo) Create(ctx context.Context, res *entity.Reservation) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, other := range r.db.reservations {
		if other.ReservationCode == res.ReservationCode {
			return repository.ErrDuplicateCode
		}
	}
	if r.overlapsLocked(res) {
		return fmt.Errorf("%w: reservations_no_overlap", repository.ErrReservationOverlap)
	}
	r.db.reservations[res.ID] = *res
	return nil
}

func (r *memReservationRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	res, ok := r.db.reservations[id]
	if !ok || res.DeletedAt != nil {
		return nil, nil
	}
	return &res, nil
}

func (r *memReservationRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	return r.FindByID(ctx, id)
}

func (r *memReservationRepo) FindByCode(ctx context.Context, code string) (*entity.Reservation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, res := range r.db.reservations {
		if res.ReservationCode == code && res.DeletedAt == nil {
			return &res, nil
		}
	}
	return nil, nil
}

func (r *memReservationRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, res := range r.db.reservations {
		if res.ReservationCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *memReservationRepo) guestReservations(guestID uuid.UUID) []entity.Reservation {
	var out []entity.Reservation
	for _, res := range r.db.reservations {
		if res.GuestID == guestID && res.DeletedAt == nil {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.After(out[j].CheckIn) })
	return out
}

func (r *memReservationRepo) FindByGuestID(ctx context.Context, guestID uuid.UUID, limit, offset int) ([]*entity.Reservation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	all := r.guestReservations(guestID)
	var out []*entity.Reservation
	for i := offset; i < len(all) && i < offset+limit; i++ {
		res := all[i]
		out = append(out, &res)
	}
	return out, nil
}

func (r *memReservationRepo) CountByGuestID(ctx context.Context, guestID uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.guestReservations(guestID))), nil
}

func (r *memReservationRepo) FindOccupying(ctx context.Context, propertyID uuid.UUID, checkIn, checkOut time.Time, excludeID uuid.UUID) ([]*entity.Reservation, error) {
	return r.occupying([]uuid.UUID{propertyID}, checkIn, checkOut, excludeID), nil
}

func (r *memReservationRepo) FindOccupyingByProperties(ctx context.Context, propertyIDs []uuid.UUID, checkIn, checkOut time.Time) ([]*entity.Reservation, error) {
	return r.occupying(propertyIDs, checkIn, checkOut, uuid.Nil), nil
}

func (r *memReservationRepo) occupying(propertyIDs []uuid.UUID, checkIn, checkOut time.Time, excludeID uuid.UUID) []*entity.Reservation {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	wanted := map[uuid.UUID]bool{}
	for _, id := range propertyIDs {
		wanted[id] = true
	}
	var out []*entity.Reservation
	for _, res := range r.db.reservations {
		if !wanted[res.PropertyID] || !occupies(res) || !res.Overlaps(checkIn, checkOut) {
			continue
		}
		if res.ID == excludeID {
			continue
		}
		res := res
		out = append(out, &res)
	}
	// same ordering as the ORDER BY check_in of the real query
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CheckIn.Equal(out[j].CheckIn) {
			return out[i].CheckIn.Before(out[j].CheckIn)
		}
		return out[i].ReservationCode < out[j].ReservationCode
	})
	return out
}

func (r *memReservationRepo) UpdateDates(ctx context.Context, res *entity.Reservation, expected entity.ReservationStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.reservations[res.ID]
	if !ok || stored.DeletedAt != nil || stored.Status != expected {
		return repository.ErrStaleStatus
	}
	if r.overlapsLocked(res) {
		return fmt.Errorf("%w: reservations_no_overlap", repository.ErrReservationOverlap)
	}
	r.db.reservations[res.ID] = *res
	return nil
}

func (r *memReservationRepo) TransitionStatus(ctx context.Context, res *entity.Reservation, from entity.ReservationStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.reservations[res.ID]
	if !ok || stored.DeletedAt != nil || stored.Status != from {
		return repository.ErrStaleStatus
	}
	stored.Status = res.Status
	stored.ConfirmedAt = res.ConfirmedAt
	stored.CancelledAt = res.CancelledAt
	stored.CancellationReason = res.CancellationReason
	stored.CancelledBy = res.CancelledBy
	stored.RefundPercent = res.RefundPercent
	stored.RefundAmount = res.RefundAmount
	stored.UpdatedAt = res.UpdatedAt
	r.db.reservations[res.ID] = stored
	return nil
}

func (r *memReservationRepo) UpdatePayment(ctx context.Context, res *entity.Reservation) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored := r.db.reservations[res.ID]
	stored.AmountPaid = res.AmountPaid
	stored.PaymentStatus = res.PaymentStatus
	stored.PaymentDate = res.PaymentDate
	stored.TransactionID = res.TransactionID
	r.db.reservations[res.ID] = stored
	return nil
}

func (r *memReservationRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored := r.db.reservations[id]
	now := time.Now()
	stored.DeletedAt = &now
	r.db.reservations[id] = stored
	return nil
}

type memPaymentRepo struct{ db *memDB }

var errDuplicateTransaction = errors.New("duplicate transaction id")

func (r *memPaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, exists := r.db.payments[payment.TransactionID]; exists {
		return errDuplicateTransaction
	}
	r.db.payments[payment.TransactionID] = *payment
	return nil
}

func (r *memPaymentRepo) FindByTransactionID(ctx context.Context, transactionID string) (*entity.Payment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.payments[transactionID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memPaymentRepo) FindByReservationID(ctx context.Context, reservationID uuid.UUID) ([]*entity.Payment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Payment
	for _, p := range r.db.payments {
		if p.ReservationID == reservationID {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

type memReviewRepo struct{ db *memDB }

func (r *memReviewRepo) Create(ctx context.Context, review *entity.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, exists := r.db.reviews[review.ReservationID]; exists {
		return repository.ErrDuplicateReview
	}
	r.db.reviews[review.ReservationID] = *review
	return nil
}

func (r *memReviewRepo) FindByReservationID(ctx context.Context, reservationID uuid.UUID) (*entity.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	review, ok := r.db.reviews[reservationID]
	if !ok {
		return nil, nil
	}
	return &review, nil
}

func (r *memReviewRepo) filter(match func(entity.Review) bool) []*entity.Review {
	var out []*entity.Review
	for _, review := range r.db.reviews {
		if match(review) {
			review := review
			out = append(out, &review)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func pageReviews(reviews []*entity.Review, limit, offset int) []*entity.Review {
	if offset >= len(reviews) {
		return nil
	}
	return reviews[offset:min(offset+limit, len(reviews))]
}

func (r *memReviewRepo) FindByPropertyID(ctx context.Context, propertyID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return pageReviews(r.filter(func(rv entity.Review) bool { return rv.PropertyID == propertyID }), limit, offset), nil
}

func (r *memReviewRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return pageReviews(r.filter(func(rv entity.Review) bool { return rv.UserID == userID }), limit, offset), nil
}

func (r *memReviewRepo) CountByPropertyID(ctx context.Context, propertyID uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.filter(func(rv entity.Review) bool { return rv.PropertyID == propertyID }))), nil
}

func (r *memReviewRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.filter(func(rv entity.Review) bool { return rv.UserID == userID }))), nil
}

func (r *memReviewRepo) GetPropertyReviewStats(ctx context.Context, propertyID uuid.UUID) (float64, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	reviews := r.filter(func(rv entity.Review) bool { return rv.PropertyID == propertyID })
	if len(reviews) == 0 {
		return 0, 0, nil
	}
	sum := 0
	for _, rv := range reviews {
		sum += rv.Rating
	}
	return float64(sum) / float64(len(reviews)), int64(len(reviews)), nil
}

// ---------------------------------------------------------------------------

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type recordingNotifier struct {
	mu      sync.Mutex
	intents []entity.NotificationIntent
	err     error
}

func (n *recordingNotifier) Notify(ctx context.Context, intent entity.NotificationIntent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.intents = append(n.intents, intent)
	return n.err
}

func (n *recordingNotifier) events() []entity.NotificationEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]entity.NotificationEvent, len(n.intents))
	for i, in := range n.intents {
		out[i] = in.EventType
	}
	return out
}

type fakeGateway struct {
	mu      sync.Mutex
	err     error
	voidErr error
	calls   []ChargeRequest
	voided  []string
}

func (g *fakeGateway) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, req)
	if g.err != nil {
		return ChargeResult{}, g.err
	}
	return ChargeResult{
		TransactionID: fmt.Sprintf("PAY-%d", len(g.calls)),
		Method:        req.Method,
		PaidAt:        time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC),
	}, nil
}

func (g *fakeGateway) Void(ctx context.Context, transactionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.voided = append(g.voided, transactionID)
	return g.voidErr
}
