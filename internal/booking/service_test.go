package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"fitfolio/internal/class"
	"fitfolio/internal/logger"
	"fitfolio/internal/slot"
	"fitfolio/internal/trainer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// memoryRepo mimics the conditional slot claim of the SQL repository.
type memoryRepo struct {
	mu           sync.Mutex
	booked       map[int]bool
	bookings     []Booking
	classCounter map[int]int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{booked: map[int]bool{}, classCounter: map[int]int{}}
}

func (r *memoryRepo) Place(ctx context.Context, b *Booking) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.booked[b.SlotID] {
		return nil, ErrSlotAlreadyBooked
	}
	for _, existing := range r.bookings {
		if existing.TransactionID == b.TransactionID {
			return nil, ErrDuplicateTransaction
		}
	}

	r.booked[b.SlotID] = true
	created := *b
	created.ID = len(r.bookings) + 1
	created.CreatedAt = time.Now()
	r.bookings = append(r.bookings, created)
	r.classCounter[b.ClassID]++
	return &created, nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id int) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID == id {
			b := b
			return &b, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (r *memoryRepo) FindByTransactionID(ctx context.Context, transactionID string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.TransactionID == transactionID {
			b := b
			return &b, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (r *memoryRepo) ListByUser(ctx context.Context, email string) ([]Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Booking{}
	for _, b := range r.bookings {
		if b.UserEmail == email {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memoryRepo) Latest(ctx context.Context, limit int) ([]Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Booking{}
	for i := len(r.bookings) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.bookings[i])
	}
	return out, nil
}

func (r *memoryRepo) TotalRevenue(ctx context.Context) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, b := range r.bookings {
		total += b.Price
	}
	return total, nil
}

func (r *memoryRepo) CountPayingMembers(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	for _, b := range r.bookings {
		seen[b.UserEmail] = true
	}
	return len(seen), nil
}

type MockTrainers struct{ mock.Mock }

func (m *MockTrainers) FindByID(ctx context.Context, id int) (*trainer.Trainer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trainer.Trainer), args.Error(1)
}

type MockClasses struct{ mock.Mock }

func (m *MockClasses) FindByID(ctx context.Context, id int) (*class.Class, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*class.Class), args.Error(1)
}

type MockSlots struct{ mock.Mock }

func (m *MockSlots) FindByID(ctx context.Context, id int) (*slot.Slot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*slot.Slot), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) SendBookingConfirmation(ctx context.Context, to, className, trainerName, slotName, slotTime string, days []string, paidAt time.Time) error {
	return m.Called(ctx, to, className, trainerName, slotName, slotTime, days, paidAt).Error(0)
}

type fixture struct {
	repo     *memoryRepo
	trainers *MockTrainers
	classes  *MockClasses
	slots    *MockSlots
	notifier *MockNotifier
	svc      Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newMemoryRepo(),
		trainers: new(MockTrainers),
		classes:  new(MockClasses),
		slots:    new(MockSlots),
		notifier: new(MockNotifier),
	}
	f.svc = NewService(f.repo, f.trainers, f.classes, f.slots, f.notifier)

	f.trainers.On("FindByID", mock.Anything, 3).Return(&trainer.Trainer{ID: 3, Email: "coach@example.com", FullName: "Coach"}, nil)
	f.trainers.On("FindByID", mock.Anything, 4).Return(&trainer.Trainer{ID: 4, FullName: "Other"}, nil)
	f.trainers.On("FindByID", mock.Anything, 99).Return(nil, trainer.ErrTrainerNotFound)
	f.classes.On("FindByID", mock.Anything, 2).Return(&class.Class{ID: 2, Name: "Yoga"}, nil)
	f.classes.On("FindByID", mock.Anything, 99).Return(nil, class.ErrClassNotFound)
	f.slots.On("FindByID", mock.Anything, 10).Return(&slot.Slot{ID: 10, TrainerID: 3, ClassID: 2, SlotName: "Morning", SlotTime: "07:00", Days: []string{"Mon"}}, nil)
	f.slots.On("FindByID", mock.Anything, 99).Return(nil, slot.ErrSlotNotFound)
	f.notifier.On("SendBookingConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	return f
}

func order(txID string) OrderRequest {
	return OrderRequest{TransactionID: txID, TrainerID: 3, ClassID: 2, SlotID: 10, Price: 25}
}

func TestPlaceBooking_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	b, replayed, err := f.svc.PlaceBooking(ctx, "M@Example.com", order("pi_1"))
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, "m@example.com", b.UserEmail)
	assert.Contains(t, string(b.TrainerSnapshot), `"fullName":"Coach"`)
	assert.Contains(t, string(b.SlotSnapshot), `"slotName":"Morning"`)
	assert.False(t, b.PaidAt.IsZero())
	assert.Equal(t, 1, f.repo.classCounter[2])

	f.notifier.AssertCalled(t, "SendBookingConfirmation", mock.Anything, "m@example.com", "Yoga", "Coach", "Morning", "07:00", []string{"Mon"}, mock.Anything)
}

func TestPlaceBooking_SlotSnapshotIsBooked(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := order("pi_7")
	req.PaidAt = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	b, _, err := f.svc.PlaceBooking(ctx, "m@example.com", req)
	require.NoError(t, err)

	var snap slot.Slot
	require.NoError(t, json.Unmarshal(b.SlotSnapshot, &snap))
	assert.True(t, snap.IsBooked)
	require.NotNil(t, snap.BookedBy)
	assert.Equal(t, "m@example.com", snap.BookedBy.Email)
	assert.Equal(t, "pi_7", snap.BookedBy.TransactionID)
	assert.True(t, req.PaidAt.Equal(snap.BookedBy.PaidAt))

	original, err := f.slots.FindByID(ctx, 10)
	require.NoError(t, err)
	assert.False(t, original.IsBooked)
	assert.Nil(t, original.BookedBy)
}

func TestPlaceBooking_ReplayReturnsOriginal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, _, err := f.svc.PlaceBooking(ctx, "m@example.com", order("pi_1"))
	require.NoError(t, err)

	second, replayed, err := f.svc.PlaceBooking(ctx, "m@example.com", order("pi_1"))
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.repo.bookings, 1)
	assert.Equal(t, 1, f.repo.classCounter[2])
}

func TestPlaceBooking_TransactionReusedByAnotherUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, _, err := f.svc.PlaceBooking(ctx, "m@example.com", order("pi_1"))
	require.NoError(t, err)

	_, _, err = f.svc.PlaceBooking(ctx, "x@example.com", order("pi_1"))
	assert.ErrorIs(t, err, ErrTransactionConflict)
}

func TestPlaceBooking_SecondBuyerConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, _, err := f.svc.PlaceBooking(ctx, "a@example.com", order("pi_1"))
	require.NoError(t, err)

	// slot lookup still reports unbooked: the conditional claim must catch it
	_, _, err = f.svc.PlaceBooking(ctx, "b@example.com", order("pi_2"))
	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)
	assert.Len(t, f.repo.bookings, 1)
}

func TestPlaceBooking_RejectsBookedSlotEarly(t *testing.T) {
	f := newFixture()
	f.slots.ExpectedCalls = nil
	f.slots.On("FindByID", mock.Anything, 10).Return(&slot.Slot{ID: 10, TrainerID: 3, ClassID: 2, IsBooked: true}, nil)

	_, _, err := f.svc.PlaceBooking(context.Background(), "a@example.com", order("pi_1"))
	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)
	assert.Empty(t, f.repo.bookings)
}

func TestPlaceBooking_MissingReferences(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*OrderRequest)
		wantErr error
	}{
		{"trainer", func(o *OrderRequest) { o.TrainerID = 99 }, trainer.ErrTrainerNotFound},
		{"class", func(o *OrderRequest) { o.ClassID = 99 }, class.ErrClassNotFound},
		{"slot", func(o *OrderRequest) { o.SlotID = 99 }, slot.ErrSlotNotFound},
		{"mismatch", func(o *OrderRequest) { o.TrainerID = 4 }, ErrOrderMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := order("pi_1")
			tt.mutate(&req)

			_, _, err := f.svc.PlaceBooking(context.Background(), "a@example.com", req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.repo.bookings)
		})
	}
}

func TestPlaceBooking_ConcurrentBuyers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	const buyers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	var wins, conflicts int

	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := f.svc.PlaceBooking(ctx, fmt.Sprintf("buyer%d@example.com", i), order(fmt.Sprintf("pi_%d", i)))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrSlotAlreadyBooked):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, buyers-1, conflicts)
	assert.Len(t, f.repo.bookings, 1, "losers must not leave booking records behind")
	assert.Equal(t, 1, f.repo.classCounter[2])
}

func TestPlaceBooking_ConcurrentReplaysOfSameOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make(chan int, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, _, err := f.svc.PlaceBooking(ctx, "m@example.com", order("pi_1"))
			if assert.NoError(t, err) {
				ids <- b.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	for id := range ids {
		assert.Equal(t, 1, id)
	}
	assert.Len(t, f.repo.bookings, 1)
}

func TestPlaceBooking_NotificationFailureKeepsBooking(t *testing.T) {
	f := newFixture()
	f.notifier.ExpectedCalls = nil
	f.notifier.On("SendBookingConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	b, _, err := f.svc.PlaceBooking(context.Background(), "a@example.com", order("pi_1"))
	require.NoError(t, err)
	assert.Equal(t, 1, b.ID)
}

func TestSummary(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		_, err := f.repo.Place(ctx, &Booking{TransactionID: fmt.Sprintf("pi_%d", i), SlotID: 100 + i, ClassID: 2, Price: 10})
		require.NoError(t, err)
	}

	s, err := f.svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(80), s.TotalBalance)
	assert.Len(t, s.LastSixTransactions, 6)
	assert.Equal(t, "pi_7", s.LastSixTransactions[0].TransactionID)
}
