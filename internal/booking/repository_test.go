package booking

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookingRowColumns = []string{
	"id", "transaction_id", "user_email", "paid_at", "slot_id", "class_id",
	"trainer_snapshot", "class_snapshot", "slot_snapshot", "price", "created_at",
}

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	closer := func() {
		sqlxDB.Close()
	}
	return NewRepository(sqlxDB), mock, closer
}

func sampleBooking() *Booking {
	return &Booking{
		TransactionID:   "pi_1",
		UserEmail:       "m@example.com",
		PaidAt:          time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		SlotID:          10,
		ClassID:         2,
		TrainerSnapshot: []byte(`{"id":3}`),
		ClassSnapshot:   []byte(`{"id":2}`),
		SlotSnapshot:    []byte(`{"id":10}`),
		Price:           25,
	}
}

func bookingRow(b *Booking, id int) *sqlmock.Rows {
	return sqlmock.NewRows(bookingRowColumns).AddRow(
		id, b.TransactionID, b.UserEmail, b.PaidAt, b.SlotID, b.ClassID,
		[]byte(b.TrainerSnapshot), []byte(b.ClassSnapshot), []byte(b.SlotSnapshot), b.Price, time.Now(),
	)
}

func TestPlace_AllWritesInOneTransaction(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	b := sampleBooking()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND is_booked = FALSE")).
		WithArgs(10, "m@example.com", "pi_1", b.PaidAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnRows(bookingRow(b, 41))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE classes SET booking_count = booking_count + 1 WHERE id = $1")).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.Place(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, 41, created.ID)
	assert.JSONEq(t, `{"id":3}`, string(created.TrainerSnapshot))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlace_ClaimedSlotWritesNothing(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND is_booked = FALSE")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Place(context.Background(), sampleBooking())
	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)
	// no INSERT INTO bookings and no counter update were issued
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlace_DuplicateTransactionRollsBackSlotClaim(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND is_booked = FALSE")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	_, err := repo.Place(context.Background(), sampleBooking())
	assert.ErrorIs(t, err, ErrDuplicateTransaction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlace_CounterFailureRollsBack(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	b := sampleBooking()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND is_booked = FALSE")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnRows(bookingRow(b, 41))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE classes SET booking_count")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Place(context.Background(), b)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByTransactionID(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	ctx := context.Background()
	b := sampleBooking()

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE transaction_id = $1")).
		WithArgs("pi_1").
		WillReturnRows(bookingRow(b, 41))

	got, err := repo.FindByTransactionID(ctx, "pi_1")
	require.NoError(t, err)
	assert.Equal(t, 41, got.ID)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE transaction_id = $1")).
		WithArgs("pi_2").
		WillReturnRows(sqlmock.NewRows(bookingRowColumns))

	_, err = repo.FindByTransactionID(ctx, "pi_2")
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAggregates(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(price), 0) FROM bookings")).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(240.5))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(DISTINCT user_email) FROM bookings")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC LIMIT $1")).
		WithArgs(6).
		WillReturnRows(bookingRow(sampleBooking(), 41))

	total, err := repo.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 240.5, total)

	members, err := repo.CountPayingMembers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, members)

	latest, err := repo.Latest(ctx, 6)
	require.NoError(t, err)
	assert.Len(t, latest, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}
