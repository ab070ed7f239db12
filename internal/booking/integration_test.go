package booking_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"fitfolio/internal/booking"
	"fitfolio/internal/class"
	"fitfolio/internal/db"
	"fitfolio/internal/slot"
	"fitfolio/internal/trainer"

	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startPostgres prefers TEST_DSN and otherwise starts a throwaway container.
func startPostgres(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	if dsn := os.Getenv("TEST_DSN"); dsn != "" {
		conn, err := db.Connect(ctx, dsn)
		if err != nil {
			t.Skipf("Skipping integration tests: cannot connect to test database: %v", err)
		}
		return conn
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("Skipping integration tests: docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("Skipping integration tests: docker unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=fitfolio",
			"POSTGRES_PASSWORD=fitfolio",
			"POSTGRES_DB=fitfolio_test",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })
	_ = resource.Expire(120)

	dsn := fmt.Sprintf("postgres://fitfolio:fitfolio@%s/fitfolio_test?sslmode=disable", resource.GetHostPort("5432/tcp"))

	var conn *sqlx.DB
	pool.MaxWait = time.Minute
	err = pool.Retry(func() error {
		var err error
		conn, err = sqlx.Connect("postgres", dsn)
		return err
	})
	require.NoError(t, err)
	return conn
}

type noopNotifier struct{}

func (noopNotifier) SendBookingConfirmation(context.Context, string, string, string, string, string, []string, time.Time) error {
	return nil
}

func TestBookingFlow_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}

	conn := startPostgres(t)
	defer conn.Close()
	require.NoError(t, db.RunMigrations(conn, "../../migrations"))

	ctx := context.Background()
	for _, table := range []string{"reviews", "bookings", "trainer_slots", "slots", "trainers", "classes", "users"} {
		_, err := conn.Exec("DELETE FROM " + table)
		require.NoError(t, err)
	}

	var trainerID, classID int
	require.NoError(t, conn.Get(&trainerID,
		`INSERT INTO trainers (email, full_name, skills) VALUES ('coach@example.com', 'Coach', '{Yoga}') RETURNING id`))
	require.NoError(t, conn.Get(&classID,
		`INSERT INTO classes (name, image, details) VALUES ('Yoga', 'yoga.png', 'Stretch') RETURNING id`))

	trainers := trainer.NewRepository(conn)
	classes := class.NewRepository(conn)
	slots := slot.NewService(slot.NewRepository(conn), trainers, classes)
	bookings := booking.NewService(booking.NewRepository(conn), trainers, classes, slot.NewRepository(conn), noopNotifier{})

	s, err := slots.Add(ctx, "coach@example.com", slot.AddSlotRequest{
		SlotName: "Morning", SlotTime: "07:00", Days: []string{"Mon"}, ClassID: classID,
	})
	require.NoError(t, err)

	available, err := slots.IsAvailable(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, available)

	const buyers = 8
	var wg sync.WaitGroup
	results := make(chan error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := bookings.PlaceBooking(ctx, fmt.Sprintf("buyer%d@example.com", i), booking.OrderRequest{
				TransactionID: fmt.Sprintf("pi_%d", i),
				TrainerID:     trainerID,
				ClassID:       classID,
				SlotID:        s.ID,
				Price:         20,
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var wins int
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		assert.True(t, errors.Is(err, booking.ErrSlotAlreadyBooked), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, wins)

	var count int
	require.NoError(t, conn.Get(&count, `SELECT COUNT(*) FROM bookings WHERE slot_id = $1`, s.ID))
	assert.Equal(t, 1, count)

	c, err := classes.FindByID(ctx, classID)
	require.NoError(t, err)
	assert.Equal(t, 1, c.BookingCount)

	available, err = slots.IsAvailable(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, available)

	err = slots.Delete(ctx, s.ID, "coach@example.com")
	assert.ErrorIs(t, err, slot.ErrSlotBooked)
}
