package reminders

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/require"

	"github.com/disgoorg/rpg-helper/helperbot/database/models"
	"github.com/disgoorg/rpg-helper/helperbot/game"
)

type memoryRepo struct {
	mu   sync.Mutex
	rows map[string]*models.Reminder
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[string]*models.Reminder)}
}

func (m *memoryRepo) key(userID, activity string) string { return userID + "|" + activity }

func (m *memoryRepo) Upsert(_ context.Context, r *models.Reminder, overwrite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := m.key(r.UserID, r.Activity)
	if _, exists := m.rows[k]; exists && !overwrite {
		return ErrReminderExists
	}
	copied := *r
	m.rows[k] = &copied
	return nil
}

func (m *memoryRepo) Get(_ context.Context, userID, activity string) (*models.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[m.key(userID, activity)]
	if !ok {
		return nil, ErrNoReminder
	}
	copied := *row
	return &copied, nil
}

func (m *memoryRepo) UpdateEndTime(_ context.Context, userID, activity string, endTime time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[m.key(userID, activity)]
	if !ok {
		return ErrNoReminder
	}
	row.EndTime = endTime
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, userID, activity string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[m.key(userID, activity)]; !ok {
		return ErrNoReminder
	}
	delete(m.rows, m.key(userID, activity))
	return nil
}

func (m *memoryRepo) GetAllActive(_ context.Context, _ time.Time) ([]*models.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Reminder, 0, len(m.rows))
	for _, row := range m.rows {
		copied := *row
		out = append(out, &copied)
	}
	return out, nil
}

func (m *memoryRepo) GetAllByUser(_ context.Context, userID string) ([]*models.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Reminder
	for _, row := range m.rows {
		if row.UserID == userID {
			copied := *row
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memoryRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type recordingNotifier struct {
	mu        sync.Mutex
	delivered []*models.Reminder
	failures  int
	ch        chan *models.Reminder
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{ch: make(chan *models.Reminder, 16)}
}

func (n *recordingNotifier) Notify(_ context.Context, r *models.Reminder) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failures > 0 {
		n.failures--
		return context.DeadlineExceeded
	}
	n.delivered = append(n.delivered, r)
	n.ch <- r
	return nil
}

func waitForDelivery(t *testing.T, n *recordingNotifier, timeout time.Duration) *models.Reminder {
	t.Helper()
	select {
	case r := <-n.ch:
		return r
	case <-time.After(timeout):
		t.Fatal("reminder was not delivered in time")
		return nil
	}
}

func testReminder(userID snowflake.ID, activity game.Activity, end time.Time) *models.Reminder {
	return &models.Reminder{
		UserID:    userID.String(),
		Activity:  string(activity),
		EndTime:   end,
		ChannelID: "500",
		Message:   "Hey! It's time for hunt!",
	}
}

func TestSchedulerFiresDueReminder(t *testing.T) {
	repo := newMemoryRepo()
	notifier := newRecordingNotifier()
	s := NewScheduler(repo, notifier, nil)
	defer s.Shutdown()

	userID := snowflake.ID(1)
	require.NoError(t, s.Arm(context.Background(), testReminder(userID, game.ActivityHunt, time.Now().Add(50*time.Millisecond)), true))

	delivered := waitForDelivery(t, notifier, 2*time.Second)
	require.Equal(t, userID.String(), delivered.UserID)
	require.Equal(t, string(game.ActivityHunt), delivered.Activity)
	require.Zero(t, repo.count(), "fired reminder must be removed")
}

func TestSchedulerOverwriteReplacesTimer(t *testing.T) {
	repo := newMemoryRepo()
	notifier := newRecordingNotifier()
	s := NewScheduler(repo, notifier, nil)
	defer s.Shutdown()

	userID := snowflake.ID(2)
	ctx := context.Background()
	require.NoError(t, s.Arm(ctx, testReminder(userID, game.ActivityHunt, time.Now().Add(time.Hour)), true))
	require.NoError(t, s.Arm(ctx, testReminder(userID, game.ActivityHunt, time.Now().Add(60*time.Millisecond)), true))

	waitForDelivery(t, notifier, 2*time.Second)
	require.Zero(t, repo.count())

	// Only one delivery: the first timer was replaced, not left behind.
	time.Sleep(100 * time.Millisecond)
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Len(t, notifier.delivered, 1)
}

func TestSchedulerResolveDeletesWithoutFiring(t *testing.T) {
	repo := newMemoryRepo()
	notifier := newRecordingNotifier()
	s := NewScheduler(repo, notifier, nil)
	defer s.Shutdown()

	userID := snowflake.ID(3)
	ctx := context.Background()
	require.NoError(t, s.Arm(ctx, testReminder(userID, game.ActivityDaily, time.Now().Add(80*time.Millisecond)), true))
	require.NoError(t, s.Resolve(ctx, userID, game.ActivityDaily))
	require.Zero(t, repo.count())

	time.Sleep(200 * time.Millisecond)
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Empty(t, notifier.delivered)
}

func TestSchedulerResolveUnknownKeyIsNoop(t *testing.T) {
	s := NewScheduler(newMemoryRepo(), newRecordingNotifier(), nil)
	defer s.Shutdown()
	require.NoError(t, s.Resolve(context.Background(), snowflake.ID(4), game.ActivityArena))
}

func TestSchedulerAdjustShiftsExpiry(t *testing.T) {
	repo := newMemoryRepo()
	notifier := newRecordingNotifier()
	s := NewScheduler(repo, notifier, nil)
	defer s.Shutdown()

	userID := snowflake.ID(5)
	ctx := context.Background()
	end := time.Now().Add(time.Hour)
	require.NoError(t, s.Arm(ctx, testReminder(userID, game.ActivityMegarace, end), true))
	require.NoError(t, s.Adjust(ctx, userID, game.ActivityMegarace, 5*time.Minute))

	stored, err := repo.Get(ctx, userID.String(), string(game.ActivityMegarace))
	require.NoError(t, err)
	require.WithinDuration(t, end.Add(5*time.Minute), stored.EndTime, time.Second)
}

func TestSchedulerAdjustWithoutReminder(t *testing.T) {
	s := NewScheduler(newMemoryRepo(), newRecordingNotifier(), nil)
	defer s.Shutdown()
	err := s.Adjust(context.Background(), snowflake.ID(6), game.ActivityMegarace, time.Minute)
	require.ErrorIs(t, err, ErrNoReminder)
}

func TestSchedulerAdjustOutrunsArmedTimer(t *testing.T) {
	repo := newMemoryRepo()
	notifier := newRecordingNotifier()
	s := NewScheduler(repo, notifier, nil)
	defer s.Shutdown()

	userID := snowflake.ID(7)
	ctx := context.Background()
	require.NoError(t, s.Arm(ctx, testReminder(userID, game.ActivityMegarace, time.Now().Add(100*time.Millisecond)), true))
	require.NoError(t, s.Adjust(ctx, userID, game.ActivityMegarace, 150*time.Millisecond))

	delivered := waitForDelivery(t, notifier, 2*time.Second)
	require.Equal(t, userID.String(), delivered.UserID)
}

func TestSchedulerRecoverReArmsPersistedReminders(t *testing.T) {
	repo := newMemoryRepo()
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, testReminder(snowflake.ID(8), game.ActivityHunt, time.Now().Add(50*time.Millisecond)), true))
	require.NoError(t, repo.Upsert(ctx, testReminder(snowflake.ID(8), game.ActivityAdventure, time.Now().Add(-time.Minute)), true))

	notifier := newRecordingNotifier()
	s := NewScheduler(repo, notifier, nil)
	defer s.Shutdown()

	count, err := s.Recover(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	waitForDelivery(t, notifier, 2*time.Second)
	waitForDelivery(t, notifier, 2*time.Second)
	require.Zero(t, repo.count())
}

func TestSchedulerReduceTimes(t *testing.T) {
	repo := newMemoryRepo()
	notifier := newRecordingNotifier()
	s := NewScheduler(repo, notifier, nil)
	defer s.Shutdown()

	ctx := context.Background()
	end := time.Now().Add(time.Hour)
	require.NoError(t, s.Arm(ctx, testReminder(snowflake.ID(9), game.ActivityHunt, end), true))
	require.NoError(t, s.Arm(ctx, testReminder(snowflake.ID(9), game.ActivityDaily, end), true))
	require.NoError(t, s.Arm(ctx, testReminder(snowflake.ID(10), game.ActivityDaily, end), true))

	count, err := s.ReduceTimes(ctx, snowflake.ID(9), 30*time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	stored, err := repo.Get(ctx, snowflake.ID(9).String(), string(game.ActivityHunt))
	require.NoError(t, err)
	require.WithinDuration(t, end.Add(-30*time.Minute), stored.EndTime, time.Second)

	// Another user's reminders are out of scope for the skip.
	other, err := repo.Get(ctx, snowflake.ID(10).String(), string(game.ActivityDaily))
	require.NoError(t, err)
	require.WithinDuration(t, end, other.EndTime, time.Second)
}

// ghostRowRepo reports one extra row that no longer exists, the way a
// reminder firing between listing and adjusting disappears mid-batch.
type ghostRowRepo struct {
	*memoryRepo
}

func (g *ghostRowRepo) GetAllByUser(ctx context.Context, userID string) ([]*models.Reminder, error) {
	rows, err := g.memoryRepo.GetAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return append(rows, testReminder(snowflake.MustParse(userID), game.ActivityArena, time.Now().Add(time.Hour))), nil
}

func TestSchedulerReduceTimesSkipsFiredRows(t *testing.T) {
	repo := &ghostRowRepo{memoryRepo: newMemoryRepo()}
	notifier := newRecordingNotifier()
	s := NewScheduler(repo, notifier, nil)
	defer s.Shutdown()

	ctx := context.Background()
	end := time.Now().Add(time.Hour)
	require.NoError(t, s.Arm(ctx, testReminder(snowflake.ID(14), game.ActivityHunt, end), true))

	count, err := s.ReduceTimes(ctx, snowflake.ID(14), 10*time.Minute)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestSchedulerArmWithoutOverwriteKeepsExisting(t *testing.T) {
	repo := newMemoryRepo()
	notifier := newRecordingNotifier()
	s := NewScheduler(repo, notifier, nil)
	defer s.Shutdown()

	userID := snowflake.ID(15)
	ctx := context.Background()
	end := time.Now().Add(time.Hour)
	first := testReminder(userID, game.ActivityHunt, end)
	first.Message = "custom alert"
	require.NoError(t, s.Arm(ctx, first, true))

	err := s.Arm(ctx, testReminder(userID, game.ActivityHunt, end.Add(time.Hour)), false)
	require.ErrorIs(t, err, ErrReminderExists)

	stored, err := repo.Get(ctx, userID.String(), string(game.ActivityHunt))
	require.NoError(t, err)
	require.WithinDuration(t, end, stored.EndTime, time.Second)
	require.Equal(t, "custom alert", stored.Message)
}

type blockingNotifier struct {
	started chan struct{}
	release chan struct{}
}

func (n *blockingNotifier) Notify(context.Context, *models.Reminder) error {
	close(n.started)
	<-n.release
	return nil
}

func TestSchedulerShutdownWaitsForInFlightDelivery(t *testing.T) {
	repo := newMemoryRepo()
	notifier := &blockingNotifier{started: make(chan struct{}), release: make(chan struct{})}
	s := NewScheduler(repo, notifier, nil)

	require.NoError(t, s.Arm(context.Background(), testReminder(snowflake.ID(16), game.ActivityHunt, time.Now()), true))

	select {
	case <-notifier.started:
	case <-time.After(2 * time.Second):
		t.Fatal("delivery did not start")
	}

	done := make(chan struct{})
	go func() {
		s.Shutdown()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("shutdown returned with a delivery still in flight")
	case <-time.After(100 * time.Millisecond):
	}

	close(notifier.release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not finish after the delivery completed")
	}
}

func TestSchedulerRetriesDelivery(t *testing.T) {
	repo := newMemoryRepo()
	notifier := newRecordingNotifier()
	notifier.failures = 1
	s := NewScheduler(repo, notifier, nil)
	defer s.Shutdown()

	require.NoError(t, s.Arm(context.Background(), testReminder(snowflake.ID(11), game.ActivityHunt, time.Now()), true))
	waitForDelivery(t, notifier, 5*time.Second)
}

func TestSchedulerDropsAfterExhaustedRetries(t *testing.T) {
	repo := newMemoryRepo()
	notifier := newRecordingNotifier()
	notifier.failures = deliveryRetries

	dropped := make(chan *models.Reminder, 1)
	s := NewScheduler(repo, notifier, func(r *models.Reminder, _ error) {
		dropped <- r
	})
	defer s.Shutdown()

	require.NoError(t, s.Arm(context.Background(), testReminder(snowflake.ID(12), game.ActivityHunt, time.Now()), true))

	select {
	case r := <-dropped:
		require.Equal(t, snowflake.ID(12).String(), r.UserID)
	case <-time.After(10 * time.Second):
		t.Fatal("drop handler was not invoked")
	}
}

func TestSchedulerConcurrentArmsOnSameKey(t *testing.T) {
	repo := newMemoryRepo()
	notifier := newRecordingNotifier()
	s := NewScheduler(repo, notifier, nil)
	defer s.Shutdown()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			end := time.Now().Add(time.Hour + time.Duration(i)*time.Second)
			require.NoError(t, s.Arm(ctx, testReminder(snowflake.ID(13), game.ActivityHunt, end), true))
		}(i)
	}
	wg.Wait()
	require.Equal(t, 1, repo.count())
}
