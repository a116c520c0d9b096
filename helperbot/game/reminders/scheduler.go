// Package reminders owns the reminder lifecycle: persistence-backed state
// with one armed timer per (user, activity) key. All mutations of a key
// run under that key's stripe lock, so overlapping messages about the same
// activity cannot interleave their read-modify-write cycles.
package reminders

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/sync/errgroup"

	"github.com/disgoorg/rpg-helper/helperbot/database/models"
	"github.com/disgoorg/rpg-helper/helperbot/game"
)

// ErrNoReminder reports that no active reminder exists for a key.
var ErrNoReminder = errors.New("reminders: no active reminder")

// ErrReminderExists reports that a non-overwriting arm found a reminder
// already active for the key.
var ErrReminderExists = errors.New("reminders: reminder already exists")

const (
	stripes         = 64
	deliveryRetries = 3
	retryBackoff    = 2 * time.Second
)

// Repository is the persistence boundary for reminders.
type Repository interface {
	// Upsert stores the reminder. With overwrite false an existing row for
	// the same (user, activity) stays untouched and ErrReminderExists is
	// returned.
	Upsert(ctx context.Context, reminder *models.Reminder, overwrite bool) error
	Get(ctx context.Context, userID string, activity string) (*models.Reminder, error)
	UpdateEndTime(ctx context.Context, userID string, activity string, endTime time.Time) error
	Delete(ctx context.Context, userID string, activity string) error
	GetAllActive(ctx context.Context, after time.Time) ([]*models.Reminder, error)
	GetAllByUser(ctx context.Context, userID string) ([]*models.Reminder, error)
}

// Notifier delivers a due reminder to its channel.
type Notifier interface {
	Notify(ctx context.Context, reminder *models.Reminder) error
}

// DropHandler observes reminders whose delivery exhausted all retries.
type DropHandler func(reminder *models.Reminder, err error)

// Scheduler arms one timer per active reminder and fires the notifier when
// it elapses. Reminders that are already due on arm fire immediately.
type Scheduler struct {
	repo     Repository
	notifier Notifier
	onDrop   DropHandler

	locks  [stripes]sync.Mutex
	timers sync.Map // key string -> *time.Timer

	shutdownCh   chan struct{}
	shutdownOnce sync.Once

	// fireMu orders the shutdown-check-then-Add in fire against closing
	// shutdownCh, so wg.Wait cannot return with a delivery still starting.
	fireMu sync.RWMutex
	wg     sync.WaitGroup
}

func NewScheduler(repo Repository, notifier Notifier, onDrop DropHandler) *Scheduler {
	if onDrop == nil {
		onDrop = func(*models.Reminder, error) {}
	}
	return &Scheduler{
		repo:       repo,
		notifier:   notifier,
		onDrop:     onDrop,
		shutdownCh: make(chan struct{}),
	}
}

func key(userID string, activity game.Activity) string {
	return userID + "|" + string(activity)
}

func (s *Scheduler) stripe(k string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(k))
	return &s.locks[h.Sum32()%stripes]
}

// Arm creates or overwrites the reminder for (user, activity) and starts
// its timer. A later message about the same activity always wins. With
// overwrite false an already-armed key is left as is and ErrReminderExists
// reports it.
func (s *Scheduler) Arm(ctx context.Context, reminder *models.Reminder, overwrite bool) error {
	k := key(reminder.UserID, game.Activity(reminder.Activity))
	mu := s.stripe(k)
	mu.Lock()
	defer mu.Unlock()

	if err := s.repo.Upsert(ctx, reminder, overwrite); err != nil {
		if errors.Is(err, ErrReminderExists) {
			return err
		}
		return fmt.Errorf("failed to store reminder: %w", err)
	}
	s.armTimerLocked(k, reminder.UserID, game.Activity(reminder.Activity), reminder.EndTime)
	return nil
}

// Adjust shifts an existing reminder's expiry by delta. Missing reminders
// return ErrNoReminder so callers can ignore boosts with nothing armed.
func (s *Scheduler) Adjust(ctx context.Context, userID snowflake.ID, activity game.Activity, delta time.Duration) error {
	k := key(userID.String(), activity)
	mu := s.stripe(k)
	mu.Lock()
	defer mu.Unlock()

	current, err := s.repo.Get(ctx, userID.String(), string(activity))
	if err != nil {
		return err
	}
	endTime := current.EndTime.Add(delta)
	if err = s.repo.UpdateEndTime(ctx, userID.String(), string(activity), endTime); err != nil {
		return fmt.Errorf("failed to adjust reminder: %w", err)
	}
	s.armTimerLocked(k, userID.String(), activity, endTime)
	return nil
}

// Resolve deletes the reminder for (user, activity) without firing it.
// Resolving a key with nothing armed is a no-op.
func (s *Scheduler) Resolve(ctx context.Context, userID snowflake.ID, activity game.Activity) error {
	k := key(userID.String(), activity)
	mu := s.stripe(k)
	mu.Lock()
	defer mu.Unlock()

	s.stopTimerLocked(k)
	if err := s.repo.Delete(ctx, userID.String(), string(activity)); err != nil && !errors.Is(err, ErrNoReminder) {
		return err
	}
	return nil
}

// ReduceTimes moves all of one user's reminders closer by delta, re-arming
// each timer. Reminders pushed into the past fire immediately; rows that
// fire between listing and adjusting are skipped, not treated as failures.
func (s *Scheduler) ReduceTimes(ctx context.Context, userID snowflake.ID, delta time.Duration) (int, error) {
	rows, err := s.repo.GetAllByUser(ctx, userID.String())
	if err != nil {
		return 0, fmt.Errorf("failed to load reminders: %w", err)
	}
	count := 0
	for _, row := range rows {
		err = s.Adjust(ctx, userID, game.Activity(row.Activity), -delta)
		if errors.Is(err, ErrNoReminder) {
			continue
		}
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// Recover re-arms timers for every reminder that survived a restart. End
// times are absolute, so elapsed downtime needs no correction; reminders
// that came due while offline fire immediately.
func (s *Scheduler) Recover(ctx context.Context) (int, error) {
	rows, err := s.repo.GetAllActive(ctx, time.Time{})
	if err != nil {
		return 0, fmt.Errorf("failed to load reminders for recovery: %w", err)
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, row := range rows {
		row := row
		g.Go(func() error {
			k := key(row.UserID, game.Activity(row.Activity))
			mu := s.stripe(k)
			mu.Lock()
			defer mu.Unlock()
			s.armTimerLocked(k, row.UserID, game.Activity(row.Activity), row.EndTime)
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// ListByUser returns a user's active reminders for display.
func (s *Scheduler) ListByUser(ctx context.Context, userID snowflake.ID) ([]*models.Reminder, error) {
	return s.repo.GetAllByUser(ctx, userID.String())
}

// Shutdown stops all timers and waits for in-flight deliveries. Persisted
// reminders stay in place for the next Recover.
func (s *Scheduler) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.fireMu.Lock()
		close(s.shutdownCh)
		s.fireMu.Unlock()
		s.timers.Range(func(k, v any) bool {
			v.(*time.Timer).Stop()
			s.timers.Delete(k)
			return true
		})
	})
	s.wg.Wait()
}

// armTimerLocked replaces any existing timer for the key. Callers hold the
// key's stripe lock.
func (s *Scheduler) armTimerLocked(k string, userID string, activity game.Activity, endTime time.Time) {
	s.stopTimerLocked(k)

	select {
	case <-s.shutdownCh:
		return
	default:
	}

	delay := time.Until(endTime)
	if delay < 0 {
		delay = 0
	}
	timer := time.AfterFunc(delay, func() {
		s.fire(userID, activity)
	})
	s.timers.Store(k, timer)
}

func (s *Scheduler) stopTimerLocked(k string) {
	if existing, ok := s.timers.LoadAndDelete(k); ok {
		existing.(*time.Timer).Stop()
	}
}

// fire delivers a due reminder. The stored end time is re-checked under
// the stripe lock first: an adjustment may have pushed the expiry past the
// moment this timer was armed for, in which case the timer re-arms itself
// instead of delivering early.
func (s *Scheduler) fire(userID string, activity game.Activity) {
	s.fireMu.RLock()
	select {
	case <-s.shutdownCh:
		s.fireMu.RUnlock()
		return
	default:
	}
	s.wg.Add(1)
	s.fireMu.RUnlock()
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	k := key(userID, activity)
	mu := s.stripe(k)
	mu.Lock()

	reminder, err := s.repo.Get(ctx, userID, string(activity))
	if err != nil {
		// Already resolved between timer expiry and lock acquisition.
		s.timers.Delete(k)
		mu.Unlock()
		return
	}
	if remaining := time.Until(reminder.EndTime); remaining > time.Second {
		s.armTimerLocked(k, userID, activity, reminder.EndTime)
		mu.Unlock()
		return
	}
	s.timers.Delete(k)
	if err = s.repo.Delete(ctx, userID, string(activity)); err != nil && !errors.Is(err, ErrNoReminder) {
		slog.Error("Failed to delete fired reminder",
			slog.String("user_id", userID),
			slog.String("activity", string(activity)),
			slog.Any("error", err))
	}
	mu.Unlock()

	s.deliver(ctx, reminder)
}

// deliver retries a bounded number of times, then hands the reminder to
// the drop handler.
func (s *Scheduler) deliver(ctx context.Context, reminder *models.Reminder) {
	var err error
	for attempt := 1; attempt <= deliveryRetries; attempt++ {
		if err = s.notifier.Notify(ctx, reminder); err == nil {
			return
		}
		slog.Warn("Reminder delivery failed",
			slog.String("user_id", reminder.UserID),
			slog.String("activity", reminder.Activity),
			slog.Int("attempt", attempt),
			slog.Any("error", err))
		select {
		case <-s.shutdownCh:
			s.onDrop(reminder, err)
			return
		case <-time.After(retryBackoff):
		}
	}
	s.onDrop(reminder, err)
}
