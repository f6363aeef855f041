package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"go.uber.org/zap"

	"Sistem-Absensi-RFID/models"
)

// Mailer delivers one message. pkg/mailer provides the SMTP and log-only implementations.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type NotifierConfig struct {
	// NotifyAt is the "15:04" wall-clock time of the daily batch in Location.
	NotifyAt     string
	Location     *time.Location
	QueueSize    int
	PollInterval time.Duration
	Clock        Clock
}

// Notifier buffers attendance events and mails them once a day. Events still queued when
// Stop is called are discarded.
type Notifier struct {
	queue  chan models.AttendanceEvent
	mailer Mailer
	logger *zap.Logger

	hour, minute int
	loc          *time.Location
	poll         time.Duration
	now          Clock

	mu        sync.Mutex
	lastFired string
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewNotifier(cfg NotifierConfig, mailer Mailer, logger *zap.Logger) (*Notifier, error) {
	at, err := time.Parse("15:04", cfg.NotifyAt)
	if err != nil {
		return nil, fmt.Errorf("notify time must be HH:MM, got %q", cfg.NotifyAt)
	}
	if cfg.QueueSize <= 0 {
		return nil, fmt.Errorf("notification queue size must be positive")
	}
	if mailer == nil {
		return nil, fmt.Errorf("mailer is required")
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = time.Minute
	}

	return &Notifier{
		queue:  make(chan models.AttendanceEvent, cfg.QueueSize),
		mailer: mailer,
		logger: logger,
		hour:   at.Hour(),
		minute: at.Minute(),
		loc:    loc,
		poll:   poll,
		now:    cfg.Clock.orSystem(),
	}, nil
}

// Enqueue never blocks. It reports false when the queue is full and the event was dropped.
func (n *Notifier) Enqueue(ev models.AttendanceEvent) bool {
	select {
	case n.queue <- ev:
		notifierQueueDepth.Set(float64(len(n.queue)))
		return true
	default:
		notificationsTotal.WithLabelValues("dropped").Inc()
		n.logger.Warn("notification queue full, event dropped",
			zap.String("employee_id", ev.EmployeeID),
			zap.Int("capacity", cap(n.queue)),
		)
		return false
	}
}

// Drain removes at most the events queued when it was called; events enqueued meanwhile
// stay for the next batch.
func (n *Notifier) Drain() []models.AttendanceEvent {
	pending := len(n.queue)
	events := make([]models.AttendanceEvent, 0, pending)
loop:
	for len(events) < pending {
		select {
		case ev := <-n.queue:
			events = append(events, ev)
		default:
			break loop
		}
	}
	notifierQueueDepth.Set(float64(len(n.queue)))
	return events
}

func (n *Notifier) Pending() int {
	return len(n.queue)
}

// Start launches the dispatch loop. Calling it twice is a no-op.
func (n *Notifier) Start(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	n.cancel = cancel
	n.done = make(chan struct{})

	go n.run(ctx, n.done)
	n.logger.Info("attendance notifier started",
		zap.String("notify_at", fmt.Sprintf("%02d:%02d", n.hour, n.minute)),
		zap.String("timezone", n.loc.String()),
	)
}

// Stop cancels the loop and waits for an in-flight batch to finish.
func (n *Notifier) Stop() {
	n.mu.Lock()
	cancel, done := n.cancel, n.done
	n.cancel, n.done = nil, nil
	n.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	n.logger.Info("attendance notifier stopped", zap.Int("discarded", n.Pending()))
}

func (n *Notifier) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(n.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.tick(ctx)
		}
	}
}

// tick fires the batch at most once per local date, when the clock reads NotifyAt.
func (n *Notifier) tick(ctx context.Context) bool {
	now := n.now().In(n.loc)
	if now.Hour() != n.hour || now.Minute() != n.minute {
		return false
	}

	today := now.Format(models.DateLayout)
	n.mu.Lock()
	if n.lastFired == today {
		n.mu.Unlock()
		return false
	}
	n.lastFired = today
	n.mu.Unlock()

	events := n.Drain()
	if len(events) == 0 {
		return true
	}
	sent, failed := n.Deliver(ctx, events, now)
	n.logger.Info("attendance notifications dispatched",
		zap.Int("sent", sent),
		zap.Int("failed", failed),
	)
	return true
}

// Deliver mails each event. A failed event is logged and dropped; the batch goes on.
func (n *Notifier) Deliver(ctx context.Context, events []models.AttendanceEvent, at time.Time) (sent, failed int) {
	for _, ev := range events {
		subject, body := FormatAttendanceMail(ev, at.In(n.loc), n.loc)
		if err := n.mailer.Send(ctx, ev.OrganizationEmail, subject, body); err != nil {
			failed++
			notificationsTotal.WithLabelValues("failed").Inc()
			n.logger.Error("failed to send attendance email",
				zap.String("employee_id", ev.EmployeeID),
				zap.String("to", ev.OrganizationEmail),
				zap.Error(err),
			)
			continue
		}
		sent++
		notificationsTotal.WithLabelValues("sent").Inc()
	}
	return sent, failed
}

// FormatAttendanceMail renders the confirmation sent to the organization for one scan.
func FormatAttendanceMail(ev models.AttendanceEvent, batchTime time.Time, loc *time.Location) (string, string) {
	subject := "Attendance Confirmation - " + singleLine(ev.EmployeeName)
	body := fmt.Sprintf("Employee: %s\nID: %s\nTime: %s\nDate: %s",
		ev.EmployeeName,
		ev.EmployeeID,
		ev.Timestamp.In(loc).Format("2006-01-02 15:04:05"),
		batchTime.Format(models.DateLayout),
	)
	return subject, body
}

// singleLine folds control characters to spaces; a subject is one header line.
func singleLine(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}
