package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	apdomain "github.com/BruksfildServices01/horacerta/internal/domain/appointment"
	domain "github.com/BruksfildServices01/horacerta/internal/domain/chat"
	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/infra/lock"
	"github.com/BruksfildServices01/horacerta/internal/metrics"
	"github.com/BruksfildServices01/horacerta/internal/models"
	"github.com/BruksfildServices01/horacerta/internal/notify"
	"github.com/BruksfildServices01/horacerta/internal/timezone"
	apusecase "github.com/BruksfildServices01/horacerta/internal/usecase/appointment"
	"github.com/BruksfildServices01/horacerta/internal/usecase/payment"
	"github.com/BruksfildServices01/horacerta/pkg/logging"
)

var (
	ErrMissingPhone = httperr.Validation("chat_missing_phone", "Telefone não informado.")
	ErrTooManySteps = errors.New("chat: step limit reached")
)

const msgMessengerDown = "Não foi possível enviar a mensagem."

// ======================================================
// COLLABORATORS
// ======================================================

type Locker interface {
	Acquire(ctx context.Context, key string) (lock.Release, error)
}

type Availability interface {
	Dates(ctx context.Context, barbershopID, barberID string) ([]apdomain.BookableDate, error)
	Times(ctx context.Context, barbershopID, barberID, date string) ([]models.Schedule, error)
}

type Booker interface {
	Execute(ctx context.Context, in apusecase.CreateAppointmentInput) (*models.Appointment, error)
}

type Canceler interface {
	Execute(ctx context.Context, in apusecase.CancelAppointmentInput) (*models.Appointment, error)
}

type UpcomingLister interface {
	Execute(ctx context.Context, customerID string) ([]models.Appointment, error)
}

type Wallet interface {
	WalletBalance(ctx context.Context, customerID, barbershopID string) (int64, error)
}

type OrderCreator interface {
	Execute(ctx context.Context, in payment.CreateOrderInput) (*models.Order, error)
}

type Deps struct {
	Repo      domain.Repository
	Messenger domain.Messenger
	Locker    Locker

	Availability Availability
	Booker       Booker
	Canceler     Canceler
	Upcoming     UpcomingLister
	Wallet       Wallet
	Orders       OrderCreator

	Mailer  notify.EmailSender
	Metrics *metrics.ChatMetrics
	Logger  *logging.Logger
}

type Config struct {
	// Window is how long an unfinished chat stays resumable.
	Window time.Duration
	// MaxSteps bounds the re-entries of one inbound event.
	MaxSteps int
	// HiddenShopIDs are never offered in the shop list.
	HiddenShopIDs []string
	SiteURL       string
	// Location is used for shops without a timezone.
	Location *time.Location
	Now      func() time.Time
}

func (c Config) withDefaults() Config {
	if c.Window <= 0 {
		c.Window = 20 * time.Minute
	}
	if c.MaxSteps <= 0 {
		c.MaxSteps = 32
	}
	if c.SiteURL == "" {
		c.SiteURL = "https://horacerta.app"
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// ======================================================
// ENGINE
// ======================================================

// Engine drives the WhatsApp booking conversation. The chat row is the only
// state; every event reloads it, so any instance can serve any phone.
type Engine struct {
	deps Deps
	cfg  Config
}

func NewEngine(deps Deps, cfg Config) *Engine {
	if deps.Logger == nil {
		deps.Logger = logging.Default()
	}
	if deps.Mailer == nil {
		deps.Mailer = notify.NopSender{}
	}
	if deps.Locker == nil {
		deps.Locker = lock.NewMemoryLocker()
	}
	return &Engine{deps: deps, cfg: cfg.withDefaults()}
}

// turn is the working set of one inbound event.
type turn struct {
	chat *models.Chat
	ev   domain.Event
	// restarted disables auto-selection after a branch ran out of options,
	// so a single empty shop cannot loop.
	restarted bool
}

// next tells the loop what to do after a step.
type next int

const (
	// await: a prompt was sent, wait for the customer.
	await next = iota
	// proceed: the event filled a slot and is consumed.
	proceed
	// reenter: the chat changed without using the event.
	reenter
)

// Handle processes one inbound message.
func (e *Engine) Handle(ctx context.Context, ev domain.Event) error {
	if ev.Phone == "" {
		return ErrMissingPhone
	}

	release, err := e.deps.Locker.Acquire(ctx, lockKey(ev.Phone))
	if err != nil {
		return fmt.Errorf("chat: lock %s: %w", ev.Phone, err)
	}
	defer release()

	started := e.cfg.Now()

	c, err := e.deps.Repo.FindActive(ctx, ev.Phone, started.Add(-e.cfg.Window))
	if err != nil {
		return fmt.Errorf("chat: find active: %w", err)
	}

	t := &turn{chat: c, ev: ev}
	if err := e.applyReset(ctx, t); err != nil {
		return err
	}

	return e.run(ctx, t, started)
}

// Resume continues a chat out of band, after its order is paid. The
// freshness window does not apply.
func (e *Engine) Resume(ctx context.Context, chatID string) error {
	c, err := e.deps.Repo.Get(ctx, chatID)
	if err != nil {
		return fmt.Errorf("chat: resume %s: %w", chatID, err)
	}

	release, err := e.deps.Locker.Acquire(ctx, lockKey(c.Phone))
	if err != nil {
		return fmt.Errorf("chat: lock %s: %w", c.Phone, err)
	}
	defer release()

	// reload under the lock
	c, err = e.deps.Repo.Get(ctx, chatID)
	if err != nil {
		return fmt.Errorf("chat: resume %s: %w", chatID, err)
	}
	if c.Finished {
		return nil
	}

	t := &turn{chat: c, ev: domain.Event{Phone: c.Phone, SenderName: c.Name}}
	return e.run(ctx, t, e.cfg.Now())
}

func (e *Engine) run(ctx context.Context, t *turn, started time.Time) error {
	steps := 0
	var err error

	defer func() {
		e.deps.Metrics.ObserveEvent(string(domain.Derive(t.chat)), steps, e.cfg.Now().Sub(started).Seconds())
	}()

	for steps < e.cfg.MaxSteps {
		steps++

		var n next
		n, err = e.step(ctx, t)
		if err != nil {
			e.deps.Logger.Error("chat: step failed",
				"phone", t.ev.Phone,
				"state", string(domain.Derive(t.chat)),
				"error", err,
			)
			return err
		}

		switch n {
		case await:
			return nil
		case proceed:
			t.ev = t.ev.Consumed()
		}
	}

	e.deps.Logger.Error("chat: step limit reached", "phone", t.ev.Phone, "steps", steps)
	return ErrTooManySteps
}

// applyReset handles the reset text and reset button of an active chat.
func (e *Engine) applyReset(ctx context.Context, t *turn) error {
	c := t.chat
	if c == nil {
		return nil
	}

	switch {
	case t.ev.IsResetText():
		c.Finished = true
		c.IsCanceling = false
		domain.ClearBooking(c)
		if err := e.save(ctx, c); err != nil {
			return err
		}
		t.chat = nil
		t.ev = t.ev.Consumed()

	case t.ev.IsResetButton():
		c.IsCanceling = false
		domain.ClearBooking(c)
		if err := e.save(ctx, c); err != nil {
			return err
		}
		t.ev = t.ev.Consumed()
	}
	return nil
}

func (e *Engine) step(ctx context.Context, t *turn) (next, error) {
	state := domain.Derive(t.chat)

	if state != domain.StateNew &&
		state != domain.StateFinished &&
		t.chat.CustomerID != "" &&
		t.ev.IsCancelText() {
		return e.startCancel(ctx, t)
	}

	switch state {
	case domain.StateNew:
		return e.start(ctx, t)
	case domain.StateFinished:
		return await, nil
	case domain.StateAwaitingCancelSelection:
		return e.cancelSelection(ctx, t)
	case domain.StateAwaitingEmail:
		return e.email(ctx, t)
	case domain.StateAwaitingCPF:
		return e.document(ctx, t)
	case domain.StateAwaitingShop:
		return e.shop(ctx, t)
	case domain.StateAwaitingStaff:
		return e.staff(ctx, t)
	case domain.StateAwaitingService:
		return e.service(ctx, t)
	case domain.StateAwaitingDate:
		return e.date(ctx, t)
	case domain.StateAwaitingTime:
		return e.timeSlot(ctx, t)
	default:
		return e.confirm(ctx, t)
	}
}

// ======================================================
// HELPERS
// ======================================================

func lockKey(phone string) string {
	return "chat:" + phone
}

func (e *Engine) save(ctx context.Context, c *models.Chat) error {
	if err := e.deps.Repo.Save(ctx, c); err != nil {
		return fmt.Errorf("chat: save %s: %w", c.ID, err)
	}
	return nil
}

func (e *Engine) location(shop *models.Barbershop) *time.Location {
	if shop == nil {
		return e.cfg.Location
	}
	return timezone.Resolve(shop.Timezone, e.cfg.Location)
}

func (e *Engine) text(ctx context.Context, phone, message string) error {
	if err := e.deps.Messenger.SendText(ctx, phone, message); err != nil {
		return httperr.External("messaging", msgMessengerDown, err)
	}
	return nil
}

func (e *Engine) options(ctx context.Context, phone, message string, opts []domain.Option) error {
	if err := e.deps.Messenger.SendOptionList(ctx, phone, message, opts); err != nil {
		return httperr.External("messaging", msgMessengerDown, err)
	}
	return nil
}

func (e *Engine) buttons(ctx context.Context, phone, message string, buttons []domain.Button) error {
	if err := e.deps.Messenger.SendButtonList(ctx, phone, message, buttons); err != nil {
		return httperr.External("messaging", msgMessengerDown, err)
	}
	return nil
}

// choose returns the item the event selected, or the only item when
// auto-selection applies. ok is false when the customer must be asked.
func choose[T any](t *turn, items []T, id func(T) string) (T, bool) {
	if t.ev.HasListSelection() {
		for _, it := range items {
			if id(it) == t.ev.ListRowID {
				return it, true
			}
		}
	}
	if len(items) == 1 && !t.restarted {
		return items[0], true
	}
	var zero T
	return zero, false
}
