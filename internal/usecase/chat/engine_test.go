package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/horacerta/internal/domain/chat"
	"github.com/BruksfildServices01/horacerta/internal/infra/lock"
	"github.com/BruksfildServices01/horacerta/internal/infra/repository"
	"github.com/BruksfildServices01/horacerta/internal/models"
	"github.com/BruksfildServices01/horacerta/internal/notify"
	"github.com/BruksfildServices01/horacerta/internal/testsupport"
	apusecase "github.com/BruksfildServices01/horacerta/internal/usecase/appointment"
	"github.com/BruksfildServices01/horacerta/internal/usecase/payment"
	"github.com/BruksfildServices01/horacerta/pkg/logging"
)

const (
	thursday = 4
	// matches the seeded customer once the country prefix is dropped
	knownPhone = "5511988887777"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []notify.EmailMessage
}

func (m *fakeMailer) Send(_ context.Context, msg notify.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

type harness struct {
	db       *gorm.DB
	fx       testsupport.Fixture
	engine   *Engine
	msgs     *testsupport.FakeMessenger
	gateway  *testsupport.FakeGateway
	mailer   *fakeMailer
	balances *repository.BalanceGormRepository
	booking  *apusecase.CreateAppointment
	now      time.Time
}

func newHarness(t *testing.T, price int64) *harness {
	t.Helper()

	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	gdb := testsupport.NewDB(t)
	// Wednesday 08:00
	now := time.Date(2025, 1, 15, 8, 0, 0, 0, loc)
	clock := func() time.Time { return now }

	apRepo := repository.NewAppointmentGormRepository(gdb)
	billingRepo := repository.NewBillingGormRepository(gdb)
	apDeps := apusecase.Deps{Logger: logging.Discard(), Location: loc, Now: clock}

	h := &harness{
		db:       gdb,
		fx:       testsupport.Seed(t, gdb, thursday, "10:00", nil, price),
		msgs:     &testsupport.FakeMessenger{},
		gateway:  testsupport.NewFakeGateway(),
		mailer:   &fakeMailer{},
		balances: repository.NewBalanceGormRepository(gdb),
		booking:  apusecase.NewCreateAppointment(apRepo, apDeps),
		now:      now,
	}

	h.engine = NewEngine(Deps{
		Repo:         repository.NewChatGormRepository(gdb),
		Messenger:    h.msgs,
		Locker:       lock.NewMemoryLocker(),
		Availability: apusecase.NewGetAvailability(apRepo, apDeps),
		Booker:       h.booking,
		Canceler:     apusecase.NewCancelAppointment(apRepo, apDeps),
		Upcoming:     apusecase.NewListUpcoming(apRepo, apDeps),
		Wallet:       h.balances,
		Orders:       payment.NewCreateOrder(billingRepo, h.gateway, logging.Discard()),
		Mailer:       h.mailer,
		Logger:       logging.Discard(),
	}, Config{
		Location: loc,
		SiteURL:  "https://horacerta.test",
		Now:      clock,
	})

	return h
}

func (h *harness) send(t *testing.T, ev domain.Event) {
	t.Helper()
	if ev.Phone == "" {
		ev.Phone = knownPhone
	}
	if ev.SenderName == "" {
		ev.SenderName = "Ana Souza"
	}
	require.NoError(t, h.engine.Handle(context.Background(), ev))
}

func (h *harness) chats(t *testing.T) []models.Chat {
	t.Helper()
	var out []models.Chat
	require.NoError(t, h.db.Order("created_at ASC").Find(&out).Error)
	return out
}

func (h *harness) activeChat(t *testing.T) models.Chat {
	t.Helper()
	var c models.Chat
	require.NoError(t, h.db.Where("finished = ?", false).Order("created_at DESC").First(&c).Error)
	return c
}

func (h *harness) appointments(t *testing.T) []models.Appointment {
	t.Helper()
	var out []models.Appointment
	require.NoError(t, h.db.Find(&out).Error)
	return out
}

// reachTime walks a known customer up to the time prompt.
func (h *harness) reachTime(t *testing.T) {
	t.Helper()
	h.send(t, domain.Event{Text: "oi"})
	h.send(t, domain.Event{ListRowID: "2025-01-16", ListTitle: "16/01/2025"})
	require.Equal(t, msgPickTime, h.msgs.Last().Message)
}

// ======================================================
// Identity and auto-selection
// ======================================================

func TestHandle_KnownCustomerSkipsToFirstChoice(t *testing.T) {
	h := newHarness(t, 1000)
	require.NoError(t, h.db.Create(&models.Service{BarbershopID: h.fx.Shop.ID, Name: "Barba", Amount: 800}).Error)

	h.send(t, domain.Event{Text: "oi"})

	assert.Equal(t, []string{"text", "options"}, h.msgs.Kinds())
	assert.Contains(t, h.msgs.Sent[0].Message, "Fala Ana!")

	last := h.msgs.Last()
	assert.Equal(t, msgPickService, last.Message)
	require.Len(t, last.Options, 2)
	assert.Equal(t, "Valor: R$ 8,00", last.Options[0].Description)

	c := h.activeChat(t)
	assert.Equal(t, h.fx.Customer.ID, c.CustomerID)
	assert.Equal(t, h.fx.Shop.ID, c.BarbershopID)
	// the only barber was picked without asking
	assert.Equal(t, h.fx.Barber.ID, c.BarberID)
	assert.Empty(t, c.ServiceID)
}

func TestHandle_SingleServiceGoesStraightToDates(t *testing.T) {
	h := newHarness(t, 1000)

	h.send(t, domain.Event{Text: "oi"})

	last := h.msgs.Last()
	require.Equal(t, msgPickDate, last.Message)
	require.NotEmpty(t, last.Options)
	assert.Equal(t, "2025-01-16", last.Options[0].ID)
	assert.Equal(t, "16/01/2025", last.Options[0].Title)
	assert.Equal(t, "Quinta-feira", last.Options[0].Description)
}

func TestHandle_SignupCreatesCustomer(t *testing.T) {
	h := newHarness(t, 1000)
	phone := "5511912345678"

	h.send(t, domain.Event{Phone: phone, Text: "oi", SenderName: "Bruno Lima"})
	assert.Equal(t, msgAskEmail("Bruno"), h.msgs.Last().Message)

	h.send(t, domain.Event{Phone: phone, Text: "not-an-email", SenderName: "Bruno Lima"})
	assert.Equal(t, msgAskEmail("Bruno"), h.msgs.Last().Message)

	h.send(t, domain.Event{Phone: phone, Text: "Bruno@Example.com", SenderName: "Bruno Lima"})
	assert.Equal(t, msgAskCPF("Bruno"), h.msgs.Last().Message)

	h.send(t, domain.Event{Phone: phone, Text: "123.456.789-00", SenderName: "Bruno Lima"})
	assert.Equal(t, msgAskCPF("Bruno"), h.msgs.Last().Message)

	h.msgs.Reset()
	h.send(t, domain.Event{Phone: phone, Text: "111.444.777-35", SenderName: "Bruno Lima"})

	var customer models.Customer
	require.NoError(t, h.db.Where("email = ?", "bruno@example.com").First(&customer).Error)
	assert.Equal(t, "11912345678", customer.Phone)
	assert.Equal(t, "11144477735", customer.Document)
	assert.NotEmpty(t, customer.PasswordHash)

	require.GreaterOrEqual(t, len(h.msgs.Sent), 2)
	assert.Contains(t, h.msgs.Sent[0].Message, "sua conta foi criada com sucesso")
	assert.Contains(t, h.msgs.Sent[0].Message, "https://horacerta.test")
	assert.Equal(t, msgPickDate, h.msgs.Last().Message)

	require.Len(t, h.mailer.sent, 1)
	assert.Equal(t, "bruno@example.com", h.mailer.sent[0].To)

	c := h.activeChat(t)
	assert.Equal(t, customer.ID, c.CustomerID)
}

func TestHandle_EmailAlreadyInUse(t *testing.T) {
	h := newHarness(t, 1000)
	phone := "5511912345678"

	h.send(t, domain.Event{Phone: phone, Text: "oi", SenderName: "Bruno"})
	h.send(t, domain.Event{Phone: phone, Text: h.fx.Customer.Email, SenderName: "Bruno"})

	assert.Equal(t, msgEmailTaken("Bruno"), h.msgs.Last().Message)
	assert.Empty(t, h.activeChat(t).Email)
}

func TestHandle_NoShopsFinishesChat(t *testing.T) {
	h := newHarness(t, 1000)
	require.NoError(t, h.db.Model(&h.fx.Shop).Update("hidden", true).Error)

	h.send(t, domain.Event{Text: "oi"})

	assert.Equal(t, msgNoShops, h.msgs.Last().Message)
	chats := h.chats(t)
	require.Len(t, chats, 1)
	assert.True(t, chats[0].Finished)
}

func TestHandle_StafflessShopIsOfferedAgain(t *testing.T) {
	h := newHarness(t, 1000)
	require.NoError(t, h.db.Delete(&h.fx.Schedule).Error)
	require.NoError(t, h.db.Delete(&h.fx.Barber).Error)

	h.send(t, domain.Event{Text: "oi"})

	kinds := h.msgs.Kinds()
	require.Equal(t, []string{"text", "text", "options"}, kinds)
	assert.Equal(t, msgNoStaff, h.msgs.Sent[1].Message)
	// single shop is listed instead of auto-picked after the restart
	assert.Equal(t, msgPickShop, h.msgs.Last().Message)
	assert.Empty(t, h.activeChat(t).BarbershopID)
}

// ======================================================
// Booking
// ======================================================

func TestHandle_ConfirmBooksAppointment(t *testing.T) {
	h := newHarness(t, 1000)
	testsupport.Credit(t, h.db, h.fx.Customer.ID, h.fx.Shop.ID, 2500)

	h.reachTime(t)
	h.send(t, domain.Event{ListRowID: h.fx.Schedule.ID, ListTitle: "10:00"})

	last := h.msgs.Last()
	require.Equal(t, "buttons", last.Kind)
	require.Len(t, last.Buttons, 2)
	assert.Equal(t, domain.ButtonConfirm, last.Buttons[0].ID)
	assert.Empty(t, h.appointments(t))

	h.msgs.Reset()
	h.send(t, domain.Event{ButtonID: domain.ButtonConfirm})

	aps := h.appointments(t)
	require.Len(t, aps, 1)
	assert.Equal(t, h.fx.Schedule.ID, aps[0].ScheduleID)

	assert.Equal(t, []string{"text", "contact"}, h.msgs.Kinds())
	assert.Equal(t, msgBooked("Corte", h.fx.Shop.Name, "16/01/2025", "10:00"), h.msgs.Sent[0].Message)
	assert.Equal(t, h.fx.Shop.Phone, h.msgs.Last().Contact.Phone)

	chats := h.chats(t)
	require.Len(t, chats, 1)
	assert.True(t, chats[0].Finished)
	assert.Equal(t, aps[0].ID, chats[0].AppointmentID)

	bal, err := h.balances.LedgerBalance(context.Background(), h.fx.Customer.ID, h.fx.Shop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), bal)
}

func TestHandle_BookingRejectedReoffersTimes(t *testing.T) {
	h := newHarness(t, 1000)
	testsupport.Credit(t, h.db, h.fx.Customer.ID, h.fx.Shop.ID, 2500)

	h.reachTime(t)
	h.send(t, domain.Event{ListRowID: h.fx.Schedule.ID, ListTitle: "10:00"})

	// same customer books the day elsewhere before confirming
	_, err := h.booking.Execute(context.Background(), apusecase.CreateAppointmentInput{
		BarberID:     h.fx.Barber.ID,
		CustomerID:   h.fx.Customer.ID,
		BarbershopID: h.fx.Shop.ID,
		ScheduleID:   h.fx.Schedule.ID,
		ServiceID:    h.fx.Service.ID,
		Date:         "2025-01-16",
	})
	require.NoError(t, err)

	h.msgs.Reset()
	h.send(t, domain.Event{ButtonID: domain.ButtonConfirm})

	require.Equal(t, []string{"text", "options"}, h.msgs.Kinds())
	assert.Contains(t, h.msgs.Sent[0].Message, "Não foi possível agendar")
	assert.Equal(t, msgPickTime, h.msgs.Last().Message)

	c := h.activeChat(t)
	assert.Empty(t, c.Time)
	assert.Empty(t, c.ScheduleID)
	assert.Len(t, h.appointments(t), 1)
}

func TestHandle_InsufficientBalanceRequestsPayment(t *testing.T) {
	h := newHarness(t, 1000)

	h.reachTime(t)
	h.msgs.Reset()
	h.send(t, domain.Event{ListRowID: h.fx.Schedule.ID, ListTitle: "10:00"})

	assert.Equal(t, []string{"text", "pix"}, h.msgs.Kinds())
	assert.Equal(t, "PIX-1001", h.msgs.Last().Message)
	require.Len(t, h.gateway.Charges, 1)
	assert.Equal(t, int64(1000), h.gateway.Charges[0].Amount)
	assert.Empty(t, h.appointments(t))

	c := h.activeChat(t)
	assert.NotEmpty(t, c.OrderID)
	assert.Equal(t, "PIX-1001", c.PixCode)

	// another message re-sends the pending code
	h.msgs.Reset()
	h.send(t, domain.Event{Text: "já paguei"})
	assert.Equal(t, []string{"text", "pix"}, h.msgs.Kinds())
	assert.Len(t, h.gateway.Charges, 1)
}

func TestResume_AfterPaymentAsksConfirmation(t *testing.T) {
	h := newHarness(t, 1000)

	h.reachTime(t)
	h.send(t, domain.Event{ListRowID: h.fx.Schedule.ID, ListTitle: "10:00"})
	require.Len(t, h.gateway.Charges, 1)

	h.gateway.Approve("1001")
	webhook := payment.NewHandleWebhook(
		repository.NewBillingGormRepository(h.db),
		h.gateway,
		h.engine,
		nil,
		logging.Discard(),
		func() time.Time { return h.now },
	)

	h.msgs.Reset()
	res, err := webhook.Execute(context.Background(), payment.WebhookInput{Type: "payment", GatewayID: "1001"})
	require.NoError(t, err)
	assert.True(t, res.Processed)

	assert.Equal(t, []string{"buttons"}, h.msgs.Kinds())

	c := h.activeChat(t)
	assert.Empty(t, c.OrderID)
	assert.Empty(t, c.PixCode)

	h.send(t, domain.Event{ButtonID: domain.ButtonConfirm})
	assert.Len(t, h.appointments(t), 1)
}

func TestResume_AfterShortfallPaymentAsksConfirmation(t *testing.T) {
	h := newHarness(t, 1000)
	testsupport.Credit(t, h.db, h.fx.Customer.ID, h.fx.Shop.ID, 500)

	h.reachTime(t)
	h.send(t, domain.Event{ListRowID: h.fx.Schedule.ID, ListTitle: "10:00"})
	require.Len(t, h.gateway.Charges, 1)
	assert.Equal(t, int64(500), h.gateway.Charges[0].Amount)

	h.gateway.Approve("1001")
	webhook := payment.NewHandleWebhook(
		repository.NewBillingGormRepository(h.db),
		h.gateway,
		h.engine,
		nil,
		logging.Discard(),
		func() time.Time { return h.now },
	)

	h.msgs.Reset()
	_, err := webhook.Execute(context.Background(), payment.WebhookInput{Type: "payment", GatewayID: "1001"})
	require.NoError(t, err)
	assert.Equal(t, []string{"buttons"}, h.msgs.Kinds())

	cached, err := h.balances.WalletBalance(context.Background(), h.fx.Customer.ID, h.fx.Shop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), cached)

	h.send(t, domain.Event{ButtonID: domain.ButtonConfirm})
	assert.Len(t, h.appointments(t), 1)
	assert.Len(t, h.gateway.Charges, 1)
}

func TestHandle_PaymentFailureClearsTime(t *testing.T) {
	h := newHarness(t, 1000)
	h.gateway.Err = assert.AnError

	h.reachTime(t)
	h.send(t, domain.Event{ListRowID: h.fx.Schedule.ID, ListTitle: "10:00"})

	assert.Equal(t, msgPaymentError, h.msgs.Last().Message)
	c := h.activeChat(t)
	assert.Empty(t, c.Time)
	assert.Empty(t, c.OrderID)
}

// ======================================================
// Global commands
// ======================================================

func TestHandle_ResetTextStartsOver(t *testing.T) {
	h := newHarness(t, 1000)

	h.reachTime(t)
	first := h.activeChat(t)

	h.msgs.Reset()
	h.send(t, domain.Event{Text: "Resetar"})

	chats := h.chats(t)
	require.Len(t, chats, 2)
	assert.Equal(t, first.ID, chats[0].ID)
	assert.True(t, chats[0].Finished)
	assert.Empty(t, chats[0].BarbershopID)

	assert.Contains(t, h.msgs.Sent[0].Message, "*resetar*")
	assert.Equal(t, msgPickDate, h.msgs.Last().Message)
}

func TestHandle_ResetButtonKeepsIdentity(t *testing.T) {
	h := newHarness(t, 1000)
	testsupport.Credit(t, h.db, h.fx.Customer.ID, h.fx.Shop.ID, 2500)

	h.reachTime(t)
	h.send(t, domain.Event{ListRowID: h.fx.Schedule.ID, ListTitle: "10:00"})
	before := h.activeChat(t)
	require.NotEmpty(t, before.Time)

	h.send(t, domain.Event{ButtonID: domain.ButtonReset})

	after := h.activeChat(t)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, h.fx.Customer.ID, after.CustomerID)
	assert.Empty(t, after.Date)
	assert.Empty(t, after.Time)
	assert.Empty(t, after.ScheduleID)
	assert.Equal(t, msgPickDate, h.msgs.Last().Message)
}

func TestHandle_CancelFlowRefunds(t *testing.T) {
	h := newHarness(t, 1000)
	testsupport.Credit(t, h.db, h.fx.Customer.ID, h.fx.Shop.ID, 1000)

	ap, err := h.booking.Execute(context.Background(), apusecase.CreateAppointmentInput{
		BarberID:     h.fx.Barber.ID,
		CustomerID:   h.fx.Customer.ID,
		BarbershopID: h.fx.Shop.ID,
		ScheduleID:   h.fx.Schedule.ID,
		ServiceID:    h.fx.Service.ID,
		Date:         "2025-01-16",
	})
	require.NoError(t, err)

	h.send(t, domain.Event{Text: "cancelar"})

	last := h.msgs.Last()
	require.Equal(t, msgPickCancel, last.Message)
	require.Len(t, last.Options, 1)
	assert.Equal(t, ap.ID, last.Options[0].ID)
	assert.Equal(t, "16/01/2025 10:00", last.Options[0].Title)
	assert.True(t, h.activeChat(t).IsCanceling)

	h.send(t, domain.Event{ListRowID: ap.ID, ListTitle: "16/01/2025 10:00"})

	assert.Equal(t, msgCancelled(1000), h.msgs.Last().Message)
	assert.Empty(t, h.appointments(t))

	bal, err := h.balances.LedgerBalance(context.Background(), h.fx.Customer.ID, h.fx.Shop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), bal)

	chats := h.chats(t)
	require.Len(t, chats, 1)
	assert.True(t, chats[0].Finished)
	assert.False(t, chats[0].IsCanceling)
}

func TestHandle_CancelWithoutAppointments(t *testing.T) {
	h := newHarness(t, 1000)

	h.send(t, domain.Event{Text: "cancelar"})

	assert.Equal(t, msgNothingToCancel, h.msgs.Last().Message)
	assert.False(t, h.activeChat(t).IsCanceling)
}

// ======================================================
// Session freshness
// ======================================================

func TestHandle_StaleChatIsNotResumed(t *testing.T) {
	h := newHarness(t, 1000)

	h.send(t, domain.Event{Text: "oi"})
	stale := h.activeChat(t)
	require.NoError(t, h.db.Model(&models.Chat{}).
		Where("id = ?", stale.ID).
		Update("created_at", h.now.Add(-30*time.Minute).UTC()).Error)

	h.send(t, domain.Event{Text: "oi"})

	chats := h.chats(t)
	require.Len(t, chats, 2)
	assert.NotEqual(t, stale.ID, h.activeChat(t).ID)
}

func TestHandle_RecentChatIsResumed(t *testing.T) {
	h := newHarness(t, 1000)

	h.send(t, domain.Event{Text: "oi"})
	h.send(t, domain.Event{Text: "oi de novo"})

	assert.Len(t, h.chats(t), 1)
}

func TestHandle_ConcurrentEventsShareOneChat(t *testing.T) {
	h := newHarness(t, 1000)

	var wg sync.WaitGroup
	for _, text := range []string{"oi", "olá"} {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			assert.NoError(t, h.engine.Handle(context.Background(), domain.Event{
				Phone:      knownPhone,
				SenderName: "Ana Souza",
				Text:       text,
			}))
		}(text)
	}
	wg.Wait()

	assert.Len(t, h.chats(t), 1)
}

func TestHandle_RequiresPhone(t *testing.T) {
	h := newHarness(t, 1000)
	err := h.engine.Handle(context.Background(), domain.Event{Text: "oi"})
	assert.ErrorIs(t, err, ErrMissingPhone)
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 0,05", formatBRL(5))
	assert.Equal(t, "R$ 35,00", formatBRL(3500))
	assert.Equal(t, "R$ 1.234,56", formatBRL(123456))
	assert.Equal(t, "-R$ 10,00", formatBRL(-1000))
}
