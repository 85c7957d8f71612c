package chat

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/horacerta/internal/domain/balance"
	domain "github.com/BruksfildServices01/horacerta/internal/domain/chat"
	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/models"
	"github.com/BruksfildServices01/horacerta/internal/notify"
	"github.com/BruksfildServices01/horacerta/internal/timezone"
	apusecase "github.com/BruksfildServices01/horacerta/internal/usecase/appointment"
	"github.com/BruksfildServices01/horacerta/internal/usecase/payment"
	"github.com/BruksfildServices01/horacerta/internal/validators"
)

const passwordLength = 8

// ======================================================
// IDENTITY
// ======================================================

func (e *Engine) start(ctx context.Context, t *turn) (next, error) {
	c := &models.Chat{Phone: t.ev.Phone, Name: t.ev.SenderName}
	if err := e.deps.Repo.Create(ctx, c); err != nil {
		return await, fmt.Errorf("chat: create: %w", err)
	}
	t.chat = c

	if err := e.text(ctx, c.Phone, msgGreeting(validators.FirstName(c.Name))); err != nil {
		return await, err
	}
	// the first message may already answer the next question
	return reenter, nil
}

// linkByPhone attaches an existing customer whose phone matches the chat.
func (e *Engine) linkByPhone(ctx context.Context, c *models.Chat) (bool, error) {
	customer, err := e.deps.Repo.FindCustomerByPhone(ctx, validators.NormalizeBRPhone(c.Phone))
	if err != nil {
		return false, fmt.Errorf("chat: find customer: %w", err)
	}
	if customer == nil {
		return false, nil
	}

	c.CustomerID = customer.ID
	c.Email = customer.Email
	c.Document = customer.Document
	if customer.Name != "" {
		c.Name = customer.Name
	}
	return true, e.save(ctx, c)
}

func (e *Engine) email(ctx context.Context, t *turn) (next, error) {
	c := t.chat
	first := validators.FirstName(c.Name)

	linked, err := e.linkByPhone(ctx, c)
	if err != nil {
		return await, err
	}
	if linked {
		return reenter, nil
	}

	if !t.ev.HasText() || !validators.IsEmail(t.ev.Text) {
		return await, e.text(ctx, c.Phone, msgAskEmail(first))
	}

	email := validators.NormalizeEmail(t.ev.Text)
	inUse, err := e.deps.Repo.EmailInUse(ctx, email)
	if err != nil {
		return await, fmt.Errorf("chat: email lookup: %w", err)
	}
	if inUse {
		return await, e.text(ctx, c.Phone, msgEmailTaken(first))
	}

	c.Email = email
	if err := e.save(ctx, c); err != nil {
		return await, err
	}
	return proceed, nil
}

func (e *Engine) document(ctx context.Context, t *turn) (next, error) {
	c := t.chat
	first := validators.FirstName(c.Name)

	linked, err := e.linkByPhone(ctx, c)
	if err != nil {
		return await, err
	}
	if linked {
		return reenter, nil
	}

	doc := validators.OnlyDigits(t.ev.Text)
	if !validators.IsValidCPF(doc) {
		return await, e.text(ctx, c.Phone, msgAskCPF(first))
	}

	password, err := validators.GenerateNumericPassword(passwordLength)
	if err != nil {
		return await, fmt.Errorf("chat: password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return await, fmt.Errorf("chat: hash password: %w", err)
	}

	name := c.Name
	if name == "" {
		name = "Cliente"
	}
	customer := &models.Customer{
		Name:         name,
		Email:        c.Email,
		Phone:        validators.NormalizeBRPhone(c.Phone),
		Document:     doc,
		PasswordHash: string(hash),
	}

	c.Document = doc
	if err := e.deps.Repo.CreateCustomer(ctx, c, customer); err != nil {
		if !httperr.IsUniqueViolation(err) {
			return await, fmt.Errorf("chat: create customer: %w", err)
		}
		// the email was taken between the two answers
		c.Email = ""
		c.Document = ""
		if err := e.save(ctx, c); err != nil {
			return await, err
		}
		return await, e.text(ctx, c.Phone, msgEmailTaken(first))
	}

	e.deps.Logger.Info("chat: customer created", "customer_id", customer.ID, "chat_id", c.ID)

	if err := e.text(ctx, c.Phone, msgAccountCreated(first, c.Email, password, e.cfg.SiteURL)); err != nil {
		return await, err
	}
	if err := e.deps.Mailer.Send(ctx, notify.CredentialsEmail(c.Email, name, password, e.cfg.SiteURL)); err != nil {
		e.deps.Logger.Warn("chat: credentials email failed", "customer_id", customer.ID, "error", err)
	}

	return proceed, nil
}

// ======================================================
// CATALOG
// ======================================================

func (e *Engine) shop(ctx context.Context, t *turn) (next, error) {
	c := t.chat

	shops, err := e.deps.Repo.ListShops(ctx, e.cfg.HiddenShopIDs)
	if err != nil {
		return await, fmt.Errorf("chat: list shops: %w", err)
	}

	if len(shops) == 0 {
		c.Finished = true
		if err := e.save(ctx, c); err != nil {
			return await, err
		}
		return await, e.text(ctx, c.Phone, msgNoShops)
	}

	if picked, ok := choose(t, shops, func(s models.Barbershop) string { return s.ID }); ok {
		c.BarbershopID = picked.ID
		if err := e.save(ctx, c); err != nil {
			return await, err
		}
		return proceed, nil
	}

	opts := make([]domain.Option, 0, len(shops))
	for _, s := range shops {
		opts = append(opts, domain.Option{ID: s.ID, Title: s.Name, Description: "Agendar em: " + s.Name})
	}
	return await, e.options(ctx, c.Phone, msgPickShop, opts)
}

func (e *Engine) staff(ctx context.Context, t *turn) (next, error) {
	c := t.chat

	barbers, err := e.deps.Repo.ListBarbers(ctx, c.BarbershopID)
	if err != nil {
		return await, fmt.Errorf("chat: list barbers: %w", err)
	}

	if len(barbers) == 0 {
		return e.restart(ctx, t, msgNoStaff)
	}

	if picked, ok := choose(t, barbers, func(b models.Barber) string { return b.ID }); ok {
		c.BarberID = picked.ID
		if err := e.save(ctx, c); err != nil {
			return await, err
		}
		return proceed, nil
	}

	opts := make([]domain.Option, 0, len(barbers))
	for _, b := range barbers {
		opts = append(opts, domain.Option{ID: b.ID, Title: b.Name, Description: "Agendar com: " + b.Name})
	}
	return await, e.options(ctx, c.Phone, msgPickStaff, opts)
}

func (e *Engine) service(ctx context.Context, t *turn) (next, error) {
	c := t.chat

	shop, err := e.deps.Repo.GetShop(ctx, c.BarbershopID)
	if err != nil {
		return await, fmt.Errorf("chat: get shop: %w", err)
	}
	services, err := e.deps.Repo.ListServices(ctx, c.BarbershopID)
	if err != nil {
		return await, fmt.Errorf("chat: list services: %w", err)
	}

	if len(services) == 0 {
		return e.restart(ctx, t, msgNoServices)
	}

	if picked, ok := choose(t, services, func(s models.Service) string { return s.ID }); ok {
		c.ServiceID = picked.ID
		if err := e.save(ctx, c); err != nil {
			return await, err
		}
		return proceed, nil
	}

	opts := make([]domain.Option, 0, len(services))
	for _, s := range services {
		opts = append(opts, domain.Option{
			ID:          s.ID,
			Title:       s.Name,
			Description: "Valor: " + formatBRL(displayPrice(s.Amount, shop.Fee)),
		})
	}
	return await, e.options(ctx, c.Phone, msgPickService, opts)
}

// restart tells the customer the branch is empty, drops every booking slot
// and starts over without auto-selection.
func (e *Engine) restart(ctx context.Context, t *turn, message string) (next, error) {
	c := t.chat
	domain.ClearBooking(c)
	if err := e.save(ctx, c); err != nil {
		return await, err
	}
	if err := e.text(ctx, c.Phone, message); err != nil {
		return await, err
	}
	t.restarted = true
	return proceed, nil
}

// ======================================================
// DATE / TIME
// ======================================================

func (e *Engine) date(ctx context.Context, t *turn) (next, error) {
	c := t.chat

	shop, err := e.deps.Repo.GetShop(ctx, c.BarbershopID)
	if err != nil {
		return await, fmt.Errorf("chat: get shop: %w", err)
	}
	loc := e.location(shop)

	dates, err := e.deps.Availability.Dates(ctx, c.BarbershopID, c.BarberID)
	if err != nil {
		return await, fmt.Errorf("chat: bookable dates: %w", err)
	}

	if len(dates) == 0 {
		return e.restart(ctx, t, msgNoDates)
	}

	var selected string
	if t.ev.HasListSelection() {
		selected = t.ev.ListRowID
		if d, ok := validators.ParseBRDate(t.ev.ListTitle, loc); ok {
			selected = timezone.FormatDate(d)
		}
	}
	if selected != "" {
		for _, d := range dates {
			if timezone.FormatDate(d.Date) == selected {
				c.Date = selected
				if err := e.save(ctx, c); err != nil {
					return await, err
				}
				return proceed, nil
			}
		}
	}

	opts := make([]domain.Option, 0, len(dates))
	for _, d := range dates {
		opts = append(opts, domain.Option{
			ID:          timezone.FormatDate(d.Date),
			Title:       validators.FormatBRDate(d.Date),
			Description: weekdayName(d.Date.Weekday()),
		})
	}
	return await, e.options(ctx, c.Phone, msgPickDate, opts)
}

func (e *Engine) timeSlot(ctx context.Context, t *turn) (next, error) {
	c := t.chat

	times, err := e.deps.Availability.Times(ctx, c.BarbershopID, c.BarberID, c.Date)
	if err != nil && httperr.KindOf(err) != httperr.KindValidation {
		return await, fmt.Errorf("chat: bookable times: %w", err)
	}

	if len(times) == 0 {
		domain.ClearFromDate(c)
		if err := e.save(ctx, c); err != nil {
			return await, err
		}
		if err := e.text(ctx, c.Phone, msgNoTimes); err != nil {
			return await, err
		}
		return proceed, nil
	}

	if t.ev.HasListSelection() {
		for _, s := range times {
			if s.ID == t.ev.ListRowID {
				c.ScheduleID = s.ID
				c.Time = s.Time
				if err := e.save(ctx, c); err != nil {
					return await, err
				}
				return proceed, nil
			}
		}
	}

	opts := make([]domain.Option, 0, len(times))
	for _, s := range times {
		opts = append(opts, domain.Option{ID: s.ID, Title: s.Time})
	}
	return await, e.options(ctx, c.Phone, msgPickTime, opts)
}

// ======================================================
// CONFIRMATION / PAYMENT
// ======================================================

func (e *Engine) confirm(ctx context.Context, t *turn) (next, error) {
	c := t.chat

	shop, err := e.deps.Repo.GetShop(ctx, c.BarbershopID)
	if err != nil {
		return await, fmt.Errorf("chat: get shop: %w", err)
	}
	service, err := e.deps.Repo.GetService(ctx, c.ServiceID)
	if err != nil {
		return await, fmt.Errorf("chat: get service: %w", err)
	}

	wallet, err := e.deps.Wallet.WalletBalance(ctx, c.CustomerID, c.BarbershopID)
	if err != nil {
		return await, fmt.Errorf("chat: wallet: %w", err)
	}

	day := c.Date
	if d, err := timezone.ParseDate(c.Date, e.location(shop)); err == nil {
		day = validators.FormatBRDate(d)
	}

	if wallet < service.Amount {
		return e.requestPayment(ctx, t, wallet, service)
	}

	// paid: the pending order is settled
	if c.OrderID != "" || c.PixCode != "" {
		c.OrderID = ""
		c.PixCode = ""
		if err := e.save(ctx, c); err != nil {
			return await, err
		}
	}

	if !t.ev.IsConfirmButton() {
		return await, e.buttons(ctx, c.Phone,
			msgConfirm(service.Name, shop.Name, day, c.Time),
			[]domain.Button{
				{ID: domain.ButtonConfirm, Label: "Confirmar"},
				{ID: domain.ButtonReset, Label: "Recomeçar"},
			},
		)
	}

	ap, err := e.deps.Booker.Execute(ctx, apusecase.CreateAppointmentInput{
		BarberID:     c.BarberID,
		CustomerID:   c.CustomerID,
		BarbershopID: c.BarbershopID,
		ScheduleID:   c.ScheduleID,
		ServiceID:    c.ServiceID,
		Date:         c.Date,
		Source:       "chat",
	})
	if err != nil {
		return e.bookingFailed(ctx, t, err)
	}

	c.AppointmentID = ap.ID
	c.Finished = true
	if err := e.save(ctx, c); err != nil {
		return await, err
	}

	if err := e.text(ctx, c.Phone, msgBooked(service.Name, shop.Name, day, c.Time)); err != nil {
		return await, err
	}
	if shop.Phone != "" {
		if err := e.deps.Messenger.SendContact(ctx, c.Phone, domain.Contact{Name: shop.Name, Phone: shop.Phone}); err != nil {
			e.deps.Logger.Warn("chat: contact card failed", "chat_id", c.ID, "error", err)
		}
	}
	return await, nil
}

// bookingFailed drops the chosen time and asks for another one.
func (e *Engine) bookingFailed(ctx context.Context, t *turn, cause error) (next, error) {
	c := t.chat

	message := msgBookingError
	switch httperr.KindOf(cause) {
	case httperr.KindValidation, httperr.KindConflict, httperr.KindNotFound, httperr.KindInsufficientBalance:
		if m := httperr.MessageOf(cause); m != "" {
			message = msgBookingRejected(m)
		}
	default:
		e.deps.Logger.Error("chat: booking failed", "chat_id", c.ID, "error", cause)
	}

	domain.ClearTime(c)
	if err := e.save(ctx, c); err != nil {
		return await, err
	}
	if err := e.text(ctx, c.Phone, message); err != nil {
		return await, err
	}
	return proceed, nil
}

// requestPayment charges the shortfall by PIX, or re-sends the pending code.
func (e *Engine) requestPayment(ctx context.Context, t *turn, wallet int64, service *models.Service) (next, error) {
	c := t.chat

	if c.PixCode != "" {
		if err := e.text(ctx, c.Phone, msgPaymentPending); err != nil {
			return await, err
		}
		if err := e.deps.Messenger.SendPaymentRequest(ctx, c.Phone, c.PixCode); err != nil {
			return await, httperr.External("messaging", msgMessengerDown, err)
		}
		return await, nil
	}

	order, err := e.deps.Orders.Execute(ctx, payment.CreateOrderInput{
		CustomerID:   c.CustomerID,
		BarbershopID: c.BarbershopID,
		ServiceIDs:   []string{service.ID},
		Amount:       balance.Shortfall(wallet, service.Amount),
		ChatID:       c.ID,
	})
	if err != nil {
		e.deps.Logger.Error("chat: order failed", "chat_id", c.ID, "error", err)

		domain.ClearTime(c)
		if err := e.save(ctx, c); err != nil {
			return await, err
		}
		return await, e.text(ctx, c.Phone, msgPaymentError)
	}

	c.OrderID = order.ID
	c.PixCode = order.PixCode
	if err := e.save(ctx, c); err != nil {
		return await, err
	}

	if err := e.text(ctx, c.Phone, msgPaymentRequired(wallet, service.Amount, order.Total)); err != nil {
		return await, err
	}
	if err := e.deps.Messenger.SendPaymentRequest(ctx, c.Phone, order.PixCode); err != nil {
		return await, httperr.External("messaging", msgMessengerDown, err)
	}
	return await, nil
}

// ======================================================
// CANCELLATION
// ======================================================

func (e *Engine) startCancel(ctx context.Context, t *turn) (next, error) {
	c := t.chat

	upcoming, err := e.deps.Upcoming.Execute(ctx, c.CustomerID)
	if err != nil {
		return await, fmt.Errorf("chat: list upcoming: %w", err)
	}
	if len(upcoming) == 0 {
		if c.IsCanceling {
			c.IsCanceling = false
			if err := e.save(ctx, c); err != nil {
				return await, err
			}
		}
		return await, e.text(ctx, c.Phone, msgNothingToCancel)
	}

	if !c.IsCanceling {
		c.IsCanceling = true
		if err := e.save(ctx, c); err != nil {
			return await, err
		}
	}

	opts := make([]domain.Option, 0, len(upcoming))
	for _, ap := range upcoming {
		opts = append(opts, e.appointmentOption(ap))
	}
	return await, e.options(ctx, c.Phone, msgPickCancel, opts)
}

func (e *Engine) cancelSelection(ctx context.Context, t *turn) (next, error) {
	c := t.chat

	if !t.ev.HasListSelection() {
		return e.startCancel(ctx, t)
	}

	ap, err := e.deps.Canceler.Execute(ctx, apusecase.CancelAppointmentInput{
		AppointmentID: t.ev.ListRowID,
		CustomerID:    c.CustomerID,
	})
	if err != nil {
		if httperr.KindOf(err) != httperr.KindNotFound {
			return await, fmt.Errorf("chat: cancel appointment: %w", err)
		}
		if err := e.text(ctx, c.Phone, httperr.MessageOf(err)); err != nil {
			return await, err
		}
		return e.startCancel(ctx, t)
	}

	c.IsCanceling = false
	c.Finished = true
	if err := e.save(ctx, c); err != nil {
		return await, err
	}

	var refund int64
	if ap.Service != nil {
		refund = ap.Service.Amount
	}
	return await, e.text(ctx, c.Phone, msgCancelled(refund))
}

func (e *Engine) appointmentOption(ap models.Appointment) domain.Option {
	when := ap.Date.In(e.location(ap.Barbershop))

	desc := ""
	if ap.Service != nil {
		desc = ap.Service.Name
	}
	if ap.Barbershop != nil {
		if desc != "" {
			desc += " em "
		}
		desc += ap.Barbershop.Name
	}

	return domain.Option{
		ID:          ap.ID,
		Title:       validators.FormatBRDate(when) + " " + when.Format("15:04"),
		Description: desc,
	}
}
