package appointment

import "github.com/BruksfildServices01/horacerta/internal/httperr"

// ===============================
// Booking rejections
// ===============================

var (
	ErrBarberNotFound      = httperr.Validation("barber_not_found", "Barbeiro não encontrado.")
	ErrShopNotFound        = httperr.Validation("barbershop_not_found", "Barbearia não encontrada.")
	ErrCustomerNotFound    = httperr.Validation("customer_not_found", "Cliente não encontrado.")
	ErrScheduleNotFound    = httperr.Validation("schedule_not_found", "Horário não encontrado para esta barbearia.")
	ErrServiceNotFound     = httperr.Validation("service_not_found", "Serviço não encontrado para esta barbearia.")
	ErrScheduleWithoutTime = httperr.Validation("schedule_without_time", "Este horário não possui hora definida.")
	ErrDateInPast          = httperr.Validation("date_in_past", "Não é possível agendar para uma data que já passou.")
	ErrInvalidDate         = httperr.Validation("invalid_date", "Data inválida.")

	ErrAlreadyBooked       = httperr.Conflict("appointment_exists", "Você já possui um agendamento nesta barbearia para este horário.")
	ErrScheduleFull        = httperr.Conflict("schedule_full", "Este horário já está lotado.")
	ErrNoBalance           = httperr.InsufficientBalance("insufficient_balance", "Saldo insuficiente para este serviço.")
	ErrAppointmentNotFound = httperr.NotFound("appointment_not_found", "Agendamento não encontrado.")
)
