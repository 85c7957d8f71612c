package billing

import "github.com/BruksfildServices01/horacerta/internal/httperr"

var (
	ErrCustomerNotFound     = httperr.Validation("customer_not_found", "Cliente não encontrado.")
	ErrShopNotFound         = httperr.Validation("barbershop_not_found", "Barbearia não encontrada.")
	ErrPlanNotFound         = httperr.Validation("plan_not_found", "Plano não encontrado.")
	ErrBarberNotFound       = httperr.Validation("barber_not_found", "Barbeiro não encontrado.")
	ErrScheduleNotFound     = httperr.Validation("schedule_not_found", "Horário não encontrado para esta barbearia.")
	ErrInvalidAmount        = httperr.Validation("invalid_amount", "Valor inválido.")
	ErrOrderNotFound        = httperr.NotFound("order_not_found", "Pedido não encontrado.")
	ErrSubscriptionNotFound = httperr.NotFound("subscription_not_found", "Assinatura não encontrada.")
	ErrAlreadyCanceled      = httperr.Conflict("subscription_already_canceled", "Assinatura já cancelada.")
	ErrNoRewardAvailable    = httperr.Conflict("no_reward_available", "Nenhuma recompensa disponível.")
)
