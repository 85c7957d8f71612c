package chat

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/horacerta/internal/domain/billing"
)

const (
	msgNoShops     = "Nenhuma empresa para se agendar."
	msgNoStaff     = "Nenhum profissional encontrado nesta empresa."
	msgNoServices  = "Nenhum serviço encontrado nesta empresa."
	msgNoDates     = "Nenhuma data disponível para agendamento."
	msgNoTimes     = "Nenhuma hora disponível para agendamento este dia."
	msgPickShop    = "Selecione a empresa para se agendar:"
	msgPickStaff   = "Selecione o profissional para se agendar:"
	msgPickService = "Selecione o serviço para se agendar:"
	msgPickDate    = "Selecione a data para se agendar:"
	msgPickTime    = "Selecione a hora para se agendar:"
	msgPickCancel  = "Selecione o agendamento que deseja cancelar:"

	msgNothingToCancel = "Você não possui agendamentos futuros para cancelar."
	msgBookingError    = "Ocorreu um erro ao tentar agendar o horário, por favor, tente novamente."
	msgPaymentError    = "Não foi possível gerar o pagamento agora. Por favor, tente novamente em instantes."
	msgPaymentPending  = "Seu pagamento ainda está pendente. Segue novamente o código PIX.\r\nSe deseja resetar o agendamento, digite: *resetar*"
)

func msgGreeting(first string) string {
	return fmt.Sprintf("Fala %s! A qualquer momento, se quiser reiniciar todos os dados do agendamento, digite a palavra: *resetar*", first)
}

func msgAskEmail(first string) string {
	return fmt.Sprintf("Fala %s, para criar seu cadastro, qual o seu e-mail?", first)
}

func msgEmailTaken(first string) string {
	return fmt.Sprintf("%s, este email ja esta cadastrado com outro celular em nossa base.\r\nPor favor, informe outro email.", first)
}

func msgAskCPF(first string) string {
	return fmt.Sprintf("%s, para finalizar seu cadastro, qual o seu cpf?", first)
}

func msgAccountCreated(first, email, password, site string) string {
	return fmt.Sprintf(
		"%s, sua conta foi criada com sucesso!\r\nAgora você pode também se agendar usando o email:\r\n%s\r\na senha:\r\n*_%s_*\r\nno site:\r\n%s\r\n\r\nAgora, vamos continuar com o agendamento aqui mesmo do seu horário!",
		first, email, password, site,
	)
}

func msgConfirm(service, shop, day, hm string) string {
	return fmt.Sprintf("Confirma o agendamento de *%s* em *%s*, dia %s às %s?", service, shop, day, hm)
}

func msgBooked(service, shop, day, hm string) string {
	return fmt.Sprintf("Agendamento de %s realizado com sucesso em %s! Dia %s às %s", service, shop, day, hm)
}

func msgBookingRejected(reason string) string {
	return "Não foi possível agendar: " + reason + "\r\nEscolha outro horário."
}

func msgPaymentRequired(wallet, price, total int64) string {
	return fmt.Sprintf(
		"Seu saldo é de %s e o serviço custa %s.\r\nPara continuar, pague %s via PIX com o código abaixo. Assim que o pagamento for confirmado, seguimos com o seu agendamento.",
		formatBRL(wallet), formatBRL(price), formatBRL(total),
	)
}

func msgCancelled(refund int64) string {
	return fmt.Sprintf("Agendamento cancelado. O valor de %s voltou para o seu saldo.", formatBRL(refund))
}

// displayPrice is the service amount with the platform fee applied.
func displayPrice(amount int64, feePercent int) int64 {
	return amount + billing.PlatformFee(amount, feePercent)
}

// formatBRL renders cents as "R$ 1.234,56".
func formatBRL(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	units := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	for i, r := range units {
		if i > 0 && (len(units)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	return fmt.Sprintf("%sR$ %s,%02d", sign, b.String(), cents%100)
}

var weekdays = [...]string{
	"Domingo",
	"Segunda-feira",
	"Terça-feira",
	"Quarta-feira",
	"Quinta-feira",
	"Sexta-feira",
	"Sábado",
}

func weekdayName(d time.Weekday) string {
	return weekdays[d]
}
