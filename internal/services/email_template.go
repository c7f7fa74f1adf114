package services

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/joshua-takyi/patinhas/internal/models"
)

var weekdaysPT = [...]string{
	"domingo", "segunda-feira", "terça-feira", "quarta-feira",
	"quinta-feira", "sexta-feira", "sábado",
}

var monthsPT = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// FormatDatePT renders a YYYY-MM-DD date as a long Brazilian Portuguese
// date. The date has no timezone and is never shifted. Unparseable input is
// returned as is.
func FormatDatePT(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s, %d de %s de %d", weekdaysPT[d.Weekday()], d.Day(), monthsPT[d.Month()-1], d.Year())
}

// FormatPriceBRL renders 45 as "R$ 45,00".
func FormatPriceBRL(price float64) string {
	return "R$ " + strings.Replace(fmt.Sprintf("%.2f", price), ".", ",", 1)
}

func ConfirmationSubject(petName string) string {
	return fmt.Sprintf("🐾 Agendamento Confirmado para %s!", petName)
}

type confirmationView struct {
	OwnerName       string
	PetName         string
	ServiceName     string
	Date            string
	Time            string
	ServiceDuration string
	Price           string
	PetBreed        string
	PetSize         string
	PetAge          string
	PetNotes        string
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9f9f9;">
  <div style="background: linear-gradient(135deg, #ec4899, #f97316); padding: 30px; border-radius: 15px; text-align: center; margin-bottom: 30px;">
    <h1 style="color: white; margin: 0; font-size: 28px;">🐾 Patinhas Pet Pamper</h1>
    <p style="color: white; margin: 10px 0 0 0; font-size: 16px;">Confirmação de Agendamento</p>
  </div>
  <div style="background: white; padding: 30px; border-radius: 15px;">
    <h2 style="color: #1f2937; margin-bottom: 20px;">Olá {{.OwnerName}}! 👋</h2>
    <p style="color: #4b5563; font-size: 16px; line-height: 1.6;">
      Recebemos seu agendamento para o <strong>{{.PetName}}</strong> e estamos muito animados para cuidar do seu pet!
    </p>
    <div style="background: #fef3f2; border-left: 4px solid #ec4899; padding: 20px; margin: 25px 0; border-radius: 8px;">
      <h3 style="color: #dc2626; margin: 0 0 15px 0;">📅 Detalhes do Agendamento</h3>
      <p style="margin: 8px 0;"><strong>Serviço:</strong> {{.ServiceName}}</p>
      <p style="margin: 8px 0;"><strong>Data:</strong> {{.Date}}</p>
      <p style="margin: 8px 0;"><strong>Horário:</strong> {{.Time}}</p>
      <p style="margin: 8px 0;"><strong>Duração:</strong> {{.ServiceDuration}}</p>
      <p style="margin: 8px 0;"><strong>Valor:</strong> {{.Price}}</p>
    </div>
    <div style="background: #f0f9ff; border-left: 4px solid #3b82f6; padding: 20px; margin: 25px 0; border-radius: 8px;">
      <h3 style="color: #1d4ed8; margin: 0 0 15px 0;">🐕 Informações do Pet</h3>
      <p style="margin: 8px 0;"><strong>Nome:</strong> {{.PetName}}</p>
      {{- if .PetBreed}}
      <p style="margin: 8px 0;"><strong>Raça:</strong> {{.PetBreed}}</p>
      {{- end}}
      {{- if .PetSize}}
      <p style="margin: 8px 0;"><strong>Tamanho:</strong> {{.PetSize}}</p>
      {{- end}}
      {{- if .PetAge}}
      <p style="margin: 8px 0;"><strong>Idade:</strong> {{.PetAge}}</p>
      {{- end}}
      {{- if .PetNotes}}
      <p style="margin: 8px 0;"><strong>Observações:</strong> {{.PetNotes}}</p>
      {{- end}}
    </div>
    <div style="border-top: 2px solid #e5e7eb; padding-top: 25px; margin-top: 30px;">
      <h3 style="color: #374151; margin-bottom: 15px;">✅ Confirmação de Agendamento</h3>
      <p style="color: #4b5563; line-height: 1.6;">
        Seu agendamento foi <strong>confirmado com sucesso</strong>! Aguardamos você e o {{.PetName}} na data e horário marcados.
      </p>
      <p style="color: #4b5563; line-height: 1.6;">
        Se precisar fazer alguma alteração ou tiver dúvidas, responda a este email que entraremos em contato.
      </p>
    </div>
    <div style="text-align: center; margin-top: 30px; padding-top: 25px; border-top: 2px solid #e5e7eb;">
      <p style="color: #6b7280; font-size: 14px; margin: 0;">Obrigado por confiar no Patinhas Pet Pamper! 🐾❤️</p>
    </div>
  </div>
</div>
`))

// RenderConfirmationEmail builds the HTML body for a saved booking.
func RenderConfirmationEmail(b *models.Booking) (string, error) {
	view := confirmationView{
		OwnerName:       b.OwnerName,
		PetName:         b.PetName,
		ServiceName:     b.ServiceName,
		Date:            FormatDatePT(b.BookingDate),
		Time:            b.TimeSlot(),
		ServiceDuration: b.ServiceDuration,
		Price:           FormatPriceBRL(b.ServicePrice),
		PetBreed:        strings.TrimSpace(models.Deref(b.PetBreed)),
		PetSize:         strings.TrimSpace(models.Deref(b.PetSize)),
		PetAge:          strings.TrimSpace(models.Deref(b.PetAge)),
		PetNotes:        strings.TrimSpace(models.Deref(b.PetNotes)),
	}

	var buf bytes.Buffer
	if err := confirmationTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to render confirmation email: %w", err)
	}
	return buf.String(), nil
}
