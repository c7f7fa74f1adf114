package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joshua-takyi/patinhas/internal/models"
	"github.com/joshua-takyi/patinhas/internal/services"
)

var (
	ErrDateUnavailable = errors.New("date is in the past or a Sunday")
	ErrUnknownService  = errors.New("unknown service")
	ErrUnknownTimeSlot = errors.New("unknown time slot")
	ErrMissingFields   = errors.New("required fields missing")
)

const (
	toastMissingTitle = "Faltam dados"
	toastMissingDesc  = "Por favor, preencha todos os campos obrigatórios."
	toastSuccessTitle = "Reserva confirmada!"
	toastFailureTitle = "Não foi possível concluir o agendamento"
	toastFailureDesc  = "Tente novamente ou fale conosco pelo WhatsApp."
)

type PetInfo struct {
	Name  string
	Breed string
	Size  string
	Age   string
	Notes string
}

type OwnerInfo struct {
	Name  string
	Phone string
	Email string
}

// BookingForm holds the state of one booking being filled in. It is not
// safe for concurrent use.
type BookingForm struct {
	client  *Client
	toaster Toaster
	session *Session
	loc     *time.Location
	now     func() time.Time

	Date    string
	Service *models.Service
	Time    string
	Pet     PetInfo
	Owner   OwnerInfo
}

func NewBookingForm(client *Client, toaster Toaster, loc *time.Location) *BookingForm {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingForm{client: client, toaster: toaster, loc: loc, now: time.Now}
}

// SetSession attaches the signed-in user to future submissions. nil submits
// anonymously.
func (f *BookingForm) SetSession(s *Session) {
	f.session = s
}

// DateSelectable reports whether d can be picked: today or later, and not
// a Sunday.
func (f *BookingForm) DateSelectable(d time.Time) bool {
	now := f.now().In(f.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, f.loc)
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, f.loc)
	return !day.Before(today) && day.Weekday() != time.Sunday
}

func (f *BookingForm) SelectDate(d time.Time) error {
	if !f.DateSelectable(d) {
		return ErrDateUnavailable
	}
	f.Date = d.Format("2006-01-02")
	return nil
}

func (f *BookingForm) SelectService(id string) error {
	svc, ok := models.FindService(id)
	if !ok {
		return ErrUnknownService
	}
	f.Service = &svc
	return nil
}

func (f *BookingForm) SelectTime(slot string) error {
	if !models.IsTimeSlot(slot) {
		return ErrUnknownTimeSlot
	}
	f.Time = slot
	return nil
}

func (f *BookingForm) missingFields() bool {
	return f.Date == "" || f.Service == nil || f.Time == "" ||
		strings.TrimSpace(f.Pet.Name) == "" ||
		strings.TrimSpace(f.Owner.Name) == "" ||
		strings.TrimSpace(f.Owner.Phone) == ""
}

// Request builds the payload. Service fields are copied from the selected
// catalog entry.
func (f *BookingForm) Request() *models.BookingRequest {
	req := &models.BookingRequest{
		BookingDate: f.Date,
		BookingTime: f.Time,
		PetName:     f.Pet.Name,
		PetBreed:    f.Pet.Breed,
		PetSize:     f.Pet.Size,
		PetAge:      f.Pet.Age,
		PetNotes:    f.Pet.Notes,
		OwnerName:   f.Owner.Name,
		OwnerPhone:  f.Owner.Phone,
		OwnerEmail:  f.Owner.Email,
	}
	if f.Service != nil {
		req.ServiceID = f.Service.ID
		req.ServiceName = f.Service.Name
		req.ServicePrice = f.Service.Price
		req.ServiceDuration = f.Service.Duration
	}
	return req
}

// Submit sends the booking once. Missing fields abort before any request.
// On success the form is reset; on failure the state is kept so the user
// can retry.
func (f *BookingForm) Submit(ctx context.Context) (*models.ConfirmationResponse, error) {
	if f.missingFields() {
		f.toaster.Toast(Toast{Title: toastMissingTitle, Description: toastMissingDesc, Variant: ToastDestructive})
		return nil, ErrMissingFields
	}

	res, err := f.client.SubmitBooking(ctx, f.Request(), f.session)
	if err != nil {
		f.toaster.Toast(Toast{Title: toastFailureTitle, Description: toastFailureDesc, Variant: ToastDestructive})
		return nil, err
	}

	f.toaster.Toast(Toast{Title: toastSuccessTitle, Description: successDescription(f.Pet.Name, f.Date, f.Time, res.EmailSent)})
	f.Reset()
	return res, nil
}

func successDescription(petName, date, slot string, emailSent bool) string {
	desc := fmt.Sprintf("O agendamento de %s foi marcado para %s às %s.", petName, services.FormatDatePT(date), slot)
	if emailSent {
		return desc + " Enviamos a confirmação para o seu email."
	}
	return desc
}

func (f *BookingForm) Reset() {
	f.Date = ""
	f.Service = nil
	f.Time = ""
	f.Pet = PetInfo{}
	f.Owner = OwnerInfo{}
}
