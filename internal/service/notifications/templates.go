package notifications

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Kind тип уведомления, также метка метрики
type Kind string

const (
	KindBookingConfirmed Kind = "booking_confirmed"
	KindBookingCancelled Kind = "booking_cancelled"
)

const defaultRecipientName = "Patient"

type letter struct {
	template string
	subject  string
	text     string
}

var letters = map[Kind]letter{
	KindBookingConfirmed: {
		template: "confirmation.html",
		subject:  "Appointment Confirmed - CareClarity",
		text:     "Hi %s, your appointment with %s on %s at %s is confirmed.",
	},
	KindBookingCancelled: {
		template: "cancellation.html",
		subject:  "Appointment Cancelled - CareClarity",
		text:     "Hi %s, your appointment with %s on %s at %s has been cancelled.",
	},
}

type templateData struct {
	Name       string
	DoctorName string
	Date       string
	TimeSlot   string
}

// render собирает тему, текст и HTML письма о бронировании
func render(kind Kind, b *domain.Booking) (subject, text, html string, err error) {
	l, ok := letters[kind]
	if !ok {
		return "", "", "", fmt.Errorf("notifications: unknown kind %q", kind)
	}

	data := templateData{
		Name:       b.UserName,
		DoctorName: b.DoctorName,
		Date:       b.Date,
		TimeSlot:   b.TimeSlot,
	}
	if data.Name == "" {
		data.Name = defaultRecipientName
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, l.template, data); err != nil {
		return "", "", "", fmt.Errorf("notifications: render %s: %w", l.template, err)
	}

	text = fmt.Sprintf(l.text, data.Name, data.DoctorName, data.Date, data.TimeSlot)
	return l.subject, text, buf.String(), nil
}
