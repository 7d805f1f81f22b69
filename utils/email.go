package utils

import (
	"bus_booking/model"
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"gopkg.in/gomail.v2"
)

//go:embed templates/booking_confirmation.html
var bookingConfirmationHTML string

var bookingConfirmationTmpl = template.Must(template.New("booking_confirmation").Parse(bookingConfirmationHTML))

type MailSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (s MailSettings) enabled() bool {
	return s.Host != "" && s.From != ""
}

type BookingConfirmationData struct {
	BookingId     uint
	PassengerName string
	BusName       string
	BusNumber     string
	Source        string
	Destination   string
	Departure     string
	Seats         string
	TotalAmount   float64
}

// TicketMailer mails the ticket with its QR code once a booking is paid.
type TicketMailer struct {
	settings MailSettings
	send     func(*gomail.Message) error
}

func NewTicketMailer(settings MailSettings) *TicketMailer {
	m := &TicketMailer{settings: settings}
	m.send = func(msg *gomail.Message) error {
		d := gomail.NewDialer(settings.Host, settings.Port, settings.Username, settings.Password)
		return d.DialAndSend(msg)
	}
	return m
}

func (m *TicketMailer) BookingConfirmed(ctx context.Context, booking *model.Booking) error {
	if !m.settings.enabled() {
		slog.Debug("smtp not configured, ticket mail skipped", "booking_id", booking.ID)
		return nil
	}
	msg, err := m.buildConfirmation(booking)
	if err != nil {
		return err
	}
	if err := m.send(msg); err != nil {
		return err
	}
	slog.Info("ticket mail sent", "booking_id", booking.ID)
	return nil
}

func (m *TicketMailer) buildConfirmation(booking *model.Booking) (*gomail.Message, error) {
	if len(booking.Passengers) == 0 || booking.Passengers[0].Email == "" {
		return nil, errors.New("booking has no passenger email")
	}
	lead := booking.Passengers[0]

	seats := make([]string, 0, len(booking.Passengers))
	for _, p := range booking.Passengers {
		seats = append(seats, p.SeatNumber)
	}
	data := BookingConfirmationData{
		BookingId:     booking.ID,
		PassengerName: lead.Name,
		BusName:       booking.Schedule.Bus.BusName,
		BusNumber:     booking.Schedule.Bus.BusNumber,
		Source:        booking.Schedule.Source,
		Destination:   booking.Schedule.Destination,
		Departure:     booking.Schedule.DepartureTime.Format("02/01/2006 15:04"),
		Seats:         strings.Join(seats, ", "),
		TotalAmount:   booking.TotalAmount,
	}

	var body bytes.Buffer
	if err := bookingConfirmationTmpl.Execute(&body, data); err != nil {
		return nil, err
	}

	qrBytes, err := GenerateQRCode(TicketQRContent(booking), 256)
	if err != nil {
		return nil, err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.settings.From)
	msg.SetHeader("To", lead.Email)
	msg.SetHeader("Subject", fmt.Sprintf("Booking confirmed #%d", booking.ID))
	msg.SetBody("text/html", body.String())

	filename := fmt.Sprintf("Ticket_%d.png", booking.ID)
	msg.Attach(filename, gomail.Rename(filename), gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(qrBytes))
		return err
	}))
	return msg, nil
}

// NoticeMailer sends plain text account notices.
type NoticeMailer struct {
	settings MailSettings
	send     func(e *email.Email) error
}

func NewNoticeMailer(settings MailSettings) *NoticeMailer {
	m := &NoticeMailer{settings: settings}
	m.send = func(e *email.Email) error {
		addr := fmt.Sprintf("%s:%d", settings.Host, settings.Port)
		return e.Send(addr, smtp.PlainAuth("", settings.Username, settings.Password, settings.Host))
	}
	return m
}

func (m *NoticeMailer) VendorDecision(ctx context.Context, vendor *model.Vendor) error {
	if !m.settings.enabled() {
		slog.Debug("smtp not configured, vendor notice skipped", "vendor_id", vendor.ID)
		return nil
	}
	return m.send(vendorNotice(m.settings.From, vendor))
}

func vendorNotice(from string, vendor *model.Vendor) *email.Email {
	e := email.NewEmail()
	e.From = from
	e.To = []string{vendor.Email}
	if vendor.Status == model.VendorApproved {
		e.Subject = "Your operator account is approved"
		e.Text = []byte(fmt.Sprintf("Hello %s,\n\nYour account is approved. You can now sign in and publish schedules.\n", vendor.VendorName))
	} else {
		e.Subject = "Your operator registration was not approved"
		e.Text = []byte(fmt.Sprintf("Hello %s,\n\nYour registration was reviewed and not approved. Reply to this mail for details.\n", vendor.VendorName))
	}
	return e
}
