package utils

import (
	"bus_booking/model"
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"github.com/skip2/go-qrcode"
)

// GenerateQRCode returns a PNG of content.
func GenerateQRCode(content string, size int) ([]byte, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	err = png.Encode(buf, qr.Image(size))
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// TicketQRContent is what the conductor's scanner reads for a booking.
func TicketQRContent(booking *model.Booking) string {
	seats := make([]string, 0, len(booking.Passengers))
	for _, p := range booking.Passengers {
		seats = append(seats, p.SeatNumber)
	}
	return fmt.Sprintf("BOOKING:%d|SCHEDULE:%d|SEATS:%s", booking.ID, booking.ScheduleId, strings.Join(seats, ","))
}
