package service

import (
	"bus_booking/model"
	"bus_booking/utils"
	"fmt"
)

// BuildSeats lays out the seat map of bus for a new schedule. Window seats
// carry a 10% premium, aisle seats 5%, and rows 1 to 3 another 5%.
func BuildSeats(scheduleId uint, bus model.Bus) []model.Seat {
	cols := bus.SeatCols
	if cols <= 0 {
		cols = model.DefaultSeatsPerRow
	}
	total := bus.TotalSeats()
	seats := make([]model.Seat, 0, total)

	n := 1
	for row := 1; n <= total; row++ {
		for col := 1; col <= cols && n <= total; col++ {
			seatType := seatTypeAt(col, cols)
			seats = append(seats, model.Seat{
				ScheduleId:   scheduleId,
				SeatNumber:   fmt.Sprintf("%02d", n),
				RowNumber:    row,
				ColumnNumber: col,
				SeatType:     seatType,
				Status:       model.SeatAvailable,
				Price:        seatPrice(bus.Price, seatType, row),
			})
			n++
		}
	}
	return seats
}

func seatTypeAt(col, cols int) model.SeatType {
	if col == 1 || col == cols {
		return model.SeatWindow
	}
	if col == cols/2 || col == cols/2+1 {
		return model.SeatAisle
	}
	return model.SeatMiddle
}

func seatPrice(base float64, seatType model.SeatType, row int) float64 {
	price := base
	switch seatType {
	case model.SeatWindow:
		price += base * 0.10
	case model.SeatAisle:
		price += base * 0.05
	}
	if row <= 3 {
		price += base * 0.05
	}
	return utils.RoundMoney(price)
}
