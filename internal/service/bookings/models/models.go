package models

import (
	"time"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
)

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          string     `json:"id"`
	DoctorID    string     `json:"doctorId"`
	DoctorName  string     `json:"doctorName"`
	UserID      string     `json:"userId"`
	UserName    string     `json:"userName,omitempty"`
	UserEmail   string     `json:"userEmail,omitempty"`
	Date        string     `json:"date"`     // "2026-03-10"
	TimeSlot    string     `json:"timeSlot"` // "10:00 AM"
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
}

// BookingListResponse список бронирований, новые первыми
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует domain.Booking в BookingResponse
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:          b.ID,
		DoctorID:    b.DoctorID,
		DoctorName:  b.DoctorName,
		UserID:      b.UserID,
		UserName:    b.UserName,
		UserEmail:   b.UserEmail,
		Date:        b.Date,
		TimeSlot:    b.TimeSlot,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
		CancelledAt: b.CancelledAt,
	}
}

// FromDomainBookingList конвертирует список, сохраняя порядок
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, FromDomainBooking(b))
	}
	return &BookingListResponse{Bookings: result}
}
