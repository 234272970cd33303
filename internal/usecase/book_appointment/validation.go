package book_appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные и нормализует пробелы
// Возвращает дату бронирования
func validateRequest(req *Request) (time.Time, error) {
	req.DoctorID = strings.TrimSpace(req.DoctorID)
	req.DoctorName = strings.TrimSpace(req.DoctorName)
	req.TimeSlot = strings.TrimSpace(req.TimeSlot)
	req.Date = strings.TrimSpace(req.Date)

	if req.UserID == "" {
		return time.Time{}, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	if req.DoctorID == "" {
		return time.Time{}, fmt.Errorf("%w: doctorId is required", ErrInvalidInput)
	}
	if req.DoctorName == "" {
		return time.Time{}, fmt.Errorf("%w: doctorName is required", ErrInvalidInput)
	}
	if len(req.DoctorName) > domain.MaxNameLength {
		return time.Time{}, fmt.Errorf("%w: doctorName is longer than %d characters", ErrInvalidInput, domain.MaxNameLength)
	}
	if req.TimeSlot == "" {
		return time.Time{}, fmt.Errorf("%w: timeSlot is required", ErrInvalidInput)
	}
	if len(req.TimeSlot) > domain.MaxTimeSlotLength {
		return time.Time{}, fmt.Errorf("%w: timeSlot is longer than %d characters", ErrInvalidInput, domain.MaxTimeSlotLength)
	}

	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	return date, nil
}

// validateSlot проверяет слот по расписанию врача
func validateSlot(schedule domain.DoctorSchedule, date time.Time, timeSlot string) error {
	if !schedule.IsAvailableOn(date) {
		return fmt.Errorf("%w: doctor %s does not see patients on %s", ErrInvalidSlot, schedule.DoctorID, date.Weekday())
	}
	if !schedule.OffersSlot(timeSlot) {
		return fmt.Errorf("%w: doctor %s does not offer %q", ErrInvalidSlot, schedule.DoctorID, timeSlot)
	}
	return nil
}
