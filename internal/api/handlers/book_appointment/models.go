package book_appointment

import (
	"time"

	"github.com/m04kA/CareClarity-AppointmentService/internal/api/middleware"
	bookAppointment "github.com/m04kA/CareClarity-AppointmentService/internal/usecase/book_appointment"
)

const defaultUserName = "User"

// BookAppointmentRequest HTTP request model
type BookAppointmentRequest struct {
	DoctorID   string `json:"doctorId"`
	DoctorName string `json:"doctorName"`
	Date       string `json:"date"`     // "2026-03-10"
	TimeSlot   string `json:"timeSlot"` // "10:00 AM"
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID         string `json:"id"`
	DoctorID   string `json:"doctorId"`
	DoctorName string `json:"doctorName"`
	UserID     string `json:"userId"`
	Date       string `json:"date"`
	TimeSlot   string `json:"timeSlot"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Имя пользователя берется из токена, затем из email
func (r *BookAppointmentRequest) ToUseCaseRequest(user middleware.User) *bookAppointment.Request {
	name := user.Name
	if name == "" {
		name = user.Email
	}
	if name == "" {
		name = defaultUserName
	}

	return &bookAppointment.Request{
		UserID:     user.ID,
		UserName:   name,
		UserEmail:  user.Email,
		DoctorID:   r.DoctorID,
		DoctorName: r.DoctorName,
		Date:       r.Date,
		TimeSlot:   r.TimeSlot,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:         resp.ID,
		DoctorID:   resp.DoctorID,
		DoctorName: resp.DoctorName,
		UserID:     resp.UserID,
		Date:       resp.Date,
		TimeSlot:   resp.TimeSlot,
		Status:     resp.Status,
		CreatedAt:  resp.CreatedAt.Format(time.RFC3339),
	}
}
