package book_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/CareClarity-AppointmentService/internal/api/handlers"
	"github.com/m04kA/CareClarity-AppointmentService/internal/api/middleware"
	bookAppointment "github.com/m04kA/CareClarity-AppointmentService/internal/usecase/book_appointment"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgMissingUser        = "missing user"
	msgInvalidInput       = "doctorId, doctorName, date (YYYY-MM-DD) and timeSlot are required"
	msgInvalidSlot        = "selected time slot is not offered by this doctor"
	msgAlreadyBooked      = "this time slot is already booked, please choose another"
)

type Handler struct {
	useCase BookAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase BookAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	var req BookAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(user))
	if err != nil {
		switch {
		case errors.Is(err, bookAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: user_id=%s, error=%v", user.ID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, bookAppointment.ErrInvalidSlot):
			h.logger.Warn("POST /appointments - Invalid slot: user_id=%s, doctor_id=%s, slot=%q",
				user.ID, req.DoctorID, req.TimeSlot)
			handlers.RespondError(w, http.StatusBadRequest, msgInvalidSlot, handlers.ReasonInvalidSlot)

		case errors.Is(err, bookAppointment.ErrAlreadyBooked):
			h.logger.Warn("POST /appointments - Slot already booked: doctor_id=%s, date=%s, slot=%q",
				req.DoctorID, req.Date, req.TimeSlot)
			handlers.RespondConflict(w, msgAlreadyBooked)

		case errors.Is(err, bookAppointment.ErrUnavailable):
			h.logger.Error("POST /appointments - Storage unavailable: %v", err)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("POST /appointments - Failed to book appointment: user_id=%s, error=%v", user.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment booked: id=%s, user_id=%s, doctor_id=%s",
		result.ID, user.ID, result.DoctorID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
