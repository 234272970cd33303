package cancel_appointment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/CareClarity-AppointmentService/internal/api/handlers"
	"github.com/m04kA/CareClarity-AppointmentService/internal/api/middleware"
	cancelAppointment "github.com/m04kA/CareClarity-AppointmentService/internal/usecase/cancel_appointment"
)

const (
	msgMissingUser        = "missing user"
	msgInvalidAppointment = "invalid appointment id"
	msgNotFound           = "appointment not found"
	msgForbidden          = "forbidden"
)

type Handler struct {
	useCase CancelAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CancelAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	bookingID := mux.Vars(r)["id"]

	_, err := h.useCase.Execute(r.Context(), &cancelAppointment.Request{
		BookingID: bookingID,
		UserID:    userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancelAppointment.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidAppointment)

		case errors.Is(err, cancelAppointment.ErrBookingNotFound):
			h.logger.Warn("PATCH /appointments/{id} - Appointment not found: id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cancelAppointment.ErrNotOwner):
			h.logger.Warn("PATCH /appointments/{id} - Forbidden: id=%s, user_id=%s", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cancelAppointment.ErrUnavailable):
			h.logger.Error("PATCH /appointments/{id} - Storage unavailable: %v", err)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("PATCH /appointments/{id} - Failed to cancel appointment: id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id} - Appointment cancelled: id=%s, user_id=%s", bookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, CancelAppointmentResponse{Success: true})
}
