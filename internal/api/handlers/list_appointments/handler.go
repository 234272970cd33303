package list_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/CareClarity-AppointmentService/internal/api/handlers"
	"github.com/m04kA/CareClarity-AppointmentService/internal/api/middleware"
	"github.com/m04kA/CareClarity-AppointmentService/internal/service/bookings"
)

const (
	msgMissingUser = "missing user"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments
// Возвращает записи текущего пользователя, новые первыми
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	result, err := h.service.GetUserBookings(r.Context(), userID)
	if err != nil {
		if errors.Is(err, bookings.ErrUnavailable) {
			h.logger.Error("GET /appointments - Storage unavailable: %v", err)
			handlers.RespondUnavailable(w)
			return
		}
		h.logger.Error("GET /appointments - Failed to get appointments: user_id=%s, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /appointments - Appointments retrieved: user_id=%s, count=%d", userID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
