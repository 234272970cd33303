package get_schedule

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/CareClarity-AppointmentService/internal/api/handlers"
	getSchedule "github.com/m04kA/CareClarity-AppointmentService/internal/usecase/get_schedule"
)

const (
	msgInvalidInput = "date must be YYYY-MM-DD"
)

type Handler struct {
	useCase GetScheduleUseCase
	logger  Logger
}

func NewHandler(useCase GetScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/doctors/{doctorId}/schedule?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID := mux.Vars(r)["doctorId"]
	date := r.URL.Query().Get("date")

	result, err := h.useCase.Execute(r.Context(), &getSchedule.Request{
		DoctorID: doctorID,
		Date:     date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getSchedule.ErrInvalidInput):
			h.logger.Warn("GET /doctors/{id}/schedule - Invalid input: doctor_id=%s, date=%q", doctorID, date)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, getSchedule.ErrUnavailable):
			h.logger.Error("GET /doctors/{id}/schedule - Storage unavailable: %v", err)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("GET /doctors/{id}/schedule - Failed to get schedule: doctor_id=%s, error=%v", doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
