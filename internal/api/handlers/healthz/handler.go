package healthz

import (
	"net/http"

	"github.com/m04kA/CareClarity-AppointmentService/internal/api/handlers"
)

// StatusResponse HTTP response model
type StatusResponse struct {
	Status  string `json:"status"`
	Durable string `json:"durable"`
}

type Handler struct {
	durable string
}

// NewHandler durable имя durable леджера, отдается как есть
func NewHandler(durable string) *Handler {
	return &Handler{durable: durable}
}

// Handle GET /healthz
// Процесс жив, пока отвечает; недоступность durable леджера не делает сервис нездоровым
func (h *Handler) Handle(w http.ResponseWriter, _ *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, StatusResponse{Status: "ok", Durable: h.durable})
}
