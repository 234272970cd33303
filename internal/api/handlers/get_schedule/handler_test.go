package get_schedule

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
	"github.com/m04kA/CareClarity-AppointmentService/internal/infra/storage/ledger"
	"github.com/m04kA/CareClarity-AppointmentService/internal/infra/storage/memory"
	"github.com/m04kA/CareClarity-AppointmentService/internal/service/schedule"
	getSchedule "github.com/m04kA/CareClarity-AppointmentService/internal/usecase/get_schedule"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type nopFallbacks struct{}

func (nopFallbacks) ObserveFallback(string) {}

func newRouter(t *testing.T) *mux.Router {
	t.Helper()
	transient := memory.NewLedger()
	_, err := transient.Reserve(context.Background(), domain.BookingDraft{
		DoctorID: "doc1", DoctorName: "Dr. Priya Sharma", UserID: "u1",
		Date: "2026-03-10", TimeSlot: "2:00 PM",
	})
	if err != nil {
		t.Fatal(err)
	}

	uc := getSchedule.NewUseCase(ledger.Disabled{}, transient, schedule.NewResolver(), nopFallbacks{}, nopLogger{})
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/doctors/{doctorId}/schedule", NewHandler(uc, nopLogger{}).Handle).Methods(http.MethodGet)
	return router
}

func TestHandle(t *testing.T) {
	const scheduleJSON = `"schedule":{"doctorId":"doc1","availableDays":[1,2,3,4,5],` +
		`"timeSlots":["10:00 AM","10:30 AM","11:00 AM","11:30 AM","2:00 PM","2:30 PM","3:00 PM","3:30 PM","4:00 PM"],` +
		`"slotDuration":30}`

	tests := []struct {
		name       string
		url        string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "with date",
			url:        "/api/v1/doctors/doc1/schedule?date=2026-03-10",
			wantStatus: http.StatusOK,
			wantBody:   `{` + scheduleJSON + `,"bookedSlots":["2:00 PM"]}`,
		},
		{
			name:       "without date",
			url:        "/api/v1/doctors/doc1/schedule",
			wantStatus: http.StatusOK,
			wantBody:   `{` + scheduleJSON + `,"bookedSlots":[]}`,
		},
		{
			name:       "bad date",
			url:        "/api/v1/doctors/doc1/schedule?date=10-03-2026",
			wantStatus: http.StatusBadRequest,
		},
	}

	router := newRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}
