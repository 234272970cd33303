package get_schedule

import "github.com/m04kA/CareClarity-AppointmentService/internal/domain"

// Request модель запроса расписания
type Request struct {
	DoctorID string
	Date     string // YYYY-MM-DD, опционально
}

// Response расписание врача и занятые на дату слоты
type Response struct {
	Schedule    domain.DoctorSchedule
	BookedSlots []string // пустой, если дата не указана
}
