package get_schedule

import (
	getSchedule "github.com/m04kA/CareClarity-AppointmentService/internal/usecase/get_schedule"
)

// ScheduleResponse HTTP response model
type ScheduleResponse struct {
	Schedule    Schedule `json:"schedule"`
	BookedSlots []string `json:"bookedSlots"`
}

// Schedule недельное расписание врача
type Schedule struct {
	DoctorID      string   `json:"doctorId"`
	AvailableDays []int    `json:"availableDays"` // 0=воскресенье
	TimeSlots     []string `json:"timeSlots"`
	SlotDuration  int      `json:"slotDuration"` // минуты
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getSchedule.Response) *ScheduleResponse {
	days := make([]int, len(resp.Schedule.AvailableDays))
	for i, d := range resp.Schedule.AvailableDays {
		days[i] = int(d)
	}

	booked := resp.BookedSlots
	if booked == nil {
		booked = []string{}
	}

	return &ScheduleResponse{
		Schedule: Schedule{
			DoctorID:      resp.Schedule.DoctorID,
			AvailableDays: days,
			TimeSlots:     resp.Schedule.TimeSlots,
			SlotDuration:  resp.Schedule.SlotDurationMinutes,
		},
		BookedSlots: booked,
	}
}
