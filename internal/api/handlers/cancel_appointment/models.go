package cancel_appointment

// CancelAppointmentResponse HTTP response model
type CancelAppointmentResponse struct {
	Success bool `json:"success"`
}
