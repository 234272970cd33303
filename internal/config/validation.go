package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig возвращается, когда конфигурация нарушает ограничения
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	switch c.Ledger.Durable {
	case DurablePostgres, DurableDynamoDB, DurableNone:
	default:
		return fmt.Errorf("%w: ledger.durable must be one of postgres, dynamodb, none, got %q", ErrInvalidConfig, c.Ledger.Durable)
	}
	if c.Ledger.TimeoutMS <= 0 {
		return fmt.Errorf("%w: ledger.timeout_ms must be positive", ErrInvalidConfig)
	}

	switch c.Email.Provider {
	case EmailProviderLog:
	case EmailProviderSendGrid:
		if c.Email.SendGridAPIKey == "" {
			return fmt.Errorf("%w: email.sendgrid_api_key is required for the sendgrid provider", ErrInvalidConfig)
		}
	case EmailProviderSES:
		if c.Email.SESRegion == "" {
			return fmt.Errorf("%w: email.ses_region is required for the ses provider", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: email.provider must be one of sendgrid, ses, log, got %q", ErrInvalidConfig, c.Email.Provider)
	}

	if c.Auth.JWTSecret == "" && !c.Auth.AllowUnverified {
		return fmt.Errorf("%w: auth.jwt_secret is required unless auth.allow_unverified is set", ErrInvalidConfig)
	}

	if c.Ledger.Durable == DurableDynamoDB && c.DynamoDB.Table == "" {
		return fmt.Errorf("%w: dynamodb.table is required", ErrInvalidConfig)
	}

	if !isEmptySchedule(c.Schedule.Default) {
		if err := validateSchedule("schedule.default", c.Schedule.Default); err != nil {
			return err
		}
	}

	seen := make(map[string]struct{}, len(c.Schedule.Doctors))
	for i, d := range c.Schedule.Doctors {
		name := fmt.Sprintf("schedule.doctors[%d]", i)
		if strings.TrimSpace(d.DoctorID) == "" {
			return fmt.Errorf("%w: %s.doctor_id is required", ErrInvalidConfig, name)
		}
		if _, dup := seen[d.DoctorID]; dup {
			return fmt.Errorf("%w: duplicate schedule override for doctor %q", ErrInvalidConfig, d.DoctorID)
		}
		seen[d.DoctorID] = struct{}{}
		if err := validateSchedule(name, d); err != nil {
			return err
		}
	}

	return nil
}

func isEmptySchedule(s DoctorSchedule) bool {
	return len(s.AvailableDays) == 0 && len(s.TimeSlots) == 0 && s.SlotDurationMinutes == 0
}

func validateSchedule(name string, s DoctorSchedule) error {
	if len(s.TimeSlots) == 0 {
		return fmt.Errorf("%w: %s.time_slots must not be empty", ErrInvalidConfig, name)
	}
	for _, slot := range s.TimeSlots {
		if strings.TrimSpace(slot) == "" {
			return fmt.Errorf("%w: %s.time_slots contains an empty label", ErrInvalidConfig, name)
		}
	}
	for _, d := range s.AvailableDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: %s.available_days must be within 0..6, got %d", ErrInvalidConfig, name, d)
		}
	}
	if s.SlotDurationMinutes < 0 {
		return fmt.Errorf("%w: %s.slot_duration_minutes must not be negative", ErrInvalidConfig, name)
	}
	return nil
}
