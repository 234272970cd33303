package notifications

import (
	"context"

	"github.com/m04kA/CareClarity-AppointmentService/internal/integrations/email"
)

// EmailSender отправитель писем
type EmailSender interface {
	Send(ctx context.Context, msg email.Message) error
}

// Recorder метрики уведомлений (pkg/metrics.Metrics)
type Recorder interface {
	ObserveNotification(kind string, err error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
