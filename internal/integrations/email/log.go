package email

import "context"

// LogSender только пишет письмо в лог. Используется в разработке
type LogSender struct {
	log Logger
}

// NewLogSender создает отправителя, который ничего не отправляет
func NewLogSender(log Logger) *LogSender {
	return &LogSender{log: log}
}

// Send логирует письмо
func (s *LogSender) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	s.log.Info("Email (log provider): to=%s, subject=%q", msg.To, msg.Subject)
	return nil
}
