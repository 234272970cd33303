package email

import "errors"

var (
	// ErrNoRecipient у письма не указан адрес получателя
	ErrNoRecipient = errors.New("email client: recipient is empty")

	// ErrSend ошибка при обращении к почтовому провайдеру
	ErrSend = errors.New("email client: send failed")

	// ErrRejected провайдер отклонил письмо
	ErrRejected = errors.New("email client: rejected by provider")
)
