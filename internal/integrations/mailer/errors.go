package mailer

import "errors"

var (
	// ErrSendFailed возвращается, когда API рассылки отклонил отправку
	ErrSendFailed = errors.New("mailer: failed to send email")

	// ErrInvalidResponse возвращается при некорректном ответе API рассылки
	ErrInvalidResponse = errors.New("mailer: invalid response from email API")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("mailer: internal error")
)
