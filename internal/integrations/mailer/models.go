package mailer

// Идентификаторы email-шаблонов на стороне API рассылки
const (
	TemplateWelcome          = "welcome"
	TemplateBookingConfirmed = "booking_confirmed"
	TemplateBookingReminder  = "booking_reminder"
	TemplatePasswordReset    = "password_reset"
)

// sendRequest тело запроса на отправку шаблонного письма
type sendRequest struct {
	TemplateID string            `json:"templateId"`
	To         recipient         `json:"to"`
	Sender     recipient         `json:"sender"`
	Params     map[string]string `json:"params"`
}

// recipient адресат или отправитель письма
type recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}
