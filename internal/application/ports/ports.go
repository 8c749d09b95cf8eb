package ports

import "context"

// Attachment adjunto de un correo saliente.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message correo saliente.
type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Mailer define el puerto de salida para el envío de correo (SMTP real o simulado).
// El contexto acota la espera; no hay reintentos: el error vuelve al caso de uso.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// File documento generado listo para descargar o adjuntar.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}
