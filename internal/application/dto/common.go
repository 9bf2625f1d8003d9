package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// Envelope es el sobre estándar de todas las respuestas JSON:
// {success, data?, message?, error?}.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody detalle de error dentro del sobre.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OK construye un sobre de éxito con datos.
func OK(data interface{}) Envelope {
	return Envelope{Success: true, Data: data}
}

// OKMessage construye un sobre de éxito solo con mensaje.
func OKMessage(msg string) Envelope {
	return Envelope{Success: true, Message: msg}
}

// Fail construye un sobre de error.
func Fail(code, message string) Envelope {
	return Envelope{Success: false, Error: &ErrorBody{Code: code, Message: message}}
}
