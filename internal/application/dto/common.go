package dto

// ErrorResponse cuerpo de error HTTP. Toda falla visible al usuario viaja en este
// formato: nunca se deja un error solo en consola.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
