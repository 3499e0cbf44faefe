package dto

// ExtractRequest documento a extraer, como data-URI base64 con MIME type
// (data:application/pdf;base64,... o data:image/png;base64,...).
type ExtractRequest struct {
	Document string `json:"document"`
}
