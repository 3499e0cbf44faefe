package domain

import "errors"

// Errores de dominio (sin dependencias externas).
//
// Taxonomía:
//   - ErrStoreUnavailable: el almacén de facturas no está configurado o no responde.
//     Fatal para toda operación de datos; se reporta una sola vez al arranque.
//   - ErrStoreWrite: rechazo del backend en una mutación; el usuario puede reintentar.
//   - ErrNotFound: la factura objetivo no existe (update/delete por id).
//   - ErrExtraction: falló la llamada al servicio de extracción; el usuario cae a captura manual.
//   - ErrInvalidInput: datos que no pasan la validación de la entidad.
//   - ErrUnauthorized: credenciales o sesión inválidas.
//   - ErrConfirmationRequired: eliminación sin confirmación previa (flujo en dos pasos).
var (
	ErrStoreUnavailable     = errors.New("almacén de facturas no disponible")
	ErrStoreWrite           = errors.New("escritura rechazada por el almacén")
	ErrNotFound             = errors.New("factura no encontrada")
	ErrExtraction           = errors.New("extracción del documento fallida")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrConfirmationRequired = errors.New("eliminación requiere confirmación")
)
