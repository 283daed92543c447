package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrUserAlreadyExists = errors.New("el usuario ya está registrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
)

// Errores del flujo de recepción de casos (clasificación → consecutivo → registro).
var (
	// ErrValidation texto vacío o usuario ausente; culpa del cliente, no se reintenta.
	ErrValidation = errors.New("validación fallida: faltan parámetros")
	// ErrRemoteUnavailable el servicio de clasificación remoto no respondió correctamente.
	// Nunca sale del pipeline: dispara el clasificador por palabras clave.
	ErrRemoteUnavailable = errors.New("servicio de clasificación remoto no disponible")
	// ErrAllocationExhausted la categoría llegó a su máximo; requiere intervención administrativa.
	ErrAllocationExhausted = errors.New("consecutivo de la categoría agotado")
	// ErrLockTimeout no se obtuvo el bloqueo de la fila del consecutivo a tiempo. Reintentable.
	ErrLockTimeout = errors.New("tiempo de espera agotado al bloquear el consecutivo")
	// ErrPersistenceFailure el registro no se guardó; el número asignado queda consumido.
	ErrPersistenceFailure = errors.New("no se pudo guardar el registro del caso")
)
