package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Autenticación. ErrInvalidCredentials es opaco: no distingue email
	// desconocido de password incorrecto.
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrAccountInactive    = errors.New("cuenta inactiva")
	ErrAccountLocked      = errors.New("cuenta bloqueada por intentos fallidos")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")

	// Aislamiento multi-tenant.
	ErrCrossTenant     = errors.New("el recurso pertenece a otra empresa")
	ErrAbilityRequired = errors.New("el token no tiene la ability requerida")

	// Inicialización del sistema (una sola vez).
	ErrAlreadyInitialized = errors.New("el sistema ya fue inicializado")

	// Envío a SUNAT vía el colaborador externo.
	ErrUpstream = errors.New("fallo del servicio de facturación")
)
