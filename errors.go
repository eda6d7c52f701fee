package customer

import (
	"github.com/tinywasm/fmt"
)

var (
	ErrInvalidForm        = fmt.Err("form", "invalid")              // EN: Form Invalid                  / ES: Formulario Inválido
	ErrSubmitInFlight     = fmt.Err("request", "in", "progress")    // EN: Request In Progress           / ES: Solicitud En Progreso
	ErrUnknownForm        = fmt.Err("form", "not", "found")         // EN: Form Not Found                / ES: Formulario No Encontrado
	ErrInvalidCredentials = fmt.Err("access", "denied")             // EN: Access Denied                 / ES: Acceso Denegado
	ErrSuspended          = fmt.Err("user", "suspended")            // EN: User Suspended                / ES: Usuario Suspendido
	ErrNotConfirmed       = fmt.Err("email", "not", "confirmed")    // EN: Email Not Confirmed           / ES: Correo electrónico No Confirmado
	ErrEmailTaken         = fmt.Err("email", "registered")          // EN: Email Registered              / ES: Correo electrónico Registrado
	ErrInvalidEmail       = fmt.Err("email", "invalid")             // EN: Email Invalid                 / ES: Correo electrónico Inválido
	ErrInvalidPhone       = fmt.Err("phone", "invalid")             // EN: Phone Invalid                 / ES: Teléfono Inválido
	ErrWeakPassword       = fmt.Err("password", "weak")             // EN: Password Weak                 / ES: Contraseña Débil
	ErrSessionExpired     = fmt.Err("token", "expired")             // EN: Token Expired                 / ES: Token Expirado
	ErrInvalidToken       = fmt.Err("token", "invalid")             // EN: Token Invalid                 / ES: Token Inválido
	ErrNotFound           = fmt.Err("user", "not", "found")         // EN: User Not Found                / ES: Usuario No Encontrado
	ErrMissingDependency  = fmt.Err("configuration", "incomplete")  // EN: Configuration Incomplete      / ES: Configuración Incompleta
	ErrWeakSecret         = fmt.Err("secret", "weak")               // EN: Secret Weak                   / ES: Secreto Débil
	ErrRateLimited        = fmt.Err("request", "limit", "exceeded") // EN: Request Limit Exceeded        / ES: Solicitud Límite Excedido
)
