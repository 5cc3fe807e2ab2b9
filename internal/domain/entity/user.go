package entity

import "time"

// Roles válidos para User.
const (
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

// User usuario del sistema; se autentica con un PIN de 4 dígitos.
type User struct {
	ID        string
	Name      string
	PinHash   string // bcrypt, nunca el PIN plano
	Role      string // operator, admin
	IsActive  bool
	CreatedAt time.Time
}

// ValidRole indica si role es uno de los roles soportados.
func ValidRole(role string) bool {
	return role == RoleOperator || role == RoleAdmin
}

// ValidPin indica si pin son exactamente 4 dígitos.
func ValidPin(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
