package domain

// Actor identidad autenticada que ejecuta una operación.
// Se construye en la capa HTTP a partir de la sesión y se pasa explícitamente a los casos de uso.
type Actor struct {
	UserID    string
	Username  string
	Role      string
	SessionID string
}

// IsAdmin informa si el actor tiene rol de administrador.
func (a Actor) IsAdmin() bool {
	return a.Role == "admin"
}

// UserRef devuelve el UserID como referencia anulable (movimientos sin usuario, p.ej. importaciones de sistema).
func (a Actor) UserRef() *string {
	if a.UserID == "" {
		return nil
	}
	id := a.UserID
	return &id
}
