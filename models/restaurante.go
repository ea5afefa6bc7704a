package models

type Restaurante struct {
	ID             int     `json:"id"`
	Nombre         string  `json:"nombre"`
	Email          string  `json:"email"`
	Direccion      string  `json:"direccion,omitempty"`
	Telefono       string  `json:"telefono,omitempty"`
	LogoURL        *string `json:"logoUrl,omitempty"`
	PerfilCompleto bool    `json:"perfilCompleto"`
}
