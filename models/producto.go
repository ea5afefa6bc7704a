package models

type Ingrediente struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
}

type Producto struct {
	ID           int           `json:"id"`
	Nombre       string        `json:"nombre"`
	Descripcion  string        `json:"descripcion,omitempty"`
	Precio       string        `json:"precio"`
	ImagenURL    *string       `json:"imagenUrl,omitempty"`
	Disponible   bool          `json:"disponible"`
	Ingredientes []Ingrediente `json:"ingredientes,omitempty"`
}
