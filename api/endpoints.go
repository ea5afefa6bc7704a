package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/piru-app/admin-realtime/models"
)

type LoginResponse struct {
	Token       string             `json:"token"`
	Restaurante models.Restaurante `json:"restaurante"`
}

// Auth. Las únicas llamadas sin bearer token.

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login-restaurante", body, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, email, password, nombre string) (*LoginResponse, error) {
	body := map[string]string{"email": email, "password": password, "nombre": nombre}
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register-restaurante", body, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Perfil del restaurante.

func (c *Client) GetProfile(ctx context.Context) (*models.Restaurante, error) {
	var out models.Restaurante
	if err := c.do(ctx, http.MethodGet, "/restaurante/profile", nil, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, cambios map[string]interface{}) error {
	return c.do(ctx, http.MethodPut, "/restaurante/profile", cambios, true, nil)
}

func (c *Client) CompleteProfile(ctx context.Context, nombre, direccion, telefono string) error {
	body := map[string]string{"nombre": nombre, "direccion": direccion, "telefono": telefono}
	return c.do(ctx, http.MethodPost, "/restaurante/complete-profile", body, true, nil)
}

// Productos.

func (c *Client) ListProductos(ctx context.Context) ([]models.Producto, error) {
	var out []models.Producto
	if err := c.do(ctx, http.MethodGet, "/producto", nil, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProducto(ctx context.Context, p models.Producto) (*models.Producto, error) {
	var out models.Producto
	if err := c.do(ctx, http.MethodPost, "/producto/create", p, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProducto(ctx context.Context, p models.Producto) error {
	return c.do(ctx, http.MethodPut, "/producto/update", p, true, nil)
}

func (c *Client) DeleteProducto(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/producto/delete/%d", id), nil, true, nil)
}

// Mesas.

func (c *Client) ListMesas(ctx context.Context) ([]models.Mesa, error) {
	var out []models.Mesa
	if err := c.do(ctx, http.MethodGet, "/mesa/list", nil, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateMesa(ctx context.Context, nombre string) (*models.Mesa, error) {
	var out models.Mesa
	if err := c.do(ctx, http.MethodPost, "/mesa/create", map[string]string{"nombre": nombre}, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMesa(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/mesa/delete/%d", id), nil, true, nil)
}

// ResetMesa cierra lo que hubiera en la mesa y la deja lista para un
// pedido nuevo.
func (c *Client) ResetMesa(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/mesa/reset/%d", id), nil, true, nil)
}

// Pedidos.

func (c *Client) GetPedido(ctx context.Context, id int) (*models.PedidoDetalle, error) {
	var out models.PedidoDetalle
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/pedido/%d", id), nil, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListPedidos(ctx context.Context) ([]models.PedidoDetalle, error) {
	var out []models.PedidoDetalle
	if err := c.do(ctx, http.MethodGet, "/pedido/list", nil, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdatePedidoEstado(ctx context.Context, id int, estado string) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/pedido/%d/estado", id), map[string]string{"estado": estado}, true, nil)
}

func (c *Client) ConfirmPedido(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/pedido/%d/confirmar", id), nil, true, nil)
}

func (c *Client) ClosePedido(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/pedido/%d/cerrar", id), nil, true, nil)
}

func (c *Client) DeletePedido(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/pedido/delete/%d", id), nil, true, nil)
}

func (c *Client) AddItem(ctx context.Context, pedidoID int, item models.ItemPedido) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/pedido/%d/item", pedidoID), item, true, nil)
}

func (c *Client) DeleteItem(ctx context.Context, pedidoID, itemID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/pedido/%d/item/%d", pedidoID, itemID), nil, true, nil)
}

// Notificaciones: confirmaciones de las mutaciones optimistas del feed.

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/notificaciones/%s/leida", id), nil, true, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPut, "/notificaciones/leidas", nil, true, nil)
}

func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/notificaciones/%s", id), nil, true, nil)
}

func (c *Client) DeleteAllNotifications(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/notificaciones", nil, true, nil)
}
