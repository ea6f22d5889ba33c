// Package servers holds the REST API contract: the OpenAPI document, the wire
// types and the echo bindings that route requests to a ServerInterface.
package servers

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

//go:embed openapi.yaml
var openapiDocument []byte

// OrderStatus defines model for OrderStatus.
type OrderStatus string

// Error defines model for Error.
type Error struct {
	Code    int     `json:"code"`
	Message string  `json:"message"`
	Reason  *string `json:"reason,omitempty"`
}

// NewOrder defines model for NewOrder. Map is decoded by the handler into the
// domain snapshot.
type NewOrder struct {
	Actor *string         `json:"actor,omitempty"`
	Map   json.RawMessage `json:"map"`
}

// OrderCreated defines model for OrderCreated.
type OrderCreated struct {
	Id     openapi_types.UUID `json:"id"`
	Number string             `json:"number"`
}

// OrderSummary defines model for OrderSummary.
type OrderSummary struct {
	Id         openapi_types.UUID `json:"id"`
	Number     string             `json:"number"`
	Title      string             `json:"title"`
	Status     OrderStatus        `json:"status"`
	Material   string             `json:"material"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
	ExportedAt *time.Time         `json:"exportedAt,omitempty"`
}

// StatusHistoryEntry defines model for StatusHistoryEntry.
type StatusHistoryEntry struct {
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Actor     string      `json:"actor"`
	Note      *string     `json:"note,omitempty"`
}

// Order defines model for Order.
type Order struct {
	Id         openapi_types.UUID   `json:"id"`
	Number     string               `json:"number"`
	Status     OrderStatus          `json:"status"`
	Map        any                  `json:"map"`
	Production any                  `json:"production"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
	History    []StatusHistoryEntry `json:"history"`
}

// StatusChange defines model for StatusChange.
type StatusChange struct {
	Status         OrderStatus  `json:"status"`
	Actor          *string      `json:"actor,omitempty"`
	Note           *string      `json:"note,omitempty"`
	ExpectedStatus *OrderStatus `json:"expectedStatus,omitempty"`
}

// ExportFile defines model for ExportFile.
type ExportFile struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
}

// Export defines model for Export.
type Export struct {
	OrderId       openapi_types.UUID `json:"orderId"`
	OrderNumber   string             `json:"orderNumber"`
	FormatVersion string             `json:"formatVersion"`
	ExportedAt    time.Time          `json:"exportedAt"`
	Features      int                `json:"features"`
	Files         []ExportFile       `json:"files"`
}

// GetOrdersParams defines parameters for GetOrders.
type GetOrdersParams struct {
	Status *OrderStatus `form:"status,omitempty" json:"status,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// List orders, optionally filtered by status
	// (GET /api/v1/orders)
	GetOrders(ctx echo.Context, params GetOrdersParams) error
	// Place an order from a map snapshot
	// (POST /api/v1/orders)
	CreateOrder(ctx echo.Context) error
	// Get an order with its status history
	// (GET /api/v1/orders/{id})
	GetOrder(ctx echo.Context, id openapi_types.UUID) error
	// Move an order to another status
	// (POST /api/v1/orders/{id}/status)
	ChangeOrderStatus(ctx echo.Context, id openapi_types.UUID) error
	// Generate and deliver the manufacturing files of an order
	// (POST /api/v1/orders/{id}/export)
	GenerateExport(ctx echo.Context, id openapi_types.UUID) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// GetOrders converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrders(ctx echo.Context) error {
	var params GetOrdersParams

	err := runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}

	return w.Handler.GetOrders(ctx, params)
}

// CreateOrder converts echo context to params.
func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

// GetOrder converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	id, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, id)
}

// ChangeOrderStatus converts echo context to params.
func (w *ServerInterfaceWrapper) ChangeOrderStatus(ctx echo.Context) error {
	id, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ChangeOrderStatus(ctx, id)
}

// GenerateExport converts echo context to params.
func (w *ServerInterfaceWrapper) GenerateExport(ctx echo.Context) error {
	id, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GenerateExport(ctx, id)
}

func bindOrderID(ctx echo.Context) (openapi_types.UUID, error) {
	var id openapi_types.UUID

	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter id: %s", err))
	}
	return id, nil
}

// EchoRouter is the subset of echo used to register routes.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers the routes under a base URL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/api/v1/orders", wrapper.GetOrders)
	router.POST(baseURL+"/api/v1/orders", wrapper.CreateOrder)
	router.GET(baseURL+"/api/v1/orders/:id", wrapper.GetOrder)
	router.POST(baseURL+"/api/v1/orders/:id/status", wrapper.ChangeOrderStatus)
	router.POST(baseURL+"/api/v1/orders/:id/export", wrapper.GenerateExport)
}

var (
	swaggerOnce sync.Once
	swaggerDoc  *openapi3.T
	swaggerErr  error
)

// GetSwagger returns the parsed OpenAPI document. The document is loaded
// once; callers must not modify it.
func GetSwagger() (*openapi3.T, error) {
	swaggerOnce.Do(func() {
		loader := openapi3.NewLoader()
		swaggerDoc, swaggerErr = loader.LoadFromData(openapiDocument)
		if swaggerErr != nil {
			swaggerErr = fmt.Errorf("error loading OpenAPI document: %w", swaggerErr)
		}
	})
	return swaggerDoc, swaggerErr
}
