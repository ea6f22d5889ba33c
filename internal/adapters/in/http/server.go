package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"storymap/internal/core/application/exporter"
	"storymap/internal/core/application/usecases/commands"
	"storymap/internal/core/application/usecases/queries"
	"storymap/internal/core/domain/model/kernel"
	"storymap/internal/core/domain/model/mapdata"
	"storymap/internal/core/domain/model/order"
	"storymap/internal/generated/servers"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Use case ports of the server. The command and query handlers satisfy them.
type (
	OrderCreator interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (order.Number, error)
	}
	OrderStatusChanger interface {
		Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (*order.Order, error)
	}
	ExportGenerator interface {
		Handle(ctx context.Context, cmd commands.GenerateExportCommand) (*exporter.ManufacturingExport, error)
	}
	OrderReader interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}
	OrderLister interface {
		Handle(ctx context.Context, query queries.GetOrdersByStatusQuery) ([]queries.GetOrdersByStatusQueryResponse, error)
	}
)

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler  OrderCreator
	changeStatusHandler OrderStatusChanger
	exportHandler       ExportGenerator

	// Query handlers
	getOrderHandler          OrderReader
	getOrdersByStatusHandler OrderLister
}

var _ servers.ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler OrderCreator,
	changeStatusHandler OrderStatusChanger,
	exportHandler ExportGenerator,
	getOrderHandler OrderReader,
	getOrdersByStatusHandler OrderLister,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		changeStatusHandler:      changeStatusHandler,
		exportHandler:            exportHandler,
		getOrderHandler:          getOrderHandler,
		getOrdersByStatusHandler: getOrdersByStatusHandler,
	}
}

// GetOrders handles GET /api/v1/orders - lists orders, optionally by status.
func (s *Server) GetOrders(ctx echo.Context, params servers.GetOrdersParams) error {
	var status *order.Status
	if params.Status != nil {
		parsed, err := order.ParseStatus(string(*params.Status))
		if err != nil {
			return writeError(ctx, err)
		}
		status = &parsed
	}

	query, err := queries.NewGetOrdersByStatusQuery(status)
	if err != nil {
		return writeError(ctx, err)
	}

	orders, err := s.getOrdersByStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]servers.OrderSummary, len(orders))
	for i, o := range orders {
		response[i] = servers.OrderSummary{
			Id:         o.ID.Bytes(),
			Number:     o.Number,
			Title:      o.Title,
			Status:     servers.OrderStatus(o.Status),
			Material:   o.Material,
			CreatedAt:  o.CreatedAt,
			UpdatedAt:  o.UpdatedAt,
			ExportedAt: o.ExportedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreateOrder handles POST /api/v1/orders - places an order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body servers.NewOrder
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	var snapshot mapdata.MapData
	decoder := json.NewDecoder(bytes.NewReader(body.Map))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&snapshot); err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid map data: " + err.Error(),
		})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, snapshot, deref(body.Actor))
	if err != nil {
		return writeError(ctx, err)
	}

	number, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, servers.OrderCreated{
		Id:     orderID.Bytes(),
		Number: number.String(),
	})
}

// GetOrder handles GET /api/v1/orders/{id} - returns an order with history.
func (s *Server) GetOrder(ctx echo.Context, id openapi_types.UUID) error {
	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return writeError(ctx, err)
	}
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	o, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	history := make([]servers.StatusHistoryEntry, len(o.History))
	for i, entry := range o.History {
		history[i] = servers.StatusHistoryEntry{
			Status:    servers.OrderStatus(entry.Status),
			Timestamp: entry.Timestamp,
			Actor:     entry.Actor,
			Note:      optional(entry.Note),
		}
	}

	return ctx.JSON(http.StatusOK, servers.Order{
		Id:         o.ID.Bytes(),
		Number:     o.Number,
		Status:     servers.OrderStatus(o.Status),
		Map:        o.MapData,
		Production: o.Production,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		History:    history,
	})
}

// ChangeOrderStatus handles POST /api/v1/orders/{id}/status.
func (s *Server) ChangeOrderStatus(ctx echo.Context, id openapi_types.UUID) error {
	var body servers.StatusChange
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return writeError(ctx, err)
	}
	to, err := order.ParseStatus(string(body.Status))
	if err != nil {
		return writeError(ctx, err)
	}
	var expected *order.Status
	if body.ExpectedStatus != nil {
		parsed, parseErr := order.ParseStatus(string(*body.ExpectedStatus))
		if parseErr != nil {
			return writeError(ctx, parseErr)
		}
		expected = &parsed
	}

	cmd, err := commands.NewChangeOrderStatusCommand(
		orderID, to, deref(body.Actor), deref(body.Note), expected,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	if _, err = s.changeStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return s.GetOrder(ctx, id)
}

// GenerateExport handles POST /api/v1/orders/{id}/export.
func (s *Server) GenerateExport(ctx echo.Context, id openapi_types.UUID) error {
	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return writeError(ctx, err)
	}
	cmd, err := commands.NewGenerateExportCommand(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	export, err := s.exportHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	files := export.Files()
	response := servers.Export{
		OrderId:       export.OrderID.Bytes(),
		OrderNumber:   export.OrderNumber,
		FormatVersion: export.FormatVersion,
		ExportedAt:    export.ExportedAt,
		Features:      export.Features,
		Files:         make([]servers.ExportFile, len(files)),
	}
	for i, f := range files {
		response.Files[i] = servers.ExportFile{Name: f.Name, ContentType: f.ContentType, Size: len(f.Content)}
	}

	return ctx.JSON(http.StatusOK, response)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
