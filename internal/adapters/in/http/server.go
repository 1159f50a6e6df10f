// Package http exposes the pipeline over a thin echo adapter. Handlers only
// translate between JSON and commands/queries; every business rule lives
// behind the use case layer.
package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/notifications"
)

// Read-side contracts, satisfied by the SQL query handlers in postgres mode
// and by the store-backed handlers in local mode.
type (
	// OrderReader answers single-order reads.
	OrderReader interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}

	// UncompletedDeliveriesReader lists deliveries still in flight.
	UncompletedDeliveriesReader interface {
		Handle(ctx context.Context, query queries.GetUncompletedDeliveriesQuery) ([]queries.GetUncompletedDeliveriesQueryResponse, error)
	}

	// UnreadNotificationsReader lists a recipient's unread feed.
	UnreadNotificationsReader interface {
		Handle(ctx context.Context, query queries.GetUnreadNotificationsQuery) ([]queries.GetUnreadNotificationsQueryResponse, error)
	}
)

// Server wires the HTTP surface to the command and query handlers.
type Server struct {
	placeOrderHandler       commands.PlaceOrderCommandHandler
	cancelOrderHandler      commands.CancelOrderCommandHandler
	acceptOrderHandler      commands.AcceptOrderCommandHandler
	rejectOrderHandler      commands.RejectOrderCommandHandler
	riderDecisionHandler    commands.RecordRiderDecisionCommandHandler
	advanceDeliveryHandler  commands.AdvanceDeliveryCommandHandler
	adjustStockHandler      commands.AdjustStockCommandHandler
	notificationReadHandler commands.MarkNotificationReadCommandHandler

	orderReader         OrderReader
	deliveriesReader    UncompletedDeliveriesReader
	notificationsReader UnreadNotificationsReader

	registry *notifications.Registry
}

// NewServer creates the HTTP server.
func NewServer(
	placeOrderHandler commands.PlaceOrderCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	acceptOrderHandler commands.AcceptOrderCommandHandler,
	rejectOrderHandler commands.RejectOrderCommandHandler,
	riderDecisionHandler commands.RecordRiderDecisionCommandHandler,
	advanceDeliveryHandler commands.AdvanceDeliveryCommandHandler,
	adjustStockHandler commands.AdjustStockCommandHandler,
	notificationReadHandler commands.MarkNotificationReadCommandHandler,
	orderReader OrderReader,
	deliveriesReader UncompletedDeliveriesReader,
	notificationsReader UnreadNotificationsReader,
	registry *notifications.Registry,
) *Server {
	return &Server{
		placeOrderHandler:       placeOrderHandler,
		cancelOrderHandler:      cancelOrderHandler,
		acceptOrderHandler:      acceptOrderHandler,
		rejectOrderHandler:      rejectOrderHandler,
		riderDecisionHandler:    riderDecisionHandler,
		advanceDeliveryHandler:  advanceDeliveryHandler,
		adjustStockHandler:      adjustStockHandler,
		notificationReadHandler: notificationReadHandler,
		orderReader:             orderReader,
		deliveriesReader:        deliveriesReader,
		notificationsReader:     notificationsReader,
		registry:                registry,
	}
}

// RegisterRoutes binds the API routes on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders/:orderId", s.GetOrder)
	api.POST("/orders/:orderId/cancel", s.CancelOrder)
	api.POST("/orders/:orderId/accept", s.AcceptOrder)
	api.POST("/orders/:orderId/reject", s.RejectOrder)
	api.POST("/orders/:orderId/rider-decision", s.RecordRiderDecision)

	api.GET("/deliveries/active", s.GetActiveDeliveries)
	api.POST("/deliveries/:deliveryId/advance", s.AdvanceDelivery)

	api.POST("/stocks/:productId", s.AdjustStock)

	api.GET("/notifications", s.GetUnreadNotifications)
	api.POST("/notifications/:notificationId/read", s.MarkNotificationRead)
	api.GET("/notifications/subscribe", s.SubscribeNotifications)
}

type orderLineRequest struct {
	ProductID int64           `json:"product_id"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

type placeOrderRequest struct {
	CustomerID    int64              `json:"customer_id"`
	StoreID       int64              `json:"store_id"`
	Address       string             `json:"address"`
	Note          string             `json:"note"`
	DeliveryPrice decimal.Decimal    `json:"delivery_price"`
	Items         []orderLineRequest `json:"items"`
}

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var req placeOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	deliveryPrice, err := kernel.NewMoney(req.DeliveryPrice)
	if err != nil {
		return writeError(ctx, err)
	}

	lines := make([]commands.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		unitPrice, priceErr := kernel.NewMoney(item.UnitPrice)
		if priceErr != nil {
			return writeError(ctx, priceErr)
		}
		lines = append(lines, commands.OrderLine{
			ProductID: kernel.ProductID(item.ProductID),
			UnitPrice: unitPrice,
			Quantity:  item.Quantity,
		})
	}

	cmd, err := commands.NewPlaceOrderCommand(
		kernel.CustomerID(req.CustomerID),
		kernel.StoreID(req.StoreID),
		req.Address,
		req.Note,
		deliveryPrice,
		lines,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	orderID, err := s.placeOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]int64{"order_id": int64(orderID)})
}

type orderResponse struct {
	OrderID       int64           `json:"order_id"`
	Status        string          `json:"status"`
	StorePrice    decimal.Decimal `json:"store_price"`
	DeliveryPrice decimal.Decimal `json:"delivery_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	DeliveryID    *int64          `json:"delivery_id,omitempty"`
}

// GetOrder handles GET /api/v1/orders/:orderId.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := pathID(ctx, "orderId")
	if err != nil {
		return writeBindError(ctx)
	}

	query, err := queries.NewGetOrderQuery(kernel.OrderID(orderID))
	if err != nil {
		return writeError(ctx, err)
	}

	resp, err := s.orderReader.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderResponse{
		OrderID:       resp.OrderID,
		Status:        resp.Status,
		StorePrice:    resp.StorePrice,
		DeliveryPrice: resp.DeliveryPrice,
		TotalPrice:    resp.TotalPrice,
		DeliveryID:    resp.DeliveryID,
	})
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder handles POST /api/v1/orders/:orderId/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := pathID(ctx, "orderId")
	if err != nil {
		return writeBindError(ctx)
	}
	var req reasonRequest
	if err = ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	cmd, err := commands.NewCancelOrderCommand(kernel.OrderID(orderID), req.Reason)
	if err != nil {
		return writeError(ctx, err)
	}
	if err = s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// AcceptOrder handles POST /api/v1/orders/:orderId/accept.
func (s *Server) AcceptOrder(ctx echo.Context) error {
	orderID, err := pathID(ctx, "orderId")
	if err != nil {
		return writeBindError(ctx)
	}

	cmd, err := commands.NewAcceptOrderCommand(kernel.OrderID(orderID))
	if err != nil {
		return writeError(ctx, err)
	}

	deliveryID, err := s.acceptOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, map[string]int64{"delivery_id": int64(deliveryID)})
}

// RejectOrder handles POST /api/v1/orders/:orderId/reject.
func (s *Server) RejectOrder(ctx echo.Context) error {
	orderID, err := pathID(ctx, "orderId")
	if err != nil {
		return writeBindError(ctx)
	}
	var req reasonRequest
	if err = ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	cmd, err := commands.NewRejectOrderCommand(kernel.OrderID(orderID), req.Reason)
	if err != nil {
		return writeError(ctx, err)
	}
	if err = s.rejectOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

type riderDecisionRequest struct {
	RiderID    int64   `json:"rider_id"`
	Decision   string  `json:"decision"`
	EtaMinutes float64 `json:"eta_minutes"`
}

// RecordRiderDecision handles POST /api/v1/orders/:orderId/rider-decision.
func (s *Server) RecordRiderDecision(ctx echo.Context) error {
	orderID, err := pathID(ctx, "orderId")
	if err != nil {
		return writeBindError(ctx)
	}
	var req riderDecisionRequest
	if err = ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	cmd, err := commands.NewRecordRiderDecisionCommand(
		kernel.OrderID(orderID),
		kernel.RiderID(req.RiderID),
		events.Decision(req.Decision),
		req.EtaMinutes,
	)
	if err != nil {
		return writeError(ctx, err)
	}
	if err = s.riderDecisionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

type advanceDeliveryRequest struct {
	Status string `json:"status"`
}

// AdvanceDelivery handles POST /api/v1/deliveries/:deliveryId/advance.
func (s *Server) AdvanceDelivery(ctx echo.Context) error {
	deliveryID, err := pathID(ctx, "deliveryId")
	if err != nil {
		return writeBindError(ctx)
	}
	var req advanceDeliveryRequest
	if err = ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	cmd, err := commands.NewAdvanceDeliveryCommand(
		kernel.DeliveryID(deliveryID),
		delivery.Status(req.Status),
	)
	if err != nil {
		return writeError(ctx, err)
	}
	if err = s.advanceDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

type deliveryResponse struct {
	DeliveryID       int64   `json:"delivery_id"`
	OrderID          int64   `json:"order_id"`
	Status           string  `json:"status"`
	RiderID          *int64  `json:"rider_id,omitempty"`
	RemainingMinutes float64 `json:"remaining_minutes"`
}

// GetActiveDeliveries handles GET /api/v1/deliveries/active.
func (s *Server) GetActiveDeliveries(ctx echo.Context) error {
	query := queries.NewGetUncompletedDeliveriesQuery()

	deliveries, err := s.deliveriesReader.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]deliveryResponse, 0, len(deliveries))
	for _, d := range deliveries {
		response = append(response, deliveryResponse{
			DeliveryID:       d.DeliveryID,
			OrderID:          d.OrderID,
			Status:           d.Status,
			RiderID:          d.RiderID,
			RemainingMinutes: d.RemainingMinutes,
		})
	}
	return ctx.JSON(http.StatusOK, response)
}

type adjustStockRequest struct {
	Delta    *int `json:"delta"`
	Quantity *int `json:"quantity"`
}

// AdjustStock handles POST /api/v1/stocks/:productId. A delta adjusts the
// current quantity; a quantity replaces it. Exactly one must be present.
func (s *Server) AdjustStock(ctx echo.Context) error {
	productID, err := pathID(ctx, "productId")
	if err != nil {
		return writeBindError(ctx)
	}
	var req adjustStockRequest
	if err = ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}
	if (req.Delta == nil) == (req.Quantity == nil) {
		return writeBindError(ctx)
	}

	var cmd commands.AdjustStockCommand
	if req.Delta != nil {
		cmd, err = commands.NewAdjustStockCommand(kernel.ProductID(productID), *req.Delta)
	} else {
		cmd, err = commands.NewSetStockQuantityCommand(kernel.ProductID(productID), *req.Quantity)
	}
	if err != nil {
		return writeError(ctx, err)
	}

	snapshot, err := s.adjustStockHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]int64{
		"product_id": int64(snapshot.ProductID),
		"quantity":   int64(snapshot.Quantity),
		"version":    snapshot.Version,
	})
}

// GetUnreadNotifications handles GET /api/v1/notifications?recipient_id=N.
func (s *Server) GetUnreadNotifications(ctx echo.Context) error {
	recipientID, err := queryID(ctx, "recipient_id")
	if err != nil {
		return writeBindError(ctx)
	}

	query, err := queries.NewGetUnreadNotificationsQuery(recipientID)
	if err != nil {
		return writeError(ctx, err)
	}

	unread, err := s.notificationsReader.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]notificationResponse, 0, len(unread))
	for _, n := range unread {
		response = append(response, notificationResponse{
			NotificationID: n.NotificationID,
			Kind:           n.Kind,
			Message:        n.Message,
			Payload:        n.Payload,
		})
	}
	return ctx.JSON(http.StatusOK, response)
}

type notificationResponse struct {
	NotificationID int64           `json:"notification_id"`
	Kind           string          `json:"kind"`
	Message        string          `json:"message"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

type markReadRequest struct {
	RecipientID int64 `json:"recipient_id"`
}

// MarkNotificationRead handles POST /api/v1/notifications/:notificationId/read.
func (s *Server) MarkNotificationRead(ctx echo.Context) error {
	notificationID, err := pathID(ctx, "notificationId")
	if err != nil {
		return writeBindError(ctx)
	}
	var req markReadRequest
	if err = ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	cmd, err := commands.NewMarkNotificationReadCommand(
		kernel.NotificationID(notificationID), req.RecipientID)
	if err != nil {
		return writeError(ctx, err)
	}
	if err = s.notificationReadHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
