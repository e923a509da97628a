package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"support-desk-api/internal/services"
	"support-desk-api/pkg/lambda"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	TicketService       services.TicketService
	MessageService      services.MessageService
	NotificationService services.NotificationService
	EquipmentService    services.EquipmentService
	Logger              *logrus.Logger
}

// NewRouter registers every function on a router shared by the Lambda
// entrypoints and the development server.
func NewRouter(config *RouterConfig) *lambda.Router {
	logger := config.Logger
	if logger == nil {
		logger = logrus.New()
	}

	ticketHandler := NewTicketHandler(config.TicketService, logger)
	messageHandler := NewMessageHandler(config.MessageService, logger)
	notifyHandler := NewNotifyHandler(config.NotificationService, logger)
	equipmentHandler := NewEquipmentHandler(config.EquipmentService, logger)

	router := lambda.NewRouter(logger)
	router.Register(lambda.Endpoint{
		Name:    FunctionTicketGet,
		Methods: map[string]lambda.HandlerFunc{http.MethodGet: ticketHandler.HandleGet},
	})
	router.Register(lambda.Endpoint{
		Name:    FunctionTicketAdminList,
		Methods: map[string]lambda.HandlerFunc{http.MethodGet: ticketHandler.HandleAdminList},
	})
	router.Register(lambda.Endpoint{
		Name:    FunctionTicketCreate,
		Methods: map[string]lambda.HandlerFunc{http.MethodPost: ticketHandler.HandleCreate},
	})
	router.Register(lambda.Endpoint{
		Name:    FunctionTicketUpdate,
		Methods: map[string]lambda.HandlerFunc{http.MethodPost: ticketHandler.HandleUpdate},
	})
	router.Register(lambda.Endpoint{
		Name:    FunctionTicketMessages,
		Methods: map[string]lambda.HandlerFunc{http.MethodGet: messageHandler.HandleList},
	})
	router.Register(lambda.Endpoint{
		Name:    FunctionTicketReply,
		Methods: map[string]lambda.HandlerFunc{http.MethodPost: messageHandler.HandleReply},
	})
	router.Register(lambda.Endpoint{
		Name:    FunctionTicketNotify,
		Methods: map[string]lambda.HandlerFunc{http.MethodPost: notifyHandler.HandleNotify},
	})
	router.Register(lambda.Endpoint{
		Name: FunctionEquipmentSave,
		Methods: map[string]lambda.HandlerFunc{
			http.MethodGet:  equipmentHandler.HandleGet,
			http.MethodPost: equipmentHandler.HandlePost,
		},
	})
	return router
}

// SetupRoutes mounts the function router on a gin engine under /api/:function
func SetupRoutes(engine *gin.Engine, router *lambda.Router) {
	// Swagger documentation
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "support-desk-api",
			"version":   "1.0.0",
			"functions": router.Endpoints(),
		})
	})

	engine.Any("/api/:function", GinAdapter(router))
}

// GinAdapter serves a gin request through the function router
func GinAdapter(router *lambda.Router) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "ValidationError", Message: "unreadable request body"})
			return
		}

		headers := make(map[string]string, len(c.Request.Header))
		for key := range c.Request.Header {
			headers[key] = c.Request.Header.Get(key)
		}
		query := make(map[string]string)
		for key, values := range c.Request.URL.Query() {
			if len(values) > 0 {
				query[key] = values[0]
			}
		}

		resp := router.Serve(c.Request.Context(), &lambda.Request{
			Method:      c.Request.Method,
			Path:        c.Request.URL.Path,
			Headers:     headers,
			QueryParams: query,
			Body:        body,
			PathParams:  map[string]string{"function": c.Param("function")},
		})

		for key, value := range resp.Headers {
			c.Header(key, value)
		}
		c.Data(resp.StatusCode, resp.Headers["Content-Type"], resp.Body)
	}
}
