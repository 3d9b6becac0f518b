package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/event-dashboard-api/internal/handlers"
	"github.com/yukikurage/event-dashboard-api/internal/metrics"
	"github.com/yukikurage/event-dashboard-api/internal/middleware"
	"github.com/yukikurage/event-dashboard-api/internal/repository"
	"github.com/yukikurage/event-dashboard-api/internal/services"
	"github.com/yukikurage/event-dashboard-api/internal/web"
)

// Dependencies is everything the router needs to serve requests.
type Dependencies struct {
	Repositories repository.Repositories
	Tokens       services.TokenManager
	SessionStore sessions.Store
	Logger       zerolog.Logger

	// OpenAIKey enables task suggestions; Completer overrides the OpenAI client.
	OpenAIKey string
	Completer services.ChatCompleter

	// LoginPerMinute limits register and both logins per client IP; 0 disables.
	LoginPerMinute int

	// AuthOptions are passed to the auth service (tests lower the bcrypt cost).
	AuthOptions []services.AuthOption
}

// Services groups the business services built from Dependencies.
type Services struct {
	Auth      *services.AuthService
	Events    *services.EventService
	Attendees *services.AttendeeService
	Tasks     *services.TaskService
}

// NewServices wires the services to the repositories.
func NewServices(deps Dependencies) Services {
	repos := deps.Repositories
	return Services{
		Auth:      services.NewAuthService(repos.Users, deps.Tokens, deps.AuthOptions...),
		Events:    services.NewEventService(repos.Events, repos.Attendees),
		Attendees: services.NewAttendeeService(repos.Attendees),
		Tasks:     services.NewTaskService(repos.Tasks, repos.Events, repos.Attendees),
	}
}

// NewRouter builds the gin engine with the JSON API, health and metrics
// endpoints and, when a session store is given, the dashboard pages.
func NewRouter(deps Dependencies) *gin.Engine {
	svc := NewServices(deps)

	aiService := services.NewAIService(deps.OpenAIKey, svc.Events)
	if deps.Completer != nil {
		aiService = services.NewAIServiceWithClient(deps.Completer, svc.Events, time.Now)
	}

	authHandler := handlers.NewAuthHandler(svc.Auth)
	eventHandler := handlers.NewEventHandler(svc.Events)
	attendeeHandler := handlers.NewAttendeeHandler(svc.Attendees)
	taskHandler := handlers.NewTaskHandler(svc.Tasks, aiService)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(deps.Logger),
		middleware.RequestLogger(),
		metrics.Middleware(),
	)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Event Dashboard API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	requireAuth := middleware.RequireAuth(deps.Tokens)
	requireID := middleware.RequireIDParam("id")
	loginLimiter := middleware.RateLimit(middleware.NewRateLimiter(deps.LoginPerMinute))

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", loginLimiter, authHandler.Register)
		api.POST("/login", loginLimiter, authHandler.Login)
		api.GET("/me", requireAuth, authHandler.GetCurrentUser)

		events := api.Group("/events", requireAuth)
		{
			events.POST("", eventHandler.CreateEvent)
			events.GET("", eventHandler.ListEvents)
			events.GET("/:id", requireID, eventHandler.GetEvent)
			events.PUT("/:id", requireID, eventHandler.UpdateEvent)
			events.DELETE("/:id", requireID, eventHandler.DeleteEvent)
			events.GET("/:id/tasks", requireID, taskHandler.ListEventTasks)
			events.POST("/:id/tasks/suggest", requireID, taskHandler.SuggestTasks)
		}

		attendees := api.Group("/attendees", requireAuth)
		{
			attendees.POST("", attendeeHandler.CreateAttendee)
			attendees.GET("", attendeeHandler.ListAttendees)
			attendees.PUT("/:id", requireID, attendeeHandler.UpdateAttendee)
			attendees.DELETE("/:id", requireID, attendeeHandler.DeleteAttendee)
		}

		tasks := api.Group("/tasks", requireAuth)
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("", taskHandler.ListTasks)
			tasks.PUT("/:id", requireID, taskHandler.UpdateTask)
			tasks.DELETE("/:id", requireID, taskHandler.DeleteTask)
		}
	}

	if deps.SessionStore != nil {
		web.NewDashboard(svc.Auth, svc.Events).Register(r, deps.SessionStore, loginLimiter)
	}

	return r
}
