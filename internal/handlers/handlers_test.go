package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/event-dashboard-api/internal/auth"
	"github.com/yukikurage/event-dashboard-api/internal/database"
	"github.com/yukikurage/event-dashboard-api/internal/dto"
	"github.com/yukikurage/event-dashboard-api/internal/middleware"
	"github.com/yukikurage/event-dashboard-api/internal/repository"
	"github.com/yukikurage/event-dashboard-api/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// HandlerTestSuite exercises the handlers over a GORM sqlite store
type HandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	token  string
}

// SetupTest runs before each test
func (suite *HandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = database.Open(sqlite.Open(":memory:"), zerolog.Nop())
	suite.Require().NoError(err)
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	// Run migrations
	suite.Require().NoError(database.Migrate(suite.db, zerolog.Nop()))

	tokens, err := auth.NewJWTManager("handler-test-secret", time.Hour, "test")
	suite.Require().NoError(err)

	repos := repository.NewGormRepositories(suite.db)
	authService := services.NewAuthService(repos.Users, tokens, services.WithPasswordCost(bcrypt.MinCost))
	eventService := services.NewEventService(repos.Events, repos.Attendees)
	attendeeService := services.NewAttendeeService(repos.Attendees)
	taskService := services.NewTaskService(repos.Tasks, repos.Events, repos.Attendees)

	authHandler := NewAuthHandler(authService)
	eventHandler := NewEventHandler(eventService)
	attendeeHandler := NewAttendeeHandler(attendeeService)
	taskHandler := NewTaskHandler(taskService, services.NewAIService("", eventService))

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	suite.router = gin.New()
	requireAuth := middleware.RequireAuth(tokens)
	requireID := middleware.RequireIDParam("id")

	api := suite.router.Group("/api")
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.GET("/me", requireAuth, authHandler.GetCurrentUser)

	protected := api.Group("", requireAuth)
	protected.POST("/events", eventHandler.CreateEvent)
	protected.GET("/events", eventHandler.ListEvents)
	protected.GET("/events/:id", requireID, eventHandler.GetEvent)
	protected.PUT("/events/:id", requireID, eventHandler.UpdateEvent)
	protected.DELETE("/events/:id", requireID, eventHandler.DeleteEvent)
	protected.GET("/events/:id/tasks", requireID, taskHandler.ListEventTasks)
	protected.POST("/events/:id/tasks/suggest", requireID, taskHandler.SuggestTasks)
	protected.POST("/attendees", attendeeHandler.CreateAttendee)
	protected.GET("/attendees", attendeeHandler.ListAttendees)
	protected.PUT("/attendees/:id", requireID, attendeeHandler.UpdateAttendee)
	protected.DELETE("/attendees/:id", requireID, attendeeHandler.DeleteAttendee)
	protected.POST("/tasks", taskHandler.CreateTask)
	protected.GET("/tasks", taskHandler.ListTasks)
	protected.PUT("/tasks/:id", requireID, taskHandler.UpdateTask)
	protected.DELETE("/tasks/:id", requireID, taskHandler.DeleteTask)

	w := suite.do(http.MethodPost, "/api/register", `{"username":"alice","password":"pw1"}`, "")
	suite.Require().Equal(http.StatusCreated, w.Code)
	w = suite.do(http.MethodPost, "/api/login", `{"username":"alice","password":"pw1"}`, "")
	suite.Require().Equal(http.StatusOK, w.Code)

	var login struct {
		Token string `json:"token"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &login))
	suite.token = login.Token
}

// TearDownTest runs after each test
func (suite *HandlerTestSuite) TearDownTest() {
	suite.Require().NoError(database.Close(suite.db))
}

func (suite *HandlerTestSuite) do(method, path, body, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) authed(method, path, body string) *httptest.ResponseRecorder {
	return suite.do(method, path, body, suite.token)
}

func decode[T any](suite *HandlerTestSuite, w *httptest.ResponseRecorder) T {
	var out T
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (suite *HandlerTestSuite) TestRegisterDuplicate() {
	w := suite.do(http.MethodPost, "/api/register", `{"username":"alice","password":"pw2"}`, "")
	suite.Equal(http.StatusBadRequest, w.Code)

	body := decode[map[string]any](suite, w)
	suite.Equal("ALREADY_EXISTS", body["code"])
	suite.NotEmpty(body["error"])
}

func (suite *HandlerTestSuite) TestRegisterInvalidBody() {
	w := suite.do(http.MethodPost, "/api/register", `{"username":`, "")
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/register", `{"username":"bo","password":"pw1"}`, "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("VALIDATION_FAILED", decode[map[string]any](suite, w)["code"])
}

func (suite *HandlerTestSuite) TestLoginWrongPassword() {
	w := suite.do(http.MethodPost, "/api/login", `{"username":"alice","password":"nope"}`, "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("INVALID_CREDENTIALS", decode[map[string]any](suite, w)["code"])
	suite.NotContains(w.Body.String(), "token\":\"")
}

func (suite *HandlerTestSuite) TestMe() {
	w := suite.authed(http.MethodGet, "/api/me", "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("alice", decode[dto.UserDTO](suite, w).Username)
}

func (suite *HandlerTestSuite) TestProtectedRoutesRequireToken() {
	w := suite.do(http.MethodGet, "/api/events", "", "")
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodGet, "/api/events", "", "garbage.token.value")
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodGet, "/api/events", "", suite.token)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestEventRoundTrip() {
	w := suite.authed(http.MethodPost, "/api/attendees", `{"name":"Ann","email":"ann@example.com"}`)
	suite.Require().Equal(http.StatusCreated, w.Code)
	attendee := decode[dto.AttendeeDTO](suite, w)

	w = suite.authed(http.MethodPost, "/api/events",
		`{"name":"Conf","description":"Yearly","location":"Berlin","date":"2026-09-01T10:00:00Z","attendees":["`+attendee.ID+`"]}`)
	suite.Require().Equal(http.StatusCreated, w.Code)
	created := decode[dto.EventDTO](suite, w)
	suite.Equal("Conf", created.Name)
	suite.Require().Len(created.Attendees, 1)
	suite.Equal("Ann", created.Attendees[0].Name)

	w = suite.authed(http.MethodGet, "/api/events", "")
	suite.Require().Equal(http.StatusOK, w.Code)
	events := decode[[]dto.EventDTO](suite, w)
	suite.Require().Len(events, 1)
	suite.Equal(created.ID, events[0].ID)
	suite.Equal(created.Name, events[0].Name)
	suite.Equal(created.Description, events[0].Description)
	suite.Equal(created.Location, events[0].Location)
	suite.Require().NotNil(events[0].Date)
	suite.True(created.Date.Equal(*events[0].Date))
	suite.Equal(created.Attendees[0].ID, events[0].Attendees[0].ID)

	w = suite.authed(http.MethodGet, "/api/events/"+created.ID, "")
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateEventClearsDate() {
	w := suite.authed(http.MethodPost, "/api/events", `{"name":"Conf","date":"2026-09-01T10:00:00Z"}`)
	suite.Require().Equal(http.StatusCreated, w.Code)
	created := decode[dto.EventDTO](suite, w)

	w = suite.authed(http.MethodPut, "/api/events/"+created.ID, `{"location":"Paris"}`)
	suite.Require().Equal(http.StatusOK, w.Code)
	updated := decode[dto.EventDTO](suite, w)
	suite.Equal("Paris", updated.Location)
	suite.NotNil(updated.Date)

	w = suite.authed(http.MethodPut, "/api/events/"+created.ID, `{"date":null}`)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Nil(decode[dto.EventDTO](suite, w).Date)
}

func (suite *HandlerTestSuite) TestNotFoundAndBadIDs() {
	missing := "01ARZ3NDEKTSV4RRFFQ69G5FAV"

	suite.Equal(http.StatusNotFound, suite.authed(http.MethodPut, "/api/events/"+missing, `{"name":"x"}`).Code)
	suite.Equal(http.StatusNotFound, suite.authed(http.MethodPut, "/api/attendees/"+missing, `{"name":"x"}`).Code)
	suite.Equal(http.StatusNotFound, suite.authed(http.MethodPut, "/api/tasks/"+missing, `{"status":"Completed"}`).Code)
	suite.Equal(http.StatusNotFound, suite.authed(http.MethodGet, "/api/events/"+missing, "").Code)

	suite.Equal(http.StatusNoContent, suite.authed(http.MethodDelete, "/api/events/"+missing, "").Code)
	suite.Equal(http.StatusNoContent, suite.authed(http.MethodDelete, "/api/attendees/"+missing, "").Code)
	suite.Equal(http.StatusNoContent, suite.authed(http.MethodDelete, "/api/tasks/"+missing, "").Code)

	suite.Equal(http.StatusBadRequest, suite.authed(http.MethodDelete, "/api/events/123", "").Code)
	suite.Equal(http.StatusBadRequest, suite.authed(http.MethodPut, "/api/tasks/abc", `{}`).Code)
}

func (suite *HandlerTestSuite) TestTaskStatusOnlyUpdate() {
	attendee := decode[dto.AttendeeDTO](suite, suite.authed(http.MethodPost, "/api/attendees", `{"name":"Ann"}`))
	event := decode[dto.EventDTO](suite, suite.authed(http.MethodPost, "/api/events", `{"name":"Conf"}`))

	w := suite.authed(http.MethodPost, "/api/tasks",
		`{"name":"Book venue","deadline":"2026-08-01T00:00:00Z","event":"`+event.ID+`","assignedTo":"`+attendee.ID+`"}`)
	suite.Require().Equal(http.StatusCreated, w.Code)
	task := decode[dto.TaskDTO](suite, w)
	suite.Equal("Pending", string(task.Status))
	suite.Require().NotNil(task.AssignedTo)

	w = suite.authed(http.MethodPut, "/api/tasks/"+task.ID, `{"status":"Completed"}`)
	suite.Require().Equal(http.StatusOK, w.Code)
	updated := decode[dto.TaskDTO](suite, w)
	suite.Equal("Completed", string(updated.Status))
	suite.Equal(task.Name, updated.Name)
	suite.Equal(task.Event, updated.Event)
	suite.Require().NotNil(updated.Deadline)
	suite.True(task.Deadline.Equal(*updated.Deadline))
	suite.Require().NotNil(updated.AssignedTo)
	suite.Equal(attendee.ID, updated.AssignedTo.ID)

	w = suite.authed(http.MethodPut, "/api/tasks/"+task.ID, `{"status":"Done"}`)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.authed(http.MethodPut, "/api/tasks/"+task.ID, `{"assignedTo":null,"deadline":null}`)
	suite.Require().Equal(http.StatusOK, w.Code)
	cleared := decode[dto.TaskDTO](suite, w)
	suite.Nil(cleared.AssignedTo)
	suite.Nil(cleared.AssignedToID)
	suite.Nil(cleared.Deadline)
}

func (suite *HandlerTestSuite) TestDeletingEventKeepsTasks() {
	event := decode[dto.EventDTO](suite, suite.authed(http.MethodPost, "/api/events", `{"name":"Conf"}`))
	w := suite.authed(http.MethodPost, "/api/tasks", `{"name":"Book venue","event":"`+event.ID+`"}`)
	suite.Require().Equal(http.StatusCreated, w.Code)
	task := decode[dto.TaskDTO](suite, w)

	suite.Require().Equal(http.StatusNoContent, suite.authed(http.MethodDelete, "/api/events/"+event.ID, "").Code)

	w = suite.authed(http.MethodGet, "/api/events/"+event.ID+"/tasks", "")
	suite.Require().Equal(http.StatusOK, w.Code)
	tasks := decode[[]dto.TaskDTO](suite, w)
	suite.Require().Len(tasks, 1)
	suite.Equal(task.ID, tasks[0].ID)
	suite.Equal(event.ID, tasks[0].Event)

	w = suite.authed(http.MethodGet, "/api/tasks", "")
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Len(decode[[]dto.TaskDTO](suite, w), 1)
}

func (suite *HandlerTestSuite) TestDeletedAttendeeRendersNull() {
	attendee := decode[dto.AttendeeDTO](suite, suite.authed(http.MethodPost, "/api/attendees", `{"name":"Ann"}`))
	event := decode[dto.EventDTO](suite, suite.authed(http.MethodPost, "/api/events", `{"name":"Conf"}`))
	task := decode[dto.TaskDTO](suite, suite.authed(http.MethodPost, "/api/tasks",
		`{"name":"Book venue","event":"`+event.ID+`","assignedTo":"`+attendee.ID+`"}`))

	suite.Require().Equal(http.StatusNoContent, suite.authed(http.MethodDelete, "/api/attendees/"+attendee.ID, "").Code)

	w := suite.authed(http.MethodGet, "/api/events/"+event.ID+"/tasks", "")
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"assignedTo":null`)
	tasks := decode[[]dto.TaskDTO](suite, w)
	suite.Require().Len(tasks, 1)
	suite.Equal(task.ID, tasks[0].ID)
	suite.Require().NotNil(tasks[0].AssignedToID)
	suite.Equal(attendee.ID, *tasks[0].AssignedToID)
}

func (suite *HandlerTestSuite) TestCreateTaskRequiresExistingEvent() {
	w := suite.authed(http.MethodPost, "/api/tasks", `{"name":"Orphan","event":"01ARZ3NDEKTSV4RRFFQ69G5FAV"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "event")
}

func (suite *HandlerTestSuite) TestWrongFieldTypeIsBadRequest() {
	w := suite.authed(http.MethodPost, "/api/events", `{"name":42}`)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), `"field":"name"`)
}

func (suite *HandlerTestSuite) TestDateFormats() {
	w := suite.authed(http.MethodPost, "/api/events", `{"name":"Conf","date":"2024-05-01"}`)
	suite.Require().Equal(http.StatusCreated, w.Code)
	event := decode[dto.EventDTO](suite, w)
	suite.Require().NotNil(event.Date)
	suite.True(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).Equal(*event.Date))

	w = suite.authed(http.MethodPost, "/api/tasks", `{"name":"Book venue","event":"`+event.ID+`","deadline":"2024-04-20T09:30:00+02:00"}`)
	suite.Require().Equal(http.StatusCreated, w.Code)
	task := decode[dto.TaskDTO](suite, w)
	suite.Require().NotNil(task.Deadline)
	suite.True(time.Date(2024, 4, 20, 7, 30, 0, 0, time.UTC).Equal(*task.Deadline))

	w = suite.authed(http.MethodPut, "/api/events/"+event.ID, `{"date":"next friday"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
	body := decode[map[string]any](suite, w)
	suite.Equal("VALIDATION_FAILED", body["code"])
	suite.Equal([]any{map[string]any{"field": "date", "message": "has an invalid type or format"}}, body["details"])
}

func (suite *HandlerTestSuite) TestTextWithAngleBracketsRoundTrips() {
	w := suite.authed(http.MethodPost, "/api/events", `{"name":"a < b","description":"Budget < 500 & seats > 20"}`)
	suite.Require().Equal(http.StatusCreated, w.Code)

	events := decode[[]dto.EventDTO](suite, suite.authed(http.MethodGet, "/api/events", ""))
	suite.Require().Len(events, 1)
	suite.Equal("a < b", events[0].Name)
	suite.Equal("Budget < 500 & seats > 20", events[0].Description)

	w = suite.authed(http.MethodPost, "/api/events", `{"name":"Conf","description":"Bring <laptop> and charger"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("VALIDATION_FAILED", decode[map[string]any](suite, w)["code"])
}

func (suite *HandlerTestSuite) TestPagination() {
	for _, name := range []string{"a", "b", "c"} {
		suite.Require().Equal(http.StatusCreated, suite.authed(http.MethodPost, "/api/attendees", `{"name":"`+name+`"}`).Code)
	}

	w := suite.authed(http.MethodGet, "/api/attendees?page=2&limit=2", "")
	suite.Require().Equal(http.StatusOK, w.Code)
	page := decode[[]dto.AttendeeDTO](suite, w)
	suite.Require().Len(page, 1)
	suite.Equal("c", page[0].Name)
}

func (suite *HandlerTestSuite) TestSuggestWithoutKey() {
	event := decode[dto.EventDTO](suite, suite.authed(http.MethodPost, "/api/events", `{"name":"Conf"}`))
	w := suite.authed(http.MethodPost, "/api/events/"+event.ID+"/tasks/suggest", "")
	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

// TestHandlerTestSuite runs the test suite
func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
