// Package web serves the server-rendered dashboard: a login form and the
// list of events for a signed-in user.
package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/event-dashboard-api/internal/constants"
	"github.com/yukikurage/event-dashboard-api/internal/models"
	"github.com/yukikurage/event-dashboard-api/internal/repository"
	"github.com/yukikurage/event-dashboard-api/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"formatDate": formatDate,
	}).ParseFS(templateFS, "templates/*.html"))
}

func formatDate(date *time.Time) string {
	if date == nil {
		return "no date"
	}
	return date.Format("2006-01-02 15:04")
}

// Dashboard renders the pages. The access token issued at login is kept in
// the session and re-verified on every page view.
type Dashboard struct {
	authService  *services.AuthService
	eventService *services.EventService
}

func NewDashboard(authService *services.AuthService, eventService *services.EventService) *Dashboard {
	return &Dashboard{
		authService:  authService,
		eventService: eventService,
	}
}

// Register mounts the dashboard routes behind the session middleware.
// loginGuards run before the credential check on POST /login.
func (d *Dashboard) Register(r *gin.Engine, store sessions.Store, loginGuards ...gin.HandlerFunc) {
	r.SetHTMLTemplate(Templates())

	pages := r.Group("/", sessions.Sessions(constants.SessionCookieName, store))
	pages.GET("/", d.Index)
	pages.GET("/login", d.LoginForm)
	pages.POST("/login", append(loginGuards, d.Login)...)
	pages.POST("/logout", d.Logout)
}

type pageData struct {
	Title    string
	Error    string
	Username string
	Events   []models.Event
}

// Index lists events, or redirects to the login form without a valid session
func (d *Dashboard) Index(c *gin.Context) {
	session := sessions.Default(c)
	token, _ := session.Get(constants.SessionKeyToken).(string)
	if token == "" {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	if _, err := d.authService.Authenticate(token); err != nil {
		session.Clear()
		_ = session.Save()
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	events, err := d.eventService.ListEvents(c.Request.Context(), repository.ListOptions{})
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to list events for dashboard")
		c.HTML(http.StatusInternalServerError, "events", pageData{Title: "Events"})
		return
	}

	c.HTML(http.StatusOK, "events", pageData{Title: "Events", Events: events})
}

func (d *Dashboard) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login", pageData{Title: "Sign in"})
}

// Login verifies the form credentials and keeps the issued token in the session
func (d *Dashboard) Login(c *gin.Context) {
	input := services.LoginInput{
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
	}

	token, _, err := d.authService.Login(c.Request.Context(), input)
	if err != nil {
		status := http.StatusUnauthorized
		message := "Invalid username or password"
		if !errors.Is(err, services.ErrInvalidCredentials) {
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("dashboard login failed")
			status = http.StatusInternalServerError
			message = "Something went wrong, please try again"
		}
		c.HTML(status, "login", pageData{Title: "Sign in", Error: message, Username: input.Username})
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyToken, token)
	if err := session.Save(); err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to save session")
		c.HTML(http.StatusInternalServerError, "login", pageData{Title: "Sign in", Error: "Failed to save session"})
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// Logout removes the session and returns to the login form
func (d *Dashboard) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to clear session")
	}

	c.Redirect(http.StatusSeeOther, "/login")
}
