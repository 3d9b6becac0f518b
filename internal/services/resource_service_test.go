package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/event-dashboard-api/internal/models"
	"github.com/yukikurage/event-dashboard-api/internal/repository"
	"github.com/yukikurage/event-dashboard-api/internal/utils"
)

const unknownID = "01ARZ3NDEKTSV4RRFFQ69G5FAV"

type ResourceServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	repos     repository.Repositories
	events    *EventService
	attendees *AttendeeService
	tasks     *TaskService
}

func (s *ResourceServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repos = repository.NewMemoryRepositories()
	s.events = NewEventService(s.repos.Events, s.repos.Attendees)
	s.attendees = NewAttendeeService(s.repos.Attendees)
	s.tasks = NewTaskService(s.repos.Tasks, s.repos.Events, s.repos.Attendees)
}

func (s *ResourceServiceTestSuite) newAttendee(name string) *models.Attendee {
	a, err := s.attendees.CreateAttendee(s.ctx, CreateAttendeeInput{Name: name, Email: name + "@example.com"})
	s.Require().NoError(err)
	return a
}

func (s *ResourceServiceTestSuite) newEvent(name string, attendees ...string) *models.Event {
	e, err := s.events.CreateEvent(s.ctx, CreateEventInput{Name: name, Attendees: attendees})
	s.Require().NoError(err)
	return e
}

func (s *ResourceServiceTestSuite) TestCreateEventPopulatesAttendees() {
	a := s.newAttendee("ann")
	b := s.newAttendee("bob")

	e := s.newEvent("Launch", a.ID, b.ID, a.ID)

	s.Len(e.Attendees, 2)
	s.Equal([]string{a.ID, b.ID}, e.AttendeeIDs)
	s.Equal("ann", e.Attendees[0].Name)
}

func (s *ResourceServiceTestSuite) TestCreateEventRejectsUnknownAttendee() {
	_, err := s.events.CreateEvent(s.ctx, CreateEventInput{Name: "Launch", Attendees: []string{unknownID}})
	s.True(IsValidationError(err))

	_, err = s.events.CreateEvent(s.ctx, CreateEventInput{Name: "Launch", Attendees: []string{"not-an-id"}})
	s.True(IsValidationError(err))
}

func (s *ResourceServiceTestSuite) TestCreateEventRequiresName() {
	_, err := s.events.CreateEvent(s.ctx, CreateEventInput{Name: "   "})
	s.True(IsValidationError(err))
}

func (s *ResourceServiceTestSuite) TestCreateEventRejectsMarkup() {
	_, err := s.events.CreateEvent(s.ctx, CreateEventInput{
		Name:        "Party",
		Description: "Bring <laptop> and charger",
	})
	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Equal([]FieldError{{Field: "description", Message: "must not contain HTML markup"}}, verr.Fields)

	events, err := s.events.ListEvents(s.ctx, repository.ListOptions{})
	s.Require().NoError(err)
	s.Empty(events)
}

func (s *ResourceServiceTestSuite) TestPlainTextRoundTrips() {
	created, err := s.events.CreateEvent(s.ctx, CreateEventInput{
		Name:        "Q&A: a < b",
		Description: "Budget < 500 & seats > 20",
		Location:    " Room A1 ",
	})
	s.Require().NoError(err)

	events, err := s.events.ListEvents(s.ctx, repository.ListOptions{})
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(created.ID, events[0].ID)
	s.Equal("Q&A: a < b", events[0].Name)
	s.Equal("Budget < 500 & seats > 20", events[0].Description)
	s.Equal(" Room A1 ", events[0].Location)

	e := s.newEvent("Launch")
	task, err := s.tasks.CreateTask(s.ctx, CreateTaskInput{Name: "Print 2 > 1 flyers", Event: e.ID})
	s.Require().NoError(err)
	s.Equal("Print 2 > 1 flyers", task.Name)

	name := "<i>Ann</i>"
	a := s.newAttendee("ann")
	_, err = s.attendees.UpdateAttendee(s.ctx, a.ID, UpdateAttendeeInput{Name: &name})
	s.True(IsValidationError(err))

	blank := "  "
	_, err = s.tasks.UpdateTask(s.ctx, task.ID, UpdateTaskInput{Name: &blank})
	s.True(IsValidationError(err))
}

func (s *ResourceServiceTestSuite) TestUpdateEventMergesProvidedFields() {
	date := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	created, err := s.events.CreateEvent(s.ctx, CreateEventInput{
		Name:        "Launch",
		Description: "first",
		Location:    "Berlin",
		Date:        utils.NewTimestamp(date),
	})
	s.Require().NoError(err)

	location := "Paris"
	updated, err := s.events.UpdateEvent(s.ctx, created.ID, UpdateEventInput{Location: &location})
	s.Require().NoError(err)
	s.Equal("Launch", updated.Name)
	s.Equal("first", updated.Description)
	s.Equal("Paris", updated.Location)
	s.Require().NotNil(updated.Date)
	s.True(date.Equal(*updated.Date))

	cleared, err := s.events.UpdateEvent(s.ctx, created.ID, UpdateEventInput{ClearDate: true})
	s.Require().NoError(err)
	s.Nil(cleared.Date)
}

func (s *ResourceServiceTestSuite) TestUpdateEventReplacesAttendees() {
	a := s.newAttendee("ann")
	b := s.newAttendee("bob")
	e := s.newEvent("Launch", a.ID)

	ids := []string{b.ID}
	updated, err := s.events.UpdateEvent(s.ctx, e.ID, UpdateEventInput{Attendees: &ids})
	s.Require().NoError(err)
	s.Equal([]string{b.ID}, updated.AttendeeIDs)
}

func (s *ResourceServiceTestSuite) TestNotFoundIsUniform() {
	name := "x"

	_, err := s.events.UpdateEvent(s.ctx, unknownID, UpdateEventInput{Name: &name})
	s.ErrorIs(err, ErrNotFound)
	_, err = s.attendees.UpdateAttendee(s.ctx, unknownID, UpdateAttendeeInput{Name: &name})
	s.ErrorIs(err, ErrNotFound)
	_, err = s.tasks.UpdateTask(s.ctx, unknownID, UpdateTaskInput{Name: &name})
	s.ErrorIs(err, ErrNotFound)
	_, err = s.events.GetEvent(s.ctx, unknownID)
	s.ErrorIs(err, ErrEventNotFound)
}

func (s *ResourceServiceTestSuite) TestDeleteIsIdempotent() {
	e := s.newEvent("Launch")

	s.NoError(s.events.DeleteEvent(s.ctx, e.ID))
	s.NoError(s.events.DeleteEvent(s.ctx, e.ID))
	s.NoError(s.attendees.DeleteAttendee(s.ctx, unknownID))
	s.NoError(s.tasks.DeleteTask(s.ctx, unknownID))
	s.True(IsValidationError(s.tasks.DeleteTask(s.ctx, "bad id")))
}

func (s *ResourceServiceTestSuite) TestCreateTaskDefaultsToPending() {
	e := s.newEvent("Launch")

	task, err := s.tasks.CreateTask(s.ctx, CreateTaskInput{Name: "Book venue", Event: e.ID})
	s.Require().NoError(err)
	s.Equal(models.TaskStatusPending, task.Status)
	s.Equal(e.ID, task.EventID)
	s.Nil(task.AssignedTo)
}

func (s *ResourceServiceTestSuite) TestCreateTaskValidation() {
	e := s.newEvent("Launch")
	bogus := unknownID

	tests := []struct {
		name  string
		input CreateTaskInput
	}{
		{"missing name", CreateTaskInput{Event: e.ID}},
		{"missing event", CreateTaskInput{Name: "x"}},
		{"unknown event", CreateTaskInput{Name: "x", Event: unknownID}},
		{"bad status", CreateTaskInput{Name: "x", Event: e.ID, Status: "Done"}},
		{"unknown assignee", CreateTaskInput{Name: "x", Event: e.ID, AssignedTo: &bogus}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.tasks.CreateTask(s.ctx, tt.input)
			s.True(IsValidationError(err), "got %v", err)
		})
	}
}

func (s *ResourceServiceTestSuite) TestUpdateTaskStatusOnly() {
	a := s.newAttendee("ann")
	e := s.newEvent("Launch")
	deadline := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	task, err := s.tasks.CreateTask(s.ctx, CreateTaskInput{
		Name:       "Book venue",
		Deadline:   utils.NewTimestamp(deadline),
		Event:      e.ID,
		AssignedTo: &a.ID,
	})
	s.Require().NoError(err)

	status := string(models.TaskStatusCompleted)
	updated, err := s.tasks.UpdateTask(s.ctx, task.ID, UpdateTaskInput{Status: &status})
	s.Require().NoError(err)
	s.Equal(models.TaskStatusCompleted, updated.Status)
	s.Equal("Book venue", updated.Name)
	s.Equal(e.ID, updated.EventID)
	s.Require().NotNil(updated.AssignedTo)
	s.Equal(a.ID, updated.AssignedTo.ID)
	s.Require().NotNil(updated.Deadline)

	cleared, err := s.tasks.UpdateTask(s.ctx, task.ID, UpdateTaskInput{ClearAssignedTo: true, ClearDeadline: true})
	s.Require().NoError(err)
	s.Nil(cleared.AssignedToID)
	s.Nil(cleared.AssignedTo)
	s.Nil(cleared.Deadline)
}

func (s *ResourceServiceTestSuite) TestDanglingReferencesArePreserved() {
	a := s.newAttendee("ann")
	e := s.newEvent("Launch", a.ID)
	task, err := s.tasks.CreateTask(s.ctx, CreateTaskInput{Name: "Book venue", Event: e.ID, AssignedTo: &a.ID})
	s.Require().NoError(err)

	s.Require().NoError(s.attendees.DeleteAttendee(s.ctx, a.ID))

	event, err := s.events.GetEvent(s.ctx, e.ID)
	s.Require().NoError(err)
	s.Empty(event.Attendees)
	s.Equal([]string{a.ID}, event.AttendeeIDs)

	got, err := s.tasks.GetTask(s.ctx, task.ID)
	s.Require().NoError(err)
	s.Nil(got.AssignedTo)
	s.Require().NotNil(got.AssignedToID)
	s.Equal(a.ID, *got.AssignedToID)

	s.Require().NoError(s.events.DeleteEvent(s.ctx, e.ID))
	tasks, err := s.tasks.ListTasksByEvent(s.ctx, e.ID, repository.ListOptions{})
	s.Require().NoError(err)
	s.Require().Len(tasks, 1)
	s.Equal(e.ID, tasks[0].EventID)
}

func (s *ResourceServiceTestSuite) TestListOrderAndPagination() {
	first := s.newAttendee("ann")
	second := s.newAttendee("bob")
	third := s.newAttendee("cat")

	all, err := s.attendees.ListAttendees(s.ctx, repository.ListOptions{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal([]string{first.ID, second.ID, third.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	page, err := s.attendees.ListAttendees(s.ctx, repository.ListOptions{Offset: 1, Limit: 1})
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal(second.ID, page[0].ID)
}

func (s *ResourceServiceTestSuite) TestAttendeeEmailValidation() {
	_, err := s.attendees.CreateAttendee(s.ctx, CreateAttendeeInput{Name: "ann", Email: "nope"})
	s.True(IsValidationError(err))

	a := s.newAttendee("ann")
	empty := ""
	_, err = s.attendees.UpdateAttendee(s.ctx, a.ID, UpdateAttendeeInput{Name: &empty})
	s.True(IsValidationError(err))
}

func TestResourceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ResourceServiceTestSuite))
}
