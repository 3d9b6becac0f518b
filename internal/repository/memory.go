package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yukikurage/event-dashboard-api/internal/models"
)

// MemoryStore keeps every entity in maps keyed by id. It satisfies the same
// contract as the GORM repositories and is safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	now       func() time.Time
	users     map[string]models.User
	events    map[string]models.Event
	attendees map[string]models.Attendee
	tasks     map[string]models.Task
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:       time.Now,
		users:     make(map[string]models.User),
		events:    make(map[string]models.Event),
		attendees: make(map[string]models.Attendee),
		tasks:     make(map[string]models.Task),
	}
}

// NewMemoryRepositories wires every repository to a fresh MemoryStore.
func NewMemoryRepositories() Repositories {
	store := NewMemoryStore()
	return Repositories{
		Users:     memoryUsers{store},
		Events:    memoryEvents{store},
		Attendees: memoryAttendees{store},
		Tasks:     memoryTasks{store},
	}
}

func (s *MemoryStore) touch(created *time.Time, updated *time.Time) {
	now := s.now()
	if created != nil && created.IsZero() {
		*created = now
	}
	*updated = now
}

// sortedIDs returns map keys in ascending order; ULIDs sort by creation time.
func sortedIDs[T any](m map[string]T) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func window(ids []string, opts ListOptions) []string {
	if opts.Limit <= 0 {
		return ids
	}
	if opts.Offset >= len(ids) {
		return nil
	}
	end := opts.Offset + opts.Limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[opts.Offset:end]
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; ok {
		return ErrDuplicate
	}
	for _, existing := range r.s.users {
		if existing.Username == user.Username {
			return ErrDuplicate
		}
	}
	r.s.touch(&user.CreatedAt, &user.UpdatedAt)
	r.s.users[user.ID] = *user
	return nil
}

func (r memoryUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r memoryUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

type memoryAttendees struct{ s *MemoryStore }

func (r memoryAttendees) Create(_ context.Context, attendee *models.Attendee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.attendees[attendee.ID]; ok {
		return ErrDuplicate
	}
	r.s.touch(&attendee.CreatedAt, &attendee.UpdatedAt)
	r.s.attendees[attendee.ID] = *attendee
	return nil
}

func (r memoryAttendees) FindByID(_ context.Context, id string) (*models.Attendee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	attendee, ok := r.s.attendees[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &attendee, nil
}

func (r memoryAttendees) List(_ context.Context, opts ListOptions) ([]models.Attendee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := window(sortedIDs(r.s.attendees), opts)
	attendees := make([]models.Attendee, 0, len(ids))
	for _, id := range ids {
		attendees = append(attendees, r.s.attendees[id])
	}
	return attendees, nil
}

func (r memoryAttendees) Update(_ context.Context, attendee *models.Attendee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.attendees[attendee.ID]
	if !ok {
		return ErrNotFound
	}
	attendee.CreatedAt = existing.CreatedAt
	r.s.touch(nil, &attendee.UpdatedAt)
	r.s.attendees[attendee.ID] = *attendee
	return nil
}

func (r memoryAttendees) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.attendees, id)
	return nil
}

func (r memoryAttendees) CountByIDs(_ context.Context, ids []string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[string]struct{}, len(ids))
	var count int64
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := r.s.attendees[id]; ok {
			count++
		}
	}
	return count, nil
}

type memoryEvents struct{ s *MemoryStore }

func (r memoryEvents) Create(_ context.Context, event *models.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[event.ID]; ok {
		return ErrDuplicate
	}
	r.s.touch(&event.CreatedAt, &event.UpdatedAt)
	r.s.events[event.ID] = r.stored(*event)
	return nil
}

func (r memoryEvents) FindByID(_ context.Context, id string) (*models.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	event, ok := r.s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	populated := r.populate(event)
	return &populated, nil
}

func (r memoryEvents) List(_ context.Context, opts ListOptions) ([]models.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := window(sortedIDs(r.s.events), opts)
	events := make([]models.Event, 0, len(ids))
	for _, id := range ids {
		events = append(events, r.populate(r.s.events[id]))
	}
	return events, nil
}

func (r memoryEvents) Update(_ context.Context, event *models.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.events[event.ID]
	if !ok {
		return ErrNotFound
	}
	event.CreatedAt = existing.CreatedAt
	r.s.touch(nil, &event.UpdatedAt)
	r.s.events[event.ID] = r.stored(*event)
	return nil
}

func (r memoryEvents) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.events, id)
	return nil
}

// stored strips the populated view and keeps a private, sorted, de-duplicated
// copy of the attendee references.
func (r memoryEvents) stored(event models.Event) models.Event {
	refs := make([]string, 0, len(event.AttendeeIDs))
	seen := make(map[string]struct{}, len(event.AttendeeIDs))
	for _, id := range event.AttendeeIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		refs = append(refs, id)
	}
	sort.Strings(refs)
	event.AttendeeIDs = refs
	event.Attendees = nil
	return event
}

// populate resolves attendee references; dangling ids are skipped.
func (r memoryEvents) populate(event models.Event) models.Event {
	event.AttendeeIDs = cloneStrings(event.AttendeeIDs)
	event.Attendees = make([]models.Attendee, 0, len(event.AttendeeIDs))
	for _, id := range event.AttendeeIDs {
		if attendee, ok := r.s.attendees[id]; ok {
			event.Attendees = append(event.Attendees, attendee)
		}
	}
	return event
}

type memoryTasks struct{ s *MemoryStore }

func (r memoryTasks) Create(_ context.Context, task *models.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[task.ID]; ok {
		return ErrDuplicate
	}
	r.s.touch(&task.CreatedAt, &task.UpdatedAt)
	r.s.tasks[task.ID] = stripTask(*task)
	return nil
}

func (r memoryTasks) FindByID(_ context.Context, id string) (*models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	task, ok := r.s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	populated := r.populate(task)
	return &populated, nil
}

func (r memoryTasks) List(_ context.Context, filter TaskFilter) ([]models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matching := make([]string, 0, len(r.s.tasks))
	for _, id := range sortedIDs(r.s.tasks) {
		if filter.EventID != nil && r.s.tasks[id].EventID != *filter.EventID {
			continue
		}
		matching = append(matching, id)
	}

	ids := window(matching, filter.ListOptions)
	tasks := make([]models.Task, 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, r.populate(r.s.tasks[id]))
	}
	return tasks, nil
}

func (r memoryTasks) Update(_ context.Context, task *models.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.tasks[task.ID]
	if !ok {
		return ErrNotFound
	}
	task.CreatedAt = existing.CreatedAt
	r.s.touch(nil, &task.UpdatedAt)
	r.s.tasks[task.ID] = stripTask(*task)
	return nil
}

func (r memoryTasks) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.tasks, id)
	return nil
}

func stripTask(task models.Task) models.Task {
	task.AssignedTo = nil
	if task.AssignedToID != nil {
		id := *task.AssignedToID
		task.AssignedToID = &id
	}
	return task
}

func (r memoryTasks) populate(task models.Task) models.Task {
	task = stripTask(task)
	if task.AssignedToID != nil {
		if attendee, ok := r.s.attendees[*task.AssignedToID]; ok {
			task.AssignedTo = &attendee
		}
	}
	return task
}
