package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/event-dashboard-api/internal/dto"
	"github.com/yukikurage/event-dashboard-api/internal/middleware"
	"github.com/yukikurage/event-dashboard-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
	aiService   *services.AIService
}

func NewTaskHandler(taskService *services.TaskService, aiService *services.AIService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		aiService:   aiService,
	}
}

// CreateTask creates a new task; status defaults to Pending
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req services.CreateTaskInput
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// ListTasks returns every task
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskService.ListTasks(c.Request.Context(), listOptions(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// ListEventTasks returns the tasks that reference the event in the path
func (h *TaskHandler) ListEventTasks(c *gin.Context) {
	tasks, err := h.taskService.ListTasksByEvent(c.Request.Context(), middleware.IDParam(c, "id"), listOptions(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// UpdateTask applies a partial update. Sending null for deadline or
// assignedTo clears the field.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req services.UpdateTaskInput
	raw, ok := bindPartial(c, &req)
	if !ok {
		return
	}
	req.ClearDeadline = isNull(raw, "deadline")
	req.ClearAssignedTo = isNull(raw, "assignedTo")

	task, err := h.taskService.UpdateTask(c.Request.Context(), middleware.IDParam(c, "id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskService.DeleteTask(c.Request.Context(), middleware.IDParam(c, "id")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SuggestTasks asks the AI service for preparation tasks; nothing is stored
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	if h.aiService == nil {
		respondServiceError(c, services.ErrSuggestionsUnavailable)
		return
	}

	suggestions, err := h.aiService.SuggestTasks(c.Request.Context(), middleware.IDParam(c, "id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": suggestions,
	})
}
