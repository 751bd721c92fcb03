package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/TaskConverterAI/task-service/internal/models"
	"github.com/TaskConverterAI/task-service/internal/services"
	"github.com/TaskConverterAI/task-service/internal/utils"
	"github.com/TaskConverterAI/task-service/pkg/validator"
)

type TaskHandler struct {
	tasks     *services.TaskService
	comments  *services.CommentService
	validator *playgroundvalidator.Validate
}

func NewTaskHandler(tasks *services.TaskService, comments *services.CommentService) *TaskHandler {
	return &TaskHandler{
		tasks:     tasks,
		comments:  comments,
		validator: validator.GetValidator(),
	}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req models.TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	resp, err := h.tasks.CreateTask(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Created(c, resp)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseID(c, "id", "invalid task id")
	if !ok {
		return
	}

	resp, err := h.tasks.GetTaskByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.OK(c, resp)
}

func (h *TaskHandler) GetTaskDetails(c *gin.Context) {
	id, ok := parseID(c, "id", "invalid task id")
	if !ok {
		return
	}

	resp, err := h.tasks.GetTaskDetails(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.OK(c, resp)
}

func (h *TaskHandler) GetPersonalTasks(c *gin.Context) {
	userID, ok := parseActorID(c, "userId", "invalid user id")
	if !ok {
		return
	}

	resp, err := h.tasks.GetPersonalTasks(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.OK(c, resp)
}

func (h *TaskHandler) GetTasksByAuthor(c *gin.Context) {
	userID, ok := parseActorID(c, "userId", "invalid user id")
	if !ok {
		return
	}

	resp, err := h.tasks.GetTasksByAuthor(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.OK(c, resp)
}

func (h *TaskHandler) GetTasksByGroup(c *gin.Context) {
	groupID, ok := parseActorID(c, "groupId", "invalid group id")
	if !ok {
		return
	}

	resp, err := h.tasks.GetTasksByGroup(groupID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.OK(c, resp)
}

func (h *TaskHandler) GetTasksByDoer(c *gin.Context) {
	doerID, ok := parseActorID(c, "doerId", "invalid doer id")
	if !ok {
		return
	}

	resp, err := h.tasks.GetTasksByDoer(doerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.OK(c, resp)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := parseID(c, "id", "invalid task id")
	if !ok {
		return
	}

	var req models.TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	resp, err := h.tasks.UpdateTask(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.OK(c, resp)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseID(c, "id", "invalid task id")
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.NoContent(c)
}

func (h *TaskHandler) CreateSubtask(c *gin.Context) {
	id, ok := parseID(c, "id", "invalid task id")
	if !ok {
		return
	}

	var req models.SubtaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	resp, err := h.tasks.CreateSubtask(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Created(c, resp)
}

func (h *TaskHandler) UpdateSubtaskStatus(c *gin.Context) {
	id, ok := parseID(c, "id", "invalid subtask id")
	if !ok {
		return
	}

	var req models.SubtaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	resp, err := h.tasks.UpdateSubtaskStatus(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.OK(c, resp)
}

func (h *TaskHandler) AddComment(c *gin.Context) {
	id, ok := parseID(c, "id", "invalid task id")
	if !ok {
		return
	}

	var req models.CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	resp, err := h.comments.AddToTask(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.OK(c, resp)
}

func (h *TaskHandler) DeleteComment(c *gin.Context) {
	id, ok := parseID(c, "id", "invalid comment id")
	if !ok {
		return
	}

	if err := h.comments.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.NoContent(c)
}

// parseID 路径参数里的条目主键
func parseID(c *gin.Context, name, message string) (uint, bool) {
	raw, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		utils.BadRequest(c, message)
		return 0, false
	}
	return uint(raw), true
}

// parseActorID 调用方传来的 author/group/doer 标识，对本服务是不透明整数
func parseActorID(c *gin.Context, name, message string) (int64, bool) {
	raw, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		utils.BadRequest(c, message)
		return 0, false
	}
	return raw, true
}

func respondServiceError(c *gin.Context, err error) {
	var nf *services.NotFoundError
	switch {
	case errors.As(err, &nf):
		utils.NotFound(c, nf.Error())
	case errors.Is(err, services.ErrInvariantViolation):
		utils.InternalError(c, err.Error())
	default:
		logrus.WithError(err).Error("store operation failed")
		utils.InternalError(c, "")
	}
}
