package handlers

import (
	"github.com/gin-gonic/gin"
	playgroundvalidator "github.com/go-playground/validator/v10"

	"github.com/TaskConverterAI/task-service/internal/models"
	"github.com/TaskConverterAI/task-service/internal/services"
	"github.com/TaskConverterAI/task-service/internal/utils"
	"github.com/TaskConverterAI/task-service/pkg/validator"
)

// NoteHandler 笔记端点，/tasks/note/... 下对任务端点的镜像
type NoteHandler struct {
	tasks     *services.TaskService
	comments  *services.CommentService
	validator *playgroundvalidator.Validate
}

func NewNoteHandler(tasks *services.TaskService, comments *services.CommentService) *NoteHandler {
	return &NoteHandler{
		tasks:     tasks,
		comments:  comments,
		validator: validator.GetValidator(),
	}
}

func (h *NoteHandler) CreateNote(c *gin.Context) {
	var req models.NoteCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	resp, err := h.tasks.CreateNote(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Created(c, resp)
}

func (h *NoteHandler) GetNote(c *gin.Context) {
	id, ok := parseID(c, "id", "invalid note id")
	if !ok {
		return
	}

	resp, err := h.tasks.GetNoteByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.OK(c, resp)
}

func (h *NoteHandler) GetNoteDetails(c *gin.Context) {
	id, ok := parseID(c, "id", "invalid note id")
	if !ok {
		return
	}

	resp, err := h.tasks.GetNoteDetails(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.OK(c, resp)
}

func (h *NoteHandler) GetPersonalNotes(c *gin.Context) {
	userID, ok := parseActorID(c, "userId", "invalid user id")
	if !ok {
		return
	}

	resp, err := h.tasks.GetPersonalNotes(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.OK(c, resp)
}

func (h *NoteHandler) GetNotesByAuthor(c *gin.Context) {
	userID, ok := parseActorID(c, "userId", "invalid user id")
	if !ok {
		return
	}

	resp, err := h.tasks.GetNotesByAuthor(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.OK(c, resp)
}

func (h *NoteHandler) GetNotesByGroup(c *gin.Context) {
	groupID, ok := parseActorID(c, "groupId", "invalid group id")
	if !ok {
		return
	}

	resp, err := h.tasks.GetNotesByGroup(groupID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.OK(c, resp)
}

func (h *NoteHandler) UpdateNote(c *gin.Context) {
	id, ok := parseID(c, "id", "invalid note id")
	if !ok {
		return
	}

	var req models.NoteUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	resp, err := h.tasks.UpdateNote(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.OK(c, resp)
}

func (h *NoteHandler) DeleteNote(c *gin.Context) {
	id, ok := parseID(c, "id", "invalid note id")
	if !ok {
		return
	}

	if err := h.tasks.DeleteNote(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.NoContent(c)
}

func (h *NoteHandler) AddComment(c *gin.Context) {
	id, ok := parseID(c, "id", "invalid note id")
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

	resp, err := h.comments.AddToNote(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.OK(c, resp)
}

func (h *NoteHandler) DeleteComment(c *gin.Context) {
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
