package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Freeeeeet/pesopolis/internal/model"
	"github.com/Freeeeeet/pesopolis/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const unknownErrorDescription = "Unknown pesopolis error"

// Handler обработчики HTTP маршрутов
type Handler struct {
	entities *service.EntityService
	salary   *service.SalaryService
	lessons  *service.LessonService
	courses  *service.CourseService
	logger   *zap.Logger
}

func NewHandler(
	entities *service.EntityService,
	salary *service.SalaryService,
	lessons *service.LessonService,
	courses *service.CourseService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		entities: entities,
		salary:   salary,
		lessons:  lessons,
		courses:  courses,
		logger:   logger,
	}
}

// List GET /:entity?data={фильтр}
func (h *Handler) List(c *gin.Context) {
	h.dispatch(c, http.StatusOK, service.Operation{
		Entity:  c.Param("entity"),
		Type:    service.OpGet,
		Payload: []byte(c.Query("data")),
	})
}

// GetOne GET /:entity/:id
func (h *Handler) GetOne(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	h.dispatch(c, http.StatusOK, service.Operation{
		Entity: c.Param("entity"),
		Type:   service.OpGetOne,
		ID:     id,
	})
}

// Create POST /:entity
func (h *Handler) Create(c *gin.Context) {
	h.dispatchBody(c, service.OpCreate, 0)
}

// CreateMany POST /:entity/many
func (h *Handler) CreateMany(c *gin.Context) {
	h.dispatchBody(c, service.OpCreateMany, 0)
}

// Update PUT /:entity/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	h.dispatchBody(c, service.OpUpdate, id)
}

// UpdateMany PUT /:entity
func (h *Handler) UpdateMany(c *gin.Context) {
	h.dispatchBody(c, service.OpUpdateMany, 0)
}

// Delete DELETE /:entity/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	h.dispatch(c, http.StatusOK, service.Operation{
		Entity: c.Param("entity"),
		Type:   service.OpDelete,
		ID:     id,
	})
}

// DeleteMany DELETE /:entity с массивом id в теле
func (h *Handler) DeleteMany(c *gin.Context) {
	h.dispatchBody(c, service.OpDeleteMany, 0)
}

// Salary GET /staff/:id/salary?start_date=&end_date=
func (h *Handler) Salary(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	rawStart := c.Query("start_date")
	if rawStart == "" {
		h.badRequest(c, "start_date is required")
		return
	}
	start, err := model.ParseTimestamp(rawStart)
	if err != nil {
		h.badRequest(c, "start_date must be a date (YYYY-MM-DD)")
		return
	}

	var end *time.Time
	if rawEnd := c.Query("end_date"); rawEnd != "" {
		parsed, err := model.ParseTimestamp(rawEnd)
		if err != nil {
			h.badRequest(c, "end_date must be a date (YYYY-MM-DD)")
			return
		}
		end = &parsed.Time
	}

	report, err := h.salary.Salary(c.Request.Context(), id, start.Time, end)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"salary": report.Salary})
}

// ScheduleLesson POST /actions/schedule_lesson
func (h *Handler) ScheduleLesson(c *gin.Context) {
	var plan service.LessonPlan
	if err := c.ShouldBindJSON(&plan); err != nil {
		h.badRequest(c, "invalid lesson plan: "+err.Error())
		return
	}

	id, err := h.lessons.Schedule(c.Request.Context(), plan)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.CreatedResult{CreatedID: id})
}

// EnrollDogs POST /actions/courses/:id/enroll
func (h *Handler) EnrollDogs(c *gin.Context) {
	courseID, ok := h.pathID(c)
	if !ok {
		return
	}

	var dogIDs []int64
	if err := c.ShouldBindJSON(&dogIDs); err != nil {
		h.badRequest(c, "body must be an array of dog ids")
		return
	}

	ids, err := h.courses.Enroll(c.Request.Context(), courseID, dogIDs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.CreatedManyResult{CreatedIDs: ids})
}

func (h *Handler) dispatchBody(c *gin.Context, op service.OperationType, id int64) {
	body, err := c.GetRawData()
	if err != nil {
		h.badRequest(c, "cannot read request body")
		return
	}
	h.dispatch(c, http.StatusOK, service.Operation{
		Entity:  c.Param("entity"),
		Type:    op,
		ID:      id,
		Payload: body,
	})
}

func (h *Handler) dispatch(c *gin.Context, status int, op service.Operation) {
	result, err := h.entities.Dispatch(c.Request.Context(), op)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(status, result)
}

func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.badRequest(c, "id must be an integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) badRequest(c *gin.Context, description string) {
	c.JSON(http.StatusBadRequest, gin.H{"Error": description})
}

// respondError переводит ошибку сервиса в HTTP статус и конверт {"Error": ...}
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUnknownEntity):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	}

	description, ok := service.Describe(err)
	if status == http.StatusInternalServerError || !ok {
		h.logger.Error("Request failed with unexpected error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"Error": unknownErrorDescription})
		return
	}

	h.logger.Debug("Request rejected",
		zap.Int("status", status),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	c.JSON(status, gin.H{"Error": description})
}
