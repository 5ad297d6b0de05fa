package handler

import (
	"errors"
	"net/http"
	"strconv"

	"courtbook/internal/model"
	"courtbook/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler структурирует зависимости сервисов для обработки HTTP-запросов.
type Handler struct {
	UserService        *service.UserService
	CourtService       *service.CourtService
	CourtTypeService   *service.CourtTypeService
	ReservationService *service.ReservationService
	Availability       *service.AvailabilityService
}

// NewHandler создает новый Handler с внедрением зависимостей (сервисов).
func NewHandler(us *service.UserService, cs *service.CourtService, cts *service.CourtTypeService,
	rs *service.ReservationService, av *service.AvailabilityService) *Handler {
	return &Handler{
		UserService:        us,
		CourtService:       cs,
		CourtTypeService:   cts,
		ReservationService: rs,
		Availability:       av,
	}
}

// errorStatus сопоставляет вид ошибки ядра HTTP-статусу ответа.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrInvalidTimeRange),
		errors.Is(err, model.ErrCourtUnavailable),
		errors.Is(err, model.ErrInvalidTransition),
		errors.Is(err, model.ErrAlreadyCancelled):
		return http.StatusBadRequest
	// Пользователь существует, но бронировать не может: это не «не
	// найдено» и не ошибка формата запроса.
	case errors.Is(err, model.ErrUserInactive):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrCourtNotFound),
		errors.Is(err, model.ErrCourtTypeNotFound),
		errors.Is(err, model.ErrReservationNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrTimeConflict),
		errors.Is(err, model.ErrCourtHasReservations):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// fail отправляет JSON с текстом ошибки и статусом по ее виду.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		// Детали отказа хранилища наружу не отдаются.
		c.JSON(status, gin.H{"error": "внутренняя ошибка сервера"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор"})
		return 0, false
	}
	return id, true
}

func pathUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор брони"})
		return uuid.Nil, false
	}
	return id, true
}

// --- Пользователи ---

// RegisterUser обработчик для POST /api/users.
func (h *Handler) RegisterUser(c *gin.Context) {
	var user model.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}
	created, err := h.UserService.Register(c.Request.Context(), &user)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListUsers обработчик для GET /api/users.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.UserService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser обработчик для GET /api/users/:id.
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := h.UserService.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser обработчик для PUT /api/users/:id.
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch model.UpdateUser
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}
	user, err := h.UserService.Update(c.Request.Context(), id, patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeactivateUser обработчик для DELETE /api/users/:id (мягкое удаление).
func (h *Handler) DeactivateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.UserService.Deactivate(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "пользователь деактивирован"})
}

// --- Типы кортов ---

// ListCourtTypes обработчик для GET /api/court-types.
func (h *Handler) ListCourtTypes(c *gin.Context) {
	types, err := h.CourtTypeService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

// GetCourtType обработчик для GET /api/court-types/:id.
func (h *Handler) GetCourtType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ct, err := h.CourtTypeService.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ct)
}

// CreateCourtType обработчик для POST /api/court-types.
func (h *Handler) CreateCourtType(c *gin.Context) {
	var ct model.CourtType
	if err := c.ShouldBindJSON(&ct); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}
	created, err := h.CourtTypeService.Create(c.Request.Context(), &ct)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateCourtType обработчик для PUT /api/court-types/:id.
func (h *Handler) UpdateCourtType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch model.UpdateCourtType
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}
	ct, err := h.CourtTypeService.Update(c.Request.Context(), id, patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ct)
}

// DeleteCourtType обработчик для DELETE /api/court-types/:id.
func (h *Handler) DeleteCourtType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.CourtTypeService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "тип корта удален"})
}

// --- Корты ---

// ListCourts обработчик для GET /api/courts (фильтры: type_id, state).
func (h *Handler) ListCourts(c *gin.Context) {
	typeID, _ := strconv.Atoi(c.Query("type_id"))
	courts, err := h.CourtService.List(c.Request.Context(), typeID, c.Query("state"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, courts)
}

// GetCourt обработчик для GET /api/courts/:id.
func (h *Handler) GetCourt(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	court, err := h.CourtService.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, court)
}

// CreateCourt обработчик для POST /api/courts.
func (h *Handler) CreateCourt(c *gin.Context) {
	var court model.Court
	if err := c.ShouldBindJSON(&court); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}
	created, err := h.CourtService.Create(c.Request.Context(), &court)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateCourt обработчик для PUT /api/courts/:id.
func (h *Handler) UpdateCourt(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch model.UpdateCourt
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}
	court, err := h.CourtService.Update(c.Request.Context(), id, patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, court)
}

// DeleteCourt обработчик для DELETE /api/courts/:id.
func (h *Handler) DeleteCourt(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.CourtService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "корт удален"})
}

// --- Брони ---

// ListReservations обработчик для GET /api/reservations
// (фильтры: user_id, court_id, status).
func (h *Handler) ListReservations(c *gin.Context) {
	userID, _ := strconv.Atoi(c.Query("user_id"))
	courtID, _ := strconv.Atoi(c.Query("court_id"))
	status := model.ReservationStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный статус"})
		return
	}
	reservations, err := h.ReservationService.List(c.Request.Context(), userID, courtID, status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reservations)
}

// GetAvailability обработчик для GET /api/reservations/availability
// (court_id и date обязательны). Возвращает занятые интервалы и
// свободные промежутки корта на дату.
func (h *Handler) GetAvailability(c *gin.Context) {
	courtID, err := strconv.Atoi(c.Query("court_id"))
	if err != nil || courtID <= 0 || c.Query("date") == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "требуются court_id и date"})
		return
	}
	date := c.Query("date")
	if _, err := model.ParseDate(date); err != nil {
		fail(c, err)
		return
	}
	court, err := h.CourtService.Get(c.Request.Context(), courtID)
	if err != nil {
		fail(c, err)
		return
	}
	occupied, err := h.Availability.OccupiedIntervals(c.Request.Context(), courtID, date)
	if err != nil {
		fail(c, err)
		return
	}
	free, err := h.Availability.FreeSlots(c.Request.Context(), courtID, date)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"court_id": courtID,
		"date":     date,
		"bookable": court.State == model.CourtAvailable,
		"occupied": occupied,
		"free":     free,
	})
}

// GetReservation обработчик для GET /api/reservations/:id.
func (h *Handler) GetReservation(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	res, err := h.ReservationService.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CreateReservation обработчик для POST /api/reservations.
func (h *Handler) CreateReservation(c *gin.Context) {
	var in model.CreateReservation
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}
	res, err := h.ReservationService.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// UpdateReservation обработчик для PUT /api/reservations/:id
// (изменяемы только заметки).
func (h *Handler) UpdateReservation(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	var patch model.UpdateReservation
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}
	res, err := h.ReservationService.UpdateFields(c.Request.Context(), id, patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// UpdateReservationStatus обработчик для PUT /api/reservations/:id/status.
func (h *Handler) UpdateReservationStatus(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	var body struct {
		Status model.ReservationStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}
	res, err := h.ReservationService.UpdateStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CancelReservation обработчик для DELETE /api/reservations/:id.
func (h *Handler) CancelReservation(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	res, err := h.ReservationService.Cancel(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "бронь отменена", "reservation": res})
}
