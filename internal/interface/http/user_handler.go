package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-user-directory/internal/application"
	"github.com/oksasatya/go-user-directory/internal/domain/entity"
	"github.com/oksasatya/go-user-directory/pkg/response"
	"github.com/oksasatya/go-user-directory/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type createUserRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    *string `json:"email"`
	Age      *int    `json:"age" binding:"required"`
	Password string  `json:"password" binding:"required"`
}

// Null and absent fields both mean "leave unchanged".
type updateUserRequest struct {
	Name     *string `json:"name"`
	Age      *int    `json:"age"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Create(c.Request.Context(), userapp.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Age:      *req.Age,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, toUserResponse(u))
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	response.JSON(c, http.StatusOK, out)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	u, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, toUserResponse(u))
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Update(c.Request.Context(), id, entity.UserPatch{
		Name:     req.Name,
		Age:      req.Age,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, toUserResponse(u))
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	msg, err := h.Svc.Delete(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, msg)
}

func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusUnprocessableEntity, "invalid payload", map[string]string{"id": "must be an integer"})
		return 0, false
	}
	return id, true
}

func (h *UserHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, userapp.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, userapp.ErrInvalidInput):
		response.Error(c, http.StatusUnprocessableEntity, "invalid payload", err.Error())
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("user request failed")
		}
		response.Error(c, http.StatusInternalServerError, "internal error", nil)
	}
}
