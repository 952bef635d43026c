package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/apierror"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
)

// UserService registers and logs in users.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
}

// TaskService performs owner-scoped task operations.
type TaskService interface {
	List(ctx context.Context, id auth.Identity) ([]*models.Task, error)
	Find(ctx context.Context, id auth.Identity, taskID string) (*models.Task, error)
	Create(ctx context.Context, id auth.Identity, in models.TaskPatch) (*models.Task, error)
	Update(ctx context.Context, id auth.Identity, taskID string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, id auth.Identity, taskID string) error
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    models.PublicUser `json:"user"`
}

type taskListResponse struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Tasks   []*models.Task `json:"tasks"`
}

type taskResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Task    *models.Task `json:"task"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

const msgBadBody = "Invalid request body"

func bindJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return apierror.Wrap(http.StatusBadRequest, msgBadBody, err)
	}
	return nil
}

// writeError normalizes err and logs it when the server is at fault.
func (s *Server) writeError(c *gin.Context, err error) {
	if status := apierror.Abort(c, err); status >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "error", err, "path", c.Request.URL.Path)
	}
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}

	res, err := s.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, common.ErrMissingFields):
		err = apierror.New(http.StatusBadRequest, "Please provide all required fields")
	case errors.Is(err, common.ErrUserExists):
		err = apierror.New(http.StatusBadRequest, "User already exists")
	}
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		Success: true,
		Message: "User registered successfully",
		Token:   res.Token,
		User:    res.User,
	})
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}

	res, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, common.ErrMissingFields):
		err = apierror.New(http.StatusBadRequest, "Please provide email and password")
	case errors.Is(err, common.ErrInvalidCredentials):
		err = apierror.New(http.StatusUnauthorized, "Invalid credentials")
	}
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{
		Success: true,
		Message: "User logged in successfully",
		Token:   res.Token,
		User:    res.User,
	})
}

// identity returns the caller set by RequireAuth.
func identity(c *gin.Context) auth.Identity {
	id, _ := auth.IdentityFromContext(c.Request.Context())
	return id
}

func (s *Server) listTasks(c *gin.Context) {
	tasks, err := s.tasks.List(c.Request.Context(), identity(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskListResponse{Success: true, Count: len(tasks), Tasks: tasks})
}

func (s *Server) createTask(c *gin.Context) {
	var in models.TaskPatch
	if err := bindJSON(c, &in); err != nil {
		s.writeError(c, err)
		return
	}

	task, err := s.tasks.Create(c.Request.Context(), identity(c), in)
	switch {
	case errors.Is(err, common.ErrTitleRequired):
		err = apierror.New(http.StatusBadRequest, "Please provide a task title")
	case errors.Is(err, common.ErrorNotFound):
		// The token is valid but its user no longer exists.
		err = apierror.New(http.StatusUnauthorized, msgNotAuthorized)
	}
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, taskResponse{Success: true, Message: "Task created successfully", Task: task})
}

// ownershipError maps lookup and ownership failures for the given action
// ("update" or "delete").
func ownershipError(err error, action string) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return apierror.New(http.StatusNotFound, "Task not found")
	case errors.Is(err, common.ErrNotOwner):
		return apierror.New(http.StatusUnauthorized, "Not authorized to "+action+" this task")
	}
	return err
}

// updateTask reports a missing or foreign task before a malformed body.
func (s *Server) updateTask(c *gin.Context) {
	ctx, id, taskID := c.Request.Context(), identity(c), c.Param("id")

	var patch models.TaskPatch
	if err := bindJSON(c, &patch); err != nil {
		if _, ferr := s.tasks.Find(ctx, id, taskID); ferr != nil {
			err = ownershipError(ferr, "update")
		}
		s.writeError(c, err)
		return
	}

	task, err := s.tasks.Update(ctx, id, taskID, patch)
	if err != nil {
		s.writeError(c, ownershipError(err, "update"))
		return
	}

	c.JSON(http.StatusOK, taskResponse{Success: true, Message: "Task updated successfully", Task: task})
}

func (s *Server) deleteTask(c *gin.Context) {
	if err := s.tasks.Delete(c.Request.Context(), identity(c), c.Param("id")); err != nil {
		s.writeError(c, ownershipError(err, "delete"))
		return
	}

	c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Task deleted successfully"})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, apierror.Response{Message: "Route not found"})
}
