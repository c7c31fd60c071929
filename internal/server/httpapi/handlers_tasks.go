package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type createTaskRequest struct {
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Status      models.Status `json:"status"`
}

type updateTaskRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Status      *models.Status `json:"status"`
}

func (s *Server) handleListTasks(c *gin.Context) {
	claims := claimsFrom(c)

	// unparsable numbers fall back to defaults; the service clamps ranges
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	status := c.Query("status")

	items, pagination, err := s.tasks.List(c.Request.Context(), claims.UserID, status, page, limit)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":      items,
		"pagination": pagination,
	})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	claims := claimsFrom(c)

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	task, err := s.tasks.Create(c.Request.Context(), claims.UserID, req.Title, req.Description, req.Status)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	claims := claimsFrom(c)

	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	patch := &models.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	}

	task, err := s.tasks.Update(c.Request.Context(), claims.UserID, taskID, patch)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	claims := claimsFrom(c)

	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	if err := s.tasks.Delete(c.Request.Context(), claims.UserID, taskID); err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

func taskIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return 0, false
	}
	return id, true
}
