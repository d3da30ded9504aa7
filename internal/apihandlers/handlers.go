package apihandlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tracker/internal/app"
	"tracker/internal/models"
	"tracker/internal/services"
	"tracker/internal/store"
	"tracker/pkg/classifier"
)

type APIHandler struct {
	App *app.App
}

func NewAPIHandler(a *app.App) *APIHandler {
	return &APIHandler{App: a}
}

// --- issues ---

type CreateIssueRequest struct {
	Title          string   `json:"title" binding:"required,min=5"`
	Description    string   `json:"description" binding:"required,min=10"`
	Category       string   `json:"category"`
	Priority       string   `json:"priority"`
	ReporterID     int64    `json:"reporter_id" binding:"required"`
	AssigneeID     *int64   `json:"assignee_id"`
	EstimatedHours *float64 `json:"estimated_hours"`
}

func (h *APIHandler) CreateIssueHandler(c *gin.Context) {
	var req CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	issue, err := h.App.IssueService.CreateIssue(c.Request.Context(), services.CreateIssueParams{
		Title:          req.Title,
		Description:    req.Description,
		Category:       classifier.Category(req.Category),
		Priority:       classifier.Priority(req.Priority),
		ReporterID:     req.ReporterID,
		AssigneeID:     req.AssigneeID,
		EstimatedHours: req.EstimatedHours,
	})
	if err != nil {
		if errors.Is(err, store.ErrForeignKeyViolation) {
			BadRequest(c, "Unknown reporter or assignee")
			return
		}
		Internal(c, fmt.Sprintf("CreateIssueHandler: failed to create issue: %v", err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": issue})
}

func (h *APIHandler) GetIssueHandler(c *gin.Context) {
	id, err := parseIssueID(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	issue, err := h.App.IssueService.GetIssue(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, fmt.Sprintf("Issue not found with ID: %d", id))
			return
		}
		Internal(c, fmt.Sprintf("GetIssueHandler: failed to retrieve issue: %v", err))
		return
	}

	labels, err := h.App.PrimaryStore.GetIssueLabels(c.Request.Context(), id)
	if err != nil {
		Internal(c, fmt.Sprintf("GetIssueHandler: failed to retrieve labels: %v", err))
		return
	}

	resp := struct {
		Issue  *models.Issue   `json:"issue"`
		Labels []*models.Label `json:"labels"`
	}{Issue: issue, Labels: labels}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *APIHandler) ListIssuesHandler(c *gin.Context) {
	params, err := parseListIssuesParams(c)
	if err != nil {
		BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	issues, err := h.App.IssueService.ListIssues(c.Request.Context(), params)
	if err != nil {
		Internal(c, fmt.Sprintf("ListIssuesHandler: failed to list issues: %v", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": issues})
}

func parseListIssuesParams(c *gin.Context) (store.ListIssuesParams, error) {
	params := store.ListIssuesParams{
		Limit:     20,
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
		Priority:  classifier.Priority(c.Query("priority")),
		Category:  classifier.Category(c.Query("category")),
	}

	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			return store.ListIssuesParams{}, fmt.Errorf("invalid limit: %s", l)
		}
		params.Limit = parsed
	}
	if o := c.Query("offset"); o != "" {
		parsed, err := strconv.Atoi(o)
		if err != nil || parsed < 0 {
			return store.ListIssuesParams{}, fmt.Errorf("invalid offset: %s", o)
		}
		params.Offset = parsed
	}
	if statusParam := c.Query("status"); statusParam != "" {
		for _, s := range strings.Split(statusParam, ",") {
			status := models.Status(strings.TrimSpace(s))
			if !models.ValidStatus(status) {
				return store.ListIssuesParams{}, fmt.Errorf("invalid status: %s", s)
			}
			params.Statuses = append(params.Statuses, status)
		}
	}
	if r := c.Query("reporter_id"); r != "" {
		parsed, err := strconv.ParseInt(r, 10, 64)
		if err != nil {
			return store.ListIssuesParams{}, fmt.Errorf("invalid reporter_id: %s", r)
		}
		params.ReporterID = parsed
	}
	if a := c.Query("assignee_id"); a != "" {
		parsed, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return store.ListIssuesParams{}, fmt.Errorf("invalid assignee_id: %s", a)
		}
		params.AssigneeID = parsed
	}
	return params, nil
}

type UpdateIssueRequest struct {
	ActorID        int64    `json:"actor_id" binding:"required"`
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	Status         *string  `json:"status"`
	Priority       *string  `json:"priority"`
	Category       *string  `json:"category"`
	AssigneeID     *int64   `json:"assignee_id"`
	ClearAssignee  bool     `json:"clear_assignee"`
	DuplicateOfID  *int64   `json:"duplicate_of_id"`
	ActualHours    *float64 `json:"actual_hours"`
}

func (h *APIHandler) UpdateIssueHandler(c *gin.Context) {
	id, err := parseIssueID(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	var req UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	params := services.UpdateIssueParams{
		Title:         req.Title,
		Description:   req.Description,
		AssigneeID:    req.AssigneeID,
		ClearAssignee: req.ClearAssignee,
		DuplicateOfID: req.DuplicateOfID,
		ActualHours:   req.ActualHours,
	}
	if req.Status != nil {
		status := models.Status(*req.Status)
		if !models.ValidStatus(status) {
			BadRequest(c, "Invalid status: "+*req.Status)
			return
		}
		params.Status = &status
	}
	if req.Priority != nil {
		priority := classifier.Priority(*req.Priority)
		params.Priority = &priority
	}
	if req.Category != nil {
		category := classifier.Category(*req.Category)
		params.Category = &category
	}

	issue, err := h.App.IssueService.UpdateIssue(c.Request.Context(), id, req.ActorID, params)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, fmt.Sprintf("Issue not found with ID: %d", id))
			return
		}
		Internal(c, fmt.Sprintf("UpdateIssueHandler: failed to update issue: %v", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": issue})
}

func (h *APIHandler) DeleteIssueHandler(c *gin.Context) {
	id, err := parseIssueID(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := h.App.PrimaryStore.DeleteIssue(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, fmt.Sprintf("Issue not found with ID: %d", id))
			return
		}
		Internal(c, fmt.Sprintf("DeleteIssueHandler: failed to delete issue: %v", err))
		return
	}
	c.Status(http.StatusNoContent)
}

// --- comments and activity ---

type AddCommentRequest struct {
	AuthorID   int64  `json:"author_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
	IsInternal bool   `json:"is_internal"`
}

func (h *APIHandler) AddCommentHandler(c *gin.Context) {
	id, err := parseIssueID(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	comment, err := h.App.IssueService.AddComment(c.Request.Context(), id, req.AuthorID, req.Content, req.IsInternal)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrForeignKeyViolation) {
			NotFound(c, fmt.Sprintf("Issue not found with ID: %d", id))
			return
		}
		Internal(c, fmt.Sprintf("AddCommentHandler: failed to add comment: %v", err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": comment})
}

func (h *APIHandler) ListCommentsHandler(c *gin.Context) {
	id, err := parseIssueID(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	includeInternal := c.Query("include_internal") == "true"

	comments, err := h.App.IssueService.ListComments(c.Request.Context(), id, includeInternal)
	if err != nil {
		Internal(c, fmt.Sprintf("ListCommentsHandler: failed to list comments: %v", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": comments})
}

func (h *APIHandler) ListActivityHandler(c *gin.Context) {
	id, err := parseIssueID(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	limit := 50
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			BadRequest(c, "invalid limit: "+l)
			return
		}
		limit = parsed
	}

	entries, err := h.App.IssueService.ListActivity(c.Request.Context(), id, limit)
	if err != nil {
		Internal(c, fmt.Sprintf("ListActivityHandler: failed to list activity: %v", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}

// --- labels ---

type CreateLabelRequest struct {
	Name        string `json:"name" binding:"required"`
	Color       string `json:"color"`
	Description string `json:"description"`
	CreatedByID *int64 `json:"created_by_id"`
}

func (h *APIHandler) CreateLabelHandler(c *gin.Context) {
	var req CreateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	label := &models.Label{
		Name:        req.Name,
		Color:       req.Color,
		Description: req.Description,
		CreatedByID: req.CreatedByID,
	}
	if label.Color == "" {
		label.Color = models.DefaultLabelColor
	}
	if err := h.App.PrimaryStore.CreateLabel(c.Request.Context(), label); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			Conflict(c, fmt.Sprintf("Label already exists: %s", req.Name))
			return
		}
		Internal(c, fmt.Sprintf("CreateLabelHandler: failed to create label: %v", err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": label})
}

func (h *APIHandler) ListLabelsHandler(c *gin.Context) {
	labels, err := h.App.PrimaryStore.ListLabels(c.Request.Context())
	if err != nil {
		Internal(c, fmt.Sprintf("ListLabelsHandler: failed to list labels: %v", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": labels})
}

type labelActionRequest struct {
	ActorID int64 `json:"actor_id" binding:"required"`
}

func (h *APIHandler) AttachLabelHandler(c *gin.Context) {
	id, err := parseIssueID(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	var req labelActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	name := c.Param("name")

	if err := h.App.IssueService.AttachLabel(c.Request.Context(), id, req.ActorID, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, fmt.Sprintf("Label not found: %s", name))
			return
		}
		Internal(c, fmt.Sprintf("AttachLabelHandler: failed to attach label: %v", err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *APIHandler) DetachLabelHandler(c *gin.Context) {
	id, err := parseIssueID(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	var req labelActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	name := c.Param("name")

	if err := h.App.IssueService.DetachLabel(c.Request.Context(), id, req.ActorID, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, fmt.Sprintf("Label not found: %s", name))
			return
		}
		Internal(c, fmt.Sprintf("DetachLabelHandler: failed to detach label: %v", err))
		return
	}
	c.Status(http.StatusNoContent)
}

// --- watchers ---

type watcherRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

func (h *APIHandler) AddWatcherHandler(c *gin.Context) {
	id, err := parseIssueID(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	var req watcherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if err := h.App.PrimaryStore.AddWatcher(c.Request.Context(), id, req.UserID); err != nil {
		if errors.Is(err, store.ErrForeignKeyViolation) {
			NotFound(c, "Unknown issue or user")
			return
		}
		Internal(c, fmt.Sprintf("AddWatcherHandler: failed to add watcher: %v", err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *APIHandler) RemoveWatcherHandler(c *gin.Context) {
	id, err := parseIssueID(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	userID, err := strconv.ParseInt(c.Param("userID"), 10, 64)
	if err != nil {
		BadRequest(c, "Invalid user ID: "+c.Param("userID"))
		return
	}
	if err := h.App.PrimaryStore.RemoveWatcher(c.Request.Context(), id, userID); err != nil {
		Internal(c, fmt.Sprintf("RemoveWatcherHandler: failed to remove watcher: %v", err))
		return
	}
	c.Status(http.StatusNoContent)
}

// --- classification and duplicates ---

type ClassifyRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ClassifyHandler runs the rule classifier over free text without touching
// any stored issue. Used by clients to preview suggestions while typing.
func (h *APIHandler) ClassifyHandler(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Description) == "" {
		BadRequest(c, "At least one of title or description is required")
		return
	}

	suggestion := h.App.ClassificationService.Classify(req.Title, req.Description)
	c.JSON(http.StatusOK, gin.H{"data": suggestion})
}

func (h *APIHandler) FindDuplicatesHandler(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	matches, err := h.App.DuplicateService.FindDuplicates(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		Internal(c, fmt.Sprintf("FindDuplicatesHandler: failed to find duplicates: %v", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": matches})
}

// --- notifications ---

func (h *APIHandler) ListNotificationsHandler(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "Invalid user ID: "+c.Param("id"))
		return
	}
	unreadOnly := c.Query("unread") == "true"
	limit := 50
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			BadRequest(c, "invalid limit: "+l)
			return
		}
		limit = parsed
	}

	items, err := h.App.NotificationService.ListForUser(c.Request.Context(), userID, unreadOnly, limit)
	if err != nil {
		Internal(c, fmt.Sprintf("ListNotificationsHandler: failed to list notifications: %v", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *APIHandler) MarkNotificationReadHandler(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "Invalid notification ID: "+c.Param("id"))
		return
	}
	if err := h.App.NotificationService.MarkRead(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, fmt.Sprintf("Notification not found with ID: %d", id))
			return
		}
		Internal(c, fmt.Sprintf("MarkNotificationReadHandler: failed to mark read: %v", err))
		return
	}
	c.Status(http.StatusNoContent)
}

// --- users ---

type CreateUserRequest struct {
	Username           string `json:"username" binding:"required"`
	Email              string `json:"email" binding:"required,email"`
	Department         string `json:"department"`
	EmailNotifications *bool  `json:"email_notifications"`
}

func (h *APIHandler) CreateUserHandler(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	user := &models.User{
		Username:           req.Username,
		Email:              req.Email,
		Department:         req.Department,
		EmailNotifications: true,
	}
	if req.EmailNotifications != nil {
		user.EmailNotifications = *req.EmailNotifications
	}
	if err := h.App.PrimaryStore.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			Conflict(c, fmt.Sprintf("Username already taken: %s", req.Username))
			return
		}
		Internal(c, fmt.Sprintf("CreateUserHandler: failed to create user: %v", err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": user})
}

func (h *APIHandler) GetUserHandler(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "Invalid user ID: "+c.Param("id"))
		return
	}
	user, err := h.App.PrimaryStore.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, fmt.Sprintf("User not found with ID: %d", id))
			return
		}
		Internal(c, fmt.Sprintf("GetUserHandler: failed to retrieve user: %v", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

// --- statistics and export ---

func (h *APIHandler) IssueStatisticsHandler(c *gin.Context) {
	stats, err := h.App.StatsService.IssueStatistics(c.Request.Context())
	if err != nil {
		Internal(c, fmt.Sprintf("IssueStatisticsHandler: failed to compute statistics: %v", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

func (h *APIHandler) UserStatisticsHandler(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "Invalid user ID: "+c.Param("id"))
		return
	}
	stats, err := h.App.StatsService.UserStatistics(c.Request.Context(), userID)
	if err != nil {
		Internal(c, fmt.Sprintf("UserStatisticsHandler: failed to compute statistics: %v", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

func (h *APIHandler) ExportIssuesHandler(c *gin.Context) {
	params, err := parseListIssuesParams(c)
	if err != nil {
		BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	// Export walks everything matching the filter unless the caller paged
	// explicitly.
	if c.Query("limit") == "" {
		params.Limit = 0
	}

	filename := fmt.Sprintf("issues_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.App.ExportService.WriteCSV(c.Request.Context(), c.Writer, params); err != nil {
		Internal(c, fmt.Sprintf("ExportIssuesHandler: failed to export issues: %v", err))
		return
	}
}

func parseIssueID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid issue ID: %s", raw)
	}
	return id, nil
}
