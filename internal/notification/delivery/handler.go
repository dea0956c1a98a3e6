package delivery

import (
	"errors"
	"net/http"
	"strings"

	authdelivery "lms-backend/internal/auth/delivery"
	"lms-backend/internal/notification/domain"
	"lms-backend/internal/notification/usecase"

	"github.com/gin-gonic/gin"
)

// NotificationHandler handles inbox and announcement requests
type NotificationHandler struct {
	inbox    usecase.InboxUsecase
	fanout   usecase.Fanout
	mentions usecase.MentionUsecase
}

func NewNotificationHandler(inbox usecase.InboxUsecase, fanout usecase.Fanout, mentions usecase.MentionUsecase) *NotificationHandler {
	return &NotificationHandler{
		inbox:    inbox,
		fanout:   fanout,
		mentions: mentions,
	}
}

type AnnouncementRequest struct {
	Title   string `json:"title" binding:"required,max=255"`
	Message string `json:"message" binding:"required"`
	Link    string `json:"link"`
}

type MentionRequest struct {
	Content string `json:"content" binding:"required"`
	Link    string `json:"link"`
}

// optionalLink returns nil for a blank link.
func optionalLink(raw string) *string {
	if l := strings.TrimSpace(raw); l != "" {
		return &l
	}
	return nil
}

// GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	notifications, unread, err := h.inbox.List(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.inbox.UnreadCount(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// POST /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.inbox.MarkRead(c.GetString("userID"), c.Param("id")); err != nil {
		writeInboxError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.inbox.MarkAllRead(c.GetString("userID")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

// DELETE /api/notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	if err := h.inbox.Delete(c.GetString("userID"), c.Param("id")); err != nil {
		writeInboxError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

// Announce notifies every user except the sending admin.
// POST /api/admin/announcements
func (h *NotificationHandler) Announce(c *gin.Context) {
	var req AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adminID := c.GetString("userID")
	count, err := h.fanout.NotifyAll(c.Request.Context(), usecase.NotifyAllInput{
		Type:         domain.TypeAdminAnnouncement,
		Title:        req.Title,
		Message:      req.Message,
		Link:         optionalLink(req.Link),
		FromUserID:   &adminID,
		ExceptUserID: adminID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Announcement sent", "recipients": count})
}

// Mention notifies every user tagged with @Name in a comment the caller wrote.
// POST /api/notifications/mentions
func (h *NotificationHandler) Mention(c *gin.Context) {
	var req MentionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author := authdelivery.CurrentUser(c)
	if author == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sent, err := h.mentions.NotifyMentioned(c.Request.Context(), usecase.MentionInput{
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Content:    req.Content,
		Link:       optionalLink(req.Link),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notified": len(sent)})
}

// POST /api/admin/clear-notifications
func (h *NotificationHandler) ClearAll(c *gin.Context) {
	deleted, err := h.inbox.Purge()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notifications cleared", "deleted": deleted})
}

func writeInboxError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
	case errors.Is(err, usecase.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
