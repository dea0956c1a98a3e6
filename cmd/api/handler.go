package api

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	authUsecase "lms-backend/internal/auth/usecase"
	examUsecase "lms-backend/internal/exam/usecase"
	notificationUsecase "lms-backend/internal/notification/usecase"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase  authUsecase.AuthUsecase
	inboxUsecase notificationUsecase.InboxUsecase
	fanout       notificationUsecase.Fanout
	mentions     notificationUsecase.MentionUsecase
	examUsecase  examUsecase.ExamUsecase
	server       *http.Server
}

// NewHandler builds the server up front so Shutdown may run before, during or after Start.
func NewHandler(authUc authUsecase.AuthUsecase, inboxUc notificationUsecase.InboxUsecase, fanout notificationUsecase.Fanout, mentions notificationUsecase.MentionUsecase, examUc examUsecase.ExamUsecase) *Handler {
	h := &Handler{
		authUsecase:  authUc,
		inboxUsecase: inboxUc,
		fanout:       fanout,
		mentions:     mentions,
		examUsecase:  examUc,
	}
	h.server = &http.Server{
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return h
}

func corsMiddleware(c *gin.Context) {
	origin := c.Request.Header.Get("Origin")
	if origin != "" {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
	} else {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	}

	c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

	if c.Request.Method == "OPTIONS" {
		c.AbortWithStatus(204)
		return
	}

	c.Next()
}

// Router builds the gin engine with every route registered.
func (h *Handler) Router() *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware)
	SetupRoutes(r, h.authUsecase, h.inboxUsecase, h.fanout, h.mentions, h.examUsecase)
	return r
}

// Start serves until Shutdown is called. It returns at once if Shutdown already ran.
func (h *Handler) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return h.Serve(ln)
}

// Serve takes ownership of ln and closes it on return.
func (h *Handler) Serve(ln net.Listener) error {
	if err := h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (h *Handler) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server")
	return h.server.Shutdown(ctx)
}
