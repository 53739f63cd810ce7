package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Coco120903/batinos-garden-resort/internal/middleware"
	"github.com/Coco120903/batinos-garden-resort/internal/model"
	"github.com/Coco120903/batinos-garden-resort/internal/repository"
)

// ChatHandler serves the support chat: one thread per user, lazily
// created with a system welcome message, plus the admin inbox.
type ChatHandler struct {
	Chat *repository.ChatRepo
}

func NewChatHandler(ch *repository.ChatRepo) *ChatHandler {
	return &ChatHandler{Chat: ch}
}

type chatMessageReq struct {
	Text string `json:"text"`
}

type messagePart struct {
	ID         uint64    `json:"id"`
	SenderType string    `json:"sender_type"`
	SenderUser uint64    `json:"sender_user,omitempty"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

type threadPart struct {
	ID            uint64    `json:"id"`
	UserID        uint64    `json:"user_id"`
	UserName      string    `json:"user_name,omitempty"`
	UserEmail     string    `json:"user_email,omitempty"`
	Status        string    `json:"status"`
	LastMessageAt time.Time `json:"last_message_at"`
}

func toThreadPart(t model.ChatThread) threadPart {
	return threadPart{ID: t.ID, UserID: t.UserID, UserName: t.UserName,
		UserEmail: t.UserEmail, Status: t.Status, LastMessageAt: t.LastMessageAt}
}

func toMessageParts(list []model.ChatMessage) []messagePart {
	out := make([]messagePart, 0, len(list))
	for _, m := range list {
		out = append(out, messagePart{ID: m.ID, SenderType: m.SenderType,
			SenderUser: m.SenderUser, Text: m.Text, CreatedAt: m.CreatedAt})
	}
	return out
}

// threadForUser fetches the caller's thread, creating it with the
// system welcome message on first contact.
func (h *ChatHandler) threadForUser(ctx context.Context, userID uint64) (model.ChatThread, error) {
	t, err := h.Chat.ThreadByUser(ctx, userID)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.ChatThread{}, err
	}
	t, err = h.Chat.CreateThread(ctx, userID)
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost a create race; the other request owns the welcome message.
		return h.Chat.ThreadByUser(ctx, userID)
	}
	if err != nil {
		return model.ChatThread{}, err
	}
	welcome := model.ChatMessage{ThreadID: t.ID, SenderType: model.SenderSystem, Text: model.WelcomeMessage}
	if _, err := h.Chat.AddMessage(ctx, &welcome); err != nil {
		return model.ChatThread{}, err
	}
	return t, nil
}

// MyThread returns the caller's thread, creating it on first use.
func (h *ChatHandler) MyThread(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.threadForUser(ctx, middleware.UserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "chat unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"thread": toThreadPart(t)})
}

// MyMessages returns the caller's messages, optionally only those
// after the since id for incremental polling.
func (h *ChatHandler) MyMessages(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.threadForUser(ctx, middleware.UserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "chat unavailable"})
	}
	since, _ := strconv.ParseUint(c.QueryParam("since"), 10, 64)
	msgs, err := h.Chat.Messages(ctx, t.ID, since)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"thread": toThreadPart(t), "messages": toMessageParts(msgs)})
}

// Send posts a user message to their own thread.
func (h *ChatHandler) Send(c echo.Context) error {
	var req chatMessageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" || len(req.Text) > model.MaxChatMessage {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text required, at most 2000 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID := middleware.UserID(c)
	t, err := h.threadForUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "chat unavailable"})
	}
	if t.Status == model.ThreadClosed {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "thread is closed"})
	}
	m := model.ChatMessage{ThreadID: t.ID, SenderType: model.SenderUser, SenderUser: userID, Text: req.Text}
	if _, err := h.Chat.AddMessage(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": messagePart{ID: m.ID, SenderType: m.SenderType,
		SenderUser: m.SenderUser, Text: m.Text, CreatedAt: m.CreatedAt}})
}

// ----- admin inbox -----

// Threads lists every thread, most recently active first.
func (h *ChatHandler) Threads(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Chat.ListThreads(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]threadPart, 0, len(list))
	for _, t := range list {
		out = append(out, toThreadPart(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"threads": out})
}

// ThreadMessages returns a thread's messages for the admin view.
func (h *ChatHandler) ThreadMessages(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid thread id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Chat.ThreadByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "thread not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	since, _ := strconv.ParseUint(c.QueryParam("since"), 10, 64)
	msgs, err := h.Chat.Messages(ctx, t.ID, since)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"thread": toThreadPart(t), "messages": toMessageParts(msgs)})
}

// Reply posts an admin message to a thread.
func (h *ChatHandler) Reply(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid thread id"})
	}
	var req chatMessageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" || len(req.Text) > model.MaxChatMessage {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text required, at most 2000 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Chat.ThreadByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "thread not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	m := model.ChatMessage{ThreadID: id, SenderType: model.SenderAdmin, SenderUser: middleware.UserID(c), Text: req.Text}
	if _, err := h.Chat.AddMessage(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": messagePart{ID: m.ID, SenderType: m.SenderType,
		SenderUser: m.SenderUser, Text: m.Text, CreatedAt: m.CreatedAt}})
}

// SetStatus opens or closes a thread.
func (h *ChatHandler) SetStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid thread id"})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status != model.ThreadOpen && req.Status != model.ThreadClosed {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be open or closed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Chat.SetThreadStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "thread not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "thread " + req.Status})
}
