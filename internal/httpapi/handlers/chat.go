package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/taim-chat/internal/chat"
	"github.com/suPer8Hu/taim-chat/internal/common"
	"github.com/suPer8Hu/taim-chat/internal/observability"
)

// large enough for a phone photo encoded as a data URI
const maxSendBody = 20 << 20

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"pong": true})
}

// Settings exposes the presentation toggles the browser renders with.
func (h *Handler) Settings(c *gin.Context) {
	common.OK(c, gin.H{
		"default_theme": h.Cfg.DefaultTheme,
		"animations":    h.Cfg.UIAnimations,
		"provider":      h.Gateway.Provider(),
		"model":         h.Gateway.Model(),
	})
}

func (h *Handler) GetState(c *gin.Context) {
	common.OK(c, h.ChatSvc.State())
}

func (h *Handler) CreateChat(c *gin.Context) {
	ch := h.ChatSvc.CreateChat(c.Request.Context())
	common.OK(c, gin.H{"chat": ch, "active_chat_id": ch.ID})
}

func (h *Handler) GetChat(c *gin.Context) {
	ch, err := h.ChatSvc.Chat(c.Param("id"))
	if err != nil {
		common.Fail(c, http.StatusNotFound, 40401, "chat not found")
		return
	}
	common.OK(c, gin.H{"chat": ch})
}

func (h *Handler) SelectChat(c *gin.Context) {
	id := c.Param("id")
	if err := h.ChatSvc.SelectChat(id); err != nil {
		common.Fail(c, http.StatusNotFound, 40401, "chat not found")
		return
	}
	common.OK(c, gin.H{"active_chat_id": id})
}

func (h *Handler) DeleteChat(c *gin.Context) {
	if err := h.ChatSvc.DeleteChat(c.Request.Context(), c.Param("id")); err != nil {
		common.Fail(c, http.StatusNotFound, 40401, "chat not found")
		return
	}
	common.OK(c, gin.H{"active_chat_id": h.ChatSvc.State().ActiveID})
}

type sendMessageReq struct {
	Prompt string `json:"prompt"`
	Image  string `json:"image"` // data:<mime>;base64,<payload>
}

// SendMessage runs one turn on the active chat. A failed generation still
// answers 200: the error is part of the transcript and of the result.
func (h *Handler) SendMessage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSendBody)

	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	res, err := h.ChatSvc.Send(c.Request.Context(), req.Prompt, req.Image)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrTurnInFlight):
			common.Fail(c, http.StatusConflict, 40901, err.Error())
		case errors.Is(err, chat.ErrNoActiveChat):
			common.Fail(c, http.StatusNotFound, 40402, err.Error())
		case errors.Is(err, chat.ErrEmptyPrompt):
			common.Fail(c, http.StatusBadRequest, 10002, err.Error())
		default:
			observability.LoggerFromContext(c.Request.Context()).Error("send failed", "error", err)
			common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		}
		return
	}

	common.OK(c, res)
}

func (h *Handler) DismissError(c *gin.Context) {
	h.ChatSvc.DismissError()
	common.OK(c, gin.H{"last_error": nil})
}

type setThemeReq struct {
	Theme string `json:"theme" binding:"required"`
}

func (h *Handler) SetTheme(c *gin.Context) {
	var req setThemeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if err := h.ChatSvc.SetTheme(c.Request.Context(), chat.Theme(req.Theme)); err != nil {
		common.Fail(c, http.StatusBadRequest, 10003, "theme must be light or dark")
		return
	}
	common.OK(c, gin.H{"theme": req.Theme})
}

func (h *Handler) ToggleTheme(c *gin.Context) {
	common.OK(c, gin.H{"theme": h.ChatSvc.ToggleTheme(c.Request.Context())})
}
