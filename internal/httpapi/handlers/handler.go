package handlers

import (
	"github.com/suPer8Hu/taim-chat/internal/ai"
	"github.com/suPer8Hu/taim-chat/internal/chat"
	"github.com/suPer8Hu/taim-chat/internal/config"
)

type Handler struct {
	Cfg     config.Config
	ChatSvc *chat.Controller
	Gateway *ai.Gateway
}

func NewHandler(cfg config.Config, ctrl *chat.Controller, gw *ai.Gateway) *Handler {
	return &Handler{Cfg: cfg, ChatSvc: ctrl, Gateway: gw}
}
