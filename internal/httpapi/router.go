package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/taim-chat/internal/common"
	"github.com/suPer8Hu/taim-chat/internal/httpapi/handlers"
	"github.com/suPer8Hu/taim-chat/internal/httpapi/middleware"
)

func NewRouter(h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.Use(middleware.RequestID())

	api := r.Group("/api")
	api.GET("/ping", h.Ping)
	api.GET("/settings", h.Settings)
	api.GET("/state", h.GetState)

	// chats
	api.POST("/chats", h.CreateChat)
	api.GET("/chats/:id", h.GetChat)
	api.PUT("/chats/:id/active", h.SelectChat)
	api.DELETE("/chats/:id", h.DeleteChat)

	// turns on the active chat
	api.POST("/messages", h.SendMessage)
	api.DELETE("/errors/last", h.DismissError)

	// theme
	api.PUT("/theme", h.SetTheme)
	api.POST("/theme/toggle", h.ToggleTheme)

	// browser bundle
	if h.Cfg.WebDir != "" {
		r.StaticFile("/", h.Cfg.WebDir+"/index.html")
		r.Static("/assets", h.Cfg.WebDir+"/assets")
	}
	return r
}
