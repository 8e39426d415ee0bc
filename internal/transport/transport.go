package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/menta2k/vcollage"
	"github.com/menta2k/vcollage/internal/transport/middleware"
)

func InitRoutes(h *CollageHandler) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())

	sessions := router.Group("/sessions")
	{
		sessions.POST("", h.CreateSession)
		sessions.GET("/:id", h.GetSession)
		sessions.DELETE("/:id", h.DeleteSession)

		sessions.GET("/:id/images", h.ListImages)
		sessions.POST("/:id/images", h.UploadImages)
		sessions.DELETE("/:id/images", h.ClearImages)
		sessions.DELETE("/:id/images/:index", h.RemoveImage)
		sessions.POST("/:id/images/:index/move", h.MoveImage)

		render := sessions.Group("", middleware.Timeout(h.defaults.RenderTimeout))
		render.GET("/:id/preview", h.Preview)
		render.GET("/:id/collage", h.Collage)
	}

	router.GET("/palette", h.Palette)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "vcollage",
			"version": vcollage.GetVersion(),
		})
	})
	return router
}
