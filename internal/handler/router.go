package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admission-admin/internal/middleware"
)

// Handlers groups every console endpoint.
type Handlers struct {
	Auth      *AuthHandler
	Pages     *PageHandler
	Tuition   *TuitionHandler
	Knowledge *KnowledgeHandler
	Dashboard *DashboardHandler
	Metrics   *MetricsHandler
}

// RegisterRoutes mounts the console API on r. Everything except sign-in, session status,
// health and metrics requires a live administrator session.
func RegisterRoutes(r *gin.Engine, h Handlers, guard middleware.SessionGuard) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group("/api")
	api.GET("/console/metrics", h.Metrics.Console)

	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/session", h.Auth.Session)

	secured := api.Group("")
	secured.Use(middleware.RequireSession(guard))
	secured.GET("/auth/profile", h.Auth.Profile)
	secured.GET("/dashboard/stats", h.Dashboard.Stats)

	secured.GET("/tuition/comparison", h.Tuition.Comparison)
	secured.GET("/tuition/reference", h.Tuition.Reference)

	pages := secured.Group("/pages")
	pages.GET("", h.Pages.Resources)
	pages.GET("/:resource", h.Pages.View)
	pages.POST("/:resource/initialize", h.Pages.Initialize)
	pages.PUT("/:resource/filters", h.Pages.SetFilter)
	pages.PUT("/:resource/page", h.Pages.GoToPage)
	pages.POST("/:resource/refresh", h.Pages.Refresh)
	pages.GET("/:resource/export", h.Pages.Export)
	pages.DELETE("/:resource/items/:id", h.Pages.Delete)
	pages.POST("/:resource/dialogs/:mode/open", h.Pages.OpenDialog)
	pages.GET("/:resource/dialogs/:mode", h.Pages.Dialog)
	pages.PATCH("/:resource/dialogs/:mode", h.Pages.PatchDialog)
	pages.POST("/:resource/dialogs/:mode/submit", h.Pages.SubmitDialog)
	pages.POST("/:resource/dialogs/:mode/close", h.Pages.CloseDialog)

	knowledge := secured.Group("/knowledge")
	knowledge.POST("/uploads", h.Knowledge.Upload)
	knowledge.GET("/uploads", h.Knowledge.Uploads)
	knowledge.GET("/uploads/:id", h.Knowledge.UploadStatus)
	knowledge.GET("/documents", h.Knowledge.Documents)
	knowledge.DELETE("/documents/:filename", h.Knowledge.DeleteDocument)
	knowledge.GET("/status", h.Knowledge.Status)
}
