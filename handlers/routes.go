package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// Routes groups every handler the server mounts
type Routes struct {
	Auth        *AuthHandler
	Cases       *CaseHandler
	Attachments *AttachmentHandler
	NGOs        *NGOHandler
	RequireAuth gin.HandlerFunc
	Database    Pinger
	Metrics     http.Handler
	AppName     string
}

// Register mounts the public and authenticated routes on r
func (rt Routes) Register(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		respondOK(c, http.StatusOK, gin.H{"message": rt.AppName + " API"})
	})
	r.GET("/api/health", rt.health)
	if rt.Metrics != nil {
		r.GET("/metrics", gin.WrapH(rt.Metrics))
	}

	auth := r.Group("/auth")
	{
		auth.POST("/signup", rt.Auth.Signup)
		auth.POST("/login", rt.Auth.Login)
		auth.GET("/me", rt.RequireAuth, rt.Auth.Me)
	}

	api := r.Group("/api", rt.RequireAuth)
	{
		// Case endpoints
		api.POST("/cases", rt.Cases.CreateCase)
		api.GET("/cases", rt.Cases.ListCases)
		api.POST("/cases/generate", rt.Cases.GenerateCase)
		api.POST("/cases/chat", rt.Cases.Chat)
		api.GET("/cases/:id", rt.Cases.GetCase)
		api.PATCH("/cases/:id", rt.Cases.UpdateStatus)
		api.POST("/cases/:id/feedback", rt.Cases.AddFeedback)
		api.GET("/cases/:id/next-steps", rt.Cases.GetNextSteps)
		api.POST("/cases/:id/next-steps", rt.Cases.ReplaceNextSteps)
		api.POST("/cases/:id/draft/export", rt.Cases.ExportDraft)
		api.GET("/cases/:id/draft/download", rt.Cases.DownloadDraft)

		// Attachment endpoints
		api.POST("/cases/:id/attachments", rt.Attachments.Upload)
		api.GET("/cases/:id/attachments", rt.Attachments.List)
		api.GET("/attachments/:id", rt.Attachments.Download)

		// NGO directory
		api.GET("/ngos/search", rt.NGOs.Search)
		api.GET("/ngos/category/:category", rt.NGOs.ByCategory)
		api.GET("/ngos/location/:location", rt.NGOs.ByLocation)
	}
}

func (rt Routes) health(c *gin.Context) {
	status := "healthy"
	code := http.StatusOK
	if rt.Database != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := rt.Database.Ping(ctx); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	c.JSON(code, gin.H{"status": status})
}
