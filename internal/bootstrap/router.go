package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/GoSim-25-26J-441/soapgen/internal/api/http"
	"github.com/GoSim-25-26J-441/soapgen/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/soapgen/internal/session"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	GeneratorURL   string
	CORSOrigins    []string
	MaxUploadBytes int64
	Registry       *session.Registry
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	// multipart parts above this spill to temp files
	r.MaxMultipartMemory = dep.MaxUploadBytes

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.GeneratorURL, dep.Registry)
	healthHandler.RegisterRoutes(r)

	httpapi.RegisterPage(r)

	api := r.Group("/api/v1")
	httpapi.NewSessionHandler(dep.Registry, dep.MaxUploadBytes).RegisterRoutes(api)

	return r
}
