package server

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "github.com/techagentng/awaz/docs"
	"github.com/techagentng/awaz/models"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()

	// LoggerWithFormatter middleware will write the logs to gin.DefaultWriter
	// By default gin.DefaultWriter = os.Stdout
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders: []string{"Origin", "Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if len(s.Config.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = s.Config.AllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	r.Use(cors.New(corsConfig))
	r.MaxMultipartMemory = 32 << 20
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if !s.Config.S3Enabled() && s.Config.UploadDir != "" {
		router.Static("/media", s.Config.UploadDir)
	}

	if s.RateLimitStore == nil {
		s.RateLimitStore = NewRateLimitStore(nil)
	}
	limited := limitRate(s.RateLimitStore)

	apirouter := router.Group("/api/v1")
	apirouter.GET("/home", s.handleHome())
	apirouter.POST("/auth/register", s.handleSignup())
	apirouter.GET("/auth/activate/:uid/:token", s.handleActivate())
	apirouter.POST("/auth/login", limited, s.handleLogin())
	apirouter.POST("/password/forgot", limited, s.HandleForgotPassword())
	apirouter.GET("/password/reset/:uid/:token", s.HandleValidatePasswordReset())
	apirouter.POST("/password/reset", s.ResetPassword())
	apirouter.GET("/municipalities", s.handleListMunicipalities())
	apirouter.GET("/municipalities/:id/wards", s.handleListWards())
	apirouter.GET("/categories", s.handleListCategories())
	apirouter.GET("/statuses", s.handleListStatuses())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/auth/logout", s.handleLogout())
	authorized.POST("/password/change", s.handleChangePassword())
	authorized.GET("/me", s.handleShowProfile())
	authorized.POST("/complaints", s.handleCreateComplaint())
	authorized.GET("/complaints", s.handleListComplaints())
	authorized.GET("/complaints/mine", s.handleMyComplaints())
	authorized.GET("/complaints/:id", s.handleGetComplaint())
	authorized.PUT("/complaints/:id", s.handleEditComplaint())
	authorized.DELETE("/complaints/:id", s.handleDeleteComplaint())
	authorized.POST("/complaints/:id/like", s.handleLikeComplaint())
	authorized.POST("/complaints/:id/report", s.handleReportComplaint())
	authorized.POST("/complaints/:id/comments", s.handleAddComment())
	authorized.PUT("/comments/:id", s.handleEditComment())
	authorized.DELETE("/comments/:id", s.handleDeleteComment())
	authorized.GET("/ws/events", s.handleEvents())

	staff := authorized.Group("/")
	staff.Use(RequireRole(models.RoleMunicipality, models.RoleAdmin))
	staff.PUT("/complaints/:id/status", s.handleUpdateStatus())

	municipality := authorized.Group("/dashboard")
	municipality.Use(RequireRole(models.RoleMunicipality))
	municipality.GET("/municipality", s.handleMunicipalityDashboard())

	admin := authorized.Group("/")
	admin.Use(RequireRole(models.RoleAdmin))
	admin.GET("/dashboard/admin", s.handleAdminDashboard())
	admin.GET("/admin/complaints/reported", s.handleReportedComplaints())
	admin.GET("/admin/complaints/export", s.handleExportComplaints())
	admin.PUT("/admin/complaints/:id/visibility", s.handleUpdateVisibility())
	admin.DELETE("/admin/complaints/:id", s.handleAdminDeleteComplaint())
	admin.DELETE("/admin/comments/:id", s.handleAdminDeleteComment())
	admin.GET("/admin/users", s.handleListUsers())
	admin.DELETE("/admin/users/:id", s.handleDeleteUser())
}
