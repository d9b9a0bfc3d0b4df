package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"rental-backend/controllers"
	"rental-backend/middleware"
	"rental-backend/models"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func SetupRouter(cc *controllers.CalendarController) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
		}

		// Public guest-portal surface.
		api.GET("/guidebook/:slug", controllers.GetGuidebook)
		api.GET("/reviews/:slug", controllers.GetReviews)
		api.GET("/availability/:propertyId", controllers.GetAvailability)
		api.GET("/availability/:propertyId/checkout-window", controllers.GetCheckoutWindow)
		api.POST("/booking-requests", controllers.CreateBookingRequest)
		api.GET("/properties/:id", controllers.GetProperty)

		authed := api.Group("")
		authed.Use(middleware.RequireAuth())
		{
			properties := authed.Group("/properties")
			properties.Use(middleware.RequireRole(models.RoleOwner))
			{
				properties.GET("", controllers.GetProperties)
				properties.POST("", controllers.CreateProperty)
				properties.PUT("/:id", controllers.UpdateProperty)
				properties.DELETE("/:id", controllers.DeleteProperty)
			}

			calendar := authed.Group("/calendar")
			calendar.Use(middleware.RequireRole(models.RoleOwner))
			{
				calendar.POST("/import", cc.ImportCalendarData)
				calendar.GET("/reservations/:propertyId", cc.GetReservations)
				calendar.GET("/events/:propertyId", cc.GetCalendarEvents)

				calendar.POST("/feeds", cc.CreateFeed)
				calendar.GET("/feeds", cc.GetFeeds)
				calendar.PUT("/feeds/:id", cc.UpdateFeed)
				calendar.DELETE("/feeds/:id", cc.DeleteFeed)
				calendar.POST("/feeds/:id/sync", cc.SyncFeedNow)
			}

			tasks := authed.Group("/cleaning-tasks")
			{
				tasks.GET("", controllers.GetCleaningTasks)
				tasks.POST("", controllers.CreateCleaningTask)
				tasks.GET("/:id", controllers.GetCleaningTask)
				tasks.PUT("/:id", controllers.UpdateCleaningTask)
				tasks.DELETE("/:id", controllers.DeleteCleaningTask)
			}

			guidebook := authed.Group("/guidebook")
			guidebook.Use(middleware.RequireRole(models.RoleOwner))
			{
				guidebook.POST("/sections", controllers.CreateGuidebookSection)
				guidebook.PUT("/sections/:id", controllers.UpdateGuidebookSection)
				guidebook.DELETE("/sections/:id", controllers.DeleteGuidebookSection)

				guidebook.POST("/recommendations", controllers.CreateGuidebookRecommendation)
				guidebook.PUT("/recommendations/:id", controllers.UpdateGuidebookRecommendation)
				guidebook.DELETE("/recommendations/:id", controllers.DeleteGuidebookRecommendation)
			}

			authed.POST("/reviews", middleware.RequireRole(models.RoleOwner), controllers.CreateReview)
		}
	}

	return r
}
