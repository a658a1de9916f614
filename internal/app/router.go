package app

import (
	"technicia_backend/internal/config"
	"technicia_backend/internal/middleware"
	"technicia_backend/internal/model"
	"technicia_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes.
	public := router.Group("/api/v1")
	{
		public.GET("/health", c.health.HealthCheck)

		public.POST("/auth/register/student", c.auth.RegisterStudent)
		public.POST("/auth/register/educator", c.auth.RegisterEducator)
		public.POST("/auth/register/company", c.auth.RegisterCompany)
		public.POST("/auth/login", c.auth.Login)

		public.GET("/skills", c.skill.ListSkills)
		public.GET("/jobs", c.job.ListJobs)
		public.GET("/leaderboard", c.leaderboard.Global)
		public.GET("/leaderboard/skills/:skillId", c.leaderboard.BySkill)
	}

	// Authenticated routes.
	auth := router.Group("/api/v1")
	auth.Use(middleware.AuthMiddleware(cfg))
	{
		auth.GET("/users/me", c.user.GetMe)
		auth.POST("/users/me/profile-picture", c.user.UploadProfilePicture)

		// Student-only surface.
		student := auth.Group("/")
		student.Use(middleware.RoleMiddleware(model.Student))
		{
			student.GET("/users/me/profile", c.user.GetStudentProfile)
			student.PUT("/users/me/profile", c.user.UpdateStudentProfile)
			student.POST("/students/me/resume", c.student.UploadResume)

			student.POST("/skills/claims", c.skill.ClaimSkills)
			student.GET("/skills/claims", c.skill.ListMyClaims)
			student.DELETE("/skills/claims/:id", c.skill.RemoveClaim)

			student.POST("/tests/sessions", c.test.CreateSession)
			student.POST("/tests/sessions/:id/start", c.test.StartSession)
			student.GET("/tests/sessions/:id/questions", c.test.GetQuestions)
			student.POST("/tests/sessions/:id/answers", c.test.SubmitAnswer)
			student.POST("/tests/sessions/:id/submit", c.test.SubmitTest)
			student.GET("/tests/sessions/:id/result", c.test.GetResult)
			student.GET("/tests/history", c.test.GetHistory)

			student.POST("/proctoring/sessions/:id/violations", c.proctoring.ReportViolation)
			student.POST("/proctoring/sessions/:id/tab-switch", c.proctoring.ReportTabSwitch)
			student.GET("/proctoring/sessions/:id/violations", c.proctoring.ListViolations)
			student.GET("/proctoring/sessions/:id/stats", c.proctoring.GetStats)
			student.POST("/proctoring/sessions/:id/verify-face", c.proctoring.VerifyFace)

			student.GET("/jobs/recommendations", c.job.Recommend)
		}
	}
}
