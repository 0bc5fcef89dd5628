package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/study-planner/database"
	"github.com/sahilchouksey/study-planner/handlers"
	ai_handlers "github.com/sahilchouksey/study-planner/handlers/ai"
	auth_handlers "github.com/sahilchouksey/study-planner/handlers/auth"
	dashboard_handlers "github.com/sahilchouksey/study-planner/handlers/dashboard"
	doubt_handlers "github.com/sahilchouksey/study-planner/handlers/doubt"
	export_handlers "github.com/sahilchouksey/study-planner/handlers/export"
	notification_handlers "github.com/sahilchouksey/study-planner/handlers/notification"
	revision_handlers "github.com/sahilchouksey/study-planner/handlers/revision"
	subject_handlers "github.com/sahilchouksey/study-planner/handlers/subject"
	task_handlers "github.com/sahilchouksey/study-planner/handlers/task"
	test_handlers "github.com/sahilchouksey/study-planner/handlers/test"
	"github.com/sahilchouksey/study-planner/services"
	"github.com/sahilchouksey/study-planner/services/ai"
	"github.com/sahilchouksey/study-planner/utils/auth"
	"github.com/sahilchouksey/study-planner/utils/cache"
	"github.com/sahilchouksey/study-planner/utils/middleware"
)

// Dependencies carries everything the routes need. The app package builds
// it from the environment; tests build it by hand.
type Dependencies struct {
	Store         database.Storage
	Redis         *cache.RedisCache // optional
	Clock         services.Clock
	JWTManager    *auth.JWTManager
	Sessions      auth.SessionStore
	BruteForce    *middleware.BruteForceProtection // nil disables lockouts
	Generator     *ai.Generator
	Responder     services.Responder
	Notifications *services.NotificationService
	CookieSecure  bool
	Security      middleware.SecurityConfig
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	db := deps.Store.GetDB()
	clock := deps.Clock
	location := clock.Location

	notificationService := deps.Notifications
	if notificationService == nil {
		notificationService = services.NewNotificationService(db, clock)
	}
	generator := deps.Generator
	if generator == nil {
		generator = ai.NewGenerator(nil, clock.Now)
	}
	responder := deps.Responder
	if responder == nil {
		responder = services.NewKeywordResponder()
	}

	subjectService := services.NewSubjectService(db, clock)
	taskService := services.NewTaskService(db, clock)
	testService := services.NewTestService(db, clock)
	revisionService := services.NewRevisionService(db, clock)
	doubtService := services.NewDoubtService(db, responder)
	dashboardService := services.NewDashboardService(db, clock)
	aiService := services.NewAIService(db, generator, notificationService, clock)
	exportService := services.NewExportService(db, clock)

	authMiddleware := middleware.NewAuthMiddleware(deps.JWTManager, deps.Sessions, db)

	authHandler := auth_handlers.NewAuthHandler(db, deps.JWTManager, deps.Sessions, deps.BruteForce, deps.CookieSecure)
	subjectHandler := subject_handlers.NewSubjectHandler(subjectService, location)
	taskHandler := task_handlers.NewTaskHandler(taskService, location)
	testHandler := test_handlers.NewTestHandler(testService)
	revisionHandler := revision_handlers.NewRevisionHandler(revisionService, location)
	doubtHandler := doubt_handlers.NewDoubtHandler(doubtService)
	dashboardHandler := dashboard_handlers.NewDashboardHandler(dashboardService)
	aiHandler := ai_handlers.NewAIHandler(aiService)
	notificationHandler := notification_handlers.NewNotificationHandler(notificationService)
	exportHandler := export_handlers.NewExportHandler(exportService)

	middleware.SetupSecurity(app, deps.Security)

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(deps.Store, deps.Redis))

	api := app.Group("/api")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", deps.BruteForce.CheckAndRecordAttempt(), authHandler.Login)
	authGroup.Post("/logout", authMiddleware.Optional(), authHandler.Logout)
	authGroup.Get("/check-auth", authMiddleware.Optional(), authHandler.CheckAuth)

	// Everything below requires a session
	requireAuth := authMiddleware.Required()

	profile := api.Group("/profile", requireAuth)
	profile.Get("/", authHandler.GetProfile)
	profile.Put("/", authHandler.UpdateProfile)

	subjects := api.Group("/subjects", requireAuth)
	subjects.Get("/", subjectHandler.ListSubjects)
	subjects.Post("/", subjectHandler.CreateSubject)
	subjects.Get("/ai-suggestions", subjectHandler.AISuggestions)
	subjects.Get("/:id", subjectHandler.GetSubject)
	subjects.Put("/:id", subjectHandler.UpdateSubject)
	subjects.Delete("/:id", subjectHandler.DeleteSubject)

	tasks := api.Group("/tasks", requireAuth)
	tasks.Get("/", taskHandler.ListTasks)
	tasks.Post("/", taskHandler.CreateTask)
	tasks.Get("/today", taskHandler.Today)
	tasks.Put("/:id", taskHandler.UpdateTask)
	tasks.Delete("/:id", taskHandler.DeleteTask)

	tests := api.Group("/tests", requireAuth)
	tests.Post("/create", testHandler.CreateTest)
	tests.Post("/submit", testHandler.SubmitTest)
	tests.Get("/history", testHandler.History)
	tests.Get("/subject/:subjectId", testHandler.ListBySubject)
	tests.Get("/:id", testHandler.GetTest)
	tests.Delete("/:id", testHandler.DeleteTest)

	revisions := api.Group("/revisions", requireAuth)
	revisions.Post("/", revisionHandler.CreateRevision)
	revisions.Get("/pending", revisionHandler.Pending)
	revisions.Get("/all", revisionHandler.All)
	revisions.Put("/:id/complete", revisionHandler.Complete)
	revisions.Delete("/:id", revisionHandler.DeleteRevision)

	doubts := api.Group("/doubts", requireAuth)
	doubts.Post("/ask", doubtHandler.Ask)
	doubts.Get("/history", doubtHandler.History)
	doubts.Put("/:id/feedback", doubtHandler.Feedback)

	api.Get("/dashboard/stats", requireAuth, dashboardHandler.Stats)

	aiGroup := api.Group("/ai", requireAuth)
	aiGroup.Post("/generate-questions", aiHandler.GenerateQuestions)
	aiGroup.Post("/generate-plan", aiHandler.GeneratePlan)

	notifications := api.Group("/notifications", requireAuth)
	notifications.Get("/", notificationHandler.GetNotifications)
	notifications.Get("/unread-count", notificationHandler.GetUnreadCount)
	notifications.Post("/read-all", notificationHandler.MarkAllAsRead)
	notifications.Post("/:id/read", notificationHandler.MarkAsRead)
	notifications.Delete("/:id", notificationHandler.DeleteNotification)

	api.Get("/export/planner.xlsx", requireAuth, exportHandler.Planner)
}
