package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"qa-service/internal/adapters/kafka"
	"qa-service/internal/api/handlers"
	"qa-service/internal/api/middleware"
	"qa-service/internal/repositories/postgres"
	"qa-service/internal/services"
	"qa-service/internal/websocket"
)

type Router struct {
	engine              *gin.Engine
	wsHandler           *handlers.WSHandler
	authHandler         *handlers.AuthHandler
	questionHandler     *handlers.QuestionHandler
	answerHandler       *handlers.AnswerHandler
	notificationHandler *handlers.NotificationHandler
	userHandler         *handlers.UserHandler
	rateLimitMW         *middleware.RateLimitMiddleware
	authMW              *middleware.AuthMiddleware
}

// Deps carries everything the router wires together. Hub and producer are
// built in main so shutdown can reach them.
type Deps struct {
	DB            *gorm.DB
	Hub           *websocket.Hub
	RedisService  *services.RedisService
	AuthService   *services.AuthService
	Producer      *kafka.Producer
	AvatarStorage services.AvatarStorage
}

func NewRouter(deps Deps) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS())
	engine.Use(middleware.LogApi())

	userRepo := postgres.NewUserRepository(deps.DB)
	questionRepo := postgres.NewQuestionRepository(deps.DB)
	answerRepo := postgres.NewAnswerRepository(deps.DB)
	voteRepo := postgres.NewVoteRepository(deps.DB)
	notificationRepo := postgres.NewNotificationRepository(deps.DB)

	notificationService := services.NewNotificationService(notificationRepo, deps.Hub)
	questionService := services.NewQuestionService(questionRepo)
	answerService := services.NewAnswerService(answerRepo, questionRepo, notificationService, deps.Hub, deps.Producer)
	voteService := services.NewVoteService(voteRepo, questionRepo, answerRepo, notificationService, deps.Hub, deps.Producer)
	userService := services.NewUserService(userRepo, deps.AvatarStorage)

	return &Router{
		engine:              engine,
		wsHandler:           handlers.NewWSHandler(deps.Hub),
		authHandler:         handlers.NewAuthHandler(deps.AuthService),
		questionHandler:     handlers.NewQuestionHandler(questionService, voteService),
		answerHandler:       handlers.NewAnswerHandler(answerService, voteService),
		notificationHandler: handlers.NewNotificationHandler(notificationService),
		userHandler:         handlers.NewUserHandler(userService),
		rateLimitMW:         middleware.NewRateLimitMiddleware(deps.RedisService),
		authMW:              middleware.NewAuthMiddleware(deps.AuthService),
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.engine.Group("/api")

	// Socket auth happens in-band, so the upgrade itself is public.
	api.GET("/ws",
		r.rateLimitMW.WebSocketRateLimit(5, time.Minute),
		r.wsHandler.HandleWebSocket,
	)

	// Public routes
	public := api.Group("/")
	{
		authRoutes := public.Group("/auth")
		authRoutes.Use(r.rateLimitMW.RateLimitIP(50, time.Minute))
		{
			authRoutes.POST("/register", r.authHandler.Register)
			authRoutes.POST("/login", r.authHandler.Login)
		}

		public.GET("/questions", r.questionHandler.List)
		public.GET("/questions/user/:userId", r.questionHandler.ListByUser)
		public.GET("/questions/:id", r.questionHandler.Get)
		public.GET("/answers/questions/:questionId", r.answerHandler.ListForQuestion)
	}

	// Authenticated routes
	auth := api.Group("/")
	auth.Use(r.authMW.RequireAuth())
	auth.Use(r.rateLimitMW.RateLimit(100, time.Minute))
	{
		auth.GET("/auth/me", r.authHandler.Me)
		auth.POST("/auth/logout", r.authHandler.Logout)

		auth.GET("/questions/user/me", r.questionHandler.ListMine)
		auth.POST("/questions", r.questionHandler.Create)
		auth.PUT("/questions/:id", r.questionHandler.Update)
		auth.DELETE("/questions/:id", r.questionHandler.Delete)
		auth.POST("/questions/:id/vote", r.questionHandler.Vote)

		auth.POST("/answers/questions/:questionId", r.answerHandler.Create)
		auth.PUT("/answers/:id", r.answerHandler.Update)
		auth.DELETE("/answers/:id", r.answerHandler.Delete)
		auth.POST("/answers/:id/vote", r.answerHandler.Vote)
		auth.POST("/answers/:id/accept", r.answerHandler.Accept)

		auth.GET("/notifications", r.notificationHandler.List)
		auth.GET("/notifications/unread-count", r.notificationHandler.UnreadCount)
		auth.PUT("/notifications/read-all", r.notificationHandler.MarkAllRead)
		auth.PUT("/notifications/:id/read", r.notificationHandler.MarkRead)
		auth.DELETE("/notifications/:id", r.notificationHandler.Delete)

		auth.POST("/users/me/avatar", r.userHandler.UploadAvatar)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
