package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/groupchat/chat-backend/internal/handler"
	"github.com/groupchat/chat-backend/internal/middleware"
	"github.com/groupchat/chat-backend/pkg/jwt"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups the handlers mounted by Setup
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Message *handler.MessageHandler
	Member  *handler.MemberHandler
	Health  *handler.HealthHandler
}

// RouterOptions configures the shared middleware chain
type RouterOptions struct {
	AllowOrigins []string
	Limiter      *middleware.RateLimiter // nil disables rate limiting
	RateLimit    middleware.RateLimitConfig
	MaxBodyBytes int64
}

// NewRouter builds a gin engine with CORS and the common middleware chain
func NewRouter(opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	origins := opts.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:           86400,
	}))

	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = middleware.DefaultMaxBodyBytes
	}

	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.MaxBodySize(maxBody))
	router.Use(opts.Limiter.Limit("ip", opts.RateLimit.RequestsPerMinute, middleware.ByClientIP))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// Setup configures all API routes. send_message gets its own per-sender
// budget on top of the router-wide one.
func Setup(router *gin.Engine, h *Handlers, jwtManager *jwt.Manager, opts RouterOptions) {
	if h.Health != nil {
		router.GET("/health", h.Health.Health)
	}

	api := router.Group("/api")

	// Users
	users := api.Group("/users")
	users.POST("/register", h.Auth.Register)
	users.POST("/login", h.Auth.Login)
	users.POST("/refresh", h.Auth.Refresh)
	users.GET("/me", middleware.JWTAuth(jwtManager), h.Auth.Me)
	users.GET("/get_users_for_chat", h.User.GetUsersForChat)

	// Messages
	messages := api.Group("/messages")
	messages.POST("/send_message",
		opts.Limiter.Limit("send", opts.RateLimit.SendsPerMinute, middleware.BySender),
		h.Message.SendMessage)
	messages.GET("/get_all_messages_of_member_id", h.Message.GetAllMessagesOfMemberID)
	messages.PATCH("/:message_id/status", h.Message.UpdateStatus)

	// Conversation members
	members := api.Group("/conversation_members")
	members.POST("/add_member", h.Member.AddMember)
	members.GET("/get_members/:member_id", h.Member.GetMembers)
	members.DELETE("/delete_member/:id", h.Member.DeleteMember)
	members.GET("/get_user_conversations/:user_id", h.Member.GetUserConversations)
}
