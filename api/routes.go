package api

import (
	"github.com/garnizeh/benchwise/internal/agent"
	"github.com/garnizeh/benchwise/internal/config"
	"github.com/garnizeh/benchwise/internal/consultant"
	"github.com/garnizeh/benchwise/pkg/repository"
	"github.com/gorilla/mux"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, repo *repository.Repository, svc *consultant.Service, gw *agent.Gateway) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo.Consultant, cfg.JWTSecret, cfg.TokenDuration)
	consultantsHandler := NewConsultantsHandler(repo.Consultant, repo.Skill, svc)
	attendanceHandler := NewAttendanceHandler(repo.Attendance, svc)
	opportunitiesHandler := NewOpportunitiesHandler(repo.Opportunity, svc)
	agentsHandler := NewAgentsHandler(svc)
	agentAdminHandler := NewAgentAdminHandler(gw, repo.Schema, repo.Template)
	chatHandler := NewChatHandler(svc)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")

	// Consultant endpoints
	apiV1.HandleFunc("/consultants/{id:[0-9]+}", consultantsHandler.Get).Methods("GET")
	apiV1.HandleFunc("/consultants/{id:[0-9]+}/dashboard", consultantsHandler.Dashboard).Methods("GET")
	apiV1.HandleFunc("/consultants/{id:[0-9]+}/skills", consultantsHandler.Skills).Methods("GET")
	apiV1.HandleFunc("/consultants/{id:[0-9]+}/attendance", attendanceHandler.Mark).Methods("POST")
	apiV1.HandleFunc("/consultants/{id:[0-9]+}/attendance", attendanceHandler.List).Methods("GET")
	apiV1.HandleFunc("/consultants/{id:[0-9]+}/opportunities/actions", opportunitiesHandler.RecordAction).Methods("POST")
	apiV1.HandleFunc("/consultants/{id:[0-9]+}/opportunities/actions", opportunitiesHandler.ListActions).Methods("GET")
	apiV1.HandleFunc("/opportunities", opportunitiesHandler.List).Methods("GET")

	// Agent-backed endpoints
	apiV1.HandleFunc("/consultants/{id:[0-9]+}/resume", agentsHandler.AnalyzeResume).Methods("POST")
	apiV1.HandleFunc("/consultants/{id:[0-9]+}/certificate", agentsHandler.VerifyCertificate).Methods("POST")
	apiV1.HandleFunc("/consultants/{id:[0-9]+}/feedback/attendance", agentsHandler.AttendanceFeedback).Methods("GET")
	apiV1.HandleFunc("/consultants/{id:[0-9]+}/feedback/opportunities", agentsHandler.OpportunityFeedback).Methods("GET")
	apiV1.HandleFunc("/consultants/{id:[0-9]+}/suggestions", agentsHandler.SuggestProjects).Methods("GET")
	apiV1.HandleFunc("/consultants/{id:[0-9]+}/evolution", agentsHandler.TrackEvolution).Methods("GET")

	// Chat endpoints
	apiV1.HandleFunc("/chat", chatHandler.Chat).Methods("POST")
	apiV1.HandleFunc("/chat/history", chatHandler.History).Methods("GET")

	// Admin endpoints
	adminV1 := apiV1.PathPrefix("/admin").Subrouter()
	adminV1.Use(AdminOnlyMiddleware)
	adminV1.HandleFunc("/consultants", consultantsHandler.List).Methods("GET")
	adminV1.HandleFunc("/consultants", consultantsHandler.Create).Methods("POST")
	adminV1.HandleFunc("/consultants/{id:[0-9]+}", consultantsHandler.Update).Methods("PUT")
	adminV1.HandleFunc("/consultants/{id:[0-9]+}", consultantsHandler.Delete).Methods("DELETE")
	adminV1.HandleFunc("/agents/reload", agentAdminHandler.ReloadHandler).Methods("POST")
	adminV1.HandleFunc("/agents/schemas", agentAdminHandler.ListSchemasHandler).Methods("GET")
	adminV1.HandleFunc("/agents/schemas", agentAdminHandler.CreateOrUpdateSchemaHandler).Methods("POST")
	adminV1.HandleFunc("/agents/templates", agentAdminHandler.ListTemplatesHandler).Methods("GET")
	adminV1.HandleFunc("/agents/templates", agentAdminHandler.CreateOrUpdateTemplateHandler).Methods("POST")

	return r
}
