package router

import (
	"time"

	"farmledger/internal/config"
	"farmledger/internal/handler"
	"farmledger/internal/middleware"
	"farmledger/internal/model"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New returns a configured Gin engine serving the services in app.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, app *Container) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.IsProduction(), cfg.CORSAllowedOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(rdb, "api", 1000, time.Minute))

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(app.Auth)
	companiesH := handler.NewCompaniesHandler(app.Companies)
	animalsH := handler.NewAnimalsHandler(app.Animals, app.Groups)
	componentsH := handler.NewRationComponentsHandler(app.Components)
	tablesH := handler.NewRationTablesHandler(app.Tables)
	changeLogsH := handler.NewChangeLogsHandler(app.ChangeLogs)
	rationLogsH := handler.NewRationLogsHandler(app.RationLogs)
	weightsH := handler.NewWeightsHandler(app.Weights)
	slaughtersH := handler.NewSlaughtersHandler(app.Slaughters)
	vaccinesH := handler.NewVaccinesHandler(app.Vaccines)
	jobsH := handler.NewJobsHandler(app.FeedCost, app.DeadLetters)
	reportsH := handler.NewReportsHandler(app.Reports)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, app.Mailer))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", middleware.RateLimiter(rdb, "login", 20, time.Minute), authH.Login)
		auth.POST("/refresh", authH.Refresh)
		auth.POST("/password-reset-request", middleware.RateLimiter(rdb, "reset", 5, time.Minute), authH.PasswordResetRequest)
		auth.POST("/password-reset-confirm/:token/:user_id", authH.PasswordResetConfirm)
	}

	// Protected routes. Every role reads; admin and manager write; admin alone
	// hard-deletes, runs jobs and grants roles.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	read := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff)
	write := middleware.RequireRole(model.RoleAdmin, model.RoleManager)
	admin := middleware.RequireRole(model.RoleAdmin)

	v1.GET("/auth/roles", read, authH.Roles)
	v1.POST("/auth/add-user-to-role", admin, authH.AddUserToRole)

	crud := func(g *gin.RouterGroup, list, create, get, update, del gin.HandlerFunc) {
		g.GET("", read, list)
		g.POST("", write, create)
		g.GET("/:id", read, get)
		g.PUT("/:id", write, update)
		g.DELETE("/:id", write, del)
	}

	crud(v1.Group("/companies"), companiesH.List, companiesH.Create, companiesH.Get, companiesH.Update, companiesH.Delete)
	crud(v1.Group("/farmers"), companiesH.ListFarmers, companiesH.CreateFarmer, companiesH.GetFarmer, companiesH.UpdateFarmer, companiesH.DeleteFarmer)
	crud(v1.Group("/animals"), animalsH.List, animalsH.Create, animalsH.Get, animalsH.Update, animalsH.Delete)
	crud(v1.Group("/groups"), animalsH.ListGroups, animalsH.CreateGroup, animalsH.GetGroup, animalsH.UpdateGroup, animalsH.DeleteGroup)
	crud(v1.Group("/animal-groups"), animalsH.ListMemberships, animalsH.CreateMembership, animalsH.GetMembership, animalsH.UpdateMembership, animalsH.DeleteMembership)

	// Ration configuration with soft delete
	components := v1.Group("/ration-components")
	{
		components.GET("/soft-deleted", read, componentsH.ListDeleted)
		crud(components, componentsH.List, componentsH.Create, componentsH.Get, componentsH.Update, componentsH.SoftDelete)
		components.POST("/:id/restore", write, componentsH.Restore)
		components.DELETE("/:id/hard-delete", admin, componentsH.HardDelete)
	}
	tables := v1.Group("/ration-tables")
	{
		tables.GET("/soft-deleted", read, tablesH.ListDeleted)
		crud(tables, tablesH.List, tablesH.Create, tablesH.Get, tablesH.Update, tablesH.SoftDelete)
		tables.POST("/:id/restore", write, tablesH.Restore)
		tables.DELETE("/:id/hard-delete", admin, tablesH.HardDelete)
		tables.GET("/:id/compute-cost", read, tablesH.ComputeCost)
	}
	items := v1.Group("/ration-table-components")
	{
		items.GET("/soft-deleted", read, tablesH.ListDeletedComponents)
		crud(items, tablesH.ListComponents, tablesH.AddComponent, tablesH.GetComponent, tablesH.UpdateComponent, tablesH.SoftDeleteComponent)
		items.POST("/:id/restore", write, tablesH.RestoreComponent)
		items.DELETE("/:id/hard-delete", admin, tablesH.HardDeleteComponent)
	}

	// Audit trail, read-only
	audit := v1.Group("/ration-logs", read)
	{
		audit.GET("/component-change-logs", changeLogsH.ComponentLogs)
		audit.GET("/component-change-logs/component/:component_id", changeLogsH.ComponentLogs)
		audit.GET("/ration-table-logs", changeLogsH.TableLogs)
		audit.GET("/ration-table-logs/table/:table_id", changeLogsH.TableLogs)
		audit.GET("/ration-table-component-logs", changeLogsH.TableComponentLogs)
		audit.GET("/ration-table-component-logs/table-component/:table_component_id", changeLogsH.TableComponentLogs)
		audit.GET("/ration-table-component-logs/ration-table/:table_id", changeLogsH.TableComponentLogs)
	}

	rationLogs := v1.Group("/animal-ration-logs")
	{
		crud(rationLogs, rationLogsH.List, rationLogsH.Create, rationLogsH.Get, rationLogsH.Update, rationLogsH.Delete)
		rationLogs.POST("/:id/deactivate", write, rationLogsH.Deactivate)
	}

	weights := v1.Group("/weights")
	{
		weights.GET("/daily-gain/:animal_id", read, weightsH.DailyGain)
		weights.GET("/all-gain/:animal_id", read, weightsH.AllGain)
		weights.GET("/group-daily-gain/:group_id", read, weightsH.GroupDailyGain)
		weights.GET("/group-all-gain/:group_id", read, weightsH.GroupAllGain)
		crud(weights, weightsH.List, weightsH.Create, weightsH.Get, weightsH.Update, weightsH.Delete)
	}

	slaughters := v1.Group("/slaughters")
	{
		slaughters.GET("/total-profit", read, slaughtersH.TotalProfit)
		crud(slaughters, slaughtersH.List, slaughtersH.Create, slaughtersH.Get, slaughtersH.Update, slaughtersH.Delete)
		slaughters.GET("/:id/profit", read, slaughtersH.Profit)
		slaughters.GET("/:id/statement.pdf", read, slaughtersH.Statement)
	}

	crud(v1.Group("/vaccines"), vaccinesH.List, vaccinesH.Create, vaccinesH.Get, vaccinesH.Update, vaccinesH.Delete)
	crud(v1.Group("/vaccine-records"), vaccinesH.ListRecords, vaccinesH.CreateRecord, vaccinesH.GetRecord, vaccinesH.UpdateRecord, vaccinesH.DeleteRecord)

	jobs := v1.Group("/jobs", admin)
	{
		jobs.POST("/feed-cost/run", jobsH.RunFeedCost)
		jobs.GET("/feed-cost/runs", jobsH.ListFeedCostRuns)
		jobs.GET("/email/dead-letters", jobsH.EmailDeadLetters)
		jobs.POST("/email/dead-letters/requeue", jobsH.RequeueEmailDeadLetters)
	}

	v1.GET("/reports/herd.xlsx", read, reportsH.Herd)

	// Swagger UI, only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
