package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vsinha/metalerp/pkg/application/services"
	domain "github.com/vsinha/metalerp/pkg/domain/services"
	"github.com/vsinha/metalerp/pkg/domain/repositories"
	"github.com/vsinha/metalerp/pkg/interfaces/http/handlers"
	"github.com/vsinha/metalerp/pkg/interfaces/http/middleware"
)

// Deps groups the services the HTTP layer talks to
type Deps struct {
	Store     repositories.BlobStore
	Ledger    *services.LedgerService
	Timesheet *services.TimesheetService
	Backups   *services.BackupService
	Reports   *services.ReportService
	Advisor   *services.AdvisorService
	Now       func() time.Time
}

// Options controls engine-wide behaviour
type Options struct {
	Production     bool
	AllowedOrigins []string
}

// New builds the gin engine with every route registered
func New(opts Options, deps Deps) *gin.Engine {
	if opts.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(opts.AllowedOrigins),
		middleware.ErrorHandler(),
	)

	projects := handlers.NewProjectsHandler(deps.Ledger)
	materials := handlers.NewMaterialsHandler(deps.Ledger, deps.Advisor)
	purchasing := handlers.NewPurchasingHandler(deps.Ledger, deps.Reports)
	production := handlers.NewProductionHandler(deps.Ledger)
	timesheet := handlers.NewTimesheetHandler(deps.Timesheet, deps.Advisor, deps.Now)
	backups := handlers.NewBackupHandler(deps.Backups, deps.Now)

	r.GET("/health", handlers.Health(deps.Store))

	api := r.Group("/api")
	api.GET("/dashboard", projects.Dashboard)

	p := api.Group("/projects")
	{
		p.GET("", projects.List)
		p.POST("", projects.Create)
		p.GET("/:id", projects.Get)
		p.PUT("/:id", projects.Update)
		p.DELETE("/:id", projects.Delete)
		p.GET("/:id/transitions", projects.Transitions)
		p.GET("/:id/events", projects.Events)
		p.GET("/:id/progress", projects.Progress)
		for _, t := range domain.AllTransitions {
			p.POST("/:id/"+string(t), projects.Transition(t))
		}

		p.GET("/:id/materials", materials.List)
		p.POST("/:id/materials", materials.Add)
		p.POST("/:id/materials/import", materials.Import)
		p.GET("/:id/materials/validate", materials.Validate)
		p.POST("/:id/materials/request-purchase", materials.RequestSelected)
		p.PUT("/:id/materials/:mid/stock", materials.SetStock)
		p.PUT("/:id/materials/:mid/observation", materials.SetObservation)
		p.DELETE("/:id/materials/:mid", materials.Remove)
		p.POST("/:id/materials/:mid/request-purchase", materials.RequestOne)
		p.GET("/:id/materials/:mid/label.png", materials.Label)
		p.GET("/:id/suggestions", materials.Suggestions)
		p.POST("/:id/suggestions", materials.ApplySuggestions)

		p.GET("/:id/report", purchasing.Report)

		p.POST("/:id/production/status", production.ChangeStatus)
		p.POST("/:id/production/bulk", production.BulkStatus)
		p.POST("/:id/production/:mid/split", production.Split)
	}

	buy := api.Group("/purchasing")
	{
		buy.GET("", purchasing.Queue)
		buy.POST("/status", purchasing.SetStatus)
		buy.POST("/observation", purchasing.SetObservation)
		buy.DELETE("/items", purchasing.DeleteItems)
	}

	api.GET("/production", production.Queue)
	api.GET("/processes", production.Processes)
	api.POST("/processes", production.AddProcess)
	api.DELETE("/processes/:pid", production.RemoveProcess)

	ts := api.Group("/timesheet")
	{
		ts.GET("/employees", timesheet.Employees)
		ts.POST("/employees", timesheet.AddEmployee)
		ts.DELETE("/employees/:name", timesheet.RemoveEmployee)
		ts.GET("/machines", timesheet.Machines)
		ts.POST("/machines", timesheet.AddMachine)
		ts.DELETE("/machines/:name", timesheet.RemoveMachine)
		ts.GET("/service-types", timesheet.ServiceTypes)
		ts.POST("/jobs", timesheet.StartJob)
		ts.POST("/jobs/:jid/stop", timesheet.StopJob)
		ts.GET("/active", timesheet.ActiveJobs)
		ts.GET("/records", timesheet.Records)
		ts.GET("/records/export", timesheet.Export)
		ts.PUT("/records/:rid", timesheet.UpdateRecord)
		ts.DELETE("/records/:rid", timesheet.DeleteRecord)
		ts.POST("/analysis", timesheet.Analyze)
	}

	api.GET("/backup", backups.Export)
	api.POST("/backup/restore", backups.Restore)
	api.POST("/reset", backups.Reset)

	return r
}
