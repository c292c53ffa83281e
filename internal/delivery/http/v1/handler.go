package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/board"
	"github.com/adanyl0v/go-taskboard/internal/persist"
	"github.com/adanyl0v/go-taskboard/internal/services"
)

type Handler interface {
	HandleAuthMiddleware(c *gin.Context)

	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleAssignTask(c *gin.Context)
	HandleSetTaskStatus(c *gin.Context)

	HandleStartTimer(c *gin.Context)
	HandleStopTimer(c *gin.Context)
	HandleToggleTimer(c *gin.Context)

	HandleGetViews(c *gin.Context)
	HandleGetView(c *gin.Context)
	HandleAddColumn(c *gin.Context)

	HandleRegisterDropZone(c *gin.Context)
	HandleUnregisterDropZone(c *gin.Context)
	HandleStartDrag(c *gin.Context)
	HandleDragOver(c *gin.Context)
	HandleEndDrag(c *gin.Context)
	HandleCancelDrag(c *gin.Context)
	HandleGetDrag(c *gin.Context)

	HandleGetProjects(c *gin.Context)
	HandleCreateProject(c *gin.Context)
	HandleUpdateProject(c *gin.Context)
	HandleDeleteProject(c *gin.Context)

	HandleGetPeople(c *gin.Context)
	HandleCreatePerson(c *gin.Context)
	HandleDeletePerson(c *gin.Context)

	HandleGetMemberRecord(c *gin.Context)
	HandleAppendGoal(c *gin.Context)
	HandleAppendNote(c *gin.Context)

	HandleGetSyncFailures(c *gin.Context)
	HandleClearSyncFailures(c *gin.Context)
}

// SyncMonitor exposes the state of background persistence.
type SyncMonitor interface {
	Failures() []persist.Result
	ClearFailures()
	Pending() int
}

type handlerImpl struct {
	logger     zerolog.Logger
	board      *board.Board
	sync       SyncMonitor
	auth       services.AuthService
	members    services.MemberRecordService
	authHeader string
}

func New(
	logger zerolog.Logger,
	b *board.Board,
	syncMonitor SyncMonitor,
	authService services.AuthService,
	memberService services.MemberRecordService,
	authHeader string,
) Handler {
	return &handlerImpl{
		logger:     logger,
		board:      b,
		sync:       syncMonitor,
		auth:       authService,
		members:    memberService,
		authHeader: authHeader,
	}
}

// RegisterRoutes mounts the handler. Reads are open; every mutating route
// sits behind the shared-secret middleware.
func RegisterRoutes(router gin.IRouter, h Handler) {
	router.GET("/tasks", h.HandleGetTasks)
	router.GET("/tasks/:id", h.HandleGetTask)
	router.GET("/views", h.HandleGetViews)
	router.GET("/views/:view", h.HandleGetView)
	router.GET("/drag", h.HandleGetDrag)
	router.GET("/projects", h.HandleGetProjects)
	router.GET("/people", h.HandleGetPeople)
	router.GET("/members/:name/record", h.HandleGetMemberRecord)
	router.GET("/sync/failures", h.HandleGetSyncFailures)

	protected := router.Group("", h.HandleAuthMiddleware)

	tasksRouter := protected.Group("/tasks")
	tasksRouter.POST("", h.HandleCreateTask)
	tasksRouter.PATCH("/:id", h.HandleUpdateTask)
	tasksRouter.DELETE("/:id", h.HandleDeleteTask)
	tasksRouter.POST("/:id/assign", h.HandleAssignTask)
	tasksRouter.POST("/:id/status", h.HandleSetTaskStatus)
	tasksRouter.POST("/:id/timer/start", h.HandleStartTimer)
	tasksRouter.POST("/:id/timer/stop", h.HandleStopTimer)
	tasksRouter.POST("/:id/timer/toggle", h.HandleToggleTimer)

	protected.POST("/views/:view/columns", h.HandleAddColumn)

	dragRouter := protected.Group("/drag")
	dragRouter.POST("/zones", h.HandleRegisterDropZone)
	dragRouter.DELETE("/zones/:id", h.HandleUnregisterDropZone)
	dragRouter.POST("/start", h.HandleStartDrag)
	dragRouter.POST("/over", h.HandleDragOver)
	dragRouter.POST("/end", h.HandleEndDrag)
	dragRouter.POST("/cancel", h.HandleCancelDrag)

	projectsRouter := protected.Group("/projects")
	projectsRouter.POST("", h.HandleCreateProject)
	projectsRouter.PATCH("/:id", h.HandleUpdateProject)
	projectsRouter.DELETE("/:id", h.HandleDeleteProject)

	peopleRouter := protected.Group("/people")
	peopleRouter.POST("", h.HandleCreatePerson)
	peopleRouter.DELETE("/:id", h.HandleDeletePerson)

	membersRouter := protected.Group("/members/:name")
	membersRouter.POST("/goals", h.HandleAppendGoal)
	membersRouter.POST("/notes", h.HandleAppendNote)

	protected.DELETE("/sync/failures", h.HandleClearSyncFailures)
}
