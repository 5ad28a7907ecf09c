package analyses

import (
	"strings"

	"github.com/gin-gonic/gin"

	"resume-improver/internal/ratelimit"
	"resume-improver/internal/shared/i18n"
	"resume-improver/internal/shared/server/middleware"
	"resume-improver/internal/shared/server/respond"
)

var (
	analyzeActions = []Action{ActionAnalyze, ActionRewrite}
	compareActions = []Action{ActionCompare, ActionRewriteForJob}
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
	rg.POST("/compare-job", h.compareJob)
}

func (h *Handler) analyze(c *gin.Context) {
	h.serve(c, analyzeActions)
}

func (h *Handler) compareJob(c *gin.Context) {
	h.serve(c, compareActions)
}

func (h *Handler) serve(c *gin.Context, permittedActions []Action) {
	trail := NewTrail()
	defer func() {
		c.Set(middleware.StatusTransitionKey, trail.String())
	}()

	file, err := h.Svc.Uploads.ReadForm(c, "file")
	if err != nil {
		trail.Fail(err)
		respond.Fail(c, err)
		return
	}

	action := strings.TrimSpace(c.PostForm("action"))
	c.Set(middleware.ActionKey, action)

	req := Request{
		ClientID:       clientID(c),
		Action:         Action(action),
		Permitted:      permittedActions,
		File:           file,
		JobDescription: strings.TrimSpace(c.PostForm("jobDescription")),
		SkillAnswers:   c.PostForm("skillAnswers"),
		Language:       i18n.Match(c.GetHeader("Accept-Language")),
	}

	res, err := h.Svc.Run(c.Request.Context(), trail, req)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, res)
}

func clientID(c *gin.Context) string {
	if id := middleware.ClientIDFromContext(c); id != "" {
		return id
	}
	return ratelimit.ClientID(c.Request)
}
