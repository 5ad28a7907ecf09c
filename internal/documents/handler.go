package documents

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-improver/internal/shared/apperr"
	"resume-improver/internal/shared/i18n"
	"resume-improver/internal/shared/server/respond"
	"resume-improver/internal/shared/telemetry"
	"resume-improver/resume/model"
	"resume-improver/resume/render"
)

// maxBodyBytes caps the JSON body of every document route.
const maxBodyBytes = 1 << 20

type documentRequest struct {
	ResumeData json.RawMessage `json:"resumeData"`
}

type validatedResponse struct {
	Success    bool            `json:"success"`
	ResumeData json.RawMessage `json:"resumeData"`
}

// Handler serves résumé validation and rendering.
type Handler struct{}

// NewHandler constructs a Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate-pdf", h.validate)
	rg.POST("/generate-docx", h.docx)
	rg.POST("/preview", h.preview)
}

// validate checks the résumé carries the fields a document needs and echoes it
// back. The PDF itself is produced by the client.
func (h *Handler) validate(c *gin.Context) {
	raw, err := bindResumeData(c)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, validatedResponse{Success: true, ResumeData: raw})
}

func (h *Handler) docx(c *gin.Context) {
	view, err := bindView(c)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	doc, err := render.RenderDOCX(view)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	filename := render.FileName(view.FullName, ".docx")
	telemetry.Info("document.rendered", map[string]any{
		"format": "docx",
		"bytes":  len(doc),
	})
	respond.Attachment(c, filename, render.MimeDOCX, doc)
}

func (h *Handler) preview(c *gin.Context) {
	view, err := bindView(c)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	page, err := render.RenderHTML(view)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func bindResumeData(c *gin.Context) (json.RawMessage, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, apperr.Validation(i18n.KeyInvalidRequest)
	}
	trimmed := bytes.TrimSpace(req.ResumeData)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, apperr.Validation(i18n.KeyResumeDataRequired)
	}
	if field := model.MissingRequiredField(trimmed); field != "" {
		return nil, apperr.Validation(i18n.KeyMissingField, field)
	}
	return trimmed, nil
}

func bindView(c *gin.Context) (render.View, error) {
	raw, err := bindResumeData(c)
	if err != nil {
		return render.View{}, err
	}
	data, err := model.DecodeResumeInput(raw)
	if err != nil {
		return render.View{}, apperr.Wrap(apperr.ErrValidation, i18n.KeyInvalidRequest, err)
	}
	view := render.BuildView(data)
	if view.FullName == "" {
		return render.View{}, apperr.Validation(i18n.KeyMissingField, "fullName")
	}
	return view, nil
}
