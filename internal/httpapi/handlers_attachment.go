package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modline/modtrack/internal/domain"
)

type uploadAttachmentsForm struct {
	Kind       string `form:"kind"`
	Item       string `form:"item"`
	UploadedBy string `form:"uploaded_by"`
}

func (a *api) registerAttachments(g *gin.RouterGroup) {
	g.GET("/projects/:id/attachments", a.listAttachments)
	g.POST("/projects/:id/attachments", a.uploadAttachments)
	g.DELETE("/attachments/:attachmentID", a.deleteAttachment)
}

func attachmentTarget(kind, item string) (domain.AttachmentTarget, error) {
	if kind == "" && item == "" {
		return domain.AttachmentTarget{}, nil
	}
	k, err := domain.ParseItemKind(kind)
	if err != nil {
		return domain.AttachmentTarget{}, err
	}
	t := domain.AttachmentTarget{Kind: k, ID: item}
	return t, t.Validate()
}

func (a *api) listAttachments(c *gin.Context) {
	p, ok := a.project(c)
	if !ok {
		return
	}
	var (
		out []*domain.Attachment
		err error
	)
	if c.Query("kind") == "" && c.Query("item") == "" {
		out, err = a.svc.Attachments.ListByProject(c.Request.Context(), p.ID)
	} else {
		var target domain.AttachmentTarget
		if target, err = attachmentTarget(c.Query("kind"), c.Query("item")); err == nil {
			out, err = a.svc.Attachments.ListByTarget(c.Request.Context(), p.ID, target)
		}
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAttachmentDTOs(out))
}

// uploadAttachments stores every files[] part. Individual failures come back
// in the failed list; the request itself still succeeds.
func (a *api) uploadAttachments(c *gin.Context) {
	if a.maxBody > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, a.maxBody)
	}
	var form uploadAttachmentsForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, err)
		return
	}
	p, ok := a.project(c)
	if !ok {
		return
	}
	target, err := attachmentTarget(form.Kind, form.Item)
	if err != nil {
		respondError(c, err)
		return
	}
	files, closeFiles, err := formFiles(c, "files", "files[]")
	if err != nil {
		badRequest(c, err)
		return
	}
	defer closeFiles()
	if len(files) == 0 {
		respondError(c, &domain.ValidationError{Field: "files", Message: "at least one file is required"})
		return
	}

	result, err := a.svc.Attachments.UploadMany(c.Request.Context(), p.ID, target, files, form.UploadedBy)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUploadResultDTO(*result))
}

func (a *api) deleteAttachment(c *gin.Context) {
	if err := a.svc.Attachments.Delete(c.Request.Context(), c.Param("attachmentID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
