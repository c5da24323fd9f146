package httpapi

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/modline/modtrack/internal/app"
	"github.com/modline/modtrack/internal/domain"
	"github.com/modline/modtrack/internal/insight"
)

// createItemRequest binds from JSON or from the fields of a multipart form.
type createItemRequest struct {
	Title            string  `json:"title" form:"title" binding:"required,max=300"`
	Description      string  `json:"description" form:"description"`
	Status           string  `json:"status" form:"status"`
	Priority         string  `json:"priority" form:"priority"`
	DueDate          *string `json:"due_date" form:"due_date" binding:"omitempty,datetime=2006-01-02"`
	AssigneeID       string  `json:"assignee_id" form:"assignee_id"`
	Question         string  `json:"question" form:"question"`
	Answer           string  `json:"answer" form:"answer"`
	SpecSection      string  `json:"spec_section" form:"spec_section"`
	Revision         int     `json:"revision" form:"revision" binding:"gte=0"`
	RecipientKind    string  `json:"recipient_kind" form:"recipient_kind" binding:"omitempty,oneof=external internal"`
	RecipientEmail   string  `json:"recipient_email" form:"recipient_email"`
	RecipientName    string  `json:"recipient_name" form:"recipient_name"`
	RecipientOwnerID string  `json:"recipient_owner_id" form:"recipient_owner_id"`
	UploadedBy       string  `json:"uploaded_by" form:"uploaded_by"`
}

type updateItemRequest struct {
	Title            *string `json:"title" binding:"omitempty,max=300"`
	Description      *string `json:"description"`
	Status           *string `json:"status"`
	Priority         *string `json:"priority"`
	DueDate          *string `json:"due_date"`
	AssigneeID       *string `json:"assignee_id"`
	Question         *string `json:"question"`
	Answer           *string `json:"answer"`
	SpecSection      *string `json:"spec_section"`
	Revision         *int    `json:"revision" binding:"omitempty,gte=0"`
	RecipientKind    *string `json:"recipient_kind" binding:"omitempty,oneof=external internal"`
	RecipientEmail   *string `json:"recipient_email"`
	RecipientName    *string `json:"recipient_name"`
	RecipientOwnerID *string `json:"recipient_owner_id"`
}

type moveRequest struct {
	Status string `json:"status" binding:"required"`
}

type createItemResponse struct {
	Item    itemDTO         `json:"item"`
	Uploads uploadResultDTO `json:"uploads"`
}

func (a *api) registerItems(g *gin.RouterGroup) {
	g.GET("/projects/:id/items/:kind", a.listItems)
	g.POST("/projects/:id/items/:kind", a.createItem)
	g.GET("/items/:kind/:itemID", a.getItem)
	g.PATCH("/items/:kind/:itemID", a.updateItem)
	g.DELETE("/items/:kind/:itemID", a.deleteItem)
	g.POST("/items/:kind/:itemID/move", a.moveItem)
}

func itemKind(c *gin.Context) (domain.ItemKind, bool) {
	kind, err := domain.ParseItemKind(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return kind, true
}

func (a *api) listItems(c *gin.Context) {
	kind, ok := itemKind(c)
	if !ok {
		return
	}
	p, ok := a.project(c)
	if !ok {
		return
	}
	sortKey, err := insight.ParseSortKey(c.Query("sort"))
	if err != nil {
		respondError(c, err)
		return
	}
	filter := insight.ItemFilter{
		Status:      domain.WorkItemStatus(c.Query("status")),
		AssigneeID:  c.Query("assignee"),
		Query:       c.Query("q"),
		OverdueOnly: queryBool(c, "overdue"),
		OpenOnly:    queryBool(c, "open"),
	}
	if s := c.Query("priority"); s != "" {
		if filter.Priority, err = domain.ParsePriority(s); err != nil {
			respondError(c, err)
			return
		}
	}

	items, err := a.svc.WorkItems.List(c.Request.Context(), p.ID, kind, filter, sortKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemDTOs(items))
}

// createItem accepts a JSON body, or a multipart form whose files[] parts
// are attached to the new item.
func (a *api) createItem(c *gin.Context) {
	kind, ok := itemKind(c)
	if !ok {
		return
	}
	if a.maxBody > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, a.maxBody)
	}
	var req createItemRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, ok := a.project(c)
	if !ok {
		return
	}

	w := &domain.WorkItem{
		Kind:        kind,
		ProjectID:   p.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.WorkItemStatus(req.Status),
		Priority:    domain.Priority(req.Priority),
		AssigneeID:  strings.TrimSpace(req.AssigneeID),
		Question:    req.Question,
		Answer:      req.Answer,
		SpecSection: req.SpecSection,
		Revision:    req.Revision,
	}
	var err error
	if w.DueDate, err = parseDate("due_date", req.DueDate); err != nil {
		respondError(c, err)
		return
	}
	if w.Recipient, err = recipientFrom(req.RecipientKind, req.RecipientEmail, req.RecipientName, req.RecipientOwnerID); err != nil {
		respondError(c, err)
		return
	}

	files, closeFiles, err := formFiles(c, "files", "files[]")
	if err != nil {
		badRequest(c, err)
		return
	}
	defer closeFiles()

	result, err := a.svc.WorkItems.CreateWithAttachments(c.Request.Context(), w, files, req.UploadedBy)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createItemResponse{
		Item:    toItemDTO(result.Item),
		Uploads: toUploadResultDTO(result.Uploads),
	})
}

func (a *api) getItem(c *gin.Context) {
	kind, ok := itemKind(c)
	if !ok {
		return
	}
	w, err := a.svc.WorkItems.GetByID(c.Request.Context(), kind, c.Param("itemID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemDTO(w))
}

func (a *api) updateItem(c *gin.Context) {
	kind, ok := itemKind(c)
	if !ok {
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	w, err := a.svc.WorkItems.GetByID(c.Request.Context(), kind, c.Param("itemID"))
	if err != nil {
		respondError(c, err)
		return
	}

	setString(&w.Title, req.Title)
	setString(&w.Description, req.Description)
	setString(&w.AssigneeID, req.AssigneeID)
	setString(&w.Question, req.Question)
	setString(&w.Answer, req.Answer)
	setString(&w.SpecSection, req.SpecSection)
	if req.Status != nil {
		w.Status = domain.WorkItemStatus(*req.Status)
	}
	if req.Priority != nil {
		w.Priority = domain.Priority(*req.Priority)
	}
	if req.Revision != nil {
		w.Revision = *req.Revision
	}
	if req.DueDate != nil {
		if w.DueDate, err = parseDate("due_date", req.DueDate); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.RecipientKind != nil || req.RecipientEmail != nil || req.RecipientName != nil || req.RecipientOwnerID != nil {
		r := domain.Flatten(w.Recipient)
		setString(&r.Kind, req.RecipientKind)
		setString(&r.Email, req.RecipientEmail)
		setString(&r.Name, req.RecipientName)
		setString(&r.OwnerID, req.RecipientOwnerID)
		if w.Recipient, err = recipientFrom(r.Kind, r.Email, r.Name, r.OwnerID); err != nil {
			respondError(c, err)
			return
		}
	}

	if err := a.svc.WorkItems.Update(c.Request.Context(), w); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemDTO(w))
}

func (a *api) deleteItem(c *gin.Context) {
	kind, ok := itemKind(c)
	if !ok {
		return
	}
	if err := a.svc.WorkItems.Delete(c.Request.Context(), kind, c.Param("itemID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// moveItem is the Kanban drop: it changes only the status.
func (a *api) moveItem(c *gin.Context) {
	kind, ok := itemKind(c)
	if !ok {
		return
	}
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	w, err := a.svc.WorkItems.UpdateStatus(c.Request.Context(), kind, c.Param("itemID"), domain.WorkItemStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemDTO(w))
}

// recipientFrom builds the recipient union from its flattened form. An
// email without a kind means an external recipient.
func recipientFrom(kind, email, name, ownerID string) (domain.Recipient, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	email = strings.TrimSpace(email)
	ownerID = strings.TrimSpace(ownerID)
	if kind == "" {
		switch {
		case email != "":
			kind = string(domain.RecipientExternal)
		case ownerID != "":
			kind = string(domain.RecipientInternal)
		default:
			return nil, nil
		}
	}
	r := domain.RecipientFields{Kind: kind, Email: email, Name: strings.TrimSpace(name), OwnerID: ownerID}.Unflatten()
	if r == nil {
		return nil, &domain.ValidationError{Field: "recipient_kind", Message: "must be external or internal"}
	}
	return r, nil
}

// formFiles opens every file part under the given field names. Non-multipart
// requests yield no files. The returned func closes what was opened.
func formFiles(c *gin.Context, fields ...string) ([]app.FileUpload, func(), error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, func() {}, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, func() {}, err
	}

	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	var files []app.FileUpload
	for _, field := range fields {
		for _, fh := range form.File[field] {
			f, err := fh.Open()
			if err != nil {
				closeAll()
				return nil, func() {}, err
			}
			opened = append(opened, f)
			files = append(files, app.FileUpload{
				Name:        fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Reader:      f,
			})
		}
	}
	return files, closeAll, nil
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}
