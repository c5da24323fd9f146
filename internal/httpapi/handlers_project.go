package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modline/modtrack/internal/domain"
	"github.com/shopspring/decimal"
)

type createProjectRequest struct {
	Number            string  `json:"number" binding:"required,max=16"`
	Name              string  `json:"name" binding:"required,max=200"`
	Client            string  `json:"client"`
	Factory           string  `json:"factory"`
	Address           string  `json:"address"`
	Status            string  `json:"status"`
	StartDate         *string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	TargetOfflineDate *string `json:"target_offline_date" binding:"omitempty,datetime=2006-01-02"`
	DeliveryDate      *string `json:"delivery_date" binding:"omitempty,datetime=2006-01-02"`
	TargetOnlineDate  *string `json:"target_online_date" binding:"omitempty,datetime=2006-01-02"`
	ContractValue     string  `json:"contract_value"`
	ModuleCount       int     `json:"module_count" binding:"gte=0"`
	ProjectManagerID  string  `json:"project_manager_id"`
}

// updateProjectRequest is a PATCH body; nil fields are left alone. An empty
// date string clears the date.
type updateProjectRequest struct {
	Number            *string `json:"number" binding:"omitempty,max=16"`
	Name              *string `json:"name" binding:"omitempty,max=200"`
	Client            *string `json:"client"`
	Factory           *string `json:"factory"`
	Address           *string `json:"address"`
	Status            *string `json:"status"`
	StartDate         *string `json:"start_date"`
	TargetOfflineDate *string `json:"target_offline_date"`
	DeliveryDate      *string `json:"delivery_date"`
	TargetOnlineDate  *string `json:"target_online_date"`
	ContractValue     *string `json:"contract_value"`
	ModuleCount       *int    `json:"module_count" binding:"omitempty,gte=0"`
	ProjectManagerID  *string `json:"project_manager_id"`
}

func (a *api) registerProjects(g *gin.RouterGroup) {
	g.GET("/projects", a.listProjects)
	g.POST("/projects", a.createProject)
	g.GET("/projects/:id", a.getProject)
	g.PATCH("/projects/:id", a.updateProject)
	g.DELETE("/projects/:id", a.cancelProject)
}

// project resolves the :id parameter, which may be an id or a job number.
func (a *api) project(c *gin.Context) (*domain.Project, bool) {
	p, err := a.svc.Projects.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return p, true
}

func (a *api) listProjects(c *gin.Context) {
	var status domain.ProjectStatus
	if s := c.Query("status"); s != "" {
		parsed, err := domain.ParseProjectStatus(s)
		if err != nil {
			respondError(c, err)
			return
		}
		status = parsed
	}
	projects, err := a.svc.Projects.List(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]projectDTO, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectDTO(p))
	}
	c.JSON(http.StatusOK, out)
}

func (a *api) createProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p := &domain.Project{
		Number:           req.Number,
		Name:             req.Name,
		Client:           strings.TrimSpace(req.Client),
		Factory:          strings.TrimSpace(req.Factory),
		Address:          strings.TrimSpace(req.Address),
		Status:           domain.ProjectStatus(req.Status),
		ModuleCount:      req.ModuleCount,
		ProjectManagerID: req.ProjectManagerID,
	}
	var err error
	if p.ContractValue, err = parseMoney(req.ContractValue); err != nil {
		respondError(c, err)
		return
	}
	if err := applySchedule(p, req.StartDate, req.TargetOfflineDate, req.DeliveryDate, req.TargetOnlineDate); err != nil {
		respondError(c, err)
		return
	}
	if err := a.svc.Projects.Create(c.Request.Context(), p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProjectDTO(p))
}

func (a *api) getProject(c *gin.Context) {
	p, ok := a.project(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toProjectDTO(p))
}

func (a *api) updateProject(c *gin.Context) {
	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, ok := a.project(c)
	if !ok {
		return
	}

	setString(&p.Number, req.Number)
	setString(&p.Name, req.Name)
	setString(&p.Client, req.Client)
	setString(&p.Factory, req.Factory)
	setString(&p.Address, req.Address)
	setString(&p.ProjectManagerID, req.ProjectManagerID)
	if req.Status != nil {
		p.Status = domain.ProjectStatus(*req.Status)
	}
	if req.ModuleCount != nil {
		p.ModuleCount = *req.ModuleCount
	}
	if req.ContractValue != nil {
		v, err := parseMoney(*req.ContractValue)
		if err != nil {
			respondError(c, err)
			return
		}
		p.ContractValue = v
	}
	dates := []struct {
		field string
		in    *string
		dst   **time.Time
	}{
		{"start_date", req.StartDate, &p.StartDate},
		{"target_offline_date", req.TargetOfflineDate, &p.TargetOfflineDate},
		{"delivery_date", req.DeliveryDate, &p.DeliveryDate},
		{"target_online_date", req.TargetOnlineDate, &p.TargetOnlineDate},
	}
	for _, d := range dates {
		if d.in == nil {
			continue
		}
		t, err := parseDate(d.field, d.in)
		if err != nil {
			respondError(c, err)
			return
		}
		*d.dst = t
	}

	if err := a.svc.Projects.Update(c.Request.Context(), p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProjectDTO(p))
}

func (a *api) cancelProject(c *gin.Context) {
	p, ok := a.project(c)
	if !ok {
		return
	}
	if err := a.svc.Projects.Cancel(c.Request.Context(), p.ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func applySchedule(p *domain.Project, start, offline, delivery, online *string) error {
	var err error
	if p.StartDate, err = parseDate("start_date", start); err != nil {
		return err
	}
	if p.TargetOfflineDate, err = parseDate("target_offline_date", offline); err != nil {
		return err
	}
	if p.DeliveryDate, err = parseDate("delivery_date", delivery); err != nil {
		return err
	}
	if p.TargetOnlineDate, err = parseDate("target_online_date", online); err != nil {
		return err
	}
	return nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(s), "$"), ",", ""))
	if s == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &domain.ValidationError{Field: "contract_value", Message: "must be a number"}
	}
	return v, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
