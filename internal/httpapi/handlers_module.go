package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/modline/modtrack/internal/domain"
)

type createModuleRequest struct {
	Tag     string `json:"tag" binding:"required,max=32"`
	Type    string `json:"type"`
	Status  string `json:"status"`
	Station string `json:"station"`
}

type moduleStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type qcRequest struct {
	Inspection  string  `json:"inspection" binding:"required"`
	Result      string  `json:"result" binding:"required,oneof=Pass Fail Conditional pass fail conditional"`
	Inspector   string  `json:"inspector"`
	Notes       string  `json:"notes"`
	InspectedAt *string `json:"inspected_at" binding:"omitempty,datetime=2006-01-02"`
}

func (a *api) registerModules(g *gin.RouterGroup) {
	g.GET("/projects/:id/modules", a.listModules)
	g.POST("/projects/:id/modules", a.createModule)
	g.PATCH("/modules/:moduleID/status", a.updateModuleStatus)
	g.POST("/modules/:moduleID/qc", a.recordQC)
	g.GET("/modules/:moduleID/qc", a.listQC)
}

func (a *api) listModules(c *gin.Context) {
	p, ok := a.project(c)
	if !ok {
		return
	}
	mods, err := a.svc.Modules.ListByProject(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]moduleDTO, 0, len(mods))
	for _, m := range mods {
		out = append(out, toModuleDTO(m))
	}
	c.JSON(http.StatusOK, out)
}

func (a *api) createModule(c *gin.Context) {
	var req createModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, ok := a.project(c)
	if !ok {
		return
	}
	m := &domain.Module{
		ProjectID: p.ID,
		Tag:       req.Tag,
		Type:      strings.TrimSpace(req.Type),
		Status:    domain.ModuleStatus(req.Status),
		Station:   strings.TrimSpace(req.Station),
	}
	if err := a.svc.Modules.Create(c.Request.Context(), m); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toModuleDTO(m))
}

func (a *api) updateModuleStatus(c *gin.Context) {
	var req moduleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	m, err := a.svc.Modules.UpdateStatus(c.Request.Context(), c.Param("moduleID"), domain.ModuleStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toModuleDTO(m))
}

func (a *api) recordQC(c *gin.Context) {
	var req qcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	r := &domain.QCRecord{
		ModuleID:   c.Param("moduleID"),
		Inspection: req.Inspection,
		Result:     domain.QCResult(req.Result),
		Inspector:  strings.TrimSpace(req.Inspector),
		Notes:      req.Notes,
	}
	at, err := parseDate("inspected_at", req.InspectedAt)
	if err != nil {
		respondError(c, err)
		return
	}
	if at != nil {
		r.InspectedAt = *at
	}
	if err := a.svc.QC.Record(c.Request.Context(), r); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toQCDTO(r))
}

func (a *api) listQC(c *gin.Context) {
	records, err := a.svc.QC.ListByModule(c.Request.Context(), c.Param("moduleID"))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]qcDTO, 0, len(records))
	for _, r := range records {
		out = append(out, toQCDTO(r))
	}
	c.JSON(http.StatusOK, out)
}
