package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/modline/modtrack/internal/app"
	"github.com/modline/modtrack/internal/domain"
)

type markerRequest struct {
	X        *float64 `json:"x" binding:"required,gte=0,lte=1"`
	Y        *float64 `json:"y" binding:"required,gte=0,lte=1"`
	Label    string   `json:"label" binding:"max=120"`
	ItemKind string   `json:"item_kind"`
	ItemID   string   `json:"item_id"`
}

func (a *api) registerFloorPlans(g *gin.RouterGroup) {
	g.GET("/projects/:id/floor-plans", a.listFloorPlans)
	g.POST("/projects/:id/floor-plans", a.uploadFloorPlan)
	g.DELETE("/floor-plans/:planID", a.deactivateFloorPlan)
	g.GET("/floor-plans/:planID/markers", a.listMarkers)
	g.POST("/floor-plans/:planID/markers", a.addMarker)
	g.DELETE("/markers/:markerID", a.removeMarker)
}

func (a *api) listFloorPlans(c *gin.Context) {
	p, ok := a.project(c)
	if !ok {
		return
	}
	plans, err := a.svc.FloorPlans.List(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]floorPlanDTO, 0, len(plans))
	for _, f := range plans {
		out = append(out, toFloorPlanDTO(f))
	}
	c.JSON(http.StatusOK, out)
}

func (a *api) uploadFloorPlan(c *gin.Context) {
	if a.maxBody > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, a.maxBody)
	}
	p, ok := a.project(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, &domain.ValidationError{Field: "file", Message: "is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, err)
		return
	}
	defer f.Close()

	plan, err := a.svc.FloorPlans.Upload(c.Request.Context(), p.ID, c.PostForm("name"), c.PostForm("level"), app.FileUpload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      f,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFloorPlanDTO(plan))
}

func (a *api) deactivateFloorPlan(c *gin.Context) {
	if err := a.svc.FloorPlans.Deactivate(c.Request.Context(), c.Param("planID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *api) listMarkers(c *gin.Context) {
	markers, err := a.svc.FloorPlans.ListMarkers(c.Request.Context(), c.Param("planID"))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]markerDTO, 0, len(markers))
	for _, m := range markers {
		out = append(out, toMarkerDTO(m))
	}
	c.JSON(http.StatusOK, out)
}

func (a *api) addMarker(c *gin.Context) {
	var req markerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	m := &domain.Marker{
		FloorPlanID: c.Param("planID"),
		X:           *req.X,
		Y:           *req.Y,
		Label:       strings.TrimSpace(req.Label),
		ItemKind:    domain.ItemKind(req.ItemKind),
		ItemID:      strings.TrimSpace(req.ItemID),
	}
	if err := a.svc.FloorPlans.AddMarker(c.Request.Context(), m); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toMarkerDTO(m))
}

func (a *api) removeMarker(c *gin.Context) {
	if err := a.svc.FloorPlans.RemoveMarker(c.Request.Context(), c.Param("markerID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
