package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modline/modtrack/internal/app"
)

func (a *api) registerDashboard(g *gin.RouterGroup) {
	g.GET("/projects/:id/dashboard", a.dashboard)
	g.GET("/projects/:id/health", a.health)
	g.GET("/projects/:id/attention", a.attention)
	g.GET("/projects/:id/calendar", a.calendar)
	g.GET("/portfolio", a.portfolio)
	g.GET("/my-work", a.myWork)
}

func (a *api) loadDashboard(c *gin.Context) (*app.ProjectDashboard, bool) {
	p, ok := a.project(c)
	if !ok {
		return nil, false
	}
	d, err := a.svc.Dashboard.GetProjectDashboard(c.Request.Context(), p.ID, a.now())
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return d, true
}

func (a *api) dashboard(c *gin.Context) {
	if d, ok := a.loadDashboard(c); ok {
		c.JSON(http.StatusOK, toDashboardDTO(d))
	}
}

func (a *api) health(c *gin.Context) {
	if d, ok := a.loadDashboard(c); ok {
		c.JSON(http.StatusOK, toHealthDTO(d.Health))
	}
}

func (a *api) attention(c *gin.Context) {
	if d, ok := a.loadDashboard(c); ok {
		c.JSON(http.StatusOK, toAttentionDTOs(d.Attention))
	}
}

func (a *api) calendar(c *gin.Context) {
	p, ok := a.project(c)
	if !ok {
		return
	}
	now := a.now()
	req := app.CalendarRequest{
		ProjectID:       p.ID,
		View:            app.CalendarView(c.DefaultQuery("view", string(app.CalendarWeek))),
		Ref:             now,
		IncludeWeekends: queryBool(c, "weekends"),
		Now:             now,
	}
	if s := c.Query("date"); s != "" {
		ref, err := parseDate("date", &s)
		if err != nil {
			respondError(c, err)
			return
		}
		req.Ref = *ref
	}
	resp, err := a.svc.Dashboard.GetCalendar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCalendarDTO(resp))
}

func (a *api) portfolio(c *gin.Context) {
	p, err := a.svc.Dashboard.GetPortfolio(c.Request.Context(), a.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPortfolioDTO(p))
}

func (a *api) myWork(c *gin.Context) {
	m, err := a.svc.Dashboard.GetMyWork(c.Request.Context(), c.Query("assignee"), a.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMyWorkDTO(m))
}
