package web

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/shopadmin/internal/dashboard"
	"github.com/yourusername/shopadmin/pkg/catalog"
)

const dashboardPath = "/admin"

type storefrontData struct {
	Products []catalog.Product
}

type filterOption struct {
	Value   string
	Checked bool
}

type editField struct {
	Name      string
	Label     string
	Value     string
	Multiline bool
}

type dashboardData struct {
	View       dashboard.ViewModel
	Categories []filterOption
	Sizes      []filterOption
	EditFields []editField
}

var fieldLabels = map[string]string{
	dashboard.FieldName:        "Name",
	dashboard.FieldPrice:       "Price",
	dashboard.FieldDescription: "Description",
	dashboard.FieldCategory:    "Category",
	dashboard.FieldOffer:       "Offer",
	dashboard.FieldImage:       "Image",
	dashboard.FieldImageOne:    "Image 1",
	dashboard.FieldImageTwo:    "Image 2",
	dashboard.FieldSizes:       "Sizes (size,stock per line)",
}

func (s *Server) storefrontPage(c *gin.Context) {
	sess := sessionOf(c)
	sess.storefront.Mount(c.Request.Context())
	c.HTML(http.StatusOK, "storefront.html", storefrontData{Products: sess.storefront.Products()})
}

func (s *Server) dashboardPage(c *gin.Context) {
	sess := sessionOf(c)
	sess.mountOnce.Do(func() {
		_ = sess.controller.Mount(c.Request.Context())
	})
	c.HTML(http.StatusOK, "dashboard.html", buildDashboardData(sess.controller.View()))
}

func (s *Server) refresh(c *gin.Context) {
	_ = sessionOf(c).controller.Refresh(c.Request.Context())
	backToDashboard(c)
}

// changePage accepts a page number or "next"/"prev".
func (s *Server) changePage(c *gin.Context) {
	ctrl := sessionOf(c).controller
	ctx := c.Request.Context()

	switch raw := strings.TrimSpace(c.PostForm("page")); raw {
	case "next":
		ctrl.NextPage(ctx)
	case "prev":
		ctrl.PrevPage(ctx)
	default:
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.String(http.StatusBadRequest, "invalid page")
			return
		}
		ctrl.GoToPage(ctx, n)
	}
	backToDashboard(c)
}

func (s *Server) setFilters(c *gin.Context) {
	f := catalog.Filter{
		Categories: c.PostFormArray(catalog.ParamCategory),
		Sizes:      c.PostFormArray(catalog.ParamSize),
	}
	sessionOf(c).controller.SetFilters(c.Request.Context(), f)
	backToDashboard(c)
}

func (s *Server) requestDelete(c *gin.Context) {
	sessionOf(c).controller.RequestDelete(c.Param("id"))
	backToDashboard(c)
}

func (s *Server) confirmDelete(c *gin.Context) {
	_ = sessionOf(c).controller.ConfirmDelete(c.Request.Context())
	backToDashboard(c)
}

func (s *Server) cancelDelete(c *gin.Context) {
	sessionOf(c).controller.CancelDelete()
	backToDashboard(c)
}

func (s *Server) startEdit(c *gin.Context) {
	if err := sessionOf(c).controller.StartEditByID(c.Param("id")); err != nil {
		s.logger.Warn("cannot start edit", zap.String("id", c.Param("id")), zap.Error(err))
	}
	backToDashboard(c)
}

// saveEdit copies every posted field into the edit buffer, then submits.
// Failures are logged by the controller and leave the form open.
func (s *Server) saveEdit(c *gin.Context) {
	ctrl := sessionOf(c).controller
	for _, name := range dashboard.EditFields {
		value, ok := c.GetPostForm(name)
		if !ok {
			continue
		}
		if err := ctrl.UpdateEditField(name, value); err != nil {
			s.logger.Warn("rejected edit field", zap.String("field", name), zap.Error(err))
			backToDashboard(c)
			return
		}
	}
	_ = ctrl.SubmitEdit(c.Request.Context(), c.Param("id"))
	backToDashboard(c)
}

func (s *Server) cancelEdit(c *gin.Context) {
	sessionOf(c).controller.CancelEdit()
	backToDashboard(c)
}

func backToDashboard(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

func buildDashboardData(v dashboard.ViewModel) dashboardData {
	categories := map[string]struct{}{}
	sizes := map[string]struct{}{}
	for _, row := range v.Rows {
		if row.Product.Category != "" {
			categories[row.Product.Category] = struct{}{}
		}
		for _, sz := range row.Product.Sizes {
			if sz.Size != "" {
				sizes[sz.Size] = struct{}{}
			}
		}
	}

	data := dashboardData{
		View:       v,
		Categories: options(categories, v.Filter.Categories),
		Sizes:      options(sizes, v.Filter.Sizes),
	}
	if v.Edit != nil {
		for _, name := range dashboard.EditFields {
			value, _ := v.Edit.Field(name)
			data.EditFields = append(data.EditFields, editField{
				Name:      name,
				Label:     fieldLabels[name],
				Value:     value,
				Multiline: name == dashboard.FieldSizes || name == dashboard.FieldDescription,
			})
		}
	}
	return data
}

// options lists seen values plus the selected ones, sorted, marking the
// selected values as checked.
func options(seen map[string]struct{}, selected []string) []filterOption {
	checked := make(map[string]bool, len(selected))
	for _, v := range selected {
		checked[v] = true
		seen[v] = struct{}{}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)

	out := make([]filterOption, 0, len(values))
	for _, v := range values {
		out = append(out, filterOption{Value: v, Checked: checked[v]})
	}
	return out
}
