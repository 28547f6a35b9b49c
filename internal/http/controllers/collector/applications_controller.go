package collector

import (
	"net/http"

	dto "github.com/dropDatabas3/collector/internal/http/dto/collector"
	httperrors "github.com/dropDatabas3/collector/internal/http/errors"
	"github.com/dropDatabas3/collector/internal/http/helpers"
	"github.com/dropDatabas3/collector/internal/observability/logger"
	"github.com/dropDatabas3/collector/internal/registry"
	"github.com/dropDatabas3/collector/internal/runtimeinfo"
)

// ApplicationsController maneja GET /applications
type ApplicationsController struct {
	reg     registry.Repository
	runtime *runtimeinfo.Store
}

// NewApplicationsController crea el controller de listado.
func NewApplicationsController(reg registry.Repository, runtime *runtimeinfo.Store) *ApplicationsController {
	return &ApplicationsController{reg: reg, runtime: runtime}
}

// List devuelve las aplicaciones en orden de registro.
func (c *ApplicationsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	apps, err := c.reg.List(ctx)
	if err != nil {
		logger.From(ctx).Error("list applications failed",
			logger.Layer("controller"), logger.Op("ApplicationsController.List"), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}

	resp := dto.ApplicationList{Applications: make([]dto.ApplicationItem, 0, len(apps))}
	for _, a := range apps {
		resp.Applications = append(resp.Applications, toApplicationItem(a, c.runtime.Has(ctx, a.Name)))
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

func toApplicationItem(a registry.Application, available bool) dto.ApplicationItem {
	return dto.ApplicationItem{Name: a.Name, Nodes: a.NodeStrings(), DataAvailable: available}
}
