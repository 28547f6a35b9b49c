package collector

import (
	"fmt"
	"net/http"
	"net/url"

	dto "github.com/dropDatabas3/collector/internal/http/dto/collector"
	httperrors "github.com/dropDatabas3/collector/internal/http/errors"
	"github.com/dropDatabas3/collector/internal/http/helpers"
	svc "github.com/dropDatabas3/collector/internal/http/services/collector"
	"github.com/dropDatabas3/collector/internal/observability/logger"
)

const maxFormBytes = 64 << 10

// RegistrationController maneja POST del formulario de alta de aplicaciones.
type RegistrationController struct {
	service *svc.Registration
}

// NewRegistrationController crea el controller de registro.
func NewRegistrationController(service *svc.Registration) *RegistrationController {
	return &RegistrationController{service: service}
}

// Register maneja POST / con appName y appUrls.
// Éxito: alerta + redirect a ?application=NAME (o JSON si Accept lo pide).
// Error de validación o de nodo: mensaje inline, el registro no cambia.
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("RegistrationController.Register"),
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		c.fail(w, r, "", httperrors.ErrBadRequest.WithDetail("invalid form").WithCause(err))
		return
	}
	req := dto.RegisterRequest{
		AppName: r.PostFormValue("appName"),
		AppURLs: r.PostFormValue("appUrls"),
	}

	app, err := c.service.Register(ctx, req.AppName, req.AppURLs)
	if err != nil {
		log.Info("registration rejected", logger.Application(req.AppName), logger.Err(err))
		c.fail(w, r, req.AppName, err)
		return
	}

	msg := fmt.Sprintf("Application %s added", app.Name)
	if wantsJSON(r) {
		helpers.WriteJSON(w, http.StatusCreated, dto.RegisterResponse{
			Application: toApplicationItem(app, true),
			Message:     msg,
		})
		return
	}
	helpers.WriteAlertRedirect(w, msg, "?application="+url.QueryEscape(app.Name))
}

func (c *RegistrationController) fail(w http.ResponseWriter, r *http.Request, name string, err error) {
	if wantsJSON(r) {
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.Report{
		Application: name,
		Part:        "register",
		Nodes:       []string{},
		Message:     inlineMessage(err),
	})
}
