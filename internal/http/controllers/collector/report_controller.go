package collector

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"go.uber.org/zap"

	domain "github.com/dropDatabas3/collector/internal/collector"
	dto "github.com/dropDatabas3/collector/internal/http/dto/collector"
	httperrors "github.com/dropDatabas3/collector/internal/http/errors"
	"github.com/dropDatabas3/collector/internal/http/helpers"
	svc "github.com/dropDatabas3/collector/internal/http/services/collector"
	"github.com/dropDatabas3/collector/internal/observability/logger"
	"github.com/dropDatabas3/collector/internal/registry"
	"github.com/dropDatabas3/collector/internal/runtimeinfo"
)

// ReportController maneja GET /: selección de aplicación, acción opcional y reporte.
type ReportController struct {
	selector   *svc.Selector
	aggregator *svc.Aggregator
	forwarder  *svc.Forwarder
	runtime    *runtimeinfo.Store
	counters   *domain.Counters

	cookieName string
	basePath   string
}

// NewReportController crea el controller de reportes.
func NewReportController(s svc.Services, deps ControllerDeps) *ReportController {
	return &ReportController{
		selector:   s.Selector,
		aggregator: s.Aggregator,
		forwarder:  s.Forwarder,
		runtime:    deps.Runtime,
		counters:   deps.Counters,
		cookieName: deps.CookieName,
		basePath:   deps.BasePath,
	}
}

// Report maneja GET / con los parámetros application, part, action, sessionId, period y counter.
func (c *ReportController) Report(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("ReportController.Report"),
	)
	q := r.URL.Query()

	tokens := helpers.NewCookieTokenStore(w, r, c.cookieName, c.basePath)
	app, ok, err := c.selector.Select(ctx, strings.TrimSpace(q.Get("application")), tokens)
	if err != nil {
		log.Error("application selection failed", logger.Err(err))
		httperrors.WritePlain(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}
	if !ok {
		writeAddApplicationPage(w, "")
		return
	}
	log = log.With(logger.Application(app.Name))
	c.counters.Inc(app.Name, domain.CounterRequests)

	if !c.runtime.Has(ctx, app.Name) {
		httperrors.WritePlain(w, httperrors.ErrDataUnavailable.WithDetail(app.Name))
		return
	}

	target := svc.Target{Application: app.Name, Nodes: app.Nodes}
	part := domain.ParsePart(q.Get("part"))
	report := dto.Report{
		Application: app.Name,
		Part:        part.String(),
		Period:      q.Get(domain.ParamPeriod),
		Nodes:       app.NodeStrings(),
	}

	if raw := strings.TrimSpace(q.Get(domain.ParamAction)); raw != "" {
		msg, removed := c.runAction(r, log, target, raw)
		if removed {
			tokens.Clear()
			if wantsJSON(r) {
				helpers.WriteJSON(w, http.StatusOK, dto.Report{Application: app.Name, Part: "action", Nodes: []string{}, Message: msg})
				return
			}
			helpers.WriteAlertRedirect(w, msg, "?")
			return
		}
		report.Message = msg
		// tras una acción el resultado se muestra en el sobre JSON, nunca en un stream
		if part == domain.PartCurrentRequests || part.IsRawConfig() {
			part = domain.PartDefault
			report.Part = part.String()
		}
	}

	switch {
	case part == domain.PartCurrentRequests:
		c.stream(w, log, &report, func(out *helpers.StreamWriter) error {
			return c.aggregator.CurrentRequests(ctx, target, report.Period, out)
		}, "text/html; charset=utf-8")
		return
	case part.IsRawConfig():
		c.stream(w, log, &report, func(out *helpers.StreamWriter) error {
			return c.aggregator.RawConfig(ctx, target, part, out)
		}, "text/xml; charset=utf-8")
		return
	}

	if err := c.fill(r, target, app, part, &report); err != nil {
		log.Warn("report failed", logger.Part(part.String()), logger.Err(err))
		report.Message = joinMessages(report.Message, inlineMessage(err))
	}
	helpers.WriteJSON(w, http.StatusOK, report)
}

// runAction ejecuta la acción pedida y devuelve el mensaje a mostrar.
func (c *ReportController) runAction(r *http.Request, log *zap.Logger, t svc.Target, raw string) (string, bool) {
	q := r.URL.Query()
	action, err := domain.ParseAction(raw)
	if err != nil {
		return httperrors.ErrUnknownAction.WithDetail(raw).Text(), false
	}
	out, err := c.forwarder.Execute(r.Context(), t, svc.ActionRequest{
		Action:    action,
		SessionID: strings.TrimSpace(q.Get(domain.ParamSessionID)),
		Counter:   strings.TrimSpace(q.Get(domain.ParamCounter)),
	})
	if err != nil {
		log.Warn("action failed", logger.Action(action.String()), logger.Err(err))
		return inlineMessage(err), false
	}
	return out.Message, out.Removed
}

// fill completa report con la parte JSON pedida.
func (c *ReportController) fill(r *http.Request, t svc.Target, app registry.Application, part domain.Part, report *dto.Report) error {
	ctx := r.Context()
	switch part {
	case domain.PartSessions:
		if id := strings.TrimSpace(r.URL.Query().Get(domain.ParamSessionID)); id != "" {
			res, err := c.aggregator.Session(ctx, t, id)
			if err != nil {
				return err
			}
			report.Session = &dto.SessionLookup{ID: id, Found: res.Found, Session: res.Session}
			return nil
		}
		sessions, err := c.aggregator.Sessions(ctx, t)
		if err != nil {
			return err
		}
		report.Sessions = sessions
	case domain.PartHeapHistogram:
		h, err := c.aggregator.HeapHistogram(ctx, t)
		if err != nil {
			return err
		}
		report.HeapHistogram = h
	case domain.PartProcesses:
		p, err := c.aggregator.Processes(ctx, t)
		if err != nil {
			return err
		}
		report.Processes = p
	default:
		infos, ok, err := c.runtime.Get(ctx, app.Name)
		if err != nil {
			return err
		}
		if !ok {
			return httperrors.ErrDataUnavailable.WithDetail(app.Name)
		}
		report.Runtime = infos
		report.Counters = c.counters.Snapshot(app.Name)
	}
	return nil
}

// stream envía una parte en streaming. Si falla antes de enviar bytes
// responde el sobre JSON con el mensaje; si ya empezó, agrega el error al HTML.
func (c *ReportController) stream(w http.ResponseWriter, log *zap.Logger, report *dto.Report, run func(*helpers.StreamWriter) error, contentType string) {
	w.Header().Set("Content-Type", contentType)
	out := helpers.NewStreamWriter(w)
	err := run(out)
	if err == nil {
		return
	}
	log.Warn("stream failed", logger.Part(report.Part), logger.Bool("started", out.Started()), logger.Err(err))
	if !out.Started() {
		out.Discard()
		report.Message = joinMessages(report.Message, inlineMessage(err))
		helpers.WriteJSON(w, http.StatusOK, report)
		return
	}
	_, _ = fmt.Fprintf(out, "\n<div class='error'>%s</div>\n", html.EscapeString(inlineMessage(err)))
	_ = out.Flush()
}

func joinMessages(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + "\n" + b
}
