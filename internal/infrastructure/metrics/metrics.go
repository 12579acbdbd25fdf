// Package metrics expone contadores Prometheus del flujo de aprobación.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Muestras-api/internal/application/inventory"
	"github.com/jhoicas/Muestras-api/internal/domain/entity"
)

var _ inventory.Observer = (*Workflow)(nil)

// Workflow implementa inventory.Observer sobre un registro propio (no el global).
type Workflow struct {
	registry *prometheus.Registry
	actions  *prometheus.CounterVec
	postings *prometheus.CounterVec
}

// NewWorkflow registra los contadores del flujo y los collectors de proceso y runtime.
func NewWorkflow(namespace string) *Workflow {
	reg := prometheus.NewRegistry()
	w := &Workflow{
		registry: reg,
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_actions_total",
			Help:      "Acciones sobre documentos por acción y resultado.",
		}, []string{"action", "outcome"}),
		postings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_transactions_total",
			Help:      "Asientos escritos en el libro por tipo de documento.",
		}, []string{"type"}),
	}
	reg.MustRegister(
		w.actions,
		w.postings,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return w
}

// ObserveAction cuenta una acción con su resultado (ok, validation_failed, ...).
func (w *Workflow) ObserveAction(action, outcome string) {
	w.actions.WithLabelValues(action, outcome).Inc()
}

// ObservePosting suma los asientos generados por una aprobación.
func (w *Workflow) ObservePosting(docType entity.DocumentType, lines int) {
	w.postings.WithLabelValues(string(docType)).Add(float64(lines))
}

// Registry registro subyacente (tests y collectors adicionales).
func (w *Workflow) Registry() *prometheus.Registry {
	return w.registry
}

// Handler endpoint HTTP de exposición (formato texto de Prometheus).
func (w *Workflow) Handler() http.Handler {
	return promhttp.HandlerFor(w.registry, promhttp.HandlerOpts{})
}
