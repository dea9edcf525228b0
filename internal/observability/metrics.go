package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_calls_total",
			Help: "Total de chamadas de ferramenta, por ferramenta",
		},
		[]string{"tool"},
	)

	StockUnavailableTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stock_unavailable_total",
			Help: "Consultas de estoque que terminaram em indisponível",
		},
	)

	OrdersFinalizedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_finalized_total",
			Help: "Pedidos finalizados",
		},
	)

	OrdersRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_rejected_total",
			Help: "Tentativas de finalização bloqueadas, por motivo",
		},
		[]string{"reason"},
	)

	LLMRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "Duração das chamadas ao modelo",
			Buckets: prometheus.DefBuckets,
		},
	)

	CatalogProductsImported = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_products_imported_total",
			Help: "Produtos gravados pelo importador de catálogo",
		},
	)
)

var registerOnce sync.Once

// Register registra as métricas no registry padrão. Pode ser chamada mais
// de uma vez.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ToolCallsTotal,
			StockUnavailableTotal,
			OrdersFinalizedTotal,
			OrdersRejectedTotal,
			LLMRequestDuration,
			CatalogProductsImported,
		)
	})
}

func Start(port string) {
	Register()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(":"+port, mux)
}
