package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores del motor de reconciliación, expuestos en /metrics.
var (
	// ReconcileAttempts intentos de transacción por operación (submit, delete, complete).
	ReconcileAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reconcile_attempts_total",
		Help: "Intentos de transacción de reconciliación por operación.",
	}, []string{"op"})

	// ReconcileConflicts reintentos por fallo de serialización o deadlock.
	ReconcileConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reconcile_conflicts_total",
		Help: "Conflictos de concurrencia detectados durante la reconciliación.",
	})

	// InsufficientStock rechazos por stock insuficiente.
	InsufficientStock = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reconcile_insufficient_stock_total",
		Help: "Operaciones rechazadas por stock insuficiente.",
	})

	// RestorationGaps repuestos que no pudieron restaurarse al borrar una
	// orden porque ya no existen. Señal para reconciliación manual.
	RestorationGaps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reconcile_restoration_gaps_total",
		Help: "Restauraciones de stock omitidas al borrar órdenes (repuesto inexistente).",
	})
)
