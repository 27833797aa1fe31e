package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Reparaciones-api/internal/domain/reconcile"
)

// Tabla de convención de signos: delta = viejo - nuevo.
// Positivo devuelve al stock, negativo consume.
func TestComputeDeltas_ConvencionDeSignos(t *testing.T) {
	cases := []struct {
		name     string
		oldQ     int64
		newQ     int64
		expected int64
	}{
		{"crear consume", 0, 5, -5},
		{"borrar devuelve", 5, 0, 5},
		{"editar consume mas", 5, 8, -3},
		{"editar devuelve", 8, 5, 3},
		{"sin cambio", 5, 5, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			oldMap := map[string]int64{}
			newMap := map[string]int64{}
			if tc.oldQ > 0 {
				oldMap["A"] = tc.oldQ
			}
			if tc.newQ > 0 {
				newMap["A"] = tc.newQ
			}
			deltas := reconcile.ComputeDeltas(oldMap, newMap)
			require.Len(t, deltas, 1)
			assert.Equal(t, "A", deltas[0].StockID)
			assert.Equal(t, tc.expected, deltas[0].Delta)
		})
	}
}

func TestComputeDeltas_UnionDeClaves(t *testing.T) {
	oldMap := map[string]int64{"A": 5, "B": 2}
	newMap := map[string]int64{"B": 4, "C": 1}

	deltas := reconcile.ComputeDeltas(oldMap, newMap)

	require.Len(t, deltas, 3)
	// Salida ordenada por StockID: fija el orden de bloqueo de filas.
	assert.Equal(t, reconcile.Delta{StockID: "A", Delta: 5}, deltas[0])
	assert.Equal(t, reconcile.Delta{StockID: "B", Delta: -2}, deltas[1])
	assert.Equal(t, reconcile.Delta{StockID: "C", Delta: -1}, deltas[2])
}

func TestComputeDeltas_MapasVacios(t *testing.T) {
	assert.Empty(t, reconcile.ComputeDeltas(nil, nil))
}

func TestNormalize_FiltraCerosYFusionaDuplicados(t *testing.T) {
	in := []reconcile.UsoItem{
		{StockID: "B", Quantity: 2},
		{StockID: "A", Quantity: 0},  // cantidad cero: se descarta
		{StockID: "B", Quantity: 3},  // duplicado: se fusiona
		{StockID: "", Quantity: 4},   // sin stockId: se descarta
		{StockID: "A", Quantity: -1}, // negativa: se descarta
		{StockID: "C", Quantity: 1},
	}

	out := reconcile.Normalize(in)

	require.Len(t, out, 2)
	assert.Equal(t, reconcile.UsoItem{StockID: "B", Quantity: 5}, out[0])
	assert.Equal(t, reconcile.UsoItem{StockID: "C", Quantity: 1}, out[1])
}

func TestToMap(t *testing.T) {
	m := reconcile.ToMap([]reconcile.UsoItem{{StockID: "A", Quantity: 2}, {StockID: "A", Quantity: 3}})
	assert.Equal(t, map[string]int64{"A": 5}, m)
}
