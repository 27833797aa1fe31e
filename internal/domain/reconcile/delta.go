package reconcile

import "sort"

// Delta es el cambio con signo a aplicar a un repuesto al mover el inventario
// del estado "orden anterior" al estado "orden nueva".
// Positivo = se devuelve cantidad al stock; negativo = se consume cantidad.
type Delta struct {
	StockID string
	Delta   int64
}

// UsoItem es un consumo (stockId, cantidad) ya normalizado.
type UsoItem struct {
	StockID  string
	Quantity int64
}

// Normalize filtra entradas con cantidad cero o negativa y fusiona duplicados
// por StockID sumando cantidades, de modo que quede a lo sumo una entrada por
// repuesto. El orden de salida es por StockID para que el recorrido sea
// determinista.
func Normalize(items []UsoItem) []UsoItem {
	merged := make(map[string]int64)
	for _, it := range items {
		if it.Quantity <= 0 || it.StockID == "" {
			continue
		}
		merged[it.StockID] += it.Quantity
	}
	out := make([]UsoItem, 0, len(merged))
	for id, q := range merged {
		out = append(out, UsoItem{StockID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StockID < out[j].StockID })
	return out
}

// ToMap convierte una lista de consumos en stockId -> cantidad.
func ToMap(items []UsoItem) map[string]int64 {
	m := make(map[string]int64, len(items))
	for _, it := range items {
		m[it.StockID] += it.Quantity
	}
	return m
}

// ComputeDeltas calcula, para la unión de repuestos de ambos mapas, el delta
// que debe aplicarse al stock: delta = viejo - nuevo.
//
//	viejo=0 nuevo=5 -> -5 (consume 5)
//	viejo=5 nuevo=0 -> +5 (devuelve 5)
//	viejo=5 nuevo=8 -> -3 (consume 3 más)
//	viejo=8 nuevo=5 -> +3 (devuelve 3)
//	viejo=5 nuevo=5 ->  0 (sin cambio)
//
// Función pura: sin almacén, sin UI. La salida está ordenada por StockID; ese
// orden fija también el orden de bloqueo de filas en la transacción.
func ComputeDeltas(oldMap, newMap map[string]int64) []Delta {
	ids := make(map[string]struct{}, len(oldMap)+len(newMap))
	for id := range oldMap {
		ids[id] = struct{}{}
	}
	for id := range newMap {
		ids[id] = struct{}{}
	}
	out := make([]Delta, 0, len(ids))
	for id := range ids {
		out = append(out, Delta{StockID: id, Delta: oldMap[id] - newMap[id]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StockID < out[j].StockID })
	return out
}
