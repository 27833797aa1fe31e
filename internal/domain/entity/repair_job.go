package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de reparación.
const (
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
)

// UsedItem es el consumo que una orden declara contra un repuesto concreto.
// Name es una foto del nombre del repuesto al momento de usarlo; no se
// sincroniza si el repuesto se renombra después (obsolescencia aceptada).
type UsedItem struct {
	StockID  string `json:"stockId"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// RepairJob representa una orden de reparación de un celular en una sucursal.
// ItemsUsed tiene a lo sumo una entrada por StockID; la propia existencia de
// la orden es la "reserva" del stock que declara — no hay entidad de reserva
// separada. ItemsUsed solo cambia vía el motor de reconciliación.
type RepairJob struct {
	ID                     string
	BranchID               string
	CustomerName           string
	PhoneModel             string
	Description            string
	TechnicianName         string
	DateReceived           string // YYYY-MM-DD
	ExpectedCompletionDate string // YYYY-MM-DD
	Status                 string // in_progress | completed
	UnderWarranty          bool
	Price                  decimal.Decimal
	ItemsUsed              []UsedItem
	CreatedAt              time.Time
}

// UsedQuantity devuelve la cantidad que la orden consume del repuesto dado
// (0 si no lo referencia).
func (j *RepairJob) UsedQuantity(stockID string) int64 {
	for _, it := range j.ItemsUsed {
		if it.StockID == stockID {
			return it.Quantity
		}
	}
	return 0
}
