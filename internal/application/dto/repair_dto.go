package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UsedItemRequest consumo declarado contra un repuesto. Las entradas con
// cantidad cero se descartan antes de reconciliar; nunca se almacenan.
type UsedItemRequest struct {
	StockID  string `json:"stockId"`
	Quantity int64  `json:"quantity"`
}

// SubmitRepairJobRequest crea o edita una orden de reparación. En edición el
// ID viaja en la ruta; el cuerpo siempre describe el estado deseado completo
// de itemsUsed (no un diff).
type SubmitRepairJobRequest struct {
	CustomerName           string            `json:"customerName"`
	PhoneModel             string            `json:"phoneModel"`
	Description            string            `json:"description"`
	TechnicianName         string            `json:"technicianName"`
	DateReceived           string            `json:"dateReceived"`
	ExpectedCompletionDate string            `json:"expectedCompletionDate"`
	Status                 string            `json:"status"`
	UnderWarranty          bool              `json:"underWarranty"`
	Price                  decimal.Decimal   `json:"price"`
	ItemsUsed              []UsedItemRequest `json:"itemsUsed"`
}

// UsedItemResponse consumo con la foto del nombre del repuesto.
type UsedItemResponse struct {
	StockID  string `json:"stockId"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// RepairJobResponse orden de reparación en respuestas.
type RepairJobResponse struct {
	ID                     string             `json:"id"`
	BranchID               string             `json:"branchId"`
	CustomerName           string             `json:"customerName"`
	PhoneModel             string             `json:"phoneModel"`
	Description            string             `json:"description"`
	TechnicianName         string             `json:"technicianName"`
	DateReceived           string             `json:"dateReceived"`
	ExpectedCompletionDate string             `json:"expectedCompletionDate"`
	Status                 string             `json:"status"`
	UnderWarranty          bool               `json:"underWarranty"`
	Price                  decimal.Decimal    `json:"price"`
	ItemsUsed              []UsedItemResponse `json:"itemsUsed"`
	CreatedAt              time.Time          `json:"createdAt"`
}

// RepairJobListResponse listado de órdenes.
type RepairJobListResponse struct {
	Jobs  []RepairJobResponse `json:"jobs"`
	Total int                 `json:"total"`
}
