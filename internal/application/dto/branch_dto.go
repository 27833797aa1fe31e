package dto

import "time"

// CreateBranchRequest alta de una sucursal.
type CreateBranchRequest struct {
	Name string `json:"name"`
}

// BranchResponse sucursal en respuestas.
type BranchResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// BranchListResponse listado de sucursales.
type BranchListResponse struct {
	Branches []BranchResponse `json:"branches"`
	Total    int              `json:"total"`
}
