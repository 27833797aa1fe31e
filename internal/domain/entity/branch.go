package entity

import "time"

// Branch representa una sucursal del taller de reparación de celulares.
// Cada sucursal es dueña exclusiva de su stock y de sus órdenes de reparación.
// Inmutable después de crearse; el núcleo nunca la elimina.
type Branch struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
