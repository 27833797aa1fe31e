// Package migrations embebe los archivos SQL de goose en el binario para que
// el esquema se aplique en el arranque sin depender del directorio de trabajo.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
