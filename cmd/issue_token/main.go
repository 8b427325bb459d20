// issue_token emite un JWT firmado con JWT_SECRET para las rutas de administración.
//
// Uso: go run ./cmd/issue_token <user-id> [rol]
// El rol por defecto es admin.
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/udeservering-api/pkg/config"
	"github.com/jhoicas/udeservering-api/pkg/jwt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Uso: issue_token <user-id> [rol]")
		os.Exit(2)
	}
	role := "admin"
	if len(os.Args) > 2 {
		role = os.Args[2]
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, os.Args[1], role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
