// Command token emite un JWT firmado con la configuración del servicio (JWT_SECRET,
// JWT_ISSUER, JWT_EXPIRATION_MINUTES) para operar la API sin un proveedor de identidad.
//
//	go run ./cmd/token -user <uuid> -role bodeguero
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/jhoicas/erp-backend/pkg/config"
	"github.com/jhoicas/erp-backend/pkg/jwt"
	"github.com/jhoicas/erp-backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if err := run(os.Args[1:], cfg.JWT, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("emitir token")
	}
}

func run(args []string, cfg config.JWTConfig, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	user := fs.String("user", "", "UUID del usuario (actor de auditoría)")
	role := fs.String("role", "", "admin | bodeguero | vendedor")
	minutes := fs.Int("minutes", cfg.Expiration, "vigencia en minutos")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := uuid.Validate(*user); err != nil {
		return fmt.Errorf("-user debe ser un UUID: %w", err)
	}
	switch *role {
	case "admin", "bodeguero", "vendedor":
	default:
		return fmt.Errorf("-role desconocido: %q", *role)
	}
	if *minutes <= 0 {
		return fmt.Errorf("-minutes debe ser positivo")
	}

	tok, err := jwt.Generate(cfg.Secret, *user, *role, cfg.Issuer, *minutes)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, tok)
	return err
}
