package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-backend/pkg/config"
	"github.com/jhoicas/erp-backend/pkg/jwt"
)

var testCfg = config.JWTConfig{Secret: "secret-cli", Expiration: 15, Issuer: "erp-backend"}

func TestRun_EmiteTokenLegible(t *testing.T) {
	var out bytes.Buffer
	user := "3f1e9c7a-5b2d-4c8e-a1f0-6d7b8c9e0a12"
	require.NoError(t, run([]string{"-user", user, "-role", "bodeguero"}, testCfg, &out))

	gotUser, gotRole, err := jwt.Parse(testCfg.Secret, strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, user, gotUser)
	assert.Equal(t, "bodeguero", gotRole)
}

func TestRun_ArgumentosInvalidos(t *testing.T) {
	user := "3f1e9c7a-5b2d-4c8e-a1f0-6d7b8c9e0a12"
	for name, args := range map[string][]string{
		"usuario no uuid":  {"-user", "pepe", "-role", "admin"},
		"rol desconocido":  {"-user", user, "-role", "gerente"},
		"vigencia cero":    {"-user", user, "-role", "admin", "-minutes", "0"},
		"flag inexistente": {"-x"},
	} {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Error(t, run(args, testCfg, &out))
			assert.Empty(t, out.String())
		})
	}

	var out bytes.Buffer
	assert.Error(t, run([]string{"-user", user, "-role", "admin"}, config.JWTConfig{Expiration: 15}, &out), "secret vacío")
}
