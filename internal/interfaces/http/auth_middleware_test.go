package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-backend/internal/application/dto"
	pkgjwt "github.com/jhoicas/erp-backend/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "erp-backend-test"
	testExpMin    = 60
)

// tokenForRole genera el header Authorization de testUserID con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// doAuth envía la petición con el header Authorization tal cual (vacío = sin header).
func (a *apiClient) doAuth(method, path, authHeader string, body any) (int, dto.ErrorResponse) {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	var errResp dto.ErrorResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	if resp.StatusCode >= 400 && len(raw) > 0 {
		require.NoError(a.t, json.Unmarshal(raw, &errResp), string(raw))
	}
	return resp.StatusCode, errResp
}

func TestAuth_BodegueroRegistraEntradas(t *testing.T) {
	api := newAPI(t)
	productID := api.seedCatalog()

	status, _ := api.doAuth(http.MethodPost, "/api/inventory/receipts", tokenForRole(t, "bodeguero"),
		dto.ReceiveStockRequest{ProductID: productID, Quantity: dec("10"), UnitCost: dec("7")})
	require.Equal(t, http.StatusCreated, status)

	var page dto.MovementListResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/inventory/"+productID+"/movements", "vendedor", nil, &page))
	require.NotEmpty(t, page.Items)
	for _, m := range page.Items {
		assert.Equal(t, testUserID, m.CreatedBy, "el actor sale del claim user_id")
	}
}

func TestAuth_VendedorNoRegistraEntradas(t *testing.T) {
	api := newAPI(t)
	productID := api.seedCatalog()

	status, errResp := api.doAuth(http.MethodPost, "/api/inventory/receipts", tokenForRole(t, "vendedor"),
		dto.ReceiveStockRequest{ProductID: productID, Quantity: dec("10"), UnitCost: dec("7")})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errResp.Code)
	assert.Contains(t, errResp.Message, "vendedor")

	var stock dto.StockResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/inventory/"+productID, "vendedor", nil, &stock))
	assert.True(t, dec("150").Equal(stock.Quantity))
}

func TestAuth_SoloAdminAdministraTramos(t *testing.T) {
	api := newAPI(t)
	productID := api.seedCatalog()
	bracket := dto.CreateBracketRequest{
		ProductID: productID,
		Name:      "Mayoreo",
		Tiers:     []dto.BracketTierRequest{{MinQuantity: dec("0"), Price: dec("9"), PriceTier: "regular"}},
	}

	for _, role := range []string{"vendedor", "bodeguero"} {
		status, errResp := api.doAuth(http.MethodPost, "/api/pricing/brackets", tokenForRole(t, role), bracket)
		assert.Equal(t, http.StatusForbidden, status, role)
		assert.Equal(t, "FORBIDDEN", errResp.Code, role)
	}

	status, _ := api.doAuth(http.MethodPost, "/api/pricing/brackets", tokenForRole(t, "admin"), bracket)
	assert.Equal(t, http.StatusCreated, status)
}

func TestAuth_VendedorRegistraVentaComoAutor(t *testing.T) {
	api := newAPI(t)
	productID := api.seedCatalog()

	var sale dto.SaleResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/sales", "vendedor", dto.RegisterSaleRequest{
		PriceTier: "regular",
		Items:     []dto.SaleItemRequest{{ProductID: productID, Quantity: dec("2")}},
	}, &sale))
	assert.Equal(t, testUserID, sale.CreatedBy)
}

func TestAuth_RechazosDeToken(t *testing.T) {
	api := newAPI(t)
	productID := api.seedCatalog()
	receipt := dto.ReceiveStockRequest{ProductID: productID, Quantity: dec("10"), UnitCost: dec("7")}

	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, "admin", testIssuer, -1)
	require.NoError(t, err)
	foreign, err := pkgjwt.Generate("otro-secret", testUserID, "admin", testIssuer, testExpMin)
	require.NoError(t, err)
	noRole, err := pkgjwt.Generate(testJWTSecret, testUserID, "", testIssuer, testExpMin)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		detail string
	}{
		{"sin header", "", "Authorization"},
		{"esquema distinto", "Token " + expired, "Bearer"},
		{"bearer vacío", "Bearer ", ""},
		{"token malformado", "Bearer token.invalido.aqui", "inválido"},
		{"token expirado", "Bearer " + expired, "expirado"},
		{"firma de otro secret", "Bearer " + foreign, "inválido"},
		{"token sin rol", "Bearer " + noRole, "rol"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, errResp := api.doAuth(http.MethodPost, "/api/inventory/receipts", tc.header, receipt)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "UNAUTHORIZED", errResp.Code)
			assert.Contains(t, errResp.Message, tc.detail)
		})
	}

	var stock dto.StockResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/inventory/"+productID, "vendedor", nil, &stock))
	assert.True(t, dec("150").Equal(stock.Quantity), "ninguna entrada rechazada llega al inventario")
}
