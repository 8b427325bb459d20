package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"github.com/jhoicas/udeservering-api/docs"
	apphttp "github.com/jhoicas/udeservering-api/internal/interfaces/http"
)

type swaggerDoc struct {
	BasePath string                                `json:"basePath"`
	Paths    map[string]map[string]json.RawMessage `json:"paths"`
}

func readSwagger(t *testing.T) swaggerDoc {
	t.Helper()
	raw, err := swag.ReadDoc()
	require.NoError(t, err)
	var doc swaggerDoc
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestSwagger_RegistradoEnSwag(t *testing.T) {
	doc := readSwagger(t)
	assert.Equal(t, apphttp.BasePath, doc.BasePath)
	assert.Equal(t, apphttp.BasePath, docs.SwaggerInfo.BasePath)
}

func TestSwagger_ServidoEnDocs(t *testing.T) {
	app := apphttp.NewApp(apphttp.AppConfig{Name: "udeservering-test", SwaggerDoc: []byte(docs.SwaggerInfo.ReadDoc())})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs/swagger.json", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc swaggerDoc
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.NotEmpty(t, doc.Paths)
}

var routeParam = regexp.MustCompile(`:([a-z]+)`)

// Toda ruta registrada en el router aparece documentada con su método.
func TestSwagger_CubreTodasLasRutas(t *testing.T) {
	doc := readSwagger(t)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{Log: zerolog.Nop()})

	methods := map[string]bool{fiber.MethodGet: true, fiber.MethodPost: true, fiber.MethodPut: true, fiber.MethodDelete: true}
	checked := 0
	for _, r := range app.GetRoutes(true) {
		if !methods[r.Method] || !strings.HasPrefix(r.Path, apphttp.BasePath) {
			continue
		}
		p := strings.TrimRight(strings.TrimPrefix(r.Path, apphttp.BasePath), "/")
		p = routeParam.ReplaceAllString(p, "{$1}")
		ops, ok := doc.Paths[p]
		if assert.True(t, ok, "ruta sin documentar: %s %s", r.Method, p) {
			assert.Contains(t, ops, strings.ToLower(r.Method), "método sin documentar: %s %s", r.Method, p)
		}
		checked++
	}
	assert.GreaterOrEqual(t, checked, 20)
}
