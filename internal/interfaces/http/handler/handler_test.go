package handler

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/auctionhouse/backend/internal/application/apptest"
	"github.com/auctionhouse/backend/internal/application/export"
	"github.com/auctionhouse/backend/internal/application/intake"
	"github.com/auctionhouse/backend/internal/infrastructure/imagestore"
	"github.com/auctionhouse/backend/internal/infrastructure/pdfconvert"
	"github.com/auctionhouse/backend/internal/infrastructure/sheet"
	"github.com/auctionhouse/backend/internal/interfaces/http/middleware"
	"github.com/auctionhouse/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store  *apptest.MemoryStore
	engine *gin.Engine
}

func setupEnv(t *testing.T, builder sheet.Builder, converter pdfconvert.Converter,
	resolver imagestore.Resolver) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := apptest.NewMemoryStore()
	scope := intake.NewNoOpTransactionScope(store.Items(), store.Batches(), store.ConsignorRepo())

	intakeSvc := intake.NewService(scope, nil)
	exportSvc := export.NewService(scope, resolver, builder, converter, t.TempDir(), nil)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.NoRoute(middleware.NoRoute())

	r := router.NewRouter(engine)
	r.Register(NewIntakeHandler(intakeSvc))
	r.Register(NewExportHandler(exportSvc))
	r.Register(NewSystemHandler("test"))
	r.Setup()

	return &testEnv{store: store, engine: engine}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// writeImage drops a small PNG under the system image root and returns its
// stored web reference.
func writeImage(t *testing.T, root, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(filepath.Join(root, name), buf.Bytes(), 0644))
	return "/files/system/" + name
}

func TestIntakeEndpoints(t *testing.T) {
	env := setupEnv(t, sheet.Unavailable{}, pdfconvert.Unavailable{},
		imagestore.NewFSResolver(t.TempDir(), t.TempDir()))
	env.store.AddConsignor("A", "山田")

	t.Run("generate items", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/items/generate", gin.H{
			"intake_date":    "2025-03-24",
			"consignor_code": "A",
			"count":          3,
			"receiver":       "front desk",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		body := decodeBody(t, w)
		data := body["data"].(map[string]any)
		assert.Equal(t, "250324_A", data["batch_code"])
		assert.EqualValues(t, 3, data["created"])
		assert.Len(t, data["item_codes"], 3)
	})

	t.Run("rerun creates nothing new", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/items/generate", gin.H{
			"intake_date":    "2025-03-24",
			"consignor_code": "A",
			"count":          3,
			"receiver":       "front desk",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		data := decodeBody(t, w)["data"].(map[string]any)
		assert.EqualValues(t, 0, data["created"])
	})

	t.Run("unknown consignor refused", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/items/generate", gin.H{
			"intake_date":    "2025-03-24",
			"consignor_code": "ZZ",
			"count":          1,
			"receiver":       "front desk",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		errInfo := decodeBody(t, w)["error"].(map[string]any)
		assert.Equal(t, "ERR_CONSIGNOR_NOT_FOUND", errInfo["code"])
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/items/generate", gin.H{
			"intake_date": "2025-03-24",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list batch items in natural order", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/items/generate", gin.H{
			"intake_date":    "2025-03-25",
			"consignor_code": "A",
			"count":          11,
			"receiver":       "front desk",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = env.do(t, http.MethodGet, "/api/v1/batches/2025-03-25/A/items", nil)
		require.Equal(t, http.StatusOK, w.Code)

		rows := decodeBody(t, w)["data"].([]any)
		require.Len(t, rows, 11)
		first := rows[0].(map[string]any)
		second := rows[1].(map[string]any)
		last := rows[10].(map[string]any)
		assert.Equal(t, "250325_A_1", first["item_code"])
		assert.Equal(t, "250325_A_2", second["item_code"])
		assert.Equal(t, "250325_A_11", last["item_code"])
	})

	t.Run("delete item", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/api/v1/items/250324_A_3", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, http.MethodGet, "/api/v1/batches/2025-03-24/A/items", nil)
		rows := decodeBody(t, w)["data"].([]any)
		assert.Len(t, rows, 2)
	})

	t.Run("next consignor code", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/consignors/next-code", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].(map[string]any)
		assert.Equal(t, "B", data["next_code"])
	})

	t.Run("request id echoed", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/system/health", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})
}

func TestExportEndpoints(t *testing.T) {
	imageRoot := t.TempDir()
	resolver := imagestore.NewFSResolver(imageRoot, t.TempDir())
	builder := sheet.NewWorkbookBuilder(nil, resolver)

	env := setupEnv(t, builder, pdfconvert.Unavailable{}, resolver)
	env.store.AddConsignor("A", "山田")

	w := env.do(t, http.MethodPost, "/api/v1/items/generate", gin.H{
		"intake_date":    "2025-03-24",
		"consignor_code": "A",
		"count":          2,
		"receiver":       "front desk",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("precheck lists items without photos", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/batches/2025-03-24/A/export/precheck", nil)
		require.Equal(t, http.StatusOK, w.Code)

		data := decodeBody(t, w)["data"].(map[string]any)
		assert.EqualValues(t, 2, data["total"])
		assert.Len(t, data["missing"], 2)
	})

	t.Run("download refused while photos missing", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/batches/2025-03-24/A/export/xlsx", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)

		errInfo := decodeBody(t, w)["error"].(map[string]any)
		assert.Equal(t, "ERR_MISSING_IMAGES", errInfo["code"])
		assert.Len(t, errInfo["item_codes"], 2)
	})

	t.Run("workbook downloads once photos attached", func(t *testing.T) {
		ref1 := writeImage(t, imageRoot, "a1.png")
		ref2 := writeImage(t, imageRoot, "a2.png")
		env.store.ItemsByCode["250324_A_1"].ImagePath = &ref1
		env.store.ItemsByCode["250324_A_2"].ImagePath = &ref2

		w := env.do(t, http.MethodGet, "/api/v1/batches/2025-03-24/A/export/xlsx", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "250324_A.xlsx")
		assert.Equal(t,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			w.Header().Get("Content-Type"))
		// xlsx containers are zip archives
		assert.Equal(t, "PK", string(w.Body.Bytes()[:2]))
	})

	t.Run("pdf reports feature unavailable without converter", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/batches/2025-03-24/A/export/pdf", nil)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)

		errInfo := decodeBody(t, w)["error"].(map[string]any)
		assert.Equal(t, "ERR_EXPORT_UNAVAILABLE", errInfo["code"])
	})

	t.Run("bad date rejected", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/batches/not-a-date/A/export/precheck", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestExportUnavailableBuilder(t *testing.T) {
	imageRoot := t.TempDir()
	resolver := imagestore.NewFSResolver(imageRoot, t.TempDir())

	env := setupEnv(t, sheet.Unavailable{}, pdfconvert.Unavailable{}, resolver)
	env.store.AddConsignor("A", "山田")

	w := env.do(t, http.MethodPost, "/api/v1/items/generate", gin.H{
		"intake_date":    "2025-03-24",
		"consignor_code": "A",
		"count":          1,
		"receiver":       "front desk",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	ref := writeImage(t, imageRoot, "a1.png")
	env.store.ItemsByCode["250324_A_1"].ImagePath = &ref

	w = env.do(t, http.MethodGet, "/api/v1/batches/2025-03-24/A/export/xlsx", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	errInfo := decodeBody(t, w)["error"].(map[string]any)
	assert.Equal(t, "ERR_EXPORT_UNAVAILABLE", errInfo["code"])
}
