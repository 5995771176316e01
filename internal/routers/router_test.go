package routers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	validatorV10 "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/haierkeys/inventory-audit-service/internal/app"
	"github.com/haierkeys/inventory-audit-service/internal/dao"
	"github.com/haierkeys/inventory-audit-service/pkg/code"
	"github.com/haierkeys/inventory-audit-service/pkg/validator"
)

type apiResult struct {
	Code    int             `json:"code"`
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Details any             `json:"details"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newTestRouter(t *testing.T) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	binding.Validator = validator.NewCustomValidator()
	if v, ok := binding.Validator.Engine().(*validatorV10.Validate); ok {
		validator.Register(v)
	}

	f := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(f, []byte(`
database:
  type: sqlite
  path: ":memory:"
  max-idle-conns: 1
  max-open-conns: 1
security:
  auth-token-key: router-secret
`), 0644))
	cfg, _, err := app.LoadConfig(f)
	require.NoError(t, err)

	db, err := dao.NewDBEngineWithConfig(cfg.GetDatabaseConfig(), zap.NewNop())
	require.NoError(t, err)
	a, err := app.NewApp(cfg, zap.NewNop(), db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

	return &client{t: t, router: NewRouter(a, nil)}
}

func (c *client) do(method, path string, body any, header ...string) (*httptest.ResponseRecorder, apiResult) {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	var res apiResult
	if w.Body.Len() > 0 {
		require.NoError(c.t, sonic.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	}
	return w, res
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, sonic.Unmarshal(raw, &out))
	return out
}

type idData struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

type historyPage struct {
	List []struct {
		Action  string `json:"action"`
		Reason  string `json:"reason"`
		Changes []struct {
			Field string `json:"field"`
			From  any    `json:"from"`
			To    any    `json:"to"`
		} `json:"changes"`
		Actor *struct {
			Email string `json:"email"`
		} `json:"actor"`
	} `json:"list"`
	Pager struct {
		TotalRows int `json:"totalRows"`
	} `json:"pager"`
}

func TestRouter_InventoryFlowWithHistory(t *testing.T) {
	c := newTestRouter(t)

	w, res := c.do(http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, res.Status)
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))

	w, _ = c.do(http.MethodPost, "/api/user/register", map[string]any{
		"firstName": "Alice", "lastName": "Walker", "email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, res = c.do(http.MethodPost, "/api/user/login", map[string]any{"email": "alice@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := decode[idData](t, res.Data)
	require.NotEmpty(t, user.Token)

	// 写操作需要登录
	w, _ = c.do(http.MethodPost, "/api/category", map[string]any{"name": "tools"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c.token = user.Token
	w, res = c.do(http.MethodPost, "/api/category", map[string]any{"name": "tools"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	category := decode[idData](t, res.Data)

	w, res = c.do(http.MethodPost, "/api/product", map[string]any{
		"name": "Hammer", "description": "Steel claw hammer", "categoryId": category.ID, "price": 12, "sku": "HM-001",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	product := decode[idData](t, res.Data)

	w, res = c.do(http.MethodPatch, "/api/product/"+product.ID, map[string]any{"name": "Mallet"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, code.ErrorUpdateNotAllowed.Code(), res.Code)

	w, res = c.do(http.MethodPatch, "/api/product/"+product.ID, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, code.ErrorUpdateNotAllowed.Code(), res.Code)

	w, _ = c.do(http.MethodPatch, "/api/product/"+product.ID, map[string]any{"price": 15}, "X-Audit-Reason", "supplier price change")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, res = c.do(http.MethodGet, "/api/history/product/"+product.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	page := decode[historyPage](t, res.Data)
	require.Len(t, page.List, 2)
	assert.Equal(t, 2, page.Pager.TotalRows)

	latest := page.List[0]
	assert.Equal(t, "UPDATE", latest.Action)
	assert.Equal(t, "supplier price change", latest.Reason)
	require.Len(t, latest.Changes, 1)
	assert.Equal(t, "price", latest.Changes[0].Field)
	assert.EqualValues(t, 12, latest.Changes[0].From)
	assert.EqualValues(t, 15, latest.Changes[0].To)
	require.NotNil(t, latest.Actor)
	assert.Equal(t, "alice@example.com", latest.Actor.Email)
	assert.Equal(t, "CREATE", page.List[1].Action)

	w, res = c.do(http.MethodGet, "/api/history/product/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, code.ErrorInvalidID.Code(), res.Code)

	w, res = c.do(http.MethodGet, "/api/history/warehouse/"+product.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, code.ErrorInvalidModel.Code(), res.Code)
}

func TestRouter_NotFoundAndLang(t *testing.T) {
	c := newTestRouter(t)

	w, res := c.do(http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, code.ErrorNotFoundAPI.Code(), res.Code)

	w, res = c.do(http.MethodGet, "/api/product/"+"00000000-0000-0000-0000-000000000001", nil, "Accept-Language", "zh-CN,zh;q=0.9")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, code.ErrorProductNotFound.MsgIn(code.LangZH), res.Message)
}
