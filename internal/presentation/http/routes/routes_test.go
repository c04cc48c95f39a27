package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/daybook-api/internal/application/service"
	"github.com/sangkips/daybook-api/internal/config"
	"github.com/sangkips/daybook-api/internal/domain/entity"
	"github.com/sangkips/daybook-api/internal/infrastructure/lock"
	"github.com/sangkips/daybook-api/internal/presentation/http/handler"
	"github.com/sangkips/daybook-api/internal/presentation/http/middleware"
	"github.com/sangkips/daybook-api/internal/testutil/memrepo"
	"github.com/sangkips/daybook-api/pkg/apperror"
	"github.com/sangkips/daybook-api/pkg/pagination"
	"github.com/sangkips/daybook-api/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type testAPI struct {
	router     *gin.Engine
	stores     *memrepo.Stores
	jwt        *utils.JWTManager
	admin      *entity.User
	clerk      *entity.User
	adminToken string
	clerkToken string
}

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Errors  []apperror.FieldError `json:"errors"`
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	stores := memrepo.New()
	jwt := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	locker := lock.NopLocker{}

	exportService := service.NewExportService(stores.Purchases, stores.DayCounters, logger)
	handlers := &Handlers{
		Auth:             handler.NewAuthHandler(service.NewAuthService(stores.Users, jwt, logger)),
		User:             handler.NewUserHandler(service.NewUserService(stores.Users, logger)),
		Purchase:         handler.NewPurchaseHandler(service.NewPurchaseService(stores.Purchases, stores.RawMaterials, locker, logger), exportService),
		Expense:          handler.NewExpenseHandler(service.NewExpenseService(stores.Expenses, locker, logger)),
		DayCounter:       handler.NewDayCounterHandler(service.NewDayCounterService(stores.DayCounters, locker, logger), exportService),
		Vendor:           handler.NewVendorHandler(service.NewVendorService(stores.Vendors, logger)),
		Product:          handler.NewProductHandler(service.NewProductService(stores.Products, logger)),
		RawMaterial:      handler.NewRawMaterialHandler(service.NewRawMaterialService(stores.RawMaterials, logger)),
		PurchaseCategory: handler.NewPurchaseCategoryHandler(service.NewPurchaseCategoryService(stores.PurchaseCategories, logger)),
	}

	limiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{RequestsPerSecond: 1000, BurstSize: 1000})
	t.Cleanup(limiter.Stop)

	api := &testAPI{
		router: Setup(handlers, &Deps{
			JWTManager:      jwt,
			Cfg:             &config.Config{App: config.AppConfig{Name: "daybook-api"}},
			IdempotencyRepo: stores.Idempotency,
			Logger:          logger,
			RateLimiter:     limiter,
		}),
		stores: stores,
		jwt:    jwt,
	}
	api.admin, api.adminToken = api.user(t, "admin@example.com", entity.RoleAdmin)
	api.clerk, api.clerkToken = api.user(t, "clerk@example.com", entity.RoleUser)
	return api
}

// user stores an account directly so tests skip password hashing.
func (a *testAPI) user(t *testing.T, email, role string) (*entity.User, string) {
	t.Helper()
	u := &entity.User{Name: "Test " + role, Email: email, Password: "-", Role: role, IsActive: true}
	require.NoError(t, a.stores.Users.Create(context.Background(), u))
	token, err := a.jwt.GenerateAccessToken(u.ID, u.Email, u.Role)
	require.NoError(t, err)
	return u, token
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), string(env.Data))
	}
	return env
}

func fields(env envelope) []string {
	var out []string
	for _, fe := range env.Errors {
		out = append(out, fe.Field)
	}
	return out
}

func (a *testAPI) material(t *testing.T, name string) *entity.RawMaterial {
	t.Helper()
	m := &entity.RawMaterial{Name: name}
	require.NoError(t, a.stores.RawMaterials.Create(context.Background(), m))
	return m
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/v1/purchases", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/purchases", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreatePurchaseIgnoresClientTotals(t *testing.T) {
	api := newTestAPI(t)
	steel := api.material(t, "Steel")

	rec := api.do(t, http.MethodPost, "/api/v1/purchases", api.clerkToken, map[string]interface{}{
		"date":            "2024-03-05",
		"category":        "Metals",
		"raw_material_id": steel.ID,
		"price_per_unit":  12.5,
		"quantity":        4,
		"vendor":          "Acme",
		"payment_method":  "Card",
		"paid_amount":     "20",
		"total":           999,
		"balance_due":     -1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var p entity.Purchase
	decode(t, rec, &p)
	assert.Equal(t, "50.00", p.Total.String())
	assert.Equal(t, "30.00", p.BalanceDue.String())
	require.NotNil(t, p.RawMaterial)
	assert.Equal(t, "Steel", p.RawMaterial.Name)
}

func TestCreatePurchaseRejectsBadInput(t *testing.T) {
	api := newTestAPI(t)
	steel := api.material(t, "Steel")
	body := func(mutate func(map[string]interface{})) map[string]interface{} {
		b := map[string]interface{}{
			"date":            "2024-03-05",
			"category":        "Metals",
			"raw_material_id": steel.ID,
			"price_per_unit":  10,
			"quantity":        1,
			"vendor":          "Acme",
			"payment_method":  "Cash",
			"paid_amount":     0,
		}
		mutate(b)
		return b
	}

	rec := api.do(t, http.MethodPost, "/api/v1/purchases", api.clerkToken, body(func(b map[string]interface{}) {
		b["discount"] = 5
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/purchases", api.clerkToken, `{"date":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/purchases", api.clerkToken, body(func(b map[string]interface{}) {
		delete(b, "quantity")
	}))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"quantity"}, fields(decode(t, rec, nil)))

	rec = api.do(t, http.MethodPost, "/api/v1/purchases", api.clerkToken, body(func(b map[string]interface{}) {
		delete(b, "paid_amount")
	}))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"paid_amount"}, fields(decode(t, rec, nil)))

	rec = api.do(t, http.MethodPost, "/api/v1/purchases", api.clerkToken, body(func(b map[string]interface{}) {
		b["quantity"] = "1.0005"
	}))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"quantity"}, fields(decode(t, rec, nil)))

	rec = api.do(t, http.MethodPost, "/api/v1/purchases", api.clerkToken, body(func(b map[string]interface{}) {
		b["price_per_unit"] = "92233720368547758.08"
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/purchases", api.clerkToken, body(func(b map[string]interface{}) {
		b["price_per_unit"] = "10000000000000000"
		b["quantity"] = 1000
	}))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"quantity"}, fields(decode(t, rec, nil)))

	rec = api.do(t, http.MethodPost, "/api/v1/purchases", api.clerkToken, body(func(b map[string]interface{}) {
		b["quantity"] = 0
	}))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"quantity"}, fields(decode(t, rec, nil)))

	rec = api.do(t, http.MethodPost, "/api/v1/purchases", api.clerkToken, body(func(b map[string]interface{}) {
		b["price_per_unit"] = -3
	}))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"price_per_unit"}, fields(decode(t, rec, nil)))

	assert.Zero(t, api.stores.Purchases.Len())
}

func TestPatchPurchaseRecomputesTotals(t *testing.T) {
	api := newTestAPI(t)
	steel := api.material(t, "Steel")

	rec := api.do(t, http.MethodPost, "/api/v1/purchases", api.clerkToken, map[string]interface{}{
		"date": "2024-03-05", "category": "Metals", "raw_material_id": steel.ID,
		"price_per_unit": 10, "quantity": 3, "vendor": "Acme", "payment_method": "Credit", "paid_amount": 0,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created entity.Purchase
	decode(t, rec, &created)

	rec = api.do(t, http.MethodPatch, "/api/v1/purchases/"+created.ID.String(), api.clerkToken, `{"quantity": "2.5", "paid_amount": 5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var patched entity.Purchase
	decode(t, rec, &patched)
	assert.Equal(t, "25.00", patched.Total.String())
	assert.Equal(t, "20.00", patched.BalanceDue.String())
	assert.Equal(t, "Acme", patched.Vendor)

	rec = api.do(t, http.MethodPatch, "/api/v1/purchases/"+created.ID.String(), api.clerkToken, `{"paid_amount": 40}`)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &patched)
	assert.Equal(t, "-15.00", patched.BalanceDue.String())

	rec = api.do(t, http.MethodPatch, "/api/v1/purchases/00000000-0000-0000-0000-000000000001", api.clerkToken, `{"quantity": 1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/purchases/not-a-uuid", api.clerkToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodDelete, "/api/v1/purchases/"+created.ID.String(), api.clerkToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = api.do(t, http.MethodDelete, "/api/v1/purchases/"+created.ID.String(), api.clerkToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExpensesAreScopedToCaller(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/expenses", api.adminToken, map[string]interface{}{
		"date": "2024-03-01", "name": "Rent", "description": "March rent", "category": "Premises",
		"payment":     map[string]interface{}{"cash": 100, "credit": 25.5},
		"balance_due": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var e entity.Expense
	decode(t, rec, &e)
	assert.Equal(t, "125.50", e.Total.String())
	assert.Equal(t, api.admin.ID, e.OwnerID)

	path := "/api/v1/expenses/" + e.ID.String()
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, path, api.clerkToken, nil).Code)
	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, path, api.adminToken, nil).Code)

	var page pagination.PaginatedResult[entity.Expense]
	decode(t, api.do(t, http.MethodGet, "/api/v1/expenses", api.clerkToken, nil), &page)
	assert.Empty(t, page.Items)

	rec = api.do(t, http.MethodPatch, path, api.adminToken, `{"payment": {"digital_transfer": -1}}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"payment.digital_transfer"}, fields(decode(t, rec, nil)))

	rec = api.do(t, http.MethodPatch, path, api.adminToken, `{"description": ""}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"description"}, fields(decode(t, rec, nil)))

	rec = api.do(t, http.MethodPost, "/api/v1/expenses", api.adminToken, `{"date": "2024-03-02", "name": "Water", "category": "Utilities"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"description"}, fields(decode(t, rec, nil)))
}

func dayCounterBody() map[string]interface{} {
	return map[string]interface{}{
		"date":            "2024-03-10",
		"opening_balance": 1000,
		"payments":        map[string]interface{}{"cash": 500, "digital_transfer": 200, "card": 100},
		"expenses":        100,
		"closing_balance": 1350,
		"cash_hand_over":  50,
	}
}

func TestDayCounterLifecycle(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/day-counters", api.clerkToken, `{"payments": {"cash": 1}}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"date", "opening_balance"}, fields(decode(t, rec, nil)))

	rec = api.do(t, http.MethodPost, "/api/v1/day-counters", api.clerkToken, dayCounterBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var d entity.DayCounter
	decode(t, rec, &d)
	assert.Equal(t, "800.00", d.TotalDayCounter.String())
	assert.Equal(t, "1400.00", d.ActualClosingCounter.String())
	assert.Equal(t, "0.00", d.Difference.String())

	rec = api.do(t, http.MethodPost, "/api/v1/day-counters", api.clerkToken, dayCounterBody())
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodPatch, "/api/v1/day-counters/"+d.ID.String(), api.clerkToken, `{"cash_hand_over": 80, "difference": 0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &d)
	assert.Equal(t, "-30.00", d.Difference.String())

	rec = api.do(t, http.MethodGet, "/api/v1/day-counters/date/2024-03-10", api.clerkToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var byDate entity.DayCounter
	decode(t, rec, &byDate)
	assert.Equal(t, d.ID, byDate.ID)

	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/v1/day-counters/date/2024-03-11", api.clerkToken, nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, api.do(t, http.MethodGet, "/api/v1/day-counters/date/yesterday", api.clerkToken, nil).Code)
}

func TestDayCounterExport(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/v1/day-counters", api.clerkToken, dayCounterBody()).Code)

	rec := api.do(t, http.MethodGet, "/api/v1/day-counters/export?from=2024-03-01&to=2024-03-31", api.clerkToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "day-counters.xlsx")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(service.DayCounterSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-03-10", rows[1][0])

	rec = api.do(t, http.MethodGet, "/api/v1/day-counters/export?from=March", api.clerkToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestVendorCatalog(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/vendors", api.clerkToken, `{"name": "Acme", "contact": "0700"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var v entity.Vendor
	decode(t, rec, &v)

	rec = api.do(t, http.MethodPost, "/api/v1/vendors", api.clerkToken, `{"name": "Acme"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/vendors", api.clerkToken, `{"contact": "0700"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"name"}, fields(decode(t, rec, nil)))

	rec = api.do(t, http.MethodPut, "/api/v1/vendors/"+v.ID.String(), api.clerkToken, `{"name": "Acme Ltd", "address": "Main St"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &v)
	assert.Equal(t, "Acme Ltd", v.Name)
	assert.Empty(t, v.Contact)

	var page pagination.PaginatedResult[entity.Vendor]
	decode(t, api.do(t, http.MethodGet, "/api/v1/vendors?search=acme", api.clerkToken, nil), &page)
	assert.Len(t, page.Items, 1)

	assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, "/api/v1/vendors/"+v.ID.String(), api.clerkToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/v1/vendors/"+v.ID.String(), api.clerkToken, nil).Code)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	api := newTestAPI(t)

	assert.Equal(t, http.StatusForbidden, api.do(t, http.MethodGet, "/api/v1/admin/users", api.clerkToken, nil).Code)

	var page pagination.PaginatedResult[entity.User]
	rec := api.do(t, http.MethodGet, "/api/v1/admin/users", api.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &page)
	assert.Len(t, page.Items, 2)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = api.do(t, http.MethodPatch, "/api/v1/admin/users/"+api.clerk.ID.String(), api.adminToken, `{"is_active": false}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var u entity.User
	decode(t, rec, &u)
	assert.False(t, u.IsActive)

	rec = api.do(t, http.MethodPatch, "/api/v1/admin/users/"+api.clerk.ID.String(), api.adminToken, `{"role": "owner"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"role"}, fields(decode(t, rec, nil)))
}

func TestIdempotentCreate(t *testing.T) {
	api := newTestAPI(t)

	first := api.do(t, http.MethodPost, "/api/v1/vendors", api.clerkToken, `{"name": "Acme"}`, "Idempotency-Key", "abc-1")
	require.Equal(t, http.StatusCreated, first.Code)
	second := api.do(t, http.MethodPost, "/api/v1/vendors", api.clerkToken, `{"name": "Acme"}`, "Idempotency-Key", "abc-1")
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(middleware.ReplayedHeader))

	var a, b entity.Vendor
	decode(t, first, &a)
	decode(t, second, &b)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, 1, api.stores.Vendors.Len())

	// keys are per user
	other := api.do(t, http.MethodPost, "/api/v1/vendors", api.adminToken, `{"name": "Acme"}`, "Idempotency-Key", "abc-1")
	assert.Equal(t, http.StatusConflict, other.Code)
}

func TestRegisterLoginAndMe(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "New Person", "email": "new@example.com", "password": "password123", "password_confirm": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "New Person", "email": "new@example.com", "password": "password123", "password_confirm": "different1",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"password_confirm"}, fields(decode(t, rec, nil)))

	rec = api.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"email": "new@example.com", "password": "password123"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var tokens struct {
		AccessToken  string      `json:"access_token"`
		RefreshToken string      `json:"refresh_token"`
		User         entity.User `json:"user"`
	}
	decode(t, rec, &tokens)
	assert.Equal(t, entity.RoleUser, tokens.User.Role)

	rec = api.do(t, http.MethodGet, "/api/v1/auth/me", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "new@example.com")

	rec = api.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": tokens.RefreshToken})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"email": "new@example.com", "password": "wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
