//go:build integration

package router_test

// End-to-end tests against real Postgres and Redis started with testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"farmledger/internal/config"
	"farmledger/internal/dto"
	"farmledger/internal/infra"
	"farmledger/internal/model"
	"farmledger/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// mustStatus fails with the response body when the status does not match.
func mustStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("status = %d, want %d: %s", resp.StatusCode, want, body)
	}
}

// ── Suite setup ──────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("farmledger_test"),
		tcPostgres.WithUsername("farmledger"),
		tcPostgres.WithPassword("farmledger"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                    8000,
		Env:                     "test",
		JWTSecret:               "test-secret-key",
		JWTExpirationHours:      8,
		JWTRefreshHours:         24,
		PasswordResetTTLMinutes: 60,
		DatabaseURL:             pgURL,
		RedisURL:                rdURL,
		WorkerPoolSize:          1,
		FeedCostLockSeconds:     60,
		RationCostCacheMinutes:  5,
		PublicBaseURL:           "http://farm.test",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, false)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))

	hash, err := bcrypt.GenerateFromPassword([]byte("farmledger2026"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.User{
		Username: "admin", Email: "admin@e2e.test", PasswordHash: string(hash),
		Role: model.RoleAdmin, Active: true,
	}).Error)

	app := router.Wire(cfg, db, rdb)
	srv := httptest.NewServer(router.New(cfg, db, rdb, app))
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin@e2e.test", "password": "farmledger2026"}),
		"",
	)
	mustStatus(t, loginResp, http.StatusOK)
	var login dto.LoginResponse
	decodeJSON(t, loginResp, &login)
	require.NotEmpty(t, login.AccessToken)

	return &testEnv{server: srv, token: login.AccessToken}
}

func (e *testEnv) post(t *testing.T, path string, body any, want int, dest any) {
	t.Helper()
	resp := do(t, e.server, "POST", path, jsonBody(t, body), e.token)
	mustStatus(t, resp, want)
	if dest != nil {
		decodeJSON(t, resp, dest)
	} else {
		resp.Body.Close()
	}
}

func (e *testEnv) get(t *testing.T, path string, dest any) {
	t.Helper()
	resp := do(t, e.server, "GET", path, nil, e.token)
	mustStatus(t, resp, http.StatusOK)
	decodeJSON(t, resp, dest)
}

// ── Tests ────────────────────────────────────────────────────────────────────

// A new animal lands on the base ration, is charged by a manual feed-cost
// run and finally slaughtered at a profit.
func TestE2E_FeedCycle(t *testing.T) {
	env := setupTestEnv(t)
	today := time.Now().UTC().Format(dto.DateLayout)

	var company dto.CompanyResponse
	env.post(t, "/v1/companies", map[string]string{"name": "Acme Farms"}, http.StatusCreated, &company)

	var table dto.RationTableResponse
	env.post(t, "/v1/ration-tables", map[string]string{"name": "Base Ration"}, http.StatusCreated, &table)

	var hay dto.RationComponentResponse
	env.post(t, "/v1/ration-components", map[string]any{
		"name": "Hay", "dry_matter": "50", "calorie": "2.1", "starch": "0", "price": "2",
	}, http.StatusCreated, &hay)
	env.post(t, "/v1/ration-table-components", map[string]any{
		"ration_table_id": table.ID, "component_id": hay.ID, "quantity": "10",
	}, http.StatusCreated, nil)

	var cost dto.RationCostResponse
	env.get(t, "/v1/ration-tables/"+table.ID+"/compute-cost", &cost)
	assert.Equal(t, "20.00", cost.Cost.StringFixed(2))
	assert.Equal(t, "5.00", cost.DryMatter.StringFixed(2))

	var animal dto.AnimalResponse
	env.post(t, "/v1/animals", map[string]any{
		"eartag": "TR-0001", "company_id": company.ID, "room": "A1", "cost": "1000",
	}, http.StatusCreated, &animal)

	var logs []dto.AnimalRationLogResponse
	env.get(t, "/v1/animal-ration-logs?animal="+animal.ID, &logs)
	require.Len(t, logs, 1)
	assert.True(t, logs[0].IsActive)
	assert.Equal(t, table.ID, logs[0].RationTableID)

	var group dto.GroupResponse
	env.post(t, "/v1/groups", map[string]any{"name": "Pen 1", "dry_matter": "0.025"}, http.StatusCreated, &group)
	env.post(t, "/v1/animal-groups", map[string]string{"animal_id": animal.ID, "group_id": group.ID}, http.StatusCreated, nil)
	env.post(t, "/v1/weights", map[string]any{"animal_id": animal.ID, "weight": "400", "recorded_at": today}, http.StatusCreated, nil)

	// demand 0.025×400 = 10 kg DM, table DM 5 → 2 rations × 20 = 40.00
	var run dto.FeedCostRunResponse
	env.post(t, "/v1/jobs/feed-cost/run", nil, http.StatusOK, &run)
	assert.Equal(t, 1, run.Processed)
	assert.Equal(t, "40.00", run.TotalIncrement.StringFixed(2))

	env.get(t, "/v1/animals/"+animal.ID, &animal)
	assert.Equal(t, "40.00", animal.FeedCost.StringFixed(2))

	var slaughter dto.SlaughterResponse
	env.post(t, "/v1/slaughters", map[string]any{
		"animal_id": animal.ID, "date": today, "carcass_weight": "250", "sale_price": "10", "kdv": "0.18",
	}, http.StatusCreated, &slaughter)
	env.post(t, "/v1/slaughters", map[string]any{
		"animal_id": animal.ID, "date": today, "carcass_weight": "250", "sale_price": "10", "kdv": "0.18",
	}, http.StatusConflict, nil)

	// 2500 − (1000 + 40 + 450)
	var profit dto.ProfitResponse
	env.get(t, "/v1/slaughters/"+slaughter.ID+"/profit", &profit)
	assert.Equal(t, "1010.00", profit.Profit.StringFixed(2))

	env.get(t, "/v1/animal-ration-logs?animal="+animal.ID, &logs)
	require.Len(t, logs, 1)
	assert.False(t, logs[0].IsActive)

	resp := do(t, env.server, "GET", "/v1/slaughters/"+slaughter.ID+"/statement.pdf", nil, env.token)
	mustStatus(t, resp, http.StatusOK)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	resp.Body.Close()
}

// Changing a component writes change logs and evicts the cached table cost.
func TestE2E_ComponentChangeInvalidatesCost(t *testing.T) {
	env := setupTestEnv(t)

	var table dto.RationTableResponse
	env.post(t, "/v1/ration-tables", map[string]string{"name": "Finisher"}, http.StatusCreated, &table)
	var corn dto.RationComponentResponse
	env.post(t, "/v1/ration-components", map[string]any{
		"name": "Corn", "dry_matter": "88", "calorie": "3.4", "starch": "70", "price": "0.30",
	}, http.StatusCreated, &corn)
	env.post(t, "/v1/ration-table-components", map[string]any{
		"ration_table_id": table.ID, "component_id": corn.ID, "quantity": "10",
	}, http.StatusCreated, nil)

	var cost dto.RationCostResponse
	env.get(t, "/v1/ration-tables/"+table.ID+"/compute-cost", &cost)
	assert.Equal(t, "3.00", cost.Cost.StringFixed(2))

	resp := do(t, env.server, "PUT", "/v1/ration-components/"+corn.ID, jsonBody(t, map[string]string{"price": "0.40"}), env.token)
	mustStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	env.get(t, "/v1/ration-tables/"+table.ID+"/compute-cost", &cost)
	assert.Equal(t, "4.00", cost.Cost.StringFixed(2))

	var changes []dto.ComponentChangeLogResponse
	env.get(t, "/v1/ration-logs/component-change-logs/component/"+corn.ID, &changes)
	var priceChanges int
	for _, c := range changes {
		if c.FieldName == "price" {
			priceChanges++
		}
	}
	assert.Equal(t, 2, priceChanges)
}

func TestE2E_AuthGuards(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/v1/animals", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "wrong-password"}), "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "GET", "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var dead dto.DeadLetterListResponse
	env.get(t, "/v1/jobs/email/dead-letters", &dead)
	assert.Zero(t, dead.Total)

	var requeued dto.RequeueResponse
	env.post(t, "/v1/jobs/email/dead-letters/requeue", nil, http.StatusOK, &requeued)
	assert.Zero(t, requeued.Requeued)
}
