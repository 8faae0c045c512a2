package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/fee-ledger/internal/auth"
	"github.com/segyhp/fee-ledger/internal/domain"
	"github.com/segyhp/fee-ledger/internal/handler"
	"github.com/segyhp/fee-ledger/internal/mocks"
	customError "github.com/segyhp/fee-ledger/pkg/errors"
	"github.com/segyhp/fee-ledger/pkg/logger"
)

type testServer struct {
	server     *httptest.Server
	tokens     *auth.TokenVerifier
	fees       *mocks.MockFeeService
	billing    *mocks.MockBillingService
	ledger     *mocks.MockLedgerService
	statements *mocks.MockStatementService
	settings   *mocks.MockSettingsService
}

func newTestServer(t *testing.T, redisErr error) *testServer {
	t.Helper()
	ts := &testServer{
		tokens:     auth.NewTokenVerifier("route-secret", "fee-ledger"),
		fees:       new(mocks.MockFeeService),
		billing:    new(mocks.MockBillingService),
		ledger:     new(mocks.MockLedgerService),
		statements: new(mocks.MockStatementService),
		settings:   new(mocks.MockSettingsService),
	}

	ok := handler.PingFunc(func(context.Context) error { return nil })
	redis := handler.PingFunc(func(context.Context) error { return redisErr })

	h := handlers{
		health:     handler.NewHealthHandler(ok, redis, time.Second),
		fees:       handler.NewFeeHandler(ts.fees, ts.billing),
		payments:   handler.NewPaymentHandler(ts.ledger),
		statements: handler.NewStatementHandler(ts.statements),
		settings:   handler.NewSettingsHandler(ts.settings),
	}
	ts.server = httptest.NewServer(setupRoutes(h, ts.tokens, logger.Nop()))
	t.Cleanup(func() {
		ts.server.Close()
		ts.fees.AssertExpectations(t)
		ts.billing.AssertExpectations(t)
		ts.ledger.AssertExpectations(t)
		ts.statements.AssertExpectations(t)
		ts.settings.AssertExpectations(t)
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, principal *auth.Principal, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(method, ts.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if principal != nil {
		token, err := ts.tokens.Issue(principal, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var envelope map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
	return res, envelope
}

func principalIs(userID string, role auth.Role) interface{} {
	return mock.MatchedBy(func(p *auth.Principal) bool {
		return p != nil && p.UserID == userID && p.Role == role
	})
}

func TestRoutes_Health(t *testing.T) {
	ts := newTestServer(t, nil)

	res, envelope := ts.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))

	res, _ = ts.do(t, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestRoutes_ReadyReportsRedisOutage(t *testing.T) {
	ts := newTestServer(t, errors.New("connection refused"))

	res, _ := ts.do(t, http.MethodGet, "/health/ready", nil, "")

	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
}

func TestRoutes_APIRequiresToken(t *testing.T) {
	ts := newTestServer(t, nil)

	res, envelope := ts.do(t, http.MethodGet, "/api/v1/fee-structures", nil, "")

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "UNAUTHENTICATED", envelope["code"])
}

func TestRoutes_CashPaymentFlow(t *testing.T) {
	ts := newTestServer(t, nil)
	studentID := uuid.New()
	recordID := uuid.New()
	admin := &auth.Principal{UserID: "admin-1", Role: auth.RoleAdmin}

	ts.ledger.On("RecordCashPayment", mock.Anything, principalIs("admin-1", auth.RoleAdmin), studentID, mock.Anything).
		Return(&domain.PaymentReceipt{
			Payment:   &domain.Payment{ID: uuid.New(), StudentID: studentID, FeeRecordID: &recordID, Amount: 50000, Currency: "INR", Status: domain.PaymentStatusPaid, PaymentMode: domain.PaymentModeCash},
			FeeRecord: &domain.FeeRecord{ID: recordID, StudentID: studentID, Amount: 100000, AmountPaid: 50000, Status: domain.FeeStatusPartiallyPaid},
		}, nil).Once()

	res, envelope := ts.do(t, http.MethodPost, "/api/v1/students/"+studentID.String()+"/payments/cash", admin, `{"amount": "500"}`)

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, true, envelope["success"])
}

func TestRoutes_BusinessErrorsMapToStatus(t *testing.T) {
	ts := newTestServer(t, nil)
	teacher := &auth.Principal{UserID: "teacher-1", Role: auth.RoleTeacher}

	ts.billing.On("GenerateMonthlyFees", mock.Anything, principalIs("teacher-1", auth.RoleTeacher)).
		Return(nil, customError.WrapForbidden("fees:generate")).Once()
	ts.billing.On("GenerateMonthlyFees", mock.Anything, principalIs("admin-1", auth.RoleAdmin)).
		Return(nil, customError.NewBusinessError(customError.ErrCodeGenerationInProgress, "generation already running", nil)).Once()

	res, envelope := ts.do(t, http.MethodPost, "/api/v1/fees/generate", teacher, "")
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, "FORBIDDEN", envelope["code"])

	res, envelope = ts.do(t, http.MethodPost, "/api/v1/fees/generate", &auth.Principal{UserID: "admin-1", Role: auth.RoleAdmin}, "")
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t, "GENERATION_IN_PROGRESS", envelope["code"])
}

func TestRoutes_ParentOverviewUsesTokenSubject(t *testing.T) {
	ts := newTestServer(t, nil)
	parent := &auth.Principal{UserID: "parent-7", Role: auth.RoleParent}

	ts.statements.On("ParentOverview", mock.Anything, principalIs("parent-7", auth.RoleParent), "parent-7").
		Return(&domain.ParentOverview{Children: []*domain.Statement{}}, nil).Once()

	res, _ := ts.do(t, http.MethodGet, "/api/v1/parents/me/fees", parent, "")

	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestRoutes_MethodMismatch(t *testing.T) {
	ts := newTestServer(t, nil)
	admin := &auth.Principal{UserID: "admin-1", Role: auth.RoleAdmin}

	req, err := http.NewRequest(http.MethodDelete, ts.server.URL+"/api/v1/settings", nil)
	require.NoError(t, err)
	token, err := ts.tokens.Issue(admin, time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}
