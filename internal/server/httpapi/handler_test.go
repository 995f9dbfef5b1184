package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/nuudash/internal/common"
	"github.com/dmitrijs2005/nuudash/internal/logging"
	"github.com/dmitrijs2005/nuudash/internal/server/entitlement"
	"github.com/dmitrijs2005/nuudash/internal/server/models"
	"github.com/dmitrijs2005/nuudash/internal/server/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	payload  view.Payload
	err      error
	readyErr error

	gotToken  string
	gotFilter models.HistoryFilter
}

func (f *fakeService) Dashboard(ctx context.Context, token string, filter models.HistoryFilter) (view.Payload, error) {
	f.gotToken = token
	f.gotFilter = filter
	return f.payload, f.err
}

func (f *fakeService) Ready(ctx context.Context) error { return f.readyErr }

func premiumPayload() view.PremiumView {
	return view.PremiumView{
		Membership: entitlement.Premium,
		Header:     view.Header{Name: "Bernardo Ruiz", ShortID: "c4f45cd0", MonthlyIncome: "9000000.00", Membership: entitlement.Premium},
		Score:      view.PremiumScore{Available: false},
	}
}

func newRouter(svc *fakeService) http.Handler {
	return NewHandler(svc, logging.Discard()).Router()
}

func TestDashboard_OK(t *testing.T) {
	svc := &fakeService{payload: premiumPayload()}

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?kind=Debit&institution=Nequi&institution=Davivienda", nil)
	req.Header.Set("Authorization", "Bearer tok-9")
	rec := httptest.NewRecorder()

	newRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "tok-9", svc.gotToken)
	assert.Equal(t, []models.OperationKind{models.Debit}, svc.gotFilter.Kinds)
	assert.Equal(t, []string{"Nequi", "Davivienda"}, svc.gotFilter.Institutions)

	p, err := view.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, entitlement.Premium, p.Tier())
}

func TestDashboard_NoFilter(t *testing.T) {
	svc := &fakeService{payload: premiumPayload()}

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.gotFilter.IsZero())
}

func TestDashboard_UnknownKind(t *testing.T) {
	svc := &fakeService{payload: premiumPayload()}

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?kind=Refund", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.gotToken)
}

func TestDashboard_RequiresBearer(t *testing.T) {
	for _, header := range []string{"", "Basic abc", "Bearer ", "tok"} {
		svc := &fakeService{payload: premiumPayload()}

		req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.Empty(t, svc.gotToken, header)
	}
}

func TestDashboard_ErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		code int
		msg  string
	}{
		{fmt.Errorf("load: %w", common.ErrDatasetUnavailable), http.StatusServiceUnavailable, "dataset unavailable"},
		{common.ErrIdentityUnresolved, http.StatusUnauthorized, "identity unresolved"},
		{fmt.Errorf("resolve: %w", common.ErrClientNotFound), http.StatusNotFound, "client not found"},
		{fmt.Errorf("whoami: %w", &common.AuthError{Status: 401, Detail: "Not authenticated"}), http.StatusUnauthorized, "Not authenticated"},
		{common.ErrAuthUnavailable, http.StatusServiceUnavailable, "identity provider unavailable"},
		{common.ErrTokenExpired, http.StatusUnauthorized, "token expired"},
		{common.NewValidationError("kind", "bad kind"), http.StatusBadRequest, "bad kind"},
		{assert.AnError, http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
			req.Header.Set("Authorization", "Bearer tok")
			rec := httptest.NewRecorder()
			newRouter(&fakeService{err: tt.err}).ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.msg, body.Error)
		})
	}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&fakeService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	newRouter(&fakeService{readyErr: common.ErrDatasetUnavailable}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_ServeAndStop(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewServer("", NewHandler(&fakeService{}, logging.Discard()), logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	resp, err := http.Get("http://" + lis.Addr().String() + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"OK"}`, string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
