package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/api"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/api/handler"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/api/middleware"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/application"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/sequence"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/infrastructure/memory"
)

// TestServer はE2Eテスト用のサーバー
// テストごとにデモカタログを投入したインメモリストアを持つ
type TestServer struct {
	Echo  *echo.Echo
	Audit *application.AuditService
}

// NewTestServer はテスト用サーバーを作成
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	db := memory.NewDemoDatabase()
	ids, err := memory.NewSequenceGenerator(sequence.DefaultSettings())
	require.NoError(t, err)

	txManager := memory.NewTxManager()
	userRepo := memory.NewUserRepository(db)
	performanceRepo := memory.NewPerformanceRepository(db)
	reservationRepo := memory.NewReservationRepository(db)

	accountService := application.NewAccountService(userRepo, ids)
	bookingService := application.NewBookingService(txManager, userRepo, performanceRepo, reservationRepo, ids, nil, nil,
		application.BookingOptions{MaxConflictRetries: 3})
	lookupService := application.NewLookupService(performanceRepo, performanceRepo, nil)

	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	middleware.SetupMiddleware(e)

	e.GET("/health", handler.NewHealthHandler().Check)
	handler.RegisterRoutes(e.Group("/api/v1"),
		handler.NewAccountHandler(accountService),
		handler.NewBookingHandler(bookingService),
		handler.NewLookupHandler(lookupService),
	)

	return &TestServer{
		Echo:  e,
		Audit: application.NewAuditService(performanceRepo, reservationRepo),
	}
}

// Do はリクエストを送信してレスポンスを返す
func (s *TestServer) Do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

// Register は会員を登録する
func (s *TestServer) Register(t *testing.T, username string) int64 {
	t.Helper()
	rec := s.Do(http.MethodPost, "/api/v1/users", map[string]string{"username": username, "name": username})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp handler.RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.UserID
}

// Book は1席予約する
func (s *TestServer) Book(username string, performanceID int64) *httptest.ResponseRecorder {
	return s.Do(http.MethodPost, "/api/v1/reservations", map[string]interface{}{
		"username":       username,
		"performance_id": performanceID,
	})
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
