// Файл: internal/routes/main_router_test.go
package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"treecare-system/internal/dataset"
	"treecare-system/internal/offline"
	"treecare-system/internal/services"
	"treecare-system/pkg/customvalidator"
	apperrors "treecare-system/pkg/errors"
	"treecare-system/pkg/utils"
	appwebsocket "treecare-system/pkg/websocket"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// memoryCacheRepo подменяет Redis: API-тесты гоняются без внешних сервисов.
type memoryCacheRepo struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{data: make(map[string]string)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", apperrors.ErrCacheMiss
	}
	return val, nil
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *memoryCacheRepo) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memoryCacheRepo) Keys(ctx context.Context, pattern string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// TicketAPITestSuite — набор тестов всего HTTP-слоя поверх вшитого
// статического набора данных (кеш пуст, бекенд не настроен).
type TicketAPITestSuite struct {
	suite.Suite
	Echo            *echo.Echo
	CreatedTicketID uint64
	StaticTickets   int
}

func (s *TicketAPITestSuite) SetupSuite() {
	e := echo.New()
	nopLogger := zap.NewNop()

	v := validator.New()
	s.Require().NoError(customvalidator.RegisterCustomValidations(v))
	e.Validator = utils.NewValidator(v)

	cacheRepo := newMemoryCacheRepo()
	orchestrator := services.NewDataOrchestrator(nil, cacheRepo, nopLogger)

	hub := appwebsocket.NewHub(nopLogger)
	go hub.Run()

	// Ориджин не поднимается: проверяем и офлайн-ветку прокси.
	assetCache := offline.NewRedisAssetCache(cacheRepo)
	proxy := offline.NewProxy("http://127.0.0.1:1", "v-test", assetCache, nopLogger)

	InitRouter(e, orchestrator, proxy, hub, nopLogger)
	s.Echo = e

	static, err := dataset.LoadStatic()
	s.Require().NoError(err)
	s.StaticTickets = len(static.Tickets)
}

func (s *TicketAPITestSuite) request(method, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func envelopeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var responseBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &responseBody))
	body, _ := responseBody["body"].(map[string]interface{})
	return body
}

func (s *TicketAPITestSuite) TestFullTicketWorkflow() {
	s.Run("1_GetSnapshot", func() {
		rec := s.request(http.MethodGet, "/api/snapshot", "")
		assert.Equal(s.T(), http.StatusOK, rec.Code)

		body := envelopeBody(s.T(), rec)
		tickets, _ := body["tickets"].([]interface{})
		assert.Len(s.T(), tickets, s.StaticTickets, "без кеша и бекенда отдаётся вшитый набор")
		assert.NotEmpty(s.T(), body["zones"], "справочники всегда присутствуют")
	})

	s.Run("2_CreateTicket", func() {
		payload := `{"title": "Сломанная ветвь над входом в корпус", "category": "damage", "zone": "main", "damageType": "broken"}`
		rec := s.request(http.MethodPost, "/api/tickets", payload)
		assert.Equal(s.T(), http.StatusCreated, rec.Code, "Ожидался статус 201 Created. Body: %s", rec.Body.String())

		body := envelopeBody(s.T(), rec)
		idFloat, _ := body["id"].(float64)
		assert.Greater(s.T(), idFloat, float64(s.StaticTickets), "id новой заявки больше максимума вшитых")
		assert.Equal(s.T(), "new", body["status"], "статус по умолчанию")
		assert.Equal(s.T(), "normal", body["priority"], "приоритет по умолчанию")
		assert.Equal(s.T(), "Главный корпус", body["zoneName"])
		s.CreatedTicketID = uint64(idFloat)
	})

	s.Run("3_FindTicket", func() {
		s.Require().NotZero(s.CreatedTicketID)

		rec := s.request(http.MethodGet, fmt.Sprintf("/api/tickets/%d", s.CreatedTicketID), "")
		assert.Equal(s.T(), http.StatusOK, rec.Code)

		body := envelopeBody(s.T(), rec)
		assert.Equal(s.T(), "Сломанная ветвь над входом в корпус", body["title"])
	})

	s.Run("4_UpdateTicket", func() {
		s.Require().NotZero(s.CreatedTicketID)

		payload := `{"status": "inProgress", "assignees": ["Игорь Семёнов"]}`
		rec := s.request(http.MethodPut, fmt.Sprintf("/api/tickets/%d", s.CreatedTicketID), payload)
		assert.Equal(s.T(), http.StatusOK, rec.Code, "Ожидался статус 200 OK при обновлении. Body: %s", rec.Body.String())

		body := envelopeBody(s.T(), rec)
		assert.Equal(s.T(), "inProgress", body["status"])
		assert.Equal(s.T(), "Сломанная ветвь над входом в корпус", body["title"], "незатронутые поля не меняются")
	})

	s.Run("5_StatsReflectChanges", func() {
		rec := s.request(http.MethodGet, "/api/stats", "")
		assert.Equal(s.T(), http.StatusOK, rec.Code)

		body := envelopeBody(s.T(), rec)
		total, _ := body["total"].(float64)
		inProgress, _ := body["inProgress"].(float64)
		assert.EqualValues(s.T(), s.StaticTickets+1, total)
		assert.GreaterOrEqual(s.T(), inProgress, float64(1))
	})
}

func (s *TicketAPITestSuite) TestGetTickets_FilterQuery() {
	rec := s.request(http.MethodGet, "/api/tickets?status=new&limit=3&page=1", "")
	assert.Equal(s.T(), http.StatusOK, rec.Code)

	body := envelopeBody(s.T(), rec)
	list, _ := body["list"].([]interface{})
	assert.LessOrEqual(s.T(), len(list), 3)
	for _, item := range list {
		ticket, _ := item.(map[string]interface{})
		assert.Equal(s.T(), "new", ticket["status"])
	}
}

func (s *TicketAPITestSuite) TestCreateTicket_ValidationFails() {
	// title короче трёх символов и выдуманный статус.
	payload := `{"title": "ab", "category": "damage", "zone": "main", "status": "done"}`
	rec := s.request(http.MethodPost, "/api/tickets", payload)
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code, "Ожидался статус 400 Bad Request. Body: %s", rec.Body.String())
}

func (s *TicketAPITestSuite) TestFindTicket_NotFound() {
	rec := s.request(http.MethodGet, "/api/tickets/99999", "")
	assert.Equal(s.T(), http.StatusNotFound, rec.Code)
}

func (s *TicketAPITestSuite) TestFindTicket_BadID() {
	rec := s.request(http.MethodGet, "/api/tickets/abc", "")
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func (s *TicketAPITestSuite) TestReport_JSONAndXLSX() {
	rec := s.request(http.MethodGet, "/api/report", "")
	assert.Equal(s.T(), http.StatusOK, rec.Code)
	body := envelopeBody(s.T(), rec)
	assert.NotNil(s.T(), body["list"])

	rec = s.request(http.MethodGet, "/api/report?format=xlsx", "")
	assert.Equal(s.T(), http.StatusOK, rec.Code)
	assert.Equal(s.T(),
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get(echo.HeaderContentType))
	assert.Contains(s.T(), rec.Header().Get("Content-Disposition"), "attachment; filename=report_")
	assert.NotZero(s.T(), rec.Body.Len())
}

func (s *TicketAPITestSuite) TestSnapshotReload() {
	rec := s.request(http.MethodPost, "/api/snapshot/reload", "")
	assert.Equal(s.T(), http.StatusOK, rec.Code, "Body: %s", rec.Body.String())

	body := envelopeBody(s.T(), rec)
	assert.NotNil(s.T(), body["tickets"])
}

func (s *TicketAPITestSuite) TestAssets_OfflineWithoutCache() {
	rec := s.request(http.MethodGet, "/assets/js/unknown.js", "")
	assert.Equal(s.T(), http.StatusServiceUnavailable, rec.Code)
	assert.Equal(s.T(), "Offline", rec.Body.String())
}

func (s *TicketAPITestSuite) TestMetricsEndpoint() {
	rec := s.request(http.MethodGet, "/metrics", "")
	assert.Equal(s.T(), http.StatusOK, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), "treecare_")
}

func TestTicketAPISuite(t *testing.T) {
	suite.Run(t, new(TicketAPITestSuite))
}
