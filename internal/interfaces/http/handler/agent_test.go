package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	agentapp "github.com/agentdesk/backend/internal/application/agent"
	"github.com/agentdesk/backend/internal/domain/agent"
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/agentdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAgentRepository implements agent.Repository for testing
type MockAgentRepository struct {
	mock.Mock
}

func (m *MockAgentRepository) FindByID(ctx context.Context, id uuid.UUID) (*agent.Agent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agent.Agent), args.Error(1)
}

func (m *MockAgentRepository) FindByCode(ctx context.Context, code string) (*agent.Agent, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agent.Agent), args.Error(1)
}

func (m *MockAgentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]agent.Agent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]agent.Agent), args.Error(1)
}

func (m *MockAgentRepository) FindActive(ctx context.Context) ([]agent.Agent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]agent.Agent), args.Error(1)
}

func (m *MockAgentRepository) Save(ctx context.Context, ag *agent.Agent) error {
	args := m.Called(ctx, ag)
	return args.Error(0)
}

func (m *MockAgentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAgentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAgentRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockAgentRepository) GenerateAgentCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

var _ agent.Repository = (*MockAgentRepository)(nil)

func newAgentTestServer(repo *MockAgentRepository) *gin.Engine {
	engine := gin.New()
	h := NewAgentHandler(agentapp.NewService(repo))
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func testAgent(t *testing.T) *agent.Agent {
	t.Helper()
	ag, err := agent.NewAgent("Sunrise Travel Ltd", "Li Wei", agent.LevelA)
	require.NoError(t, err)
	ag.Code = "AGT2026031501"
	return ag
}

func TestAgentHandlerCreate(t *testing.T) {
	t.Run("creates agent", func(t *testing.T) {
		repo := new(MockAgentRepository)
		repo.On("GenerateAgentCode", mock.Anything).Return("AGT2026031501", nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*agent.Agent")).Return(nil)

		engine := newAgentTestServer(repo)

		body, _ := json.Marshal(map[string]string{
			"company_name": "Sunrise Travel Ltd",
			"contact_name": "Li Wei",
			"level":        "A",
		})
		req := httptest.NewRequest("POST", "/api/v1/agents", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "AGT2026031501", data["code"])
		assert.Equal(t, "ACTIVE", data["status"])
		repo.AssertExpectations(t)
	})

	t.Run("rejects missing company name", func(t *testing.T) {
		repo := new(MockAgentRepository)
		engine := newAgentTestServer(repo)

		body, _ := json.Marshal(map[string]string{
			"contact_name": "Li Wei",
			"level":        "A",
		})
		req := httptest.NewRequest("POST", "/api/v1/agents", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		repo.AssertNotCalled(t, "Save")
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		repo := new(MockAgentRepository)
		engine := newAgentTestServer(repo)

		body, _ := json.Marshal(map[string]string{
			"company_name": "Sunrise Travel Ltd",
			"contact_name": "Li Wei",
			"level":        "Z",
		})
		req := httptest.NewRequest("POST", "/api/v1/agents", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAgentHandlerGet(t *testing.T) {
	t.Run("returns agent", func(t *testing.T) {
		ag := testAgent(t)
		repo := new(MockAgentRepository)
		repo.On("FindByID", mock.Anything, ag.ID).Return(ag, nil)

		engine := newAgentTestServer(repo)

		req := httptest.NewRequest("GET", "/api/v1/agents/"+ag.ID.String(), nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "Sunrise Travel Ltd", data["company_name"])
	})

	t.Run("404 when missing", func(t *testing.T) {
		repo := new(MockAgentRepository)
		repo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		engine := newAgentTestServer(repo)

		req := httptest.NewRequest("GET", "/api/v1/agents/"+uuid.NewString(), nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("400 on malformed id", func(t *testing.T) {
		repo := new(MockAgentRepository)
		engine := newAgentTestServer(repo)

		req := httptest.NewRequest("GET", "/api/v1/agents/not-a-uuid", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		repo.AssertNotCalled(t, "FindByID")
	})
}

func TestAgentHandlerGetByCode(t *testing.T) {
	ag := testAgent(t)
	repo := new(MockAgentRepository)
	repo.On("FindByCode", mock.Anything, "AGT2026031501").Return(ag, nil)

	engine := newAgentTestServer(repo)

	req := httptest.NewRequest("GET", "/api/v1/agents/code/AGT2026031501", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAgentHandlerList(t *testing.T) {
	t.Run("returns page with meta", func(t *testing.T) {
		ag := testAgent(t)
		repo := new(MockAgentRepository)
		repo.On("FindAll", mock.Anything, mock.Anything).Return([]agent.Agent{*ag}, nil)
		repo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

		engine := newAgentTestServer(repo)

		req := httptest.NewRequest("GET", "/api/v1/agents?status=ACTIVE&page=1&page_size=20", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(1), resp.Meta.Total)
		assert.Equal(t, 1, resp.Meta.Page)
	})

	t.Run("rejects invalid status filter", func(t *testing.T) {
		repo := new(MockAgentRepository)
		engine := newAgentTestServer(repo)

		req := httptest.NewRequest("GET", "/api/v1/agents?status=BOGUS", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAgentHandlerTransitions(t *testing.T) {
	t.Run("disable then enable", func(t *testing.T) {
		ag := testAgent(t)
		repo := new(MockAgentRepository)
		repo.On("FindByID", mock.Anything, ag.ID).Return(ag, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*agent.Agent")).Return(nil)

		engine := newAgentTestServer(repo)

		req := httptest.NewRequest("POST", "/api/v1/agents/"+ag.ID.String()+"/disable", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "DISABLED", data["status"])

		req = httptest.NewRequest("POST", "/api/v1/agents/"+ag.ID.String()+"/enable", nil)
		w = httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data = resp.Data.(map[string]interface{})
		assert.Equal(t, "ACTIVE", data["status"])
	})

	t.Run("freeze", func(t *testing.T) {
		ag := testAgent(t)
		repo := new(MockAgentRepository)
		repo.On("FindByID", mock.Anything, ag.ID).Return(ag, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*agent.Agent")).Return(nil)

		engine := newAgentTestServer(repo)

		req := httptest.NewRequest("POST", "/api/v1/agents/"+ag.ID.String()+"/freeze", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAgentHandlerDelete(t *testing.T) {
	ag := testAgent(t)
	repo := new(MockAgentRepository)
	repo.On("FindByID", mock.Anything, ag.ID).Return(ag, nil)
	repo.On("Delete", mock.Anything, ag.ID).Return(nil)

	engine := newAgentTestServer(repo)

	req := httptest.NewRequest("DELETE", "/api/v1/agents/"+ag.ID.String(), nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	repo.AssertExpectations(t)
}
