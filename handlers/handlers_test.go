package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"legalaid-backend/database"
	"legalaid-backend/legal"
	"legalaid-backend/middleware"
	"legalaid-backend/repository"
	"legalaid-backend/service"
	"legalaid-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	db, err := database.Open(ctx, database.DriverSQLite, "file::memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx))
	t.Cleanup(db.Close)

	st, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	tables := legal.MustLoadTables()
	pipeline := legal.NewPipeline(tables, legal.PipelineConfig{StepsMode: legal.StepsStatic})

	users := repository.NewUserRepository(db.DB)
	cases := repository.NewCaseRepository(db.DB)
	auth := service.NewAuthService(users, "test-secret", time.Hour, service.AuthWithBcryptCost(bcrypt.MinCost))
	caseSvc := service.NewCaseService(
		service.CaseWithRepository(cases),
		service.CaseWithFeedbackRepository(repository.NewFeedbackRepository(db.DB)),
		service.CaseWithPipeline(pipeline),
		service.CaseWithStorage(st),
	)
	chat := service.NewChatService(repository.NewMemoryChatHistory(10))

	r := gin.New()
	Routes{
		Auth:        NewAuthHandler(auth, nil),
		Cases:       NewCaseHandler(caseSvc, chat, nil),
		Attachments: NewAttachmentHandler(service.NewAttachmentService(repository.NewAttachmentRepository(db.DB), cases, st, nil), nil),
		NGOs:        NewNGOHandler(pipeline.NGOs()),
		RequireAuth: middleware.RequireAuth(auth, nil),
		Database:    db,
		AppName:     "Legal Aid Platform",
	}.Register(r)

	return &testServer{t: t, router: r}
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func (s *testServer) signup(username, location string) string {
	s.t.Helper()
	body := gin.H{"email": username + "@example.com", "username": username, "full_name": "Test " + username, "password": "password123"}
	if location != "" {
		body["location"] = location
	}
	w, env := s.do(http.MethodPost, "/auth/signup", "", body)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var tok service.TokenResult
	require.NoError(s.t, json.Unmarshal(env.Data, &tok))
	assert.Equal(s.t, "bearer", tok.TokenType)
	return tok.AccessToken
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("asha", "Mumbai")

	w, env := s.do(http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "asha", me["username"])
	assert.NotContains(t, me, "hashed_password")

	w, env = s.do(http.MethodPost, "/auth/signup", "", gin.H{"email": "asha@example.com", "username": "asha2", "full_name": "x", "password": "password123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	w, _ = s.do(http.MethodPost, "/auth/login", "", gin.H{"username": "asha", "password": "password123"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodPost, "/auth/login", "", gin.H{"username": "asha", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	w, _ = s.do(http.MethodGet, "/api/cases", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCaseLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("asha", "Mumbai")

	w, env := s.do(http.MethodPost, "/api/cases", token, gin.H{
		"title":       "Defective smartphone",
		"description": "I purchased a defective smartphone. The seller is refusing a refund.",
		"category":    "consumer protection",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		CaseID         string                   `json:"case_id"`
		Location       string                   `json:"location"`
		Status         string                   `json:"status"`
		GeneratedDraft string                   `json:"generated_draft"`
		ApplicableLaws []map[string]interface{} `json:"applicable_laws"`
		NextSteps      []string                 `json:"next_steps"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Mumbai", created.Location)
	assert.Equal(t, "pending", created.Status)
	assert.Contains(t, created.GeneratedDraft, "MUMBAI")
	assert.NotEmpty(t, created.ApplicableLaws)
	assert.NotEmpty(t, created.NextSteps)

	base := "/api/cases/" + created.CaseID

	w, _ = s.do(http.MethodGet, base, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	other := s.signup("ravi", "")
	w, env = s.do(http.MethodGet, base, other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	w, _ = s.do(http.MethodGet, "/api/cases/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPatch, base, token, gin.H{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = s.do(http.MethodPatch, base, token, gin.H{"status": "in_progress"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodPost, base+"/feedback", token, gin.H{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = s.do(http.MethodPost, base+"/feedback", token, gin.H{"rating": 4, "comments": "clear draft"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w, env = s.do(http.MethodPost, base+"/next-steps", token, gin.H{"steps": []string{"Visit the commission"}})
	require.Equal(t, http.StatusOK, w.Code)
	w, env = s.do(http.MethodGet, base+"/next-steps", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"steps":["Visit the commission"]}`, string(env.Data))

	w, _ = s.do(http.MethodGet, base+"/draft/download", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(http.MethodPost, base+"/draft/export", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, base+"/draft/download", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.GeneratedDraft, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Defective smartphone.txt")

	w, env = s.do(http.MethodGet, "/api/cases?status=in_progress", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)
}

func TestGenerateDoesNotPersist(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("asha", "")

	w, env := s.do(http.MethodPost, "/api/cases/generate", token, gin.H{
		"title":       "Threats",
		"description": "My neighbour threatened to kill me.",
		"category":    "criminal law",
		"location":    "Pune",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var res service.GenerateResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Contains(t, res.Draft, "FIRST INFORMATION REPORT")

	w, env = s.do(http.MethodGet, "/api/cases", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	w, _ = s.do(http.MethodPost, "/api/cases/generate", token, gin.H{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatWithoutBackendApologises(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("asha", "")

	w, env := s.do(http.MethodPost, "/api/cases/chat", token, gin.H{"message": "What can I do?"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"response":"`+service.ChatApology+`"}`, string(env.Data))
}

func TestNGODirectory(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("asha", "")

	w, env := s.do(http.MethodGet, "/api/ngos/category/Women%20Rights", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ngos []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &ngos))
	assert.NotEmpty(t, ngos)

	w, env = s.do(http.MethodGet, "/api/ngos/search?category=Unknown", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestAttachmentUploadAndDownload(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("asha", "")

	_, env := s.do(http.MethodPost, "/api/cases", token, gin.H{"title": "Salary", "description": "Salary unpaid.", "category": "labour law"})
	var created struct {
		CaseID string `json:"case_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "payslip.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("March payslip"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/cases/"+created.CaseID+"/attachments", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var up envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &up))
	var att struct {
		ID       string `json:"id"`
		MimeType string `json:"mime_type"`
	}
	require.NoError(t, json.Unmarshal(up.Data, &att))
	assert.Equal(t, "text/plain", att.MimeType)

	w, _ = s.do(http.MethodGet, "/api/attachments/"+att.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "March payslip", w.Body.String())
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}
