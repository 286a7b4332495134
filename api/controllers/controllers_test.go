package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/siteadmin-backend/api/validators"
	"github.com/angelmondragon/siteadmin-backend/internal/blog"
	"github.com/angelmondragon/siteadmin-backend/internal/brands"
	"github.com/angelmondragon/siteadmin-backend/internal/leads"
	"github.com/angelmondragon/siteadmin-backend/internal/settings"
	"github.com/angelmondragon/siteadmin-backend/internal/testsupport"
	pkgAuth "github.com/angelmondragon/siteadmin-backend/pkg/auth"
	"github.com/angelmondragon/siteadmin-backend/pkg/config"
	"github.com/angelmondragon/siteadmin-backend/pkg/logger"
	"github.com/angelmondragon/siteadmin-backend/pkg/storage/memory"
)

var testLogger = logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code    string          `json:"code"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func serve(t *testing.T, h http.HandlerFunc, req *http.Request, params map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rc := chi.NewRouteContext()
	for k, v := range params {
		rc.URLParams.Add(k, v)
	}
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(t *testing.T, method, target, payload string, files map[string][]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField(validators.PayloadField, payload))
	for field, data := range files {
		part, err := mw.CreateFormFile(field, field+".png")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newBrandService(t *testing.T) (brands.Service, *memory.Store) {
	t.Helper()
	client := testsupport.OpenDB(t)
	manager, store := testsupport.Assets(t)
	svc, err := brands.NewService(brands.NewRepository(client.DB()), manager)
	require.NoError(t, err)
	return svc, store
}

func TestBrandLifecycleOverHTTP(t *testing.T) {
	svc, store := newBrandService(t)

	req := multipartRequest(t, http.MethodPost, "/brands", `{"name":"Acme Tools"}`, map[string][]byte{brands.FieldLogo: testsupport.PNG})
	rec, env := serve(t, AdminSaveBrand(svc, testLogger), req, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created brands.BrandDTO
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "acme-tools", created.Slug)
	assert.NotEmpty(t, created.LogoURL)
	assert.Equal(t, 1, store.Len())

	id := created.ID.String()
	req = jsonRequest(http.MethodPut, "/brands/"+id, `{"name":"Acme Tools","is_featured":true}`)
	rec, env = serve(t, AdminSaveBrand(svc, testLogger), req, map[string]string{"id": id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated brands.BrandDTO
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, created.LogoURL, updated.LogoURL)
	assert.True(t, updated.IsFeatured)

	rec, env = serve(t, PublicListBrands(svc, testLogger), httptest.NewRequest(http.MethodGet, "/brands?featured=true", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var featured []brands.BrandDTO
	require.NoError(t, json.Unmarshal(env.Data, &featured))
	assert.Len(t, featured, 1)

	rec, _ = serve(t, AdminDeleteBrand(svc, testLogger), httptest.NewRequest(http.MethodDelete, "/brands/"+id, nil), map[string]string{"id": id})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, store.Len())

	rec, env = serve(t, AdminGetBrand(svc, testLogger), httptest.NewRequest(http.MethodGet, "/brands/"+id, nil), map[string]string{"id": id})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestSaveRejectsBadInputBeforeUpload(t *testing.T) {
	svc, store := newBrandService(t)

	req := multipartRequest(t, http.MethodPost, "/brands", `{"name":""}`, map[string][]byte{brands.FieldLogo: testsupport.PNG})
	rec, env := serve(t, AdminSaveBrand(svc, testLogger), req, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, 0, store.Len())

	rec, _ = serve(t, AdminGetBrand(svc, testLogger), httptest.NewRequest(http.MethodGet, "/brands/nope", nil), map[string]string{"id": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettingsOverHTTP(t *testing.T) {
	client := testsupport.OpenDB(t)
	manager, _ := testsupport.Assets(t)
	svc, err := settings.NewService(settings.NewRepository(client.DB()), manager)
	require.NoError(t, err)

	req := multipartRequest(t, http.MethodPut, "/settings/site", `{"site_name":"Acme","contact_email":"hola@acme.test"}`, map[string][]byte{settings.FieldLogo: testsupport.PNG})
	rec, _ := serve(t, AdminSaveSettings(svc, testLogger), req, map[string]string{"kind": "site"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env := serve(t, GetSettings(svc, testLogger), httptest.NewRequest(http.MethodGet, "/settings/site", nil), map[string]string{"kind": "site"})
	require.Equal(t, http.StatusOK, rec.Code)
	var site settings.SiteDTO
	require.NoError(t, json.Unmarshal(env.Data, &site))
	assert.Equal(t, "Acme", site.SiteName)
	assert.NotEmpty(t, site.LogoURL)

	rec, _ = serve(t, GetSettings(svc, testLogger), httptest.NewRequest(http.MethodGet, "/settings/smtp", nil), map[string]string{"kind": "smtp"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = jsonRequest(http.MethodPut, "/settings/site", `{"site_name":"Acme","unknown":1}`)
	rec, _ = serve(t, AdminSaveSettings(svc, testLogger), req, map[string]string{"kind": "site"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeadsOverHTTP(t *testing.T) {
	client := testsupport.OpenDB(t)
	svc, err := leads.NewService(leads.NewRepository(client.DB()), logger.Nop())
	require.NoError(t, err)

	req := jsonRequest(http.MethodPost, "/leads", `{"name":"Ana","email":"ana@example.com","message":"Need a quote"}`)
	rec, env := serve(t, PublicSubmitLead(svc, testLogger), req, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var submitted struct {
		ID     uuid.UUID `json:"id"`
		Status string    `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &submitted))
	assert.Equal(t, "new", submitted.Status)

	rec, env = serve(t, AdminListLeads(svc, testLogger), httptest.NewRequest(http.MethodGet, "/leads?status=new&q=ANA&from=0&to=9", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Items []leads.LeadDTO `json:"items"`
		Total int64           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.EqualValues(t, 1, page.Total)

	id := submitted.ID.String()
	rec, env = serve(t, AdminUpdateLeadStatus(svc, testLogger), jsonRequest(http.MethodPatch, "/leads/"+id, `{"status":"contacted"}`), map[string]string{"id": id})
	require.Equal(t, http.StatusOK, rec.Code)
	var lead leads.LeadDTO
	require.NoError(t, json.Unmarshal(env.Data, &lead))
	assert.Equal(t, "contacted", string(lead.Status))

	rec, _ = serve(t, AdminUpdateLeadStatus(svc, testLogger), jsonRequest(http.MethodPatch, "/leads/"+id, `{"status":"won"}`), map[string]string{"id": id})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = serve(t, PublicSubmitLead(svc, testLogger), jsonRequest(http.MethodPost, "/leads", `{"name":"Ana","email":"not-an-email","message":"x"}`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSavePostRequiresPrincipal(t *testing.T) {
	client := testsupport.OpenDB(t)
	manager, _ := testsupport.Assets(t)
	svc, err := blog.NewService(blog.NewRepository(client.DB()), manager)
	require.NoError(t, err)

	rec, _ := serve(t, AdminSavePost(svc, testLogger), jsonRequest(http.MethodPost, "/blog/posts", `{"title":"Hello"}`), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	principal := pkgAuth.Principal{AdminID: uuid.New(), Email: "editor@example.com", Name: "Editor"}
	req := jsonRequest(http.MethodPost, "/blog/posts", `{"title":"Hello"}`)
	req = req.WithContext(pkgAuth.WithPrincipal(req.Context(), principal))
	rec, env := serve(t, AdminSavePost(svc, testLogger), req, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var post blog.PostDTO
	require.NoError(t, json.Unmarshal(env.Data, &post))
	assert.Equal(t, "Editor", post.AuthorName)
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}

	rec, env := serve(t, HealthReady(cfg, map[string]Pinger{"db": stubPinger{}, "redis": stubPinger{}}, testLogger), httptest.NewRequest(http.MethodGet, "/health/ready", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"ready"`)

	rec, env = serve(t, HealthReady(cfg, map[string]Pinger{"db": stubPinger{}, "storage": stubPinger{err: errors.New("bucket gone")}}, testLogger), httptest.NewRequest(http.MethodGet, "/health/ready", nil), nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"db":"up","storage":"down"}`, string(env.Error.Details))
}
