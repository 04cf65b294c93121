package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SiteWright/sitewright-go/internal/application/services"
	"github.com/SiteWright/sitewright-go/internal/domain/user"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/caching/manager"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
	persistence "github.com/SiteWright/sitewright-go/internal/infrastructure/persistence/content"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/persistence/database"
	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
)

const handlerTestAESKey = "0123456789abcdef0123456789abcdef"

func stubAuth(profile *user.Profile) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("profile", profile)
		c.Next()
	}
}

func newServiceRouter(t *testing.T, profile *user.Profile) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// One connection, or each pooled conn gets its own empty memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := database.NewTableCreator().CreateSchema(db); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToConsole: true,
		JSONFormat:      true,
		DefaultLevel:    slog.LevelError,
	})
	if err != nil {
		t.Fatalf("create logger: %v", err)
	}

	catalog := services.NewServiceCatalogService(
		persistence.NewServiceRepository(db, manager.NewManager(nil), handlerTestAESKey),
		logger,
	)
	handlers := NewServiceHandlers(catalog, logger)

	r := gin.New()
	group := r.Group("/api/v1", stubAuth(profile))
	group.GET("/services", handlers.GetServices)
	group.POST("/services", handlers.PostService)
	group.PUT("/services/:id", handlers.PutService)
	group.DELETE("/services/:id", handlers.DeleteService)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestServiceCreateAndList(t *testing.T) {
	owner := &user.Profile{AccountID: "user-1", Email: "owner@example.com"}
	r := newServiceRouter(t, owner)

	w := doJSON(t, r, http.MethodPost, "/api/v1/services",
		`{"name":"Haircut","description":"30 min","price":"35","paymentUrl":"https://pay.example.com/cut"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, body = %s", w.Code, w.Body.String())
	}

	var created struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		PaymentURL string `json:"paymentUrl"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created service: %v", err)
	}
	if created.ID == "" || created.Name != "Haircut" {
		t.Errorf("created = %+v", created)
	}
	if created.PaymentURL != "https://pay.example.com/cut" {
		t.Errorf("payment URL = %q, want plaintext in the response", created.PaymentURL)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/services", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d", w.Code)
	}
	var listed struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatal(err)
	}
	if listed.Count != 1 {
		t.Errorf("count = %d, want 1", listed.Count)
	}
}

func TestServiceCreateValidation(t *testing.T) {
	r := newServiceRouter(t, &user.Profile{AccountID: "user-1"})

	// Price is required by the request binding.
	w := doJSON(t, r, http.MethodPost, "/api/v1/services", `{"name":"Haircut"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing price: status = %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/services", `not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want 400", w.Code)
	}
}

func TestServiceUpdateAndDelete(t *testing.T) {
	owner := &user.Profile{AccountID: "user-1"}
	r := newServiceRouter(t, owner)

	w := doJSON(t, r, http.MethodPost, "/api/v1/services", `{"name":"Haircut","price":"35"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST status = %d", w.Code)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	w = doJSON(t, r, http.MethodPut, "/api/v1/services/"+created.ID, `{"name":"Haircut & Shave","price":"45"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPut, "/api/v1/services/unknown", `{"name":"X","price":"1"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("PUT unknown id: status = %d, want 404", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, "/api/v1/services/"+created.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/services", "")
	var listed struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatal(err)
	}
	if listed.Count != 0 {
		t.Errorf("count = %d after delete, want 0", listed.Count)
	}
}
