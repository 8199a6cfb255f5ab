package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jaevor/go-nanoid"
	"github.com/linkrift/linkrift/internal/audit"
	"github.com/linkrift/linkrift/internal/handlers"
	"github.com/linkrift/linkrift/internal/links"
	"github.com/linkrift/linkrift/internal/quota"
	"github.com/linkrift/linkrift/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type handlerFixture struct {
	handler     *handlers.LinkHandler
	created     []*audit.LinkCreatedEvent
	deactivated []*audit.LinkDeactivatedEvent
}

func newHandlerFixture(t *testing.T, plans map[string]quota.Plan) *handlerFixture {
	t.Helper()

	gen, err := nanoid.Standard(8)
	require.NoError(t, err)

	service := links.NewService(
		store.NewMemoryLinkStore(),
		quota.NewGate(store.NewMemoryQuotaStore()),
		&quota.StaticPlanResolver{Plans: plans},
		gen,
		zap.NewNop(),
	)

	f := &handlerFixture{}
	f.handler = handlers.NewLinkHandler(
		service,
		"http://localhost:8888",
		func(event *audit.LinkCreatedEvent) error {
			f.created = append(f.created, event)

			return nil
		},
		func(event *audit.LinkDeactivatedEvent) error {
			f.deactivated = append(f.deactivated, event)

			return nil
		},
		zap.NewNop(),
	)

	return f
}

func (f *handlerFixture) createLink(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/links", strings.NewReader(body))
	rec := httptest.NewRecorder()

	f.handler.CreateLink(rec, req)

	return rec
}

func TestCreateLink(t *testing.T) {
	t.Run("creates a new link", func(t *testing.T) {
		f := newHandlerFixture(t, nil)

		rec := f.createLink(`{"originalUrl":"https://example.com/a","userId":"u1"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), `"shortCode":"`)
		assert.Contains(t, rec.Body.String(), `"existing":false`)
		assert.Contains(t, rec.Body.String(), `"counted":true`)
	})

	t.Run("resubmission answers 200 with the same code", func(t *testing.T) {
		f := newHandlerFixture(t, nil)

		first := f.createLink(`{"originalUrl":"https://example.com/a","userId":"u1"}`)
		require.Equal(t, http.StatusCreated, first.Code)

		second := f.createLink(`{"originalUrl":"https://example.com/a","userId":"u1"}`)

		assert.Equal(t, http.StatusOK, second.Code)
		assert.Contains(t, second.Body.String(), `"existing":true`)
		assert.Contains(t, second.Body.String(), `"counted":false`)
	})

	t.Run("missing fields answer the exact 400 body", func(t *testing.T) {
		f := newHandlerFixture(t, nil)

		for _, body := range []string{
			`{}`,
			`{"originalUrl":"https://example.com/a"}`,
			`{"userId":"u1"}`,
			`{"originalUrl":"","userId":""}`,
		} {
			rec := f.createLink(body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"originalUrl and userId are required"}`, rec.Body.String())
		}
	})

	t.Run("malformed json answers 500", func(t *testing.T) {
		f := newHandlerFixture(t, nil)

		rec := f.createLink(`{not json`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("quota exceeded answers 429 with the limit", func(t *testing.T) {
		f := newHandlerFixture(t, nil)

		for i := range quota.PlanFree.Limit() {
			rec := f.createLink(fmt.Sprintf(`{"originalUrl":"https://example.com/%d","userId":"u1"}`, i))
			require.Equal(t, http.StatusCreated, rec.Code)
		}

		rec := f.createLink(`{"originalUrl":"https://example.com/over","userId":"u1"}`)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.JSONEq(t, `{"error":"monthly link limit reached","limit":50}`, rec.Body.String())
	})

	t.Run("publishes an audit event only for counted creations", func(t *testing.T) {
		f := newHandlerFixture(t, nil)

		f.createLink(`{"originalUrl":"https://example.com/a","userId":"u1"}`)
		f.createLink(`{"originalUrl":"https://example.com/a","userId":"u1"}`)

		require.Len(t, f.created, 1)
		assert.Equal(t, "u1", f.created[0].UserID)
		assert.Equal(t, "https://example.com/a", f.created[0].OriginalURL)
		assert.NotEmpty(t, f.created[0].ShortCode)
	})
}

func TestCreateLink_StorageFailure(t *testing.T) {
	t.Run("answers a generic 500", func(t *testing.T) {
		service := links.NewService(
			&unavailableRepo{},
			quota.NewGate(store.NewMemoryQuotaStore()),
			&quota.StaticPlanResolver{},
			func() string { return "abc12345" },
			zap.NewNop(),
		)

		handler := handlers.NewLinkHandler(service, "http://localhost:8888",
			func(*audit.LinkCreatedEvent) error { return nil },
			func(*audit.LinkDeactivatedEvent) error { return nil },
			zap.NewNop(),
		)

		req := httptest.NewRequest(http.MethodPost, "/api/links",
			strings.NewReader(`{"originalUrl":"https://example.com/a","userId":"u1"}`))
		rec := httptest.NewRecorder()

		handler.CreateLink(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	})
}
