package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/okian/octofit/internal/adapters/http/api"
	"github.com/okian/octofit/internal/adapters/repository"
	service "github.com/okian/octofit/internal/app"
	"github.com/okian/octofit/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDeps records calls and returns canned results.
type mockDeps struct {
	err      error
	lastID   string
	lastPage int
	lastKey  string
}

func (m *mockDeps) snap(id string) api.Snapshot {
	return api.Snapshot{ID: id, Resource: model.ResourceUsers, State: model.Loading()}
}

func (m *mockDeps) Mount(_ context.Context, resource string) (api.Snapshot, error) {
	if _, err := model.ParseResource(resource); err != nil {
		return api.Snapshot{}, err
	}
	return m.snap("v1"), m.err
}

func (m *mockDeps) Snapshot(_ context.Context, id string) (api.Snapshot, error) {
	m.lastID = id
	return m.snap(id), m.err
}

func (m *mockDeps) SetPage(_ context.Context, id string, page int) (api.Snapshot, error) {
	m.lastID, m.lastPage = id, page
	return m.snap(id), m.err
}

func (m *mockDeps) SetSort(_ context.Context, id, key string) (api.Snapshot, error) {
	m.lastID, m.lastKey = id, key
	return m.snap(id), m.err
}

func (m *mockDeps) Refresh(_ context.Context, id string) (api.Snapshot, error) {
	m.lastID = id
	return m.snap(id), m.err
}

func (m *mockDeps) Unmount(_ context.Context, id string) error {
	m.lastID = id
	return m.err
}

func (m *mockDeps) Views(_ context.Context) ([]api.Summary, error) {
	return []api.Summary{{ID: "v1", Resource: model.ResourceTeams}}, m.err
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newRouter(deps api.Dependencies) chi.Router {
	r := chi.NewRouter()
	api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}}).Register(context.Background(), r)
	return r
}

func serve(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func errorCode(w *httptest.ResponseRecorder) string {
	var body struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body.Code
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		r := newRouter(&mockDeps{})

		Convey("Then health should expose metrics", func() {
			w := serve(r, "GET", "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then stats should be JSON", func() {
			w := serve(r, "GET", "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
		})

		Convey("Then the dashboard should be served", func() {
			w := serve(r, "GET", "/dashboard")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "OctoFit Tracker")
		})

		Convey("Then unknown paths should 404", func() {
			w := serve(r, "GET", "/unknown")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestViewsHandler(t *testing.T) {
	Convey("Given a views API", t, func() {
		deps := &mockDeps{}
		r := newRouter(deps)

		Convey("When mounting a known resource", func() {
			w := serve(r, "POST", "/views/users")

			Convey("Then it should be created", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(w.Header().Get("Location"), ShouldEqual, "/views/v1")
				So(w.Body.String(), ShouldContainSubstring, `"status":"loading"`)
			})
		})

		Convey("When mounting an unknown resource", func() {
			w := serve(r, "POST", "/views/badges")

			Convey("Then it should be a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(errorCode(w), ShouldEqual, "bad_request")
			})
		})

		Convey("When listing views", func() {
			w := serve(r, "GET", "/views")

			Convey("Then it should return summaries", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"resource":"teams"`)
			})
		})

		Convey("When getting a view", func() {
			w := serve(r, "GET", "/views/abc")

			Convey("Then the id should be passed through", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastID, ShouldEqual, "abc")
			})
		})

		Convey("When setting a page", func() {
			w := serve(r, "PUT", "/views/abc/page?page=3")

			Convey("Then the page should be passed through", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastPage, ShouldEqual, 3)
			})
		})

		Convey("When setting a non-numeric page", func() {
			w := serve(r, "PUT", "/views/abc/page?page=two")

			Convey("Then it should be a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(deps.lastID, ShouldBeEmpty)
			})
		})

		Convey("When setting a sort key", func() {
			w := serve(r, "PUT", "/views/abc/sort?key=team")

			Convey("Then the key should be passed through", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastKey, ShouldEqual, "team")
			})
		})

		Convey("When setting an empty sort key", func() {
			w := serve(r, "PUT", "/views/abc/sort")

			Convey("Then it should be a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When refreshing", func() {
			w := serve(r, "POST", "/views/abc/refresh")

			Convey("Then it should return the snapshot", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastID, ShouldEqual, "abc")
			})
		})

		Convey("When unmounting", func() {
			w := serve(r, "DELETE", "/views/abc")

			Convey("Then it should have no content", func() {
				So(w.Code, ShouldEqual, http.StatusNoContent)
				So(deps.lastID, ShouldEqual, "abc")
			})
		})
	})
}

func TestViewsHandlerErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: abc", repository.ErrNotFound), http.StatusNotFound, "not_found"},
		{service.ErrNotPaged, http.StatusConflict, "not_paged"},
		{service.ErrBusy, http.StatusTooManyRequests, "backpressure"},
		{fmt.Errorf("%w: %q", model.ErrInvalidSortKey, "age"), http.StatusBadRequest, "bad_request"},
		{service.ErrStopped, http.StatusServiceUnavailable, "unavailable"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "internal_error"},
	}

	Convey("Given a views API whose service fails", t, func() {
		for _, tc := range cases {
			r := newRouter(&mockDeps{err: tc.err})

			Convey(fmt.Sprintf("When the service returns %q", tc.err), func() {
				w := serve(r, "PUT", "/views/abc/sort?key=name")

				Convey("Then it should map to "+tc.code, func() {
					So(w.Code, ShouldEqual, tc.status)
					So(errorCode(w), ShouldEqual, tc.code)
				})
			})
		}
	})
}

func TestWrapHelpers(t *testing.T) {
	Convey("Given the error helpers", t, func() {
		Convey("Then WrapKind should match both the kind and the cause", func() {
			cause := fmt.Errorf("cause")
			err := api.WrapKind("op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "op: bad request: cause")
		})

		Convey("Then Wrap should pass nil through", func() {
			So(api.Wrap("op", nil), ShouldBeNil)
		})

		Convey("Then NewKind should wrap the sentinel", func() {
			So(api.NewKind("op", api.ErrConflict).Error(), ShouldEqual, "op: conflict")
		})
	})
}
