package upstream_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/okian/octofit/internal/adapters/upstream"
	"github.com/okian/octofit/internal/domain/model"
	"github.com/okian/octofit/internal/domain/resource"
	"github.com/okian/octofit/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClientFetch(t *testing.T) {
	Convey("Given an API server", t, func() {
		var gotAccept, gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAccept = r.Header.Get("Accept")
			gotQuery = r.URL.RawQuery
			switch r.URL.Path {
			case "/api/teams/":
				_, _ = w.Write([]byte(`[{"name":"t1"},{"name":"t2"}]`))
			case "/api/slow/":
				time.Sleep(200 * time.Millisecond)
				_, _ = w.Write([]byte(`[]`))
			case "/api/big/":
				_, _ = w.Write([]byte(strings.Repeat("x", 64)))
			default:
				http.Error(w, "boom", http.StatusInternalServerError)
			}
		}))
		defer srv.Close()
		ctx := context.Background()

		Convey("When the collection exists", func() {
			body, err := upstream.New().Fetch(ctx, srv.URL+"/api/teams/?page=1")

			Convey("Then it should return the body", func() {
				So(err, ShouldBeNil)
				So(string(body), ShouldEqual, `[{"name":"t1"},{"name":"t2"}]`)
				So(gotAccept, ShouldEqual, "application/json")
				So(gotQuery, ShouldEqual, "page=1")
				So(upstream.Outcome(err), ShouldEqual, metrics.OutcomeSuccess)
			})
		})

		Convey("When the server fails", func() {
			_, err := upstream.New().Fetch(ctx, srv.URL+"/api/users/")

			Convey("Then it should return a StatusError", func() {
				var se *upstream.StatusError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.StatusCode(), ShouldEqual, http.StatusInternalServerError)
				So(upstream.Outcome(err), ShouldEqual, metrics.OutcomeHTTPError)
				So(resource.FailureMessage(err), ShouldEqual, "HTTP error! status: 500")
			})
		})

		Convey("When the request times out", func() {
			_, err := upstream.New(upstream.WithTimeout(20*time.Millisecond)).Fetch(ctx, srv.URL+"/api/slow/")

			Convey("Then it should be a request error", func() {
				So(errors.Is(err, upstream.ErrRequest), ShouldBeTrue)
				So(upstream.Outcome(err), ShouldEqual, metrics.OutcomeNetworkError)
			})
		})

		Convey("When the body exceeds the limit", func() {
			_, err := upstream.New(upstream.WithMaxBodyBytes(16)).Fetch(ctx, srv.URL+"/api/big/")

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, upstream.ErrBodyTooLarge), ShouldBeTrue)
			})
		})

		Convey("When the client is rate limited", func() {
			c := upstream.New(upstream.WithRateLimit(1000, 1))

			Convey("Then consecutive requests should still succeed", func() {
				for i := 0; i < 3; i++ {
					_, err := c.Fetch(ctx, srv.URL+"/api/teams/")
					So(err, ShouldBeNil)
				}
			})
		})

		Convey("When driven by a controller", func() {
			c := resource.NewController(model.ResourceTeams, hostResolver{base: srv.URL})
			state := c.Load(ctx, upstream.New(), nil)

			Convey("Then the bare array should become two items", func() {
				So(state.Status(), ShouldEqual, model.StatusSuccess)
				So(state.TotalCount(), ShouldEqual, 2)
			})
		})
	})

	Convey("Given an unreachable host", t, func() {
		_, err := upstream.New(upstream.WithTimeout(time.Second)).Fetch(context.Background(), "http://127.0.0.1:1/api/users/")

		Convey("Then it should be a network failure", func() {
			So(errors.Is(err, upstream.ErrRequest), ShouldBeTrue)
			So(resource.FailureMessage(err), ShouldStartWith, "network request failed")
		})
	})
}

type hostResolver struct{ base string }

func (h hostResolver) Resolve(segment string, _ url.Values) string {
	return h.base + "/api/" + segment + "/"
}
