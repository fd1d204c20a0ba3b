package resource_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/okian/octofit/internal/domain/endpoint"
	"github.com/okian/octofit/internal/domain/model"
	"github.com/okian/octofit/internal/domain/resource"
	. "github.com/smartystreets/goconvey/convey"
)

type statusErr int

func (e statusErr) Error() string   { return fmt.Sprintf("status %d", int(e)) }
func (e statusErr) StatusCode() int { return int(e) }

type stubFetcher struct {
	body []byte
	err  error
	urls []string
}

func (s *stubFetcher) Fetch(_ context.Context, u string) ([]byte, error) {
	s.urls = append(s.urls, u)
	return s.body, s.err
}

func newController(res model.Resource) *resource.Controller {
	return resource.NewController(res, endpoint.NewResolver(endpoint.Environment{}))
}

func TestControllerLifecycle(t *testing.T) {
	Convey("Given a new controller", t, func() {
		c := newController(model.ResourceTeams)

		So(c.CurrentState().Status(), ShouldEqual, model.StatusIdle)

		Convey("When activated", func() {
			req, err := c.Activate(nil)

			Convey("Then it should be loading with a request for the collection", func() {
				So(err, ShouldBeNil)
				So(c.CurrentState().Status(), ShouldEqual, model.StatusLoading)
				So(c.Pending(), ShouldBeTrue)
				So(req.URL, ShouldEqual, "http://localhost:8000/api/teams/")
			})

			Convey("And the request succeeds with a bare array", func() {
				applied := c.Complete(req.Seq, []byte(`[{"name":"t1"},{"name":"t2"}]`), nil)

				Convey("Then it should hold both items", func() {
					So(applied, ShouldBeTrue)
					state := c.CurrentState()
					So(state.Status(), ShouldEqual, model.StatusSuccess)
					So(state.Items(), ShouldHaveLength, 2)
					So(state.TotalCount(), ShouldEqual, 2)
				})

				Convey("And a duplicate completion arrives", func() {
					Convey("Then it should be ignored", func() {
						So(c.Complete(req.Seq, []byte(`[]`), nil), ShouldBeFalse)
						So(c.CurrentState().Items(), ShouldHaveLength, 2)
					})
				})
			})

			Convey("And the server answers 500", func() {
				c.Complete(req.Seq, nil, statusErr(500))

				Convey("Then it should be an error mentioning the status with no items", func() {
					state := c.CurrentState()
					So(state.Status(), ShouldEqual, model.StatusError)
					So(state.Message(), ShouldContainSubstring, "500")
					So(state.Items(), ShouldBeEmpty)
				})
			})

			Convey("And the transport fails", func() {
				c.Complete(req.Seq, nil, errors.New("connection refused"))

				Convey("Then the message should describe the network failure", func() {
					So(c.CurrentState().Message(), ShouldEqual, "network request failed: connection refused")
				})
			})

			Convey("And the body is not JSON", func() {
				c.Complete(req.Seq, []byte(`<html>`), nil)

				Convey("Then it should be a decode error", func() {
					So(c.CurrentState().Status(), ShouldEqual, model.StatusError)
					So(strings.HasPrefix(c.CurrentState().Message(), "invalid response body"), ShouldBeTrue)
				})
			})
		})
	})
}

func TestControllerStaleAndClosed(t *testing.T) {
	Convey("Given two overlapping requests", t, func() {
		c := newController(model.ResourceUsers)
		first, _ := c.Activate(url.Values{"page": {"1"}})
		second, _ := c.Activate(url.Values{"page": {"2"}})

		So(second.Seq, ShouldBeGreaterThan, first.Seq)

		Convey("When the older one completes last", func() {
			So(c.Complete(second.Seq, []byte(`{"count":25,"results":[{"name":"p2"}]}`), nil), ShouldBeTrue)
			applied := c.Complete(first.Seq, []byte(`{"count":25,"results":[{"name":"p1"}]}`), nil)

			Convey("Then the newer result should stand", func() {
				So(applied, ShouldBeFalse)
				So(c.CurrentState().Items()[0].Str("name"), ShouldEqual, "p2")
			})
		})

		Convey("When the older one completes first", func() {
			applied := c.Complete(first.Seq, []byte(`[{"name":"p1"}]`), nil)

			Convey("Then it should be discarded and the view still loading", func() {
				So(applied, ShouldBeFalse)
				So(c.CurrentState().Status(), ShouldEqual, model.StatusLoading)
			})
		})
	})

	Convey("Given a closed controller with a request in flight", t, func() {
		c := newController(model.ResourceWorkouts)
		req, _ := c.Activate(nil)
		c.Close()

		Convey("Then the completion should be discarded", func() {
			So(c.Complete(req.Seq, []byte(`[]`), nil), ShouldBeFalse)
			So(c.CurrentState().Status(), ShouldEqual, model.StatusLoading)
			So(c.Pending(), ShouldBeFalse)
		})

		Convey("Then it should refuse to activate", func() {
			_, err := c.Activate(nil)
			So(errors.Is(err, resource.ErrClosed), ShouldBeTrue)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a paginated users response", t, func() {
		f := &stubFetcher{body: []byte(`{"count":25,"results":[{"name":"u1"},{"name":"u2"}]}`)}
		c := newController(model.ResourceUsers)

		state := c.Load(context.Background(), f, url.Values{"page": {"1"}, "ordering": {"name"}})

		Convey("Then it should fetch the users page and report the total", func() {
			So(f.urls, ShouldResemble, []string{"http://localhost:8000/api/users/?ordering=name&page=1"})
			So(state.Status(), ShouldEqual, model.StatusSuccess)
			So(state.TotalCount(), ShouldEqual, 25)
		})
	})

	Convey("Given an empty collection", t, func() {
		f := &stubFetcher{body: []byte(`[]`)}
		state := newController(model.ResourceActivities).Load(context.Background(), f, nil)

		Convey("Then it should be an empty success, not an error", func() {
			So(state.Status(), ShouldEqual, model.StatusSuccess)
			So(state.Empty(), ShouldBeTrue)
		})
	})

	Convey("Given a wrapped status error", t, func() {
		f := &stubFetcher{err: fmt.Errorf("fetch: %w", statusErr(404))}
		state := newController(model.ResourceLeaderboard).Load(context.Background(), f, nil)

		So(state.Message(), ShouldEqual, "HTTP error! status: 404")
	})
}
