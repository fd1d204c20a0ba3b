package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/octofit/internal/adapters/mq/queue"
	"github.com/okian/octofit/internal/adapters/mq/worker"
	"github.com/okian/octofit/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestLoop(t *testing.T) {
	convey.Convey("Given a loop over an in-memory queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		loop := worker.NewLoop(q, worker.WithName("test-loop"))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go loop.Run(ctx)

		convey.Convey("When events are enqueued", func() {
			var order []int
			done := make(chan struct{})
			for i := 1; i <= 3; i++ {
				q.Enqueue(ctx, model.ViewEvent{Kind: model.EventRefresh, Apply: func(context.Context) error {
					order = append(order, i)
					if i == 3 {
						close(done)
					}
					return nil
				}})
			}

			convey.Convey("Then they should be applied in order on one goroutine", func() {
				select {
				case <-done:
				case <-time.After(time.Second):
				}
				convey.So(order, convey.ShouldResemble, []int{1, 2, 3})
			})
		})

		convey.Convey("When an event fails or panics", func() {
			done := make(chan struct{})
			q.Enqueue(ctx, model.ViewEvent{Kind: model.EventMount, Apply: func(context.Context) error {
				return errors.New("boom")
			}})
			q.Enqueue(ctx, model.ViewEvent{Kind: model.EventMount, Apply: func(context.Context) error {
				panic("bad event")
			}})
			q.Enqueue(ctx, model.ViewEvent{Kind: model.EventMount})
			q.Enqueue(ctx, model.ViewEvent{Kind: model.EventMount, Apply: func(context.Context) error {
				close(done)
				return nil
			}})

			convey.Convey("Then the loop should keep running", func() {
				select {
				case <-done:
					convey.So(true, convey.ShouldBeTrue)
				case <-time.After(time.Second):
					convey.So("loop stopped", convey.ShouldBeEmpty)
				}
			})
		})

		convey.Convey("When shut down", func() {
			err := loop.Shutdown(context.Background())

			convey.Convey("Then Run should return", func() {
				convey.So(err, convey.ShouldBeNil)
				<-loop.Done()
				convey.So(loop.Shutdown(context.Background()), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the queue is closed", func() {
			_ = q.Close()

			convey.Convey("Then Run should return", func() {
				select {
				case <-loop.Done():
					convey.So(true, convey.ShouldBeTrue)
				case <-time.After(time.Second):
					convey.So("loop still running", convey.ShouldBeEmpty)
				}
			})
		})
	})
}
