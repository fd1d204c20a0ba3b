package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/okian/octofit/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func event(id string) Event {
	return model.ViewEvent{Kind: model.EventRefresh, ViewID: id}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a queue with capacity 2", t, func() {
		q := NewInMemoryQueue(WithCapacity(2))
		ctx := context.Background()

		So(q.Len(ctx), ShouldEqual, 0)

		Convey("When two events are enqueued", func() {
			So(q.Enqueue(ctx, event("a")), ShouldBeTrue)
			So(q.Enqueue(ctx, event("b")), ShouldBeTrue)

			Convey("Then a third should be rejected without blocking", func() {
				So(q.Enqueue(ctx, event("c")), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 2)
			})

			Convey("Then they should be dequeued in order", func() {
				ch := q.Dequeue(ctx)
				So((<-ch).ViewID, ShouldEqual, "a")
				So((<-ch).ViewID, ShouldEqual, "b")
			})

			Convey("Then a waiting enqueue should give up when its context ends", func() {
				waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
				defer cancel()
				So(q.EnqueueWait(waitCtx, event("c")), ShouldBeFalse)
			})

			Convey("Then a waiting enqueue should succeed once room is made", func() {
				ch := q.Dequeue(ctx)
				var wg sync.WaitGroup
				wg.Add(1)
				var ok bool
				go func() {
					defer wg.Done()
					ok = q.EnqueueWait(ctx, event("c"))
				}()
				So((<-ch).ViewID, ShouldEqual, "a")
				So((<-ch).ViewID, ShouldEqual, "b")
				So((<-ch).ViewID, ShouldEqual, "c")
				wg.Wait()
				So(ok, ShouldBeTrue)
			})

			Convey("Then a waiting enqueue should be released by Close", func() {
				done := make(chan bool, 1)
				go func() { done <- q.EnqueueWait(ctx, event("c")) }()
				time.Sleep(10 * time.Millisecond)
				So(q.Close(), ShouldBeNil)

				select {
				case ok := <-done:
					So(ok, ShouldBeFalse)
				case <-time.After(time.Second):
					So("EnqueueWait still blocked", ShouldBeEmpty)
				}
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Enqueue(ctx, event("a")), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)
			So(q.Close(), ShouldBeNil)

			Convey("Then new events should be rejected", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, event("b")), ShouldBeFalse)
				So(q.EnqueueWait(ctx, event("b")), ShouldBeFalse)
			})

			Convey("Then queued events should still drain and the channel close", func() {
				ch := q.Dequeue(ctx)
				So((<-ch).ViewID, ShouldEqual, "a")
				_, open := <-ch
				So(open, ShouldBeFalse)
			})
		})
	})
}

func TestInMemoryQueueConcurrentProducers(t *testing.T) {
	Convey("Given many producers", t, func() {
		q := NewInMemoryQueue(WithCapacity(8))
		ctx := context.Background()
		const producers, perProducer = 8, 50

		var wg sync.WaitGroup
		for i := 0; i < producers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < perProducer; j++ {
					q.EnqueueWait(ctx, event("x"))
				}
			}()
		}
		go func() {
			wg.Wait()
			_ = q.Close()
		}()

		count := 0
		for range q.Dequeue(ctx) {
			count++
		}
		So(count, ShouldEqual, producers*perProducer)
	})
}
