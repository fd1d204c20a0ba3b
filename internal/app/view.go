package service

import (
	"context"
	"net/url"
	"time"

	"github.com/okian/octofit/internal/domain/model"
	"github.com/okian/octofit/internal/domain/ordering"
	"github.com/okian/octofit/internal/domain/paging"
	"github.com/okian/octofit/internal/domain/present"
	"github.com/okian/octofit/internal/domain/resource"
)

// view is one mounted resource list. Every field except ctx is owned by the
// event loop.
type view struct {
	id        string
	ctrl      *resource.Controller
	pager     *paging.Pager // nil unless the resource is paged
	mountedAt time.Time
	updatedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

func (v *view) ID() string { return v.id }

// Close unmounts the view: pending fetches are cancelled and their
// completions discarded.
func (v *view) Close() {
	v.ctrl.Close()
	v.cancel()
}

func (v *view) query() url.Values {
	if v.pager == nil {
		return nil
	}
	return v.pager.Query()
}

// Snapshot is the read model of a view.
type Snapshot struct {
	ID        string           `json:"id"`
	Resource  model.Resource   `json:"resource"`
	State     model.FetchState `json:"state"`
	Cards     []present.Card   `json:"cards"`
	Empty     bool             `json:"empty"`
	Notice    string           `json:"notice,omitempty"`
	Page      *PageInfo        `json:"page,omitempty"`
	MountedAt time.Time        `json:"mounted_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// PageInfo describes the paging controls of a paged view.
type PageInfo struct {
	Current    int             `json:"current"`
	TotalPages int             `json:"total_pages"`
	Size       int             `json:"size"`
	SortKey    model.SortKey   `json:"sort_key"`
	Window     []paging.Marker `json:"window"`
}

// Summary is the list form of a view.
type Summary struct {
	ID        string         `json:"id"`
	Resource  model.Resource `json:"resource"`
	MountedAt time.Time      `json:"mounted_at"`
}

func (v *view) snapshot() Snapshot {
	res := v.ctrl.Resource()
	state := v.ctrl.CurrentState()

	if state.Status() == model.StatusSuccess && v.pager != nil {
		state = model.Succeeded(ordering.SortedView(state.Items(), v.pager.SortKey()), state.TotalCount())
	}

	snap := Snapshot{
		ID:        v.id,
		Resource:  res,
		State:     state,
		Cards:     present.Cards(res, state.Items()),
		Empty:     state.Empty(),
		MountedAt: v.mountedAt,
		UpdatedAt: v.updatedAt,
	}
	switch {
	case state.Status() == model.StatusLoading:
		snap.Notice = present.LoadingMessage(res)
	case state.Empty():
		snap.Notice = present.EmptyMessage(res)
	}
	if v.pager != nil {
		snap.Page = &PageInfo{
			Current:    v.pager.CurrentPage(),
			TotalPages: v.pager.TotalPages(),
			Size:       v.pager.PageSize(),
			SortKey:    v.pager.SortKey(),
			Window:     paging.Window(v.pager.CurrentPage(), v.pager.TotalPages()),
		}
	}
	return snap
}
