package service

import (
	"context"
	"errors"

	"github.com/okian/octofit/internal/adapters/repository"
	"github.com/okian/octofit/internal/domain/model"
	"github.com/okian/octofit/pkg/logger"
	"github.com/okian/octofit/pkg/metrics"
)

// Mount creates a view for the named resource and starts its first load.
func (s *Service) Mount(ctx context.Context, resourceName string) (Snapshot, error) {
	res, err := model.ParseResource(resourceName)
	if err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	err = s.call(ctx, model.EventMount, "", func(lctx context.Context) error {
		v, err := s.newView(res)
		if err != nil {
			return err
		}
		if _, err := s.store.Put(lctx, v); err != nil {
			v.Close()
			return err
		}
		if err := s.activate(v); err != nil {
			return err
		}
		metrics.RecordViewMounted(res.Segment())
		s.logger.Debug(lctx, "view mounted", logger.String("view_id", v.id), logger.String("resource", res.Segment()))
		snap = v.snapshot()
		return nil
	})
	return snap, err
}

// Snapshot returns the current read model of a view.
func (s *Service) Snapshot(ctx context.Context, id string) (Snapshot, error) {
	var snap Snapshot
	err := s.call(ctx, model.EventSnapshot, id, func(lctx context.Context) error {
		v, err := s.lookup(lctx, id)
		if err != nil {
			return err
		}
		snap = v.snapshot()
		return nil
	})
	return snap, err
}

// SetPage moves a paged view to page. Out-of-range pages and the current
// page are ignored; the snapshot is returned either way.
func (s *Service) SetPage(ctx context.Context, id string, page int) (Snapshot, error) {
	var snap Snapshot
	err := s.call(ctx, model.EventSetPage, id, func(lctx context.Context) error {
		v, err := s.lookup(lctx, id)
		if err != nil {
			return err
		}
		if v.pager == nil {
			return ErrNotPaged
		}
		if v.pager.SetPage(page) {
			metrics.RecordPageChange()
			if err := s.activate(v); err != nil {
				return err
			}
		}
		snap = v.snapshot()
		return nil
	})
	return snap, err
}

// SetSort changes the display sort of a paged view. The sort applies within
// the loaded page; a fetch happens only when the reset to page 1 moved the page.
func (s *Service) SetSort(ctx context.Context, id, key string) (Snapshot, error) {
	var snap Snapshot
	err := s.call(ctx, model.EventSetSort, id, func(lctx context.Context) error {
		v, err := s.lookup(lctx, id)
		if err != nil {
			return err
		}
		if v.pager == nil {
			return ErrNotPaged
		}
		refetch, err := v.pager.SetSortKey(key)
		if err != nil {
			return err
		}
		metrics.RecordSortChange(string(v.pager.SortKey()))
		if refetch {
			if err := s.activate(v); err != nil {
				return err
			}
		}
		snap = v.snapshot()
		return nil
	})
	return snap, err
}

// Refresh re-issues the current request of a view.
func (s *Service) Refresh(ctx context.Context, id string) (Snapshot, error) {
	var snap Snapshot
	err := s.call(ctx, model.EventRefresh, id, func(lctx context.Context) error {
		v, err := s.lookup(lctx, id)
		if err != nil {
			return err
		}
		if err := s.activate(v); err != nil {
			return err
		}
		snap = v.snapshot()
		return nil
	})
	return snap, err
}

// Unmount removes a view. Pending fetches are cancelled and their results dropped.
func (s *Service) Unmount(ctx context.Context, id string) error {
	return s.call(ctx, model.EventUnmount, id, func(lctx context.Context) error {
		got, err := s.store.Delete(lctx, id)
		if err != nil {
			return err
		}
		got.Close()
		s.logger.Debug(lctx, "view unmounted", logger.String("view_id", id))
		return nil
	})
}

// Views lists mounted views, oldest first.
func (s *Service) Views(ctx context.Context) ([]Summary, error) {
	var out []Summary
	err := s.call(ctx, model.EventSnapshot, "", func(lctx context.Context) error {
		out = make([]Summary, 0, s.store.Count(lctx))
		s.store.Range(lctx, func(rv repository.View) bool {
			if v, ok := rv.(*view); ok {
				out = append(out, Summary{ID: v.id, Resource: v.ctrl.Resource(), MountedAt: v.mountedAt})
			}
			return true
		})
		return nil
	})
	return out, err
}

// IsNotFound reports whether err means the view does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
