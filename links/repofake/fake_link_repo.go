package fakelinkrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lynkr/lynkr-server/links"
)

var _ links.Repo = (*FakeLinkRepo)(nil)

// FakeLinkRepo is an in-memory implementation of links.Repo for tests.
type FakeLinkRepo struct {
	lock    sync.RWMutex
	byID    map[string]*links.Link
	bySlug  map[string]string // slug to link id
	nowTime func() time.Time

	// FailCreates forces the next n Create calls to report a slug
	// collision, for exercising the retry budget.
	FailCreates int
}

func NewFakeLinkRepo() *FakeLinkRepo {
	return &FakeLinkRepo{
		byID:    make(map[string]*links.Link),
		bySlug:  make(map[string]string),
		nowTime: time.Now,
	}
}

func (lr *FakeLinkRepo) Create(_ context.Context, link *links.Link) error {
	lr.lock.Lock()
	defer lr.lock.Unlock()

	if lr.FailCreates > 0 {
		lr.FailCreates--
		return links.ErrDuplicateSlug
	}
	if _, ok := lr.bySlug[link.Slug]; ok {
		return links.ErrDuplicateSlug
	}

	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	now := lr.nowTime()
	if link.CreatedAt.IsZero() {
		link.CreatedAt = now
	}
	link.UpdatedAt = now

	stored := *link
	lr.byID[link.ID] = &stored
	lr.bySlug[link.Slug] = link.ID
	return nil
}

func (lr *FakeLinkRepo) GetBySlug(_ context.Context, slug string) (*links.Link, error) {
	lr.lock.RLock()
	defer lr.lock.RUnlock()

	id, ok := lr.bySlug[slug]
	if !ok {
		return nil, links.ErrNotFound
	}
	copied := *lr.byID[id]
	return &copied, nil
}

func (lr *FakeLinkRepo) GetByID(_ context.Context, id string) (*links.Link, error) {
	lr.lock.RLock()
	defer lr.lock.RUnlock()

	link, ok := lr.byID[id]
	if !ok {
		return nil, links.ErrNotFound
	}
	copied := *link
	return &copied, nil
}

func (lr *FakeLinkRepo) ListByUser(_ context.Context, userID string) ([]*links.Link, error) {
	lr.lock.RLock()
	defer lr.lock.RUnlock()

	list := make([]*links.Link, 0)
	for _, link := range lr.byID {
		if link.UserID != userID {
			continue
		}
		copied := *link
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (lr *FakeLinkRepo) UpdateSlug(_ context.Context, id, userID, newSlug string) (int64, error) {
	lr.lock.Lock()
	defer lr.lock.Unlock()

	link, ok := lr.byID[id]
	if !ok || link.UserID != userID {
		return 0, nil
	}
	if existingID, ok := lr.bySlug[newSlug]; ok && existingID != id {
		return 0, links.ErrDuplicateSlug
	}

	delete(lr.bySlug, link.Slug)
	link.Slug = newSlug
	link.UpdatedAt = lr.nowTime()
	lr.bySlug[newSlug] = id
	return 1, nil
}
