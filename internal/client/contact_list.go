package client

import (
	"context"
	"errors"
	"sync"

	"github.com/unclebandit/contacts-backend/internal/model"
)

// ErrSuperseded is returned by Refresh when a newer request was issued
// before this one completed. Its result is discarded.
var ErrSuperseded = errors.New("superseded by a newer request")

// ContactList caches the contact page for the current State. Only the
// response to the most recently issued request is kept.
type ContactList struct {
	Client *Client
	State  *State
	Limit  int
	// OnChange, when set, is called after each applied refresh.
	OnChange func(*model.ContactPage, error)

	mu       sync.Mutex
	seq      uint64
	page     *model.ContactPage
	err      error
	stale    bool
	watchCtx context.Context
}

func NewContactList(c *Client, s *State, limit int) *ContactList {
	if limit < 1 {
		limit = 10
	}
	return &ContactList{Client: c, State: s, Limit: limit, stale: true}
}

// Refresh fetches the page described by the current State. The state is
// read under the same lock that numbers the request, so sequence order
// matches state order.
func (l *ContactList) Refresh(ctx context.Context) (*model.ContactPage, error) {
	l.mu.Lock()
	snap := l.State.Snapshot()
	l.seq++
	mine := l.seq
	l.mu.Unlock()

	page, err := l.Client.FetchContacts(ctx, snap.SearchQuery, snap.ShowFavouritesOnly, snap.Page, l.Limit)

	l.mu.Lock()
	if mine != l.seq {
		l.mu.Unlock()
		return nil, ErrSuperseded
	}
	l.page, l.err, l.stale = page, err, false
	onChange := l.OnChange
	l.mu.Unlock()

	if onChange != nil {
		onChange(page, err)
	}
	return page, err
}

// Current returns the cached page, whether it needs refetching and the
// error of the last applied refresh.
func (l *ContactList) Current() (page *model.ContactPage, stale bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page, l.stale, l.err
}

// Invalidate marks the cache stale and, while watching, refetches.
func (l *ContactList) Invalidate() {
	l.mu.Lock()
	l.stale = true
	ctx := l.watchCtx
	l.mu.Unlock()

	if ctx != nil && ctx.Err() == nil {
		go l.Refresh(ctx)
	}
}

// Watch refetches whenever the search query, favourites toggle or page
// changes until ctx is done or the returned stop function is called.
// Selection changes alone do not refetch.
func (l *ContactList) Watch(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)

	l.mu.Lock()
	l.watchCtx = ctx
	l.mu.Unlock()

	var (
		keyMu   sync.Mutex
		lastKey = l.State.Snapshot().QueryKey()
	)
	unsubscribe := l.State.Subscribe(func(Snapshot) {
		if ctx.Err() != nil {
			return
		}
		key := l.State.Snapshot().QueryKey()
		keyMu.Lock()
		changed := key != lastKey
		lastKey = key
		keyMu.Unlock()
		if changed {
			l.Refresh(ctx)
		}
	})
	go l.Refresh(ctx)

	return func() {
		unsubscribe()
		cancel()
		l.mu.Lock()
		l.watchCtx = nil
		l.mu.Unlock()
	}
}

func (l *ContactList) Create(ctx context.Context, in model.ContactInput) (*model.Contact, error) {
	c, err := l.Client.CreateContact(ctx, in)
	if err != nil {
		return nil, err
	}
	l.Invalidate()
	return c, nil
}

func (l *ContactList) Update(ctx context.Context, contact model.Contact) (*model.Contact, error) {
	c, err := l.Client.UpdateContact(ctx, contact)
	if err != nil {
		return nil, err
	}
	l.Invalidate()
	return c, nil
}

func (l *ContactList) ToggleFavourite(ctx context.Context, contact model.Contact) (*model.Contact, error) {
	c, err := l.Client.ToggleFavourite(ctx, contact)
	if err != nil {
		return nil, err
	}
	l.Invalidate()
	return c, nil
}

// Delete removes id, clears the selection and invalidates the cache.
func (l *ContactList) Delete(ctx context.Context, id int) error {
	if _, err := l.Client.DeleteContact(ctx, id); err != nil {
		return err
	}
	l.State.SetSelectedContactID(0)
	l.Invalidate()
	return nil
}
