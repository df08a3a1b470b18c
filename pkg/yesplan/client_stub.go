package yesplan

import (
	"context"
	"sync"
)

// ClientStub is an in-memory Client implementation for tests.
type ClientStub struct {
	mu                 sync.RWMutex
	events             []Event
	extras             Extras
	contactsByEventID  map[string][]Contact
	resourcesByEventID map[string][]Resource
	resources          []Resource
	contactIDsByName   map[string]string

	fetchEventsErr       error
	getEventContactsErr  error
	findContactByNameErr error

	// FindContactCalls counts FindContactByName invocations so tests
	// can assert caching behaviour at the service level.
	FindContactCalls int
}

func NewClientStub() *ClientStub {
	return &ClientStub{
		contactsByEventID:  make(map[string][]Contact),
		resourcesByEventID: make(map[string][]Resource),
		contactIDsByName:   make(map[string]string),
	}
}

func (c *ClientStub) FetchEvents(ctx context.Context, opts FetchOptions) ([]Event, Extras, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.fetchEventsErr != nil {
		return nil, nil, c.fetchEventsErr
	}

	result := make([]Event, len(c.events))
	copy(result, c.events)
	return result, c.extras, nil
}

func (c *ClientStub) GetEvent(ctx context.Context, id string) (*Event, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, ev := range c.events {
		if ev.ID == id {
			found := ev
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (c *ClientStub) GetEventContacts(ctx context.Context, id string) ([]Contact, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.getEventContactsErr != nil {
		return nil, c.getEventContactsErr
	}

	contacts := c.contactsByEventID[id]
	result := make([]Contact, len(contacts))
	copy(result, contacts)
	return result, nil
}

func (c *ClientStub) GetEventResources(ctx context.Context, id string) ([]Resource, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	resources := c.resourcesByEventID[id]
	result := make([]Resource, len(resources))
	copy(result, resources)
	return result, nil
}

func (c *ClientStub) GetResources(ctx context.Context) ([]Resource, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]Resource, len(c.resources))
	copy(result, c.resources)
	return result, nil
}

func (c *ClientStub) FindContactByName(ctx context.Context, name string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.FindContactCalls++
	if c.findContactByNameErr != nil {
		return "", c.findContactByNameErr
	}
	return c.contactIDsByName[name], nil
}

// Helper methods for test setup

func (c *ClientStub) SetEvents(events []Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = make([]Event, len(events))
	copy(c.events, events)
}

func (c *ClientStub) SetExtras(extras Extras) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.extras = extras
}

func (c *ClientStub) SetEventContacts(eventID string, contacts []Contact) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contactsByEventID[eventID] = make([]Contact, len(contacts))
	copy(c.contactsByEventID[eventID], contacts)
}

func (c *ClientStub) SetEventResources(eventID string, resources []Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resourcesByEventID[eventID] = make([]Resource, len(resources))
	copy(c.resourcesByEventID[eventID], resources)
}

func (c *ClientStub) SetResources(resources []Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources = make([]Resource, len(resources))
	copy(c.resources, resources)
}

func (c *ClientStub) SetContactID(name string, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contactIDsByName[name] = id
}

func (c *ClientStub) SetFetchEventsError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchEventsErr = err
}

func (c *ClientStub) SetGetEventContactsError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getEventContactsErr = err
}

func (c *ClientStub) SetFindContactByNameError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.findContactByNameErr = err
}
