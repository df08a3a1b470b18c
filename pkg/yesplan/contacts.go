package yesplan

import (
	"context"
	"errors"
	"net/url"

	log "github.com/sirupsen/logrus"
)

// FindContactByName resolves a human-readable contact name to its
// YesPlan id. The result is memoized for the lifetime of the client;
// a cache hit performs no network access. Matching on the search
// result is exact: no fuzzy matching, first exact match wins. A
// missing contact (no exact match, or an upstream 404) resolves to an
// empty id and a nil error; every other failure propagates.
func (c *ClientImpl) FindContactByName(ctx context.Context, name string) (string, error) {
	c.mu.Lock()
	if id, ok := c.contactIDsByName[name]; ok {
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	var resp struct {
		Data []Contact `json:"data"`
	}
	err := c.get(ctx, "contacts/"+url.PathEscape(name), nil, &resp)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Debugf("contact %q not found", name)
			return "", nil
		}
		return "", err
	}

	for _, candidate := range resp.Data {
		if candidate.Name == name {
			c.mu.Lock()
			c.contactIDsByName[name] = candidate.ID
			c.mu.Unlock()
			return candidate.ID, nil
		}
	}
	log.Debugf("no exact match for contact %q among %d candidates", name, len(resp.Data))
	return "", nil
}

// GetResources lists all resources of the installation.
func (c *ClientImpl) GetResources(ctx context.Context) ([]Resource, error) {
	var resp struct {
		Data []Resource `json:"data"`
	}
	if err := c.get(ctx, "resources", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
