package collections

import (
	"fmt"

	"github.com/festy23/trip_publisher/internal/wizard/model"
)

// MaxScreenshots caps the screenshot collection.
const MaxScreenshots = 5

// Asset is an uploaded file. Preview is an optional locally held thumbnail.
type Asset struct {
	URL     string
	Name    string
	Preview []byte
	// Release frees the local handle; called once when the asset leaves the collection.
	Release func()
}

func (a *Asset) release() {
	if a.Release != nil {
		a.Release()
		a.Release = nil
	}
	a.Preview = nil
}

// Assets is an ordered, capped list of uploaded files.
type Assets struct {
	limit int
	items []*Asset
}

// NewAssets returns a collection capped at limit (MaxScreenshots when limit <= 0).
func NewAssets(limit int) *Assets {
	if limit <= 0 {
		limit = MaxScreenshots
	}
	return &Assets{limit: limit}
}

// Remaining returns how many more assets fit.
func (a *Assets) Remaining() int {
	return a.limit - len(a.items)
}

// Append adds assets in order. Assets beyond the cap are released and rejected.
func (a *Assets) Append(assets ...*Asset) error {
	for i, asset := range assets {
		if a.Remaining() <= 0 {
			for _, rest := range assets[i:] {
				rest.release()
			}
			return fmt.Errorf("%w: %d", model.ErrAssetLimit, a.limit)
		}
		a.items = append(a.items, asset)
	}
	return nil
}

// Remove deletes the asset at index and releases its local handle.
func (a *Assets) Remove(index int) error {
	if index < 0 || index >= len(a.items) {
		return fmt.Errorf("%w: screenshot %d", model.ErrIndexOutOfRange, index)
	}
	a.items[index].release()
	a.items = append(a.items[:index], a.items[index+1:]...)
	return nil
}

// Get returns the asset at index.
func (a *Assets) Get(index int) (*Asset, bool) {
	if index < 0 || index >= len(a.items) {
		return nil, false
	}
	return a.items[index], true
}

// URLs returns the remote URLs in order.
func (a *Assets) URLs() []string {
	out := make([]string, 0, len(a.items))
	for _, it := range a.items {
		out = append(out, it.URL)
	}
	return out
}

// Len returns the number of assets.
func (a *Assets) Len() int {
	return len(a.items)
}

// Reset releases and drops every asset.
func (a *Assets) Reset() {
	for _, it := range a.items {
		it.release()
	}
	a.items = nil
}
