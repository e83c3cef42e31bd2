package session

import "encoding/json"

// localLikedItems holds the visitor's liked places as a JSON array on the
// local surface. Likes are device-local and survive logout.
const localLikedItems = "likedItemsDetails"

// LikedItem is an entry in the device-local favorites list.
type LikedItem struct {
	ID          string `json:"id"`
	Title       string `json:"title,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
}

// Likes returns the stored liked items. A missing or unparsable value
// reads as an empty list.
func (m *Manager) Likes() []LikedItem {
	raw, ok := m.surfaces.Local.Get(localLikedItems)
	if !ok || raw == "" {
		return nil
	}
	var items []LikedItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

// AddLike appends an item to the liked list. Liking an already-liked item
// updates it in place.
func (m *Manager) AddLike(item LikedItem) {
	items := m.Likes()
	for i, existing := range items {
		if existing.ID == item.ID {
			items[i] = item
			m.storeLikes(items)
			return
		}
	}
	m.storeLikes(append(items, item))
}

// RemoveLike deletes an item by id. Removing an unknown id is a no-op.
func (m *Manager) RemoveLike(id string) {
	items := m.Likes()
	out := items[:0]
	for _, existing := range items {
		if existing.ID != id {
			out = append(out, existing)
		}
	}
	m.storeLikes(out)
}

// IsLiked reports whether an item id is in the liked list.
func (m *Manager) IsLiked(id string) bool {
	for _, existing := range m.Likes() {
		if existing.ID == id {
			return true
		}
	}
	return false
}

func (m *Manager) storeLikes(items []LikedItem) {
	if len(items) == 0 {
		m.surfaces.Local.Remove(localLikedItems)
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	m.surfaces.Local.Set(localLikedItems, string(data))
}
