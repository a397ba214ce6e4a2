// Package reconcile merges a cached channel document with a freshly fetched one.
package reconcile

import "channel_sync/internal/domain"

// Merge returns remote with each video's and short's view count raised to the
// cached value when the cache saw more views. Every other field comes from
// remote. A nil local copy returns remote unchanged.
func Merge(local, remote *domain.ChannelDocument) *domain.ChannelDocument {
	merged := remote.Clone()
	if local == nil {
		return merged
	}

	merged.Videos = mergeViews(merged.Videos, local.Videos)
	merged.Shorts = mergeViews(merged.Shorts, local.Shorts)
	return merged
}

func mergeViews(remote, local []domain.VideoItem) []domain.VideoItem {
	localViews := make(map[int64]int64, len(local))
	for _, v := range local {
		localViews[v.ID] = v.Views
	}

	for i := range remote {
		if remote[i].Views < 0 {
			remote[i].Views = 0
		}
		if views, ok := localViews[remote[i].ID]; ok && views > remote[i].Views {
			remote[i].Views = views
		}
	}
	return remote
}

// RaiseViews applies externally fetched counts with the same max-wins rule and
// reports how many items changed.
func RaiseViews(items []domain.VideoItem, counts map[int64]int64) int {
	raised := 0
	for i := range items {
		if n, ok := counts[items[i].ID]; ok && n > items[i].Views {
			items[i].Views = n
			raised++
		}
	}
	return raised
}

// NewItems returns the ids in doc that are not in seen, in document order.
func NewItems(doc *domain.ChannelDocument, seen []int64) []int64 {
	seenSet := make(map[int64]struct{}, len(seen))
	for _, id := range seen {
		seenSet[id] = struct{}{}
	}

	fresh := []int64{}
	for _, id := range doc.AllVideoIDs() {
		if _, ok := seenSet[id]; !ok {
			fresh = append(fresh, id)
		}
	}
	return fresh
}

// MarkSeen returns seen extended with every id currently in doc. The result
// never drops an id that was already recorded.
func MarkSeen(doc *domain.ChannelDocument, seen []int64) []int64 {
	out := append([]int64(nil), seen...)
	known := make(map[int64]struct{}, len(seen))
	for _, id := range seen {
		known[id] = struct{}{}
	}
	for _, id := range doc.AllVideoIDs() {
		if _, ok := known[id]; ok {
			continue
		}
		known[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
