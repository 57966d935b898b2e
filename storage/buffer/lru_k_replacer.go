package buffer

import (
	"errors"

	"github.com/lanterndb/coredb/types"
)

// ErrOutOfRange is returned when a caller passes a frame id outside
// [0, numFrames) to RecordAccess or SetEvictable.
var ErrOutOfRange = errors.New("lru_k_replacer: frame id out of range")

// ErrNotEvictable is returned by Remove when the frame is currently
// pinned (not marked evictable).
var ErrNotEvictable = errors.New("lru_k_replacer: frame is not evictable")

// lruKNode tracks one frame's access history. history holds timestamps
// most-recent-first, capped at k entries.
type lruKNode struct {
	history     []uint64
	isEvictable bool
}

// LRUKReplacer tracks frame access history and picks eviction victims using
// the LRU-K policy: a frame's backward k-distance is the gap between now and
// its k-th most recent access, and the frame with the largest such distance
// is evicted. Frames with fewer than k recorded accesses have infinite
// backward distance and are evicted first, oldest-first-access wins among
// those.
type LRUKReplacer struct {
	nodeStore        map[types.FrameID]*lruKNode
	currentTimestamp uint64
	currSize         int
	replacerSize     int
	k                int
}

// NewLRUKReplacer constructs a replacer tracking up to numFrames frames,
// each with k-length access history.
func NewLRUKReplacer(numFrames int, k int) *LRUKReplacer {
	return &LRUKReplacer{
		nodeStore:    make(map[types.FrameID]*lruKNode),
		replacerSize: numFrames,
		k:            k,
	}
}

// Evict selects and removes the best eviction victim among evictable
// frames, reporting false if none are evictable.
func (r *LRUKReplacer) Evict() (types.FrameID, bool) {
	var fid types.FrameID = -1
	var infFid types.FrameID = -1
	ts := r.currentTimestamp + 1
	infTs := r.currentTimestamp + 1

	for id, node := range r.nodeStore {
		if !node.isEvictable {
			continue
		}
		if len(node.history) < r.k {
			if len(node.history) == 0 {
				infFid = id
				break
			}
			oldest := node.history[len(node.history)-1]
			if oldest < infTs {
				infFid = id
				infTs = oldest
			}
			continue
		}
		if infFid != -1 {
			continue
		}
		kthRecent := node.history[r.k-1]
		if kthRecent < ts {
			fid = id
			ts = kthRecent
		}
	}

	if infFid != -1 {
		r.remove(infFid)
		return infFid, true
	}
	if fid != -1 {
		r.remove(fid)
		return fid, true
	}
	return types.FrameID(-1), false
}

// RecordAccess logs an access to frameID at the current logical time,
// failing with ErrOutOfRange if frameID is outside the pool's frame count.
func (r *LRUKReplacer) RecordAccess(frameID types.FrameID) error {
	if int(frameID) < 0 || int(frameID) >= r.replacerSize {
		return ErrOutOfRange
	}

	node, ok := r.nodeStore[frameID]
	if !ok {
		node = &lruKNode{}
		r.nodeStore[frameID] = node
	}

	r.currentTimestamp++
	node.history = append([]uint64{r.currentTimestamp}, node.history...)
	if len(node.history) > r.k {
		node.history = node.history[:r.k]
	}
	return nil
}

// SetEvictable marks frameID as eligible (or not) for eviction. The buffer
// pool calls this opposite to pinning: a frame becomes evictable exactly
// when its pin count drops to zero. Fails with ErrOutOfRange if frameID is
// outside the pool's frame count; a no-op on an untracked frameID.
func (r *LRUKReplacer) SetEvictable(frameID types.FrameID, evictable bool) error {
	if int(frameID) < 0 || int(frameID) >= r.replacerSize {
		return ErrOutOfRange
	}

	node, ok := r.nodeStore[frameID]
	if !ok {
		return nil
	}

	if !node.isEvictable && evictable {
		r.currSize++
	} else if node.isEvictable && !evictable {
		r.currSize--
	}
	node.isEvictable = evictable
	return nil
}

// Remove erases frameID's tracked history, failing with ErrNotEvictable if
// the frame is currently pinned. A no-op, successful call if frameID isn't
// tracked at all.
func (r *LRUKReplacer) Remove(frameID types.FrameID) error {
	node, ok := r.nodeStore[frameID]
	if !ok {
		return nil
	}
	if !node.isEvictable {
		return ErrNotEvictable
	}
	r.remove(frameID)
	return nil
}

// remove clears a frame's history and marks it non-evictable, without
// enforcing the "must already be evictable" precondition both Evict and
// Remove already checked before calling this.
func (r *LRUKReplacer) remove(frameID types.FrameID) {
	node, ok := r.nodeStore[frameID]
	if !ok {
		return
	}
	node.history = nil
	node.isEvictable = false
	r.currSize--
}

// Size reports the number of currently evictable frames.
func (r *LRUKReplacer) Size() int { return r.currSize }

// IsEvictable reports whether frameID is currently tracked and marked
// evictable. Exists for the buffer pool's debug snapshot; the eviction
// policy itself never needs to ask this from outside the package.
func (r *LRUKReplacer) IsEvictable(frameID types.FrameID) bool {
	node, ok := r.nodeStore[frameID]
	if !ok {
		return false
	}
	return node.isEvictable
}
