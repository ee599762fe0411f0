package consensus

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/dxid-chain/go-dxid/inter"
)

// maxBufferedBlocks bounds memory spent on out-of-order arrivals.
const maxBufferedBlocks = 1024

type bufferedBlock struct {
	block    *inter.Block
	deadline time.Time
}

// blockBuffer holds blocks whose parent hasn't arrived yet, keyed by the
// missing parent's hash. Entries past their deadline are discarded on the
// next sweep.
type blockBuffer struct {
	mu       sync.Mutex
	byParent map[common.Hash][]bufferedBlock
	size     int
}

func newBlockBuffer() *blockBuffer {
	return &blockBuffer{
		byParent: map[common.Hash][]bufferedBlock{},
	}
}

// Push buffers a block waiting for its parent. Oversized buffers drop the
// incoming block rather than evicting older ones.
func (b *blockBuffer) Push(block *inter.Block, wait time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.size >= maxBufferedBlocks {
		return
	}
	parent := block.Header.ParentHash
	b.byParent[parent] = append(b.byParent[parent], bufferedBlock{
		block:    block,
		deadline: time.Now().Add(wait),
	})
	b.size++
}

// Pop returns the blocks waiting for the given parent, dropping expired ones.
func (b *blockBuffer) Pop(parent common.Hash) []*inter.Block {
	b.mu.Lock()
	defer b.mu.Unlock()
	waiting := b.byParent[parent]
	if len(waiting) == 0 {
		return nil
	}
	delete(b.byParent, parent)
	b.size -= len(waiting)

	now := time.Now()
	blocks := make([]*inter.Block, 0, len(waiting))
	for _, w := range waiting {
		if now.After(w.deadline) {
			continue
		}
		blocks = append(blocks, w.block)
	}
	return blocks
}

// Sweep discards every expired entry.
func (b *blockBuffer) Sweep() {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now()
	for parent, waiting := range b.byParent {
		kept := waiting[:0]
		for _, w := range waiting {
			if now.After(w.deadline) {
				b.size--
				continue
			}
			kept = append(kept, w)
		}
		if len(kept) == 0 {
			delete(b.byParent, parent)
		} else {
			b.byParent[parent] = kept
		}
	}
}

// Len returns the number of buffered blocks.
func (b *blockBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}
