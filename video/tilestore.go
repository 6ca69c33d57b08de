package video

import "fmt"

// Charblock geometry: 256 8bpp tiles of 64 bytes.
const (
	TilesPerCharblock = 256
	tileBytes         = TileSize * TileSize
	charblockBytes    = TilesPerCharblock * tileBytes
)

// TileStore owns the shadow copy of one charblock of 8bpp tile data.
// Charblocks 0-3 hold background tiles, 4-5 sprite tiles. Two stores must
// not claim the same charblock.
type TileStore struct {
	bios      BIOS
	base      uint32
	charblock int
	buf       []byte
}

// NewTileStore creates the store for a charblock.
func NewTileStore(bios BIOS, t *Table, charblock int) (*TileStore, error) {
	if charblock < 0 || charblock >= t.Charblocks {
		return nil, fmt.Errorf("charblock %d (have %d): %w", charblock, t.Charblocks, ErrBlockIndex)
	}
	return &TileStore{
		bios:      bios,
		base:      t.CharblockAddr(charblock),
		charblock: charblock,
		buf:       make([]byte, charblockBytes),
	}, nil
}

// Charblock returns the charblock index.
func (s *TileStore) Charblock() int {
	return s.charblock
}

// Address returns the hardware address of the charblock.
func (s *TileStore) Address() uint32 {
	return s.base
}

// Len returns the size of the backing buffer in bytes.
func (s *TileStore) Len() int {
	return len(s.buf)
}

// Bytes returns the backing buffer. Changes are visible after Upload.
func (s *TileStore) Bytes() []byte {
	return s.buf
}

// Assemble copies every cell of tile into consecutive tile slots starting at
// slot offset, row-major over the tile's cells. Cells past the end of the
// charblock are dropped.
func (s *TileStore) Assemble(tile *Tile, offset int) {
	for cy := 0; cy < tile.CellsH; cy++ {
		for cx := 0; cx < tile.CellsW; cx++ {
			slot := offset + cy*tile.CellsW + cx
			start := slot * tileBytes
			if slot < 0 || start+tileBytes > len(s.buf) {
				continue
			}
			tile.cell(s.buf[start:start+tileBytes], cx, cy)
		}
	}
}

// Clear zeroes the backing buffer.
func (s *TileStore) Clear() {
	for i := range s.buf {
		s.buf[i] = 0
	}
}

// Upload copies the whole buffer to the charblock. Only call it during
// vertical blank or with the display blanked.
func (s *TileStore) Upload() error {
	if err := FastCopy(s.bios, s.buf, s.base); err != nil {
		return fmt.Errorf("charblock %d upload: %w", s.charblock, err)
	}
	return nil
}
