package catalog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/openspell/sim/internal/model"
	"github.com/openspell/sim/internal/pathing"
)

// Tile flag bits, grounded verbatim on the teacher's L1V1Map.java port
// (internal/data/mapdata.go): each tile stores its own North/East edge
// passability, with South/West implied by the neighbouring tile's
// North/East bit. pathing.Grid inverts this into an explicit per-tile
// four-direction blocked-bit byte, so the conversion below is done once
// at load time rather than re-derived on every pathing query.
const (
	tilePassableEast  byte = 0x01
	tilePassableNorth byte = 0x02
	tileImpassable    byte = 0x80
)

// MapCatalog loads the per-level tile grids used for pathing/line-of-
// sight. SPEC_FULL collapses the teacher's many discrete Lineage map ids
// down to the three generic vertical layers model.MapLevel names — see
// DESIGN.md's Open Question decision on map/zone multiplicity.
type MapCatalog struct {
	grids map[model.MapLevel]*pathing.Grid
}

// MapLevelSource names one text tile file to load for a given level.
type MapLevelSource struct {
	Level   model.MapLevel
	TileDir string
	MapID   int
	OriginX int32
	OriginY int32
	Width   int32
	Height  int32
}

func LoadMapCatalog(sources []MapLevelSource) (*MapCatalog, error) {
	c := &MapCatalog{grids: make(map[model.MapLevel]*pathing.Grid, len(sources))}
	for _, src := range sources {
		tiles, err := loadTileFile(src.TileDir, src.MapID, int(src.Width), int(src.Height))
		if err != nil {
			return nil, fmt.Errorf("load map level %v: %w", src.Level, err)
		}
		c.grids[src.Level] = buildGrid(src, tiles)
	}
	return c, nil
}

func (c *MapCatalog) Grid(level model.MapLevel) *pathing.Grid { return c.grids[level] }

func loadTileFile(dir string, mapID, xSize, ySize int) ([]byte, error) {
	path := filepath.Join(dir, strconv.Itoa(mapID)+".txt")
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tiles := make([]byte, xSize*ySize)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)

	y := 0
	for scanner.Scan() && y < ySize {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		x := 0
		for _, tok := range strings.Split(line, ",") {
			if x >= xSize {
				break
			}
			val, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 16)
			if err != nil {
				val = 0
			}
			tiles[x*ySize+y] = byte(val)
			x++
		}
		y++
	}
	return tiles, scanner.Err()
}

// buildGrid converts the teacher's passable-bit tile array into a
// pathing.Grid's blocked-bit representation, following exactly the
// cardinal cases of the teacher's IsPassable switch (heading 0/2/4/6):
// North/East read straight off the tile's own bits, South/West read off
// the neighbouring tile's North/East bit.
func buildGrid(src MapLevelSource, tiles []byte) *pathing.Grid {
	grid := pathing.NewGrid(src.Level, src.OriginX, src.OriginY, src.Width, src.Height)
	at := func(x, y int32) byte {
		if x < 0 || y < 0 || x >= src.Width || y >= src.Height {
			return 0
		}
		return tiles[int(x)*int(src.Height)+int(y)]
	}
	for x := int32(0); x < src.Width; x++ {
		for y := int32(0); y < src.Height; y++ {
			tile := at(x, y)
			if tile&tileImpassable != 0 {
				grid.SetFullyBlocked(src.OriginX+x, src.OriginY+y)
				continue
			}
			var blocked byte
			if tile&tilePassableNorth == 0 {
				blocked |= byte(pathing.North)
			}
			if tile&tilePassableEast == 0 {
				blocked |= byte(pathing.East)
			}
			if at(x, y+1)&tilePassableNorth == 0 {
				blocked |= byte(pathing.South)
			}
			if at(x-1, y)&tilePassableEast == 0 {
				blocked |= byte(pathing.West)
			}
			grid.SetBlocking(src.OriginX+x, src.OriginY+y, blocked)
		}
	}
	return grid
}
