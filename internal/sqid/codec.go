// Package sqid reads and writes the binary 100 km square dataset.
//
// The file is little-endian:
//
//	u32 cell count
//	per cell:
//	  char[3] zone, char[2] square id,
//	  i8 easting/100000, i8 northing/100000,
//	  u16 vertex count, then vertex count x (u64 lon, u64 lat) float64 bits
package sqid

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"mgrsgrid/internal/model"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	log "github.com/sirupsen/logrus"
)

// MaxVertices is the sanity ceiling for a single cell boundary.
const MaxVertices = 16384

const hundredKm = 100000.0

var ErrCorruptDataset = errors.New("sqid dataset is corrupt")

// fatalf terminates the process on a corrupt dataset.
var fatalf = log.Fatalf

// WriteCells simplifies every cell boundary and encodes the dataset to w.
func WriteCells(w io.Writer, cells []model.SourceCell) error {
	bw := bufio.NewWriter(w)

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(cells))); err != nil {
		return fmt.Errorf("write cell count: %w", err)
	}

	buf := make([]byte, 16)
	for i, c := range cells {
		boundary := SimplifyGeo(c.Boundary)
		if len(boundary) > MaxVertices {
			return fmt.Errorf("cell %s%s has %d vertices, limit is %d", c.GZD, c.SQID, len(boundary), MaxVertices)
		}

		easting, err := hundredKmUnits(c.Easting)
		if err != nil {
			return fmt.Errorf("cell %d easting: %w", i, err)
		}
		northing, err := hundredKmUnits(c.Northing)
		if err != nil {
			return fmt.Errorf("cell %d northing: %w", i, err)
		}

		header := make([]byte, 0, 9)
		header = append(header, fixed(model.PadZoneID(c.GZD), 3)...)
		header = append(header, fixed(c.SQID, 2)...)
		header = append(header, byte(easting), byte(northing))
		header = binary.LittleEndian.AppendUint16(header, uint16(len(boundary)))
		if _, err := bw.Write(header); err != nil {
			return fmt.Errorf("write cell %d header: %w", i, err)
		}

		for _, p := range boundary {
			binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(p[0]))
			binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(p[1]))
			if _, err := bw.Write(buf); err != nil {
				return fmt.Errorf("write cell %d vertices: %w", i, err)
			}
		}
	}

	return bw.Flush()
}

// ReadCells decodes a dataset. A vertex count above MaxVertices means the
// file is corrupt and the process is terminated. Cells without geometry
// are logged and skipped.
func ReadCells(r io.Reader) ([]model.SQIDCell, error) {
	br := bufio.NewReader(r)

	var count uint32
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("read cell count: %w", err)
	}

	cells := make([]model.SQIDCell, 0, min(int(count), 1<<16))
	header := make([]byte, 9)
	buf := make([]byte, 16)

	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(br, header); err != nil {
			return nil, fmt.Errorf("read cell %d header: %w", i, err)
		}
		gzd := model.PadZoneID(strings.TrimRight(string(header[0:3]), "\x00 "))
		sqid := strings.TrimRight(string(header[3:5]), "\x00 ")
		easting := float64(int8(header[5])) * hundredKm
		northing := float64(int8(header[6])) * hundredKm
		n := int(binary.LittleEndian.Uint16(header[7:9]))

		if n > MaxVertices {
			fatalf("SQID bin file is corrupt (zone %s, square %s, %d vertices), abort", gzd, sqid, n)
			return nil, fmt.Errorf("cell %d declares %d vertices: %w", i, n, ErrCorruptDataset)
		}

		ring := make(orb.Ring, n)
		for j := 0; j < n; j++ {
			if _, err := io.ReadFull(br, buf); err != nil {
				return nil, fmt.Errorf("read cell %d vertex %d: %w", i, j, err)
			}
			ring[j] = orb.Point{
				math.Float64frombits(binary.LittleEndian.Uint64(buf[0:8])),
				math.Float64frombits(binary.LittleEndian.Uint64(buf[8:16])),
			}
		}

		if n == 0 {
			log.Infof("Empty SQID geom at %s %s", gzd, sqid)
			continue
		}

		cells = append(cells, model.SQIDCell{
			GZD:      gzd,
			SQID:     sqid,
			Easting:  easting,
			Northing: northing,
			Boundary: ring,
		})
	}

	return cells, nil
}

// SimplifyGeo runs Simplify on a lon/lat line in spherical Mercator.
func SimplifyGeo(ls orb.LineString) orb.LineString {
	if len(ls) < 3 {
		return ls
	}
	planar := project.LineString(ls.Clone(), project.WGS84.ToMercator)
	return project.LineString(Simplify(planar), project.Mercator.ToWGS84)
}

// Simplify drops vertices whose incoming and outgoing edge directions
// have a dot product above 0.60, walking the line in order.
func Simplify(ls orb.LineString) orb.LineString {
	out := ls.Clone()
	for i := 1; i < len(out)-1; i++ {
		a := unit(out[i][0]-out[i-1][0], out[i][1]-out[i-1][1])
		b := unit(out[i+1][0]-out[i][0], out[i+1][1]-out[i][1])
		if a[0]*b[0]+a[1]*b[1] > 0.60 {
			out = append(out[:i], out[i+1:]...)
			i--
		}
	}
	return out
}

func unit(x, y float64) orb.Point {
	l := math.Hypot(x, y)
	if l == 0 {
		return orb.Point{}
	}
	return orb.Point{x / l, y / l}
}

func hundredKmUnits(v float64) (int8, error) {
	u := math.Trunc(v / hundredKm)
	if u < math.MinInt8 || u > math.MaxInt8 {
		return 0, fmt.Errorf("%v is out of range for a single byte", v)
	}
	return int8(u), nil
}

func fixed(s string, n int) []byte {
	b := make([]byte, n)
	copy(b, s)
	return b
}
