package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/paulmach/orb"
	"github.com/wroge/wgs84"
)

// WGS84 ellipsoid.
const (
	wgs84A = 6378137.0
	wgs84F = 1 / 298.257223563

	upsK0    = 0.994
	upsFalse = 2000000.0
)

var ecc = math.Sqrt(wgs84F * (2 - wgs84F))

// Projection converts between geographic lon/lat degrees and a planar
// system in meters.
type Projection interface {
	Forward(p orb.Point) orb.Point
	Inverse(p orb.Point) orb.Point
	String() string
}

// UTM is a Transverse Mercator zone on WGS84.
type UTM struct {
	Zone  int
	North bool
}

func (u UTM) String() string {
	h := "S"
	if u.North {
		h = "N"
	}
	return fmt.Sprintf("UTM %d%s", u.Zone, h)
}

type utmTransform struct {
	forward, inverse wgs84.Func
}

var utmTransforms sync.Map // UTM -> utmTransform

func (u UTM) transform() utmTransform {
	if t, ok := utmTransforms.Load(u); ok {
		return t.(utmTransform)
	}
	crs := wgs84.UTM(float64(u.Zone), u.North)
	t := utmTransform{
		forward: wgs84.LonLat().To(crs),
		inverse: crs.To(wgs84.LonLat()),
	}
	utmTransforms.Store(u, t)
	return t
}

// Forward projects lon/lat degrees to easting/northing.
func (u UTM) Forward(p orb.Point) orb.Point {
	x, y, _ := u.transform().forward(p[0], p[1], 0)
	return orb.Point{x, y}
}

// Inverse converts easting/northing back to lon/lat degrees.
func (u UTM) Inverse(p orb.Point) orb.Point {
	lon, lat, _ := u.transform().inverse(p[0], p[1], 0)
	return orb.Point{lon, lat}
}

// UPS is the Universal Polar Stereographic projection for one pole.
type UPS struct {
	North bool
}

func (u UPS) String() string {
	if u.North {
		return "UPS N"
	}
	return "UPS S"
}

func upsScale() float64 {
	return 2 * wgs84A * upsK0 / math.Sqrt(math.Pow(1+ecc, 1+ecc)*math.Pow(1-ecc, 1-ecc))
}

// Forward projects lon/lat degrees to easting/northing.
func (u UPS) Forward(p orb.Point) orb.Point {
	phi := p[1] * math.Pi / 180
	if !u.North {
		phi = -phi
	}
	lam := p[0] * math.Pi / 180

	es := ecc * math.Sin(phi)
	t := math.Tan(math.Pi/4-phi/2) / math.Pow((1-es)/(1+es), ecc/2)
	rho := upsScale() * t

	x := upsFalse + rho*math.Sin(lam)
	y := upsFalse - rho*math.Cos(lam)
	if !u.North {
		y = 2*upsFalse - y
	}
	return orb.Point{x, y}
}

// Inverse converts easting/northing back to lon/lat degrees.
func (u UPS) Inverse(p orb.Point) orb.Point {
	dx := p[0] - upsFalse
	dy := p[1] - upsFalse
	if !u.North {
		dy = -dy
	}
	rho := math.Hypot(dx, dy)
	t := rho / upsScale()

	phi := math.Pi/2 - 2*math.Atan(t)
	for i := 0; i < 10; i++ {
		es := ecc * math.Sin(phi)
		phi = math.Pi/2 - 2*math.Atan(t*math.Pow((1-es)/(1+es), ecc/2))
	}
	lam := math.Atan2(dx, -dy)

	lat := phi * 180 / math.Pi
	if !u.North {
		lat = -lat
	}
	return orb.Point{lam * 180 / math.Pi, lat}
}

// ProjectionAt picks the UTM or UPS projection covering lon/lat, honoring
// the Norway and Svalbard zone exceptions.
func ProjectionAt(lon, lat float64) Projection {
	if lat >= 84 {
		return UPS{North: true}
	}
	if lat < -80 {
		return UPS{North: false}
	}

	zone := int(math.Floor((lon+180)/6)) + 1
	if zone > 60 {
		zone = 60
	}
	if zone < 1 {
		zone = 1
	}

	switch {
	case lat >= 56 && lat < 64 && lon >= 3 && lon < 12:
		zone = 32
	case lat >= 72 && lat < 84 && lon >= 0:
		switch {
		case lon < 9:
			zone = 31
		case lon < 21:
			zone = 33
		case lon < 33:
			zone = 35
		case lon < 42:
			zone = 37
		}
	}
	return UTM{Zone: zone, North: lat >= 0}
}

// ZoneProjection returns the projection that owns a grid zone designator
// such as "32V" or "01Z".
func ZoneProjection(gzd string) (Projection, error) {
	gzd = strings.TrimSpace(gzd)
	if len(gzd) < 2 {
		return nil, fmt.Errorf("invalid grid zone %q", gzd)
	}
	row := gzd[len(gzd)-1]
	zone, err := strconv.Atoi(gzd[:len(gzd)-1])
	if err != nil {
		return nil, fmt.Errorf("invalid grid zone %q: %w", gzd, err)
	}

	switch row {
	case 'A', 'B':
		return UPS{North: false}, nil
	case 'Y', 'Z':
		return UPS{North: true}, nil
	}
	if zone < 1 || zone > 60 || row < 'C' || row > 'X' || row == 'I' || row == 'O' {
		return nil, fmt.Errorf("invalid grid zone %q", gzd)
	}
	return UTM{Zone: zone, North: row >= 'N'}, nil
}
