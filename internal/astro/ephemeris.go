package astro

import (
	"math"
	"time"
)

// Low-precision mean-element ephemeris. Accuracy is a few arc minutes for
// the Sun and Moon and well under a degree for the planets over the
// 1900-2100 range, which is more than enough to place bodies in signs and
// detect aspects within their orbs.

// Body is a celestial body or chart point.
type Body string

const (
	Sun       Body = "sun"
	Moon      Body = "moon"
	Mercury   Body = "mercury"
	Venus     Body = "venus"
	Mars      Body = "mars"
	Jupiter   Body = "jupiter"
	Saturn    Body = "saturn"
	Uranus    Body = "uranus"
	Neptune   Body = "neptune"
	Pluto     Body = "pluto"
	AscNode   Body = "asc_node"
	Asc       Body = "asc"
	Midheaven Body = "mc"
)

// ChartBodies is the fixed rendering order for placements and grids.
var ChartBodies = []Body{
	Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn,
	Uranus, Neptune, Pluto, AscNode, Asc, Midheaven,
}

// Position is an ecliptic placement of a body.
type Position struct {
	Body Body
	Lon  float64 // geocentric ecliptic longitude, degrees
	Sign Sign
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
func rad2deg(r float64) float64 { return r * 180 / math.Pi }

func sind(d float64) float64 { return math.Sin(deg2rad(d)) }
func cosd(d float64) float64 { return math.Cos(deg2rad(d)) }
func tand(d float64) float64 { return math.Tan(deg2rad(d)) }

func atan2d(y, x float64) float64 { return rad2deg(math.Atan2(y, x)) }

// dayNumber is the time scale of the mean-element series: days from
// 2000-01-00.0 TDT, fractional.
func dayNumber(t time.Time) float64 {
	t = t.UTC()
	y, m, d := t.Year(), int(t.Month()), t.Day()
	n := 367*y - 7*(y+(m+9)/12)/4 + 275*m/9 + d - 730530
	ut := float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
	return float64(n) + ut/24
}

// obliquity of the ecliptic, degrees.
func obliquity(d float64) float64 {
	return 23.4393 - 3.563e-7*d
}

// orbital elements of a body at day number d.
type elements struct {
	N float64 // longitude of ascending node
	i float64 // inclination
	w float64 // argument of perihelion
	a float64 // semi-major axis
	e float64 // eccentricity
	M float64 // mean anomaly
}

func sunElements(d float64) elements {
	return elements{
		N: 0,
		i: 0,
		w: 282.9404 + 4.70935e-5*d,
		a: 1.0,
		e: 0.016709 - 1.151e-9*d,
		M: normalizeDeg(356.0470 + 0.9856002585*d),
	}
}

func moonElements(d float64) elements {
	return elements{
		N: normalizeDeg(125.1228 - 0.0529538083*d),
		i: 5.1454,
		w: normalizeDeg(318.0634 + 0.1643573223*d),
		a: 60.2666, // earth radii
		e: 0.054900,
		M: normalizeDeg(115.3654 + 13.0649929509*d),
	}
}

func planetElements(body Body, d float64) elements {
	switch body {
	case Mercury:
		return elements{
			N: 48.3313 + 3.24587e-5*d,
			i: 7.0047 + 5.00e-8*d,
			w: 29.1241 + 1.01444e-5*d,
			a: 0.387098,
			e: 0.205635 + 5.59e-10*d,
			M: normalizeDeg(168.6562 + 4.0923344368*d),
		}
	case Venus:
		return elements{
			N: 76.6799 + 2.46590e-5*d,
			i: 3.3946 + 2.75e-8*d,
			w: 54.8910 + 1.38374e-5*d,
			a: 0.723330,
			e: 0.006773 - 1.302e-9*d,
			M: normalizeDeg(48.0052 + 1.6021302244*d),
		}
	case Mars:
		return elements{
			N: 49.5574 + 2.11081e-5*d,
			i: 1.8497 - 1.78e-8*d,
			w: 286.5016 + 2.92961e-5*d,
			a: 1.523688,
			e: 0.093405 + 2.516e-9*d,
			M: normalizeDeg(18.6021 + 0.5240207766*d),
		}
	case Jupiter:
		return elements{
			N: 100.4542 + 2.76854e-5*d,
			i: 1.3030 - 1.557e-7*d,
			w: 273.8777 + 1.64505e-5*d,
			a: 5.20256,
			e: 0.048498 + 4.469e-9*d,
			M: normalizeDeg(19.8950 + 0.0830853001*d),
		}
	case Saturn:
		return elements{
			N: 113.6634 + 2.38980e-5*d,
			i: 2.4886 - 1.081e-7*d,
			w: 339.3939 + 2.97661e-5*d,
			a: 9.55475,
			e: 0.055546 - 9.499e-9*d,
			M: normalizeDeg(316.9670 + 0.0334442282*d),
		}
	case Uranus:
		return elements{
			N: 74.0005 + 1.3978e-5*d,
			i: 0.7733 + 1.9e-8*d,
			w: 96.6612 + 3.0565e-5*d,
			a: 19.18171 - 1.55e-8*d,
			e: 0.047318 + 7.45e-9*d,
			M: normalizeDeg(142.5905 + 0.011725806*d),
		}
	default: // Neptune
		return elements{
			N: 131.7806 + 3.0173e-5*d,
			i: 1.7700 - 2.55e-7*d,
			w: 272.8461 - 6.027e-6*d,
			a: 30.05826 + 3.313e-8*d,
			e: 0.008606 + 2.15e-9*d,
			M: normalizeDeg(260.2471 + 0.005995147*d),
		}
	}
}

// eccentricAnomaly solves Kepler's equation iteratively, degrees.
func eccentricAnomaly(M, e float64) float64 {
	E := M + rad2deg(e)*sind(M)*(1+e*cosd(M))
	for range 10 {
		next := E - (E-rad2deg(e)*sind(E)-M)/(1-e*cosd(E))
		if math.Abs(next-E) < 1e-6 {
			return next
		}
		E = next
	}
	return E
}

// heliocentric rectangular ecliptic coordinates from elements.
func heliocentric(el elements) (x, y, z float64) {
	E := eccentricAnomaly(el.M, el.e)
	xv := el.a * (cosd(E) - el.e)
	yv := el.a * math.Sqrt(1-el.e*el.e) * sind(E)
	v := atan2d(yv, xv)
	r := math.Sqrt(xv*xv + yv*yv)

	u := v + el.w
	x = r * (cosd(el.N)*cosd(u) - sind(el.N)*sind(u)*cosd(el.i))
	y = r * (sind(el.N)*cosd(u) + cosd(el.N)*sind(u)*cosd(el.i))
	z = r * sind(u) * sind(el.i)
	return
}

// sunLongitude returns the geocentric ecliptic longitude of the Sun and its
// rectangular coordinates (for planet geocentric conversion).
func sunState(d float64) (lon, xs, ys float64) {
	el := sunElements(d)
	E := eccentricAnomaly(el.M, el.e)
	xv := cosd(E) - el.e
	yv := math.Sqrt(1-el.e*el.e) * sind(E)
	v := atan2d(yv, xv)
	r := math.Sqrt(xv*xv + yv*yv)
	lon = normalizeDeg(v + el.w)
	xs = r * cosd(lon)
	ys = r * sind(lon)
	return
}

// moonLongitude returns the geocentric ecliptic longitude of the Moon with
// the principal perturbation terms applied.
func moonLongitude(d float64) float64 {
	el := moonElements(d)
	x, y, _ := heliocentric(el) // geocentric already: elements are earth-relative
	lon := normalizeDeg(atan2d(y, x))

	sun := sunElements(d)
	Ms := sun.M
	Ls := normalizeDeg(Ms + sun.w)         // sun mean longitude
	Lm := normalizeDeg(el.M + el.w + el.N) // moon mean longitude
	D := Lm - Ls                           // mean elongation
	F := Lm - el.N                         // argument of latitude
	Mm := el.M

	lon += -1.274*sind(Mm-2*D) +
		0.658*sind(2*D) -
		0.186*sind(Ms) -
		0.059*sind(2*Mm-2*D) -
		0.057*sind(Mm-2*D+Ms) +
		0.053*sind(Mm+2*D) +
		0.046*sind(2*D-Ms) +
		0.041*sind(Mm-Ms) -
		0.035*sind(D) -
		0.031*sind(Mm+Ms) -
		0.015*sind(2*F-2*D) +
		0.011*sind(Mm-4*D)
	return normalizeDeg(lon)
}

// planetLongitude returns the geocentric ecliptic longitude of a planet.
func planetLongitude(body Body, d float64) float64 {
	if body == Pluto {
		return plutoLongitude(d)
	}
	xh, yh, _ := heliocentric(planetElements(body, d))
	_, xs, ys := sunState(d)
	return normalizeDeg(atan2d(yh+ys, xh+xs))
}

// plutoLongitude uses the periodic-term fit valid 1900-2100. At Pluto's
// distance the heliocentric-to-geocentric shift stays under a degree, which
// never moves it across a sign boundary in practice.
func plutoLongitude(d float64) float64 {
	S := 50.03 + 0.033459652*d
	P := 238.95 + 0.003968789*d
	lon := 238.9508 + 0.00400703*d -
		19.799*sind(P) + 19.848*cosd(P) +
		0.897*sind(2*P) - 4.956*cosd(2*P) +
		0.610*sind(3*P) + 1.211*cosd(3*P) -
		0.341*sind(4*P) - 0.190*cosd(4*P) +
		0.128*sind(5*P) - 0.034*cosd(5*P) -
		0.038*sind(6*P) + 0.031*cosd(6*P) +
		0.020*sind(S-P) - 0.010*cosd(S-P)
	return normalizeDeg(lon)
}

// localSiderealTime in degrees for a UTC time and east longitude.
func localSiderealTime(t time.Time, lonEast float64) float64 {
	d := dayNumber(t)
	sun := sunElements(d)
	gmst0 := normalizeDeg(sun.M + sun.w + 180)
	ut := float64(t.UTC().Hour()) + float64(t.UTC().Minute())/60 + float64(t.UTC().Second())/3600
	return normalizeDeg(gmst0 + ut*15 + lonEast)
}

// ascendant returns the rising ecliptic longitude for a time and place.
func ascendant(t time.Time, lat, lonEast float64) float64 {
	ramc := localSiderealTime(t, lonEast)
	ecl := obliquity(dayNumber(t))
	asc := atan2d(cosd(ramc), -(sind(ramc)*cosd(ecl) + tand(lat)*sind(ecl)))
	return normalizeDeg(asc)
}

// midheaven returns the culminating ecliptic longitude.
func midheaven(t time.Time, lonEast float64) float64 {
	ramc := localSiderealTime(t, lonEast)
	ecl := obliquity(dayNumber(t))
	mc := atan2d(sind(ramc), cosd(ramc)*cosd(ecl))
	return normalizeDeg(mc)
}

// Positions computes every chart body for a UTC time and place.
func Positions(t time.Time, lat, lonEast float64) []Position {
	d := dayNumber(t)
	sunLon, _, _ := sunState(d)

	lons := map[Body]float64{
		Sun:       sunLon,
		Moon:      moonLongitude(d),
		Mercury:   planetLongitude(Mercury, d),
		Venus:     planetLongitude(Venus, d),
		Mars:      planetLongitude(Mars, d),
		Jupiter:   planetLongitude(Jupiter, d),
		Saturn:    planetLongitude(Saturn, d),
		Uranus:    planetLongitude(Uranus, d),
		Neptune:   planetLongitude(Neptune, d),
		Pluto:     planetLongitude(Pluto, d),
		AscNode:   moonElements(d).N,
		Asc:       ascendant(t, lat, lonEast),
		Midheaven: midheaven(t, lonEast),
	}

	positions := make([]Position, 0, len(ChartBodies))
	for _, body := range ChartBodies {
		lon := normalizeDeg(lons[body])
		positions = append(positions, Position{Body: body, Lon: lon, Sign: SignForLongitude(lon)})
	}
	return positions
}
