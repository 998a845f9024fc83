package astro

import "math"

// Sign is a zodiac sign name, lower case.
type Sign string

const (
	Aries       Sign = "aries"
	Taurus      Sign = "taurus"
	Gemini      Sign = "gemini"
	Cancer      Sign = "cancer"
	Leo         Sign = "leo"
	Virgo       Sign = "virgo"
	Libra       Sign = "libra"
	Scorpio     Sign = "scorpio"
	Sagittarius Sign = "sagittarius"
	Capricorn   Sign = "capricorn"
	Aquarius    Sign = "aquarius"
	Pisces      Sign = "pisces"
)

// Signs in ecliptic order, 30 degrees each starting at 0 Aries.
var Signs = []Sign{
	Aries, Taurus, Gemini, Cancer, Leo, Virgo,
	Libra, Scorpio, Sagittarius, Capricorn, Aquarius, Pisces,
}

// SignForLongitude maps an ecliptic longitude in degrees to its sign.
func SignForLongitude(lon float64) Sign {
	idx := int(math.Floor(normalizeDeg(lon)/30)) % 12
	return Signs[idx]
}

// signBoundary is the first calendar day of a sign's solar span.
type signBoundary struct {
	month int
	day   int
	sign  Sign
}

// Tropical sign spans by calendar date, inclusive at both ends.
// Capricorn wraps the year boundary (22 Dec - 19 Jan).
var signBoundaries = []signBoundary{
	{1, 20, Aquarius},
	{2, 19, Pisces},
	{3, 21, Aries},
	{4, 20, Taurus},
	{5, 21, Gemini},
	{6, 21, Cancer},
	{7, 23, Leo},
	{8, 23, Virgo},
	{9, 23, Libra},
	{10, 23, Scorpio},
	{11, 22, Sagittarius},
	{12, 22, Capricorn},
}

// SignForDate returns the sun sign for a calendar date, using the
// conventional boundary table rather than the computed solar longitude.
func SignForDate(month, day int) Sign {
	sign := Capricorn // before 20 Jan
	for _, b := range signBoundaries {
		if month > b.month || (month == b.month && day >= b.day) {
			sign = b.sign
		}
	}
	return sign
}

// Element returns fire, earth, air or water.
func (s Sign) Element() string {
	switch s {
	case Aries, Leo, Sagittarius:
		return "fire"
	case Taurus, Virgo, Capricorn:
		return "earth"
	case Gemini, Libra, Aquarius:
		return "air"
	default:
		return "water"
	}
}

// Modality returns cardinal, fixed or mutable.
func (s Sign) Modality() string {
	switch s {
	case Aries, Cancer, Libra, Capricorn:
		return "cardinal"
	case Taurus, Leo, Scorpio, Aquarius:
		return "fixed"
	default:
		return "mutable"
	}
}

// Polarity returns positive (fire/air) or negative (earth/water).
func (s Sign) Polarity() string {
	switch s.Element() {
	case "fire", "air":
		return "positive"
	default:
		return "negative"
	}
}

// Title returns the sign name with an upper-case initial.
func (s Sign) Title() string {
	if s == "" {
		return ""
	}
	return string(s[0]-'a'+'A') + string(s[1:])
}

func normalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
