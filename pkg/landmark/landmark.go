// Package landmark holds a fixed list of Seoul landmarks popular with
// visitors and the geometry helpers the map views need.
package landmark

import (
	"cmp"
	"encoding/json"
	"math"
	"slices"
)

// Landmark is a named point of interest.
type Landmark struct {
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Description string  `json:"description"`
}

// Map defaults: central Seoul at city zoom.
const (
	CenterLat   = 37.5665
	CenterLon   = 126.9780
	DefaultZoom = 12
)

const earthRadiusKm = 6371.0

var seoulTop10 = []Landmark{
	{"Gyeongbokgung Palace", 37.579884, 126.9768, "Historic Joseon royal palace, a must-see."},
	{"N Seoul Tower (Namsan)", 37.551170, 126.988228, "Iconic observatory with panoramic city views."},
	{"Myeong-dong", 37.563183, 126.98535, "Shopping & street food hotspot."},
	{"Bukchon Hanok Village", 37.579956, 126.982089, "Traditional hanok neighborhood for photos."},
	{"Insadong", 37.574353, 126.984355, "Art, tea houses and crafts: a cultural street."},
	{"Hongdae (Hongik University area)", 37.55528, 126.92333, "Youth culture, cafés, live music, street art."},
	{"Dongdaemun Design Plaza (DDP)", 37.5663, 127.0090, "Futuristic architecture, night shopping."},
	{"Changdeokgung Palace & Huwon", 37.5826, 126.9910, "UNESCO palace with secret garden (Huwon)."},
	{"Cheonggyecheon Stream", 37.5702, 126.9768, "Urban stream restoration, pleasant walk."},
	{"Lotte World Tower (Seoul Sky)", 37.5130, 127.1025, "Tall skyscraper with observation deck."},
}

// All returns the landmarks in their listed order. The slice is a copy.
func All() []Landmark {
	return slices.Clone(seoulTop10)
}

// Distance returns the great-circle distance in kilometres.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

// Nearest returns the landmark closest to (lat, lon) and its distance.
func Nearest(lat, lon float64) (Landmark, float64) {
	best, bestDist := seoulTop10[0], math.Inf(1)
	for _, l := range seoulTop10 {
		if d := Distance(lat, lon, l.Lat, l.Lon); d < bestDist {
			best, bestDist = l, d
		}
	}
	return best, bestDist
}

// ByDistance returns all landmarks sorted by distance from (lat, lon).
func ByDistance(lat, lon float64) []Landmark {
	out := All()
	slices.SortStableFunc(out, func(a, b Landmark) int {
		return cmp.Compare(Distance(lat, lon, a.Lat, a.Lon), Distance(lat, lon, b.Lat, b.Lon))
	})
	return out
}

// Box is a latitude/longitude bounding box.
type Box struct {
	MinLat, MinLon float64
	MaxLat, MaxLon float64
}

// Bounds returns the smallest box containing every landmark.
func Bounds() Box {
	b := Box{MinLat: math.Inf(1), MinLon: math.Inf(1), MaxLat: math.Inf(-1), MaxLon: math.Inf(-1)}
	for _, l := range seoulTop10 {
		b.MinLat = math.Min(b.MinLat, l.Lat)
		b.MinLon = math.Min(b.MinLon, l.Lon)
		b.MaxLat = math.Max(b.MaxLat, l.Lat)
		b.MaxLon = math.Max(b.MaxLon, l.Lon)
	}
	return b
}

type featureCollection struct {
	Type     string    `json:"type"`
	BBox     []float64 `json:"bbox"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string         `json:"type"`
	Geometry   geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// FeatureCollection encodes the landmarks as a GeoJSON FeatureCollection of
// points. GeoJSON orders coordinates longitude first.
func FeatureCollection() ([]byte, error) {
	b := Bounds()
	fc := featureCollection{
		Type:     "FeatureCollection",
		BBox:     []float64{b.MinLon, b.MinLat, b.MaxLon, b.MaxLat},
		Features: make([]feature, len(seoulTop10)),
	}
	for i, l := range seoulTop10 {
		fc.Features[i] = feature{
			Type:     "Feature",
			Geometry: geometry{Type: "Point", Coordinates: [2]float64{l.Lon, l.Lat}},
			Properties: map[string]any{
				"rank":        i + 1,
				"name":        l.Name,
				"description": l.Description,
			},
		}
	}
	return json.MarshalIndent(fc, "", "  ")
}
