// Package findspot records where an inscription was found and renders it as
// a map marker. Coordinates are taken as given; there is no validation or
// gazetteer lookup.
package findspot

import (
	"fmt"
	"math"
	"net/url"
	"strings"
)

// Defaults shown before the researcher enters a site of their own.
const (
	DefaultSite      = "Addanki Pillar"
	DefaultLatitude  = 15.8128
	DefaultLongitude = 79.9699
	DefaultZoom      = 12
)

// Findspot is an archaeological site with WGS84 coordinates.
type Findspot struct {
	Site      string  `json:"site" yaml:"site"`
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lon" yaml:"lon"`
}

// Geometry is a GeoJSON geometry object. Coordinates are [lon, lat].
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// Feature is a GeoJSON Feature describing a single marker.
type Feature struct {
	Type       string            `json:"type"`
	Geometry   Geometry          `json:"geometry"`
	Properties map[string]string `json:"properties"`
}

// Plot is everything a map widget needs to place the marker.
type Plot struct {
	Findspot Findspot `json:"findspot"`
	Zoom     int      `json:"zoom"`
	Feature  Feature  `json:"feature"`
	MapURL   string   `json:"map_url"`
}

// Default returns the default findspot.
func Default() Findspot {
	return Findspot{Site: DefaultSite, Latitude: DefaultLatitude, Longitude: DefaultLongitude}
}

// New builds a Findspot, rounding coordinates to four decimal places
// (roughly 11 m), the precision the coordinates are entered with.
func New(site string, lat, lon float64) Findspot {
	return Findspot{
		Site:      strings.TrimSpace(site),
		Latitude:  round4(lat),
		Longitude: round4(lon),
	}
}

// Plot renders f as a GeoJSON point feature and an OpenStreetMap link.
// A non-positive zoom selects DefaultZoom.
func (f Findspot) Plot(zoom int) *Plot {
	if zoom <= 0 {
		zoom = DefaultZoom
	}

	props := map[string]string{}
	if f.Site != "" {
		props["site"] = f.Site
	}

	return &Plot{
		Findspot: f,
		Zoom:     zoom,
		Feature: Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: [2]float64{f.Longitude, f.Latitude},
			},
			Properties: props,
		},
		MapURL: f.mapURL(zoom),
	}
}

func (f Findspot) mapURL(zoom int) string {
	lat := formatCoord(f.Latitude)
	lon := formatCoord(f.Longitude)

	q := url.Values{}
	q.Set("mlat", lat)
	q.Set("mlon", lon)

	u := url.URL{
		Scheme:   "https",
		Host:     "www.openstreetmap.org",
		Path:     "/",
		RawQuery: q.Encode(),
		Fragment: fmt.Sprintf("map=%d/%s/%s", zoom, lat, lon),
	}
	return u.String()
}

func formatCoord(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
