// Package footprint converts GeoJSON area-of-interest files into the WKT
// strings the OpenSearch API accepts in its footprint term.
package footprint

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
	gocache "github.com/patrickmn/go-cache"

	"github.com/colhub/hubsync/pkg/constants"
	"github.com/colhub/hubsync/pkg/errors"
)

// Converter reads GeoJSON files and caches their WKT form. Safe for concurrent use.
type Converter struct {
	decimals int
	cache    *gocache.Cache
}

// Option configures a Converter.
type Option func(*Converter)

// WithDecimals sets the coordinate precision of the produced WKT.
func WithDecimals(n int) Option {
	return func(c *Converter) {
		if n >= 0 {
			c.decimals = n
		}
	}
}

// NewConverter creates a converter with the default precision and cache lifetimes.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		decimals: constants.FootprintDecimals,
		cache:    gocache.New(constants.FootprintCacheTTL, constants.FootprintCacheCleanup),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WKT returns the first geometry of the GeoJSON file at path as WKT.
// Conversions are cached per file version, so an edited file is read again.
func (c *Converter) WKT(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", errors.WrapIO("stat", path, err)
	}
	key := fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
	if v, ok := c.cache.Get(key); ok {
		return v.(string), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.WrapIO("read", path, err)
	}
	s, err := c.Convert(data)
	if err != nil {
		var parseErr *errors.ParseError
		if errors.As(err, &parseErr) {
			parseErr.File = path
		}
		return "", err
	}

	c.cache.Set(key, s, gocache.DefaultExpiration)
	return s, nil
}

// Convert turns a GeoJSON document into WKT. A FeatureCollection contributes
// its first feature; a bare Feature or geometry is used as is.
func (c *Converter) Convert(data []byte) (string, error) {
	g, err := firstGeometry(data)
	if err != nil {
		return "", err
	}
	g = orb.Round(orb.Clone(g), int(math.Pow10(c.decimals)))
	return wkt.MarshalString(g), nil
}

// Len reports how many conversions are cached.
func (c *Converter) Len() int {
	return c.cache.ItemCount()
}

func firstGeometry(data []byte) (orb.Geometry, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, errors.WrapParse("geojson", "", err)
	}

	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, errors.WrapParse("geojson", "", err)
		}
		if len(fc.Features) == 0 || fc.Features[0].Geometry == nil {
			return nil, errors.NewParseError("geojson", "", "feature collection has no geometry", nil)
		}
		return fc.Features[0].Geometry, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, errors.WrapParse("geojson", "", err)
		}
		if f.Geometry == nil {
			return nil, errors.NewParseError("geojson", "", "feature has no geometry", nil)
		}
		return f.Geometry, nil
	case "":
		return nil, errors.NewParseError("geojson", "", "missing type member", nil)
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, errors.WrapParse("geojson", "", err)
		}
		return g.Geometry(), nil
	}
}
