package offer

import (
	"errors"
	"net/url"
	"strings"
)

var (
	ErrNetworkNotFound    = errors.New("offer network not found")
	ErrNetworkUnavailable = errors.New("offer network is coming soon")
)

// LinkStyle selects how the user id is embedded into a network's offerwall URL.
type LinkStyle string

const (
	LinkStyleQuery    LinkStyle = "query"    // <base>?appid=<app>&userid=<id>
	LinkStyleFragment LinkStyle = "fragment" // <base><id>#loaded=true&hasOffers=true
	LinkStylePath     LinkStyle = "path"     // <base>/<pub>/<id>/<app>
	LinkStyleNone     LinkStyle = "none"
)

// Network is one offerwall provider.
type Network struct {
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	BaseURL     string    `json:"-"`
	Style       LinkStyle `json:"-"`
	AppID       string    `json:"-"`
	PublisherID string    `json:"-"`
	ComingSoon  bool      `json:"coming_soon"`
}

// Link builds the personal offerwall URL for userID.
func (n Network) Link(userID string) (string, error) {
	if n.ComingSoon {
		return "", ErrNetworkUnavailable
	}

	switch n.Style {
	case LinkStyleQuery:
		q := url.Values{}
		q.Set("appid", n.AppID)
		q.Set("userid", userID)
		return n.BaseURL + "?" + q.Encode(), nil
	case LinkStyleFragment:
		return n.BaseURL + url.PathEscape(userID) + "#loaded=true&hasOffers=true", nil
	case LinkStylePath:
		return strings.TrimSuffix(n.BaseURL, "/") + "/" + n.PublisherID + "/" + url.PathEscape(userID) + "/" + n.AppID, nil
	default:
		return n.BaseURL, nil
	}
}

// Catalog is the ordered list of networks shown on the dashboard.
type Catalog struct {
	networks []Network
}

func NewCatalog(networks []Network) *Catalog {
	return &Catalog{networks: networks}
}

// DefaultCatalog returns the networks the offerwall ships with.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Network{
		{
			Slug:        "monlix",
			Name:        "Monlix",
			Description: "Complete simple tasks and offers to earn cash and rewards.",
			ImageURL:    "https://offers.monlix.com/v1/icons/monlix-logo.svg",
			BaseURL:     "https://offers.monlix.com",
			Style:       LinkStyleQuery,
			AppID:       "7212",
		},
		{
			Slug:        "tyrads",
			Name:        "Tyrads",
			Description: "Earn through premium surveys and marketing research opportunities.",
			ImageURL:    "https://tyrads.com/wp-content/uploads/2022/07/Logo-1-e1682960338366.png",
			Style:       LinkStyleNone,
			ComingSoon:  true,
		},
		{
			Slug:        "adgem",
			Name:        "AdGem",
			Description: "Earn through app installs, surveys, and various trial offers.",
			ImageURL:    "https://adgem.com/wp-content/uploads/2019/03/AdGem_Logo_Large.png",
			Style:       LinkStyleNone,
			ComingSoon:  true,
		},
		{
			Slug:        "adgate",
			Name:        "AdGate Media",
			Description: "Complete surveys, watch videos, and more to earn rewards.",
			ImageURL:    "https://images.g2crowd.com/uploads/product/image/social_landscape/social_landscape_4491937cbde9368aa6f1511c51415021/adgate-media.png",
			BaseURL:     "https://wall.adgaterewards.com/nqmTrg/",
			Style:       LinkStyleFragment,
		},
		{
			Slug:        "torox",
			Name:        "Torox",
			Description: "Get rewarded for watching video ads and completing simple tasks.",
			ImageURL:    "https://s3-eu-west-1.amazonaws.com/tpd/logos/6565ae1ff7fc2e73d9cd3925/0x0.png",
			BaseURL:     "https://torox.io/ifr/show",
			Style:       LinkStylePath,
			PublisherID: "20323",
			AppID:       "7977",
		},
	})
}

// Get returns the network with the given slug.
func (c *Catalog) Get(slug string) (Network, error) {
	for _, n := range c.networks {
		if n.Slug == slug {
			return n, nil
		}
	}
	return Network{}, ErrNetworkNotFound
}

// Offer is a network as shown to one user.
type Offer struct {
	Network
	URL string `json:"url,omitempty"`
}

// ForUser lists every network with the user's personal link filled in.
func (c *Catalog) ForUser(userID string) []Offer {
	out := make([]Offer, 0, len(c.networks))
	for _, n := range c.networks {
		o := Offer{Network: n}
		if link, err := n.Link(userID); err == nil {
			o.URL = link
		}
		out = append(out, o)
	}
	return out
}
