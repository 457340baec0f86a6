package service

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"linksift/internal/domain"
)

// OtherSite collects links without a host, such as mailto addresses.
const OtherSite = "other"

// SiteGroup is the set of links that share a registrable domain.
type SiteGroup struct {
	Site  string
	Links []domain.ExtractedURL
}

// GroupBySite groups list by registrable domain (eTLD+1). Hosts without a
// public suffix, like localhost or IP addresses, group under the bare host.
// Groups keep the order in which their first link appears.
func GroupBySite(list []domain.ExtractedURL) []SiteGroup {
	var groups []SiteGroup
	index := make(map[string]int)

	for _, link := range list {
		site := siteOf(link.URL)
		i, ok := index[site]
		if !ok {
			i = len(groups)
			index[site] = i
			groups = append(groups, SiteGroup{Site: site})
		}
		groups[i].Links = append(groups[i].Links, link)
	}
	return groups
}

func siteOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return OtherSite
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return OtherSite
	}
	if net.ParseIP(host) != nil {
		return host
	}
	site, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return site
}
