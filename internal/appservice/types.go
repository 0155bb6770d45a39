package appservice

import "strings"

// Site is a deployed web app.
type Site struct {
	Name            string `json:"name"`
	ResourceGroup   string `json:"resourceGroup"`
	Location        string `json:"location"`
	Kind            string `json:"kind"`
	State           string `json:"state"`
	DefaultHostName string `json:"defaultHostName"`
	PlanName        string `json:"planName"`
}

// FullyQualifiedName returns the target identity used to key tunnel sessions
// and registry entries: unique across resource groups.
func (s *Site) FullyQualifiedName() string {
	return s.ResourceGroup + "/" + s.Name
}

// SupportsTunneling reports whether the site's platform can host a raw
// tunnel. Only running Linux apps expose the tunnel port.
func (s *Site) SupportsTunneling() bool {
	return strings.Contains(s.Kind, "linux") && strings.EqualFold(s.State, "Running")
}

// SiteConfig is the mutable per-site configuration the session manager
// snapshots and restores around a tunnel session.
type SiteConfig struct {
	RemoteDebuggingEnabled bool   `json:"remoteDebuggingEnabled"`
	RemoteDebuggingVersion string `json:"remoteDebuggingVersion,omitempty"`
	LinuxFxVersion         string `json:"linuxFxVersion,omitempty"`
	AlwaysOn               bool   `json:"alwaysOn"`
}

// PublishingCredentials are the short-lived credentials used to open the
// tunnel and log in to the remote shell.
type PublishingCredentials struct {
	UserName string `json:"publishingUserName"`
	Password string `json:"publishingPassword"`
	SCMURI   string `json:"scmUri"`
}

// TunnelHost returns the host the tunnel proxy dials, derived from the SCM
// endpoint of the site.
func (c *PublishingCredentials) TunnelHost() string {
	host := strings.TrimPrefix(c.SCMURI, "https://")
	host = strings.TrimPrefix(host, "http://")
	if at := strings.LastIndex(host, "@"); at >= 0 {
		host = host[at+1:]
	}
	return strings.TrimSuffix(host, "/")
}

// Plan is an app service plan (the compute a site runs on).
type Plan struct {
	Name          string `json:"name"`
	ResourceGroup string `json:"resourceGroup"`
	Location      string `json:"location"`
	SKU           string `json:"sku"`
}

// PlanSpec describes a plan to create.
type PlanSpec struct {
	Name          string `json:"name"`
	ResourceGroup string `json:"resourceGroup"`
	Location      string `json:"location"`
	SKU           string `json:"sku"`
}

// SiteSpec describes a site to create.
type SiteSpec struct {
	Name          string `json:"name"`
	ResourceGroup string `json:"resourceGroup"`
	Location      string `json:"location"`
	PlanName      string `json:"planName"`
	Runtime       string `json:"runtime"`
}

// Slot is a deployment slot of a site. The production slot is named
// "production" and always exists.
type Slot struct {
	Name string `json:"name"`
}

// ProductionSlot is the implicit slot every site has.
const ProductionSlot = "production"

// Location is a region sites can be created in.
type Location struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// Runtime is a selectable application stack, e.g. "NODE|20-lts".
type Runtime struct {
	DisplayName string `json:"displayName"`
	Value       string `json:"value"`
}
