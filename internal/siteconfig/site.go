package siteconfig

// Site is one deployment target recorded in the site file.
type Site struct {
	ID     string
	Path   string
	Domain string
}

// Exists reports whether the site has been created remotely.
func (s Site) Exists() bool {
	return s.ID != ""
}

// Merge overrides path and domain with non-empty values and reports whether
// anything changed.
func (s *Site) Merge(path, domain string) bool {
	changed := false
	if path != "" && path != s.Path {
		s.Path = path
		changed = true
	}
	if domain != "" && domain != s.Domain {
		s.Domain = domain
		changed = true
	}
	return changed
}
