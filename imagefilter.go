package medfeed

import (
	"regexp"
	"strings"
)

// DefaultImageExclusions match site chrome, upload boilerplate and a
// known decorative image on the supported sites.
var DefaultImageExclusions = []string{
	`/Common/images/`,
	`/UserUpLoad/`,
	`206387806206834608595421129\.jpg$`,
}

// ImageFilter decides whether an image reference is real content.
type ImageFilter struct {
	exclude []*regexp.Regexp
}

// NewImageFilter compiles the exclusion patterns in order.
func NewImageFilter(patterns ...string) (*ImageFilter, error) {
	f := &ImageFilter{}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid image exclusion pattern %q: %v", p, err)
		}
		f.exclude = append(f.exclude, re)
	}
	return f, nil
}

// MustImageFilter is like NewImageFilter but panics on an invalid pattern.
func MustImageFilter(patterns ...string) *ImageFilter {
	f, err := NewImageFilter(patterns...)
	if err != nil {
		panic(err)
	}
	return f
}

// IsContentImage returns false for a blank src or one matching any
// exclusion pattern. A nil filter excludes only blank sources.
func (f *ImageFilter) IsContentImage(src string) bool {
	if strings.TrimSpace(src) == "" {
		return false
	}
	if f == nil {
		return true
	}
	for _, re := range f.exclude {
		if re.MatchString(src) {
			return false
		}
	}
	return true
}
