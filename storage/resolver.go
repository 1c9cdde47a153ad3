package storage

import "strings"

// ImageURL composes the absolute URL a browser can fetch a stored image from.
// Records written by the current pipeline carry a relative path under the
// static mount; older records stored only a bare filename, so those fall back
// to the default uploads prefix. Pure string composition: the file's actual
// existence is never checked here.
func ImageURL(scheme, host, relativePath, filename string) string {
	base := scheme + "://" + host
	if strings.HasPrefix(relativePath, URLPrefix+"/") {
		return base + relativePath
	}
	return base + URLPrefix + "/" + filename
}
