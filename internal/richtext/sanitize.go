// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package richtext

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// policy accepts what the admin editor produces: user-generated-content
// markup plus alignment, highlighted code spans and embedded video.
var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowStyles("text-align").Globally()
	p.AllowStyles("color", "background-color", "font-weight", "font-style").OnElements("span", "pre")
	p.AllowElements("figure", "figcaption")
	p.AllowAttrs("width", "height", "allowfullscreen", "frameborder").OnElements("iframe")
	p.AllowAttrs("src").Matching(embedSource).OnElements("iframe")
	return p
}

// embedSource limits iframes to the video hosts the newsroom embeds.
var embedSource = regexp.MustCompile(`^https://(www\.youtube(-nocookie)?\.com/embed/|player\.vimeo\.com/video/)`)

// Sanitize strips scripts, event handlers and anything else outside the
// editor policy from an HTML fragment.
func Sanitize(html string) string {
	return policy.Sanitize(html)
}
