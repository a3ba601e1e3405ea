package pagination

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const HeaderTotalCount = "X-Total-Count"

// SetHeaders writes X-Total-Count and an RFC 5988 Link header with
// next, prev, last and first relations. base is the request URL; its
// existing query parameters other than page/size are preserved.
func SetHeaders[T any](h http.Header, base *url.URL, page Page[T], req Pageable) {
	h.Set(HeaderTotalCount, strconv.FormatInt(page.Total, 10))

	last := page.TotalPages() - 1
	links := make([]string, 0, 4)

	if page.HasNext() {
		links = append(links, link(base, req, page.Number+1, "next"))
	}
	if page.HasPrev() {
		links = append(links, link(base, req, page.Number-1, "prev"))
	}
	links = append(links, link(base, req, last, "last"))
	links = append(links, link(base, req, 0, "first"))

	h.Set("Link", strings.Join(links, ","))
}

func link(base *url.URL, req Pageable, number int, rel string) string {
	u := url.URL{Path: base.Path}

	q := url.Values{}
	for k, v := range base.Query() {
		if k == "page" || k == "size" || k == "sort" {
			continue
		}
		q[k] = v
	}
	target := req
	target.Page = number
	for k, v := range target.Query() {
		q[k] = v
	}
	u.RawQuery = q.Encode()

	return "<" + u.String() + ">; rel=\"" + rel + "\""
}
