package pagination

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultSize = 20
	MaxSize     = 100
	// MaxOffset bounds page*size so the offset never overflows.
	MaxOffset = math.MaxInt32
)

var (
	ErrInvalidPage         = errors.New("invalid page parameter")
	ErrInvalidSize         = errors.New("invalid size parameter")
	ErrUnknownSortProperty = errors.New("unknown sort property")
	ErrInvalidSort         = errors.New("invalid sort parameter")
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SQL returns the keyword used in an ORDER BY clause.
func (d Direction) SQL() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// Order is one sort criterion: a property name and a direction.
type Order struct {
	Property  string
	Direction Direction
}

// Pageable is a page request. Page is zero-based.
type Pageable struct {
	Page int
	Size int
	Sort []Order
}

func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// Page is one slice of a larger result set.
type Page[T any] struct {
	Content []T
	Number  int
	Size    int
	Total   int64
}

func NewPage[T any](content []T, p Pageable, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	return Page[T]{Content: content, Number: p.Page, Size: p.Size, Total: total}
}

// TotalPages is at least 1 so an empty result still has a first/last page.
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 || p.Total == 0 {
		return 1
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}

func (p Page[T]) HasNext() bool { return p.Number+1 < p.TotalPages() }
func (p Page[T]) HasPrev() bool { return p.Number > 0 }

// Parse reads page, size and sort from query values.
//
//	?page=2&size=10&sort=lastName,desc&sort=id
//
// A missing direction means ascending. size is clamped to MaxSize and
// page*size may not exceed MaxOffset.
func Parse(q url.Values) (Pageable, error) {
	p := Pageable{Page: 0, Size: DefaultSize}

	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return p, fmt.Errorf("%w: %q", ErrInvalidPage, raw)
		}
		p.Page = n
	}

	if raw := q.Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, fmt.Errorf("%w: %q", ErrInvalidSize, raw)
		}
		if n > MaxSize {
			n = MaxSize
		}
		p.Size = n
	}

	if p.Page > MaxOffset/p.Size {
		return p, fmt.Errorf("%w: %d is beyond the last addressable page", ErrInvalidPage, p.Page)
	}

	for _, raw := range q["sort"] {
		parts := strings.Split(raw, ",")
		prop := strings.TrimSpace(parts[0])
		if prop == "" {
			return p, fmt.Errorf("%w: %q", ErrInvalidSort, raw)
		}
		o := Order{Property: prop, Direction: Asc}
		if len(parts) > 1 {
			switch strings.ToLower(strings.TrimSpace(parts[1])) {
			case "asc", "":
			case "desc":
				o.Direction = Desc
			default:
				return p, fmt.Errorf("%w: %q", ErrInvalidSort, raw)
			}
		}
		p.Sort = append(p.Sort, o)
	}

	return p, nil
}

// Query renders the page request back into query values, keeping sort order.
func (p Pageable) Query() url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("size", strconv.Itoa(p.Size))
	for _, o := range p.Sort {
		q.Add("sort", o.Property+","+string(o.Direction))
	}
	return q
}
