package program

import (
	"errors"
	"fmt"
	"github.com/gagliardetto/solana-go"
	"math"
	"strings"
)

var (
	ErrEmptyRoute      = errors.New("route has no hops")
	ErrBrokenRoute     = errors.New("route hops are not continuous")
	ErrWrongEndOfRoute = errors.New("route does not end at the destination")
)

// Hop is one traversal of a single pool.
type Hop struct {
	Pool        *Pool
	TokenIn     solana.PublicKey
	TokenOut    solana.PublicKey
	AmountIn    uint64
	AmountOut   uint64
	Fee         uint64
	PriceImpact float64
}

type Route struct {
	Hops        []*Hop
	AmountIn    uint64
	AmountOut   uint64
	PriceImpact float64
	FeeBps      float64
	Confidence  float64
	GasEstimate uint64
}

func (route *Route) HopCount() int {
	return len(route.Hops)
}

func (route *Route) TokenIn() solana.PublicKey {
	if len(route.Hops) == 0 {
		return solana.PublicKey{}
	}
	return route.Hops[0].TokenIn
}

func (route *Route) TokenOut() solana.PublicKey {
	if len(route.Hops) == 0 {
		return solana.PublicKey{}
	}
	return route.Hops[len(route.Hops)-1].TokenOut
}

// Validate checks hop continuity and that the route ends at dst.
func (route *Route) Validate(dst solana.PublicKey) error {
	if len(route.Hops) == 0 {
		return ErrEmptyRoute
	}
	for i := 0; i < len(route.Hops)-1; i++ {
		if route.Hops[i].TokenOut != route.Hops[i+1].TokenIn {
			return fmt.Errorf("%w: hop %d ends at %s, hop %d starts at %s", ErrBrokenRoute,
				i, route.Hops[i].TokenOut, i+1, route.Hops[i+1].TokenIn)
		}
	}
	if route.TokenOut() != dst {
		return fmt.Errorf("%w: %s != %s", ErrWrongEndOfRoute, route.TokenOut(), dst)
	}
	return nil
}

// Path is the ordered list of mints the route visits.
func (route *Route) Path() []solana.PublicKey {
	path := make([]solana.PublicKey, 0, len(route.Hops)+1)
	if len(route.Hops) == 0 {
		return path
	}
	path = append(path, route.Hops[0].TokenIn)
	for _, hop := range route.Hops {
		path = append(path, hop.TokenOut)
	}
	return path
}

func (route *Route) Pools() []*Pool {
	pools := make([]*Pool, 0, len(route.Hops))
	for _, hop := range route.Hops {
		pools = append(pools, hop.Pool)
	}
	return pools
}

// Key identifies a route by the pools it crosses, in order.
func (route *Route) Key() string {
	sb := strings.Builder{}
	for i, hop := range route.Hops {
		if i > 0 {
			sb.WriteString(">")
		}
		sb.WriteString(hop.Pool.Id.String())
	}
	return sb.String()
}

func (route *Route) MinLiquidity() float64 {
	if len(route.Hops) == 0 {
		return 0
	}
	min := math.Inf(1)
	for _, hop := range route.Hops {
		if l := hop.Pool.TotalLiquidity(); l < min {
			min = l
		}
	}
	return min
}

func (route *Route) AvgLiquidity() float64 {
	if len(route.Hops) == 0 {
		return 0
	}
	sum := 0.0
	for _, hop := range route.Hops {
		sum += hop.Pool.TotalLiquidity()
	}
	return sum / float64(len(route.Hops))
}

// Copy returns a route that can be adjusted without touching the original.
// Hops are shared, they are never mutated after simulation.
func (route *Route) Copy() *Route {
	c := *route
	c.Hops = make([]*Hop, 0, len(route.Hops))
	c.Hops = append(c.Hops, route.Hops...)
	return &c
}

// SplitResult is the share of a total input amount assigned to one route.
type SplitResult struct {
	Route          *Route
	Percentage     float64
	Amount         uint64
	ExpectedOutput uint64
}

// PathKey joins mints into an ordered key, used for cycle caches.
func PathKey(path []solana.PublicKey) string {
	items := make([]string, 0, len(path))
	for _, key := range path {
		items = append(items, key.String())
	}
	return strings.Join(items, ">")
}
