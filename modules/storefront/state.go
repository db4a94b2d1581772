package storefront

import (
	"context"
	"time"

	"github.com/example/storefront/domain/product"
	"github.com/example/storefront/domain/resource"
	"github.com/example/storefront/modules/cart"
)

// ProductState is what a product screen renders.
type ProductState struct {
	Products     []product.Product `json:"products"`
	Loading      bool              `json:"loading"`
	ErrorMessage string            `json:"error,omitempty"`
}

// ToProductState flattens a product envelope. Loading and Error keep their
// fallback list.
func ToProductState(r resource.Resource[[]product.Product]) ProductState {
	products := r.Data
	if products == nil {
		products = []product.Product{}
	}
	state := ProductState{Products: products}
	switch r.Status {
	case resource.StatusLoading:
		state.Loading = true
	case resource.StatusError:
		state.ErrorMessage = r.Message
	}
	return state
}

// HomeView is a filtered product screen with the options the filters offer.
type HomeView struct {
	ProductState
	Options  FilterOptions `json:"options"`
	Criteria Criteria      `json:"criteria"`
	Total    int           `json:"total"`
}

// ProductFeed is a shared product stream viewed through criteria.
type ProductFeed struct {
	shared      *Shared[ProductState]
	optionLimit int
}

// NewProductFeed shares upstream among subscribers. optionLimit caps the
// brand and model option lists; zero means no cap.
func NewProductFeed(upstream func(ctx context.Context) <-chan resource.Resource[[]product.Product], grace time.Duration, optionLimit int) *ProductFeed {
	mapped := func(ctx context.Context) <-chan ProductState {
		return mapStream(ctx, upstream(ctx), ToProductState)
	}
	return &ProductFeed{
		shared:      NewShared(mapped, ProductState{Products: []product.Product{}, Loading: true}, grace),
		optionLimit: optionLimit,
	}
}

// Subscribe streams unfiltered states until ctx is done.
func (f *ProductFeed) Subscribe(ctx context.Context) <-chan ProductState {
	return f.shared.Subscribe(ctx)
}

// Views streams states filtered by c until ctx is done.
func (f *ProductFeed) Views(ctx context.Context, c Criteria) <-chan HomeView {
	return mapStream(ctx, f.shared.Subscribe(ctx), func(s ProductState) HomeView {
		return f.View(s, c)
	})
}

// Current waits for the first settled state and filters it by c. When ctx
// ends first the latest state is returned with ctx's error.
func (f *ProductFeed) Current(ctx context.Context, c Criteria) (HomeView, error) {
	s, err := f.shared.Await(ctx, settledProducts)
	return f.View(s, c), err
}

func settledProducts(s ProductState) bool {
	return !s.Loading
}

// View filters s by c. Options come from the unfiltered list.
func (f *ProductFeed) View(s ProductState, c Criteria) HomeView {
	filtered := s
	filtered.Products = Apply(s.Products, c)
	return HomeView{
		ProductState: filtered,
		Options:      Options(s.Products, f.optionLimit),
		Criteria:     c,
		Total:        len(s.Products),
	}
}

// Shared exposes the underlying holder.
func (f *ProductFeed) Shared() *Shared[ProductState] {
	return f.shared
}

// Close stops the upstream.
func (f *ProductFeed) Close() {
	f.shared.Close()
}

// CartState is what the cart screen renders.
type CartState struct {
	cart.Snapshot
	Loading      bool   `json:"loading"`
	ErrorMessage string `json:"error,omitempty"`
}

// ToCartState flattens a cart envelope.
func ToCartState(r cart.ItemsResource) CartState {
	state := CartState{Snapshot: cart.NewSnapshot(r.Data)}
	switch r.Status {
	case resource.StatusLoading:
		state.Loading = true
	case resource.StatusError:
		state.ErrorMessage = r.Message
	}
	return state
}

// CartFeed is a shared cart stream.
type CartFeed struct {
	shared *Shared[CartState]
}

// NewCartFeed shares upstream among subscribers.
func NewCartFeed(upstream func(ctx context.Context) <-chan cart.ItemsResource, grace time.Duration) *CartFeed {
	mapped := func(ctx context.Context) <-chan CartState {
		return mapStream(ctx, upstream(ctx), ToCartState)
	}
	initial := CartState{Snapshot: cart.NewSnapshot(nil), Loading: true}
	return &CartFeed{shared: NewShared(mapped, initial, grace)}
}

// Subscribe streams cart states until ctx is done.
func (f *CartFeed) Subscribe(ctx context.Context) <-chan CartState {
	return f.shared.Subscribe(ctx)
}

// Current waits for the first settled cart state.
func (f *CartFeed) Current(ctx context.Context) (CartState, error) {
	return f.shared.Await(ctx, func(s CartState) bool { return !s.Loading })
}

// Shared exposes the underlying holder.
func (f *CartFeed) Shared() *Shared[CartState] {
	return f.shared
}

// Close stops the upstream.
func (f *CartFeed) Close() {
	f.shared.Close()
}

// mapStream applies fn to every value of in. The output closes when in closes
// or ctx is done.
func mapStream[In, Out any](ctx context.Context, in <-chan In, fn func(In) Out) <-chan Out {
	out := make(chan Out)
	go func() {
		defer close(out)
		for {
			select {
			case v, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- fn(v):
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
