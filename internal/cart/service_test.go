package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shoppee/shoppee-backend/internal/catalog"
)

// memCart merges lines the way the SQL upsert does: quantities add up,
// the first snapshot wins.
type memCart struct {
	carts map[string]*Cart
}

func newMemCart() *memCart { return &memCart{carts: map[string]*Cart{}} }

func (m *memCart) AddItem(ctx context.Context, userID string, it Item) (*Cart, error) {
	c, ok := m.carts[userID]
	if !ok {
		c = &Cart{UserID: userID}
		m.carts[userID] = c
	}
	for i := range c.Items {
		line := &c.Items[i]
		if line.ProductID == it.ProductID && line.SelectedVariant == it.SelectedVariant {
			line.Quantity += it.Quantity
			return c, nil
		}
	}
	c.Items = append(c.Items, it)
	return c, nil
}

func (m *memCart) Get(ctx context.Context, userID string) (*Cart, error) {
	if c, ok := m.carts[userID]; ok {
		return c, nil
	}
	return &Cart{UserID: userID, Items: []Item{}}, nil
}

func (m *memCart) UpdateQuantity(ctx context.Context, userID string, v Variant, productID string, quantity int) (*Cart, error) {
	c, ok := m.carts[userID]
	if !ok {
		return nil, ErrCartNotFound
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID && c.Items[i].SelectedVariant == v {
			c.Items[i].Quantity = quantity
			return c, nil
		}
	}
	return nil, ErrItemNotFound
}

func (m *memCart) RemoveItem(ctx context.Context, userID string, v Variant, productID string) (*Cart, error) {
	c, ok := m.carts[userID]
	if !ok {
		return nil, ErrCartNotFound
	}
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != productID || it.SelectedVariant != v {
			kept = append(kept, it)
		}
	}
	c.Items = kept
	return c, nil
}

func (m *memCart) Clear(ctx context.Context, userID string) error {
	if c, ok := m.carts[userID]; ok {
		c.Items = nil
	}
	return nil
}

type products map[string]*catalog.Product

func (p products) Get(ctx context.Context, id string) (*catalog.Product, error) {
	if prod, ok := p[id]; ok {
		return prod, nil
	}
	return nil, catalog.ErrNotFound
}

type pricer struct{ unit float64 }

func (p *pricer) UnitPrice(ctx context.Context, prod *catalog.Product, now time.Time) (float64, error) {
	return p.unit, nil
}

func TestAddSnapshotsResolvedPrice(t *testing.T) {
	store := newMemCart()
	svc := &Service{
		Store:    store,
		Products: products{"p1": {ID: "p1", Name: "Sneakers", Price: 1000, Discount: 10}},
		Pricing:  &pricer{unit: 900},
	}

	c, err := svc.Add(context.Background(), "u1", "p1", 2, Variant{Color: "red", Size: "42"})
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	require.Equal(t, 900.0, c.Items[0].PriceAtAddition)
	require.Equal(t, 2, c.Items[0].Quantity)
}

func TestAddMergesKeepingFirstSnapshot(t *testing.T) {
	store := newMemCart()
	px := &pricer{unit: 900}
	svc := &Service{
		Store:    store,
		Products: products{"p1": {ID: "p1", Price: 1000}},
		Pricing:  px,
	}

	_, err := svc.Add(context.Background(), "u1", "p1", 2, Variant{Color: "red", Size: "42"})
	require.NoError(t, err)

	// price changed between adds; merged line keeps the first snapshot
	px.unit = 700
	c, err := svc.Add(context.Background(), "u1", "p1", 3, Variant{Color: "red", Size: "42"})
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	require.Equal(t, 5, c.Items[0].Quantity)
	require.Equal(t, 900.0, c.Items[0].PriceAtAddition)
}

func TestAddDistinctVariantsStayDistinct(t *testing.T) {
	svc := &Service{
		Store:    newMemCart(),
		Products: products{"p1": {ID: "p1", Price: 1000}},
		Pricing:  &pricer{unit: 1000},
	}

	_, err := svc.Add(context.Background(), "u1", "p1", 1, Variant{Color: "red", Size: "42"})
	require.NoError(t, err)
	c, err := svc.Add(context.Background(), "u1", "p1", 1, Variant{Color: "blue", Size: "42"})
	require.NoError(t, err)
	require.Len(t, c.Items, 2)
}

func TestAddDefaultsQuantityToOne(t *testing.T) {
	svc := &Service{
		Store:    newMemCart(),
		Products: products{"p1": {ID: "p1", Price: 10}},
		Pricing:  &pricer{unit: 10},
	}
	c, err := svc.Add(context.Background(), "u1", "p1", 0, Variant{})
	require.NoError(t, err)
	require.Equal(t, 1, c.Items[0].Quantity)
}

func TestAddUnknownProduct(t *testing.T) {
	svc := &Service{Store: newMemCart(), Products: products{}, Pricing: &pricer{}}
	_, err := svc.Add(context.Background(), "u1", "ghost", 1, Variant{})
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestTotalPrice(t *testing.T) {
	c := &Cart{Items: []Item{
		{PriceAtAddition: 900, Quantity: 2},
		{PriceAtAddition: 50, Quantity: 4},
	}}
	require.Equal(t, 2000.0, c.TotalPrice())
}
