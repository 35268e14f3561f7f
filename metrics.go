package restaurante

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNoSales          = errors.New("no completed sale records")
	ErrNoCustomers      = errors.New("no customer with a completed order")
	ErrCustomerNotFound = errors.New("customer not found")
)

// CompletedOrders returns the orders whose status is exactly StatusCompleted.
func CompletedOrders(orders []Order) []Order {
	var out []Order
	for _, o := range orders {
		if o.Status == StatusCompleted {
			out = append(out, o)
		}
	}
	return out
}

// JoinSales inner-joins order items with products on product_id and then with
// the completed orders on order_id. Items whose product or order has no match
// are dropped; duplicated keys yield one record per matching pair.
func JoinSales(ds *Dataset) []SaleRecord {
	products := make(map[int][]Product, len(ds.Products))
	for _, p := range ds.Products {
		products[p.ProductId] = append(products[p.ProductId], p)
	}
	orders := make(map[int][]Order)
	for _, o := range CompletedOrders(ds.Orders) {
		orders[o.OrderId] = append(orders[o.OrderId], o)
	}

	var records []SaleRecord
	for _, item := range ds.OrderItems {
		for _, p := range products[item.ProductId] {
			for _, o := range orders[item.OrderId] {
				records = append(records, SaleRecord{
					OrderId:      item.OrderId,
					CustomerId:   o.CustomerId,
					ProductId:    p.ProductId,
					ProductName:  p.Name,
					Quantity:     item.Quantity,
					SellingPrice: p.SellingPrice,
					Revenue:      decimal.NewFromInt(int64(item.Quantity)).Mul(p.SellingPrice),
				})
			}
		}
	}
	return records
}

// BestSellers sums quantity per product name. The result is ordered by
// quantity descending, then name ascending.
func BestSellers(records []SaleRecord) []ProductQuantity {
	totals := make(map[string]int)
	for _, r := range records {
		totals[r.ProductName] += r.Quantity
	}

	out := make([]ProductQuantity, 0, len(totals))
	for name, qty := range totals {
		out = append(out, ProductQuantity{Name: name, Quantity: qty})
	}
	slices.SortFunc(out, func(a, b ProductQuantity) int {
		if c := cmp.Compare(b.Quantity, a.Quantity); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

type orderProduct struct {
	orderId int
	name    string
}

// AverageTickets computes, per product name, the mean revenue of the orders
// the product appears in. Rows of the same product within one order are
// summed first so each order counts once. Ordered by ticket descending, then
// name ascending.
func AverageTickets(records []SaleRecord) []ProductTicket {
	perOrder := make(map[orderProduct]decimal.Decimal)
	for _, r := range records {
		k := orderProduct{orderId: r.OrderId, name: r.ProductName}
		perOrder[k] = perOrder[k].Add(r.Revenue)
	}

	sums := make(map[string]decimal.Decimal)
	counts := make(map[string]int64)
	for k, rev := range perOrder {
		sums[k.name] = sums[k.name].Add(rev)
		counts[k.name]++
	}

	out := make([]ProductTicket, 0, len(sums))
	for name, sum := range sums {
		out = append(out, ProductTicket{
			Name:   name,
			Ticket: sum.Div(decimal.NewFromInt(counts[name])),
		})
	}
	slices.SortFunc(out, func(a, b ProductTicket) int {
		if c := b.Ticket.Cmp(a.Ticket); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// OrdersPerCustomer counts distinct order ids per customer among the given
// orders. Ordered by count descending, then customer id ascending.
func OrdersPerCustomer(orders []Order) []CustomerOrders {
	seen := make(map[int]map[int]struct{})
	for _, o := range orders {
		ids, ok := seen[o.CustomerId]
		if !ok {
			ids = make(map[int]struct{})
			seen[o.CustomerId] = ids
		}
		ids[o.OrderId] = struct{}{}
	}

	out := make([]CustomerOrders, 0, len(seen))
	for id, ids := range seen {
		out = append(out, CustomerOrders{CustomerId: id, Orders: len(ids)})
	}
	slices.SortFunc(out, func(a, b CustomerOrders) int {
		if c := cmp.Compare(b.Orders, a.Orders); c != 0 {
			return c
		}
		return cmp.Compare(a.CustomerId, b.CustomerId)
	})
	return out
}

// FindLoyalCustomer takes the top entry of a ranking built by
// OrdersPerCustomer and resolves its name.
func FindLoyalCustomer(ranking []CustomerOrders, customers []Customer) (LoyalCustomer, error) {
	if len(ranking) == 0 {
		return LoyalCustomer{}, ErrNoCustomers
	}
	top := ranking[0]
	idx := slices.IndexFunc(customers, func(c Customer) bool {
		return c.CustomerId == top.CustomerId
	})
	if idx < 0 {
		return LoyalCustomer{}, fmt.Errorf("%w: customer_id %d", ErrCustomerNotFound, top.CustomerId)
	}
	return LoyalCustomer{
		CustomerId: top.CustomerId,
		Name:       customers[idx].Name,
		Orders:     top.Orders,
	}, nil
}

// CountOneTimeCustomers counts customers with exactly one order. Percent is
// relative to every customer in the ranking and is 0 for an empty ranking.
func CountOneTimeCustomers(ranking []CustomerOrders) OneTimeCustomers {
	out := OneTimeCustomers{Total: len(ranking)}
	for _, c := range ranking {
		if c.Orders == 1 {
			out.Count++
		}
	}
	if out.Total > 0 {
		out.Percent = 100 * float64(out.Count) / float64(out.Total)
	}
	return out
}

// Compute derives every character of the story from ds.
func Compute(ds *Dataset) (*Story, error) {
	records := JoinSales(ds)
	if len(records) == 0 {
		return nil, ErrNoSales
	}

	quantities := BestSellers(records)
	tickets := AverageTickets(records)

	ranking := OrdersPerCustomer(CompletedOrders(ds.Orders))
	loyal, err := FindLoyalCustomer(ranking, ds.Customers)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve loyal customer: %w", err)
	}

	return &Story{
		BestSeller:    quantities[0],
		Gourmet:       tickets[0],
		LoyalCustomer: loyal,
		OneTime:       CountOneTimeCustomers(ranking),
		Quantities:    quantities,
		Tickets:       tickets,
		SaleRecords:   len(records),
	}, nil
}
