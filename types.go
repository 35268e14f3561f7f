package restaurante

import (
	"github.com/shopspring/decimal"
)

// StatusCompleted is the only order status counted by the metrics.
const StatusCompleted = "Concluído"

type Order struct {
	OrderId    int    `csv:"order_id"`
	CustomerId int    `csv:"customer_id"`
	Status     string `csv:"status"`
}

type OrderItem struct {
	OrderId   int `csv:"order_id"`
	ProductId int `csv:"product_id"`
	Quantity  int `csv:"quantity"`
}

type Product struct {
	ProductId    int             `csv:"product_id"`
	Name         string          `csv:"name"`
	SellingPrice decimal.Decimal `csv:"selling_price"`
}

type Customer struct {
	CustomerId int    `csv:"customer_id"`
	Name       string `csv:"name"`
}

// Dataset holds the four source tables fully in memory.
type Dataset struct {
	Orders     []Order
	OrderItems []OrderItem
	Products   []Product
	Customers  []Customer
}

// SaleRecord is one order item of a completed order joined with its product.
type SaleRecord struct {
	OrderId      int
	CustomerId   int
	ProductId    int
	ProductName  string
	Quantity     int
	SellingPrice decimal.Decimal
	Revenue      decimal.Decimal
}

type ProductQuantity struct {
	Name     string
	Quantity int
}

type ProductTicket struct {
	Name   string
	Ticket decimal.Decimal
}

type CustomerOrders struct {
	CustomerId int
	Orders     int
}

type LoyalCustomer struct {
	CustomerId int
	Name       string
	Orders     int
}

type OneTimeCustomers struct {
	Count   int
	Total   int
	Percent float64
}

// Story is the full set of computed characters plus the rankings the charts
// are drawn from.
type Story struct {
	BestSeller    ProductQuantity
	Gourmet       ProductTicket
	LoyalCustomer LoyalCustomer
	OneTime       OneTimeCustomers

	Quantities  []ProductQuantity
	Tickets     []ProductTicket
	SaleRecords int
}
